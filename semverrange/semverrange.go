// Package semverrange checks whether a locally present component version
// satisfies a dependency's declared semver range (e.g. "^2.0", ">=1.3,<2").
//
// The loader is the only user, directly and through
// recipe.Identifier.Satisfies: a parameter file or template that
// declares a dependency on a template names a range, and the loader needs
// to know whether the highest locally indexed version of that template
// name satisfies it before pairing the two recipes.
package semverrange

import (
	"fmt"

	"github.com/Masterminds/semver/v3"
)

// Satisfies reports whether version satisfies the given range expression.
// An empty rangeExpr matches any parseable version, mirroring a dependency
// declared with no version constraint.
func Satisfies(version, rangeExpr string) (bool, error) {
	v, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("invalid version %q: %w", version, err)
	}

	if rangeExpr == "" {
		return true, nil
	}

	constraint, err := semver.NewConstraint(rangeExpr)
	if err != nil {
		return false, fmt.Errorf("invalid version range %q: %w", rangeExpr, err)
	}

	return constraint.Check(v), nil
}

// Highest returns the highest of two version strings. Used by the loader
// when more than one recipe carries the same template name: only the
// highest version is kept for resolution.
func Highest(a, b string) (string, error) {
	va, err := semver.NewVersion(a)
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", a, err)
	}
	vb, err := semver.NewVersion(b)
	if err != nil {
		return "", fmt.Errorf("invalid version %q: %w", b, err)
	}
	if va.GreaterThan(vb) {
		return a, nil
	}
	return b, nil
}
