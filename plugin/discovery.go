package plugin

import (
	"sort"
	"strings"

	"github.com/edgeforge/recipex/xerrors"
)

// transformSuffix is the well-known entrypoint convention a transformer
// artifact's guest module must expose: the engine scans a loaded module's
// exported function names for any ending in this suffix and treats the
// stripped prefix as the transformer's identity. This stands in for the
// source implementation's "scan for concrete subclasses of a transformer
// base class" in a world with no classpath reflection.
const transformSuffix = "_transform"

// discoverTransformerPrefix scans a module's exported function names for
// exactly one distinct prefix using the well-known "<prefix>_transform"
// convention. It is kept free of any wazero/runtime dependency so it can be
// tested directly against a plain slice of names.
func discoverTransformerPrefix(exportedNames []string) (string, error) {
	seen := make(map[string]bool)
	for _, name := range exportedNames {
		if prefix, ok := strings.CutSuffix(name, transformSuffix); ok && prefix != "" {
			seen[prefix] = true
		}
	}

	switch len(seen) {
	case 0:
		return "", xerrors.PluginError("no candidate transformer", nil)
	case 1:
		for prefix := range seen {
			return prefix, nil
		}
		panic("unreachable")
	default:
		prefixes := make([]string, 0, len(seen))
		for prefix := range seen {
			prefixes = append(prefixes, prefix)
		}
		sort.Strings(prefixes)
		return "", xerrors.PluginError("multiple candidate transformers: "+strings.Join(prefixes, ", "), nil)
	}
}
