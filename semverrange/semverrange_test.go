package semverrange

import "testing"

func TestSatisfies(t *testing.T) {
	cases := []struct {
		version string
		rng     string
		want    bool
	}{
		{"1.3.0", "^2.0", false},
		{"2.4.1", "^2.0", true},
		{"1.0.0", "", true},
		{"5.0.0", ">=1.3,<2", false},
		{"1.3.0", ">=1.3,<2", true},
	}

	for _, c := range cases {
		got, err := Satisfies(c.version, c.rng)
		if err != nil {
			t.Fatalf("Satisfies(%q, %q) returned error: %v", c.version, c.rng, err)
		}
		if got != c.want {
			t.Errorf("Satisfies(%q, %q) = %v, want %v", c.version, c.rng, got, c.want)
		}
	}
}

func TestSatisfiesInvalidVersion(t *testing.T) {
	if _, err := Satisfies("not-a-version", "^1.0"); err == nil {
		t.Fatal("expected an error for an unparseable version")
	}
}

func TestHighest(t *testing.T) {
	got, err := Highest("1.2.0", "1.10.0")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != "1.10.0" {
		t.Fatalf("expected 1.10.0, got %s", got)
	}
}
