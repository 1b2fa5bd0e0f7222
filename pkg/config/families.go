package config

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// KeySeparator joins a family and a size, e.g. "m5" + "." + "large".
const KeySeparator = "."

// Families maps an instance family to its valid sizes.
type Families map[string][]string

// DefaultFamilies returns the built-in table of tracked families.
func DefaultFamilies() Families {
	return Families{
		"m5": {"large", "xlarge", "2xlarge", "4xlarge", "8xlarge", "12xlarge", "16xlarge", "24xlarge", "metal"},
		"c5": {"large", "xlarge", "2xlarge", "4xlarge", "9xlarge", "12xlarge", "18xlarge", "24xlarge", "metal"},
	}
}

// Names returns the configured family names in sorted order.
func (f Families) Names() []string {
	names := make([]string, 0, len(f))
	for name := range f {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Sizes returns the sizes configured for a family.
func (f Families) Sizes(family string) ([]string, bool) {
	sizes, ok := f[family]
	if !ok {
		return nil, false
	}
	return slices.Clone(sizes), true
}

// Has reports whether the family is configured.
func (f Families) Has(family string) bool {
	_, ok := f[family]
	return ok
}

// Clone returns a deep copy so callers cannot mutate shared state.
func (f Families) Clone() Families {
	out := make(Families, len(f))
	for name, sizes := range f {
		out[name] = slices.Clone(sizes)
	}
	return out
}

// Validate rejects names that would produce ambiguous instance-type-size keys.
func (f Families) Validate() error {
	for _, name := range f.Names() {
		if name == "" {
			return fmt.Errorf("family name must not be empty")
		}
		if strings.Contains(name, KeySeparator) {
			return fmt.Errorf("family %q must not contain %q", name, KeySeparator)
		}
		sizes := f[name]
		if len(sizes) == 0 {
			return fmt.Errorf("family %q has no sizes", name)
		}
		seen := make(map[string]bool, len(sizes))
		for _, size := range sizes {
			if size == "" {
				return fmt.Errorf("family %q has an empty size", name)
			}
			if seen[size] {
				return fmt.Errorf("family %q lists size %q twice", name, size)
			}
			seen[size] = true
		}
	}
	return nil
}
