// Package config implements the optional feature-flag set a host can
// use to pin a reduced build profile: which native function families
// this runtime's registry offers. Only native function names are
// consulted (by internal/kernel.FilteredRegistry); a name of an element
// kind or a matrix shape has no effect on dispatch. Grounded
// on this module's own internal/kernel.Registry naming scheme (feature
// names are exactly the NativeFunctionCompiler names the registry
// already keys on, e.g. "math/add", "stats/sum/row") and loaded via
// gopkg.in/yaml.v3, already a teacher transitive dependency.
package config

import (
	"os"

	"gopkg.in/yaml.v3"

	mecherrors "mech/internal/errors"
)

// FeatureSet is a flat set of feature flags keyed by name. A name with
// no entry is enabled by default, so a config file only needs to list
// the features it wants turned off.
type FeatureSet struct {
	Enabled map[string]bool `yaml:"enabled"`
}

// Default returns a FeatureSet with nothing disabled: IsEnabled
// reports true for every name, the "everything enabled" profile used
// when no config file is given.
func Default() *FeatureSet {
	return &FeatureSet{}
}

// Load reads a YAML feature-flag file of the shape:
//
//	enabled:
//	  math/add: true
//	  stats/sum/row: false
//
// An empty path is treated as "no file given" and returns Default().
func Load(path string) (*FeatureSet, error) {
	if path == "" {
		return Default(), nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, mecherrors.Wrap(err, mecherrors.IoError, "config: reading %s", path)
	}
	var fs FeatureSet
	if err := yaml.Unmarshal(data, &fs); err != nil {
		return nil, mecherrors.Wrap(err, mecherrors.IoError, "config: parsing %s", path)
	}
	return &fs, nil
}

// IsEnabled reports whether name is compiled in. A nil FeatureSet (the
// zero value of *FeatureSet) behaves like Default().
func (f *FeatureSet) IsEnabled(name string) bool {
	if f == nil || f.Enabled == nil {
		return true
	}
	v, ok := f.Enabled[name]
	if !ok {
		return true
	}
	return v
}
