// Package opattrs loads the table an Attr pattern needs when it
// targets an op by name rather than a concrete Call expression's own
// attribute bag: a per-op schema of known attribute names and their
// default values, configured the way the teacher's pkg/config loads
// dingo.toml (BurntSushi/toml, load-if-present, defaults otherwise).
package opattrs

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// OpSpec is one operator's known attribute schema.
type OpSpec struct {
	// Attrs maps attribute name to its default value, decoded from
	// TOML's native scalar types (bool/int64/float64/string) plus
	// homogeneous arrays of those.
	Attrs map[string]interface{} `toml:"attrs"`
}

// Registry is the full op -> schema table, keyed by op name (e.g.
// "conv2d", "add").
type Registry struct {
	Ops map[string]OpSpec `toml:"ops"`
}

// Default returns a Registry seeded with the handful of ops the
// worked examples in spec §8 exercise (conv2d, dense, add, multiply,
// relu), so callers that never configure a TOML file still get a
// usable registry.
func Default() *Registry {
	return &Registry{
		Ops: map[string]OpSpec{
			"conv2d": {Attrs: map[string]interface{}{"strides": []interface{}{int64(1), int64(1)}, "padding": "SAME"}},
			"dense":  {Attrs: map[string]interface{}{"units": int64(0)}},
			"add":    {Attrs: map[string]interface{}{}},
			"multiply": {Attrs: map[string]interface{}{}},
			"relu":   {Attrs: map[string]interface{}{}},
		},
	}
}

// Load reads path as TOML into a fresh Registry seeded from Default,
// so a config file only needs to mention the ops it wants to
// override or add. A missing file is not an error — Default alone is
// returned — matching loadConfigFile's "absent means use defaults"
// convention.
func Load(path string) (*Registry, error) {
	reg := Default()
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return reg, nil
	}
	if _, err := toml.DecodeFile(path, reg); err != nil {
		return nil, fmt.Errorf("opattrs: failed to parse %s: %w", path, err)
	}
	return reg, nil
}

// AttrMap returns op's registered attribute schema, or nil if op has
// no entry.
func (r *Registry) AttrMap(op string) map[string]interface{} {
	spec, ok := r.Ops[op]
	if !ok {
		return nil
	}
	return spec.Attrs
}

// HasAttrMap reports whether op has a registered schema at all,
// distinguishing "no attributes" (empty map) from "unknown op" (no
// entry) the way spec §4.8's has_attr_map/attr_map pairing requires.
func (r *Registry) HasAttrMap(op string) bool {
	_, ok := r.Ops[op]
	return ok
}
