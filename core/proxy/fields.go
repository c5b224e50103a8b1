package proxy

import (
	"asset-extractor/core/ue"
)

// Proxy is a typed view over one export's properties: every field starts
// at its engine default and values actually present in the export shadow
// those defaults per index slot. Proxies are cheap to build and are never
// cached.
type Proxy struct {
	uetype    string
	fields    map[string]map[int]ue.Value
	overrides map[string]map[int]bool
	source    *ue.Export
}

// Type returns the engine type string the proxy was registered under.
func (p *Proxy) Type() string {
	return p.uetype
}

// Source returns the export this proxy was materialized from, or nil for
// a bare Instantiate.
func (p *Proxy) Source() *ue.Export {
	return p.source
}

// Update merges sparse index-addressed overrides into the field maps.
// Overrides never remove a default index; they add or replace slots, and
// a field absent from the defaults is created. The merge is tolerant and
// cannot fail.
func (p *Proxy) Update(values map[string]map[int]ue.Value) {
	for name, slots := range values {
		field := p.fields[name]
		if field == nil {
			field = make(map[int]ue.Value, len(slots))
			p.fields[name] = field
		}
		marked := p.overrides[name]
		if marked == nil {
			marked = make(map[int]bool, len(slots))
			p.overrides[name] = marked
		}
		for i, v := range slots {
			field[i] = v
			marked[i] = true
		}
	}
}

// HasOverride reports whether the given field slot was set by Update
// rather than inherited from the defaults.
func (p *Proxy) HasOverride(name string, index int) bool {
	return p.overrides[name][index]
}

// Get returns the value in the given field slot, or nil if unset. An
// unset slot is distinct from a slot holding a zero value.
func (p *Proxy) Get(name string, index int) ue.Value {
	return p.fields[name][index]
}

// Float returns the field slot as a float64, or 0 if unset or not a
// float.
func (p *Proxy) Float(name string, index int) float64 {
	if v, ok := p.Get(name, index).(ue.FloatValue); ok {
		return float64(v)
	}
	return 0
}

// Int returns the field slot as an int, or 0 if unset or not an int.
func (p *Proxy) Int(name string, index int) int {
	if v, ok := p.Get(name, index).(ue.IntValue); ok {
		return int(v)
	}
	return 0
}

// Bool returns the field slot as a bool; unset slots are false.
func (p *Proxy) Bool(name string, index int) bool {
	if v, ok := p.Get(name, index).(ue.BoolValue); ok {
		return bool(v)
	}
	return false
}

// Floats builds a sparse float field default from positional values.
func Floats(values ...float32) map[int]ue.Value {
	out := make(map[int]ue.Value, len(values))
	for i, v := range values {
		out[i] = ue.FloatValue(v)
	}
	return out
}

// Ints builds a sparse int field default from positional values.
func Ints(values ...int32) map[int]ue.Value {
	out := make(map[int]ue.Value, len(values))
	for i, v := range values {
		out[i] = ue.IntValue(v)
	}
	return out
}

// Bools builds a sparse bool field default from positional values.
func Bools(values ...bool) map[int]ue.Value {
	out := make(map[int]ue.Value, len(values))
	for i, v := range values {
		out[i] = ue.BoolValue(v)
	}
	return out
}

// Bytes builds a sparse byte field default from positional values.
func Bytes(values ...uint8) map[int]ue.Value {
	out := make(map[int]ue.Value, len(values))
	for i, v := range values {
		out[i] = ue.ByteValue(v)
	}
	return out
}
