package proxy

import (
	"asset-extractor/core/ue"
)

// Registry maps engine type strings to declarative default property sets.
// Types register once at process start; the registry is read-only
// afterwards.
type Registry struct {
	types map[string]*Descriptor
}

// Descriptor is one registered type: its full engine type string and the
// per-property default value slots, fixed at registration time.
type Descriptor struct {
	Type     string
	Defaults map[string]map[int]ue.Value
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{types: make(map[string]*Descriptor)}
}

// Register declares the default property set for an engine type. The
// defaults are copied; later mutation of the argument has no effect.
// Registering a type twice replaces the earlier descriptor.
func (r *Registry) Register(uetype string, defaults map[string]map[int]ue.Value) {
	d := &Descriptor{Type: uetype, Defaults: make(map[string]map[int]ue.Value, len(defaults))}
	for name, slots := range defaults {
		copied := make(map[int]ue.Value, len(slots))
		for i, v := range slots {
			copied[i] = v
		}
		d.Defaults[name] = copied
	}
	r.types[uetype] = d
}

// Lookup returns the descriptor registered for the given engine type, or
// nil. Used for reverse lookup during heterogeneous traversal: "is there
// a proxy type for this export's declared class?".
func (r *Registry) Lookup(uetype string) *Descriptor {
	return r.types[uetype]
}

// Instantiate returns a fresh proxy for the given engine type, seeded with
// the registered defaults, or nil for unregistered types. Callers treat
// unregistered types as skippable, never as an error.
func (r *Registry) Instantiate(uetype string) *Proxy {
	d := r.types[uetype]
	if d == nil {
		return nil
	}
	p := &Proxy{
		uetype:    d.Type,
		fields:    make(map[string]map[int]ue.Value, len(d.Defaults)),
		overrides: make(map[string]map[int]bool),
	}
	for name, slots := range d.Defaults {
		copied := make(map[int]ue.Value, len(slots))
		for i, v := range slots {
			copied[i] = v
		}
		p.fields[name] = copied
	}
	return p
}

// FromExport materializes a proxy for a linked export: the registry entry
// matching the export's declared class seeds the defaults, and the
// export's own property table overrides them. Returns nil when the class
// has no registered proxy type.
func (r *Registry) FromExport(export *ue.Export) *Proxy {
	if export == nil || export.Class.IsNull() {
		return nil
	}
	p := r.Instantiate(export.Class.FullName())
	if p == nil {
		return nil
	}
	p.source = export
	p.Update(export.Properties.Sparse())
	return p
}

// Default is the process-wide registry that game type definitions
// register into at init. The loader takes a registry at construction, so
// tests can substitute an isolated one.
var Default = NewRegistry()

// Register declares a type on the Default registry.
func Register(uetype string, defaults map[string]map[int]ue.Value) {
	Default.Register(uetype, defaults)
}
