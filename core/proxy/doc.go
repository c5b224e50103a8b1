// Package proxy presents parsed exports through typed overlays with
// engine-accurate defaults.
//
// Serialized objects only carry properties that differ from their class
// defaults, so a bare property table is full of meaningful holes. A proxy
// fills those holes: each supported engine type registers its default
// field slots once, and materializing a proxy for an export seeds the
// defaults and overlays the export's actual values per index slot.
//
// Registration is a registry-of-descriptors, not inheritance: anything
// able to provide a type string and a default field map can register.
package proxy
