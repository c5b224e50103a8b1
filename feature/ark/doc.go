// Package ark declares the game object types the extractor understands.
//
// Each type registers its engine defaults with the proxy registry so
// that materialized exports expose complete field sets even though the
// serialized data only carries overridden values. Registration happens
// at package init against the process-wide registry; tests register
// against isolated registries via RegisterTypes.
package ark
