package ue

import (
	"fmt"

	"asset-extractor/core/stream"
)

// instanceStructSize is the serialized size of one placement record. The
// engine stores it ahead of the records as a layout guard; a mismatch
// means the format drifted and every following offset would be wrong.
const instanceStructSize = 80

// StripDataFlags gate optional sections of specialized binary payloads.
// The global byte covers editor/server stripping, the class byte carries
// per-type custom strip bits.
type StripDataFlags struct {
	Global uint8
	Class  uint8
}

func readStripDataFlags(r *stream.Reader) StripDataFlags {
	return StripDataFlags{Global: r.UInt8(), Class: r.UInt8()}
}

// StrippedForEditor reports whether editor-only data was removed.
func (f StripDataFlags) StrippedForEditor() bool {
	return f.Global&1 != 0
}

// StrippedForServer reports whether server-only data was removed.
func (f StripDataFlags) StrippedForServer() bool {
	return f.Global&2 != 0
}

// StrippedForCustom reports whether the class-specific data selected by
// mask was removed.
func (f StripDataFlags) StrippedForCustom(mask uint8) bool {
	return f.Class&mask != 0
}

// Vector3 is a 3-component translation.
type Vector3 struct {
	X float32
	Y float32
	Z float32
}

// InstancedGeometry is the decoded trailing payload of instanced static
// mesh components: the world position of every placed instance. Rotation,
// scale and UV bias fields are consumed as padding.
type InstancedGeometry struct {
	Instances []Vector3
}

// afterPropertyTable maps object class names to parsers for the
// specialized binary payload serialized after their property tables.
var afterPropertyTable = map[string]func(*stream.Reader, *Export) error{
	"HierarchicalInstancedStaticMeshComponent": readInstancedGeometry,
	"InstancedStaticMeshComponent":             readInstancedGeometry,
}

func readInstancedGeometry(r *stream.Reader, export *Export) error {
	lodCount := int(r.UInt32())
	if err := r.Err(); err != nil {
		return err
	}

	for lod := 0; lod < lodCount; lod++ {
		flags := readStripDataFlags(r)

		// Light and shadow map references.
		if !flags.StrippedForServer() {
			r.Skip(8)
		}

		// Vertex colorization data.
		if !flags.StrippedForCustom(1) {
			if r.Bool8() {
				colorFlags := readStripDataFlags(r)
				r.Skip(4)
				colorCount := int(r.UInt32())
				if colorCount > 0 && !colorFlags.StrippedForServer() {
					r.Skip(4*colorCount + 8)
				}
			}
		}

		// Painted vertices.
		if !flags.StrippedForEditor() {
			paintCount := int(r.UInt32())
			if err := r.Err(); err != nil {
				return fmt.Errorf("lod %d: %w", lod, err)
			}
			r.Skip(paintCount * (3*4 + 4*4 + 1))
		}

		if err := r.Err(); err != nil {
			return fmt.Errorf("lod %d: %w", lod, err)
		}
	}

	// Placement records follow as a raw memory dump preceded by the
	// record size.
	if size := r.UInt32(); r.Err() == nil && size != instanceStructSize {
		return fmt.Errorf("instance struct size %d, want %d", size, instanceStructSize)
	}
	count := int(r.UInt32())
	if err := r.Err(); err != nil {
		return err
	}

	geo := &InstancedGeometry{Instances: make([]Vector3, 0, count)}
	for i := 0; i < count; i++ {
		// 4x4 transform: three rows of rotation/scale, then the origin
		// row, then a trailing scale component and UV biases.
		r.Skip(4 * 3 * 4)
		v := Vector3{X: r.Float32(), Y: r.Float32(), Z: r.Float32()}
		r.Skip(4)
		r.Skip(16)
		if err := r.Err(); err != nil {
			return fmt.Errorf("instance %d: %w", i, err)
		}
		geo.Instances = append(geo.Instances, v)
	}

	export.Extra = geo
	return nil
}
