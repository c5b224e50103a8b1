// Package uetest builds syntactically valid container bytes for tests.
//
// It is test support only: the production code never writes or modifies
// asset files. The layout produced here is the exact inverse of what
// package ue consumes, so tests can construct containers declaratively
// and assert on the parsed result.
package uetest

import (
	"encoding/binary"
	"math"
	"os"

	"asset-extractor/core/ue"
)

// Writer accumulates little-endian binary data. Exported so tests can
// hand-craft specialized payloads such as geometry blobs.
type Writer struct {
	buf []byte
}

// Bytes returns the accumulated data.
func (w *Writer) Bytes() []byte {
	return w.buf
}

// U8 appends one byte.
func (w *Writer) U8(v uint8) *Writer {
	w.buf = append(w.buf, v)
	return w
}

// U32 appends a little-endian uint32.
func (w *Writer) U32(v uint32) *Writer {
	w.buf = binary.LittleEndian.AppendUint32(w.buf, v)
	return w
}

// I32 appends a little-endian int32.
func (w *Writer) I32(v int32) *Writer {
	return w.U32(uint32(v))
}

// F32 appends a little-endian IEEE-754 single.
func (w *Writer) F32(v float32) *Writer {
	return w.U32(math.Float32bits(v))
}

// Zeros appends n zero bytes.
func (w *Writer) Zeros(n int) *Writer {
	w.buf = append(w.buf, make([]byte, n)...)
	return w
}

// Raw appends the given bytes verbatim.
func (w *Writer) Raw(b []byte) *Writer {
	w.buf = append(w.buf, b...)
	return w
}

// Str appends a length-prefixed NUL-terminated string.
func (w *Writer) Str(s string) *Writer {
	w.U32(uint32(len(s) + 1))
	w.buf = append(w.buf, s...)
	w.buf = append(w.buf, 0)
	return w
}

// Builder assembles one container.
type Builder struct {
	names   []string
	nameIdx map[string]uint32
	imports []importSpec
	exports []*ExportSpec
}

type importSpec struct {
	classPackage uint32
	className    uint32
	outer        ue.PackedIndex
	name         uint32
}

// ExportSpec is one export under construction.
type ExportSpec struct {
	builder *Builder
	index   int
	name    uint32
	class   ue.PackedIndex
	super   ue.PackedIndex
	outer   ue.PackedIndex
	props   []propSpec

	// Extra is appended verbatim after the property table terminator,
	// for object types with specialized trailing payloads.
	Extra []byte
}

type propSpec struct {
	name    uint32
	typ     uint32
	index   uint32
	payload []byte
}

// NewBuilder returns an empty container builder.
func NewBuilder() *Builder {
	return &Builder{nameIdx: make(map[string]uint32)}
}

// Name interns a string in the name table and returns its index.
func (b *Builder) Name(s string) uint32 {
	if idx, ok := b.nameIdx[s]; ok {
		return idx
	}
	idx := uint32(len(b.names))
	b.names = append(b.names, s)
	b.nameIdx[s] = idx
	return idx
}

// AddImport appends an import entry and returns its packed reference.
func (b *Builder) AddImport(classPackage, className string, outer ue.PackedIndex, name string) ue.PackedIndex {
	b.imports = append(b.imports, importSpec{
		classPackage: b.Name(classPackage),
		className:    b.Name(className),
		outer:        outer,
		name:         b.Name(name),
	})
	return ue.PackedIndex(-len(b.imports))
}

// AddPackageImport appends a package import, the root of import outer
// chains; assetName is the container the imported objects live in.
func (b *Builder) AddPackageImport(assetName string) ue.PackedIndex {
	return b.AddImport("/Script/CoreUObject", "Package", 0, assetName)
}

// AddExport appends an export entry and returns it for property
// population.
func (b *Builder) AddExport(name string, class, super, outer ue.PackedIndex) *ExportSpec {
	e := &ExportSpec{
		builder: b,
		index:   len(b.exports),
		name:    b.Name(name),
		class:   class,
		super:   super,
		outer:   outer,
	}
	b.exports = append(b.exports, e)
	return e
}

// Ref returns the packed reference to this export.
func (e *ExportSpec) Ref() ue.PackedIndex {
	return ue.PackedIndex(e.index + 1)
}

// Prop appends a property with an explicit payload.
func (e *ExportSpec) Prop(name, typeName string, index int, payload Payload) *ExportSpec {
	body := payload.encode(e.builder)
	e.props = append(e.props, propSpec{
		name:    e.builder.Name(name),
		typ:     e.builder.Name(typeName),
		index:   uint32(index),
		payload: body,
	})
	return e
}

// Float appends a FloatProperty.
func (e *ExportSpec) Float(name string, index int, v float32) *ExportSpec {
	return e.Prop(name, "FloatProperty", index, Float(v))
}

// Int appends an IntProperty.
func (e *ExportSpec) Int(name string, index int, v int32) *ExportSpec {
	return e.Prop(name, "IntProperty", index, Int(v))
}

// Bool appends a BoolProperty.
func (e *ExportSpec) Bool(name string, index int, v bool) *ExportSpec {
	return e.Prop(name, "BoolProperty", index, Bool(v))
}

// Object appends an ObjectProperty referencing ref.
func (e *ExportSpec) Object(name string, index int, ref ue.PackedIndex) *ExportSpec {
	return e.Prop(name, "ObjectProperty", index, Object(ref))
}

// Str appends a StrProperty.
func (e *ExportSpec) Str(name string, index int, v string) *ExportSpec {
	return e.Prop(name, "StrProperty", index, Str(v))
}

// NameProp appends a NameProperty.
func (e *ExportSpec) NameProp(name string, index int, v string) *ExportSpec {
	return e.Prop(name, "NameProperty", index, NameRef(v))
}

// Payload encodes one property value body.
type Payload interface {
	encode(b *Builder) []byte
}

type payloadFunc func(b *Builder) []byte

func (f payloadFunc) encode(b *Builder) []byte {
	return f(b)
}

// Float is a FloatProperty payload.
func Float(v float32) Payload {
	return payloadFunc(func(*Builder) []byte {
		return (&Writer{}).F32(v).Bytes()
	})
}

// Int is an IntProperty payload.
func Int(v int32) Payload {
	return payloadFunc(func(*Builder) []byte {
		return (&Writer{}).I32(v).Bytes()
	})
}

// Bool is a BoolProperty payload.
func Bool(v bool) Payload {
	return payloadFunc(func(*Builder) []byte {
		var b uint8
		if v {
			b = 1
		}
		return (&Writer{}).U8(b).Bytes()
	})
}

// Byte is a ByteProperty payload.
func Byte(v uint8) Payload {
	return payloadFunc(func(*Builder) []byte {
		return (&Writer{}).U8(v).Bytes()
	})
}

// Str is a StrProperty payload.
func Str(v string) Payload {
	return payloadFunc(func(*Builder) []byte {
		return (&Writer{}).Str(v).Bytes()
	})
}

// NameRef is a NameProperty payload.
func NameRef(v string) Payload {
	return payloadFunc(func(b *Builder) []byte {
		return (&Writer{}).U32(b.Name(v)).Bytes()
	})
}

// Object is an ObjectProperty payload.
func Object(ref ue.PackedIndex) Payload {
	return payloadFunc(func(*Builder) []byte {
		return (&Writer{}).I32(int32(ref)).Bytes()
	})
}

// Field is one named entry inside a Struct payload.
type Field struct {
	Name    string
	Type    string
	Index   int
	Payload Payload
}

// Struct is a StructProperty payload holding a nested property table.
func Struct(structType string, fields ...Field) Payload {
	return payloadFunc(func(b *Builder) []byte {
		w := &Writer{}
		w.U32(b.Name(structType))
		for _, f := range fields {
			body := f.Payload.encode(b)
			w.U32(b.Name(f.Name))
			w.U32(b.Name(f.Type))
			w.U32(uint32(len(body)))
			w.U32(uint32(f.Index))
			w.Raw(body)
		}
		w.U32(b.Name("None"))
		return w.Bytes()
	})
}

// Array is an ArrayProperty payload of homogeneous elements.
func Array(innerType string, elements ...Payload) Payload {
	return payloadFunc(func(b *Builder) []byte {
		w := &Writer{}
		w.U32(b.Name(innerType))
		w.U32(uint32(len(elements)))
		for _, e := range elements {
			w.Raw(e.encode(b))
		}
		return w.Bytes()
	})
}

// Bytes assembles the container.
func (b *Builder) Bytes() []byte {
	// Encode serial payloads first so every name is interned before the
	// name table is laid out.
	none := b.Name("None")
	serial := make([][]byte, len(b.exports))
	for i, e := range b.exports {
		w := &Writer{}
		for _, p := range e.props {
			w.U32(p.name)
			w.U32(p.typ)
			w.U32(uint32(len(p.payload)))
			w.U32(p.index)
			w.Raw(p.payload)
		}
		w.U32(none)
		w.Raw(e.Extra)
		serial[i] = w.Bytes()
	}

	const headerSize = 32
	nameTable := &Writer{}
	for _, n := range b.names {
		nameTable.Str(n)
	}
	nameOffset := headerSize
	importOffset := nameOffset + len(nameTable.Bytes())
	exportOffset := importOffset + 16*len(b.imports)
	serialOffset := exportOffset + 24*len(b.exports)

	out := &Writer{}
	out.U32(ue.PackageTag)
	out.U32(ue.SupportedVersion)
	out.U32(uint32(len(b.names)))
	out.U32(uint32(nameOffset))
	out.U32(uint32(len(b.imports)))
	out.U32(uint32(importOffset))
	out.U32(uint32(len(b.exports)))
	out.U32(uint32(exportOffset))
	out.Raw(nameTable.Bytes())

	for _, imp := range b.imports {
		out.U32(imp.classPackage)
		out.U32(imp.className)
		out.I32(int32(imp.outer))
		out.U32(imp.name)
	}

	offset := serialOffset
	for i, e := range b.exports {
		out.I32(int32(e.class))
		out.I32(int32(e.super))
		out.I32(int32(e.outer))
		out.U32(e.name)
		out.U32(uint32(len(serial[i])))
		out.U32(uint32(offset))
		offset += len(serial[i])
	}

	for _, s := range serial {
		out.Raw(s)
	}
	return out.Bytes()
}

// WriteFile writes the assembled container to path.
func (b *Builder) WriteFile(path string) error {
	return os.WriteFile(path, b.Bytes(), 0o644)
}
