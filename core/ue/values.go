package ue

import (
	"fmt"
	"strconv"
	"strings"
)

// Value is one decoded property value. Concrete types cover the property
// kinds the game serializes; consumers type-switch or use the helpers on
// PropertyTable.
type Value interface {
	String() string
}

// BoolValue is a BoolProperty payload.
type BoolValue bool

func (v BoolValue) String() string {
	return strconv.FormatBool(bool(v))
}

// ByteValue is a ByteProperty payload.
type ByteValue uint8

func (v ByteValue) String() string {
	return strconv.Itoa(int(v))
}

// IntValue is an IntProperty payload.
type IntValue int32

func (v IntValue) String() string {
	return strconv.Itoa(int(v))
}

// FloatValue is a FloatProperty payload.
type FloatValue float32

func (v FloatValue) String() string {
	return strconv.FormatFloat(float64(v), 'g', -1, 32)
}

// NameValue is a NameProperty payload, resolved through the name table.
type NameValue string

func (v NameValue) String() string {
	return string(v)
}

// StrValue is a StrProperty payload.
type StrValue string

func (v StrValue) String() string {
	return string(v)
}

// ObjectValue is an ObjectProperty payload: a packed object reference.
// Resolved is populated by the link phase.
type ObjectValue struct {
	Ref      PackedIndex
	Resolved *Reference
}

func (v *ObjectValue) String() string {
	if v.Resolved != nil {
		return v.Resolved.FullName()
	}
	return fmt.Sprintf("object(%d)", int32(v.Ref))
}

// ArrayValue is an ArrayProperty payload.
type ArrayValue struct {
	InnerType string
	Values    []Value
}

func (v *ArrayValue) String() string {
	parts := make([]string, 0, len(v.Values))
	for _, e := range v.Values {
		parts = append(parts, e.String())
	}
	return "[" + strings.Join(parts, ", ") + "]"
}

// StructValue is a StructProperty payload: a nested property table.
type StructValue struct {
	StructType string
	Fields     *PropertyTable
}

func (v *StructValue) String() string {
	return fmt.Sprintf("%s{%d fields}", v.StructType, len(v.Fields.Entries))
}

// RawValue carries the undecoded payload of a property type the
// deserializer does not understand. The size prefix in the encoding makes
// this safe to skip over.
type RawValue struct {
	Type string
	Data []byte
}

func (v *RawValue) String() string {
	return fmt.Sprintf("%s(%d bytes)", v.Type, len(v.Data))
}

// PackedIndex is an index-based object reference as stored on disk:
// zero is null, positive values refer to export n-1, negative values to
// import -n-1. The link phase turns these into References.
type PackedIndex int32

// IsNull reports a null reference.
func (i PackedIndex) IsNull() bool {
	return i == 0
}

// ExportIndex returns the export table index, or -1 if this is not an
// export reference.
func (i PackedIndex) ExportIndex() int {
	if i > 0 {
		return int(i) - 1
	}
	return -1
}

// ImportIndex returns the import table index, or -1 if this is not an
// import reference.
func (i PackedIndex) ImportIndex() int {
	if i < 0 {
		return int(-i) - 1
	}
	return -1
}
