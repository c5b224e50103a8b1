package ue

import (
	"fmt"

	"asset-extractor/core/stream"
)

// Property type names as they appear in the name table.
const (
	TypeBool   = "BoolProperty"
	TypeByte   = "ByteProperty"
	TypeInt    = "IntProperty"
	TypeFloat  = "FloatProperty"
	TypeName   = "NameProperty"
	TypeStr    = "StrProperty"
	TypeObject = "ObjectProperty"
	TypeArray  = "ArrayProperty"
	TypeStruct = "StructProperty"
)

// noneMarker terminates every property table.
const noneMarker = "None"

// Property is a single decoded property: a name, the array index slot it
// occupies, its serialized type and the decoded value.
type Property struct {
	Name  string
	Type  string
	Index int
	Value Value
}

// PropertyTable is the ordered list of properties serialized for one
// export (or nested struct). Index slots are sparse: a property name may
// appear several times with different indices, and "index absent" is
// distinct from "index set to a zero value".
type PropertyTable struct {
	Entries []*Property
}

// Get returns the value stored for the given name and index slot, or nil.
// Later entries shadow earlier ones for the same slot.
func (t *PropertyTable) Get(name string, index int) Value {
	var found Value
	for _, p := range t.Entries {
		if p.Name == name && p.Index == index {
			found = p.Value
		}
	}
	return found
}

// AsDict returns the index-0 value for every property name, which is the
// common shape for decoding nested structs.
func (t *PropertyTable) AsDict() map[string]Value {
	out := make(map[string]Value, len(t.Entries))
	for _, p := range t.Entries {
		if p.Index == 0 {
			out[p.Name] = p.Value
		}
	}
	return out
}

// Sparse returns the table as name -> index -> value, the shape consumed
// by proxy overlays.
func (t *PropertyTable) Sparse() map[string]map[int]Value {
	out := make(map[string]map[int]Value)
	for _, p := range t.Entries {
		slots := out[p.Name]
		if slots == nil {
			slots = make(map[int]Value)
			out[p.Name] = slots
		}
		slots[p.Index] = p.Value
	}
	return out
}

// readPropertyTable consumes properties from the stream until the table
// terminator.
func (a *Asset) readPropertyTable(r *stream.Reader) (*PropertyTable, error) {
	table := &PropertyTable{}
	for {
		name, err := a.readName(r)
		if err != nil {
			return nil, err
		}
		if name == noneMarker {
			return table, nil
		}

		typeName, err := a.readName(r)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}
		size := int(r.UInt32())
		index := int(r.UInt32())
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}

		value, err := a.readValue(r, typeName, size)
		if err != nil {
			return nil, fmt.Errorf("property %q: %w", name, err)
		}

		table.Entries = append(table.Entries, &Property{
			Name:  name,
			Type:  typeName,
			Index: index,
			Value: value,
		})
	}
}

// readValue decodes a single payload of the given type. size is only
// consulted for types the deserializer does not know, which are carried
// as opaque bytes.
func (a *Asset) readValue(r *stream.Reader, typeName string, size int) (Value, error) {
	switch typeName {
	case TypeBool:
		return BoolValue(r.Bool8()), r.Err()
	case TypeByte:
		return ByteValue(r.UInt8()), r.Err()
	case TypeInt:
		return IntValue(r.Int32()), r.Err()
	case TypeFloat:
		return FloatValue(r.Float32()), r.Err()
	case TypeName:
		name, err := a.readName(r)
		return NameValue(name), err
	case TypeStr:
		return StrValue(r.String()), r.Err()
	case TypeObject:
		return &ObjectValue{Ref: PackedIndex(r.Int32())}, r.Err()
	case TypeArray:
		return a.readArray(r)
	case TypeStruct:
		return a.readStruct(r)
	default:
		data := r.Bytes(size)
		if err := r.Err(); err != nil {
			return nil, fmt.Errorf("unknown type %q: %w", typeName, err)
		}
		return &RawValue{Type: typeName, Data: data}, nil
	}
}

func (a *Asset) readArray(r *stream.Reader) (Value, error) {
	innerType, err := a.readName(r)
	if err != nil {
		return nil, err
	}
	count := int(r.UInt32())
	if err := r.Err(); err != nil {
		return nil, err
	}
	if count < 0 || count > r.Remaining() {
		return nil, fmt.Errorf("array of %s declares %d elements with %d bytes left", innerType, count, r.Remaining())
	}

	arr := &ArrayValue{InnerType: innerType, Values: make([]Value, 0, count)}
	for i := 0; i < count; i++ {
		v, err := a.readValue(r, innerType, 0)
		if err != nil {
			return nil, fmt.Errorf("array element %d: %w", i, err)
		}
		arr.Values = append(arr.Values, v)
	}
	return arr, nil
}

func (a *Asset) readStruct(r *stream.Reader) (Value, error) {
	structType, err := a.readName(r)
	if err != nil {
		return nil, err
	}
	fields, err := a.readPropertyTable(r)
	if err != nil {
		return nil, fmt.Errorf("struct %s: %w", structType, err)
	}
	return &StructValue{StructType: structType, Fields: fields}, nil
}
