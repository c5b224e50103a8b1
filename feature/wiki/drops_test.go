package wiki_test

import (
	"testing"

	"asset-extractor/core/proxy"
	"asset-extractor/core/ue"
	"asset-extractor/feature/ark"
	"asset-extractor/feature/wiki"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func itemSet(fields ...*ue.Property) *ue.StructValue {
	return &ue.StructValue{
		StructType: "ItemSet",
		Fields:     &ue.PropertyTable{Entries: fields},
	}
}

func prop(name, typ string, value ue.Value) *ue.Property {
	return &ue.Property{Name: name, Type: typ, Value: value}
}

func newDropProxy(t *testing.T) *proxy.Proxy {
	t.Helper()
	reg := proxy.NewRegistry()
	ark.RegisterTypes(reg)
	p := reg.Instantiate(ark.DinoDropInventoryComponent)
	require.NotNil(t, p)
	return p
}

func TestDecodeDropTable(t *testing.T) {
	entries := &ue.ArrayValue{InnerType: ue.TypeStruct, Values: []ue.Value{
		itemSet(
			prop("ItemEntryName", ue.TypeStr, ue.StrValue("Hide")),
			prop("EntryWeight", ue.TypeFloat, ue.FloatValue(0.5)),
			prop("MinQuantity", ue.TypeFloat, ue.FloatValue(1)),
			prop("MaxQuantity", ue.TypeFloat, ue.FloatValue(3)),
		),
	}}
	sets := &ue.ArrayValue{InnerType: ue.TypeStruct, Values: []ue.Value{
		itemSet(
			prop("SetName", ue.TypeStr, ue.StrValue("Raw Materials")),
			prop("SetWeight", ue.TypeFloat, ue.FloatValue(2)),
			prop("MinNumItems", ue.TypeFloat, ue.FloatValue(1)),
			prop("MaxNumItems", ue.TypeFloat, ue.FloatValue(2)),
			prop("ItemEntries", ue.TypeArray, entries),
		),
	}}

	drops := newDropProxy(t)
	drops.Update(map[string]map[int]ue.Value{
		"ItemSets": {0: sets},
	})

	table := wiki.DecodeDropTable(drops)
	require.NotNil(t, table)
	require.Len(t, table.Sets, 1)

	set := table.Sets[0]
	assert.Equal(t, "Raw Materials", set.Name)
	assert.Equal(t, 2.0, set.Weight)
	assert.Equal(t, 1.0, set.MinItems)
	assert.Equal(t, 2.0, set.MaxItems)
	require.Len(t, set.Entries, 1)
	assert.Equal(t, "Hide", set.Entries[0].Name)
	assert.Equal(t, 0.5, set.Entries[0].Weight)
	assert.Equal(t, 3.0, set.Entries[0].MaxQuantity)
}

func TestDecodeDropTableMergesAdditionalSets(t *testing.T) {
	base := &ue.ArrayValue{InnerType: ue.TypeStruct, Values: []ue.Value{
		itemSet(prop("SetName", ue.TypeStr, ue.StrValue("Base"))),
	}}
	extra := &ue.ArrayValue{InnerType: ue.TypeStruct, Values: []ue.Value{
		itemSet(prop("SetName", ue.TypeStr, ue.StrValue("Extra"))),
	}}

	drops := newDropProxy(t)
	drops.Update(map[string]map[int]ue.Value{
		"ItemSets":           {0: base},
		"AdditionalItemSets": {0: extra},
	})

	table := wiki.DecodeDropTable(drops)
	require.NotNil(t, table)
	require.Len(t, table.Sets, 2)
	assert.Equal(t, "Base", table.Sets[0].Name)
	assert.Equal(t, "Extra", table.Sets[1].Name)

	// Unspecified numeric fields fall back to their defaults.
	assert.Equal(t, 1.0, table.Sets[0].Weight)
	assert.Equal(t, 1.0, table.Sets[0].MinItems)
}

func TestDecodeDropTableWithoutOverrides(t *testing.T) {
	assert.Nil(t, wiki.DecodeDropTable(newDropProxy(t)))
	assert.Nil(t, wiki.DecodeDropTable(nil))
}
