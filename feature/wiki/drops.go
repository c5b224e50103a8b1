package wiki

import (
	"asset-extractor/core/proxy"
	"asset-extractor/core/ue"
)

// ItemEntry is one weighted pick inside an item set.
type ItemEntry struct {
	Name        string   `json:"name,omitempty"`
	Weight      float64  `json:"weight"`
	MinQuantity float64  `json:"minQuantity"`
	MaxQuantity float64  `json:"maxQuantity"`
	Items       []string `json:"items,omitempty"`
}

// ItemSet is one weighted group of item entries.
type ItemSet struct {
	Name     string      `json:"name,omitempty"`
	Weight   float64     `json:"weight"`
	MinItems float64     `json:"minNumItems"`
	MaxItems float64     `json:"maxNumItems"`
	Entries  []ItemEntry `json:"entries,omitempty"`
}

// DropTable is the decoded loot description of one drop inventory.
type DropTable struct {
	Source string    `json:"source,omitempty"`
	Sets   []ItemSet `json:"sets,omitempty"`
}

// DecodeDropTable reads the item sets out of a proxied drop inventory
// component. Base sets come from ItemSets; AdditionalItemSets are
// appended when present. Returns nil when the component declares no
// sets of its own.
func DecodeDropTable(drops *proxy.Proxy) *DropTable {
	if drops == nil {
		return nil
	}
	if !drops.HasOverride("ItemSets", 0) && !drops.HasOverride("AdditionalItemSets", 0) {
		return nil
	}

	table := &DropTable{}
	if source := drops.Source(); source != nil {
		table.Source = source.FullName()
	}
	table.Sets = append(table.Sets, decodeSets(drops.Get("ItemSets", 0))...)
	table.Sets = append(table.Sets, decodeSets(drops.Get("AdditionalItemSets", 0))...)
	return table
}

func decodeSets(v ue.Value) []ItemSet {
	array, ok := v.(*ue.ArrayValue)
	if !ok {
		return nil
	}
	sets := make([]ItemSet, 0, len(array.Values))
	for _, element := range array.Values {
		fields, ok := structFields(element)
		if !ok {
			continue
		}
		set := ItemSet{
			Name:     strOf(fields["SetName"], ""),
			Weight:   floatOf(fields["SetWeight"], 1),
			MinItems: floatOf(fields["MinNumItems"], 1),
			MaxItems: floatOf(fields["MaxNumItems"], 1),
		}
		if entries, ok := fields["ItemEntries"].(*ue.ArrayValue); ok {
			set.Entries = decodeEntries(entries)
		}
		sets = append(sets, set)
	}
	return sets
}

func decodeEntries(array *ue.ArrayValue) []ItemEntry {
	entries := make([]ItemEntry, 0, len(array.Values))
	for _, element := range array.Values {
		fields, ok := structFields(element)
		if !ok {
			continue
		}
		entry := ItemEntry{
			Name:        strOf(fields["ItemEntryName"], ""),
			Weight:      floatOf(fields["EntryWeight"], 1),
			MinQuantity: floatOf(fields["MinQuantity"], 1),
			MaxQuantity: floatOf(fields["MaxQuantity"], 1),
		}
		if items, ok := fields["Items"].(*ue.ArrayValue); ok {
			for _, item := range items.Values {
				if obj, ok := item.(*ue.ObjectValue); ok && !obj.Resolved.IsNull() {
					entry.Items = append(entry.Items, obj.Resolved.FullName())
				}
			}
		}
		entries = append(entries, entry)
	}
	return entries
}

func structFields(v ue.Value) (map[string]ue.Value, bool) {
	s, ok := v.(*ue.StructValue)
	if !ok || s.Fields == nil {
		return nil, false
	}
	return s.Fields.AsDict(), true
}

func floatOf(v ue.Value, fallback float64) float64 {
	switch v := v.(type) {
	case ue.FloatValue:
		return float64(v)
	case ue.IntValue:
		return float64(v)
	default:
		return fallback
	}
}

func strOf(v ue.Value, fallback string) string {
	switch v := v.(type) {
	case ue.StrValue:
		return string(v)
	case ue.NameValue:
		return string(v)
	default:
		return fallback
	}
}
