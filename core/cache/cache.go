package cache

import (
	"strings"

	"asset-extractor/core/ue"
)

// Manager is the cache policy contract. Policies compose: any
// implementation may wrap any other, and the loader only depends on this
// interface.
//
// Lookup takes the parse mode the current operation requires so that
// context-aware policies can refuse entries that were stored with less
// data than the caller needs. Policies without context awareness ignore
// the argument.
//
// None of the implementations in this package are safe for concurrent
// mutation; the loader is single-threaded by design and callers wanting
// concurrency must add their own exclusion around the whole policy stack.
type Manager interface {
	// Lookup returns the cached asset for name, or nil on a miss.
	Lookup(name string, require ue.ParseMode) *ue.Asset
	// Add stores an asset, replacing any previous entry for name.
	Add(name string, asset *ue.Asset)
	// Remove drops the named entry if present.
	Remove(name string)
	// Wipe drops every entry whose name starts with prefix; an empty
	// prefix clears the cache entirely.
	Wipe(prefix string)
	// Count returns the number of cached entries.
	Count() int
}

// PlainStore is the simplest policy: an unbounded name-to-asset map.
type PlainStore struct {
	entries map[string]*ue.Asset
}

// NewPlainStore returns an empty unbounded store.
func NewPlainStore() *PlainStore {
	return &PlainStore{entries: make(map[string]*ue.Asset)}
}

func (s *PlainStore) Lookup(name string, _ ue.ParseMode) *ue.Asset {
	return s.entries[name]
}

func (s *PlainStore) Add(name string, asset *ue.Asset) {
	s.entries[name] = asset
}

func (s *PlainStore) Remove(name string) {
	delete(s.entries, name)
}

func (s *PlainStore) Wipe(prefix string) {
	if prefix == "" {
		s.entries = make(map[string]*ue.Asset)
		return
	}
	for name := range s.entries {
		if strings.HasPrefix(name, prefix) {
			delete(s.entries, name)
		}
	}
}

func (s *PlainStore) Count() int {
	return len(s.entries)
}
