package cache

import (
	"container/list"
	"runtime"
	"strings"

	"asset-extractor/core/ue"

	"go.uber.org/zap"
)

// UsageStore keeps the most recently used entries. Lookup and Add both
// touch the entry; when the entry count reaches MaxCount, the least
// recently touched entries are purged down to KeepCount.
//
// Eviction is strictly count-based. Heap usage is sampled on every insert
// and tracked as an informational high-water mark only; it never triggers
// a purge.
type UsageStore struct {
	entries map[string]*list.Element
	order   *list.List // front = least recently used

	maxCount  int
	keepCount int
	log       *zap.Logger

	// HighestMemorySeen is the largest in-use heap observed during
	// inserts, in bytes.
	HighestMemorySeen uint64
}

type usageEntry struct {
	name  string
	asset *ue.Asset
}

// Config bounds the usage-ordered store.
type Config struct {
	// MaxCount is the entry count that triggers a purge.
	MaxCount int `mapstructure:"max_count" default:"3000"`
	// KeepCount is the entry count a purge reduces the cache to.
	KeepCount int `mapstructure:"keep_count" default:"500"`
}

// NewUsageStore returns an empty usage-ordered store with the given
// bounds.
func NewUsageStore(cfg Config, log *zap.Logger) *UsageStore {
	if cfg.MaxCount <= 0 {
		cfg.MaxCount = 3000
	}
	if cfg.KeepCount <= 0 || cfg.KeepCount >= cfg.MaxCount {
		cfg.KeepCount = cfg.MaxCount / 6
	}
	return &UsageStore{
		entries:   make(map[string]*list.Element),
		order:     list.New(),
		maxCount:  cfg.MaxCount,
		keepCount: cfg.KeepCount,
		log:       log,
	}
}

// Lookup returns the cached asset and marks it as recently used.
func (s *UsageStore) Lookup(name string, _ ue.ParseMode) *ue.Asset {
	elem, ok := s.entries[name]
	if !ok {
		return nil
	}
	s.order.MoveToBack(elem)
	return elem.Value.(*usageEntry).asset
}

// Add stores an asset as the most recently used entry, replacing any
// previous entry for the name, then purges if the cache grew too large.
func (s *UsageStore) Add(name string, asset *ue.Asset) {
	if elem, ok := s.entries[name]; ok {
		elem.Value.(*usageEntry).asset = asset
		s.order.MoveToBack(elem)
	} else {
		s.entries[name] = s.order.PushBack(&usageEntry{name: name, asset: asset})
	}
	s.maybePurge()
}

// Remove drops the named entry, logging if it was absent.
func (s *UsageStore) Remove(name string) {
	s.log.Debug("Removing cache entry", zap.String("asset", name))
	elem, ok := s.entries[name]
	if !ok {
		s.log.Warn("Attempt to remove asset that was not cached", zap.String("asset", name))
		return
	}
	s.order.Remove(elem)
	delete(s.entries, name)
}

// Wipe drops entries by name prefix; an empty prefix clears everything.
func (s *UsageStore) Wipe(prefix string) {
	if prefix == "" {
		s.log.Debug("Wiping cache completely")
		s.entries = make(map[string]*list.Element)
		s.order.Init()
		return
	}
	s.log.Debug("Wiping cache with prefix", zap.String("prefix", prefix))
	for elem := s.order.Front(); elem != nil; {
		next := elem.Next()
		entry := elem.Value.(*usageEntry)
		if strings.HasPrefix(entry.name, prefix) {
			s.order.Remove(elem)
			delete(s.entries, entry.name)
		}
		elem = next
	}
}

// Count returns the number of cached entries.
func (s *UsageStore) Count() int {
	return len(s.entries)
}

func (s *UsageStore) maybePurge() {
	var stats runtime.MemStats
	runtime.ReadMemStats(&stats)
	if stats.HeapInuse > s.HighestMemorySeen {
		s.HighestMemorySeen = stats.HeapInuse
	}

	if len(s.entries) >= s.maxCount {
		s.log.Debug("Asset cache purge due to too many items", zap.Int("count", len(s.entries)))
		s.purge(len(s.entries) - s.keepCount)
	}
}

// purge removes the given number of least recently used entries.
func (s *UsageStore) purge(amount int) {
	for i := 0; i < amount; i++ {
		front := s.order.Front()
		if front == nil {
			return
		}
		entry := front.Value.(*usageEntry)
		s.order.Remove(front)
		delete(s.entries, entry.name)
	}
}
