package cache

import (
	"asset-extractor/core/ue"

	"go.uber.org/zap"
)

// ContextAware wraps another policy and refuses cached assets whose parse
// mode does not satisfy what the current operation requires: a partial
// parse stored earlier must not satisfy a full-data request. Refusal is a
// plain miss, so the caller re-parses and the richer result replaces the
// stale entry.
type ContextAware struct {
	inner Manager
	log   *zap.Logger
}

// NewContextAware wraps inner with parse-mode checking.
func NewContextAware(inner Manager, log *zap.Logger) *ContextAware {
	return &ContextAware{inner: inner, log: log}
}

func (c *ContextAware) Lookup(name string, require ue.ParseMode) *ue.Asset {
	asset := c.inner.Lookup(name, require)
	if asset == nil {
		return nil
	}
	if !asset.Mode.Satisfies(require) {
		c.log.Debug("Re-parsing asset for more data",
			zap.String("asset", name),
			zap.Stringer("cached", asset.Mode),
			zap.Stringer("required", require))
		return nil
	}
	return asset
}

func (c *ContextAware) Add(name string, asset *ue.Asset) {
	c.inner.Add(name, asset)
}

func (c *ContextAware) Remove(name string) {
	c.inner.Remove(name)
}

func (c *ContextAware) Wipe(prefix string) {
	c.inner.Wipe(prefix)
}

func (c *ContextAware) Count() int {
	return c.inner.Count()
}

// NewDefault composes the standard policy stack:
// context-aware(usage-ordered(plain map semantics)).
func NewDefault(cfg Config, log *zap.Logger) Manager {
	return NewContextAware(NewUsageStore(cfg, log), log)
}
