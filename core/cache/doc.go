// Package cache provides the in-memory asset cache as a stack of
// composable policies: a plain unbounded store, a usage-ordered store
// with count-based eviction, and a context-aware wrapper that forces
// re-parsing when a cached asset holds less data than an operation needs.
//
// Bulk scans over tens of thousands of containers rely on two behaviors
// here: the usage-ordered bound keeps peak memory deterministic, and
// prefix wipes let a pipeline evict a whole mod's assets once it is done
// with them.
package cache
