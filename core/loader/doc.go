// Package loader is the facade over the asset pipeline: canonical name
// normalization, name-to-path resolution with case-insensitive fallback,
// recursive discovery, two-phase parsing via package ue, caching via
// package cache and proxy materialization via package proxy.
//
// Every loader failure belongs to one error family rooted at
// ErrAssetLoad, so callers scanning many candidates can recover from any
// per-asset failure with a single errors.Is check while structural bugs
// still surface as distinct types.
//
// The loader is single-threaded by design; see package cache.
package loader
