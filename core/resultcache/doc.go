// Package resultcache persists expensive derived results between runs.
//
// Each entry is addressed by name and guarded by a hash of the inputs
// that produced it: when the key hash matches, the stored payload is
// served and the generator never runs. Changing any input changes the
// hash and forces regeneration, so stale results cannot survive an
// input change unnoticed.
package resultcache
