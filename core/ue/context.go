package ue

// ParseMode records how much of an asset was materialized.
//
// A partial parse stops after deserialization: tables and properties are
// populated but index-based references are still raw numbers. A full parse
// additionally runs the link phase. The cache layer compares the stored
// mode against the mode an operation requires to decide whether a cached
// asset is usable or must be re-parsed.
type ParseMode int

const (
	// ModePartial is a deserialized but unlinked asset.
	ModePartial ParseMode = iota
	// ModeFull is a deserialized and linked asset.
	ModeFull
)

// Satisfies reports whether an asset parsed with mode m can serve an
// operation that requires mode req.
func (m ParseMode) Satisfies(req ParseMode) bool {
	return m >= req
}

// String returns the mode name for logs.
func (m ParseMode) String() string {
	if m == ModeFull {
		return "full"
	}
	return "partial"
}
