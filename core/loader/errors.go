package loader

import (
	"errors"
	"fmt"
)

// ErrAssetLoad is the family sentinel for every loader failure. Callers
// doing best-effort discovery match it with errors.Is to catch any of the
// concrete kinds below and continue scanning; callers needing a specific
// kind use errors.As.
var ErrAssetLoad = errors.New("asset load failed")

// ModNotFoundError reports a mod reference with no registered id/name
// mapping. This is a configuration problem, never silently recovered.
type ModNotFoundError struct {
	Mod string
}

func (e *ModNotFoundError) Error() string {
	return fmt.Sprintf("mod %s not found", e.Mod)
}

func (e *ModNotFoundError) Is(target error) bool {
	return target == ErrAssetLoad
}

// AssetNotFoundError reports that no file exists at any candidate path
// for an asset name.
type AssetNotFoundError struct {
	Asset string
}

func (e *AssetNotFoundError) Error() string {
	return fmt.Sprintf("asset %s not found", e.Asset)
}

func (e *AssetNotFoundError) Is(target error) bool {
	return target == ErrAssetLoad
}

// ExportNotFoundError reports a requested class member absent from an
// otherwise successfully parsed container.
type ExportNotFoundError struct {
	Asset  string
	Export string
}

func (e *ExportNotFoundError) Error() string {
	return fmt.Sprintf("export %s could not be found in asset %s", e.Export, e.Asset)
}

func (e *ExportNotFoundError) Is(target error) bool {
	return target == ErrAssetLoad
}

// ParseError wraps a structural failure during deserialization or
// linking. The offending asset name always travels with it, and the
// failed container is discarded, never cached.
type ParseError struct {
	Asset string
	Err   error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("error parsing asset %s: %v", e.Asset, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

func (e *ParseError) Is(target error) bool {
	return target == ErrAssetLoad
}
