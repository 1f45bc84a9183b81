package build

import (
	"errors"
	"fmt"
)

// Sentinel errors wrapped by classified build failures.
var (
	ErrMissingAsset       = errors.New("talc: missing asset")
	ErrUnknownTransformer = errors.New("talc: unknown transformer")
	ErrAssetOutsideRoot   = errors.New("talc: asset outside site root")
)

// MissingAssetError reports an asset reference whose source file does not exist.
type MissingAssetError struct {
	Path   string
	Source string
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("asset %s not found at %s", e.Path, e.Source)
}

func (e *MissingAssetError) Unwrap() error {
	return ErrMissingAsset
}

// AssetPathError reports an asset reference that escapes its root directory.
type AssetPathError struct {
	Path string
}

func (e *AssetPathError) Error() string {
	return fmt.Sprintf("asset %s resolves outside its root", e.Path)
}

func (e *AssetPathError) Unwrap() error {
	return ErrAssetOutsideRoot
}
