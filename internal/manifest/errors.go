package manifest

import "errors"

// Sentinel errors for the manifest package
var (
	// ErrInvalidFormat indicates the manifest file is not valid YAML
	ErrInvalidFormat = errors.New("manifest must be a valid YAML mapping")

	// ErrFileNotFound indicates the manifest file does not exist
	ErrFileNotFound = errors.New("manifest file not found")
)
