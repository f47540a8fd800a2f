package serialization

import "errors"

// Common errors.
var (
	ErrInvalidMagic       = errors.New("invalid magic bytes")
	ErrUnsupportedVersion = errors.New("unsupported format version")
	ErrHeaderTooLarge     = errors.New("header exceeds maximum size")
	ErrChecksumMismatch   = errors.New("checksum mismatch: file may be corrupted")
	ErrNegativeOffset     = errors.New("negative offset or size")
	ErrOutOfBounds        = errors.New("tensor extends beyond data section")
	ErrOffsetOverlap      = errors.New("tensor offsets overlap")
)
