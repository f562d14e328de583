package format

import "errors"

var (
	// ErrTruncated indicates the buffer lacked the bytes required for a header.
	ErrTruncated = errors.New("format: truncated buffer")
	// ErrBadMagic indicates the bytes at an offset are not a live block header.
	ErrBadMagic = errors.New("format: bad header magic")
)
