package heap

import "errors"

var (
	// ErrNoSpace indicates that no free block is large enough for the request.
	// The arena is unchanged; the caller may retry after freeing memory.
	ErrNoSpace = errors.New("heap: no free block large enough")

	// ErrBadSize indicates a negative request size.
	ErrBadSize = errors.New("heap: negative allocation size")

	// ErrBadRef indicates a reference that is not the payload of a block on the
	// chain: outside the arena, pointing into the middle of a payload, or at
	// bytes that only look like a header.
	ErrBadRef = errors.New("heap: bad block reference")

	// ErrDoubleFree indicates a free of a block that is already free, or whose
	// header was absorbed by a neighbor during an earlier free.
	ErrDoubleFree = errors.New("heap: block already free")

	// ErrArenaSize indicates an arena too small for one header and one byte,
	// or too large for 32-bit offsets.
	ErrArenaSize = errors.New("heap: invalid arena size")

	// ErrClosed indicates use of a heap after Close.
	ErrClosed = errors.New("heap: closed")
)
