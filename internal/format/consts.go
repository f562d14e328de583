// Package format describes the in-arena layout of heap block headers. The
// allocator, the verifier, and the tests all decode headers through it.
package format

import "math"

const (
	// HeaderSize is the number of bytes every block header occupies in front
	// of its payload.
	//
	// Layout (little-endian):
	//
	//	Offset  Size  Description
	//	0x00    4     Magic (MagicLive or MagicDead)
	//	0x04    4     Flags (bit 0: used)
	//	0x08    4     Prev header offset (NilOffset for the head)
	//	0x0C    4     Next header offset (NilOffset for the tail)
	//	0x10    4     Payload size in bytes
	//	0x14    4     Requested size (bytes the caller asked for, 0 when free)
	HeaderSize = 0x18

	MagicOffset     = 0x00
	FlagsOffset     = 0x04
	PrevOffset      = 0x08
	NextOffset      = 0x0C
	SizeOffset      = 0x10
	RequestedOffset = 0x14

	// FlagUsed marks a block whose payload belongs to a caller.
	FlagUsed uint32 = 1 << 0

	// NilOffset terminates the prev/next chain.
	NilOffset uint32 = math.MaxUint32

	// MagicLive ("HBLK") is stamped into every header that is part of the list.
	MagicLive uint32 = 0x4B4C4248

	// MagicDead ("DBLK") replaces MagicLive when a merge absorbs a header.
	MagicDead uint32 = 0x4B4C4244

	// MinArenaSize is one header plus a single payload byte.
	MinArenaSize = HeaderSize + 1

	// MaxArenaSize keeps every offset, and NilOffset, representable in 32 bits.
	MaxArenaSize uint64 = math.MaxUint32 - 1
)
