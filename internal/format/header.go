package format

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
)

// Header is the decoded form of a block header.
type Header struct {
	Magic     uint32
	Flags     uint32
	Prev      uint32
	Next      uint32
	Size      uint32
	Requested uint32
}

// Used reports whether the block is allocated.
func (h Header) Used() bool { return h.Flags&FlagUsed != 0 }

// Live reports whether the header carries MagicLive.
func (h Header) Live() bool { return h.Magic == MagicLive }

// End returns the offset just past the payload of a block whose header sits at off.
func (h Header) End(off int) int { return off + HeaderSize + int(h.Size) }

// ReadHeader decodes the header at off without validating the magic.
func ReadHeader(b []byte, off int) (Header, error) {
	if !buf.Has(b, off, HeaderSize) {
		return Header{}, fmt.Errorf("header at %d: %w", off, ErrTruncated)
	}
	return Header{
		Magic:     ReadU32(b, off+MagicOffset),
		Flags:     ReadU32(b, off+FlagsOffset),
		Prev:      ReadU32(b, off+PrevOffset),
		Next:      ReadU32(b, off+NextOffset),
		Size:      ReadU32(b, off+SizeOffset),
		Requested: ReadU32(b, off+RequestedOffset),
	}, nil
}

// ParseHeader decodes the header at off and requires MagicLive.
func ParseHeader(b []byte, off int) (Header, error) {
	h, err := ReadHeader(b, off)
	if err != nil {
		return Header{}, err
	}
	if !h.Live() {
		return Header{}, fmt.Errorf("header at %d: magic 0x%08X: %w", off, h.Magic, ErrBadMagic)
	}
	return h, nil
}

// PutHeader encodes h at off. The caller guarantees off+HeaderSize <= len(b).
func PutHeader(b []byte, off int, h Header) {
	PutU32(b, off+MagicOffset, h.Magic)
	PutU32(b, off+FlagsOffset, h.Flags)
	PutU32(b, off+PrevOffset, h.Prev)
	PutU32(b, off+NextOffset, h.Next)
	PutU32(b, off+SizeOffset, h.Size)
	PutU32(b, off+RequestedOffset, h.Requested)
}
