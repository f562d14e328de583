package verify

import (
	"fmt"

	"github.com/joshuapare/heapkit/internal/buf"
	"github.com/joshuapare/heapkit/internal/format"
)

// Error types for different validation failures.
type ValidationError struct {
	Type    string
	Message string
	Offset  int
}

func (e *ValidationError) Error() string {
	if e.Offset >= 0 {
		return fmt.Sprintf("%s at offset 0x%X: %s", e.Type, e.Offset, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Type, e.Message)
}

// AllInvariants validates all arena invariants in one call.
// Returns the first error encountered, or nil if all checks pass.
func AllInvariants(data []byte) error {
	if err := Chain(data); err != nil {
		return err
	}
	if err := Coverage(data); err != nil {
		return err
	}
	if err := Coalesced(data); err != nil {
		return err
	}
	return Accounting(data)
}

// Chain validates magic, back links and physical adjacency of every block.
func Chain(data []byte) error {
	return walk(data, "Chain", func(int, format.Header) error { return nil })
}

// Coverage validates that the blocks tile the arena exactly.
func Coverage(data []byte) error {
	total := 0
	if err := walk(data, "Coverage", func(_ int, h format.Header) error {
		total += format.HeaderSize + int(h.Size)
		return nil
	}); err != nil {
		return err
	}
	if total != len(data) {
		return &ValidationError{
			Type:    "Coverage",
			Message: fmt.Sprintf("blocks cover %d bytes, arena is %d bytes", total, len(data)),
			Offset:  -1,
		}
	}
	return nil
}

// Coalesced validates that no two neighboring blocks are both free.
func Coalesced(data []byte) error {
	prevFree := false
	return walk(data, "Coalesced", func(off int, h format.Header) error {
		free := !h.Used()
		if free && prevFree {
			return &ValidationError{
				Type:    "Coalesced",
				Message: "free block follows a free block",
				Offset:  off,
			}
		}
		prevFree = free
		return nil
	})
}

// Accounting validates the requested-size field against the used flag.
func Accounting(data []byte) error {
	return walk(data, "Accounting", func(off int, h format.Header) error {
		switch {
		case h.Used() && (h.Requested == 0 || h.Requested > h.Size):
			return &ValidationError{
				Type:    "Accounting",
				Message: fmt.Sprintf("used block requested %d of %d bytes", h.Requested, h.Size),
				Offset:  off,
			}
		case !h.Used() && h.Requested != 0:
			return &ValidationError{
				Type:    "Accounting",
				Message: fmt.Sprintf("free block records requested size %d", h.Requested),
				Offset:  off,
			}
		}
		return nil
	})
}

// walk visits every block from the head, enforcing the chain rules before
// handing each header to fn.
func walk(data []byte, kind string, fn func(off int, h format.Header) error) error {
	if len(data) < format.MinArenaSize {
		return &ValidationError{
			Type:    kind,
			Message: fmt.Sprintf("arena too small: %d bytes (need %d)", len(data), format.MinArenaSize),
			Offset:  -1,
		}
	}

	off := 0
	prev := format.NilOffset
	for {
		h, err := format.ParseHeader(data, off)
		if err != nil {
			return &ValidationError{Type: kind, Message: err.Error(), Offset: off}
		}
		if h.Prev != prev {
			return &ValidationError{
				Type:    kind,
				Message: fmt.Sprintf("prev link 0x%X, expected 0x%X", h.Prev, prev),
				Offset:  off,
			}
		}
		end, ok := buf.End(len(data), off+format.HeaderSize, int(h.Size))
		if !ok {
			return &ValidationError{
				Type:    kind,
				Message: fmt.Sprintf("payload of %d bytes overruns arena end 0x%X", h.Size, len(data)),
				Offset:  off,
			}
		}
		if err := fn(off, h); err != nil {
			return err
		}

		if h.Next == format.NilOffset {
			if end != len(data) {
				return &ValidationError{
					Type:    kind,
					Message: fmt.Sprintf("last block ends at 0x%X, arena ends at 0x%X", end, len(data)),
					Offset:  off,
				}
			}
			return nil
		}
		if int(h.Next) != end {
			return &ValidationError{
				Type:    kind,
				Message: fmt.Sprintf("next link 0x%X, payload ends at 0x%X", h.Next, end),
				Offset:  off,
			}
		}
		prev = uint32(off)
		off = end
	}
}
