package heap

// Ref is the offset of a block's payload within the arena. It stands in for
// the payload pointer a raw allocator would return.
type Ref uint32

// NilRef is never a valid payload: every payload follows a header.
const NilRef Ref = 0

// Block describes one block of the arena, as reported by Dump.
type Block struct {
	Offset    int  `json:"offset"`    // header offset
	Ref       Ref  `json:"ref"`       // payload offset
	Size      int  `json:"size"`      // payload bytes
	Requested int  `json:"requested"` // bytes the caller asked for; 0 when free
	Used      bool `json:"used"`
}

// Allocator is the surface shared by the heap and anything wrapping it.
//
// Implementations:
//   - Heap: the best-fit free-list allocator
type Allocator interface {
	// Alloc reserves n bytes. n == 0 returns NilRef and a nil slice without
	// error; exhaustion returns ErrNoSpace.
	Alloc(n int) (Ref, []byte, error)

	// Free returns the block owning ref to the free list and merges it with
	// free neighbors. Free(NilRef) is a no-op.
	Free(ref Ref) error

	// Dump reports every block in address order.
	Dump() []Block
}

var _ Allocator = (*Heap)(nil)
