package heap

import (
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/joshuapare/heapkit/internal/format"
)

const (
	// smallArena leaves a 232-byte payload in the initial block.
	smallArena   = 256
	smallPayload = smallArena - format.HeaderSize
)

// shape is the (size, used) pair a dump reports for one block.
type shape struct {
	size int
	used bool
}

func used(size int) shape { return shape{size: size, used: true} }
func free(size int) shape { return shape{size: size} }

// newTestHeap creates a buffer-backed heap with junk fill enabled regardless
// of build tags.
func newTestHeap(t testing.TB, size int) *Heap {
	t.Helper()
	opts := DefaultOptions()
	opts.JunkFill = true
	h, err := NewFromBuffer(make([]byte, size), opts)
	require.NoError(t, err)
	return h
}

// layout reduces a dump to block shapes.
func layout(h *Heap) []shape {
	var out []shape
	for _, b := range h.Dump() {
		out = append(out, shape{size: b.Size, used: b.Used})
	}
	return out
}

// assertInvariants checks the raw arena and the coverage sum from the dump.
func assertInvariants(t testing.TB, h *Heap) {
	t.Helper()
	require.NoError(t, h.Verify())

	total := 0
	prevFree := false
	for _, b := range h.Dump() {
		total += format.HeaderSize + b.Size
		require.False(t, prevFree && !b.Used, "adjacent free blocks at offset %d", b.Offset)
		prevFree = !b.Used
	}
	require.Equal(t, h.Size(), total, "blocks must cover the arena")
}

// requireLayout compares the dump against want.
func requireLayout(t testing.TB, h *Heap, want ...shape) {
	t.Helper()
	require.Equal(t, want, layout(h))
}

func mustAlloc(t testing.TB, h *Heap, n int) (Ref, []byte) {
	t.Helper()
	ref, buf, err := h.Alloc(n)
	require.NoError(t, err, "Alloc(%d)", n)
	require.NotEqual(t, NilRef, ref)
	return ref, buf
}

func mustFree(t testing.TB, h *Heap, ref Ref) {
	t.Helper()
	require.NoError(t, h.Free(ref), "Free(0x%X)", uint32(ref))
}

// carve allocates sizes in order on a fresh heap, then allocates whatever
// free tail is left so the arena holds no free block. It returns the refs of
// sizes (the tail ref is last).
func carve(t testing.TB, h *Heap, sizes ...int) []Ref {
	t.Helper()
	refs := make([]Ref, 0, len(sizes)+1)
	for _, n := range sizes {
		ref, _ := mustAlloc(t, h, n)
		refs = append(refs, ref)
	}
	blocks := h.Dump()
	tail := blocks[len(blocks)-1]
	require.False(t, tail.Used, "carve expects a free tail")
	ref, _ := mustAlloc(t, h, tail.Size)
	return append(refs, ref)
}
