package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestBestFit_PicksSmallestSufficient lays out free blocks of 5, 10 and 3
// bytes at increasing addresses. A 4-byte request must take the 5-byte block:
// the 3-byte block is too small and the 10-byte block leaves more over.
func TestBestFit_PicksSmallestSufficient(t *testing.T) {
	h := newTestHeap(t, 512)
	refs := carve(t, h, 5, 1, 10, 1, 3)
	a, b, c := refs[0], refs[2], refs[4]

	mustFree(t, h, a)
	mustFree(t, h, b)
	mustFree(t, h, c)
	requireLayout(t, h, free(5), used(1), free(10), used(1), free(3), used(348))

	ref, buf := mustAlloc(t, h, 4)
	assert.Equal(t, a, ref, "should allocate from the 5-byte block")
	assert.Len(t, buf, 4)
	assert.Equal(t, 5, cap(buf), "1-byte remainder is granted, not split")

	requireLayout(t, h, used(5), used(1), free(10), used(1), free(3), used(348))
	assertInvariants(t, h)
}

// TestBestFit_ExactMatch verifies an exact-size block is chosen over larger ones.
func TestBestFit_ExactMatch(t *testing.T) {
	h := newTestHeap(t, 512)
	refs := carve(t, h, 5, 1, 10, 1, 3)
	mustFree(t, h, refs[0])
	mustFree(t, h, refs[2])
	mustFree(t, h, refs[4])

	ref, _ := mustAlloc(t, h, 10)
	assert.Equal(t, refs[2], ref)

	ref, _ = mustAlloc(t, h, 3)
	assert.Equal(t, refs[4], ref)

	ref, _ = mustAlloc(t, h, 5)
	assert.Equal(t, refs[0], ref)
	assertInvariants(t, h)
}

// TestBestFit_TieGoesToLowestAddress verifies that equally good candidates
// resolve to the first block in address order.
func TestBestFit_TieGoesToLowestAddress(t *testing.T) {
	h := newTestHeap(t, 512)
	refs := carve(t, h, 8, 1, 8, 1, 8)
	mustFree(t, h, refs[4])
	mustFree(t, h, refs[2])
	mustFree(t, h, refs[0])

	ref, _ := mustAlloc(t, h, 6)
	assert.Equal(t, refs[0], ref)

	ref, _ = mustAlloc(t, h, 8)
	assert.Equal(t, refs[2], ref)

	ref, _ = mustAlloc(t, h, 7)
	assert.Equal(t, refs[4], ref)
	assertInvariants(t, h)
}

// TestBestFit_ScansPastFirstFit verifies the scan does not stop at the first
// block that is merely large enough.
func TestBestFit_ScansPastFirstFit(t *testing.T) {
	h := newTestHeap(t, 512)
	refs := carve(t, h, 40, 1, 12, 1)
	mustFree(t, h, refs[0])
	mustFree(t, h, refs[2])

	ref, _ := mustAlloc(t, h, 9)
	assert.Equal(t, refs[2], ref, "12-byte block leaves less over than the 40-byte block")
	assertInvariants(t, h)
}

// TestBestFit_SmallHoleBeatsLargeTail verifies a hole wins over the free tail.
func TestBestFit_SmallHoleBeatsLargeTail(t *testing.T) {
	h := newTestHeap(t, 512)
	a, _ := mustAlloc(t, h, 30)
	mustAlloc(t, h, 1)
	mustFree(t, h, a)

	blocks := h.Dump()
	require.Len(t, blocks, 3)
	require.False(t, blocks[2].Used)

	ref, _ := mustAlloc(t, h, 25)
	assert.Equal(t, a, ref)
	assertInvariants(t, h)
}

// TestAllocationDeterminism verifies that the same sequence of operations
// produces identical refs and layouts, whichever way the arena is backed.
func TestAllocationDeterminism(t *testing.T) {
	sequence := []int{64, 128, 3, 512, 128, 64, 1024}

	run := func(h *Heap) ([]Ref, []Block) {
		refs := make([]Ref, len(sequence))
		for i, n := range sequence {
			refs[i], _ = mustAlloc(t, h, n)
		}
		mustFree(t, h, refs[1])
		mustFree(t, h, refs[4])
		ref, _ := mustAlloc(t, h, 100)
		return append(refs, ref), h.Dump()
	}

	mapped, err := New(8192, DefaultOptions())
	require.NoError(t, err)
	defer mapped.Close()

	refs1, dump1 := run(mapped)
	refs2, dump2 := run(newTestHeap(t, 8192))

	assert.Equal(t, refs1, refs2, "allocations must be deterministic")
	assert.Equal(t, dump1, dump2)
}
