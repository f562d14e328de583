package heap

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/joshuapare/heapkit/internal/format"
)

// TestSplitThreshold verifies a block is only split when the leftover is
// strictly larger than one header, i.e. the remainder can hold a header and at
// least one payload byte.
func TestSplitThreshold(t *testing.T) {
	tests := []struct {
		name      string
		need      int
		wantSplit bool
		wantSize  int // granted size of the used block
	}{
		{"exact fit", smallPayload, false, smallPayload},
		{"leftover below header", smallPayload - 12, false, smallPayload},
		{"leftover equals header", smallPayload - format.HeaderSize, false, smallPayload},
		{"leftover one past header", smallPayload - format.HeaderSize - 1, true, smallPayload - format.HeaderSize - 1},
		{"large leftover", 100, true, 100},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			h := newTestHeap(t, smallArena)
			_, buf := mustAlloc(t, h, tt.need)
			assert.Len(t, buf, tt.need)
			assert.Equal(t, tt.wantSize, cap(buf))

			blocks := h.Dump()
			if tt.wantSplit {
				requireLayout(t, h, used(tt.wantSize), free(smallPayload-tt.wantSize-format.HeaderSize))
				assert.Equal(t, 1, h.Stats().SplitCount)
			} else {
				requireLayout(t, h, used(smallPayload))
				assert.Equal(t, tt.need, blocks[0].Requested, "requested size is kept apart from the granted size")
				assert.Zero(t, h.Stats().SplitCount)
			}
			assertInvariants(t, h)
		})
	}
}

// TestSplit_SmallestRemainder verifies a split can leave a one-byte free block.
func TestSplit_SmallestRemainder(t *testing.T) {
	h := newTestHeap(t, smallArena)
	mustAlloc(t, h, smallPayload-format.HeaderSize-1)
	requireLayout(t, h, used(smallPayload-format.HeaderSize-1), free(1))

	ref, buf := mustAlloc(t, h, 1)
	assert.Len(t, buf, 1)
	requireLayout(t, h, used(smallPayload-format.HeaderSize-1), used(1))

	_, _, err := h.Alloc(1)
	assert.ErrorIs(t, err, ErrNoSpace)

	mustFree(t, h, ref)
	assertInvariants(t, h)
}

// TestSplit_RelinksSuccessor verifies that splitting a block in the middle of
// the chain points the old successor back at the new remainder.
func TestSplit_RelinksSuccessor(t *testing.T) {
	h := newTestHeap(t, smallArena)
	refs := carve(t, h, 100, 1)
	mustFree(t, h, refs[0])

	ref, _ := mustAlloc(t, h, 10)
	assert.Equal(t, refs[0], ref)

	// 100 - 10 - 24 = 66 bytes remain in the new middle block.
	requireLayout(t, h, used(10), free(66), used(1), used(smallPayload-100-1-2*format.HeaderSize))

	blocks := h.Dump()
	guard, err := format.ParseHeader(h.data, blocks[2].Offset)
	assert.NoError(t, err)
	assert.Equal(t, uint32(blocks[1].Offset), guard.Prev)
	assertInvariants(t, h)
}
