package heap

import (
	"fmt"
	"io"
)

// Stats holds allocator counters since the last Init.
type Stats struct {
	AllocCalls       int   // Alloc calls with n > 0
	AllocFailures    int   // Alloc calls that returned ErrNoSpace
	FreeCalls        int   // Free calls with a non-nil ref
	FreeErrors       int   // Free calls rejected with ErrBadRef or ErrDoubleFree
	SplitCount       int   // Allocations that split off a free remainder
	CoalesceForward  int   // Merges of a freed block with its successor
	CoalesceBackward int   // Merges of a freed block into its predecessor
	BytesAllocated   int64 // Payload bytes granted, including unsplit slack
	BytesFreed       int64 // Payload bytes returned
	InUseBytes       int64 // Payload bytes currently granted
}

// Stats returns a snapshot of the counters.
func (h *Heap) Stats() Stats {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.stats
}

// PrintStats writes the counters to w, one per line.
func (h *Heap) PrintStats(w io.Writer) {
	s := h.Stats()
	fmt.Fprintf(w, "Alloc calls:       %d (failed %d)\n", s.AllocCalls, s.AllocFailures)
	fmt.Fprintf(w, "Free calls:        %d (rejected %d)\n", s.FreeCalls, s.FreeErrors)
	fmt.Fprintf(w, "Splits:            %d\n", s.SplitCount)
	fmt.Fprintf(w, "Coalesce forward:  %d\n", s.CoalesceForward)
	fmt.Fprintf(w, "Coalesce backward: %d\n", s.CoalesceBackward)
	fmt.Fprintf(w, "Bytes allocated:   %d\n", s.BytesAllocated)
	fmt.Fprintf(w, "Bytes freed:       %d\n", s.BytesFreed)
	fmt.Fprintf(w, "Bytes in use:      %d\n", s.InUseBytes)
}
