package heap

import "github.com/joshuapare/heapkit/internal/format"

// Summary aggregates a dump.
type Summary struct {
	Blocks      int `json:"blocks"`
	UsedBlocks  int `json:"used_blocks"`
	FreeBlocks  int `json:"free_blocks"`
	UsedBytes   int `json:"used_bytes"`
	FreeBytes   int `json:"free_bytes"`
	HeaderBytes int `json:"header_bytes"`
	LargestFree int `json:"largest_free"`
	Slack       int `json:"slack"` // granted minus requested over used blocks
}

// Summarize computes totals over blocks as returned by Dump.
func Summarize(blocks []Block) Summary {
	var s Summary
	for _, b := range blocks {
		s.Blocks++
		s.HeaderBytes += format.HeaderSize
		if b.Used {
			s.UsedBlocks++
			s.UsedBytes += b.Size
			s.Slack += b.Size - b.Requested
			continue
		}
		s.FreeBlocks++
		s.FreeBytes += b.Size
		s.LargestFree = max(s.LargestFree, b.Size)
	}
	return s
}

// Arena returns the arena size the summarized blocks cover.
func (s Summary) Arena() int {
	return s.HeaderBytes + s.UsedBytes + s.FreeBytes
}
