package printer

import (
	"strings"

	"github.com/joshuapare/heapkit/heap"
)

// printText prints one line per block in the style
//
//	Block Size: 1,024, Used: yes, Data Size: 1,000
func (p *Printer) printText(blocks []heap.Block) error {
	p.err = nil

	if p.opts.Title != "" {
		p.printf("%s\n", p.opts.Title)
		p.printf("%s\n", strings.Repeat("─", len([]rune(p.opts.Title))))
	}

	for _, b := range blocks {
		if p.opts.ShowOffsets {
			p.printf("[0x%06X] ", b.Offset)
		}
		p.printf("Block Size: %d, Used: %s, Data Size: %d\n", b.Size, yesNo(b.Used), b.Requested)
	}

	if p.opts.ShowSummary {
		s := heap.Summarize(blocks)
		p.printf("Blocks: %d (used %d, free %d) | Used: %d B | Free: %d B | Largest free: %d B | Slack: %d B\n",
			s.Blocks, s.UsedBlocks, s.FreeBlocks, s.UsedBytes, s.FreeBytes, s.LargestFree, s.Slack)
	}
	return p.err
}

func yesNo(v bool) string {
	if v {
		return "yes"
	}
	return "no"
}
