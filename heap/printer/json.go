package printer

import (
	"encoding/json"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

type jsonReport struct {
	HeaderSize int           `json:"header_size"`
	Blocks     []heap.Block  `json:"blocks"`
	Summary    *heap.Summary `json:"summary,omitempty"`
}

// printJSON prints the dump as one indented JSON document.
func (p *Printer) printJSON(blocks []heap.Block) error {
	report := jsonReport{
		HeaderSize: format.HeaderSize,
		Blocks:     blocks,
	}
	if report.Blocks == nil {
		report.Blocks = []heap.Block{}
	}
	if p.opts.ShowSummary {
		s := heap.Summarize(blocks)
		report.Summary = &s
	}

	encoder := json.NewEncoder(p.writer)
	encoder.SetIndent("", "  ")
	return encoder.Encode(report)
}
