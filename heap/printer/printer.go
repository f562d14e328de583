// Package printer renders heap dumps for people (text) and tools (JSON).
package printer

import (
	"fmt"
	"io"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/joshuapare/heapkit/heap"
)

// Format specifies the output format for printing.
type Format string

const (
	// FormatText outputs one human-readable line per block.
	FormatText Format = "text"

	// FormatJSON outputs a single JSON document.
	FormatJSON Format = "json"
)

// Options controls printing behavior.
type Options struct {
	// Format specifies output format (text, json).
	// Default: FormatText
	Format Format

	// Title is printed above the block list (text format only).
	// Default: "" (no title)
	Title string

	// ShowOffsets prefixes each block with its header offset (text format only).
	// Default: false
	ShowOffsets bool

	// ShowSummary appends block and byte totals.
	// Default: true
	ShowSummary bool
}

// DefaultOptions returns sensible defaults for printing.
func DefaultOptions() Options {
	return Options{
		Format:      FormatText,
		ShowOffsets: false,
		ShowSummary: true,
	}
}

// Printer handles formatted output of heap dumps.
type Printer struct {
	opts   Options
	writer io.Writer
	msg    *message.Printer
	err    error
}

// New creates a new Printer writing to w.
//
// Example:
//
//	p := printer.New(os.Stdout, printer.DefaultOptions())
//	p.PrintHeap(h)
func New(w io.Writer, opts Options) *Printer {
	return &Printer{
		opts:   opts,
		writer: w,
		msg:    message.NewPrinter(language.English),
	}
}

// PrintHeap dumps a and prints the result.
func (p *Printer) PrintHeap(a heap.Allocator) error {
	return p.PrintBlocks(a.Dump())
}

// PrintBlocks prints blocks as returned by Dump.
func (p *Printer) PrintBlocks(blocks []heap.Block) error {
	switch p.opts.Format {
	case FormatJSON:
		return p.printJSON(blocks)
	case FormatText, "":
		return p.printText(blocks)
	default:
		return fmt.Errorf("printer: unsupported format %q", p.opts.Format)
	}
}

// printf writes through the locale-aware printer and keeps the first error.
func (p *Printer) printf(format string, args ...any) {
	if p.err != nil {
		return
	}
	_, p.err = p.msg.Fprintf(p.writer, format, args...)
}
