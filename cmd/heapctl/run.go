package main

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/logger"
)

var runStats bool

var runCmd = &cobra.Command{
	Use:   "run OPS...",
	Short: "Execute an allocation script",
	Long: `The run command executes allocator operations in order:

  a:N   allocate N bytes; the result is named #k, counting from 0
  f:K   free allocation #K
  d     dump the block list
  v     verify the arena invariants

A failed allocation still consumes its number; freeing it is a no-op.
The script always ends with a dump and a verification.

Example:
  heapctl run a:10 a:20 f:0 d a:5
  heapctl run a:100 a:100 f:1 f:0 --json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		return runScript(args)
	},
}

func init() {
	runCmd.Flags().BoolVar(&runStats, "stats", false, "Print allocator counters at the end")
	rootCmd.AddCommand(runCmd)
}

type opKind int

const (
	opAlloc opKind = iota
	opFree
	opDump
	opVerify
)

type op struct {
	kind opKind
	arg  int
	text string
}

// parseOp decodes one script token.
func parseOp(s string) (op, error) {
	switch s {
	case "d":
		return op{kind: opDump, text: s}, nil
	case "v":
		return op{kind: opVerify, text: s}, nil
	}
	name, val, ok := strings.Cut(s, ":")
	if !ok {
		return op{}, fmt.Errorf("invalid op %q", s)
	}
	n, err := strconv.Atoi(val)
	if err != nil || n < 0 {
		return op{}, fmt.Errorf("invalid argument in op %q", s)
	}
	switch name {
	case "a":
		return op{kind: opAlloc, arg: n, text: s}, nil
	case "f":
		return op{kind: opFree, arg: n, text: s}, nil
	}
	return op{}, fmt.Errorf("unknown op %q", s)
}

func runScript(args []string) error {
	ops := make([]op, 0, len(args))
	for _, a := range args {
		o, err := parseOp(a)
		if err != nil {
			return err
		}
		ops = append(ops, o)
	}

	h, err := newHeap()
	if err != nil {
		return err
	}
	defer h.Close()

	var refs []heap.Ref
	for _, o := range ops {
		switch o.kind {
		case opAlloc:
			ref, _, err := h.Alloc(o.arg)
			switch {
			case errors.Is(err, heap.ErrNoSpace):
				printInfo("%s: no space\n", o.text)
			case err != nil:
				return fmt.Errorf("%s: %w", o.text, err)
			default:
				printVerbose("%s: #%d at 0x%06X\n", o.text, len(refs), uint32(ref))
			}
			refs = append(refs, ref)
		case opFree:
			if o.arg >= len(refs) {
				return fmt.Errorf("%s: no allocation #%d", o.text, o.arg)
			}
			if err := h.Free(refs[o.arg]); err != nil {
				return fmt.Errorf("%s: %w", o.text, err)
			}
			printVerbose("%s: freed #%d\n", o.text, o.arg)
		case opDump:
			if jsonOut {
				continue
			}
			if err := printDump(h, "After "+o.text); err != nil {
				return err
			}
		case opVerify:
			if err := h.Verify(); err != nil {
				return fmt.Errorf("%s: %w", o.text, err)
			}
		}
		logger.Debug("op done", "op", o.text)
	}

	if err := printDump(h, "Final arena"); err != nil {
		return err
	}
	if err := h.Verify(); err != nil {
		return fmt.Errorf("arena verification failed: %w", err)
	}
	if runStats && textOutput() {
		printInfo("\n")
		h.PrintStats(os.Stdout)
	}
	return nil
}
