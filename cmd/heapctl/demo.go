package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/format"
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run the basic allocation and strategy scenarios",
	Long: `The demo command runs two scenarios against a fresh arena and dumps
the block list after every step:

  1. Allocate 1, 2, 3 and 4 bytes, then free them in allocation order.
  2. Allocate 3, 1, 2 and 5 bytes, free the 3 and 2 byte blocks, allocate
     1 byte into the best-fitting hole, then free everything.

Example:
  heapctl demo
  heapctl demo --arena-size 512 -v`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDemo()
	},
}

func init() {
	rootCmd.AddCommand(demoCmd)
}

func runDemo() error {
	h, err := newHeap()
	if err != nil {
		return err
	}
	defer h.Close()

	printInfo("Header size: %d bytes\n", format.HeaderSize)
	if err := printDump(h, "Initial arena"); err != nil {
		return err
	}

	printInfo("\nTest 1: basic allocation\n")
	var refs [4]heap.Ref
	for i := range refs {
		if refs[i], err = demoAlloc(h, i+1); err != nil {
			return err
		}
	}
	for i, ref := range refs {
		if err := demoFree(h, ref, i+1); err != nil {
			return err
		}
	}

	printInfo("\nTest 2: allocation strategy\n")
	sizes := [4]int{3, 1, 2, 5}
	for i, n := range sizes {
		if refs[i], err = demoAlloc(h, n); err != nil {
			return err
		}
	}
	for _, i := range []int{0, 2} {
		if err := demoFree(h, refs[i], sizes[i]); err != nil {
			return err
		}
	}
	// The 2-byte hole is the tighter fit for a 1-byte request.
	fit, err := demoAlloc(h, 1)
	if err != nil {
		return err
	}
	if err := demoFree(h, refs[3], sizes[3]); err != nil {
		return err
	}
	if err := demoFree(h, fit, 1); err != nil {
		return err
	}
	if err := demoFree(h, refs[1], sizes[1]); err != nil {
		return err
	}

	if err := h.Verify(); err != nil {
		return fmt.Errorf("arena verification failed: %w", err)
	}
	printInfo("\nArena verified\n")
	return nil
}

func demoAlloc(h *heap.Heap, n int) (heap.Ref, error) {
	ref, _, err := h.Alloc(n)
	if err != nil {
		return heap.NilRef, fmt.Errorf("alloc %d: %w", n, err)
	}
	return ref, printDump(h, fmt.Sprintf("Allocate %d bytes", n))
}

func demoFree(h *heap.Heap, ref heap.Ref, n int) error {
	if err := h.Free(ref); err != nil {
		return fmt.Errorf("free %d: %w", n, err)
	}
	return printDump(h, fmt.Sprintf("Free %d bytes", n))
}
