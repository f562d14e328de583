package main

import (
	"context"
	"errors"
	"fmt"
	"math/rand"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	stressWorkers    int
	stressIterations int
	stressMaxSize    int
	stressSeed       int64
)

var stressCmd = &cobra.Command{
	Use:   "stress",
	Short: "Hammer one arena from concurrent workers",
	Long: `The stress command runs workers that allocate random sizes, fill each
payload with a worker-specific pattern, check the pattern is intact, and free
the block. When every worker is done the arena must be one free block again.

Example:
  heapctl stress
  heapctl stress --workers 16 --iterations 10000 --max-size 512 --seed 7`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runStress(cmd.Context())
	},
}

func init() {
	stressCmd.Flags().IntVar(&stressWorkers, "workers", 8, "Number of concurrent workers")
	stressCmd.Flags().IntVar(&stressIterations, "iterations", 1000, "Alloc/free rounds per worker")
	stressCmd.Flags().IntVar(&stressMaxSize, "max-size", 256, "Largest request in bytes")
	stressCmd.Flags().Int64Var(&stressSeed, "seed", 1, "Random seed; worker i uses seed+i")
	rootCmd.AddCommand(stressCmd)
}

func runStress(ctx context.Context) error {
	if stressWorkers < 1 || stressIterations < 0 || stressMaxSize < 1 {
		return fmt.Errorf("workers and max-size must be positive, iterations non-negative")
	}
	if ctx == nil {
		ctx = context.Background()
	}

	h, err := newHeap()
	if err != nil {
		return err
	}
	defer h.Close()

	exhausted := make([]int, stressWorkers)

	g, ctx := errgroup.WithContext(ctx)
	for w := 0; w < stressWorkers; w++ {
		g.Go(func() error {
			rng := rand.New(rand.NewSource(stressSeed + int64(w)))
			pattern := byte(w + 1)
			for i := 0; i < stressIterations; i++ {
				if err := ctx.Err(); err != nil {
					return err
				}
				n := rng.Intn(stressMaxSize) + 1
				ref, p, err := h.Alloc(n)
				if errors.Is(err, heap.ErrNoSpace) {
					exhausted[w]++
					continue
				}
				if err != nil {
					return fmt.Errorf("worker %d: alloc %d: %w", w, n, err)
				}
				for j := range p {
					p[j] = pattern
				}
				for j := range p {
					if p[j] != pattern {
						return fmt.Errorf("worker %d: payload at 0x%X overwritten", w, uint32(ref))
					}
				}
				if err := h.Free(ref); err != nil {
					return fmt.Errorf("worker %d: free 0x%X: %w", w, uint32(ref), err)
				}
			}
			logger.Debug("worker done", "worker", w, "exhausted", exhausted[w])
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	if err := h.Verify(); err != nil {
		return fmt.Errorf("arena verification failed: %w", err)
	}
	blocks := h.Dump()
	if len(blocks) != 1 || blocks[0].Used {
		return fmt.Errorf("arena not reclaimed: %d blocks remain", len(blocks))
	}

	if jsonOut {
		return printDump(h, "Final arena")
	}

	misses := 0
	for _, n := range exhausted {
		misses += n
	}
	printInfo("Workers: %d, iterations: %d, max size: %d, seed: %d\n",
		stressWorkers, stressIterations, stressMaxSize, stressSeed)
	printInfo("Exhausted allocations: %d\n", misses)
	if textOutput() {
		h.PrintStats(os.Stdout)
	}
	printInfo("Arena reclaimed: 1 free block of %d bytes\n", blocks[0].Size)
	return nil
}
