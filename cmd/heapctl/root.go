package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/joshuapare/heapkit/heap"
	"github.com/joshuapare/heapkit/heap/printer"
	"github.com/joshuapare/heapkit/internal/logger"
)

var (
	// Global flags
	verbose   bool
	quiet     bool
	jsonOut   bool
	logLevel  string
	logDir    string
	arenaSize int
	noJunk    bool
)

var rootCmd = &cobra.Command{
	Use:   "heapctl",
	Short: "Exercise a best-fit free-list heap arena",
	Long: `heapctl creates a fixed-size heap arena and drives it through
allocation and free sequences, printing the block list after each step and
verifying the arena invariants at the end.`,
	Version:       "0.1.0",
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		return logger.Init(logger.Options{
			Enabled: loggingEnabled(),
			LogDir:  logDir,
			Level:   logger.ParseLevel(logLevel),
		})
	},
}

func init() {
	// Global flags
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().
		BoolVarP(&quiet, "quiet", "q", false, "Suppress all output except errors")
	rootCmd.PersistentFlags().BoolVar(&jsonOut, "json", false, "Output dumps in JSON format")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logDir, "log-dir", "", "Write logs to dated files in this directory")
	rootCmd.PersistentFlags().
		IntVar(&arenaSize, "arena-size", heap.DefaultArenaSize, "Arena size in bytes")
	rootCmd.PersistentFlags().BoolVar(&noJunk, "no-junk", false, "Do not junk-fill fresh allocations")
}

func execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		os.Exit(1)
	}
}

// loggingEnabled reports whether any flag asked for log output. Without one,
// heaps fall back to their own default, which honors HEAP_LOG_ALLOC.
func loggingEnabled() bool {
	return verbose || logLevel != "" || logDir != ""
}

// newHeap creates an arena from the global flags.
func newHeap() (*heap.Heap, error) {
	opts := heap.DefaultOptions()
	if noJunk {
		opts.JunkFill = false
	}
	if loggingEnabled() {
		opts.Logger = logger.L
	}
	h, err := heap.New(arenaSize, opts)
	if err != nil {
		return nil, fmt.Errorf("failed to create arena: %w", err)
	}
	logger.Debug("arena created", "size", arenaSize, "junk", opts.JunkFill)
	return h, nil
}

// Helper functions for output

// textOutput reports whether plain-text progress should be printed. JSON
// mode keeps stdout to the dump documents.
func textOutput() bool {
	return !quiet && !jsonOut
}

// printInfo prints an info message if not in quiet or JSON mode
func printInfo(format string, args ...interface{}) {
	if textOutput() {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printVerbose prints a verbose message if verbose mode is enabled
func printVerbose(format string, args ...interface{}) {
	if verbose && textOutput() {
		fmt.Fprintf(os.Stdout, format, args...)
	}
}

// printDump prints the block list of a under title.
func printDump(a heap.Allocator, title string) error {
	if quiet {
		return nil
	}
	opts := printer.DefaultOptions()
	opts.Title = title
	opts.ShowOffsets = verbose
	if jsonOut {
		opts.Format = printer.FormatJSON
	}
	return printer.New(os.Stdout, opts).PrintHeap(a)
}
