package main

import (
	"context"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestStressCommand(t *testing.T) {
	resetFlags()
	arenaSize = 4096
	stressWorkers = 4
	stressIterations = 200
	stressMaxSize = 64
	stressSeed = 42

	output, err := captureOutput(t, func() error {
		return runStress(context.Background())
	})
	require.NoError(t, err)
	assertContains(t, output, []string{
		"Workers: 4, iterations: 200, max size: 64, seed: 42",
		"Exhausted allocations: 0",
		"Arena reclaimed: 1 free block of 4072 bytes",
	})
}

func TestStressCommand_Canceled(t *testing.T) {
	resetFlags()
	arenaSize = 4096
	stressWorkers = 2

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := captureOutput(t, func() error {
		return runStress(ctx)
	})
	require.ErrorIs(t, err, context.Canceled)
}

func TestStressCommand_BadFlags(t *testing.T) {
	resetFlags()
	stressWorkers = 0

	err := runStress(context.Background())
	require.Error(t, err)
}
