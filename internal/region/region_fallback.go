//go:build !unix

// Package region provides the backing memory for heap arenas.
package region

import (
	"fmt"

	"github.com/bytedance/gopkg/lang/dirtmake"
)

// Map returns an uninitialized Go slice when anonymous mappings are not
// available. The heap writes every header it reads, so skipping the zeroing
// is safe.
func Map(size int) ([]byte, func() error, error) {
	if size <= 0 {
		return nil, nil, fmt.Errorf("region: invalid size %d", size)
	}
	return dirtmake.Bytes(size, size), func() error { return nil }, nil
}
