//go:build !linux

package v4l1

import (
	"fmt"
	"runtime"
)

// Open is only available on Linux.
func Open(path string, _ ...Option) (*Device, error) {
	return nil, fmt.Errorf("open %s: v4l1 is not supported on %s", path, runtime.GOOS)
}
