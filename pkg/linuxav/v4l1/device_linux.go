//go:build linux

package v4l1

import (
	"fmt"
	"os"
	"time"
	"unsafe"

	"golang.org/x/sys/unix"
)

type fdController struct {
	fd int
}

func (c fdController) Control(req uint, arg []byte) error {
	var p unsafe.Pointer
	if len(arg) > 0 {
		p = unsafe.Pointer(&arg[0])
	}
	_, _, errno := unix.Syscall(unix.SYS_IOCTL, uintptr(c.fd), uintptr(req), uintptr(p))
	if errno != 0 {
		return errno
	}
	return nil
}

// Open opens a V4L1 device node read-only and waits the settle delay.
func Open(path string, opts ...Option) (*Device, error) {
	o := openOptions{settle: DefaultSettleDelay}
	for _, opt := range opts {
		opt(&o)
	}

	fd, err := unix.Open(path, unix.O_RDONLY|unix.O_CLOEXEC, 0)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	f := os.NewFile(uintptr(fd), path)

	if o.settle > 0 {
		time.Sleep(o.settle)
	}

	return NewDevice(path, fdController{fd: fd}, f), nil
}
