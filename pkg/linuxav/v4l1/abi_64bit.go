//go:build amd64 || arm64 || riscv64 || ppc64 || ppc64le || mips64 || mips64le || s390x || loong64

package v4l1

import "unsafe"

// Compile-time struct size assertion for 64-bit architectures.
var _ [40]byte = [unsafe.Sizeof(videoWindow{})]byte{}

// IOCTL constants for 64-bit architectures. struct video_window carries a
// pointer, so its size and the request codes depend on the word size.
const (
	VIDIOCGWIN = iocRead<<iocDirShift | 40<<16 | 0x76<<8 | 9   // _IOR('v', 9, struct video_window)
	VIDIOCSWIN = iocWrite<<iocDirShift | 40<<16 | 0x76<<8 | 10 // _IOW('v', 10, struct video_window)
)

// videoWindow has size 40 bytes.
type videoWindow struct {
	X         uint32  // offset 0
	Y         uint32  // offset 4
	Width     uint32  // offset 8
	Height    uint32  // offset 12
	Chromakey uint32  // offset 16
	Flags     uint32  // offset 20
	Clips     uint64  // offset 24, struct video_clip __user *
	Clipcount int32   // offset 32
	_         [4]byte // offset 36, tail padding to pointer alignment
}

func clipsField(p uintptr) uint64 { return uint64(p) }
