//go:build 386 || arm || mips || mipsle

package v4l1

import "unsafe"

// Compile-time struct size assertion for 32-bit architectures.
var _ [32]byte = [unsafe.Sizeof(videoWindow{})]byte{}

// IOCTL constants for 32-bit architectures.
const (
	VIDIOCGWIN = iocRead<<iocDirShift | 32<<16 | 0x76<<8 | 9   // _IOR('v', 9, struct video_window)
	VIDIOCSWIN = iocWrite<<iocDirShift | 32<<16 | 0x76<<8 | 10 // _IOW('v', 10, struct video_window)
)

// videoWindow has size 32 bytes.
type videoWindow struct {
	X         uint32 // offset 0
	Y         uint32 // offset 4
	Width     uint32 // offset 8
	Height    uint32 // offset 12
	Chromakey uint32 // offset 16
	Flags     uint32 // offset 20
	Clips     uint32 // offset 24, struct video_clip __user *
	Clipcount int32  // offset 28
}

func clipsField(p uintptr) uint32 { return uint32(p) }
