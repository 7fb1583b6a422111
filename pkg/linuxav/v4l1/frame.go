package v4l1

import (
	"math"
	"math/bits"
)

// MaxFrameSize bounds a single frame allocation.
const MaxFrameSize = 256 << 20

// Frame is one raw frame and the geometry that sized it. Byte meaning
// follows Palette.
type Frame struct {
	Data    []byte
	Width   uint32
	Height  uint32
	Depth   uint16
	Palette Palette
}

// FrameSize returns the byte length of a width x height frame at depth
// bits per pixel. It saturates at math.MaxUint64.
func FrameSize(width, height uint32, depth uint16) uint64 {
	hi, lo := bits.Mul64(uint64(width)*uint64(height), uint64(depth))
	if hi >= 8 {
		return math.MaxUint64
	}
	size, _ := bits.Div64(hi, lo, 8)
	return size
}

// BytesPerPixel returns the whole bytes each pixel takes at the frame depth.
func (f *Frame) BytesPerPixel() int {
	return int(f.Depth) / 8
}
