package v4l1

import (
	"encoding/binary"
	"fmt"
)

// RGB24 converts the frame to packed 8-bit R, G, B samples, row-major.
// Grey, rgb24, rgb32, rgb565 and rgb555 frames are supported; rgb24 bytes
// are copied in driver order.
func (f *Frame) RGB24() ([]byte, error) {
	pixels := int(f.Width) * int(f.Height)
	stride := (int(f.Depth) + 7) / 8
	if f.Depth == 0 || len(f.Data) < pixels*stride {
		return nil, fmt.Errorf("v4l1: %d bytes cannot hold %dx%d %s pixels at %d bpp",
			len(f.Data), f.Width, f.Height, f.Palette, f.Depth)
	}

	out := make([]byte, pixels*3)
	src := f.Data
	switch f.Palette {
	case PaletteGrey:
		for i := range pixels {
			v := src[i*stride]
			out[i*3], out[i*3+1], out[i*3+2] = v, v, v
		}
	case PaletteRGB24, PaletteRGB32:
		if stride < 3 {
			return nil, fmt.Errorf("v4l1: %s at %d bpp", f.Palette, f.Depth)
		}
		for i := range pixels {
			copy(out[i*3:i*3+3], src[i*stride:i*stride+3])
		}
	case PaletteRGB565:
		if stride != 2 {
			return nil, fmt.Errorf("v4l1: %s at %d bpp", f.Palette, f.Depth)
		}
		for i := range pixels {
			v := binary.NativeEndian.Uint16(src[i*2:])
			out[i*3] = expand5(v >> 11)
			out[i*3+1] = expand6(v >> 5)
			out[i*3+2] = expand5(v)
		}
	case PaletteRGB555:
		if stride != 2 {
			return nil, fmt.Errorf("v4l1: %s at %d bpp", f.Palette, f.Depth)
		}
		for i := range pixels {
			v := binary.NativeEndian.Uint16(src[i*2:])
			out[i*3] = expand5(v >> 10)
			out[i*3+1] = expand5(v >> 5)
			out[i*3+2] = expand5(v)
		}
	default:
		return nil, fmt.Errorf("v4l1: no RGB conversion for palette %s", f.Palette)
	}
	return out, nil
}

func expand5(v uint16) byte {
	v &= 0x1f
	return byte(v<<3 | v>>2)
}

func expand6(v uint16) byte {
	v &= 0x3f
	return byte(v<<2 | v>>4)
}
