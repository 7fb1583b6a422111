package v4l1

import (
	"fmt"
	"strings"
)

// Palette selects the pixel encoding the driver produces. Its value is the
// position in the fixed palette enumeration and is sent to the driver as is.
type Palette uint16

// Known palettes, in enumeration order.
const (
	PaletteGrey Palette = iota
	PaletteHI240
	PaletteRGB565
	PaletteRGB24
	PaletteRGB32
	PaletteRGB555
	PaletteYUV422
	PaletteYUYV
	PaletteUYVY
	PaletteYUV420
	PaletteYUV411
	PaletteRaw
	PaletteYUV422P
	PaletteYUV411P
	PaletteYUV420P
	PaletteYUV410P
)

var paletteNames = [...]string{
	"grey", "hi240", "rgb565", "rgb24", "rgb32", "rgb555", "yuv422", "yuyv",
	"uyvy", "yuv420", "yuv411", "raw", "yuv422p", "yuv411p", "yuv420p", "yuv410p",
}

// PaletteNames returns the palette names in enumeration order.
func PaletteNames() []string {
	names := make([]string, len(paletteNames))
	copy(names, paletteNames[:])
	return names
}

// ParsePalette maps a palette name to its enumeration index. Matching is
// case-insensitive.
func ParsePalette(name string) (Palette, error) {
	key := strings.ToLower(strings.TrimSpace(name))
	for i, n := range paletteNames {
		if n == key {
			return Palette(i), nil
		}
	}
	return 0, &InvalidEncodingError{Value: name}
}

// Valid reports whether p is inside the enumeration.
func (p Palette) Valid() bool {
	return int(p) < len(paletteNames)
}

func (p Palette) String() string {
	if p.Valid() {
		return paletteNames[p]
	}
	return fmt.Sprintf("palette(%d)", uint16(p))
}

// MarshalText implements encoding.TextMarshaler.
func (p Palette) MarshalText() ([]byte, error) {
	if !p.Valid() {
		return nil, &InvalidEncodingError{Value: p.String()}
	}
	return []byte(p.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (p *Palette) UnmarshalText(text []byte) error {
	parsed, err := ParsePalette(string(text))
	if err != nil {
		return err
	}
	*p = parsed
	return nil
}
