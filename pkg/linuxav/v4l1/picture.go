package v4l1

import (
	"fmt"
	"strings"
)

// Picture holds the image controls and pixel format of a device.
// Control semantics and ranges are driver-defined.
type Picture struct {
	Brightness uint16
	Hue        uint16
	Colour     uint16
	Contrast   uint16
	Whiteness  uint16
	Depth      uint16 // bits per pixel
	Palette    Palette
}

// PictureFieldNames lists the names accepted by Picture.SetField.
var PictureFieldNames = []string{"brightness", "hue", "colour", "contrast", "whiteness", "depth", "palette"}

// SetPalette selects a palette by name.
func (p *Picture) SetPalette(name string) error {
	pal, err := ParsePalette(name)
	if err != nil {
		return err
	}
	p.Palette = pal
	return nil
}

// PaletteName returns the name of the selected palette.
func (p Picture) PaletteName() string { return p.Palette.String() }

// Validate checks the palette against the enumeration.
func (p Picture) Validate() error {
	if !p.Palette.Valid() {
		return &InvalidEncodingError{Value: p.Palette.String()}
	}
	return nil
}

// SetField assigns a control by name. "color" is accepted for "colour".
// The palette accepts a name or a Palette.
func (p *Picture) SetField(name string, value any) error {
	key := strings.ToLower(name)
	if key == "palette" {
		switch v := value.(type) {
		case string:
			return p.SetPalette(v)
		case Palette:
			if !v.Valid() {
				return &InvalidEncodingError{Value: v.String()}
			}
			p.Palette = v
			return nil
		default:
			return &TypeMismatchError{Want: "palette name", Got: fmt.Sprintf("%T", value)}
		}
	}

	var dst *uint16
	switch key {
	case "brightness":
		dst = &p.Brightness
	case "hue":
		dst = &p.Hue
	case "colour", "color":
		dst = &p.Colour
	case "contrast":
		dst = &p.Contrast
	case "whiteness":
		dst = &p.Whiteness
	case "depth":
		dst = &p.Depth
	default:
		return fmt.Errorf("v4l1: unknown picture field %q", name)
	}

	n, err := toUnsigned(value, 16)
	if err != nil {
		return err
	}
	*dst = uint16(n)
	return nil
}

func (p Picture) String() string {
	return fmt.Sprintf("Brightness[%d] Hue[%d] Color[%d] Contrast[%d] Whiteness[%d] Depth[%d] Palette[%s]",
		p.Brightness, p.Hue, p.Colour, p.Contrast, p.Whiteness, p.Depth, p.Palette)
}

func (p Picture) kernel() videoPicture {
	return videoPicture{
		Brightness: p.Brightness,
		Hue:        p.Hue,
		Colour:     p.Colour,
		Contrast:   p.Contrast,
		Whiteness:  p.Whiteness,
		Depth:      p.Depth,
		Palette:    uint16(p.Palette),
	}
}

// MarshalBinary encodes the record as struct video_picture.
func (p Picture) MarshalBinary() ([]byte, error) {
	kp := p.kernel()
	return encode(&kp)
}

// UnmarshalBinary decodes a struct video_picture. The palette is taken as
// reported; drivers may return values outside the enumeration.
func (p *Picture) UnmarshalBinary(b []byte) error {
	var kp videoPicture
	if err := decode(b, &kp); err != nil {
		return err
	}
	*p = Picture{
		Brightness: kp.Brightness,
		Hue:        kp.Hue,
		Colour:     kp.Colour,
		Contrast:   kp.Contrast,
		Whiteness:  kp.Whiteness,
		Depth:      kp.Depth,
		Palette:    Palette(kp.Palette),
	}
	return nil
}
