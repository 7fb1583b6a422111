package v4l1

import (
	"fmt"
	"strings"
)

// Window is the capture rectangle. Clips is the driver's clip-list pointer;
// it is passed through untouched and never dereferenced.
type Window struct {
	X         uint32
	Y         uint32
	Width     uint32
	Height    uint32
	Chromakey uint32
	Flags     uint32
	Clips     uintptr
	Clipcount int32
}

// WindowFieldNames lists the names accepted by Window.SetField.
var WindowFieldNames = []string{"x", "y", "width", "height", "chromakey", "flags", "clipcount"}

// SetField assigns a window field by name. The clip list is opaque and
// cannot be set by name.
func (w *Window) SetField(name string, value any) error {
	key := strings.ToLower(name)
	if key == "clips" {
		return &ImmutableFieldError{Field: name}
	}
	if key == "clipcount" {
		n, err := toInt32(value)
		if err != nil {
			return err
		}
		w.Clipcount = n
		return nil
	}

	var dst *uint32
	switch key {
	case "x":
		dst = &w.X
	case "y":
		dst = &w.Y
	case "width":
		dst = &w.Width
	case "height":
		dst = &w.Height
	case "chromakey":
		dst = &w.Chromakey
	case "flags":
		dst = &w.Flags
	default:
		return fmt.Errorf("v4l1: unknown window field %q", name)
	}

	n, err := toUnsigned(value, 32)
	if err != nil {
		return err
	}
	*dst = uint32(n)
	return nil
}

func (w Window) String() string {
	return fmt.Sprintf("Pos[%d,%d] Size[%d,%d]", w.X, w.Y, w.Width, w.Height)
}

// MarshalBinary encodes the record as struct video_window for the running
// architecture.
func (w Window) MarshalBinary() ([]byte, error) {
	kw := videoWindow{
		X:         w.X,
		Y:         w.Y,
		Width:     w.Width,
		Height:    w.Height,
		Chromakey: w.Chromakey,
		Flags:     w.Flags,
		Clips:     clipsField(w.Clips),
		Clipcount: w.Clipcount,
	}
	return encode(&kw)
}

// UnmarshalBinary decodes a struct video_window.
func (w *Window) UnmarshalBinary(b []byte) error {
	var kw videoWindow
	if err := decode(b, &kw); err != nil {
		return err
	}
	*w = Window{
		X:         kw.X,
		Y:         kw.Y,
		Width:     kw.Width,
		Height:    kw.Height,
		Chromakey: kw.Chromakey,
		Flags:     kw.Flags,
		Clips:     uintptr(kw.Clips),
		Clipcount: kw.Clipcount,
	}
	return nil
}
