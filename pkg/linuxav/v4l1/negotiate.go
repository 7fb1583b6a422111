package v4l1

import (
	"errors"
	"fmt"
)

// Mode is a depth and palette pair a driver may accept.
type Mode struct {
	Depth   uint16
	Palette Palette
}

func (m Mode) String() string {
	return fmt.Sprintf("%s@%dbpp", m.Palette, m.Depth)
}

// DefaultModes are tried in order by NegotiateMode when no modes are given.
var DefaultModes = []Mode{
	{Depth: 24, Palette: PaletteRGB24},
	{Depth: 16, Palette: PaletteRGB565},
	{Depth: 15, Palette: PaletteRGB555},
}

// ErrNoMode is returned when the driver rejects every candidate mode.
var ErrNoMode = errors.New("v4l1: no acceptable capture mode")

// UpdatePicture reads the picture, applies fn and writes it back. It returns
// the values the driver reports afterwards.
func (d *Device) UpdatePicture(fn func(*Picture) error) (Picture, error) {
	pic, err := d.QueryPicture()
	if err != nil {
		return Picture{}, err
	}
	if err := fn(&pic); err != nil {
		return Picture{}, err
	}
	if err := d.SetPicture(&pic); err != nil {
		return Picture{}, err
	}
	return d.QueryPicture()
}

// UpdateWindow reads the window, applies fn and writes it back. It returns
// the values the driver reports afterwards.
func (d *Device) UpdateWindow(fn func(*Window) error) (Window, error) {
	win, err := d.QueryWindow()
	if err != nil {
		return Window{}, err
	}
	if err := fn(&win); err != nil {
		return Window{}, err
	}
	if err := d.SetWindow(&win); err != nil {
		return Window{}, err
	}
	return d.QueryWindow()
}

// Configure sets the capture size, then depth and palette. A zero depth
// leaves the picture untouched. The effective values are returned.
func (d *Device) Configure(width, height uint32, depth uint16, palette Palette) (Window, Picture, error) {
	if depth != 0 && !palette.Valid() {
		return Window{}, Picture{}, &InvalidEncodingError{Value: palette.String()}
	}

	win, err := d.UpdateWindow(func(w *Window) error {
		w.Width = width
		w.Height = height
		return nil
	})
	if err != nil {
		return Window{}, Picture{}, err
	}

	if depth == 0 {
		pic, err := d.QueryPicture()
		return win, pic, err
	}

	pic, err := d.UpdatePicture(func(p *Picture) error {
		p.Depth = depth
		p.Palette = palette
		return nil
	})
	if err != nil {
		return Window{}, Picture{}, err
	}
	return win, pic, nil
}

// NegotiateMode tries each mode in order and keeps the first one the driver
// accepts. Only driver rejections move on to the next mode.
func (d *Device) NegotiateMode(modes ...Mode) (Mode, error) {
	if len(modes) == 0 {
		modes = DefaultModes
	}

	pic, err := d.QueryPicture()
	if err != nil {
		return Mode{}, err
	}

	var lastErr error
	for _, m := range modes {
		pic.Depth = m.Depth
		pic.Palette = m.Palette
		err := d.SetPicture(&pic)
		if err == nil {
			return m, nil
		}
		var dce *DeviceControlError
		if !errors.As(err, &dce) || errors.Is(err, ErrClosed) {
			return Mode{}, err
		}
		lastErr = err
	}
	return Mode{}, fmt.Errorf("%w: %w", ErrNoMode, lastErr)
}
