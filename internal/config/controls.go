package config

import (
	"bytes"
	"fmt"
	"os"

	"github.com/pelletier/go-toml/v2"

	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
)

// Controls is the contents of a controls file. Unset keys leave the
// device value alone.
//
//	[picture]
//	palette = "rgb24"
//	depth = 24
//	brightness = 32768
//
//	[window]
//	width = 320
//	height = 240
type Controls struct {
	Picture PictureControls `toml:"picture" json:"picture"`
	Window  WindowControls  `toml:"window" json:"window"`
}

// PictureControls are the optional picture settings.
type PictureControls struct {
	Palette    string  `toml:"palette" json:"palette,omitempty"`
	Depth      *uint16 `toml:"depth" json:"depth,omitempty"`
	Brightness *uint16 `toml:"brightness" json:"brightness,omitempty"`
	Hue        *uint16 `toml:"hue" json:"hue,omitempty"`
	Colour     *uint16 `toml:"colour" json:"colour,omitempty"`
	Contrast   *uint16 `toml:"contrast" json:"contrast,omitempty"`
	Whiteness  *uint16 `toml:"whiteness" json:"whiteness,omitempty"`
}

// WindowControls are the optional capture rectangle settings.
type WindowControls struct {
	X      *uint32 `toml:"x" json:"x,omitempty"`
	Y      *uint32 `toml:"y" json:"y,omitempty"`
	Width  *uint32 `toml:"width" json:"width,omitempty"`
	Height *uint32 `toml:"height" json:"height,omitempty"`
}

// LoadControls reads and validates a controls file. Unknown keys and
// unknown palettes are errors.
func LoadControls(path string) (Controls, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Controls{}, fmt.Errorf("controls: %w", err)
	}

	var c Controls
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&c); err != nil {
		return Controls{}, fmt.Errorf("controls: parse %s: %w", path, err)
	}

	if c.Picture.Palette != "" {
		if _, err := v4l1.ParsePalette(c.Picture.Palette); err != nil {
			return Controls{}, fmt.Errorf("controls: %w", err)
		}
	}
	return c, nil
}

// Empty reports whether no picture key is set.
func (c PictureControls) Empty() bool {
	return c.Palette == "" && c.Depth == nil && c.Brightness == nil && c.Hue == nil &&
		c.Colour == nil && c.Contrast == nil && c.Whiteness == nil
}

// Apply copies the set keys onto p.
func (c PictureControls) Apply(p *v4l1.Picture) error {
	if c.Palette != "" {
		if err := p.SetPalette(c.Palette); err != nil {
			return err
		}
	}
	assign(&p.Depth, c.Depth)
	assign(&p.Brightness, c.Brightness)
	assign(&p.Hue, c.Hue)
	assign(&p.Colour, c.Colour)
	assign(&p.Contrast, c.Contrast)
	assign(&p.Whiteness, c.Whiteness)
	return nil
}

// Empty reports whether no window key is set.
func (c WindowControls) Empty() bool {
	return c.X == nil && c.Y == nil && c.Width == nil && c.Height == nil
}

// Apply copies the set keys onto w.
func (c WindowControls) Apply(w *v4l1.Window) error {
	assign(&w.X, c.X)
	assign(&w.Y, c.Y)
	assign(&w.Width, c.Width)
	assign(&w.Height, c.Height)
	return nil
}

func assign[T any](dst *T, src *T) {
	if src != nil {
		*dst = *src
	}
}
