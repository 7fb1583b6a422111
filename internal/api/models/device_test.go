package models

import (
	"errors"
	"testing"

	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
)

func TestPictureUpdateApply(t *testing.T) {
	pic := v4l1.Picture{Brightness: 1, Hue: 2, Depth: 24, Palette: v4l1.PaletteRGB24}
	b := uint16(500)
	d := uint16(16)

	err := PictureUpdateData{Brightness: &b, Depth: &d, Palette: "rgb565"}.Apply(&pic)
	if err != nil {
		t.Fatalf("Apply: %v", err)
	}
	want := v4l1.Picture{Brightness: 500, Hue: 2, Depth: 16, Palette: v4l1.PaletteRGB565}
	if pic != want {
		t.Errorf("picture = %+v, want %+v", pic, want)
	}

	var encErr *v4l1.InvalidEncodingError
	if err := (PictureUpdateData{Palette: "rgb99"}).Apply(&pic); !errors.As(err, &encErr) {
		t.Errorf("unknown palette error = %v, want InvalidEncodingError", err)
	}
}

func TestWindowUpdateApply(t *testing.T) {
	win := v4l1.Window{X: 1, Y: 2, Width: 320, Height: 240}
	w := uint32(640)
	if err := (WindowUpdateData{Width: &w}).Apply(&win); err != nil {
		t.Fatal(err)
	}
	if win.Width != 640 || win.Height != 240 || win.X != 1 {
		t.Errorf("window = %+v", win)
	}
}

func TestPaletteSchema(t *testing.T) {
	s := PaletteName("").Schema(nil)
	if len(s.Enum) != len(v4l1.PaletteNames()) {
		t.Fatalf("enum has %d values, want %d", len(s.Enum), len(v4l1.PaletteNames()))
	}
	if s.Enum[0] != "grey" {
		t.Errorf("first palette = %v, want grey", s.Enum[0])
	}
}

func TestNewCapabilityData(t *testing.T) {
	c := v4l1.NewCapability(v4l1.CapabilityFields{
		Name:      "bttv",
		Type:      0b11,
		MaxWidth:  768,
		MaxHeight: 576,
		MinWidth:  48,
		MinHeight: 32,
	})
	d := NewCapabilityData(c)
	if d.Name != "bttv" || d.MaxWidth != 768 || d.MinHeight != 32 {
		t.Errorf("data = %+v", d)
	}
	if len(d.Features) != 2 || d.Features[0] != "capture" || d.Features[1] != "tuner" {
		t.Errorf("features = %v", d.Features)
	}
}
