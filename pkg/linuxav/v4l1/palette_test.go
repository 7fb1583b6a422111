package v4l1

import (
	"errors"
	"strings"
	"testing"
)

func TestSetPictureAcceptsEveryPalette(t *testing.T) {
	for i, name := range PaletteNames() {
		t.Run(name, func(t *testing.T) {
			fake := newFakeController()
			dev := NewDevice("/dev/video0", fake, &frameSource{})

			pic, err := dev.QueryPicture()
			if err != nil {
				t.Fatalf("QueryPicture: %v", err)
			}
			if err := pic.SetPalette(name); err != nil {
				t.Fatalf("SetPalette(%q): %v", name, err)
			}
			if pic.Palette != Palette(i) {
				t.Fatalf("SetPalette(%q) stored %d, want %d", name, pic.Palette, i)
			}
			if err := dev.SetPicture(&pic); err != nil {
				t.Fatalf("SetPicture: %v", err)
			}
			if fake.picture.Palette != Palette(i) {
				t.Errorf("driver received palette %d, want %d", fake.picture.Palette, i)
			}
		})
	}
}

func TestSetPaletteRejectsUnknown(t *testing.T) {
	for _, name := range []string{"", "rgb", "bgr24", "mjpeg", "yuv444p"} {
		t.Run(name, func(t *testing.T) {
			fake := newFakeController()
			dev := NewDevice("/dev/video0", fake, &frameSource{})

			_, err := dev.UpdatePicture(func(p *Picture) error {
				return p.SetPalette(name)
			})
			var iee *InvalidEncodingError
			if !errors.As(err, &iee) {
				t.Fatalf("SetPalette(%q) = %v, want InvalidEncodingError", name, err)
			}
			if iee.Value != name {
				t.Errorf("Value = %q, want %q", iee.Value, name)
			}
			if len(iee.Valid()) != 16 {
				t.Errorf("Valid() lists %d palettes, want 16", len(iee.Valid()))
			}
			if !strings.Contains(err.Error(), "yuv410p") {
				t.Errorf("error %q does not list valid palettes", err)
			}
			if fake.writes != 0 {
				t.Errorf("device saw %d writes, want 0", fake.writes)
			}
			if fake.picture.Palette != PaletteRGB24 {
				t.Errorf("driver palette changed to %v", fake.picture.Palette)
			}
		})
	}
}

func TestSetPictureRejectsOutOfRangePaletteWithoutIO(t *testing.T) {
	fake := newFakeController()
	dev := NewDevice("/dev/video0", fake, &frameSource{})

	for _, p := range []Palette{16, 17, 0xffff} {
		err := dev.SetPicture(&Picture{Depth: 24, Palette: p})
		var iee *InvalidEncodingError
		if !errors.As(err, &iee) {
			t.Errorf("SetPicture(palette %d) = %v, want InvalidEncodingError", p, err)
		}
	}
	if len(fake.requests) != 0 {
		t.Errorf("device saw %d requests, want 0", len(fake.requests))
	}
}

func TestParsePaletteCaseInsensitive(t *testing.T) {
	p, err := ParsePalette("YUV420P")
	if err != nil {
		t.Fatalf("ParsePalette: %v", err)
	}
	if p != PaletteYUV420P {
		t.Errorf("got %v, want yuv420p", p)
	}
}

func TestPaletteText(t *testing.T) {
	var p Palette
	if err := p.UnmarshalText([]byte("uyvy")); err != nil {
		t.Fatalf("UnmarshalText: %v", err)
	}
	if p != PaletteUYVY {
		t.Errorf("got %v", p)
	}
	text, err := p.MarshalText()
	if err != nil || string(text) != "uyvy" {
		t.Errorf("MarshalText = %q, %v", text, err)
	}
	if _, err := Palette(99).MarshalText(); err == nil {
		t.Error("expected error marshaling palette 99")
	}
	if Palette(99).String() != "palette(99)" {
		t.Errorf("String() = %q", Palette(99).String())
	}
}

func TestPictureSetField(t *testing.T) {
	tests := []struct {
		name    string
		field   string
		value   any
		check   func(Picture) bool
		wantErr any
	}{
		{"brightness int", "brightness", 40000, func(p Picture) bool { return p.Brightness == 40000 }, nil},
		{"color alias", "color", uint16(7), func(p Picture) bool { return p.Colour == 7 }, nil},
		{"depth string", "depth", "16", func(p Picture) bool { return p.Depth == 16 }, nil},
		{"palette name", "palette", "yuyv", func(p Picture) bool { return p.Palette == PaletteYUYV }, nil},
		{"palette value", "palette", PaletteGrey, func(p Picture) bool { return p.Palette == PaletteGrey }, nil},
		{"overflow", "hue", 70000, nil, &TypeMismatchError{}},
		{"negative", "contrast", -1, nil, &TypeMismatchError{}},
		{"wrong type", "whiteness", 1.5, nil, &TypeMismatchError{}},
		{"palette wrong type", "palette", 3, nil, &TypeMismatchError{}},
		{"bad palette", "palette", "nope", nil, &InvalidEncodingError{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := Picture{Palette: PaletteRGB24}
			err := p.SetField(tt.field, tt.value)
			switch want := tt.wantErr.(type) {
			case nil:
				if err != nil {
					t.Fatalf("SetField: %v", err)
				}
				if !tt.check(p) {
					t.Errorf("field not applied: %+v", p)
				}
			case *TypeMismatchError:
				if !errors.As(err, &want) {
					t.Errorf("got %v, want TypeMismatchError", err)
				}
			case *InvalidEncodingError:
				if !errors.As(err, &want) {
					t.Errorf("got %v, want InvalidEncodingError", err)
				}
			}
		})
	}

	p := Picture{}
	if err := p.SetField("gamma", 1); err == nil {
		t.Error("expected error for unknown field")
	}
}
