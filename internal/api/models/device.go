package models

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
)

// PaletteName is a V4L1 palette name. Its schema enumerates the palettes
// the device layer knows.
type PaletteName string

// Schema implements huma.SchemaProvider.
func (PaletteName) Schema(huma.Registry) *huma.Schema {
	names := v4l1.PaletteNames()
	enum := make([]any, len(names))
	for i, n := range names {
		enum[i] = n
	}
	return &huma.Schema{
		Type:        huma.TypeString,
		Enum:        enum,
		Description: "Pixel encoding",
	}
}

// Capability models
type CapabilityData struct {
	Name      string   `json:"name" example:"BT878 video (Hauppauge)" doc:"Device name"`
	Type      int32    `json:"type" example:"11" doc:"Raw capability bitmask"`
	Features  []string `json:"features" example:"[\"capture\",\"tuner\"]" doc:"Decoded capability features"`
	Channels  int32    `json:"channels" example:"3" doc:"Video inputs"`
	Audios    int32    `json:"audios" example:"1" doc:"Audio inputs"`
	MaxWidth  int32    `json:"max_width" example:"768" doc:"Largest capture width"`
	MaxHeight int32    `json:"max_height" example:"576" doc:"Largest capture height"`
	MinWidth  int32    `json:"min_width" example:"48" doc:"Smallest capture width"`
	MinHeight int32    `json:"min_height" example:"32" doc:"Smallest capture height"`
}

// NewCapabilityData converts a capability record.
func NewCapabilityData(c v4l1.Capability) CapabilityData {
	features := make([]string, 0)
	for _, f := range c.Features() {
		features = append(features, f.String())
	}
	return CapabilityData{
		Name:      c.Name(),
		Type:      c.Type(),
		Features:  features,
		Channels:  c.Channels(),
		Audios:    c.Audios(),
		MaxWidth:  c.MaxWidth(),
		MaxHeight: c.MaxHeight(),
		MinWidth:  c.MinWidth(),
		MinHeight: c.MinHeight(),
	}
}

type DeviceData struct {
	Path        string         `json:"path" example:"/dev/video0" doc:"Device node"`
	Healthy     bool           `json:"healthy" doc:"Whether the last capture or device query succeeded"`
	Subscribers int            `json:"subscribers" example:"1" doc:"Connected live feed clients"`
	Capability  CapabilityData `json:"capability" doc:"Device capabilities"`
}

type DeviceResponse struct {
	Body DeviceData
}

// Picture models
type PictureData struct {
	Brightness uint16      `json:"brightness" example:"32768" doc:"Brightness"`
	Hue        uint16      `json:"hue" example:"32768" doc:"Hue"`
	Colour     uint16      `json:"colour" example:"32768" doc:"Colour saturation"`
	Contrast   uint16      `json:"contrast" example:"32768" doc:"Contrast"`
	Whiteness  uint16      `json:"whiteness" example:"32768" doc:"Whiteness"`
	Depth      uint16      `json:"depth" example:"24" doc:"Bits per pixel"`
	Palette    PaletteName `json:"palette" example:"rgb24" doc:"Pixel encoding"`
}

// NewPictureData converts a picture record.
func NewPictureData(p v4l1.Picture) PictureData {
	return PictureData{
		Brightness: p.Brightness,
		Hue:        p.Hue,
		Colour:     p.Colour,
		Contrast:   p.Contrast,
		Whiteness:  p.Whiteness,
		Depth:      p.Depth,
		Palette:    PaletteName(p.Palette.String()),
	}
}

// PictureUpdateData holds the picture fields to change. Omitted fields keep
// the device value.
type PictureUpdateData struct {
	Brightness *uint16     `json:"brightness,omitempty" doc:"Brightness"`
	Hue        *uint16     `json:"hue,omitempty" doc:"Hue"`
	Colour     *uint16     `json:"colour,omitempty" doc:"Colour saturation"`
	Contrast   *uint16     `json:"contrast,omitempty" doc:"Contrast"`
	Whiteness  *uint16     `json:"whiteness,omitempty" doc:"Whiteness"`
	Depth      *uint16     `json:"depth,omitempty" doc:"Bits per pixel"`
	Palette    PaletteName `json:"palette,omitempty" doc:"Pixel encoding"`
}

// Apply copies the set fields onto p.
func (u PictureUpdateData) Apply(p *v4l1.Picture) error {
	if u.Palette != "" {
		if err := p.SetPalette(string(u.Palette)); err != nil {
			return err
		}
	}
	for _, f := range []struct {
		dst *uint16
		src *uint16
	}{
		{&p.Brightness, u.Brightness},
		{&p.Hue, u.Hue},
		{&p.Colour, u.Colour},
		{&p.Contrast, u.Contrast},
		{&p.Whiteness, u.Whiteness},
		{&p.Depth, u.Depth},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return nil
}

type PictureResponse struct {
	Body PictureData
}

type PictureUpdateRequest struct {
	Body PictureUpdateData
}

// Window models
type WindowData struct {
	X         uint32 `json:"x" example:"0" doc:"Left edge"`
	Y         uint32 `json:"y" example:"0" doc:"Top edge"`
	Width     uint32 `json:"width" example:"320" doc:"Width in pixels"`
	Height    uint32 `json:"height" example:"240" doc:"Height in pixels"`
	Chromakey uint32 `json:"chromakey" doc:"Overlay chroma key"`
	Flags     uint32 `json:"flags" doc:"Driver window flags"`
	Clipcount int32  `json:"clipcount" doc:"Number of clip rectangles"`
}

// NewWindowData converts a window record. The clip list pointer is not exposed.
func NewWindowData(w v4l1.Window) WindowData {
	return WindowData{
		X:         w.X,
		Y:         w.Y,
		Width:     w.Width,
		Height:    w.Height,
		Chromakey: w.Chromakey,
		Flags:     w.Flags,
		Clipcount: w.Clipcount,
	}
}

// WindowUpdateData holds the window fields to change.
type WindowUpdateData struct {
	X         *uint32 `json:"x,omitempty" doc:"Left edge"`
	Y         *uint32 `json:"y,omitempty" doc:"Top edge"`
	Width     *uint32 `json:"width,omitempty" doc:"Width in pixels"`
	Height    *uint32 `json:"height,omitempty" doc:"Height in pixels"`
	Chromakey *uint32 `json:"chromakey,omitempty" doc:"Overlay chroma key"`
	Flags     *uint32 `json:"flags,omitempty" doc:"Driver window flags"`
}

// Apply copies the set fields onto w.
func (u WindowUpdateData) Apply(w *v4l1.Window) error {
	for _, f := range []struct {
		dst *uint32
		src *uint32
	}{
		{&w.X, u.X},
		{&w.Y, u.Y},
		{&w.Width, u.Width},
		{&w.Height, u.Height},
		{&w.Chromakey, u.Chromakey},
		{&w.Flags, u.Flags},
	} {
		if f.src != nil {
			*f.dst = *f.src
		}
	}
	return nil
}

type WindowResponse struct {
	Body WindowData
}

type WindowUpdateRequest struct {
	Body WindowUpdateData
}

// Snapshot models
type SnapshotRequest struct {
	Format string `query:"format" enum:"ppm,raw" default:"ppm" doc:"ppm converts to a P6 image, raw returns the driver bytes"`
}

type SnapshotResponse struct {
	ContentType string `header:"Content-Type"`
	Width       int    `header:"X-Frame-Width"`
	Height      int    `header:"X-Frame-Height"`
	Depth       int    `header:"X-Frame-Depth"`
	Palette     string `header:"X-Frame-Palette"`
	Body        []byte
}
