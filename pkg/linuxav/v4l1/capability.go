package v4l1

import (
	"fmt"
	"strings"
	"unicode/utf8"
)

// Feature is one bit of the capability type mask.
type Feature uint8

// Capability features, by bit position.
const (
	FeatureCapture Feature = iota
	FeatureTuner
	FeatureTeletext
	FeatureOverlay
	FeatureChromakey
	FeatureClipping
	FeatureFrameRAM
	FeatureScales
	FeatureMonochrome
	FeatureSubcapture
	FeatureMPEGDecoder
	FeatureMPEGEncoder
	FeatureMJPEGDecoder
	FeatureMJPEGEncoder
)

var featureNames = [...]string{
	"capture", "tuner", "teletext", "overlay", "chromakey", "clipping", "frameram",
	"scales", "monochrome", "subcapture", "mpeg_decoder", "mpeg_encoder",
	"mjpeg_decoder", "mjpeg_encoder",
}

func (f Feature) String() string {
	if int(f) < len(featureNames) {
		return featureNames[f]
	}
	return fmt.Sprintf("feature(%d)", uint8(f))
}

// Mask returns the capability bit for f.
func (f Feature) Mask() int32 {
	return int32(uint32(1) << f)
}

// DecodeFeatures maps set bits to features in bit order. Bits past the known
// features are ignored.
func DecodeFeatures(mask int32) []Feature {
	features := make([]Feature, 0, len(featureNames))
	for i := range featureNames {
		if uint32(mask)&(1<<uint(i)) != 0 {
			features = append(features, Feature(i))
		}
	}
	return features
}

// CapabilityFields holds the raw values of a capability record.
type CapabilityFields struct {
	Name      string
	Type      int32
	Channels  int32
	Audios    int32
	MaxWidth  int32
	MaxHeight int32
	MinWidth  int32
	MinHeight int32
}

// Capability describes what a device supports. It is produced by
// QueryCapabilities and cannot be modified.
type Capability struct {
	f CapabilityFields
}

// NewCapability builds a Capability from raw values. Device drivers and
// fakes use it; callers normally get one from QueryCapabilities.
func NewCapability(f CapabilityFields) Capability {
	if len(f.Name) > 31 {
		n := 31
		for n > 0 && !utf8.RuneStart(f.Name[n]) {
			n--
		}
		f.Name = f.Name[:n]
	}
	return Capability{f: f}
}

func (c Capability) Name() string     { return c.f.Name }
func (c Capability) Type() int32      { return c.f.Type }
func (c Capability) Channels() int32  { return c.f.Channels }
func (c Capability) Audios() int32    { return c.f.Audios }
func (c Capability) MaxWidth() int32  { return c.f.MaxWidth }
func (c Capability) MaxHeight() int32 { return c.f.MaxHeight }
func (c Capability) MinWidth() int32  { return c.f.MinWidth }
func (c Capability) MinHeight() int32 { return c.f.MinHeight }

// Fields returns a copy of the raw values.
func (c Capability) Fields() CapabilityFields { return c.f }

// Features decodes the type mask.
func (c Capability) Features() []Feature { return DecodeFeatures(c.f.Type) }

// Has reports whether the device advertises f.
func (c Capability) Has(f Feature) bool {
	return c.f.Type&f.Mask() != 0
}

// Fits reports whether a capture of width x height is within the device limits.
func (c Capability) Fits(width, height uint32) bool {
	return int64(width) >= int64(c.f.MinWidth) && int64(width) <= int64(c.f.MaxWidth) &&
		int64(height) >= int64(c.f.MinHeight) && int64(height) <= int64(c.f.MaxHeight)
}

// SetField always fails: capability values come from the driver only.
func (c Capability) SetField(name string, _ any) error {
	return &ImmutableFieldError{Field: name}
}

func (c Capability) String() string {
	names := make([]string, 0, len(featureNames))
	for _, f := range c.Features() {
		names = append(names, f.String())
	}
	return fmt.Sprintf("Name[%s] Capabilities[%s] Channels[%d] Audios[%d] MaxWidth[%d] MaxHeight[%d] MinWidth[%d] MinHeight[%d]",
		c.f.Name, strings.Join(names, ","), c.f.Channels, c.f.Audios,
		c.f.MaxWidth, c.f.MaxHeight, c.f.MinWidth, c.f.MinHeight)
}

// MarshalBinary encodes the record as struct video_capability.
func (c Capability) MarshalBinary() ([]byte, error) {
	kc := videoCapability{
		Type:      c.f.Type,
		Channels:  c.f.Channels,
		Audios:    c.f.Audios,
		MaxWidth:  c.f.MaxWidth,
		MaxHeight: c.f.MaxHeight,
		MinWidth:  c.f.MinWidth,
		MinHeight: c.f.MinHeight,
	}
	copy(kc.Name[:len(kc.Name)-1], c.f.Name)
	return encode(&kc)
}

// ParseCapability decodes a struct video_capability.
func ParseCapability(b []byte) (Capability, error) {
	var kc videoCapability
	if err := decode(b, &kc); err != nil {
		return Capability{}, err
	}
	return Capability{f: CapabilityFields{
		Name:      cstr(kc.Name[:]),
		Type:      kc.Type,
		Channels:  kc.Channels,
		Audios:    kc.Audios,
		MaxWidth:  kc.MaxWidth,
		MaxHeight: kc.MaxHeight,
		MinWidth:  kc.MinWidth,
		MinHeight: kc.MinHeight,
	}}, nil
}
