package v4l1

import (
	"errors"
	"io"
	"syscall"
)

// fakeController answers V4L1 requests from in-memory records, the way a
// driver would, and records every request it sees.
type fakeController struct {
	capability Capability
	picture    Picture
	window     Window

	fail   map[uint]error
	reject func(Picture) error
	clamp  func(*Window)

	requests []uint
	writes   int
}

func newFakeController() *fakeController {
	return &fakeController{
		capability: NewCapability(CapabilityFields{
			Name:      "BT878 video (Hauppauge)",
			Type:      FeatureCapture.Mask() | FeatureTuner.Mask() | FeatureOverlay.Mask() | FeatureScales.Mask(),
			Channels:  3,
			Audios:    1,
			MaxWidth:  768,
			MaxHeight: 576,
			MinWidth:  48,
			MinHeight: 32,
		}),
		picture: Picture{Brightness: 32768, Hue: 32768, Colour: 32768, Contrast: 27648, Depth: 24, Palette: PaletteRGB24},
		window:  Window{Width: 320, Height: 240},
		fail:    make(map[uint]error),
	}
}

func (f *fakeController) Control(req uint, arg []byte) error {
	f.requests = append(f.requests, req)
	if err := f.fail[req]; err != nil {
		return err
	}

	var out []byte
	var err error
	switch req {
	case VIDIOCGCAP:
		out, err = f.capability.MarshalBinary()
	case VIDIOCGPICT:
		out, err = f.picture.MarshalBinary()
	case VIDIOCGWIN:
		out, err = f.window.MarshalBinary()
	case VIDIOCSPICT:
		f.writes++
		var p Picture
		if err := p.UnmarshalBinary(arg); err != nil {
			return syscall.EINVAL
		}
		if f.reject != nil {
			if err := f.reject(p); err != nil {
				return err
			}
		}
		f.picture = p
		return nil
	case VIDIOCSWIN:
		f.writes++
		var w Window
		if err := w.UnmarshalBinary(arg); err != nil {
			return syscall.EINVAL
		}
		if f.clamp != nil {
			f.clamp(&w)
		}
		f.window = w
		return nil
	default:
		return syscall.ENOTTY
	}
	if err != nil {
		return err
	}
	if len(out) != len(arg) {
		return syscall.EFAULT
	}
	copy(arg, out)
	return nil
}

// frameSource serves data once, then EOF.
type frameSource struct {
	data   []byte
	closed int
}

func (s *frameSource) Read(p []byte) (int, error) {
	if len(s.data) == 0 {
		return 0, io.EOF
	}
	n := copy(p, s.data)
	s.data = s.data[n:]
	return n, nil
}

func (s *frameSource) Close() error {
	s.closed++
	if s.closed > 1 {
		return errors.New("closed twice")
	}
	return nil
}
