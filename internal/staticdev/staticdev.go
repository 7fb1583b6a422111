// Package staticdev serves a PPM image through the v4l1 control interface
// so the rest of the stack can run without capture hardware.
package staticdev

import (
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"golang.org/x/sys/unix"

	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
	"github.com/smazurov/v4lgrab/pkg/ppm"
)

// MaxPixels limits the size of images accepted as a static device.
const MaxPixels = 1024 * 768

// Source answers V4L1 requests from an in-memory RGB24 image. Only the
// rgb24 palette at depth 24 is accepted, and the capture window must lie
// inside the image.
type Source struct {
	mu      sync.Mutex
	img     *ppm.Image
	cap     v4l1.Capability
	pic     v4l1.Picture
	win     v4l1.Window
	pending []byte
	closed  bool
}

// New builds a Source around img. name is reported as the device name.
func New(name string, img *ppm.Image) (*Source, error) {
	if img == nil || img.Width <= 0 || img.Height <= 0 {
		return nil, fmt.Errorf("staticdev: empty image")
	}
	if img.Width*img.Height > MaxPixels {
		return nil, fmt.Errorf("staticdev: %dx%d image exceeds %d pixels", img.Width, img.Height, MaxPixels)
	}

	capability := v4l1.NewCapability(v4l1.CapabilityFields{
		Name:      name,
		Type:      v4l1.FeatureCapture.Mask() | v4l1.FeatureScales.Mask(),
		Channels:  1,
		MaxWidth:  int32(img.Width),
		MaxHeight: int32(img.Height),
		MinWidth:  1,
		MinHeight: 1,
	})

	return &Source{
		img: img,
		cap: capability,
		pic: v4l1.Picture{
			Brightness: 32768,
			Hue:        32768,
			Colour:     32768,
			Contrast:   32768,
			Whiteness:  32768,
			Depth:      24,
			Palette:    v4l1.PaletteRGB24,
		},
		win: v4l1.Window{Width: uint32(img.Width), Height: uint32(img.Height)},
	}, nil
}

// Load reads a P6 file and builds a Source named after it.
func Load(path string) (*Source, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("staticdev: %w", err)
	}
	defer f.Close()

	img, err := ppm.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("staticdev: load %s: %w", path, err)
	}
	return New("static:"+filepath.Base(path), img)
}

// Open loads path and wraps it in a v4l1.Device.
func Open(path string) (*v4l1.Device, error) {
	src, err := Load(path)
	if err != nil {
		return nil, err
	}
	return v4l1.NewDevice(path, src, src), nil
}

// Control implements v4l1.Controller.
func (s *Source) Control(req uint, arg []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return unix.EBADF
	}

	switch req {
	case v4l1.VIDIOCGCAP:
		return fill(arg, s.cap)
	case v4l1.VIDIOCGPICT:
		return fill(arg, s.pic)
	case v4l1.VIDIOCGWIN:
		return fill(arg, s.win)
	case v4l1.VIDIOCSPICT:
		var p v4l1.Picture
		if err := p.UnmarshalBinary(arg); err != nil {
			return unix.EINVAL
		}
		if p.Palette != v4l1.PaletteRGB24 || p.Depth != 24 {
			return unix.EINVAL
		}
		s.pic = p
		return nil
	case v4l1.VIDIOCSWIN:
		var w v4l1.Window
		if err := w.UnmarshalBinary(arg); err != nil {
			return unix.EINVAL
		}
		if w.Width == 0 || w.Height == 0 ||
			uint64(w.X)+uint64(w.Width) > uint64(s.img.Width) ||
			uint64(w.Y)+uint64(w.Height) > uint64(s.img.Height) {
			return unix.EINVAL
		}
		s.win = w
		s.pending = nil
		return nil
	default:
		return unix.ENOTTY
	}
}

func fill(arg []byte, v interface{ MarshalBinary() ([]byte, error) }) error {
	b, err := v.MarshalBinary()
	if err != nil {
		return err
	}
	if len(arg) != len(b) {
		return unix.EFAULT
	}
	copy(arg, b)
	return nil
}

// Read returns the current window of the image, one frame after another.
func (s *Source) Read(p []byte) (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return 0, os.ErrClosed
	}
	if len(s.pending) == 0 {
		frame, err := s.img.Crop(int(s.win.X), int(s.win.Y), int(s.win.Width), int(s.win.Height))
		if err != nil {
			return 0, err
		}
		s.pending = frame
	}
	n := copy(p, s.pending)
	s.pending = s.pending[n:]
	return n, nil
}

// Close releases the image. Further requests fail with EBADF.
func (s *Source) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return os.ErrClosed
	}
	s.closed = true
	s.img = nil
	s.pending = nil
	return nil
}
