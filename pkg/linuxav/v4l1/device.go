package v4l1

import (
	"encoding/binary"
	"errors"
	"fmt"
	"io"
	"time"
)

// DefaultSettleDelay is how long Open waits before the first control
// request. Some drivers fail requests issued right after open.
const DefaultSettleDelay = 400 * time.Millisecond

// Controller issues device-control requests. arg holds the encoded kernel
// record; read-style requests fill it in place.
type Controller interface {
	Control(req uint, arg []byte) error
}

// RequestName returns the kernel name of a V4L1 request code.
func RequestName(req uint) string {
	switch req {
	case VIDIOCGCAP:
		return "VIDIOCGCAP"
	case VIDIOCGPICT:
		return "VIDIOCGPICT"
	case VIDIOCSPICT:
		return "VIDIOCSPICT"
	case VIDIOCGWIN:
		return "VIDIOCGWIN"
	case VIDIOCSWIN:
		return "VIDIOCSWIN"
	default:
		return "ioctl"
	}
}

// Option configures Open.
type Option func(*openOptions)

type openOptions struct {
	settle time.Duration
}

// WithSettleDelay overrides DefaultSettleDelay. Zero disables the wait.
func WithSettleDelay(d time.Duration) Option {
	return func(o *openOptions) {
		o.settle = d
	}
}

// Device is one open capture device.
type Device struct {
	path   string
	ctl    Controller
	frames io.Reader
	closed bool
}

// NewDevice wraps an open control channel and frame source. Close closes
// frames when it implements io.Closer. No settle delay is applied.
func NewDevice(path string, ctl Controller, frames io.Reader) *Device {
	return &Device{path: path, ctl: ctl, frames: frames}
}

// Path returns the device node path.
func (d *Device) Path() string { return d.path }

// Close releases the descriptor. Calling Close more than once is a no-op.
func (d *Device) Close() error {
	if d.closed {
		return nil
	}
	d.closed = true
	if c, ok := d.frames.(io.Closer); ok {
		return c.Close()
	}
	return nil
}

func (d *Device) control(req uint, arg []byte) error {
	if d.closed {
		return &DeviceControlError{Request: req, Err: ErrClosed}
	}
	if err := d.ctl.Control(req, arg); err != nil {
		return &DeviceControlError{Request: req, Err: err}
	}
	return nil
}

// QueryCapabilities reads the device capability record.
func (d *Device) QueryCapabilities() (Capability, error) {
	buf := make([]byte, binary.Size(videoCapability{}))
	if err := d.control(VIDIOCGCAP, buf); err != nil {
		return Capability{}, err
	}
	return ParseCapability(buf)
}

// QueryPicture reads the active picture controls and pixel format.
func (d *Device) QueryPicture() (Picture, error) {
	buf := make([]byte, binary.Size(videoPicture{}))
	if err := d.control(VIDIOCGPICT, buf); err != nil {
		return Picture{}, err
	}
	var p Picture
	if err := p.UnmarshalBinary(buf); err != nil {
		return Picture{}, err
	}
	return p, nil
}

// SetPicture writes picture controls. The palette is validated before
// anything is sent to the driver.
func (d *Device) SetPicture(p *Picture) error {
	if p == nil {
		return &TypeMismatchError{Want: "*v4l1.Picture", Got: "nil"}
	}
	if err := p.Validate(); err != nil {
		return err
	}
	buf, err := p.MarshalBinary()
	if err != nil {
		return err
	}
	return d.control(VIDIOCSPICT, buf)
}

// QueryWindow reads the capture rectangle.
func (d *Device) QueryWindow() (Window, error) {
	buf := make([]byte, binary.Size(videoWindow{}))
	if err := d.control(VIDIOCGWIN, buf); err != nil {
		return Window{}, err
	}
	var w Window
	if err := w.UnmarshalBinary(buf); err != nil {
		return Window{}, err
	}
	return w, nil
}

// SetWindow writes the capture rectangle. Geometry outside the capability
// limits is passed through; the driver rejects or clamps it.
func (d *Device) SetWindow(w *Window) error {
	if w == nil {
		return &TypeMismatchError{Want: "*v4l1.Window", Got: "nil"}
	}
	buf, err := w.MarshalBinary()
	if err != nil {
		return err
	}
	return d.control(VIDIOCSWIN, buf)
}

// Apply routes a Picture or Window, by value or pointer, to its setter.
func (d *Device) Apply(setting any) error {
	switch s := setting.(type) {
	case Picture:
		return d.SetPicture(&s)
	case *Picture:
		return d.SetPicture(s)
	case Window:
		return d.SetWindow(&s)
	case *Window:
		return d.SetWindow(s)
	default:
		return &TypeMismatchError{Want: "v4l1.Picture or v4l1.Window", Got: fmt.Sprintf("%T", setting)}
	}
}

// Capture reads one frame sized from the live window and picture.
func (d *Device) Capture() (*Frame, error) {
	win, err := d.QueryWindow()
	if err != nil {
		return nil, err
	}
	pic, err := d.QueryPicture()
	if err != nil {
		return nil, err
	}

	size := FrameSize(win.Width, win.Height, pic.Depth)
	if size > MaxFrameSize {
		return nil, fmt.Errorf("v4l1: frame of %dx%d at %d bpp exceeds %d bytes",
			win.Width, win.Height, pic.Depth, MaxFrameSize)
	}

	buf := make([]byte, size)
	n, err := io.ReadFull(d.frames, buf)
	if err != nil {
		if errors.Is(err, io.ErrUnexpectedEOF) || errors.Is(err, io.EOF) {
			return nil, &ShortReadError{Want: len(buf), Got: n}
		}
		return nil, fmt.Errorf("v4l1: read frame: %w", err)
	}

	return &Frame{
		Data:    buf,
		Width:   win.Width,
		Height:  win.Height,
		Depth:   pic.Depth,
		Palette: pic.Palette,
	}, nil
}
