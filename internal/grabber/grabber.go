// Package grabber owns the capture device for the lifetime of the process.
// All device access goes through one Service, which serializes requests,
// publishes events for every change and fans captured frames out to live
// subscribers.
package grabber

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"sync/atomic"
	"time"

	"github.com/smazurov/v4lgrab/internal/config"
	"github.com/smazurov/v4lgrab/internal/events"
	"github.com/smazurov/v4lgrab/internal/staticdev"
	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
)

// Failure classes reported in CaptureErrorEvent.Kind.
const (
	KindDeviceControl = "device_control"
	KindShortRead     = "short_read"
	KindClosed        = "closed"
	KindOther         = "other"
)

// DeviceConfig selects the device to open.
type DeviceConfig struct {
	Path        string
	Static      string // PPM file served instead of Path when set
	SettleDelay time.Duration
}

// OpenDevice opens the configured device.
func OpenDevice(cfg DeviceConfig) (*v4l1.Device, error) {
	if cfg.Static != "" {
		return staticdev.Open(cfg.Static)
	}
	return v4l1.Open(cfg.Path, v4l1.WithSettleDelay(cfg.SettleDelay))
}

// ErrorKind classifies a capture error.
func ErrorKind(err error) string {
	var dce *v4l1.DeviceControlError
	var sre *v4l1.ShortReadError
	switch {
	case errors.Is(err, v4l1.ErrClosed):
		return KindClosed
	case errors.As(err, &sre):
		return KindShortRead
	case errors.As(err, &dce):
		return KindDeviceControl
	default:
		return KindOther
	}
}

// Service serializes access to one device.
type Service struct {
	mu     sync.Mutex
	dev    *v4l1.Device
	caps   v4l1.Capability
	bus    *events.Bus
	logger *slog.Logger

	healthy atomic.Bool

	feedMu   sync.Mutex
	feeds    map[int]chan *v4l1.Frame
	nextID   int
	feedDone bool
	wake     chan struct{}
}

// New queries the device capabilities once and wraps dev. bus may be nil.
func New(dev *v4l1.Device, bus *events.Bus, logger *slog.Logger) (*Service, error) {
	caps, err := dev.QueryCapabilities()
	if err != nil {
		return nil, err
	}
	if !caps.Has(v4l1.FeatureCapture) {
		logger.Warn("Device does not advertise capture", "path", dev.Path(), "capabilities", caps.String())
	}
	s := &Service{
		dev:    dev,
		caps:   caps,
		bus:    bus,
		logger: logger,
		feeds:  make(map[int]chan *v4l1.Frame),
		wake:   make(chan struct{}, 1),
	}
	s.healthy.Store(true)
	return s, nil
}

// Path returns the device path.
func (s *Service) Path() string { return s.dev.Path() }

// Capabilities returns the capability record read when the service started.
func (s *Service) Capabilities() v4l1.Capability { return s.caps }

// Healthy reports whether the last capture or device query succeeded.
func (s *Service) Healthy() bool { return s.healthy.Load() }

// Probe reports whether the device answers. After a failed capture it
// queries the window and clears the failure when the device responds.
func (s *Service) Probe() bool {
	if s.healthy.Load() {
		return true
	}
	_, err := s.Window()
	return err == nil
}

// Picture reads the current picture settings.
func (s *Service) Picture() (v4l1.Picture, error) {
	s.mu.Lock()
	pic, err := s.dev.QueryPicture()
	s.mu.Unlock()
	if err == nil {
		s.healthy.Store(true)
	}
	return pic, err
}

// Window reads the current capture rectangle.
func (s *Service) Window() (v4l1.Window, error) {
	s.mu.Lock()
	win, err := s.dev.QueryWindow()
	s.mu.Unlock()
	if err == nil {
		s.healthy.Store(true)
	}
	return win, err
}

// UpdatePicture applies fn to the current picture and writes it back.
func (s *Service) UpdatePicture(fn func(*v4l1.Picture) error) (v4l1.Picture, error) {
	s.mu.Lock()
	pic, err := s.dev.UpdatePicture(fn)
	s.mu.Unlock()
	if err != nil {
		return v4l1.Picture{}, err
	}
	s.publishPicture(pic)
	return pic, nil
}

// UpdateWindow applies fn to the current window and writes it back.
func (s *Service) UpdateWindow(fn func(*v4l1.Window) error) (v4l1.Window, error) {
	s.mu.Lock()
	win, err := s.dev.UpdateWindow(fn)
	s.mu.Unlock()
	if err != nil {
		return v4l1.Window{}, err
	}
	s.publishWindow(win)
	return win, nil
}

// Prepare sets up the capture mode. A zero width or height keeps the
// current size. A zero depth negotiates rgb24, rgb565 and rgb555 in that
// order; otherwise palette must name a valid palette.
func (s *Service) Prepare(width, height uint32, depth uint16, palette string) (v4l1.Window, v4l1.Picture, error) {
	var pal v4l1.Palette
	if depth != 0 {
		p, err := v4l1.ParsePalette(palette)
		if err != nil {
			return v4l1.Window{}, v4l1.Picture{}, err
		}
		pal = p
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	win, err := s.dev.QueryWindow()
	if err != nil {
		return v4l1.Window{}, v4l1.Picture{}, err
	}
	if width == 0 {
		width = win.Width
	}
	if height == 0 {
		height = win.Height
	}
	if !s.caps.Fits(width, height) {
		s.logger.Warn("Requested size outside device limits, driver may clamp",
			"width", width, "height", height, "capabilities", s.caps.String())
	}

	win, pic, err := s.dev.Configure(width, height, depth, pal)
	if err != nil {
		return v4l1.Window{}, v4l1.Picture{}, err
	}

	if depth == 0 {
		mode, err := s.dev.NegotiateMode()
		if err != nil {
			return v4l1.Window{}, v4l1.Picture{}, err
		}
		s.logger.Info("Negotiated capture mode", "mode", mode.String())
		if pic, err = s.dev.QueryPicture(); err != nil {
			return v4l1.Window{}, v4l1.Picture{}, err
		}
	}

	s.publishWindow(win)
	s.publishPicture(pic)
	return win, pic, nil
}

// ApplyControls writes the keys set in c, window first.
func (s *Service) ApplyControls(c config.Controls) error {
	if !c.Window.Empty() {
		win, err := s.UpdateWindow(c.Window.Apply)
		if err != nil {
			return err
		}
		s.logger.Info("Applied window controls", "window", win.String())
	}
	if !c.Picture.Empty() {
		pic, err := s.UpdatePicture(c.Picture.Apply)
		if err != nil {
			return err
		}
		s.logger.Info("Applied picture controls", "picture", pic.String())
	}
	return nil
}

// Capture reads one frame.
func (s *Service) Capture() (*v4l1.Frame, error) {
	s.mu.Lock()
	start := time.Now()
	frame, err := s.dev.Capture()
	elapsed := time.Since(start)
	s.mu.Unlock()

	now := time.Now().UTC().Format(time.RFC3339Nano)
	if err != nil {
		s.healthy.Store(false)
		s.publish(events.CaptureErrorEvent{
			DevicePath: s.dev.Path(),
			Kind:       ErrorKind(err),
			Error:      err.Error(),
			Timestamp:  now,
		})
		return nil, err
	}

	s.healthy.Store(true)
	s.publish(events.FrameCapturedEvent{
		DevicePath: s.dev.Path(),
		Width:      frame.Width,
		Height:     frame.Height,
		Depth:      frame.Depth,
		Palette:    frame.Palette.String(),
		Bytes:      len(frame.Data),
		DurationMs: float64(elapsed) / float64(time.Millisecond),
		Timestamp:  now,
	})
	return frame, nil
}

// Close closes the device and ends every feed subscription.
func (s *Service) Close() error {
	s.mu.Lock()
	err := s.dev.Close()
	s.mu.Unlock()

	s.feedMu.Lock()
	s.feedDone = true
	for id, ch := range s.feeds {
		close(ch)
		delete(s.feeds, id)
	}
	s.feedMu.Unlock()
	return err
}

func (s *Service) publish(ev events.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

func (s *Service) publishPicture(p v4l1.Picture) {
	s.publish(events.PictureChangedEvent{
		DevicePath: s.dev.Path(),
		Brightness: p.Brightness,
		Hue:        p.Hue,
		Colour:     p.Colour,
		Contrast:   p.Contrast,
		Whiteness:  p.Whiteness,
		Depth:      p.Depth,
		Palette:    p.Palette.String(),
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

func (s *Service) publishWindow(w v4l1.Window) {
	s.publish(events.WindowChangedEvent{
		DevicePath: s.dev.Path(),
		X:          w.X,
		Y:          w.Y,
		Width:      w.Width,
		Height:     w.Height,
		Timestamp:  time.Now().UTC().Format(time.RFC3339Nano),
	})
}

// WatchControls applies the controls file now and on every change until
// ctx ends.
func (s *Service) WatchControls(ctx context.Context, path string, logger *slog.Logger) error {
	c, err := config.LoadControls(path)
	if err != nil {
		return err
	}
	if err := s.ApplyControls(c); err != nil {
		return err
	}

	w := config.NewWatcher(path, config.LoadControls, logger)
	w.OnReload(func(c config.Controls) {
		if err := s.ApplyControls(c); err != nil {
			logger.Error("Failed to apply controls", "path", path, "error", err)
		}
	})
	if err := w.Start(); err != nil {
		return err
	}
	go func() {
		<-ctx.Done()
		w.Stop()
	}()
	return nil
}
