// Package viewer turns captured frames into RGBA images for display and
// keeps the latest one for a render loop to pick up.
package viewer

import (
	"context"
	"errors"
	"fmt"
	"image"
	"log/slog"
	"math"
	"sync"
	"time"

	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
)

// ToRGBA converts f to an opaque RGBA image. dst is reused when it has the
// frame's size.
func ToRGBA(f *v4l1.Frame, dst *image.RGBA) (*image.RGBA, error) {
	rgb, err := f.RGB24()
	if err != nil {
		return nil, err
	}
	w, h := int(f.Width), int(f.Height)
	if dst == nil || dst.Rect.Dx() != w || dst.Rect.Dy() != h {
		dst = image.NewRGBA(image.Rect(0, 0, w, h))
	}
	for y := range h {
		for x := range w {
			src := (y*w + x) * 3
			o := dst.PixOffset(x, y)
			dst.Pix[o] = rgb[src]
			dst.Pix[o+1] = rgb[src+1]
			dst.Pix[o+2] = rgb[src+2]
			dst.Pix[o+3] = 0xff
		}
	}
	return dst, nil
}

// AspectFit returns the scale and offsets that fit a frame into a view with
// letterboxing.
func AspectFit(viewW, viewH, frameW, frameH float64) (scale, offsetX, offsetY float64) {
	if frameW <= 0 || frameH <= 0 {
		return 1, 0, 0
	}
	scale = math.Min(viewW/frameW, viewH/frameH)
	offsetX = (viewW - frameW*scale) / 2
	offsetY = (viewH - frameH*scale) / 2
	return
}

// Screen holds the most recent frame. SetFrame is called from the capture
// goroutine, Frame from the render loop.
type Screen struct {
	mu     sync.Mutex
	frame  *image.RGBA
	frames uint64
}

// SetFrame converts f and makes it the current frame.
func (s *Screen) SetFrame(f *v4l1.Frame) error {
	img, err := ToRGBA(f, nil)
	if err != nil {
		return err
	}

	s.mu.Lock()
	s.frame = img
	s.frames++
	s.mu.Unlock()
	return nil
}

// Frame returns the current frame, or nil before the first one. The image
// must not be modified.
func (s *Screen) Frame() *image.RGBA {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frame
}

// Frames returns how many frames have been set.
func (s *Screen) Frames() uint64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.frames
}

// CaptureFunc reads one frame.
type CaptureFunc func() (*v4l1.Frame, error)

// Pump captures a frame every interval and hands it to s until ctx ends or
// the device is closed. Other capture errors are logged and the loop
// continues. A frame that cannot be converted stops the loop.
func Pump(ctx context.Context, capture CaptureFunc, s *Screen, interval time.Duration, logger *slog.Logger) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		f, err := capture()
		switch {
		case errors.Is(err, v4l1.ErrClosed):
			return err
		case err != nil:
			logger.Warn("Capture failed", "error", err)
		default:
			if err := s.SetFrame(f); err != nil {
				return fmt.Errorf("display frame: %w", err)
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}
	}
}
