package api

import (
	"context"
	"net/http"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/sse"

	"github.com/smazurov/v4lgrab/internal/events"
)

func (s *Server) registerSSERoutes() {
	sse.Register(s.api, huma.Operation{
		OperationID: "events-stream",
		Method:      http.MethodGet,
		Path:        "/api/events",
		Summary:     "Server-Sent Events Stream",
		Description: "Capture results, capture failures and picture or window changes. The current picture and window are sent on connect.",
		Tags:        []string{"events"},
		Security:    withAuth(),
		Errors:      []int{401},
	}, map[string]any{
		"frame-captured":  events.FrameCapturedEvent{},
		"capture-error":   events.CaptureErrorEvent{},
		"picture-changed": events.PictureChangedEvent{},
		"window-changed":  events.WindowChangedEvent{},
	}, func(ctx context.Context, _ *struct{}, send sse.Sender) {
		eventCh := make(chan any, 16)
		unsubscribers := []func(){
			events.SubscribeToChannel[events.FrameCapturedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.CaptureErrorEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.PictureChangedEvent](s.eventBus, eventCh),
			events.SubscribeToChannel[events.WindowChangedEvent](s.eventBus, eventCh),
		}
		defer func() {
			for _, unsub := range unsubscribers {
				unsub()
			}
		}()

		for _, ev := range s.currentState() {
			if err := send.Data(ev); err != nil {
				return
			}
		}

		for {
			select {
			case <-ctx.Done():
				return
			case ev := <-eventCh:
				if err := send.Data(ev); err != nil {
					return
				}
			}
		}
	})
}

// currentState returns the device state as change events. Query failures
// are logged and skipped.
func (s *Server) currentState() []any {
	now := time.Now().UTC().Format(time.RFC3339Nano)
	var out []any

	if win, err := s.grabber.Window(); err != nil {
		s.logger.Warn("Failed to query window for new event stream", "error", err)
	} else {
		out = append(out, events.WindowChangedEvent{
			DevicePath: s.grabber.Path(),
			X:          win.X,
			Y:          win.Y,
			Width:      win.Width,
			Height:     win.Height,
			Timestamp:  now,
		})
	}

	if pic, err := s.grabber.Picture(); err != nil {
		s.logger.Warn("Failed to query picture for new event stream", "error", err)
	} else {
		out = append(out, events.PictureChangedEvent{
			DevicePath: s.grabber.Path(),
			Brightness: pic.Brightness,
			Hue:        pic.Hue,
			Colour:     pic.Colour,
			Contrast:   pic.Contrast,
			Whiteness:  pic.Whiteness,
			Depth:      pic.Depth,
			Palette:    pic.Palette.String(),
			Timestamp:  now,
		})
	}
	return out
}
