package grabber

import (
	"context"
	"errors"
	"time"

	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
)

// Subscribe registers a live feed receiver. Frames are dropped for a
// subscriber whose buffer is full. The channel is closed by the returned
// cancel function or by Close.
func (s *Service) Subscribe(buffer int) (<-chan *v4l1.Frame, func()) {
	ch := make(chan *v4l1.Frame, max(buffer, 1))

	s.feedMu.Lock()
	if s.feedDone {
		s.feedMu.Unlock()
		close(ch)
		return ch, func() {}
	}
	id := s.nextID
	s.nextID++
	s.feeds[id] = ch
	s.feedMu.Unlock()

	select {
	case s.wake <- struct{}{}:
	default:
	}

	return ch, func() {
		s.feedMu.Lock()
		defer s.feedMu.Unlock()
		if c, ok := s.feeds[id]; ok {
			close(c)
			delete(s.feeds, id)
		}
	}
}

// Subscribers returns the number of live feed receivers.
func (s *Service) Subscribers() int {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	return len(s.feeds)
}

func (s *Service) broadcast(f *v4l1.Frame) {
	s.feedMu.Lock()
	defer s.feedMu.Unlock()
	for _, ch := range s.feeds {
		select {
		case ch <- f:
		default:
		}
	}
}

// RunFeed captures a frame every interval while anyone is subscribed and
// hands it to all subscribers. Capture errors are logged and retried on the
// next tick. It returns when ctx ends or the device is closed.
func (s *Service) RunFeed(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		if s.Subscribers() == 0 {
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-s.wake:
				continue
			}
		}

		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
		}

		frame, err := s.Capture()
		if err != nil {
			if errors.Is(err, v4l1.ErrClosed) {
				return err
			}
			s.logger.Warn("Feed capture failed", "error", err, "kind", ErrorKind(err))
			continue
		}
		s.broadcast(frame)
	}
}
