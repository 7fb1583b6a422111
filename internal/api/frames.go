package api

import (
	"encoding/binary"
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smazurov/v4lgrab/internal/metrics"
	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
)

// FrameHeaderSize is the length of the header that precedes the pixel data
// in every websocket frame message.
const FrameHeaderSize = 12

const (
	frameWriteTimeout = 5 * time.Second
	frameBuffer       = 2
)

// EncodeFrameMessage lays out a websocket frame message: width and height as
// uint32, depth and palette index as uint16, all little-endian, then the
// frame bytes.
func EncodeFrameMessage(f *v4l1.Frame) []byte {
	msg := make([]byte, FrameHeaderSize+len(f.Data))
	binary.LittleEndian.PutUint32(msg[0:], f.Width)
	binary.LittleEndian.PutUint32(msg[4:], f.Height)
	binary.LittleEndian.PutUint16(msg[8:], f.Depth)
	binary.LittleEndian.PutUint16(msg[10:], uint16(f.Palette))
	copy(msg[FrameHeaderSize:], f.Data)
	return msg
}

// registerFrameRoutes mounts the live feed outside Huma, which has no
// websocket support.
func (s *Server) registerFrameRoutes() {
	s.upgrader = websocket.Upgrader{
		CheckOrigin: func(*http.Request) bool { return true },
	}
	s.mux.HandleFunc("GET /api/frames/ws", s.handleFrames)
}

func (s *Server) handleFrames(w http.ResponseWriter, r *http.Request) {
	if s.authEnabled() {
		err := checkCredentials(r.Header.Get("Authorization"), r.URL.Query().Get("auth"),
			s.options.AuthUsername, s.options.AuthPassword)
		if err != nil {
			w.Header().Set("WWW-Authenticate", authRealm)
			http.Error(w, err.Error(), http.StatusUnauthorized)
			return
		}
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		s.logger.Warn("Frame feed upgrade failed", "remote_addr", r.RemoteAddr, "error", err)
		return
	}
	defer conn.Close()

	frames, cancel := s.grabber.Subscribe(frameBuffer)
	defer cancel()

	metrics.FeedClientConnected()
	defer metrics.FeedClientDisconnected()
	s.logger.Info("Frame feed client connected", "remote_addr", r.RemoteAddr)

	// Incoming messages are ignored; reading detects the close.
	closed := make(chan struct{})
	go func() {
		defer close(closed)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-closed:
			s.logger.Info("Frame feed client disconnected", "remote_addr", r.RemoteAddr)
			return
		case f, ok := <-frames:
			if !ok {
				_ = conn.WriteControl(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseGoingAway, "device closed"),
					time.Now().Add(time.Second))
				return
			}
			_ = conn.SetWriteDeadline(time.Now().Add(frameWriteTimeout))
			if err := conn.WriteMessage(websocket.BinaryMessage, EncodeFrameMessage(f)); err != nil {
				s.logger.Debug("Frame feed write failed", "remote_addr", r.RemoteAddr, "error", err)
				return
			}
		}
	}
}
