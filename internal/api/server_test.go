package api

import (
	"bufio"
	"context"
	"encoding/base64"
	"encoding/binary"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"github.com/smazurov/v4lgrab/internal/events"
	"github.com/smazurov/v4lgrab/internal/grabber"
	"github.com/smazurov/v4lgrab/internal/staticdev"
	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
	"github.com/smazurov/v4lgrab/pkg/ppm"
)

const (
	testUser = "admin"
	testPass = "secret"
)

func testImage(w, h int) *ppm.Image {
	pix := make([]byte, w*h*3)
	for i := range pix {
		pix[i] = byte(i)
	}
	return &ppm.Image{Width: w, Height: h, Pix: pix}
}

func newTestServer(t *testing.T, auth bool) (*Server, *grabber.Service) {
	t.Helper()
	src, err := staticdev.New("static:test", testImage(8, 6))
	if err != nil {
		t.Fatalf("staticdev.New: %v", err)
	}
	bus := events.New()
	g, err := grabber.New(v4l1.NewDevice("/dev/test", src, src), bus, slog.New(slog.NewTextHandler(io.Discard, nil)))
	if err != nil {
		t.Fatalf("grabber.New: %v", err)
	}
	t.Cleanup(func() { g.Close() })

	opts := &Options{Grabber: g, EventBus: bus}
	if auth {
		opts.AuthUsername = testUser
		opts.AuthPassword = testPass
	}
	return NewServer(opts), g
}

func basicAuth() string {
	return base64.StdEncoding.EncodeToString([]byte(testUser + ":" + testPass))
}

func do(t *testing.T, s *Server, method, path, body string, header http.Header) *httptest.ResponseRecorder {
	t.Helper()
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range header {
		req.Header[k] = v
	}
	rec := httptest.NewRecorder()
	s.Handler().ServeHTTP(rec, req)
	return rec
}

func decodeJSON[T any](t *testing.T, rec *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(rec.Body.Bytes(), &v); err != nil {
		t.Fatalf("decode %q: %v", rec.Body.String(), err)
	}
	return v
}

func TestHealthFollowsCaptures(t *testing.T) {
	s, g := newTestServer(t, true)

	rec := do(t, s, http.MethodGet, "/api/health", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if got := decodeJSON[map[string]any](t, rec)["status"]; got != "ok" {
		t.Errorf("status after open = %v, want ok", got)
	}

	g.Close()
	if _, err := g.Capture(); err == nil {
		t.Fatal("Capture on closed device succeeded")
	}
	rec = do(t, s, http.MethodGet, "/api/health", "", nil)
	if got := decodeJSON[map[string]any](t, rec)["status"]; got != "degraded" {
		t.Errorf("status after failed capture = %v, want degraded", got)
	}
}

func TestVersionNoAuth(t *testing.T) {
	s, _ := newTestServer(t, true)
	rec := do(t, s, http.MethodGet, "/api/version", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d, want 200", rec.Code)
	}
	if _, ok := decodeJSON[map[string]any](t, rec)["version"]; !ok {
		t.Errorf("missing version in %s", rec.Body.String())
	}
}

func TestAuth(t *testing.T) {
	s, _ := newTestServer(t, true)

	tests := []struct {
		name   string
		path   string
		header http.Header
		want   int
	}{
		{"missing", "/api/device", nil, http.StatusUnauthorized},
		{"header", "/api/device", http.Header{"Authorization": {"Basic " + basicAuth()}}, http.StatusOK},
		{"query", "/api/device?auth=" + basicAuth(), nil, http.StatusOK},
		{"wrong scheme", "/api/device", http.Header{"Authorization": {"Bearer x"}}, http.StatusUnauthorized},
		{"wrong password", "/api/device", http.Header{"Authorization": {"Basic " + base64.StdEncoding.EncodeToString([]byte("admin:nope"))}}, http.StatusUnauthorized},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodGet, tt.path, "", tt.header)
			if rec.Code != tt.want {
				t.Errorf("status = %d, want %d", rec.Code, tt.want)
			}
			if tt.want == http.StatusUnauthorized && rec.Header().Get("WWW-Authenticate") == "" {
				t.Error("missing WWW-Authenticate")
			}
		})
	}
}

func TestCheckCredentials(t *testing.T) {
	good := basicAuth()
	tests := []struct {
		name          string
		header, query string
		want          error
	}{
		{"header", "Basic " + good, "", nil},
		{"query", "", good, nil},
		{"header wins", "Basic " + good, "garbage", nil},
		{"none", "", "", errAuthNone},
		{"scheme", "Digest abc", "", errAuthType},
		{"not base64", "Basic !!!", "", errAuthFormat},
		{"no colon", "Basic " + base64.StdEncoding.EncodeToString([]byte("admin")), "", errAuthFormat},
		{"mismatch", "", base64.StdEncoding.EncodeToString([]byte("root:secret")), errAuthBad},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := checkCredentials(tt.header, tt.query, testUser, testPass); got != tt.want {
				t.Errorf("checkCredentials = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestGetDevice(t *testing.T) {
	s, _ := newTestServer(t, false)
	rec := do(t, s, http.MethodGet, "/api/device", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}

	var body struct {
		Path       string `json:"path"`
		Capability struct {
			Name     string   `json:"name"`
			Features []string `json:"features"`
			MaxWidth int32    `json:"max_width"`
		} `json:"capability"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatal(err)
	}
	if body.Path != "/dev/test" || body.Capability.Name != "static:test" || body.Capability.MaxWidth != 8 {
		t.Errorf("unexpected device: %+v", body)
	}
	if strings.Join(body.Capability.Features, ",") != "capture,scales" {
		t.Errorf("features = %v", body.Capability.Features)
	}
}

func TestPicture(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/device/picture", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("get status = %d", rec.Code)
	}
	if got := decodeJSON[map[string]any](t, rec)["palette"]; got != "rgb24" {
		t.Errorf("palette = %v, want rgb24", got)
	}

	tests := []struct {
		name string
		body string
		want int
	}{
		{"controls", `{"brightness": 1000, "hue": 7}`, http.StatusOK},
		{"unknown palette", `{"palette": "bogus"}`, http.StatusUnprocessableEntity},
		{"driver rejects", `{"palette": "rgb565", "depth": 16}`, http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := do(t, s, http.MethodPut, "/api/device/picture", tt.body, nil)
			if rec.Code != tt.want {
				t.Fatalf("status = %d, want %d: %s", rec.Code, tt.want, rec.Body.String())
			}
		})
	}

	pic := decodeJSON[map[string]any](t, do(t, s, http.MethodGet, "/api/device/picture", "", nil))
	if pic["brightness"] != float64(1000) || pic["hue"] != float64(7) || pic["palette"] != "rgb24" {
		t.Errorf("picture after updates = %v", pic)
	}
}

func TestWindow(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodPut, "/api/device/window", `{"x": 2, "y": 1, "width": 4, "height": 3}`, nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	win := decodeJSON[map[string]any](t, rec)
	if win["width"] != float64(4) || win["height"] != float64(3) || win["x"] != float64(2) {
		t.Errorf("window = %v", win)
	}

	rec = do(t, s, http.MethodPut, "/api/device/window", `{"width": 100}`, nil)
	if rec.Code != http.StatusBadGateway {
		t.Errorf("oversize status = %d, want 502", rec.Code)
	}
}

func TestSnapshotPPM(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/device/snapshot", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if ct := rec.Header().Get("Content-Type"); ct != "image/x-portable-pixmap" {
		t.Errorf("Content-Type = %q", ct)
	}
	img, err := ppm.Decode(rec.Body)
	if err != nil {
		t.Fatalf("Decode: %v", err)
	}
	if img.Width != 8 || img.Height != 6 {
		t.Errorf("size = %dx%d, want 8x6", img.Width, img.Height)
	}
	if want := testImage(8, 6).Pix; string(img.Pix) != string(want) {
		t.Error("pixel data differs from source image")
	}
}

func TestSnapshotRaw(t *testing.T) {
	s, _ := newTestServer(t, false)

	rec := do(t, s, http.MethodGet, "/api/device/snapshot?format=raw", "", nil)
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.Len() != 8*6*3 {
		t.Errorf("body = %d bytes, want %d", rec.Body.Len(), 8*6*3)
	}
	for k, want := range map[string]string{
		"X-Frame-Width":   "8",
		"X-Frame-Height":  "6",
		"X-Frame-Depth":   "24",
		"X-Frame-Palette": "rgb24",
	} {
		if got := rec.Header().Get(k); got != want {
			t.Errorf("%s = %q, want %q", k, got, want)
		}
	}
}

func TestSnapshotClosedDevice(t *testing.T) {
	s, g := newTestServer(t, false)
	g.Close()

	rec := do(t, s, http.MethodGet, "/api/device/snapshot", "", nil)
	if rec.Code != http.StatusServiceUnavailable {
		t.Errorf("status = %d, want 503", rec.Code)
	}
}

func TestEncodeFrameMessage(t *testing.T) {
	f := &v4l1.Frame{Data: []byte{1, 2, 3}, Width: 320, Height: 240, Depth: 16, Palette: v4l1.PaletteRGB565}
	msg := EncodeFrameMessage(f)

	if len(msg) != FrameHeaderSize+3 {
		t.Fatalf("len = %d", len(msg))
	}
	if w := binary.LittleEndian.Uint32(msg[0:]); w != 320 {
		t.Errorf("width = %d", w)
	}
	if h := binary.LittleEndian.Uint32(msg[4:]); h != 240 {
		t.Errorf("height = %d", h)
	}
	if d := binary.LittleEndian.Uint16(msg[8:]); d != 16 {
		t.Errorf("depth = %d", d)
	}
	if p := binary.LittleEndian.Uint16(msg[10:]); p != uint16(v4l1.PaletteRGB565) {
		t.Errorf("palette = %d", p)
	}
	if string(msg[FrameHeaderSize:]) != "\x01\x02\x03" {
		t.Errorf("data = %v", msg[FrameHeaderSize:])
	}
}

func TestFrameFeed(t *testing.T) {
	s, g := newTestServer(t, true)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go g.RunFeed(ctx, 10*time.Millisecond)

	url := "ws" + strings.TrimPrefix(ts.URL, "http") + "/api/frames/ws"

	if _, resp, err := websocket.DefaultDialer.Dial(url, nil); err == nil {
		t.Fatal("dial without credentials succeeded")
	} else if resp == nil || resp.StatusCode != http.StatusUnauthorized {
		t.Fatalf("unauthenticated dial: %v", err)
	}

	conn, _, err := websocket.DefaultDialer.Dial(url+"?auth="+basicAuth(), nil)
	if err != nil {
		t.Fatalf("Dial: %v", err)
	}
	defer conn.Close()

	_ = conn.SetReadDeadline(time.Now().Add(5 * time.Second))
	typ, msg, err := conn.ReadMessage()
	if err != nil {
		t.Fatalf("ReadMessage: %v", err)
	}
	if typ != websocket.BinaryMessage {
		t.Errorf("message type = %d, want binary", typ)
	}
	if len(msg) != FrameHeaderSize+8*6*3 {
		t.Fatalf("message = %d bytes", len(msg))
	}
	if w := binary.LittleEndian.Uint32(msg[0:]); w != 8 {
		t.Errorf("width = %d, want 8", w)
	}
}

func TestEventStreamSendsState(t *testing.T) {
	s, _ := newTestServer(t, false)
	ts := httptest.NewServer(s.Handler())
	defer ts.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, ts.URL+"/api/events", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("GET /api/events: %v", err)
	}
	defer resp.Body.Close()
	if ct := resp.Header.Get("Content-Type"); !strings.HasPrefix(ct, "text/event-stream") {
		t.Fatalf("Content-Type = %q", ct)
	}

	var names []string
	sc := bufio.NewScanner(resp.Body)
	for sc.Scan() && len(names) < 2 {
		if name, ok := strings.CutPrefix(sc.Text(), "event:"); ok {
			names = append(names, strings.TrimSpace(name))
		}
	}
	if strings.Join(names, ",") != "window-changed,picture-changed" {
		t.Errorf("initial events = %v", names)
	}
}

func TestRequestLevel(t *testing.T) {
	tests := []struct {
		method, path string
		status       int
		want         slog.Level
	}{
		{http.MethodGet, "/api/device", 200, slog.LevelInfo},
		{http.MethodGet, "/api/health", 200, slog.LevelDebug},
		{http.MethodOptions, "/api/device", 204, slog.LevelDebug},
		{http.MethodPut, "/api/device/picture", 422, slog.LevelWarn},
		{http.MethodGet, "/api/health", 503, slog.LevelError},
	}
	for _, tt := range tests {
		if got := requestLevel(tt.method, tt.path, tt.status); got != tt.want {
			t.Errorf("requestLevel(%s %s %d) = %v, want %v", tt.method, tt.path, tt.status, got, tt.want)
		}
	}
}

func TestPreflight(t *testing.T) {
	s, _ := newTestServer(t, true)
	rec := do(t, s, http.MethodOptions, "/api/device/picture", "", nil)
	if rec.Code != http.StatusNoContent {
		t.Errorf("status = %d, want 204", rec.Code)
	}
	if rec.Header().Get("Access-Control-Allow-Origin") != "*" {
		t.Error("missing Access-Control-Allow-Origin")
	}
}

func TestViewerPage(t *testing.T) {
	s, _ := newTestServer(t, true)

	for _, path := range []string{"/", "/live"} {
		rec := do(t, s, http.MethodGet, path, "", nil)
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %s status = %d, want 200", path, rec.Code)
		}
		if !strings.Contains(rec.Body.String(), "/api/frames/ws") {
			t.Errorf("GET %s did not serve the viewer", path)
		}
	}

	if rec := do(t, s, http.MethodGet, "/api/nope", "", nil); rec.Code != http.StatusNotFound {
		t.Errorf("unknown API path status = %d, want 404", rec.Code)
	}
}
