package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/smazurov/v4lgrab/internal/events"
)

func TestRecordFrame(t *testing.T) {
	const dev = "/dev/test-record"
	RecordFrame(events.FrameCapturedEvent{DevicePath: dev, Width: 320, Height: 240, Depth: 24, Bytes: 230400, DurationMs: 12})
	RecordFrame(events.FrameCapturedEvent{DevicePath: dev, Width: 160, Height: 120, Depth: 16, Bytes: 38400, DurationMs: 5})

	if got := testutil.ToFloat64(framesTotal.WithLabelValues(dev)); got != 2 {
		t.Errorf("frames_total = %v, want 2", got)
	}
	if got := testutil.ToFloat64(bytesTotal.WithLabelValues(dev)); got != 268800 {
		t.Errorf("bytes_total = %v, want 268800", got)
	}
	if got := testutil.ToFloat64(frameGeometry.WithLabelValues(dev, "width")); got != 160 {
		t.Errorf("width gauge = %v, want 160", got)
	}
	if got := testutil.ToFloat64(frameGeometry.WithLabelValues(dev, "depth")); got != 16 {
		t.Errorf("depth gauge = %v, want 16", got)
	}
}

func TestRecordError(t *testing.T) {
	const dev = "/dev/test-error"
	RecordError(events.CaptureErrorEvent{DevicePath: dev, Kind: "short_read"})
	RecordError(events.CaptureErrorEvent{DevicePath: dev, Kind: "short_read"})
	RecordError(events.CaptureErrorEvent{DevicePath: dev, Kind: "device_control"})

	if got := testutil.ToFloat64(errorsTotal.WithLabelValues(dev, "short_read")); got != 2 {
		t.Errorf("short_read = %v, want 2", got)
	}
	if got := testutil.ToFloat64(errorsTotal.WithLabelValues(dev, "device_control")); got != 1 {
		t.Errorf("device_control = %v, want 1", got)
	}
}

func TestFeedClients(t *testing.T) {
	before := testutil.ToFloat64(feedClients)
	FeedClientConnected()
	FeedClientConnected()
	FeedClientDisconnected()
	if got := testutil.ToFloat64(feedClients) - before; got != 1 {
		t.Errorf("feed clients delta = %v, want 1", got)
	}
}

func TestAttach(t *testing.T) {
	const dev = "/dev/test-attach"
	bus := events.New()
	detach := Attach(bus)
	defer detach()

	bus.Publish(events.FrameCapturedEvent{DevicePath: dev, Bytes: 10})
	bus.Publish(events.CaptureErrorEvent{DevicePath: dev, Kind: "closed"})

	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if testutil.ToFloat64(framesTotal.WithLabelValues(dev)) == 1 &&
			testutil.ToFloat64(errorsTotal.WithLabelValues(dev, "closed")) == 1 {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatal("attached bus events were not recorded")
}
