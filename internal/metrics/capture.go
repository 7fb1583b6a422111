// Package metrics provides Prometheus metrics for frame capture.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/smazurov/v4lgrab/internal/events"
)

const namespace = "v4lgrab"

var (
	framesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "frames_total",
		Help:      "Frames read from the device",
	}, []string{"device"})

	bytesTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "bytes_total",
		Help:      "Frame bytes read from the device",
	}, []string{"device"})

	errorsTotal = promauto.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "errors_total",
		Help:      "Failed captures by failure class",
	}, []string{"device", "kind"})

	captureDuration = promauto.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "duration_seconds",
		Help:      "Time spent in one capture call",
		Buckets:   []float64{.001, .005, .01, .02, .04, .08, .16, .32, .64},
	}, []string{"device"})

	frameGeometry = promauto.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "capture",
		Name:      "frame_geometry",
		Help:      "Geometry of the last frame (dimension = width, height, depth)",
	}, []string{"device", "dimension"})

	feedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Subsystem: "feed",
		Name:      "clients",
		Help:      "Connected live frame feed clients",
	})
)

// RecordFrame accounts one successful capture.
func RecordFrame(e events.FrameCapturedEvent) {
	framesTotal.WithLabelValues(e.DevicePath).Inc()
	bytesTotal.WithLabelValues(e.DevicePath).Add(float64(e.Bytes))
	captureDuration.WithLabelValues(e.DevicePath).Observe(e.DurationMs / 1000)
	frameGeometry.WithLabelValues(e.DevicePath, "width").Set(float64(e.Width))
	frameGeometry.WithLabelValues(e.DevicePath, "height").Set(float64(e.Height))
	frameGeometry.WithLabelValues(e.DevicePath, "depth").Set(float64(e.Depth))
}

// RecordError accounts one failed capture.
func RecordError(e events.CaptureErrorEvent) {
	errorsTotal.WithLabelValues(e.DevicePath, e.Kind).Inc()
}

// FeedClientConnected and FeedClientDisconnected track live feed subscribers.
func FeedClientConnected()    { feedClients.Inc() }
func FeedClientDisconnected() { feedClients.Dec() }

// Attach records capture events published on bus until the returned
// function is called.
func Attach(bus *events.Bus) func() {
	unsubFrames := bus.Subscribe(RecordFrame)
	unsubErrors := bus.Subscribe(RecordError)
	return func() {
		unsubFrames()
		unsubErrors()
	}
}
