package config

import (
	"fmt"
	"math"
	"time"

	"github.com/smazurov/v4lgrab/internal/logging"
)

// Options is the flat CLI/TOML/env option set shared by every command.
type Options struct {
	Config string `help:"Path to configuration file" short:"c" default:"v4lgrab.toml"`

	// Device settings
	Device         string `help:"Capture device node" short:"d" default:"/dev/video0" toml:"device.path" env:"DEVICE_PATH"`
	DeviceStatic   string `help:"Serve frames from a P6 PPM file instead of a device" toml:"device.static" env:"DEVICE_STATIC"`
	DeviceSettleMs int    `help:"Wait after opening the device before the first request, in milliseconds" default:"400" toml:"device.settle_ms" env:"DEVICE_SETTLE_MS"`

	// Capture settings
	CaptureWidth      int    `help:"Capture width (0 keeps the device setting)" default:"0" toml:"capture.width" env:"CAPTURE_WIDTH"`
	CaptureHeight     int    `help:"Capture height (0 keeps the device setting)" default:"0" toml:"capture.height" env:"CAPTURE_HEIGHT"`
	CaptureDepth      int    `help:"Bits per pixel (0 negotiates rgb24, rgb565, rgb555)" default:"0" toml:"capture.depth" env:"CAPTURE_DEPTH"`
	CapturePalette    string `help:"Palette name, used with --capture-depth" default:"rgb24" toml:"capture.palette" env:"CAPTURE_PALETTE"`
	CaptureIntervalMs int    `help:"Interval between frames pushed to live feeds, in milliseconds" default:"100" toml:"capture.interval_ms" env:"CAPTURE_INTERVAL_MS"`

	ControlsFile string `help:"Picture/window controls file, applied and watched for changes" toml:"controls.file" env:"CONTROLS_FILE"`

	// Server settings
	Port           string `help:"Port to listen on" short:"p" default:":8090" toml:"server.port" env:"SERVER_PORT"`
	MetricsEnabled bool   `help:"Expose Prometheus metrics on /metrics" default:"true" toml:"metrics.enabled" env:"METRICS_ENABLED"`

	// NATS settings, disabled while the URL is empty and the embedded server is off
	NatsURL      string `help:"NATS server to publish capture events to" toml:"nats.url" env:"NATS_URL"`
	NatsEmbedded bool   `help:"Run an embedded NATS server and publish to it" default:"false" toml:"nats.embedded" env:"NATS_EMBEDDED"`
	NatsPort     int    `help:"Embedded NATS server port" default:"4222" toml:"nats.port" env:"NATS_PORT"`

	// Auth settings, basic auth is off while the username is empty
	AuthUsername string `help:"Basic auth username" toml:"auth.username" env:"AUTH_USERNAME"`
	AuthPassword string `help:"Basic auth password" toml:"auth.password" env:"AUTH_PASSWORD"`

	// Logging settings
	LoggingLevel   string `help:"Global logging level (debug, info, warn, error)" default:"info" toml:"logging.level" env:"LOGGING_LEVEL"`
	LoggingFormat  string `help:"Logging format (text, json)" default:"text" toml:"logging.format" env:"LOGGING_FORMAT"`
	LoggingGrabber string `help:"Grabber logging level" default:"info" toml:"logging.grabber" env:"LOGGING_GRABBER"`
	LoggingAPI     string `help:"API logging level" default:"info" toml:"logging.api" env:"LOGGING_API"`
	LoggingConfig  string `help:"Config watcher logging level" default:"info" toml:"logging.config" env:"LOGGING_CONFIG"`
	LoggingNats    string `help:"NATS logging level" default:"info" toml:"logging.nats" env:"LOGGING_NATS"`
}

// Logging builds the logging configuration from the logging options.
func (o *Options) Logging() logging.Config {
	return logging.Config{
		Level:  o.LoggingLevel,
		Format: o.LoggingFormat,
		Modules: map[string]string{
			"grabber": o.LoggingGrabber,
			"api":     o.LoggingAPI,
			"http":    o.LoggingAPI,
			"config":  o.LoggingConfig,
			"nats":    o.LoggingNats,
		},
	}
}

// SettleDelay returns the post-open wait. Negative values count as zero.
func (o *Options) SettleDelay() time.Duration {
	return time.Duration(max(o.DeviceSettleMs, 0)) * time.Millisecond
}

// FeedInterval returns the live feed period, at least 10ms.
func (o *Options) FeedInterval() time.Duration {
	return time.Duration(max(o.CaptureIntervalMs, 10)) * time.Millisecond
}

// CaptureMode returns the capture geometry and depth with range checks.
func (o *Options) CaptureMode() (width, height uint32, depth uint16, err error) {
	for _, v := range []struct {
		name  string
		value int64
		limit int64
	}{
		{"capture width", int64(o.CaptureWidth), math.MaxUint32},
		{"capture height", int64(o.CaptureHeight), math.MaxUint32},
		{"capture depth", int64(o.CaptureDepth), math.MaxUint16},
	} {
		if v.value < 0 || v.value > v.limit {
			return 0, 0, 0, fmt.Errorf("config: %s %d out of range", v.name, v.value)
		}
	}
	return uint32(o.CaptureWidth), uint32(o.CaptureHeight), uint16(o.CaptureDepth), nil
}
