// Package cmd holds the one-shot subcommands that talk to the device
// directly instead of through the API server.
package cmd

import (
	"fmt"
	"log/slog"
	"os"

	"github.com/smazurov/v4lgrab/internal/config"
	"github.com/smazurov/v4lgrab/internal/grabber"
	"github.com/smazurov/v4lgrab/internal/logging"
)

// initLogging sends subcommand logs to stderr so stdout stays clean for
// command output.
func initLogging(opts *config.Options) *slog.Logger {
	cfg := opts.Logging()
	cfg.Output = "stderr"
	logging.Initialize(cfg)
	return logging.GetLogger("grabber")
}

// openGrabber opens the configured device without an event bus.
func openGrabber(opts *config.Options, logger *slog.Logger) (*grabber.Service, error) {
	dev, err := grabber.OpenDevice(grabber.DeviceConfig{
		Path:        opts.Device,
		Static:      opts.DeviceStatic,
		SettleDelay: opts.SettleDelay(),
	})
	if err != nil {
		return nil, fmt.Errorf("open device: %w", err)
	}
	svc, err := grabber.New(dev, nil, logger)
	if err != nil {
		dev.Close()
		return nil, fmt.Errorf("query capabilities: %w", err)
	}
	return svc, nil
}

func exitOnError(logger *slog.Logger, msg string, err error) {
	if err != nil {
		logger.Error(msg, "error", err)
		os.Exit(1)
	}
}
