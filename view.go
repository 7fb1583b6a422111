package main

import (
	"context"
	"errors"
	"fmt"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"
	"github.com/spf13/cobra"

	"github.com/smazurov/v4lgrab/internal/config"
	"github.com/smazurov/v4lgrab/internal/grabber"
	"github.com/smazurov/v4lgrab/internal/logging"
	"github.com/smazurov/v4lgrab/internal/viewer"
	"github.com/smazurov/v4lgrab/internal/viewer/ebitenview"
	"github.com/smazurov/v4lgrab/pkg/linuxav/v4l1"
)

// minViewWidth is the smallest initial window width; small captures are
// scaled up to it.
const minViewWidth = 640

// createViewCmd creates the view command. It lives in package main so the
// cmd package builds without a graphics stack.
func createViewCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "view",
		Short: "Show live frames in a desktop window",
		Long:  `Opens the device, sets the capture mode from the capture options and shows frames until the window is closed or Escape is pressed.`,
		Args:  cobra.NoArgs,
		Run: humacli.WithOptions(func(_ *cobra.Command, _ []string, opts *config.Options) {
			logger := logging.GetLogger("grabber")
			if err := runView(opts); err != nil {
				logger.Error("View failed", "error", err)
				os.Exit(1)
			}
		}),
	}
}

func runView(opts *config.Options) error {
	logger := logging.GetLogger("grabber")

	width, height, depth, err := opts.CaptureMode()
	if err != nil {
		return err
	}
	dev, err := grabber.OpenDevice(grabber.DeviceConfig{
		Path:        opts.Device,
		Static:      opts.DeviceStatic,
		SettleDelay: opts.SettleDelay(),
	})
	if err != nil {
		return err
	}
	svc, err := grabber.New(dev, nil, logger)
	if err != nil {
		dev.Close()
		return err
	}
	defer svc.Close()

	win, _, err := svc.Prepare(width, height, depth, opts.CapturePalette)
	if err != nil {
		return fmt.Errorf("set capture mode: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	var screen viewer.Screen
	go func() {
		err := viewer.Pump(ctx, svc.Capture, &screen, opts.FeedInterval(), logger)
		if err != nil && !errors.Is(err, context.Canceled) && !errors.Is(err, v4l1.ErrClosed) {
			logger.Error("Frame loop stopped", "error", err)
		}
	}()

	scale := max(1, minViewWidth/max(int(win.Width), 1))
	title := fmt.Sprintf("v4lgrab: %s", svc.Path())
	return ebitenview.New(&screen).Run(title, int(win.Width)*scale, int(win.Height)*scale)
}
