package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"

	"github.com/danielgtaylor/huma/v2/humacli"

	"github.com/smazurov/v4lgrab/cmd"
	"github.com/smazurov/v4lgrab/internal/api"
	"github.com/smazurov/v4lgrab/internal/config"
	"github.com/smazurov/v4lgrab/internal/events"
	"github.com/smazurov/v4lgrab/internal/grabber"
	"github.com/smazurov/v4lgrab/internal/logging"
	"github.com/smazurov/v4lgrab/internal/metrics"
	"github.com/smazurov/v4lgrab/internal/metrics/exporters"
	"github.com/smazurov/v4lgrab/internal/nats"
	"github.com/smazurov/v4lgrab/internal/systemd"
)

func main() {
	var cli humacli.CLI
	cli = humacli.New(func(hooks humacli.Hooks, opts *config.Options) {
		if loadErr := config.LoadConfig(opts, cli.Root()); loadErr != nil {
			slog.Warn("Failed to load config", "error", loadErr)
		}
		logging.Initialize(opts.Logging())
		logger := logging.GetLogger("main")

		// The hooks only run for the root (serve) command.
		var (
			ctx     context.Context
			cancel  context.CancelFunc
			svc     *grabber.Service
			server  *api.Server
			detach  func()
			natsSrv *nats.Server
			natsPub *nats.Publisher
			notify  = systemd.NewNotifier(logger)
			feedErr = make(chan error, 1)
		)

		hooks.OnStart(func() {
			ctx, cancel = context.WithCancel(context.Background())

			eventBus := events.New()
			if opts.MetricsEnabled {
				detach = metrics.Attach(eventBus)
			}

			var err error
			svc, err = startGrabber(ctx, opts, eventBus)
			if err != nil {
				logger.Error("Failed to start grabber", "device", opts.Device, "error", err)
				os.Exit(1)
			}

			apiOpts := &api.Options{
				AuthUsername: opts.AuthUsername,
				AuthPassword: opts.AuthPassword,
				Grabber:      svc,
				EventBus:     eventBus,
			}
			if opts.MetricsEnabled {
				apiOpts.PrometheusHandler = exporters.HTTPHandler()
			}
			server = api.NewServer(apiOpts)

			natsSrv, natsPub = startNATS(opts, svc, eventBus)

			go func() {
				feedErr <- svc.RunFeed(ctx, opts.FeedInterval())
			}()
			go func() {
				if err := <-feedErr; err != nil && !errors.Is(err, context.Canceled) {
					logger.Error("Live feed stopped", "error", err)
					notify.Status("live feed stopped: " + err.Error())
				}
			}()
			go notify.RunWatchdog(ctx, svc.Probe)

			notify.Ready()
			notify.Status(fmt.Sprintf("serving %s on %s", svc.Path(), opts.Port))

			logger.Info("Starting HTTP server", "port", opts.Port, "device", svc.Path())
			if startErr := server.Start(opts.Port); startErr != nil && !errors.Is(startErr, http.ErrServerClosed) {
				logger.Error("Failed to start HTTP server", "error", startErr)
				os.Exit(1)
			}
		})

		hooks.OnStop(func() {
			logger.Info("Shutting down server")
			notify.Stopping()

			if server != nil {
				if stopErr := server.Stop(); stopErr != nil {
					logger.Error("Error stopping HTTP server", "error", stopErr)
				}
			}
			if natsPub != nil {
				natsPub.Stop()
			}
			if natsSrv != nil {
				natsSrv.Stop()
			}
			if cancel != nil {
				cancel()
			}
			if detach != nil {
				detach()
			}
			if svc != nil {
				if closeErr := svc.Close(); closeErr != nil {
					logger.Error("Error closing device", "error", closeErr)
				}
			}
		})
	})

	cli.Root().AddCommand(cmd.CreateInfoCmd())
	cli.Root().AddCommand(cmd.CreateGrabCmd())
	cli.Root().AddCommand(cmd.CreateSetCmd())
	cli.Root().AddCommand(createViewCmd())

	cli.Run()
}

// startGrabber opens the device, sets the capture mode and starts watching
// the controls file.
func startGrabber(ctx context.Context, opts *config.Options, bus *events.Bus) (*grabber.Service, error) {
	logger := logging.GetLogger("grabber")

	width, height, depth, err := opts.CaptureMode()
	if err != nil {
		return nil, err
	}

	dev, err := grabber.OpenDevice(grabber.DeviceConfig{
		Path:        opts.Device,
		Static:      opts.DeviceStatic,
		SettleDelay: opts.SettleDelay(),
	})
	if err != nil {
		return nil, err
	}

	svc, err := grabber.New(dev, bus, logger)
	if err != nil {
		dev.Close()
		return nil, err
	}
	logger.Info("Opened device", "path", svc.Path(), "capabilities", svc.Capabilities().String())

	win, pic, err := svc.Prepare(width, height, depth, opts.CapturePalette)
	if err != nil {
		svc.Close()
		return nil, fmt.Errorf("set capture mode: %w", err)
	}
	logger.Info("Capture mode", "window", win.String(), "picture", pic.String())

	if opts.ControlsFile != "" {
		if err := svc.WatchControls(ctx, opts.ControlsFile, logging.GetLogger("config")); err != nil {
			svc.Close()
			return nil, fmt.Errorf("controls file: %w", err)
		}
	}
	return svc, nil
}

// startNATS starts the embedded server and the event publisher as
// configured. Failures are logged; capture keeps running without NATS.
func startNATS(opts *config.Options, svc *grabber.Service, bus *events.Bus) (*nats.Server, *nats.Publisher) {
	logger := logging.GetLogger("nats")

	url := opts.NatsURL
	var srv *nats.Server
	if opts.NatsEmbedded {
		srv = nats.NewServer(nats.ServerOptions{Port: opts.NatsPort, Logger: logger})
		if err := srv.Start(); err != nil {
			logger.Error("Failed to start embedded NATS server", "error", err)
			return nil, nil
		}
		if url == "" {
			url = srv.ClientURL()
		}
	}
	if url == "" {
		return srv, nil
	}

	pub := nats.NewPublisher(url, svc.Path(), bus, svc.ApplyControls, logger)
	if err := pub.Start(); err != nil {
		logger.Error("Failed to start NATS publisher", "url", url, "error", err)
		return srv, nil
	}
	return srv, pub
}
