// Package systemd reports service state to systemd through sd_notify.
package systemd

import (
	"context"
	"log/slog"
	"time"

	"github.com/coreos/go-systemd/v22/daemon"
)

// Notifier sends readiness, status and watchdog messages. Every call is a
// no-op when the process was not started by systemd with Type=notify.
type Notifier struct {
	logger *slog.Logger
}

// NewNotifier creates a notifier that logs delivery failures to logger.
func NewNotifier(logger *slog.Logger) *Notifier {
	return &Notifier{logger: logger}
}

func (n *Notifier) send(state string) bool {
	sent, err := daemon.SdNotify(false, state)
	if err != nil {
		n.logger.Warn("sd_notify failed", "state", state, "error", err)
		return false
	}
	return sent
}

// Ready tells systemd the service finished starting.
func (n *Notifier) Ready() bool { return n.send(daemon.SdNotifyReady) }

// Stopping tells systemd the service is shutting down.
func (n *Notifier) Stopping() bool { return n.send(daemon.SdNotifyStopping) }

// Status sets the free-form status line shown by systemctl status.
func (n *Notifier) Status(msg string) bool { return n.send("STATUS=" + msg) }

// RunWatchdog pings the watchdog at half the configured interval until ctx
// ends. healthy is consulted before every ping; a false result skips it so
// systemd restarts a wedged service. It returns at once when the watchdog
// is not enabled.
func (n *Notifier) RunWatchdog(ctx context.Context, healthy func() bool) {
	interval, err := daemon.SdWatchdogEnabled(false)
	if err != nil {
		n.logger.Warn("Watchdog configuration invalid", "error", err)
		return
	}
	if interval == 0 {
		return
	}

	n.logger.Info("Watchdog enabled", "interval", interval)
	ticker := time.NewTicker(interval / 2)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if healthy == nil || healthy() {
				n.send(daemon.SdNotifyWatchdog)
			} else {
				n.logger.Warn("Skipping watchdog ping, service unhealthy")
			}
		}
	}
}
