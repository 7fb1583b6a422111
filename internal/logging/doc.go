// Package logging provides structured logging with per-module log levels.
//
// Records go to stdout (text or json) and, when journald is reachable, to the
// systemd journal under the identifier "v4lgrab".
//
// Initialize once at startup, then fetch loggers by module name:
//
//	logging.Initialize(logging.Config{
//		Level:  "info",
//		Format: "text",
//		Modules: map[string]string{
//			"grabber": "debug",
//			"api":     "warn",
//		},
//	})
//
//	logger := logging.GetLogger("grabber")
//	logger.Info("frame captured", "bytes", len(frame.Data))
//
// Loggers created before Initialize start at info and follow the configured
// level once Initialize runs. SetLevel changes one module at runtime.
//
// Journal fields are the upper-cased attribute keys:
//
//	journalctl -t v4lgrab MODULE=grabber -p err
//
// TOML configuration:
//
//	[logging]
//	level = "info"
//	format = "text"
//
//	[logging.modules]
//	grabber = "debug"
package logging
