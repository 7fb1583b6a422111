package logging

import (
	"log/slog"
	"os"
	"strings"
	"sync"
)

// Identifier tags every journal entry (SYSLOG_IDENTIFIER).
const Identifier = "v4lgrab"

// Config represents logging configuration.
type Config struct {
	Level   string            `toml:"level"`
	Format  string            `toml:"format"`
	Modules map[string]string `toml:"modules"`
	Output  string            `toml:"output"` // "stdout" (default) or "stderr"
}

var (
	mutex         sync.RWMutex
	globalConfig  Config
	isInitialized bool
	loggers       = make(map[string]*slog.Logger)
	levels        = make(map[string]*slog.LevelVar)
	rootLevel     = &slog.LevelVar{}
)

// Initialize sets up the logging system. Loggers handed out earlier keep
// working and pick up their new level.
func Initialize(config Config) {
	mutex.Lock()
	defer mutex.Unlock()

	globalConfig = config
	isInitialized = true
	rootLevel.Set(levelOr(config.Level, slog.LevelInfo))

	for module, lv := range levels {
		lv.Set(moduleLevel(config, module))
		loggers[module] = slog.New(newHandler(config, lv)).With("module", module)
	}

	slog.SetDefault(slog.New(newHandler(config, rootLevel)))
}

// GetLogger returns the logger for module, creating it on first use.
func GetLogger(module string) *slog.Logger {
	mutex.RLock()
	logger, ok := loggers[module]
	mutex.RUnlock()
	if ok {
		return logger
	}

	mutex.Lock()
	defer mutex.Unlock()
	if logger, ok := loggers[module]; ok {
		return logger
	}

	lv := &slog.LevelVar{}
	var config Config
	if isInitialized {
		lv.Set(moduleLevel(globalConfig, module))
		config = globalConfig
	}

	logger = slog.New(newHandler(config, lv)).With("module", module)
	loggers[module] = logger
	levels[module] = lv
	return logger
}

// SetLevel changes the level of one module at runtime.
func SetLevel(module, level string) bool {
	l := parseLevel(level)
	if l == nil {
		return false
	}
	GetLogger(module)

	mutex.RLock()
	defer mutex.RUnlock()
	levels[module].Set(*l)
	return true
}

func moduleLevel(config Config, module string) slog.Level {
	level := levelOr(config.Level, slog.LevelInfo)
	if s, ok := config.Modules[module]; ok {
		level = levelOr(s, level)
	}
	return level
}

func levelOr(s string, fallback slog.Level) slog.Level {
	if l := parseLevel(s); l != nil {
		return *l
	}
	return fallback
}

// newHandler writes to the configured stream and, when running under
// systemd, the journal.
func newHandler(config Config, level slog.Leveler) slog.Handler {
	opts := &slog.HandlerOptions{Level: level}

	out := os.Stdout
	if strings.EqualFold(config.Output, "stderr") {
		out = os.Stderr
	}
	var console slog.Handler
	if config.Format == "json" {
		console = slog.NewJSONHandler(out, opts)
	} else {
		console = slog.NewTextHandler(out, opts)
	}

	if !IsJournalAvailable() {
		return console
	}
	if !isConsoleAvailable(out) {
		return NewJournalHandler(level)
	}
	return NewMultiHandler(console, NewJournalHandler(level))
}

// isConsoleAvailable reports whether f goes somewhere other than /dev/null.
func isConsoleAvailable(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	mode := fi.Mode()
	return mode&os.ModeCharDevice != 0 || mode&os.ModeNamedPipe != 0 || mode&os.ModeSocket != 0 || mode.IsRegular()
}

func parseLevel(level string) *slog.Level {
	var l slog.Level
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		l = slog.LevelDebug
	case "info":
		l = slog.LevelInfo
	case "warn", "warning":
		l = slog.LevelWarn
	case "error":
		l = slog.LevelError
	default:
		return nil
	}
	return &l
}
