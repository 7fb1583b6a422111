package logging

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
)

func reset() {
	mutex.Lock()
	defer mutex.Unlock()
	loggers = make(map[string]*slog.Logger)
	levels = make(map[string]*slog.LevelVar)
	isInitialized = false
	globalConfig = Config{}
}

func TestModuleLevelOverride(t *testing.T) {
	reset()
	Initialize(Config{
		Level:  "info",
		Format: "text",
		Modules: map[string]string{
			"grabber": "debug",
			"api":     "warn",
		},
	})

	tests := []struct {
		module    string
		wantDebug bool
		wantInfo  bool
		wantWarn  bool
	}{
		{"grabber", true, true, true},
		{"api", false, false, true},
		{"other", false, true, true},
	}

	ctx := context.Background()
	for _, tt := range tests {
		t.Run(tt.module, func(t *testing.T) {
			h := GetLogger(tt.module).Handler()
			if got := h.Enabled(ctx, slog.LevelDebug); got != tt.wantDebug {
				t.Errorf("Debug enabled = %v, want %v", got, tt.wantDebug)
			}
			if got := h.Enabled(ctx, slog.LevelInfo); got != tt.wantInfo {
				t.Errorf("Info enabled = %v, want %v", got, tt.wantInfo)
			}
			if got := h.Enabled(ctx, slog.LevelWarn); got != tt.wantWarn {
				t.Errorf("Warn enabled = %v, want %v", got, tt.wantWarn)
			}
		})
	}
}

func TestGetLoggerBeforeInitialize(t *testing.T) {
	reset()

	before := GetLogger("grabber")
	if before.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("logger created before Initialize should default to info")
	}

	Initialize(Config{Level: "info", Modules: map[string]string{"grabber": "debug"}})

	if !before.Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("early logger should follow the level set by Initialize")
	}
	if !GetLogger("grabber").Handler().Enabled(context.Background(), slog.LevelDebug) {
		t.Error("logger fetched after Initialize should have debug enabled")
	}
}

func TestSetLevel(t *testing.T) {
	reset()
	Initialize(Config{Level: "info"})

	logger := GetLogger("api")
	if !SetLevel("api", "error") {
		t.Fatal("SetLevel rejected a valid level")
	}
	if logger.Handler().Enabled(context.Background(), slog.LevelWarn) {
		t.Error("warn should be disabled after SetLevel(error)")
	}
	if SetLevel("api", "loud") {
		t.Error("SetLevel accepted an unknown level")
	}
}

func TestMultiHandlerDebugOutput(t *testing.T) {
	var buf bytes.Buffer
	debug := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})
	info := slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelInfo})

	logger := slog.New(NewMultiHandler(debug, info)).With("module", "test")
	logger.Debug("debug only message")
	logger.Info("info message")

	out := buf.String()
	if n := strings.Count(out, "debug only message"); n != 1 {
		t.Errorf("debug message written %d times, want 1. Output: %s", n, out)
	}
	if n := strings.Count(out, "info message"); n != 2 {
		t.Errorf("info message written %d times, want 2. Output: %s", n, out)
	}
	if !strings.Contains(out, "module=test") {
		t.Errorf("attrs not propagated. Output: %s", out)
	}
}

func TestJournalFields(t *testing.T) {
	fields := map[string]string{}
	journalFields(fields, slog.Int("width", 320), nil)
	journalFields(fields, slog.Group("frame", slog.String("palette", "rgb24")), []string{"grab"})
	journalFields(fields, slog.Attr{}, nil)

	if fields["WIDTH"] != "320" {
		t.Errorf("WIDTH = %q", fields["WIDTH"])
	}
	if fields["GRAB_FRAME_PALETTE"] != "rgb24" {
		t.Errorf("fields = %v", fields)
	}
	if len(fields) != 2 {
		t.Errorf("empty attr should be skipped, got %v", fields)
	}
}

func TestJournalHandlerLevel(t *testing.T) {
	lv := &slog.LevelVar{}
	lv.Set(slog.LevelWarn)
	h := NewJournalHandler(lv)
	if h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("info should be disabled at warn")
	}
	lv.Set(slog.LevelDebug)
	if !h.Enabled(context.Background(), slog.LevelInfo) {
		t.Error("handler should follow LevelVar changes")
	}
}

func TestParseLevelValues(t *testing.T) {
	tests := []struct {
		input string
		want  slog.Level
		isNil bool
	}{
		{"debug", slog.LevelDebug, false},
		{"DEBUG", slog.LevelDebug, false},
		{"info", slog.LevelInfo, false},
		{" warn ", slog.LevelWarn, false},
		{"warning", slog.LevelWarn, false},
		{"error", slog.LevelError, false},
		{"invalid", 0, true},
		{"", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			got := parseLevel(tt.input)
			switch {
			case tt.isNil && got != nil:
				t.Errorf("parseLevel(%q) = %v, want nil", tt.input, *got)
			case !tt.isNil && got == nil:
				t.Errorf("parseLevel(%q) = nil, want %v", tt.input, tt.want)
			case !tt.isNil && *got != tt.want:
				t.Errorf("parseLevel(%q) = %v, want %v", tt.input, *got, tt.want)
			}
		})
	}
}
