package cli

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/charmbracelet/log"
)

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{"info at info level", log.InfoLevel, func(l *log.Logger) { l.Info("test") }, true},
		{"debug at info level", log.InfoLevel, func(l *log.Logger) { l.Debug("test") }, false},
		{"debug at debug level", log.DebugLevel, func(l *log.Logger) { l.Debug("test") }, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			tt.logFunc(newLogger(&buf, tt.level))
			if got := buf.Len() > 0; got != tt.wantLog {
				t.Errorf("got log output = %v, want %v", got, tt.wantLog)
			}
		})
	}
}

func TestQuietLogger(t *testing.T) {
	tests := []struct {
		verbose  bool
		wantInfo bool
	}{
		{false, false},
		{true, true},
	}

	for _, tt := range tests {
		var buf bytes.Buffer
		parent := newLogger(&buf, log.DebugLevel)
		q := quietLogger(parent, tt.verbose)

		q.Info("stage log")
		if got := buf.Len() > 0; got != tt.wantInfo {
			t.Errorf("verbose=%v: info logged = %v, want %v", tt.verbose, got, tt.wantInfo)
		}
		q.Warn("warning")
		if !strings.Contains(buf.String(), "warning") {
			t.Errorf("verbose=%v: warnings must always pass", tt.verbose)
		}
		if parent.GetLevel() != log.DebugLevel {
			t.Error("quietLogger must not change the parent level")
		}
	}
}

func TestStage(t *testing.T) {
	var buf bytes.Buffer
	st := startStage(newLogger(&buf, log.InfoLevel), "render")
	st.done("file", "card.png", "bytes", 512)

	out := buf.String()
	for _, want := range []string{"render", "elapsed=", "file=card.png", "bytes=512"} {
		if !strings.Contains(out, want) {
			t.Errorf("output %q missing %q", out, want)
		}
	}
}

func TestLoggerFromContext(t *testing.T) {
	if loggerFromContext(context.Background()) == nil {
		t.Fatal("want log.Default() when no logger is attached")
	}

	var buf bytes.Buffer
	custom := newLogger(&buf, log.InfoLevel)
	got := loggerFromContext(withLogger(context.Background(), custom))
	if got != custom {
		t.Fatal("loggerFromContext should return the attached logger")
	}
	got.Info("test")
	if buf.Len() == 0 {
		t.Error("attached logger should write to its buffer")
	}
}
