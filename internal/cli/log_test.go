package cli

import (
	"bytes"
	"context"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/charmbracelet/log"
)

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	if logger == nil {
		t.Fatal("newLogger() returned nil")
	}

	logger.Info("placed leyline", "id", 3)

	if buf.Len() == 0 {
		t.Error("logger should have written output")
	}
}

func TestNewLoggerLevels(t *testing.T) {
	tests := []struct {
		name    string
		level   log.Level
		logFunc func(*log.Logger)
		wantLog bool
	}{
		{
			name:    "info at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Info("test") },
			wantLog: true,
		},
		{
			name:    "debug at info level",
			level:   log.InfoLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: false,
		},
		{
			name:    "debug at debug level",
			level:   log.DebugLevel,
			logFunc: func(l *log.Logger) { l.Debug("test") },
			wantLog: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := newLogger(&buf, tt.level)
			tt.logFunc(logger)

			gotLog := buf.Len() > 0
			if gotLog != tt.wantLog {
				t.Errorf("got log output = %v, want %v", gotLog, tt.wantLog)
			}
		})
	}
}

func TestProgress(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, log.InfoLevel)

	prog := newProgress(logger)
	if prog == nil {
		t.Fatal("newProgress() returned nil")
	}

	time.Sleep(10 * time.Millisecond)
	prog.done("Placed 4 leylines")

	output := buf.String()
	if output == "" {
		t.Error("progress.done() should produce output")
	}

	if !bytes.Contains(buf.Bytes(), []byte("Placed 4 leylines")) {
		t.Error("progress.done() output should contain message")
	}
}

func TestProgressStep(t *testing.T) {
	var buf bytes.Buffer
	prog := newProgress(newLogger(&buf, log.DebugLevel))
	prog.step("loaded dataset", "planets", 5)
	prog.done("Placed 2 leylines", "warnings", 0)

	out := buf.String()
	for _, want := range []string{"loaded dataset", "planets=5", "took=", "Placed 2 leylines (", "warnings=0"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}

	buf.Reset()
	quiet := newProgress(newLogger(&buf, log.InfoLevel))
	quiet.step("loaded dataset")
	if buf.Len() != 0 {
		t.Errorf("step should log at debug level only, got %q", buf.String())
	}
}

func TestWithLogger(t *testing.T) {
	ctx := context.Background()
	logger := log.Default()

	ctxWithLogger := withLogger(ctx, logger)

	retrieved := loggerFromContext(ctxWithLogger)
	if retrieved != logger {
		t.Error("loggerFromContext should return the same logger")
	}
}

func TestLoggerFromContextDefault(t *testing.T) {
	ctx := context.Background()

	logger := loggerFromContext(ctx)
	if logger == nil {
		t.Error("loggerFromContext should return default logger when none set")
	}
}

func TestLoggerFromContextWithValue(t *testing.T) {
	ctx := context.Background()
	var buf bytes.Buffer
	customLogger := newLogger(&buf, log.InfoLevel)

	ctx = withLogger(ctx, customLogger)
	retrieved := loggerFromContext(ctx)

	if retrieved != customLogger {
		t.Error("loggerFromContext should return the custom logger")
	}

	retrieved.Info("test")
	if buf.Len() == 0 {
		t.Error("custom logger should write to buffer")
	}
}

func TestNewLoggerTimestampFormat(t *testing.T) {
	var buf bytes.Buffer
	newLogger(&buf, log.InfoLevel).Info("loaded atlas", "planets", 5)

	if !regexp.MustCompile(`^\d{2}:\d{2}:\d{2}\.\d{2} `).Match(buf.Bytes()) {
		t.Errorf("timestamp format: %q", buf.String())
	}
	if !bytes.Contains(buf.Bytes(), []byte("planets=5")) {
		t.Errorf("missing key/value: %q", buf.String())
	}
}
