package log

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"sync"
	"testing"
)

func TestLogger_Make_DefaultConfiguration(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf)

	if logger.Level() != LevelInfo {
		t.Errorf("expected default level info, got %v", logger.Level())
	}
	if logger.caller {
		t.Error("expected caller disabled by default")
	}
	if logger.Format() != FormatText {
		t.Errorf("expected default format text, got %v", logger.Format())
	}
}

func TestLogger_ZeroValue_Discards(t *testing.T) {
	var logger Logger

	// Must not panic.
	logger.Trace("x")
	logger.Info("x", slog.Int("n", 1))
	logger.With(slog.String("k", "v")).Error("x")

	if logger.Level() != DefaultLevel {
		t.Errorf("zero-value level = %v, want %v", logger.Level(), DefaultLevel)
	}
}

func TestLogger_WithLevel_FiltersMessages(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelDebug))

	logger.Debug("debug message")
	if !strings.Contains(buf.String(), "debug message") {
		t.Error("debug message not logged after setting level to debug")
	}

	buf.Reset()
	logger = Make(&buf, WithLevel(LevelError))
	logger.Info("info message")
	if buf.Len() > 0 {
		t.Error("info message logged when level is error")
	}

	logger.Error("error message")
	if !strings.Contains(buf.String(), "error message") {
		t.Error("error message not logged at error level")
	}
}

func TestLogger_Trace_RendersTraceLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithLevel(LevelTrace), WithFormat(FormatJSON))

	logger.Trace("tracing")

	var rec map[string]any
	if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
		t.Fatalf("unmarshal: %v (%q)", err, buf.String())
	}
	if rec[slog.LevelKey] != "TRACE" {
		t.Errorf("level = %v, want TRACE", rec[slog.LevelKey])
	}
}

func TestLogger_WithTimeLayout(t *testing.T) {
	tests := []struct {
		name   string
		layout string
		want   bool
	}{
		{"rfc3339", "RFC3339", true},
		{"kitchen", "kitchen", true},
		{"custom", "15:04", true},
		{"none", "none", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			logger := Make(&buf, WithTimeLayout(tt.layout), WithFormat(FormatJSON))
			logger.Info("test")

			var rec map[string]any
			if err := json.Unmarshal(buf.Bytes(), &rec); err != nil {
				t.Fatalf("unmarshal: %v", err)
			}

			_, got := rec[slog.TimeKey]
			if got != tt.want {
				t.Errorf("time present = %v, want %v (%s)", got, tt.want, buf.String())
			}
		})
	}
}

func TestLogger_WithCaller_IncludesSource(t *testing.T) {
	var buf bytes.Buffer
	logger := Make(&buf, WithCaller(true))
	logger.Info("test message")

	if !strings.Contains(buf.String(), "log_test.go") {
		t.Errorf("expected caller file in output, got: %s", buf.String())
	}
}

func TestLogger_With_AddsAttributes(t *testing.T) {
	for _, pretty := range []bool{false, true} {
		var buf bytes.Buffer
		logger := Make(&buf, WithPretty(pretty)).With(slog.String("component", "addr"))
		logger.Info("hello", slog.Int("n", 3))

		out := buf.String()
		if !strings.Contains(out, "component") || !strings.Contains(out, "addr") {
			t.Errorf("pretty=%v: missing With attribute: %q", pretty, out)
		}
		if !strings.Contains(out, "n") || !strings.Contains(out, "3") {
			t.Errorf("pretty=%v: missing call attribute: %q", pretty, out)
		}
	}
}

func TestLogger_Wrap_OverridesConfiguration(t *testing.T) {
	var buf bytes.Buffer
	base := Make(&buf, WithLevel(LevelWarn))
	wrapped := base.Wrap(WithLevel(LevelDebug), WithFormat(FormatJSON))

	if base.Level() != LevelWarn {
		t.Errorf("base level changed to %v", base.Level())
	}
	if wrapped.Level() != LevelDebug || wrapped.Format() != FormatJSON {
		t.Errorf("wrapped = %v/%v", wrapped.Level(), wrapped.Format())
	}

	wrapped.Debug("through")
	if !strings.Contains(buf.String(), `"msg":"through"`) {
		t.Errorf("wrapped logger did not write to base output: %q", buf.String())
	}
}

func TestLogger_NilOutput_Discards(t *testing.T) {
	logger := Make(nil, WithOutput(nil))
	logger.Error("dropped")
}

func TestLogger_ConcurrentUse(t *testing.T) {
	var (
		mu  sync.Mutex
		buf bytes.Buffer
	)

	logger := Make(writerFunc(func(p []byte) (int, error) {
		mu.Lock()
		defer mu.Unlock()

		return buf.Write(p)
	}), WithPretty(true))

	var wg sync.WaitGroup
	for i := range 8 {
		wg.Add(1)
		go func() {
			defer wg.Done()
			logger.Info("worker", slog.Int("id", i))
		}()
	}
	wg.Wait()

	if got := strings.Count(buf.String(), "\n"); got != 8 {
		t.Errorf("lines = %d, want 8", got)
	}
}

type writerFunc func([]byte) (int, error)

func (f writerFunc) Write(p []byte) (int, error) { return f(p) }

func TestParseLevel(t *testing.T) {
	tests := []struct {
		in   string
		want Level
	}{
		{"trace", LevelTrace},
		{"TRACE", LevelTrace},
		{"debug", LevelDebug},
		{" info ", LevelInfo},
		{"warn", LevelWarn},
		{"error", LevelError},
		{"warn+1", Level(slog.LevelWarn + 1)},
		{"bogus", DefaultLevel},
	}

	for _, tt := range tests {
		if got := ParseLevel(tt.in); got != tt.want {
			t.Errorf("ParseLevel(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestParseFormat(t *testing.T) {
	if ParseFormat("JSON") != FormatJSON {
		t.Error("JSON not parsed")
	}
	if ParseFormat("text") != FormatText {
		t.Error("text not parsed")
	}
	if ParseFormat("yaml") != DefaultFormat {
		t.Error("unknown format did not yield default")
	}
}

func TestLevels_Names(t *testing.T) {
	var names []string
	for name := range Levels() {
		names = append(names, name)
	}

	if got := strings.Join(names, ","); got != "trace,debug,info,warn,error" {
		t.Errorf("Levels() = %s", got)
	}
}
