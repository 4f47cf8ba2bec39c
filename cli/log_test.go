package cli

import (
	"testing"

	"github.com/ardnew/laddr/log"
)

func TestLogConfig_Scan(t *testing.T) {
	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })

	tests := []struct {
		name       string
		args       []string
		wantLevel  logLevel
		wantFormat logFormat
		wantPretty bool
		wantCaller bool
	}{
		{
			name: "no_log_flags",
			args: []string{"eval", "-f", "x", "1"},
		},
		{
			name:      "separate_value",
			args:      []string{"eval", "--log-level", "debug", "1"},
			wantLevel: "debug",
		},
		{
			name:       "assigned_value",
			args:       []string{"--log-format=json", "eval"},
			wantFormat: "json",
		},
		{
			name:       "bool_flags",
			args:       []string{"--log-pretty", "--log-caller=true"},
			wantPretty: true,
			wantCaller: true,
		},
		{
			name: "negated_bool_flags",
			args: []string{"--log-pretty", "--no-log-pretty", "--no-log-caller=false"},
			// --no-log-caller=false enables caller.
			wantCaller: true,
		},
		{
			name: "stops_at_terminator",
			args: []string{"--", "--log-level=error"},
		},
		{
			name: "value_looks_like_flag",
			args: []string{"--log-level", "-1"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var cfg logConfig

			cfg.scan(tt.args)

			if cfg.Level != tt.wantLevel {
				t.Errorf("Level = %q, want %q", cfg.Level, tt.wantLevel)
			}

			if cfg.Format != tt.wantFormat {
				t.Errorf("Format = %q, want %q", cfg.Format, tt.wantFormat)
			}

			if cfg.Pretty != tt.wantPretty {
				t.Errorf("Pretty = %v, want %v", cfg.Pretty, tt.wantPretty)
			}

			if cfg.Caller != tt.wantCaller {
				t.Errorf("Caller = %v, want %v", cfg.Caller, tt.wantCaller)
			}
		})
	}
}

func TestLogConfig_ScanConfiguresDefault(t *testing.T) {
	saved := log.Default()
	t.Cleanup(func() { log.SetDefault(saved) })

	var cfg logConfig

	cfg.scan([]string{"--log-level=trace", "--log-format=json"})

	if got := log.Default().Level(); got != log.LevelTrace {
		t.Errorf("default level = %v, want %v", got, log.LevelTrace)
	}

	if got := log.Default().Format(); got != log.FormatJSON {
		t.Errorf("default format = %v, want %v", got, log.FormatJSON)
	}
}
