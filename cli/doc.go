// Package cli contains the command line interface for laddr.
//
// # Usage
//
// The default command evaluates an address against a file and prints the
// selected lines:
//
//	laddr eval --file main.go '/func /#2'
//	laddr --file main.go '1-10'
//
// # Configuration File
//
// Flag defaults are read from config.yaml in the user configuration
// directory (see [os.UserConfigDir]). Flags are stored under the "config" key
// with either hyphenated or underscored names. The init command writes the
// current flag values to this file:
//
//	laddr --log-level=debug --strict init
//
// # Logging Options
//
//   - --log-level: Set minimum log level (trace, debug, info, warn, error)
//   - --log-format: Set log output format (text, json)
//   - --log-time-layout: Set timestamp format (RFC3339, Kitchen, none, etc.)
//   - --log-caller: Include caller information in log output
//   - --log-pretty: Colorize text output
//
// # Profiling Options
//
// Profiling is only available when built with the pprof build tag:
//
//	go build -tags pprof -o laddr .
//
//   - --pprof-mode: Enable profiling (allocs, block, clock, cpu, goroutine,
//     heap, mem, mutex, thread, trace)
//   - --pprof-dir: Set profile output directory (default: ~/.cache/laddr/pprof)
//
// # Examples
//
//	# Lines 3 through 7 of a file
//	laddr eval -f notes.txt 3-7
//
//	# Every line matching a pattern, as JSON
//	laddr eval -f notes.txt -o json '/TODO/'
//
//	# Debug logging with CPU profiling
//	laddr --log-level=debug --pprof-mode=cpu eval -f notes.txt '%'
package cli
