// Package profile provides optional runtime profiling for laddr.
//
// Profiling uses [github.com/pkg/profile] and is compiled in only with the
// "pprof" build tag. Without it, [Modes] is empty and [Profiler.Start]
// returns a no-op.
//
//	p := profile.Profiler{Mode: "cpu", Path: "/tmp/laddr"}
//	defer p.Start().Stop()
//
// Profiles are written to Path with names matching the mode (cpu.pprof,
// mem.pprof, ...) and can be inspected with "go tool pprof". Builds with the
// tag also register the [net/http/pprof] handlers.
package profile
