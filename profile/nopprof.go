//go:build !pprof

package profile

// Enabled reports whether profiling support is compiled in.
const Enabled = false

// Modes returns the supported profiling modes, which are none without the
// pprof build tag.
func Modes() []string { return nil }

func start(string, string, bool) Stopper { return ignore{} }
