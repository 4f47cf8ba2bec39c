package profile

import (
	"log/slog"
	"slices"

	"github.com/ardnew/laddr/log"
)

// Tag is the build tag required to enable pprof profiling.
const Tag = `pprof`

// Stopper ends a profiling session.
type Stopper interface{ Stop() }

// Profiler describes one profiling session.
type Profiler struct {
	// Mode is one of [Modes]. An empty Mode disables profiling.
	Mode string
	// Path is the output directory. Empty selects the current directory.
	Path string
	// Quiet suppresses the profiler's own start and stop messages.
	Quiet bool
	// Logger receives a debug message when profiling starts.
	Logger log.Logger
}

// Start begins profiling and returns the means to stop it. Unknown modes,
// an empty mode, and builds without the pprof tag return a no-op.
// Both Start and Stop are always safe to call.
func (p Profiler) Start() Stopper {
	if p.Mode == "" || !slices.Contains(Modes(), p.Mode) {
		return ignore{}
	}

	p.Logger.Debug("profiling",
		slog.String("mode", p.Mode),
		slog.String("path", p.Path))

	return start(p.Mode, p.Path, p.Quiet)
}

type ignore struct{}

func (ignore) Stop() {}
