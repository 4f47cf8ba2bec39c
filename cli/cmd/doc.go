// Package cmd implements the laddr subcommands: eval, fmt, watch, repl,
// init and version.
package cmd

import (
	"slices"
	"strconv"
	"strings"

	"github.com/alecthomas/kong"

	"github.com/ardnew/laddr/addr"
	"github.com/ardnew/laddr/buffer"
)

var (
	// CacheIdentifier is the kong variable identifier containing the path to
	// the runtime cache directory.
	CacheIdentifier = "cache"

	// ConfigIdentifier is the kong variable identifier containing the path to
	// the configuration file.
	ConfigIdentifier = "config"

	// ConfigKey is the top-level configuration file key holding flag values.
	ConfigKey = "config"

	// MarksIdentifier is the kong variable identifier containing the
	// directory searched last for mark table files.
	MarksIdentifier = "marks"
)

// MarksPathEnv names the environment variable holding the list of
// directories searched for mark table files.
const MarksPathEnv = "LADDR_MARKS_PATH"

// Vars returns the kong variables referenced by the command flags.
func Vars() kong.Vars {
	return kong.Vars{
		"blockEnum":    strings.Join(slices.Collect(buffer.Strategies()), ","),
		"outputEnum":   strings.Join(outputs, ","),
		"maxLines":     strconv.FormatUint(addr.DefaultMaxLines, 10),
		"maxDepth":     strconv.Itoa(addr.DefaultMaxDepth),
		"marksPathEnv": MarksPathEnv,
	}
}
