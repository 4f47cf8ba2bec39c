package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"runtime"

	"github.com/ardnew/laddr/pkg"
	"github.com/ardnew/laddr/profile"
)

// Version prints version information.
type Version struct {
	Verbose bool `help:"Include build details" short:"v"`

	stdout io.Writer
}

// Run executes the version command.
func (v *Version) Run(context.Context) error {
	w := v.stdout
	if w == nil {
		w = os.Stdout
	}

	if !v.Verbose {
		_, err := fmt.Fprintln(w, pkg.Name, pkg.Version)

		return err
	}

	_, err := fmt.Fprintf(w,
		"%s %s\n  %s\n  go: %s %s/%s\n  pprof: %t\n",
		pkg.Name, pkg.Version,
		pkg.Description,
		runtime.Version(), runtime.GOOS, runtime.GOARCH,
		profile.Enabled,
	)

	return err
}
