package cmd

import (
	"bytes"
	"context"
	"runtime"
	"strings"
	"testing"

	"github.com/ardnew/laddr/pkg"
)

func TestVersionRun(t *testing.T) {
	var out bytes.Buffer

	if err := (&Version{stdout: &out}).Run(context.Background()); err != nil {
		t.Fatalf("Version.Run() error = %v", err)
	}

	if want := pkg.Name + " " + pkg.Version + "\n"; out.String() != want {
		t.Errorf("output = %q, want %q", out.String(), want)
	}
}

func TestVersionRun_Verbose(t *testing.T) {
	var out bytes.Buffer

	if err := (&Version{Verbose: true, stdout: &out}).Run(context.Background()); err != nil {
		t.Fatalf("Version.Run() error = %v", err)
	}

	for _, want := range []string{pkg.Description, runtime.Version(), "pprof: "} {
		if !strings.Contains(out.String(), want) {
			t.Errorf("output missing %q:\n%s", want, out.String())
		}
	}
}
