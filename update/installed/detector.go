package installed

import (
	"context"
	"os/exec"
	"strings"

	"github.com/anchore/debup"
	"github.com/anchore/debup/internal"
	"github.com/anchore/debup/internal/log"
)

var _ debup.VersionDetector = (*Detector)(nil)

const DefaultVersionFlag = "--version"

// CommandRunner executes external commands, returning stdout.
type CommandRunner interface {
	Run(ctx context.Context, bin string, args ...string) ([]byte, error)
}

type execCommandRunner struct{}

func (execCommandRunner) Run(ctx context.Context, bin string, args ...string) ([]byte, error) {
	return exec.CommandContext(ctx, bin, args...).Output()
}

// LookPathFunc resolves a binary reference to an executable path.
type LookPathFunc func(bin string) (string, error)

type Config struct {
	// Binary is the executable that reports the installed version
	Binary string
	// Flag is passed to the binary to make it print its version (defaults to --version)
	Flag string
}

// Detector finds the installed version of a package by asking its binary.
type Detector struct {
	config   Config
	runner   CommandRunner
	lookPath LookPathFunc
}

func NewDetector(cfg Config) *Detector {
	if strings.TrimSpace(cfg.Flag) == "" {
		cfg.Flag = DefaultVersionFlag
	}
	return &Detector{
		config:   cfg,
		runner:   execCommandRunner{},
		lookPath: exec.LookPath,
	}
}

// Detect returns the installed version, or nil (without error) when the binary is not on the search path.
func (d Detector) Detect(ctx context.Context) (*debup.Version, error) {
	bin := strings.TrimSpace(d.config.Binary)
	lgr := log.FromContext(ctx).Nested("binary", bin)

	resolvedBin, err := d.lookPath(bin)
	if err != nil {
		lgr.WithFields("error", err).Debug("binary not found, package is not installed")
		return nil, nil
	}

	out, runErr := d.runner.Run(ctx, resolvedBin, d.config.Flag)

	// some binaries print their version and still exit non-zero
	output := strings.TrimSpace(string(out))
	value, ok := internal.ParseVersionLine(output)
	switch {
	case !ok && runErr != nil:
		return nil, &debup.VersionError{
			Kind:   debup.VersionCommandFailed,
			Binary: resolvedBin,
			Output: output,
			Err:    runErr,
		}
	case !ok:
		return nil, &debup.VersionError{
			Kind:   debup.VersionParseFailed,
			Binary: resolvedBin,
			Output: output,
		}
	case runErr != nil:
		lgr.WithFields("error", runErr).Debug("version command failed but printed a version")
	}

	lgr.WithFields("version", value, "path", resolvedBin).Debug("found installed version")

	return &debup.Version{
		Value: value,
		Line:  versionLine(output),
	}, nil
}

func versionLine(output string) string {
	for _, line := range strings.Split(output, "\n") {
		if _, ok := internal.ParseVersionLine(line); ok {
			return strings.TrimSpace(line)
		}
	}
	return output
}
