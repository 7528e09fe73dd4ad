package dpkg

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"strings"
	"text/template"

	"github.com/Masterminds/sprig/v3"
	"github.com/google/shlex"
	"golang.org/x/term"

	"github.com/anchore/debup"
	"github.com/anchore/debup/internal/log"
)

var _ debup.Installer = (*Installer)(nil)

const DefaultCommand = "sudo dpkg -i {{ .Path }}"

type Config struct {
	// Command is a template for the install command, rendered with .Path, .Package and .Version
	Command string
	Package string
}

type commandData struct {
	Path    string
	Package string
	Version string
}

// Installer installs a downloaded package by running the configured (usually privileged) command.
type Installer struct {
	config        Config
	commandRunner func(ctx context.Context, interactive bool, args []string) error
	isTerminal    func() bool
}

func NewInstaller(cfg Config) Installer {
	if strings.TrimSpace(cfg.Command) == "" {
		cfg.Command = DefaultCommand
	}
	return Installer{
		config:        cfg,
		commandRunner: runCommand,
		isTerminal:    stdinIsTerminal,
	}
}

func (i Installer) Install(ctx context.Context, path string, version string) error {
	lgr := log.FromContext(ctx)

	args, err := renderCommand(i.config.Command, commandData{
		Path:    path,
		Package: i.config.Package,
		Version: version,
	})
	if err != nil {
		return fmt.Errorf("%w: %w", debup.ErrInstallFailed, err)
	}

	interactive := i.isTerminal()
	lgr.WithFields("command", strings.Join(args, " "), "interactive", interactive).Debug("installing package")

	if err := i.commandRunner(ctx, interactive, args); err != nil {
		return fmt.Errorf("%w: %w", debup.ErrInstallFailed, err)
	}

	lgr.WithFields("package", i.config.Package, "version", version).Info("installed package")

	return nil
}

func renderCommand(command string, data commandData) ([]string, error) {
	tmpl, err := template.New("install-command").Funcs(sprig.TxtFuncMap()).Parse(command)
	if err != nil {
		return nil, fmt.Errorf("unable to parse install command template: %w", err)
	}

	buf := bytes.Buffer{}
	if err := tmpl.Execute(&buf, data); err != nil {
		return nil, fmt.Errorf("unable to render install command: %w", err)
	}

	args, err := shlex.Split(buf.String())
	if err != nil {
		return nil, fmt.Errorf("unable to parse install command: %w", err)
	}

	if len(args) == 0 {
		return nil, fmt.Errorf("install command is empty")
	}

	if !strings.Contains(buf.String(), data.Path) {
		return nil, fmt.Errorf("install command does not reference the package path")
	}

	return args, nil
}

func runCommand(ctx context.Context, interactive bool, args []string) error {
	if interactive {
		return runInteractive(ctx, args)
	}
	return runCaptured(ctx, args)
}

func runCaptured(ctx context.Context, args []string) error {
	log.Trace("running: " + strings.Join(args, " "))

	cmd := exec.CommandContext(ctx, args[0], args[1:]...)

	output, err := cmd.CombinedOutput()
	if err != nil {
		return fmt.Errorf("%v\nOutput: %s", err, output)
	}
	return nil
}

func stdinIsTerminal() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
