package command

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/debup/cmd/debup/cli/option"
	"github.com/anchore/debup/internal/bus"
	"github.com/anchore/debup/update"
)

type UpdateConfig struct {
	Config           string `json:"config" yaml:"config" mapstructure:"config"`
	option.AppConfig `json:"" yaml:",inline" mapstructure:",squash"`
}

func Update(app clio.Application) *cobra.Command {
	cfg := &UpdateConfig{
		AppConfig: option.DefaultAppConfig(),
	}

	return app.SetupCommand(&cobra.Command{
		Use:   "update",
		Short: "Install the latest release of the package if it is newer than the installed version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer bus.Exit()
			return runUpdate(cmd.Context(), *cfg)
		},
	}, cfg)
}

func runUpdate(ctx context.Context, cfg UpdateConfig) error {
	ctx, u, err := newUpdater(ctx, cfg.AppConfig)
	if err != nil {
		return err
	}

	result, err := u.Run(ctx)
	if err != nil {
		if h := hint(err); h != "" {
			bus.Notify(h)
		}
		return fmt.Errorf("failed to update %q: %w", cfg.Package, err)
	}

	bus.Report(updateSummary(*result))

	return nil
}

func updateSummary(result update.Result) string {
	d := result.Decision
	switch {
	case result.Installed && d.InstalledFound:
		return fmt.Sprintf("updated %s from %s to %s", d.Package, d.Installed, d.Latest)
	case result.Installed:
		return fmt.Sprintf("installed %s %s", d.Package, d.Latest)
	case d.Reason != "" && d.InstalledFound:
		return fmt.Sprintf("%s %s is installed, skipped %s", d.Package, d.Installed, d.Latest)
	case d.Reason != "":
		return fmt.Sprintf("%s is not installed, skipped %s: %s", d.Package, d.Latest, d.Reason)
	case !d.InstalledFound:
		return fmt.Sprintf("%s is not installed", d.Package)
	default:
		return fmt.Sprintf("%s is already up to date (%s)", d.Package, d.Installed)
	}
}
