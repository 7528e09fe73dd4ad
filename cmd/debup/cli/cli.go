package cli

import (
	"github.com/anchore/clio"
	"github.com/anchore/debup/cmd/debup/cli/command"
	"github.com/anchore/debup/cmd/debup/cli/internal/ui"
	"github.com/anchore/debup/internal/bus"
	"github.com/anchore/debup/internal/log"
	"github.com/anchore/debup/internal/redact"
	"github.com/anchore/go-logger"
)

// New constructs the debup application with the update, check, status and version commands. `RunE` is the
// earliest that the complete application configuration can be loaded.
func New(id clio.Identification) clio.Application {
	clioCfg := clio.NewSetupConfig(id).
		WithGlobalConfigFlag().   // add persistent -c <path> for reading an application config from
		WithGlobalLoggingFlags(). // add persistent -v and -q flags tied to the logging config
		WithConfigInRootHelp().   // --help on the root command renders the full application config in the help text
		WithUIConstructor(
			// there is no interactive UI: the install command may need the terminal for a sudo prompt
			func(cfg clio.Config) ([]clio.UI, error) {
				return []clio.UI{ui.None(cfg.Log.Quiet)}, nil
			},
		).
		WithLoggingConfig(clio.LoggingConfig{
			Level: logger.WarnLevel,
		}).
		WithInitializers(
			func(state *clio.State) error {
				// clio is setting up and providing the bus, redact store, and logger to the application. Once loaded,
				// we can hoist them into the internal packages for global use.
				bus.Set(state.Bus)
				redact.Set(state.RedactStore)
				log.Set(state.Logger)

				return nil
			},
		)

	app := clio.New(*clioCfg)

	root := command.Root(app)

	root.AddCommand(
		clio.VersionCommand(id),
		command.Update(app),
		command.Check(app),
		command.Status(app),
	)

	return app
}
