package command

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/debup/cmd/debup/cli/option"
	internalhttp "github.com/anchore/debup/internal/http"
	"github.com/anchore/debup/internal/log"
)

func Root(app clio.Application) *cobra.Command {
	cmd := app.SetupRootCommand(&cobra.Command{
		Short: "Keep a Debian package up to date with its latest GitHub release",
	})

	// wrap any existing PersistentPreRunE to inject dependencies into context
	existingPreRunE := cmd.PersistentPreRunE
	cmd.PersistentPreRunE = func(cmd *cobra.Command, args []string) error {
		if existingPreRunE != nil {
			if err := existingPreRunE(cmd, args); err != nil {
				return err
			}
		}

		cmd.SetContext(withDependencies(cmd.Context(), option.DefaultRetry()))
		return nil
	}

	return cmd
}

// withDependencies injects the global logger and a retrying HTTP client (configured with the given retry options)
// into the context.
func withDependencies(ctx context.Context, retry option.Retry) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}

	lgr := log.Get()
	ctx = log.WithLogger(ctx, lgr)

	httpClient := internalhttp.NewClient(retry.Policy(), lgr.Nested("component", "http-client"))
	return internalhttp.WithHTTPClient(ctx, httpClient)
}
