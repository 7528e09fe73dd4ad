package command

import (
	"context"

	"github.com/pkg/errors"

	"github.com/anchore/debup"
	"github.com/anchore/debup/cmd/debup/cli/option"
	"github.com/anchore/debup/internal/log"
	"github.com/anchore/debup/internal/redact"
	"github.com/anchore/debup/update"
	"github.com/anchore/debup/update/dpkg"
	"github.com/anchore/debup/update/githubrelease"
	"github.com/anchore/debup/update/installed"
)

// newUpdater wires the pipeline collaborators from the application configuration.
func newUpdater(ctx context.Context, cfg option.AppConfig) (context.Context, *update.Updater, error) {
	if cfg.GitHub.Token != "" && redact.Get() != nil {
		redact.Add(cfg.GitHub.Token)
	}

	fetcher, err := githubrelease.NewSource(cfg.GitHub.SourceConfig())
	if err != nil {
		return nil, nil, err
	}

	// the ledger only records installs: an unreadable ledger must not block an update
	ledger, err := debup.NewLedger(cfg.Ledger.Root)
	if err != nil {
		log.WithFields("error", err, "root", cfg.Ledger.Root).Warn("unable to load install ledger, installs will not be recorded")
		ledger = nil
	}

	u := update.New(cfg.UpdateConfig(), update.Dependencies{
		Fetcher:   fetcher,
		Detector:  installed.NewDetector(cfg.DetectorConfig()),
		Installer: dpkg.NewInstaller(cfg.InstallerConfig()),
		Ledger:    ledger,
	})

	return withDependencies(ctx, cfg.Retry), u, nil
}

// hint returns a suggestion for errors the user can act on, or an empty string.
func hint(err error) string {
	var rlErr *debup.RateLimitError
	if errors.As(err, &rlErr) {
		return "set GITHUB_TOKEN (or github.token) to raise the GitHub API rate limit"
	}

	var vErr *debup.VersionError
	if errors.As(err, &vErr) && vErr.Kind == debup.VersionParseFailed {
		return "set version.binary and version.flag so the installed version can be read"
	}

	return ""
}
