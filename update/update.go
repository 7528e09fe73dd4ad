package update

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hashicorp/go-multierror"
	"github.com/wagoodman/go-partybus"

	"github.com/anchore/debup"
	"github.com/anchore/debup/event"
	"github.com/anchore/debup/internal"
	"github.com/anchore/debup/internal/bus"
	"github.com/anchore/debup/internal/log"
	"github.com/anchore/debup/update/githubrelease"
	"github.com/anchore/go-logger"
)

// Config is everything the pipeline needs to know about the package it keeps up to date. It is resolved by the
// caller; nothing in the pipeline reads the environment.
type Config struct {
	Repo           string
	Asset          string
	ChecksumsAsset string
	Package        string
	WorkDir        string
	Constraint     string
}

func (c Config) Target() debup.Target {
	return debup.Target{
		Repo:    c.Repo,
		Asset:   c.Asset,
		Package: c.Package,
	}
}

// DownloadPath is where the release asset is written before it is installed.
func (c Config) DownloadPath() string {
	return filepath.Join(c.WorkDir, c.Package+"-latest.deb")
}

func (c Config) validate() error {
	switch {
	case c.Repo == "":
		return fmt.Errorf("no repository configured")
	case c.Asset == "":
		return fmt.Errorf("no release asset name configured")
	case c.Package == "":
		return fmt.Errorf("no package name configured")
	}
	return nil
}

type Dependencies struct {
	Fetcher   debup.ReleaseFetcher
	Detector  debup.VersionDetector
	Installer debup.Installer
	// Ledger is optional
	Ledger *debup.Ledger
}

// Result describes what a run did.
type Result struct {
	Decision  Decision
	Installed bool
	Digests   map[string]string
}

type Updater struct {
	config        Config
	deps          Dependencies
	downloader    func(ctx context.Context, lgr logger.Logger, url, path, checksum string) (map[string]string, error)
	packageCheck  func(path string) error
	checksumFetch func(ctx context.Context, release *debup.Release, checksumsAsset, assetName string) (string, error)
}

func New(cfg Config, deps Dependencies) *Updater {
	return &Updater{
		config:        cfg,
		deps:          deps,
		downloader:    internal.DownloadFile,
		packageCheck:  internal.CheckDebianPackage,
		checksumFetch: githubrelease.FindChecksum,
	}
}

// Run makes a single update pass for the configured package.
func Run(ctx context.Context, cfg Config, deps Dependencies) (*Result, error) {
	return New(cfg, deps).Run(ctx)
}

// Check fetches the latest release and compares it against the installed version without changing anything.
func (u Updater) Check(ctx context.Context) (*Decision, error) {
	ctx, _ = log.WithNested(ctx, "package", u.config.Package)
	d, _, err := u.decide(ctx)
	return d, err
}

// Run fetches the latest release, compares it against the installed version and, when the release is newer,
// downloads and installs it. The downloaded file is always removed.
func (u Updater) Run(ctx context.Context) (*Result, error) {
	ctx, _ = log.WithNested(ctx, "package", u.config.Package)
	decision, release, err := u.decide(ctx)
	if err != nil {
		return nil, err
	}

	result := &Result{
		Decision: *decision,
	}

	if !decision.NeedsInstall {
		return result, nil
	}

	digests, err := u.install(ctx, decision, release)
	if err != nil {
		return result, err
	}

	result.Installed = true
	result.Digests = digests

	u.record(ctx, decision, digests)

	bus.Publish(partybus.Event{
		Type:   event.PackageInstalledEvent,
		Source: decision.Package,
		Value:  decision.Latest,
	})

	return result, nil
}

func (u Updater) decide(ctx context.Context) (*Decision, *debup.Release, error) {
	if err := u.config.validate(); err != nil {
		return nil, nil, err
	}

	lgr := log.FromContext(ctx)

	release, err := u.deps.Fetcher.FetchLatest(ctx, u.config.Repo)
	if err != nil {
		return nil, nil, err
	}

	tag, url, err := githubrelease.Extract(release, u.config.Asset)
	if err != nil {
		return nil, nil, err
	}

	remote, ok := internal.ParseReleaseTag(tag)
	if !ok {
		return nil, nil, fmt.Errorf("%w: release tag %q is not a version", debup.ErrMissingField, tag)
	}

	installed, err := u.deps.Detector.Detect(ctx)
	if err != nil {
		return nil, nil, err
	}

	decision, err := Decide(remote, installed, u.config.Constraint)
	if err != nil {
		return nil, nil, err
	}
	decision.Package = u.config.Package
	decision.Tag = tag
	decision.AssetURL = url

	lgr.WithFields("installed", decision.Installed, "latest", decision.Latest, "needs-install", decision.NeedsInstall).
		Debug("compared versions")

	if decision.Reason != "" {
		bus.Notify(fmt.Sprintf("skipping update of %s: %s", u.config.Package, decision.Reason))
	}

	bus.Publish(partybus.Event{
		Type:   event.UpdateDecidedEvent,
		Source: decision,
	})

	return &decision, release, nil
}

func (u Updater) install(ctx context.Context, decision *Decision, release *debup.Release) (digests map[string]string, err error) {
	lgr := log.FromContext(ctx).Nested("version", decision.Latest)

	var checksum string
	if u.config.ChecksumsAsset != "" {
		checksum, err = u.checksumFetch(ctx, release, u.config.ChecksumsAsset, u.config.Asset)
		if err != nil {
			return nil, err
		}
	}

	if u.config.WorkDir != "" {
		if err := os.MkdirAll(u.config.WorkDir, 0755); err != nil {
			return nil, fmt.Errorf("%w: unable to create work dir: %w", debup.ErrDownloadFailed, err)
		}
	}

	path := u.config.DownloadPath()

	defer func() {
		if rmErr := os.Remove(path); rmErr != nil && !os.IsNotExist(rmErr) {
			err = multierror.Append(err, fmt.Errorf("unable to remove downloaded package %q: %w", path, rmErr))
		}
	}()

	lgr.WithFields("url", decision.AssetURL, "path", path).Debug("downloading package")

	digests, err = u.downloader(ctx, lgr, decision.AssetURL, path, checksum)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", debup.ErrDownloadFailed, err)
	}

	if err := u.packageCheck(path); err != nil {
		return nil, fmt.Errorf("%w: %w", debup.ErrDownloadFailed, err)
	}

	if err := u.deps.Installer.Install(ctx, path, decision.Latest); err != nil {
		if !errors.Is(err, debup.ErrInstallFailed) {
			err = fmt.Errorf("%w: %w", debup.ErrInstallFailed, err)
		}
		return nil, err
	}

	return digests, nil
}

func (u Updater) record(ctx context.Context, decision *Decision, digests map[string]string) {
	if u.deps.Ledger == nil {
		return
	}

	lgr := log.FromContext(ctx)

	id, err := u.config.Target().ID()
	if err != nil {
		lgr.WithFields("error", err).Warn("unable to identify target for the install ledger")
	}

	err = u.deps.Ledger.Record(debup.LedgerEntry{
		Package:  decision.Package,
		Version:  decision.Latest,
		Asset:    u.config.Asset,
		URL:      decision.AssetURL,
		Digests:  digests,
		TargetID: id,
	})
	if err != nil {
		lgr.WithFields("error", err, "path", u.deps.Ledger.Path()).Warn("unable to record install in ledger")
	}
}
