package debup

import (
	"context"
	"fmt"

	"github.com/mitchellh/hashstructure/v2"
)

// Release is the subset of a GitHub release needed to locate a package asset.
type Release struct {
	Tag    string  `json:"tag_name"`
	Assets []Asset `json:"assets"`
}

type Asset struct {
	Name string `json:"name"`
	URL  string `json:"browser_download_url"`
}

// Version is an installed version as reported by the package's own binary.
type Version struct {
	// Value is the normalized major.minor.patch string
	Value string
	// Line is the raw output the value was parsed from
	Line string
}

// Target describes which release asset maps to which local package.
type Target struct {
	Repo    string `hash:"repo"`
	Asset   string `hash:"asset"`
	Package string `hash:"package"`
}

// ID is a stable digest of the target configuration.
func (t Target) ID() (string, error) {
	h, err := hashstructure.Hash(t, hashstructure.FormatV2, &hashstructure.HashOptions{
		TagName: "hash",
	})
	if err != nil {
		return "", fmt.Errorf("unable to hash target: %w", err)
	}
	return fmt.Sprintf("%016x", h), nil
}

func (t Target) String() string {
	return fmt.Sprintf("%s (%s from %s)", t.Package, t.Asset, t.Repo)
}

type ReleaseFetcher interface {
	FetchLatest(ctx context.Context, repo string) (*Release, error)
}

// VersionDetector reports the installed version of a package. A nil version with a nil error means the
// package is not installed.
type VersionDetector interface {
	Detect(ctx context.Context) (*Version, error)
}

type Installer interface {
	Install(ctx context.Context, path string, version string) error
}
