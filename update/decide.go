package update

import (
	"fmt"

	"github.com/anchore/debup"
	"github.com/anchore/debup/event"
	"github.com/anchore/debup/internal"
)

var _ event.Decision = (*Decision)(nil)

// Decision is the outcome of comparing the latest release against the installed package.
type Decision struct {
	Package        string `json:"package"`
	Tag            string `json:"tag"`
	Latest         string `json:"latest"`
	Installed      string `json:"installed,omitempty"`
	InstalledFound bool   `json:"installedFound"`
	NeedsInstall   bool   `json:"needsInstall"`
	// Reason explains why an update was skipped despite a newer release
	Reason   string `json:"reason,omitempty"`
	AssetURL string `json:"assetUrl"`
}

func (d Decision) PackageName() string {
	return d.Package
}

func (d Decision) InstalledVersion() string {
	return d.Installed
}

func (d Decision) LatestVersion() string {
	return d.Latest
}

func (d Decision) UpdateNeeded() bool {
	return d.NeedsInstall
}

// Decide determines whether the remote version should be installed. A missing installed version always needs
// an install, whatever the remote version. Otherwise an install is needed only when the installed version is
// strictly older and the remote version satisfies the constraint (when given).
func Decide(remote string, installed *debup.Version, constraint string) (Decision, error) {
	d := Decision{
		Latest: remote,
	}

	if installed == nil {
		d.NeedsInstall = true
		return d, nil
	}

	d.InstalledFound = true
	d.Installed = installed.Value

	older, err := internal.IsOlder(installed.Value, remote)
	if err != nil {
		return d, err
	}
	d.NeedsInstall = older

	if !d.NeedsInstall {
		return d, nil
	}

	ok, err := internal.SatisfiesConstraint(remote, constraint)
	if err != nil {
		return d, err
	}
	if !ok {
		d.NeedsInstall = false
		d.Reason = fmt.Sprintf("version %s does not satisfy constraint %q", remote, constraint)
	}

	return d, nil
}
