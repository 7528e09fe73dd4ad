package internal

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/Masterminds/semver/v3"
)

var (
	// e.g. "Sunshine version: v0.23.1"
	versionLinePattern = regexp.MustCompile(`\bversion: v(\d+\.\d+\.\d+)\b`)
	releaseTagPattern  = regexp.MustCompile(`^(\d+\.\d+\.\d+)$`)
)

// ParseVersionLine extracts the dotted numeric triple from text of the form
// "<ProductName> version: v<major>.<minor>.<patch>". Multi-line input is searched for the first match.
func ParseVersionLine(text string) (string, bool) {
	match := versionLinePattern.FindStringSubmatch(text)
	if match == nil {
		return "", false
	}
	return match[1], true
}

// ParseReleaseTag strips the conventional leading "v" from a release tag and extracts the dotted numeric triple.
func ParseReleaseTag(tag string) (string, bool) {
	match := releaseTagPattern.FindStringSubmatch(strings.TrimPrefix(strings.TrimSpace(tag), "v"))
	if match == nil {
		return "", false
	}
	return match[1], true
}

// IsOlder reports whether the installed version orders strictly before the remote version. Versions are
// compared numerically segment by segment (1.10.0 > 1.9.0).
func IsOlder(installed, remote string) (bool, error) {
	installedVer, err := semver.NewVersion(installed)
	if err != nil {
		return false, fmt.Errorf("unable to parse installed version %q: %w", installed, err)
	}

	remoteVer, err := semver.NewVersion(remote)
	if err != nil {
		return false, fmt.Errorf("unable to parse remote version %q: %w", remote, err)
	}

	return installedVer.LessThan(remoteVer), nil
}

// SatisfiesConstraint reports whether the version is allowed by the given constraint. An empty constraint
// allows every version.
func SatisfiesConstraint(version, versionConstraint string) (bool, error) {
	if versionConstraint == "" {
		return true, nil
	}

	constraint, err := semver.NewConstraint(versionConstraint)
	if err != nil {
		return false, fmt.Errorf("unable to parse version constraint %q: %v", versionConstraint, err)
	}

	ver, err := semver.NewVersion(version)
	if err != nil {
		return false, fmt.Errorf("unable to parse version %q: %w", version, err)
	}

	return constraint.Check(ver), nil
}
