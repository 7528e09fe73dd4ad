package debup

import (
	"errors"
	"fmt"
	"time"
)

var (
	ErrFetchFailed    = errors.New("unable to fetch latest release")
	ErrMissingField   = errors.New("release is missing a required field")
	ErrDownloadFailed = errors.New("unable to download release asset")
	ErrInstallFailed  = errors.New("unable to install package")
)

type VersionErrorKind string

const (
	VersionParseFailed   VersionErrorKind = "parse-failed"
	VersionCommandFailed VersionErrorKind = "command-failed"
)

// VersionError is raised when an installed binary is present but its version cannot be determined.
type VersionError struct {
	Kind   VersionErrorKind
	Binary string
	Output string
	Err    error
}

func (e *VersionError) Error() string {
	switch e.Kind {
	case VersionParseFailed:
		return fmt.Sprintf("unable to parse version of %q from output %q", e.Binary, e.Output)
	default:
		if e.Err != nil {
			return fmt.Sprintf("unable to run %q to determine version: %v", e.Binary, e.Err)
		}
		return fmt.Sprintf("unable to run %q to determine version", e.Binary)
	}
}

func (e *VersionError) Unwrap() error {
	return e.Err
}

// RateLimitError indicates the GitHub API refused the request because the rate limit is exhausted.
type RateLimitError struct {
	Limit int
	Reset time.Time
}

func (e *RateLimitError) Error() string {
	if e.Reset.IsZero() {
		return "GitHub API rate limit exceeded"
	}
	return fmt.Sprintf("GitHub API rate limit exceeded (limit %d), resets at %s", e.Limit, e.Reset.Format(time.RFC3339))
}

// Is reports rate limiting as a fetch failure.
func (e *RateLimitError) Is(target error) bool {
	return target == ErrFetchFailed
}
