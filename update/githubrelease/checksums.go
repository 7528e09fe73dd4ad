package githubrelease

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/anchore/debup"
	"github.com/anchore/debup/internal"
	"github.com/anchore/debup/internal/log"
)

// FindChecksum downloads the checksums asset (sha256sum format) of the release and returns the digest listed
// for assetName, prefixed with the inferred algorithm (e.g. "sha256:...").
func FindChecksum(ctx context.Context, release *debup.Release, checksumsAsset, assetName string) (string, error) {
	asset := findAsset(release, checksumsAsset)
	if asset == nil || asset.URL == "" {
		return "", fmt.Errorf("%w: release has no checksums asset named %q", debup.ErrMissingField, checksumsAsset)
	}

	lgr := log.FromContext(ctx)
	reader, err := internal.DownloadURL(ctx, lgr, asset.URL)
	if err != nil {
		return "", fmt.Errorf("%w: %w", debup.ErrDownloadFailed, err)
	}
	defer reader.Close()

	checksum, err := findChecksumInReader(reader, assetName)
	if err != nil {
		return "", err
	}
	if checksum == "" {
		return "", fmt.Errorf("%w: no checksum for %q in %q", debup.ErrMissingField, assetName, checksumsAsset)
	}

	lgr.WithFields("asset", assetName, "checksum", checksum).Trace("found checksum")

	return checksum, nil
}

func findChecksumInReader(reader io.Reader, assetName string) (string, error) {
	scanner := bufio.NewScanner(reader)
	for scanner.Scan() {
		fields := strings.Fields(scanner.Text())
		if len(fields) != 2 {
			continue
		}
		// binary mode entries are prefixed with "*"
		if strings.TrimPrefix(fields[1], "*") == assetName {
			return normalizeChecksum(fields[0]), nil
		}
	}
	return "", scanner.Err()
}

func normalizeChecksum(value string) string {
	if strings.Contains(value, ":") {
		return value
	}

	// note: assume this is a hex digest
	var method string
	switch len(value) {
	case 32:
		method = "md5"
	case 40:
		method = "sha1"
	case 64:
		method = "sha256"
	case 128:
		method = "sha512"
	default:
		// dunno, just capture the value
		return value
	}

	return fmt.Sprintf("%s:%s", method, value)
}
