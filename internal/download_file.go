package internal

import (
	"context"
	"crypto/md5"  //nolint:gosec // MD5 is used for legacy compatibility
	"crypto/sha1" //nolint:gosec // SHA1 is used for legacy compatibility
	"crypto/sha256"
	"crypto/sha512"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"

	"github.com/OneOfOne/xxhash"
	"github.com/go-git/go-git/v5/plumbing/hash"
	"github.com/hashicorp/go-retryablehttp"

	internalhttp "github.com/anchore/debup/internal/http"
	"github.com/anchore/go-logger"
)

// DownloadFile fetches the url into filepath using the retrying client from the context. When a checksum is given
// (optionally prefixed with the algorithm, e.g. "sha256:abc...") the content is verified while it is written.
// The sha256 and xxh64 digests of the content are returned.
func DownloadFile(ctx context.Context, lgr logger.Logger, url string, filepath string, checksum string) (map[string]string, error) {
	reader, err := DownloadURL(ctx, lgr, url)
	if err != nil {
		return nil, err
	}
	defer reader.Close()

	out, err := os.Create(filepath)
	if err != nil {
		return nil, err
	}
	defer out.Close()

	sha256Hash := sha256.New()
	xxhHash := xxhash.New64()

	// hash the file and compare with checksum while copying to disk
	h := getHasher(checksum)
	tee := io.TeeReader(reader, io.MultiWriter(h, sha256Hash, xxhHash))

	n, err := io.Copy(out, tee)
	if err != nil {
		return nil, fmt.Errorf("unable to write %q: %w", filepath, err)
	}

	lgr.WithFields("bytes", n, "path", filepath).Trace("downloaded file")

	if checksum != "" {
		expectedChecksum := cleanChecksum(checksum)
		actualChecksum := fmt.Sprintf("%x", h.Sum(nil))

		if !strings.EqualFold(expectedChecksum, actualChecksum) {
			lgr.WithFields("url", url, "expected", expectedChecksum, "actual", actualChecksum).Warn("checksum mismatch")
			return nil, fmt.Errorf("checksum mismatch for %q", filepath)
		}

		lgr.WithFields("checksum", expectedChecksum, "asset", filepath, "url", url).Trace("checksum verified")
	}

	return map[string]string{
		SHA256Algorithm: fmt.Sprintf("%x", sha256Hash.Sum(nil)),
		XXH64Algorithm:  fmt.Sprintf("%x", xxhHash.Sum(nil)),
	}, nil
}

// DownloadURL opens a streaming GET of the url. The caller must close the returned reader.
func DownloadURL(ctx context.Context, lgr logger.Logger, url string) (io.ReadCloser, error) {
	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request for %q: %w", url, err)
	}

	resp, err := internalhttp.ClientFromContext(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("unable to download %q: %w", url, err)
	}

	lgr.WithFields("http-status", resp.StatusCode).Tracef("http get %q", url)

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code %d for %q", resp.StatusCode, url)
	}
	return resp.Body, nil
}

func cleanChecksum(checksum string) string {
	parts := strings.SplitN(checksum, ":", 2)
	if len(parts) < 2 {
		return checksum
	}

	return parts[1]
}

func getHasher(checksum string) hash.Hash {
	// Default to SHA-256 if no prefix or unsupported prefix
	defaultHash := sha256.New()

	parts := strings.SplitN(checksum, ":", 2)
	if len(parts) < 2 {
		return defaultHash
	}

	algorithm := strings.ToLower(parts[0])

	switch algorithm {
	case "sha256":
		return sha256.New()
	case "sha1":
		return sha1.New() //nolint:gosec // SHA1 is used for legacy compatibility
	case "sha512":
		return sha512.New()
	case "md5":
		return md5.New() //nolint:gosec // MD5 is used for legacy compatibility
	default:
		return defaultHash
	}
}
