package githubrelease

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/hashicorp/go-retryablehttp"

	"github.com/anchore/debup"
	internalhttp "github.com/anchore/debup/internal/http"
	"github.com/anchore/debup/internal/log"
)

var _ debup.ReleaseFetcher = (*Fetcher)(nil)

// Fetcher looks up the latest release through the GitHub REST API.
type Fetcher struct {
	baseURL string
	token   string
}

func NewFetcher(baseURL, token string) *Fetcher {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	return &Fetcher{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		token:   token,
	}
}

func (f Fetcher) FetchLatest(ctx context.Context, repo string) (*debup.Release, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	url := fmt.Sprintf("%s/repos/%s/%s/releases/latest", f.baseURL, owner, name)
	lgr := log.FromContext(ctx)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, fmt.Errorf("unable to create request for %q: %w", url, err)
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("X-GitHub-Api-Version", "2022-11-28")
	if f.token != "" {
		req.Header.Set("Authorization", "Bearer "+f.token)
	}

	resp, err := internalhttp.ClientFromContext(ctx).Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", debup.ErrFetchFailed, err)
	}
	defer resp.Body.Close()

	lgr.WithFields("http-status", resp.StatusCode).Tracef("http get [application/json] %q", url)

	if resp.StatusCode == http.StatusForbidden || resp.StatusCode == http.StatusTooManyRequests {
		if err := checkRateLimit(resp); err != nil {
			return nil, fmt.Errorf("unable to fetch latest release of %q: %w", repo, err)
		}
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("%w: unable to read response: %w", debup.ErrFetchFailed, err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: unexpected status %d from %q", debup.ErrFetchFailed, resp.StatusCode, url)
	}

	if len(bytes.TrimSpace(body)) == 0 {
		return nil, fmt.Errorf("%w: empty response from %q", debup.ErrFetchFailed, url)
	}

	var release debup.Release
	if err := json.Unmarshal(body, &release); err != nil {
		return nil, fmt.Errorf("%w: unable to decode response from %q: %w", debup.ErrFetchFailed, url, err)
	}

	lgr.WithFields("repo", repo, "tag", release.Tag, "assets", len(release.Assets)).Debug("fetched latest release")

	return &release, nil
}

// checkRateLimit reports an exhausted rate limit. Missing or malformed headers are not an error.
func checkRateLimit(resp *http.Response) error {
	remaining := resp.Header.Get("X-RateLimit-Remaining")
	if remaining == "" {
		return nil
	}

	rem, err := strconv.Atoi(remaining)
	if err != nil || rem > 0 {
		return nil //nolint:nilerr
	}

	limit, _ := strconv.Atoi(resp.Header.Get("X-RateLimit-Limit"))
	rlErr := &debup.RateLimitError{Limit: limit}

	if resetUnix, err := strconv.ParseInt(resp.Header.Get("X-RateLimit-Reset"), 10, 64); err == nil && resetUnix > 0 {
		rlErr.Reset = time.Unix(resetUnix, 0).UTC()
	}

	return rlErr
}
