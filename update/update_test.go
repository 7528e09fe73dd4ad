package update

import (
	"context"
	"crypto/sha256"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/anchore/debup"
	internalhttp "github.com/anchore/debup/internal/http"
	"github.com/anchore/debup/update/githubrelease"
)

const debContent = "!<arch>\ndebian-binary   1712737800  0     0     100644  4         `\n2.0\n"

type fakeDetector struct {
	version *debup.Version
	err     error
	calls   int
}

func (f *fakeDetector) Detect(_ context.Context) (*debup.Version, error) {
	f.calls++
	return f.version, f.err
}

type fakeInstaller struct {
	err      error
	paths    []string
	versions []string
	// contents of the file at install time
	contents []string
}

func (f *fakeInstaller) Install(_ context.Context, path string, version string) error {
	f.paths = append(f.paths, path)
	f.versions = append(f.versions, version)
	by, err := os.ReadFile(path)
	if err == nil {
		f.contents = append(f.contents, string(by))
	}
	return f.err
}

type releaseServer struct {
	*httptest.Server
	downloads atomic.Int32
}

func newReleaseServer(t *testing.T, releaseJSON func(base string) string, assetBody string, checksums string) *releaseServer {
	t.Helper()
	rs := &releaseServer{}
	rs.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/LizardByte/Sunshine/releases/latest":
			_, _ = w.Write([]byte(releaseJSON(rs.URL)))
		case "/download/sunshine.deb":
			rs.downloads.Add(1)
			if assetBody == "" {
				w.WriteHeader(http.StatusNotFound)
				return
			}
			_, _ = w.Write([]byte(assetBody))
		case "/download/sha256sums.txt":
			_, _ = w.Write([]byte(checksums))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(rs.Close)
	return rs
}

func releaseWithAsset(tag string) func(base string) string {
	return func(base string) string {
		return fmt.Sprintf(`{
			"tag_name": %q,
			"assets": [
				{"name": "sunshine.deb", "browser_download_url": "%s/download/sunshine.deb"},
				{"name": "sha256sums.txt", "browser_download_url": "%s/download/sha256sums.txt"}
			]
		}`, tag, base, base)
	}
}

func TestUpdater_Run(t *testing.T) {
	debDigest := fmt.Sprintf("%x", sha256.Sum256([]byte(debContent)))

	tests := []struct {
		name           string
		release        func(base string) string
		assetBody      string
		checksums      string
		checksumsAsset string
		constraint     string
		installed      *debup.Version
		detectErr      error
		installErr     error
		wantErrIs      error
		wantInstalled  bool
		wantDownloads  int32
		wantDetect     bool
		wantLedger     bool
		wantVersion    string
	}{
		{
			name:          "newer release is downloaded and installed",
			release:       releaseWithAsset("v0.23.1"),
			assetBody:     debContent,
			installed:     &debup.Version{Value: "0.23.0"},
			wantInstalled: true,
			wantDownloads: 1,
			wantDetect:    true,
			wantLedger:    true,
		},
		{
			name:          "same version does nothing",
			release:       releaseWithAsset("v0.23.1"),
			assetBody:     debContent,
			installed:     &debup.Version{Value: "0.23.1"},
			wantDownloads: 0,
			wantDetect:    true,
		},
		{
			name:          "not installed means install",
			release:       releaseWithAsset("v0.23.1"),
			assetBody:     debContent,
			wantInstalled: true,
			wantDownloads: 1,
			wantDetect:    true,
			wantLedger:    true,
		},
		{
			name:          "empty response fails without download",
			release:       func(string) string { return "" },
			assetBody:     debContent,
			wantErrIs:     debup.ErrFetchFailed,
			wantDownloads: 0,
		},
		{
			name: "missing asset fails before download",
			release: func(base string) string {
				return fmt.Sprintf(`{"tag_name": "v0.23.1", "assets": [{"name": "sunshine.AppImage", "browser_download_url": "%s/download/sunshine.deb"}]}`, base)
			},
			assetBody:     debContent,
			wantErrIs:     debup.ErrMissingField,
			wantDownloads: 0,
		},
		{
			name:          "missing tag fails before download",
			release:       func(base string) string { return `{"assets": []}` },
			wantErrIs:     debup.ErrMissingField,
			wantDownloads: 0,
		},
		{
			name:          "non-version tag fails before download",
			release:       releaseWithAsset("nightly"),
			assetBody:     debContent,
			wantErrIs:     debup.ErrMissingField,
			wantDownloads: 0,
		},
		{
			name:          "unparsable installed version fails the run",
			release:       releaseWithAsset("v0.23.1"),
			assetBody:     debContent,
			detectErr:     &debup.VersionError{Kind: debup.VersionParseFailed, Binary: "sunshine"},
			wantDownloads: 0,
			wantDetect:    true,
		},
		{
			name:          "download failure",
			release:       releaseWithAsset("v0.23.1"),
			installed:     &debup.Version{Value: "0.23.0"},
			wantErrIs:     debup.ErrDownloadFailed,
			wantDownloads: 1,
			wantDetect:    true,
		},
		{
			name:          "downloaded content is not a package",
			release:       releaseWithAsset("v0.23.1"),
			assetBody:     "<!DOCTYPE html><html><body>oops</body></html>",
			installed:     &debup.Version{Value: "0.23.0"},
			wantErrIs:     debup.ErrDownloadFailed,
			wantDownloads: 1,
			wantDetect:    true,
		},
		{
			name:          "install failure is reported",
			release:       releaseWithAsset("v0.23.1"),
			assetBody:     debContent,
			installed:     &debup.Version{Value: "0.23.0"},
			installErr:    errors.New("dpkg: error processing archive"),
			wantErrIs:     debup.ErrInstallFailed,
			wantDownloads: 1,
			wantDetect:    true,
		},
		{
			name:          "constraint skips the update",
			release:       releaseWithAsset("v1.0.0"),
			assetBody:     debContent,
			installed:     &debup.Version{Value: "0.23.1"},
			constraint:    "< 1.0",
			wantDownloads: 0,
			wantDetect:    true,
		},
		{
			name:          "constraint does not block a first install",
			release:       releaseWithAsset("v1.0.0"),
			assetBody:     debContent,
			constraint:    "< 1.0",
			wantInstalled: true,
			wantDownloads: 1,
			wantDetect:    true,
			wantLedger:    true,
			wantVersion:   "1.0.0",
		},
		{
			name:           "checksum verified",
			release:        releaseWithAsset("v0.23.1"),
			assetBody:      debContent,
			checksumsAsset: "sha256sums.txt",
			checksums:      debDigest + "  sunshine.deb\n",
			installed:      &debup.Version{Value: "0.23.0"},
			wantInstalled:  true,
			wantDownloads:  1,
			wantDetect:     true,
			wantLedger:     true,
		},
		{
			name:           "checksum mismatch",
			release:        releaseWithAsset("v0.23.1"),
			assetBody:      debContent,
			checksumsAsset: "sha256sums.txt",
			checksums:      strings.Repeat("0", 64) + "  sunshine.deb\n",
			installed:      &debup.Version{Value: "0.23.0"},
			wantErrIs:      debup.ErrDownloadFailed,
			wantDownloads:  1,
			wantDetect:     true,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			server := newReleaseServer(t, tt.release, tt.assetBody, tt.checksums)

			workDir := filepath.Join(t.TempDir(), "work")
			ledger, err := debup.NewLedger(t.TempDir())
			require.NoError(t, err)

			if tt.wantVersion == "" {
				tt.wantVersion = "0.23.1"
			}

			detector := &fakeDetector{version: tt.installed, err: tt.detectErr}
			installer := &fakeInstaller{err: tt.installErr}

			cfg := Config{
				Repo:           "LizardByte/Sunshine",
				Asset:          "sunshine.deb",
				ChecksumsAsset: tt.checksumsAsset,
				Package:        "sunshine",
				WorkDir:        workDir,
				Constraint:     tt.constraint,
			}

			ctx := internalhttp.WithHTTPClient(context.Background(), internalhttp.NewClient(internalhttp.RetryPolicy{Max: 0, Delay: time.Millisecond}, nil))

			result, err := Run(ctx, cfg, Dependencies{
				Fetcher:   githubrelease.NewFetcher(server.URL, ""),
				Detector:  detector,
				Installer: installer,
				Ledger:    ledger,
			})

			switch {
			case tt.wantErrIs != nil:
				require.ErrorIs(t, err, tt.wantErrIs)
			case tt.detectErr != nil:
				require.ErrorIs(t, err, tt.detectErr)
			default:
				require.NoError(t, err)
				require.NotNil(t, result)
				assert.Equal(t, tt.wantInstalled, result.Installed)
			}

			assert.Equal(t, tt.wantDownloads, server.downloads.Load(), "unexpected number of downloads")
			assert.Equal(t, tt.wantDetect, detector.calls > 0, "unexpected detector usage")

			// the downloaded file never survives the run
			_, statErr := os.Stat(cfg.DownloadPath())
			assert.True(t, os.IsNotExist(statErr), "expected the downloaded package to be removed")

			if tt.wantInstalled || tt.installErr != nil {
				require.Len(t, installer.paths, 1)
				assert.Equal(t, filepath.Join(workDir, "sunshine-latest.deb"), installer.paths[0])
				assert.Equal(t, []string{debContent}, installer.contents)
				assert.Equal(t, []string{tt.wantVersion}, installer.versions)
			} else {
				assert.Empty(t, installer.paths)
			}

			entry := ledger.Get("sunshine")
			if !tt.wantLedger {
				assert.Nil(t, entry)
				return
			}
			require.NotNil(t, entry)
			assert.Equal(t, tt.wantVersion, entry.Version)
			assert.Equal(t, debDigest, entry.Digests["sha256"])
			assert.True(t, entry.MatchesTarget(cfg.Target()))
			assert.Equal(t, result.Digests, entry.Digests)
		})
	}
}

func TestUpdater_Check(t *testing.T) {
	server := newReleaseServer(t, releaseWithAsset("v0.23.1"), debContent, "")
	installer := &fakeInstaller{}

	u := New(Config{
		Repo:    "LizardByte/Sunshine",
		Asset:   "sunshine.deb",
		Package: "sunshine",
		WorkDir: t.TempDir(),
	}, Dependencies{
		Fetcher:   githubrelease.NewFetcher(server.URL, ""),
		Detector:  &fakeDetector{version: &debup.Version{Value: "0.23.0"}},
		Installer: installer,
	})

	got, err := u.Check(context.Background())
	require.NoError(t, err)

	assert.Equal(t, &Decision{
		Package:        "sunshine",
		Tag:            "v0.23.1",
		Latest:         "0.23.1",
		Installed:      "0.23.0",
		InstalledFound: true,
		NeedsInstall:   true,
		AssetURL:       server.URL + "/download/sunshine.deb",
	}, got)
	assert.Zero(t, server.downloads.Load())
	assert.Empty(t, installer.paths)
}

func TestConfig_validate(t *testing.T) {
	_, err := Run(context.Background(), Config{Asset: "a.deb", Package: "p"}, Dependencies{})
	require.Error(t, err)
	_, err = Run(context.Background(), Config{Repo: "o/r", Package: "p"}, Dependencies{})
	require.Error(t, err)
	_, err = Run(context.Background(), Config{Repo: "o/r", Asset: "a.deb"}, Dependencies{})
	require.Error(t, err)
}
