package cli

import (
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

const debContent = "!<arch>\ndebian-binary   1712737800  0     0     100644  4         `\n2.0\n"

// newReleaseServer serves a GitHub-like latest release endpoint along with the release asset.
func newReleaseServer(t *testing.T, tag string) *httptest.Server {
	t.Helper()
	var server *httptest.Server
	server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/repos/LizardByte/Sunshine/releases/latest":
			_, _ = fmt.Fprintf(w, `{"tag_name": %q, "assets": [{"name": "sunshine.deb", "browser_download_url": "%s/download/sunshine.deb"}]}`, tag, server.URL)
		case "/download/sunshine.deb":
			_, _ = w.Write([]byte(debContent))
		default:
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	t.Cleanup(server.Close)
	return server
}

// installFakeBinary places an executable on a new PATH entry that reports the given version.
func installFakeBinary(t *testing.T, name, version string) string {
	t.Helper()
	dir := t.TempDir()
	script := fmt.Sprintf("#!/bin/sh\necho \"Sunshine version: v%s\"\n", version)
	if err := os.WriteFile(filepath.Join(dir, name), []byte(script), 0o755); err != nil { //nolint:gosec
		t.Fatal(err)
	}
	return dir
}

func TestUpdateCmd(t *testing.T) {
	type step struct {
		name       string
		args       []string
		assertions []traitAssertion
	}

	tests := []struct {
		name      string
		tag       string
		installed string
		asset     string
		steps     []step
	}{
		{
			name:      "newer release is installed",
			tag:       "v0.23.1",
			installed: "0.23.0",
			asset:     "sunshine.deb",
			steps: []step{
				{
					name: "check",
					args: []string{"check", "-o", "json"},
					assertions: []traitAssertion{
						assertSuccessfulReturnCode,
						assertJson,
						assertInOutput(`"needsInstall": true`),
						assertFileInRootMissing("installed.deb"),
					},
				},
				{
					name: "update",
					args: []string{"update"},
					assertions: []traitAssertion{
						assertSuccessfulReturnCode,
						assertInOutput("updated sunshine from 0.23.0 to 0.23.1"),
						assertFileInRootExists(".debup.state.json"),
						assertFileInRootOutput(".debup.state.json",
							assertJson,
							assertInOutput(`"package": "sunshine"`),
							assertInOutput(`"version": "0.23.1"`),
						),
						assertFileInRootContent("installed.deb", debContent),
						assertFileInRootMissing("sunshine-latest.deb"),
					},
				},
				{
					name: "status",
					args: []string{"status", "-o", "json"},
					assertions: []traitAssertion{
						assertSuccessfulReturnCode,
						assertJson,
						assertInOutput(`"version": "0.23.1"`),
					},
				},
				{
					name: "status table",
					args: []string{"status"},
					assertions: []traitAssertion{
						assertSuccessfulReturnCode,
						assertInOutput("sunshine"),
						assertStdoutLengthGreaterThan(20),
					},
				},
			},
		},
		{
			name:      "same version is left alone",
			tag:       "v0.23.1",
			installed: "0.23.1",
			asset:     "sunshine.deb",
			steps: []step{
				{
					name: "update",
					args: []string{"update", "-q"},
					assertions: []traitAssertion{
						assertSuccessfulReturnCode,
						assertInOutput("sunshine is already up to date (0.23.1)"),
						assertNotInOutput("updated sunshine"),
						assertNoStderr,
						assertFileInRootMissing("installed.deb"),
						assertFileInRootMissing(".debup.state.json"),
					},
				},
			},
		},
		{
			name:      "missing asset fails",
			tag:       "v0.23.1",
			installed: "0.23.0",
			asset:     "sunshine-arch.pkg.tar.zst",
			steps: []step{
				{
					name: "update",
					args: []string{"update", "-vv"},
					assertions: []traitAssertion{
						assertFailingReturnCode,
						assertInOutput("release is missing a required field"),
						assertFileInRootMissing("installed.deb"),
						assertLoggingLevel("debug"),
					},
				},
			},
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			// we always have a clean slate for every test, but a shared state for each step
			d := t.TempDir()
			server := newReleaseServer(t, test.tag)
			binDir := installFakeBinary(t, "sunshine", test.installed)

			env := map[string]string{
				"PATH":                  binDir + string(os.PathListSeparator) + os.Getenv("PATH"),
				"DEBUP_REPO":            "LizardByte/Sunshine",
				"DEBUP_ASSET_NAME":      test.asset,
				"DEBUP_PACKAGE":         "sunshine",
				"DEBUP_WORK_DIR":        d,
				"DEBUP_LEDGER_ROOT":     d,
				"DEBUP_RETRY_MAX":       "0",
				"DEBUP_GITHUB_BASE_URL": server.URL,
				"DEBUP_INSTALL_COMMAND": fmt.Sprintf("cp {{ .Path }} %s", filepath.Join(d, "installed.deb")),
			}

			for _, s := range test.steps {
				t.Run(s.name, func(t *testing.T) {
					cmd, stdout, stderr := runDebup(t, env, s.args...)
					for _, traitFn := range s.assertions {
						traitFn(t, d, stdout, stderr, cmd.ProcessState.ExitCode())
					}
					logOutputOnFailure(t, cmd, stdout, stderr)
				})
			}
		})
	}
}
