package cli

import (
	"encoding/json"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/acarl005/stripansi"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/require"
)

type traitAssertion func(tb testing.TB, root, stdout, stderr string, rc int)

// assertFileInRootOutput runs the given assertions against the content of a file under the test root (as stdout).
func assertFileInRootOutput(file string, assertions ...traitAssertion) traitAssertion {
	return func(tb testing.TB, root, _, stderr string, rc int) {
		tb.Helper()
		content, err := os.ReadFile(filepath.Join(root, file))
		require.NoError(tb, err)

		for _, assertion := range assertions {
			assertion(tb, root, string(content), stderr, rc)
		}
	}
}

func assertJson(tb testing.TB, _, stdout, _ string, _ int) {
	tb.Helper()
	var data interface{}

	if err := json.Unmarshal([]byte(stdout), &data); err != nil {
		tb.Errorf("expected to find a JSON report, but was unmarshalable: %+v", err)
	}
}

func assertLoggingLevel(level string) traitAssertion {
	// match examples:
	//  "[0000]  INFO"
	//  "[0012] DEBUG"
	logPattern := regexp.MustCompile(`(?m)^\[\d\d\d\d\]\s+` + strings.ToUpper(level))
	return func(tb testing.TB, _, _, stderr string, _ int) {
		tb.Helper()
		if !logPattern.MatchString(stripansi.Strip(stderr)) {
			tb.Errorf("output did not indicate the %q logging level", level)
		}
	}
}

func assertNotInOutput(data string) traitAssertion {
	return func(tb testing.TB, _, stdout, stderr string, _ int) {
		tb.Helper()
		if strings.Contains(stripansi.Strip(stderr), data) {
			tb.Errorf("data=%q was found in stderr, but should not have been there", data)
		}
		if strings.Contains(stripansi.Strip(stdout), data) {
			tb.Errorf("data=%q was found in stdout, but should not have been there", data)
		}
	}
}

func assertNoStderr(tb testing.TB, _, _, stderr string, _ int) {
	tb.Helper()
	if len(stderr) > 0 {
		tb.Errorf("expected stderr to be empty, but wasn't")
		if showOutput != nil && *showOutput {
			tb.Errorf("STDERR:%s", stderr)
		}
	}
}

func assertInOutput(data string) traitAssertion {
	return func(tb testing.TB, _, stdout, stderr string, _ int) {
		tb.Helper()
		stdout = stripansi.Strip(stdout)
		stderr = stripansi.Strip(stderr)
		if !strings.Contains(stdout, data) && !strings.Contains(stderr, data) {
			tb.Errorf("data=%q was NOT found in any output, but should have been there", data)
			if showOutput != nil && *showOutput {
				tb.Errorf("STDOUT:%s\nSTDERR:%s", stdout, stderr)
			}
		}
	}
}

func assertStdoutLengthGreaterThan(length uint) traitAssertion {
	return func(tb testing.TB, _, stdout, _ string, _ int) {
		tb.Helper()
		if uint(len(stdout)) < length {
			tb.Errorf("not enough output (expected at least %d, got %d)", length, len(stdout))
		}
	}
}

func assertFailingReturnCode(tb testing.TB, _, _, _ string, rc int) {
	tb.Helper()
	if rc == 0 {
		tb.Errorf("expected a failure but got rc=%d", rc)
	}
}

func assertSuccessfulReturnCode(tb testing.TB, _, _, _ string, rc int) {
	tb.Helper()
	if rc != 0 {
		tb.Errorf("expected no failure but got rc=%d", rc)
	}
}

func assertFileInRootExists(file string) traitAssertion {
	return func(tb testing.TB, root, _, _ string, _ int) {
		tb.Helper()
		path := filepath.Join(root, file)
		if _, err := os.Stat(path); err != nil {
			tb.Errorf("expected file to exist %s", path)
		}
	}
}

func assertFileInRootMissing(file string) traitAssertion {
	return func(tb testing.TB, root, _, _ string, _ int) {
		tb.Helper()
		path := filepath.Join(root, file)
		if _, err := os.Stat(path); !os.IsNotExist(err) {
			tb.Errorf("expected file to not exist %s", path)
		}
	}
}

func assertFileInRootContent(file string, expected string) traitAssertion {
	return func(tb testing.TB, root, _, _ string, _ int) {
		tb.Helper()

		got, err := os.ReadFile(filepath.Join(root, file))
		require.NoError(tb, err)

		if d := cmp.Diff(expected, string(got)); d != "" {
			tb.Errorf("unexpected file content (-want +got):\n%s", d)
		}
	}
}
