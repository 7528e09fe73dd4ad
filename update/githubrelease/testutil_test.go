package githubrelease

import (
	"context"
	"testing"
	"time"

	internalhttp "github.com/anchore/debup/internal/http"
)

func testContext(t *testing.T, retries int) context.Context {
	t.Helper()
	client := internalhttp.NewClient(internalhttp.RetryPolicy{Max: retries, Delay: time.Millisecond}, nil)
	return internalhttp.WithHTTPClient(context.Background(), client)
}
