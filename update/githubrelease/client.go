package githubrelease

import (
	"context"
	"net/http"

	"golang.org/x/oauth2"

	internalhttp "github.com/anchore/debup/internal/http"
)

// newRetryableGitHubClient returns an http.Client that authenticates with the token and retries with the
// policy of the retrying client in the context. The auth header is applied before the retry transport so
// every attempt carries it.
func newRetryableGitHubClient(ctx context.Context, token string) *http.Client {
	base := internalhttp.ClientFromContext(ctx).StandardClient()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, base)
	return oauth2.NewClient(ctx, oauth2.StaticTokenSource(&oauth2.Token{AccessToken: token}))
}
