package githubrelease

import (
	"context"
	"fmt"

	"github.com/shurcooL/githubv4"

	"github.com/anchore/debup"
	"github.com/anchore/debup/internal/log"
)

var _ debup.ReleaseFetcher = (*GraphQLFetcher)(nil)

// GraphQLFetcher looks up the latest release through the GitHub v4 (GraphQL) API. A token is required.
type GraphQLFetcher struct {
	endpoint string
	token    string
}

func NewGraphQLFetcher(endpoint, token string) *GraphQLFetcher {
	return &GraphQLFetcher{
		endpoint: endpoint,
		token:    token,
	}
}

type latestReleaseQuery struct {
	Repository struct {
		LatestRelease struct {
			TagName       githubv4.String
			ReleaseAssets struct {
				Nodes []struct {
					Name        githubv4.String
					DownloadURL githubv4.URI
				}
			} `graphql:"releaseAssets(first:100)"`
		}
	} `graphql:"repository(owner:$repositoryOwner, name:$repositoryName)"`

	RateLimit struct {
		Limit     githubv4.Int
		Remaining githubv4.Int
		ResetAt   githubv4.DateTime
	}
}

func (f GraphQLFetcher) FetchLatest(ctx context.Context, repo string) (*debup.Release, error) {
	owner, name, err := splitRepo(repo)
	if err != nil {
		return nil, err
	}

	if f.token == "" {
		return nil, fmt.Errorf("%w: a GitHub token is required to use the GraphQL API", debup.ErrFetchFailed)
	}

	client := githubv4.NewEnterpriseClient(f.endpoint, newRetryableGitHubClient(ctx, f.token))

	var query latestReleaseQuery
	variables := map[string]any{
		"repositoryOwner": githubv4.String(owner),
		"repositoryName":  githubv4.String(name),
	}

	if err := client.Query(ctx, &query, variables); err != nil {
		if query.RateLimit.Limit > 0 && query.RateLimit.Remaining == 0 {
			return nil, fmt.Errorf("unable to fetch latest release of %q: %w", repo, &debup.RateLimitError{
				Limit: int(query.RateLimit.Limit),
				Reset: query.RateLimit.ResetAt.Time,
			})
		}
		return nil, fmt.Errorf("%w: %w", debup.ErrFetchFailed, err)
	}

	latest := query.Repository.LatestRelease
	release := debup.Release{
		Tag: string(latest.TagName),
	}
	for _, a := range latest.ReleaseAssets.Nodes {
		var url string
		if a.DownloadURL.URL != nil {
			url = a.DownloadURL.String()
		}
		release.Assets = append(release.Assets, debup.Asset{
			Name: string(a.Name),
			URL:  url,
		})
	}

	log.FromContext(ctx).WithFields("repo", repo, "tag", release.Tag, "assets", len(release.Assets), "rate-limit-remaining", int(query.RateLimit.Remaining)).
		Debug("fetched latest release")

	return &release, nil
}
