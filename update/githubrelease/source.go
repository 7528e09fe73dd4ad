package githubrelease

import (
	"fmt"
	"strings"

	"github.com/anchore/debup"
)

const (
	RESTAPI    = "rest"
	GraphQLAPI = "graphql"

	DefaultBaseURL = "https://api.github.com"
)

// Config selects and configures the GitHub API used to look up the latest release.
type Config struct {
	API     string
	BaseURL string
	Token   string
}

// NewSource returns the release fetcher for the configured API flavor.
func NewSource(cfg Config) (debup.ReleaseFetcher, error) {
	if cfg.BaseURL == "" {
		cfg.BaseURL = DefaultBaseURL
	}

	switch strings.ToLower(cfg.API) {
	case "", RESTAPI:
		return NewFetcher(cfg.BaseURL, cfg.Token), nil
	case GraphQLAPI:
		if cfg.Token == "" {
			return nil, fmt.Errorf("a GitHub token is required to use the GraphQL API")
		}
		return NewGraphQLFetcher(graphQLEndpoint(cfg.BaseURL), cfg.Token), nil
	default:
		return nil, fmt.Errorf("unsupported GitHub API %q (expected %q or %q)", cfg.API, RESTAPI, GraphQLAPI)
	}
}

func splitRepo(repo string) (string, string, error) {
	fields := strings.Split(repo, "/")
	if len(fields) != 2 || fields[0] == "" || fields[1] == "" {
		return "", "", fmt.Errorf("invalid github repo format: %q", repo)
	}
	return fields[0], fields[1], nil
}

func graphQLEndpoint(baseURL string) string {
	base := strings.TrimSuffix(baseURL, "/")
	if base == DefaultBaseURL {
		return base + "/graphql"
	}
	// enterprise servers host the REST API under /api/v3 and GraphQL under /api/graphql
	return strings.TrimSuffix(base, "/v3") + "/graphql"
}
