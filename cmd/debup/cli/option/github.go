package option

import (
	"os"

	"github.com/anchore/clio"
	"github.com/anchore/debup/update/githubrelease"
	"github.com/anchore/fangs"
)

var _ fangs.PostLoader = (*GitHub)(nil)

type GitHub struct {
	API     string `json:"api" yaml:"api" mapstructure:"api"`
	BaseURL string `json:"base-url" yaml:"base-url" mapstructure:"base-url"`
	Token   string `json:"token" yaml:"token" mapstructure:"token"`
}

func DefaultGitHub() GitHub {
	return GitHub{
		API:     githubrelease.RESTAPI,
		BaseURL: githubrelease.DefaultBaseURL,
	}
}

func (o *GitHub) AddFlags(flags clio.FlagSet) {
	flags.StringVarP(&o.API, "github-api", "", "GitHub API used to look up releases (rest, graphql)")
}

func (o *GitHub) PostLoad() error {
	if o.Token == "" {
		o.Token = os.Getenv("GITHUB_TOKEN")
	}
	return nil
}

func (o GitHub) SourceConfig() githubrelease.Config {
	return githubrelease.Config{
		API:     o.API,
		BaseURL: o.BaseURL,
		Token:   o.Token,
	}
}
