package option

import (
	"fmt"

	"github.com/anchore/clio"
	"github.com/anchore/fangs"
)

var _ fangs.PostLoader = (*Target)(nil)

// Target describes which release asset is installed as which package.
type Target struct {
	Repo    string `json:"repo" yaml:"repo" mapstructure:"repo"`
	Asset   Asset  `json:"asset" yaml:"asset" mapstructure:"asset"`
	Package string `json:"package" yaml:"package" mapstructure:"package"`
	WorkDir string `json:"work-dir" yaml:"work-dir" mapstructure:"work-dir"`
}

type Asset struct {
	Name      string `json:"name" yaml:"name" mapstructure:"name"`
	Checksums string `json:"checksums" yaml:"checksums" mapstructure:"checksums"`
}

func DefaultTarget() Target {
	return Target{
		WorkDir: ".",
	}
}

func (o *Target) AddFlags(flags clio.FlagSet) {
	flags.StringVarP(&o.Repo, "repo", "r", "GitHub repository to check for releases (owner/name)")
	flags.StringVarP(&o.Asset.Name, "asset", "a", "exact name of the release asset to install")
	flags.StringVarP(&o.Asset.Checksums, "checksums", "", "name of a release asset listing sha256 checksums (optional)")
	flags.StringVarP(&o.Package, "package", "p", "name of the installed package (and of its binary)")
	flags.StringVarP(&o.WorkDir, "work-dir", "w", "directory the package is downloaded to before installing")
}

func (o *Target) PostLoad() error {
	if o.WorkDir == "" {
		o.WorkDir = "."
	}
	if o.Repo != "" && o.Package == "" {
		return fmt.Errorf("a package name is required when a repository is configured")
	}
	return nil
}
