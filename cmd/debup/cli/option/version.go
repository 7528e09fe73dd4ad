package option

import (
	"github.com/anchore/clio"
)

type Version struct {
	// Binary defaults to the package name
	Binary     string `json:"binary" yaml:"binary" mapstructure:"binary"`
	Flag       string `json:"flag" yaml:"flag" mapstructure:"flag"`
	Constraint string `json:"constraint" yaml:"constraint" mapstructure:"constraint"`
}

func DefaultVersion() Version {
	return Version{
		Flag: "--version",
	}
}

func (o *Version) AddFlags(flags clio.FlagSet) {
	flags.StringVarP(&o.Binary, "binary", "", "binary reporting the installed version (default: the package name)")
	flags.StringVarP(&o.Constraint, "constraint", "", "only install releases satisfying this version constraint (e.g. '< 1.0')")
}
