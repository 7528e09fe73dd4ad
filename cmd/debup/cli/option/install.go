package option

import (
	"github.com/anchore/clio"
	"github.com/anchore/debup/update/dpkg"
)

type Install struct {
	Command string `json:"command" yaml:"command" mapstructure:"command"`
}

func DefaultInstall() Install {
	return Install{
		Command: dpkg.DefaultCommand,
	}
}

func (o *Install) AddFlags(flags clio.FlagSet) {
	flags.StringVarP(&o.Command, "install-command", "", "install command template ({{ .Path }}, {{ .Package }} and {{ .Version }} are available)")
}
