package option

import (
	"github.com/anchore/debup/update"
	"github.com/anchore/debup/update/dpkg"
	"github.com/anchore/debup/update/installed"
)

// AppConfig is the static application configuration on disk.
type AppConfig struct {
	Target  `json:"" yaml:",inline" mapstructure:",squash"`
	Retry   Retry   `json:"retry" yaml:"retry" mapstructure:"retry"`
	Version Version `json:"version" yaml:"version" mapstructure:"version"`
	Install Install `json:"install" yaml:"install" mapstructure:"install"`
	GitHub  GitHub  `json:"github" yaml:"github" mapstructure:"github"`
	Ledger  Ledger  `json:"ledger" yaml:"ledger" mapstructure:"ledger"`
}

func DefaultAppConfig() AppConfig {
	return AppConfig{
		Target:  DefaultTarget(),
		Retry:   DefaultRetry(),
		Version: DefaultVersion(),
		Install: DefaultInstall(),
		GitHub:  DefaultGitHub(),
		Ledger:  DefaultLedger(),
	}
}

func (c AppConfig) UpdateConfig() update.Config {
	return update.Config{
		Repo:           c.Repo,
		Asset:          c.Asset.Name,
		ChecksumsAsset: c.Asset.Checksums,
		Package:        c.Package,
		WorkDir:        c.WorkDir,
		Constraint:     c.Version.Constraint,
	}
}

func (c AppConfig) DetectorConfig() installed.Config {
	bin := c.Version.Binary
	if bin == "" {
		bin = c.Package
	}
	return installed.Config{
		Binary: bin,
		Flag:   c.Version.Flag,
	}
}

func (c AppConfig) InstallerConfig() dpkg.Config {
	return dpkg.Config{
		Command: c.Install.Command,
		Package: c.Package,
	}
}
