package command

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/debup"
	"github.com/anchore/debup/cmd/debup/cli/option"
	"github.com/anchore/debup/internal/bus"
)

type StatusConfig struct {
	Config           string `json:"config" yaml:"config" mapstructure:"config"`
	option.AppConfig `json:"" yaml:",inline" mapstructure:",squash"`
	option.Format    `json:"" yaml:",inline" mapstructure:",squash"`
}

func Status(app clio.Application) *cobra.Command {
	cfg := &StatusConfig{
		AppConfig: option.DefaultAppConfig(),
		Format:    option.DefaultFormat(),
	}

	return app.SetupCommand(&cobra.Command{
		Use:   "status",
		Short: "List packages installed by debup",
		Aliases: []string{
			"ls",
		},
		Args: cobra.NoArgs,
		RunE: func(_ *cobra.Command, _ []string) error {
			defer bus.Exit()
			return runStatus(*cfg)
		},
	}, cfg)
}

type packageStatus struct {
	Package     string            `json:"package"`
	Version     string            `json:"version"`
	Asset       string            `json:"asset"`
	URL         string            `json:"url"`
	Digests     map[string]string `json:"digests,omitempty"`
	InstalledAt time.Time         `json:"installedAt"`
	// Stale is set when the entry was recorded under a different repo/asset for the configured package
	Stale bool `json:"stale"`
}

func runStatus(cfg StatusConfig) error {
	ledger, err := debup.NewLedger(cfg.Ledger.Root)
	if err != nil {
		return fmt.Errorf("unable to load install ledger: %w", err)
	}

	statuses := getStatuses(ledger.Entries(), cfg.UpdateConfig().Target())

	var report string
	switch cfg.Output {
	case option.JSONFormat:
		report, err = renderStatusJSON(statuses, cfg.JQCommand)
		if err != nil {
			return err
		}
	default:
		report = renderStatusTable(statuses)
	}

	bus.Report(report)
	return nil
}

func getStatuses(entries []debup.LedgerEntry, target debup.Target) []packageStatus {
	var statuses []packageStatus
	for _, e := range entries {
		statuses = append(statuses, packageStatus{
			Package:     e.Package,
			Version:     e.Version,
			Asset:       e.Asset,
			URL:         e.URL,
			Digests:     e.Digests,
			InstalledAt: e.InstalledAt,
			Stale:       target.Package == e.Package && !e.MatchesTarget(target),
		})
	}
	return statuses
}

func renderStatusTable(statuses []packageStatus) string {
	if len(statuses) == 0 {
		return "no packages installed"
	}

	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false

	t.AppendHeader(table.Row{"Package", "Version", "Asset", "Installed", ""})

	for _, s := range statuses {
		var commentary string
		severity := 0
		if s.Stale {
			commentary = "recorded under a different configuration"
			severity = 1
		}
		style := statusStyle(severity)

		t.AppendRow(table.Row{
			s.Package,
			style.Render(s.Version),
			s.Asset,
			s.InstalledAt.UTC().Format(time.RFC3339),
			style.Render(commentary),
		})
	}

	return t.Render()
}

type statusDocument struct {
	Packages []packageStatus `json:"packages"`
}

func renderStatusJSON(statuses []packageStatus, jqExpr string) (string, error) {
	doc := statusDocument{Packages: statuses}
	if doc.Packages == nil {
		doc.Packages = []packageStatus{}
	}

	by, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return "", fmt.Errorf("unable to encode status: %w", err)
	}

	if jqExpr == "" {
		return string(by), nil
	}

	return applyJQ(by, jqExpr)
}
