package command

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/itchyny/gojq"
	"github.com/jedib0t/go-pretty/table"
	"github.com/spf13/cobra"

	"github.com/anchore/clio"
	"github.com/anchore/debup/cmd/debup/cli/option"
	"github.com/anchore/debup/internal/bus"
	"github.com/anchore/debup/update"
)

type CheckConfig struct {
	Config           string `json:"config" yaml:"config" mapstructure:"config"`
	option.AppConfig `json:"" yaml:",inline" mapstructure:",squash"`
	option.Format    `json:"" yaml:",inline" mapstructure:",squash"`
}

func Check(app clio.Application) *cobra.Command {
	cfg := &CheckConfig{
		AppConfig: option.DefaultAppConfig(),
		Format:    option.DefaultFormat(),
	}

	return app.SetupCommand(&cobra.Command{
		Use:   "check",
		Short: "Report whether a newer release of the package is available (without installing it)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			defer bus.Exit()
			return runCheck(cmd.Context(), *cfg)
		},
	}, cfg)
}

func runCheck(ctx context.Context, cfg CheckConfig) error {
	ctx, u, err := newUpdater(ctx, cfg.AppConfig)
	if err != nil {
		return err
	}

	decision, err := u.Check(ctx)
	if err != nil {
		if h := hint(err); h != "" {
			bus.Notify(h)
		}
		return fmt.Errorf("failed to check %q: %w", cfg.Package, err)
	}

	var report string
	switch cfg.Output {
	case option.JSONFormat:
		report, err = renderCheckJSON(*decision, cfg.JQCommand)
		if err != nil {
			return err
		}
	default:
		report = renderCheckTable(*decision)
	}

	bus.Report(report)
	return nil
}

func renderCheckTable(d update.Decision) string {
	t := table.NewWriter()
	t.SetStyle(table.StyleLight)
	t.Style().Options.DrawBorder = false
	t.Style().Options.SeparateColumns = false

	t.AppendHeader(table.Row{"Package", "Installed", "Latest", ""})

	installedVersion := d.Installed
	if !d.InstalledFound {
		installedVersion = "-"
	}

	commentary, severity := decisionCommentary(d)
	style := statusStyle(severity)

	t.AppendRow(table.Row{
		d.Package,
		style.Render(installedVersion),
		d.Latest,
		style.Render(commentary),
	})

	return t.Render()
}

func decisionCommentary(d update.Decision) (string, int) {
	switch {
	case d.Reason != "":
		return d.Reason, 1
	case d.NeedsInstall && !d.InstalledFound:
		return "not installed", 1
	case d.NeedsInstall:
		return "update available", 1
	default:
		return "up to date", 0
	}
}

type checkDocument struct {
	Decision update.Decision `json:"decision"`
}

func renderCheckJSON(d update.Decision, jqExpr string) (string, error) {
	by, err := json.MarshalIndent(checkDocument{Decision: d}, "", "  ")
	if err != nil {
		return "", fmt.Errorf("unable to encode check result: %w", err)
	}

	if jqExpr == "" {
		return string(by), nil
	}

	return applyJQ(by, jqExpr)
}

func applyJQ(doc []byte, expr string) (string, error) {
	query, err := gojq.Parse(expr)
	if err != nil {
		return "", fmt.Errorf("unable to parse jq expression %q: %w", expr, err)
	}

	code, err := gojq.Compile(query)
	if err != nil {
		return "", fmt.Errorf("unable to compile jq expression %q: %w", expr, err)
	}

	var input any
	if err := json.Unmarshal(doc, &input); err != nil {
		return "", err
	}

	var results []string
	iter := code.Run(input)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if err, ok := v.(error); ok {
			return "", fmt.Errorf("unable to evaluate jq expression %q: %w", expr, err)
		}

		// raw output for scalar strings, like `jq -r`
		if s, ok := v.(string); ok {
			results = append(results, s)
			continue
		}

		by, err := json.MarshalIndent(v, "", "  ")
		if err != nil {
			return "", err
		}
		results = append(results, string(by))
	}

	return strings.Join(results, "\n"), nil
}

var (
	goodStatus      = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))  // 10 = high intensity green (ANSI 16 bit color code)
	badStatus       = lipgloss.NewStyle().Foreground(lipgloss.Color("214")) // 214 = orange1 (ANSI 16 bit color code)
	reallyBadStatus = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))   // 9 = high intensity red (ANSI 16 bit color code)
)

func statusStyle(severity int) lipgloss.Style {
	switch severity {
	case 0:
		return goodStatus
	case 1:
		return badStatus
	}

	return reallyBadStatus
}
