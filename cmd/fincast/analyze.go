package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/spf13/cobra"

	"fincast/pkg/core/analysis"
	"fincast/pkg/core/assumption"
	"fincast/pkg/core/ledger"
	"fincast/pkg/core/report"
	"fincast/pkg/core/store"
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <ledger.json|ledger.yaml>",
	Short: "Forecast one ledger and print the three-way model",
	Args:  cobra.ExactArgs(1),
	RunE:  runAnalyze,
}

var showCmd = &cobra.Command{
	Use:   "show <analysis-id>",
	Short: "Print a saved analysis",
	Args:  cobra.ExactArgs(1),
	RunE:  runShow,
}

func init() {
	analyzeCmd.Flags().StringVarP(&flagOverrides, "overrides", "o", "", `Overrides, e.g. '{"revenue_growth": 5, "tax_rate": 25, "new_capex": 240000}'`)
	analyzeCmd.Flags().BoolVar(&flagSave, "save", false, "Persist the analysis")
	analyzeCmd.Flags().StringVar(&flagLabel, "label", "", "Label for the analysis (defaults to the ledger's)")
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	l, err := ledger.Load(args[0])
	if err != nil {
		return err
	}

	overrides, err := assumption.ParseJSON(flagOverrides)
	if err != nil {
		// Malformed overrides are ignored, like any single invalid knob
		log.Printf("[Overrides] %v", err)
	}

	engine := analysis.NewAnalysisEngine(cfg.AnalysisSettings())
	result, err := engine.Analyze(l.Records, overrides)
	if err != nil {
		return fmt.Errorf("%s: %w", l.Label, err)
	}
	result.Label = l.Label
	if flagLabel != "" {
		result.Label = flagLabel
	}

	if err := render(cmd.OutOrStdout(), result); err != nil {
		return err
	}

	if flagSave {
		repo, err := openRepo(cmd.Context())
		if err != nil {
			return err
		}
		defer store.Close()
		if err := repo.Save(cmd.Context(), result); err != nil {
			return err
		}
		fmt.Fprintf(os.Stderr, "saved analysis %s\n", result.ID)
	}
	return nil
}

func runShow(cmd *cobra.Command, args []string) error {
	repo, err := openRepo(cmd.Context())
	if err != nil {
		return err
	}
	defer store.Close()

	result, err := repo.Load(cmd.Context(), args[0])
	if err != nil {
		return err
	}
	return render(cmd.OutOrStdout(), result)
}

// openRepo uses Postgres when a database URL is configured, plus the local store directory.
func openRepo(ctx context.Context) (*store.AnalysisRepo, error) {
	if cfg.Store.DatabaseURL != "" {
		if err := store.InitDB(ctx, cfg.Store.DatabaseURL); err != nil {
			return nil, fmt.Errorf("failed to connect to database: %w", err)
		}
		if err := store.EnsureSchema(ctx); err != nil {
			return nil, err
		}
	}
	return store.NewAnalysisRepo(store.GetPool(), cfg.Store.Dir)
}

func render(w io.Writer, a *analysis.ForecastAnalysis) error {
	switch flagFormat {
	case "markdown":
		fmt.Fprint(w, report.Markdown(a))
	case "html":
		page, err := report.HTML(a)
		if err != nil {
			return err
		}
		fmt.Fprintln(w, page)
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(a)
	default:
		return fmt.Errorf("unknown format %q", flagFormat)
	}
	return nil
}
