package main

import (
	"fmt"
	"runtime"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"fincast/pkg/core/analysis"
	"fincast/pkg/core/assumption"
	"fincast/pkg/core/ledger"
)

var batchCmd = &cobra.Command{
	Use:   "batch <ledger>...",
	Short: "Forecast several ledgers in parallel and print one summary line each",
	Args:  cobra.MinimumNArgs(1),
	RunE:  runBatch,
}

func init() {
	batchCmd.Flags().IntVarP(&flagWorkers, "workers", "w", runtime.NumCPU(), "Ledgers analyzed concurrently")
}

type batchResult struct {
	label    string
	analysis *analysis.ForecastAnalysis
	err      error
}

func runBatch(cmd *cobra.Command, args []string) error {
	engine := analysis.NewAnalysisEngine(cfg.AnalysisSettings())
	results := make([]batchResult, len(args))

	g, gctx := errgroup.WithContext(cmd.Context())
	if flagWorkers > 0 {
		g.SetLimit(flagWorkers)
	}

	for i, path := range args {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i].label = path

			l, err := ledger.Load(path)
			if err != nil {
				results[i].err = err
				return nil // non-fatal
			}
			results[i].label = l.Label

			a, err := engine.Analyze(l.Records, assumption.Overrides{})
			if err != nil {
				results[i].err = err
				return nil
			}
			a.Label = l.Label
			results[i].analysis = a
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
	fmt.Fprintln(tw, "LEDGER\tMETHOD\tPROJECTED 12M\tANNUAL TAX\tENDING CASH\tERROR")
	failed := 0
	for _, r := range results {
		if r.err != nil {
			failed++
			fmt.Fprintf(tw, "%s\t-\t-\t-\t-\t%v\n", r.label, r.err)
			continue
		}
		a := r.analysis
		fmt.Fprintf(tw, "%s\t%s\t%.0f\t%.0f\t%.0f\t\n",
			r.label, a.Method, a.KPIs.Projected12M, a.TaxMetadata.EstimatedAnnualTax, a.Model[len(a.Model)-1].EndingCash)
	}
	if err := tw.Flush(); err != nil {
		return err
	}

	if failed > 0 {
		return fmt.Errorf("%d of %d ledgers failed", failed, len(results))
	}
	return nil
}
