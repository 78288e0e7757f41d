package main

import (
	"os"

	"github.com/spf13/cobra"

	"fincast/pkg/core/config"
)

var (
	flagConfig    string
	flagFormat    string
	flagOverrides string
	flagSave      bool
	flagLabel     string
	flagWorkers   int

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "fincast",
	Short: "12-month SME forecast and cash-flow bridge",
	Long:  "Forecast a small business's next 12 months from its monthly ledger and bridge projected profit to ending cash.",
	PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
		var err error
		cfg, err = config.Load(flagConfig)
		if err != nil {
			return err
		}
		if !cmd.Flags().Changed("format") {
			flagFormat = cfg.Output.Format
		}
		return nil
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&flagConfig, "config", "c", config.DefaultPath, "Config file")
	rootCmd.PersistentFlags().StringVarP(&flagFormat, "format", "f", "json", "Output format: json, markdown or html")

	rootCmd.AddCommand(analyzeCmd, batchCmd, showCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
