package commands

import (
	"github.com/spf13/cobra"

	"github.com/pashabitz/liquidity/pkg/engine/report"
)

var reportFormat string

var reportCmd = &cobra.Command{
	Use:   "report",
	Short: "Summarize cached capacity and scores for every family",
	Long: `Reports, for each configured family, the cached marketplace capacity,
the liquidity score, and how many of its sizes are cached.
Liquidity is empty when no family has any capacity.`,
	Example: `  liquidity report
  liquidity report --format csv > liquidity.csv`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine(cmd.Context(), false)
		if err != nil {
			return err
		}
		scores, err := eng.Summarize()
		if err != nil {
			return err
		}
		return report.Write(cmd.OutOrStdout(), reportFormat, scores)
	},
}

func init() {
	reportCmd.Flags().StringVarP(&reportFormat, "format", "f", report.FormatTable, "Output format (table, csv, json, yaml)")
}
