package commands

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/pashabitz/liquidity/pkg/config"
)

var scoreRefresh []string

var scoreCmd = &cobra.Command{
	Use:   "score [family]",
	Short: "Print the liquidity score of an instance family",
	Long: `Prints the family's available marketplace capacity divided by the
largest capacity of any configured family, as a number between 0 and 1.

Scores are computed from the cache. Use --refresh to fetch fresh offerings
for some families first.`,
	Example: `  liquidity score
  liquidity score c5 --refresh m5,c5`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		family := config.DefaultFamily
		if len(args) == 1 {
			family = args[0]
		}

		eng, err := openEngine(cmd.Context(), len(scoreRefresh) > 0)
		if err != nil {
			return err
		}
		if len(scoreRefresh) > 0 {
			if err := eng.Refresh(cmd.Context(), scoreRefresh...); err != nil {
				return err
			}
		}

		score, err := eng.Score(family)
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), strconv.FormatFloat(score, 'f', -1, 64))
		return nil
	},
}

func init() {
	scoreCmd.Flags().StringSliceVar(&scoreRefresh, "refresh", nil, "Families to refresh before scoring (comma separated)")
}
