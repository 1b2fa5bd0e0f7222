package commands

import (
	"fmt"

	"github.com/spf13/cobra"
)

var refreshCmd = &cobra.Command{
	Use:   "refresh [family...]",
	Short: "Fetch marketplace offerings into the cache",
	Long: `Fetches every configured size of the named families from the EC2
reserved instance marketplace and rewrites their cache entries.
With no arguments every configured family is refreshed.`,
	Example: `  liquidity refresh
  liquidity refresh m5 c5 --cache s3://my-bucket/liquidity/database.json`,
	RunE: func(cmd *cobra.Command, args []string) error {
		eng, err := openEngine(cmd.Context(), true)
		if err != nil {
			return err
		}
		if err := eng.Refresh(cmd.Context(), args...); err != nil {
			return err
		}

		families := args
		if len(families) == 0 {
			families = eng.Store.Families().Names()
		}
		for _, f := range families {
			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d available\n", f, eng.Store.AvailableCapacity(f))
		}
		return nil
	},
}
