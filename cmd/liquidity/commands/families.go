package commands

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/pashabitz/liquidity/pkg/config"
	awsengine "github.com/pashabitz/liquidity/pkg/engine/aws"
)

var (
	familiesDiscover bool
	familiesWrite    bool
)

var familiesCmd = &cobra.Command{
	Use:   "families [family...]",
	Short: "List configured families and their sizes",
	Long: `Lists the instance families and sizes that are scored.

With --discover the sizes are looked up from EC2 instead, for the named
families or every configured one. --write saves the discovered sizes
to the config file.`,
	Example: `  liquidity families
  liquidity families r5 --discover --write`,
	RunE: func(cmd *cobra.Command, args []string) error {
		if familiesWrite && !familiesDiscover {
			return fmt.Errorf("--write requires --discover")
		}
		if familiesDiscover && cfg.Mock {
			return fmt.Errorf("--discover needs EC2 and cannot run in mock mode")
		}

		families := cfg.Families
		if len(args) > 0 && !familiesDiscover {
			families = config.Families{}
			for _, name := range args {
				sizes, ok := cfg.Families.Sizes(name)
				if !ok {
					return fmt.Errorf("family %q is not configured", name)
				}
				families[name] = sizes
			}
		}

		if familiesDiscover {
			names := args
			if len(names) == 0 {
				names = cfg.Families.Names()
			}
			client, err := newAWSClient(cmd.Context())
			if err != nil {
				return err
			}
			found, err := awsengine.NewSizeDiscoverer(client.Config).Discover(cmd.Context(), names)
			if err != nil {
				return err
			}
			for _, name := range names {
				if !found.Has(name) {
					logger.Warn("No instance types found", "family", name)
				}
			}
			families = found
		}

		printFamilies(cmd, families)

		if familiesWrite {
			merged := cfg.Families.Clone()
			for name, sizes := range families {
				merged[name] = sizes
			}
			if err := merged.Validate(); err != nil {
				return err
			}
			viper.Set("families", map[string][]string(merged))
			path, err := writeConfig()
			if err != nil {
				return err
			}
			logger.Info("Families saved", "path", path, "families", merged.Names())
		}
		return nil
	},
}

func printFamilies(cmd *cobra.Command, families config.Families) {
	for _, name := range families.Names() {
		sizes, _ := families.Sizes(name)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", name, strings.Join(sizes, ", "))
	}
}

func init() {
	familiesCmd.Flags().BoolVar(&familiesDiscover, "discover", false, "Look up sizes from EC2 DescribeInstanceTypes")
	familiesCmd.Flags().BoolVar(&familiesWrite, "write", false, "Save discovered sizes to the config file")
}
