package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/pashabitz/liquidity/pkg/config"
	"github.com/pashabitz/liquidity/pkg/logging"
	"github.com/pashabitz/liquidity/pkg/telemetry"
	"github.com/pashabitz/liquidity/pkg/version"
)

var (
	cfgFile string
	cfg     config.Config
	logger  = logging.Discard()

	// cleanups run after the command finishes, successful or not.
	cleanups []func()
)

var rootCmd = &cobra.Command{
	Use:   "liquidity",
	Short: "Reserved instance marketplace liquidity",
	Long: `liquidity - Reserved Instance Marketplace Liquidity

Caches EC2 reserved instance marketplace offerings and scores
how much capacity each instance family has relative to the others.`,
	Version:           version.Current,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setup,
}

// Execute runs the root command and exits non-zero on failure.
func Execute() {
	err := rootCmd.Execute()
	runCleanups()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	cobra.OnInitialize(initConfig)

	flags := rootCmd.PersistentFlags()
	flags.StringVar(&cfgFile, "config", "", "Config file (default $HOME/.liquidity.yaml)")
	flags.String("region", config.DefaultRegion, "AWS Region")
	flags.String("profile", "", "AWS shared config profile")
	flags.String("cache", config.DefaultCache, "Cache document: file path or s3://bucket/key")
	flags.BoolP("verbose", "v", false, "Log every AWS API call")
	flags.String("log-level", config.DefaultLogLevel, "Log level (debug, info, warn, error)")
	flags.String("log-format", config.DefaultLogFormat, "Log format (text, json)")
	flags.String("log-file", config.DefaultLogOutput, "Log destination: stderr, stdout, or a file path")
	flags.String("otel-endpoint", "", "OTLP HTTP endpoint for traces and metrics")
	flags.Bool("mock", false, "Use synthetic offerings instead of the EC2 marketplace")

	bindings := map[string]string{
		"region":        "region",
		"profile":       "profile",
		"cache":         "cache",
		"verbose":       "verbose",
		"log.level":     "log-level",
		"log.format":    "log-format",
		"log.output":    "log-file",
		"otel_endpoint": "otel-endpoint",
		"mock":          "mock",
	}
	for key, name := range bindings {
		_ = viper.BindPFlag(key, flags.Lookup(name))
	}

	rootCmd.SetHelpFunc(func(cmd *cobra.Command, args []string) {
		renderHelp(cmd)
	})

	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(refreshCmd)
	rootCmd.AddCommand(reportCmd)
	rootCmd.AddCommand(familiesCmd)
}

func initConfig() {
	// A .env next to the working directory may carry AWS_PROFILE and friends.
	_ = godotenv.Load()

	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		home, err := os.UserHomeDir()
		if err == nil {
			viper.SetConfigFile(filepath.Join(home, config.DefaultConfigName+".yaml"))
			viper.SetConfigType("yaml")
		}
	}
	viper.SetEnvPrefix(config.EnvPrefix)
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	viper.AutomaticEnv()
}

// setup resolves configuration, then builds the logger and telemetry every subcommand shares.
func setup(cmd *cobra.Command, args []string) error {
	if err := viper.ReadInConfig(); err != nil {
		// The default config file is optional; an explicit one is not.
		if cfgFile != "" || !errors.Is(err, fs.ErrNotExist) {
			return fmt.Errorf("failed to read config: %w", err)
		}
	}

	resolved := config.Config{}
	if err := viper.Unmarshal(&resolved); err != nil {
		return fmt.Errorf("failed to decode config: %w", err)
	}
	if len(resolved.Families) == 0 {
		resolved.Families = config.DefaultFamilies()
	}
	if err := resolved.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}
	cfg = resolved

	l, closer, err := logging.New(cfg.Log)
	if err != nil {
		return err
	}
	logger = l
	slog.SetDefault(logger)
	cleanups = append(cleanups, func() { _ = closer.Close() })

	shutdown, err := telemetry.Init(cmd.Context(), version.AppName, version.Current, cfg.OtelEndpoint)
	if err != nil {
		logger.Warn("Telemetry failed", "error", err)
	} else {
		cleanups = append(cleanups, func() { _ = shutdown(context.Background()) })
	}

	logger.Debug("Configuration resolved",
		"config_file", viper.ConfigFileUsed(),
		"region", cfg.Region,
		"cache", cfg.Cache,
		"families", cfg.Families.Names(),
	)
	return nil
}

func runCleanups() {
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

func renderHelp(cmd *cobra.Command) {
	out := cmd.OutOrStdout()

	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("#00FF99")).
		MarginBottom(1)

	flagStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("#AAAAAA"))

	fmt.Fprintln(out, titleStyle.Render(fmt.Sprintf("LIQUIDITY %s", version.Current)))
	fmt.Fprintln(out, "Reserved instance marketplace liquidity for EC2 instance families.")

	fmt.Fprintln(out, titleStyle.Render("USAGE"))
	fmt.Fprintf(out, "  %s\n\n", cmd.UseLine())

	if cmd.HasAvailableSubCommands() {
		fmt.Fprintln(out, titleStyle.Render("COMMANDS"))
		for _, c := range cmd.Commands() {
			if c.IsAvailableCommand() {
				fmt.Fprintf(out, "  %-12s %s\n", c.Name(), c.Short)
			}
		}
		fmt.Fprintln(out)
	}

	if cmd.Example != "" {
		fmt.Fprintln(out, titleStyle.Render("EXAMPLES"))
		fmt.Fprintln(out, cmd.Example)
		fmt.Fprintln(out)
	}

	fmt.Fprintln(out, titleStyle.Render("FLAGS"))
	printFlags(out, flagStyle, cmd.Flags())
	printFlags(out, flagStyle, cmd.InheritedFlags())
	fmt.Fprintln(out)
}

func printFlags(out io.Writer, style lipgloss.Style, flags *pflag.FlagSet) {
	flags.VisitAll(func(f *pflag.Flag) {
		if f.Hidden {
			return
		}
		line := fmt.Sprintf("  --%-15s %s", f.Name, f.Usage)
		if f.DefValue != "" && f.DefValue != "false" && f.DefValue != "0" && f.DefValue != "[]" {
			line += fmt.Sprintf(" (default %s)", f.DefValue)
		}
		fmt.Fprintln(out, style.Render(line))
	})
}

// writeConfig saves the current viper settings to the config file in use, or $HOME/.liquidity.yaml.
func writeConfig() (string, error) {
	path := viper.ConfigFileUsed()
	if path == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return "", err
		}
		path = filepath.Join(home, config.DefaultConfigName+".yaml")
	}
	if err := viper.WriteConfigAs(path); err != nil {
		return "", fmt.Errorf("failed to write config %s: %w", path, err)
	}
	return path, nil
}
