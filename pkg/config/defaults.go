// Package config defines default configuration and the tracked instance families.
package config

import "fmt"

// Defaults.
const (
	DefaultRegion     = "us-east-1"
	DefaultCache      = "database.json"
	DefaultFamily     = "m5"
	DefaultLogLevel   = "info"
	DefaultLogFormat  = "text"
	DefaultLogOutput  = "stderr"
	DefaultConfigName = ".liquidity"
	EnvPrefix         = "LIQUIDITY"
)

// Config holds the settings resolved from flags, environment, and the config file.
type Config struct {
	// Region is the AWS region marketplace offerings are queried in.
	Region string `mapstructure:"region"`
	// Profile selects a shared AWS config profile. Empty uses the default chain.
	Profile string `mapstructure:"profile"`
	// Cache is the document location: a file path or an s3://bucket/key URL.
	Cache string `mapstructure:"cache"`
	// Verbose logs every AWS API call.
	Verbose bool `mapstructure:"verbose"`
	// OtelEndpoint is an OTLP HTTP endpoint. Empty discards spans.
	OtelEndpoint string `mapstructure:"otel_endpoint"`
	// Mock replaces the EC2 marketplace with synthetic offerings. No AWS calls are made.
	Mock bool `mapstructure:"mock"`

	Log      LogConfig `mapstructure:"log"`
	Families Families  `mapstructure:"families"`
}

// LogConfig controls the slog handler.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `mapstructure:"level"`
	// Format is text or json.
	Format string `mapstructure:"format"`
	// Output is stdout, stderr, or a file path (rotated).
	Output string `mapstructure:"output"`
}

// Default returns a configuration with sensible default values.
func Default() Config {
	return Config{
		Region: DefaultRegion,
		Cache:  DefaultCache,
		Log: LogConfig{
			Level:  DefaultLogLevel,
			Format: DefaultLogFormat,
			Output: DefaultLogOutput,
		},
		Families: DefaultFamilies(),
	}
}

// Validate checks the resolved configuration.
func (c Config) Validate() error {
	if c.Region == "" {
		return fmt.Errorf("region must not be empty")
	}
	if c.Cache == "" {
		return fmt.Errorf("cache location must not be empty")
	}
	switch c.Log.Format {
	case "text", "json":
	default:
		return fmt.Errorf("unknown log format %q (want text or json)", c.Log.Format)
	}
	return c.Families.Validate()
}
