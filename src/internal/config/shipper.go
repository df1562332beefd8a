package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	lconfig "github.com/lixenwraith/config"
)

// ShipperConfig is the full configuration of the timberlogs line shipper.
type ShipperConfig struct {
	Client  ClientOptions `toml:"client"`
	Input   InputConfig   `toml:"input"`
	Logging LoggingConfig `toml:"logging"`
}

// InputConfig controls how the shipper reads and paces incoming lines.
type InputConfig struct {
	// Level assigned to shipped lines.
	Level string `toml:"level"`
	// Lines accepted per second; 0 disables pacing.
	RateLimit float64 `toml:"rate_limit"`
	// Burst allowance when pacing is enabled.
	RateBurst int `toml:"rate_burst"`
}

// LoggingConfig controls the shipper's own diagnostic output.
type LoggingConfig struct {
	Output string `toml:"output"` // stderr, stdout, none
	Level  string `toml:"level"`  // debug, info, warn, error
}

func shipperDefaults() *ShipperConfig {
	return &ShipperConfig{
		Input: InputConfig{
			Level:     "info",
			RateBurst: 10,
		},
		Logging: LoggingConfig{
			Output: "stderr",
			Level:  "info",
		},
	}
}

// Load builds the shipper configuration from defaults, the optional TOML
// config file, TIMBERLOGS_-prefixed environment variables and CLI
// arguments, in ascending precedence.
func Load(cliArgs []string) (*ShipperConfig, error) {
	cfg, err := lconfig.NewBuilder().
		WithDefaults(shipperDefaults()).
		WithEnvPrefix("TIMBERLOGS_").
		WithFile(configPath()).
		WithArgs(cliArgs).
		WithEnvTransform(envTransform).
		WithSources(
			lconfig.SourceCLI,
			lconfig.SourceEnv,
			lconfig.SourceFile,
			lconfig.SourceDefault,
		).
		Build()
	if err != nil {
		if !strings.Contains(err.Error(), "not found") {
			return nil, fmt.Errorf("failed to load config: %w", err)
		}
	}

	final := &ShipperConfig{}
	if err := cfg.Scan(final, ""); err != nil {
		return nil, fmt.Errorf("failed to scan config: %w", err)
	}

	if err := final.Client.Validate(); err != nil {
		return nil, err
	}
	if final.Input.RateLimit < 0 {
		return nil, fmt.Errorf("input.rate_limit must not be negative, got %v", final.Input.RateLimit)
	}
	return final, nil
}

func envTransform(path string) string {
	env := strings.ReplaceAll(path, ".", "_")
	return "TIMBERLOGS_" + strings.ToUpper(env)
}

func configPath() string {
	if configFile := os.Getenv("TIMBERLOGS_CONFIG_FILE"); configFile != "" {
		return configFile
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "timberlogs.toml"
	}
	return filepath.Join(home, ".config", "timberlogs", "timberlogs.toml")
}
