// Package config loads the echosql server's running configuration from a
// file plus environment overrides, and hands the composed Options down to
// the server bootstrap.
package config

import (
	"fmt"
	"strings"

	"github.com/spf13/viper"

	"github.com/kiosk404/echosql/internal/options"
)

// Config is the running configuration structure of the echosql server.
type Config struct {
	*options.Options
}

// CreateConfigFromOptions wraps an already-populated Options in a Config.
func CreateConfigFromOptions(opts *options.Options) (*Config, error) {
	if errs := opts.Validate(); len(errs) > 0 {
		return nil, fmt.Errorf("invalid configuration: %v", errs)
	}
	return &Config{opts}, nil
}

// Load reads configFile (if it exists) into opts, then applies ECHOSQL_-
// prefixed environment variable overrides on top, viper's usual
// file-then-env precedence.
func Load(configFile string, opts *options.Options) error {
	v := viper.New()
	v.SetEnvPrefix("ECHOSQL")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			if _, notFound := err.(viper.ConfigFileNotFoundError); !notFound {
				return fmt.Errorf("failed to read config file %q: %w", configFile, err)
			}
		}
	}

	if err := v.Unmarshal(opts); err != nil {
		return fmt.Errorf("failed to unmarshal configuration: %w", err)
	}
	return nil
}
