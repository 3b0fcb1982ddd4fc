package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const envPrefix = "GENRE"

// LoadConfig reads the optional config file, applies environment overrides and
// any flags that were set on the command line, and validates the result.
func LoadConfig(configFile string, flags *pflag.FlagSet) (*Config, error) {
	v := viper.New()

	v.SetDefault("listen_address", "127.0.0.1:5000")
	v.SetDefault("debug", false)
	v.SetDefault("max_concurrent", 4)
	v.SetDefault("inference.backend", BackendHTTP)
	v.SetDefault("inference.url", "http://127.0.0.1:8000/infer-genre")
	v.SetDefault("inference.timeout", 120*time.Second)
	v.SetDefault("inference.command", "")
	v.SetDefault("inference.args", []string{})

	v.SetEnvPrefix(envPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if f := flags.Lookup("debug"); f != nil {
			if err := v.BindPFlag("debug", f); err != nil {
				return nil, fmt.Errorf("error binding debug flag: %w", err)
			}
		}
		if f := flags.Lookup("listen"); f != nil {
			if err := v.BindPFlag("listen_address", f); err != nil {
				return nil, fmt.Errorf("error binding listen flag: %w", err)
			}
		}
	}

	if configFile != "" {
		v.SetConfigFile(configFile)
		v.SetConfigType("yaml")
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var configuration Config
	err := v.Unmarshal(&configuration, viper.DecodeHook(mapstructure.ComposeDecodeHookFunc(
		mapstructure.StringToTimeDurationHookFunc(),
		mapstructure.StringToSliceHookFunc(","),
	)))
	if err != nil {
		return nil, fmt.Errorf("error unmarshaling config: %w", err)
	}

	if err := validate(&configuration); err != nil {
		return nil, err
	}
	return &configuration, nil
}

func validate(c *Config) error {
	if c.ListenAddress == "" {
		return errors.New("listen_address is required")
	}
	if c.MaxConcurrent <= 0 {
		return fmt.Errorf("max_concurrent must be positive, got %d", c.MaxConcurrent)
	}
	if c.Inference.Timeout < 0 {
		return fmt.Errorf("inference.timeout must not be negative, got %s", c.Inference.Timeout)
	}
	switch c.Inference.Backend {
	case BackendHTTP:
		if c.Inference.URL == "" {
			return errors.New("inference.url is required for the http backend")
		}
	case BackendCommand:
		if c.Inference.Command == "" {
			return errors.New("inference.command is required for the command backend")
		}
	default:
		return fmt.Errorf("unknown inference.backend %q", c.Inference.Backend)
	}
	return nil
}
