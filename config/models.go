package config

import "time"

const (
	BackendHTTP    = "http"
	BackendCommand = "command"
)

// InferenceConfig describes how to reach the genre inference collaborator.
type InferenceConfig struct {
	Backend string        `mapstructure:"backend"`
	URL     string        `mapstructure:"url"`
	Timeout time.Duration `mapstructure:"timeout"`
	Command string        `mapstructure:"command"`
	Args    []string      `mapstructure:"args"`
}

// Config holds the application configuration.
type Config struct {
	ListenAddress string          `mapstructure:"listen_address"`
	Debug         bool            `mapstructure:"debug"`
	MaxConcurrent int             `mapstructure:"max_concurrent"`
	Inference     InferenceConfig `mapstructure:"inference"`
}
