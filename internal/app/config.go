package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	Path string // .hcl declaration file or directory

	LogFormat string
	LogLevel  string
	// Strict promotes connect-time warnings to a failing exit status.
	Strict bool
}

func NewConfig(cfg Config) (*Config, error) {
	if cfg.Path == "" {
		return nil, errors.New("Path is a required configuration field and cannot be empty")
	}

	return &cfg, nil
}
