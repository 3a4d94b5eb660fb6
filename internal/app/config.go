package app

import "errors"

// Config holds all the necessary configuration for an App instance to run.
type Config struct {
	// WorkflowPath points at the definition to run (.hcl, .json or .yaml).
	WorkflowPath string
	// WorkflowsDir holds additional definitions resolvable by composition
	// nodes. Empty disables the store.
	WorkflowsDir string

	// Params are the run's input parameters.
	Params map[string]any
	// Env is the run's environment value set.
	Env map[string]string

	LogFormat string
	LogLevel  string
	// RandSeed fixes the run's random source when non-zero.
	RandSeed uint64
}

// NewConfig validates a Config.
func NewConfig(cfg Config) (*Config, error) {
	if cfg.WorkflowPath == "" {
		return nil, errors.New("WorkflowPath is a required configuration field and cannot be empty")
	}
	return &cfg, nil
}
