// Package config holds the trainer CLI configuration.
package config

import (
	"fmt"
	"strings"
)

// Config collects everything the train command needs.
type Config struct {
	DataDir    string // directory with CIFAR-10 binary batches
	MaxTrain   int    // cap on training examples (0 = all)
	MaxTest    int    // cap on test examples (0 = all)
	SubtractMean bool // subtract the training mean image
	AppendBias   bool // append a constant-1 bias feature

	LearningRate float64
	Reg          float64
	Iterations   int
	BatchSize    int
	Seed         int64
	LRDecay      float64
	DecayEvery   int

	LogLevel  string // DEBUG, INFO, WARN, ERROR
	LogFormat string // console or json
}

// Validate checks the configuration before training starts.
func (c *Config) Validate() error {
	if c.DataDir == "" {
		return fmt.Errorf("data directory is required")
	}
	if c.LearningRate <= 0 {
		return fmt.Errorf("invalid learning rate: %v (must be > 0)", c.LearningRate)
	}
	if c.Reg < 0 {
		return fmt.Errorf("invalid regularization strength: %v (must be >= 0)", c.Reg)
	}
	if c.Iterations <= 0 {
		return fmt.Errorf("invalid iterations: %d (must be > 0)", c.Iterations)
	}
	if c.BatchSize <= 0 {
		return fmt.Errorf("invalid batch size: %d (must be > 0)", c.BatchSize)
	}
	if c.MaxTrain < 0 || c.MaxTest < 0 {
		return fmt.Errorf("sample caps must be >= 0")
	}
	if c.DecayEvery < 0 {
		return fmt.Errorf("invalid decay interval: %d (must be >= 0)", c.DecayEvery)
	}
	if c.DecayEvery > 0 && (c.LRDecay <= 0 || c.LRDecay > 1) {
		return fmt.Errorf("invalid learning rate decay: %v (must be in (0, 1])", c.LRDecay)
	}

	switch strings.ToUpper(c.LogLevel) {
	case "", "DEBUG", "INFO", "WARN", "ERROR":
	default:
		return fmt.Errorf("invalid log level: %q", c.LogLevel)
	}
	switch strings.ToLower(c.LogFormat) {
	case "", "console", "json":
	default:
		return fmt.Errorf("invalid log format: %q (console or json)", c.LogFormat)
	}

	return nil
}
