package evm

import (
	"fmt"

	"github.com/eth2030/zkevm/log"
	"github.com/eth2030/zkevm/metrics"
)

// Config holds verifier settings.
type Config struct {
	// MaxSteps bounds the trace length; 0 means unbounded.
	MaxSteps int

	// Logger receives run outcomes. Nil uses the "evm" child of the default
	// logger.
	Logger *log.Logger

	// Metrics, when set, receives run and rejection counters.
	Metrics *metrics.Registry
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() Config {
	return Config{
		Logger: log.Default().Module("evm"),
	}
}

// Validate checks configuration values for correctness.
func (c *Config) Validate() error {
	if c.MaxSteps < 0 {
		return fmt.Errorf("config: invalid max steps: %d", c.MaxSteps)
	}
	return nil
}
