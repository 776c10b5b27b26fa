package engine

import (
	"fmt"
	"time"

	"github.com/lakesift/lakesift/internal/common"
	"github.com/lakesift/lakesift/internal/rules"
	"github.com/lakesift/lakesift/internal/scan"
	"github.com/lakesift/lakesift/internal/service"
)

// Config holds configuration options for the classification engine.
type Config struct {
	// CustomRules are merged with the built-in rules at construction.
	// A name collision with a built-in is an error.
	CustomRules []rules.Definition
	// TagPrefix is prepended to rule names when deriving tags. Empty
	// means bare rule names.
	TagPrefix string
	// Threshold is the minimum match frequency for a column to be
	// proposed for tagging. Must be in (0, 1].
	Threshold float64
	// SampleSize caps rows read per table; 0 reads whole tables.
	SampleSize int
	// Workers bounds concurrent table work; 0 uses the default.
	Workers int
	// TableTimeout bounds the wall time spent scanning a single table;
	// 0 uses the default.
	TableTimeout time.Duration
	// Retry controls how transient sampling failures are retried.
	Retry service.RetryOptions
}

// DefaultConfig returns the default configuration.
func DefaultConfig() Config {
	return Config{
		TagPrefix:    "dx",
		Threshold:    0.95,
		SampleSize:   scan.DefaultSampleSize,
		Workers:      scan.DefaultWorkers,
		TableTimeout: scan.DefaultTableTimeout,
	}
}

// Validate rejects configurations no run could honor. It is called
// before any I/O happens.
func (c Config) Validate() error {
	if c.Threshold <= 0 || c.Threshold > 1 {
		return fmt.Errorf("%w: threshold must be in (0, 1], got %v", common.ErrInvalidConfig, c.Threshold)
	}
	if c.SampleSize < 0 {
		return fmt.Errorf("%w: sample size cannot be negative, got %d", common.ErrInvalidConfig, c.SampleSize)
	}
	if c.Workers < 0 {
		return fmt.Errorf("%w: workers cannot be negative, got %d", common.ErrInvalidConfig, c.Workers)
	}
	if c.TableTimeout < 0 {
		return fmt.Errorf("%w: table timeout cannot be negative, got %v", common.ErrInvalidConfig, c.TableTimeout)
	}
	return nil
}
