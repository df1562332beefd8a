package config

import (
	"fmt"
	"time"

	"timberlogs/src/internal/core"
)

// DefaultURL is the hosted ingestion service.
const DefaultURL = "https://timberlogs-ingest.enaboapps.workers.dev"

const (
	DefaultBatchSize       = 10
	DefaultFlushIntervalMS = 5000
	DefaultTimeoutSeconds  = 30
	DefaultMaxRetries      = 3
	DefaultInitialDelayMS  = 1000
	DefaultMaxDelayMS      = 30000
)

// RetryOptions configures the exponential backoff applied to failed
// submissions.
type RetryOptions struct {
	MaxRetries     int   `toml:"max_retries"`
	InitialDelayMS int64 `toml:"initial_delay_ms"`
	MaxDelayMS     int64 `toml:"max_delay_ms"`
}

// InitialDelay returns the first backoff wait as a duration.
func (r RetryOptions) InitialDelay() time.Duration {
	return time.Duration(r.InitialDelayMS) * time.Millisecond
}

// MaxDelay returns the backoff cap as a duration.
func (r RetryOptions) MaxDelay() time.Duration {
	return time.Duration(r.MaxDelayMS) * time.Millisecond
}

// ClientOptions configures a shipping client. Source, Environment and
// APIKey are required; everything else falls back to defaults via
// Normalize. UserID, SessionID and Dataset seed the client's mutable
// default context.
type ClientOptions struct {
	Source      string           `toml:"source"`
	Environment core.Environment `toml:"environment"`
	APIKey      string           `toml:"api_key"`
	URL         string           `toml:"url"`
	Version     string           `toml:"version"`

	UserID    string `toml:"user_id"`
	SessionID string `toml:"session_id"`
	Dataset   string `toml:"dataset"`

	BatchSize       int          `toml:"batch_size"`
	FlushIntervalMS int64        `toml:"flush_interval_ms"`
	MinLevel        core.Level   `toml:"min_level"`
	TimeoutSeconds  int64        `toml:"timeout_seconds"`
	Retry           RetryOptions `toml:"retry"`

	// Invoked with the terminal error of a failed background flush.
	// Not loadable from file.
	OnError func(error) `toml:"-"`
}

// Normalize fills unset fields with defaults. Called by Validate, so
// explicit use is only needed when inspecting options before validation.
func (o *ClientOptions) Normalize() {
	if o.URL == "" {
		o.URL = DefaultURL
	}
	if o.BatchSize == 0 {
		o.BatchSize = DefaultBatchSize
	}
	if o.FlushIntervalMS == 0 {
		o.FlushIntervalMS = DefaultFlushIntervalMS
	}
	if o.MinLevel == "" {
		o.MinLevel = core.LevelDebug
	}
	if o.TimeoutSeconds == 0 {
		o.TimeoutSeconds = DefaultTimeoutSeconds
	}
	if o.Retry.MaxRetries == 0 && o.Retry.InitialDelayMS == 0 && o.Retry.MaxDelayMS == 0 {
		o.Retry.MaxRetries = DefaultMaxRetries
	}
	if o.Retry.InitialDelayMS == 0 {
		o.Retry.InitialDelayMS = DefaultInitialDelayMS
	}
	if o.Retry.MaxDelayMS == 0 {
		o.Retry.MaxDelayMS = DefaultMaxDelayMS
	}
}

// Validate normalizes the options and checks the required fields.
func (o *ClientOptions) Validate() error {
	o.Normalize()

	if o.Source == "" {
		return fmt.Errorf("client requires 'source'")
	}
	if o.APIKey == "" {
		return fmt.Errorf("client requires 'api_key'")
	}
	if !o.Environment.Known() {
		return fmt.Errorf("invalid environment %q (expected development, staging or production)", o.Environment)
	}
	if !o.MinLevel.Known() {
		return fmt.Errorf("invalid min_level %q", o.MinLevel)
	}
	if o.BatchSize < 1 {
		return fmt.Errorf("batch_size must be positive, got %d", o.BatchSize)
	}
	if o.FlushIntervalMS < 1 {
		return fmt.Errorf("flush_interval_ms must be positive, got %d", o.FlushIntervalMS)
	}
	if o.Retry.MaxRetries < 0 {
		return fmt.Errorf("retry.max_retries must not be negative, got %d", o.Retry.MaxRetries)
	}
	if o.Retry.InitialDelayMS < 1 || o.Retry.MaxDelayMS < o.Retry.InitialDelayMS {
		return fmt.Errorf("retry delays invalid: initial %dms, max %dms", o.Retry.InitialDelayMS, o.Retry.MaxDelayMS)
	}
	return nil
}

// FlushInterval returns the background flush period as a duration.
func (o *ClientOptions) FlushInterval() time.Duration {
	return time.Duration(o.FlushIntervalMS) * time.Millisecond
}

// Timeout returns the per-request HTTP timeout as a duration.
func (o *ClientOptions) Timeout() time.Duration {
	return time.Duration(o.TimeoutSeconds) * time.Second
}
