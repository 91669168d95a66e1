package mirror

import "time"

// Config holds configuration for the background synchronizer.
type Config struct {
	// IntervalSeconds is the delay between reconciliation passes.
	IntervalSeconds int `mapstructure:"interval_seconds" default:"5"`
	// Enabled toggles the background synchronizer.
	Enabled bool `mapstructure:"enabled" default:"true"`
}

// Interval returns the configured tick interval as a duration.
func (c Config) Interval() time.Duration {
	return time.Duration(c.IntervalSeconds) * time.Second
}
