package reconcile

import "time"

// Config holds the ingestion run settings.
type Config struct {
	// Concurrency is the number of cinema batches reconciled at once.
	Concurrency int `mapstructure:"concurrency" default:"4"`
	// LockTTLSeconds bounds how long a cinema lock is held if the holder dies.
	LockTTLSeconds int `mapstructure:"lock_ttl_seconds" default:"120"`
	// Archive moves processed storage batches to the archive prefix.
	Archive bool `mapstructure:"archive" default:"true"`
	// StatsCacheSeconds is how long per-cinema stats are cached. 0 disables caching.
	StatsCacheSeconds int `mapstructure:"stats_cache_seconds" default:"60"`
}

// LockTTL returns LockTTLSeconds as a duration, falling back to two minutes.
func (c Config) LockTTL() time.Duration {
	if c.LockTTLSeconds <= 0 {
		return 2 * time.Minute
	}
	return time.Duration(c.LockTTLSeconds) * time.Second
}

// StatsCacheTTL returns StatsCacheSeconds as a duration.
func (c Config) StatsCacheTTL() time.Duration {
	if c.StatsCacheSeconds <= 0 {
		return 0
	}
	return time.Duration(c.StatsCacheSeconds) * time.Second
}
