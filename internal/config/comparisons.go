package config

import (
	"fmt"
	"time"

	"github.com/JaimeStill/mandate/pkg/settings"
)

const (
	EnvComparisonsJobTTL = "MANDATE_COMPARISONS_JOB_TTL"
	EnvComparisonsStore  = "MANDATE_COMPARISONS_STORE"

	StoreRedis  = "redis"
	StoreMemory = "memory"
)

// ComparisonsConfig holds settings for comparison job records.
type ComparisonsConfig struct {
	JobTTL string `toml:"job_ttl"`
	Store  string `toml:"store"`
}

func (c *ComparisonsConfig) JobTTLDuration() time.Duration {
	return settings.Duration(c.JobTTL)
}

func (c *ComparisonsConfig) Finalize() error {
	settings.Default(&c.JobTTL, "1h")
	settings.Default(&c.Store, StoreRedis)
	settings.String(&c.JobTTL, EnvComparisonsJobTTL)
	settings.String(&c.Store, EnvComparisonsStore)
	return c.validate()
}

func (c *ComparisonsConfig) Merge(overlay *ComparisonsConfig) {
	settings.Overlay(&c.JobTTL, overlay.JobTTL)
	settings.Overlay(&c.Store, overlay.Store)
}

func (c *ComparisonsConfig) validate() error {
	d, err := time.ParseDuration(c.JobTTL)
	if err != nil {
		return fmt.Errorf("invalid job_ttl: %w", err)
	}
	if d <= 0 {
		return fmt.Errorf("job_ttl must be positive")
	}
	if c.Store != StoreRedis && c.Store != StoreMemory {
		return fmt.Errorf("store must be %q or %q: got %q", StoreRedis, StoreMemory, c.Store)
	}
	return nil
}
