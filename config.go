package goAuthz

import "errors"

// Config tunes the engine. Zero values fall back to the defaults produced by
// defaultConfig; populate a Config during initialization and treat it as
// immutable afterwards.
type Config struct {
	Cache   CacheConfig
	Audit   AuditConfig
	Metrics MetricsConfig
	Policy  PolicyConfig
	Storage StorageConfig
}

// CacheConfig sizes the bounded decision cache.
type CacheConfig struct {
	Size int
}

// AuditConfig tunes the asynchronous audit dispatcher.
type AuditConfig struct {
	Enabled    bool
	BufferSize int
	DropIfFull bool
}

// MetricsConfig toggles the in-process counters and latency histograms.
type MetricsConfig struct {
	Enabled                 bool
	EnableLatencyHistograms bool
}

// PolicyConfig holds decision-layer settings that are not per-operation.
type PolicyConfig struct {
	// AdministrativeAuthorities may mutate any ACL regardless of holding the
	// Admin permission bit on the target resource.
	AdministrativeAuthorities []string
}

// StorageConfig holds settings for the optional ACL persistence backend.
type StorageConfig struct {
	RedisPrefix string
}

// DefaultConfig returns the configuration [New] starts from. Useful as a
// base when only a few fields need overriding via [Builder.WithConfig].
func DefaultConfig() Config {
	return defaultConfig()
}

// StrictConfig returns a preset for deployments that must not lose audit
// events: the dispatcher blocks under backpressure instead of dropping, and
// metrics with latency histograms are on.
func StrictConfig() Config {
	cfg := defaultConfig()
	cfg.Audit.Enabled = true
	cfg.Audit.DropIfFull = false
	cfg.Metrics.Enabled = true
	cfg.Metrics.EnableLatencyHistograms = true
	return cfg
}

func defaultConfig() Config {
	return Config{
		Cache: CacheConfig{
			Size: 10000,
		},
		Audit: AuditConfig{
			Enabled:    false,
			BufferSize: 1024,
			DropIfFull: true,
		},
		Metrics: MetricsConfig{
			Enabled:                 false,
			EnableLatencyHistograms: false,
		},
		Policy: PolicyConfig{
			AdministrativeAuthorities: []string{"ROLE_ADMIN"},
		},
		Storage: StorageConfig{
			RedisPrefix: "authz",
		},
	}
}

func cloneConfig(cfg Config) Config {
	out := cfg
	if len(cfg.Policy.AdministrativeAuthorities) > 0 {
		out.Policy.AdministrativeAuthorities = append(
			[]string(nil), cfg.Policy.AdministrativeAuthorities...)
	}
	return out
}

// Validate checks internal consistency. Build calls it; direct use is only
// needed when a Config is assembled from external input.
func (c *Config) Validate() error {
	if c.Cache.Size <= 0 {
		return errors.New("Cache Size must be > 0")
	}
	if c.Audit.Enabled && c.Audit.BufferSize <= 0 {
		return errors.New("Audit BufferSize must be > 0 when audit is enabled")
	}
	for _, a := range c.Policy.AdministrativeAuthorities {
		if a == "" {
			return errors.New("Policy AdministrativeAuthorities must not contain empty entries")
		}
	}
	if c.Storage.RedisPrefix == "" {
		return errors.New("Storage RedisPrefix must not be empty")
	}
	return nil
}
