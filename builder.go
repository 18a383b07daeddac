package goAuthz

import (
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/MrEthical07/goAuthz/acl"
	"github.com/MrEthical07/goAuthz/internal/audit"
	"github.com/MrEthical07/goAuthz/internal/cache"
	"github.com/MrEthical07/goAuthz/internal/metrics"
	"github.com/MrEthical07/goAuthz/internal/policy"
	"github.com/MrEthical07/goAuthz/permission"
)

// Builder assembles an [Engine]. Configure it once during startup, call
// [Builder.Build], and discard it; a Builder is single-use and not safe for
// concurrent configuration.
type Builder struct {
	config Config

	redis   *redis.Client
	storage acl.Storage

	permissions []string
	predicates  []namedPredicate
	rules       []namedRule

	auditSink AuditSink

	built bool
}

type namedPredicate struct {
	name string
	fn   Predicate
}

type namedRule struct {
	operation string
	rule      Rule
}

// New creates a builder carrying the default configuration.
func New() *Builder {
	return &Builder{
		config: defaultConfig(),
	}
}

// WithConfig replaces the full configuration. Later With* calls still apply
// on top of it.
func (b *Builder) WithConfig(cfg Config) *Builder {
	b.config = cloneConfig(cfg)
	return b
}

// WithRedis persists ACL state in Redis under Config.Storage.RedisPrefix.
// Ignored when WithStorage provides an explicit backend.
func (b *Builder) WithRedis(client *redis.Client) *Builder {
	b.redis = client
	return b
}

// WithStorage sets an explicit ACL persistence backend. Takes precedence
// over WithRedis. Without either, the engine runs memory-only.
func (b *Builder) WithStorage(storage acl.Storage) *Builder {
	b.storage = storage
	return b
}

// WithAuditSink sets the destination for audit events. Audit must also be
// enabled via Config.Audit.Enabled.
func (b *Builder) WithAuditSink(sink AuditSink) *Builder {
	b.auditSink = sink
	return b
}

// WithPermissions registers custom permission names on top of the builtins.
// Each name is assigned the next free bit.
func (b *Builder) WithPermissions(names ...string) *Builder {
	b.permissions = append(b.permissions, names...)
	return b
}

// WithPredicate registers a named predicate for use in rule expressions.
func (b *Builder) WithPredicate(name string, fn Predicate) *Builder {
	b.predicates = append(b.predicates, namedPredicate{name: name, fn: fn})
	return b
}

// WithRule binds an authorization rule to an operation name. Operations
// without a rule are denied.
func (b *Builder) WithRule(operation string, rule Rule) *Builder {
	b.rules = append(b.rules, namedRule{operation: operation, rule: rule})
	return b
}

// WithMetricsEnabled toggles the in-process counters.
func (b *Builder) WithMetricsEnabled(enabled bool) *Builder {
	b.config.Metrics.Enabled = enabled
	return b
}

// WithLatencyHistograms toggles decision latency histograms. Implies nothing
// about counters; enable those separately.
func (b *Builder) WithLatencyHistograms(enabled bool) *Builder {
	b.config.Metrics.EnableLatencyHistograms = enabled
	return b
}

// Build validates the accumulated configuration, freezes the permission and
// predicate registries and the rule table, and returns a ready Engine. Any
// configuration defect fails here rather than surfacing as a runtime deny.
func (b *Builder) Build() (*Engine, error) {
	if b.built {
		return nil, errors.New("builder already used")
	}

	cfg := cloneConfig(b.config)
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	if len(b.rules) == 0 {
		return nil, errors.New("at least one rule must be provided")
	}

	// -------- PERMISSION REGISTRY --------
	permReg := permission.NewRegistry()
	for _, name := range b.permissions {
		if _, err := permReg.Register(name); err != nil {
			return nil, err
		}
	}
	permReg.Freeze()

	// -------- PREDICATE REGISTRY --------
	predReg := policy.NewRegistry()
	for _, p := range b.predicates {
		if err := predReg.Register(p.name, p.fn); err != nil {
			return nil, err
		}
	}
	predReg.Freeze()

	// -------- RULE TABLE --------
	rules := policy.NewRuleSet()
	for _, r := range b.rules {
		if err := rules.Register(r.operation, r.rule); err != nil {
			return nil, err
		}
	}
	rules.Freeze()
	if err := rules.Validate(predReg); err != nil {
		return nil, fmt.Errorf("rule validation: %w", err)
	}

	// -------- ACL STORE --------
	storage := b.storage
	if storage == nil && b.redis != nil {
		rs, err := acl.NewRedisStorage(b.redis, cfg.Storage.RedisPrefix)
		if err != nil {
			return nil, err
		}
		storage = rs
	}
	store := acl.NewStore(storage)

	decisions, err := cache.New(cfg.Cache.Size)
	if err != nil {
		return nil, err
	}

	engine := &Engine{
		config:      cfg,
		permissions: permReg,
		predicates:  predReg,
		rules:       rules,
		acl:         store,
		cache:       decisions,
		audit:       audit.NewDispatcher(auditDispatcherConfig(cfg.Audit), b.auditSink),
		metrics: metrics.New(metrics.Config{
			Enabled:       cfg.Metrics.Enabled,
			EnableLatency: cfg.Metrics.EnableLatencyHistograms,
		}),
	}
	engine.initFlows()

	b.built = true

	return engine, nil
}

func auditDispatcherConfig(cfg AuditConfig) audit.Config {
	return audit.Config{
		Enabled:    cfg.Enabled,
		BufferSize: cfg.BufferSize,
		DropIfFull: cfg.DropIfFull,
	}
}
