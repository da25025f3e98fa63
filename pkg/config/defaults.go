package config

import "time"

// Default values for configuration fields.
const (
	// Server defaults
	DefaultListenAddress   = "0.0.0.0:3000"
	DefaultReadTimeout     = 30 * time.Second
	DefaultWriteTimeout    = 120 * time.Second
	DefaultIdleTimeout     = 120 * time.Second
	DefaultShutdownTimeout = 30 * time.Second
	DefaultMaxHeaderBytes  = 1048576  // 1MB
	DefaultMaxBodyBytes    = 10485760 // 10MB

	// CORS defaults
	DefaultCORSEnabled = true
	DefaultCORSMaxAge  = 3600 // 1 hour

	// Path defaults
	DefaultProvidersFile = "config/providers.json"
	DefaultTenantsDir    = "config/tenants"
	DefaultPoliciesFile  = "config/policies/routing.json"

	// Health defaults
	DefaultProbeInterval = 300 * time.Second
	DefaultProbeTimeout  = 5 * time.Second

	// Breaker defaults
	DefaultFailureThreshold = 5
	DefaultBreakerCooldown  = 60 * time.Second

	// Router defaults
	DefaultAttemptTimeout = 15 * time.Second

	// Rate limit defaults
	DefaultRateLimitWindow = 60 * time.Second
	DefaultSweepSchedule   = "@every 1m"

	// Usage defaults
	DefaultUsageBackend    = "memory"
	DefaultUsageSQLitePath = "data/usage.db"

	// Audit defaults
	DefaultAuditEnabled       = false
	DefaultAuditSQLitePath    = "data/audit.db"
	DefaultAuditAsyncBuffer   = 1000
	DefaultAuditRetentionDays = 30
	DefaultAuditPruneSchedule = "0 3 * * *"

	// Reload defaults
	DefaultReloadEnabled  = false
	DefaultReloadDebounce = 200 * time.Millisecond

	// Telemetry defaults
	DefaultLoggingLevel     = "info"
	DefaultLoggingFormat    = "json"
	DefaultMetricsEnabled   = true
	DefaultMetricsPath      = "/metrics"
	DefaultMetricsNamespace = "hermes"
)

// boolPtr returns a pointer to b, for optional boolean fields.
func boolPtr(b bool) *bool {
	return &b
}

// ApplyDefaults fills in default values for any zero-valued configuration
// fields. It is idempotent and never overrides explicitly set values.
func ApplyDefaults(cfg *Config) {
	// Server
	if cfg.Server.ListenAddress == "" {
		cfg.Server.ListenAddress = DefaultListenAddress
	}
	if cfg.Server.ReadTimeout == 0 {
		cfg.Server.ReadTimeout = DefaultReadTimeout
	}
	if cfg.Server.WriteTimeout == 0 {
		cfg.Server.WriteTimeout = DefaultWriteTimeout
	}
	if cfg.Server.IdleTimeout == 0 {
		cfg.Server.IdleTimeout = DefaultIdleTimeout
	}
	if cfg.Server.ShutdownTimeout == 0 {
		cfg.Server.ShutdownTimeout = DefaultShutdownTimeout
	}
	if cfg.Server.MaxHeaderBytes == 0 {
		cfg.Server.MaxHeaderBytes = DefaultMaxHeaderBytes
	}
	if cfg.Server.MaxBodyBytes == 0 {
		cfg.Server.MaxBodyBytes = DefaultMaxBodyBytes
	}

	// CORS
	if cfg.Server.CORS.Enabled == nil {
		cfg.Server.CORS.Enabled = boolPtr(DefaultCORSEnabled)
	}
	if len(cfg.Server.CORS.AllowedOrigins) == 0 {
		cfg.Server.CORS.AllowedOrigins = []string{"*"}
	}
	if len(cfg.Server.CORS.AllowedMethods) == 0 {
		cfg.Server.CORS.AllowedMethods = []string{"GET", "POST", "OPTIONS"}
	}
	if len(cfg.Server.CORS.AllowedHeaders) == 0 {
		cfg.Server.CORS.AllowedHeaders = []string{"Authorization", "Content-Type", "X-Request-ID"}
	}
	if cfg.Server.CORS.MaxAge == 0 {
		cfg.Server.CORS.MaxAge = DefaultCORSMaxAge
	}

	// Paths
	if cfg.Paths.ProvidersFile == "" {
		cfg.Paths.ProvidersFile = DefaultProvidersFile
	}
	if cfg.Paths.TenantsDir == "" {
		cfg.Paths.TenantsDir = DefaultTenantsDir
	}
	if cfg.Paths.PoliciesFile == "" {
		cfg.Paths.PoliciesFile = DefaultPoliciesFile
	}

	// Health
	if cfg.Health.ProbeInterval == 0 {
		cfg.Health.ProbeInterval = DefaultProbeInterval
	}
	if cfg.Health.ProbeTimeout == 0 {
		cfg.Health.ProbeTimeout = DefaultProbeTimeout
	}

	// Breaker
	if cfg.Breaker.FailureThreshold == 0 {
		cfg.Breaker.FailureThreshold = DefaultFailureThreshold
	}
	if cfg.Breaker.Cooldown == 0 {
		cfg.Breaker.Cooldown = DefaultBreakerCooldown
	}

	// Router
	if cfg.Router.AttemptTimeout == 0 {
		cfg.Router.AttemptTimeout = DefaultAttemptTimeout
	}

	// Rate limit
	if cfg.RateLimit.Window == 0 {
		cfg.RateLimit.Window = DefaultRateLimitWindow
	}
	if cfg.RateLimit.SweepSchedule == "" {
		cfg.RateLimit.SweepSchedule = DefaultSweepSchedule
	}

	// Usage
	if cfg.Usage.Backend == "" {
		cfg.Usage.Backend = DefaultUsageBackend
	}
	if cfg.Usage.SQLitePath == "" {
		cfg.Usage.SQLitePath = DefaultUsageSQLitePath
	}

	// Audit
	if cfg.Audit.SQLitePath == "" {
		cfg.Audit.SQLitePath = DefaultAuditSQLitePath
	}
	if cfg.Audit.AsyncBuffer == 0 {
		cfg.Audit.AsyncBuffer = DefaultAuditAsyncBuffer
	}
	if cfg.Audit.RetentionDays == 0 {
		cfg.Audit.RetentionDays = DefaultAuditRetentionDays
	}
	if cfg.Audit.PruneSchedule == "" {
		cfg.Audit.PruneSchedule = DefaultAuditPruneSchedule
	}

	// Reload
	if cfg.Reload.Debounce == 0 {
		cfg.Reload.Debounce = DefaultReloadDebounce
	}

	// Telemetry
	if cfg.Telemetry.Logging.Level == "" {
		cfg.Telemetry.Logging.Level = DefaultLoggingLevel
	}
	if cfg.Telemetry.Logging.Format == "" {
		cfg.Telemetry.Logging.Format = DefaultLoggingFormat
	}
	if cfg.Telemetry.Metrics.Enabled == nil {
		cfg.Telemetry.Metrics.Enabled = boolPtr(DefaultMetricsEnabled)
	}
	if cfg.Telemetry.Metrics.Path == "" {
		cfg.Telemetry.Metrics.Path = DefaultMetricsPath
	}
	if cfg.Telemetry.Metrics.Namespace == "" {
		cfg.Telemetry.Metrics.Namespace = DefaultMetricsNamespace
	}
}

// DefaultConfig returns a configuration with all defaults applied.
func DefaultConfig() *Config {
	cfg := &Config{}
	ApplyDefaults(cfg)
	return cfg
}
