package config

import "time"

// Config is the root configuration structure for Meridian Hermes.
// It contains all configuration sections for the gateway server, routing,
// health probing, rate limiting, usage tracking, and telemetry.
type Config struct {
	// Server contains HTTP server configuration including listen address,
	// timeouts, and body limits.
	Server ServerConfig `yaml:"server"`

	// Paths locates the JSON configuration files the gateway loads at
	// startup (and reloads when watching is enabled).
	Paths PathsConfig `yaml:"paths"`

	// Health contains configuration for the background health prober.
	Health HealthConfig `yaml:"health"`

	// Breaker contains circuit breaker tuning shared by all providers.
	Breaker BreakerConfig `yaml:"breaker"`

	// Router contains configuration for the failover router.
	Router RouterConfig `yaml:"router"`

	// RateLimit contains configuration for the per-tenant rate limiter.
	RateLimit RateLimitConfig `yaml:"rate_limit"`

	// Usage selects the backend for tenant usage counters.
	Usage UsageConfig `yaml:"usage"`

	// Audit contains configuration for the request audit trail.
	Audit AuditConfig `yaml:"audit"`

	// Reload contains configuration for hot reloading of provider and
	// tenant files.
	Reload ReloadConfig `yaml:"reload"`

	// Telemetry contains configuration for logging and metrics.
	Telemetry TelemetryConfig `yaml:"telemetry"`
}

// ServerConfig contains configuration for the HTTP gateway server.
type ServerConfig struct {
	// ListenAddress is the address and port for the gateway to listen on.
	// Format: "host:port" (e.g., "0.0.0.0:3000").
	// Default: "0.0.0.0:3000"
	ListenAddress string `yaml:"listen_address"`

	// ReadTimeout is the maximum duration for reading the entire request,
	// including the body. A zero or negative value means no timeout.
	// Default: 30s
	ReadTimeout time.Duration `yaml:"read_timeout"`

	// WriteTimeout is the maximum duration before timing out writes of the
	// response. Must cover a full failover chain across providers.
	// Default: 120s
	WriteTimeout time.Duration `yaml:"write_timeout"`

	// IdleTimeout is the maximum amount of time to wait for the next request
	// when keep-alives are enabled. If IdleTimeout is zero, ReadTimeout is used.
	// Default: 120s
	IdleTimeout time.Duration `yaml:"idle_timeout"`

	// ShutdownTimeout is the maximum duration to wait for in-flight requests
	// to drain during graceful shutdown.
	// Default: 30s
	ShutdownTimeout time.Duration `yaml:"shutdown_timeout"`

	// MaxHeaderBytes controls the maximum number of bytes the server will
	// read parsing the request header's keys and values.
	// Default: 1048576 (1MB)
	MaxHeaderBytes int `yaml:"max_header_bytes"`

	// MaxBodyBytes is the maximum accepted request body size. Requests
	// with larger bodies are rejected before parsing.
	// Default: 10485760 (10MB)
	MaxBodyBytes int64 `yaml:"max_body_bytes"`

	// CORS contains Cross-Origin Resource Sharing configuration.
	CORS CORSConfig `yaml:"cors"`

	// TLS contains optional TLS listener configuration.
	TLS TLSConfig `yaml:"tls"`
}

// CORSConfig contains CORS (Cross-Origin Resource Sharing) configuration.
type CORSConfig struct {
	// Enabled controls whether CORS headers are emitted.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// AllowedOrigins is a list of allowed origins for CORS requests.
	// Use ["*"] to allow all origins.
	// Default: ["*"]
	AllowedOrigins []string `yaml:"allowed_origins"`

	// AllowedMethods is a list of allowed HTTP methods for CORS requests.
	// Default: ["GET", "POST", "OPTIONS"]
	AllowedMethods []string `yaml:"allowed_methods"`

	// AllowedHeaders is a list of allowed HTTP headers for CORS requests.
	// Default: ["Authorization", "Content-Type", "X-Request-ID"]
	AllowedHeaders []string `yaml:"allowed_headers"`

	// MaxAge is the maximum age (in seconds) for preflight request cache.
	// Default: 3600 (1 hour)
	MaxAge int `yaml:"max_age"`
}

// TLSConfig contains the optional TLS listener configuration.
type TLSConfig struct {
	// Enabled controls whether the server terminates TLS itself.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// CertFile is the path to the PEM-encoded certificate.
	CertFile string `yaml:"cert_file"`

	// KeyFile is the path to the PEM-encoded private key.
	KeyFile string `yaml:"key_file"`
}

// PathsConfig locates the JSON configuration files.
type PathsConfig struct {
	// ProvidersFile is the provider catalog.
	// Default: "config/providers.json"
	ProvidersFile string `yaml:"providers_file"`

	// TenantsDir is the directory of per-tenant JSON files.
	// Default: "config/tenants"
	TenantsDir string `yaml:"tenants_dir"`

	// PoliciesFile is the routing policy parameter file. Optional; when
	// absent the built-in policy defaults apply.
	// Default: "config/policies/routing.json"
	PoliciesFile string `yaml:"policies_file"`
}

// HealthConfig contains configuration for the background health prober.
type HealthConfig struct {
	// ProbeInterval is the pause between probe cycles.
	// Default: 300s
	ProbeInterval time.Duration `yaml:"probe_interval"`

	// ProbeTimeout is the deadline for a single provider probe.
	// Default: 5s
	ProbeTimeout time.Duration `yaml:"probe_timeout"`
}

// BreakerConfig contains circuit breaker tuning shared by all providers.
type BreakerConfig struct {
	// FailureThreshold is the number of consecutive failures that opens
	// a provider's circuit.
	// Default: 5
	FailureThreshold int `yaml:"failure_threshold"`

	// Cooldown is how long an open circuit blocks traffic before a
	// half-open trial request is allowed.
	// Default: 60s
	Cooldown time.Duration `yaml:"cooldown"`
}

// RouterConfig contains configuration for the failover router.
type RouterConfig struct {
	// AttemptTimeout is the per-provider attempt deadline. The router
	// moves to the next candidate when an attempt exceeds it.
	// Default: 15s
	AttemptTimeout time.Duration `yaml:"attempt_timeout"`
}

// RateLimitConfig contains configuration for the per-tenant rate limiter.
type RateLimitConfig struct {
	// Window is the fixed window duration.
	// Default: 60s
	Window time.Duration `yaml:"window"`

	// SweepSchedule is a cron expression for evicting expired windows.
	// Default: "@every 1m"
	SweepSchedule string `yaml:"sweep_schedule"`
}

// UsageConfig selects the backend for tenant usage counters.
type UsageConfig struct {
	// Backend is "memory" or "sqlite". The memory backend loses counters
	// on restart; sqlite persists them across restarts.
	// Default: "memory"
	Backend string `yaml:"backend"`

	// SQLitePath is the database file for the sqlite backend.
	// Default: "data/usage.db"
	SQLitePath string `yaml:"sqlite_path"`
}

// AuditConfig contains configuration for the request audit trail.
type AuditConfig struct {
	// Enabled controls whether routing outcomes are recorded.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// SQLitePath is the audit database file.
	// Default: "data/audit.db"
	SQLitePath string `yaml:"sqlite_path"`

	// AsyncBuffer is the size of the in-memory record queue. Records are
	// dropped (with a warning) when the queue is full.
	// Default: 1000
	AsyncBuffer int `yaml:"async_buffer"`

	// RetentionDays is how long records are kept before pruning.
	// Default: 30
	RetentionDays int `yaml:"retention_days"`

	// PruneSchedule is a cron expression for the retention pruner.
	// Default: "0 3 * * *" (daily at 03:00)
	PruneSchedule string `yaml:"prune_schedule"`
}

// ReloadConfig contains configuration for hot reloading.
type ReloadConfig struct {
	// Enabled controls whether provider and tenant files are watched for
	// changes and reloaded without a restart.
	// Default: false
	Enabled bool `yaml:"enabled"`

	// Debounce is the quiet period after a file event before the reload
	// fires, collapsing editor save storms into one reload.
	// Default: 200ms
	Debounce time.Duration `yaml:"debounce"`
}

// TelemetryConfig contains configuration for logging and metrics.
type TelemetryConfig struct {
	// Logging contains structured logging configuration.
	Logging LoggingConfig `yaml:"logging"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `yaml:"metrics"`
}

// LoggingConfig contains structured logging configuration.
type LoggingConfig struct {
	// Level is the minimum log level: "debug", "info", "warn", or "error".
	// Default: "info"
	Level string `yaml:"level"`

	// Format is "json" or "text".
	// Default: "json"
	Format string `yaml:"format"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled controls whether the metrics endpoint is served.
	// Default: true
	Enabled *bool `yaml:"enabled"`

	// Path is the metrics endpoint path.
	// Default: "/metrics"
	Path string `yaml:"path"`

	// Namespace is the metric name prefix.
	// Default: "hermes"
	Namespace string `yaml:"namespace"`
}
