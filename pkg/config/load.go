package config

import (
	"fmt"
	"net"
	"os"
	"strconv"
	"time"

	"gopkg.in/yaml.v3"
)

// LoadConfig loads configuration from a YAML file at the specified path.
// It applies default values, validates the configuration, and returns any
// errors. An empty path yields the default configuration; a missing file
// at a non-empty path is an error.
func LoadConfig(path string) (*Config, error) {
	var cfg Config

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read configuration file %q: %w", path, err)
		}
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("failed to parse configuration file %q: %w", path, err)
		}
	}

	ApplyDefaults(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	return &cfg, nil
}

// LoadConfigWithEnvOverrides loads configuration from a YAML file and applies
// environment variable overrides. Environment variables follow the naming
// convention HERMES_SECTION_FIELD (e.g., HERMES_SERVER_LISTEN_ADDRESS), plus
// a handful of short aliases (PORT, LOG_LEVEL, HEALTH_CHECK_INTERVAL,
// RATE_LIMIT_WINDOW_MS). Environment variables always take precedence over
// file-based configuration.
//
// The loading sequence is:
// 1. Load YAML from file
// 2. Apply default values
// 3. Apply environment variable overrides
// 4. Validate final configuration
func LoadConfigWithEnvOverrides(path string) (*Config, error) {
	cfg, err := LoadConfig(path)
	if err != nil {
		return nil, err
	}

	applyEnvOverrides(cfg)

	if err := Validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed after environment overrides: %w", err)
	}

	return cfg, nil
}

// applyEnvOverrides applies environment variable overrides to the
// configuration. The short aliases are applied first so the namespaced
// HERMES_* variables win when both are set.
func applyEnvOverrides(cfg *Config) {
	// Short aliases
	if val := os.Getenv("PORT"); val != "" {
		if _, err := strconv.Atoi(val); err == nil {
			host, _, splitErr := net.SplitHostPort(cfg.Server.ListenAddress)
			if splitErr != nil {
				host = "0.0.0.0"
			}
			cfg.Server.ListenAddress = net.JoinHostPort(host, val)
		}
	}
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("HEALTH_CHECK_INTERVAL"); val != "" {
		if ms, err := strconv.Atoi(val); err == nil && ms > 0 {
			cfg.Health.ProbeInterval = time.Duration(ms) * time.Millisecond
		}
	}
	if val := os.Getenv("RATE_LIMIT_WINDOW_MS"); val != "" {
		if ms, err := strconv.Atoi(val); err == nil && ms > 0 {
			cfg.RateLimit.Window = time.Duration(ms) * time.Millisecond
		}
	}

	// Server overrides
	if val := os.Getenv("HERMES_SERVER_LISTEN_ADDRESS"); val != "" {
		cfg.Server.ListenAddress = val
	}
	if val := os.Getenv("HERMES_SERVER_READ_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ReadTimeout = d
		}
	}
	if val := os.Getenv("HERMES_SERVER_WRITE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.WriteTimeout = d
		}
	}
	if val := os.Getenv("HERMES_SERVER_SHUTDOWN_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Server.ShutdownTimeout = d
		}
	}
	if val := os.Getenv("HERMES_SERVER_MAX_BODY_BYTES"); val != "" {
		if i, err := strconv.ParseInt(val, 10, 64); err == nil {
			cfg.Server.MaxBodyBytes = i
		}
	}

	// Path overrides
	if val := os.Getenv("HERMES_PATHS_PROVIDERS_FILE"); val != "" {
		cfg.Paths.ProvidersFile = val
	}
	if val := os.Getenv("HERMES_PATHS_TENANTS_DIR"); val != "" {
		cfg.Paths.TenantsDir = val
	}
	if val := os.Getenv("HERMES_PATHS_POLICIES_FILE"); val != "" {
		cfg.Paths.PoliciesFile = val
	}

	// Health overrides
	if val := os.Getenv("HERMES_HEALTH_PROBE_INTERVAL"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Health.ProbeInterval = d
		}
	}
	if val := os.Getenv("HERMES_HEALTH_PROBE_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Health.ProbeTimeout = d
		}
	}

	// Breaker overrides
	if val := os.Getenv("HERMES_BREAKER_FAILURE_THRESHOLD"); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			cfg.Breaker.FailureThreshold = i
		}
	}
	if val := os.Getenv("HERMES_BREAKER_COOLDOWN"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Breaker.Cooldown = d
		}
	}

	// Router overrides
	if val := os.Getenv("HERMES_ROUTER_ATTEMPT_TIMEOUT"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.Router.AttemptTimeout = d
		}
	}

	// Rate limit overrides
	if val := os.Getenv("HERMES_RATE_LIMIT_WINDOW"); val != "" {
		if d, err := time.ParseDuration(val); err == nil {
			cfg.RateLimit.Window = d
		}
	}

	// Usage overrides
	if val := os.Getenv("HERMES_USAGE_BACKEND"); val != "" {
		cfg.Usage.Backend = val
	}
	if val := os.Getenv("HERMES_USAGE_SQLITE_PATH"); val != "" {
		cfg.Usage.SQLitePath = val
	}

	// Audit overrides
	if val := os.Getenv("HERMES_AUDIT_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Audit.Enabled = b
		}
	}
	if val := os.Getenv("HERMES_AUDIT_SQLITE_PATH"); val != "" {
		cfg.Audit.SQLitePath = val
	}

	// Reload overrides
	if val := os.Getenv("HERMES_RELOAD_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Reload.Enabled = b
		}
	}

	// Telemetry overrides
	if val := os.Getenv("HERMES_LOGGING_LEVEL"); val != "" {
		cfg.Telemetry.Logging.Level = val
	}
	if val := os.Getenv("HERMES_LOGGING_FORMAT"); val != "" {
		cfg.Telemetry.Logging.Format = val
	}
	if val := os.Getenv("HERMES_METRICS_ENABLED"); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			cfg.Telemetry.Metrics.Enabled = boolPtr(b)
		}
	}
}
