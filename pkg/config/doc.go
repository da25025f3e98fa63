// Package config loads and validates the gateway configuration.
//
// Configuration comes from three layers, applied in order:
//
//  1. A YAML file describing the server, router, limiter, and telemetry
//     sections (optional; defaults cover a local development setup).
//  2. Environment variable overrides, both namespaced (HERMES_*) and a
//     handful of short aliases (PORT, LOG_LEVEL, HEALTH_CHECK_INTERVAL,
//     RATE_LIMIT_WINDOW_MS).
//  3. JSON data files: the provider catalog (providers.json), one file
//     per tenant (tenants/<id>.json), and optional per-policy parameter
//     overrides (policies/routing.json).
//
// API keys never appear in any file. The provider catalog names an
// environment variable per provider (api_key_env) and the key is read
// from the process environment at load time.
//
// When reloading is enabled, a FileWatcher observes the provider catalog
// and the tenant directory and re-runs the JSON loaders after a
// debounced change burst. The YAML layer is never hot reloaded.
package config
