package main

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/spf13/cobra"

	"meridian-hq/hermes/pkg/audit"
	"meridian-hq/hermes/pkg/breaker"
	"meridian-hq/hermes/pkg/cli"
	"meridian-hq/hermes/pkg/config"
	"meridian-hq/hermes/pkg/health"
	"meridian-hq/hermes/pkg/limits/ratelimit"
	"meridian-hq/hermes/pkg/policy"
	"meridian-hq/hermes/pkg/providerfactory"
	"meridian-hq/hermes/pkg/router"
	"meridian-hq/hermes/pkg/server"
	"meridian-hq/hermes/pkg/telemetry/logging"
	"meridian-hq/hermes/pkg/telemetry/metrics"
	"meridian-hq/hermes/pkg/tenant"
)

var runFlags struct {
	listenAddress string
	logLevel      string
	dryRun        bool
}

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Start the Hermes gateway",
	Long: `Start the Hermes gateway with the specified configuration.

The gateway listens on the configured address, authenticates tenants by
API key, and routes chat completion requests across the configured
providers with failover.

Examples:
  # Start with defaults
  hermes run

  # Start with a custom config
  hermes run --config /etc/hermes/config.yaml

  # Override listen address
  hermes run --listen 0.0.0.0:8080

  # Validate config and data files without starting
  hermes run --dry-run`,
	RunE: runServer,
}

func init() {
	rootCmd.AddCommand(runCmd)

	runCmd.Flags().StringVarP(&runFlags.listenAddress, "listen", "l", "", "override listen address")
	runCmd.Flags().StringVar(&runFlags.logLevel, "log-level", "", "override log level (debug, info, warn, error)")
	runCmd.Flags().BoolVar(&runFlags.dryRun, "dry-run", false, "validate config without starting the gateway")
}

func runServer(cmd *cobra.Command, args []string) error {
	cfg, err := config.LoadConfigWithEnvOverrides(cfgFile)
	if err != nil {
		return cli.NewConfigError("", fmt.Sprintf("failed to load config: %v", err))
	}

	// Flag overrides beat both file and environment.
	if runFlags.listenAddress != "" {
		cfg.Server.ListenAddress = runFlags.listenAddress
	}
	if runFlags.logLevel != "" {
		cfg.Telemetry.Logging.Level = runFlags.logLevel
	}

	if _, err := logging.Setup(cfg.Telemetry.Logging, nil); err != nil {
		return err
	}

	// Data files
	providerConfigs, err := config.LoadProviders(cfg.Paths.ProvidersFile)
	if err != nil {
		return err
	}
	tenants, err := config.LoadTenants(cfg.Paths.TenantsDir)
	if err != nil {
		return err
	}
	policyParams, err := config.LoadPolicyParams(cfg.Paths.PoliciesFile)
	if err != nil {
		return err
	}

	if runFlags.dryRun {
		fmt.Printf("configuration valid: %d providers, %d tenants\n",
			len(providerConfigs), len(tenants))
		return nil
	}

	slog.Info("starting hermes",
		"version", Version,
		"providers", len(providerConfigs),
		"tenants", len(tenants),
	)

	// Metrics
	collector := metrics.NewCollector(&cfg.Telemetry.Metrics, nil)

	// Providers
	manager := providerfactory.NewManager()
	if err := manager.Load(providerConfigs); err != nil {
		slog.Warn("some providers failed to initialize", "error", err)
	}
	if manager.Count() == 0 {
		return fmt.Errorf("no providers initialized")
	}
	defer manager.Close()

	// Health and breakers
	tracker := health.NewTracker()
	breakers := breaker.NewSet(cfg.Breaker.FailureThreshold, cfg.Breaker.Cooldown)

	prober := health.NewProber(manager, tracker, cfg.Health.ProbeInterval)
	prober.OnSample = func(provider string, sample health.Sample, agg health.Aggregate) {
		collector.RecordProbe(provider, string(sample.Status))
		collector.SetProviderHealth(provider, agg.Uptime, agg.AvgLatencyMS)
	}

	// Tenants and usage
	var store tenant.UsageStore
	switch cfg.Usage.Backend {
	case "sqlite":
		store, err = tenant.NewSQLiteStore(cfg.Usage.SQLitePath)
		if err != nil {
			return fmt.Errorf("failed to open usage store: %w", err)
		}
	default:
		store = tenant.NewMemoryStore()
	}

	registry := tenant.NewRegistry(store)
	if err := registry.Replace(tenants); err != nil {
		return fmt.Errorf("failed to load tenants: %w", err)
	}
	defer registry.Close()

	// Rate limiting
	limiter := ratelimit.NewLimiter(cfg.RateLimit.Window)
	sweeper := ratelimit.NewSweeper(limiter, cfg.RateLimit.SweepSchedule)
	if err := sweeper.Start(); err != nil {
		return err
	}
	defer sweeper.Stop()

	// Audit trail
	var recorder *audit.Recorder
	var pruner *audit.Pruner
	if cfg.Audit.Enabled {
		auditStore, err := audit.NewSQLiteStore(&audit.SQLiteConfig{
			Path: cfg.Audit.SQLitePath,
		})
		if err != nil {
			return fmt.Errorf("failed to open audit store: %w", err)
		}
		defer auditStore.Close()

		recorder = audit.NewRecorder(auditStore, &audit.RecorderConfig{
			AsyncBuffer: cfg.Audit.AsyncBuffer,
		})
		defer recorder.Close()

		pruner = audit.NewPruner(auditStore, &audit.PrunerConfig{
			RetentionDays: cfg.Audit.RetentionDays,
			Schedule:      cfg.Audit.PruneSchedule,
		})
		if err := pruner.Start(); err != nil {
			return err
		}
		defer pruner.Stop()
	}

	// Routing
	engine := policy.NewEngine(policyParams)
	rt := router.New(manager, breakers, tracker, engine, router.Options{
		AttemptTimeout: cfg.Router.AttemptTimeout,
		Collector:      collector,
	})

	// Background work stops when a shutdown signal cancels this context.
	base, cancel := context.WithCancel(context.Background())
	defer cancel()
	ctx, sigChan := cli.ShutdownContext(base)

	prober.Start(ctx)

	// Hot reload
	var watcher *config.FileWatcher
	if cfg.Reload.Enabled {
		watcher, err = config.NewFileWatcher(
			[]string{cfg.Paths.ProvidersFile, cfg.Paths.TenantsDir},
			cfg.Reload.Debounce,
			nil,
		)
		if err != nil {
			return err
		}
		go func() {
			reload := func() error {
				return reloadDataFiles(cfg, manager, registry)
			}
			if err := watcher.Watch(ctx, reload); err != nil {
				slog.Error("configuration watcher exited", "error", err)
			}
		}()
	}

	// HTTP server
	srv := server.New(cfg, server.Deps{
		Manager:   manager,
		Tracker:   tracker,
		Breakers:  breakers,
		Registry:  registry,
		Limiter:   limiter,
		Router:    rt,
		Collector: collector,
		Recorder:  recorder,
		Version:   Version,
	})

	errChan := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil {
			errChan <- err
		}
	}()

	select {
	case err := <-errChan:
		return cli.NewCommandError("run", err)
	case sig := <-sigChan:
		slog.Info("shutdown signal received", "signal", sig.String())
	}

	// Shutdown order: background work first, then drain the listener.
	// The deferred closes release stores and providers afterwards.
	prober.Stop()
	if watcher != nil {
		if err := watcher.Stop(); err != nil {
			slog.Warn("watcher stop failed", "error", err)
		}
	}

	if err := srv.Shutdown(context.Background()); err != nil {
		slog.Error("shutdown failed", "error", err)
		return cli.NewCommandError("run", err)
	}

	slog.Info("gateway stopped")
	return nil
}

// reloadDataFiles re-reads the provider catalog and tenant directory and
// installs whatever loads cleanly. A broken file leaves the previous
// state in place for that half.
func reloadDataFiles(cfg *config.Config, manager *providerfactory.Manager, registry *tenant.Registry) error {
	providerConfigs, err := config.LoadProviders(cfg.Paths.ProvidersFile)
	if err != nil {
		slog.Error("provider reload failed, keeping previous catalog", "error", err)
	} else if err := manager.Load(providerConfigs); err != nil {
		slog.Warn("some providers failed to initialize on reload", "error", err)
	} else {
		slog.Info("provider catalog reloaded", "providers", manager.Count())
	}

	tenants, err := config.LoadTenants(cfg.Paths.TenantsDir)
	if err != nil {
		slog.Error("tenant reload failed, keeping previous set", "error", err)
		return nil
	}
	if err := registry.Replace(tenants); err != nil {
		slog.Error("tenant set rejected, keeping previous set", "error", err)
		return nil
	}
	slog.Info("tenant set reloaded", "tenants", len(tenants))
	return nil
}
