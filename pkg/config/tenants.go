package config

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"meridian-hq/hermes/pkg/tenant"
)

// LoadTenants reads every *.json file in dir as one tenant definition.
// Files that cannot be parsed are skipped with a warning so one broken
// tenant does not take down the rest; a tenant file whose tenant_id is
// empty inherits the file's base name.
//
// Cross-tenant validation (duplicate IDs, shared API keys) happens in
// the registry when the loaded set is installed, not here.
func LoadTenants(dir string) ([]tenant.Tenant, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read tenant directory %q: %w", dir, err)
	}

	logger := slog.Default().With("component", "config.tenants")

	var names []string
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), ".json") {
			continue
		}
		if strings.HasPrefix(entry.Name(), ".") {
			continue
		}
		names = append(names, entry.Name())
	}
	sort.Strings(names)

	var tenants []tenant.Tenant
	for _, name := range names {
		path := filepath.Join(dir, name)
		data, err := os.ReadFile(path)
		if err != nil {
			logger.Warn("failed to read tenant file, skipping", "path", path, "error", err)
			continue
		}

		var t tenant.Tenant
		if err := json.Unmarshal(data, &t); err != nil {
			logger.Warn("failed to parse tenant file, skipping", "path", path, "error", err)
			continue
		}

		if t.ID == "" {
			t.ID = strings.TrimSuffix(name, ".json")
		}
		tenants = append(tenants, t)
	}

	return tenants, nil
}
