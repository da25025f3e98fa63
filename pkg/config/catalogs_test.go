package config

import (
	"testing"
	"time"

	"meridian-hq/hermes/pkg/policy"
)

func TestLoadProviders(t *testing.T) {
	t.Setenv("TEST_ALPHA_KEY", "sk-alpha")

	path := writeFile(t, t.TempDir(), "providers.json", `{
		"alpha": {
			"type": "generic",
			"base_url": "http://alpha.local/v1",
			"api_key_env": "TEST_ALPHA_KEY",
			"cost_per_token": 0.000002,
			"timeout_ms": 5000
		},
		"beta": {
			"type": "generic",
			"base_url": "http://beta.local/v1"
		}
	}`)

	configs, err := LoadProviders(path)
	if err != nil {
		t.Fatalf("LoadProviders: %v", err)
	}
	if len(configs) != 2 {
		t.Fatalf("got %d providers, want 2", len(configs))
	}

	// Load order is sorted by name.
	alpha := configs[0]
	if alpha.Name != "alpha" {
		t.Fatalf("first provider = %q, want alpha", alpha.Name)
	}
	if alpha.APIKey != "sk-alpha" {
		t.Error("API key should resolve from the environment")
	}
	if alpha.CostPerToken != 0.000002 {
		t.Errorf("cost per token = %v", alpha.CostPerToken)
	}
	if alpha.Timeout != 5*time.Second {
		t.Errorf("timeout = %s, want 5s", alpha.Timeout)
	}
	if configs[1].Name != "beta" {
		t.Errorf("second provider = %q, want beta", configs[1].Name)
	}
}

func TestLoadProvidersSkipsDisabledAndUnkeyed(t *testing.T) {
	path := writeFile(t, t.TempDir(), "providers.json", `{
		"off": {"type": "generic", "base_url": "http://off.local", "enabled": false},
		"unkeyed": {"type": "generic", "base_url": "http://unkeyed.local", "api_key_env": "TEST_UNSET_KEY_VAR"},
		"live": {"type": "generic", "base_url": "http://live.local"}
	}`)

	configs, err := LoadProviders(path)
	if err != nil {
		t.Fatalf("LoadProviders: %v", err)
	}
	if len(configs) != 1 || configs[0].Name != "live" {
		t.Errorf("configs = %+v, want only live", configs)
	}
}

func TestLoadProvidersRejectsEmptyCatalog(t *testing.T) {
	path := writeFile(t, t.TempDir(), "providers.json", `{}`)
	if _, err := LoadProviders(path); err == nil {
		t.Error("empty catalog should be rejected")
	}

	path = writeFile(t, t.TempDir(), "providers.json",
		`{"off": {"type": "generic", "enabled": false}}`)
	if _, err := LoadProviders(path); err == nil {
		t.Error("catalog with no usable providers should be rejected")
	}
}

func TestLoadProvidersRejectsBadJSON(t *testing.T) {
	path := writeFile(t, t.TempDir(), "providers.json", `{broken`)
	if _, err := LoadProviders(path); err == nil {
		t.Error("malformed catalog should be rejected")
	}
}

func TestLoadTenants(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "acme-corp.json", `{
		"tenant_id": "acme-corp",
		"api_keys": ["sk-acme-1"],
		"allowed_providers": ["alpha"],
		"routing_policy": "cost_optimized",
		"quotas": {"daily_requests": 1000, "rate_limit_per_minute": 50}
	}`)
	writeFile(t, dir, "beta-labs.json", `{"api_keys": ["sk-beta-1"]}`)
	writeFile(t, dir, "notes.txt", "not a tenant")
	writeFile(t, dir, ".hidden.json", `{"api_keys": ["sk-hidden"]}`)

	tenants, err := LoadTenants(dir)
	if err != nil {
		t.Fatalf("LoadTenants: %v", err)
	}
	if len(tenants) != 2 {
		t.Fatalf("got %d tenants, want 2", len(tenants))
	}

	acme := tenants[0]
	if acme.ID != "acme-corp" || acme.Policy != "cost_optimized" {
		t.Errorf("acme = %+v", acme)
	}
	if acme.Quotas.DailyRequests != 1000 || acme.Quotas.RateLimitPerMinute != 50 {
		t.Errorf("acme quotas = %+v", acme.Quotas)
	}

	// tenant_id defaults to the file's base name.
	if tenants[1].ID != "beta-labs" {
		t.Errorf("beta ID = %q, want beta-labs", tenants[1].ID)
	}
}

func TestLoadTenantsSkipsBrokenFiles(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "broken.json", `{not json`)
	writeFile(t, dir, "ok.json", `{"tenant_id": "ok", "api_keys": ["sk-ok"]}`)

	tenants, err := LoadTenants(dir)
	if err != nil {
		t.Fatalf("LoadTenants: %v", err)
	}
	if len(tenants) != 1 || tenants[0].ID != "ok" {
		t.Errorf("tenants = %+v, want only ok", tenants)
	}
}

func TestLoadTenantsMissingDir(t *testing.T) {
	if _, err := LoadTenants(t.TempDir() + "/absent"); err == nil {
		t.Error("missing tenant directory should be an error")
	}
}

func TestLoadPolicyParams(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routing.json", `{
		"cost-optimized": {
			"min_uptime": 0.9,
			"default_cost_per_token": 0.00001,
			"weights": {"uptime": 0.2, "latency": 0.1, "cost": 0.7}
		}
	}`)

	params, err := LoadPolicyParams(path)
	if err != nil {
		t.Fatalf("LoadPolicyParams: %v", err)
	}

	p, ok := params[policy.PolicyCostOptimized]
	if !ok {
		t.Fatalf("params = %v, want a cost_optimized entry", params)
	}
	if p.MinUptime != 0.9 {
		t.Errorf("min uptime = %v", p.MinUptime)
	}
	if p.Weights.Cost != 0.7 {
		t.Errorf("cost weight = %v", p.Weights.Cost)
	}
}

func TestLoadPolicyParamsMissingFileIsNotAnError(t *testing.T) {
	params, err := LoadPolicyParams(t.TempDir() + "/absent.json")
	if err != nil {
		t.Fatalf("missing policy file should yield defaults: %v", err)
	}
	if params != nil {
		t.Errorf("params = %v, want nil", params)
	}
}

func TestLoadPolicyParamsRejectsUnknownPolicy(t *testing.T) {
	path := writeFile(t, t.TempDir(), "routing.json", `{"yolo": {"min_uptime": 0.5}}`)
	if _, err := LoadPolicyParams(path); err == nil {
		t.Error("unknown policy name should be rejected")
	}
}
