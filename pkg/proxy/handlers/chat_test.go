package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"meridian-hq/hermes/pkg/breaker"
	"meridian-hq/hermes/pkg/health"
	"meridian-hq/hermes/pkg/limits/ratelimit"
	"meridian-hq/hermes/pkg/policy"
	"meridian-hq/hermes/pkg/providerfactory"
	"meridian-hq/hermes/pkg/providers"
	"meridian-hq/hermes/pkg/proxy/types"
	"meridian-hq/hermes/pkg/router"
	"meridian-hq/hermes/pkg/tenant"
)

// chatEnv bundles everything a chat handler pipeline test needs.
type chatEnv struct {
	handler  *ChatHandler
	registry *tenant.Registry
}

// newChatEnv wires a handler over generic adapters that talk to stub
// upstreams with the given statuses.
func newChatEnv(t *testing.T, upstreams map[string]int, tenants []tenant.Tenant) *chatEnv {
	t.Helper()

	var configs []providers.Config
	for name, status := range upstreams {
		status := status
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if status != http.StatusOK {
				w.WriteHeader(status)
				fmt.Fprint(w, `{"error":{"message":"upstream failure"}}`)
				return
			}
			w.Header().Set("Content-Type", "application/json")
			fmt.Fprint(w, `{
				"id": "cmpl-123",
				"model": "stub-model",
				"created": 1700000000,
				"choices": [{"index": 0, "message": {"role": "assistant", "content": "stub says hi"}, "finish_reason": "stop"}],
				"usage": {"prompt_tokens": 5, "completion_tokens": 3, "total_tokens": 8}
			}`)
		}))
		t.Cleanup(srv.Close)
		configs = append(configs, providers.Config{Name: name, Type: "generic", BaseURL: srv.URL})
	}

	manager := providerfactory.NewManager()
	if err := manager.Load(configs); err != nil {
		t.Fatalf("load providers: %v", err)
	}
	t.Cleanup(func() { manager.Close() })

	registry := tenant.NewRegistry(nil)
	if err := registry.Replace(tenants); err != nil {
		t.Fatalf("replace tenants: %v", err)
	}
	t.Cleanup(func() { registry.Close() })

	rt := router.New(manager, breaker.NewSet(5, time.Minute), health.NewTracker(), policy.NewEngine(nil), router.Options{
		AttemptTimeout: 5 * time.Second,
	})

	handler := NewChatHandler(registry, ratelimit.NewLimiter(time.Minute), rt, ChatHandlerOptions{})
	return &chatEnv{handler: handler, registry: registry}
}

func defaultTenants() []tenant.Tenant {
	return []tenant.Tenant{{
		ID:      "acme-corp",
		APIKeys: []string{"sk-acme-test"},
	}}
}

const validBody = `{"model": "stub-model", "messages": [{"role": "user", "content": "hi"}]}`

func doChat(env *chatEnv, apiKey, body string) *httptest.ResponseRecorder {
	r := httptest.NewRequest("POST", "/v1/chat/completions", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")
	if apiKey != "" {
		r.Header.Set("Authorization", "Bearer "+apiKey)
	}
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, r)
	return w
}

func decodeError(t *testing.T, w *httptest.ResponseRecorder) types.ErrorResponse {
	t.Helper()
	var env types.ErrorResponse
	if err := json.Unmarshal(w.Body.Bytes(), &env); err != nil {
		t.Fatalf("decode error envelope: %v (body %q)", err, w.Body.String())
	}
	return env
}

func TestChatSuccess(t *testing.T) {
	env := newChatEnv(t, map[string]int{"alpha": http.StatusOK}, defaultTenants())

	w := doChat(env, "sk-acme-test", validBody)
	if w.Code != http.StatusOK {
		t.Fatalf("status = %d, body %s", w.Code, w.Body.String())
	}

	var resp types.ChatCompletionResponse
	if err := json.Unmarshal(w.Body.Bytes(), &resp); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if !strings.HasPrefix(resp.ID, "chatcmpl-") {
		t.Errorf("id = %q, want chatcmpl- prefix", resp.ID)
	}
	if resp.Object != "chat.completion" {
		t.Errorf("object = %q", resp.Object)
	}
	if len(resp.Choices) != 1 || resp.Choices[0].Message.Content != "stub says hi" {
		t.Errorf("choices = %+v", resp.Choices)
	}
	if resp.Usage.TotalTokens != 8 {
		t.Errorf("total tokens = %d, want 8", resp.Usage.TotalTokens)
	}

	md := resp.RoutingMetadata
	if md.PrimaryProvider != "alpha" {
		t.Errorf("primary provider = %q", md.PrimaryProvider)
	}
	if md.TenantID != "acme-corp" {
		t.Errorf("tenant id = %q", md.TenantID)
	}
	if md.PolicyUsed != "balanced" {
		t.Errorf("policy used = %q", md.PolicyUsed)
	}
	if len(md.Attempts) != 1 {
		t.Errorf("attempts = %d, want 1", len(md.Attempts))
	}

	// The routed request counts toward usage.
	usage, err := env.registry.UsageFor("acme-corp")
	if err != nil {
		t.Fatalf("usage: %v", err)
	}
	if usage.DailyRequests != 1 {
		t.Errorf("daily requests = %d, want 1", usage.DailyRequests)
	}
	if usage.TotalTokens != 8 {
		t.Errorf("tracked tokens = %d, want 8", usage.TotalTokens)
	}
}

func TestChatMissingAuth(t *testing.T) {
	env := newChatEnv(t, map[string]int{"alpha": http.StatusOK}, defaultTenants())

	w := doChat(env, "", validBody)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}
	if got := decodeError(t, w).Error.Type; got != "authentication_error" {
		t.Errorf("type = %q, want authentication_error", got)
	}
}

func TestChatUnknownKey(t *testing.T) {
	env := newChatEnv(t, map[string]int{"alpha": http.StatusOK}, defaultTenants())

	w := doChat(env, "sk-wrong", validBody)
	if w.Code != http.StatusUnauthorized {
		t.Fatalf("status = %d, want 401", w.Code)
	}

	// Blocked requests never count toward usage.
	usage, _ := env.registry.UsageFor("acme-corp")
	if usage.DailyRequests != 0 {
		t.Errorf("daily requests = %d, want 0", usage.DailyRequests)
	}
}

func TestChatRateLimited(t *testing.T) {
	tenants := []tenant.Tenant{{
		ID:      "acme-corp",
		APIKeys: []string{"sk-acme-test"},
		Quotas:  tenant.Quotas{RateLimitPerMinute: 2},
	}}
	env := newChatEnv(t, map[string]int{"alpha": http.StatusOK}, tenants)

	doChat(env, "sk-acme-test", validBody)
	doChat(env, "sk-acme-test", validBody)

	w := doChat(env, "sk-acme-test", validBody)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	if got := decodeError(t, w).Error.Type; got != "rate_limited" {
		t.Errorf("type = %q, want rate_limited", got)
	}

	if w.Header().Get("X-RateLimit-Limit") != "2" {
		t.Errorf("X-RateLimit-Limit = %q, want 2", w.Header().Get("X-RateLimit-Limit"))
	}
	if w.Header().Get("X-RateLimit-Remaining") != "0" {
		t.Errorf("X-RateLimit-Remaining = %q, want 0", w.Header().Get("X-RateLimit-Remaining"))
	}
	if w.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("X-RateLimit-Reset should be set")
	}

	// Only the two allowed requests count.
	usage, _ := env.registry.UsageFor("acme-corp")
	if usage.DailyRequests != 2 {
		t.Errorf("daily requests = %d, want 2", usage.DailyRequests)
	}
}

func TestChatRateLimitHeadersOnSuccess(t *testing.T) {
	env := newChatEnv(t, map[string]int{"alpha": http.StatusOK}, defaultTenants())

	w := doChat(env, "sk-acme-test", validBody)
	if w.Header().Get("X-RateLimit-Limit") == "" ||
		w.Header().Get("X-RateLimit-Remaining") == "" ||
		w.Header().Get("X-RateLimit-Reset") == "" {
		t.Error("successful responses must carry the X-RateLimit-* headers")
	}
}

func TestChatInvalidBody(t *testing.T) {
	env := newChatEnv(t, map[string]int{"alpha": http.StatusOK}, defaultTenants())

	w := doChat(env, "sk-acme-test", `{"model": "x", "messages": []}`)
	if w.Code != http.StatusBadRequest {
		t.Fatalf("status = %d, want 400", w.Code)
	}
	if got := decodeError(t, w).Error.Type; got != "validation_error" {
		t.Errorf("type = %q, want validation_error", got)
	}

	usage, _ := env.registry.UsageFor("acme-corp")
	if usage.DailyRequests != 0 {
		t.Errorf("daily requests = %d, want 0 for rejected requests", usage.DailyRequests)
	}
}

func TestChatMethodNotAllowed(t *testing.T) {
	env := newChatEnv(t, map[string]int{"alpha": http.StatusOK}, defaultTenants())

	r := httptest.NewRequest("GET", "/v1/chat/completions", nil)
	w := httptest.NewRecorder()
	env.handler.ServeHTTP(w, r)

	if w.Code != http.StatusBadRequest {
		t.Errorf("status = %d, want 400", w.Code)
	}
}

func TestChatQuotaExceeded(t *testing.T) {
	tenants := []tenant.Tenant{{
		ID:      "acme-corp",
		APIKeys: []string{"sk-acme-test"},
		Quotas:  tenant.Quotas{DailyRequests: 1},
	}}
	env := newChatEnv(t, map[string]int{"alpha": http.StatusOK}, tenants)

	if w := doChat(env, "sk-acme-test", validBody); w.Code != http.StatusOK {
		t.Fatalf("first request status = %d", w.Code)
	}

	w := doChat(env, "sk-acme-test", validBody)
	if w.Code != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", w.Code)
	}
	envlp := decodeError(t, w)
	if envlp.Error.Type != "quota_exceeded" {
		t.Errorf("type = %q, want quota_exceeded", envlp.Error.Type)
	}
	if envlp.Error.Details["quota"] != "daily_requests" {
		t.Errorf("quota detail = %v, want daily_requests", envlp.Error.Details["quota"])
	}

	// The blocked request is not counted.
	usage, _ := env.registry.UsageFor("acme-corp")
	if usage.DailyRequests != 1 {
		t.Errorf("daily requests = %d, want 1", usage.DailyRequests)
	}
}

func TestChatAllProvidersFailed(t *testing.T) {
	env := newChatEnv(t, map[string]int{
		"down-one": http.StatusServiceUnavailable,
		"down-two": http.StatusInternalServerError,
	}, defaultTenants())

	w := doChat(env, "sk-acme-test", validBody)
	if w.Code != http.StatusBadGateway {
		t.Fatalf("status = %d, want 502", w.Code)
	}
	envlp := decodeError(t, w)
	if envlp.Error.Type != "all_providers_failed" {
		t.Errorf("type = %q, want all_providers_failed", envlp.Error.Type)
	}
	attempts, ok := envlp.Error.Details["attempts"].([]interface{})
	if !ok || len(attempts) != 2 {
		t.Errorf("details.attempts = %v, want 2 entries", envlp.Error.Details["attempts"])
	}

	// A routed-but-failed request still consumes a request quota slot.
	usage, _ := env.registry.UsageFor("acme-corp")
	if usage.DailyRequests != 1 {
		t.Errorf("daily requests = %d, want 1", usage.DailyRequests)
	}
	if usage.TotalTokens != 0 {
		t.Errorf("tracked tokens = %d, want 0", usage.TotalTokens)
	}
}

func TestChatNoProvidersAvailable(t *testing.T) {
	tenants := []tenant.Tenant{{
		ID:               "acme-corp",
		APIKeys:          []string{"sk-acme-test"},
		AllowedProviders: []string{"no-such-provider"},
	}}
	env := newChatEnv(t, map[string]int{"alpha": http.StatusOK}, tenants)

	w := doChat(env, "sk-acme-test", validBody)
	if w.Code != http.StatusServiceUnavailable {
		t.Fatalf("status = %d, want 503", w.Code)
	}
	if got := decodeError(t, w).Error.Type; got != "no_providers_available" {
		t.Errorf("type = %q, want no_providers_available", got)
	}

	usage, _ := env.registry.UsageFor("acme-corp")
	if usage.DailyRequests != 0 {
		t.Errorf("daily requests = %d, want 0 when nothing was attempted", usage.DailyRequests)
	}
}
