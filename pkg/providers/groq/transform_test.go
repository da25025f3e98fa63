package groq

import (
	"encoding/json"
	"testing"

	"meridian-hq/hermes/pkg/providers"
)

func TestResolveModel(t *testing.T) {
	tests := []struct {
		hint         string
		defaultModel string
		want         string
	}{
		{"llama-3.1-8b-instant", DefaultModel, "llama-3.1-8b-instant"},
		{"Mixtral-8x7b", DefaultModel, "Mixtral-8x7b"},
		{"gpt-3.5-turbo", DefaultModel, DefaultModel},
		// Generic adapters configure no default, so hints pass through.
		{"gpt-3.5-turbo", "", "gpt-3.5-turbo"},
	}

	for _, tt := range tests {
		if got := resolveModel(tt.hint, tt.defaultModel); got != tt.want {
			t.Errorf("resolveModel(%q, %q) = %q, want %q", tt.hint, tt.defaultModel, got, tt.want)
		}
	}
}

func TestTransformResponse(t *testing.T) {
	req := &providers.Request{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hello"}},
	}
	var resp chatCompletionResponse
	raw := `{
		"id": "cmpl-1",
		"model": "llama-3.1-8b-instant",
		"created": 1700000000,
		"choices": [{"index": 0, "message": {"role": "assistant", "content": "hi there"}, "finish_reason": "stop"}]
	}`
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		t.Fatalf("unmarshal fixture: %v", err)
	}

	out, err := transformResponse("groq", req, &resp)
	if err != nil {
		t.Fatalf("transform: %v", err)
	}
	if out.Content != "hi there" {
		t.Errorf("content = %q, want %q", out.Content, "hi there")
	}
	if out.Created != 1700000000 {
		t.Errorf("created = %d, want upstream value", out.Created)
	}
	// No reported usage: estimation fills the counts.
	if out.Usage.TotalTokens == 0 {
		t.Error("expected estimated usage to be filled")
	}
}

func TestTransformResponseNoChoices(t *testing.T) {
	_, err := transformResponse("groq", &providers.Request{}, &chatCompletionResponse{})
	if providers.KindOf(err) != providers.KindMalformed {
		t.Errorf("kind = %s, want %s", providers.KindOf(err), providers.KindMalformed)
	}
}
