package proxy

import (
	"net/http/httptest"
	"strings"
	"testing"

	"meridian-hq/hermes/pkg/proxy/types"
)

func TestParseValidRequest(t *testing.T) {
	body := `{"model": "gpt-3.5-turbo", "messages": [{"role": "user", "content": "hi"}], "max_tokens": 50}`
	r := httptest.NewRequest("POST", "/v1/chat/completions", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	req, errResp := ParseChatCompletionRequest(r, 0)
	if errResp != nil {
		t.Fatalf("unexpected error: %+v", errResp)
	}
	if req.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", req.Model)
	}
	if req.MaxTokens == nil || *req.MaxTokens != 50 {
		t.Error("max_tokens should be decoded")
	}
}

func TestParseRejectsInvalidJSON(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/chat/completions", strings.NewReader("{not json"))
	r.Header.Set("Content-Type", "application/json")

	_, errResp := ParseChatCompletionRequest(r, 0)
	if errResp == nil {
		t.Fatal("expected a validation error")
	}
	if errResp.Error.Type != types.ErrorTypeValidation.Wire() {
		t.Errorf("type = %q, want validation_error", errResp.Error.Type)
	}
}

func TestParseRejectsWrongContentType(t *testing.T) {
	r := httptest.NewRequest("POST", "/v1/chat/completions", strings.NewReader("model=x"))
	r.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	_, errResp := ParseChatCompletionRequest(r, 0)
	if errResp == nil {
		t.Fatal("expected a validation error for wrong content type")
	}
}

func TestParseRejectsOversizedBody(t *testing.T) {
	huge := `{"model": "x", "messages": [{"role": "user", "content": "` +
		strings.Repeat("a", 2048) + `"}]}`
	r := httptest.NewRequest("POST", "/v1/chat/completions", strings.NewReader(huge))
	r.Header.Set("Content-Type", "application/json")

	_, errResp := ParseChatCompletionRequest(r, 1024)
	if errResp == nil {
		t.Fatal("expected a validation error for an oversized body")
	}
	if !strings.Contains(errResp.Error.Message, "10MB") {
		t.Errorf("message = %q, want the documented limit", errResp.Error.Message)
	}
}

func TestParseRunsValidation(t *testing.T) {
	body := `{"model": "x", "messages": [{"role": "user", "content": "hi"}], "stream": true}`
	r := httptest.NewRequest("POST", "/v1/chat/completions", strings.NewReader(body))
	r.Header.Set("Content-Type", "application/json")

	_, errResp := ParseChatCompletionRequest(r, 0)
	if errResp == nil {
		t.Fatal("expected streaming to be rejected")
	}
	if !strings.Contains(errResp.Error.Message, "streaming") {
		t.Errorf("message = %q", errResp.Error.Message)
	}
}

func TestExtractAPIKey(t *testing.T) {
	tests := []struct {
		header string
		want   string
	}{
		{"Bearer sk-test-123", "sk-test-123"},
		{"bearer sk-test-123", "sk-test-123"},
		{"Bearer  sk-padded ", "sk-padded"},
		{"Basic dXNlcjpwYXNz", ""},
		{"Bearer", ""},
		{"", ""},
	}

	for _, tt := range tests {
		r := httptest.NewRequest("POST", "/", nil)
		if tt.header != "" {
			r.Header.Set("Authorization", tt.header)
		}
		if got := ExtractAPIKey(r); got != tt.want {
			t.Errorf("ExtractAPIKey(%q) = %q, want %q", tt.header, got, tt.want)
		}
	}
}

func TestToProviderRequest(t *testing.T) {
	temp := 0.5
	maxTokens := 128
	req := &types.ChatCompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []types.Message{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hi"},
		},
		MaxTokens:   &maxTokens,
		Temperature: &temp,
	}

	out := ToProviderRequest(req)
	if out.Model != "gpt-3.5-turbo" {
		t.Errorf("model = %q", out.Model)
	}
	if len(out.Messages) != 2 || out.Messages[0].Role != "system" {
		t.Errorf("messages not converted: %+v", out.Messages)
	}
	if out.MaxTokens != 128 {
		t.Errorf("max tokens = %d, want 128", out.MaxTokens)
	}
	if out.Temperature == nil || *out.Temperature != 0.5 {
		t.Error("temperature should carry through")
	}
	if out.TopP != nil {
		t.Error("unset top_p should stay nil")
	}
}
