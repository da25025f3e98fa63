package gemini

import (
	"testing"

	"meridian-hq/hermes/pkg/providers"
)

func TestResolveModel(t *testing.T) {
	if got := resolveModel("gemini-2.0-flash", "gemini-1.5-pro"); got != "gemini-2.0-flash" {
		t.Errorf("gemini hint should pass through, got %q", got)
	}
	if got := resolveModel("gpt-3.5-turbo", "gemini-1.5-pro"); got != "gemini-1.5-pro" {
		t.Errorf("foreign hint should map to default, got %q", got)
	}
}

func TestTransformRequestRoles(t *testing.T) {
	req := &providers.Request{
		Messages: []providers.Message{
			{Role: providers.RoleSystem, Content: "be terse"},
			{Role: providers.RoleUser, Content: "hello"},
			{Role: providers.RoleAssistant, Content: "hi"},
		},
	}

	out := transformRequest(req)

	if out.SystemInstruction == nil || out.SystemInstruction.Parts[0].Text != "be terse" {
		t.Error("system message should become systemInstruction")
	}
	if len(out.Contents) != 2 {
		t.Fatalf("contents = %d, want 2 (system excluded)", len(out.Contents))
	}
	if out.Contents[0].Role != "user" {
		t.Errorf("first role = %q, want user", out.Contents[0].Role)
	}
	if out.Contents[1].Role != "model" {
		t.Errorf("assistant role = %q, want model", out.Contents[1].Role)
	}
}

func TestTransformRequestGenerationConfig(t *testing.T) {
	temp := 0.7
	req := &providers.Request{
		Messages:    []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
		MaxTokens:   100,
		Temperature: &temp,
	}

	out := transformRequest(req)
	if out.GenerationConfig == nil {
		t.Fatal("expected a generation config")
	}
	if out.GenerationConfig.MaxOutputTokens != 100 {
		t.Errorf("max output tokens = %d, want 100", out.GenerationConfig.MaxOutputTokens)
	}
	if out.GenerationConfig.Temperature == nil || *out.GenerationConfig.Temperature != 0.7 {
		t.Error("temperature should be carried through")
	}

	bare := transformRequest(&providers.Request{
		Messages: []providers.Message{{Role: providers.RoleUser, Content: "hi"}},
	})
	if bare.GenerationConfig != nil {
		t.Error("no sampling params should mean no generation config")
	}
}

func TestTransformResponseEmptyCandidates(t *testing.T) {
	_, err := transformResponse("gemini", "gemini-2.0-flash", &providers.Request{}, &generateContentResponse{})
	if providers.KindOf(err) != providers.KindMalformed {
		t.Errorf("kind = %s, want %s", providers.KindOf(err), providers.KindMalformed)
	}
}

func TestMapFinishReason(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"STOP", providers.FinishReasonStop},
		{"", providers.FinishReasonStop},
		{"MAX_TOKENS", providers.FinishReasonLength},
		{"SAFETY", providers.FinishReasonContentFilter},
		{"WEIRD_NEW_REASON", providers.FinishReasonStop},
	}
	for _, tt := range tests {
		if got := mapFinishReason(tt.in); got != tt.want {
			t.Errorf("mapFinishReason(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
