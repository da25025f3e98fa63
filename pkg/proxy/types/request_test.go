package types

import "testing"

func intPtr(v int) *int           { return &v }
func floatPtr(v float64) *float64 { return &v }

func validRequest() *ChatCompletionRequest {
	return &ChatCompletionRequest{
		Model: "gpt-3.5-turbo",
		Messages: []Message{
			{Role: "system", Content: "be brief"},
			{Role: "user", Content: "hello"},
		},
	}
}

func TestValidateAccepts(t *testing.T) {
	req := validRequest()
	req.MaxTokens = intPtr(100)
	req.Temperature = floatPtr(0.7)
	req.TopP = floatPtr(0.9)

	if err := req.Validate(); err != nil {
		t.Errorf("valid request rejected: %v", err)
	}
}

func TestValidateBoundaryValues(t *testing.T) {
	req := validRequest()
	req.MaxTokens = intPtr(1)
	req.Temperature = floatPtr(0)
	req.TopP = floatPtr(0)
	if err := req.Validate(); err != nil {
		t.Errorf("lower bounds rejected: %v", err)
	}

	req.MaxTokens = intPtr(4000)
	req.Temperature = floatPtr(2)
	req.TopP = floatPtr(1)
	if err := req.Validate(); err != nil {
		t.Errorf("upper bounds rejected: %v", err)
	}
}

func TestValidateRejections(t *testing.T) {
	tests := []struct {
		name      string
		mutate    func(*ChatCompletionRequest)
		wantField string
	}{
		{
			name:      "empty messages",
			mutate:    func(r *ChatCompletionRequest) { r.Messages = nil },
			wantField: "messages",
		},
		{
			name: "bad role",
			mutate: func(r *ChatCompletionRequest) {
				r.Messages[0].Role = "robot"
			},
			wantField: "messages",
		},
		{
			name: "empty content",
			mutate: func(r *ChatCompletionRequest) {
				r.Messages[1].Content = ""
			},
			wantField: "messages",
		},
		{
			name:      "max_tokens too small",
			mutate:    func(r *ChatCompletionRequest) { r.MaxTokens = intPtr(0) },
			wantField: "max_tokens",
		},
		{
			name:      "max_tokens too large",
			mutate:    func(r *ChatCompletionRequest) { r.MaxTokens = intPtr(4001) },
			wantField: "max_tokens",
		},
		{
			name:      "temperature negative",
			mutate:    func(r *ChatCompletionRequest) { r.Temperature = floatPtr(-0.1) },
			wantField: "temperature",
		},
		{
			name:      "temperature too high",
			mutate:    func(r *ChatCompletionRequest) { r.Temperature = floatPtr(2.1) },
			wantField: "temperature",
		},
		{
			name:      "top_p too high",
			mutate:    func(r *ChatCompletionRequest) { r.TopP = floatPtr(1.5) },
			wantField: "top_p",
		},
		{
			name:      "stream requested",
			mutate:    func(r *ChatCompletionRequest) { r.Stream = true },
			wantField: "stream",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := validRequest()
			tt.mutate(req)

			err := req.Validate()
			if err == nil {
				t.Fatal("expected a validation error")
			}
			if err.Field != tt.wantField {
				t.Errorf("field = %q, want %q", err.Field, tt.wantField)
			}
		})
	}
}
