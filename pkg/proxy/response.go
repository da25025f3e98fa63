package proxy

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/google/uuid"

	"meridian-hq/hermes/pkg/limits/ratelimit"
	"meridian-hq/hermes/pkg/proxy/types"
	"meridian-hq/hermes/pkg/router"
)

// FormatChatCompletionResponse shapes a routing result into the OpenAI
// wire format. Completion IDs are freshly minted per response.
func FormatChatCompletionResponse(result *router.Result) *types.ChatCompletionResponse {
	resp := result.Response

	created := resp.Created
	if created == 0 {
		created = time.Now().Unix()
	}

	return &types.ChatCompletionResponse{
		ID:      fmt.Sprintf("chatcmpl-%s", uuid.NewString()),
		Object:  "chat.completion",
		Created: created,
		Model:   resp.Model,
		Choices: []types.Choice{
			{
				Index: 0,
				Message: types.Message{
					Role:    "assistant",
					Content: resp.Content,
				},
				FinishReason: resp.FinishReason,
			},
		},
		Usage: types.Usage{
			PromptTokens:     resp.Usage.PromptTokens,
			CompletionTokens: resp.Usage.CompletionTokens,
			TotalTokens:      resp.Usage.TotalTokens,
		},
		RoutingMetadata: result.Metadata,
	}
}

// WriteJSON writes data as a JSON response with the given status code.
func WriteJSON(w http.ResponseWriter, statusCode int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	_ = json.NewEncoder(w).Encode(data)
}

// WriteError writes an error envelope with the status implied by its
// type string.
func WriteError(w http.ResponseWriter, t types.ErrorType, errResp *types.ErrorResponse) {
	WriteJSON(w, t.StatusCode(), errResp)
}

// SetRateLimitHeaders attaches the standard X-RateLimit-* headers from a
// limiter decision. Reset is the window end as Unix seconds.
func SetRateLimitHeaders(w http.ResponseWriter, d ratelimit.Decision) {
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(d.Limit))
	w.Header().Set("X-RateLimit-Remaining", strconv.Itoa(d.Remaining))
	w.Header().Set("X-RateLimit-Reset", strconv.FormatInt(d.Reset.Unix(), 10))
}
