package providers

// charsPerToken is the character-based estimation ratio used when an
// upstream does not report token counts. Four characters per token is a
// good approximation for English text across the supported vendors.
const charsPerToken = 4

// EstimateTokens estimates the token count of a text as ceil(chars/4).
// Non-empty text always counts as at least one token.
func EstimateTokens(text string) int {
	if text == "" {
		return 0
	}
	return (len(text) + charsPerToken - 1) / charsPerToken
}

// EstimateMessageTokens estimates the total prompt tokens for a list of
// messages. Role markers and message framing are not counted; this matches
// the character-based estimate used for the completion side.
func EstimateMessageTokens(messages []Message) int {
	total := 0
	for _, msg := range messages {
		total += EstimateTokens(msg.Content)
	}
	return total
}

// FillEstimatedUsage populates any missing token counts on a usage record
// using character-based estimation of the request and response text.
// Reported counts from the upstream are never overwritten.
func FillEstimatedUsage(usage *TokenUsage, req *Request, content string) {
	if usage.PromptTokens == 0 {
		usage.PromptTokens = EstimateMessageTokens(req.Messages)
	}
	if usage.CompletionTokens == 0 {
		usage.CompletionTokens = EstimateTokens(content)
	}
	if usage.TotalTokens == 0 {
		usage.TotalTokens = usage.PromptTokens + usage.CompletionTokens
	}
}
