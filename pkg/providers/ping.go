package providers

import (
	"context"
	"time"
)

// PingTimeout is the deadline applied to health probes.
const PingTimeout = 5 * time.Second

// PingMaxTokens bounds the synthetic completion used for probing.
const PingMaxTokens = 5

// PingRequest returns the minimal synthetic request used by adapters for
// health probing. It is deliberately tiny so probes stay cheap.
func PingRequest() *Request {
	return &Request{
		Messages: []Message{
			{Role: RoleUser, Content: "ping"},
		},
		MaxTokens: PingMaxTokens,
	}
}

// MeasurePing runs a probe call under PingTimeout and converts the outcome
// into a PingResult with measured latency. Adapters implement Ping by
// passing their own MakeRequest wrapped in a closure.
func MeasurePing(ctx context.Context, call func(context.Context) error) *PingResult {
	ctx, cancel := context.WithTimeout(ctx, PingTimeout)
	defer cancel()

	start := time.Now()
	err := call(ctx)
	latency := time.Since(start).Milliseconds()

	if err != nil {
		return &PingResult{
			Status:    PingUnhealthy,
			LatencyMS: latency,
			ErrorKind: KindOf(err),
		}
	}

	return &PingResult{
		Status:    PingHealthy,
		LatencyMS: latency,
	}
}
