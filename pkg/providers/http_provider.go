package providers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"
)

// maxErrorBodyBytes caps how much of an upstream error body is read for
// classification. Error bodies are never echoed to clients verbatim.
const maxErrorBodyBytes = 4 << 10

// HTTPProvider is the base implementation shared by all HTTP adapters.
// It provides connection pooling, the adapter-internal timeout, and
// classification of upstream failures into typed error kinds.
//
// Concrete adapters (Gemini, Groq, HuggingFace, generic) embed this struct
// and implement the vendor wire translation on top of Do / DoJSON.
//
// HTTPProvider never retries. A single MakeRequest maps to a single
// upstream call; retry and failover are the router's responsibility.
type HTTPProvider struct {
	// config contains the provider configuration
	config Config

	// client is the HTTP client with connection pooling
	client *http.Client
}

// NewHTTPProvider creates a new base HTTP provider with connection pooling.
func NewHTTPProvider(config Config) *HTTPProvider {
	if config.Timeout <= 0 {
		config.Timeout = DefaultTimeout
	}
	if config.MaxIdleConns == 0 {
		config.MaxIdleConns = 20
	}
	if config.MaxIdleConnsPerHost == 0 {
		config.MaxIdleConnsPerHost = 10
	}
	if config.IdleConnTimeout == 0 {
		config.IdleConnTimeout = 90 * time.Second
	}

	transport := &http.Transport{
		MaxIdleConns:        config.MaxIdleConns,
		MaxIdleConnsPerHost: config.MaxIdleConnsPerHost,
		IdleConnTimeout:     config.IdleConnTimeout,
		ForceAttemptHTTP2:   true,
	}

	client := &http.Client{
		Transport: transport,
		Timeout:   config.Timeout,
	}

	return &HTTPProvider{
		config: config,
		client: client,
	}
}

// Name returns the provider's configured name.
func (p *HTTPProvider) Name() string {
	return p.config.Name
}

// Type returns the provider's type.
func (p *HTTPProvider) Type() string {
	return p.config.Type
}

// Config returns the provider's configuration.
func (p *HTTPProvider) Config() Config {
	return p.config
}

// Do performs a single HTTP request and classifies the outcome.
// On a non-2xx status the response body is consumed and a typed *Error is
// returned; on success the caller owns the response body.
func (p *HTTPProvider) Do(ctx context.Context, method, url string, body []byte, headers map[string]string) (*http.Response, error) {
	var bodyReader io.Reader
	if body != nil {
		bodyReader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, bodyReader)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}
	if req.Header.Get("Content-Type") == "" && body != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	slog.Debug("sending request to provider",
		"provider", p.config.Name,
		"method", method,
		"url", url,
	)

	resp, err := p.client.Do(req)
	if err != nil {
		if ctx.Err() != nil || isTimeout(err) {
			return nil, &Error{
				Provider: p.config.Name,
				Kind:     KindTimeout,
				Message:  fmt.Sprintf("request timed out after %s", p.config.Timeout),
				Cause:    err,
			}
		}
		return nil, &Error{
			Provider: p.config.Name,
			Kind:     KindOther,
			Message:  "request failed",
			Cause:    err,
		}
	}

	if resp.StatusCode >= 200 && resp.StatusCode < 300 {
		return resp, nil
	}

	errorBody, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBodyBytes))
	resp.Body.Close()

	return nil, p.classifyStatus(resp, errorBody)
}

// classifyStatus maps an upstream error status to a typed *Error.
func (p *HTTPProvider) classifyStatus(resp *http.Response, body []byte) error {
	switch {
	case resp.StatusCode == http.StatusUnauthorized || resp.StatusCode == http.StatusForbidden:
		return &Error{
			Provider:   p.config.Name,
			Kind:       KindInvalidCredential,
			StatusCode: resp.StatusCode,
			Message:    "upstream rejected credentials",
		}

	case resp.StatusCode == http.StatusTooManyRequests:
		retryAfter := parseRetryAfter(resp.Header.Get("Retry-After"))
		e := &RetryAfterError{
			Err: Error{
				Provider:   p.config.Name,
				Kind:       KindRateLimited,
				StatusCode: resp.StatusCode,
				Message:    "upstream rate limit exceeded",
			},
			RetryAfter: retryAfter,
		}
		return e

	case resp.StatusCode >= 500:
		return &Error{
			Provider:   p.config.Name,
			Kind:       KindUnavailable,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("upstream unavailable (status %d)", resp.StatusCode),
		}

	default:
		return &Error{
			Provider:   p.config.Name,
			Kind:       KindOther,
			StatusCode: resp.StatusCode,
			Message:    fmt.Sprintf("upstream error (status %d): %s", resp.StatusCode, truncate(string(body), 200)),
		}
	}
}

// DoJSON performs a JSON request and decodes the response into respBody.
// Decode failures are classified as KindMalformed.
func (p *HTTPProvider) DoJSON(ctx context.Context, method, url string, reqBody, respBody interface{}, headers map[string]string) error {
	var bodyBytes []byte
	var err error
	if reqBody != nil {
		bodyBytes, err = json.Marshal(reqBody)
		if err != nil {
			return fmt.Errorf("failed to marshal request: %w", err)
		}
	}

	resp, err := p.Do(ctx, method, url, bodyBytes, headers)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	responseBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return &Error{
			Provider: p.config.Name,
			Kind:     KindMalformed,
			Message:  "failed to read upstream response",
			Cause:    err,
		}
	}

	if respBody != nil && len(responseBytes) > 0 {
		if err := json.Unmarshal(responseBytes, respBody); err != nil {
			return &Error{
				Provider: p.config.Name,
				Kind:     KindMalformed,
				Message:  "failed to decode upstream response",
				Cause:    err,
			}
		}
	}

	return nil
}

// Close closes idle connections held by the client pool.
func (p *HTTPProvider) Close() error {
	p.client.CloseIdleConnections()
	slog.Debug("provider closed", "provider", p.config.Name)
	return nil
}

// isTimeout reports whether err is a timeout-shaped transport error.
func isTimeout(err error) bool {
	var timeoutErr interface{ Timeout() bool }
	if errors.As(err, &timeoutErr) {
		return timeoutErr.Timeout()
	}
	return false
}

// parseRetryAfter parses the Retry-After header value.
// It supports both delay-seconds and HTTP-date formats.
func parseRetryAfter(header string) time.Duration {
	if header == "" {
		return 0
	}

	var seconds int
	if _, err := fmt.Sscanf(header, "%d", &seconds); err == nil {
		return time.Duration(seconds) * time.Second
	}

	if t, err := http.ParseTime(header); err == nil {
		return time.Until(t)
	}

	return 0
}

// truncate shortens s to at most n bytes for log and error messages.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}
