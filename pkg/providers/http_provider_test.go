package providers

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

func newStatusServer(t *testing.T, status int, headers map[string]string) *httptest.Server {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		for k, v := range headers {
			w.Header().Set(k, v)
		}
		w.WriteHeader(status)
		w.Write([]byte(`{"error":{"message":"secret upstream detail"}}`))
	}))
	t.Cleanup(srv.Close)
	return srv
}

func doAgainst(t *testing.T, srv *httptest.Server) error {
	t.Helper()
	p := NewHTTPProvider(Config{Name: "test", BaseURL: srv.URL})
	t.Cleanup(func() { p.Close() })
	_, err := p.Do(context.Background(), "POST", srv.URL, []byte(`{}`), nil)
	return err
}

func TestClassifyUnauthorized(t *testing.T) {
	err := doAgainst(t, newStatusServer(t, http.StatusUnauthorized, nil))
	if got := KindOf(err); got != KindInvalidCredential {
		t.Errorf("kind = %s, want %s", got, KindInvalidCredential)
	}
}

func TestClassifyForbidden(t *testing.T) {
	err := doAgainst(t, newStatusServer(t, http.StatusForbidden, nil))
	if got := KindOf(err); got != KindInvalidCredential {
		t.Errorf("kind = %s, want %s", got, KindInvalidCredential)
	}
}

func TestClassifyRateLimitedWithRetryAfter(t *testing.T) {
	srv := newStatusServer(t, http.StatusTooManyRequests, map[string]string{"Retry-After": "30"})
	err := doAgainst(t, srv)

	if got := KindOf(err); got != KindRateLimited {
		t.Errorf("kind = %s, want %s", got, KindRateLimited)
	}

	var ra *RetryAfterError
	if !errors.As(err, &ra) {
		t.Fatal("expected RetryAfterError")
	}
	if ra.RetryAfter != 30*time.Second {
		t.Errorf("retry after = %v, want 30s", ra.RetryAfter)
	}
}

func TestClassifyServerError(t *testing.T) {
	err := doAgainst(t, newStatusServer(t, http.StatusServiceUnavailable, nil))
	if got := KindOf(err); got != KindUnavailable {
		t.Errorf("kind = %s, want %s", got, KindUnavailable)
	}
}

func TestClassifyOther(t *testing.T) {
	err := doAgainst(t, newStatusServer(t, http.StatusNotFound, nil))
	if got := KindOf(err); got != KindOther {
		t.Errorf("kind = %s, want %s", got, KindOther)
	}
}

func TestCredentialErrorNeverEchoesBody(t *testing.T) {
	err := doAgainst(t, newStatusServer(t, http.StatusUnauthorized, nil))
	if strings.Contains(err.Error(), "secret upstream detail") {
		t.Error("credential errors must not echo the upstream body")
	}
}

func TestTimeoutClassification(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	t.Cleanup(srv.Close)

	p := NewHTTPProvider(Config{Name: "slow", BaseURL: srv.URL, Timeout: 50 * time.Millisecond})
	t.Cleanup(func() { p.Close() })

	_, err := p.Do(context.Background(), "GET", srv.URL, nil, nil)
	if got := KindOf(err); got != KindTimeout {
		t.Errorf("kind = %s, want %s", got, KindTimeout)
	}
}

func TestDoJSONMalformedResponse(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte("not json at all"))
	}))
	t.Cleanup(srv.Close)

	p := NewHTTPProvider(Config{Name: "garbled", BaseURL: srv.URL})
	t.Cleanup(func() { p.Close() })

	var out map[string]interface{}
	err := p.DoJSON(context.Background(), "GET", srv.URL, nil, &out, nil)
	if got := KindOf(err); got != KindMalformed {
		t.Errorf("kind = %s, want %s", got, KindMalformed)
	}
}

func TestParseRetryAfterSeconds(t *testing.T) {
	if got := parseRetryAfter("15"); got != 15*time.Second {
		t.Errorf("parseRetryAfter(15) = %v, want 15s", got)
	}
	if got := parseRetryAfter(""); got != 0 {
		t.Errorf("parseRetryAfter(empty) = %v, want 0", got)
	}
}
