package httpclient

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func TestWithTimeoutCapsTransportTimeouts(t *testing.T) {
	cfg := WithTimeout(time.Second)
	if cfg.Timeout != time.Second {
		t.Fatalf("unexpected timeout %v", cfg.Timeout)
	}
	if cfg.DialTimeout > time.Second || cfg.TLSHandshake > time.Second || cfg.ResponseHeader > time.Second {
		t.Fatalf("transport timeouts should be capped: %+v", cfg)
	}
}

func TestClientTimeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-time.After(200 * time.Millisecond):
		case <-r.Context().Done():
		}
		w.WriteHeader(http.StatusOK)
	}))
	defer server.Close()

	client := New(WithTimeout(20 * time.Millisecond))
	req, err := http.NewRequestWithContext(context.Background(), http.MethodGet, server.URL, nil)
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	resp, err := client.Do(req)
	if err == nil {
		resp.Body.Close()
		t.Fatalf("expected timeout error")
	}
}
