// Package httpclient builds HTTP clients with bounded timeouts.
package httpclient

import (
	"net"
	"net/http"
	"time"
)

type Config struct {
	// Timeout bounds the whole request including reading the body.
	// A context deadline can still shorten it.
	Timeout time.Duration

	DialTimeout     time.Duration
	TLSHandshake    time.Duration
	ResponseHeader  time.Duration
	IdleConnTimeout time.Duration

	MaxIdleConns int
}

func DefaultConfig() Config {
	return Config{
		Timeout:         10 * time.Second,
		DialTimeout:     5 * time.Second,
		TLSHandshake:    5 * time.Second,
		ResponseHeader:  10 * time.Second,
		IdleConnTimeout: 90 * time.Second,
		MaxIdleConns:    10,
	}
}

// WithTimeout returns the default config with the overall timeout replaced.
// Dial, handshake and header timeouts are capped to it.
func WithTimeout(d time.Duration) Config {
	cfg := DefaultConfig()
	cfg.Timeout = d
	for _, p := range []*time.Duration{&cfg.DialTimeout, &cfg.TLSHandshake, &cfg.ResponseHeader} {
		if *p > d {
			*p = d
		}
	}
	return cfg
}

func New(cfg Config) *http.Client {
	dialer := &net.Dialer{
		Timeout:   cfg.DialTimeout,
		KeepAlive: 30 * time.Second,
	}

	tr := &http.Transport{
		Proxy:       http.ProxyFromEnvironment,
		DialContext: dialer.DialContext,

		ForceAttemptHTTP2: true,

		MaxIdleConns:    cfg.MaxIdleConns,
		IdleConnTimeout: cfg.IdleConnTimeout,

		TLSHandshakeTimeout:   cfg.TLSHandshake,
		ResponseHeaderTimeout: cfg.ResponseHeader,
	}

	return &http.Client{
		Transport: tr,
		Timeout:   cfg.Timeout,
	}
}
