/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

// Package httpclient provides a configurable outbound HTTP client with
// composable round trippers for logging, client-side rate limiting,
// and request ID propagation.
package httpclient

import (
	"fmt"
	"net/http"
	"time"
)

// CloneHTTPRequest creates a shallow copy of the request along with a deep copy of the Headers.
func CloneHTTPRequest(req *http.Request) *http.Request {
	r := new(http.Request)
	*r = *req
	r.Header = CloneHTTPHeader(req.Header)
	return r
}

// CloneHTTPHeader creates a deep copy of an http.Header.
func CloneHTTPHeader(in http.Header) http.Header {
	out := make(http.Header, len(in))
	for key, values := range in {
		newValues := make([]string, len(values))
		copy(newValues, values)
		out[key] = newValues
	}
	return out
}

// Opts provides options for the New function.
type Opts struct {
	// UserAgent is sent in the User-Agent header when not empty.
	UserAgent string

	// RequestType annotates log records of outgoing requests,
	// e.g. an upstream service name.
	RequestType string

	// Delegate is the innermost RoundTripper in the chain.
	// http.DefaultTransport's clone is used when nil.
	Delegate http.RoundTripper
}

// New constructs *http.Client with round trippers
// (logging, rate limiting, user agent, request ID) applied according to cfg.
func New(cfg *Config) (*http.Client, error) {
	return NewWithOpts(cfg, Opts{})
}

// NewWithOpts constructs *http.Client with round trippers
// (logging, rate limiting, user agent, request ID) applied according to cfg and opts.
func NewWithOpts(cfg *Config, opts Opts) (*http.Client, error) {
	delegate := opts.Delegate
	if delegate == nil {
		delegate = http.DefaultTransport.(*http.Transport).Clone()
	}

	if cfg.Log.Enabled {
		delegate = NewLoggingRoundTripperWithOpts(delegate, LoggingRoundTripperOpts{
			RequestType: opts.RequestType,
			Mode:        LoggingMode(cfg.Log.Mode),
		})
	}

	if cfg.RateLimits.Enabled {
		var err error
		delegate, err = NewRateLimitingRoundTripperWithOpts(delegate, cfg.RateLimits.Limit, RateLimitingRoundTripperOpts{
			Burst:       cfg.RateLimits.Burst,
			WaitTimeout: time.Duration(cfg.RateLimits.WaitTimeout),
		})
		if err != nil {
			return nil, fmt.Errorf("create rate limiting round tripper: %w", err)
		}
	}

	if opts.UserAgent != "" {
		delegate = NewUserAgentRoundTripper(delegate, opts.UserAgent)
	}

	delegate = NewRequestIDRoundTripper(delegate)

	return &http.Client{Transport: delegate, Timeout: time.Duration(cfg.Timeout)}, nil
}

// Must is like New but panics if any error occurs.
func Must(cfg *Config) *http.Client {
	client, err := New(cfg)
	if err != nil {
		panic(err)
	}
	return client
}
