/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package httpclient

import (
	"net/http"
)

// UserAgentRoundTripper sets User-Agent header to the outgoing request if it's not set yet.
type UserAgentRoundTripper struct {
	Delegate  http.RoundTripper
	UserAgent string
}

// NewUserAgentRoundTripper creates an HTTP transport with User-Agent header support.
func NewUserAgentRoundTripper(delegate http.RoundTripper, userAgent string) http.RoundTripper {
	return &UserAgentRoundTripper{
		Delegate:  delegate,
		UserAgent: userAgent,
	}
}

// RoundTrip sets User-Agent header to the request if it's not already set.
func (rt *UserAgentRoundTripper) RoundTrip(r *http.Request) (*http.Response, error) {
	if r.Header.Get("User-Agent") != "" {
		return rt.Delegate.RoundTrip(r)
	}

	r = CloneHTTPRequest(r)
	r.Header.Set("User-Agent", rt.UserAgent)
	return rt.Delegate.RoundTrip(r)
}
