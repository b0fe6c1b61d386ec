/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package middleware

import (
	"net"
	"net/http"
)

// ClientIDFunc resolves the identity under which a request is rate-limited.
type ClientIDFunc func(r *http.Request) string

// ClientIDFromRemoteAddr resolves the client identity as the IP part of the
// connection's remote address. This is the default strategy and the only
// safe one when the service is exposed directly: forwarded headers are
// client-controlled and would let anyone mint fresh identities.
func ClientIDFromRemoteAddr(r *http.Request) string {
	if ip, _, err := net.SplitHostPort(r.RemoteAddr); err == nil {
		return ip
	}
	return r.RemoteAddr
}

// ClientIDBehindTrustedProxy resolves the client identity from the
// X-Forwarded-For header (first entry), falling back to X-Real-IP and
// finally to the remote address. Use it only when all requests pass
// through a trusted reverse proxy that sets these headers.
func ClientIDBehindTrustedProxy(r *http.Request) string {
	if originAddr := getOriginAddr(r); originAddr != "" {
		return originAddr
	}
	return ClientIDFromRemoteAddr(r)
}

// NewClientIDFunc returns the identity strategy matching the trusted-proxy switch.
func NewClientIDFunc(trustProxyHeaders bool) ClientIDFunc {
	if trustProxyHeaders {
		return ClientIDBehindTrustedProxy
	}
	return ClientIDFromRemoteAddr
}
