/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestClientIDFromRemoteAddr(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4242"
	require.Equal(t, "192.0.2.10", ClientIDFromRemoteAddr(req))

	req.RemoteAddr = "[2001:db8::1]:4242"
	require.Equal(t, "2001:db8::1", ClientIDFromRemoteAddr(req))

	req.Header.Set(headerForwardedFor, "198.51.100.1")
	require.Equal(t, "2001:db8::1", ClientIDFromRemoteAddr(req), "forwarded headers are ignored")
}

func TestClientIDBehindTrustedProxy(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "10.0.0.1:4242"
	require.Equal(t, "10.0.0.1", ClientIDBehindTrustedProxy(req), "falls back to remote address")

	req.Header.Set(headerRealIP, "203.0.113.7")
	require.Equal(t, "203.0.113.7", ClientIDBehindTrustedProxy(req))

	req.Header.Set(headerForwardedFor, "198.51.100.1, 10.0.0.1")
	require.Equal(t, "198.51.100.1", ClientIDBehindTrustedProxy(req), "first forwarded entry wins")
}

func TestNewClientIDFunc(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req.RemoteAddr = "192.0.2.10:4242"
	req.Header.Set(headerForwardedFor, "198.51.100.1")

	require.Equal(t, "192.0.2.10", NewClientIDFunc(false)(req))
	require.Equal(t, "198.51.100.1", NewClientIDFunc(true)(req))
}
