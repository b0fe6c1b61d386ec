/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/httpserver/middleware"
)

func TestClientIPHandler_ServeHTTP(t *testing.T) {
	h := NewClientIPHandler()

	t.Run("identity from context", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/network/ip", nil)
		req = req.WithContext(middleware.NewContextWithClientID(req.Context(), "192.0.2.10"))
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		var respData clientIPResponseData
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respData))
		require.Equal(t, "192.0.2.10", respData.IP)
	})

	t.Run("fallback to remote address", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/network/ip", nil)
		req.RemoteAddr = "203.0.113.7:4242"
		resp := httptest.NewRecorder()

		h.ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		var respData clientIPResponseData
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respData))
		require.Equal(t, "203.0.113.7", respData.IP)
	})
}
