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

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/testutil"
)

func TestUUIDHandler_ServeHTTP(t *testing.T) {
	h := NewUUIDHandler(testErrDomain)

	t.Run("single uuid by default", func(t *testing.T) {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/tools/uuid", nil))

		require.Equal(t, http.StatusOK, resp.Code)
		var respData uuidResponseData
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respData))
		require.Len(t, respData.UUIDs, 1)
		_, err := uuid.Parse(respData.UUIDs[0])
		require.NoError(t, err)
	})

	t.Run("multiple distinct uuids", func(t *testing.T) {
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/tools/uuid?count=10", nil))

		require.Equal(t, http.StatusOK, resp.Code)
		var respData uuidResponseData
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respData))
		require.Len(t, respData.UUIDs, 10)
		seen := make(map[string]bool)
		for _, u := range respData.UUIDs {
			_, err := uuid.Parse(u)
			require.NoError(t, err)
			require.False(t, seen[u])
			seen[u] = true
		}
	})

	t.Run("count out of range", func(t *testing.T) {
		for _, q := range []string{"count=0", "count=101", "count=abc"} {
			resp := httptest.NewRecorder()
			h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/tools/uuid?"+q, nil))
			testutil.RequireErrorInRecorder(t, resp, http.StatusBadRequest, testErrDomain, "invalidArgument")
		}
	})
}
