/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/log"
	"github.com/webtoolbox/toolbox/log/logtest"
	"github.com/webtoolbox/toolbox/restapi"
)

const testErrDomain = "TestService"

func TestRecovery(t *testing.T) {
	t.Run("panic is recovered", func(t *testing.T) {
		recorder := logtest.NewRecorder()
		next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			panic("something really bad happened")
		})

		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req = req.WithContext(NewContextWithLogger(req.Context(), recorder))
		resp := httptest.NewRecorder()
		require.NotPanics(t, func() {
			Recovery(testErrDomain)(next).ServeHTTP(resp, req)
		})

		require.Equal(t, http.StatusInternalServerError, resp.Code)

		var respData restapi.ErrorResponseData
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &respData))
		require.Equal(t, testErrDomain, respData.Err.Domain)
		require.Equal(t, restapi.ErrCodeInternal, respData.Err.Code)

		entries := recorder.Entries()
		require.NotEmpty(t, entries)
		require.Equal(t, log.LevelError, entries[0].Level)
		_, stackLogged := entries[0].FindField("stack")
		require.True(t, stackLogged)
	})

	t.Run("ErrAbortHandler propagates", func(t *testing.T) {
		next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			panic(http.ErrAbortHandler)
		})

		require.PanicsWithValue(t, http.ErrAbortHandler, func() {
			Recovery(testErrDomain)(next).ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
		})
	})
}
