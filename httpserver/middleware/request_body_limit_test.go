/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package middleware

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/restapi"
)

func TestRequestBodyLimit(t *testing.T) {
	const maxSizeBytes = 64

	t.Run("small body passes", func(t *testing.T) {
		var gotBody []byte
		next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			gotBody, _ = io.ReadAll(r.Body)
			rw.WriteHeader(http.StatusOK)
		})

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader("small body"))
		resp := httptest.NewRecorder()
		RequestBodyLimit(maxSizeBytes, testErrDomain)(next).ServeHTTP(resp, req)

		require.Equal(t, http.StatusOK, resp.Code)
		require.Equal(t, "small body", string(gotBody))
	})

	t.Run("too large body is rejected by content length", func(t *testing.T) {
		next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			t.Fatal("handler must not be called")
		})

		req := httptest.NewRequest(http.MethodPost, "/", strings.NewReader(strings.Repeat("x", maxSizeBytes+1)))
		resp := httptest.NewRecorder()
		RequestBodyLimit(maxSizeBytes, testErrDomain)(next).ServeHTTP(resp, req)

		require.Equal(t, http.StatusRequestEntityTooLarge, resp.Code)

		var respData restapi.ErrorResponseData
		require.NoError(t, json.Unmarshal(resp.Body.Bytes(), &respData))
		require.Equal(t, restapi.ErrCodeTooLargeBody, respData.Err.Code)
	})

	t.Run("actual content is limited", func(t *testing.T) {
		var readErr error
		next := http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
			_, readErr = io.ReadAll(r.Body)
		})

		// No Content-Length, chunked-like reader.
		req := httptest.NewRequest(http.MethodPost, "/", io.NopCloser(strings.NewReader(strings.Repeat("x", maxSizeBytes*2))))
		req.ContentLength = -1
		RequestBodyLimit(maxSizeBytes, testErrDomain)(next).ServeHTTP(httptest.NewRecorder(), req)

		require.Error(t, readErr)
	})
}
