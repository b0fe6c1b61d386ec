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

func TestWrapResponseWriter(t *testing.T) {
	t.Run("status and bytes are captured", func(t *testing.T) {
		resp := httptest.NewRecorder()
		wrw := NewWrapResponseWriter(resp)

		wrw.WriteHeader(http.StatusAccepted)
		n, err := wrw.Write([]byte("hello"))
		require.NoError(t, err)
		require.Equal(t, 5, n)

		require.Equal(t, http.StatusAccepted, wrw.Status())
		require.Equal(t, 5, wrw.BytesWritten())
		require.Equal(t, http.StatusAccepted, resp.Code)
	})

	t.Run("implicit 200 on write", func(t *testing.T) {
		wrw := NewWrapResponseWriter(httptest.NewRecorder())
		_, err := wrw.Write([]byte("ok"))
		require.NoError(t, err)
		require.Equal(t, http.StatusOK, wrw.Status())
	})

	t.Run("repeated WriteHeader is ignored", func(t *testing.T) {
		resp := httptest.NewRecorder()
		wrw := NewWrapResponseWriter(resp)
		wrw.WriteHeader(http.StatusNotFound)
		wrw.WriteHeader(http.StatusOK)
		require.Equal(t, http.StatusNotFound, wrw.Status())
		require.Equal(t, http.StatusNotFound, resp.Code)
	})

	t.Run("wrapping is idempotent", func(t *testing.T) {
		wrw := NewWrapResponseWriter(httptest.NewRecorder())
		require.Equal(t, wrw, WrapResponseWriterIfNeeded(wrw))
	})
}
