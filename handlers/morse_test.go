/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/testutil"
)

func TestMorseHandler_ServeHTTP(t *testing.T) {
	h := NewMorseHandler(testErrDomain)

	doMorseRequest := func(t *testing.T, text, action string) *httptest.ResponseRecorder {
		t.Helper()
		q := url.Values{"text": {text}}
		if action != "" {
			q.Set("action", action)
		}
		resp := httptest.NewRecorder()
		h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/tools/morse?"+q.Encode(), nil))
		return resp
	}

	t.Run("encode", func(t *testing.T) {
		resp := doMorseRequest(t, "SOS", "")
		require.Equal(t, http.StatusOK, resp.Code)
		var respData morseResponseData
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respData))
		require.Equal(t, "... --- ...", respData.Result)
	})

	t.Run("encode with word separation", func(t *testing.T) {
		resp := doMorseRequest(t, "hi you", "encode")
		require.Equal(t, http.StatusOK, resp.Code)
		var respData morseResponseData
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respData))
		require.Equal(t, ".... .. / -.-- --- ..-", respData.Result)
	})

	t.Run("decode", func(t *testing.T) {
		resp := doMorseRequest(t, ".... .. / -.-- --- ..-", "decode")
		require.Equal(t, http.StatusOK, resp.Code)
		var respData morseResponseData
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&respData))
		require.Equal(t, "hi you", respData.Result)
	})

	t.Run("encode of unsupported symbol", func(t *testing.T) {
		resp := doMorseRequest(t, "héllo", "encode")
		testutil.RequireErrorInRecorder(t, resp, http.StatusBadRequest, testErrDomain, "invalidArgument")
	})

	t.Run("decode of unknown code", func(t *testing.T) {
		resp := doMorseRequest(t, "...---...---", "decode")
		testutil.RequireErrorInRecorder(t, resp, http.StatusBadRequest, testErrDomain, "invalidArgument")
	})

	t.Run("unknown action", func(t *testing.T) {
		resp := doMorseRequest(t, "sos", "transliterate")
		testutil.RequireErrorInRecorder(t, resp, http.StatusBadRequest, testErrDomain, "invalidArgument")
	})
}
