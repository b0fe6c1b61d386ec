/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package restapi

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/webtoolbox/toolbox/log/logtest"
)

func TestRespondJSON(t *testing.T) {
	respRec := httptest.NewRecorder()
	RespondJSON(respRec, map[string]string{"text": "<b>abc</b>"}, nil)
	require.Equal(t, http.StatusOK, respRec.Code)
	require.Equal(t, ContentTypeAppJSON, respRec.Header().Get("Content-Type"))
	// HTML escaping must stay disabled.
	require.Equal(t, `{"text":"<b>abc</b>"}`, respRec.Body.String())
}

func TestRespondJSONNilData(t *testing.T) {
	respRec := httptest.NewRecorder()
	RespondCodeAndJSON(respRec, http.StatusNoContent, nil, nil)
	require.Equal(t, http.StatusNoContent, respRec.Code)
	require.Empty(t, respRec.Body.String())
}

func TestRespondError(t *testing.T) {
	logRecorder := logtest.NewRecorder()
	respRec := httptest.NewRecorder()
	apiErr := NewTooManyRequestsError("Toolbox")
	RespondError(respRec, http.StatusTooManyRequests, apiErr, logRecorder)
	require.Equal(t, http.StatusTooManyRequests, respRec.Code)

	var respData ErrorResponseData
	require.NoError(t, json.Unmarshal(respRec.Body.Bytes(), &respData))
	require.Equal(t, "Toolbox", respData.Err.Domain)
	require.Equal(t, ErrCodeTooManyRequests, respData.Err.Code)

	entry, found := logRecorder.FindEntry("error in response")
	require.True(t, found)
	field, found := entry.FindField("error_code")
	require.True(t, found)
	require.Equal(t, ErrCodeTooManyRequests, string(field.Bytes))
}
