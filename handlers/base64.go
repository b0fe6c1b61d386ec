/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package handlers

import (
	"encoding/base64"
	"net/http"

	"github.com/webtoolbox/toolbox/httpserver/middleware"
	"github.com/webtoolbox/toolbox/restapi"
)

type base64ResponseData struct {
	Action string `json:"action"`
	Text   string `json:"text"`
	Result string `json:"result"`
}

// Base64Handler encodes and decodes base64 strings.
type Base64Handler struct {
	errDomain string
}

// NewBase64Handler creates a new handler for GET /tools/base64.
func NewBase64Handler(errDomain string) *Base64Handler {
	return &Base64Handler{errDomain: errDomain}
}

// ServeHTTP implements http.Handler.
func (h *Base64Handler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())
	query := r.URL.Query()

	if !query.Has("text") {
		restapi.RespondInvalidArgumentError(rw, h.errDomain, `"text" query parameter is required`, logger)
		return
	}
	text := query.Get("text")

	action := query.Get("action")
	if action == "" {
		action = "encode"
	}

	var result string
	switch action {
	case "encode":
		result = base64.StdEncoding.EncodeToString([]byte(text))
	case "decode":
		decoded, err := base64.StdEncoding.DecodeString(text)
		if err != nil {
			restapi.RespondInvalidArgumentError(rw, h.errDomain, `"text" is not valid base64`, logger)
			return
		}
		result = string(decoded)
	default:
		restapi.RespondInvalidArgumentError(rw, h.errDomain, `"action" must be one of: [encode, decode]`, logger)
		return
	}

	restapi.RespondJSON(rw, base64ResponseData{Action: action, Text: text, Result: result}, logger)
}
