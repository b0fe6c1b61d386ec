/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package handlers

import (
	"net/http"

	"github.com/webtoolbox/toolbox/httpserver/middleware"
	"github.com/webtoolbox/toolbox/restapi"
)

type clientIPResponseData struct {
	IP string `json:"ip"`
}

// ClientIPHandler echoes the client identity resolved by the rate limiting middleware.
type ClientIPHandler struct{}

// NewClientIPHandler creates a new handler for GET /network/ip.
func NewClientIPHandler() *ClientIPHandler {
	return &ClientIPHandler{}
}

// ServeHTTP implements http.Handler.
func (h *ClientIPHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	// The rate limiting middleware stores the resolved identity in the context.
	// When it's disabled, fall back to the remote address.
	clientIP := middleware.GetClientIDFromContext(r.Context())
	if clientIP == "" {
		clientIP = middleware.ClientIDFromRemoteAddr(r)
	}

	restapi.RespondJSON(rw, clientIPResponseData{IP: clientIP}, logger)
}
