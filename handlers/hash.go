/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package handlers

import (
	"crypto/md5" // nolint:gosec // Weak digests are part of the API surface, not used for security.
	"crypto/sha1"
	"crypto/sha256"
	"encoding/hex"
	"hash"
	"net/http"

	"github.com/webtoolbox/toolbox/httpserver/middleware"
	"github.com/webtoolbox/toolbox/restapi"
)

type hashResponseData struct {
	Algorithm string `json:"algorithm"`
	Text      string `json:"text"`
	Digest    string `json:"digest"`
}

// HashHandler computes hex digests of a given text.
type HashHandler struct {
	errDomain string
}

// NewHashHandler creates a new handler for GET /tools/hash.
func NewHashHandler(errDomain string) *HashHandler {
	return &HashHandler{errDomain: errDomain}
}

// ServeHTTP implements http.Handler.
func (h *HashHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())
	query := r.URL.Query()

	if !query.Has("text") {
		restapi.RespondInvalidArgumentError(rw, h.errDomain, `"text" query parameter is required`, logger)
		return
	}
	text := query.Get("text")

	algorithm := query.Get("algorithm")
	if algorithm == "" {
		algorithm = "sha256"
	}

	var hasher hash.Hash
	switch algorithm {
	case "md5":
		hasher = md5.New() // nolint:gosec
	case "sha1":
		hasher = sha1.New() // nolint:gosec
	case "sha256":
		hasher = sha256.New()
	default:
		restapi.RespondInvalidArgumentError(
			rw, h.errDomain, `"algorithm" must be one of: [md5, sha1, sha256]`, logger)
		return
	}

	hasher.Write([]byte(text))
	restapi.RespondJSON(rw, hashResponseData{
		Algorithm: algorithm,
		Text:      text,
		Digest:    hex.EncodeToString(hasher.Sum(nil)),
	}, logger)
}
