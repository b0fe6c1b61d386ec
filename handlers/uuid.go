/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package handlers

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/webtoolbox/toolbox/httpserver/middleware"
	"github.com/webtoolbox/toolbox/restapi"
)

const maxUUIDCount = 100

type uuidResponseData struct {
	UUIDs []string `json:"uuids"`
}

// UUIDHandler generates random (version 4) UUIDs.
type UUIDHandler struct {
	errDomain string
}

// NewUUIDHandler creates a new handler for GET /tools/uuid.
func NewUUIDHandler(errDomain string) *UUIDHandler {
	return &UUIDHandler{errDomain: errDomain}
}

// ServeHTTP implements http.Handler.
func (h *UUIDHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())
	query := r.URL.Query()

	count := 1
	if query.Has("count") {
		var err error
		count, err = strconv.Atoi(query.Get("count"))
		if err != nil || count < 1 || count > maxUUIDCount {
			restapi.RespondInvalidArgumentError(rw, h.errDomain,
				fmt.Sprintf(`"count" must be an integer in range [1..%d]`, maxUUIDCount), logger)
			return
		}
	}

	uuids := make([]string, 0, count)
	for i := 0; i < count; i++ {
		uuids = append(uuids, uuid.NewString())
	}
	restapi.RespondJSON(rw, uuidResponseData{UUIDs: uuids}, logger)
}
