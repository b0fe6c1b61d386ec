/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package handlers

import (
	"fmt"
	"math/rand"
	"net/http"
	"strconv"

	"github.com/webtoolbox/toolbox/httpserver/middleware"
	"github.com/webtoolbox/toolbox/restapi"
)

// Default and boundary values for the random numbers generator.
const (
	defaultRandomMin = 0
	defaultRandomMax = 100
	maxRandomCount   = 1000
)

type randomResponseData struct {
	Min     int   `json:"min"`
	Max     int   `json:"max"`
	Numbers []int `json:"numbers"`
}

// RandomHandler generates random integers in the requested range.
type RandomHandler struct {
	errDomain string
}

// NewRandomHandler creates a new handler for GET /tools/random.
func NewRandomHandler(errDomain string) *RandomHandler {
	return &RandomHandler{errDomain: errDomain}
}

// ServeHTTP implements http.Handler.
func (h *RandomHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())
	query := r.URL.Query()

	getIntParam := func(name string, defaultValue int) (int, bool) {
		if !query.Has(name) {
			return defaultValue, true
		}
		v, err := strconv.Atoi(query.Get(name))
		if err != nil {
			return 0, false
		}
		return v, true
	}

	minValue, ok := getIntParam("min", defaultRandomMin)
	if !ok {
		restapi.RespondInvalidArgumentError(rw, h.errDomain, `"min" must be an integer`, logger)
		return
	}
	maxValue, ok := getIntParam("max", defaultRandomMax)
	if !ok {
		restapi.RespondInvalidArgumentError(rw, h.errDomain, `"max" must be an integer`, logger)
		return
	}
	if maxValue < minValue {
		restapi.RespondInvalidArgumentError(rw, h.errDomain, `"max" must be greater than or equal to "min"`, logger)
		return
	}

	// The +1 may overflow for extreme bounds (e.g. min=math.MinInt64, max=math.MaxInt64).
	span := maxValue - minValue + 1
	if span <= 0 {
		restapi.RespondInvalidArgumentError(rw, h.errDomain, `"min".."max" range is too wide`, logger)
		return
	}

	count, ok := getIntParam("count", 1)
	if !ok || count < 1 || count > maxRandomCount {
		restapi.RespondInvalidArgumentError(rw, h.errDomain,
			fmt.Sprintf(`"count" must be an integer in range [1..%d]`, maxRandomCount), logger)
		return
	}

	numbers := make([]int, 0, count)
	for i := 0; i < count; i++ {
		numbers = append(numbers, minValue+rand.Intn(span)) // nolint:gosec // Not used for security.
	}
	restapi.RespondJSON(rw, randomResponseData{Min: minValue, Max: maxValue, Numbers: numbers}, logger)
}
