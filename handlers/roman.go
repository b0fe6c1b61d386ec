/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package handlers

import (
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/webtoolbox/toolbox/httpserver/middleware"
	"github.com/webtoolbox/toolbox/restapi"
)

// Roman numeral conversion is defined for this range only.
const (
	romanMin = 1
	romanMax = 3999
)

var romanDigits = []struct {
	value   int
	numeral string
}{
	{1000, "M"}, {900, "CM"}, {500, "D"}, {400, "CD"},
	{100, "C"}, {90, "XC"}, {50, "L"}, {40, "XL"},
	{10, "X"}, {9, "IX"}, {5, "V"}, {4, "IV"}, {1, "I"},
}

type romanResponseData struct {
	Number  int    `json:"number"`
	Numeral string `json:"numeral"`
}

// RomanHandler converts between Arabic numbers and Roman numerals.
type RomanHandler struct {
	errDomain string
}

// NewRomanHandler creates a new handler for GET /tools/roman.
func NewRomanHandler(errDomain string) *RomanHandler {
	return &RomanHandler{errDomain: errDomain}
}

// ServeHTTP implements http.Handler.
func (h *RomanHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())
	query := r.URL.Query()

	hasNumber, hasNumeral := query.Has("number"), query.Has("numeral")
	if hasNumber == hasNumeral {
		restapi.RespondInvalidArgumentError(
			rw, h.errDomain, `exactly one of "number" and "numeral" query parameters is required`, logger)
		return
	}

	if hasNumber {
		number, err := strconv.Atoi(query.Get("number"))
		if err != nil || number < romanMin || number > romanMax {
			restapi.RespondInvalidArgumentError(rw, h.errDomain,
				fmt.Sprintf(`"number" must be an integer in range [%d..%d]`, romanMin, romanMax), logger)
			return
		}
		restapi.RespondJSON(rw, romanResponseData{Number: number, Numeral: romanFromNumber(number)}, logger)
		return
	}

	numeral := strings.ToUpper(query.Get("numeral"))
	number, ok := romanToNumber(numeral)
	if !ok {
		restapi.RespondInvalidArgumentError(rw, h.errDomain, `"numeral" is not a valid Roman numeral`, logger)
		return
	}
	restapi.RespondJSON(rw, romanResponseData{Number: number, Numeral: numeral}, logger)
}

func romanFromNumber(number int) string {
	var b strings.Builder
	for _, d := range romanDigits {
		for number >= d.value {
			b.WriteString(d.numeral)
			number -= d.value
		}
	}
	return b.String()
}

func romanToNumber(numeral string) (int, bool) {
	if numeral == "" {
		return 0, false
	}
	number := 0
	rest := numeral
	for _, d := range romanDigits {
		for strings.HasPrefix(rest, d.numeral) {
			number += d.value
			rest = rest[len(d.numeral):]
		}
	}
	// A canonical numeral round-trips exactly; anything else is rejected.
	if rest != "" || romanFromNumber(number) != numeral {
		return 0, false
	}
	return number, true
}
