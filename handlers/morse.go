/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package handlers

import (
	"net/http"
	"strings"

	"github.com/webtoolbox/toolbox/httpserver/middleware"
	"github.com/webtoolbox/toolbox/restapi"
)

var morseByChar = map[rune]string{
	'a': ".-", 'b': "-...", 'c': "-.-.", 'd': "-..", 'e': ".", 'f': "..-.",
	'g': "--.", 'h': "....", 'i': "..", 'j': ".---", 'k': "-.-", 'l': ".-..",
	'm': "--", 'n': "-.", 'o': "---", 'p': ".--.", 'q': "--.-", 'r': ".-.",
	's': "...", 't': "-", 'u': "..-", 'v': "...-", 'w': ".--", 'x': "-..-",
	'y': "-.--", 'z': "--..",
	'0': "-----", '1': ".----", '2': "..---", '3': "...--", '4': "....-",
	'5': ".....", '6': "-....", '7': "--...", '8': "---..", '9': "----.",
	'.': ".-.-.-", ',': "--..--", '?': "..--..", '!': "-.-.--", '/': "-..-.",
	'(': "-.--.", ')': "-.--.-", '&': ".-...", ':': "---...", ';': "-.-.-.",
	'=': "-...-", '+': ".-.-.", '-': "-....-", '"': ".-..-.", '@': ".--.-.",
	'\'': ".----.",
}

var charByMorse = func() map[string]rune {
	m := make(map[string]rune, len(morseByChar))
	for ch, code := range morseByChar {
		m[code] = ch
	}
	return m
}()

type morseResponseData struct {
	Action string `json:"action"`
	Text   string `json:"text"`
	Result string `json:"result"`
}

// MorseHandler encodes text to Morse code and back.
// Encoded letters are separated by spaces, words by " / ".
type MorseHandler struct {
	errDomain string
}

// NewMorseHandler creates a new handler for GET /tools/morse.
func NewMorseHandler(errDomain string) *MorseHandler {
	return &MorseHandler{errDomain: errDomain}
}

// ServeHTTP implements http.Handler.
func (h *MorseHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
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
	var err error
	switch action {
	case "encode":
		result, err = morseEncode(text)
	case "decode":
		result, err = morseDecode(text)
	default:
		restapi.RespondInvalidArgumentError(rw, h.errDomain, `"action" must be one of: [encode, decode]`, logger)
		return
	}
	if err != nil {
		restapi.RespondInvalidArgumentError(rw, h.errDomain, err.Error(), logger)
		return
	}

	restapi.RespondJSON(rw, morseResponseData{Action: action, Text: text, Result: result}, logger)
}

func morseEncode(text string) (string, error) {
	var codes []string
	for _, ch := range strings.ToLower(text) {
		if ch == ' ' {
			codes = append(codes, "/")
			continue
		}
		code, ok := morseByChar[ch]
		if !ok {
			return "", &unsupportedSymbolError{string(ch)}
		}
		codes = append(codes, code)
	}
	return strings.Join(codes, " "), nil
}

func morseDecode(text string) (string, error) {
	var b strings.Builder
	for _, code := range strings.Fields(text) {
		if code == "/" {
			b.WriteByte(' ')
			continue
		}
		ch, ok := charByMorse[code]
		if !ok {
			return "", &unsupportedSymbolError{code}
		}
		b.WriteRune(ch)
	}
	return b.String(), nil
}

type unsupportedSymbolError struct {
	symbol string
}

func (e *unsupportedSymbolError) Error() string {
	return `unsupported symbol: "` + e.symbol + `"`
}
