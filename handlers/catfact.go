/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package handlers

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/webtoolbox/toolbox/httpserver/middleware"
	"github.com/webtoolbox/toolbox/log"
	"github.com/webtoolbox/toolbox/restapi"
	"github.com/webtoolbox/toolbox/retry"
)

// DefaultCatFactURL is the upstream public API for cat facts.
const DefaultCatFactURL = "https://catfact.ninja/fact"

// FallbackCatFact is served when the upstream API is unavailable.
const FallbackCatFact = "Cats sleep for around 13 to 16 hours a day."

const (
	catFactSourceUpstream = "upstream"
	catFactSourceFallback = "fallback"
)

type catFactResponseData struct {
	Fact   string `json:"fact"`
	Source string `json:"source"`
}

type upstreamCatFact struct {
	Fact string `json:"fact"`
}

// CatFactOpts represents options for CatFactHandler.
type CatFactOpts struct {
	// Client is an HTTP client for upstream calls. http.DefaultClient is used when nil.
	Client *http.Client

	// URL overrides the upstream API URL. DefaultCatFactURL is used when empty.
	URL string

	// RetryPolicy is a backoff policy for upstream calls.
	// Two retries with a 100ms exponential backoff are used by default.
	RetryPolicy retry.Policy
}

// CatFactHandler proxies a public cat-facts API
// falling back to a hardcoded fact when the upstream is unavailable.
type CatFactHandler struct {
	errDomain   string
	client      *http.Client
	url         string
	retryPolicy retry.Policy
}

// NewCatFactHandler creates a new handler for GET /facts/catfact.
func NewCatFactHandler(errDomain string) *CatFactHandler {
	return NewCatFactHandlerWithOpts(errDomain, CatFactOpts{})
}

// NewCatFactHandlerWithOpts creates a new handler for GET /facts/catfact with options.
// For options that are not presented, the default values will be used.
func NewCatFactHandlerWithOpts(errDomain string, opts CatFactOpts) *CatFactHandler {
	if opts.Client == nil {
		opts.Client = http.DefaultClient
	}
	if opts.URL == "" {
		opts.URL = DefaultCatFactURL
	}
	if opts.RetryPolicy == nil {
		opts.RetryPolicy = retry.NewExponentialBackoffPolicy(time.Millisecond*100, 2)
	}
	return &CatFactHandler{
		errDomain:   errDomain,
		client:      opts.Client,
		url:         opts.URL,
		retryPolicy: opts.RetryPolicy,
	}
}

// ServeHTTP implements http.Handler.
func (h *CatFactHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	logger := middleware.GetLoggerFromContext(r.Context())

	fact, err := h.fetchFact(r.Context())
	if err != nil {
		if logger != nil {
			logger.Warn("cat fact upstream is unavailable, serving fallback", log.Error(err))
		}
		restapi.RespondJSON(rw, catFactResponseData{Fact: FallbackCatFact, Source: catFactSourceFallback}, logger)
		return
	}

	restapi.RespondJSON(rw, catFactResponseData{Fact: fact, Source: catFactSourceUpstream}, logger)
}

func (h *CatFactHandler) fetchFact(ctx context.Context) (string, error) {
	var fact string
	err := retry.DoWithRetry(ctx, h.retryPolicy, nil, nil, func(ctx context.Context) error {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, h.url, nil)
		if err != nil {
			return err
		}
		resp, err := h.client.Do(req)
		if err != nil {
			return err
		}
		defer func() { _ = resp.Body.Close() }()

		if resp.StatusCode != http.StatusOK {
			return fmt.Errorf("unexpected upstream status code %d", resp.StatusCode)
		}

		var upstream upstreamCatFact
		if err = json.NewDecoder(resp.Body).Decode(&upstream); err != nil {
			return fmt.Errorf("decode upstream response: %w", err)
		}
		if upstream.Fact == "" {
			return fmt.Errorf("upstream response contains no fact")
		}
		fact = upstream.Fact
		return nil
	})
	return fact, err
}
