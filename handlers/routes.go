/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

// Package handlers contains HTTP handlers of the toolbox API:
// string and number transforms, generators, and proxies to public APIs.
package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"
)

// NoCacheRoutePatterns lists glob patterns of routes whose responses are
// inherently random and therefore must never be cached.
var NoCacheRoutePatterns = []string{
	"*/tools/uuid",
	"*/tools/random",
	"*/network/ip",
}

// RoutesOpts represents options for registering the toolbox API routes.
type RoutesOpts struct {
	// ErrorDomain is used for error response formatting.
	ErrorDomain string

	// CatFactClient is an HTTP client for the cat-fact proxy endpoint.
	// http.DefaultClient is used when nil.
	CatFactClient *http.Client

	// CatFactURL overrides the upstream cat-fact API URL. Intended for tests.
	CatFactURL string
}

// RegisterRoutes mounts all toolbox API handlers on the router.
func RegisterRoutes(router chi.Router, opts RoutesOpts) {
	router.Route("/tools", func(r chi.Router) {
		r.Get("/hash", NewHashHandler(opts.ErrorDomain).ServeHTTP)
		r.Get("/base64", NewBase64Handler(opts.ErrorDomain).ServeHTTP)
		r.Get("/morse", NewMorseHandler(opts.ErrorDomain).ServeHTTP)
		r.Get("/roman", NewRomanHandler(opts.ErrorDomain).ServeHTTP)
		r.Get("/uuid", NewUUIDHandler(opts.ErrorDomain).ServeHTTP)
		r.Get("/random", NewRandomHandler(opts.ErrorDomain).ServeHTTP)
	})
	router.Route("/network", func(r chi.Router) {
		r.Get("/ip", NewClientIPHandler().ServeHTTP)
	})
	router.Route("/facts", func(r chi.Router) {
		r.Get("/catfact", NewCatFactHandlerWithOpts(opts.ErrorDomain, CatFactOpts{
			Client: opts.CatFactClient,
			URL:    opts.CatFactURL,
		}).ServeHTTP)
	})
}
