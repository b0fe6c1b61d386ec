/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package middleware

import (
	"bytes"
	"net/http"

	"github.com/vasayxtx/go-glob"

	"github.com/webtoolbox/toolbox/log"
	"github.com/webtoolbox/toolbox/respcache"
)

// CacheStatusHeader is a response header telling whether the response was served from the cache.
const CacheStatusHeader = "X-Cache"

// Cache status header values.
const (
	CacheStatusHit  = "HIT"
	CacheStatusMiss = "MISS"
)

// ResponseCacheOpts represents an options for ResponseCache middleware.
type ResponseCacheOpts struct {
	// ExcludedRoutes lists glob patterns of route paths that are never cached
	// (e.g. routes with inherently random responses). Matching is done on the
	// request path, query string excluded.
	ExcludedRoutes []string
}

type responseCacheHandler struct {
	next           http.Handler
	cache          *respcache.Cache
	excludedRoutes []func(string) bool
}

// ResponseCache is a middleware that serves stored responses for repeated GET
// requests and stores newly produced successful ones.
//
// The cache key is the request fingerprint (method, path, raw query), so the
// same parameters in a different order hit different entries. Responses with
// status >= 400 are never stored: a failed handler leaves the cache untouched.
func ResponseCache(cache *respcache.Cache) func(next http.Handler) http.Handler {
	return ResponseCacheWithOpts(cache, ResponseCacheOpts{})
}

// ResponseCacheWithOpts is a more configurable version of ResponseCache middleware.
func ResponseCacheWithOpts(cache *respcache.Cache, opts ResponseCacheOpts) func(next http.Handler) http.Handler {
	matchers := make([]func(string) bool, 0, len(opts.ExcludedRoutes))
	for _, pattern := range opts.ExcludedRoutes {
		matchers = append(matchers, glob.Compile(pattern))
	}
	return func(next http.Handler) http.Handler {
		return &responseCacheHandler{next: next, cache: cache, excludedRoutes: matchers}
	}
}

func (h *responseCacheHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet || h.isRouteExcluded(r.URL.Path) {
		h.next.ServeHTTP(rw, r)
		return
	}

	key := respcache.RequestFingerprint(r)

	if entry, ok := h.cache.Lookup(key); ok {
		if logger := GetLoggerFromContext(r.Context()); logger != nil {
			logger.Debug("response is served from the cache", log.String("cache_key", key))
		}
		rw.Header().Set(CacheStatusHeader, CacheStatusHit)
		if entry.ContentType != "" {
			rw.Header().Set("Content-Type", entry.ContentType)
		}
		rw.WriteHeader(entry.StatusCode)
		_, _ = rw.Write(entry.Body)
		return
	}

	rw.Header().Set(CacheStatusHeader, CacheStatusMiss)
	rec := &recordingResponseWriter{rw: rw}
	h.next.ServeHTTP(rec, r)

	if rec.status() < http.StatusBadRequest {
		h.cache.Store(key, respcache.Entry{
			StatusCode:  rec.status(),
			ContentType: rw.Header().Get("Content-Type"),
			Body:        rec.body.Bytes(),
		})
	}
}

func (h *responseCacheHandler) isRouteExcluded(path string) bool {
	for _, match := range h.excludedRoutes {
		if match(path) {
			return true
		}
	}
	return false
}

// recordingResponseWriter passes the response through and keeps a copy of the
// body so that it can be stored in the cache.
type recordingResponseWriter struct {
	rw          http.ResponseWriter
	body        bytes.Buffer
	statusCode  int
	wroteHeader bool
}

func (rec *recordingResponseWriter) Header() http.Header {
	return rec.rw.Header()
}

func (rec *recordingResponseWriter) WriteHeader(statusCode int) {
	if rec.wroteHeader {
		return
	}
	rec.statusCode = statusCode
	rec.wroteHeader = true
	rec.rw.WriteHeader(statusCode)
}

func (rec *recordingResponseWriter) Write(b []byte) (int, error) {
	rec.WriteHeader(http.StatusOK)
	rec.body.Write(b)
	return rec.rw.Write(b)
}

func (rec *recordingResponseWriter) status() int {
	if !rec.wroteHeader {
		return http.StatusOK
	}
	return rec.statusCode
}
