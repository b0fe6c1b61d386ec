/*
Copyright © 2025 Webtoolbox Authors.

Released under MIT license.
*/

package middleware

import (
	"math"
	"net/http"
	"strconv"
	"time"

	"github.com/RussellLuo/slidingwindow"

	"github.com/webtoolbox/toolbox/log"
	"github.com/webtoolbox/toolbox/ratelimit"
	"github.com/webtoolbox/toolbox/restapi"
)

// RateLimitLogFieldKey it is the name of the logged field that contains a key for the requests rate limiter.
const RateLimitLogFieldKey = "rate_limit_key"

// RateLimitParams contains data that relates to the rate limiting procedure
// and could be used for rejecting or handling an occurred error.
type RateLimitParams struct {
	ErrDomain  string
	ClientID   string
	RetryAfter time.Duration
}

// RateLimitOnRejectFunc is a function that is called for rejecting HTTP request when the rate limit is exceeded.
type RateLimitOnRejectFunc func(
	rw http.ResponseWriter, r *http.Request, params RateLimitParams, next http.Handler, logger log.FieldLogger)

// GlobalGuard limits the total throughput of the service, all clients combined.
// It approximates the rate with two adjacent fixed windows and is much cheaper
// than keeping a full timestamp log for the whole request stream.
type GlobalGuard struct {
	lim    *slidingwindow.Limiter
	window time.Duration
}

// NewGlobalGuard creates a new guard allowing maxRequests per window.
func NewGlobalGuard(maxRequests int, window time.Duration) *GlobalGuard {
	lim, _ := slidingwindow.NewLimiter(
		window, int64(maxRequests), func() (slidingwindow.Window, slidingwindow.StopFunc) {
			return slidingwindow.NewLocalWindow()
		})
	return &GlobalGuard{lim: lim, window: window}
}

// Allow reports whether one more request fits into the current window.
func (g *GlobalGuard) Allow() bool {
	return g.lim.Allow()
}

// RetryAfter estimates when the next window opens.
func (g *GlobalGuard) RetryAfter(now time.Time) time.Duration {
	return now.Truncate(g.window).Add(g.window).Sub(now)
}

// RateLimitOpts represents an options for the RateLimit middleware.
type RateLimitOpts struct {
	// GetClientID resolves the identity under which the request is limited.
	// ClientIDFromRemoteAddr is used by default.
	GetClientID ClientIDFunc

	// GlobalGuard, when not nil, additionally limits the total throughput of all clients.
	GlobalGuard *GlobalGuard

	// NowFunc is a clock used for limit evaluations. time.Now by default.
	NowFunc func() time.Time

	// OnReject is called for rejecting HTTP request when the rate limit is exceeded.
	OnReject RateLimitOnRejectFunc
}

type rateLimitHandler struct {
	next      http.Handler
	limiter   *ratelimit.SlidingWindowLogLimiter
	errDomain string
	opts      RateLimitOpts
}

// RateLimit is a middleware that limits the rate of HTTP requests per client.
// The resolved client identity is put into the request's context.
func RateLimit(limiter *ratelimit.SlidingWindowLogLimiter, errDomain string) func(next http.Handler) http.Handler {
	return RateLimitWithOpts(limiter, errDomain, RateLimitOpts{})
}

// RateLimitWithOpts is a more configurable version of RateLimit middleware.
func RateLimitWithOpts(
	limiter *ratelimit.SlidingWindowLogLimiter, errDomain string, opts RateLimitOpts,
) func(next http.Handler) http.Handler {
	if opts.GetClientID == nil {
		opts.GetClientID = ClientIDFromRemoteAddr
	}
	if opts.NowFunc == nil {
		opts.NowFunc = time.Now
	}
	if opts.OnReject == nil {
		opts.OnReject = DefaultRateLimitOnReject
	}
	return func(next http.Handler) http.Handler {
		return &rateLimitHandler{next: next, limiter: limiter, errDomain: errDomain, opts: opts}
	}
}

func (h *rateLimitHandler) ServeHTTP(rw http.ResponseWriter, r *http.Request) {
	now := h.opts.NowFunc()
	clientID := h.opts.GetClientID(r)
	r = r.WithContext(NewContextWithClientID(r.Context(), clientID))
	logger := GetLoggerFromContext(r.Context())

	if h.opts.GlobalGuard != nil && !h.opts.GlobalGuard.Allow() {
		params := RateLimitParams{
			ErrDomain:  h.errDomain,
			ClientID:   clientID,
			RetryAfter: h.opts.GlobalGuard.RetryAfter(now),
		}
		h.opts.OnReject(rw, r, params, h.next, logger)
		return
	}

	decision := h.limiter.CheckAndRecord(clientID, now)
	if !decision.Allowed {
		params := RateLimitParams{
			ErrDomain:  h.errDomain,
			ClientID:   clientID,
			RetryAfter: decision.RetryAfter,
		}
		h.opts.OnReject(rw, r, params, h.next, logger)
		return
	}

	h.next.ServeHTTP(rw, r)
}

// DefaultRateLimitOnReject responds with 429 and the Retry-After header
// when the rate limit is exceeded.
func DefaultRateLimitOnReject(
	rw http.ResponseWriter, r *http.Request, params RateLimitParams, _ http.Handler, logger log.FieldLogger,
) {
	if logger != nil {
		logger.Warn("too many requests",
			log.String(RateLimitLogFieldKey, params.ClientID),
			log.String(userAgentLogFieldKey, r.UserAgent()),
		)
	}
	rw.Header().Set("Retry-After", strconv.Itoa(int(math.Ceil(params.RetryAfter.Seconds()))))
	restapi.RespondError(rw, http.StatusTooManyRequests, restapi.NewTooManyRequestsError(params.ErrDomain), logger)
}
