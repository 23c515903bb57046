package restapi

import (
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/lmi-dashboard/lmi-dashboard/internal/models"
)

// anonymousKey buckets requests made without an API key.
const anonymousKey = "__no_key__"

// RateLimitMiddleware provides per-API-key rate limiting
type RateLimitMiddleware struct {
	limiters    map[string]*rate.Limiter
	mu          sync.RWMutex
	rateLimit   rate.Limit
	burstSize   int
	cleanupTick *time.Ticker
	done        chan struct{}
	stopOnce    sync.Once
}

// NewRateLimitMiddleware creates a limiter allowing ratePerInterval requests
// per interval for each API key. A negative rate disables limiting and zero
// blocks every request.
func NewRateLimitMiddleware(ratePerInterval int, interval time.Duration) *RateLimitMiddleware {
	var rateLimit rate.Limit
	switch {
	case ratePerInterval < 0:
		rateLimit = rate.Inf
	case ratePerInterval == 0:
		rateLimit = 0
	default:
		rateLimit = rate.Every(interval / time.Duration(ratePerInterval))
	}

	rl := &RateLimitMiddleware{
		limiters:    make(map[string]*rate.Limiter),
		rateLimit:   rateLimit,
		burstSize:   ratePerInterval,
		cleanupTick: time.NewTicker(5 * time.Minute),
		done:        make(chan struct{}),
	}

	go rl.cleanup()

	return rl
}

// getLimiter gets or creates a rate limiter for the given API key
func (rl *RateLimitMiddleware) getLimiter(apiKey string) *rate.Limiter {
	rl.mu.RLock()
	limiter, exists := rl.limiters[apiKey]
	rl.mu.RUnlock()

	if exists {
		return limiter
	}

	rl.mu.Lock()
	defer rl.mu.Unlock()

	// Double-check after acquiring write lock
	if limiter, exists := rl.limiters[apiKey]; exists {
		return limiter
	}

	limiter = rate.NewLimiter(rl.rateLimit, rl.burstSize)
	rl.limiters[apiKey] = limiter

	return limiter
}

// Handler wraps next with the rate limit.
func (rl *RateLimitMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if rl.rateLimit == rate.Inf {
			next.ServeHTTP(w, r)
			return
		}

		apiKey := r.URL.Query().Get("key")
		if apiKey == "" {
			apiKey = anonymousKey
		}

		if !rl.getLimiter(apiKey).Allow() {
			rl.sendRateLimitExceeded(w, r)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// sendRateLimitExceeded sends a 429 Too Many Requests response
func (rl *RateLimitMiddleware) sendRateLimitExceeded(w http.ResponseWriter, r *http.Request) {
	retryAfter := time.Second
	if rl.rateLimit == 0 {
		retryAfter = time.Hour
	} else if perToken := time.Duration(float64(time.Second) / float64(rl.rateLimit)); perToken > retryAfter {
		retryAfter = perToken
	}

	w.Header().Set("Retry-After", strconv.Itoa(int(retryAfter.Seconds())))
	w.Header().Set("X-RateLimit-Limit", strconv.Itoa(rl.burstSize))
	w.Header().Set("X-RateLimit-Remaining", "0")

	writeJSON(w, http.StatusTooManyRequests, models.NewResponse(
		http.StatusTooManyRequests,
		nil,
		"Rate limit exceeded. Please try again later.",
	))
}

// cleanup periodically drops limiters that are back to a full bucket.
func (rl *RateLimitMiddleware) cleanup() {
	for {
		select {
		case <-rl.done:
			return
		case <-rl.cleanupTick.C:
			rl.mu.Lock()
			for key, limiter := range rl.limiters {
				if limiter.Tokens() >= float64(rl.burstSize) {
					delete(rl.limiters, key)
				}
			}
			rl.mu.Unlock()
		}
	}
}

// Stop stops the cleanup goroutine
func (rl *RateLimitMiddleware) Stop() {
	rl.stopOnce.Do(func() {
		rl.cleanupTick.Stop()
		close(rl.done)
	})
}
