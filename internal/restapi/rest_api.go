package restapi

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/lmi-dashboard/lmi-dashboard/internal/app"
)

type RestAPI struct {
	*app.Application
	rateLimiter *RateLimitMiddleware
	upgrader    websocket.Upgrader
}

// NewRestAPI creates a new RestAPI instance with initialized rate limiter
func NewRestAPI(app *app.Application) *RestAPI {
	return &RestAPI{
		Application: app,
		rateLimiter: NewRateLimitMiddleware(app.Config.RateLimit, time.Second),
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// Renderers are embedded in third-party host pages.
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// Close stops background work owned by the API.
func (api *RestAPI) Close() {
	api.rateLimiter.Stop()
}

// WithMiddleware wraps the whole router with the handlers every request goes
// through, outermost first: request logging, security headers, compression.
func (api *RestAPI) WithMiddleware(handler http.Handler) http.Handler {
	handler = CompressionMiddleware(handler)
	handler = api.WithSecurityHeaders(handler)
	return NewRequestLoggingMiddleware(api.Logger)(handler)
}
