package restapi

import (
	"net/http"
	"strings"

	"github.com/klauspost/compress/gzhttp"
)

// CompressionConfig holds configuration options for response compression
type CompressionConfig struct {
	// MinSize is the minimum response size in bytes to compress (default: 1024)
	MinSize int
	// Level is the compression level 1-9 (default: 6)
	Level int
}

// DefaultCompressionConfig returns the compression settings used by the server
func DefaultCompressionConfig() CompressionConfig {
	return CompressionConfig{
		MinSize: 1024,
		Level:   6,
	}
}

// NewCompressionMiddleware creates a compression middleware with the given configuration.
// Websocket upgrades bypass compression since the connection gets hijacked.
func NewCompressionMiddleware(config CompressionConfig) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		var compressed http.Handler
		wrapper, err := gzhttp.NewWrapper(
			gzhttp.MinSize(config.MinSize),
			gzhttp.CompressionLevel(config.Level),
		)
		if err != nil {
			compressed = gzhttp.GzipHandler(next)
		} else {
			compressed = wrapper(next)
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isWebsocketUpgrade(r) {
				next.ServeHTTP(w, r)
				return
			}
			compressed.ServeHTTP(w, r)
		})
	}
}

// CompressionMiddleware applies gzip compression with default settings
func CompressionMiddleware(next http.Handler) http.Handler {
	return NewCompressionMiddleware(DefaultCompressionConfig())(next)
}

func isWebsocketUpgrade(r *http.Request) bool {
	return strings.EqualFold(r.Header.Get("Upgrade"), "websocket")
}
