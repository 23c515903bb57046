package source

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"strings"
	"time"
)

// Fetcher opens the resource behind a dataset location.
type Fetcher interface {
	Fetch(ctx context.Context, location string) (io.ReadCloser, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context, location string) (io.ReadCloser, error)

func (f FetcherFunc) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	return f(ctx, location)
}

// HTTPFetcher downloads locations over http and https.
type HTTPFetcher struct {
	client  *http.Client
	headers map[string]string
}

// NewHTTPFetcher returns an HTTPFetcher using client, or a client with a
// 60 second timeout when client is nil.
func NewHTTPFetcher(client *http.Client, headers map[string]string) *HTTPFetcher {
	if client == nil {
		client = &http.Client{Timeout: 60 * time.Second}
	}
	return &HTTPFetcher{client: client, headers: headers}
}

func (f *HTTPFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, location, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to build request: %w", err)
	}
	for key, value := range f.headers {
		req.Header.Add(key, value)
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to make HTTP request: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		_ = resp.Body.Close()
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}
	return resp.Body, nil
}

// FileFetcher reads locations from the local filesystem. A file:// prefix is accepted.
type FileFetcher struct{}

func (FileFetcher) Fetch(_ context.Context, location string) (io.ReadCloser, error) {
	path := strings.TrimPrefix(location, "file://")
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open local dataset: %w", err)
	}
	return f, nil
}

// SchemeFetcher dispatches to a Fetcher registered for the location's URL
// scheme. Locations without a registered scheme go to the fallback.
type SchemeFetcher struct {
	byScheme map[string]Fetcher
	fallback Fetcher
}

// NewSchemeFetcher returns a SchemeFetcher that sends unknown schemes to fallback.
func NewSchemeFetcher(fallback Fetcher) *SchemeFetcher {
	return &SchemeFetcher{
		byScheme: make(map[string]Fetcher),
		fallback: fallback,
	}
}

// Register routes locations with the given scheme (e.g. "https") to f.
func (s *SchemeFetcher) Register(scheme string, f Fetcher) {
	s.byScheme[strings.ToLower(scheme)] = f
}

func (s *SchemeFetcher) Fetch(ctx context.Context, location string) (io.ReadCloser, error) {
	if f, ok := s.byScheme[Scheme(location)]; ok {
		return f.Fetch(ctx, location)
	}
	if s.fallback == nil {
		return nil, fmt.Errorf("no fetcher for location %q", location)
	}
	return s.fallback.Fetch(ctx, location)
}

// Scheme returns the lower-cased URL scheme of location, or "" for plain paths.
func Scheme(location string) string {
	i := strings.Index(location, "://")
	if i <= 0 {
		return ""
	}
	return strings.ToLower(location[:i])
}

// NewDefaultFetcher wires the transports the service supports: http and
// https, s3 and local files.
func NewDefaultFetcher(client *http.Client, s3Region string) *SchemeFetcher {
	httpFetcher := NewHTTPFetcher(client, nil)
	f := NewSchemeFetcher(FileFetcher{})
	f.Register("http", httpFetcher)
	f.Register("https", httpFetcher)
	f.Register("s3", NewS3Fetcher(s3Region))
	f.Register("file", FileFetcher{})
	return f
}
