package source

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHTTPFetcher(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/jobs.csv":
			assert.Equal(t, "secret", r.Header.Get("X-Token"))
			_, _ = w.Write([]byte("grouped_company,state,job_posting_count\nAcme,CA,1\n"))
		default:
			http.NotFound(w, r)
		}
	}))
	defer server.Close()

	f := NewHTTPFetcher(server.Client(), map[string]string{"X-Token": "secret"})

	t.Run("returns body on 200", func(t *testing.T) {
		body, err := f.Fetch(context.Background(), server.URL+"/jobs.csv")
		require.NoError(t, err)
		defer func() { _ = body.Close() }()

		b, err := io.ReadAll(body)
		require.NoError(t, err)
		assert.Contains(t, string(b), "Acme,CA,1")
	})

	t.Run("non-200 status is an error", func(t *testing.T) {
		_, err := f.Fetch(context.Background(), server.URL+"/missing.csv")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "unexpected status code: 404")
	})

	t.Run("cancelled context fails", func(t *testing.T) {
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := f.Fetch(ctx, server.URL+"/jobs.csv")
		assert.Error(t, err)
	})
}

func TestFileFetcher(t *testing.T) {
	path, err := filepath.Abs(filepath.Join("..", "..", "testdata", "jobs.csv"))
	require.NoError(t, err)

	for _, location := range []string{path, "file://" + path} {
		body, err := FileFetcher{}.Fetch(context.Background(), location)
		require.NoError(t, err, location)
		b, err := io.ReadAll(body)
		require.NoError(t, err)
		_ = body.Close()
		assert.True(t, strings.HasPrefix(string(b), "grouped_company,state,job_posting_count"))
	}

	_, err = FileFetcher{}.Fetch(context.Background(), filepath.Join(t.TempDir(), "nope.csv"))
	assert.Error(t, err)
}

func TestSchemeFetcher(t *testing.T) {
	var got []string
	record := func(name string) Fetcher {
		return FetcherFunc(func(ctx context.Context, location string) (io.ReadCloser, error) {
			got = append(got, name+":"+location)
			return io.NopCloser(strings.NewReader("")), nil
		})
	}

	f := NewSchemeFetcher(record("fallback"))
	f.Register("HTTPS", record("https"))
	f.Register("s3", record("s3"))

	for _, location := range []string{"https://x/a.csv", "S3://bucket/key.csv", "data/jobs.csv", "ftp://x/a.csv"} {
		_, err := f.Fetch(context.Background(), location)
		require.NoError(t, err)
	}

	assert.Equal(t, []string{
		"https:https://x/a.csv",
		"s3:S3://bucket/key.csv",
		"fallback:data/jobs.csv",
		"fallback:ftp://x/a.csv",
	}, got)

	t.Run("no fallback", func(t *testing.T) {
		_, err := NewSchemeFetcher(nil).Fetch(context.Background(), "jobs.csv")
		assert.Error(t, err)
	})
}

func TestScheme(t *testing.T) {
	assert.Equal(t, "https", Scheme("HTTPS://example.com"))
	assert.Equal(t, "s3", Scheme("s3://bucket/key"))
	assert.Equal(t, "", Scheme("/tmp/jobs.csv"))
	assert.Equal(t, "", Scheme("://nothing"))
}
