package logging

import (
	"bytes"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSafeClose(t *testing.T) {
	t.Run("closes response body safely with error logging", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
			_, _ = w.Write([]byte("grouped_company,state,job_posting_count\n"))
		}))
		defer server.Close()

		resp, err := http.Get(server.URL)
		require.NoError(t, err)

		SafeCloseWithLogging(resp.Body, logger, "dataset_body")

		assert.NotContains(t, buf.String(), `"level":"ERROR"`)
	})

	t.Run("logs error when close fails", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(&errorCloser{err: assert.AnError}, logger, "dataset_body")

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"failed to close resource"`)
		assert.Contains(t, output, `"operation":"dataset_body"`)
	})

	t.Run("nil closer is ignored", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		SafeCloseWithLogging(nil, logger, "dataset_body")
		assert.Empty(t, buf.String())
	})
}

func TestHandleDeferredError(t *testing.T) {
	t.Run("handles deferred errors in return statements", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		testFunc := func() (err error) {
			defer HandleDeferredError(&err, func() error {
				return assert.AnError
			}, logger, "close_dataset")
			return nil
		}

		err := testFunc()
		assert.Error(t, err)
		assert.ErrorIs(t, err, assert.AnError)
		assert.Contains(t, err.Error(), "close_dataset")

		output := buf.String()
		assert.Contains(t, output, `"level":"ERROR"`)
		assert.Contains(t, output, `"msg":"deferred operation failed"`)
	})

	t.Run("preserves original error when deferred operation also fails", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		originalError := &customError{msg: "decode failed"}

		testFunc := func() (err error) {
			defer HandleDeferredError(&err, func() error {
				return assert.AnError
			}, logger, "close_dataset")
			return originalError
		}

		err := testFunc()
		assert.Equal(t, originalError, err)
		assert.Contains(t, buf.String(), `"msg":"deferred operation failed"`)
	})

	t.Run("successful deferred operation is silent", func(t *testing.T) {
		var buf bytes.Buffer
		logger := NewStructuredLogger(&buf, slog.LevelInfo)

		testFunc := func() (err error) {
			defer HandleDeferredError(&err, func() error { return nil }, logger, "close_dataset")
			return nil
		}

		assert.NoError(t, testFunc())
		assert.Empty(t, buf.String())
	})
}

type errorCloser struct {
	err error
}

func (e *errorCloser) Close() error {
	return e.err
}

type customError struct {
	msg string
}

func (e *customError) Error() string {
	return e.msg
}
