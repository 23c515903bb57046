package source

import (
	"context"
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
	"time"

	"github.com/dustin/go-humanize"

	"github.com/lmi-dashboard/lmi-dashboard/internal/logging"
)

// Loader fetches a dataset location and normalizes its records.
// It does not retry and does not cache.
type Loader struct {
	fetcher Fetcher
	logger  *slog.Logger
}

// NewLoader returns a Loader reading through f.
func NewLoader(f Fetcher, logger *slog.Logger) *Loader {
	return &Loader{
		fetcher: f,
		logger:  logging.Component(logger, "loader"),
	}
}

// Load fetches location and returns one Row per CSV data line. A blank
// location fails with ErrMissingSource before any I/O; transport and parse
// failures are returned as *FetchError.
func (l *Loader) Load(ctx context.Context, location string) (rows []Row, err error) {
	location = strings.TrimSpace(location)
	if location == "" {
		return nil, ErrMissingSource
	}

	start := time.Now()
	body, err := l.fetcher.Fetch(ctx, location)
	if err != nil {
		return nil, &FetchError{Location: location, Err: err}
	}
	defer logging.SafeCloseWithLogging(body, l.logger, "dataset_body")

	counter := &countingReader{r: body}
	rows, err = Decode(counter)
	if err != nil {
		return nil, &FetchError{Location: location, Err: err}
	}

	logging.LogOperation(l.logger, "dataset_loaded",
		slog.String("location", location),
		slog.Int("rows", len(rows)),
		slog.String("size", humanize.Bytes(counter.n)),
		slog.Duration("duration", time.Since(start)))

	return rows, nil
}

// Decode reads a CSV document with a header row and normalizes every data
// line. Lines shorter than the header leave the missing columns empty.
func Decode(r io.Reader) ([]Row, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1
	reader.ReuseRecord = true

	header, err := reader.Read()
	if errors.Is(err, io.EOF) {
		return nil, errors.New("csv: missing header row")
	}
	if err != nil {
		return nil, fmt.Errorf("reading CSV header: %w", err)
	}
	columns := make([]string, len(header))
	for i, name := range header {
		if i == 0 {
			name = strings.TrimPrefix(name, "\ufeff")
		}
		columns[i] = strings.TrimSpace(name)
	}

	rows := []Row{}
	for {
		fields, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("reading CSV record %d: %w", len(rows)+1, err)
		}
		rec := make(RawRecord, len(columns))
		for i, name := range columns {
			if i < len(fields) {
				rec[name] = fields[i]
			}
		}
		rows = append(rows, Normalize(rec))
	}
	return rows, nil
}

type countingReader struct {
	r io.Reader
	n uint64
}

func (c *countingReader) Read(p []byte) (int, error) {
	n, err := c.r.Read(p)
	c.n += uint64(n)
	return n, err
}
