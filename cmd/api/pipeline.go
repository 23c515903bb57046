package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/lmi-dashboard/lmi-dashboard/internal/appconf"
	"github.com/lmi-dashboard/lmi-dashboard/internal/dashboard"
	"github.com/lmi-dashboard/lmi-dashboard/internal/logging"
	"github.com/lmi-dashboard/lmi-dashboard/internal/present"
	"github.com/lmi-dashboard/lmi-dashboard/internal/source"
)

// pipeline is the wiring shared by serve and summary.
type pipeline struct {
	config    appconf.Config
	logger    *slog.Logger
	fetcher   source.Fetcher
	formatter *present.Formatter
	manager   *dashboard.Manager
}

func newPipeline(cfg appconf.Config, logger *slog.Logger) (*pipeline, error) {
	formatter, err := present.NewFormatter(cfg.Locale)
	if err != nil {
		return nil, err
	}

	fetcher := source.NewDefaultFetcher(&http.Client{Timeout: cfg.LoadTimeout}, cfg.S3Region)
	loader := source.NewLoader(fetcher, logger)
	manager := dashboard.NewManager(loader, dashboard.Config{
		TopN:            cfg.TopN,
		LoadTimeout:     cfg.LoadTimeout,
		RefreshInterval: cfg.RefreshInterval,
	}, logger)

	return &pipeline{
		config:    cfg,
		logger:    logger,
		fetcher:   fetcher,
		formatter: formatter,
		manager:   manager,
	}, nil
}

// resolveLocation applies the location precedence: the configured data URL,
// then the data-csv-url attribute of the mount page. The page is only read
// when no data URL is configured.
func (p *pipeline) resolveLocation(ctx context.Context) (string, error) {
	var mountAttr string
	if p.config.DataURL == "" && p.config.MountPage != "" {
		attr, err := source.ReadMountPage(ctx, p.fetcher, p.config.MountPage)
		if err != nil {
			return "", fmt.Errorf("failed to read mount page: %w", err)
		}
		mountAttr = attr
	}

	location, err := source.ResolveLocation(p.config.DataURL, mountAttr)
	if err != nil {
		return "", err
	}

	channel := "data-url"
	if strings.TrimSpace(p.config.DataURL) == "" {
		channel = "mount-page"
	}
	logging.LogOperation(p.logger, "dataset_location_resolved",
		slog.String("location", location),
		slog.String("channel", channel))
	return location, nil
}

func newLogger(cfg appconf.Config, w io.Writer) (*slog.Logger, error) {
	level, err := logging.ParseLevel(cfg.LogLevel)
	if err != nil {
		return nil, err
	}
	return logging.NewStructuredLogger(w, level), nil
}
