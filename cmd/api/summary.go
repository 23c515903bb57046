package main

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/lmi-dashboard/lmi-dashboard/internal/dashboard"
	"github.com/lmi-dashboard/lmi-dashboard/internal/models"
)

func newSummaryCommand(opts *options, stdout, stderr io.Writer) *cobra.Command {
	var format string

	summaryCommand := &cobra.Command{
		Use:   "summary",
		Short: "summary - load the dataset once and print both charts' data",
		RunE: func(cmd *cobra.Command, args []string) error {
			format = strings.ToLower(strings.TrimSpace(format))
			if format != "json" && format != "yaml" && format != "yml" {
				return fmt.Errorf("unsupported format %q: use json or yaml", format)
			}

			cfg := opts.appConfig()
			if err := cfg.Validate(); err != nil {
				return err
			}
			logger, err := newLogger(cfg, stderr)
			if err != nil {
				return err
			}

			p, err := newPipeline(cfg, logger)
			if err != nil {
				return err
			}
			defer p.manager.Shutdown()

			location, err := p.resolveLocation(cmd.Context())
			if err != nil {
				return err
			}

			snap := p.manager.Load(cmd.Context(), location)
			if snap.State != dashboard.Ready {
				return snap.Err
			}

			entry := models.NewDashboardEntry(snap, false, p.formatter)
			return writeSummary(stdout, format, entry)
		},
	}

	summaryCommand.Flags().StringVarP(&format, "format", "f", "json", "Output format (json|yaml).")
	return summaryCommand
}

func writeSummary(w io.Writer, format string, entry models.DashboardEntry) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(entry)
	}

	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(entry); err != nil {
		return err
	}
	return enc.Close()
}
