package main

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/Veraticus/the-stars-must-align/internal/cli"
	"github.com/Veraticus/the-stars-must-align/internal/model"
	"github.com/spf13/cobra"
)

func scanCmd() *cobra.Command {
	now := time.Now()
	cmd := &cobra.Command{
		Use:   "scan",
		Short: "Find the best moments of a month for your priorities",
		Long: `Scan every hour of a month, score each moment with the houses, aspects
and electional methods, then consolidate and distribute the results into
a calendar of recommended windows.`,
		Example: `  stars scan --month 3 --year 2025 --priority money --priority career
  stars scan --lat 40.71 --lon -74.01 --priority love --save`,
		RunE: runScan,
	}

	cmd.Flags().Int("month", int(now.Month()), "month to scan (1-12)")
	cmd.Flags().Int("year", now.Year(), "year to scan")
	cmd.Flags().Float64("lat", 0, "latitude (default: location.latitude)")
	cmd.Flags().Float64("lon", 0, "longitude (default: location.longitude)")
	cmd.Flags().StringSliceP("priority", "p", nil, "priorities to favor (repeatable or comma separated)")
	cmd.Flags().Bool("save", false, "save the scan to history")
	cmd.Flags().Bool("json", false, "print the report as JSON")
	cmd.Flags().Bool("no-progress", false, "disable the progress bar")

	return cmd
}

func runScan(cmd *cobra.Command, _ []string) error {
	ctx := cmd.Context()

	settings, err := loadSettings()
	if err != nil {
		return err
	}

	month, _ := cmd.Flags().GetInt("month")
	year, _ := cmd.Flags().GetInt("year")
	rawPriorities, _ := cmd.Flags().GetStringSlice("priority")
	save, _ := cmd.Flags().GetBool("save")
	asJSON, _ := cmd.Flags().GetBool("json")
	noProgress, _ := cmd.Flags().GetBool("no-progress")

	lat := settings.Location.Latitude
	if cmd.Flags().Changed("lat") {
		lat, _ = cmd.Flags().GetFloat64("lat")
	}
	lon := settings.Location.Longitude
	if cmd.Flags().Changed("lon") {
		lon, _ = cmd.Flags().GetFloat64("lon")
	}

	loc, err := settings.TimeLocation()
	if err != nil {
		return err
	}

	req := model.ScanRequest{
		Location:   loc,
		Priorities: model.ParsePriorities(rawPriorities),
		Latitude:   lat,
		Longitude:  lon,
		Month:      time.Month(month),
		Year:       year,
	}
	if err := req.Validate(); err != nil {
		return err
	}

	pipeline, closeEph, err := buildPipeline(settings)
	if err != nil {
		return err
	}
	defer closeEph()

	var progress *cli.ScanProgress
	if !asJSON && !noProgress {
		progress = cli.NewScanProgress(cmd.ErrOrStderr(), fmt.Sprintf("Scanning %s %d...", req.Month, req.Year))
		pipeline.Scanner().OnProgress(progress.Update)
	}

	interrupts := cli.NewInterruptHandler(cmd.ErrOrStderr())
	report, err := pipeline.Run(interrupts.Watch(ctx), req)
	interrupts.Stop()
	if progress != nil {
		progress.Finish()
	}
	if err != nil {
		return err
	}

	if save && report.Stats.Canceled {
		fmt.Fprintln(cmd.ErrOrStderr(), cli.FormatWarning("Partial scans are not saved."))
		save = false
	}
	if save {
		store, err := initStorage(ctx, settings)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()

		if err := store.SaveScan(ctx, report); err != nil {
			return fmt.Errorf("failed to save scan: %w", err)
		}
	}

	out := cmd.OutOrStdout()
	if asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	return cli.RenderReport(out, report)
}
