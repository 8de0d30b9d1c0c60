package main

import (
	"encoding/json"
	"fmt"

	"github.com/Veraticus/the-stars-must-align/internal/cli"
	"github.com/Veraticus/the-stars-must-align/internal/service"
	"github.com/spf13/cobra"
)

func historyCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "List saved scans",
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			var filter service.ScanFilter
			filter.Year, _ = cmd.Flags().GetInt("year")
			filter.Month, _ = cmd.Flags().GetInt("month")
			filter.Limit, _ = cmd.Flags().GetInt("limit")

			reports, err := store.ListScans(ctx, filter)
			if err != nil {
				return err
			}
			return cli.RenderHistory(cmd.OutOrStdout(), reports)
		},
	}

	cmd.Flags().Int("year", 0, "only scans of this year")
	cmd.Flags().Int("month", 0, "only scans of this month")
	cmd.Flags().Int("limit", 20, "maximum number of scans")

	return cmd
}

func showCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "show <scan-id>",
		Short: "Show a saved scan",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			settings, err := loadSettings()
			if err != nil {
				return err
			}
			store, err := initStorage(ctx, settings)
			if err != nil {
				return err
			}
			defer func() { _ = store.Close() }()

			report, err := store.GetScan(ctx, args[0])
			if err != nil {
				return fmt.Errorf("failed to load scan: %w", err)
			}

			if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
				enc := json.NewEncoder(cmd.OutOrStdout())
				enc.SetIndent("", "  ")
				return enc.Encode(report)
			}
			return cli.RenderReport(cmd.OutOrStdout(), report)
		},
	}

	cmd.Flags().Bool("json", false, "print the report as JSON")
	return cmd
}
