// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdftable/internal/ledger"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent stage executions from the ledger",
	Long: `History lists the most recent stage events recorded in the ledger
configured with --ledger (or the ledger key). Events are informational; the
files on disk decide what a run does.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		if cfg.LedgerPath == "" {
			return fmt.Errorf("no ledger configured: pass --ledger or set %s", keyLedger)
		}
		limit, _ := cmd.Flags().GetInt("limit")
		jsonOutput, _ := cmd.Flags().GetBool("json")

		store, err := ledger.Open(cfg.LedgerPath)
		if err != nil {
			return err
		}
		defer store.Close()

		events, err := store.Recent(context.Background(), limit)
		if err != nil {
			return err
		}

		if jsonOutput {
			enc := json.NewEncoder(stdout)
			enc.SetIndent("", "  ")
			return enc.Encode(events)
		}

		if len(events) == 0 {
			fmt.Fprintln(stdout, "No events recorded.")
			return nil
		}
		fmt.Fprintf(stdout, "%-20s  %-10s  %-10s  %-10s  %s\n", "Recorded", "Stage", "Status", "Took", "Output")
		fmt.Fprintln(stdout, strings.Repeat("-", 90))
		for _, ev := range events {
			fmt.Fprintf(stdout, "%-20s  %-10s  %-10s  %-10s  %s\n",
				ev.RecordedAt.Local().Format("2006-01-02 15:04:05"),
				ev.Stage, ev.Status, ev.Duration.Round(time.Millisecond), filepath.Base(ev.Output))
		}
		return nil
	},
}

func init() {
	historyCmd.Flags().Int("limit", 20, "maximum number of events to show")
	historyCmd.Flags().Bool("json", false, "output events as JSON")

	rootCmd.AddCommand(historyCmd)
}
