// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdftable/internal/parse"
)

var checkCmd = &cobra.Command{
	Use:   "check <file.txt>...",
	Short: "Test the line rules against TXT files without writing anything",
	Long: `Check parses each TXT file with the configured rules and reports how many
rows it would produce, or the first line the rules cannot parse. Use it to
refine a rules file before running the parse step.`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, err := loadConfig(nil)
		if err != nil {
			return err
		}
		policy, err := loadPolicy(cfg)
		if err != nil {
			return err
		}
		return checkFiles(policy, args)
	},
}

func init() {
	rootCmd.AddCommand(checkCmd)
}

// checkFiles dry-runs policy on each file and stops at the first failure.
func checkFiles(policy parse.Policy, files []string) error {
	for _, f := range files {
		n, err := parse.CheckFile(policy, f)
		if err != nil {
			return err
		}
		fmt.Fprintf(stdout, "ok: %s (%d rows)\n", f, n)
	}
	return nil
}
