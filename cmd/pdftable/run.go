// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

// stdout receives progress output; tests replace it.
var stdout io.Writer = os.Stdout

var runCmd = &cobra.Command{
	Use:   "run [root]",
	Short: "Extract, parse, and merge every report under root",
	Long: `Run executes the three steps in order: PDF files become TXT files, TXT
files become CSV files, and all CSV files are merged into the aggregate.
Outputs that already exist are skipped. The first irregular line stops the
run with an error naming the line and its file.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeFn, err := buildPipeline(args, stageNeeds{extractor: true, policy: true})
		if err != nil {
			return err
		}
		defer closeFn()

		sum, err := p.Run()
		if err != nil {
			return err
		}
		logger.Info("run complete",
			zap.Int("txt_converted", sum.Text.Converted),
			zap.Int("csv_converted", sum.Tables.Converted),
			zap.String("merge", string(sum.Merge.Status)))
		return nil
	},
}

var extractCmd = &cobra.Command{
	Use:   "extract [root]",
	Short: "Convert PDF files to TXT files",
	Long: `Extract writes the text of every PDF under root to a TXT file beside it
(report.pdf -> report.txt). Use --backend pdftotext to extract with the
poppler pdftotext tool instead of the built-in reader.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeFn, err := buildPipeline(args, stageNeeds{extractor: true})
		if err != nil {
			return err
		}
		defer closeFn()

		_, err = p.ExtractText()
		return err
	},
}

var parseCmd = &cobra.Command{
	Use:   "parse [root]",
	Short: "Convert TXT files to CSV files with the line rules",
	Long: `Parse applies the rules file to every line of every TXT file under root
and writes the rows to a CSV file beside it (report.txt -> report.csv).
Blank and skipped lines produce no row. A line that matches no record rule
stops the command before that file's CSV is written.`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeFn, err := buildPipeline(args, stageNeeds{policy: true})
		if err != nil {
			return err
		}
		defer closeFn()

		_, err = p.ParseTables()
		return err
	},
}

var mergeCmd = &cobra.Command{
	Use:   "merge [root]",
	Short: "Merge every CSV file under root into the aggregate",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		p, closeFn, err := buildPipeline(args, stageNeeds{})
		if err != nil {
			return err
		}
		defer closeFn()

		_, err = p.Merge()
		return err
	},
}

func init() {
	rootCmd.AddCommand(runCmd, extractCmd, parseCmd, mergeCmd)
}
