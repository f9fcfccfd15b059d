// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pipeline runs the PDF-to-TXT, TXT-to-CSV, and merge steps over
// one root folder. Each step discovers its inputs only after the previous
// step has finished, and the first error ends the run.
package pipeline

import (
	"fmt"
	"io"
	"path/filepath"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/pdftable/internal/discover"
	"github.com/pdiddy/pdftable/internal/extract"
	"github.com/pdiddy/pdftable/internal/merge"
	"github.com/pdiddy/pdftable/internal/parse"
	"github.com/pdiddy/pdftable/internal/stage"
	"github.com/pdiddy/pdftable/pkg/types"
)

const (
	StagePDFToTXT = "pdf-to-txt"
	StageTXTToCSV = "txt-to-csv"
	StageMerge    = "merge"
)

// Pipeline holds the collaborators for one run. Config, Extractor, and
// Policy are required; the rest are optional.
type Pipeline struct {
	Config    types.PipelineConfig
	Extractor extract.Extractor
	Policy    parse.Policy
	Recorder  stage.Recorder
	Logger    *zap.Logger
	Out       io.Writer
}

// Summary holds the outcome of a full run.
type Summary struct {
	Text   stage.BatchResult
	Tables stage.BatchResult
	Merge  merge.Result
}

func (p *Pipeline) logger() *zap.Logger {
	if p.Logger == nil {
		return zap.NewNop()
	}
	return p.Logger
}

// ExtractText converts every PDF under the root into a TXT file next to it.
func (p *Pipeline) ExtractText() (stage.BatchResult, error) {
	pdfs, err := discover.Find(p.Config.RootDir, ".pdf")
	if err != nil {
		return stage.BatchResult{}, err
	}
	p.logger().Info("extracting text", zap.Int("pdf_files", len(pdfs)))

	s := p.stage(StagePDFToTXT, "PDF", "TXT", ".txt", p.textTransform)
	return s.RunAll(pdfs)
}

// ParseTables converts every TXT file under the root into a CSV file. An
// irregular line stops the step before that file's CSV is written.
func (p *Pipeline) ParseTables() (stage.BatchResult, error) {
	txts, err := discover.Find(p.Config.RootDir, ".txt")
	if err != nil {
		return stage.BatchResult{}, err
	}
	p.logger().Info("parsing tables", zap.Int("txt_files", len(txts)))

	s := p.stage(StageTXTToCSV, "TXT", "CSV", ".csv", parse.ConvertFile(p.Policy, p.logger()))
	return s.RunAll(txts)
}

// Merge combines every CSV under the root into the aggregate file. The
// aggregate itself is never one of the inputs.
func (p *Pipeline) Merge() (merge.Result, error) {
	dst, err := p.AggregatePath()
	if err != nil {
		return merge.Result{}, err
	}
	csvs, err := discover.Find(p.Config.RootDir, ".csv")
	if err != nil {
		return merge.Result{}, err
	}
	inputs := csvs[:0]
	for _, c := range csvs {
		if c != dst {
			inputs = append(inputs, c)
		}
	}
	p.logger().Info("merging tables", zap.Int("csv_files", len(inputs)), zap.String("aggregate", dst))

	start := time.Now()
	res, err := merge.Merge(inputs, dst, p.Out)
	if err != nil {
		return res, fmt.Errorf("%s: %w", StageMerge, err)
	}
	p.record(types.StageEvent{
		Stage:    StageMerge,
		Source:   p.Config.RootDir,
		Output:   dst,
		Status:   res.Status,
		Duration: time.Since(start),
	})
	return res, nil
}

// Run executes ExtractText, ParseTables, and Merge in that order.
func (p *Pipeline) Run() (Summary, error) {
	var sum Summary
	var err error

	if sum.Text, err = p.ExtractText(); err != nil {
		return sum, err
	}
	if sum.Tables, err = p.ParseTables(); err != nil {
		return sum, err
	}
	if sum.Merge, err = p.Merge(); err != nil {
		return sum, err
	}
	return sum, nil
}

// AggregatePath returns the absolute aggregate output path. An empty
// configured path means "data.csv" in the working directory.
func (p *Pipeline) AggregatePath() (string, error) {
	path := p.Config.AggregatePath
	if path == "" {
		path = "data.csv"
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return "", fmt.Errorf("resolving aggregate path %s: %w", path, err)
	}
	return abs, nil
}

func (p *Pipeline) textTransform(src string) (string, error) {
	lines, err := p.Extractor.Lines(src)
	if err != nil {
		return "", err
	}
	return strings.Join(lines, "\n"), nil
}

func (p *Pipeline) stage(name, from, to, ext string, fn stage.Transform) *stage.Stage {
	return &stage.Stage{
		Name:      name,
		From:      from,
		To:        to,
		Ext:       ext,
		Transform: fn,
		Out:       p.Out,
		Logger:    p.logger(),
		Recorder:  p.Recorder,
	}
}

func (p *Pipeline) record(ev types.StageEvent) {
	if p.Recorder == nil {
		return
	}
	ev.RecordedAt = time.Now().UTC()
	if err := p.Recorder.Record(ev); err != nil {
		p.logger().Warn("recording stage event", zap.String("output", ev.Output), zap.Error(err))
	}
}
