// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package stage

import (
	"fmt"
	"io"
	"path/filepath"
	"time"

	"go.uber.org/zap"

	"github.com/pdiddy/pdftable/pkg/types"
)

// Recorder receives one event per stage execution. The ledger implements it.
type Recorder interface {
	Record(ev types.StageEvent) error
}

// BatchResult holds the outcome of a batch stage run.
type BatchResult struct {
	Converted int
	Skipped   int
}

// Total returns the number of sources processed.
func (r BatchResult) Total() int {
	return r.Converted + r.Skipped
}

// Stage drives Run over a list of sources that share a transform and an
// output extension.
type Stage struct {
	// Name identifies the stage in events and logs (e.g. "pdf-to-txt").
	Name string

	// From and To label the file kinds in progress output (e.g. "PDF", "TXT").
	From, To string

	// Ext is the output extension substituted for the source's.
	Ext string

	Transform Transform

	// Out receives human-readable progress. Nil discards it.
	Out io.Writer

	Logger *zap.Logger

	// Recorder is optional.
	Recorder Recorder
}

// RunAll processes sources in order and stops at the first error. Outputs
// completed before the failure stay in place, so a rerun resumes after them.
func (s *Stage) RunAll(sources []string) (BatchResult, error) {
	w := s.Out
	if w == nil {
		w = io.Discard
	}
	log := s.Logger
	if log == nil {
		log = zap.NewNop()
	}

	var result BatchResult
	for i, src := range sources {
		dst := OutputPath(src, s.Ext)
		start := time.Now()

		status, err := Run(src, dst, s.Transform)
		if err != nil {
			fmt.Fprintf(w, "failed:    %s (%d of %d)\n", filepath.Base(src), i+1, len(sources))
			return result, fmt.Errorf("%s: %s: %w", s.Name, src, err)
		}

		switch status {
		case types.StageConverted:
			result.Converted++
			fmt.Fprintf(w, "converted: %s -> %s (%d of %d)\n",
				filepath.Base(src), filepath.Base(dst), i+1, len(sources))
		case types.StageSkipped:
			result.Skipped++
			fmt.Fprintf(w, "skipped:   %s (%d of %d, already exists)\n",
				filepath.Base(dst), i+1, len(sources))
		}

		elapsed := time.Since(start)
		log.Debug("stage step",
			zap.String("stage", s.Name),
			zap.String("source", src),
			zap.String("output", dst),
			zap.String("status", string(status)),
			zap.Duration("elapsed", elapsed))

		if s.Recorder != nil {
			ev := types.StageEvent{
				Stage:      s.Name,
				Source:     src,
				Output:     dst,
				Status:     status,
				Duration:   elapsed,
				RecordedAt: time.Now().UTC(),
			}
			if err := s.Recorder.Record(ev); err != nil {
				log.Warn("recording stage event", zap.String("output", dst), zap.Error(err))
			}
		}
	}

	fmt.Fprintf(w, "Mapped %d %s files to %s: %d converted, %d skipped\n",
		result.Total(), s.From, s.To, result.Converted, result.Skipped)
	return result, nil
}
