// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package types defines shared data structures for the pdftable pipeline.
package types

import "time"

// Row is one parsed record. Fields are scalars: string, int64, or float64.
// A Row with no fields means "no row" and is dropped from the table.
type Row []any

// Empty reports whether the row carries no fields.
func (r Row) Empty() bool {
	return len(r) == 0
}

// StageStatus indicates what a stage did for one output path.
type StageStatus string

const (
	StageConverted StageStatus = "converted"
	StageSkipped   StageStatus = "skipped"
)

// StageEvent records one stage execution for a single source file.
type StageEvent struct {
	// Stage names the step (e.g. "pdf-to-txt", "txt-to-csv", "merge").
	Stage string `json:"stage" yaml:"stage"`

	// Source is the input path, or the root folder for the merge step.
	Source string `json:"source" yaml:"source"`

	// Output is the path the stage owns.
	Output string `json:"output" yaml:"output"`

	Status StageStatus `json:"status" yaml:"status"`

	// Duration is how long the stage took, including the skip check.
	Duration time.Duration `json:"duration" yaml:"duration"`

	RecordedAt time.Time `json:"recorded_at" yaml:"recorded_at"`
}
