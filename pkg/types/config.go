// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

// ExtractionBackend identifies the tool used to pull text out of PDFs.
type ExtractionBackend string

const (
	BackendNative    ExtractionBackend = "native"
	BackendPdftotext ExtractionBackend = "pdftotext"
)

// Valid reports whether b names a known backend.
func (b ExtractionBackend) Valid() bool {
	return b == BackendNative || b == BackendPdftotext
}

// ExtractionConfig holds settings for the PDF-to-text stage.
type ExtractionConfig struct {
	// Backend selects the extractor: native or pdftotext.
	Backend ExtractionBackend `json:"backend" yaml:"backend"`

	// PdftotextBin is the binary invoked by the pdftotext backend.
	PdftotextBin string `json:"pdftotext_bin,omitempty" yaml:"pdftotext_bin,omitempty"`
}

// PipelineConfig holds the settings for one pipeline run. It is built once
// at process start and treated as read-only afterwards.
type PipelineConfig struct {
	// RootDir is the folder scanned for PDF, TXT, and CSV files.
	RootDir string `json:"root_dir" yaml:"root_dir"`

	// AggregatePath is the merged output file (e.g. "data.csv").
	AggregatePath string `json:"aggregate_path" yaml:"aggregate_path"`

	// RulesFile is an optional YAML file describing the line parsing rules.
	RulesFile string `json:"rules_file,omitempty" yaml:"rules_file,omitempty"`

	// LedgerPath is an optional SQLite file recording stage events.
	// Empty disables recording.
	LedgerPath string `json:"ledger_path,omitempty" yaml:"ledger_path,omitempty"`

	Extraction ExtractionConfig `json:"extraction" yaml:"extraction"`
}
