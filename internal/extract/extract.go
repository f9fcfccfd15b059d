// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package extract turns source documents into ordered lines of text.
// PDFs are read either natively (github.com/ledongthuc/pdf) or through the
// pdftotext binary; plain-text files are read verbatim.
package extract

import (
	"errors"
	"fmt"

	"github.com/pdiddy/pdftable/pkg/types"
)

// ErrExtraction is matched by every error an Extractor returns for a
// document it cannot read.
var ErrExtraction = errors.New("extraction failed")

// Error reports a document that could not be converted to lines.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("extracting text from %s: %v", e.Path, e.Err)
}

func (e *Error) Is(target error) bool { return target == ErrExtraction }

func (e *Error) Unwrap() error { return e.Err }

// Extractor converts the document at path into lines, in document order.
type Extractor interface {
	Lines(path string) ([]string, error)
}

// New returns the PDF extractor selected by cfg.Backend. An empty backend
// selects the native extractor.
func New(cfg types.ExtractionConfig) (Extractor, error) {
	switch cfg.Backend {
	case types.BackendNative, "":
		return NewPDFExtractor(), nil
	case types.BackendPdftotext:
		return NewCommandExtractor(cfg.PdftotextBin)
	default:
		return nil, fmt.Errorf("unknown extraction backend %q (want %s or %s)",
			cfg.Backend, types.BackendNative, types.BackendPdftotext)
	}
}
