// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"fmt"
	"math"
	"strings"

	"github.com/ledongthuc/pdf"
)

// PDFExtractor reads the embedded text layer of a PDF. Scanned pages
// without text contribute no lines.
//
// Lines are rebuilt from glyph positions: a change of baseline starts a new
// line and a wide horizontal gap becomes a single space. Column alignment
// is not preserved; tables laid out with padding extract more faithfully
// with the pdftotext backend.
type PDFExtractor struct{}

var _ Extractor = (*PDFExtractor)(nil)

// NewPDFExtractor creates a native PDF extractor.
func NewPDFExtractor() *PDFExtractor { return &PDFExtractor{} }

// Lines extracts each page's lines and concatenates the pages in order.
// Corrupt and encrypted documents fail with an *Error.
func (e *PDFExtractor) Lines(path string) (lines []string, err error) {
	// The parser panics on some malformed content streams.
	defer func() {
		if r := recover(); r != nil {
			lines = nil
			err = &Error{Path: path, Err: fmt.Errorf("malformed PDF: %v", r)}
		}
	}()

	f, r, err := pdf.Open(path)
	if err != nil {
		if f != nil {
			f.Close()
		}
		return nil, &Error{Path: path, Err: err}
	}
	defer f.Close()

	for i := 1; i <= r.NumPage(); i++ {
		page := r.Page(i)
		if page.V.IsNull() {
			continue
		}
		lines = append(lines, pageLines(page.Content().Text)...)
	}
	return lines, nil
}

// pageLines groups glyphs, in content stream order, into lines. A glyph
// whose baseline is more than half its font size away from the line's
// baseline starts a new line. A gap wider than a quarter of the font size
// after the previous glyph is written as a space.
func pageLines(texts []pdf.Text) []string {
	var (
		lines   []string
		cur     strings.Builder
		started bool
		lineY   float64
		endX    float64
	)
	for _, t := range texts {
		// TJ arrays end with a synthetic newline; lines follow the baseline.
		if strings.Trim(t.S, "\r\n") == "" {
			continue
		}
		switch {
		case !started:
			started = true
			lineY = t.Y
		case math.Abs(t.Y-lineY) > math.Max(t.FontSize/2, 1):
			lines = append(lines, cur.String())
			cur.Reset()
			lineY = t.Y
		case t.X-endX > t.FontSize/4 && t.S != " " && !strings.HasSuffix(cur.String(), " "):
			cur.WriteByte(' ')
		}
		cur.WriteString(t.S)
		endX = t.X + t.W
	}
	if started {
		lines = append(lines, cur.String())
	}
	return lines
}
