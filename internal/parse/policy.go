// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package parse maps text lines to table rows through a pluggable Policy
// and renders tables as CSV.
package parse

import (
	"errors"
	"fmt"
	"strings"

	"github.com/pdiddy/pdftable/pkg/types"
)

// ErrIrregularLine is returned by a Policy for a line it cannot classify,
// even after its transformations have been applied.
var ErrIrregularLine = errors.New("irregular line")

// IrregularLineError names the line and file that stopped a parse.
type IrregularLineError struct {
	File   string
	LineNo int
	Line   string
	Err    error
}

func (e *IrregularLineError) Error() string {
	msg := fmt.Sprintf("cannot parse %q in file %q (line %d)",
		strings.TrimRight(e.Line, "\r\n"), e.File, e.LineNo)
	if e.Err != nil && e.Err != ErrIrregularLine {
		msg += ": " + e.Err.Error()
	}
	return msg + "; adjust the parsing rules and try again"
}

func (e *IrregularLineError) Is(target error) bool { return target == ErrIrregularLine }

func (e *IrregularLineError) Unwrap() error { return e.Err }

// Policy converts one line into a Row. An empty Row means the line carries
// no record. A line that cannot be classified yields an error wrapping
// ErrIrregularLine.
type Policy interface {
	ParseLine(line string) (types.Row, error)
}

// Funcs assembles a Policy from hooks. They run in order: Transform, Skip,
// Irregular, Fields. A nil Transform is the identity, a nil Skip skips
// nothing, a nil Irregular treats every line as irregular, and a nil
// Fields produces no row.
type Funcs struct {
	Transform func(line string) string
	Skip      func(line string) bool
	Irregular func(line string) bool
	Fields    func(line string) types.Row
}

var _ Policy = Funcs{}

// ParseLine implements Policy.
func (f Funcs) ParseLine(line string) (types.Row, error) {
	if f.Transform != nil {
		line = f.Transform(line)
	}
	if f.Skip != nil && f.Skip(line) {
		return nil, nil
	}
	if f.Irregular == nil || f.Irregular(line) {
		return nil, ErrIrregularLine
	}
	if f.Fields == nil {
		return nil, nil
	}
	return f.Fields(line), nil
}

// Table applies p to every line of file in order and drops empty rows. It
// stops at the first irregular line and returns an *IrregularLineError.
func Table(p Policy, file string, lines []string) ([]types.Row, error) {
	var rows []types.Row
	for i, line := range lines {
		row, err := p.ParseLine(line)
		if err != nil {
			if errors.Is(err, ErrIrregularLine) {
				return nil, &IrregularLineError{File: file, LineNo: i + 1, Line: line, Err: err}
			}
			return nil, fmt.Errorf("parsing %s line %d: %w", file, i+1, err)
		}
		if row.Empty() {
			continue
		}
		rows = append(rows, row)
	}
	return rows, nil
}
