// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"errors"
	"os"
	"strings"
	"unicode/utf8"
)

// TextExtractor reads UTF-8 text files.
type TextExtractor struct{}

var _ Extractor = TextExtractor{}

// Lines returns ReadLines(path).
func (TextExtractor) Lines(path string) ([]string, error) {
	return ReadLines(path)
}

// ReadLines reads path as UTF-8 and returns its lines with their
// terminators kept. A final line without a terminator is returned as is;
// an empty file has no lines.
func ReadLines(path string) ([]string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &Error{Path: path, Err: err}
	}
	if !utf8.Valid(data) {
		return nil, &Error{Path: path, Err: errors.New("invalid UTF-8 encoding")}
	}
	return SplitLines(string(data)), nil
}

// SplitLines splits s after each "\n", keeping terminators.
func SplitLines(s string) []string {
	if s == "" {
		return nil
	}
	lines := strings.SplitAfter(s, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}
