// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package extract

import (
	"bytes"
	"fmt"
	"io"
	"os/exec"
	"strings"
)

const defaultPdftotext = "pdftotext"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	Run(name string, args []string, stdout, stderr io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) Run(name string, args []string, stdout, stderr io.Writer) error {
	cmd := exec.Command(name, args...)
	cmd.Stdout = stdout
	cmd.Stderr = stderr
	return cmd.Run()
}

var defaultExec = &osExecutor{}

// CommandExtractor extracts PDF text by running pdftotext in layout mode.
// pdftotext separates pages with form feeds.
type CommandExtractor struct {
	bin  string
	exec executor
}

var _ Extractor = (*CommandExtractor)(nil)

// NewCommandExtractor verifies that bin (default "pdftotext") is on PATH
// and returns an extractor that invokes it.
func NewCommandExtractor(bin string) (*CommandExtractor, error) {
	return newCommandExtractor(bin, defaultExec)
}

func newCommandExtractor(bin string, exec executor) (*CommandExtractor, error) {
	if bin == "" {
		bin = defaultPdftotext
	}
	if _, err := exec.LookPath(bin); err != nil {
		return nil, fmt.Errorf("pdftotext backend unavailable: %w", err)
	}
	return &CommandExtractor{bin: bin, exec: exec}, nil
}

// Lines runs "pdftotext -layout -enc UTF-8 <path> -" and splits the output
// into pages and then lines.
func (c *CommandExtractor) Lines(path string) ([]string, error) {
	var stdout, stderr bytes.Buffer
	args := []string{"-layout", "-enc", "UTF-8", path, "-"}
	if err := c.exec.Run(c.bin, args, &stdout, &stderr); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			err = fmt.Errorf("%s: %w: %s", c.bin, err, msg)
		} else {
			err = fmt.Errorf("%s: %w", c.bin, err)
		}
		return nil, &Error{Path: path, Err: err}
	}

	var lines []string
	for _, page := range splitPages(stdout.String()) {
		lines = append(lines, splitPage(strings.TrimSuffix(page, "\n"))...)
	}
	return lines, nil
}

// splitPages splits pdftotext output on form feeds. The form feed after
// the last page does not start a new page.
func splitPages(out string) []string {
	out = strings.TrimSuffix(out, "\f")
	if out == "" {
		return nil
	}
	return strings.Split(out, "\f")
}
