// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package stage runs single-input, single-output file conversions exactly
// once. An output that exists is complete: content is written to a
// temporary sibling and renamed into place only after it is fully on disk.
package stage

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/pdiddy/pdftable/pkg/types"
)

// TempSuffix is appended to an output path to form its staging file.
const TempSuffix = ".tmp"

// Transform produces the full content of an output from its source path.
type Transform func(src string) (string, error)

// OutputPath replaces the extension of src with ext, so "report.pdf" with
// ".txt" becomes "report.txt".
func OutputPath(src, ext string) string {
	return strings.TrimSuffix(src, filepath.Ext(src)) + ext
}

// TempPath returns the staging file used while dst is being written.
func TempPath(dst string) string {
	return dst + TempSuffix
}

// Exists reports whether path is present. Errors other than "not found"
// are returned so an unreadable output is never mistaken for a missing one.
func Exists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, fmt.Errorf("checking %s: %w", path, err)
}

// Run converts src into dst with fn unless dst already exists. It returns
// StageSkipped without invoking fn when dst is present; a stale temp file
// from an interrupted run is removed before fn is called.
func Run(src, dst string, fn Transform) (types.StageStatus, error) {
	done, err := Exists(dst)
	if err != nil {
		return "", err
	}
	if done {
		return types.StageSkipped, nil
	}

	if err := removeStale(dst); err != nil {
		return "", err
	}

	content, err := fn(src)
	if err != nil {
		return "", err
	}

	if err := writeTemp(dst, func(w io.Writer) error {
		_, err := io.WriteString(w, content)
		return err
	}); err != nil {
		return "", err
	}
	if err := commit(dst); err != nil {
		return "", err
	}
	return types.StageConverted, nil
}

// WriteAtomic streams content produced by write into dst through its temp
// file. It does not check whether dst exists; callers that need the skip
// rule check Exists first.
func WriteAtomic(dst string, write func(io.Writer) error) error {
	if err := removeStale(dst); err != nil {
		return err
	}
	if err := writeTemp(dst, write); err != nil {
		return err
	}
	return commit(dst)
}

func removeStale(dst string) error {
	tmp := TempPath(dst)
	if err := os.Remove(tmp); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("removing stale temp file %s: %w", tmp, err)
	}
	return nil
}

func writeTemp(dst string, write func(io.Writer) error) error {
	tmp := TempPath(dst)
	f, err := os.OpenFile(tmp, os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return fmt.Errorf("creating temp file %s: %w", tmp, err)
	}

	writeErr := write(f)
	if writeErr == nil {
		writeErr = f.Sync()
	}
	closeErr := f.Close()
	if writeErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("writing %s: %w", tmp, writeErr)
	}
	if closeErr != nil {
		os.Remove(tmp)
		return fmt.Errorf("closing temp file %s: %w", tmp, closeErr)
	}
	return nil
}

func commit(dst string) error {
	tmp := TempPath(dst)
	if err := os.Rename(tmp, dst); err != nil {
		os.Remove(tmp)
		return fmt.Errorf("renaming %s to %s: %w", tmp, dst, err)
	}
	return nil
}
