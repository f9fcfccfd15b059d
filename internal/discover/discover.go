// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package discover lists the files a pipeline stage consumes.
package discover

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrDiscovery is matched by every error returned from Find.
var ErrDiscovery = errors.New("discovery failed")

// Error reports a root or subdirectory that could not be listed.
type Error struct {
	Path string
	Err  error
}

func (e *Error) Error() string {
	return fmt.Sprintf("discovering files in %s: %v", e.Path, e.Err)
}

func (e *Error) Is(target error) bool { return target == ErrDiscovery }

func (e *Error) Unwrap() error { return e.Err }

// Find returns the absolute paths of all regular files under root whose name
// ends with suffix. An empty suffix matches every file.
//
// The walk is top-down: a directory's files come first, in name order,
// followed by the contents of its subdirectories, also in name order.
func Find(root, suffix string) ([]string, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, &Error{Path: root, Err: err}
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, &Error{Path: abs, Err: err}
	}
	if !info.IsDir() {
		return nil, &Error{Path: abs, Err: fmt.Errorf("not a directory")}
	}

	var files []string
	if err := walk(abs, suffix, &files); err != nil {
		return nil, err
	}
	return files, nil
}

func walk(dir, suffix string, files *[]string) error {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return &Error{Path: dir, Err: err}
	}

	var subdirs []string
	for _, entry := range entries {
		path := filepath.Join(dir, entry.Name())
		if entry.IsDir() {
			subdirs = append(subdirs, path)
			continue
		}
		if !entry.Type().IsRegular() {
			continue
		}
		if suffix == "" || strings.HasSuffix(entry.Name(), suffix) {
			*files = append(*files, path)
		}
	}

	for _, sub := range subdirs {
		if err := walk(sub, suffix, files); err != nil {
			return err
		}
	}
	return nil
}
