// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge concatenates per-document CSV files into one aggregate.
package merge

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/pdiddy/pdftable/internal/stage"
	"github.com/pdiddy/pdftable/pkg/types"
)

// Result holds the outcome of a merge.
type Result struct {
	Status types.StageStatus

	// Files is the number of inputs copied; zero when the merge was skipped.
	Files int
}

// Merge copies files, in order, into dst. Bytes are copied verbatim
// without parsing. When a file's last line has no terminator, "\n" is
// written before the next non-empty file so the two lines stay apart;
// nothing is added after the last file. If dst already exists the merge is
// skipped. Progress is written to w.
func Merge(files []string, dst string, w io.Writer) (Result, error) {
	if w == nil {
		w = io.Discard
	}

	done, err := stage.Exists(dst)
	if err != nil {
		return Result{}, err
	}
	if done {
		fmt.Fprintf(w, "skipped:   %s (already exists)\n", filepath.Base(dst))
		return Result{Status: types.StageSkipped}, nil
	}

	err = stage.WriteAtomic(dst, func(out io.Writer) error {
		j := &joiner{w: bufio.NewWriter(out)}
		for i, path := range files {
			fmt.Fprintf(w, "merging:   %s (%d of %d)\n", filepath.Base(path), i+1, len(files))
			if err := j.appendFile(path); err != nil {
				return err
			}
		}
		return j.w.Flush()
	})
	if err != nil {
		return Result{}, fmt.Errorf("merging into %s: %w", dst, err)
	}

	fmt.Fprintf(w, "Merged %d CSV files into %s\n", len(files), dst)
	return Result{Status: types.StageConverted, Files: len(files)}, nil
}

// joiner writes files back to back. pending records that the previous
// non-empty file ended without a line terminator.
type joiner struct {
	w       *bufio.Writer
	pending bool
	last    byte
}

func (j *joiner) appendFile(path string) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	n, err := io.Copy(j, f)
	if err != nil {
		return fmt.Errorf("copying %s: %w", path, err)
	}
	if n > 0 {
		j.pending = j.last != '\n'
	}
	return nil
}

// Write forwards p, preceded by the separator owed to the previous file.
func (j *joiner) Write(p []byte) (int, error) {
	if len(p) == 0 {
		return 0, nil
	}
	if j.pending {
		if err := j.w.WriteByte('\n'); err != nil {
			return 0, err
		}
		j.pending = false
	}
	j.last = p[len(p)-1]
	return j.w.Write(p)
}
