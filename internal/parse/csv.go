// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"strconv"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pdftable/internal/extract"
	"github.com/pdiddy/pdftable/internal/stage"
	"github.com/pdiddy/pdftable/pkg/types"
)

// RenderCSV joins each row's fields with "," and the rows with "\n". There
// is no header and no trailing newline.
//
// Fields are written verbatim: a value containing a comma, quote, or line
// break is not quoted, so such a row reads back with the wrong shape.
// HasDelimiter detects those rows.
func RenderCSV(rows []types.Row) string {
	lines := make([]string, len(rows))
	for i, row := range rows {
		fields := make([]string, len(row))
		for j, v := range row {
			fields[j] = FormatField(v)
		}
		lines[i] = strings.Join(fields, ",")
	}
	return strings.Join(lines, "\n")
}

// FormatField renders one scalar. Integers are base 10 and floats use the
// shortest representation without an exponent.
func FormatField(v any) string {
	switch x := v.(type) {
	case string:
		return x
	case int:
		return strconv.Itoa(x)
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case nil:
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// HasDelimiter reports whether any field of row renders with a character
// that RenderCSV does not escape.
func HasDelimiter(row types.Row) bool {
	for _, v := range row {
		if strings.ContainsAny(FormatField(v), ",\"\r\n") {
			return true
		}
	}
	return false
}

// ConvertFile returns the TXT-to-CSV transform for p. Rows whose fields
// would break the unquoted CSV layout are reported through log.
func ConvertFile(p Policy, log *zap.Logger) stage.Transform {
	if log == nil {
		log = zap.NewNop()
	}
	return func(src string) (string, error) {
		lines, err := extract.ReadLines(src)
		if err != nil {
			return "", err
		}
		rows, err := Table(p, src, lines)
		if err != nil {
			return "", err
		}

		unsafe := 0
		for _, row := range rows {
			if HasDelimiter(row) {
				unsafe++
			}
		}
		if unsafe > 0 {
			log.Warn("rows contain unescaped delimiters",
				zap.String("file", src), zap.Int("rows", unsafe))
		}

		log.Debug("parsed table",
			zap.String("file", src),
			zap.Int("lines", len(lines)),
			zap.Int("rows", len(rows)))
		return RenderCSV(rows), nil
	}
}

// CheckFile parses the TXT file at path with p without writing anything.
// It returns the number of rows the file would produce.
func CheckFile(p Policy, path string) (int, error) {
	lines, err := extract.ReadLines(path)
	if err != nil {
		return 0, err
	}
	rows, err := Table(p, path, lines)
	if err != nil {
		return 0, err
	}
	return len(rows), nil
}
