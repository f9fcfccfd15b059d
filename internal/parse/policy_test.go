// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"errors"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdftable/pkg/types"
)

// splitFields treats every non-blank line as a comma-free record of
// space-separated values.
var splitFields = Funcs{
	Transform: func(line string) string { return strings.TrimSpace(line) },
	Skip:      func(line string) bool { return line == "" },
	Irregular: func(line string) bool { return strings.HasPrefix(line, "??") },
	Fields: func(line string) types.Row {
		var row types.Row
		for _, f := range strings.Fields(line) {
			row = append(row, f)
		}
		return row
	},
}

func TestFuncs_ParseLine(t *testing.T) {
	tests := []struct {
		name    string
		policy  Funcs
		line    string
		want    types.Row
		wantErr bool
	}{
		{
			name:   "regular line",
			policy: splitFields,
			line:   "  a b c\n",
			want:   types.Row{"a", "b", "c"},
		},
		{
			name:   "skipped blank line",
			policy: splitFields,
			line:   "   \n",
			want:   nil,
		},
		{
			name:    "irregular after transform",
			policy:  splitFields,
			line:    "  ?? what\n",
			wantErr: true,
		},
		{
			name:    "zero value treats every line as irregular",
			policy:  Funcs{},
			line:    "anything",
			wantErr: true,
		},
		{
			name:   "regular without field hook yields no row",
			policy: Funcs{Irregular: func(string) bool { return false }},
			line:   "anything",
			want:   nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := tt.policy.ParseLine(tt.line)
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, ErrIrregularLine))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, row)
		})
	}
}

func TestTable_DropsEmptyRows(t *testing.T) {
	lines := []string{"a 1\n", "\n", "b 2\n", "   \n", "c 3"}

	rows, err := Table(splitFields, "report.txt", lines)
	require.NoError(t, err)
	assert.Equal(t, []types.Row{{"a", "1"}, {"b", "2"}, {"c", "3"}}, rows)
	assert.LessOrEqual(t, len(rows), len(lines))
}

func TestTable_FailFast(t *testing.T) {
	calls := 0
	p := Funcs{
		Irregular: func(line string) bool {
			calls++
			return strings.Contains(line, "bad")
		},
		Fields: func(line string) types.Row { return types.Row{line} },
	}

	rows, err := Table(p, "/data/report.txt", []string{"ok\n", "bad line\n", "ok again\n"})
	require.Error(t, err)
	assert.Nil(t, rows)
	assert.Equal(t, 2, calls, "lines after the irregular one must not be parsed")

	var irr *IrregularLineError
	require.True(t, errors.As(err, &irr))
	assert.Equal(t, "/data/report.txt", irr.File)
	assert.Equal(t, 2, irr.LineNo)
	assert.Equal(t, "bad line\n", irr.Line)
	assert.True(t, errors.Is(err, ErrIrregularLine))

	msg := err.Error()
	assert.Contains(t, msg, `"bad line"`)
	assert.Contains(t, msg, `"/data/report.txt"`)
	assert.Contains(t, msg, "line 2")
}

// failingPolicy returns a non-classification error.
type failingPolicy struct{}

func (failingPolicy) ParseLine(string) (types.Row, error) {
	return nil, errors.New("lookup table unavailable")
}

func TestTable_OtherErrorsAreWrapped(t *testing.T) {
	_, err := Table(failingPolicy{}, "r.txt", []string{"x"})
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrIrregularLine))
	assert.Contains(t, err.Error(), "parsing r.txt line 1")
}

func TestIrregularLineError_Detail(t *testing.T) {
	bare := &IrregularLineError{File: "f.txt", LineNo: 1, Line: "x\r\n", Err: ErrIrregularLine}
	assert.Equal(t, `cannot parse "x" in file "f.txt" (line 1); adjust the parsing rules and try again`, bare.Error())

	_, err := Default().ParseLine("x")
	detailed := &IrregularLineError{File: "f.txt", LineNo: 1, Line: "x", Err: err}
	assert.Contains(t, detailed.Error(), "no record pattern matches")
}
