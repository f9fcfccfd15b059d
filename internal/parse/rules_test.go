// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pdiddy/pdftable/pkg/types"
)

const statementRules = `
normalize: nfkc
trim: true
replace:
  - pattern: '\s{2,}'
    with: ' '
  - pattern: '(\d),(\d{2})$'
    with: '$1.$2'
skip:
  - '^Page \d+ of \d+$'
  - '^Date Description Amount$'
records:
  - name: booking
    pattern: '^(\d{2}\.\d{2}\.\d{4}) (.+) (-?\d+\.\d{2})$'
    fields: [string, string, float]
  - name: count
    pattern: '^Entries: (\d+)$'
    fields: [int]
`

func TestRulePolicy_ParseLine(t *testing.T) {
	p, err := ParseRules([]byte(statementRules))
	require.NoError(t, err)

	tests := []struct {
		name    string
		line    string
		want    types.Row
		wantErr bool
	}{
		{
			name: "booking with layout spacing and decimal comma",
			line: "  01.02.2024    Coffee   shop    -3,50\n",
			want: types.Row{"01.02.2024", "Coffee shop", -3.5},
		},
		{
			name: "int field",
			line: "Entries: 12\r\n",
			want: types.Row{int64(12)},
		},
		{
			name: "full-width digits normalized",
			line: "Entries: １２\n",
			want: types.Row{int64(12)},
		},
		{
			name: "skip pattern",
			line: "Page 3 of 10\n",
			want: nil,
		},
		{
			name: "header skipped",
			line: "Date    Description    Amount\n",
			want: nil,
		},
		{
			name: "blank line",
			line: " \t\n",
			want: nil,
		},
		{
			name:    "unrecognized line",
			line:    "Thank you for banking with us\n",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			row, err := p.ParseLine(tt.line)
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

func TestRulePolicy_WholeMatchWithoutGroups(t *testing.T) {
	p, err := Compile(Rules{Records: []RecordRule{{Pattern: `^[A-Z]{3}-\d+$`}}})
	require.NoError(t, err)

	row, err := p.ParseLine("INV-2041\n")
	require.NoError(t, err)
	assert.Equal(t, types.Row{"INV-2041"}, row)
}

func TestRulePolicy_ConversionFailureIsIrregular(t *testing.T) {
	p, err := Compile(Rules{Records: []RecordRule{{
		Name:    "amount",
		Pattern: `^total (\S+)$`,
		Fields:  []FieldType{FieldFloat},
	}}})
	require.NoError(t, err)

	_, err = p.ParseLine("total 12.x")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrIrregularLine))
	assert.Contains(t, err.Error(), "amount field 1")
}

func TestDefault(t *testing.T) {
	p := Default()

	row, err := p.ParseLine("\n")
	require.NoError(t, err)
	assert.True(t, row.Empty())

	_, err = p.ParseLine("anything else\n")
	assert.True(t, errors.Is(err, ErrIrregularLine))
}

func TestCompile_Errors(t *testing.T) {
	tests := []struct {
		name  string
		rules Rules
		want  string
	}{
		{
			name:  "unknown normalization",
			rules: Rules{Normalize: "nfd"},
			want:  `unknown normalization "nfd"`,
		},
		{
			name:  "bad replace pattern",
			rules: Rules{Replace: []ReplaceRule{{Pattern: "("}}},
			want:  "replace rule 1",
		},
		{
			name:  "bad skip pattern",
			rules: Rules{Skip: []string{"ok", "[z-a]"}},
			want:  "skip pattern 2",
		},
		{
			name:  "field count mismatch",
			rules: Rules{Records: []RecordRule{{Name: "row", Pattern: `(a)(b)`, Fields: []FieldType{FieldInt}}}},
			want:  "row: 1 field types for 2 captured values",
		},
		{
			name:  "unknown field type",
			rules: Rules{Records: []RecordRule{{Pattern: `(a)`, Fields: []FieldType{"date"}}}},
			want:  `record 1: unknown field type "date"`,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Compile(tt.rules)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestLoadRules(t *testing.T) {
	dir := t.TempDir()

	path := filepath.Join(dir, "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(statementRules), 0o644))
	p, err := LoadRules(path)
	require.NoError(t, err)
	assert.Len(t, p.records, 2)
	assert.Len(t, p.skip, 2)

	_, err = LoadRules(filepath.Join(dir, "missing.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "reading rules file")

	bad := filepath.Join(dir, "bad.yaml")
	require.NoError(t, os.WriteFile(bad, []byte("records: {not: [a list"), 0o644))
	_, err = LoadRules(bad)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "parsing rules")
}
