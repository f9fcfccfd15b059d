// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package parse

import (
	"fmt"
	"os"
	"regexp"
	"strconv"
	"strings"

	"go.yaml.in/yaml/v3"
	"golang.org/x/text/unicode/norm"

	"github.com/pdiddy/pdftable/pkg/types"
)

// FieldType selects how a captured value is stored in a Row.
type FieldType string

const (
	FieldString FieldType = "string"
	FieldInt    FieldType = "int"
	FieldFloat  FieldType = "float"
)

// Rules is the on-disk description of a RulePolicy.
//
//	normalize: nfkc
//	trim: true
//	replace:
//	  - pattern: '\s{2,}'
//	    with: ' '
//	skip:
//	  - '^Page \d+ of \d+$'
//	records:
//	  - name: booking
//	    pattern: '^(\d{2}\.\d{2}\.\d{4}) (.+) (-?\d+\.\d{2})$'
//	    fields: [string, string, float]
type Rules struct {
	// Normalize applies Unicode normalization: "", "nfc", or "nfkc".
	Normalize string `yaml:"normalize,omitempty"`

	// Trim removes leading and trailing white space.
	Trim bool `yaml:"trim,omitempty"`

	// Replace rules run in order on every line.
	Replace []ReplaceRule `yaml:"replace,omitempty"`

	// Skip patterns mark lines that carry no record.
	Skip []string `yaml:"skip,omitempty"`

	// Records are tried in order; the first match defines the row.
	Records []RecordRule `yaml:"records,omitempty"`
}

// ReplaceRule rewrites every match of Pattern with With ($1 expands groups).
type ReplaceRule struct {
	Pattern string `yaml:"pattern"`
	With    string `yaml:"with"`
}

// RecordRule recognizes one kind of regular line. The row fields are the
// capture groups of Pattern, or the whole match if it has none.
type RecordRule struct {
	Name    string      `yaml:"name,omitempty"`
	Pattern string      `yaml:"pattern"`
	Fields  []FieldType `yaml:"fields,omitempty"`
}

type replaceRule struct {
	re   *regexp.Regexp
	with string
}

type recordRule struct {
	name   string
	re     *regexp.Regexp
	fields []FieldType
}

// RulePolicy is a Policy driven by regular expressions.
type RulePolicy struct {
	normalize norm.Form
	useNorm   bool
	trim      bool
	replace   []replaceRule
	skip      []*regexp.Regexp
	records   []recordRule
}

var _ Policy = (*RulePolicy)(nil)

// Default returns a RulePolicy without records: blank lines are skipped
// and every other line is irregular.
func Default() *RulePolicy {
	return &RulePolicy{}
}

// LoadRules reads a YAML rules file and compiles it.
func LoadRules(path string) (*RulePolicy, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading rules file: %w", err)
	}
	p, err := ParseRules(data)
	if err != nil {
		return nil, fmt.Errorf("rules file %s: %w", path, err)
	}
	return p, nil
}

// ParseRules decodes YAML rules and compiles them.
func ParseRules(data []byte) (*RulePolicy, error) {
	var r Rules
	if err := yaml.Unmarshal(data, &r); err != nil {
		return nil, fmt.Errorf("parsing rules: %w", err)
	}
	return Compile(r)
}

// Compile validates r and builds its policy.
func Compile(r Rules) (*RulePolicy, error) {
	p := &RulePolicy{trim: r.Trim}

	switch strings.ToLower(r.Normalize) {
	case "":
	case "nfc":
		p.normalize, p.useNorm = norm.NFC, true
	case "nfkc":
		p.normalize, p.useNorm = norm.NFKC, true
	default:
		return nil, fmt.Errorf("unknown normalization %q (want nfc or nfkc)", r.Normalize)
	}

	for i, rr := range r.Replace {
		re, err := regexp.Compile(rr.Pattern)
		if err != nil {
			return nil, fmt.Errorf("replace rule %d: %w", i+1, err)
		}
		p.replace = append(p.replace, replaceRule{re: re, with: rr.With})
	}

	for i, s := range r.Skip {
		re, err := regexp.Compile(s)
		if err != nil {
			return nil, fmt.Errorf("skip pattern %d: %w", i+1, err)
		}
		p.skip = append(p.skip, re)
	}

	for i, rec := range r.Records {
		label := rec.Name
		if label == "" {
			label = fmt.Sprintf("record %d", i+1)
		}
		re, err := regexp.Compile(rec.Pattern)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", label, err)
		}
		width := re.NumSubexp()
		if width == 0 {
			width = 1
		}
		if len(rec.Fields) > 0 && len(rec.Fields) != width {
			return nil, fmt.Errorf("%s: %d field types for %d captured values", label, len(rec.Fields), width)
		}
		for _, ft := range rec.Fields {
			switch ft {
			case FieldString, FieldInt, FieldFloat:
			default:
				return nil, fmt.Errorf("%s: unknown field type %q", label, ft)
			}
		}
		p.records = append(p.records, recordRule{name: label, re: re, fields: rec.Fields})
	}

	return p, nil
}

// ParseLine implements Policy.
func (p *RulePolicy) ParseLine(line string) (types.Row, error) {
	line = p.transform(line)

	if strings.TrimSpace(line) == "" {
		return nil, nil
	}
	for _, re := range p.skip {
		if re.MatchString(line) {
			return nil, nil
		}
	}

	for _, rec := range p.records {
		m := rec.re.FindStringSubmatch(line)
		if m == nil {
			continue
		}
		values := m[1:]
		if len(values) == 0 {
			values = m[:1]
		}
		return rec.row(values)
	}
	return nil, fmt.Errorf("%w: no record pattern matches", ErrIrregularLine)
}

func (p *RulePolicy) transform(line string) string {
	line = strings.TrimRight(line, "\r\n")
	if p.useNorm {
		line = p.normalize.String(line)
	}
	if p.trim {
		line = strings.TrimSpace(line)
	}
	for _, r := range p.replace {
		line = r.re.ReplaceAllString(line, r.with)
	}
	return line
}

func (r recordRule) row(values []string) (types.Row, error) {
	row := make(types.Row, len(values))
	for i, v := range values {
		ft := FieldString
		if i < len(r.fields) {
			ft = r.fields[i]
		}
		switch ft {
		case FieldInt:
			n, err := strconv.ParseInt(strings.TrimSpace(v), 10, 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s field %d: %v", ErrIrregularLine, r.name, i+1, err)
			}
			row[i] = n
		case FieldFloat:
			f, err := strconv.ParseFloat(strings.TrimSpace(v), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s field %d: %v", ErrIrregularLine, r.name, i+1, err)
			}
			row[i] = f
		default:
			row[i] = v
		}
	}
	return row, nil
}
