// Package growthpath defines the canonical proficiency ladder (P1..P15).
//
// The ladder content (per-level descriptions and key assessment points) is
// data, not logic: it ships as embedded YAML so the wording can be revised
// without touching code. Authored per-tag growth paths always win over the
// canonical fallback.
package growthpath

import (
	_ "embed"
	"strconv"
	"sync"

	"gopkg.in/yaml.v3"

	"github.com/strata-hq/compass/errors"
)

// Canonical ladder bounds. Every growth-path index in the system sits inside
// this range; behavior tags span all of it, task tags a contiguous sub-range.
const (
	MinLevel = 1
	MaxLevel = 15
)

// Level is one rung of the ladder: what proficiency at this index looks like
// and the key points an assessor checks for.
type Level struct {
	Index       int      `json:"index" yaml:"index"`
	Description string   `json:"description" yaml:"description"`
	KeyPoints   []string `json:"key_points" yaml:"key_points"`
}

// Clone returns a deep copy of the level.
func (l Level) Clone() Level {
	out := l
	out.KeyPoints = append([]string(nil), l.KeyPoints...)
	return out
}

// Span is a contiguous, inclusive range of ladder indices.
type Span struct {
	Start int `json:"start" yaml:"start"`
	End   int `json:"end" yaml:"end"`
}

// FullSpan returns the complete canonical range.
func FullSpan() Span {
	return Span{Start: MinLevel, End: MaxLevel}
}

// Validate checks the span sits inside the canonical ladder.
// The returned error is marked ErrOutOfRange and names the offending bound.
func (s Span) Validate() error {
	if s.Start < MinLevel {
		return errors.Mark(errors.Newf("span start P%d is below the ladder minimum P%d", s.Start, MinLevel), errors.ErrOutOfRange)
	}
	if s.End > MaxLevel {
		return errors.Mark(errors.Newf("span end P%d is above the ladder maximum P%d", s.End, MaxLevel), errors.ErrOutOfRange)
	}
	if s.Start > s.End {
		return errors.Mark(errors.Newf("span start P%d is after span end P%d", s.Start, s.End), errors.ErrOutOfRange)
	}
	return nil
}

// Contains reports whether the index falls inside the span.
func (s Span) Contains(index int) bool {
	return index >= s.Start && index <= s.End
}

// Width returns the number of indices the span covers.
func (s Span) Width() int {
	return s.End - s.Start + 1
}

// FormatIndex renders a ladder index the way authors see it ("P7").
func FormatIndex(index int) string {
	return "P" + strconv.Itoa(index)
}

// Table is an immutable, contiguous sequence of levels.
type Table struct {
	levels []Level
}

//go:embed levels.yaml
var canonicalYAML []byte

var (
	canonicalOnce  sync.Once
	canonicalTable *Table
	canonicalErr   error
)

// Canonical returns the embedded P1..P15 table. The result is shared; callers
// must not mutate the returned levels.
func Canonical() (*Table, error) {
	canonicalOnce.Do(func() {
		var doc struct {
			Levels []Level `yaml:"levels"`
		}
		if err := yaml.Unmarshal(canonicalYAML, &doc); err != nil {
			canonicalErr = errors.Wrap(err, "failed to parse canonical growth path data")
			return
		}
		t := &Table{levels: doc.Levels}
		if err := t.checkIntegrity(); err != nil {
			canonicalErr = err
			return
		}
		canonicalTable = t
	})
	return canonicalTable, canonicalErr
}

// checkIntegrity verifies indices are contiguous and unique across the full range.
func (t *Table) checkIntegrity() error {
	if len(t.levels) != FullSpan().Width() {
		return errors.Newf("canonical table has %d levels, want %d", len(t.levels), FullSpan().Width())
	}
	for i, level := range t.levels {
		want := MinLevel + i
		if level.Index != want {
			return errors.Newf("canonical table level at offset %d has index %d, want %d", i, level.Index, want)
		}
		if level.Description == "" {
			return errors.Newf("canonical table level %s has an empty description", FormatIndex(level.Index))
		}
	}
	return nil
}

// LevelsFor returns a copy of the levels covering the span.
func (t *Table) LevelsFor(span Span) ([]Level, error) {
	if err := span.Validate(); err != nil {
		return nil, err
	}
	out := make([]Level, 0, span.Width())
	for _, level := range t.levels {
		if span.Contains(level.Index) {
			out = append(out, level.Clone())
		}
	}
	return out, nil
}

// Level returns the canonical content for a single index.
func (t *Table) Level(index int) (Level, error) {
	levels, err := t.LevelsFor(Span{Start: index, End: index})
	if err != nil {
		return Level{}, err
	}
	return levels[0], nil
}

// LevelsFor returns canonical levels for the span from the embedded table.
func LevelsFor(span Span) ([]Level, error) {
	table, err := Canonical()
	if err != nil {
		return nil, err
	}
	return table.LevelsFor(span)
}

// Merge overlays authored level content onto the canonical ladder for the
// span. Authored entries win; indices the author left out fall back to
// canonical content. The inputs are not mutated. Used for display only —
// publish validation runs against the authored levels alone.
func Merge(authored []Level, span Span) ([]Level, error) {
	canonical, err := LevelsFor(span)
	if err != nil {
		return nil, err
	}
	byIndex := make(map[int]Level, len(authored))
	for _, level := range authored {
		byIndex[level.Index] = level
	}
	out := make([]Level, 0, len(canonical))
	for _, fallback := range canonical {
		if level, ok := byIndex[fallback.Index]; ok && level.Description != "" {
			out = append(out, level.Clone())
			continue
		}
		out = append(out, fallback)
	}
	return out, nil
}
