// Package aliasmap implements the alias mapping registry: the many-to-one
// mapping of position-specific vocabulary onto standard behavior and task
// tags, with conflict detection and a human-gated review workflow.
package aliasmap

import (
	"github.com/google/uuid"

	"github.com/strata-hq/compass/taxonomy/types"
)

// Status is the mapping lifecycle state. A detected conflict is data, not an
// error: both competing mappings persist until a reviewer chooses.
type Status string

const (
	StatusActive   Status = "active"
	StatusPending  Status = "pending"
	StatusConflict Status = "conflict"
	StatusDisabled Status = "disabled"
)

// IsValid checks if a status string is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusActive, StatusPending, StatusConflict, StatusDisabled:
		return true
	}
	return false
}

// Source records how a mapping came to exist.
type Source string

const (
	SourceManual Source = "manual"
	SourceImport Source = "import"
	SourceAI     Source = "ai"
)

// IsValid checks if a source string is a known source.
func (s Source) IsValid() bool {
	return s == SourceManual || s == SourceImport || s == SourceAI
}

// TermType distinguishes search aliases from display vocabulary.
type TermType string

const (
	TermAlias   TermType = "alias"
	TermDisplay TermType = "display"
)

// TargetType names the tag family a mapping points at.
type TargetType string

const (
	TargetBehavior TargetType = "behavior"
	TargetTask     TargetType = "task"
)

// IsValid checks if a target type string is a known target type.
func (t TargetType) IsValid() bool {
	return t == TargetBehavior || t == TargetTask
}

// Entry maps one (position, term) pair onto a tag. At most one entry per
// pair is active at a time; the registry enforces that on approval.
type Entry struct {
	ID           string     `json:"id"`
	Position     string     `json:"position"`
	Term         string     `json:"term"`
	TermType     TermType   `json:"term_type"`
	MappedToID   string     `json:"mapped_to_id"`
	MappedToType TargetType `json:"mapped_to_type"`

	// Denormalized from the target tag for fast filtering.
	Domain  string `json:"domain"`
	Cluster string `json:"cluster"`

	Priority   int         `json:"priority"` // 1..10 tie-break ordinal
	Status     Status      `json:"status"`
	Source     Source      `json:"source"`
	Confidence *float64    `json:"confidence,omitempty"` // required when Source == ai
	Audit      types.Audit `json:"audit"`
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	out := *e
	if e.Confidence != nil {
		c := *e.Confidence
		out.Confidence = &c
	}
	return &out
}

// Proposal is the input to Registry.Propose. The registry assigns identity,
// status, and the denormalized classification.
type Proposal struct {
	Position     string
	Term         string
	TermType     TermType // defaults to alias
	MappedToID   string
	MappedToType TargetType
	Priority     int // 0 uses the configured default
	Source       Source
	Confidence   *float64 // required for ai proposals
}

// newEntryID generates a registry entry identifier.
func newEntryID() string {
	return "AM-" + uuid.New().String()
}
