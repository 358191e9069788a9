// Package types defines the tag records shared by the behavior and task
// catalogs: identity, versioning, lifecycle status, and the authored
// competency content itself.
package types

import (
	"fmt"
	"strconv"
	"time"

	"github.com/strata-hq/compass/taxonomy/growthpath"
)

// Family discriminates the two tag variants. Behavior tags are
// cross-position soft-skill definitions spanning the full ladder; task tags
// are single-position professional-task definitions spanning a sub-range.
type Family string

const (
	FamilyBehavior Family = "behavior"
	FamilyTask     Family = "task"
)

// IsValid checks if a family string is a known family.
func (f Family) IsValid() bool {
	return f == FamilyBehavior || f == FamilyTask
}

// String returns the string representation of the family.
func (f Family) String() string {
	return string(f)
}

// Status is the tag lifecycle state.
type Status string

const (
	StatusDraft     Status = "draft"
	StatusPublished Status = "published"
	StatusDisabled  Status = "disabled"
)

// IsValid checks if a status string is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusDisabled:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// CanTransition reports whether a direct status change is permitted.
// Fork is not a transition: it leaves the source record untouched and
// creates a new draft on the same lineage.
func (s Status) CanTransition(to Status) bool {
	switch s {
	case StatusDraft:
		return to == StatusPublished
	case StatusPublished:
		return to == StatusDisabled
	default:
		return false
	}
}

// Signals are the observable indicators assessors look for.
type Signals struct {
	Positive       []string `json:"positive"`
	Negative       []string `json:"negative"`
	EvidencePrompt string   `json:"evidence_prompt"`
}

// Clone returns a deep copy of the signals.
func (s Signals) Clone() Signals {
	out := s
	out.Positive = append([]string(nil), s.Positive...)
	out.Negative = append([]string(nil), s.Negative...)
	return out
}

// PositionExample illustrates the competency in one position's context.
type PositionExample struct {
	Position        string `json:"position"`
	Scenario        string `json:"scenario"`
	PositiveExample string `json:"positive_example"`
	NegativeExample string `json:"negative_example"`
	Remarks         string `json:"remarks,omitempty"`
}

// Audit records who last touched the record and when. The caller identity
// and timestamp come from the embedding application; the core only echoes
// them.
type Audit struct {
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedBy string    `json:"updated_by"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Touch updates the mutation half of the audit stamp.
func (a *Audit) Touch(actor string, at time.Time) {
	a.UpdatedBy = actor
	a.UpdatedAt = at
}

// TagRecord is one version of a behavior or task tag. All versions of the
// same logical tag share LineageID; ID identifies this version.
//
// A published record is immutable in every field except Status. Edits to a
// published tag happen on a fork: a new draft record on the same lineage
// with Version incremented.
type TagRecord struct {
	ID        string `json:"id"`
	LineageID string `json:"lineage_id"`
	Name      string `json:"name"`
	Version   int    `json:"version"`
	Family    Family `json:"family"`
	Status    Status `json:"status"`

	// Two-level classification
	Domain  string `json:"domain"`
	Cluster string `json:"cluster"`

	// Tag-owned synonyms. Distinct from alias mappings, which are
	// position-scoped vocabulary owned by the registry.
	Aliases []string `json:"aliases,omitempty"`

	Definition       string             `json:"definition"`
	GrowthPath       []growthpath.Level `json:"growth_path"`
	Signals          Signals            `json:"signals"`
	PositionExamples []PositionExample  `json:"position_examples,omitempty"`

	// Task-family fields; zero-valued on behavior tags.
	Position              string          `json:"position,omitempty"`
	Span                  growthpath.Span `json:"span,omitempty"`
	TriggerConditions     []string        `json:"trigger_conditions,omitempty"`
	SuccessCriteria       []string        `json:"success_criteria,omitempty"`
	KeySteps              []string        `json:"key_steps,omitempty"`
	RiskPoints            []string        `json:"risk_points,omitempty"`
	RelatedBehaviorTagIDs []string        `json:"related_behavior_tag_ids,omitempty"`

	Audit Audit `json:"audit"`
}

// FormatVersion renders a version number the way authors see it ("v3").
func FormatVersion(version int) string {
	return "v" + strconv.Itoa(version)
}

// VersionLabel returns the record's display version ("v3").
func (r *TagRecord) VersionLabel() string {
	return FormatVersion(r.Version)
}

// IsDraft reports whether the record is editable.
func (r *TagRecord) IsDraft() bool { return r.Status == StatusDraft }

// IsPublished reports whether the record is frozen and referenceable.
func (r *TagRecord) IsPublished() bool { return r.Status == StatusPublished }

// IsDisabled reports whether the record is retired from authoring pickers.
func (r *TagRecord) IsDisabled() bool { return r.Status == StatusDisabled }

// EffectiveSpan returns the ladder range this record covers: the full
// canonical range for behavior tags, the authored sub-range for task tags.
func (r *TagRecord) EffectiveSpan() growthpath.Span {
	if r.Family == FamilyBehavior {
		return growthpath.FullSpan()
	}
	return r.Span
}

// LevelFilled reports whether the authored growth path has a non-empty
// description at the given index.
func (r *TagRecord) LevelFilled(index int) bool {
	for _, level := range r.GrowthPath {
		if level.Index == index && level.Description != "" {
			return true
		}
	}
	return false
}

// LevelAt returns the authored level content for an index, if present.
func (r *TagRecord) LevelAt(index int) (growthpath.Level, bool) {
	for _, level := range r.GrowthPath {
		if level.Index == index {
			return level, true
		}
	}
	return growthpath.Level{}, false
}

// Clone returns a deep copy of the record. Fork relies on this to guarantee
// the new draft shares nothing mutable with its published predecessor.
func (r *TagRecord) Clone() *TagRecord {
	out := *r
	out.Aliases = append([]string(nil), r.Aliases...)
	out.GrowthPath = make([]growthpath.Level, 0, len(r.GrowthPath))
	for _, level := range r.GrowthPath {
		out.GrowthPath = append(out.GrowthPath, level.Clone())
	}
	out.Signals = r.Signals.Clone()
	out.PositionExamples = append([]PositionExample(nil), r.PositionExamples...)
	out.TriggerConditions = append([]string(nil), r.TriggerConditions...)
	out.SuccessCriteria = append([]string(nil), r.SuccessCriteria...)
	out.KeySteps = append([]string(nil), r.KeySteps...)
	out.RiskPoints = append([]string(nil), r.RiskPoints...)
	out.RelatedBehaviorTagIDs = append([]string(nil), r.RelatedBehaviorTagIDs...)
	return &out
}

// String identifies the record in logs.
func (r *TagRecord) String() string {
	return fmt.Sprintf("%s %q %s (%s)", r.Family, r.Name, r.VersionLabel(), r.Status)
}
