// Package curriculum implements the learning-map graph: per-position,
// multi-stage curricula binding behavior and task tags to learn, practice,
// and assess content.
//
// A map references tags by version id and never embeds their content; a tag
// edit (new version) changes nothing in a stage until the author re-binds.
package curriculum

import (
	"strconv"

	"github.com/google/uuid"

	"github.com/strata-hq/compass/taxonomy/types"
)

// Status is the learning-map lifecycle state. It extends the shared
// draft/published/disabled shape with historical: a published map superseded
// by a newer version, kept as read-only history.
type Status string

const (
	StatusDraft      Status = "draft"
	StatusPublished  Status = "published"
	StatusHistorical Status = "historical"
	StatusDisabled   Status = "disabled"
)

// IsValid checks if a status string is a known status.
func (s Status) IsValid() bool {
	switch s {
	case StatusDraft, StatusPublished, StatusHistorical, StatusDisabled:
		return true
	}
	return false
}

// String returns the string representation of the status.
func (s Status) String() string {
	return string(s)
}

// ContentType classifies a content item.
type ContentType string

const (
	ContentCourse   ContentType = "course"
	ContentArticle  ContentType = "article"
	ContentVideo    ContentType = "video"
	ContentExercise ContentType = "exercise"
	ContentQuiz     ContentType = "quiz"
	ContentTask     ContentType = "task"
	ContentReview   ContentType = "review"
)

// ContentItem is one learn/practice/assess unit inside a stage. The content
// itself lives with the (excluded) content services; the stage carries only
// the reference and scheduling facts.
type ContentItem struct {
	ID              string      `json:"id"`
	Name            string      `json:"name"`
	Type            ContentType `json:"type"`
	DurationMinutes int         `json:"duration_minutes"`
	Required        bool        `json:"required"`
}

// BehaviorBinding attaches a behavior tag to a stage with the proficiency
// level the stage targets.
type BehaviorBinding struct {
	TagID       string `json:"tag_id"`
	TargetLevel int    `json:"target_level"`
}

// TaskBinding attaches a task tag to a stage.
type TaskBinding struct {
	TagID string `json:"tag_id"`
}

// Stage is one step of a learning map. Level is the coarse stage label
// (L0..L3), independent from the P1..P15 growth path.
type Stage struct {
	ID                 string `json:"id"`
	Name               string `json:"name"`
	Level              string `json:"level"`
	Objective          string `json:"objective"`
	EntryCondition     string `json:"entry_condition"`
	CompletionCriteria string `json:"completion_criteria"`

	BehaviorBindings []BehaviorBinding `json:"behavior_bindings,omitempty"`
	TaskBindings     []TaskBinding     `json:"task_bindings,omitempty"`

	LearnItems    []ContentItem `json:"learn_items,omitempty"`
	PracticeItems []ContentItem `json:"practice_items,omitempty"`
	AssessItems   []ContentItem `json:"assess_items,omitempty"`

	EvidenceRequirements []string `json:"evidence_requirements,omitempty"`
}

// Clone returns a deep copy of the stage.
func (s Stage) Clone() Stage {
	out := s
	out.BehaviorBindings = append([]BehaviorBinding(nil), s.BehaviorBindings...)
	out.TaskBindings = append([]TaskBinding(nil), s.TaskBindings...)
	out.LearnItems = append([]ContentItem(nil), s.LearnItems...)
	out.PracticeItems = append([]ContentItem(nil), s.PracticeItems...)
	out.AssessItems = append([]ContentItem(nil), s.AssessItems...)
	out.EvidenceRequirements = append([]string(nil), s.EvidenceRequirements...)
	return out
}

// ContentItemCount sums the stage's learn, practice, and assess items.
func (s Stage) ContentItemCount() int {
	return len(s.LearnItems) + len(s.PracticeItems) + len(s.AssessItems)
}

// LearningMap is one version of a position's curriculum. Versions of the
// same curriculum share LineageID; exactly one version per position may be
// published at a time.
type LearningMap struct {
	ID             string      `json:"id"`
	LineageID      string      `json:"lineage_id"`
	PositionID     string      `json:"position_id"`
	Version        int         `json:"version"`
	Status         Status      `json:"status"`
	Stages         []Stage     `json:"stages"`
	TargetAudience []string    `json:"target_audience,omitempty"`
	Audit          types.Audit `json:"audit"`
}

// VersionLabel returns the map's display version ("v2").
func (m *LearningMap) VersionLabel() string {
	return "v" + strconv.Itoa(m.Version)
}

// IsDraft reports whether the map is editable.
func (m *LearningMap) IsDraft() bool { return m.Status == StatusDraft }

// IsPublished reports whether the map is the position's active curriculum.
func (m *LearningMap) IsPublished() bool { return m.Status == StatusPublished }

// Clone returns a deep copy of the map.
func (m *LearningMap) Clone() *LearningMap {
	out := *m
	out.Stages = make([]Stage, 0, len(m.Stages))
	for _, stage := range m.Stages {
		out.Stages = append(out.Stages, stage.Clone())
	}
	out.TargetAudience = append([]string(nil), m.TargetAudience...)
	return &out
}

// StageByID finds a stage in the map.
func (m *LearningMap) StageByID(stageID string) (*Stage, bool) {
	for i := range m.Stages {
		if m.Stages[i].ID == stageID {
			return &m.Stages[i], true
		}
	}
	return nil, false
}

// newMapLineageID generates the stable identity of a curriculum lineage.
func newMapLineageID() string {
	return "LM-" + uuid.New().String()
}

// newStageID generates a stage identifier.
func newStageID() string {
	return "ST-" + uuid.New().String()
}
