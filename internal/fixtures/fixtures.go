// Package fixtures provides ready-to-publish records for package tests, so
// individual tests only spell out the field they are breaking.
package fixtures

import (
	"github.com/strata-hq/compass/curriculum"
	"github.com/strata-hq/compass/taxonomy/growthpath"
	"github.com/strata-hq/compass/taxonomy/types"
)

// Ladder builds authored growth-path levels covering the span, each with a
// description and one key point.
func Ladder(span growthpath.Span) []growthpath.Level {
	levels := make([]growthpath.Level, 0, span.Width())
	for i := span.Start; i <= span.End; i++ {
		levels = append(levels, growthpath.Level{
			Index:       i,
			Description: "demonstrates the competency at " + growthpath.FormatIndex(i),
			KeyPoints:   []string{"observable at " + growthpath.FormatIndex(i)},
		})
	}
	return levels
}

// BehaviorDraft builds a behavior tag draft that passes publish validation
// without warnings.
func BehaviorDraft(name string) *types.TagRecord {
	return &types.TagRecord{
		Name:       name,
		Domain:     "communication",
		Cluster:    "customer-facing",
		Definition: "listens for the unstated need behind a customer's words",
		GrowthPath: Ladder(growthpath.FullSpan()),
		Signals: types.Signals{
			Positive:       []string{"restates the customer's goal before answering"},
			Negative:       []string{"answers the literal question and closes the ticket"},
			EvidencePrompt: "paste a conversation where the real need differed from the stated one",
		},
		PositionExamples: []types.PositionExample{{
			Position:        "customer-support",
			Scenario:        "refund request on a working product",
			PositiveExample: "asks what outcome the customer actually wants",
			NegativeExample: "processes the refund without a question",
		}},
	}
}

// TaskDraft builds a task tag draft for the position that passes publish
// validation.
func TaskDraft(name, position string, span growthpath.Span) *types.TagRecord {
	return &types.TagRecord{
		Name:              name,
		Domain:            "service-operations",
		Cluster:           "complaint-handling",
		Definition:        "resolves an escalated complaint end to end",
		Position:          position,
		Span:              span,
		GrowthPath:        Ladder(span),
		TriggerConditions: []string{"customer requests escalation"},
		SuccessCriteria:   []string{"customer confirms resolution in writing"},
		KeySteps:          []string{"acknowledge", "investigate", "propose remedy", "confirm"},
		RiskPoints:        []string{"promising compensation beyond policy"},
	}
}

// StageDraft builds a stage with one learn item and no bindings.
func StageDraft(name string) curriculum.Stage {
	return curriculum.Stage{
		Name:               name,
		Level:              "L1",
		Objective:          "handle standard cases unaided",
		EntryCondition:     "completed onboarding",
		CompletionCriteria: "supervisor sign-off",
		LearnItems: []curriculum.ContentItem{{
			ID:              "CI-intro",
			Name:            "introduction course",
			Type:            curriculum.ContentCourse,
			DurationMinutes: 45,
			Required:        true,
		}},
	}
}

// Confidence returns a pointer to the value, for AI proposal fixtures.
func Confidence(v float64) *float64 {
	return &v
}
