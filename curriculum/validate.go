package curriculum

import (
	"github.com/strata-hq/compass/taxonomy/rules"
	"github.com/strata-hq/compass/taxonomy/types"
)

// ValidateForPublish runs the map rule set against a snapshot of the map.
// It is a pure read: catalog lookups go through the resolvers' own read
// locks and nothing is mutated. Publish runs the same rules again inside
// its critical section, so a validation that was current when the author
// clicked publish cannot go stale between check and flip.
func (g *Graph) ValidateForPublish(mapID string) (rules.Result, error) {
	m, err := g.Get(mapID)
	if err != nil {
		return rules.Result{}, err
	}
	return g.validate(m), nil
}

func (g *Graph) validate(m *LearningMap) rules.Result {
	return rules.RunAll(g.mapRules(), m)
}

// mapRules is the publish rule set for learning maps. Every violation names
// the offending stage so the author can navigate straight to it.
func (g *Graph) mapRules() []rules.Rule[*LearningMap] {
	return []rules.Rule[*LearningMap]{
		{
			Name: "has-stages",
			Check: func(m *LearningMap) []rules.Violation {
				if len(m.Stages) == 0 {
					return []rules.Violation{rules.Blockingf("stages", "a learning map needs at least one stage")}
				}
				return nil
			},
		},
		{
			Name: "stage-names-unique",
			Check: func(m *LearningMap) []rules.Violation {
				seen := make(map[string]bool, len(m.Stages))
				var out []rules.Violation
				for _, stage := range m.Stages {
					if seen[stage.Name] {
						out = append(out, rules.Blockingf(stage.Name, "stage name is used more than once"))
					}
					seen[stage.Name] = true
				}
				return out
			},
		},
		{
			Name: "stage-content-present",
			Check: func(m *LearningMap) []rules.Violation {
				var out []rules.Violation
				for _, stage := range m.Stages {
					if stage.ContentItemCount() == 0 {
						out = append(out, rules.Blockingf(stage.Name,
							"stage needs at least one learn, practice, or assess item"))
					}
				}
				return out
			},
		},
		{
			Name: "stage-behavior-bindings-present",
			Check: func(m *LearningMap) []rules.Violation {
				var out []rules.Violation
				for _, stage := range m.Stages {
					if len(stage.BehaviorBindings) == 0 {
						out = append(out, rules.Blockingf(stage.Name,
							"stage needs at least one behavior tag binding"))
					}
				}
				return out
			},
		},
		{
			// A curriculum never ships referencing an unpublished competency
			// definition: provisional draft bindings block here.
			Name: "bound-tags-published",
			Check: func(m *LearningMap) []rules.Violation {
				var out []rules.Violation
				for _, stage := range m.Stages {
					for _, binding := range stage.BehaviorBindings {
						out = append(out, g.checkPublished(stage, g.behaviors, types.FamilyBehavior, binding.TagID)...)
					}
					for _, binding := range stage.TaskBindings {
						out = append(out, g.checkPublished(stage, g.tasks, types.FamilyTask, binding.TagID)...)
					}
				}
				return out
			},
		},
		{
			Name: "target-levels-within-tag-span",
			Check: func(m *LearningMap) []rules.Violation {
				var out []rules.Violation
				for _, stage := range m.Stages {
					for _, binding := range stage.BehaviorBindings {
						record, ok := g.behaviors.Resolve(binding.TagID)
						if !ok {
							continue // bound-tags-published already reported
						}
						if !record.EffectiveSpan().Contains(binding.TargetLevel) {
							out = append(out, rules.Warningf(stage.Name,
								"target level P%d for behavior tag %q is outside the tag's P%d..P%d range",
								binding.TargetLevel, record.Name, record.EffectiveSpan().Start, record.EffectiveSpan().End))
						}
					}
				}
				return out
			},
		},
		{
			Name: "task-tags-match-position",
			Check: func(m *LearningMap) []rules.Violation {
				var out []rules.Violation
				for _, stage := range m.Stages {
					for _, binding := range stage.TaskBindings {
						record, ok := g.tasks.Resolve(binding.TagID)
						if !ok {
							continue
						}
						if record.Position != m.PositionID {
							out = append(out, rules.Warningf(stage.Name,
								"task tag %q belongs to position %q, map targets %q",
								record.Name, record.Position, m.PositionID))
						}
					}
				}
				return out
			},
		},
	}
}

// checkPublished reports a blocking violation when a bound tag is missing
// or not currently published, naming both the stage and the tag.
func (g *Graph) checkPublished(stage Stage, resolver TagResolver, family types.Family, tagID string) []rules.Violation {
	record, ok := resolver.Resolve(tagID)
	if !ok {
		return []rules.Violation{rules.Blockingf(stage.Name,
			"bound %s tag %q does not exist", family, tagID)}
	}
	if !record.IsPublished() {
		return []rules.Violation{rules.Blockingf(stage.Name,
			"bound %s tag %q (%s) is %s; only published tags may ship", family, record.Name, record.VersionLabel(), record.Status)}
	}
	return nil
}
