package catalog

import (
	"context"

	"github.com/strata-hq/compass/taxonomy/growthpath"
	"github.com/strata-hq/compass/taxonomy/rules"
	"github.com/strata-hq/compass/taxonomy/types"
)

// TaskCatalog owns the position-specific professional-task tags. A task tag
// spans an explicit ladder sub-range and may reference related behavior
// tags, so the catalog holds the behavior catalog for resolution — passed in
// explicitly, never ambient.
type TaskCatalog struct {
	store     *store
	behaviors *BehaviorCatalog
	ruleSet   []rules.Rule[*types.TagRecord]
}

// NewTaskCatalog creates an empty task-tag catalog resolving related
// behavior tags against the given catalog.
func NewTaskCatalog(behaviors *BehaviorCatalog) *TaskCatalog {
	c := &TaskCatalog{
		store:     newStore(types.FamilyTask, "task tag"),
		behaviors: behaviors,
	}
	c.ruleSet = c.taskRules()
	return c
}

// taskRules is the publish rule set for the task family.
func (c *TaskCatalog) taskRules() []rules.Rule[*types.TagRecord] {
	return []rules.Rule[*types.TagRecord]{
		{
			Name: "span-valid",
			Check: func(r *types.TagRecord) []rules.Violation {
				if err := r.Span.Validate(); err != nil {
					return []rules.Violation{rules.Blockingf("span", "%v", err)}
				}
				return nil
			},
		},
		{
			Name: "growth-path-covers-span",
			Check: func(r *types.TagRecord) []rules.Violation {
				if r.Span.Validate() != nil {
					return nil // span-valid already reported
				}
				var out []rules.Violation
				for i := r.Span.Start; i <= r.Span.End; i++ {
					if !r.LevelFilled(i) {
						out = append(out, rules.Blockingf(growthpath.FormatIndex(i),
							"growth path level has no description"))
					}
				}
				return out
			},
		},
		{
			Name: "position-set",
			Check: func(r *types.TagRecord) []rules.Violation {
				if r.Position == "" {
					return []rules.Violation{rules.Blockingf("position", "task tag requires a position")}
				}
				return nil
			},
		},
		{
			Name: "operational-fields-present",
			Check: func(r *types.TagRecord) []rules.Violation {
				var out []rules.Violation
				if countNonEmpty(r.TriggerConditions) == 0 {
					out = append(out, rules.Blockingf("triggerConditions", "at least one trigger condition is required"))
				}
				if countNonEmpty(r.SuccessCriteria) == 0 {
					out = append(out, rules.Blockingf("successCriteria", "at least one success criterion is required"))
				}
				if countNonEmpty(r.KeySteps) == 0 {
					out = append(out, rules.Blockingf("keySteps", "at least one key step is required"))
				}
				return out
			},
		},
		{
			Name: "related-behavior-tags-resolve",
			Check: func(r *types.TagRecord) []rules.Violation {
				var out []rules.Violation
				for _, id := range r.RelatedBehaviorTagIDs {
					if _, ok := c.behaviors.Resolve(id); !ok {
						out = append(out, rules.Blockingf("relatedBehaviorTagIds",
							"related behavior tag %q does not exist", id))
					}
				}
				return out
			},
		},
	}
}

// Create stores a new version-1 draft. Required fields: name, domain,
// cluster, definition, position.
func (c *TaskCatalog) Create(ctx context.Context, draft *types.TagRecord, actor string) (*types.TagRecord, error) {
	return c.store.create(ctx, draft, actor)
}

// Edit applies mutate to a draft. Published and disabled records refuse with
// ErrImmutableRecord; fork instead.
func (c *TaskCatalog) Edit(ctx context.Context, id string, mutate func(*types.TagRecord), actor string) (*types.TagRecord, error) {
	return c.store.edit(ctx, id, mutate, actor)
}

// ValidateForPublish runs the task rule set without changing state.
func (c *TaskCatalog) ValidateForPublish(record *types.TagRecord) rules.Result {
	return rules.RunAll(c.ruleSet, record)
}

// Publish re-validates inside the transition's critical section and flips
// the draft to published.
func (c *TaskCatalog) Publish(ctx context.Context, id string, actor string) (*types.TagRecord, rules.Result, error) {
	return c.store.publish(ctx, id, actor, c.ValidateForPublish)
}

// Disable retires a published tag from authoring pickers.
func (c *TaskCatalog) Disable(ctx context.Context, id string, actor string) (*types.TagRecord, error) {
	return c.store.disable(ctx, id, actor)
}

// Fork creates the lineage's next draft version from its published content.
func (c *TaskCatalog) Fork(ctx context.Context, id string, actor string) (*types.TagRecord, error) {
	return c.store.fork(ctx, id, actor)
}

// Get returns one version by id.
func (c *TaskCatalog) Get(id string) (*types.TagRecord, error) {
	return c.store.get(id)
}

// Resolve is the binding-time lookup used by the curriculum graph and the
// alias registry.
func (c *TaskCatalog) Resolve(id string) (*types.TagRecord, bool) {
	return c.store.resolve(id)
}

// Lineage returns every version of a tag in ascending version order.
func (c *TaskCatalog) Lineage(lineageID string) ([]*types.TagRecord, error) {
	return c.store.lineage(lineageID)
}

// List returns records matching the filter.
func (c *TaskCatalog) List(filter ListFilter) []*types.TagRecord {
	return c.store.list(filter)
}
