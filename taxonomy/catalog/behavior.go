package catalog

import (
	"context"
	"strings"

	"github.com/strata-hq/compass/taxonomy/growthpath"
	"github.com/strata-hq/compass/taxonomy/rules"
	"github.com/strata-hq/compass/taxonomy/types"
)

// BehaviorCatalog owns the cross-position soft-skill tags. Every behavior
// tag spans the full canonical ladder, so publish validation demands all
// fifteen levels.
type BehaviorCatalog struct {
	store   *store
	ruleSet []rules.Rule[*types.TagRecord]
}

// NewBehaviorCatalog creates an empty behavior-tag catalog.
func NewBehaviorCatalog() *BehaviorCatalog {
	return &BehaviorCatalog{
		store:   newStore(types.FamilyBehavior, "behavior tag"),
		ruleSet: behaviorRules(),
	}
}

// behaviorRules is the publish rule set for the behavior family.
func behaviorRules() []rules.Rule[*types.TagRecord] {
	return []rules.Rule[*types.TagRecord]{
		{
			Name: "growth-path-complete",
			Check: func(r *types.TagRecord) []rules.Violation {
				var out []rules.Violation
				for i := growthpath.MinLevel; i <= growthpath.MaxLevel; i++ {
					if !r.LevelFilled(i) {
						out = append(out, rules.Blockingf(growthpath.FormatIndex(i),
							"growth path level has no description"))
					}
				}
				return out
			},
		},
		{
			Name: "key-points-per-level",
			Check: func(r *types.TagRecord) []rules.Violation {
				var out []rules.Violation
				for i := growthpath.MinLevel; i <= growthpath.MaxLevel; i++ {
					level, ok := r.LevelAt(i)
					if !ok || level.Description == "" {
						continue // missing level already reported by growth-path-complete
					}
					if countNonEmpty(level.KeyPoints) == 0 {
						out = append(out, rules.Blockingf(growthpath.FormatIndex(i),
							"growth path level needs at least one key assessment point"))
					}
				}
				return out
			},
		},
		{
			Name: "example-pair-recommended",
			Check: func(r *types.TagRecord) []rules.Violation {
				for _, example := range r.PositionExamples {
					if example.PositiveExample != "" && example.NegativeExample != "" {
						return nil
					}
				}
				return []rules.Violation{rules.Warningf("positionExamples",
					"no position example with both a positive and a negative case; recommended before publish")}
			},
		},
	}
}

// Create stores a new version-1 draft. Required fields: name, domain,
// cluster, definition.
func (c *BehaviorCatalog) Create(ctx context.Context, draft *types.TagRecord, actor string) (*types.TagRecord, error) {
	return c.store.create(ctx, draft, actor)
}

// Edit applies mutate to a draft. Published and disabled records refuse with
// ErrImmutableRecord; fork instead.
func (c *BehaviorCatalog) Edit(ctx context.Context, id string, mutate func(*types.TagRecord), actor string) (*types.TagRecord, error) {
	return c.store.edit(ctx, id, mutate, actor)
}

// ValidateForPublish runs the behavior rule set without changing state.
func (c *BehaviorCatalog) ValidateForPublish(record *types.TagRecord) rules.Result {
	return rules.RunAll(c.ruleSet, record)
}

// Publish re-validates inside the transition's critical section and flips
// the draft to published. The returned result carries any warnings even on
// success.
func (c *BehaviorCatalog) Publish(ctx context.Context, id string, actor string) (*types.TagRecord, rules.Result, error) {
	return c.store.publish(ctx, id, actor, c.ValidateForPublish)
}

// Disable retires a published tag from authoring pickers. History that
// already references it keeps resolving.
func (c *BehaviorCatalog) Disable(ctx context.Context, id string, actor string) (*types.TagRecord, error) {
	return c.store.disable(ctx, id, actor)
}

// Fork creates the lineage's next draft version from its published content.
func (c *BehaviorCatalog) Fork(ctx context.Context, id string, actor string) (*types.TagRecord, error) {
	return c.store.fork(ctx, id, actor)
}

// Get returns one version by id.
func (c *BehaviorCatalog) Get(id string) (*types.TagRecord, error) {
	return c.store.get(id)
}

// Resolve is the binding-time lookup used by the curriculum graph and the
// alias registry.
func (c *BehaviorCatalog) Resolve(id string) (*types.TagRecord, bool) {
	return c.store.resolve(id)
}

// Lineage returns every version of a tag in ascending version order.
func (c *BehaviorCatalog) Lineage(lineageID string) ([]*types.TagRecord, error) {
	return c.store.lineage(lineageID)
}

// List returns records matching the filter.
func (c *BehaviorCatalog) List(filter ListFilter) []*types.TagRecord {
	return c.store.list(filter)
}

// countNonEmpty returns how many entries carry non-whitespace content.
func countNonEmpty(entries []string) int {
	n := 0
	for _, e := range entries {
		if strings.TrimSpace(e) != "" {
			n++
		}
	}
	return n
}
