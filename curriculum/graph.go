package curriculum

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/strata-hq/compass/errors"
	"github.com/strata-hq/compass/logger"
	"github.com/strata-hq/compass/taxonomy/aliasmap"
	"github.com/strata-hq/compass/taxonomy/growthpath"
	"github.com/strata-hq/compass/taxonomy/rules"
	"github.com/strata-hq/compass/taxonomy/types"
)

// TagResolver resolves a tag version id to its record. Both catalogs
// satisfy this.
type TagResolver interface {
	Resolve(id string) (*types.TagRecord, bool)
}

// Graph owns the learning maps for all positions. Catalogs and the alias
// registry are passed in at construction; every tag lookup goes through
// them — the graph never copies tag content into a stage.
//
// Concurrency: one RWMutex guards the map store. Publish performs its
// validate-and-flip (including demotion of the position's prior published
// version) under the write lock, so two concurrent publishes for one
// position cannot both end up published.
type Graph struct {
	mu        sync.RWMutex
	byID      map[string]*LearningMap
	byLineage map[string][]*LearningMap // ascending version order

	behaviors TagResolver
	tasks     TagResolver
	registry  *aliasmap.Registry

	log *zap.SugaredLogger
	now func() time.Time
}

// NewGraph creates an empty learning-map graph resolving tags against the
// given catalogs and vocabulary against the given registry.
func NewGraph(behaviors, tasks TagResolver, registry *aliasmap.Registry) *Graph {
	return &Graph{
		byID:      make(map[string]*LearningMap),
		byLineage: make(map[string][]*LearningMap),
		behaviors: behaviors,
		tasks:     tasks,
		registry:  registry,
		log:       logger.With(logger.FieldComponent, "curriculum"),
		now:       time.Now,
	}
}

// Create starts a new version-1 draft map for a position.
func (g *Graph) Create(ctx context.Context, positionID string, targetAudience []string, actor string) (*LearningMap, error) {
	positionID = strings.TrimSpace(positionID)
	if positionID == "" {
		return nil, errors.Mark(errors.New("a learning map requires a position"), errors.ErrInvalidRequest)
	}

	m := &LearningMap{
		LineageID:      newMapLineageID(),
		PositionID:     positionID,
		Version:        1,
		Status:         StatusDraft,
		TargetAudience: append([]string(nil), targetAudience...),
	}
	m.ID = types.VersionID(m.LineageID, m.Version)
	now := g.now()
	m.Audit = types.Audit{CreatedBy: actor, CreatedAt: now, UpdatedBy: actor, UpdatedAt: now}

	g.mu.Lock()
	g.byID[m.ID] = m
	g.byLineage[m.LineageID] = append(g.byLineage[m.LineageID], m)
	g.mu.Unlock()

	g.log.Infow("created learning map",
		append(logger.FieldsFromContext(ctx),
			logger.FieldMapID, m.ID,
			logger.FieldPosition, positionID,
			logger.FieldActor, actor)...)
	return m.Clone(), nil
}

// AddStage appends a stage to a draft map. A missing stage id is assigned.
func (g *Graph) AddStage(ctx context.Context, mapID string, stage Stage, actor string) (*LearningMap, error) {
	if strings.TrimSpace(stage.Name) == "" {
		return nil, errors.Mark(errors.New("a stage requires a name"), errors.ErrInvalidRequest)
	}
	return g.editMap(ctx, mapID, actor, func(m *LearningMap) error {
		s := stage.Clone()
		if s.ID == "" {
			s.ID = newStageID()
		}
		m.Stages = append(m.Stages, s)
		return nil
	})
}

// UpdateStage applies mutate to one stage of a draft map. The stage id is
// preserved.
func (g *Graph) UpdateStage(ctx context.Context, mapID, stageID string, mutate func(*Stage), actor string) (*LearningMap, error) {
	return g.editMap(ctx, mapID, actor, func(m *LearningMap) error {
		stage, ok := m.StageByID(stageID)
		if !ok {
			return g.stageNotFound(mapID, stageID)
		}
		id := stage.ID
		mutate(stage)
		stage.ID = id
		return nil
	})
}

// RemoveStage deletes a stage from a draft map.
func (g *Graph) RemoveStage(ctx context.Context, mapID, stageID string, actor string) (*LearningMap, error) {
	return g.editMap(ctx, mapID, actor, func(m *LearningMap) error {
		for i := range m.Stages {
			if m.Stages[i].ID == stageID {
				m.Stages = append(m.Stages[:i], m.Stages[i+1:]...)
				return nil
			}
		}
		return g.stageNotFound(mapID, stageID)
	})
}

// ReorderStages rearranges a draft map's stages. The given ids must be a
// permutation of the current stage ids.
func (g *Graph) ReorderStages(ctx context.Context, mapID string, orderedStageIDs []string, actor string) (*LearningMap, error) {
	return g.editMap(ctx, mapID, actor, func(m *LearningMap) error {
		if len(orderedStageIDs) != len(m.Stages) {
			return errors.Mark(
				errors.Newf("reorder lists %d stages, map has %d", len(orderedStageIDs), len(m.Stages)),
				errors.ErrInvalidRequest)
		}
		byID := make(map[string]Stage, len(m.Stages))
		for _, stage := range m.Stages {
			byID[stage.ID] = stage
		}
		reordered := make([]Stage, 0, len(orderedStageIDs))
		for _, id := range orderedStageIDs {
			stage, ok := byID[id]
			if !ok {
				return g.stageNotFound(mapID, id)
			}
			delete(byID, id)
			reordered = append(reordered, stage)
		}
		m.Stages = reordered
		return nil
	})
}

// BindBehaviorTag attaches a behavior tag to a stage with a target level.
// Unknown tags fail fast here rather than at publish; binding the same tag
// again updates the target level.
func (g *Graph) BindBehaviorTag(ctx context.Context, mapID, stageID, tagID string, targetLevel int, actor string) (*LearningMap, error) {
	if targetLevel < growthpath.MinLevel || targetLevel > growthpath.MaxLevel {
		return nil, errors.Mark(
			errors.Newf("target level %s is outside the ladder %s..%s",
				growthpath.FormatIndex(targetLevel),
				growthpath.FormatIndex(growthpath.MinLevel),
				growthpath.FormatIndex(growthpath.MaxLevel)),
			errors.ErrOutOfRange)
	}
	if err := g.checkBindable(g.behaviors, types.FamilyBehavior, tagID); err != nil {
		return nil, err
	}
	return g.editMap(ctx, mapID, actor, func(m *LearningMap) error {
		stage, ok := m.StageByID(stageID)
		if !ok {
			return g.stageNotFound(mapID, stageID)
		}
		for i := range stage.BehaviorBindings {
			if stage.BehaviorBindings[i].TagID == tagID {
				stage.BehaviorBindings[i].TargetLevel = targetLevel
				return nil
			}
		}
		stage.BehaviorBindings = append(stage.BehaviorBindings, BehaviorBinding{TagID: tagID, TargetLevel: targetLevel})
		return nil
	})
}

// BindTaskTag attaches a task tag to a stage. Binding an already-bound tag
// is a no-op.
func (g *Graph) BindTaskTag(ctx context.Context, mapID, stageID, tagID string, actor string) (*LearningMap, error) {
	if err := g.checkBindable(g.tasks, types.FamilyTask, tagID); err != nil {
		return nil, err
	}
	return g.editMap(ctx, mapID, actor, func(m *LearningMap) error {
		stage, ok := m.StageByID(stageID)
		if !ok {
			return g.stageNotFound(mapID, stageID)
		}
		for _, binding := range stage.TaskBindings {
			if binding.TagID == tagID {
				return nil
			}
		}
		stage.TaskBindings = append(stage.TaskBindings, TaskBinding{TagID: tagID})
		return nil
	})
}

// UnbindBehaviorTag removes a behavior binding from a stage.
func (g *Graph) UnbindBehaviorTag(ctx context.Context, mapID, stageID, tagID string, actor string) (*LearningMap, error) {
	return g.editMap(ctx, mapID, actor, func(m *LearningMap) error {
		stage, ok := m.StageByID(stageID)
		if !ok {
			return g.stageNotFound(mapID, stageID)
		}
		for i := range stage.BehaviorBindings {
			if stage.BehaviorBindings[i].TagID == tagID {
				stage.BehaviorBindings = append(stage.BehaviorBindings[:i], stage.BehaviorBindings[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// UnbindTaskTag removes a task binding from a stage.
func (g *Graph) UnbindTaskTag(ctx context.Context, mapID, stageID, tagID string, actor string) (*LearningMap, error) {
	return g.editMap(ctx, mapID, actor, func(m *LearningMap) error {
		stage, ok := m.StageByID(stageID)
		if !ok {
			return g.stageNotFound(mapID, stageID)
		}
		for i := range stage.TaskBindings {
			if stage.TaskBindings[i].TagID == tagID {
				stage.TaskBindings = append(stage.TaskBindings[:i], stage.TaskBindings[i+1:]...)
				return nil
			}
		}
		return nil
	})
}

// SuggestBinding resolves a raw position term to its mapped tag via the
// alias registry — the authoring-time lookup content tools use before
// binding.
func (g *Graph) SuggestBinding(position, term string) (*aliasmap.Entry, bool) {
	return g.registry.Resolve(position, term)
}

// Publish re-validates the map and flips it to published in one critical
// section. The position's previously published map (if any) becomes
// historical — kept, not deleted, and no longer the active map.
func (g *Graph) Publish(ctx context.Context, mapID string, actor string) (*LearningMap, rules.Result, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.byID[mapID]
	if !ok {
		return nil, rules.Result{}, g.mapNotFound(mapID)
	}
	if !m.IsDraft() {
		return nil, rules.Result{}, errors.Mark(
			errors.Newf("learning map %s %s is %s; only drafts can be published", m.ID, m.VersionLabel(), m.Status),
			errors.ErrInvalidTransition)
	}

	result := g.validate(m)
	if !result.Eligible() {
		g.log.Debugw("learning map publish blocked",
			logger.FieldMapID, m.ID,
			logger.FieldPosition, m.PositionID,
			logger.FieldViolations, len(result.Blocking()))
		return nil, result, rules.NewValidationError(
			`learning map for position "`+m.PositionID+`"`, result)
	}

	now := g.now()
	for _, other := range g.byID {
		if other.PositionID == m.PositionID && other.IsPublished() {
			other.Status = StatusHistorical
			other.Audit.Touch(actor, now)
			g.log.Infow("superseded published learning map",
				append(logger.FieldsFromContext(ctx),
					logger.FieldMapID, other.ID,
					logger.FieldPosition, other.PositionID,
					"superseded_by", m.ID)...)
		}
	}

	m.Status = StatusPublished
	m.Audit.Touch(actor, now)

	g.log.Infow("published learning map",
		append(logger.FieldsFromContext(ctx),
			logger.FieldMapID, m.ID,
			logger.FieldPosition, m.PositionID,
			logger.FieldVersion, m.VersionLabel(),
			logger.FieldActor, actor)...)
	return m.Clone(), result, nil
}

// Disable retires a published map, leaving the position with no active
// curriculum until a new version is published.
func (g *Graph) Disable(ctx context.Context, mapID string, actor string) (*LearningMap, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.byID[mapID]
	if !ok {
		return nil, g.mapNotFound(mapID)
	}
	if !m.IsPublished() {
		return nil, errors.Mark(
			errors.Newf("learning map %s is %s; only published maps can be disabled", m.ID, m.Status),
			errors.ErrInvalidTransition)
	}

	m.Status = StatusDisabled
	m.Audit.Touch(actor, g.now())

	g.log.Infow("disabled learning map",
		append(logger.FieldsFromContext(ctx),
			logger.FieldMapID, m.ID,
			logger.FieldPosition, m.PositionID,
			logger.FieldActor, actor)...)
	return m.Clone(), nil
}

// Fork clones a published (or disabled, or historical) map into the
// lineage's next draft version. Stages and bindings are deep-copied; the
// published source stays untouched.
func (g *Graph) Fork(ctx context.Context, mapID string, actor string) (*LearningMap, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.byID[mapID]
	if !ok {
		return nil, g.mapNotFound(mapID)
	}
	if m.IsDraft() {
		return nil, errors.Mark(
			errors.Newf("learning map %s %s is already an editable draft", m.ID, m.VersionLabel()),
			errors.ErrInvalidTransition)
	}

	lineage := g.byLineage[m.LineageID]
	for _, v := range lineage {
		if v.IsDraft() {
			return nil, errors.Mark(
				errors.Newf("learning map lineage already has draft %s in progress", v.VersionLabel()),
				errors.ErrConflict)
		}
	}

	next := m.Clone()
	next.Version = lineage[len(lineage)-1].Version + 1
	next.ID = types.VersionID(next.LineageID, next.Version)
	next.Status = StatusDraft
	now := g.now()
	next.Audit = types.Audit{CreatedBy: actor, CreatedAt: now, UpdatedBy: actor, UpdatedAt: now}

	g.byID[next.ID] = next
	g.byLineage[next.LineageID] = append(g.byLineage[next.LineageID], next)

	g.log.Infow("forked learning map",
		append(logger.FieldsFromContext(ctx),
			logger.FieldMapID, next.ID,
			logger.FieldPosition, next.PositionID,
			logger.FieldVersion, next.VersionLabel(),
			logger.FieldActor, actor)...)
	return next.Clone(), nil
}

// Get returns one map version by id.
func (g *Graph) Get(mapID string) (*LearningMap, error) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	m, ok := g.byID[mapID]
	if !ok {
		return nil, g.mapNotFound(mapID)
	}
	return m.Clone(), nil
}

// ActiveForPosition resolves the position's currently published map.
func (g *Graph) ActiveForPosition(positionID string) (*LearningMap, bool) {
	g.mu.RLock()
	defer g.mu.RUnlock()

	for _, m := range g.byID {
		if m.PositionID == positionID && m.IsPublished() {
			return m.Clone(), true
		}
	}
	return nil, false
}

// History returns every map version for a position, oldest first.
func (g *Graph) History(positionID string) []*LearningMap {
	g.mu.RLock()
	defer g.mu.RUnlock()

	var out []*LearningMap
	for _, m := range g.byID {
		if m.PositionID == positionID {
			out = append(out, m.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].LineageID != out[j].LineageID {
			return out[i].LineageID < out[j].LineageID
		}
		return out[i].Version < out[j].Version
	})
	return out
}

// editMap applies a mutation to a draft map under the write lock.
func (g *Graph) editMap(ctx context.Context, mapID string, actor string, mutate func(*LearningMap) error) (*LearningMap, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	m, ok := g.byID[mapID]
	if !ok {
		return nil, g.mapNotFound(mapID)
	}
	if !m.IsDraft() {
		return nil, errors.WithHint(
			errors.Mark(
				errors.Newf("learning map %s %s is %s and cannot be edited", m.ID, m.VersionLabel(), m.Status),
				errors.ErrImmutableRecord),
			"fork the published version to create an editable draft")
	}
	if err := mutate(m); err != nil {
		return nil, err
	}
	m.Audit.Touch(actor, g.now())
	return m.Clone(), nil
}

// checkBindable enforces the bind-time contract: the tag must exist in its
// catalog and must not be disabled. Draft tags bind provisionally; publish
// validation blocks the map until they are published.
func (g *Graph) checkBindable(resolver TagResolver, family types.Family, tagID string) error {
	record, ok := resolver.Resolve(tagID)
	if !ok {
		return errors.Mark(errors.Newf("%s tag %q does not exist", family, tagID), errors.ErrUnknownTag)
	}
	if record.IsDisabled() {
		return errors.Mark(
			errors.Newf("%s tag %q (%s) is disabled and cannot be bound", family, record.Name, tagID),
			errors.ErrTagNotActive)
	}
	return nil
}

func (g *Graph) mapNotFound(mapID string) error {
	return errors.Mark(errors.Newf("learning map %q does not exist", mapID), errors.ErrNotFound)
}

func (g *Graph) stageNotFound(mapID, stageID string) error {
	return errors.Mark(errors.Newf("stage %q does not exist in learning map %q", stageID, mapID), errors.ErrNotFound)
}
