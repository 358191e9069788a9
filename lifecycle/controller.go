// Package lifecycle provides the uniform state-transition entry point the
// embedding application calls for every entity family: behavior tags, task
// tags, alias mappings, and learning maps.
//
// The families own their transition semantics; the controller only
// dispatches, attributes, and logs — one audited surface for
// draft → published → disabled and publish-new-version flows.
package lifecycle

import (
	"context"

	"go.uber.org/zap"

	"github.com/strata-hq/compass/curriculum"
	"github.com/strata-hq/compass/errors"
	"github.com/strata-hq/compass/logger"
	"github.com/strata-hq/compass/taxonomy/aliasmap"
	"github.com/strata-hq/compass/taxonomy/catalog"
	"github.com/strata-hq/compass/taxonomy/rules"
	"github.com/strata-hq/compass/taxonomy/types"
)

// EntityKind names a lifecycle-managed entity family.
type EntityKind string

const (
	KindBehaviorTag  EntityKind = "behavior-tag"
	KindTaskTag      EntityKind = "task-tag"
	KindAliasMapping EntityKind = "alias-mapping"
	KindLearningMap  EntityKind = "learning-map"
)

// Action names a lifecycle transition.
type Action string

const (
	ActionPublish Action = "publish"
	ActionDisable Action = "disable"
	ActionFork    Action = "fork"
	ActionApprove Action = "approve" // alias mappings only
	ActionReject  Action = "reject"  // alias mappings only
)

// TransitionResult reports what a transition did. For forks, ID is the new
// draft's id; otherwise it is the transitioned record's id.
type TransitionResult struct {
	Kind     EntityKind        `json:"kind"`
	ID       string            `json:"id"`
	From     string            `json:"from"`
	To       string            `json:"to"`
	Warnings []rules.Violation `json:"warnings,omitempty"` // publish-time advisories
}

// Controller dispatches lifecycle actions across the four entity families.
type Controller struct {
	behaviors *catalog.BehaviorCatalog
	tasks     *catalog.TaskCatalog
	registry  *aliasmap.Registry
	maps      *curriculum.Graph

	log *zap.SugaredLogger
}

// NewController wires the controller over the four stores.
func NewController(behaviors *catalog.BehaviorCatalog, tasks *catalog.TaskCatalog, registry *aliasmap.Registry, maps *curriculum.Graph) *Controller {
	return &Controller{
		behaviors: behaviors,
		tasks:     tasks,
		registry:  registry,
		maps:      maps,
		log:       logger.With(logger.FieldComponent, "lifecycle"),
	}
}

// Transition applies one lifecycle action on behalf of an actor.
func (c *Controller) Transition(ctx context.Context, kind EntityKind, id string, action Action, actor string) (*TransitionResult, error) {
	var result *TransitionResult
	var err error

	switch kind {
	case KindBehaviorTag:
		result, err = c.tagTransition(ctx, kind, tagOps{
			publish: c.behaviors.Publish,
			disable: c.behaviors.Disable,
			fork:    c.behaviors.Fork,
			get:     c.behaviors.Get,
		}, id, action, actor)
	case KindTaskTag:
		result, err = c.tagTransition(ctx, kind, tagOps{
			publish: c.tasks.Publish,
			disable: c.tasks.Disable,
			fork:    c.tasks.Fork,
			get:     c.tasks.Get,
		}, id, action, actor)
	case KindAliasMapping:
		result, err = c.mappingTransition(ctx, id, action, actor)
	case KindLearningMap:
		result, err = c.mapTransition(ctx, id, action, actor)
	default:
		return nil, errors.Mark(errors.Newf("unknown entity kind %q", kind), errors.ErrInvalidRequest)
	}
	if err != nil {
		return nil, err
	}

	c.log.Infow("lifecycle transition applied",
		append(logger.FieldsFromContext(ctx),
			logger.FieldTransition, string(action),
			"kind", string(kind),
			"entity_id", result.ID,
			logger.FieldStatus, result.To,
			logger.FieldActor, actor)...)
	return result, nil
}

// tagOps adapts the two catalogs' identical method sets.
type tagOps struct {
	publish func(context.Context, string, string) (*types.TagRecord, rules.Result, error)
	disable func(context.Context, string, string) (*types.TagRecord, error)
	fork    func(context.Context, string, string) (*types.TagRecord, error)
	get     func(string) (*types.TagRecord, error)
}

func (c *Controller) tagTransition(ctx context.Context, kind EntityKind, ops tagOps, id string, action Action, actor string) (*TransitionResult, error) {
	before, err := ops.get(id)
	if err != nil {
		return nil, err
	}
	from := string(before.Status)

	switch action {
	case ActionPublish:
		record, result, err := ops.publish(ctx, id, actor)
		if err != nil {
			return nil, err
		}
		return &TransitionResult{Kind: kind, ID: record.ID, From: from, To: string(record.Status), Warnings: result.Warnings()}, nil
	case ActionDisable:
		record, err := ops.disable(ctx, id, actor)
		if err != nil {
			return nil, err
		}
		return &TransitionResult{Kind: kind, ID: record.ID, From: from, To: string(record.Status)}, nil
	case ActionFork:
		record, err := ops.fork(ctx, id, actor)
		if err != nil {
			return nil, err
		}
		return &TransitionResult{Kind: kind, ID: record.ID, From: from, To: string(record.Status)}, nil
	default:
		return nil, errors.Mark(errors.Newf("action %q does not apply to %s", action, kind), errors.ErrInvalidRequest)
	}
}

func (c *Controller) mappingTransition(ctx context.Context, id string, action Action, actor string) (*TransitionResult, error) {
	before, err := c.registry.Get(id)
	if err != nil {
		return nil, err
	}
	from := string(before.Status)

	var entry *aliasmap.Entry
	switch action {
	case ActionApprove:
		entry, err = c.registry.Approve(ctx, id, actor)
	case ActionReject:
		entry, err = c.registry.Reject(ctx, id, actor)
	case ActionDisable:
		entry, err = c.registry.Disable(ctx, id, actor)
	default:
		return nil, errors.Mark(errors.Newf("action %q does not apply to alias mappings", action), errors.ErrInvalidRequest)
	}
	if err != nil {
		return nil, err
	}
	return &TransitionResult{Kind: KindAliasMapping, ID: entry.ID, From: from, To: string(entry.Status)}, nil
}

func (c *Controller) mapTransition(ctx context.Context, id string, action Action, actor string) (*TransitionResult, error) {
	before, err := c.maps.Get(id)
	if err != nil {
		return nil, err
	}
	from := string(before.Status)

	switch action {
	case ActionPublish:
		m, result, err := c.maps.Publish(ctx, id, actor)
		if err != nil {
			return nil, err
		}
		return &TransitionResult{Kind: KindLearningMap, ID: m.ID, From: from, To: string(m.Status), Warnings: result.Warnings()}, nil
	case ActionDisable:
		m, err := c.maps.Disable(ctx, id, actor)
		if err != nil {
			return nil, err
		}
		return &TransitionResult{Kind: KindLearningMap, ID: m.ID, From: from, To: string(m.Status)}, nil
	case ActionFork:
		m, err := c.maps.Fork(ctx, id, actor)
		if err != nil {
			return nil, err
		}
		return &TransitionResult{Kind: KindLearningMap, ID: m.ID, From: from, To: string(m.Status)}, nil
	default:
		return nil, errors.Mark(errors.Newf("action %q does not apply to learning maps", action), errors.ErrInvalidRequest)
	}
}
