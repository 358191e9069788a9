package aliasmap

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/strata-hq/compass/config"
	"github.com/strata-hq/compass/errors"
	"github.com/strata-hq/compass/logger"
	"github.com/strata-hq/compass/taxonomy/types"
)

// TagResolver resolves a tag version id to its record. Both catalogs satisfy
// this; the registry takes them explicitly so no lookup goes through ambient
// state.
type TagResolver interface {
	Resolve(id string) (*types.TagRecord, bool)
}

// pairKey identifies the single-active invariant's unit of serialization.
type pairKey struct {
	position string
	term     string
}

// Registry owns the alias mapping entries for all positions.
//
// Concurrency: one mutex serializes every status transition, which makes
// Approve's check-and-demote atomic per (position, term) pair. Reads take
// the same mutex in read mode; at this registry's scale (thousands of
// vocabulary entries) finer-grained locking has nothing to pay for.
type Registry struct {
	mu    sync.RWMutex
	byID  map[string]*Entry
	byKey map[pairKey][]*Entry

	behaviors TagResolver
	tasks     TagResolver
	policy    config.AliasConfig

	log *zap.SugaredLogger
	now func() time.Time
}

// NewRegistry creates an empty registry resolving targets against the given
// catalogs under the given review policy.
func NewRegistry(behaviors, tasks TagResolver, policy config.AliasConfig) *Registry {
	return &Registry{
		byID:      make(map[string]*Entry),
		byKey:     make(map[pairKey][]*Entry),
		behaviors: behaviors,
		tasks:     tasks,
		policy:    policy,
		log:       logger.With(logger.FieldComponent, "aliasmap"),
		now:       time.Now,
	}
}

// Propose records a new mapping attempt.
//
// Manual and import proposals go active immediately when the pair is free,
// and to conflict status when an active holder exists — never silently
// overwriting it. AI proposals always start pending regardless of the pair's
// state: activation is a human approval, never automatic, so the audit trail
// shows who accepted each machine suggestion.
func (r *Registry) Propose(ctx context.Context, p Proposal, actor string) (*Entry, error) {
	position := strings.TrimSpace(p.Position)
	term := strings.TrimSpace(p.Term)
	if position == "" || term == "" {
		return nil, errors.Mark(errors.New("a mapping requires both a position and a term"), errors.ErrInvalidRequest)
	}
	if !p.Source.IsValid() {
		return nil, errors.Mark(errors.Newf("unknown mapping source %q", p.Source), errors.ErrInvalidRequest)
	}
	if !p.MappedToType.IsValid() {
		return nil, errors.Mark(errors.Newf("unknown mapping target type %q", p.MappedToType), errors.ErrInvalidRequest)
	}
	if p.Priority < 0 || p.Priority > 10 {
		return nil, errors.Mark(errors.Newf("priority must be in 1..10, got %d", p.Priority), errors.ErrInvalidRequest)
	}
	if p.Source == SourceAI {
		if p.Confidence == nil {
			return nil, errors.Mark(errors.New("ai proposals require a confidence value"), errors.ErrInvalidRequest)
		}
		if *p.Confidence < 0 || *p.Confidence > 1 {
			return nil, errors.Mark(errors.Newf("confidence must be in [0,1], got %f", *p.Confidence), errors.ErrInvalidRequest)
		}
	}

	target, err := r.resolveTarget(p.MappedToType, p.MappedToID)
	if err != nil {
		return nil, err
	}

	entry := &Entry{
		ID:           newEntryID(),
		Position:     position,
		Term:         term,
		TermType:     p.TermType,
		MappedToID:   p.MappedToID,
		MappedToType: p.MappedToType,
		Domain:       target.Domain,
		Cluster:      target.Cluster,
		Priority:     p.Priority,
		Source:       p.Source,
		Confidence:   p.Confidence,
	}
	if entry.TermType == "" {
		entry.TermType = TermAlias
	}
	if entry.Priority == 0 {
		entry.Priority = r.policy.DefaultPriority
	}
	now := r.now()
	entry.Audit = types.Audit{CreatedBy: actor, CreatedAt: now, UpdatedBy: actor, UpdatedAt: now}

	key := pairKey{position: position, term: term}

	r.mu.Lock()
	defer r.mu.Unlock()

	holder := r.activeForKeyLocked(key)
	switch {
	case p.Source == SourceAI:
		entry.Status = StatusPending
	case holder != nil:
		entry.Status = StatusConflict
	default:
		entry.Status = StatusActive
	}

	r.byID[entry.ID] = entry
	r.byKey[key] = append(r.byKey[key], entry)

	fields := append(logger.FieldsFromContext(ctx),
		logger.FieldMappingID, entry.ID,
		logger.FieldPosition, position,
		logger.FieldTerm, term,
		logger.FieldTagID, entry.MappedToID,
		logger.FieldStatus, string(entry.Status),
		logger.FieldSource, string(entry.Source),
		logger.FieldActor, actor)
	if entry.Status == StatusConflict {
		r.log.Warnw("mapping conflict recorded for review", append(fields,
			"active_mapping_id", holder.ID)...)
	} else {
		r.log.Infow("mapping proposed", fields...)
	}
	return entry.Clone(), nil
}

// Approve transitions a pending or conflict entry to active. If another
// entry holds the pair, it is demoted to disabled in the same critical
// section — the single-active invariant is enforced here, not assumed.
func (r *Registry) Approve(ctx context.Context, id string, actor string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byID[id]
	if !ok {
		return nil, r.notFound(id)
	}
	if entry.Status != StatusPending && entry.Status != StatusConflict {
		return nil, errors.Mark(
			errors.Newf("mapping %q is %s; only pending or conflict entries can be approved", id, entry.Status),
			errors.ErrInvalidTransition)
	}

	key := pairKey{position: entry.Position, term: entry.Term}
	now := r.now()

	if holder := r.activeForKeyLocked(key); holder != nil {
		holder.Status = StatusDisabled
		holder.Audit.Touch(actor, now)
		r.log.Infow("demoted prior active mapping",
			append(logger.FieldsFromContext(ctx),
				logger.FieldMappingID, holder.ID,
				logger.FieldPosition, entry.Position,
				logger.FieldTerm, entry.Term,
				"superseded_by", entry.ID,
				logger.FieldActor, actor)...)
	}

	entry.Status = StatusActive
	entry.Audit.Touch(actor, now)

	r.log.Infow("mapping approved",
		append(logger.FieldsFromContext(ctx),
			logger.FieldMappingID, entry.ID,
			logger.FieldPosition, entry.Position,
			logger.FieldTerm, entry.Term,
			logger.FieldTagID, entry.MappedToID,
			logger.FieldActor, actor)...)
	return entry.Clone(), nil
}

// Reject transitions a pending or conflict entry to disabled.
func (r *Registry) Reject(ctx context.Context, id string, actor string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byID[id]
	if !ok {
		return nil, r.notFound(id)
	}
	if entry.Status != StatusPending && entry.Status != StatusConflict {
		return nil, errors.Mark(
			errors.Newf("mapping %q is %s; only pending or conflict entries can be rejected", id, entry.Status),
			errors.ErrInvalidTransition)
	}

	entry.Status = StatusDisabled
	entry.Audit.Touch(actor, r.now())

	r.log.Infow("mapping rejected",
		append(logger.FieldsFromContext(ctx),
			logger.FieldMappingID, entry.ID,
			logger.FieldPosition, entry.Position,
			logger.FieldTerm, entry.Term,
			logger.FieldActor, actor)...)
	return entry.Clone(), nil
}

// Disable retires an active mapping, freeing its (position, term) pair.
func (r *Registry) Disable(ctx context.Context, id string, actor string) (*Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	entry, ok := r.byID[id]
	if !ok {
		return nil, r.notFound(id)
	}
	if entry.Status != StatusActive {
		return nil, errors.Mark(
			errors.Newf("mapping %q is %s; only active entries can be disabled", id, entry.Status),
			errors.ErrInvalidTransition)
	}

	entry.Status = StatusDisabled
	entry.Audit.Touch(actor, r.now())

	r.log.Infow("mapping disabled",
		append(logger.FieldsFromContext(ctx),
			logger.FieldMappingID, entry.ID,
			logger.FieldPosition, entry.Position,
			logger.FieldTerm, entry.Term,
			logger.FieldActor, actor)...)
	return entry.Clone(), nil
}

// Resolve returns the active mapping for a (position, term) pair. This is
// the lookup curriculum authors and the courseware generator use to turn
// raw vocabulary into canonical tag ids.
func (r *Registry) Resolve(position, term string) (*Entry, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	holder := r.activeForKeyLocked(pairKey{
		position: strings.TrimSpace(position),
		term:     strings.TrimSpace(term),
	})
	if holder == nil {
		return nil, false
	}
	return holder.Clone(), true
}

// ResolveBatch resolves many terms for one position in a single pass.
// Unmapped terms are absent from the result.
func (r *Registry) ResolveBatch(position string, terms []string) map[string]*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	position = strings.TrimSpace(position)
	out := make(map[string]*Entry)
	for _, term := range terms {
		t := strings.TrimSpace(term)
		if holder := r.activeForKeyLocked(pairKey{position: position, term: t}); holder != nil {
			out[term] = holder.Clone()
		}
	}
	return out
}

// Get returns one entry by id.
func (r *Registry) Get(id string) (*Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entry, ok := r.byID[id]
	if !ok {
		return nil, r.notFound(id)
	}
	return entry.Clone(), nil
}

// EntriesFor returns every entry recorded for a pair, newest last. Reviewers
// use this to see both sides of a conflict.
func (r *Registry) EntriesFor(position, term string) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	entries := r.byKey[pairKey{position: strings.TrimSpace(position), term: strings.TrimSpace(term)}]
	out := make([]*Entry, 0, len(entries))
	for _, e := range entries {
		out = append(out, e.Clone())
	}
	return out
}

// ReviewFilter narrows the review queue.
type ReviewFilter struct {
	Position string
	// AboveThreshold keeps only AI entries whose confidence meets the
	// configured threshold — the batch-approval view. Entries below the
	// threshold stay in the ordinary queue.
	AboveThreshold bool
}

// ReviewQueue returns pending and conflict entries for human review, ordered
// by priority (high first) then age (old first), capped at the configured
// page size. Approval remains per-entry: the queue surfaces candidates, it
// never transitions them.
func (r *Registry) ReviewQueue(filter ReviewFilter) []*Entry {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []*Entry
	for _, entry := range r.byID {
		if entry.Status != StatusPending && entry.Status != StatusConflict {
			continue
		}
		if filter.Position != "" && entry.Position != filter.Position {
			continue
		}
		if filter.AboveThreshold {
			if entry.Source != SourceAI || entry.Confidence == nil || *entry.Confidence < r.policy.ConfidenceThreshold {
				continue
			}
		}
		out = append(out, entry.Clone())
	}

	sort.Slice(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority > out[j].Priority
		}
		return out[i].Audit.CreatedAt.Before(out[j].Audit.CreatedAt)
	})
	if r.policy.ReviewPageSize > 0 && len(out) > r.policy.ReviewPageSize {
		out = out[:r.policy.ReviewPageSize]
	}
	return out
}

// activeForKeyLocked returns the active holder of a pair, or nil.
func (r *Registry) activeForKeyLocked(key pairKey) *Entry {
	for _, entry := range r.byKey[key] {
		if entry.Status == StatusActive {
			return entry
		}
	}
	return nil
}

// resolveTarget checks the mapping target exists and is usable.
func (r *Registry) resolveTarget(targetType TargetType, id string) (*types.TagRecord, error) {
	resolver := r.behaviors
	if targetType == TargetTask {
		resolver = r.tasks
	}
	record, ok := resolver.Resolve(id)
	if !ok {
		return nil, errors.Mark(errors.Newf("%s tag %q does not exist", targetType, id), errors.ErrUnknownTag)
	}
	if record.IsDisabled() {
		return nil, errors.Mark(errors.Newf("%s tag %q is disabled", targetType, id), errors.ErrTagNotActive)
	}
	return record, nil
}

func (r *Registry) notFound(id string) error {
	return errors.Mark(errors.Newf("alias mapping %q does not exist", id), errors.ErrNotFound)
}
