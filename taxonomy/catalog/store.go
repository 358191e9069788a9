// Package catalog implements the behavior- and task-tag catalogs: versioned
// lineages of TagRecords with the draft → published → disabled lifecycle and
// per-family publish validation.
//
// The store is the in-memory model itself; persistence belongs to the
// embedding application. All state transitions are single-writer: publish
// re-validates inside the same critical section that flips status, so a
// stale validation can never slip a record through.
package catalog

import (
	"context"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/strata-hq/compass/errors"
	"github.com/strata-hq/compass/logger"
	"github.com/strata-hq/compass/taxonomy/rules"
	"github.com/strata-hq/compass/taxonomy/types"
)

// ListFilter narrows List results. Zero values match everything.
type ListFilter struct {
	Status     types.Status
	Domain     string
	Cluster    string
	Position   string // task tags only
	ActiveOnly bool   // exclude disabled records (authoring pickers)
	LatestOnly bool   // at most one record per lineage (highest version)
}

// store holds the versioned records of one tag family.
type store struct {
	family types.Family
	label  string // "behavior tag" / "task tag", used in errors and logs

	mu        sync.RWMutex
	byID      map[string]*types.TagRecord
	byLineage map[string][]*types.TagRecord // ascending version order
	byName    map[string]string             // name -> lineage id, family-unique

	log *zap.SugaredLogger
	now func() time.Time
}

func newStore(family types.Family, label string) *store {
	return &store{
		family:    family,
		label:     label,
		byID:      make(map[string]*types.TagRecord),
		byLineage: make(map[string][]*types.TagRecord),
		byName:    make(map[string]string),
		log:       logger.With(logger.FieldCatalog, string(family)),
		now:       time.Now,
	}
}

// create validates required fields, assigns identity, and stores a new
// version-1 draft.
func (s *store) create(ctx context.Context, draft *types.TagRecord, actor string) (*types.TagRecord, error) {
	if draft == nil {
		return nil, errors.Mark(errors.New("nil record"), errors.ErrInvalidRequest)
	}
	if err := requireFields(s.label, draft, s.family); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, taken := s.byName[draft.Name]; taken {
		return nil, errors.Mark(
			errors.Newf("%s name %q is already in use", s.label, draft.Name),
			errors.ErrConflict)
	}

	record := draft.Clone()
	record.Family = s.family
	record.LineageID = types.NewLineageID(s.family)
	record.Version = 1
	record.ID = types.VersionID(record.LineageID, record.Version)
	record.Status = types.StatusDraft
	now := s.now()
	record.Audit = types.Audit{CreatedBy: actor, CreatedAt: now, UpdatedBy: actor, UpdatedAt: now}

	s.insertLocked(record)

	s.log.Infow("created "+s.label,
		append(logger.FieldsFromContext(ctx),
			logger.FieldTagID, record.ID,
			logger.FieldTagName, record.Name,
			logger.FieldActor, actor)...)
	return record.Clone(), nil
}

// edit applies mutate to a draft record. Identity, version, family, status,
// and creation audit are restored afterwards so a mutator cannot corrupt
// lineage bookkeeping.
func (s *store) edit(ctx context.Context, id string, mutate func(*types.TagRecord), actor string) (*types.TagRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, s.notFound(id)
	}
	if !record.IsDraft() {
		return nil, errors.WithHint(
			errors.Mark(
				errors.Newf("%s %q %s is %s and cannot be edited", s.label, record.Name, record.VersionLabel(), record.Status),
				errors.ErrImmutableRecord),
			"fork the published version to create an editable draft")
	}

	updated := record.Clone()
	mutate(updated)

	// Protected fields survive any mutator.
	updated.ID = record.ID
	updated.LineageID = record.LineageID
	updated.Version = record.Version
	updated.Family = record.Family
	updated.Status = record.Status
	updated.Audit = record.Audit

	if err := requireFields(s.label, updated, s.family); err != nil {
		return nil, err
	}
	if updated.Name != record.Name {
		if lineage, taken := s.byName[updated.Name]; taken && lineage != record.LineageID {
			return nil, errors.Mark(
				errors.Newf("%s name %q is already in use", s.label, updated.Name),
				errors.ErrConflict)
		}
		delete(s.byName, record.Name)
		s.byName[updated.Name] = updated.LineageID
	}
	updated.Audit.Touch(actor, s.now())

	s.replaceLocked(updated)
	return updated.Clone(), nil
}

// publish runs the family rule set and flips the record to published in one
// critical section.
func (s *store) publish(ctx context.Context, id string, actor string, validate func(*types.TagRecord) rules.Result) (*types.TagRecord, rules.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, rules.Result{}, s.notFound(id)
	}
	if !record.Status.CanTransition(types.StatusPublished) {
		return nil, rules.Result{}, errors.Mark(
			errors.Newf("%s %q %s is %s; only drafts can be published", s.label, record.Name, record.VersionLabel(), record.Status),
			errors.ErrInvalidTransition)
	}

	result := validate(record)
	if !result.Eligible() {
		s.log.Debugw("publish blocked",
			logger.FieldTagID, record.ID,
			logger.FieldTagName, record.Name,
			logger.FieldViolations, len(result.Blocking()))
		return nil, result, rules.NewValidationError(s.label+" "+quoted(record.Name), result)
	}

	updated := record.Clone()
	updated.Status = types.StatusPublished
	updated.Audit.Touch(actor, s.now())
	s.replaceLocked(updated)

	s.log.Infow("published "+s.label,
		append(logger.FieldsFromContext(ctx),
			logger.FieldTagID, updated.ID,
			logger.FieldTagName, updated.Name,
			logger.FieldVersion, updated.VersionLabel(),
			logger.FieldActor, actor)...)
	return updated.Clone(), result, nil
}

// disable retires a published record from authoring pickers. Existing
// bindings stay valid: history keeps resolving the record by id.
func (s *store) disable(ctx context.Context, id string, actor string) (*types.TagRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, s.notFound(id)
	}
	if !record.Status.CanTransition(types.StatusDisabled) {
		return nil, errors.Mark(
			errors.Newf("%s %q %s is %s; only published records can be disabled", s.label, record.Name, record.VersionLabel(), record.Status),
			errors.ErrInvalidTransition)
	}

	updated := record.Clone()
	updated.Status = types.StatusDisabled
	updated.Audit.Touch(actor, s.now())
	s.replaceLocked(updated)

	s.log.Infow("disabled "+s.label,
		append(logger.FieldsFromContext(ctx),
			logger.FieldTagID, updated.ID,
			logger.FieldTagName, updated.Name,
			logger.FieldActor, actor)...)
	return updated.Clone(), nil
}

// fork creates the next editable draft of a lineage. Forking a disabled
// record resumes from its lineage's last published version.
func (s *store) fork(ctx context.Context, id string, actor string) (*types.TagRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, ok := s.byID[id]
	if !ok {
		return nil, s.notFound(id)
	}
	source := record
	if record.IsDraft() {
		return nil, errors.Mark(
			errors.Newf("%s %q %s is already an editable draft", s.label, record.Name, record.VersionLabel()),
			errors.ErrInvalidTransition)
	}
	if record.IsDisabled() {
		published := s.lastPublishedLocked(record.LineageID)
		if published == nil {
			return nil, errors.Mark(
				errors.Newf("%s %q has no published version to fork from", s.label, record.Name),
				errors.ErrInvalidTransition)
		}
		source = published
	}

	lineage := s.byLineage[source.LineageID]
	for _, v := range lineage {
		if v.IsDraft() {
			return nil, errors.Mark(
				errors.Newf("%s %q already has draft %s in progress", s.label, v.Name, v.VersionLabel()),
				errors.ErrConflict)
		}
	}

	next := source.Clone()
	next.Version = lineage[len(lineage)-1].Version + 1
	next.ID = types.VersionID(next.LineageID, next.Version)
	next.Status = types.StatusDraft
	now := s.now()
	next.Audit = types.Audit{CreatedBy: actor, CreatedAt: now, UpdatedBy: actor, UpdatedAt: now}
	s.insertLocked(next)

	s.log.Infow("forked "+s.label,
		append(logger.FieldsFromContext(ctx),
			logger.FieldTagID, next.ID,
			logger.FieldLineageID, next.LineageID,
			logger.FieldVersion, next.VersionLabel(),
			logger.FieldActor, actor)...)
	return next.Clone(), nil
}

// get returns a copy of one version by id.
func (s *store) get(id string) (*types.TagRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byID[id]
	if !ok {
		return nil, s.notFound(id)
	}
	return record.Clone(), nil
}

// resolve is the binding-time lookup: the record plus whether it exists.
func (s *store) resolve(id string) (*types.TagRecord, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	record, ok := s.byID[id]
	if !ok {
		return nil, false
	}
	return record.Clone(), true
}

// lineage returns every version of a lineage in ascending version order.
func (s *store) lineage(lineageID string) ([]*types.TagRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	records, ok := s.byLineage[lineageID]
	if !ok {
		return nil, s.notFound(lineageID)
	}
	out := make([]*types.TagRecord, 0, len(records))
	for _, r := range records {
		out = append(out, r.Clone())
	}
	return out, nil
}

// list returns copies of records matching the filter, sorted by name then
// version for stable picker output.
func (s *store) list(filter ListFilter) []*types.TagRecord {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var out []*types.TagRecord
	for _, lineage := range s.byLineage {
		candidates := lineage
		if filter.LatestOnly {
			candidates = lineage[len(lineage)-1:]
		}
		for _, r := range candidates {
			if filter.Status != "" && r.Status != filter.Status {
				continue
			}
			if filter.ActiveOnly && r.IsDisabled() {
				continue
			}
			if filter.Domain != "" && r.Domain != filter.Domain {
				continue
			}
			if filter.Cluster != "" && r.Cluster != filter.Cluster {
				continue
			}
			if filter.Position != "" && r.Position != filter.Position {
				continue
			}
			out = append(out, r.Clone())
		}
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Name != out[j].Name {
			return out[i].Name < out[j].Name
		}
		return out[i].Version < out[j].Version
	})
	return out
}

func (s *store) insertLocked(record *types.TagRecord) {
	s.byID[record.ID] = record
	s.byLineage[record.LineageID] = append(s.byLineage[record.LineageID], record)
	s.byName[record.Name] = record.LineageID
}

func (s *store) replaceLocked(record *types.TagRecord) {
	s.byID[record.ID] = record
	lineage := s.byLineage[record.LineageID]
	for i, v := range lineage {
		if v.ID == record.ID {
			lineage[i] = record
			return
		}
	}
}

func (s *store) lastPublishedLocked(lineageID string) *types.TagRecord {
	lineage := s.byLineage[lineageID]
	for i := len(lineage) - 1; i >= 0; i-- {
		if lineage[i].IsPublished() {
			return lineage[i]
		}
	}
	return nil
}

func (s *store) notFound(id string) error {
	return errors.Mark(errors.Newf("%s %q does not exist", s.label, id), errors.ErrNotFound)
}

// requireFields enforces creation-time presence checks. Everything deeper is
// publish validation, not creation validation: drafts are allowed to be
// incomplete.
func requireFields(label string, r *types.TagRecord, family types.Family) error {
	missing := func(field string) error {
		return errors.Mark(errors.Newf("%s requires %s", label, field), errors.ErrInvalidRequest)
	}
	if r.Name == "" {
		return missing("a name")
	}
	if r.Domain == "" {
		return missing("a domain")
	}
	if r.Cluster == "" {
		return missing("a cluster")
	}
	if r.Definition == "" {
		return missing("a definition")
	}
	if family == types.FamilyTask && r.Position == "" {
		return missing("a position")
	}
	return nil
}

func quoted(s string) string {
	return `"` + s + `"`
}
