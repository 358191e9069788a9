package catalog_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-hq/compass/errors"
	"github.com/strata-hq/compass/internal/fixtures"
	"github.com/strata-hq/compass/taxonomy/catalog"
	"github.com/strata-hq/compass/taxonomy/growthpath"
	"github.com/strata-hq/compass/taxonomy/types"
)

const reviewer = "taxonomy-lead@acme"

func publishedBehavior(t *testing.T, c *catalog.BehaviorCatalog, name string) *types.TagRecord {
	t.Helper()
	draft, err := c.Create(context.Background(), fixtures.BehaviorDraft(name), reviewer)
	require.NoError(t, err)
	published, _, err := c.Publish(context.Background(), draft.ID, reviewer)
	require.NoError(t, err)
	return published
}

func TestCreate_AssignsIdentityAndDraftStatus(t *testing.T) {
	c := catalog.NewBehaviorCatalog()

	record, err := c.Create(context.Background(), fixtures.BehaviorDraft("active listening"), reviewer)
	require.NoError(t, err)

	assert.Equal(t, types.StatusDraft, record.Status)
	assert.Equal(t, 1, record.Version)
	assert.Equal(t, types.FamilyBehavior, record.Family)
	assert.NotEmpty(t, record.LineageID)
	assert.Equal(t, types.VersionID(record.LineageID, 1), record.ID)
	assert.Equal(t, reviewer, record.Audit.CreatedBy)
}

func TestCreate_RequiresCoreFields(t *testing.T) {
	c := catalog.NewBehaviorCatalog()

	for _, breakIt := range []func(*types.TagRecord){
		func(r *types.TagRecord) { r.Name = "" },
		func(r *types.TagRecord) { r.Domain = "" },
		func(r *types.TagRecord) { r.Cluster = "" },
		func(r *types.TagRecord) { r.Definition = "" },
	} {
		draft := fixtures.BehaviorDraft("incomplete")
		breakIt(draft)
		_, err := c.Create(context.Background(), draft, reviewer)
		require.Error(t, err)
		assert.True(t, errors.Is(err, errors.ErrInvalidRequest))
	}
}

func TestCreate_RejectsDuplicateName(t *testing.T) {
	c := catalog.NewBehaviorCatalog()

	_, err := c.Create(context.Background(), fixtures.BehaviorDraft("coaching"), reviewer)
	require.NoError(t, err)

	_, err = c.Create(context.Background(), fixtures.BehaviorDraft("coaching"), reviewer)
	require.Error(t, err)
	assert.True(t, errors.IsConflict(err))
}

func TestEdit_DraftOnly(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	draft, err := c.Create(context.Background(), fixtures.BehaviorDraft("coaching"), reviewer)
	require.NoError(t, err)

	updated, err := c.Edit(context.Background(), draft.ID, func(r *types.TagRecord) {
		r.Definition = "guides a colleague to their own answer"
	}, "editor@acme")
	require.NoError(t, err)
	assert.Equal(t, "guides a colleague to their own answer", updated.Definition)
	assert.Equal(t, "editor@acme", updated.Audit.UpdatedBy)
	assert.Equal(t, reviewer, updated.Audit.CreatedBy, "creation audit survives edits")
}

func TestEdit_PublishedRefusesWithForkHint(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	published := publishedBehavior(t, c, "coaching")

	_, err := c.Edit(context.Background(), published.ID, func(r *types.TagRecord) {
		r.Definition = "sneaky edit"
	}, reviewer)
	require.Error(t, err)
	assert.True(t, errors.IsImmutableRecord(err))
	assert.Contains(t, errors.FlattenHints(err), "fork")

	reloaded, err := c.Get(published.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "sneaky edit", reloaded.Definition)
}

func TestEdit_CannotCorruptIdentity(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	draft, err := c.Create(context.Background(), fixtures.BehaviorDraft("coaching"), reviewer)
	require.NoError(t, err)

	updated, err := c.Edit(context.Background(), draft.ID, func(r *types.TagRecord) {
		r.Version = 99
		r.Status = types.StatusPublished
		r.LineageID = "BT-forged"
	}, reviewer)
	require.NoError(t, err)
	assert.Equal(t, 1, updated.Version)
	assert.Equal(t, types.StatusDraft, updated.Status)
	assert.Equal(t, draft.LineageID, updated.LineageID)
}

// A behavior tag with 14 of 15 levels filled publishes with exactly one
// violation naming the missing index, and stays draft.
func TestPublish_MissingLevelBlocksByIndex(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	draft := fixtures.BehaviorDraft("coaching")
	draft.GrowthPath = draft.GrowthPath[:14] // drop P15

	created, err := c.Create(context.Background(), draft, reviewer)
	require.NoError(t, err)

	_, result, err := c.Publish(context.Background(), created.ID, reviewer)
	require.Error(t, err)
	assert.True(t, errors.IsValidationFailed(err))

	blocking := result.Blocking()
	require.Len(t, blocking, 1, "exactly one violation for the one missing level")
	assert.Equal(t, "P15", blocking[0].Scope)

	reloaded, err := c.Get(created.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusDraft, reloaded.Status, "a blocked publish must not change status")
}

func TestPublish_MissingKeyPointsBlock(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	draft := fixtures.BehaviorDraft("coaching")
	draft.GrowthPath[4].KeyPoints = nil // P5

	created, err := c.Create(context.Background(), draft, reviewer)
	require.NoError(t, err)

	_, result, err := c.Publish(context.Background(), created.ID, reviewer)
	require.Error(t, err)
	blocking := result.Blocking()
	require.Len(t, blocking, 1)
	assert.Equal(t, "P5", blocking[0].Scope)
	assert.Contains(t, blocking[0].Message, "key assessment point")
}

func TestPublish_MissingExamplePairWarnsOnly(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	draft := fixtures.BehaviorDraft("coaching")
	draft.PositionExamples = nil

	created, err := c.Create(context.Background(), draft, reviewer)
	require.NoError(t, err)

	published, result, err := c.Publish(context.Background(), created.ID, reviewer)
	require.NoError(t, err, "a missing example pair is advisory, not blocking")
	assert.Equal(t, types.StatusPublished, published.Status)
	assert.Len(t, result.Warnings(), 1)
}

func TestPublish_MatchesValidateForPublish(t *testing.T) {
	c := catalog.NewBehaviorCatalog()

	complete, err := c.Create(context.Background(), fixtures.BehaviorDraft("complete"), reviewer)
	require.NoError(t, err)
	incompleteDraft := fixtures.BehaviorDraft("incomplete")
	incompleteDraft.GrowthPath = incompleteDraft.GrowthPath[1:]
	incomplete, err := c.Create(context.Background(), incompleteDraft, reviewer)
	require.NoError(t, err)

	for _, record := range []*types.TagRecord{complete, incomplete} {
		eligible := c.ValidateForPublish(record).Eligible()
		_, _, err := c.Publish(context.Background(), record.ID, reviewer)
		assert.Equal(t, eligible, err == nil, "publish must succeed exactly when validation is eligible")
	}
}

func TestFork_NewDraftVersionSharesLineage(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	published := publishedBehavior(t, c, "coaching")

	fork, err := c.Fork(context.Background(), published.ID, "editor@acme")
	require.NoError(t, err)

	assert.Equal(t, published.LineageID, fork.LineageID)
	assert.Equal(t, published.Version+1, fork.Version)
	assert.Equal(t, types.StatusDraft, fork.Status)
	assert.Equal(t, published.Name, fork.Name)
	assert.NotEqual(t, published.ID, fork.ID)

	// the published predecessor is untouched and still referenceable
	reloaded, err := c.Get(published.ID)
	require.NoError(t, err)
	assert.Equal(t, types.StatusPublished, reloaded.Status)
}

func TestFork_RepublishDiffersOnlyInVersion(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	published := publishedBehavior(t, c, "coaching")

	fork, err := c.Fork(context.Background(), published.ID, reviewer)
	require.NoError(t, err)

	republished, _, err := c.Publish(context.Background(), fork.ID, reviewer)
	require.NoError(t, err)

	assert.Equal(t, published.LineageID, republished.LineageID)
	assert.Equal(t, published.Version+1, republished.Version)
	assert.Equal(t, published.Name, republished.Name)
	assert.Equal(t, published.Definition, republished.Definition)
	assert.Equal(t, published.GrowthPath, republished.GrowthPath)
	assert.Equal(t, published.Status, republished.Status)
}

func TestFork_EditsDoNotLeakIntoPublished(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	published := publishedBehavior(t, c, "coaching")

	fork, err := c.Fork(context.Background(), published.ID, reviewer)
	require.NoError(t, err)

	_, err = c.Edit(context.Background(), fork.ID, func(r *types.TagRecord) {
		r.GrowthPath[0].Description = "rewritten for the new version"
	}, reviewer)
	require.NoError(t, err)

	original, err := c.Get(published.ID)
	require.NoError(t, err)
	assert.NotEqual(t, "rewritten for the new version", original.GrowthPath[0].Description,
		"fork must deep-copy content away from the published version")
}

func TestFork_DraftRefusedAndSingleDraftPerLineage(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	draft, err := c.Create(context.Background(), fixtures.BehaviorDraft("coaching"), reviewer)
	require.NoError(t, err)

	_, err = c.Fork(context.Background(), draft.ID, reviewer)
	assert.True(t, errors.IsInvalidTransition(err), "a draft is already editable")

	published, _, err := c.Publish(context.Background(), draft.ID, reviewer)
	require.NoError(t, err)
	_, err = c.Fork(context.Background(), published.ID, reviewer)
	require.NoError(t, err)

	_, err = c.Fork(context.Background(), published.ID, reviewer)
	assert.True(t, errors.IsConflict(err), "one draft per lineage at a time")
}

func TestFork_DisabledResumesFromLastPublished(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	published := publishedBehavior(t, c, "coaching")

	disabled, err := c.Disable(context.Background(), published.ID, reviewer)
	require.NoError(t, err)

	fork, err := c.Fork(context.Background(), disabled.ID, reviewer)
	require.NoError(t, err)
	assert.Equal(t, types.StatusDraft, fork.Status)
	assert.Equal(t, published.Version+1, fork.Version)
	assert.Equal(t, published.Definition, fork.Definition)
}

func TestDisable_PublishedOnly(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	draft, err := c.Create(context.Background(), fixtures.BehaviorDraft("coaching"), reviewer)
	require.NoError(t, err)

	_, err = c.Disable(context.Background(), draft.ID, reviewer)
	assert.True(t, errors.IsInvalidTransition(err))

	published, _, err := c.Publish(context.Background(), draft.ID, reviewer)
	require.NoError(t, err)

	disabled, err := c.Disable(context.Background(), published.ID, reviewer)
	require.NoError(t, err)
	assert.Equal(t, types.StatusDisabled, disabled.Status)

	// still resolvable for history
	_, ok := c.Resolve(published.ID)
	assert.True(t, ok, "disabled tags keep resolving for existing bindings")
}

func TestList_ActiveOnlyExcludesDisabled(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	published := publishedBehavior(t, c, "coaching")
	publishedBehavior(t, c, "active listening")

	_, err := c.Disable(context.Background(), published.ID, reviewer)
	require.NoError(t, err)

	all := c.List(catalog.ListFilter{})
	require.Len(t, all, 2)

	active := c.List(catalog.ListFilter{ActiveOnly: true})
	require.Len(t, active, 1)
	assert.Equal(t, "active listening", active[0].Name)
}

func TestGet_UnknownID(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	_, err := c.Get("BT-missing.v1")
	assert.True(t, errors.IsNotFound(err))
}

func TestLineage_OrderedVersions(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	published := publishedBehavior(t, c, "coaching")
	fork, err := c.Fork(context.Background(), published.ID, reviewer)
	require.NoError(t, err)

	lineage, err := c.Lineage(published.LineageID)
	require.NoError(t, err)
	require.Len(t, lineage, 2)
	assert.Equal(t, published.ID, lineage[0].ID)
	assert.Equal(t, fork.ID, lineage[1].ID)
}

func TestValidateForPublish_UsesAuthoredLadderNotCanonical(t *testing.T) {
	c := catalog.NewBehaviorCatalog()
	draft := fixtures.BehaviorDraft("coaching")
	draft.GrowthPath = fixtures.Ladder(growthpath.Span{Start: 1, End: 10}) // canonical data exists for 11..15

	created, err := c.Create(context.Background(), draft, reviewer)
	require.NoError(t, err)

	result := c.ValidateForPublish(created)
	assert.False(t, result.Eligible(), "canonical fallback is display-only; publish needs authored content")
	assert.Len(t, result.Blocking(), 5)
}
