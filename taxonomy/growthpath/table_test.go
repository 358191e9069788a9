package growthpath_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/strata-hq/compass/errors"
	"github.com/strata-hq/compass/taxonomy/growthpath"
)

func TestCanonical_Integrity(t *testing.T) {
	table, err := growthpath.Canonical()
	require.NoError(t, err, "embedded ladder must parse")

	levels, err := table.LevelsFor(growthpath.FullSpan())
	require.NoError(t, err)
	require.Len(t, levels, 15)

	for i, level := range levels {
		assert.Equal(t, i+1, level.Index, "indices must be contiguous from P1")
		assert.NotEmpty(t, level.Description)
		assert.NotEmpty(t, level.KeyPoints, "every canonical level carries key points")
	}
}

func TestLevelsFor_SubRange(t *testing.T) {
	levels, err := growthpath.LevelsFor(growthpath.Span{Start: 3, End: 7})
	require.NoError(t, err)
	require.Len(t, levels, 5)
	assert.Equal(t, 3, levels[0].Index)
	assert.Equal(t, 7, levels[4].Index)
}

func TestLevelsFor_OutOfRange(t *testing.T) {
	cases := []struct {
		name string
		span growthpath.Span
	}{
		{"below minimum", growthpath.Span{Start: 0, End: 5}},
		{"above maximum", growthpath.Span{Start: 1, End: 16}},
		{"inverted", growthpath.Span{Start: 9, End: 4}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := growthpath.LevelsFor(tc.span)
			require.Error(t, err)
			assert.True(t, errors.IsOutOfRange(err), "expected ErrOutOfRange, got %v", err)
		})
	}
}

func TestLevelsFor_ReturnsCopies(t *testing.T) {
	first, err := growthpath.LevelsFor(growthpath.Span{Start: 1, End: 1})
	require.NoError(t, err)
	first[0].Description = "mutated"
	first[0].KeyPoints[0] = "mutated"

	second, err := growthpath.LevelsFor(growthpath.Span{Start: 1, End: 1})
	require.NoError(t, err)
	assert.NotEqual(t, "mutated", second[0].Description, "callers must not be able to corrupt the canonical table")
	assert.NotEqual(t, "mutated", second[0].KeyPoints[0])
}

func TestMerge_AuthoredWins(t *testing.T) {
	authored := []growthpath.Level{
		{Index: 2, Description: "authored P2", KeyPoints: []string{"authored point"}},
	}

	merged, err := growthpath.Merge(authored, growthpath.Span{Start: 1, End: 3})
	require.NoError(t, err)
	require.Len(t, merged, 3)

	canonical, err := growthpath.LevelsFor(growthpath.Span{Start: 1, End: 3})
	require.NoError(t, err)

	assert.Equal(t, canonical[0].Description, merged[0].Description, "P1 falls back to canonical")
	assert.Equal(t, "authored P2", merged[1].Description, "authored content always wins")
	assert.Equal(t, canonical[2].Description, merged[2].Description)
}

func TestMerge_EmptyAuthoredDescriptionFallsBack(t *testing.T) {
	authored := []growthpath.Level{{Index: 1, Description: ""}}

	merged, err := growthpath.Merge(authored, growthpath.Span{Start: 1, End: 1})
	require.NoError(t, err)
	assert.NotEmpty(t, merged[0].Description, "empty authored description is not content")
}

func TestSpan(t *testing.T) {
	span := growthpath.Span{Start: 4, End: 9}
	require.NoError(t, span.Validate())
	assert.Equal(t, 6, span.Width())
	assert.True(t, span.Contains(4))
	assert.True(t, span.Contains(9))
	assert.False(t, span.Contains(3))
	assert.False(t, span.Contains(10))
}

func TestFormatIndex(t *testing.T) {
	assert.Equal(t, "P1", growthpath.FormatIndex(1))
	assert.Equal(t, "P15", growthpath.FormatIndex(15))
}
