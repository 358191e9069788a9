package errors

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	err := New("test error")
	require.NotNil(t, err)
	assert.Equal(t, "test error", err.Error())
}

func TestWrap(t *testing.T) {
	original := New("original")
	wrapped := Wrap(original, "wrapped")

	assert.Contains(t, wrapped.Error(), "wrapped")
	assert.Contains(t, wrapped.Error(), "original")
	assert.True(t, Is(wrapped, original))
}

func TestMark_PreservesMessageAndIdentity(t *testing.T) {
	err := Mark(Newf("tag %q does not exist", "BT-1.v1"), ErrUnknownTag)

	assert.True(t, Is(err, ErrUnknownTag))
	assert.Contains(t, err.Error(), "BT-1.v1")
	assert.NotContains(t, err.Error(), ErrUnknownTag.Error(), "marking must not alter the message")
}

func TestSentinelHelpers(t *testing.T) {
	cases := []struct {
		sentinel error
		check    func(error) bool
	}{
		{ErrNotFound, IsNotFound},
		{ErrValidationFailed, IsValidationFailed},
		{ErrImmutableRecord, IsImmutableRecord},
		{ErrUnknownTag, IsUnknownTag},
		{ErrTagNotActive, IsTagNotActive},
		{ErrOutOfRange, IsOutOfRange},
		{ErrInvalidTransition, IsInvalidTransition},
		{ErrConflict, IsConflict},
	}
	for _, tc := range cases {
		t.Run(tc.sentinel.Error(), func(t *testing.T) {
			wrapped := Wrap(Mark(New("inner"), tc.sentinel), "outer")
			assert.True(t, tc.check(wrapped))
			assert.False(t, tc.check(New("unrelated")))
			assert.False(t, tc.check(nil))
		})
	}
}

func TestSentinelsAreDistinct(t *testing.T) {
	assert.False(t, Is(ErrNotFound, ErrUnknownTag))
	assert.False(t, Is(ErrConflict, ErrInvalidTransition))
}

func TestWithHint(t *testing.T) {
	err := WithHint(New("record is not editable"), "fork the published version")

	hints := GetAllHints(err)
	require.Len(t, hints, 1)
	assert.Equal(t, "fork the published version", hints[0])
	assert.Contains(t, FlattenHints(err), "fork")
}

func TestStackTrace(t *testing.T) {
	err := New("with stack")

	detailed := fmt.Sprintf("%+v", err)
	assert.Contains(t, detailed, "errors_test.go")
}

func TestNilHandling(t *testing.T) {
	assert.Nil(t, Wrap(nil, "context"))
	assert.Nil(t, Wrapf(nil, "context %d", 1))
	assert.Nil(t, WithStack(nil))
	assert.Nil(t, WithHint(nil, "hint"))
}
