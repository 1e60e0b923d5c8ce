package services

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseID(t *testing.T) {
	id, err := ParseID("42")
	require.NoError(t, err)
	assert.Equal(t, uint(42), id)

	for _, raw := range []string{"", "abc", "-1", "0", "1.5"} {
		_, err := ParseID(raw)
		assert.ErrorIs(t, err, ErrValidation, raw)
	}
}

func TestParseDate(t *testing.T) {
	date, err := ParseDate([]int{2024, 2, 1})
	require.NoError(t, err)
	assert.Equal(t, time.Date(2024, time.February, 1, 0, 0, 0, 0, time.UTC), date)

	leap, err := ParseDate([]int{2024, 2, 29})
	require.NoError(t, err)
	assert.Equal(t, 29, leap.Day())

	invalid := [][]int{
		{2024, 1},
		{2024, 1, 1, 1},
		{2024, 13, 1},
		{2023, 2, 29},
		{2024, 0, 10},
	}
	for _, parts := range invalid {
		_, err := ParseDate(parts)
		assert.ErrorIs(t, err, ErrValidation, "%v", parts)
	}
}

func TestErrorKinds(t *testing.T) {
	err := newError(KindNotFound, "submission not found", nil)

	assert.ErrorIs(t, err, ErrNotFound)
	assert.NotErrorIs(t, err, ErrReference)
	assert.Equal(t, KindNotFound, KindOf(err))
	assert.Equal(t, "submission not found", MessageOf(err))
	assert.Equal(t, KindInternal, KindOf(assert.AnError))
}
