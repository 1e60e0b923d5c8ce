package services

import (
	"context"
	"testing"

	"arena-api/testutils"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUserService(t *testing.T) {
	store, _ := testutils.NewTestStore(t)
	service := NewUserService(store)
	ctx := context.Background()

	user, err := service.Create(ctx, CreateUserInput{Username: "ada", Email: "ada@arena.test", Judge: true})
	require.NoError(t, err)
	assert.True(t, user.CanCreateCompetitions())

	got, err := service.Get(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "ada", got.Username)

	_, err = service.Create(ctx, CreateUserInput{Username: "other", Email: "ada@arena.test"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Create(ctx, CreateUserInput{Username: "bad", Email: "not-an-email"})
	assert.ErrorIs(t, err, ErrValidation)

	_, err = service.Get(ctx, 999)
	assert.ErrorIs(t, err, ErrNotFound)
}
