package repositories

import (
	"context"
	"errors"
	"testing"

	"prd-workspace/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryUserRepository(t *testing.T) {
	ctx := context.Background()
	repo := NewMemoryUserRepository()

	user := &models.User{Username: "alice", Email: "alice@example.com", Password: "hash", Role: models.RoleEditor}
	require.NoError(t, repo.Create(ctx, user))
	assert.NotZero(t, user.ID)

	byEmail, err := repo.GetByEmail(ctx, "ALICE@example.com")
	require.NoError(t, err)
	assert.Equal(t, user.ID, byEmail.ID)

	byID, err := repo.GetByID(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "alice", byID.Username)

	err = repo.Create(ctx, &models.User{Username: "alice2", Email: "alice@example.com"})
	var verr models.ErrorValidation
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, models.AlreadyExists, verr.Reason)

	_, err = repo.GetByID(ctx, 999)
	var nf models.ErrorNotFound
	assert.True(t, errors.As(err, &nf))
}
