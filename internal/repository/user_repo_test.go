package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tranquility/internal/domain"
	"tranquility/internal/repository"
	"tranquility/internal/testutil"
)

func TestUserRepository(t *testing.T) {
	db := testutil.NewDB(t)
	users := repository.NewUserRepository(db)
	ctx := context.Background()

	u := &domain.User{Email: "  Jane@Example.com ", PasswordHash: "x", Name: "Jane", Role: domain.RoleGuest}
	require.NoError(t, users.Create(ctx, u))
	assert.Equal(t, "jane@example.com", u.Email)

	err := users.Create(ctx, &domain.User{Email: "jane@example.com", PasswordHash: "y", Role: domain.RoleGuest})
	assert.ErrorIs(t, err, repository.ErrDuplicate)

	got, err := users.GetByEmail(ctx, "JANE@example.com")
	require.NoError(t, err)
	assert.Equal(t, u.ID, got.ID)

	testutil.SeedUser(t, db, "staff@example.com", domain.RoleStaff)
	staff, total, err := users.List(ctx, repository.UserFilter{Role: domain.RoleStaff})
	require.NoError(t, err)
	assert.Equal(t, int64(1), total)
	assert.Equal(t, "staff@example.com", staff[0].Email)

	found, _, err := users.List(ctx, repository.UserFilter{Search: "jan"})
	require.NoError(t, err)
	require.Len(t, found, 1)

	require.NoError(t, users.SoftDelete(ctx, u.ID))
	assert.ErrorIs(t, users.SoftDelete(ctx, u.ID), repository.ErrNotFound)

	_, err = users.GetByEmail(ctx, "jane@example.com")
	assert.ErrorIs(t, err, repository.ErrNotFound)

	deleted, err := users.GetByID(ctx, u.ID)
	require.NoError(t, err)
	assert.True(t, deleted.IsDeleted)
}
