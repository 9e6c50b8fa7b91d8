package user

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yungbote/lunatwin-backend/internal/data/repos/testutil"
	types "github.com/yungbote/lunatwin-backend/internal/domain"
)

func TestUserRepo(t *testing.T) {
	db := testutil.DB(t)
	tx := testutil.Tx(t, db)

	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, tx, []*types.User{
		{
			Email:     "userrepo@example.com",
			Password:  "pw",
			FirstName: "A",
			LastName:  "B",
		},
	})
	require.NoError(t, err)
	require.Len(t, created, 1)
	require.NotEqual(t, uuid.Nil, created[0].ID)

	gotByIDs, err := repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	require.NoError(t, err)
	require.Len(t, gotByIDs, 1)
	assert.Equal(t, created[0].ID, gotByIDs[0].ID)

	gotByEmails, err := repo.GetByEmails(ctx, tx, []string{created[0].Email})
	require.NoError(t, err)
	require.Len(t, gotByEmails, 1)
	assert.Equal(t, created[0].Email, gotByEmails[0].Email)

	exists, err := repo.EmailExists(ctx, tx, created[0].Email)
	require.NoError(t, err)
	assert.True(t, exists)

	exists, err = repo.EmailExists(ctx, tx, "does-not-exist@example.com")
	require.NoError(t, err)
	assert.False(t, exists)

	require.NoError(t, repo.UpdateName(ctx, tx, created[0].ID, "Luna", "Bloom"))
	gotByIDs, err = repo.GetByIDs(ctx, tx, []uuid.UUID{created[0].ID})
	require.NoError(t, err)
	require.Len(t, gotByIDs, 1)
	assert.Equal(t, "Luna", gotByIDs[0].FirstName)
	assert.Equal(t, "Bloom", gotByIDs[0].LastName)
}

func TestUserRepoEmptyInputs(t *testing.T) {
	db := testutil.DB(t)
	repo := NewUserRepo(db, testutil.Logger(t))
	ctx := context.Background()

	created, err := repo.Create(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, created)

	byIDs, err := repo.GetByIDs(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, byIDs)

	byEmails, err := repo.GetByEmails(ctx, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, byEmails)
}
