package database_test

import (
	"context"
	"solara/database"
	"solara/database/databasetest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestSeedAdminIsIdempotent(t *testing.T) {
	ctx := context.Background()
	accounts := database.NewAccounts(databasetest.Open(t))

	first, created, err := accounts.SeedAdmin(ctx, "Admin@Solara.com", "senha123")
	require.NoError(t, err)
	assert.True(t, created)
	assert.Equal(t, "admin@solara.com", first.Email)
	assert.NoError(t, bcrypt.CompareHashAndPassword([]byte(first.PasswordHash), []byte("senha123")))

	second, created, err := accounts.SeedAdmin(ctx, "admin@solara.com", "other")
	require.NoError(t, err)
	assert.False(t, created)
	assert.Equal(t, first.ID, second.ID)
	assert.Equal(t, first.PasswordHash, second.PasswordHash)
}

func TestSeedAdminRequiresCredentials(t *testing.T) {
	accounts := database.NewAccounts(databasetest.Open(t))

	_, _, err := accounts.SeedAdmin(context.Background(), "", "")
	assert.Error(t, err)
}

func TestFindByEmailMissing(t *testing.T) {
	accounts := database.NewAccounts(databasetest.Open(t))

	_, err := accounts.FindByEmail(context.Background(), "nobody@solara.com")
	assert.ErrorIs(t, err, database.ErrNotFound)
}
