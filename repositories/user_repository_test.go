package repositories

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegisterAndFind(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	user, err := repo.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)
	assert.Equal(t, "alice", user.Username)
	assert.NotEqual(t, "secret123", user.Password, "plaintext must never be stored")
	assert.True(t, VerifyPassword("secret123", user.Password))
	assert.False(t, VerifyPassword("wrong", user.Password))

	found, err := repo.FindByEmail("alice@example.com")
	require.NoError(t, err)
	require.NotNil(t, found)
	assert.Equal(t, user.ID, found.ID)
	assert.Nil(t, found.LastActiveAt)

	byName, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, byName)
	assert.Equal(t, "alice@example.com", byName.Email)

	missing, err := repo.FindByEmail("nobody@example.com")
	require.NoError(t, err)
	assert.Nil(t, missing)
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	_, err = repo.Register("alice2", "alice@example.com", "other456")
	assert.ErrorIs(t, err, ErrDuplicateEmail)

	// Distinct emails always succeed.
	_, err = repo.Register("bob", "bob@example.com", "secret123")
	assert.NoError(t, err)
}

func TestTouchAndClearLastActive(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	_, err := repo.Register("alice", "alice@example.com", "secret123")
	require.NoError(t, err)

	at := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	require.NoError(t, repo.Touch("alice", at))

	user, err := repo.FindByUsername("alice")
	require.NoError(t, err)
	require.NotNil(t, user.LastActiveAt)
	assert.True(t, user.LastActiveAt.Equal(at))

	require.NoError(t, repo.ClearLastActive("alice"))

	user, err = repo.FindByUsername("alice")
	require.NoError(t, err)
	assert.Nil(t, user.LastActiveAt)
}

func TestListOthers(t *testing.T) {
	repo := NewUserRepository(newTestDB(t))

	for _, u := range []struct{ name, email string }{
		{"carol", "carol@example.com"},
		{"alice", "alice@example.com"},
		{"bob", "bob@example.com"},
	} {
		_, err := repo.Register(u.name, u.email, "secret123")
		require.NoError(t, err)
	}
	require.NoError(t, repo.Touch("bob", time.Now().UTC()))

	others, err := repo.ListOthers("alice")
	require.NoError(t, err)
	require.Len(t, others, 2)

	// Alphabetical, caller excluded.
	assert.Equal(t, "bob", others[0].Username)
	assert.Equal(t, "carol", others[1].Username)
	assert.NotNil(t, others[0].LastActiveAt)
	assert.Nil(t, others[1].LastActiveAt)
}
