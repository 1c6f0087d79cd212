package store_test

import (
	"os"
	"path/filepath"
	"testing"

	"productkart/internal/models"
	"productkart/internal/store"
	"productkart/pkg/localstore"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSession() *models.Session {
	return &models.Session{
		ID:      "user-1",
		Name:    "Jane",
		Email:   "jane@example.com",
		IsAdmin: false,
		Token:   "token-abc",
	}
}

func TestSession_HydratesAbsentAsLoggedOut(t *testing.T) {
	session := store.NewSession(newTestStorage(t))
	assert.Nil(t, session.Current())
	assert.Empty(t, session.Token())
}

func TestSession_SetPersistsAcrossRestart(t *testing.T) {
	storage := newTestStorage(t)

	session := store.NewSession(storage)
	require.NoError(t, session.Set(testSession()))

	rehydrated := store.NewSession(storage)
	current := rehydrated.Current()
	require.NotNil(t, current)
	assert.Equal(t, "Jane", current.Name)
	assert.Equal(t, "token-abc", rehydrated.Token())
}

func TestSession_ClearRemovesMemoryAndDisk(t *testing.T) {
	storage := newTestStorage(t)

	session := store.NewSession(storage)
	require.NoError(t, session.Set(testSession()))
	require.NoError(t, session.Clear())

	assert.Nil(t, session.Current())

	rehydrated := store.NewSession(storage)
	assert.Nil(t, rehydrated.Current(), "startup after logout hydrates a null session")
}

func TestSession_CorruptStorageYieldsLoggedOut(t *testing.T) {
	dir := t.TempDir()
	storage, err := localstore.New(dir)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "userInfo.json"), []byte("{not json"), 0o644))

	session := store.NewSession(storage)
	assert.Nil(t, session.Current())
}

func TestSession_StoredSessionWithoutTokenIsIgnored(t *testing.T) {
	storage := newTestStorage(t)

	// A session is all-or-nothing; profile fields without a token must
	// not hydrate.
	require.NoError(t, storage.Save("userInfo", &models.Session{Name: "Jane"}))

	session := store.NewSession(storage)
	assert.Nil(t, session.Current())
}

func TestSession_CurrentReturnsCopy(t *testing.T) {
	session := store.NewSession(newTestStorage(t))
	require.NoError(t, session.Set(testSession()))

	got := session.Current()
	got.Name = "mutated"

	assert.Equal(t, "Jane", session.Current().Name)
}
