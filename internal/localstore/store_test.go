package localstore

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := Open(filepath.Join(t.TempDir(), "toolfinder.db"))
	require.NoError(t, err)
	return store
}

func TestStore_GetMissingKey(t *testing.T) {
	store := openTestStore(t)

	value, found, err := store.Get("absent")
	require.NoError(t, err)
	assert.False(t, found)
	assert.Empty(t, value)
}

func TestStore_PutGetRoundTrip(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("selection:s1", `[{"id":"t1"}]`))

	value, found, err := store.Get("selection:s1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `[{"id":"t1"}]`, value)
}

func TestStore_PutOverwrites(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("prefs:s1", `{"view_mode":"grid"}`))
	require.NoError(t, store.Put("prefs:s1", `{"view_mode":"list"}`))

	value, found, err := store.Get("prefs:s1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"view_mode":"list"}`, value)
}

func TestStore_Delete(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("selection:s1", "[]"))
	require.NoError(t, store.Delete("selection:s1"))

	_, found, err := store.Get("selection:s1")
	require.NoError(t, err)
	assert.False(t, found)

	// Deleting an absent key is not an error
	require.NoError(t, store.Delete("selection:s1"))
}

func TestStore_KeysAreIndependent(t *testing.T) {
	store := openTestStore(t)

	require.NoError(t, store.Put("selection:s1", "one"))
	require.NoError(t, store.Put("selection:s2", "two"))
	require.NoError(t, store.Delete("selection:s1"))

	value, found, err := store.Get("selection:s2")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, "two", value)
}

func TestStore_SurvivesReopen(t *testing.T) {
	path := filepath.Join(t.TempDir(), "toolfinder.db")

	store, err := Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put("prefs:s1", `{"author_name":"pat"}`))

	reopened, err := Open(path)
	require.NoError(t, err)

	value, found, err := reopened.Get("prefs:s1")
	require.NoError(t, err)
	assert.True(t, found)
	assert.Equal(t, `{"author_name":"pat"}`, value)
}
