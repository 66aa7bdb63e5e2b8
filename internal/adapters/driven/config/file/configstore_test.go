package file

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigStore_CreatesEmptyStore(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "config.toml"), store.Path())

	_, ok := store.Get("anything")
	assert.False(t, ok)
}

func TestConfigStore_SetGet(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("owner", "default"))
	assert.Equal(t, "default", store.GetString("owner"))

	require.NoError(t, store.Set("query.top_k", 7))
	assert.Equal(t, 7, store.GetInt("query.top_k"))

	require.NoError(t, store.Set("query.abstain_score", 0.25))
	assert.Equal(t, 0.25, store.GetFloat("query.abstain_score"))

	require.NoError(t, store.Set("verbose", true))
	assert.True(t, store.GetBool("verbose"))
}

func TestConfigStore_TypedGettersZeroOnMismatch(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("key", "a string"))
	assert.Equal(t, 0, store.GetInt("key"))
	assert.Equal(t, 0.0, store.GetFloat("key"))
	assert.False(t, store.GetBool("key"))

	assert.Equal(t, "", store.GetString("missing"))
	assert.Equal(t, 0, store.GetInt("missing"))
}

func TestConfigStore_GetFloat_AcceptsIntegers(t *testing.T) {
	store, err := NewConfigStore(t.TempDir())
	require.NoError(t, err)

	require.NoError(t, store.Set("threshold", 2))

	assert.Equal(t, 2.0, store.GetFloat("threshold"))
}

func TestConfigStore_PersistsAcrossReopen(t *testing.T) {
	dir := t.TempDir()

	store, err := NewConfigStore(dir)
	require.NoError(t, err)
	require.NoError(t, store.Set("query.top_k", 9))
	require.NoError(t, store.Set("owner", "alice"))

	reopened, err := NewConfigStore(dir)
	require.NoError(t, err)
	assert.Equal(t, 9, reopened.GetInt("query.top_k"))
	assert.Equal(t, "alice", reopened.GetString("owner"))
}

func TestConfigStore_FlattensNestedTables(t *testing.T) {
	dir := t.TempDir()
	content := "[query]\ntop_k = 3\nabstain_score = 0.18\n\n[index]\nmax_vocabulary = 1000\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.toml"), []byte(content), 0600))

	store, err := NewConfigStore(dir)
	require.NoError(t, err)

	assert.Equal(t, 3, store.GetInt("query.top_k"))
	assert.Equal(t, 0.18, store.GetFloat("query.abstain_score"))
	assert.Equal(t, 1000, store.GetInt("index.max_vocabulary"))
}
