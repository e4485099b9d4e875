package vault

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/ternarybob/nimbus/internal/common"
)

func openTestFileStore(t *testing.T) SecretStore {
	t.Helper()

	store, closeFn, err := NewFileStore(filepath.Join(t.TempDir(), "vault"), common.GetLogger())
	require.NoError(t, err)
	t.Cleanup(func() { closeFn() })

	return store
}

func TestFileStoreRoundTrip(t *testing.T) {
	store := openTestFileStore(t)

	require.NoError(t, store.Set("profile:prod", `{"base_url":"https://x"}`))

	value, err := store.Get("profile:prod")
	require.NoError(t, err)
	assert.Equal(t, `{"base_url":"https://x"}`, value)
}

func TestFileStoreGetMissing(t *testing.T) {
	store := openTestFileStore(t)

	_, err := store.Get("profile:missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStoreOverwrite(t *testing.T) {
	store := openTestFileStore(t)

	require.NoError(t, store.Set("login:prod", "first"))
	require.NoError(t, store.Set("login:prod", "second"))

	value, err := store.Get("login:prod")
	require.NoError(t, err)
	assert.Equal(t, "second", value)
}

func TestFileStoreDelete(t *testing.T) {
	store := openTestFileStore(t)

	require.NoError(t, store.Set("apptoken:prod", "tok"))
	require.NoError(t, store.Delete("apptoken:prod"))

	_, err := store.Get("apptoken:prod")
	assert.ErrorIs(t, err, ErrNotFound)

	assert.ErrorIs(t, store.Delete("apptoken:prod"), ErrNotFound)
}
