// Package storagetest holds the behaviour every session.Storage must share.
package storagetest

import (
	"testing"

	"github.com/jrsteele09/go-news-portal/session"
	"github.com/jrsteele09/go-news-portal/users"
	"github.com/stretchr/testify/require"
)

// Run exercises storage through the raw interface and through a Store.
func Run(t *testing.T, newStorage func(t *testing.T) session.Storage) {
	t.Helper()

	t.Run("missing key", func(t *testing.T) {
		storage := newStorage(t)
		_, err := storage.Get(session.KeyAccessToken)
		require.ErrorIs(t, err, session.ErrNotFound)
	})

	t.Run("put get delete", func(t *testing.T) {
		storage := newStorage(t)
		require.NoError(t, storage.Put(map[string]string{"a": "1", "b": "2"}))

		value, err := storage.Get("a")
		require.NoError(t, err)
		require.Equal(t, "1", value)

		require.NoError(t, storage.Delete("a", "never-written"))
		_, err = storage.Get("a")
		require.ErrorIs(t, err, session.ErrNotFound)

		value, err = storage.Get("b")
		require.NoError(t, err)
		require.Equal(t, "2", value)
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		storage := newStorage(t)
		require.NoError(t, storage.Delete(session.Keys...))
		require.NoError(t, storage.Delete(session.Keys...))
	})

	t.Run("store round trip", func(t *testing.T) {
		storage := newStorage(t)
		store := session.New(storage)
		identity := users.User{ID: 1, Username: "alice", Email: "alice@example.com", IsActive: true}
		require.NoError(t, store.Login(identity, session.TokenPair{Access: "A", Refresh: "B"}))

		restored := session.New(storage)
		restored.Initialize()
		snapshot := restored.Snapshot()
		require.True(t, snapshot.Authenticated())
		require.Equal(t, "alice", snapshot.Identity.Username)
		require.Equal(t, "A", snapshot.AccessToken)
		require.Equal(t, "B", snapshot.RefreshToken)

		require.NoError(t, restored.Logout())
		for _, key := range session.Keys {
			_, err := storage.Get(key)
			require.ErrorIs(t, err, session.ErrNotFound, key)
		}
	})
}
