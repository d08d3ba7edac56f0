package boltstore_test

import (
	"path/filepath"
	"testing"

	"github.com/jrsteele09/go-news-portal/session"
	"github.com/jrsteele09/go-news-portal/session/boltstore"
	"github.com/jrsteele09/go-news-portal/session/storagetest"
	"github.com/stretchr/testify/require"
)

func TestConformance(t *testing.T) {
	storagetest.Run(t, func(t *testing.T) session.Storage {
		store, err := boltstore.Open(filepath.Join(t.TempDir(), "session.db"))
		require.NoError(t, err)
		t.Cleanup(func() { store.Close() })
		return store
	})
}

func TestReopenKeepsValues(t *testing.T) {
	path := filepath.Join(t.TempDir(), "session.db")

	store, err := boltstore.Open(path)
	require.NoError(t, err)
	require.NoError(t, store.Put(map[string]string{session.KeyRefreshToken: "B"}))
	require.NoError(t, store.Close())

	reopened, err := boltstore.Open(path)
	require.NoError(t, err)
	defer reopened.Close()

	value, err := reopened.Get(session.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "B", value)
}
