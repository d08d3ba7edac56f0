package session_test

import (
	"testing"
	"time"

	jwtlib "github.com/golang-jwt/jwt/v5"
	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/session"
	fakestorage "github.com/jrsteele09/go-news-portal/session/repofake"
	"github.com/jrsteele09/go-news-portal/users"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

var (
	alice  = users.User{ID: 1, Username: "alice", Email: "alice@example.com", IsActive: true}
	tokens = session.TokenPair{Access: "A", Refresh: "B"}
)

func newStore(t *testing.T) (*session.Store, *fakestorage.FakeStorage) {
	t.Helper()
	storage := fakestorage.NewFakeStorage()
	store := session.New(storage, session.WithLogger(zerolog.Nop()))
	store.Initialize()
	return store, storage
}

func TestInitialize_Empty(t *testing.T) {
	store, _ := newStore(t)

	require.False(t, store.IsAuthenticated())
	require.Nil(t, store.Identity())
	_, ok := store.CurrentAccessToken()
	require.False(t, ok)
}

func TestInitialize_MalformedIsNoSession(t *testing.T) {
	cases := map[string]func(*fakestorage.FakeStorage){
		"bad user json": func(fs *fakestorage.FakeStorage) {
			fs.Set(session.KeyAccessToken, "A")
			fs.Set(session.KeyUser, "{oops")
		},
		"null user": func(fs *fakestorage.FakeStorage) {
			fs.Set(session.KeyAccessToken, "A")
			fs.Set(session.KeyUser, "null")
		},
		"empty user object": func(fs *fakestorage.FakeStorage) {
			fs.Set(session.KeyAccessToken, "A")
			fs.Set(session.KeyUser, "{}")
		},
		"token without user": func(fs *fakestorage.FakeStorage) {
			fs.Set(session.KeyAccessToken, "A")
		},
		"user without token": func(fs *fakestorage.FakeStorage) {
			fs.Set(session.KeyUser, `{"id":1,"username":"alice"}`)
		},
		"read failure": func(fs *fakestorage.FakeStorage) {
			fs.FailGet = true
		},
		"storage panic": func(fs *fakestorage.FakeStorage) {
			fs.PanicGet = true
		},
	}

	for name, seed := range cases {
		t.Run(name, func(t *testing.T) {
			storage := fakestorage.NewFakeStorage()
			seed(storage)
			store := session.New(storage, session.WithLogger(zerolog.Nop()))

			require.NotPanics(t, store.Initialize)
			require.False(t, store.IsAuthenticated())
		})
	}
}

func TestLogin(t *testing.T) {
	store, storage := newStore(t)

	var seen []session.Session
	store.Subscribe(func(s session.Session) { seen = append(seen, s) })

	require.NoError(t, store.Login(alice, tokens))

	require.Len(t, seen, 1, "subscribers run before Login returns")
	require.Equal(t, "alice", seen[0].Identity.Username)

	access, ok := store.CurrentAccessToken()
	require.True(t, ok)
	require.Equal(t, "A", access)
	require.Equal(t, "alice", store.Identity().Username)
	require.False(t, store.Identity().IsStaff)

	persisted, err := storage.Get(session.KeyRefreshToken)
	require.NoError(t, err)
	require.Equal(t, "B", persisted)
}

func TestLogin_RejectsEmptyAccessToken(t *testing.T) {
	store, storage := newStore(t)

	err := store.Login(alice, session.TokenPair{Refresh: "B"})
	require.ErrorIs(t, err, errors.ErrInvalidSession)
	require.False(t, store.IsAuthenticated())
	require.Zero(t, storage.Len())
}

func TestLogin_PersistFailureLeavesMemoryUntouched(t *testing.T) {
	store, storage := newStore(t)
	storage.FailPut = true

	notified := false
	store.Subscribe(func(session.Session) { notified = true })

	require.ErrorIs(t, store.Login(alice, tokens), errors.ErrStorage)
	require.False(t, store.IsAuthenticated())
	require.False(t, notified)
}

func TestLoginThenLogout(t *testing.T) {
	store, storage := newStore(t)
	require.NoError(t, store.Login(alice, tokens))

	require.NoError(t, store.Logout())

	snapshot := store.Snapshot()
	require.Nil(t, snapshot.Identity)
	require.Empty(t, snapshot.AccessToken)
	require.Empty(t, snapshot.RefreshToken)
	require.Zero(t, storage.Len())
}

func TestLogout_Idempotent(t *testing.T) {
	store, storage := newStore(t)
	require.NoError(t, store.Login(alice, tokens))

	notifications := 0
	store.Subscribe(func(session.Session) { notifications++ })

	require.NoError(t, store.Logout())
	once := store.Snapshot()
	require.NoError(t, store.Logout())

	require.Equal(t, once, store.Snapshot())
	require.Zero(t, storage.Len())
	require.Equal(t, 1, notifications)
}

func TestLogout_StorageFailureStillClearsMemory(t *testing.T) {
	store, storage := newStore(t)
	require.NoError(t, store.Login(alice, tokens))
	storage.FailDelete = true

	require.ErrorIs(t, store.Logout(), errors.ErrStorage)
	require.False(t, store.IsAuthenticated())
}

func TestRestart_RoundTrip(t *testing.T) {
	storage := fakestorage.NewFakeStorage()
	first := session.New(storage, session.WithLogger(zerolog.Nop()))
	first.Initialize()
	require.NoError(t, first.Login(alice, tokens))

	second := session.New(storage, session.WithLogger(zerolog.Nop()))
	second.Initialize()

	require.Equal(t, first.Snapshot(), second.Snapshot())
}

func TestUpdateIdentity(t *testing.T) {
	store, storage := newStore(t)
	require.ErrorIs(t, store.UpdateIdentity(alice), errors.ErrNoSession)

	require.NoError(t, store.Login(alice, tokens))
	updated := alice
	updated.FirstName = "Alice"
	require.NoError(t, store.UpdateIdentity(updated))

	require.Equal(t, "Alice", store.Identity().FirstName)
	access, _ := store.CurrentAccessToken()
	require.Equal(t, "A", access)

	restored := session.New(storage, session.WithLogger(zerolog.Nop()))
	restored.Initialize()
	require.Equal(t, "Alice", restored.Identity().FirstName)
}

func TestIdentityIsACopy(t *testing.T) {
	store, _ := newStore(t)
	require.NoError(t, store.Login(alice, tokens))

	identity := store.Identity()
	identity.IsStaff = true

	require.False(t, store.Identity().IsStaff)
}

func TestUnsubscribe(t *testing.T) {
	store, _ := newStore(t)
	calls := 0
	unsubscribe := store.Subscribe(func(session.Session) { calls++ })
	unsubscribe()

	require.NoError(t, store.Login(alice, tokens))
	require.Zero(t, calls)
}

func TestToken(t *testing.T) {
	store, _ := newStore(t)
	_, err := store.Token()
	require.ErrorIs(t, err, errors.ErrNoSession)

	expiry := time.Now().Add(time.Hour).Truncate(time.Second)
	access, err := jwtlib.NewWithClaims(jwtlib.SigningMethodHS256, jwtlib.MapClaims{
		"user_id":    1,
		"token_type": "access",
		"exp":        expiry.Unix(),
	}).SignedString([]byte("test-secret"))
	require.NoError(t, err)

	require.NoError(t, store.Login(alice, session.TokenPair{Access: access, Refresh: "B"}))
	token, err := store.Token()
	require.NoError(t, err)
	require.Equal(t, access, token.AccessToken)
	require.Equal(t, "Bearer", token.Type())
	require.True(t, expiry.Equal(token.Expiry))
}
