package users_test

import (
	"testing"
	"time"

	"github.com/jrsteele09/go-news-portal/users"
	"github.com/stretchr/testify/require"
)

func TestRole(t *testing.T) {
	require.Equal(t, users.RoleAnonymous, users.Role(nil))
	require.Equal(t, users.RoleUser, users.Role(&users.User{Username: "alice"}))
	require.Equal(t, users.RoleStaff, users.Role(&users.User{Username: "root", IsStaff: true}))
}

func TestCanEditAuthoredBy(t *testing.T) {
	var anonymous *users.User
	require.False(t, anonymous.CanEditAuthoredBy(1))

	author := &users.User{ID: 7}
	require.True(t, author.CanEditAuthoredBy(7))
	require.False(t, author.CanEditAuthoredBy(8))

	staff := &users.User{ID: 1, IsStaff: true}
	require.True(t, staff.CanEditAuthoredBy(8))
}

func TestWithProfile(t *testing.T) {
	joined := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	current := users.User{ID: 3, Username: "alice", Email: "a@old.test", FirstName: "Al", IsActive: true, DateJoined: users.Timestamp{Time: joined}}

	merged := current.WithProfile(users.User{FirstName: "Alice", LastName: "Liddell", Email: "alice@new.test"})
	require.Equal(t, "Alice Liddell", merged.FullName())
	require.Equal(t, "alice@new.test", merged.Email)
	require.Equal(t, "alice", merged.Username)
	require.Equal(t, joined, merged.DateJoined.Time)
	require.True(t, merged.IsActive)
}

func TestFilter(t *testing.T) {
	list := []users.User{
		{Username: "alice", Email: "alice@example.com", FirstName: "Alice", LastName: "Liddell"},
		{Username: "bob", Email: "bob@example.com", FirstName: "Robert", LastName: "Paulson"},
	}

	require.Len(t, users.Filter(list, ""), 2)
	require.Equal(t, "bob", users.Filter(list, "PAUL")[0].Username)
	require.Equal(t, "alice", users.Filter(list, "ce liddell")[0].Username)
	require.Empty(t, users.Filter(list, "carol"))
}

func TestDisplayName(t *testing.T) {
	require.Equal(t, "alice", users.User{Username: "alice"}.DisplayName())
	require.Equal(t, "Alice", users.User{Username: "alice", FirstName: "Alice"}.DisplayName())
}

func TestTimestampDecoding(t *testing.T) {
	cases := map[string]time.Time{
		`"2024-05-01T10:00:00.123456Z"`: time.Date(2024, 5, 1, 10, 0, 0, 123456000, time.UTC),
		`"2024-05-01T10:00:00"`:         time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC),
		`null`:                          {},
	}
	for raw, want := range cases {
		var ts users.Timestamp
		require.NoError(t, ts.UnmarshalJSON([]byte(raw)), raw)
		require.True(t, want.Equal(ts.Time), raw)
	}

	var ts users.Timestamp
	require.Error(t, ts.UnmarshalJSON([]byte(`"yesterday"`)))
}
