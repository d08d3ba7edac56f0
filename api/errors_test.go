package api

import (
	"testing"

	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/stretchr/testify/require"
)

func TestNewAPIError(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		detail   string
		fields   map[string][]string
		message  string
		sentinel error
	}{
		{
			name:     "detail",
			status:   401,
			body:     `{"detail":"Given token not valid for any token type","code":"token_not_valid"}`,
			detail:   "Given token not valid for any token type",
			fields:   map[string][]string{},
			message:  "Given token not valid for any token type",
			sentinel: errors.ErrUnauthorized,
		},
		{
			name:     "error key",
			status:   403,
			body:     `{"error":"Access denied"}`,
			detail:   "Access denied",
			fields:   map[string][]string{},
			message:  "Access denied",
			sentinel: errors.ErrForbidden,
		},
		{
			name:     "field lists and strings",
			status:   400,
			body:     `{"non_field_errors":["Invalid username or password"],"email":"Enter a valid email address."}`,
			fields:   map[string][]string{"non_field_errors": {"Invalid username or password"}, "email": {"Enter a valid email address."}},
			message:  "Invalid username or password",
			sentinel: errors.ErrValidation,
		},
		{
			name:     "plain text",
			status:   502,
			body:     "Bad gateway",
			detail:   "Bad gateway",
			fields:   map[string][]string{},
			message:  "Bad gateway",
			sentinel: errors.ErrInternal,
		},
		{
			name:     "html page",
			status:   500,
			body:     "<html><body>Server Error</body></html>",
			fields:   map[string][]string{},
			message:  "fallback",
			sentinel: errors.ErrInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e := newAPIError(tt.status, []byte(tt.body))
			require.Equal(t, tt.detail, e.Detail)
			require.Equal(t, tt.fields, e.Fields)
			require.Equal(t, tt.message, e.Message("fallback"))
			require.ErrorIs(t, e, tt.sentinel)
			require.NotEmpty(t, e.Error())
		})
	}
}

func TestDecodeList(t *testing.T) {
	type item struct {
		ID int `json:"id"`
	}

	bare, err := decodeList[item]([]byte(`[{"id":1},{"id":2}]`))
	require.NoError(t, err)
	require.Equal(t, []item{{1}, {2}}, bare)

	paged, err := decodeList[item]([]byte(`{"count":1,"next":null,"previous":null,"results":[{"id":3}]}`))
	require.NoError(t, err)
	require.Equal(t, []item{{3}}, paged)

	empty, err := decodeList[item]([]byte(`null`))
	require.NoError(t, err)
	require.Empty(t, empty)

	_, err = decodeList[item]([]byte(`"nope"`))
	require.Error(t, err)
}

func TestItemPath(t *testing.T) {
	require.Equal(t, "news/3/", itemPath("news", 3))
	require.Equal(t, "users/7/change_password/", itemPath("users", 7, "change_password"))
}
