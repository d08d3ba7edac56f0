package fakeapi_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/jrsteele09/go-news-portal/internal/fakeapi"
	"github.com/jrsteele09/go-news-portal/news"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

func start(t *testing.T, opts ...fakeapi.Option) (*fakeapi.Server, string, fakeapi.Fixture) {
	t.Helper()
	repo := fakeapi.NewRepo()
	fixture, err := fakeapi.Seed(repo)
	require.NoError(t, err)
	srv, baseURL := fakeapi.Start(t, repo, append([]fakeapi.Option{fakeapi.WithLogger(zerolog.Nop())}, opts...)...)
	return srv, baseURL, fixture
}

func do(t *testing.T, method, url, token string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	} else {
		reader = bytes.NewReader(nil)
	}
	req, err := http.NewRequest(method, url, reader)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	decoded := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&decoded)
	return resp, decoded
}

func login(t *testing.T, baseURL, username string) string {
	t.Helper()
	resp, body := do(t, http.MethodPost, baseURL+"auth/login/", "", map[string]string{"username": username, "password": fakeapi.SeedPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tokens := body["tokens"].(map[string]any)
	return tokens["access"].(string)
}

func TestLogin(t *testing.T) {
	_, baseURL, fixture := start(t)

	resp, body := do(t, http.MethodPost, baseURL+"auth/login/", "", map[string]string{"username": "alice", "password": fakeapi.SeedPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	user := body["user"].(map[string]any)
	require.Equal(t, float64(fixture.Alice.ID), user["id"])
	tokens := body["tokens"].(map[string]any)
	require.NotEmpty(t, tokens["access"])
	require.NotEmpty(t, tokens["refresh"])

	resp, body = do(t, http.MethodPost, baseURL+"auth/login/", "", map[string]string{"username": "alice", "password": "wrong"})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, []any{"Invalid username or password"}, body["non_field_errors"])
}

func TestNewsVisibility(t *testing.T) {
	_, baseURL, fixture := start(t, fakeapi.WithPagination(false))

	// Anonymous and non-staff readers only see published articles.
	for _, token := range []string{"", login(t, baseURL, "alice")} {
		req, err := http.NewRequest(http.MethodGet, baseURL+"news/", nil)
		require.NoError(t, err)
		if token != "" {
			req.Header.Set("Authorization", "Bearer "+token)
		}
		res, err := http.DefaultClient.Do(req)
		require.NoError(t, err)
		var list []news.Article
		require.NoError(t, json.NewDecoder(res.Body).Decode(&list))
		res.Body.Close()
		require.Len(t, list, 2)
	}

	staff := login(t, baseURL, "admin")
	resp, _ := do(t, http.MethodGet, baseURL+"news/"+itoa(fixture.Draft.ID)+"/", staff, nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, http.MethodGet, baseURL+"news/"+itoa(fixture.Draft.ID)+"/", "", nil)
	require.Equal(t, http.StatusNotFound, resp.StatusCode)
}

func TestModifyPermissions(t *testing.T) {
	_, baseURL, fixture := start(t)
	bob := login(t, baseURL, "bob")

	resp, body := do(t, http.MethodPatch, baseURL+"news/"+itoa(fixture.Published.ID)+"/", bob, map[string]bool{"is_published": false})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.NotEmpty(t, body["detail"])

	resp, body = do(t, http.MethodPatch, baseURL+"news/"+itoa(fixture.BobsPiece.ID)+"/", bob, map[string]bool{"is_published": false})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, false, body["is_published"])

	resp, _ = do(t, http.MethodPost, baseURL+"categories/", bob, map[string]string{"name": "Tech"})
	require.Equal(t, http.StatusForbidden, resp.StatusCode)

	resp, body = do(t, http.MethodGet, baseURL+"dashboard/stats/", bob, nil)
	require.Equal(t, http.StatusForbidden, resp.StatusCode)
	require.Equal(t, "Access denied", body["error"])

	resp, _ = do(t, http.MethodGet, baseURL+"users/", "", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLogout_BlacklistsRefreshToken(t *testing.T) {
	_, baseURL, _ := start(t)

	resp, body := do(t, http.MethodPost, baseURL+"auth/login/", "", map[string]string{"username": "alice", "password": fakeapi.SeedPassword})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	tokens := body["tokens"].(map[string]any)
	access, refresh := tokens["access"].(string), tokens["refresh"].(string)

	resp, _ = do(t, http.MethodPost, baseURL+"auth/logout/", access, map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, body = do(t, http.MethodPost, baseURL+"auth/logout/", access, map[string]string{"refresh": refresh})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, "Invalid token", body["error"])
}

func TestAuthenticate(t *testing.T) {
	srv, baseURL, _ := start(t)

	resp, body := do(t, http.MethodGet, baseURL+"news/", "garbage", nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	require.Equal(t, "token_not_valid", body["code"])

	require.NoError(t, srv.GrantToken("A", "alice"))
	resp, body = do(t, http.MethodGet, baseURL+"users/me/", "A", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "alice", body["username"])

	recorded, ok := srv.LastRequest(http.MethodGet, "/users/me/")
	require.True(t, ok)
	require.Equal(t, "Bearer A", recorded.Authorization)
}

func TestAuthenticate_ExpiredToken(t *testing.T) {
	expired := fakeapi.NewTokenCreator([]byte("secret"), -time.Minute, time.Hour)
	_, baseURL, _ := start(t, fakeapi.WithTokenCreator(expired))
	access := login(t, baseURL, "alice")

	resp, _ := do(t, http.MethodGet, baseURL+"users/me/", access, nil)
	require.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRegister_Validation(t *testing.T) {
	_, baseURL, _ := start(t)

	resp, body := do(t, http.MethodPost, baseURL+"auth/register/", "", map[string]string{
		"username": "alice", "password": "short", "password_confirm": "short",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Contains(t, body, "username")
	require.Contains(t, body, "password")

	resp, body = do(t, http.MethodPost, baseURL+"auth/register/", "", map[string]string{
		"username": "carol", "password": "longenough", "password_confirm": "different",
	})
	require.Equal(t, http.StatusBadRequest, resp.StatusCode)
	require.Equal(t, []any{"Passwords do not match"}, body["non_field_errors"])

	resp, body = do(t, http.MethodPost, baseURL+"auth/register/", "", map[string]string{
		"username": "carol", "email": "carol@example.com", "password": "longenough", "password_confirm": "longenough",
	})
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	require.Equal(t, "carol", body["user"].(map[string]any)["username"])
}

func TestMultipartCreate(t *testing.T) {
	srv, baseURL, fixture := start(t)
	access := login(t, baseURL, "bob")

	form := "--X\r\nContent-Disposition: form-data; name=\"title\"\r\n\r\nHello\r\n" +
		"--X\r\nContent-Disposition: form-data; name=\"content\"\r\n\r\nWorld\r\n" +
		"--X\r\nContent-Disposition: form-data; name=\"category_id\"\r\n\r\n" + itoa(fixture.Sports.ID) + "\r\n" +
		"--X\r\nContent-Disposition: form-data; name=\"image\"; filename=\"pic.png\"\r\nContent-Type: image/png\r\n\r\nPNGDATA\r\n" +
		"--X--\r\n"
	req, err := http.NewRequest(http.MethodPost, baseURL+"news/", strings.NewReader(form))
	require.NoError(t, err)
	req.Header.Set("Content-Type", "multipart/form-data; boundary=X")
	req.Header.Set("Authorization", "Bearer "+access)
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()
	require.Equal(t, http.StatusCreated, resp.StatusCode)

	var created news.Article
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&created))
	require.Equal(t, "Hello", created.Title)
	require.False(t, created.IsPublished)
	require.Contains(t, created.Image, "/media/news/")

	stats := srv.Repo().Stats()
	require.Equal(t, 4, stats.TotalNews)
	require.Equal(t, 2, stats.PublishedNews)
}

func itoa(i int) string { return strconv.Itoa(i) }
