package cli_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"
	"testing"

	"github.com/jrsteele09/go-news-portal/cli"
	"github.com/jrsteele09/go-news-portal/internal/config"
	"github.com/jrsteele09/go-news-portal/internal/fakeapi"
	"github.com/jrsteele09/go-news-portal/news"
	"github.com/jrsteele09/go-news-portal/session"
	fakestorage "github.com/jrsteele09/go-news-portal/session/repofake"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

type harness struct {
	t         *testing.T
	app       *cli.App
	backend   *fakeapi.Server
	fixture   fakeapi.Fixture
	storage   *fakestorage.FakeStorage
	cfg       config.Config
	stdout    *bytes.Buffer
	stderr    *bytes.Buffer
	passwords []string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	repo := fakeapi.NewRepo()
	fixture, err := fakeapi.Seed(repo)
	require.NoError(t, err)
	backend, baseURL := fakeapi.Start(t, repo, fakeapi.WithLogger(zerolog.Nop()))

	var file config.FileConfig
	file.API.BaseURL = baseURL
	h := &harness{
		t:       t,
		backend: backend,
		fixture: fixture,
		storage: fakestorage.NewFakeStorage(),
		cfg:     config.FromFile(file),
		stdout:  &bytes.Buffer{},
		stderr:  &bytes.Buffer{},
	}
	h.app = h.newApp()
	return h
}

// newApp starts a fresh process over the same storage.
func (h *harness) newApp() *cli.App {
	h.t.Helper()
	app, err := cli.NewApp(h.cfg,
		cli.WithStorage(h.storage),
		cli.WithOutput(h.stdout, h.stderr),
		cli.WithLogger(zerolog.Nop()),
		cli.WithColour(false),
		cli.WithPasswordReader(func(prompt string) (string, error) {
			if len(h.passwords) == 0 {
				return "", fmt.Errorf("unexpected prompt %q", prompt)
			}
			next := h.passwords[0]
			h.passwords = h.passwords[1:]
			return next, nil
		}),
	)
	require.NoError(h.t, err)
	h.t.Cleanup(func() { app.Close() })
	return app
}

func (h *harness) run(args ...string) int {
	h.stdout.Reset()
	h.stderr.Reset()
	return h.app.Run(context.Background(), args)
}

func (h *harness) login(username string) {
	h.t.Helper()
	require.Equal(h.t, 0, h.run("login", username, "--password", fakeapi.SeedPassword), h.stderr.String())
}

func TestLoginWhoamiLogout(t *testing.T) {
	h := newHarness(t)

	h.login("alice")
	require.Contains(t, h.stdout.String(), "Logged in as Alice Liddell (user)")

	require.Equal(t, 0, h.run("whoami"))
	require.Contains(t, h.stdout.String(), "alice@example.com")
	require.Contains(t, h.stdout.String(), "Access token expires in")

	require.Equal(t, 0, h.run("logout"))
	require.Contains(t, h.stdout.String(), "Logged out")
	require.Zero(t, h.storage.Len())

	require.Equal(t, cli.ExitFailure, h.run("whoami"))
	require.Contains(t, h.stdout.String(), "Not logged in")
}

func TestLogin_PromptsForPassword(t *testing.T) {
	h := newHarness(t)
	h.passwords = []string{fakeapi.SeedPassword}

	require.Equal(t, 0, h.run("login", "-u", "bob"), h.stderr.String())
	require.True(t, h.app.Store.IsAuthenticated())
	require.Empty(t, h.passwords)
}

func TestLogin_WrongPassword(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, cli.ExitFailure, h.run("login", "alice", "-p", "nope"))
	require.Contains(t, h.stderr.String(), "Invalid username or password")
	require.False(t, h.app.Store.IsAuthenticated())
}

func TestLogin_WhenLoggedInRedirectsHome(t *testing.T) {
	h := newHarness(t)
	h.login("alice")

	require.Equal(t, cli.ExitRedirected, h.run("login", "bob", "-p", fakeapi.SeedPassword))
	require.Contains(t, h.stderr.String(), "/login: already logged in, redirected to /")
	require.Equal(t, "alice", h.app.Store.Identity().Username)
}

func TestSessionSurvivesRestart(t *testing.T) {
	h := newHarness(t)
	h.login("alice")

	h.app = h.newApp()
	require.Equal(t, 0, h.run("whoami"))
	require.Contains(t, h.stdout.String(), "alice")
}

func TestNewsCreate_WithoutSessionRedirectsToLogin(t *testing.T) {
	h := newHarness(t)

	code := h.run("news", "create", "--title", "T", "--content", "C", "--category", "Politics")

	require.Equal(t, cli.ExitRedirected, code)
	require.Contains(t, h.stderr.String(), "redirected to /login")
	_, sent := h.backend.LastRequest(http.MethodPost, fakeapi.RouteNews)
	require.False(t, sent, "a denied view must not reach the backend")
}

func TestDashboard_NonStaffRedirectsHome(t *testing.T) {
	h := newHarness(t)
	h.login("alice")

	require.Equal(t, cli.ExitRedirected, h.run("dashboard"))
	require.Contains(t, h.stderr.String(), "staff only")
	_, sent := h.backend.LastRequest(http.MethodGet, fakeapi.RouteDashboardStats)
	require.False(t, sent)
}

func TestDashboard_Staff(t *testing.T) {
	h := newHarness(t)
	h.login("admin")

	require.Equal(t, 0, h.run("dashboard"), h.stderr.String())
	out := h.stdout.String()
	require.Contains(t, out, "Drafts:")
	require.Contains(t, out, h.fixture.Draft.Title)

	require.Equal(t, 0, h.run("dashboard", "toggle", strconv.Itoa(h.fixture.Draft.ID)), h.stderr.String())
	stored, err := h.backend.Repo().Article(h.fixture.Draft.ID)
	require.NoError(t, err)
	require.True(t, stored.IsPublished)
}

func TestNewsCreate_CarriesCurrentToken(t *testing.T) {
	h := newHarness(t)
	h.login("alice")
	access, ok := h.app.Store.CurrentAccessToken()
	require.True(t, ok)

	code := h.run("news", "create", "--title", "Budget passed", "--content", "Details", "--category", "politics")

	require.Equal(t, 0, code, h.stderr.String())
	require.Contains(t, h.stdout.String(), "News saved")
	req, sent := h.backend.LastRequest(http.MethodPost, fakeapi.RouteNews)
	require.True(t, sent)
	require.Equal(t, "Bearer "+access, req.Authorization)
}

func TestNewsCreate_MissingFields(t *testing.T) {
	h := newHarness(t)
	h.login("alice")

	require.Equal(t, cli.ExitFailure, h.run("news", "create", "--title", "Only a title"))
	require.Contains(t, h.stderr.String(), "content: This field is required.")
	require.Contains(t, h.stderr.String(), "category_id: This field is required.")
}

func TestNewsList_Anonymous(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("news", "list"), h.stderr.String())
	require.Contains(t, h.stdout.String(), h.fixture.Published.Title)
	require.NotContains(t, h.stdout.String(), h.fixture.Draft.Title)

	require.Equal(t, 0, h.run("news", "list", "--category", "sports", "--json"))
	var listed []news.Article
	require.NoError(t, json.Unmarshal(h.stdout.Bytes(), &listed))
	require.Len(t, listed, 1)
	require.Equal(t, h.fixture.BobsPiece.ID, listed[0].ID)
}

func TestNewsShow(t *testing.T) {
	h := newHarness(t)
	id := strconv.Itoa(h.fixture.Published.ID)

	require.Equal(t, 0, h.run("news", "show", id))
	require.NotContains(t, h.stdout.String(), "portal news edit")

	h.login("alice")
	require.Equal(t, 0, h.run("news", "show", id))
	require.Contains(t, h.stdout.String(), h.fixture.Published.Content)
	require.Contains(t, h.stdout.String(), "portal news edit "+id)
}

func TestNewsEdit_KeepsUnchangedFields(t *testing.T) {
	h := newHarness(t)
	h.login("alice")

	require.Equal(t, 0, h.run("news", "edit", strconv.Itoa(h.fixture.Published.ID), "--title", "Retitled"), h.stderr.String())

	stored, err := h.backend.Repo().Article(h.fixture.Published.ID)
	require.NoError(t, err)
	require.Equal(t, "Retitled", stored.Title)
	require.Equal(t, h.fixture.Published.Content, stored.Content)
	require.Equal(t, h.fixture.Politics.ID, stored.Category.ID)
}

func TestNewsEdit_OthersArticleIsForbidden(t *testing.T) {
	h := newHarness(t)
	h.login("bob")

	require.Equal(t, cli.ExitFailure, h.run("news", "edit", strconv.Itoa(h.fixture.Published.ID), "--title", "Mine now"))
	require.Contains(t, h.stderr.String(), "You do not have permission to perform this action.")
	require.True(t, h.app.Store.IsAuthenticated(), "a 403 keeps the session")
}

func TestNewsDelete(t *testing.T) {
	h := newHarness(t)
	h.login("bob")

	require.Equal(t, cli.ExitFailure, h.run("news", "delete", strconv.Itoa(h.fixture.Published.ID)))
	require.Contains(t, h.stderr.String(), "Only staff or the author")

	require.Equal(t, 0, h.run("news", "delete", strconv.Itoa(h.fixture.BobsPiece.ID)), h.stderr.String())
	require.Contains(t, h.stdout.String(), "News deleted")
	_, err := h.backend.Repo().Article(h.fixture.BobsPiece.ID)
	require.Error(t, err)
}

func TestNewsPublish(t *testing.T) {
	h := newHarness(t)
	h.login("admin")
	id := strconv.Itoa(h.fixture.Draft.ID)

	require.Equal(t, 0, h.run("news", "publish", id), h.stderr.String())
	stored, err := h.backend.Repo().Article(h.fixture.Draft.ID)
	require.NoError(t, err)
	require.True(t, stored.IsPublished)

	require.Equal(t, 0, h.run("news", "publish", id, "--draft"), h.stderr.String())
	require.Contains(t, h.stdout.String(), "draft")
}

func TestCategories(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("categories", "list"))
	require.Contains(t, h.stdout.String(), "Politics")

	require.Equal(t, cli.ExitRedirected, h.run("categories", "create", "--name", "Tech"))

	h.login("admin")
	require.Equal(t, 0, h.run("categories", "create", "--name", "Tech", "-d", "Gadgets"), h.stderr.String())
	require.Contains(t, h.stdout.String(), "Category added")

	require.Equal(t, cli.ExitFailure, h.run("categories", "create", "--name", "Tech"))
	require.Contains(t, h.stderr.String(), "name: category with this name already exists.")

	id := strconv.Itoa(h.fixture.Sports.ID)
	require.Equal(t, 0, h.run("categories", "update", id, "--name", "Athletics"), h.stderr.String())
	updated, err := h.backend.Repo().Category(h.fixture.Sports.ID)
	require.NoError(t, err)
	require.Equal(t, "Athletics", updated.Name)
	require.Equal(t, h.fixture.Sports.Description, updated.Description)

	require.Equal(t, 0, h.run("categories", "delete", id), h.stderr.String())
	require.Contains(t, h.stdout.String(), "Category deleted")
}

func TestUsers(t *testing.T) {
	h := newHarness(t)
	h.login("admin")

	require.Equal(t, 0, h.run("users", "list", "--search", "liddell"))
	require.Contains(t, h.stdout.String(), "alice")
	require.NotContains(t, h.stdout.String(), "bob@example.com")

	bob := strconv.Itoa(h.fixture.Bob.ID)
	require.Equal(t, 0, h.run("users", "staff", bob), h.stderr.String())
	stored, err := h.backend.Repo().User(h.fixture.Bob.ID)
	require.NoError(t, err)
	require.True(t, stored.IsStaff)

	require.Equal(t, 0, h.run("users", "delete", bob), h.stderr.String())
	_, err = h.backend.Repo().User(h.fixture.Bob.ID)
	require.Error(t, err)

	require.Equal(t, cli.ExitFailure, h.run("users", "active", "999"))
	require.Contains(t, h.stderr.String(), "999")
}

func TestProfile(t *testing.T) {
	h := newHarness(t)
	require.Equal(t, cli.ExitRedirected, h.run("profile"))

	h.login("alice")
	require.Equal(t, 0, h.run("profile", "update", "--first-name", "Al"), h.stderr.String())
	require.Contains(t, h.stdout.String(), "Profile updated")
	require.Equal(t, "Al", h.app.Store.Identity().FirstName)
	require.Equal(t, "Liddell", h.app.Store.Identity().LastName)

	h.passwords = []string{fakeapi.SeedPassword, "newpassword1", "newpassword2"}
	require.Equal(t, cli.ExitFailure, h.run("profile", "password"))
	require.Contains(t, h.stderr.String(), "New passwords do not match")

	h.passwords = []string{fakeapi.SeedPassword, "newpassword1", "newpassword1"}
	require.Equal(t, 0, h.run("profile", "password"), h.stderr.String())
	require.True(t, h.backend.Repo().CheckPassword(h.fixture.Alice.ID, "newpassword1"))
}

func TestRejectedTokenEndsSession(t *testing.T) {
	h := newHarness(t)
	require.NoError(t, h.app.Store.Login(h.fixture.Alice, session.TokenPair{Access: "garbage", Refresh: "B"}))

	require.Equal(t, cli.ExitFailure, h.run("profile", "update", "--first-name", "X"))
	require.Contains(t, h.stderr.String(), "Your session has expired, please log in again")
	require.False(t, h.app.Store.IsAuthenticated())
	require.Zero(t, h.storage.Len())
}

func TestRegister(t *testing.T) {
	h := newHarness(t)
	h.passwords = []string{"longenough1", "longenough1"}

	code := h.run("register", "-u", "carol", "--email", "carol@example.com", "--first-name", "Carol")

	require.Equal(t, 0, code, h.stderr.String())
	require.Contains(t, h.stdout.String(), "Welcome, Carol")
	require.Equal(t, "carol", h.app.Store.Identity().Username)
}

func TestUsageErrors(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, cli.ExitFailure, h.run("nwes", "list"))
	require.Contains(t, h.stderr.String(), `did you mean "news"`)

	require.Equal(t, cli.ExitFailure, h.run("news", "show"))
	require.Contains(t, h.stderr.String(), "missing ID argument")

	require.Equal(t, cli.ExitFailure, h.run("news", "show", "abc"))
	require.Contains(t, h.stderr.String(), "must be a positive integer")

	require.Equal(t, cli.ExitFailure, h.run("news", "list", "--serch", "x"))
	require.Contains(t, h.stderr.String(), "did you mean --search")
}

func TestVersion(t *testing.T) {
	h := newHarness(t)

	require.Equal(t, 0, h.run("version"))
	require.Contains(t, h.stdout.String(), "portal dev")
	require.Contains(t, h.stdout.String(), h.app.API.BaseURL())
}
