package cli

import (
	"bytes"
	"errors"
	"testing"

	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"
)

func testTree(guarded *[]string, ran *[]string) *Command {
	var verbose bool
	return &Command{
		Name:   "portal",
		Output: &bytes.Buffer{},
		Guard: func(path string) error {
			*guarded = append(*guarded, path)
			if path == "/dashboard" {
				return &ExitError{Code: ExitRedirected}
			}
			return nil
		},
		Subcommands: []*Command{
			{
				Name: "news",
				Subcommands: []*Command{
					{
						Name:  "edit",
						Route: "/news/edit/{id}",
						Flags: func() *pflag.FlagSet {
							flags := pflag.NewFlagSet("edit", pflag.ContinueOnError)
							flags.BoolVarP(&verbose, "verbose", "v", false, "")
							return flags
						},
						Run: func(args []string) error {
							*ran = append(*ran, "edit "+args[0])
							return nil
						},
					},
				},
			},
			{
				Name:  "dashboard",
				Route: "/dashboard",
				Run: func(args []string) error {
					*ran = append(*ran, "dashboard")
					return nil
				},
			},
			{
				Name: "logout",
				Run: func(args []string) error {
					*ran = append(*ran, "logout")
					return nil
				},
			},
		},
	}
}

func TestExecute_GuardsRoutedCommands(t *testing.T) {
	var guarded, ran []string
	root := testTree(&guarded, &ran)

	require.NoError(t, root.Execute([]string{"news", "edit", "7", "--verbose"}))
	require.NoError(t, root.Execute([]string{"logout"}))

	require.Equal(t, []string{"/news/edit/7"}, guarded, "commands without a route skip the gate")
	require.Equal(t, []string{"edit 7", "logout"}, ran)
}

func TestExecute_DeniedRouteDoesNotRun(t *testing.T) {
	var guarded, ran []string
	root := testTree(&guarded, &ran)

	err := root.Execute([]string{"dashboard"})

	var exitErr *ExitError
	require.True(t, errors.As(err, &exitErr))
	require.Equal(t, ExitRedirected, exitErr.ExitCode())
	require.Empty(t, ran)
}

func TestExecute_RouteNeedsValidID(t *testing.T) {
	var guarded, ran []string
	root := testTree(&guarded, &ran)

	require.ErrorContains(t, root.Execute([]string{"news", "edit"}), "missing ID argument")
	require.ErrorContains(t, root.Execute([]string{"news", "edit", "-3"}), "unknown shorthand flag")
	require.ErrorContains(t, root.Execute([]string{"news", "edit", "0"}), "must be a positive integer")
	require.Empty(t, guarded)
	require.Empty(t, ran)
}

func TestExecute_Suggestions(t *testing.T) {
	var guarded, ran []string
	root := testTree(&guarded, &ran)

	require.ErrorContains(t, root.Execute([]string{"dashbord"}), `did you mean "dashboard"`)
	require.ErrorContains(t, root.Execute([]string{"news", "edit", "1", "--verbos"}), "did you mean --verbose")
}

func TestExecute_Help(t *testing.T) {
	var guarded, ran []string
	root := testTree(&guarded, &ran)
	out := root.Output.(*bytes.Buffer)

	require.NoError(t, root.Execute([]string{"news", "edit", "--help"}))
	require.Contains(t, out.String(), "portal news edit [flags]")
	require.Contains(t, out.String(), "/news/edit/{id}")
	require.Empty(t, ran)
}

func TestLevenshtein(t *testing.T) {
	cases := []struct {
		a, b string
		want int
	}{
		{"", "abc", 3},
		{"news", "news", 0},
		{"nwes", "news", 2},
		{"dashbord", "dashboard", 1},
		{"kitten", "sitting", 3},
	}
	for _, tc := range cases {
		require.Equal(t, tc.want, levenshtein(tc.a, tc.b), "%s/%s", tc.a, tc.b)
	}
}

func TestExpandRoute(t *testing.T) {
	path, err := expandRoute("/news/{id}", []string{"12"})
	require.NoError(t, err)
	require.Equal(t, "/news/12", path)

	path, err = expandRoute("/profile", nil)
	require.NoError(t, err)
	require.Equal(t, "/profile", path)

	_, err = expandRoute("/news/{id}", []string{"x"})
	require.Error(t, err)
}
