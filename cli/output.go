package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"maps"
	"os"
	"slices"
	"strings"
	"text/tabwriter"

	"github.com/jrsteele09/go-news-portal/internal/errors"
	"github.com/jrsteele09/go-news-portal/internal/ui"
	"github.com/jrsteele09/go-news-portal/users"
	"github.com/jrsteele09/go-news-portal/views"
)

// stateful is any view model.
type stateful interface {
	State() views.State
}

// refused prints the page state a failed view call left behind and turns it
// into a non-zero exit.
func (a *App) refused(v stateful, err error) error {
	state := v.State()
	message := state.Error
	if message == "" && len(state.FieldErrors) > 0 {
		message = "Please correct the following fields"
	}
	if message == "" {
		if errors.Is(err, errors.ErrUnmounted) {
			return err
		}
		message = err.Error()
	}
	fmt.Fprintln(a.stderr, a.paint.Paint(ui.Red, message))
	for _, field := range sortedFields(state.FieldErrors) {
		fmt.Fprintf(a.stderr, "  %s: %s\n", field, state.FieldErrors[field])
	}
	a.Logger.Debug().Err(err).Msg("View call refused")
	return &ExitError{Code: ExitFailure}
}

// succeeded prints the view's success message, or fallback when it set none.
func (a *App) succeeded(v stateful, fallback string) {
	message := v.State().Success
	if message == "" {
		message = fallback
	}
	if message != "" {
		fmt.Fprintln(a.stdout, a.paint.Paint(ui.Green, message))
	}
}

func sortedFields(fields map[string]string) []string {
	return slices.Sorted(maps.Keys(fields))
}

// table writes aligned columns.
func (a *App) table(header []string, rows [][]string) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, strings.Join(header, "\t"))
	for _, row := range rows {
		fmt.Fprintln(tw, strings.Join(row, "\t"))
	}
	return tw.Flush()
}

// printJSON writes v as indented JSON.
func (a *App) printJSON(v any) error {
	encoder := json.NewEncoder(a.stdout)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(v); err != nil {
		return fmt.Errorf("encoding output: %w", err)
	}
	return nil
}

// describeUser renders an identity for whoami and profile.
func (a *App) describeUser(u users.User) error {
	tw := tabwriter.NewWriter(a.stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "Username:\t%s\n", u.Username)
	if name := u.FullName(); name != "" {
		fmt.Fprintf(tw, "Name:\t%s\n", name)
	}
	fmt.Fprintf(tw, "Email:\t%s\n", u.Email)
	fmt.Fprintf(tw, "Role:\t%s\n", users.Role(&u))
	if !u.DateJoined.IsZero() {
		fmt.Fprintf(tw, "Joined:\t%s\n", u.DateJoined.Format("2 Jan 2006"))
	}
	return tw.Flush()
}

// readContent resolves a --content-file argument; "-" reads stdin.
func readContent(path string, stdin io.Reader) (string, error) {
	var (
		data []byte
		err  error
	)
	if path == "-" {
		data, err = io.ReadAll(stdin)
	} else {
		data, err = os.ReadFile(path)
	}
	if err != nil {
		return "", fmt.Errorf("reading content: %w", err)
	}
	return string(data), nil
}
