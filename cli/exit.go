package cli

import "fmt"

// Exit codes.
const (
	ExitFailure    = 1 // The backend or a local check refused the action
	ExitRedirected = 2 // The gate did not allow the view
)

// ExitError signals a non-zero exit whose message has already been printed.
type ExitError struct {
	Code int
}

func (e *ExitError) Error() string {
	return fmt.Sprintf("exit code %d", e.Code)
}

// ExitCode returns the process exit code.
func (e *ExitError) ExitCode() int {
	return e.Code
}
