package cli

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// PasswordReader asks for a secret without echoing it.
type PasswordReader func(prompt string) (string, error)

// terminalPasswordReader prompts on stderr and reads stdin without echo.
// When stdin is not a terminal the first line is read instead, which lets
// scripts pipe a password in.
func terminalPasswordReader(stdin *os.File, stderr io.Writer) PasswordReader {
	lines := bufio.NewReader(stdin)
	return func(prompt string) (string, error) {
		fd := int(stdin.Fd())
		if !term.IsTerminal(fd) {
			line, err := lines.ReadString('\n')
			if err != nil && (err != io.EOF || line == "") {
				return "", fmt.Errorf("reading %s from stdin: %w", strings.ToLower(prompt), err)
			}
			return strings.TrimRight(line, "\r\n"), nil
		}
		fmt.Fprintf(stderr, "%s: ", prompt)
		password, err := term.ReadPassword(fd)
		fmt.Fprintln(stderr)
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", strings.ToLower(prompt), err)
		}
		return string(password), nil
	}
}

// secret returns value when set, otherwise prompts for it.
func (a *App) secret(value, prompt string) (string, error) {
	if value != "" {
		return value, nil
	}
	return a.readPassword(prompt)
}
