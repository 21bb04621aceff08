// Package prompt abstracts operator interaction so the triage and executor
// state machines can run against a real terminal or a scripted double.
package prompt

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"golang.org/x/term"
)

// Interaction is the operator-facing surface used by the workflow and the
// action executor.
type Interaction interface {
	// Confirm asks a yes/no question. An empty answer takes the default.
	Confirm(question string, defaultYes bool) (bool, error)
	// Choose asks a numbered multiple-choice question and returns the
	// selected option. An empty answer takes the default index.
	Choose(question string, options []string, defaultIndex int) (string, error)
	// ReadSecret reads one line without echoing it.
	ReadSecret(label string) (string, error)
	// Pause blocks until the operator presses enter.
	Pause(message string) error
	// Printf writes informational output to the operator.
	Printf(format string, args ...any)
}

// Terminal is the stdin/stdout implementation of Interaction.
type Terminal struct {
	in  *bufio.Reader
	out io.Writer
}

var _ Interaction = (*Terminal)(nil)

// NewTerminal builds a Terminal over stdin/stdout.
func NewTerminal() *Terminal {
	return &Terminal{in: bufio.NewReader(os.Stdin), out: os.Stdout}
}

func (t *Terminal) readLine() (string, error) {
	line, err := t.in.ReadString('\n')
	if err != nil && line == "" {
		return "", err
	}
	return strings.TrimSpace(line), nil
}

// Confirm implements the y/n loop with a capitalized default marker.
func (t *Terminal) Confirm(question string, defaultYes bool) (bool, error) {
	suffix := " [y/N]: "
	if defaultYes {
		suffix = " [Y/n]: "
	}
	for {
		fmt.Fprint(t.out, question+suffix)
		answer, err := t.readLine()
		if err != nil {
			return false, err
		}
		switch strings.ToLower(answer) {
		case "":
			return defaultYes, nil
		case "y", "yes":
			return true, nil
		case "n", "no":
			return false, nil
		}
		fmt.Fprintln(t.out, "Please answer y or n.")
	}
}

// Choose prints numbered options and loops until a valid selection.
func (t *Terminal) Choose(question string, options []string, defaultIndex int) (string, error) {
	if len(options) == 0 {
		return "", fmt.Errorf("choose: options must not be empty")
	}
	if defaultIndex < 0 || defaultIndex >= len(options) {
		defaultIndex = 0
	}
	for i, option := range options {
		marker := ""
		if i == defaultIndex {
			marker = " (default)"
		}
		fmt.Fprintf(t.out, "%d. %s%s\n", i+1, option, marker)
	}
	for {
		fmt.Fprintf(t.out, "%s [1-%d]: ", question, len(options))
		answer, err := t.readLine()
		if err != nil {
			return "", err
		}
		if answer == "" {
			return options[defaultIndex], nil
		}
		if selected, err := strconv.Atoi(answer); err == nil && selected >= 1 && selected <= len(options) {
			return options[selected-1], nil
		}
		fmt.Fprintln(t.out, "Invalid selection.")
	}
}

// ReadSecret reads without echo when stdin is a terminal, falling back to a
// plain line read when it is not (piped input).
func (t *Terminal) ReadSecret(label string) (string, error) {
	fmt.Fprint(t.out, label)
	fd := int(os.Stdin.Fd())
	if term.IsTerminal(fd) {
		raw, err := term.ReadPassword(fd)
		fmt.Fprintln(t.out)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return strings.TrimSpace(string(raw)), nil
	}
	return t.readLine()
}

// Pause blocks until enter is pressed.
func (t *Terminal) Pause(message string) error {
	fmt.Fprint(t.out, message)
	_, err := t.readLine()
	return err
}

// Printf writes to the operator.
func (t *Terminal) Printf(format string, args ...any) {
	fmt.Fprintf(t.out, format, args...)
}
