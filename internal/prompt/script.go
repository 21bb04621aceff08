package prompt

import (
	"fmt"
	"strings"
)

// Script is a deterministic Interaction fed from a fixed answer list. Each
// Confirm, Choose, ReadSecret and Pause consumes one answer in order; an
// empty answer takes the question's default. Output is captured for
// inspection.
type Script struct {
	answers []string
	next    int
	Output  strings.Builder
}

var _ Interaction = (*Script)(nil)

// NewScript builds a Script over the given answers.
func NewScript(answers ...string) *Script {
	return &Script{answers: answers}
}

func (s *Script) take() (string, error) {
	if s.next >= len(s.answers) {
		return "", fmt.Errorf("script exhausted after %d answers", len(s.answers))
	}
	answer := s.answers[s.next]
	s.next++
	return answer, nil
}

func (s *Script) Confirm(question string, defaultYes bool) (bool, error) {
	fmt.Fprintf(&s.Output, "confirm: %s\n", question)
	answer, err := s.take()
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
	return false, fmt.Errorf("script: invalid confirm answer %q", answer)
}

func (s *Script) Choose(question string, options []string, defaultIndex int) (string, error) {
	fmt.Fprintf(&s.Output, "choose: %s\n", question)
	answer, err := s.take()
	if err != nil {
		return "", err
	}
	if answer == "" {
		return options[defaultIndex], nil
	}
	for _, option := range options {
		if option == answer {
			return option, nil
		}
	}
	return "", fmt.Errorf("script: answer %q not in options %v", answer, options)
}

func (s *Script) ReadSecret(label string) (string, error) {
	fmt.Fprintf(&s.Output, "secret: %s\n", label)
	return s.take()
}

func (s *Script) Pause(message string) error {
	fmt.Fprintf(&s.Output, "pause: %s\n", message)
	_, err := s.take()
	return err
}

func (s *Script) Printf(format string, args ...any) {
	fmt.Fprintf(&s.Output, format, args...)
}

// Remaining reports how many scripted answers are unconsumed.
func (s *Script) Remaining() int { return len(s.answers) - s.next }
