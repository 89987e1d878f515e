// Package prompt asks the user to confirm destructive memuc operations.
package prompt

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/huh"
	"golang.org/x/term"
)

// ErrCanceled is returned when the user cancels a prompt.
var ErrCanceled = errors.New("canceled by user")

// ErrNotInteractive is returned when a confirmation is needed but stdin is
// not a terminal.
var ErrNotInteractive = errors.New("confirmation required but stdin is not a terminal (use --yes)")

// Prompter abstracts user interaction for testability.
type Prompter interface {
	// Confirm prompts for yes/no confirmation.
	Confirm(title, description string) (bool, error)
}

// HuhPrompter implements Prompter using charmbracelet/huh.
type HuhPrompter struct {
	interactive func() bool
}

// New creates a HuhPrompter bound to the process's stdin.
func New() *HuhPrompter {
	return &HuhPrompter{
		interactive: func() bool { return term.IsTerminal(int(os.Stdin.Fd())) },
	}
}

// Confirm prompts for yes/no confirmation. It fails with ErrNotInteractive
// rather than blocking on a closed or redirected stdin.
func (p *HuhPrompter) Confirm(title, description string) (bool, error) {
	if p.interactive != nil && !p.interactive() {
		return false, ErrNotInteractive
	}

	var confirmed bool
	err := huh.NewConfirm().
		Title(title).
		Description(description).
		Affirmative("Yes").
		Negative("No").
		Value(&confirmed).
		Run()
	if err != nil {
		if errors.Is(err, huh.ErrUserAborted) {
			return false, ErrCanceled
		}
		return false, fmt.Errorf("confirm prompt: %w", err)
	}

	return confirmed, nil
}
