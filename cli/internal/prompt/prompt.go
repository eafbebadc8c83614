// Package prompt answers the installer's yes/no questions.
package prompt

import (
	"context"
	"errors"
	"fmt"

	"github.com/AlecAivazis/survey/v2"
	"github.com/AlecAivazis/survey/v2/terminal"
)

// ErrInterrupted is returned when the operator hits Ctrl+C at a prompt. It
// matches context.Canceled.
var ErrInterrupted = fmt.Errorf("prompt interrupted: %w", context.Canceled)

// Survey asks on the terminal.
type Survey struct {
	Opts []survey.AskOpt
}

// Confirm shows a yes/no question with def preselected.
func (s Survey) Confirm(message string, def bool) (bool, error) {
	answer := def
	q := &survey.Confirm{Message: message, Default: def}
	if err := survey.AskOne(q, &answer, s.Opts...); err != nil {
		if errors.Is(err, terminal.InterruptErr) {
			return false, ErrInterrupted
		}
		return false, err
	}
	return answer, nil
}

// Defaults answers every question with its default. It backs
// --no-interaction.
type Defaults struct {
	// Overrides pins the answer for specific questions.
	Overrides map[string]bool
}

func (d Defaults) Confirm(message string, def bool) (bool, error) {
	if v, ok := d.Overrides[message]; ok {
		return v, nil
	}
	return def, nil
}
