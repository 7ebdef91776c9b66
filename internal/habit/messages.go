package habit

import (
	"errors"
	"fmt"
	"strings"
)

// Message renders a mark-done result for the user.
func (r Result) Message() string {
	h := r.Habit
	switch r.Outcome {
	case OutcomeStarted:
		return fmt.Sprintf("Habit '%s' started: %d/%d", h.Name, h.Progress, h.Goal)
	case OutcomeProgress:
		return fmt.Sprintf("Progress updated: %d/%d", h.Progress, h.Goal)
	case OutcomeGoalReached:
		return fmt.Sprintf("Habit %s goal reached for this cycle!", h.Name)
	case OutcomeAlreadyCompleted:
		return fmt.Sprintf("Habit %s already completed this cycle", h.Name)
	case OutcomeNewCycle:
		return fmt.Sprintf("New cycle started for %s: %d/%d (streak %d)", h.Name, h.Progress, h.Goal, h.Streak)
	}
	return r.Outcome.String()
}

// ErrorMessage renders an operation error for the user. name is the habit
// the user asked for.
func ErrorMessage(err error, name string) string {
	name = NormalizeName(name)
	switch {
	case errors.Is(err, ErrNotFound):
		return fmt.Sprintf("Habit '%s' not found. :(", name)
	case errors.Is(err, ErrAlreadyExists):
		return fmt.Sprintf("A habit with the name %s already exists.", name)
	case errors.Is(err, ErrInvalidInput):
		msg := err.Error()
		if i := strings.LastIndex(msg, ErrInvalidInput.Error()+": "); i >= 0 {
			msg = msg[i+len(ErrInvalidInput.Error())+2:]
		}
		return capitalize(msg) + "."
	case errors.Is(err, ErrInvalidState):
		return fmt.Sprintf("Habit '%s' has corrupt settings and was not updated: %v", name, err)
	}
	return fmt.Sprintf("Error: %v", err)
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
