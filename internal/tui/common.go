package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/sadopc/habitr/internal/habit"
)

// viewState represents the currently active view.
type viewState int

const (
	viewToday viewState = iota
	viewHabits
	viewStreaks
)

var viewNames = []string{"Today", "Habits", "Streaks"}

// --- Messages ---

type habitsDataMsg struct {
	habits []habit.Habit
	today  habit.Date
	err    error
}

// habitChangedMsg reports a successful mutation; the app reloads data.
type habitChangedMsg struct {
	text string
}

type statusMsg struct {
	text    string
	isError bool
}

type tickMsg time.Time

type exportDoneMsg struct {
	path string
}

// --- Commands ---

func loadHabits(repo *habit.Repository) tea.Cmd {
	return func() tea.Msg {
		habits, err := repo.List()
		return habitsDataMsg{habits: habits, today: repo.Today(), err: err}
	}
}

func markDone(repo *habit.Repository, name string) tea.Cmd {
	return func() tea.Msg {
		res, err := repo.MarkDone(name)
		if err != nil {
			return statusMsg{text: habit.ErrorMessage(err, name), isError: true}
		}
		return habitChangedMsg{text: res.Message()}
	}
}

// --- Helpers ---

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	if n <= 1 {
		return string(r[:n])
	}
	return string(r[:n-1]) + "…"
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}
