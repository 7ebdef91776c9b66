package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/habit"
)

// todayModel summarizes where every habit's current cycle stands.
type todayModel struct {
	repo   *habit.Repository
	width  int
	height int

	habits []habit.Habit
	today  habit.Date
	cursor int
}

func newTodayModel(repo *habit.Repository) todayModel {
	return todayModel{repo: repo}
}

func (d *todayModel) setSize(w, h int) {
	d.width = w
	d.height = h
}

func (d *todayModel) setData(msg habitsDataMsg) {
	d.habits = msg.habits
	d.today = msg.today
	if d.cursor >= len(d.habits) {
		d.cursor = max(0, len(d.habits)-1)
	}
}

func (d todayModel) update(msg tea.Msg) (todayModel, tea.Cmd) {
	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return d, nil
	}
	switch {
	case key.Matches(km, keys.Up):
		if d.cursor > 0 {
			d.cursor--
		}
	case key.Matches(km, keys.Down):
		if d.cursor < len(d.habits)-1 {
			d.cursor++
		}
	case key.Matches(km, keys.MarkDone):
		if d.cursor < len(d.habits) {
			return d, markDone(d.repo, d.habits[d.cursor].Name)
		}
	}
	return d, nil
}

// counts tallies habits by cycle state.
func (d todayModel) counts() (due, done, lapsed int) {
	for _, h := range d.habits {
		s := habit.StatusOf(h, d.today)
		switch {
		case s.Lapsed:
			lapsed++
		case s.AtRisk || !s.Started:
			due++
		default:
			done++
		}
	}
	return
}

func (d todayModel) view() string {
	if d.width < 20 {
		return "Terminal too small"
	}
	w := d.width - 4
	return lipgloss.JoinVertical(lipgloss.Left, d.renderSummary(w), d.renderList(w))
}

func (d todayModel) renderSummary(w int) string {
	title := titleStyle.Render("Today")
	date := highlightStyle.Render(d.today.String())
	due, done, lapsed := d.counts()
	line := fmt.Sprintf("%s  %s  %s  %s",
		warningStyle.Render(fmt.Sprintf("%d due", due)),
		successStyle.Render(fmt.Sprintf("%d done", done)),
		errorStyle.Render(fmt.Sprintf("%d lapsed", lapsed)),
		mutedStyle.Render(fmt.Sprintf("of %d %s", len(d.habits), plural(len(d.habits), "habit", "habits"))),
	)
	content := lipgloss.JoinVertical(lipgloss.Left, fmt.Sprintf("%s  %s", title, date), line)
	return panelStyle.Width(w).Render(content)
}

func (d todayModel) renderList(w int) string {
	title := titleStyle.Render("Cycles")
	if len(d.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			mutedStyle.Render("No habits yet. Press 2 to go to Habits and create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	for i, h := range d.habits {
		cursor := "  "
		if i == d.cursor {
			cursor = "> "
		}
		indicator, detail := statusText(habit.StatusOf(h, d.today))
		rows = append(rows, fmt.Sprintf("%s%s %-20s %s", cursor, indicator, truncate(h.Name, 20), detail))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  m: mark done"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}

func statusText(s habit.CycleStatus) (indicator, detail string) {
	switch {
	case !s.Started:
		return mutedStyle.Render("○"), mutedStyle.Render("not started")
	case s.Lapsed:
		return errorStyle.Render("✗"), errorStyle.Render("cycle ended, next completion starts a new one")
	case s.AtRisk:
		return warningStyle.Render("●"), warningStyle.Render(fmt.Sprintf("%d to go, %d %s left",
			s.Remaining, s.DaysLeft, plural(s.DaysLeft, "day", "days")))
	default:
		return successStyle.Render("✓"), successStyle.Render(fmt.Sprintf("goal met, %d %s left",
			s.DaysLeft, plural(s.DaysLeft, "day", "days")))
	}
}
