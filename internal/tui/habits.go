package tui

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/habit"
)

type formKind string

const (
	formAdd    formKind = "add"
	formEdit   formKind = "edit"
	formRemove formKind = "remove"
)

type habitsModel struct {
	repo   *habit.Repository
	width  int
	height int

	habits []habit.Habit
	today  habit.Date
	cursor int

	formActive bool
	form       *huh.Form
	formType   formKind

	// Form field pointers (survive value copies)
	formName      *string
	formFrequency *string
	formGoal      *string
	formConfirm   *bool

	editingName string // habit being edited or removed
}

func newHabitsModel(repo *habit.Repository) habitsModel {
	name, freq, goal, confirm := "", "", "", false
	return habitsModel{
		repo:          repo,
		formName:      &name,
		formFrequency: &freq,
		formGoal:      &goal,
		formConfirm:   &confirm,
	}
}

func (p *habitsModel) setSize(w, h int) {
	p.width = w
	p.height = h
}

func (p *habitsModel) setData(msg habitsDataMsg) {
	p.habits = msg.habits
	p.today = msg.today
	if p.cursor >= len(p.habits) {
		p.cursor = max(0, len(p.habits)-1)
	}
}

func (p habitsModel) selected() (habit.Habit, bool) {
	if p.cursor < len(p.habits) {
		return p.habits[p.cursor], true
	}
	return habit.Habit{}, false
}

func (p habitsModel) update(msg tea.Msg) (habitsModel, tea.Cmd) {
	if p.formActive && p.form != nil {
		return p.updateForm(msg)
	}

	km, ok := msg.(tea.KeyMsg)
	if !ok {
		return p, nil
	}
	switch {
	case key.Matches(km, keys.Up):
		if p.cursor > 0 {
			p.cursor--
		}
	case key.Matches(km, keys.Down):
		if p.cursor < len(p.habits)-1 {
			p.cursor++
		}
	case key.Matches(km, keys.MarkDone):
		if h, ok := p.selected(); ok {
			return p, markDone(p.repo, h.Name)
		}
	case key.Matches(km, keys.New):
		return p.showAddForm()
	case key.Matches(km, keys.Edit):
		if h, ok := p.selected(); ok {
			return p.showEditForm(h)
		}
	case key.Matches(km, keys.Delete):
		if h, ok := p.selected(); ok {
			return p.showRemoveForm(h)
		}
	}
	return p, nil
}

func validatePositive(field string) func(string) error {
	return func(s string) error {
		n, err := strconv.Atoi(strings.TrimSpace(s))
		if err != nil || n < 1 {
			return fmt.Errorf("%s must be a whole number >= 1", field)
		}
		return nil
	}
}

func validateName(s string) error {
	if habit.NormalizeName(s) == "" {
		return fmt.Errorf("name cannot be empty")
	}
	return nil
}

func (p habitsModel) habitFields() *huh.Group {
	return huh.NewGroup(
		huh.NewInput().Title("Habit Name").Value(p.formName).Validate(validateName),
		huh.NewInput().Title("Frequency (days)").Value(p.formFrequency).Validate(validatePositive("frequency")),
		huh.NewInput().Title("Goal (times per cycle)").Value(p.formGoal).Validate(validatePositive("goal")),
	)
}

func (p habitsModel) showAddForm() (habitsModel, tea.Cmd) {
	*p.formName = ""
	*p.formFrequency = "1"
	*p.formGoal = "1"
	p.formType = formAdd

	p.form = huh.NewForm(p.habitFields()).WithShowHelp(true).WithShowErrors(true)
	p.formActive = true
	return p, p.form.Init()
}

func (p habitsModel) showEditForm(h habit.Habit) (habitsModel, tea.Cmd) {
	*p.formName = h.Name
	*p.formFrequency = strconv.Itoa(h.Frequency)
	*p.formGoal = strconv.Itoa(h.Goal)
	p.formType = formEdit
	p.editingName = h.Name

	p.form = huh.NewForm(p.habitFields()).WithShowHelp(true).WithShowErrors(true)
	p.formActive = true
	return p, p.form.Init()
}

func (p habitsModel) showRemoveForm(h habit.Habit) (habitsModel, tea.Cmd) {
	*p.formConfirm = false
	p.formType = formRemove
	p.editingName = h.Name

	p.form = huh.NewForm(
		huh.NewGroup(
			huh.NewConfirm().
				Title(fmt.Sprintf("Remove habit '%s'?", h.Name)).
				Description("Streak and progress are deleted with it.").
				Affirmative("Remove").
				Negative("Keep").
				Value(p.formConfirm),
		),
	).WithShowHelp(true)
	p.formActive = true
	return p, p.form.Init()
}

func (p habitsModel) updateForm(msg tea.Msg) (habitsModel, tea.Cmd) {
	// Check for escape to cancel form
	if msg, ok := msg.(tea.KeyMsg); ok {
		if msg.String() == "esc" {
			p.formActive = false
			p.form = nil
			return p, nil
		}
	}

	form, cmd := p.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		p.form = f
	}

	if p.form.State == huh.StateCompleted {
		p.formActive = false
		return p, p.submit()
	}

	return p, cmd
}

// submit turns the completed form into a repository call.
func (p habitsModel) submit() tea.Cmd {
	repo := p.repo
	kind := p.formType
	target := p.editingName
	name := *p.formName
	freq, _ := strconv.Atoi(strings.TrimSpace(*p.formFrequency))
	goal, _ := strconv.Atoi(strings.TrimSpace(*p.formGoal))
	confirmed := *p.formConfirm

	return func() tea.Msg {
		switch kind {
		case formAdd:
			h, err := repo.Add(name, freq, goal)
			if err != nil {
				return statusMsg{text: habit.ErrorMessage(err, name), isError: true}
			}
			return habitChangedMsg{text: fmt.Sprintf("Habit '%s' added", h.Name)}
		case formEdit:
			h, err := repo.Edit(target, habit.Edit{Name: &name, Frequency: &freq, Goal: &goal})
			if err != nil {
				return statusMsg{text: habit.ErrorMessage(err, name), isError: true}
			}
			return habitChangedMsg{text: fmt.Sprintf("Habit '%s' saved", h.Name)}
		case formRemove:
			if !confirmed {
				return statusMsg{text: "Nothing removed"}
			}
			if _, err := repo.Remove(target); err != nil {
				return statusMsg{text: habit.ErrorMessage(err, target), isError: true}
			}
			return habitChangedMsg{text: fmt.Sprintf("Habit '%s' removed", target)}
		}
		return nil
	}
}

func (p habitsModel) view() string {
	if p.formActive && p.form != nil {
		var title string
		switch p.formType {
		case formEdit:
			title = titleStyle.Render("Edit Habit")
		case formRemove:
			title = titleStyle.Render("Remove Habit")
		default:
			title = titleStyle.Render("New Habit")
		}
		formView := p.form.View()
		content := lipgloss.JoinVertical(lipgloss.Left, title, "", formView)
		return panelStyle.Width(p.width - 4).Render(content)
	}
	return p.renderList()
}

func (p habitsModel) renderList() string {
	w := p.width - 4
	title := titleStyle.Render("Habits")

	if len(p.habits) == 0 {
		content := lipgloss.JoinVertical(lipgloss.Left,
			title,
			"",
			mutedStyle.Render("No habits yet. Press n to create one."),
		)
		return panelStyle.Width(w).Render(content)
	}

	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")

	// Table header
	header := mutedStyle.Render(fmt.Sprintf("  %-20s %-8s %-9s %-7s %-12s", "Name", "Every", "Progress", "Streak", "Last done"))
	rows = append(rows, header)

	for i, h := range p.habits {
		cursor := "  "
		style := normalItemStyle
		if i == p.cursor {
			cursor = "> "
			style = selectedItemStyle
		}
		row := style.Render(fmt.Sprintf("%s%-20s %-8s %-9s %-7d %-12s",
			cursor,
			truncate(h.Name, 20),
			fmt.Sprintf("%dd", h.Frequency),
			fmt.Sprintf("%d/%d", h.Progress, h.Goal),
			h.Streak,
			h.LastDoneString(),
		))
		rows = append(rows, row)
	}

	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  m: mark done  n: new  e: edit  d: remove"))

	return panelStyle.Width(w).Render(strings.Join(rows, "\n"))
}
