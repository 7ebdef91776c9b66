package tui

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/export"
	"github.com/sadopc/habitr/internal/habit"
)

// App is the root Bubble Tea model.
type App struct {
	repo   *habit.Repository
	width  int
	height int

	activeView    viewState
	showHelp      bool
	exportPicking bool
	exportCursor  int
	exportDir     string

	today   todayModel
	habits  habitsModel
	streaks streaksModel

	help   help.Model
	status string
	isErr  bool
}

func NewApp(repo *habit.Repository) App {
	h := help.New()
	h.ShowAll = false

	home, _ := os.UserHomeDir()
	return App{
		repo:       repo,
		activeView: viewToday,
		exportDir:  home,
		today:      newTodayModel(repo),
		habits:     newHabitsModel(repo),
		streaks:    newStreaksModel(),
		help:       h,
	}
}

func (a App) Init() tea.Cmd {
	return tea.Batch(
		loadHabits(a.repo),
		tickCmd(),
	)
}

// tickCmd reloads once a minute so cycle status follows the date.
func tickCmd() tea.Cmd {
	return tea.Tick(time.Minute, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.help.Width = msg.Width
		contentHeight := a.height - 4 // header + footer
		a.today.setSize(a.width, contentHeight)
		a.habits.setSize(a.width, contentHeight)
		a.streaks.setSize(a.width, contentHeight)
		return a, nil

	case tea.KeyMsg:
		// Export picker
		if a.exportPicking {
			return a.updateExportPicker(msg)
		}

		// If a child view is capturing input (e.g. form), delegate first.
		if a.isFormActive() {
			return a.updateActiveView(msg)
		}

		switch {
		case key.Matches(msg, keys.Export):
			a.exportPicking = true
			a.exportCursor = 0
			return a, nil
		case key.Matches(msg, keys.Quit):
			return a, tea.Quit
		case key.Matches(msg, keys.Help):
			a.showHelp = !a.showHelp
			a.help.ShowAll = a.showHelp
			return a, nil
		case key.Matches(msg, keys.Tab1):
			a.activeView = viewToday
			return a, loadHabits(a.repo)
		case key.Matches(msg, keys.Tab2):
			a.activeView = viewHabits
			return a, loadHabits(a.repo)
		case key.Matches(msg, keys.Tab3):
			a.activeView = viewStreaks
			return a, loadHabits(a.repo)
		case key.Matches(msg, keys.Tab):
			a.activeView = (a.activeView + 1) % viewState(len(viewNames))
			return a, loadHabits(a.repo)
		}

	case tickMsg:
		return a, tea.Batch(tickCmd(), loadHabits(a.repo))

	case habitsDataMsg:
		if msg.err != nil {
			a.status, a.isErr = fmt.Sprintf("Load error: %v", msg.err), true
			return a, nil
		}
		a.today.setData(msg)
		a.habits.setData(msg)
		a.streaks.setData(msg)
		return a, nil

	case habitChangedMsg:
		a.status, a.isErr = msg.text, false
		return a, loadHabits(a.repo)

	case statusMsg:
		a.status, a.isErr = msg.text, msg.isError
		return a, nil

	case exportDoneMsg:
		a.status, a.isErr = "Exported to "+msg.path, false
		a.exportPicking = false
		return a, nil
	}

	return a.updateActiveView(msg)
}

func (a App) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch a.activeView {
	case viewToday:
		a.today, cmd = a.today.update(msg)
	case viewHabits:
		a.habits, cmd = a.habits.update(msg)
	}
	return a, cmd
}

func (a App) isFormActive() bool {
	return a.activeView == viewHabits && a.habits.formActive
}

func (a App) View() string {
	if a.width == 0 {
		return "Loading..."
	}

	header := a.renderHeader()
	footer := a.renderFooter()

	var content string
	switch a.activeView {
	case viewToday:
		content = a.today.view()
	case viewHabits:
		content = a.habits.view()
	case viewStreaks:
		content = a.streaks.view()
	}

	// Calculate available height for content
	headerHeight := lipgloss.Height(header)
	footerHeight := lipgloss.Height(footer)
	contentHeight := a.height - headerHeight - footerHeight
	if contentHeight < 1 {
		contentHeight = 1
	}

	// Show export picker overlay
	if a.exportPicking {
		content = a.renderExportPicker()
	}

	content = lipgloss.NewStyle().
		Width(a.width).
		Height(contentHeight).
		Render(content)

	return lipgloss.JoinVertical(lipgloss.Left, header, content, footer)
}

func (a App) renderHeader() string {
	var tabs []string
	for i, name := range viewNames {
		if viewState(i) == a.activeView {
			tabs = append(tabs, activeTabStyle.Render(name))
		} else {
			tabs = append(tabs, inactiveTabStyle.Render(name))
		}
	}

	tabRow := lipgloss.JoinHorizontal(lipgloss.Bottom, tabs...)

	title := lipgloss.NewStyle().Bold(true).Foreground(colorPrimary).Render("habitr")
	gap := a.width - lipgloss.Width(title) - lipgloss.Width(tabRow) - 4
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return headerStyle.Render(
		lipgloss.JoinHorizontal(lipgloss.Bottom, title, spacer, tabRow),
	)
}

func (a App) renderFooter() string {
	helpView := a.help.View(keys)

	status := ""
	if a.status != "" {
		style := mutedStyle
		if a.isErr {
			style = errorStyle
		}
		status = style.Render(" " + a.status)
	}

	left := footerStyle.Render(helpView)

	gap := a.width - lipgloss.Width(left) - lipgloss.Width(status) - 2
	if gap < 1 {
		gap = 1
	}
	spacer := lipgloss.NewStyle().Width(gap).Render("")

	return lipgloss.JoinHorizontal(lipgloss.Bottom, left, spacer, status)
}

var exportFormats = []string{"CSV", "JSON"}

func (a App) renderExportPicker() string {
	title := titleStyle.Render("Export Format")
	var rows []string
	rows = append(rows, title)
	rows = append(rows, "")
	for i, f := range exportFormats {
		cursor := "  "
		style := normalItemStyle
		if i == a.exportCursor {
			cursor = "> "
			style = selectedItemStyle
		}
		rows = append(rows, style.Render(cursor+f))
	}
	rows = append(rows, "")
	rows = append(rows, mutedStyle.Render("  enter: export  esc: cancel"))

	w := a.width - 4
	return activePanelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left, rows...))
}

func (a App) updateExportPicker(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, keys.Up):
		if a.exportCursor > 0 {
			a.exportCursor--
		}
	case key.Matches(msg, keys.Down):
		if a.exportCursor < len(exportFormats)-1 {
			a.exportCursor++
		}
	case key.Matches(msg, keys.Enter):
		a.exportPicking = false
		return a, a.doExport(a.exportCursor)
	case key.Matches(msg, keys.Back):
		a.exportPicking = false
	}
	return a, nil
}

func (a App) doExport(format int) tea.Cmd {
	repo, dir := a.repo, a.exportDir
	return func() tea.Msg {
		habits, err := repo.List()
		if err != nil {
			return statusMsg{text: fmt.Sprintf("Export error: %v", err), isError: true}
		}

		dateStr := repo.Today().String()

		var path string
		if format == 0 {
			path = filepath.Join(dir, fmt.Sprintf("habitr-export-%s.csv", dateStr))
			if err := export.ToCSV(habits, path); err != nil {
				return statusMsg{text: fmt.Sprintf("CSV error: %v", err), isError: true}
			}
		} else {
			path = filepath.Join(dir, fmt.Sprintf("habitr-export-%s.json", dateStr))
			if err := export.ToJSON(habits, path); err != nil {
				return statusMsg{text: fmt.Sprintf("JSON error: %v", err), isError: true}
			}
		}

		return exportDoneMsg{path: path}
	}
}
