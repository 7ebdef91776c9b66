package tui

import (
	"fmt"
	"strings"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/lipgloss"
	"github.com/sadopc/habitr/internal/habit"
)

var barColors = []string{"#6C63FF", "#2EC4B6", "#FF6B6B", "#F39C12", "#2ECC71", "#E74C3C", "#9B59B6", "#3498DB"}

type streaksModel struct {
	width  int
	height int

	habits []habit.Habit
	chart  barchart.Model
}

func newStreaksModel() streaksModel {
	return streaksModel{chart: barchart.New(60, 12)}
}

func (r *streaksModel) setSize(w, h int) {
	r.width = w
	r.height = h
	r.buildChart()
}

func (r *streaksModel) setData(msg habitsDataMsg) {
	r.habits = msg.habits
	r.buildChart()
}

func (r *streaksModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	var bars []barchart.BarData
	for i, h := range r.habits {
		style := lipgloss.NewStyle().Foreground(lipgloss.Color(barColors[i%len(barColors)]))
		bars = append(bars, barchart.BarData{
			Label: truncate(h.Name, 8),
			Values: []barchart.BarValue{{
				Name:  h.Name,
				Value: float64(h.Streak),
				Style: style,
			}},
		})
	}
	if len(bars) == 0 {
		return
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r streaksModel) best() (habit.Habit, bool) {
	var top habit.Habit
	found := false
	for _, h := range r.habits {
		if !found || h.Streak > top.Streak {
			top, found = h, true
		}
	}
	return top, found
}

func (r streaksModel) view() string {
	w := r.width - 4
	title := titleStyle.Render("Streaks")

	if len(r.habits) == 0 {
		return panelStyle.Width(w).Render(lipgloss.JoinVertical(lipgloss.Left,
			title, "", mutedStyle.Render("  No habits yet"),
		))
	}

	header := title
	if top, ok := r.best(); ok && top.Streak > 0 {
		header = lipgloss.JoinHorizontal(lipgloss.Bottom, title, "  ",
			mutedStyle.Render(fmt.Sprintf("best: %s (%d)", top.Name, top.Streak)))
	}

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", r.chart.View(), "", r.renderTable(w),
		),
	)
}

func (r streaksModel) renderTable(w int) string {
	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-20s %8s %10s", "Habit", "Streak", "Progress")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", max(0, min(w-6, 40)))))
	for i, h := range r.habits {
		dot := lipgloss.NewStyle().Foreground(lipgloss.Color(barColors[i%len(barColors)])).Render("●")
		rows = append(rows, fmt.Sprintf("  %s %-18s %8d %10s",
			dot, truncate(h.Name, 18), h.Streak, fmt.Sprintf("%d/%d", h.Progress, h.Goal)))
	}
	return strings.Join(rows, "\n")
}
