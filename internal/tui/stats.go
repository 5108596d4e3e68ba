package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/NimbleMarkets/ntcharts/barchart"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/ktakeda/focusdo/internal/store"
)

type statsModel struct {
	store  *store.Store
	width  int
	height int

	days      []store.DailyFocus
	phases    int
	totalWork int64
	doneToday int
	offset    int // 7-day blocks back from today (0 = current)

	chart barchart.Model
}

func newStatsModel(s *store.Store) statsModel {
	return statsModel{
		store: s,
		chart: barchart.New(60, 12),
	}
}

func (r *statsModel) setSize(w, h int) {
	r.width = w
	r.height = h
}

func (r statsModel) refresh() tea.Cmd {
	from, to := r.dateRange()
	return func() tea.Msg {
		days, _ := r.store.GetDailyFocus(from, to)
		phases, totalWork, _ := r.store.GetFocusStats(from, to)
		doneToday, _ := r.store.TodayCompletedCount()
		return statsDataMsg{days: days, phases: phases, totalWork: totalWork, doneToday: doneToday}
	}
}

// dateRange returns the 7-day window selected by offset, half-open [from, to).
func (r statsModel) dateRange() (time.Time, time.Time) {
	now := time.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)

	end := today.AddDate(0, 0, 1-7*r.offset)
	start := end.AddDate(0, 0, -7)
	return start, end
}

func (r statsModel) update(msg tea.Msg) (statsModel, tea.Cmd) {
	switch msg := msg.(type) {
	case statsDataMsg:
		r.days = msg.days
		r.phases = msg.phases
		r.totalWork = msg.totalWork
		r.doneToday = msg.doneToday
		r.buildChart()
		return r, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, keys.Left):
			r.offset++
			return r, r.refresh()
		case key.Matches(msg, keys.Right):
			if r.offset > 0 {
				r.offset--
			}
			return r, r.refresh()
		}
	}
	return r, nil
}

func (r *statsModel) buildChart() {
	chartWidth := r.width - 8
	if chartWidth < 20 {
		chartWidth = 20
	}
	chartHeight := 12
	if r.height > 30 {
		chartHeight = 16
	}

	r.chart = barchart.New(chartWidth, chartHeight)

	from, to := r.dateRange()

	var bars []barchart.BarData
	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		dateStr := d.Format("2006-01-02")
		label := d.Format("Mon 02")

		minutes := 0.0
		for _, day := range r.days {
			if day.Date == dateStr {
				minutes = float64(day.TotalSeconds) / 60.0
			}
		}

		style := workStyle
		if minutes == 0 {
			style = lipgloss.NewStyle().Foreground(colorSubtle)
		}

		bars = append(bars, barchart.BarData{
			Label: label,
			Values: []barchart.BarValue{
				{Name: "focus", Value: minutes, Style: style},
			},
		})
	}

	r.chart.PushAll(bars)
	r.chart.Draw()
}

func (r statsModel) view() string {
	w := r.width - 4

	from, to := r.dateRange()
	dateLabel := mutedStyle.Render(fmt.Sprintf("%s to %s", from.Format("Jan 02"), to.Add(-24*time.Hour).Format("Jan 02, 2006")))

	header := lipgloss.JoinHorizontal(lipgloss.Bottom,
		titleStyle.Render("Stats"), "  ", dateLabel,
	)

	chartView := r.chart.View()
	axisLabel := mutedStyle.Render("  focus minutes per day")

	summary := r.renderSummary()
	table := r.renderDaysTable(w)

	nav := mutedStyle.Render("  ←/→: earlier/later week")

	return panelStyle.Width(w).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header, "", chartView, axisLabel, "", summary, "", table, "", nav,
		),
	)
}

func (r statsModel) renderSummary() string {
	parts := []string{
		fmt.Sprintf("  Focused: %s", highlightStyle.Render(formatSeconds(r.totalWork))),
		fmt.Sprintf("Work phases: %s", highlightStyle.Render(fmt.Sprintf("%d", r.phases))),
		fmt.Sprintf("Done today: %s", successStyle.Render(fmt.Sprintf("%d todos", r.doneToday))),
	}
	return strings.Join(parts, "    ")
}

func (r statsModel) renderDaysTable(w int) string {
	if len(r.days) == 0 {
		return mutedStyle.Render("  No focus sessions in this period")
	}

	var rows []string
	rows = append(rows, mutedStyle.Render(fmt.Sprintf("  %-12s %10s %10s", "Date", "Focused", "Sessions")))
	rows = append(rows, mutedStyle.Render("  "+strings.Repeat("─", min(w-6, 36))))

	for _, d := range r.days {
		rows = append(rows, fmt.Sprintf("  %-12s %10s %10d", d.Date, formatSeconds(d.TotalSeconds), d.Sessions))
	}

	return strings.Join(rows, "\n")
}
