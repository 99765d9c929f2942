// Package tui is the terminal day browser: arrow keys move between
// tracked days, each rendered as a compact analytics report.
package tui

import (
	"context"
	"fmt"
	"sort"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/prolifichq/prolific/internal/engine"
	"github.com/prolifichq/prolific/internal/util"
)

// DayReport is everything one day's view needs.
type DayReport struct {
	DayT0     int64
	Blog      string
	Analytics engine.DayAnalytics
	// KeyRates holds keystrokes per sample across the day, for the
	// activity sparkline.
	KeyRates []float64
}

// Loader fetches the report for one day.
type Loader func(ctx context.Context, dayT0 int64) (DayReport, error)

type reportLoadedMsg struct{ report DayReport }

type reportErrorMsg struct{ err error }

type styles struct {
	title   lipgloss.Style
	section lipgloss.Style
	label   lipgloss.Style
	value   lipgloss.Style
	warn    lipgloss.Style
	help    lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:   lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("205")),
		section: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39")),
		label:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		value:   lipgloss.NewStyle().Foreground(lipgloss.Color("252")),
		warn:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		help:    lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
	}
}

// Model is the bubbletea model for the day browser.
type Model struct {
	days    []int64
	idx     int
	load    Loader
	report  DayReport
	loading bool
	err     error
	styles  styles
	loc     *time.Location
	width   int
}

// NewModel browses days (ascending day-start timestamps), opening on the
// most recent one.
func NewModel(days []int64, load Loader, loc *time.Location) *Model {
	if loc == nil {
		loc = time.Local
	}
	sorted := append([]int64(nil), days...)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i] < sorted[j] })
	idx := len(sorted) - 1
	if idx < 0 {
		idx = 0
	}
	return &Model{
		days:    sorted,
		idx:     idx,
		load:    load,
		loading: true,
		styles:  newStyles(),
		loc:     loc,
	}
}

func (m *Model) Init() tea.Cmd {
	return m.loadDay()
}

func (m *Model) loadDay() tea.Cmd {
	if len(m.days) == 0 {
		return nil
	}
	dayT0 := m.days[m.idx]
	return func() tea.Msg {
		report, err := m.load(context.Background(), dayT0)
		if err != nil {
			return reportErrorMsg{fmt.Errorf("load day: %w", err)}
		}
		return reportLoadedMsg{report}
	}
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case reportLoadedMsg:
		m.loading = false
		m.report = msg.report
		return m, nil

	case reportErrorMsg:
		m.loading = false
		m.err = msg.err
		return m, nil

	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c":
			return m, tea.Quit
		case "left", "h":
			if m.idx > 0 {
				m.idx--
				m.loading = true
				m.err = nil
				return m, m.loadDay()
			}
		case "right", "l":
			if m.idx < len(m.days)-1 {
				m.idx++
				m.loading = true
				m.err = nil
				return m, m.loadDay()
			}
		case "r":
			m.loading = true
			m.err = nil
			return m, m.loadDay()
		}
	}
	return m, nil
}

func (m *Model) View() string {
	if len(m.days) == 0 {
		return m.styles.label.Render("No tracked days yet. Run `prolific import` first.\n")
	}
	if m.loading {
		return m.styles.label.Render("Loading day...")
	}
	if m.err != nil {
		return m.styles.warn.Render(fmt.Sprintf("Error: %v", m.err))
	}

	an := m.report.Analytics
	title := m.styles.title.Render(fmt.Sprintf("Prolific — %s (%d/%d)",
		util.FormatDayStamp(m.report.DayT0, m.loc), m.idx+1, len(m.days)))

	sections := []string{title, ""}

	sections = append(sections, m.styles.section.Render("Focus"))
	sections = append(sections, m.kv("Active", util.FormatDuration(an.Focus.ActiveSeconds)))
	sections = append(sections, m.kv("Context tax",
		fmt.Sprintf("%s (%.1f%%)", util.FormatDuration(an.Focus.TaxSeconds), an.Focus.TaxPercent)))
	sections = append(sections, m.kv("Coherence", fmt.Sprintf("%d/100", an.Focus.Coherence)))
	sections = append(sections, m.kv("Deep blocks", fmt.Sprintf("%d", an.Focus.DeepBlocks)))
	sections = append(sections, m.styles.value.Render("  "+an.FocusTip))
	sections = append(sections, "")

	sections = append(sections, m.styles.section.Render("Hacking"))
	sections = append(sections, m.kv("Total", fmt.Sprintf("%s in %d blocks",
		util.FormatDuration(an.Hacking.TotalSeconds), len(an.Hacking.Blocks))))
	sections = append(sections, m.kv("Keys", util.FormatNumber(an.Hacking.TotalKeys)))
	if len(m.report.KeyRates) > 0 {
		width := m.width - 12
		if width < 16 {
			width = 16
		}
		sections = append(sections, m.kv("Typing", Sparkline(m.report.KeyRates, width)))
	}
	sections = append(sections, "")

	sections = append(sections, m.styles.section.Render("Coffee"))
	sections = append(sections, m.kv("Cups", fmt.Sprintf("%d taken, %d left",
		an.Coffee.CupsTaken, an.Coffee.CupsLeft)))
	advice := m.styles.value
	if an.Coffee.CaffeineBedtimeMg >= 30 {
		advice = m.styles.warn
	}
	sections = append(sections, advice.Render("  "+an.CoffeeAdvice))
	sections = append(sections, "")

	if m.report.Blog != "" {
		sections = append(sections, m.styles.section.Render("Notes"))
		sections = append(sections, m.styles.value.Render("  "+m.report.Blog))
		sections = append(sections, "")
	}

	sections = append(sections, m.styles.help.Render("←/→: change day  r: reload  q: quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m *Model) kv(label, value string) string {
	return fmt.Sprintf("  %s %s",
		m.styles.label.Render(fmt.Sprintf("%-12s", label)),
		m.styles.value.Render(value))
}
