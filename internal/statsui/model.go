// Package statsui provides the Bubble Tea stats interface.
package statsui

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/vocabox/internal/stats"
)

const (
	tabOverview = iota
	tabChapters
)

var (
	activeNavStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#F0F0F0")).
			Bold(true).
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#C89A3A"))
	inactiveNavStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("#B0B0B0")).
				Padding(0, 1).
				Border(lipgloss.RoundedBorder(), true).
				BorderForeground(lipgloss.Color("#4A4A4A"))
	headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
	cardStyle   = lipgloss.NewStyle().
			Padding(0, 1).
			Border(lipgloss.RoundedBorder(), true).
			BorderForeground(lipgloss.Color("#4A4A4A"))
	cardTitleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	cardValueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
)

// Loader produces a fresh report. It is called on start and on refresh.
type Loader func() stats.Report

// Model implements the Bubble Tea stats UI.
type Model struct {
	load   Loader
	report stats.Report

	tabs      []string
	activeTab int
	chapters  table.Model

	width  int
	height int
}

// NewModel constructs a stats UI model.
func NewModel(load Loader) *Model {
	m := &Model{
		load: load,
		tabs: []string{"Overview", "Chapters"},
	}
	m.chapters = table.New(table.WithFocused(true), table.WithHeight(10))
	m.chapters.SetStyles(chapterTableStyles())
	m.refresh()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.layoutTable()
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit
		case "tab", "right", "l":
			m.moveTab(1)
			return m, tea.ClearScreen
		case "shift+tab", "left", "h":
			m.moveTab(-1)
			return m, tea.ClearScreen
		case "r":
			m.refresh()
			return m, nil
		}
		if m.activeTab == tabChapters {
			var cmd tea.Cmd
			m.chapters, cmd = m.chapters.Update(msg)
			return m, cmd
		}
	}
	return m, nil
}

// View implements tea.Model.
func (m *Model) View() string {
	var body string
	switch m.activeTab {
	case tabChapters:
		body = m.chapters.View()
	default:
		body = renderOverview(m.report, m.width)
	}
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderTabs(),
		body,
		headerStyle.Render("tab switch · ↑/↓ scroll · r refresh · q quit"),
	)
}

func (m *Model) moveTab(delta int) {
	n := len(m.tabs)
	m.activeTab = ((m.activeTab+delta)%n + n) % n
}

func (m *Model) refresh() {
	if m.load == nil {
		return
	}
	m.report = m.load()
	cols, rows := chapterTableData(m.report)
	m.chapters.SetRows(nil)
	m.chapters.SetColumns(cols)
	m.chapters.SetRows(rows)
	m.layoutTable()
}

func (m *Model) layoutTable() {
	if m.width > 0 {
		m.chapters.SetWidth(m.width)
	}
	if m.height > 0 {
		tabsHeight := lipgloss.Height(activeNavStyle.Render("X"))
		m.chapters.SetHeight(max(1, m.height-tabsHeight-2))
	}
}

func (m *Model) renderTabs() string {
	parts := make([]string, 0, len(m.tabs))
	for i, tab := range m.tabs {
		style := inactiveNavStyle
		if i == m.activeTab {
			style = activeNavStyle
		}
		parts = append(parts, style.Render(tab))
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func renderOverview(report stats.Report, width int) string {
	total := report.Total
	if total.Total == 0 {
		return "No vocabulary found."
	}
	mastered := 0
	if len(total.Boxes) > 0 {
		mastered = total.Boxes[len(total.Boxes)-1]
	}
	cards := []string{
		metricCard("Items", fmt.Sprintf("%d", total.Total)),
		metricCard("New", fmt.Sprintf("%d", total.New)),
		metricCard("Due today", fmt.Sprintf("%d", total.Due)),
		metricCard("Top box", fmt.Sprintf("%d", mastered)),
	}
	var cardBlock string
	if width > 0 && width < 60 {
		cardBlock = strings.Join(cards, "\n")
	} else {
		cardBlock = lipgloss.JoinHorizontal(lipgloss.Top, cards...)
	}
	var buf bytes.Buffer
	if err := stats.RenderForecast(&buf, report.Forecast, report.Today); err != nil {
		return cardBlock + "\n\n" + fmt.Sprintf("Failed to render forecast: %v", err)
	}
	return strings.TrimRight(cardBlock+"\n\n"+buf.String(), "\n")
}

func metricCard(label, value string) string {
	content := fmt.Sprintf("%s\n%s", cardTitleStyle.Render(label), cardValueStyle.Render(value))
	return cardStyle.Render(content)
}

func chapterTableData(report stats.Report) ([]table.Column, []table.Row) {
	boxCount := len(report.Total.Boxes)
	headers := stats.SummaryHeaders(boxCount)
	cells := make([][]string, 0, len(report.Summaries)+1)
	for _, sum := range report.Summaries {
		cells = append(cells, stats.SummaryRow(sum, boxCount, false))
	}
	if len(report.Summaries) > 0 {
		cells = append(cells, stats.SummaryRow(report.Total, boxCount, true))
	}
	widths := stats.ColumnWidths(headers, cells)
	cols := make([]table.Column, len(headers))
	for i, h := range headers {
		cols[i] = table.Column{Title: h, Width: widths[i] + 1}
	}
	rows := make([]table.Row, len(cells))
	for i, c := range cells {
		rows[i] = table.Row(c)
	}
	return cols, rows
}

func chapterTableStyles() table.Styles {
	styles := table.DefaultStyles()
	styles.Header = styles.Header.
		Border(lipgloss.NormalBorder(), false, false, true, false).
		BorderForeground(lipgloss.Color("#4A4A4A")).
		Foreground(lipgloss.Color("#C0C0C0")).
		Bold(true).
		Padding(0, 1).
		PaddingLeft(0)
	styles.Cell = styles.Cell.
		Padding(0, 1).
		PaddingLeft(0)
	styles.Selected = styles.Cell.
		Foreground(lipgloss.Color("#F0F0F0")).
		Bold(true)
	return styles
}
