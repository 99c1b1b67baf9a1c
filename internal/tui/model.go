// Package tui provides the Bubble Tea review interface.
package tui

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/verte-zerg/vocabox/internal/leitner"
	"github.com/verte-zerg/vocabox/internal/model"
	"github.com/verte-zerg/vocabox/internal/quiz"
)

// DoneMessage is shown once the session queue is exhausted.
const DoneMessage = "Done for now! Change filters or chapter to continue."

type phase int

const (
	phasePrompt phase = iota
	phaseRevealed
	phaseDone
)

// Options configures a review run.
type Options struct {
	Chapter   int
	Filter    leitner.Filter
	Mode      quiz.Mode
	Direction quiz.Direction
	// Today returns the current calendar day. Defaults to the local day.
	Today func() leitner.Date
}

// Model implements the Bubble Tea review UI.
type Model struct {
	opts    Options
	pool    []model.VocabItem
	corpus  []model.VocabItem
	state   *leitner.ReviewState
	grader  *leitner.Grader
	session *leitner.Session
	gen     *quiz.Generator
	input   textinput.Model

	width  int
	height int

	phase   phase
	current model.VocabItem
	choices []string
	picked  int
	guess   string
	correct bool
	graded  int
}

var (
	promptStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#F0F0F0")).Bold(true)
	answerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#C89A3A"))
	correctStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#22C55E"))
	incorrectStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF4D4F"))
	pendingStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("#8C8C8C"))
	footerStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("#6E6E6E"))
)

// NewModel constructs a review model over pool. corpus is the distractor
// source for multiple-choice cards. The first card is drawn immediately.
func NewModel(opts Options, pool, corpus []model.VocabItem, state *leitner.ReviewState, grader *leitner.Grader, session *leitner.Session, gen *quiz.Generator) *Model {
	if opts.Today == nil {
		opts.Today = func() leitner.Date { return leitner.Today(time.Local) }
	}
	if opts.Mode == "" {
		opts.Mode = quiz.ModeFlash
	}
	if opts.Direction == "" {
		opts.Direction = quiz.LtToTl
	}
	input := textinput.New()
	input.Placeholder = "type the answer"
	input.Prompt = "> "
	input.CharLimit = 256
	m := &Model{
		opts:    opts,
		pool:    pool,
		corpus:  corpus,
		state:   state,
		grader:  grader,
		session: session,
		gen:     gen,
		input:   input,
	}
	m.restart()
	return m
}

// Init implements tea.Model.
func (m *Model) Init() tea.Cmd {
	if m.opts.Mode == quiz.ModeType && m.phase == phasePrompt {
		return textinput.Blink
	}
	return nil
}

// Update implements tea.Model.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil
	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc":
			return m, tea.Quit
		}
		switch m.phase {
		case phasePrompt:
			return m.updatePrompt(msg)
		case phaseRevealed:
			return m.updateRevealed(msg)
		default:
			return m.updateDone(msg)
		}
	default:
		if m.phase == phasePrompt && m.opts.Mode == quiz.ModeType {
			var cmd tea.Cmd
			m.input, cmd = m.input.Update(msg)
			return m, cmd
		}
		return m, nil
	}
}

func (m *Model) updatePrompt(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch m.opts.Mode {
	case quiz.ModeType:
		if key == "enter" {
			m.guess = m.input.Value()
			m.correct = quiz.Matches(m.guess, m.answer())
			m.input.Blur()
			m.phase = phaseRevealed
			return m, nil
		}
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	case quiz.ModeMCQ:
		if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= len(m.choices) {
			m.picked = n - 1
			m.correct = quiz.Matches(m.choices[m.picked], m.answer())
			m.phase = phaseRevealed
			return m, nil
		}
	}
	if key == " " || key == "enter" {
		m.phase = phaseRevealed
	}
	return m, nil
}

func (m *Model) updateRevealed(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	if g, ok := leitner.GradeForKey(key); ok {
		if _, err := m.grader.Grade(context.Background(), m.state, m.current.ID, g, m.opts.Today()); err != nil {
			logErrf("failed to grade %s: %v\n", m.current.ID, err)
			return m, nil
		}
		m.graded++
		return m, m.advance()
	}
	switch key {
	case "n", " ", "enter":
		return m, m.advance()
	}
	return m, nil
}

func (m *Model) updateDone(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q":
		return m, tea.Quit
	case "r":
		return m, m.restart()
	}
	return m, nil
}

// restart rebuilds the session from the pool and draws the first card.
func (m *Model) restart() tea.Cmd {
	m.session.Build(m.pool, m.opts.Filter, m.state, m.opts.Today())
	return m.advance()
}

func (m *Model) advance() tea.Cmd {
	item, ok := m.session.Next()
	if !ok {
		m.phase = phaseDone
		m.current = model.VocabItem{}
		m.choices = nil
		return nil
	}
	m.current = item
	m.phase = phasePrompt
	m.picked = -1
	m.guess = ""
	m.correct = false
	m.choices = nil
	switch m.opts.Mode {
	case quiz.ModeMCQ:
		m.choices = m.gen.Choices(item, m.corpus, m.opts.Direction, quiz.ChoiceCount)
	case quiz.ModeType:
		m.input.Reset()
		return m.input.Focus()
	}
	return nil
}

func (m *Model) answer() string {
	return m.opts.Direction.Answer(m.current)
}

// View implements tea.Model.
func (m *Model) View() string {
	content := m.renderCard()
	footer := m.renderFooter()
	if m.width == 0 || m.height == 0 {
		return content + "\n\n" + footer
	}
	contentWidth := int(float64(m.width) * 0.70)
	if contentWidth < 1 {
		contentWidth = 1
	}
	content = lipgloss.NewStyle().Width(contentWidth).Render(content)
	if m.height < 3 {
		return lipgloss.Place(m.width, m.height, lipgloss.Center, lipgloss.Center, content)
	}
	body := lipgloss.Place(m.width, m.height-1, lipgloss.Center, lipgloss.Center, content)
	footerLine := lipgloss.Place(m.width, 1, lipgloss.Center, lipgloss.Center, footer)
	return body + "\n" + footerLine
}

func (m *Model) contentWidth() int {
	if m.width == 0 {
		return 0
	}
	return max(1, int(float64(m.width)*0.70))
}

func (m *Model) renderCard() string {
	if m.phase == phaseDone {
		return promptStyle.Render(DoneMessage) + "\n\n" + footerStyle.Render("r restart · q quit")
	}
	width := m.contentWidth()
	lines := []string{wrapStyledRunes(styleText(m.opts.Direction.Prompt(m.current), promptStyle), width), ""}

	switch m.opts.Mode {
	case quiz.ModeMCQ:
		for i, choice := range m.choices {
			style := pendingStyle
			if m.phase == phaseRevealed {
				switch {
				case quiz.Matches(choice, m.answer()):
					style = correctStyle
				case i == m.picked:
					style = incorrectStyle
				}
			}
			lines = append(lines, style.Render(fmt.Sprintf("%d) %s", i+1, choice)))
		}
		lines = append(lines, "")
	case quiz.ModeType:
		if m.phase == phasePrompt {
			lines = append(lines, m.input.View(), "")
		} else {
			lines = append(lines, m.renderTypedFeedback(width), "")
		}
	}

	if m.phase == phaseRevealed {
		lines = append(lines,
			wrapStyledRunes(styleText(m.answer(), answerStyle), width),
			"",
			footerStyle.Render("1 again · 2 hard · 3 good · 4 easy · n next"),
		)
	} else {
		lines = append(lines, footerStyle.Render(m.promptHint()))
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderTypedFeedback(width int) string {
	if m.correct {
		return correctStyle.Render("✔ Correct")
	}
	diff := wrapStyledRunes(diffRunes([]rune(m.answer()), []rune(strings.TrimSpace(m.guess))), width)
	return incorrectStyle.Render("✖ Correct: ") + diff
}

func (m *Model) promptHint() string {
	switch m.opts.Mode {
	case quiz.ModeMCQ:
		return fmt.Sprintf("1-%d choose · space reveal", len(m.choices))
	case quiz.ModeType:
		return "enter check"
	default:
		return "space reveal"
	}
}

func (m *Model) renderFooter() string {
	seen, total := m.session.Progress()
	segments := []string{fmt.Sprintf("%d / %d", seen, total)}
	segments = append(segments, fmt.Sprintf("Chapter %d", m.opts.Chapter), m.opts.Filter.String(), string(m.opts.Mode))
	if m.phase != phaseDone {
		if rec, ok := m.state.Record(m.current.ID); ok {
			segments = append(segments, fmt.Sprintf("Box %d", rec.Box))
		} else {
			segments = append(segments, "New")
		}
	}
	if m.graded > 0 {
		segments = append(segments, fmt.Sprintf("Graded %d", m.graded))
	}
	return footerStyle.Render(strings.Join(segments, "  "))
}

func logErrf(format string, args ...any) {
	if _, err := fmt.Fprintf(os.Stderr, format, args...); err != nil {
		// Best-effort logging to stderr.
		_ = err
	}
}
