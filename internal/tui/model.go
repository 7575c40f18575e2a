package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/marenkov/sheaf/internal/engine"
)

// recentFiles is how many recently read files stay visible under the bar.
const recentFiles = 8

// MsgProgress carries one engine milestone into the TUI.
type MsgProgress engine.Progress

// MsgDone signals the end of the run. Err is nil on success.
type MsgDone struct {
	Err     error
	Summary engine.Summary
	Output  string
}

// Model is the consolidation progress view: a stage line with spinner,
// a progress bar during the reading phase, and the tail of recently
// read files.
type Model struct {
	Spinner spinner.Model
	Bar     progress.Model

	stage   engine.Stage
	index   int
	total   int
	file    string
	recent  []string
	width   int
	done    bool
	aborted bool
	err     error
	summary engine.Summary
	output  string
}

// NewModel creates the initial progress model.
func NewModel() Model {
	s := spinner.New()
	s.Spinner = spinner.Dot

	return Model{
		Spinner: s,
		Bar:     progress.New(progress.WithDefaultGradient()),
		width:   80,
	}
}

func (m Model) Init() tea.Cmd {
	return m.Spinner.Tick
}

func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.Bar.Width = min(msg.Width-10, 50)
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" || msg.String() == "q" {
			m.aborted = true
			return m, tea.Quit
		}
		return m, nil

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case MsgProgress:
		m.stage = msg.Stage
		m.index = msg.FileIndex
		m.total = msg.FileTotal
		m.file = msg.File
		if msg.Stage == engine.StageReading && msg.File != "" {
			m.recent = append(m.recent, msg.File)
			if len(m.recent) > recentFiles {
				m.recent = m.recent[len(m.recent)-recentFiles:]
			}
		}
		return m, nil

	case MsgDone:
		m.done = true
		m.err = msg.Err
		m.summary = msg.Summary
		m.output = msg.Output
		return m, tea.Quit
	}

	return m, nil
}

// Aborted reports whether the user quit the view before the run
// finished. The caller is expected to cancel the run in that case.
func (m Model) Aborted() bool {
	return m.aborted
}

func (m Model) View() string {
	if m.done {
		return m.finalView()
	}

	var b strings.Builder

	b.WriteString(m.Spinner.View())
	b.WriteString(styleStage.Render(m.stage.String()))
	if m.stage == engine.StageReading && m.total > 0 {
		b.WriteString(styleCounter.Render(fmt.Sprintf("  %d/%d  ", m.index, m.total)))
		b.WriteString(styleFile.Render(m.file))
		b.WriteString("\n")
		b.WriteString(m.Bar.ViewAs(float64(m.index) / float64(m.total)))
	}
	b.WriteString("\n")

	for _, f := range m.recent {
		b.WriteString(styleRecent.Render("  · " + f))
		b.WriteString("\n")
	}

	return b.String()
}

// finalView renders the closing summary or error line.
func (m Model) finalView() string {
	if m.err != nil {
		return styleError.Render("✗ "+m.err.Error()) + "\n"
	}
	return styleDone.Render(fmt.Sprintf("✓ consolidated %d file(s), %d key(s) → %s",
		m.summary.FileCount, m.summary.KeyCount, m.output)) + "\n"
}
