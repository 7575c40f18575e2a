package tui

import tea "github.com/charmbracelet/bubbletea"

// Program is an alias for tea.Program, exposed so callers don't need
// to import bubbletea directly.
type Program = tea.Program

// NewProgram creates a BubbleTea program for the consolidation
// progress view. The run goroutine feeds it with Send(MsgProgress)
// and a final Send(MsgDone).
func NewProgram(opts ...tea.ProgramOption) *Program {
	return tea.NewProgram(NewModel(), opts...)
}
