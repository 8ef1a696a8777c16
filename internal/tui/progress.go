// Package tui renders batch progress with Bubble Tea. The task driver
// advances exactly one batch item per tick message, so a long index
// build never blocks the UI loop.
package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/progress"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/samhoang/lockshard/internal/task"
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true)
	labelStyle = lipgloss.NewStyle().Faint(true)
)

// stepMsg asks the model to advance the batch by one item
type stepMsg struct{}

// ProgressModel is the Bubble Tea model for a running batch
type ProgressModel struct {
	title string
	batch *task.Batch
	prog  progress.Model
	spin  spinner.Model
	done  bool
}

// NewProgress creates a progress model for a batch
func NewProgress(title string, batch *task.Batch) ProgressModel {
	sp := spinner.New()
	sp.Spinner = spinner.Dot

	return ProgressModel{
		title: title,
		batch: batch,
		prog:  progress.New(progress.WithDefaultGradient()),
		spin:  sp,
	}
}

// Init implements tea.Model
func (m ProgressModel) Init() tea.Cmd {
	return tea.Batch(m.spin.Tick, step())
}

func step() tea.Cmd {
	return func() tea.Msg { return stepMsg{} }
}

// Update implements tea.Model
func (m ProgressModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case stepMsg:
		if m.batch.Step() {
			m.done = true
			return m, tea.Quit
		}
		return m, step()

	case spinner.TickMsg:
		var cmd tea.Cmd
		m.spin, cmd = m.spin.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "esc", "q":
			m.batch.Cancel()
			return m, tea.Quit
		}
	}

	return m, nil
}

// View implements tea.Model
func (m ProgressModel) View() string {
	if m.done {
		return ""
	}

	i, n, label := m.batch.Progress()
	pct := 0.0
	if n > 0 {
		pct = float64(i) / float64(n)
	}

	return fmt.Sprintf("%s\n%s %s\n%s %d/%d\n",
		titleStyle.Render(m.title),
		m.spin.View(), labelStyle.Render(label),
		m.prog.ViewAs(pct), i, n,
	)
}

// Run drives a batch under a Bubble Tea program and blocks until the
// batch completes or the user cancels.
func Run(title string, batch *task.Batch) error {
	p := tea.NewProgram(NewProgress(title, batch))
	_, err := p.Run()
	return err
}
