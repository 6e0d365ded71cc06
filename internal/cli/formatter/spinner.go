package formatter

import (
	"context"
	"io"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
)

type taskDoneMsg struct{ err error }

type spinnerModel struct {
	spinner spinner.Model
	message string
	task    func() error
	err     error
	done    bool
}

func newSpinnerModel(message string, task func() error) spinnerModel {
	s := spinner.New(spinner.WithSpinner(spinner.Dot), spinner.WithStyle(StylePurple))
	return spinnerModel{spinner: s, message: message, task: task}
}

func (m spinnerModel) Init() tea.Cmd {
	task := m.task
	return tea.Batch(m.spinner.Tick, func() tea.Msg {
		return taskDoneMsg{err: task()}
	})
}

func (m spinnerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case taskDoneMsg:
		m.done = true
		m.err = msg.err
		return m, tea.Quit
	}
	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)
	return m, cmd
}

func (m spinnerModel) View() string {
	if m.done {
		return ""
	}
	return "  " + m.spinner.View() + " " + Dim(m.message)
}

// RunWithSpinner shows an animated spinner on out while task runs and
// returns the task's error.
func RunWithSpinner(ctx context.Context, out io.Writer, message string, task func() error) error {
	p := tea.NewProgram(newSpinnerModel(message, task),
		tea.WithContext(ctx),
		tea.WithOutput(out),
		tea.WithInput(nil),
	)
	final, err := p.Run()
	if err != nil {
		return errors.Wrap(err, "running spinner")
	}
	return final.(spinnerModel).err
}
