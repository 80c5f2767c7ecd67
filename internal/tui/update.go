package tui

import (
	"context"
	"errors"
	"fmt"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"

	"cmdtree/internal/codegen"
	"cmdtree/internal/editor"
)

// exportDoneMsg carries the result of a request sent off the UI goroutine.
type exportDoneMsg struct {
	output string
	err    error
}

func (m *AppModel) Init() tea.Cmd {
	return textinput.Blink
}

// Update handles events.
func (m *AppModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.WindowSize = msg
		m.OutputView.Width = max(msg.Width/2-4, 20)
		m.OutputView.Height = max(msg.Height/2-6, 3)
		if m.FlagForm != nil {
			m.FlagForm = m.FlagForm.WithWidth(m.flagFormWidth())
		}
		return m, nil

	case exportDoneMsg:
		m.ctrl.CompleteExport(msg.output, msg.err)
		return m, nil

	case spinner.TickMsg:
		if !m.Exporting {
			return m, nil
		}
		var cmd tea.Cmd
		m.Spinner, cmd = m.Spinner.Update(msg)
		return m, cmd

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.Notice != "" {
			m.Notice = ""
			return m, nil
		}
		if m.ShowHelp {
			return m.updateHelp(msg)
		}
		switch m.Focus {
		case focusCommandForm:
			return m.updateCommandForm(msg)
		case focusFlagForm:
			return m.updateFlagForm(msg)
		}
		return m.updateTree(msg)
	}

	// Blink and form-internal messages
	switch m.Focus {
	case focusFlagForm:
		return m.updateFlagForm(msg)
	case focusCommandForm:
		var cmd tea.Cmd
		m.Inputs[m.FieldIdx], cmd = m.Inputs[m.FieldIdx].Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *AppModel) updateTree(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Up):
		if m.Cursor > 0 {
			m.Cursor--
		}
	case key.Matches(msg, m.keys.Down):
		if m.Cursor < len(m.Rows)-1 {
			m.Cursor++
		}
	case key.Matches(msg, m.keys.Select):
		m.selectCursor()
	case key.Matches(msg, m.keys.AddCommand):
		m.Focus = focusCommandForm
		return m, m.focusField(fieldName)
	case key.Matches(msg, m.keys.AddFlag):
		return m, m.openFlagForm()
	case key.Matches(msg, m.keys.Export):
		return m, m.startExport()
	case key.Matches(msg, m.keys.Copy):
		m.copyOutput()
	case key.Matches(msg, m.keys.Preview):
		m.ShowPreview = !m.ShowPreview
		m.refreshPreview()
	case key.Matches(msg, m.keys.PageUp, m.keys.PageDown):
		var cmd tea.Cmd
		m.OutputView, cmd = m.OutputView.Update(msg)
		return m, cmd
	case key.Matches(msg, m.keys.Help):
		m.ShowHelp = true
		m.HelpScrollY = 0
	}
	return m, nil
}

func (m *AppModel) selectCursor() {
	if m.Cursor < 0 || m.Cursor >= len(m.Rows) {
		return
	}
	r := m.Rows[m.Cursor]
	if err := m.ctrl.SelectNode(r.ID); err != nil {
		m.Status = err.Error()
		return
	}
	m.Status = fmt.Sprintf("Selected %q", r.Node.Name)
}

func (m *AppModel) updateCommandForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.Inputs[m.FieldIdx].Blur()
		m.Focus = focusTree
		return m, nil
	case key.Matches(msg, m.keys.NextField):
		return m, m.focusField((m.FieldIdx + 1) % fieldCount)
	case key.Matches(msg, m.keys.PrevField):
		return m, m.focusField((m.FieldIdx + fieldCount - 1) % fieldCount)
	case key.Matches(msg, m.keys.Submit):
		m.submitCommand()
		return m, nil
	}

	var cmd tea.Cmd
	m.Inputs[m.FieldIdx], cmd = m.Inputs[m.FieldIdx].Update(msg)
	return m, cmd
}

func (m *AppModel) focusField(idx int) tea.Cmd {
	for i := range m.Inputs {
		m.Inputs[i].Blur()
	}
	m.FieldIdx = idx
	return m.Inputs[idx].Focus()
}

func (m *AppModel) submitCommand() {
	child, err := m.ctrl.SubmitAddCommand(
		m.Inputs[fieldName].Value(),
		m.Inputs[fieldUse].Value(),
		m.Inputs[fieldShort].Value(),
	)
	if err != nil {
		m.showError(err)
		return
	}
	m.Status = fmt.Sprintf("Added %q under %q", child.Name, child.Parent().Name)
	for i := range m.Inputs {
		m.Inputs[i].SetValue("")
	}
	m.focusField(fieldName)
}

func (m *AppModel) openFlagForm() tea.Cmd {
	m.ctrl.RequestAddFlag()
	if m.flagDraft == nil {
		m.flagDraft = &flagDraft{Type: codegen.FlagTypes()[0]}
	}
	m.FlagForm = newFlagForm(m.flagDraft, m.flagFormWidth())
	m.Focus = focusFlagForm
	return m.FlagForm.Init()
}

func (m *AppModel) updateFlagForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.FlagForm == nil {
		m.Focus = focusTree
		return m, nil
	}
	if km, ok := msg.(tea.KeyMsg); ok && key.Matches(km, m.keys.Back) {
		m.cancelFlagForm()
		return m, nil
	}

	fm, cmd := m.FlagForm.Update(msg)
	if f, ok := fm.(*huh.Form); ok {
		m.FlagForm = f
	}

	switch m.FlagForm.State {
	case huh.StateCompleted:
		return m, m.submitFlag()
	case huh.StateAborted:
		m.cancelFlagForm()
		return m, nil
	}
	return m, cmd
}

// submitFlag applies the draft. On failure the form is rebuilt over the same
// draft so it stays open with the values entered so far.
func (m *AppModel) submitFlag() tea.Cmd {
	d := m.flagDraft
	f, err := m.ctrl.SubmitAddFlag(d.Name, d.Type, d.Description)
	if err != nil {
		m.showError(err)
		m.FlagForm = newFlagForm(d, m.flagFormWidth())
		return m.FlagForm.Init()
	}
	m.Status = fmt.Sprintf("Added flag --%s (%s)", f.Name, f.Type)
	m.flagDraft = nil
	m.FlagForm = nil
	m.Focus = focusTree
	return nil
}

func (m *AppModel) cancelFlagForm() {
	m.ctrl.CancelAddFlag()
	m.FlagForm = nil
	m.Focus = focusTree
	m.Status = "Flag form closed"
}

func (m *AppModel) startExport() tea.Cmd {
	if m.Exporting {
		return nil
	}
	req, err := m.ctrl.ExportTree()
	if err != nil {
		m.ExportErr = err
		m.Status = "Export failed"
		return nil
	}
	m.Exporting = true
	m.ExportErr = nil
	m.Status = "Exporting..."
	return tea.Batch(m.Spinner.Tick, sendExport(req))
}

func sendExport(req *editor.Request) tea.Cmd {
	return func() tea.Msg {
		out, err := req.Send(context.Background())
		return exportDoneMsg{output: out, err: err}
	}
}

func (m *AppModel) copyOutput() {
	if m.Output == "" {
		m.Status = "Nothing to copy yet, press x to export"
		return
	}
	if err := m.copyFn(m.Output); err != nil {
		m.Status = "Copy failed: " + err.Error()
		return
	}
	m.Status = "Generated code copied to clipboard"
}

func (m *AppModel) updateHelp(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Help, m.keys.Back, m.keys.Quit):
		m.ShowHelp = false
	case key.Matches(msg, m.keys.Up):
		if m.HelpScrollY > 0 {
			m.HelpScrollY--
		}
	case key.Matches(msg, m.keys.Down):
		m.HelpScrollY++
	}
	return m, nil
}

// showError routes missing-selection errors to the blocking notice and
// everything else to the status line.
func (m *AppModel) showError(err error) {
	if errors.Is(err, editor.ErrNoSelection) {
		m.Notice = err.Error()
		return
	}
	m.Status = err.Error()
}

func (m *AppModel) flagFormWidth() int {
	if m.WindowSize.Width == 0 {
		return 50
	}
	return min(m.WindowSize.Width-10, 60)
}

func newFlagForm(d *flagDraft, width int) *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Flag name").
				Placeholder("verbose").
				Value(&d.Name),
			huh.NewSelect[string]().
				Title("Type").
				Options(huh.NewOptions(codegen.FlagTypes()...)...).
				Value(&d.Type),
			huh.NewInput().
				Title("Description").
				Value(&d.Description),
		),
	).WithShowHelp(false).WithWidth(width)
}
