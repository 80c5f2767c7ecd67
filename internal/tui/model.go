// Package tui is the terminal front end: an outline of the command tree, the
// command and flag forms, and the export output.
package tui

import (
	"github.com/atotto/clipboard"
	"github.com/charmbracelet/bubbles/spinner"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/huh"

	"cmdtree/internal/codegen"
	"cmdtree/internal/editor"
	"cmdtree/internal/model"
)

type focus int

const (
	focusTree focus = iota
	focusCommandForm
	focusFlagForm
)

// Command form fields.
const (
	fieldName = iota
	fieldUse
	fieldShort
	fieldCount
)

// AppModel holds the TUI state. It is used through a pointer so the editor
// controller can notify it directly.
type AppModel struct {
	ctrl *editor.Controller
	keys keyMap

	// Data
	Snapshot model.Command // Last tree pushed by the controller
	Rows     []row         // Flattened outline, root first

	// UI State
	Cursor     int
	Focus      focus
	WindowSize tea.WindowSizeMsg
	Status     string // One-line feedback under the panels
	Notice     string // Blocking message, dismissed by any key

	// Command form
	Inputs   [fieldCount]textinput.Model
	FieldIdx int

	// Flag form
	FlagForm  *huh.Form
	flagDraft *flagDraft

	// Export
	Exporting  bool
	ExportErr  error
	Output     string
	OutputView viewport.Model
	Spinner    spinner.Model

	// Preview
	ShowPreview bool
	Preview     codegen.Preview
	PreviewErr  error

	// Help
	ShowHelp    bool
	HelpContent string
	HelpScrollY int

	copyFn func(string) error
}

// flagDraft holds the flag form values. huh writes through these pointers,
// so a draft outlives the form built over it.
type flagDraft struct {
	Name        string
	Type        string
	Description string
}

// New builds the model and registers it as ctrl's observer.
func New(ctrl *editor.Controller) *AppModel {
	m := &AppModel{
		ctrl:        ctrl,
		keys:        defaultKeyMap(),
		HelpContent: renderHelp(model.HelpText(), 80),
		copyFn:      clipboard.WriteAll,
	}

	placeholders := [fieldCount]string{"name", "use (optional)", "short description (optional)"}
	for i := range m.Inputs {
		ti := textinput.New()
		ti.Placeholder = placeholders[i]
		ti.CharLimit = 120
		ti.Width = 30
		m.Inputs[i] = ti
	}

	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = spinnerStyle
	m.Spinner = s

	m.OutputView = viewport.New(40, 10)

	ctrl.SetObserver(m)
	ctrl.Render()
	return m
}

// Controller returns the editor controller the model drives.
func (m *AppModel) Controller() *editor.Controller {
	return m.ctrl
}

// TreeChanged rebuilds the outline from the live tree.
func (m *AppModel) TreeChanged(tree model.Command) {
	m.Snapshot = tree
	m.Rows = outline(m.ctrl.Tree().Root())
	if m.Cursor >= len(m.Rows) {
		m.Cursor = len(m.Rows) - 1
	}
	m.refreshPreview()
}

// SelectionChanged fills the command form with the selected node's fields.
func (m *AppModel) SelectionChanged(id model.NodeID, name, use, short string) {
	m.Inputs[fieldName].SetValue(name)
	m.Inputs[fieldUse].SetValue(use)
	m.Inputs[fieldShort].SetValue(short)
	for i, r := range m.Rows {
		if r.ID == id {
			m.Cursor = i
			break
		}
	}
	m.refreshPreview()
}

// ExportDone shows the generated code, or the error above the last output.
func (m *AppModel) ExportDone(output string, err error) {
	m.Exporting = false
	m.ExportErr = err
	if err != nil {
		m.Status = "Export failed"
		return
	}
	m.Output = output
	m.OutputView.SetContent(output)
	m.OutputView.GotoTop()
	m.Status = "Export complete"
}

func (m *AppModel) refreshPreview() {
	if !m.ShowPreview {
		return
	}
	path := model.RootPath
	if id := m.ctrl.SelectedID(); id != model.NoNode {
		path, _ = m.ctrl.Tree().PathOf(id)
	}
	m.Preview, m.PreviewErr = codegen.PreviewAt(m.Snapshot, path)
}

func renderHelp(md string, width int) string {
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(width),
	)
	if err != nil {
		return md
	}
	out, err := r.Render(md)
	if err != nil {
		return md
	}
	return out
}
