package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"cmdtree/internal/editor"
	"cmdtree/internal/model"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	cursorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	selectedNodeStyle = lipgloss.NewStyle().
				Foreground(lipgloss.Color("81")). // Sky Blue/Cyan
				Bold(true)

	dimStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("240"))

	labelStyle = lipgloss.NewStyle().
			Width(7).
			Foreground(lipgloss.Color("245"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("196"))

	warningStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("208")) // Orange

	spinnerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("205"))

	activeColor = lipgloss.Color("205")
	borderColor = lipgloss.Color("63")
)

func (m *AppModel) View() string {
	width, height := m.WindowSize.Width, m.WindowSize.Height
	if width == 0 || height == 0 {
		width, height = 100, 30
	}

	if m.ShowHelp {
		return m.renderHelpDialog(width, height)
	}
	if m.Notice != "" {
		return m.renderNotice(width, height)
	}
	if m.FlagForm != nil && m.ctrl.FlagForm() == editor.FormVisible {
		return m.renderFlagForm(width, height)
	}

	netWidth := max(width-6, 40)
	leftWidth := netWidth * 2 / 5
	rightWidth := netWidth - leftWidth
	interiorHeight := max(height-6, 6)

	left := lipgloss.NewStyle().
		Width(leftWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(m.borderFor(focusTree)).
		Render(m.renderOutline(leftWidth, interiorHeight))

	right := lipgloss.NewStyle().
		Width(rightWidth).
		Height(interiorHeight).
		Border(lipgloss.NormalBorder()).
		BorderForeground(m.borderFor(focusCommandForm)).
		Render(m.renderDetails(rightWidth))

	var help string
	switch m.Focus {
	case focusCommandForm:
		help = footerHelp(m.keys.NextField, m.keys.Submit, m.keys.Back)
	default:
		help = footerHelp(m.keys.Up, m.keys.Down, m.keys.Select, m.keys.AddCommand, m.keys.AddFlag,
			m.keys.Export, m.keys.Copy, m.keys.Preview, m.keys.Help, m.keys.Quit)
	}
	footer := "\n" + dimStyle.Render(help)
	if m.Status != "" {
		footer = "\n" + m.Status + footer
	}

	return lipgloss.JoinHorizontal(lipgloss.Top, left, right) + footer
}

func (m *AppModel) borderFor(f focus) lipgloss.Color {
	if m.Focus == f {
		return activeColor
	}
	return borderColor
}

func (m *AppModel) renderOutline(width, height int) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Commands"))
	b.WriteString("\n\n")

	// Windowing keeps the cursor in view.
	visible := max(height-2, 1)
	start, end := 0, len(m.Rows)
	if len(m.Rows) > visible {
		start = max(m.Cursor-visible/2, 0)
		if start+visible > len(m.Rows) {
			start = len(m.Rows) - visible
		}
		end = start + visible
	}

	selected := m.ctrl.SelectedID()
	for i := start; i < end; i++ {
		r := m.Rows[i]
		line := r.label()
		if r.ID == selected {
			line += " " + model.IconSelected
		}
		if w := lipgloss.Width(line); w > width-1 {
			line = truncate(line, width-4) + "..."
		}

		switch {
		case i == m.Cursor:
			line = cursorStyle.Render(line)
		case r.ID == selected:
			line = selectedNodeStyle.Render(line)
		}
		b.WriteString(line)
		if i < end-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func (m *AppModel) renderDetails(width int) string {
	var b strings.Builder

	target := "none"
	if n, ok := m.ctrl.Selected(); ok {
		target = n.Name
	}
	b.WriteString(titleStyle.Render("Add command"))
	b.WriteString(dimStyle.Render("  parent: " + target))
	b.WriteString("\n\n")

	labels := [fieldCount]string{"Name", "Use", "Short"}
	for i := range m.Inputs {
		b.WriteString(labelStyle.Render(labels[i]))
		b.WriteString(m.Inputs[i].View())
		b.WriteString("\n")
	}

	if n, ok := m.ctrl.Selected(); ok && len(n.Flags) > 0 {
		b.WriteString("\n")
		b.WriteString(titleStyle.Render("Flags"))
		b.WriteString("\n")
		for _, f := range n.Flags {
			fmt.Fprintf(&b, "%s --%s %s", model.IconFlag, f.Name, dimStyle.Render(f.Type))
			if f.Description != "" {
				b.WriteString("  " + f.Description)
			}
			b.WriteString("\n")
		}
	}

	b.WriteString("\n")
	if m.ShowPreview {
		b.WriteString(m.renderPreview())
		return b.String()
	}

	b.WriteString(titleStyle.Render("Generated code"))
	b.WriteString("\n")
	switch {
	case m.Exporting:
		b.WriteString(m.Spinner.View() + " Generating...\n")
	case m.ExportErr != nil:
		b.WriteString(errorStyle.Render(m.ExportErr.Error()))
		b.WriteString("\n")
	}
	if m.Output == "" {
		b.WriteString(dimStyle.Render("Press x to export the tree."))
	} else {
		b.WriteString(m.OutputView.View())
	}
	return b.String()
}

func (m *AppModel) renderPreview() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Preview"))
	b.WriteString("\n")
	if m.PreviewErr != nil {
		b.WriteString(errorStyle.Render(m.PreviewErr.Error()))
		return b.String()
	}
	b.WriteString(m.Preview.Usage)
	for _, w := range m.Preview.Warnings {
		b.WriteString("\n")
		b.WriteString(warningStyle.Render("! " + w))
	}
	return b.String()
}

func (m *AppModel) renderNotice(w, h int) string {
	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("208")). // Orange
		Padding(1, 3).
		Render(m.Notice + "\n\n" + dimStyle.Render("Press any key to continue"))

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m *AppModel) renderFlagForm(w, h int) string {
	target := "none"
	if n, ok := m.ctrl.Selected(); ok {
		target = n.Name
	}
	title := titleStyle.Render("Add flag") + dimStyle.Render("  to: "+target)
	footer := dimStyle.Render("enter: next • esc: cancel")

	dialog := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(activeColor).
		Padding(0, 1).
		Render(title + "\n\n" + m.FlagForm.View() + "\n" + footer)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

func (m *AppModel) renderHelpDialog(w, h int) string {
	if w < 20 || h < 10 {
		return "Window too small"
	}

	helpWidth := w * 80 / 100
	if helpWidth < 40 {
		helpWidth = 40
	}
	if helpWidth > w-4 {
		helpWidth = w - 4
	}
	helpHeight := max(h-6, 5)

	lines := strings.Split(m.HelpContent, "\n")
	contentHeight := helpHeight - 2

	startY := m.HelpScrollY
	if startY > len(lines)-contentHeight {
		startY = len(lines) - contentHeight
	}
	if startY < 0 {
		startY = 0
	}
	m.HelpScrollY = startY

	endY := min(startY+contentHeight, len(lines))
	content := strings.Join(lines[startY:endY], "\n")

	dialog := lipgloss.NewStyle().
		Width(helpWidth).
		Height(helpHeight).
		Border(lipgloss.RoundedBorder()).
		BorderForeground(borderColor).
		Padding(0, 1).
		Render(content)

	return lipgloss.Place(w, h,
		lipgloss.Center, lipgloss.Center,
		dialog,
	)
}

// truncate cuts s to at most n runes.
func truncate(s string, n int) string {
	if n <= 0 {
		return ""
	}
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
