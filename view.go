package main

import (
	"fmt"
	"strings"

	"cbuild/internal/element"
	"cbuild/internal/geometry"

	"github.com/charmbracelet/lipgloss"
)

func (m model) View() string {
	if m.width == 0 || m.height == 0 {
		return "loading..."
	}
	if m.showHelp {
		return m.helpView()
	}

	w, h := m.canvasWindow()
	snap := m.store.Snapshot()
	canvas := renderCanvas(snap, w, h, m.panX, m.panY, m.store.SelectedID(), m.store.Mode())
	body := strings.Join(canvas.lines(), "\n")
	if m.showPanel() {
		body = lipgloss.JoinHorizontal(lipgloss.Top, body, m.panelView(h))
	}

	var result strings.Builder
	result.WriteString(m.toolbarView())
	result.WriteString("\n")
	result.WriteString(body)
	result.WriteString("\n")
	result.WriteString(m.statusLine())
	result.WriteString("\n")
	result.WriteString(m.help.View(m.keys))
	return result.String()
}

func (m model) toolbarView() string {
	mode := m.store.Mode()
	badge := toolbarStyle.Render("DESIGN")
	if mode == geometry.ModePreview {
		badge = previewBadgeStyle.Render("PREVIEW")
	}
	size := m.store.CanvasSize()
	info := fmt.Sprintf(" %d elements · %dx%d · %s", m.store.Len(), size.Width, size.Height, m.store.Background())
	if m.store.CanUndo() {
		info += " · undo"
	}
	if m.store.CanRedo() {
		info += " · redo"
	}
	return badge + statusStyle.Render(info)
}

func (m model) modeString() string {
	switch m.mode {
	case ModeNormal:
		return "NORMAL"
	case ModePalette:
		return "ADD"
	case ModeProperties:
		return "PROPERTIES"
	case ModeEditing:
		return "EDIT"
	case ModeFileInput:
		return "FILE"
	case ModeConfirm:
		return "CONFIRM"
	default:
		return "UNKNOWN"
	}
}

func (m model) statusLine() string {
	switch m.mode {
	case ModeEditing:
		label := ""
		if m.editField != nil {
			label = m.editField.label
		}
		return fmt.Sprintf("Mode: EDIT | %s: %s | Enter=apply, Esc=cancel", label, m.input.View())
	case ModeFileInput:
		verb := "Export to"
		switch m.fileOp {
		case FileOpExportPNG:
			verb = "Render PNG to"
		case FileOpImport:
			verb = "Import from"
		}
		return fmt.Sprintf("Mode: FILE | %s: %s | Enter=confirm, Esc=cancel", verb, m.input.View())
	case ModeConfirm:
		return errorStyle.Render(m.confirmPrompt() + " (y/n)")
	}

	if m.errorMessage != "" {
		return errorStyle.Render(m.errorMessage)
	}
	if m.successMessage != "" {
		return successStyle.Render(m.successMessage)
	}
	status := fmt.Sprintf("Mode: %s", m.modeString())
	if e, ok := m.store.Selected(); ok {
		status += fmt.Sprintf(" | %s at (%d,%d)", e.Type, e.X, e.Y)
	}
	if id, ok := m.store.Dragging(); ok && id != "" {
		status += " | dragging"
	}
	return statusStyle.Render(status)
}

func (m model) confirmPrompt() string {
	switch m.confirmAction {
	case ConfirmDeleteElement:
		if e, ok := m.store.Element(m.confirmID); ok {
			return fmt.Sprintf("Delete this %s?", e.Type)
		}
		return "Delete this element?"
	case ConfirmClearCanvas:
		return fmt.Sprintf("Remove all %d elements?", m.store.Len())
	case ConfirmImport:
		return fmt.Sprintf("Replace the current design with %s?", m.pendingImport)
	}
	return "Are you sure?"
}

func (m model) panelView(height int) string {
	var lines []string
	if m.mode == ModePalette {
		lines = append(lines, panelTitleStyle.Render("Add element"), "")
		for i, t := range element.Types {
			line := "  " + string(t)
			if i == m.paletteIndex {
				line = cursorStyle.Render("▸ " + string(t))
			}
			lines = append(lines, line)
		}
	} else {
		lines = m.propertyLines()
	}

	return panelStyle.
		Width(panelWidth - 2).
		Height(max(height-2, 1)).
		MaxHeight(height).
		Render(strings.Join(lines, "\n"))
}

func (m model) propertyLines() []string {
	title := "Canvas"
	if e, ok := m.store.Selected(); ok {
		name := string(e.Type)
		title = fmt.Sprintf("%s %s", strings.ToUpper(name[:1])+name[1:], shortID(e.ID))
	}
	lines := []string{panelTitleStyle.Render(title), ""}

	active := m.mode == ModeProperties || m.mode == ModeEditing
	for i, f := range m.propertyFields() {
		value := truncate(strings.ReplaceAll(f.value, "\n", " "), panelWidth-22)
		if f.enum() {
			value = "‹ " + truncate(f.value, panelWidth-26) + " ›"
		}
		line := labelStyle.Render(fmt.Sprintf("%-14s", f.label)) + value
		if active && i == m.propertyIndex {
			line = cursorStyle.Render("▸ ") + line
		} else {
			line = "  " + line
		}
		lines = append(lines, line)
	}
	if !active {
		lines = append(lines, "", labelStyle.Render("e to edit"))
	}
	return lines
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[len(id)-8:]
	}
	return id
}

func truncate(s string, width int) string {
	runes := []rune(s)
	if len(runes) <= width {
		return s
	}
	return string(runes[:max(width-1, 0)]) + "…"
}

func (m model) helpView() string {
	var result strings.Builder
	result.WriteString(panelTitleStyle.Render("cbuild help"))
	result.WriteString("\n\n")
	hm := m.help
	hm.ShowAll = true
	result.WriteString(hm.View(m.keys))
	result.WriteString("\n\n")
	result.WriteString(labelStyle.Render("Mouse: drag elements in design mode, wheel scrolls."))
	result.WriteString("\n")
	result.WriteString(labelStyle.Render("Properties: ↑/↓ choose, enter edits, ←/→ cycles options."))
	result.WriteString("\n\n")
	result.WriteString(statusStyle.Render("Press ? or esc to close"))
	return result.String()
}
