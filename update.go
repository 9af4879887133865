package main

import (
	"fmt"
	"strings"

	"cbuild/internal/element"
	"cbuild/internal/geometry"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.pan(0, 0)
		return m, nil

	case tea.MouseMsg:
		return m, m.handleMouse(msg)

	case tea.KeyMsg:
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		if m.mode != ModeEditing && m.mode != ModeFileInput {
			m.errorMessage = ""
			m.successMessage = ""
		}
		cmd := m.handleKey(msg)
		m.settleDrag()
		return m, cmd
	}
	return m, nil
}

func (m *model) handleKey(msg tea.KeyMsg) tea.Cmd {
	if m.showHelp {
		if key.Matches(msg, m.keys.Help, m.keys.Cancel, m.keys.Quit) {
			m.showHelp = false
		}
		return nil
	}

	switch m.mode {
	case ModePalette:
		return m.handlePaletteKey(msg)
	case ModeProperties:
		return m.handlePropertiesKey(msg)
	case ModeEditing:
		return m.handleEditingKey(msg)
	case ModeFileInput:
		return m.handleFileInputKey(msg)
	case ModeConfirm:
		return m.handleConfirmKey(msg)
	}
	return m.handleNormalKey(msg)
}

func (m *model) handleNormalKey(msg tea.KeyMsg) tea.Cmd {
	k := m.keys
	switch {
	case key.Matches(msg, k.Quit):
		return tea.Quit
	case key.Matches(msg, k.Help):
		m.showHelp = true
		return nil
	case key.Matches(msg, k.TogglePreview):
		m.toggleMode()
		return nil
	case key.Matches(msg, k.PanUp, k.PanDown, k.PanLeft, k.PanRight):
		m.handlePan(msg)
		return nil
	case key.Matches(msg, k.Export):
		return m.startFileOp(FileOpExport)
	case key.Matches(msg, k.ExportPNG):
		return m.startFileOp(FileOpExportPNG)
	}

	if m.store.Mode() != geometry.ModeDesign {
		if key.Matches(msg, k.Up, k.Down, k.Left, k.Right) {
			m.pan(m.direction(msg))
		}
		return nil
	}

	switch {
	case key.Matches(msg, k.Up, k.Down, k.Left, k.Right):
		m.handleNavigation(msg)
	case key.Matches(msg, k.Add):
		m.mode = ModePalette
	case key.Matches(msg, k.Properties):
		m.mode = ModeProperties
		m.propertyIndex = 0
	case key.Matches(msg, k.Delete):
		m.requestDelete()
	case key.Matches(msg, k.Duplicate):
		if _, ok := m.store.Duplicate(m.store.SelectedID()); ok {
			m.successMessage = "Duplicated"
		}
	case key.Matches(msg, k.NextElem):
		m.store.SelectNext()
	case key.Matches(msg, k.PrevElem):
		m.store.SelectPrev()
	case key.Matches(msg, k.Deselect):
		m.store.Deselect()
	case key.Matches(msg, k.Forward):
		m.store.BringForward(m.store.SelectedID())
	case key.Matches(msg, k.Backward):
		m.store.SendBackward(m.store.SelectedID())
	case key.Matches(msg, k.Front):
		m.store.BringToFront(m.store.SelectedID())
	case key.Matches(msg, k.Back):
		m.store.SendToBack(m.store.SelectedID())
	case key.Matches(msg, k.Undo):
		m.undo()
	case key.Matches(msg, k.Redo):
		m.redo()
	case key.Matches(msg, k.Copy):
		m.copySelected()
	case key.Matches(msg, k.Paste):
		m.paste()
	case key.Matches(msg, k.Import):
		return m.startFileOp(FileOpImport)
	case key.Matches(msg, k.Clear):
		if m.store.Len() == 0 {
			return nil
		}
		if m.config.Confirmations {
			m.confirm(ConfirmClearCanvas, "")
			return nil
		}
		m.store.Clear()
	}
	return nil
}

func (m *model) toggleMode() {
	if m.dragging {
		m.dragging = false
	}
	mode := m.store.ToggleMode()
	if mode == geometry.ModePreview {
		m.store.Deselect()
	}
	m.successMessage = fmt.Sprintf("%s mode", strings.ToUpper(string(mode)))
}

func (m *model) requestDelete() {
	id := m.store.SelectedID()
	if id == "" {
		m.errorMessage = "Nothing selected"
		return
	}
	if m.config.Confirmations {
		m.confirm(ConfirmDeleteElement, id)
		return
	}
	m.store.Remove(id)
}

func (m *model) confirm(action ConfirmAction, id string) {
	m.mode = ModeConfirm
	m.confirmAction = action
	m.confirmID = id
}

func (m *model) handleConfirmKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case key.Matches(msg, m.keys.Confirm):
		switch m.confirmAction {
		case ConfirmDeleteElement:
			m.store.Remove(m.confirmID)
		case ConfirmClearCanvas:
			m.store.Clear()
			m.successMessage = "Canvas cleared"
		case ConfirmImport:
			m.fileOp = FileOpImport
			m.runFileOp(m.pendingImport)
			m.pendingImport = ""
		}
		m.mode = ModeNormal
	case key.Matches(msg, m.keys.Cancel):
		m.pendingImport = ""
		m.mode = ModeNormal
	}
	return nil
}

func (m *model) handlePaletteKey(msg tea.KeyMsg) tea.Cmd {
	n := len(element.Types)
	switch {
	case key.Matches(msg, m.keys.Up):
		m.paletteIndex = (m.paletteIndex - 1 + n) % n
	case key.Matches(msg, m.keys.Down):
		m.paletteIndex = (m.paletteIndex + 1) % n
	case msg.Type == tea.KeyEnter:
		t := element.Types[m.paletteIndex]
		if _, err := m.store.Add(t, element.Overrides{}); err != nil {
			m.errorMessage = fmt.Sprintf("Error: %v", err)
		} else {
			m.successMessage = fmt.Sprintf("Added %s", t)
		}
		m.mode = ModeNormal
	case key.Matches(msg, m.keys.Cancel, m.keys.Quit):
		m.mode = ModeNormal
	}
	return nil
}

func (m *model) handlePropertiesKey(msg tea.KeyMsg) tea.Cmd {
	fields := m.propertyFields()
	m.propertyIndex = max(0, min(m.propertyIndex, len(fields)-1))

	switch {
	case key.Matches(msg, m.keys.Up):
		m.propertyIndex = max(0, m.propertyIndex-1)
	case key.Matches(msg, m.keys.Down):
		m.propertyIndex = min(len(fields)-1, m.propertyIndex+1)
	case key.Matches(msg, m.keys.Left, m.keys.Right):
		f := fields[m.propertyIndex]
		if f.enum() {
			step := 1
			if key.Matches(msg, m.keys.Left) {
				step = -1
			}
			m.applyField(f, f.next(step))
		}
	case msg.Type == tea.KeyEnter:
		f := fields[m.propertyIndex]
		if f.enum() {
			m.applyField(f, f.next(1))
			return nil
		}
		m.editField = &f
		m.input.Placeholder = f.label
		m.input.SetValue(f.value)
		m.input.CursorEnd()
		m.mode = ModeEditing
		return m.input.Focus()
	case key.Matches(msg, m.keys.NextElem):
		m.store.SelectNext()
		m.propertyIndex = 0
	case key.Matches(msg, m.keys.PrevElem):
		m.store.SelectPrev()
		m.propertyIndex = 0
	case key.Matches(msg, m.keys.Cancel, m.keys.Quit):
		m.mode = ModeNormal
	}
	return nil
}

func (m *model) applyField(f propertyField, value string) {
	if err := f.apply(m, value); err != nil {
		m.errorMessage = fmt.Sprintf("Invalid %s: %v", f.label, err)
		return
	}
	m.successMessage = fmt.Sprintf("%s updated", f.label)
}

func (m *model) handleEditingKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		if m.editField != nil {
			m.errorMessage, m.successMessage = "", ""
			m.applyField(*m.editField, m.input.Value())
		}
		m.stopInput(ModeProperties)
		return nil
	case tea.KeyEsc:
		m.stopInput(ModeProperties)
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *model) startFileOp(op FileOperation) tea.Cmd {
	m.fileOp = op
	m.input.Placeholder = "path"
	value := ""
	if op != FileOpImport {
		value = m.defaultExportPath(op)
	}
	m.input.SetValue(value)
	m.input.CursorEnd()
	m.mode = ModeFileInput
	return m.input.Focus()
}

func (m *model) handleFileInputKey(msg tea.KeyMsg) tea.Cmd {
	switch msg.Type {
	case tea.KeyEnter:
		path := strings.TrimSpace(m.input.Value())
		m.stopInput(ModeNormal)
		m.errorMessage, m.successMessage = "", ""
		if path == "" {
			m.errorMessage = "No file name given"
			return nil
		}
		if m.fileOp == FileOpImport && m.config.Confirmations && m.store.Len() > 0 {
			m.pendingImport = path
			m.confirm(ConfirmImport, "")
			return nil
		}
		m.runFileOp(path)
		return nil
	case tea.KeyEsc:
		m.stopInput(ModeNormal)
		return nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return cmd
}

func (m *model) stopInput(next Mode) {
	m.input.Blur()
	m.input.SetValue("")
	m.editField = nil
	m.mode = next
}

// settleDrag drops a mouse drag that the last key ended: one that moved the
// UI out of the modes a drag can run in, or a store change that cancelled
// the session.
func (m *model) settleDrag() {
	if !m.dragging {
		return
	}
	if m.mode != ModeNormal && m.mode != ModeProperties {
		m.store.CancelDrag()
	}
	if _, ok := m.store.Dragging(); !ok {
		m.dragging = false
	}
}

// handleMouse runs drag sessions: press on an element starts one, motion
// moves it and release anywhere ends it, whatever the UI mode.
func (m *model) handleMouse(msg tea.MouseMsg) tea.Cmd {
	if msg.Type == tea.MouseRelease {
		if m.dragging {
			m.dragging = false
			if m.store.EndDrag() {
				m.successMessage = "Moved"
			}
		}
		return nil
	}
	if m.mode != ModeNormal && m.mode != ModeProperties {
		return nil
	}

	switch {
	case msg.Type == tea.MouseWheelUp:
		m.pan(0, -1)
	case msg.Type == tea.MouseWheelDown:
		m.pan(0, 1)
	case m.dragging && (msg.Type == tea.MouseMotion || msg.Type == tea.MouseLeft):
		dx := (msg.X - m.dragStartX) * cellWidth
		dy := (msg.Y - m.dragStartY) * cellHeight
		if _, ok := m.store.DragTo(dx, dy); !ok {
			m.dragging = false
		}
	case msg.Type == tea.MouseLeft:
		w, h := m.canvasWindow()
		if msg.X >= w || msg.Y < canvasTop || msg.Y >= canvasTop+h {
			return nil
		}
		if m.store.Mode() != geometry.ModeDesign {
			return nil
		}
		px, py := m.canvasPoint(msg.X, msg.Y)
		id, ok := m.store.HitTest(px, py)
		if !ok {
			m.store.Deselect()
			return nil
		}
		if m.store.BeginDrag(id) {
			m.dragging = true
			m.dragStartX, m.dragStartY = msg.X, msg.Y
		}
	}
	return nil
}
