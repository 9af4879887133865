package main

func (m *model) undo() {
	if !m.store.Undo() {
		m.errorMessage = "Nothing to undo"
		return
	}
	m.dragging = false
	m.successMessage = "Undone"
}

func (m *model) redo() {
	if !m.store.Redo() {
		m.errorMessage = "Nothing to redo"
		return
	}
	m.dragging = false
	m.successMessage = "Redone"
}
