package main

import (
	"cbuild/internal/geometry"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// direction maps an arrow or pan key to a unit step.
func (m *model) direction(msg tea.KeyMsg) (int, int) {
	switch {
	case key.Matches(msg, m.keys.Left, m.keys.PanLeft):
		return -1, 0
	case key.Matches(msg, m.keys.Right, m.keys.PanRight):
		return 1, 0
	case key.Matches(msg, m.keys.Up, m.keys.PanUp):
		return 0, -1
	case key.Matches(msg, m.keys.Down, m.keys.PanDown):
		return 0, 1
	}
	return 0, 0
}

// handleNavigation nudges the selected element one cell, or pans the view
// when nothing is selected.
func (m *model) handleNavigation(msg tea.KeyMsg) {
	dx, dy := m.direction(msg)
	id := m.store.SelectedID()
	if id == "" {
		m.pan(dx, dy)
		return
	}
	m.store.Nudge(id, dx*cellWidth/geometry.GridSize, dy*cellHeight/geometry.GridSize)
}

func (m *model) handlePan(msg tea.KeyMsg) {
	dx, dy := m.direction(msg)
	m.pan(dx*panSpeed, dy*panSpeed)
}

// pan scrolls the canvas window, never past the canvas origin or far edge.
func (m *model) pan(dx, dy int) {
	cw, ch := canvasCells(m.store.CanvasSize())
	w, h := m.canvasWindow()
	m.panX = max(0, min(m.panX+dx, cw-w))
	m.panY = max(0, min(m.panY+dy, ch-h))
}

// canvasWindow is the size in cells of the area the canvas is drawn into.
func (m *model) canvasWindow() (int, int) {
	w := m.width
	if m.showPanel() {
		w -= panelWidth
	}
	// Toolbar above, status and key hints below.
	h := m.height - canvasTop - 2
	return max(w, 1), max(h, 1)
}

func (m *model) showPanel() bool {
	return m.width >= panelWidth+30
}
