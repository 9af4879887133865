package main

import (
	"log/slog"
	"time"

	"cbuild/internal/editor"
	"cbuild/internal/render"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/textinput"
)

// clipboardAccess is the system clipboard; tests substitute it.
type clipboardAccess interface {
	ReadAll() (string, error)
	WriteAll(text string) error
}

type model struct {
	width  int
	height int

	store    *editor.Store
	config   *Config
	renderer *render.Renderer
	logger   *slog.Logger
	clip     clipboardAccess
	now      func() time.Time

	keys     keyMap
	help     help.Model
	showHelp bool
	mode     Mode

	panX int
	panY int

	// Mouse drag, in screen cells.
	dragging   bool
	dragStartX int
	dragStartY int

	paletteIndex  int
	propertyIndex int
	editField     *propertyField
	input         textinput.Model
	fileOp        FileOperation
	pendingImport string
	confirmAction ConfirmAction
	confirmID     string

	errorMessage   string
	successMessage string
}
