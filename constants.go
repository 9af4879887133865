package main

// Mode is the interaction state of the terminal UI, separate from the
// design/preview mode of the editor.
type Mode int

const (
	ModeNormal Mode = iota
	ModePalette
	ModeProperties
	ModeEditing
	ModeFileInput
	ModeConfirm
)

type FileOperation int

const (
	FileOpExport FileOperation = iota
	FileOpExportPNG
	FileOpImport
)

type ConfirmAction int

const (
	ConfirmDeleteElement ConfirmAction = iota
	ConfirmClearCanvas
	ConfirmImport
)

const (
	// One terminal cell covers cellWidth×cellHeight canvas pixels.
	cellWidth  = 10
	cellHeight = 20

	// Rows above the canvas: the toolbar.
	canvasTop = 1

	panelWidth = 36
	panSpeed   = 4
)
