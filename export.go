package main

import (
	"fmt"
	"os"
	"strings"

	"cbuild/internal/design"
)

// defaultExportPath is where the next export lands: design-YYYY-MM-DD.json
// in the save directory, or .png for an image.
func (m *model) defaultExportPath(op FileOperation) string {
	name := design.ExportFilename(m.now())
	if op == FileOpExportPNG {
		name = strings.TrimSuffix(name, ".json") + ".png"
	}
	path, err := m.config.GetSavePath(name)
	if err != nil {
		m.logger.Warn("save directory unavailable", "error", err)
		return name
	}
	return path
}

func (m *model) exportJSON(filename string) error {
	file, err := os.Create(filename)
	if err != nil {
		return err
	}
	if err := design.Export(file, m.store.Snapshot(), m.now()); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (m *model) exportPNG(filename string) error {
	if m.renderer == nil {
		return fmt.Errorf("no renderer available")
	}
	return m.renderer.SavePNG(filename, m.store.Snapshot())
}

// importFile replaces the design with the file's contents. A file that
// fails to parse leaves the design untouched.
func (m *model) importFile(filename string) error {
	file, err := os.Open(filename)
	if err != nil {
		return err
	}
	defer file.Close()

	snap, err := design.Import(file)
	if err != nil {
		return err
	}
	if err := m.store.Replace(snap); err != nil {
		return err
	}
	m.panX, m.panY = 0, 0
	return nil
}

// runFileOp performs the pending file operation on path and reports the
// outcome in the status line.
func (m *model) runFileOp(path string) {
	var err error
	switch m.fileOp {
	case FileOpExport:
		err = m.exportJSON(path)
		if err == nil {
			m.successMessage = fmt.Sprintf("Exported to %s", path)
		}
	case FileOpExportPNG:
		err = m.exportPNG(path)
		if err == nil {
			m.successMessage = fmt.Sprintf("Rendered to %s", path)
		}
	case FileOpImport:
		err = m.importFile(path)
		if err == nil {
			m.successMessage = fmt.Sprintf("Imported %d elements from %s", m.store.Len(), path)
		}
	}
	if err != nil {
		m.logger.Warn("file operation failed", "path", path, "error", err)
		m.errorMessage = fmt.Sprintf("Error: %v", err)
	}
}
