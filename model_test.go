package main

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"cbuild/internal/design"
	"cbuild/internal/editor"
	"cbuild/internal/element"
	"cbuild/internal/geometry"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClipboard struct {
	text string
	err  error
}

func (c *fakeClipboard) ReadAll() (string, error) { return c.text, c.err }

func (c *fakeClipboard) WriteAll(text string) error {
	if c.err != nil {
		return c.err
	}
	c.text = text
	return nil
}

var fixedNow = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func newTestModel(t *testing.T) (model, *fakeClipboard) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	n := 0
	store := editor.New(design.Default(),
		editor.WithLogger(logger),
		editor.WithIDGenerator(func() string {
			n++
			return fmt.Sprintf("el-%d", n)
		}),
	)
	config := defaultConfig()
	config.DataDir = t.TempDir()
	config.SaveDirectory = t.TempDir()

	clip := &fakeClipboard{}
	m := initialModel(store, config, nil, logger)
	m.clip = clip
	m.now = func() time.Time { return fixedNow }
	m = send(m, tea.WindowSizeMsg{Width: 120, Height: 40})
	return m, clip
}

func send(m model, msgs ...tea.Msg) model {
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func press(m model, keys ...string) model {
	for _, k := range keys {
		m = send(m, keyMsg(k))
	}
	return m
}

func keyMsg(k string) tea.KeyMsg {
	switch k {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "left":
		return tea.KeyMsg{Type: tea.KeyLeft}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
}

func mouse(x, y int, typ tea.MouseEventType) tea.MouseMsg {
	return tea.MouseMsg{X: x, Y: y, Type: typ}
}

// addText adds a text element at the default position through the palette.
func addText(t *testing.T, m model) (model, element.Element) {
	t.Helper()
	m = press(m, "a", "enter")
	e, ok := m.store.Selected()
	require.True(t, ok)
	return m, e
}

func TestPaletteAddsElement(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(m, "a")
	assert.Equal(t, ModePalette, m.mode)
	m = press(m, "j", "j", "j", "enter")

	assert.Equal(t, ModeNormal, m.mode)
	require.Equal(t, 1, m.store.Len())
	e := m.store.Elements()[0]
	assert.Equal(t, element.TypeButton, e.Type)
	assert.Equal(t, e.ID, m.store.SelectedID())
	assert.Equal(t, "Added button", m.successMessage)
}

func TestPaletteCancel(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "a", "esc")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 0, m.store.Len())
}

func TestArrowKeysNudgeSelection(t *testing.T) {
	m, _ := newTestModel(t)
	m, e := addText(t, m)
	require.Equal(t, 40, e.X)

	m = press(m, "right", "down")
	moved, _ := m.store.Element(e.ID)
	assert.Equal(t, 50, moved.X)
	assert.Equal(t, 60, moved.Y)

	m = press(m, "up", "up", "up")
	moved, _ = m.store.Element(e.ID)
	assert.Equal(t, 0, moved.Y)
}

func TestArrowKeysPanWithoutSelection(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "right", "down")
	assert.Equal(t, 1, m.panX)
	assert.Equal(t, 0, m.panY)

	m = press(m, "left", "left")
	assert.Equal(t, 0, m.panX)
}

func TestDeleteAsksForConfirmation(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = addText(t, m)

	m = press(m, "d")
	assert.Equal(t, ModeConfirm, m.mode)
	m = press(m, "n")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 1, m.store.Len())

	m = press(m, "d", "y")
	assert.Equal(t, 0, m.store.Len())

	m = press(m, "u")
	assert.Equal(t, 1, m.store.Len())
	assert.Equal(t, "Undone", m.successMessage)
}

func TestDeleteWithoutConfirmations(t *testing.T) {
	m, _ := newTestModel(t)
	m.config.Confirmations = false
	m, _ = addText(t, m)

	m = press(m, "d")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 0, m.store.Len())
}

func TestUndoRedoKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "u")
	assert.Equal(t, "Nothing to undo", m.errorMessage)

	m, _ = addText(t, m)
	m = press(m, "u")
	assert.Equal(t, 0, m.store.Len())
	m = send(m, tea.KeyMsg{Type: tea.KeyCtrlY})
	assert.Equal(t, 1, m.store.Len())
	assert.Equal(t, "Redone", m.successMessage)
}

func TestDuplicateAndZOrderKeys(t *testing.T) {
	m, _ := newTestModel(t)
	m, first := addText(t, m)

	m = press(m, "D")
	require.Equal(t, 2, m.store.Len())
	dup := m.store.Elements()[1]
	assert.Equal(t, first.X+editor.DuplicateOffset, dup.X)

	m = press(m, "{")
	assert.Equal(t, dup.ID, m.store.Elements()[0].ID)
	m = press(m, "]")
	assert.Equal(t, dup.ID, m.store.Elements()[1].ID)
}

func TestPreviewModeBlocksEditing(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = addText(t, m)

	m = press(m, "p")
	assert.Equal(t, geometry.ModePreview, m.store.Mode())
	assert.Empty(t, m.store.SelectedID())

	m = press(m, "a", "tab", "d")
	assert.Equal(t, ModeNormal, m.mode)
	assert.Equal(t, 1, m.store.Len())
	assert.Empty(t, m.store.SelectedID())

	m = press(m, "p")
	assert.Equal(t, geometry.ModeDesign, m.store.Mode())
}

func TestMouseDragMovesElement(t *testing.T) {
	m, _ := newTestModel(t)
	m, e := addText(t, m)

	// The element covers cells (4,2)-(23,4); screen rows start below the toolbar.
	m = send(m, mouse(5, 3, tea.MouseLeft))
	require.True(t, m.dragging)
	m = send(m, mouse(14, 5, tea.MouseMotion))

	during, _ := m.store.Element(e.ID)
	assert.Equal(t, 130, during.X)
	assert.Equal(t, 80, during.Y)

	m = send(m, mouse(14, 5, tea.MouseRelease))
	assert.False(t, m.dragging)
	assert.Equal(t, "Moved", m.successMessage)

	m = press(m, "u")
	back, _ := m.store.Element(e.ID)
	assert.Equal(t, 40, back.X)
	assert.Equal(t, 40, back.Y)
	assert.True(t, m.store.CanUndo())
}

func TestMouseDragClampsToCanvas(t *testing.T) {
	m, _ := newTestModel(t)
	m, e := addText(t, m)

	m = send(m, mouse(5, 3, tea.MouseLeft), mouse(80, 36, tea.MouseMotion), mouse(80, 36, tea.MouseRelease))
	moved, _ := m.store.Element(e.ID)
	assert.Equal(t, 700, moved.X)
	assert.Equal(t, 580, moved.Y)
}

func TestMouseClickOnEmptyCanvasDeselects(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = addText(t, m)

	m = send(m, mouse(60, 20, tea.MouseLeft))
	assert.False(t, m.dragging)
	assert.Empty(t, m.store.SelectedID())
}

func TestMouseDragIgnoredInPreview(t *testing.T) {
	m, _ := newTestModel(t)
	m, e := addText(t, m)
	m = press(m, "p")

	m = send(m, mouse(5, 3, tea.MouseLeft), mouse(14, 5, tea.MouseMotion), mouse(14, 5, tea.MouseRelease))
	assert.False(t, m.dragging)
	same, _ := m.store.Element(e.ID)
	assert.Equal(t, e, same)
}

func TestPropertiesEditing(t *testing.T) {
	m, _ := newTestModel(t)
	m, e := addText(t, m)

	m = press(m, "e")
	require.Equal(t, ModeProperties, m.mode)
	require.Equal(t, "x", m.propertyFields()[0].label)

	m = press(m, "enter")
	require.Equal(t, ModeEditing, m.mode)
	assert.Equal(t, "40", m.input.Value())

	m.input.SetValue("abc")
	m = press(m, "enter")
	assert.Equal(t, ModeProperties, m.mode)
	assert.Contains(t, m.errorMessage, "Invalid x")
	same, _ := m.store.Element(e.ID)
	assert.Equal(t, 40, same.X)

	m = press(m, "enter")
	m.input.SetValue("123px")
	m = press(m, "enter")
	moved, _ := m.store.Element(e.ID)
	assert.Equal(t, 123, moved.X)
	assert.Equal(t, "x updated", m.successMessage)
}

func TestPropertiesEnumCycles(t *testing.T) {
	m, _ := newTestModel(t)
	m, e := addText(t, m)
	m = press(m, "e")

	fields := m.propertyFields()
	idx := -1
	for i, f := range fields {
		if f.label == string(element.StyleTextAlign) {
			idx = i
		}
	}
	require.GreaterOrEqual(t, idx, 0)
	m.propertyIndex = idx

	m = press(m, "right")
	updated, _ := m.store.Element(e.ID)
	assert.Equal(t, "center", updated.Style[element.StyleTextAlign])
}

func TestCanvasPropertiesWithoutSelection(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "e", "enter")
	m.input.SetValue("not-a-colour")
	m = press(m, "enter")
	assert.Contains(t, m.errorMessage, "Invalid background")
	assert.Equal(t, design.DefaultBackground, m.store.Background())

	m = press(m, "enter")
	m.input.SetValue("#eeeeee")
	m = press(m, "enter")
	assert.Equal(t, "#eeeeee", m.store.Background())
}

func TestCopyAndPasteElement(t *testing.T) {
	m, clip := newTestModel(t)
	m, e := addText(t, m)

	m = press(m, "c")
	var copied element.Element
	require.NoError(t, json.Unmarshal([]byte(clip.text), &copied))
	assert.Equal(t, e.ID, copied.ID)

	m = press(m, "v")
	require.Equal(t, 2, m.store.Len())
	pasted := m.store.Elements()[1]
	assert.NotEqual(t, e.ID, pasted.ID)
	assert.Equal(t, e.X+editor.DuplicateOffset, pasted.X)
	assert.Equal(t, e.Y+editor.DuplicateOffset, pasted.Y)
	assert.Equal(t, pasted.ID, m.store.SelectedID())
}

func TestPasteTextIsSanitized(t *testing.T) {
	m, clip := newTestModel(t)
	clip.text = `<b onclick="x()">hi</b><script>alert(1)</script>`

	m = press(m, "v")
	require.Equal(t, 1, m.store.Len())
	e := m.store.Elements()[0]
	assert.Equal(t, element.TypeText, e.Type)
	assert.Equal(t, "<b>hi</b>", e.Content)
}

func TestPasteEmptyClipboard(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "v")
	assert.Equal(t, "Clipboard is empty", m.errorMessage)
	assert.Equal(t, 0, m.store.Len())
}

func TestExportThenImport(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = addText(t, m)
	m = press(m, "s")
	require.Equal(t, ModeFileInput, m.mode)
	path := filepath.Join(m.config.SaveDirectory, "design-2026-03-01.json")
	assert.Equal(t, path, m.input.Value())

	m = press(m, "enter")
	assert.Equal(t, ModeNormal, m.mode)
	require.FileExists(t, path)

	m.store.Clear()
	m = press(m, "o")
	m.input.SetValue(path)
	m = press(m, "enter")
	assert.Equal(t, 1, m.store.Len())
	assert.Contains(t, m.successMessage, "Imported 1 elements")
}

func TestImportOverNonEmptyDesignConfirms(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = addText(t, m)
	path := filepath.Join(t.TempDir(), "other.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"elements":[],"canvasBg":"#000000"}`), 0o644))

	m = press(m, "o")
	m.input.SetValue(path)
	m = press(m, "enter")
	require.Equal(t, ModeConfirm, m.mode)
	m = press(m, "y")

	assert.Equal(t, 0, m.store.Len())
	assert.Equal(t, "#000000", m.store.Background())
}

func TestImportInvalidFileKeepsDesign(t *testing.T) {
	m, _ := newTestModel(t)
	m.config.Confirmations = false
	m, _ = addText(t, m)
	path := filepath.Join(t.TempDir(), "bad.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"elements":[{"type":"text"}]}`), 0o644))

	m = press(m, "o")
	m.input.SetValue(path)
	m = press(m, "enter")
	assert.Contains(t, m.errorMessage, "Error")
	assert.Equal(t, 1, m.store.Len())
}

func TestExportPNGWithoutRenderer(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "S")
	assert.Contains(t, m.input.Value(), "design-2026-03-01.png")
	m = press(m, "enter")
	assert.Contains(t, m.errorMessage, "no renderer")
}

func TestClearCanvas(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = addText(t, m)
	m = press(m, "X", "y")
	assert.Equal(t, 0, m.store.Len())
	assert.Equal(t, "Canvas cleared", m.successMessage)
}

func TestViewShowsModeAndCanvas(t *testing.T) {
	m, _ := newTestModel(t)
	m, _ = addText(t, m)
	m.successMessage = ""

	out := m.View()
	assert.Contains(t, out, "DESIGN")
	assert.Contains(t, out, "Click to edit text")
	assert.Contains(t, out, "Mode: NORMAL | text at (40,40)")

	m = press(m, "p")
	assert.Contains(t, m.View(), "PREVIEW")
}

func TestHelpToggle(t *testing.T) {
	m, _ := newTestModel(t)
	m = press(m, "?")
	assert.True(t, m.showHelp)
	assert.Contains(t, m.View(), "cbuild help")
	m = press(m, "esc")
	assert.False(t, m.showHelp)
}

func TestParsePixels(t *testing.T) {
	tests := []struct {
		in        string
		allowAuto bool
		want      int
		wantErr   bool
	}{
		{"120", false, 120, false},
		{" 120px ", false, 120, false},
		{"auto", true, 0, false},
		{"", true, 0, false},
		{"auto", false, 0, true},
		{"-5", false, 0, true},
		{"1.5", false, 0, true},
	}
	for _, tt := range tests {
		got, err := parsePixels(tt.in, tt.allowAuto)
		if tt.wantErr {
			assert.Error(t, err, tt.in)
			continue
		}
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestValidateStyle(t *testing.T) {
	v, err := validateStyle(element.StyleFontSize, "18px")
	require.NoError(t, err)
	assert.Equal(t, "18", v)

	_, err = validateStyle(element.StyleColor, "nope")
	assert.Error(t, err)

	_, err = validateStyle(element.StyleTextAlign, "justify")
	assert.Error(t, err)

	v, err = validateStyle(element.StyleColor, "")
	require.NoError(t, err)
	assert.Empty(t, v)
}

func TestCleanClipboardText(t *testing.T) {
	assert.Equal(t, "a\nb\nc", cleanClipboardText("a\r\nb\rc"))
	assert.Equal(t, "tab\there", cleanClipboardText("tab\there\x07"))
	assert.Equal(t, "Hello {world}", cleanClipboardText(`{\rtf1\ansi\pard Hello \{world\}\par}`))
}

func TestMouseReleaseEndsDragInAnyMode(t *testing.T) {
	m, _ := newTestModel(t)
	m, e := addText(t, m)

	m = send(m, mouse(5, 3, tea.MouseLeft), mouse(14, 5, tea.MouseMotion))
	require.True(t, m.dragging)
	m = send(m, keyMsg("a"))
	require.Equal(t, ModePalette, m.mode)
	assert.False(t, m.dragging, "opening the palette ends the drag")
	_, active := m.store.Dragging()
	assert.False(t, active)

	back, _ := m.store.Element(e.ID)
	assert.Equal(t, 40, back.X)
	assert.Equal(t, 40, back.Y)

	m = send(m, mouse(14, 5, tea.MouseRelease))
	assert.False(t, m.dragging)
	after, _ := m.store.Element(e.ID)
	assert.Equal(t, back, after)
}

func TestMouseReleaseCommitsDragInPropertiesMode(t *testing.T) {
	m, _ := newTestModel(t)
	m, e := addText(t, m)
	m = press(m, "e")
	require.Equal(t, ModeProperties, m.mode)

	m = send(m, mouse(5, 3, tea.MouseLeft), mouse(14, 5, tea.MouseMotion))
	require.True(t, m.dragging)
	m = send(m, mouse(14, 5, tea.MouseRelease))
	assert.False(t, m.dragging)
	assert.Equal(t, "Moved", m.successMessage)

	moved, _ := m.store.Element(e.ID)
	assert.Equal(t, 130, moved.X)
	_, active := m.store.Dragging()
	assert.False(t, active)
}

func TestKeyChangeDuringDragEndsIt(t *testing.T) {
	m, _ := newTestModel(t)
	m, e := addText(t, m)

	m = send(m, mouse(5, 3, tea.MouseLeft), mouse(14, 5, tea.MouseMotion))
	require.True(t, m.dragging)
	m = press(m, "D")
	assert.False(t, m.dragging)
	require.Equal(t, 2, m.store.Len())

	orig, _ := m.store.Element(e.ID)
	assert.Equal(t, 40, orig.X)
	m = send(m, mouse(20, 8, tea.MouseMotion), mouse(20, 8, tea.MouseRelease))
	still, _ := m.store.Element(e.ID)
	assert.Equal(t, orig, still)
}
