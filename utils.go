package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os/exec"
	"runtime"
	"strings"

	"cbuild/internal/content"
	"cbuild/internal/editor"
	"cbuild/internal/element"

	"github.com/atotto/clipboard"
)

type systemClipboard struct{}

func (systemClipboard) ReadAll() (string, error) { return readClipboardText() }

func (systemClipboard) WriteAll(text string) error { return clipboard.WriteAll(text) }

func readClipboardText() (string, error) {
	if runtime.GOOS == "darwin" {
		if output, err := exec.Command("pbpaste", "-Prefer", "txt").Output(); err == nil {
			return string(output), nil
		}
	}
	return clipboard.ReadAll()
}

// copySelected puts the selected element on the clipboard as JSON.
func (m *model) copySelected() {
	e, ok := m.store.Selected()
	if !ok {
		m.errorMessage = "Nothing selected to copy"
		return
	}
	data, err := json.Marshal(e)
	if err != nil {
		m.errorMessage = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	if err := m.clip.WriteAll(string(data)); err != nil {
		m.logger.Warn("clipboard write failed", "error", err)
		m.errorMessage = fmt.Sprintf("Copy failed: %v", err)
		return
	}
	m.successMessage = fmt.Sprintf("Copied %s", e.Type)
}

// paste inserts a copied element, or a text element holding whatever text
// the clipboard carries.
func (m *model) paste() {
	text, err := m.clip.ReadAll()
	if err != nil {
		m.logger.Warn("clipboard read failed", "error", err)
		m.errorMessage = fmt.Sprintf("Paste failed: %v", err)
		return
	}
	text = strings.TrimSpace(text)
	if text == "" {
		m.errorMessage = "Clipboard is empty"
		return
	}

	if e, err := decodeClipboardElement(text); err == nil {
		if _, exists := m.store.Element(e.ID); exists {
			e.X += editor.DuplicateOffset
			e.Y += editor.DuplicateOffset
		}
		if _, err := m.store.Paste(e); err != nil {
			m.errorMessage = fmt.Sprintf("Paste failed: %v", err)
			return
		}
		m.successMessage = fmt.Sprintf("Pasted %s", e.Type)
		return
	}

	body := content.Sanitize(cleanClipboardText(text))
	if _, err := m.store.Add(element.TypeText, element.Overrides{Content: &body}); err != nil {
		m.errorMessage = fmt.Sprintf("Paste failed: %v", err)
		return
	}
	m.successMessage = "Pasted text"
}

func decodeClipboardElement(text string) (element.Element, error) {
	if !strings.HasPrefix(text, "{") {
		return element.Element{}, errors.New("not an element")
	}
	var e element.Element
	if err := json.Unmarshal([]byte(text), &e); err != nil {
		return element.Element{}, err
	}
	e.Normalize()
	if err := e.Validate(); err != nil {
		return element.Element{}, err
	}
	return e, nil
}

// cleanClipboardText drops RTF markup and control characters and
// normalizes line endings.
func cleanClipboardText(text string) string {
	if text == "" {
		return text
	}
	text = stripRTF(text)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	return strings.Map(func(r rune) rune {
		if r == '\n' || r == '\t' || r >= 32 {
			return r
		}
		return -1
	}, text)
}

func isRTF(text string) bool {
	return strings.HasPrefix(text, "{\\rtf") || strings.Contains(text, "\\rtf1")
}

// stripRTF keeps the literal text of an RTF document: groups and control
// words go, escaped braces and backslashes stay.
func stripRTF(text string) string {
	if !isRTF(text) {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	runes := []rune(text)
	for i := 0; i < len(runes); i++ {
		r := runes[i]
		switch {
		case r == '{' || r == '}':
		case r == '\\' && i+1 < len(runes):
			next := runes[i+1]
			if isASCIILetter(next) {
				i++
				for i < len(runes) && isASCIILetter(runes[i]) {
					i++
				}
				if i < len(runes) && runes[i] == '-' {
					i++
				}
				for i < len(runes) && runes[i] >= '0' && runes[i] <= '9' {
					i++
				}
				if i < len(runes) && runes[i] != ' ' {
					i--
				}
				continue
			}
			if strings.ContainsRune("\\{}\n\t", next) {
				b.WriteRune(next)
				i++
			}
		case r == '\\':
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func isASCIILetter(r rune) bool {
	return (r >= 'a' && r <= 'z') || (r >= 'A' && r <= 'Z')
}
