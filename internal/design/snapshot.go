// Package design holds the design snapshot (elements plus canvas state),
// the unit of undo/redo, storage and file export.
package design

import (
	"fmt"

	"cbuild/internal/element"
	"cbuild/internal/geometry"
)

const DefaultBackground = "#ffffff"

type Snapshot struct {
	Elements   []element.Element
	Background string
	Size       geometry.Size
}

// Default is the empty white canvas a new session starts from.
func Default() Snapshot {
	return Snapshot{
		Elements:   []element.Element{},
		Background: DefaultBackground,
		Size:       geometry.DefaultCanvas,
	}
}

func (s Snapshot) Clone() Snapshot {
	out := Snapshot{
		Elements:   make([]element.Element, len(s.Elements)),
		Background: s.Background,
		Size:       s.Size,
	}
	for i, e := range s.Elements {
		out.Elements[i] = e.Clone()
	}
	return out
}

// Index returns the z-order position of id, or -1.
func (s Snapshot) Index(id string) int {
	for i, e := range s.Elements {
		if e.ID == id {
			return i
		}
	}
	return -1
}

func (s Snapshot) Find(id string) (element.Element, bool) {
	if i := s.Index(id); i >= 0 {
		return s.Elements[i], true
	}
	return element.Element{}, false
}

// ValidateElements checks every element and id uniqueness.
func ValidateElements(elements []element.Element) error {
	seen := make(map[string]int, len(elements))
	for i, e := range elements {
		if err := e.Validate(); err != nil {
			return fmt.Errorf("element %d: %w", i, err)
		}
		if j, dup := seen[e.ID]; dup {
			return fmt.Errorf("element %d: duplicate id %q (also element %d)", i, e.ID, j)
		}
		seen[e.ID] = i
	}
	return nil
}
