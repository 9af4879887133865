package design

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"time"

	"cbuild/internal/element"
	"cbuild/internal/geometry"
)

// ErrInvalidDesign wraps every reason an import file is rejected.
var ErrInvalidDesign = errors.New("invalid design file")

type exportFile struct {
	Elements   []element.Element `json:"elements"`
	CanvasBg   string            `json:"canvasBg"`
	CanvasSize geometry.Size     `json:"canvasSize"`
	ExportDate string            `json:"exportDate"`
}

type importFile struct {
	Elements         []json.RawMessage `json:"elements"`
	CanvasBg         *string           `json:"canvasBg"`
	CanvasBackground *string           `json:"canvasBackground"`
	CanvasSize       *geometry.Size    `json:"canvasSize"`
}

// wireElement mirrors element.Element with pointers so missing required
// fields can be told apart from zero values.
type wireElement struct {
	ID      *string       `json:"id"`
	Type    *string       `json:"type"`
	X       *int          `json:"x"`
	Y       *int          `json:"y"`
	Width   *int          `json:"width"`
	Height  *int          `json:"height"`
	Content string        `json:"content"`
	Src     string        `json:"src"`
	Style   element.Style `json:"style"`
}

// ExportFilename names the download for a design exported at now.
func ExportFilename(now time.Time) string {
	return "design-" + now.Format("2006-01-02") + ".json"
}

// Export writes s as an indented JSON design file.
func Export(w io.Writer, s Snapshot, now time.Time) error {
	elements := s.Elements
	if elements == nil {
		elements = []element.Element{}
	}
	f := exportFile{
		Elements:   elements,
		CanvasBg:   s.Background,
		CanvasSize: s.Size,
		ExportDate: now.UTC().Format(time.RFC3339),
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(f); err != nil {
		return fmt.Errorf("encode design: %w", err)
	}
	return nil
}

// Import parses a design file: exactly one JSON object. Missing top-level
// fields fall back to the defaults; any malformed element rejects the whole
// file.
func Import(r io.Reader) (Snapshot, error) {
	dec := json.NewDecoder(r)
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidDesign, err)
	}
	if err := dec.Decode(&json.RawMessage{}); !errors.Is(err, io.EOF) {
		return Snapshot{}, fmt.Errorf("%w: trailing data after the design object", ErrInvalidDesign)
	}
	if !bytes.HasPrefix(bytes.TrimSpace(raw), []byte("{")) {
		return Snapshot{}, fmt.Errorf("%w: top level must be an object", ErrInvalidDesign)
	}
	var f importFile
	if err := json.Unmarshal(raw, &f); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidDesign, err)
	}

	s := Default()
	switch {
	case f.CanvasBg != nil && *f.CanvasBg != "":
		s.Background = *f.CanvasBg
	case f.CanvasBackground != nil && *f.CanvasBackground != "":
		s.Background = *f.CanvasBackground
	}
	if f.CanvasSize != nil {
		if !f.CanvasSize.Valid() {
			return Snapshot{}, fmt.Errorf("%w: canvas size %dx%d", ErrInvalidDesign, f.CanvasSize.Width, f.CanvasSize.Height)
		}
		s.Size = *f.CanvasSize
	}

	s.Elements = make([]element.Element, 0, len(f.Elements))
	for i, raw := range f.Elements {
		e, err := decodeElement(raw)
		if err != nil {
			return Snapshot{}, fmt.Errorf("%w: element %d: %v", ErrInvalidDesign, i, err)
		}
		s.Elements = append(s.Elements, e)
	}
	if err := ValidateElements(s.Elements); err != nil {
		return Snapshot{}, fmt.Errorf("%w: %v", ErrInvalidDesign, err)
	}
	return s, nil
}

func decodeElement(raw json.RawMessage) (element.Element, error) {
	var w wireElement
	if err := json.Unmarshal(raw, &w); err != nil {
		return element.Element{}, err
	}
	switch {
	case w.ID == nil || *w.ID == "":
		return element.Element{}, errors.New("missing id")
	case w.Type == nil:
		return element.Element{}, errors.New("missing type")
	case w.X == nil || w.Y == nil:
		return element.Element{}, errors.New("missing position")
	}
	t, err := element.ParseType(*w.Type)
	if err != nil {
		return element.Element{}, err
	}
	e := element.Element{
		ID:      *w.ID,
		Type:    t,
		X:       *w.X,
		Y:       *w.Y,
		Width:   w.Width,
		Height:  w.Height,
		Content: w.Content,
		Src:     w.Src,
		Style:   w.Style,
	}
	if (e.Width != nil && *e.Width < 0) || (e.Height != nil && *e.Height < 0) {
		return element.Element{}, errors.New("negative size")
	}
	e.Normalize()
	return e, nil
}
