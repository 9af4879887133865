package main

import (
	"fmt"
	"strconv"
	"strings"

	"cbuild/internal/content"
	"cbuild/internal/element"
	"cbuild/internal/geometry"
	"cbuild/internal/render"
)

// propertyField is one editable row of the properties panel.
type propertyField struct {
	label   string
	value   string
	options []string
	apply   func(m *model, value string) error
}

func (f propertyField) enum() bool { return len(f.options) > 0 }

// next returns the option after the current value, wrapping around.
func (f propertyField) next(step int) string {
	i := 0
	for j, o := range f.options {
		if o == f.value {
			i = j
			break
		}
	}
	n := len(f.options)
	return f.options[((i+step)%n+n)%n]
}

// propertyFields lists the rows for the selection, or the canvas settings
// when nothing is selected.
func (m *model) propertyFields() []propertyField {
	e, ok := m.store.Selected()
	if !ok {
		return m.canvasFields()
	}
	id := e.ID
	fields := []propertyField{
		{label: "x", value: strconv.Itoa(e.X), apply: func(m *model, v string) error {
			n, err := parsePixels(v, false)
			if err != nil {
				return err
			}
			m.store.Patch(id, element.Patch{X: &n})
			return nil
		}},
		{label: "y", value: strconv.Itoa(e.Y), apply: func(m *model, v string) error {
			n, err := parsePixels(v, false)
			if err != nil {
				return err
			}
			m.store.Patch(id, element.Patch{Y: &n})
			return nil
		}},
		{label: "width", value: dimensionString(e.Width), apply: func(m *model, v string) error {
			n, err := parsePixels(v, true)
			if err != nil {
				return err
			}
			m.store.Patch(id, element.Patch{Width: &n})
			return nil
		}},
		{label: "height", value: dimensionString(e.Height), apply: func(m *model, v string) error {
			n, err := parsePixels(v, true)
			if err != nil {
				return err
			}
			m.store.Patch(id, element.Patch{Height: &n})
			return nil
		}},
	}
	if e.Type.HasText() {
		fields = append(fields, propertyField{label: "content", value: e.Content, apply: func(m *model, v string) error {
			clean := content.Sanitize(v)
			m.store.Patch(id, element.Patch{Content: &clean})
			return nil
		}})
	}
	if e.Type.HasSource() {
		fields = append(fields, propertyField{label: "src", value: e.Src, apply: func(m *model, v string) error {
			v = strings.TrimSpace(v)
			m.store.Patch(id, element.Patch{Src: &v})
			return nil
		}})
	}
	for _, k := range element.EditableStyleKeys(e.Type) {
		key := k
		fields = append(fields, propertyField{
			label:   string(key),
			value:   e.StyleValue(key),
			options: key.Options(),
			apply: func(m *model, v string) error {
				v, err := validateStyle(key, v)
				if err != nil {
					return err
				}
				m.store.Patch(id, element.Patch{Style: element.Style{key: v}})
				return nil
			},
		})
	}
	return fields
}

func (m *model) canvasFields() []propertyField {
	size := m.store.CanvasSize()
	return []propertyField{
		{label: "background", value: m.store.Background(), apply: func(m *model, v string) error {
			v = strings.TrimSpace(v)
			if _, ok := render.ParseColor(v); !ok {
				return fmt.Errorf("%q is not a colour", v)
			}
			m.store.SetBackground(v)
			return nil
		}},
		{label: "canvas width", value: strconv.Itoa(size.Width), apply: func(m *model, v string) error {
			n, err := parsePixels(v, false)
			if err != nil {
				return err
			}
			return m.store.SetCanvasSize(geometry.Size{Width: n, Height: m.store.CanvasSize().Height})
		}},
		{label: "canvas height", value: strconv.Itoa(size.Height), apply: func(m *model, v string) error {
			n, err := parsePixels(v, false)
			if err != nil {
				return err
			}
			return m.store.SetCanvasSize(geometry.Size{Width: m.store.CanvasSize().Width, Height: n})
		}},
	}
}

func dimensionString(v *int) string {
	if v == nil {
		return "auto"
	}
	return strconv.Itoa(*v)
}

// parsePixels reads a non-negative pixel count such as "120" or "120px".
// With allowAuto, "auto" and "" mean intrinsic size and yield 0.
func parsePixels(s string, allowAuto bool) (int, error) {
	s = strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(s), "px"))
	if allowAuto && (s == "" || s == "auto") {
		return 0, nil
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, fmt.Errorf("%q is not a whole number of pixels", s)
	}
	if n < 0 {
		return 0, fmt.Errorf("%d must not be negative", n)
	}
	return n, nil
}

// validateStyle checks a value typed into the panel. An empty value unsets
// the key.
func validateStyle(key element.StyleKey, v string) (string, error) {
	v = strings.TrimSpace(v)
	if v == "" {
		return "", nil
	}
	switch {
	case key.Numeric():
		n, err := parsePixels(v, false)
		if err != nil {
			return "", err
		}
		return strconv.Itoa(n), nil
	case key == element.StyleColor || key == element.StyleBackgroundColor:
		if _, ok := render.ParseColor(v); !ok {
			return "", fmt.Errorf("%q is not a colour", v)
		}
	case key.Options() != nil:
		for _, o := range key.Options() {
			if o == v {
				return v, nil
			}
		}
		return "", fmt.Errorf("%q is not one of %s", v, strings.Join(key.Options(), ", "))
	}
	return v, nil
}
