package element

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"regexp"
	"sort"
)

// StyleKey names a recognized style property.
type StyleKey string

const (
	StyleFontSize        StyleKey = "fontSize"
	StyleFontFamily      StyleKey = "fontFamily"
	StyleFontWeight      StyleKey = "fontWeight"
	StyleColor           StyleKey = "color"
	StyleTextAlign       StyleKey = "textAlign"
	StyleBackgroundColor StyleKey = "backgroundColor"
	StyleBorder          StyleKey = "border"
	StyleBorderRadius    StyleKey = "borderRadius"
	StylePadding         StyleKey = "padding"
	StyleMargin          StyleKey = "margin"
	StyleBoxShadow       StyleKey = "boxShadow"
	StyleDisplay         StyleKey = "display"
)

// StyleKeys is the full enumeration of keys a Style may carry.
var StyleKeys = []StyleKey{
	StyleFontSize,
	StyleFontFamily,
	StyleFontWeight,
	StyleColor,
	StyleTextAlign,
	StyleBackgroundColor,
	StyleBorder,
	StyleBorderRadius,
	StylePadding,
	StyleMargin,
	StyleBoxShadow,
	StyleDisplay,
}

var ErrUnknownStyleKey = errors.New("unknown style key")

func (k StyleKey) Valid() bool {
	for _, known := range StyleKeys {
		if k == known {
			return true
		}
	}
	return false
}

var FontFamilies = []string{
	"inherit",
	"Arial, sans-serif",
	"Helvetica, sans-serif",
	"Georgia, serif",
	"Times New Roman, serif",
	"Verdana, sans-serif",
	"Courier New, monospace",
	"Impact, sans-serif",
	"Comic Sans MS, cursive",
	"Trebuchet MS, sans-serif",
	"Lucida Console, monospace",
}

var FontWeights = []string{"normal", "bold", "100", "200", "300", "400", "500", "600", "700", "800", "900"}

var TextAlignments = []string{"left", "center", "right"}

// Options returns the closed set of values for enumerated keys, or nil when
// the key takes free-form input.
func (k StyleKey) Options() []string {
	switch k {
	case StyleFontFamily:
		return FontFamilies
	case StyleFontWeight:
		return FontWeights
	case StyleTextAlign:
		return TextAlignments
	}
	return nil
}

// Numeric reports whether the key holds a pixel count.
func (k StyleKey) Numeric() bool {
	return k == StyleFontSize || k == StyleBorderRadius
}

// Style is a sparse mapping of recognized keys to values. Keys left unset
// resolve to DefaultStyle at render time and are never stored.
type Style map[StyleKey]string

func (s Style) Clone() Style {
	out := make(Style, len(s))
	for k, v := range s {
		out[k] = v
	}
	return out
}

// Merge copies every key of patch into s. An empty value unsets the key.
func (s Style) Merge(patch Style) {
	for k, v := range patch {
		if v == "" {
			delete(s, k)
			continue
		}
		s[k] = v
	}
}

func (s Style) Validate() error {
	for k := range s {
		if !k.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownStyleKey, k)
		}
	}
	return nil
}

// SortedKeys returns the set keys in enumeration order.
func (s Style) SortedKeys() []StyleKey {
	keys := make([]StyleKey, 0, len(s))
	for _, k := range StyleKeys {
		if _, ok := s[k]; ok {
			keys = append(keys, k)
		}
	}
	return keys
}

var jsonNumber = regexp.MustCompile(`^-?(0|[1-9][0-9]*)(\.[0-9]+)?([eE][+-]?[0-9]+)?$`)

// MarshalJSON writes pixel counts (font size, radius) that are JSON number
// literals as numbers; every other value stays a string.
func (s Style) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	keys := make([]string, 0, len(s))
	for k := range s {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	for i, k := range keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		v := s[StyleKey(k)]
		if StyleKey(k).Numeric() && jsonNumber.MatchString(v) {
			buf.WriteString(v)
			continue
		}
		val, err := json.Marshal(v)
		if err != nil {
			return nil, err
		}
		buf.Write(val)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON accepts string or number values for recognized keys and
// rejects anything else.
func (s *Style) UnmarshalJSON(data []byte) error {
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		*s = Style{}
		return nil
	}
	var raw map[string]json.RawMessage
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	out := make(Style, len(raw))
	for k, v := range raw {
		key := StyleKey(k)
		if !key.Valid() {
			return fmt.Errorf("%w: %q", ErrUnknownStyleKey, k)
		}
		v = bytes.TrimSpace(v)
		switch {
		case len(v) > 0 && v[0] == '"':
			var str string
			if err := json.Unmarshal(v, &str); err != nil {
				return fmt.Errorf("style %s: %w", k, err)
			}
			if str != "" {
				out[key] = str
			}
		case jsonNumber.Match(v):
			out[key] = string(v)
		default:
			return fmt.Errorf("style %s: value must be a string or number, got %s", k, v)
		}
	}
	*s = out
	return nil
}

// DefaultStyle is the render-time fallback for key on an element of type t.
func DefaultStyle(t Type, key StyleKey) string {
	switch key {
	case StyleFontSize:
		if t == TypeHeading {
			return "32"
		}
		return "16"
	case StyleFontFamily:
		return "inherit"
	case StyleFontWeight:
		if t == TypeHeading {
			return "bold"
		}
		return "normal"
	case StyleColor:
		if t == TypeButton {
			return "#fff"
		}
		return "#111"
	case StyleTextAlign:
		if t == TypeButton {
			return "center"
		}
		return "left"
	case StyleBackgroundColor:
		switch t {
		case TypeButton:
			return "#2563eb"
		case TypeInput, TypeTextarea:
			return "#ffffff"
		case TypeVideo:
			return "#000000"
		case TypeDivider:
			return "#d1d5db"
		}
		return "transparent"
	case StyleBorder:
		switch t {
		case TypeContainer, TypeInput, TypeTextarea:
			return "1px solid #d1d5db"
		}
		return "none"
	case StyleBorderRadius:
		switch t {
		case TypeButton:
			return "8"
		case TypeImage:
			return "6"
		}
		return "4"
	case StylePadding:
		if t == TypeButton {
			return "12px 24px"
		}
		return "8px"
	case StyleMargin:
		return "0px"
	case StyleBoxShadow:
		return "none"
	case StyleDisplay:
		if t == TypeButton {
			return "inline-block"
		}
		return "block"
	}
	return ""
}

// EditableStyleKeys lists the keys the properties panel offers for t.
func EditableStyleKeys(t Type) []StyleKey {
	switch t {
	case TypeText, TypeHeading, TypeIcon:
		return []StyleKey{StyleFontFamily, StyleFontWeight, StyleFontSize, StyleColor, StyleTextAlign, StyleBackgroundColor}
	case TypeButton:
		return []StyleKey{StyleFontFamily, StyleFontWeight, StyleFontSize, StyleColor, StyleTextAlign,
			StyleBackgroundColor, StyleBorderRadius, StylePadding}
	case TypeInput, TypeTextarea:
		return []StyleKey{StyleFontSize, StyleColor, StyleBackgroundColor, StyleBorder, StyleBorderRadius}
	case TypeContainer:
		return []StyleKey{StyleBackgroundColor, StyleBorder, StyleBorderRadius, StylePadding, StyleBoxShadow}
	case TypeImage, TypeVideo:
		return []StyleKey{StyleBorderRadius, StyleBorder, StyleBoxShadow}
	case TypeDivider:
		return []StyleKey{StyleBackgroundColor, StyleMargin}
	}
	return nil
}
