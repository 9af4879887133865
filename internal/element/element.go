// Package element defines the unit of design content: the element record,
// its type enumeration and the per-type defaults applied on creation.
package element

import (
	"errors"
	"fmt"
)

type Type string

const (
	TypeText      Type = "text"
	TypeHeading   Type = "heading"
	TypeImage     Type = "image"
	TypeButton    Type = "button"
	TypeContainer Type = "container"
	TypeDivider   Type = "divider"
	TypeSpacer    Type = "spacer"
	TypeVideo     Type = "video"
	TypeIcon      Type = "icon"
	TypeInput     Type = "input"
	TypeTextarea  Type = "textarea"
)

// Types lists every element type in toolbar order.
var Types = []Type{
	TypeText,
	TypeHeading,
	TypeImage,
	TypeButton,
	TypeContainer,
	TypeDivider,
	TypeSpacer,
	TypeVideo,
	TypeIcon,
	TypeInput,
	TypeTextarea,
}

var ErrUnknownType = errors.New("unknown element type")

func ParseType(s string) (Type, error) {
	t := Type(s)
	if !t.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownType, s)
	}
	return t, nil
}

func (t Type) Valid() bool {
	_, ok := typeDefaults[t]
	return ok
}

// HasText reports whether content is a text payload shown to the user.
func (t Type) HasText() bool {
	switch t {
	case TypeText, TypeHeading, TypeButton, TypeIcon, TypeInput, TypeTextarea:
		return true
	}
	return false
}

// HasSource reports whether the type renders media from Src.
func (t Type) HasSource() bool {
	return t == TypeImage || t == TypeVideo
}

type Element struct {
	ID      string `json:"id"`
	Type    Type   `json:"type"`
	X       int    `json:"x"`
	Y       int    `json:"y"`
	Width   *int   `json:"width,omitempty"`
	Height  *int   `json:"height,omitempty"`
	Content string `json:"content"`
	Src     string `json:"src"`
	Style   Style  `json:"style"`
}

// Clone returns a deep copy; snapshots never share mutable state.
func (e Element) Clone() Element {
	c := e
	if e.Width != nil {
		w := *e.Width
		c.Width = &w
	}
	if e.Height != nil {
		h := *e.Height
		c.Height = &h
	}
	c.Style = e.Style.Clone()
	return c
}

// Equal reports whether e and o hold the same values.
func (e Element) Equal(o Element) bool {
	if e.ID != o.ID || e.Type != o.Type || e.X != o.X || e.Y != o.Y ||
		e.Content != o.Content || e.Src != o.Src {
		return false
	}
	if !sameDimension(e.Width, o.Width) || !sameDimension(e.Height, o.Height) {
		return false
	}
	if len(e.Style) != len(o.Style) {
		return false
	}
	for k, v := range e.Style {
		if w, ok := o.Style[k]; !ok || w != v {
			return false
		}
	}
	return true
}

func sameDimension(a, b *int) bool {
	if a == nil || b == nil {
		return a == b
	}
	return *a == *b
}

// StyleValue resolves key against the element's style, falling back to the
// default for its type.
func (e Element) StyleValue(key StyleKey) string {
	if v, ok := e.Style[key]; ok && v != "" {
		return v
	}
	return DefaultStyle(e.Type, key)
}

type defaults struct {
	width   int
	height  int
	content string
}

var typeDefaults = map[Type]defaults{
	TypeText:      {200, 60, "Click to edit text"},
	TypeHeading:   {300, 60, "Heading"},
	TypeImage:     {300, 180, ""},
	TypeButton:    {200, 60, "Click to edit button"},
	TypeContainer: {300, 200, ""},
	TypeDivider:   {300, 10, ""},
	TypeSpacer:    {200, 40, ""},
	TypeVideo:     {320, 180, ""},
	TypeIcon:      {60, 60, "★"},
	TypeInput:     {200, 40, "Enter text"},
	TypeTextarea:  {240, 100, "Enter a longer text"},
}

const (
	DefaultX = 40
	DefaultY = 40
)

// Overrides are caller-supplied values applied on top of the type defaults
// when an element is created. Nil fields keep the default.
type Overrides struct {
	X       *int
	Y       *int
	Width   *int
	Height  *int
	Content *string
	Src     *string
	Style   Style
}

// New builds an element of type t with defaults and overrides applied.
func New(id string, t Type, o Overrides) (Element, error) {
	d, ok := typeDefaults[t]
	if !ok {
		return Element{}, fmt.Errorf("%w: %q", ErrUnknownType, t)
	}
	w, h := d.width, d.height
	e := Element{
		ID:      id,
		Type:    t,
		X:       DefaultX,
		Y:       DefaultY,
		Width:   &w,
		Height:  &h,
		Content: d.content,
		Style:   Style{},
	}
	if o.X != nil {
		e.X = max(0, *o.X)
	}
	if o.Y != nil {
		e.Y = max(0, *o.Y)
	}
	if o.Width != nil {
		e.Width = dimension(*o.Width)
	}
	if o.Height != nil {
		e.Height = dimension(*o.Height)
	}
	if o.Content != nil {
		e.Content = *o.Content
	}
	if o.Src != nil {
		e.Src = *o.Src
	}
	e.Style.Merge(o.Style)
	return e, nil
}

// dimension normalizes an editor-supplied size: anything not positive
// means intrinsic sizing.
func dimension(v int) *int {
	if v <= 0 {
		return nil
	}
	return &v
}

// Patch carries a partial update. Nil fields are left untouched; Style is
// merged key by key.
type Patch struct {
	X       *int
	Y       *int
	Width   *int
	Height  *int
	Content *string
	Src     *string
	Style   Style
}

func (p Patch) Empty() bool {
	return p.X == nil && p.Y == nil && p.Width == nil && p.Height == nil &&
		p.Content == nil && p.Src == nil && len(p.Style) == 0
}

// Apply returns a copy of e with p merged in. Id and type never change.
func (e Element) Apply(p Patch) Element {
	out := e.Clone()
	if p.X != nil {
		out.X = max(0, *p.X)
	}
	if p.Y != nil {
		out.Y = max(0, *p.Y)
	}
	if p.Width != nil {
		out.Width = dimension(*p.Width)
	}
	if p.Height != nil {
		out.Height = dimension(*p.Height)
	}
	if p.Content != nil {
		out.Content = *p.Content
	}
	if p.Src != nil {
		out.Src = *p.Src
	}
	out.Style.Merge(p.Style)
	return out
}

// Normalize fills a nil style and turns non-positive sizes into auto, the
// shape every decoded element is kept in.
func (e *Element) Normalize() {
	if e.Style == nil {
		e.Style = Style{}
	}
	if e.Width != nil && *e.Width <= 0 {
		e.Width = nil
	}
	if e.Height != nil && *e.Height <= 0 {
		e.Height = nil
	}
}

// Validate checks the invariants a stored or imported element must hold.
func (e Element) Validate() error {
	if e.ID == "" {
		return errors.New("missing id")
	}
	if !e.Type.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownType, e.Type)
	}
	if e.X < 0 || e.Y < 0 {
		return fmt.Errorf("negative position (%d,%d)", e.X, e.Y)
	}
	if e.Width != nil && *e.Width < 0 {
		return fmt.Errorf("negative width %d", *e.Width)
	}
	if e.Height != nil && *e.Height < 0 {
		return fmt.Errorf("negative height %d", *e.Height)
	}
	return e.Style.Validate()
}
