package design

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"
	"time"

	"cbuild/internal/element"
	"cbuild/internal/geometry"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ptr[T any](v T) *T { return &v }

func sampleSnapshot(t *testing.T) Snapshot {
	t.Helper()
	text, err := element.New("t1", element.TypeText, element.Overrides{
		Content: ptr("<b>Hello</b>"),
		Style:   element.Style{element.StyleFontSize: "18", element.StyleColor: "#111"},
	})
	require.NoError(t, err)
	img, err := element.New("i1", element.TypeImage, element.Overrides{
		X: ptr(80), Y: ptr(80), Src: ptr("cat.png"), Width: ptr(0),
	})
	require.NoError(t, err)

	return Snapshot{
		Elements:   []element.Element{text, img},
		Background: "#fafafa",
		Size:       geometry.Size{Width: 1024, Height: 768},
	}
}

func TestExportImportRoundTrip(t *testing.T) {
	s := sampleSnapshot(t)
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)

	var buf bytes.Buffer
	require.NoError(t, Export(&buf, s, now))

	got, err := Import(&buf)
	require.NoError(t, err)
	assert.Equal(t, s, got)
}

func TestExportFileShape(t *testing.T) {
	now := time.Date(2026, 10, 15, 9, 30, 0, 0, time.UTC)
	var buf bytes.Buffer
	require.NoError(t, Export(&buf, Default(), now))

	var doc map[string]json.RawMessage
	require.NoError(t, json.Unmarshal(buf.Bytes(), &doc))
	assert.JSONEq(t, `[]`, string(doc["elements"]))
	assert.JSONEq(t, `"#ffffff"`, string(doc["canvasBg"]))
	assert.JSONEq(t, `{"width":900,"height":640}`, string(doc["canvasSize"]))
	assert.JSONEq(t, `"2026-10-15T09:30:00Z"`, string(doc["exportDate"]))
}

func TestExportFilename(t *testing.T) {
	now := time.Date(2026, 1, 2, 23, 0, 0, 0, time.UTC)
	assert.Equal(t, "design-2026-01-02.json", ExportFilename(now))
}

func TestImportDefaultsMissingFields(t *testing.T) {
	got, err := Import(strings.NewReader(`{"elements":[], "canvasBg":"#000000"}`))
	require.NoError(t, err)

	assert.Empty(t, got.Elements)
	assert.Equal(t, "#000000", got.Background)
	assert.Equal(t, geometry.Size{Width: 900, Height: 640}, got.Size)
}

func TestImportEmptyObject(t *testing.T) {
	got, err := Import(strings.NewReader(`{}`))
	require.NoError(t, err)
	assert.Equal(t, Default(), got)
}

func TestImportAcceptsCanvasBackgroundAlias(t *testing.T) {
	got, err := Import(strings.NewReader(`{"canvasBackground":"#123456"}`))
	require.NoError(t, err)
	assert.Equal(t, "#123456", got.Background)
}

func TestImportOriginalAppFile(t *testing.T) {
	doc := `{
	  "elements": [
	    {"id":"lq3k-ab12cd","type":"button","x":60,"y":60,"width":200,"height":60,
	     "content":"Click to edit button","src":"",
	     "style":{"fontSize":16,"color":"#fff","backgroundColor":"#2563eb","borderRadius":"8px","padding":"8px 16px"}}
	  ],
	  "canvasBg": "#ffffff",
	  "canvasSize": {"width":900,"height":640},
	  "exportDate": "2025-03-01T10:00:00.000Z"
	}`
	got, err := Import(strings.NewReader(doc))
	require.NoError(t, err)
	require.Len(t, got.Elements, 1)

	btn := got.Elements[0]
	assert.Equal(t, element.TypeButton, btn.Type)
	assert.Equal(t, "16", btn.Style[element.StyleFontSize])
	assert.Equal(t, "8px", btn.Style[element.StyleBorderRadius])
}

func TestImportRejectsMalformed(t *testing.T) {
	tests := []struct {
		name string
		doc  string
	}{
		{"not json", `{"elements": [`},
		{"elements not array", `{"elements": {}}`},
		{"missing id", `{"elements":[{"type":"text","x":0,"y":0}]}`},
		{"missing type", `{"elements":[{"id":"a","x":0,"y":0}]}`},
		{"missing position", `{"elements":[{"id":"a","type":"text"}]}`},
		{"unknown type", `{"elements":[{"id":"a","type":"carousel","x":0,"y":0}]}`},
		{"duplicate id", `{"elements":[{"id":"a","type":"text","x":0,"y":0},{"id":"a","type":"image","x":5,"y":5}]}`},
		{"negative position", `{"elements":[{"id":"a","type":"text","x":-10,"y":0}]}`},
		{"negative width", `{"elements":[{"id":"a","type":"text","x":0,"y":0,"width":-1}]}`},
		{"fractional position", `{"elements":[{"id":"a","type":"text","x":1.5,"y":0}]}`},
		{"unknown style key", `{"elements":[{"id":"a","type":"text","x":0,"y":0,"style":{"zIndex":2}}]}`},
		{"bad canvas size", `{"canvasSize":{"width":0,"height":10}}`},
		{"null document", `null`},
		{"array document", `[]`},
		{"string document", `"design"`},
		{"empty input", ``},
		{"trailing garbage", `{"elements":[]} garbage`},
		{"second object", `{"elements":[]} {"elements":[]}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Import(strings.NewReader(tt.doc))
			assert.ErrorIs(t, err, ErrInvalidDesign)
		})
	}
}

func TestSnapshotCloneIsIndependent(t *testing.T) {
	s := sampleSnapshot(t)
	c := s.Clone()
	c.Elements[0].Style[element.StyleColor] = "#f00"
	c.Elements[1].X = 500

	assert.Equal(t, "#111", s.Elements[0].Style[element.StyleColor])
	assert.Equal(t, 80, s.Elements[1].X)
}

func TestValidateElementsDuplicate(t *testing.T) {
	a := element.Element{ID: "x", Type: element.TypeText, Style: element.Style{}}
	err := ValidateElements([]element.Element{a, a})
	assert.ErrorContains(t, err, "duplicate id")
}
