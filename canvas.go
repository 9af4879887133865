package main

import (
	"path/filepath"
	"strings"

	"cbuild/internal/content"
	"cbuild/internal/design"
	"cbuild/internal/element"
	"cbuild/internal/geometry"
	"cbuild/internal/render"

	"github.com/charmbracelet/lipgloss"
)

type cell struct {
	r    rune
	fg   string
	bg   string
	bold bool
}

// grid is the terminal image of the canvas, one cell per character.
type grid struct {
	width  int
	height int
	cells  [][]cell
}

func newGrid(width, height int) *grid {
	width, height = max(width, 1), max(height, 1)
	g := &grid{width: width, height: height, cells: make([][]cell, height)}
	for y := range g.cells {
		g.cells[y] = make([]cell, width)
		for x := range g.cells[y] {
			g.cells[y][x] = cell{r: ' '}
		}
	}
	return g
}

func (g *grid) inside(x, y int) bool {
	return x >= 0 && y >= 0 && x < g.width && y < g.height
}

// set writes r, keeping the cell's background.
func (g *grid) set(x, y int, r rune, fg string, bold bool) {
	if !g.inside(x, y) {
		return
	}
	c := &g.cells[y][x]
	c.r, c.fg, c.bold = r, fg, bold
}

func (g *grid) fill(x0, y0, x1, y1 int, bg string) {
	for y := y0; y < y1; y++ {
		for x := x0; x < x1; x++ {
			if g.inside(x, y) {
				g.cells[y][x] = cell{r: ' ', bg: bg}
			}
		}
	}
}

// text writes s from x, stopping before limit.
func (g *grid) text(x, y int, s string, fg string, bold bool, limit int) {
	for _, r := range s {
		if x >= limit {
			return
		}
		g.set(x, y, r, fg, bold)
		x++
	}
}

// plain returns the runes without colour.
func (g *grid) plain() []string {
	out := make([]string, g.height)
	for y, row := range g.cells {
		var b strings.Builder
		for _, c := range row {
			b.WriteRune(c.r)
		}
		out[y] = b.String()
	}
	return out
}

// lines renders each row, styling runs of cells that share colours.
func (g *grid) lines() []string {
	out := make([]string, g.height)
	for y, row := range g.cells {
		var b strings.Builder
		start := 0
		for x := 1; x <= len(row); x++ {
			if x < len(row) && sameStyle(row[x], row[start]) {
				continue
			}
			var run strings.Builder
			for _, c := range row[start:x] {
				run.WriteRune(c.r)
			}
			b.WriteString(cellStyle(row[start]).Render(run.String()))
			start = x
		}
		out[y] = b.String()
	}
	return out
}

func sameStyle(a, b cell) bool {
	return a.fg == b.fg && a.bg == b.bg && a.bold == b.bold
}

func cellStyle(c cell) lipgloss.Style {
	s := lipgloss.NewStyle().Bold(c.bold)
	if c.fg != "" {
		s = s.Foreground(lipgloss.Color(c.fg))
	}
	if c.bg != "" {
		s = s.Background(lipgloss.Color(c.bg))
	}
	return s
}

// cellRect maps an element's box to cells, end exclusive, with the pan
// offset applied.
func cellRect(e element.Element, panX, panY int) (x0, y0, x1, y1 int) {
	w, h := geometry.BoxSize(e.Width, e.Height)
	x0 = e.X / cellWidth
	y0 = e.Y / cellHeight
	x1 = max(x0+1, (e.X+w+cellWidth-1)/cellWidth)
	y1 = max(y0+1, (e.Y+h+cellHeight-1)/cellHeight)
	return x0 - panX, y0 - panY, x1 - panX, y1 - panY
}

// canvasCells is the canvas size in cells.
func canvasCells(size geometry.Size) (int, int) {
	return (size.Width + cellWidth - 1) / cellWidth, (size.Height + cellHeight - 1) / cellHeight
}

var (
	plainBorder    = [6]rune{'┌', '─', '┐', '│', '└', '┘'}
	selectedBorder = [6]rune{'┏', '━', '┓', '┃', '┗', '┛'}
)

// renderCanvas draws s into a width×height window whose top-left cell is
// (panX, panY) in canvas cells.
func renderCanvas(s design.Snapshot, width, height, panX, panY int, selected string, mode geometry.Mode) *grid {
	g := newGrid(width, height)
	cw, ch := canvasCells(s.Size)
	bg := render.Hex(s.Background)

	for y := 0; y < g.height; y++ {
		for x := 0; x < g.width; x++ {
			wx, wy := x+panX, y+panY
			if wx >= 0 && wy >= 0 && wx < cw && wy < ch {
				g.cells[y][x] = cell{r: ' ', bg: bg}
			} else {
				g.cells[y][x] = cell{r: '·', fg: offCanvasColor}
			}
		}
	}

	for _, e := range s.Elements {
		drawElement(g, e, panX, panY, mode == geometry.ModeDesign && e.ID == selected, mode)
	}
	return g
}

func drawElement(g *grid, e element.Element, panX, panY int, isSelected bool, mode geometry.Mode) {
	x0, y0, x1, y1 := cellRect(e, panX, panY)

	if bg := render.Hex(e.StyleValue(element.StyleBackgroundColor)); bg != "" && e.Type != element.TypeDivider {
		g.fill(x0, y0, x1, y1, bg)
	}

	fg := render.Hex(e.StyleValue(element.StyleColor))
	if fg == "" {
		fg = "#111111"
	}

	borderFG, bordered := "", false
	if _, c, ok := render.Border(e.StyleValue(element.StyleBorder)); ok {
		borderFG, bordered = render.HexOf(c), true
	}
	if isSelected {
		borderFG, bordered = selectionColor, true
	}
	if bordered && x1-x0 >= 2 && y1-y0 >= 2 {
		chars := plainBorder
		if isSelected {
			chars = selectedBorder
		}
		drawBorder(g, x0, y0, x1, y1, chars, borderFG)
		x0, y0, x1, y1 = x0+1, y0+1, x1-1, y1-1
	}

	switch e.Type {
	case element.TypeDivider:
		line := render.Hex(e.StyleValue(element.StyleBackgroundColor))
		for x := x0; x < x1; x++ {
			g.set(x, y0+(y1-y0-1)/2, '─', line, false)
		}
	case element.TypeSpacer:
		if mode == geometry.ModeDesign {
			for y := y0; y < y1; y++ {
				for x := x0; x < x1; x++ {
					g.set(x, y, '░', offCanvasColor, false)
				}
			}
		}
	case element.TypeContainer:
	case element.TypeImage:
		label := "[ image ]"
		if e.Src != "" {
			label = "[img] " + filepath.Base(e.Src)
		}
		centered(g, x0, y0, x1, y1, label, fg)
	case element.TypeVideo:
		label := "▶ video"
		if e.Src != "" {
			label = "▶ " + filepath.Base(e.Src)
		}
		centered(g, x0, y0, x1, y1, label, "#ffffff")
	default:
		drawContent(g, e, x0, y0, x1, y1, fg)
	}
}

func drawBorder(g *grid, x0, y0, x1, y1 int, chars [6]rune, fg string) {
	for x := x0 + 1; x < x1-1; x++ {
		g.set(x, y0, chars[1], fg, false)
		g.set(x, y1-1, chars[1], fg, false)
	}
	for y := y0 + 1; y < y1-1; y++ {
		g.set(x0, y, chars[3], fg, false)
		g.set(x1-1, y, chars[3], fg, false)
	}
	g.set(x0, y0, chars[0], fg, false)
	g.set(x1-1, y0, chars[2], fg, false)
	g.set(x0, y1-1, chars[4], fg, false)
	g.set(x1-1, y1-1, chars[5], fg, false)
}

func centered(g *grid, x0, y0, x1, y1 int, s, fg string) {
	w := x1 - x0
	if w <= 0 || y1 <= y0 {
		return
	}
	runes := []rune(s)
	if len(runes) > w {
		runes = runes[:w]
	}
	x := x0 + (w-len(runes))/2
	g.text(x, y0+(y1-y0-1)/2, string(runes), fg, false, x1)
}

func drawContent(g *grid, e element.Element, x0, y0, x1, y1 int, fg string) {
	w, h := x1-x0, y1-y0
	lines := content.Lines(e.Content, w, h)
	if len(lines) == 0 {
		return
	}
	bold := false
	switch e.StyleValue(element.StyleFontWeight) {
	case "bold", "600", "700", "800", "900":
		bold = true
	}
	if e.Type == element.TypeInput || e.Type == element.TypeTextarea {
		fg = string(mutedColor)
	}

	top := y0
	if e.Type == element.TypeButton || e.Type == element.TypeIcon {
		top = y0 + (h-len(lines))/2
	}
	align := e.StyleValue(element.StyleTextAlign)
	for i, line := range lines {
		n := len([]rune(line))
		x := x0
		switch align {
		case "center":
			x = x0 + (w-n)/2
		case "right":
			x = x1 - n
		}
		g.text(x, top+i, line, fg, bold, x1)
	}
}

// canvasPoint maps a screen cell inside the canvas window to the canvas
// pixel at the centre of that cell.
func (m *model) canvasPoint(screenX, screenY int) (int, int) {
	wx := screenX + m.panX
	wy := screenY - canvasTop + m.panY
	return wx*cellWidth + cellWidth/2, wy*cellHeight + cellHeight/2
}
