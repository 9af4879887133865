// Package render paints a design snapshot the way preview mode shows it.
package render

import (
	"fmt"
	"image"
	"image/color"
	_ "image/gif"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"log/slog"
	"os"
	"strings"

	"cbuild/internal/content"
	"cbuild/internal/design"
	"cbuild/internal/element"
	"cbuild/internal/geometry"

	"github.com/fogleman/gg"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	_ "golang.org/x/image/webp"
)

var placeholderGray = color.RGBA{0xe5, 0xe7, 0xeb, 0xff}

type Renderer struct {
	regular *truetype.Font
	bold    *truetype.Font
	logger  *slog.Logger
}

func New(logger *slog.Logger) (*Renderer, error) {
	if logger == nil {
		logger = slog.Default()
	}
	regular, err := truetype.Parse(gomono.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse font: %w", err)
	}
	bold, err := truetype.Parse(gomonobold.TTF)
	if err != nil {
		return nil, fmt.Errorf("failed to parse bold font: %w", err)
	}
	return &Renderer{regular: regular, bold: bold, logger: logger}, nil
}

func (r *Renderer) face(size float64, weight string) font.Face {
	f := r.regular
	switch weight {
	case "bold", "bolder", "600", "700", "800", "900":
		f = r.bold
	}
	return truetype.NewFace(f, &truetype.Options{
		Size:    size,
		DPI:     72,
		Hinting: font.HintingFull,
	})
}

// Image paints s onto a canvas-sized image, elements in z-order.
func (r *Renderer) Image(s design.Snapshot) image.Image {
	size := s.Size
	if !size.Valid() {
		size = geometry.DefaultCanvas
	}
	dc := gg.NewContext(size.Width, size.Height)
	bg, ok := ParseColor(s.Background)
	if !ok {
		bg = color.White
	}
	dc.SetColor(bg)
	dc.Clear()

	for _, e := range s.Elements {
		r.drawElement(dc, e)
	}
	return dc.Image()
}

func (r *Renderer) EncodePNG(w io.Writer, s design.Snapshot) error {
	dc := gg.NewContextForImage(r.Image(s))
	return dc.EncodePNG(w)
}

func (r *Renderer) SavePNG(path string, s design.Snapshot) error {
	dc := gg.NewContextForImage(r.Image(s))
	if err := dc.SavePNG(path); err != nil {
		return fmt.Errorf("save png: %w", err)
	}
	return nil
}

func (r *Renderer) drawElement(dc *gg.Context, e element.Element) {
	w, h := geometry.BoxSize(e.Width, e.Height)
	x, y := float64(e.X), float64(e.Y)
	fw, fh := float64(w), float64(h)
	radius := Length(e.StyleValue(element.StyleBorderRadius))

	if e.StyleValue(element.StyleBoxShadow) != "none" {
		dc.SetColor(color.RGBA{0, 0, 0, 0x30})
		dc.DrawRoundedRectangle(x+2, y+3, fw, fh, radius)
		dc.Fill()
	}

	if bg, ok := ParseColor(e.StyleValue(element.StyleBackgroundColor)); ok {
		dc.SetColor(bg)
		dc.DrawRoundedRectangle(x, y, fw, fh, radius)
		dc.Fill()
	}

	switch e.Type {
	case element.TypeImage:
		r.drawImage(dc, e, x, y, fw, fh, radius)
	case element.TypeVideo:
		drawPlayButton(dc, x, y, fw, fh)
	case element.TypeDivider, element.TypeSpacer, element.TypeContainer:
	default:
		r.drawText(dc, e, x, y, fw, fh)
	}

	if bw, bc, ok := Border(e.StyleValue(element.StyleBorder)); ok {
		dc.SetColor(bc)
		dc.SetLineWidth(bw)
		dc.DrawRoundedRectangle(x+bw/2, y+bw/2, fw-bw, fh-bw, radius)
		dc.Stroke()
	}
}

func (r *Renderer) drawText(dc *gg.Context, e element.Element, x, y, w, h float64) {
	size := Length(e.StyleValue(element.StyleFontSize))
	if size <= 0 {
		size = 16
	}
	dc.SetFontFace(r.face(size, e.StyleValue(element.StyleFontWeight)))

	col, ok := ParseColor(e.StyleValue(element.StyleColor))
	if !ok {
		col = color.Black
	}
	if e.Type == element.TypeInput || e.Type == element.TypeTextarea {
		col = color.RGBA{0x9c, 0xa3, 0xaf, 0xff}
	}
	dc.SetColor(col)

	pad := Length(e.StyleValue(element.StylePadding))
	innerW := w - 2*pad
	if innerW <= 0 {
		innerW = w
		pad = 0
	}
	charW, _ := dc.MeasureString("M")
	lineH := size * 1.3
	cols := int(innerW / max(charW, 1))
	rows := max(1, int((h-2*pad)/lineH))
	lines := content.Lines(e.Content, cols, rows)

	ax, tx := 0.0, x+pad
	switch e.StyleValue(element.StyleTextAlign) {
	case "center":
		ax, tx = 0.5, x+w/2
	case "right":
		ax, tx = 1, x+w-pad
	}

	top := y + pad
	if e.Type == element.TypeButton || e.Type == element.TypeIcon {
		top = y + (h-float64(len(lines))*lineH)/2
	}
	for i, line := range lines {
		dc.DrawStringAnchored(line, tx, top+float64(i)*lineH+lineH/2, ax, 0.5)
	}
}

func (r *Renderer) drawImage(dc *gg.Context, e element.Element, x, y, w, h, radius float64) {
	src, err := loadImage(e.Src)
	if err != nil {
		if e.Src != "" {
			r.logger.Debug("image source not renderable, drawing placeholder", "id", e.ID, "src", e.Src, "error", err)
		}
		dc.SetColor(placeholderGray)
		dc.DrawRoundedRectangle(x, y, w, h, radius)
		dc.Fill()
		return
	}
	dst := image.NewRGBA(image.Rect(0, 0, int(w), int(h)))
	draw.CatmullRom.Scale(dst, dst.Bounds(), src, src.Bounds(), draw.Over, nil)

	dc.Push()
	dc.DrawRoundedRectangle(x, y, w, h, radius)
	dc.Clip()
	dc.DrawImage(dst, int(x), int(y))
	dc.ResetClip()
	dc.Pop()
}

// loadImage reads a local file source. Remote and data URLs are not
// fetched.
func loadImage(src string) (image.Image, error) {
	path := strings.TrimPrefix(src, "file://")
	if path == "" || strings.Contains(path, "://") || strings.HasPrefix(path, "data:") {
		return nil, fmt.Errorf("unsupported image source")
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	img, _, err := image.Decode(f)
	if err != nil {
		return nil, fmt.Errorf("decode %s: %w", path, err)
	}
	return img, nil
}

func drawPlayButton(dc *gg.Context, x, y, w, h float64) {
	cx, cy := x+w/2, y+h/2
	s := min(w, h) / 5
	dc.SetColor(color.White)
	dc.MoveTo(cx-s*0.6, cy-s)
	dc.LineTo(cx+s, cy)
	dc.LineTo(cx-s*0.6, cy+s)
	dc.ClosePath()
	dc.Fill()
}
