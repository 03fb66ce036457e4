package pdf

import (
	"fmt"
	"image"
	"image/draw"
	"image/png"
	"io"
	"math"
	"strings"

	"github.com/golang/freetype"
	"github.com/golang/freetype/truetype"
	"golang.org/x/image/font"
	"golang.org/x/image/font/gofont/gobold"
	"golang.org/x/image/font/gofont/gobolditalic"
	"golang.org/x/image/font/gofont/goitalic"
	"golang.org/x/image/font/gofont/gomono"
	"golang.org/x/image/font/gofont/gomonobold"
	"golang.org/x/image/font/gofont/goregular"
	"golang.org/x/image/math/fixed"
)

// RenderOptions contains options for rendering PDF pages
type RenderOptions struct {
	DPI float64 // Resolution in DPI (default 72)
}

// PageRenderer rasterizes the text of PDF pages. The standard fonts are
// substituted by the Go font family of matching weight and slant, so
// the output shows placement, not exact glyph shapes.
type PageRenderer struct {
	doc     *Document
	options RenderOptions
	fonts   map[string]*truetype.Font
}

// RenderedPage represents a rendered page
type RenderedPage struct {
	PageNum int
	Width   int
	Height  int
	Image   *image.RGBA
}

// NewPageRenderer creates a new page renderer
func NewPageRenderer(doc *Document, options RenderOptions) *PageRenderer {
	if options.DPI <= 0 {
		options.DPI = 72
	}
	return &PageRenderer{
		doc:     doc,
		options: options,
		fonts:   make(map[string]*truetype.Font),
	}
}

// RenderPage renders a single page (1-indexed) on a white background
func (r *PageRenderer) RenderPage(pageNum int) (*RenderedPage, error) {
	page, err := r.doc.GetPage(pageNum)
	if err != nil {
		return nil, err
	}
	runs, err := ExtractTextRuns(page)
	if err != nil {
		return nil, fmt.Errorf("page %d: %w", pageNum, err)
	}

	scale := r.options.DPI / 72
	width := int(math.Ceil(page.Width() * scale))
	height := int(math.Ceil(page.Height() * scale))
	if width <= 0 || height <= 0 {
		return nil, fmt.Errorf("page %d: empty media box", pageNum)
	}

	img := image.NewRGBA(image.Rect(0, 0, width, height))
	draw.Draw(img, img.Bounds(), image.White, image.Point{}, draw.Src)

	c := freetype.NewContext()
	c.SetDPI(r.options.DPI)
	c.SetClip(img.Bounds())
	c.SetDst(img)
	c.SetSrc(image.Black)
	c.SetHinting(font.HintingNone)

	for _, run := range runs {
		if run.Text == "" || run.Size <= 0 {
			continue
		}
		ttf, err := r.fontFor(run.BaseFont)
		if err != nil {
			return nil, err
		}
		c.SetFont(ttf)
		c.SetFontSize(run.Size)

		// PDF y grows upwards from the bottom of the media box
		pt := fixed.Point26_6{
			X: fixed.Int26_6((run.X - page.MediaBox.LLX) * scale * 64),
			Y: fixed.Int26_6((page.MediaBox.URY - run.Y) * scale * 64),
		}
		if _, err := c.DrawString(run.Text, pt); err != nil {
			return nil, fmt.Errorf("page %d: %w", pageNum, err)
		}
	}

	return &RenderedPage{
		PageNum: pageNum,
		Width:   width,
		Height:  height,
		Image:   img,
	}, nil
}

// substitute picks the Go font standing in for a standard font name
func substitute(baseFont string) (key string, data []byte) {
	bold := strings.Contains(baseFont, "Bold")
	slanted := strings.Contains(baseFont, "Oblique") || strings.Contains(baseFont, "Italic")

	switch {
	case strings.HasPrefix(baseFont, "Courier") && bold:
		return "Go Mono Bold", gomonobold.TTF
	case strings.HasPrefix(baseFont, "Courier"):
		return "Go Mono", gomono.TTF
	case bold && slanted:
		return "Go Bold Italic", gobolditalic.TTF
	case bold:
		return "Go Bold", gobold.TTF
	case slanted:
		return "Go Italic", goitalic.TTF
	}
	return "Go Regular", goregular.TTF
}

// SubstituteFont names the font the renderer draws baseFont with
func SubstituteFont(baseFont string) string {
	key, _ := substitute(baseFont)
	return key
}

func (r *PageRenderer) fontFor(baseFont string) (*truetype.Font, error) {
	key, data := substitute(baseFont)
	if f, ok := r.fonts[key]; ok {
		return f, nil
	}
	f, err := freetype.ParseFont(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s font: %w", key, err)
	}
	r.fonts[key] = f
	return f, nil
}

// EncodePNG writes the rendered page as PNG
func (p *RenderedPage) EncodePNG(w io.Writer) error {
	return png.Encode(w, p.Image)
}
