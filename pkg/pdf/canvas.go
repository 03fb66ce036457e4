package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"time"
	"unicode/utf16"

	"golang.org/x/text/language"
)

// Page sizes in points
var (
	Letter = Rectangle{URX: 612, URY: 792}
	Legal  = Rectangle{URX: 612, URY: 1008}
	A4     = Rectangle{URX: 595.2756, URY: 841.8898}
)

var (
	// ErrCanvasClosed is returned by every drawing call after Save
	ErrCanvasClosed = errors.New("canvas is closed")
	// ErrUnknownFont is returned by SetFont for names outside the
	// standard Type 1 set
	ErrUnknownFont = errors.New("unknown font")
)

// standardFonts are the standard Type 1 fonts that every viewer provides
// without embedding and that use WinAnsiEncoding.
var standardFonts = map[string]bool{
	"Helvetica":             true,
	"Helvetica-Bold":        true,
	"Helvetica-Oblique":     true,
	"Helvetica-BoldOblique": true,
	"Times-Roman":           true,
	"Times-Bold":            true,
	"Times-Italic":          true,
	"Times-BoldItalic":      true,
	"Courier":               true,
	"Courier-Bold":          true,
	"Courier-Oblique":       true,
	"Courier-BoldOblique":   true,
}

// A fresh page starts with this font until SetFont is called
const (
	DefaultFont     = "Helvetica"
	DefaultFontSize = 12
)

// CanvasOptions describe the document as a whole
type CanvasOptions struct {
	Title    string
	Author   string
	Subject  string
	Creator  string
	Producer string

	// CreationDate defaults to the time of Save
	CreationDate time.Time

	// Language becomes the catalog /Lang entry unless undetermined
	Language language.Tag

	// FileID becomes the trailer /ID when non-empty
	FileID []byte
}

// Canvas draws text onto a sequence of pages and writes them as a PDF
// file. Each page is OPEN while it is drawn on and CLOSED by ShowPage
// or Save; a closed page is written out immediately.
type Canvas struct {
	w      *Writer
	closer io.Closer
	size   Rectangle
	opts   CanvasOptions

	pagesRef Reference
	kids     Array

	fontRefs  map[string]Reference
	fontNames map[string]Name
	fontOrder []string

	// current page
	content   bytes.Buffer
	pageFonts map[string]bool
	dirty     bool
	font      string
	fontSize  float64

	saved bool
}

// NewCanvas returns a canvas writing to w. Every page has the given size.
func NewCanvas(w io.Writer, size Rectangle, opts *CanvasOptions) *Canvas {
	c := &Canvas{
		w:         NewWriter(w, "1.4"),
		size:      size,
		fontRefs:  make(map[string]Reference),
		fontNames: make(map[string]Name),
	}
	if opts != nil {
		c.opts = *opts
	}
	c.pagesRef = c.w.Alloc()
	c.resetPage()
	return c
}

// CreateCanvas creates or truncates the file at path and returns a
// canvas writing to it. Save closes the file.
func CreateCanvas(path string, size Rectangle, opts *CanvasOptions) (*Canvas, error) {
	fd, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	c := NewCanvas(fd, size, opts)
	c.closer = fd
	return c, nil
}

// Size returns the page size
func (c *Canvas) Size() Rectangle {
	return c.size
}

// PageCount returns the number of pages closed so far
func (c *Canvas) PageCount() int {
	return len(c.kids)
}

func (c *Canvas) resetPage() {
	c.content.Reset()
	c.pageFonts = make(map[string]bool)
	c.dirty = false
	c.font = DefaultFont
	c.fontSize = DefaultFontSize
}

// SetFont selects one of the standard Type 1 fonts for the following
// DrawString calls on the current page.
func (c *Canvas) SetFont(name string, size float64) error {
	if c.saved {
		return ErrCanvasClosed
	}
	if !standardFonts[name] {
		return fmt.Errorf("%w: %q", ErrUnknownFont, name)
	}
	if size <= 0 {
		return fmt.Errorf("invalid font size %g", size)
	}
	c.font = name
	c.fontSize = size
	return nil
}

// Font returns the current font name and size
func (c *Canvas) Font() (string, float64) {
	return c.font, c.fontSize
}

// DrawString draws s with its baseline starting at (x, y), measured in
// points from the lower left corner of the page. An empty string still
// produces a text object, without any glyphs.
func (c *Canvas) DrawString(x, y float64, s string) error {
	if c.saved {
		return ErrCanvasClosed
	}
	encoded, err := EncodeWinAnsi(s)
	if err != nil {
		return err
	}

	name := c.fontResource(c.font)
	c.pageFonts[c.font] = true
	c.dirty = true

	fmt.Fprintf(&c.content, "BT\n%s %s Tf\n1 0 0 1 %s %s Tm\n%s Tj\nET\n",
		name.String(), formatNumber(c.fontSize),
		formatNumber(x), formatNumber(y),
		String{Value: encoded}.String())
	return nil
}

// fontResource returns the resource name of a font, allocating the
// font dictionary on first use.
func (c *Canvas) fontResource(font string) Name {
	if name, ok := c.fontNames[font]; ok {
		return name
	}
	name := Name(fmt.Sprintf("F%d", len(c.fontOrder)+1))
	c.fontNames[font] = name
	c.fontRefs[font] = c.w.Alloc()
	c.fontOrder = append(c.fontOrder, font)
	return name
}

// ShowPage closes the current page and starts a new one. The font is
// reset to Helvetica 12 on the new page.
func (c *Canvas) ShowPage() error {
	if c.saved {
		return ErrCanvasClosed
	}
	if err := c.writePage(); err != nil {
		return err
	}
	c.resetPage()
	return nil
}

// writePage writes the content stream and page dictionary of the
// current page.
func (c *Canvas) writePage() error {
	fonts := Dictionary{}
	for font := range c.pageFonts {
		fonts[c.fontNames[font]] = c.fontRefs[font]
	}
	resources := Dictionary{
		"ProcSet": Array{Name("PDF"), Name("Text")},
	}
	if len(fonts) > 0 {
		resources["Font"] = fonts
	}

	contentRef := c.w.Alloc()
	if err := c.w.WriteStream(contentRef, nil, c.content.Bytes(), true); err != nil {
		return err
	}

	pageRef := c.w.Alloc()
	page := Dictionary{
		"Type":      Name("Page"),
		"Parent":    c.pagesRef,
		"Contents":  contentRef,
		"Resources": resources,
	}
	if err := c.w.WriteObject(pageRef, page); err != nil {
		return err
	}
	c.kids = append(c.kids, pageRef)
	return nil
}

// Save closes the current page if anything was drawn on it (or if the
// document would otherwise have no pages) and finishes the file.
// The canvas cannot be used afterwards.
func (c *Canvas) Save() error {
	if c.saved {
		return ErrCanvasClosed
	}
	err := c.finish()
	c.saved = true
	if c.closer != nil {
		if cerr := c.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// Abort releases the canvas without finishing the file. Whatever was
// already written is left incomplete.
func (c *Canvas) Abort() error {
	if c.saved {
		return ErrCanvasClosed
	}
	c.saved = true
	if c.closer != nil {
		return c.closer.Close()
	}
	return nil
}

func (c *Canvas) finish() error {
	if c.dirty || len(c.kids) == 0 {
		if err := c.writePage(); err != nil {
			return err
		}
	}

	for _, font := range c.fontOrder {
		dict := Dictionary{
			"Type":     Name("Font"),
			"Subtype":  Name("Type1"),
			"BaseFont": Name(font),
			"Encoding": WinAnsiEncoding,
		}
		if err := c.w.WriteObject(c.fontRefs[font], dict); err != nil {
			return err
		}
	}

	pages := Dictionary{
		"Type":     Name("Pages"),
		"Kids":     c.kids,
		"Count":    Integer(len(c.kids)),
		"MediaBox": rectangleToArray(c.size),
	}
	if err := c.w.WriteObject(c.pagesRef, pages); err != nil {
		return err
	}

	catalogRef := c.w.Alloc()
	catalog := Dictionary{
		"Type":  Name("Catalog"),
		"Pages": c.pagesRef,
	}
	if c.opts.Language != language.Und {
		catalog["Lang"] = TextString(c.opts.Language.String())
	}
	if err := c.w.WriteObject(catalogRef, catalog); err != nil {
		return err
	}

	infoRef := c.w.Alloc()
	if err := c.w.WriteObject(infoRef, c.infoDict()); err != nil {
		return err
	}

	return c.w.Close(catalogRef, infoRef, c.opts.FileID)
}

func (c *Canvas) infoDict() Dictionary {
	created := c.opts.CreationDate
	if created.IsZero() {
		created = time.Now()
	}
	info := Dictionary{
		"CreationDate": TextString(formatPDFDate(created)),
	}
	for key, val := range map[Name]string{
		"Title":    c.opts.Title,
		"Author":   c.opts.Author,
		"Subject":  c.opts.Subject,
		"Creator":  c.opts.Creator,
		"Producer": c.opts.Producer,
	} {
		if val != "" {
			info[key] = TextString(val)
		}
	}
	return info
}

// TextString encodes s as a PDF text string: PDFDocEncoding when every
// character is plain Latin-1 text, UTF-16BE with byte order mark
// otherwise. PDFDocEncoding puts the euro sign at 0xA0 and leaves 0xAD
// undefined, so U+00A0 and U+00AD take the UTF-16BE path.
func TextString(s string) String {
	latin1 := make([]byte, 0, len(s))
	for _, r := range s {
		if r < 0x20 || r >= 0x7F && r <= 0xA0 || r == 0xAD || r > 0xFF {
			latin1 = nil
			break
		}
		latin1 = append(latin1, byte(r))
	}
	if latin1 != nil || s == "" {
		return String{Value: latin1}
	}

	buf := []byte{0xFE, 0xFF}
	for _, u := range utf16.Encode([]rune(s)) {
		buf = append(buf, byte(u>>8), byte(u))
	}
	return String{Value: buf}
}
