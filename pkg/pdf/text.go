package pdf

import (
	"math"
	"sort"
	"strings"

	"golang.org/x/text/encoding/charmap"
)

// TextRun is one string shown by a Tj, TJ, ' or " operator, positioned
// in default user space.
type TextRun struct {
	Text     string
	Font     Name   // resource name, e.g. F1
	BaseFont string // e.g. Helvetica-Bold
	Size     float64
	X, Y     float64
}

// runFont caches what the extractor needs from a font dictionary
type runFont struct {
	baseFont string
	decode   func([]byte) string
}

// textState is the part of the graphics state that affects text placement
type textState struct {
	ctm [6]float64
}

// pageTextExtractor walks the operations of one page
type pageTextExtractor struct {
	page *Page
	runs []TextRun

	tm, tlm, ctm [6]float64
	stack        []textState

	fontName  Name
	font      *runFont
	fontSize  float64
	leading   float64
	charSpace float64
	wordSpace float64
	scale     float64

	fonts map[Name]*runFont
}

var identity = [6]float64{1, 0, 0, 1, 0, 0}

// ExtractTextRuns returns the text shown on a page in content stream
// order.
func ExtractTextRuns(page *Page) ([]TextRun, error) {
	contents, err := page.GetContents()
	if err != nil {
		return nil, err
	}
	ops, err := ParseContentStream(contents)
	if err != nil {
		return nil, err
	}

	p := &pageTextExtractor{
		page:     page,
		tm:       identity,
		tlm:      identity,
		ctm:      identity,
		fontSize: DefaultFontSize,
		scale:    1,
		fonts:    make(map[Name]*runFont),
	}
	for _, op := range ops {
		p.processOperation(op)
	}
	return p.runs, nil
}

func (p *pageTextExtractor) processOperation(op Operation) {
	args := op.Operands
	num := func(i int) float64 {
		if i < len(args) {
			return objectToFloat(args[i])
		}
		return 0
	}

	switch op.Operator {
	case "q":
		p.stack = append(p.stack, textState{ctm: p.ctm})
	case "Q":
		if n := len(p.stack); n > 0 {
			p.ctm = p.stack[n-1].ctm
			p.stack = p.stack[:n-1]
		}
	case "cm":
		if len(args) == 6 {
			m := [6]float64{num(0), num(1), num(2), num(3), num(4), num(5)}
			p.ctm = multiplyMatrix(m, p.ctm)
		}

	case "BT":
		p.tm = identity
		p.tlm = identity
	case "Tf":
		if len(args) == 2 {
			if name, ok := args[0].(Name); ok {
				p.fontName = name
				p.font = p.lookupFont(name)
			}
			p.fontSize = num(1)
		}
	case "Tc":
		p.charSpace = num(0)
	case "Tw":
		p.wordSpace = num(0)
	case "Tz":
		p.scale = num(0) / 100
	case "TL":
		p.leading = num(0)
	case "Td":
		p.moveLine(num(0), num(1))
	case "TD":
		p.leading = -num(1)
		p.moveLine(num(0), num(1))
	case "Tm":
		if len(args) == 6 {
			p.tlm = [6]float64{num(0), num(1), num(2), num(3), num(4), num(5)}
			p.tm = p.tlm
		}
	case "T*":
		p.moveLine(0, -p.leading)

	case "Tj":
		if len(args) == 1 {
			p.show(args[0])
		}
	case "'":
		p.moveLine(0, -p.leading)
		if len(args) == 1 {
			p.show(args[0])
		}
	case "\"":
		if len(args) == 3 {
			p.wordSpace = num(0)
			p.charSpace = num(1)
			p.moveLine(0, -p.leading)
			p.show(args[2])
		}
	case "TJ":
		if len(args) == 1 {
			if arr, ok := args[0].(Array); ok {
				p.showArray(arr)
			}
		}
	}
}

// moveLine starts a new line offset from the start of the current one
func (p *pageTextExtractor) moveLine(tx, ty float64) {
	p.tlm = multiplyMatrix([6]float64{1, 0, 0, 1, tx, ty}, p.tlm)
	p.tm = p.tlm
}

// show records a string operand and advances the text matrix
func (p *pageTextExtractor) show(obj Object) {
	s, ok := obj.(String)
	if !ok {
		return
	}

	decode := DecodeWinAnsi
	baseFont := ""
	if p.font != nil {
		decode = p.font.decode
		baseFont = p.font.baseFont
	}
	text := decode(s.Value)

	m := multiplyMatrix(p.tm, p.ctm)
	p.runs = append(p.runs, TextRun{
		Text:     text,
		Font:     p.fontName,
		BaseFont: baseFont,
		Size:     p.fontSize * math.Hypot(m[2], m[3]),
		X:        m[4],
		Y:        m[5],
	})

	p.advance(p.estimateTextWidth(text))
}

// showArray handles TJ: strings interleaved with kerning adjustments in
// thousandths of a text space unit.
func (p *pageTextExtractor) showArray(arr Array) {
	for _, item := range arr {
		switch v := item.(type) {
		case String:
			p.show(v)
		case Integer, Real:
			p.advance(-objectToFloat(v) / 1000 * p.fontSize * p.scale)
		}
	}
}

func (p *pageTextExtractor) advance(tx float64) {
	p.tm = multiplyMatrix([6]float64{1, 0, 0, 1, tx, 0}, p.tm)
}

// estimateTextWidth approximates the advance of text without font
// metrics: half an em per glyph plus character and word spacing.
func (p *pageTextExtractor) estimateTextWidth(text string) float64 {
	var w float64
	for _, r := range text {
		w += 0.5*p.fontSize + p.charSpace
		if r == ' ' {
			w += p.wordSpace
		}
	}
	return w * p.scale
}

// lookupFont resolves a font resource of the page
func (p *pageTextExtractor) lookupFont(name Name) *runFont {
	if f, ok := p.fonts[name]; ok {
		return f
	}

	f := &runFont{decode: DecodeWinAnsi}
	p.fonts[name] = f

	doc := p.page.doc
	fontsObj, err := doc.ResolveObject(p.page.Resources.Get("Font"))
	if err != nil {
		return f
	}
	fonts, _ := fontsObj.(Dictionary)
	fontObj, err := doc.ResolveObject(fonts.Get(string(name)))
	if err != nil {
		return f
	}
	dict, ok := fontObj.(Dictionary)
	if !ok {
		return f
	}

	if base, ok := dict.GetName("BaseFont"); ok {
		f.baseFont = string(base)
	}
	if enc, ok := dict.GetName("Encoding"); ok && enc == "MacRomanEncoding" {
		f.decode = func(data []byte) string {
			runes := make([]rune, len(data))
			for i, b := range data {
				runes[i] = charmap.Macintosh.DecodeByte(b)
			}
			return string(runes)
		}
	}
	return f
}

// multiplyMatrix returns a×b for PDF's [a b c d e f] affine matrices
func multiplyMatrix(a, b [6]float64) [6]float64 {
	return [6]float64{
		a[0]*b[0] + a[1]*b[2],
		a[0]*b[1] + a[1]*b[3],
		a[2]*b[0] + a[3]*b[2],
		a[2]*b[1] + a[3]*b[3],
		a[4]*b[0] + a[5]*b[2] + b[4],
		a[4]*b[1] + a[5]*b[3] + b[5],
	}
}

// TextLine is a group of runs sharing a baseline
type TextLine struct {
	Y    float64
	Runs []TextRun
}

// Text joins the runs of the line, inserting a space where the gap
// between runs is wider than a fifth of the font size.
func (l TextLine) Text() string {
	var b strings.Builder
	end := math.Inf(-1)
	for _, run := range l.Runs {
		if b.Len() > 0 && run.X-end > 0.2*run.Size {
			b.WriteByte(' ')
		}
		b.WriteString(run.Text)
		end = run.X + 0.5*run.Size*float64(len([]rune(run.Text)))
	}
	return b.String()
}

// GroupLines sorts runs into lines from the top of the page down.
// Runs whose baselines differ by less than a third of their font size
// belong to the same line; within a line runs are ordered left to right.
func GroupLines(runs []TextRun) []TextLine {
	sorted := make([]TextRun, len(runs))
	copy(sorted, runs)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Y > sorted[j].Y
	})

	var lines []TextLine
	for _, run := range sorted {
		n := len(lines)
		if n > 0 && lines[n-1].Y-run.Y < run.Size/3 {
			lines[n-1].Runs = append(lines[n-1].Runs, run)
			continue
		}
		lines = append(lines, TextLine{Y: run.Y, Runs: []TextRun{run}})
	}
	for _, line := range lines {
		sort.SliceStable(line.Runs, func(i, j int) bool {
			return line.Runs[i].X < line.Runs[j].X
		})
	}
	return lines
}

// ExtractPageLines returns the text lines of a page, top to bottom.
// Lines drawn from empty strings come back as empty strings.
func ExtractPageLines(page *Page) ([]string, error) {
	runs, err := ExtractTextRuns(page)
	if err != nil {
		return nil, err
	}
	var out []string
	for _, line := range GroupLines(runs) {
		out = append(out, line.Text())
	}
	return out, nil
}

// ExtractPageText returns the text of a page, one line per text line
func ExtractPageText(page *Page) (string, error) {
	lines, err := ExtractPageLines(page)
	if err != nil || len(lines) == 0 {
		return "", err
	}
	return strings.Join(lines, "\n") + "\n", nil
}
