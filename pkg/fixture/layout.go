package fixture

import "github.com/novvoo/study-fixture/pkg/pdf"

// Page geometry and typography of the fixture, in points. These are
// fixed values of this one document, not layout parameters.
const (
	PageWidth  = 612
	PageHeight = 792

	LeftMargin = 100

	TitleFont   = "Helvetica-Bold"
	TitleSize   = 16
	TitleOffset = 100 // title baseline below the top edge

	BodyFont   = "Helvetica"
	BodySize   = 12
	BodyOffset = 150 // first body line below the top edge on page 1

	TopMargin    = 50 // first body line below the top edge on later pages
	BottomMargin = 50 // no line starts below this height
	LineHeight   = 20
)

// PageSize is US Letter
var PageSize = pdf.Letter

// PlacedLine is a line of text at its final position
type PlacedLine struct {
	Text string
	Font string
	Size float64
	X, Y float64
}

// PagePlan lists what goes on one page, in drawing order
type PagePlan struct {
	Number int
	Lines  []PlacedLine
}

// Layout places the title and every content line. The cursor check
// happens before a line is placed, so a line that would start below
// the bottom margin opens a new page instead.
func Layout(c Content) []PagePlan {
	page := PagePlan{Number: 1}
	page.Lines = append(page.Lines, PlacedLine{
		Text: c.Title,
		Font: TitleFont,
		Size: TitleSize,
		X:    LeftMargin,
		Y:    PageHeight - TitleOffset,
	})

	return flow(page, PageHeight-BodyOffset, c.Lines)
}

// flow appends body lines to page starting at height y, breaking pages
// as needed, and returns all pages.
func flow(page PagePlan, y float64, lines []string) []PagePlan {
	var pages []PagePlan
	for _, text := range lines {
		if y < BottomMargin {
			pages = append(pages, page)
			page = PagePlan{Number: len(pages) + 1}
			y = PageHeight - TopMargin
		}
		page.Lines = append(page.Lines, PlacedLine{
			Text: text,
			Font: BodyFont,
			Size: BodySize,
			X:    LeftMargin,
			Y:    y,
		})
		y -= LineHeight
	}
	return append(pages, page)
}
