package fixture

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/text/language"

	"github.com/novvoo/study-fixture/pkg/pdf"
)

// OutputFile is where the generator writes by default, relative to the
// working directory.
const OutputFile = "test_document.pdf"

// Producer names this program in the document information
const Producer = "study-fixture create-test-pdf"

// fileIDSpace namespaces the name-based file identifiers
var fileIDSpace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("https://github.com/novvoo/study-fixture"))

// Options tune the generated file without changing its layout
type Options struct {
	// CreationDate defaults to the current time. Fixing it makes the
	// output byte-for-byte reproducible.
	CreationDate time.Time
}

// FileID derives the document identifier from its text, so that every
// run over the same content yields the same /ID.
func FileID(c Content) []byte {
	name := c.Title + "\n" + strings.Join(c.Lines, "\n")
	id := uuid.NewSHA1(fileIDSpace, []byte(name))
	return id[:]
}

// Render draws the planned pages onto cv, closing each page but the
// last. The caller saves the canvas.
func Render(cv *pdf.Canvas, plan []PagePlan) error {
	for i, page := range plan {
		if i > 0 {
			if err := cv.ShowPage(); err != nil {
				return err
			}
		}
		for _, line := range page.Lines {
			if font, size := cv.Font(); font != line.Font || size != line.Size {
				if err := cv.SetFont(line.Font, line.Size); err != nil {
					return err
				}
			}
			if err := cv.DrawString(line.X, line.Y, line.Text); err != nil {
				return fmt.Errorf("page %d: %w", page.Number, err)
			}
		}
	}
	return nil
}

func canvasOptions(c Content, opts *Options) *pdf.CanvasOptions {
	co := &pdf.CanvasOptions{
		Title:    c.Title,
		Creator:  Producer,
		Producer: Producer,
		Language: language.AmericanEnglish,
		FileID:   FileID(c),
	}
	if opts != nil {
		co.CreationDate = opts.CreationDate
	}
	return co
}

// Write lays out c and writes the finished PDF to w
func Write(w io.Writer, c Content, opts *Options) error {
	cv := pdf.NewCanvas(w, PageSize, canvasOptions(c, opts))
	if err := Render(cv, Layout(c)); err != nil {
		return err
	}
	return cv.Save()
}

// Generate creates or overwrites the file at path with the document
// for c. On failure nothing is left at path.
func Generate(path string, c Content, opts *Options) error {
	cv, err := pdf.CreateCanvas(path, PageSize, canvasOptions(c, opts))
	if err != nil {
		return fmt.Errorf("create %s: %w", path, err)
	}
	if err := Render(cv, Layout(c)); err != nil {
		cv.Abort()
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	if err := cv.Save(); err != nil {
		os.Remove(path)
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}
