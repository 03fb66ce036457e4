// pdftoppm - render the text of PDF pages to PNG images
package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/novvoo/study-fixture/pkg/pdf"
)

func main() {
	firstPage := flag.Int("f", 1, "first page to convert")
	lastPage := flag.Int("l", 0, "last page to convert")
	resolution := flag.Float64("r", 72, "resolution in DPI")
	quiet := flag.Bool("q", false, "don't print any messages")
	version := flag.Bool("v", false, "print version info")
	help := flag.Bool("h", false, "print usage information")
	flag.BoolVar(help, "help", false, "print usage information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdftoppm version 1.0.0\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pdftoppm [options] <PDF-file> [<output-root>]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
	}

	flag.Parse()

	if *version {
		fmt.Println("pdftoppm version 1.0.0")
		return
	}

	if *help || flag.NArg() < 1 {
		flag.Usage()
		return
	}

	pdfFile := flag.Arg(0)
	outputRoot := flag.Arg(1)
	if outputRoot == "" {
		outputRoot = strings.TrimSuffix(filepath.Base(pdfFile), ".pdf")
	}

	doc, err := pdf.Open(pdfFile)
	if err != nil {
		if !*quiet {
			fmt.Fprintf(os.Stderr, "Error opening PDF: %v\n", err)
		}
		os.Exit(1)
	}
	defer doc.Close()

	numPages := doc.NumPages()
	first := *firstPage
	last := *lastPage
	if first < 1 {
		first = 1
	}
	if last == 0 || last > numPages {
		last = numPages
	}

	renderer := pdf.NewPageRenderer(doc, pdf.RenderOptions{DPI: *resolution})
	digits := len(fmt.Sprint(numPages))

	for pageNum := first; pageNum <= last; pageNum++ {
		page, err := renderer.RenderPage(pageNum)
		if err != nil {
			if !*quiet {
				fmt.Fprintf(os.Stderr, "Error rendering page %d: %v\n", pageNum, err)
			}
			os.Exit(1)
		}

		outFile := fmt.Sprintf("%s-%0*d.png", outputRoot, digits, pageNum)
		if err := writePNG(outFile, page); err != nil {
			if !*quiet {
				fmt.Fprintf(os.Stderr, "Error writing %s: %v\n", outFile, err)
			}
			os.Exit(1)
		}

		if !*quiet {
			fmt.Printf("Page %d -> %s (%dx%d)\n", pageNum, outFile, page.Width, page.Height)
		}
	}
}

func writePNG(path string, page *pdf.RenderedPage) error {
	fd, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := page.EncodePNG(fd); err != nil {
		fd.Close()
		return err
	}
	return fd.Close()
}
