package main

import (
	"flag"
	"fmt"
	"math"
	"os"
	"time"

	"github.com/novvoo/study-fixture/pkg/pdf"
)

var (
	firstPage    int
	lastPage     int
	box          bool
	rawDates     bool
	printVersion bool
	printHelp    bool
)

func init() {
	flag.IntVar(&firstPage, "f", 1, "first page to examine")
	flag.IntVar(&lastPage, "l", 0, "last page to examine")
	flag.BoolVar(&box, "box", false, "print the page bounding boxes")
	flag.BoolVar(&rawDates, "rawdates", false, "print the undecoded date strings")
	flag.BoolVar(&printVersion, "v", false, "print copyright and version info")
	flag.BoolVar(&printHelp, "h", false, "print usage information")
	flag.BoolVar(&printHelp, "help", false, "print usage information")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdfinfo version 1.0.0\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pdfinfo [options] <PDF-file>\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fmt.Fprintf(os.Stderr, "  -f <int>          : first page to examine\n")
		fmt.Fprintf(os.Stderr, "  -l <int>          : last page to examine\n")
		fmt.Fprintf(os.Stderr, "  -box              : print the page bounding boxes\n")
		fmt.Fprintf(os.Stderr, "  -rawdates         : print the undecoded date strings\n")
		fmt.Fprintf(os.Stderr, "  -v                : print copyright and version info\n")
		fmt.Fprintf(os.Stderr, "  -h                : print usage information\n")
		fmt.Fprintf(os.Stderr, "  -help             : print usage information\n")
	}
}

func main() {
	flag.Parse()

	if printVersion {
		fmt.Println("pdfinfo version 1.0.0")
		os.Exit(0)
	}
	if printHelp {
		flag.Usage()
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		flag.Usage()
		os.Exit(1)
	}
	inputFile := args[0]

	doc, err := pdf.Open(inputFile)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: Couldn't open file '%s': %v\n", inputFile, err)
		os.Exit(1)
	}
	defer doc.Close()

	info := doc.GetInfo()
	numPages := doc.NumPages()

	fmt.Printf("Title:          %s\n", info.Title)
	fmt.Printf("Subject:        %s\n", info.Subject)
	fmt.Printf("Author:         %s\n", info.Author)
	fmt.Printf("Creator:        %s\n", info.Creator)
	fmt.Printf("Producer:       %s\n", info.Producer)
	if rawDates {
		fmt.Printf("CreationDate:   %s\n", rawCreationDate(doc))
	} else if !info.CreationDate.IsZero() {
		fmt.Printf("CreationDate:   %s\n", formatDate(info.CreationDate))
	}
	if info.Language != "" {
		fmt.Printf("Language:       %s\n", info.Language)
	}
	fmt.Printf("Pages:          %d\n", numPages)

	if numPages > 0 {
		if page, err := doc.GetPage(1); err == nil {
			fmt.Printf("Page size:      %.2f x %.2f pts", page.Width(), page.Height())
			if paperSize := detectPaperSize(page.Width(), page.Height()); paperSize != "" {
				fmt.Printf(" (%s)", paperSize)
			}
			fmt.Println()
		}
	}

	if box {
		first, last := firstPage, lastPage
		if first < 1 {
			first = 1
		}
		if last < 1 || last > numPages {
			last = numPages
		}
		for i := first; i <= last; i++ {
			page, err := doc.GetPage(i)
			if err != nil {
				continue
			}
			r := page.MediaBox
			fmt.Printf("Page %4d MediaBox: %8.2f %8.2f %8.2f %8.2f\n", i, r.LLX, r.LLY, r.URX, r.URY)
		}
	}

	if fileInfo, err := os.Stat(inputFile); err == nil {
		fmt.Printf("File size:      %d bytes\n", fileInfo.Size())
	}
	if len(info.FileID) > 0 {
		fmt.Printf("File ID:        %X\n", info.FileID)
	}
	fmt.Printf("PDF version:    %s\n", info.PDFVersion)
}

func rawCreationDate(doc *pdf.Document) string {
	if s, ok := doc.Info.Get("CreationDate").(pdf.String); ok {
		return s.Text()
	}
	return ""
}

func formatDate(t time.Time) string {
	return t.Format("Mon Jan 2 15:04:05 2006 MST")
}

func detectPaperSize(width, height float64) string {
	sizes := []struct {
		name string
		rect pdf.Rectangle
	}{
		{"letter", pdf.Letter},
		{"legal", pdf.Legal},
		{"A4", pdf.A4},
	}

	const tolerance = 5.0
	for _, size := range sizes {
		w, h := size.rect.Width(), size.rect.Height()
		if (math.Abs(width-w) < tolerance && math.Abs(height-h) < tolerance) ||
			(math.Abs(width-h) < tolerance && math.Abs(height-w) < tolerance) {
			orientation := "portrait"
			if width > height {
				orientation = "landscape"
			}
			return fmt.Sprintf("%s, %s", size.name, orientation)
		}
	}
	return ""
}
