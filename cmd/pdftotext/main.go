package main

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/novvoo/study-fixture/pkg/pdf"
)

var (
	firstPage int
	lastPage  int
	eol       string
	nopgbrk   bool
	quiet     bool
	printHelp bool
	printVer  bool
)

func init() {
	flag.IntVar(&firstPage, "f", 1, "first page to convert")
	flag.IntVar(&lastPage, "l", 0, "last page to convert")
	flag.StringVar(&eol, "eol", "", "output end-of-line convention (unix/dos/mac)")
	flag.BoolVar(&nopgbrk, "nopgbrk", false, "don't insert page breaks between pages")
	flag.BoolVar(&quiet, "q", false, "don't print any messages or errors")
	flag.BoolVar(&printHelp, "h", false, "print usage information")
	flag.BoolVar(&printHelp, "help", false, "print usage information")
	flag.BoolVar(&printVer, "v", false, "print copyright and version info")

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, "pdftotext version 1.0.0\n\n")
		fmt.Fprintf(os.Stderr, "Usage: pdftotext [options] <PDF-file> [<text-file>]\n\n")
		fmt.Fprintf(os.Stderr, "Options:\n")
		fmt.Fprintf(os.Stderr, "  -f <int>          : first page to convert\n")
		fmt.Fprintf(os.Stderr, "  -l <int>          : last page to convert\n")
		fmt.Fprintf(os.Stderr, "  -eol <string>     : output end-of-line convention (unix/dos/mac)\n")
		fmt.Fprintf(os.Stderr, "  -nopgbrk          : don't insert page breaks between pages\n")
		fmt.Fprintf(os.Stderr, "  -q                : don't print any messages or errors\n")
		fmt.Fprintf(os.Stderr, "  -v                : print copyright and version info\n")
		fmt.Fprintf(os.Stderr, "  -h                : print usage information\n")
		fmt.Fprintf(os.Stderr, "  -help             : print usage information\n")
	}
}

func fail(format string, args ...interface{}) {
	if !quiet {
		fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	}
	os.Exit(1)
}

func main() {
	flag.Parse()

	if printVer {
		fmt.Println("pdftotext version 1.0.0")
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
	outputFile := ""
	if len(args) >= 2 {
		outputFile = args[1]
	} else if strings.HasSuffix(strings.ToLower(inputFile), ".pdf") {
		outputFile = inputFile[:len(inputFile)-4] + ".txt"
	} else {
		outputFile = inputFile + ".txt"
	}

	doc, err := pdf.Open(inputFile)
	if err != nil {
		fail("Couldn't open file '%s': %v", inputFile, err)
	}
	defer doc.Close()

	numPages := doc.NumPages()
	if lastPage == 0 || lastPage > numPages {
		lastPage = numPages
	}
	if firstPage < 1 {
		firstPage = 1
	}
	if firstPage > lastPage {
		fail("Invalid page range")
	}

	lineEnding := "\n"
	switch eol {
	case "dos":
		lineEnding = "\r\n"
	case "mac":
		lineEnding = "\r"
	}

	var output io.Writer = os.Stdout
	if outputFile != "-" {
		fd, err := os.Create(outputFile)
		if err != nil {
			fail("Couldn't create output file '%s': %v", outputFile, err)
		}
		defer fd.Close()
		output = fd
	}

	for pageNum := firstPage; pageNum <= lastPage; pageNum++ {
		page, err := doc.GetPage(pageNum)
		if err != nil {
			fail("%v", err)
		}

		text, err := pdf.ExtractPageText(page)
		if err != nil {
			fail("page %d: %v", pageNum, err)
		}
		if lineEnding != "\n" {
			text = strings.ReplaceAll(text, "\n", lineEnding)
		}
		fmt.Fprint(output, text)

		if !nopgbrk {
			fmt.Fprint(output, "\f")
		}
	}
}
