// pdffonts - PDF font analyzer
package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/novvoo/study-fixture/pkg/pdf"
)

var (
	firstPage = flag.Int("f", 1, "first page to scan")
	lastPage  = flag.Int("l", 0, "last page to scan")
	subst     = flag.Bool("subst", false, "show font substitutions used for rendering")
	printHelp = flag.Bool("h", false, "print usage information")
	printVer  = flag.Bool("v", false, "print version information")
)

func usage() {
	fmt.Fprintf(os.Stderr, "pdffonts version 1.0.0\n")
	fmt.Fprintf(os.Stderr, "Usage: pdffonts [options] <PDF-file>\n")
	fmt.Fprintf(os.Stderr, "\nOptions:\n")
	flag.PrintDefaults()
}

func main() {
	flag.Usage = usage
	flag.Parse()

	if *printHelp {
		usage()
		os.Exit(0)
	}
	if *printVer {
		fmt.Println("pdffonts version 1.0.0")
		os.Exit(0)
	}

	args := flag.Args()
	if len(args) < 1 {
		usage()
		os.Exit(1)
	}

	doc, err := pdf.Open(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	defer doc.Close()

	fonts, err := pdf.ExtractFonts(doc, *firstPage, *lastPage)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error extracting fonts: %v\n", err)
		os.Exit(1)
	}

	if *subst {
		fmt.Printf("name                                 substitute\n")
		fmt.Printf("------------------------------------ ---------------\n")
		for _, font := range fonts {
			fmt.Printf("%-36s %s\n", truncate(font.Name, 36), pdf.SubstituteFont(font.Name))
		}
		return
	}

	fmt.Printf("name                                 type              encoding         emb sub uni object ID\n")
	fmt.Printf("------------------------------------ ----------------- ---------------- --- --- --- ---------\n")
	for _, font := range fonts {
		fmt.Printf("%-36s %-17s %-16s %-3s %-3s %-3s %5d %d\n",
			truncate(font.Name, 36), truncate(font.Type, 17), truncate(font.Encoding, 16),
			yesNo(font.Embedded), yesNo(font.Subset), yesNo(font.Unicode),
			font.ObjectNum, font.Generation)
	}
}

func truncate(s string, n int) string {
	if len(s) > n {
		return s[:n]
	}
	return s
}

func yesNo(b bool) string {
	if b {
		return "yes"
	}
	return "no"
}
