// create-test-pdf writes the AI Study Assistant test document
package main

import (
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/novvoo/study-fixture/pkg/fixture"
)

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the command with args and returns the exit status
func run(args []string, stdout, stderr io.Writer) int {
	fs := flag.NewFlagSet("create-test-pdf", flag.ContinueOnError)
	fs.SetOutput(stderr)

	output := fs.String("o", fixture.OutputFile, "output PDF file")
	contentFile := fs.String("content", "", "YAML file replacing the title and lines")
	quiet := fs.Bool("q", false, "don't print any messages or errors")
	version := fs.Bool("v", false, "print version info")
	help := fs.Bool("h", false, "print usage information")
	fs.BoolVar(help, "help", false, "print usage information")

	fs.Usage = func() {
		fmt.Fprintf(stderr, "create-test-pdf version 1.0.0\n\n")
		fmt.Fprintf(stderr, "Usage: create-test-pdf [options]\n\n")
		fmt.Fprintf(stderr, "Options:\n")
		fs.PrintDefaults()
	}

	if err := fs.Parse(args); err != nil {
		return 2
	}

	if *version {
		fmt.Fprintln(stdout, "create-test-pdf version 1.0.0")
		return 0
	}
	if *help {
		fs.Usage()
		return 0
	}
	if fs.NArg() > 0 {
		fs.Usage()
		return 1
	}

	content := fixture.Default()
	if *contentFile != "" {
		var err error
		content, err = fixture.LoadContent(*contentFile)
		if err != nil {
			if !*quiet {
				fmt.Fprintf(stderr, "Error: %v\n", err)
			}
			return 1
		}
	}

	if err := fixture.Generate(*output, content, nil); err != nil {
		if !*quiet {
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return 1
	}

	if !*quiet {
		fmt.Fprintf(stdout, "Test PDF created: %s\n", *output)
	}
	return 0
}
