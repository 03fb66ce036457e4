package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/novvoo/study-fixture/pkg/pdf"
)

// TestRunDefault tests a run without arguments in the working directory
func TestRunDefault(t *testing.T) {
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("Getwd failed: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("Chdir failed: %v", err)
	}
	t.Cleanup(func() { os.Chdir(wd) })

	var stdout, stderr bytes.Buffer
	if code := run(nil, &stdout, &stderr); code != 0 {
		t.Fatalf("Expected exit status 0, got %d (stderr %q)", code, stderr.String())
	}
	if got, want := stdout.String(), "Test PDF created: test_document.pdf\n"; got != want {
		t.Errorf("Expected stdout %q, got %q", want, got)
	}
	if stderr.Len() != 0 {
		t.Errorf("Expected empty stderr, got %q", stderr.String())
	}

	doc, err := pdf.Open("test_document.pdf")
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer doc.Close()
	if doc.NumPages() != 1 {
		t.Errorf("Expected 1 page, got %d", doc.NumPages())
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	badContent := filepath.Join(dir, "bad.yaml")
	if err := os.WriteFile(badContent, []byte("lines:\n  - 日本語\n"), 0o644); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	tests := []struct {
		name   string
		args   []string
		code   int
		stdout string
		stderr string
		file   string
	}{
		{
			name:   "output flag",
			args:   []string{"-o", filepath.Join(dir, "out.pdf")},
			stdout: "Test PDF created: " + filepath.Join(dir, "out.pdf") + "\n",
			file:   filepath.Join(dir, "out.pdf"),
		},
		{
			name: "quiet",
			args: []string{"-q", "-o", filepath.Join(dir, "quiet.pdf")},
			file: filepath.Join(dir, "quiet.pdf"),
		},
		{
			name:   "missing directory",
			args:   []string{"-o", filepath.Join(dir, "missing", "out.pdf")},
			code:   1,
			stderr: "Error:",
		},
		{
			name: "missing directory quiet",
			args: []string{"-q", "-o", filepath.Join(dir, "missing", "out.pdf")},
			code: 1,
		},
		{
			name:   "unencodable content",
			args:   []string{"-content", badContent, "-o", filepath.Join(dir, "bad.pdf")},
			code:   1,
			stderr: "Error:",
		},
		{
			name:   "extra argument",
			args:   []string{"extra"},
			code:   1,
			stderr: "Usage: create-test-pdf",
		},
		{
			name:   "version",
			args:   []string{"-v"},
			stdout: "create-test-pdf version 1.0.0\n",
		},
		{
			name:   "help",
			args:   []string{"-h"},
			stderr: "Usage: create-test-pdf",
		},
		{
			name: "unknown flag",
			args: []string{"-x"},
			code: 2,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var stdout, stderr bytes.Buffer
			if code := run(tt.args, &stdout, &stderr); code != tt.code {
				t.Fatalf("Expected exit status %d, got %d (stderr %q)", tt.code, code, stderr.String())
			}
			if stdout.String() != tt.stdout {
				t.Errorf("Expected stdout %q, got %q", tt.stdout, stdout.String())
			}
			if tt.stderr == "" && tt.code != 2 && stderr.Len() != 0 {
				t.Errorf("Expected empty stderr, got %q", stderr.String())
			}
			if !strings.Contains(stderr.String(), tt.stderr) {
				t.Errorf("Expected stderr to contain %q, got %q", tt.stderr, stderr.String())
			}
			if tt.file != "" {
				if _, err := os.Stat(tt.file); err != nil {
					t.Errorf("Expected %s to exist: %v", tt.file, err)
				}
			}
		})
	}

	if _, err := os.Stat(filepath.Join(dir, "bad.pdf")); !os.IsNotExist(err) {
		t.Errorf("Expected no file after a failed run, got stat error %v", err)
	}
}
