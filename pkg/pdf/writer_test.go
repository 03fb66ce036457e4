package pdf

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"testing"
)

// writeMinimalPDF writes a one-page document with a single text line
func writeMinimalPDF(t *testing.T) []byte {
	t.Helper()

	var buf bytes.Buffer
	w := NewWriter(&buf, "1.4")
	catalog := w.Alloc()
	pages := w.Alloc()
	page := w.Alloc()
	content := w.Alloc()
	font := w.Alloc()

	steps := []error{
		w.WriteObject(catalog, Dictionary{"Type": Name("Catalog"), "Pages": pages}),
		w.WriteObject(pages, Dictionary{"Type": Name("Pages"), "Kids": Array{page}, "Count": Integer(1), "MediaBox": rectangleToArray(Letter)}),
		w.WriteObject(page, Dictionary{
			"Type":      Name("Page"),
			"Parent":    pages,
			"Contents":  content,
			"Resources": Dictionary{"Font": Dictionary{"F1": font}},
		}),
		w.WriteStream(content, nil, []byte("BT /F1 12 Tf 1 0 0 1 100 700 Tm (Hello) Tj ET"), false),
		w.WriteObject(font, Dictionary{"Type": Name("Font"), "Subtype": Name("Type1"), "BaseFont": Name("Helvetica")}),
		w.Close(catalog, Reference{}, []byte{1, 2, 3, 4}),
	}
	for i, err := range steps {
		if err != nil {
			t.Fatalf("step %d failed: %v", i, err)
		}
	}
	return buf.Bytes()
}

// TestWriterLayout tests header, xref offsets and trailer
func TestWriterLayout(t *testing.T) {
	data := writeMinimalPDF(t)
	text := string(data)

	if !strings.HasPrefix(text, "%PDF-1.4\n") {
		t.Errorf("unexpected header %q", text[:10])
	}
	if !strings.HasSuffix(text, "%%EOF\n") {
		t.Errorf("file should end with %%EOF")
	}

	idx := strings.LastIndex(text, "startxref\n")
	if idx < 0 {
		t.Fatal("startxref missing")
	}
	xrefPos, err := strconv.Atoi(strings.Fields(text[idx+len("startxref"):])[0])
	if err != nil {
		t.Fatalf("bad startxref: %v", err)
	}
	if !strings.HasPrefix(text[xrefPos:], "xref\n0 6\n") {
		t.Fatalf("startxref does not point at the xref table: %q", text[xrefPos:xrefPos+12])
	}

	// every entry is 20 bytes and points at "n 0 obj"
	entries := text[xrefPos+len("xref\n0 6\n"):]
	for num := 0; num < 6; num++ {
		entry := entries[num*20 : num*20+20]
		if !strings.HasSuffix(entry, "\r\n") {
			t.Errorf("entry %d is not 20 bytes: %q", num, entry)
		}
		if num == 0 {
			if entry != "0000000000 65535 f\r\n" {
				t.Errorf("free entry = %q", entry)
			}
			continue
		}
		offset, _ := strconv.Atoi(entry[:10])
		want := fmt.Sprintf("%d 0 obj\n", num)
		if !strings.HasPrefix(text[offset:], want) {
			t.Errorf("entry %d points at %q", num, text[offset:offset+len(want)])
		}
	}

	if !strings.Contains(text, "/ID [<01020304> <01020304>]") {
		t.Error("trailer should carry the file ID")
	}
	if strings.Contains(text, "/Info") {
		t.Error("trailer should omit Info when none is given")
	}
}

// TestWriterErrors tests misuse of the writer
func TestWriterErrors(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf, "1.4")
	ref := w.Alloc()
	unused := w.Alloc()

	if err := w.WriteObject(Reference{ObjectNumber: 9}, Null{}); err == nil {
		t.Error("writing an unallocated object should fail")
	}
	if err := w.WriteObject(ref, Dictionary{"Type": Name("Catalog")}); err != nil {
		t.Fatalf("WriteObject failed: %v", err)
	}
	if err := w.WriteObject(ref, Null{}); err == nil {
		t.Error("writing an object twice should fail")
	}
	if err := w.Close(ref, Reference{}, nil); err == nil {
		t.Errorf("Close should report object %d as never written", unused.ObjectNumber)
	}
	if err := w.WriteObject(unused, Null{}); err == nil {
		t.Error("writing after Close should fail")
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) {
	return 0, fmt.Errorf("disk full")
}

// TestWriterPropagatesIOErrors tests that write failures surface on Close
func TestWriterPropagatesIOErrors(t *testing.T) {
	w := NewWriter(failingWriter{}, "1.4")
	ref := w.Alloc()
	w.WriteObject(ref, Dictionary{"Type": Name("Catalog")})
	if err := w.Close(ref, Reference{}, nil); err == nil || !strings.Contains(err.Error(), "disk full") {
		t.Errorf("Close() = %v, expected the disk full error", err)
	}
}
