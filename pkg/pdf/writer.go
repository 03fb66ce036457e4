package pdf

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// Writer writes a PDF file sequentially. Objects are numbered with
// Alloc, written in any order, and indexed by a classic cross-reference
// table when the writer is closed.
type Writer struct {
	w       *bufio.Writer
	pos     int64
	err     error
	nextNum int
	offsets map[int]int64
	closed  bool
}

// NewWriter starts a PDF file of the given version ("1.4") on w
func NewWriter(w io.Writer, version string) *Writer {
	pw := &Writer{
		w:       bufio.NewWriter(w),
		nextNum: 1,
		offsets: make(map[int]int64),
	}
	pw.printf("%%PDF-%s\n", version)
	// binary marker, so that transfer tools treat the file as binary
	pw.printf("%%\xe2\xe3\xcf\xd3\n")
	return pw
}

// printf writes formatted output, keeping track of the file offset.
// The first error sticks and is reported by the next public call.
func (pw *Writer) printf(format string, args ...interface{}) {
	if pw.err != nil {
		return
	}
	n, err := fmt.Fprintf(pw.w, format, args...)
	pw.pos += int64(n)
	pw.err = err
}

func (pw *Writer) write(data []byte) {
	if pw.err != nil {
		return
	}
	n, err := pw.w.Write(data)
	pw.pos += int64(n)
	pw.err = err
}

// Alloc reserves an object number
func (pw *Writer) Alloc() Reference {
	ref := Reference{ObjectNumber: pw.nextNum}
	pw.nextNum++
	return ref
}

// startObject records the offset of ref and writes the object header
func (pw *Writer) startObject(ref Reference) error {
	if pw.closed {
		return errors.New("pdf writer is closed")
	}
	if ref.ObjectNumber <= 0 || ref.ObjectNumber >= pw.nextNum {
		return fmt.Errorf("object %d was not allocated", ref.ObjectNumber)
	}
	if _, seen := pw.offsets[ref.ObjectNumber]; seen {
		return fmt.Errorf("object %d already written", ref.ObjectNumber)
	}
	pw.offsets[ref.ObjectNumber] = pw.pos
	pw.printf("%d %d obj\n", ref.ObjectNumber, ref.GenerationNumber)
	return nil
}

// WriteObject writes obj as the indirect object ref
func (pw *Writer) WriteObject(ref Reference, obj Object) error {
	if err := pw.startObject(ref); err != nil {
		return err
	}
	pw.printf("%s\nendobj\n", obj.String())
	return pw.err
}

// WriteStream writes a stream object. With compress set the data is
// stored with FlateDecode. Length is filled in from the data.
func (pw *Writer) WriteStream(ref Reference, dict Dictionary, data []byte, compress bool) error {
	stream := make(Dictionary, len(dict)+2)
	for k, v := range dict {
		stream[k] = v
	}
	if compress {
		var err error
		data, err = flateEncode(data)
		if err != nil {
			return err
		}
		stream["Filter"] = Name("FlateDecode")
	}
	stream["Length"] = Integer(len(data))

	if err := pw.startObject(ref); err != nil {
		return err
	}
	pw.printf("%s\nstream\n", stream.String())
	pw.write(data)
	pw.printf("\nendstream\nendobj\n")
	return pw.err
}

// Close writes the cross-reference table and trailer and flushes the
// output. info may be the zero Reference to omit the Info dictionary;
// a non-empty id becomes both halves of the trailer /ID.
func (pw *Writer) Close(root, info Reference, id []byte) error {
	if pw.closed {
		return errors.New("pdf writer is closed")
	}
	pw.closed = true

	if root.ObjectNumber == 0 {
		return errors.New("missing /Root")
	}
	for num := 1; num < pw.nextNum; num++ {
		if _, ok := pw.offsets[num]; !ok {
			return fmt.Errorf("object %d allocated but never written", num)
		}
	}

	xrefPos := pw.pos
	pw.printf("xref\n0 %d\n", pw.nextNum)
	// Each entry is exactly 20 bytes: nnnnnnnnnn ggggg n/f plus a
	// two-byte end of line.
	pw.printf("%010d %05d f\r\n", 0, 65535)
	for num := 1; num < pw.nextNum; num++ {
		pw.printf("%010d %05d n\r\n", pw.offsets[num], 0)
	}

	trailer := Dictionary{
		"Size": Integer(pw.nextNum),
		"Root": root,
	}
	if info.ObjectNumber != 0 {
		trailer["Info"] = info
	}
	if len(id) > 0 {
		trailer["ID"] = Array{String{Value: id, IsHex: true}, String{Value: id, IsHex: true}}
	}
	pw.printf("trailer\n%s\nstartxref\n%d\n%%%%EOF\n", trailer.String(), xrefPos)

	if pw.err != nil {
		return pw.err
	}
	return pw.w.Flush()
}
