package pdf

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
	"time"
)

// Document represents a parsed PDF document
type Document struct {
	data    []byte
	Version string
	Trailer Dictionary
	Root    Dictionary
	Info    Dictionary
	Pages   []*Page
	objects map[int]Object
	xref    map[int]xrefEntry
}

// xrefEntry represents an entry in the cross-reference table
type xrefEntry struct {
	Offset     int64
	Generation int
	InUse      bool
	// For compressed objects
	StreamObjNum int
	Index        int
}

// Page represents a PDF page
type Page struct {
	doc        *Document
	Dictionary Dictionary
	Number     int
	MediaBox   Rectangle
	Resources  Dictionary
}

// Rectangle represents a PDF rectangle
type Rectangle struct {
	LLX, LLY, URX, URY float64
}

// Width returns the rectangle width
func (r Rectangle) Width() float64 {
	return r.URX - r.LLX
}

// Height returns the rectangle height
func (r Rectangle) Height() float64 {
	return r.URY - r.LLY
}

// Open opens a PDF file
func Open(filename string) (*Document, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	return NewDocument(data)
}

// NewReader creates a document from an io.Reader
func NewReader(r io.Reader) (*Document, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return NewDocument(data)
}

// NewDocument creates a new document from PDF data
func NewDocument(data []byte) (*Document, error) {
	doc := &Document{
		data:    data,
		objects: make(map[int]Object),
		xref:    make(map[int]xrefEntry),
	}

	if err := doc.parse(); err != nil {
		return nil, err
	}

	return doc, nil
}

// parse reads the header, cross-reference data, catalog and page tree
func (d *Document) parse() error {
	if !bytes.HasPrefix(d.data, []byte("%PDF-")) {
		return errors.New("not a PDF file")
	}

	header := d.data[5:]
	if idx := bytes.IndexAny(header, "\r\n"); idx > 0 {
		d.Version = string(header[:idx])
	}
	if d.Version == "" {
		return errors.New("missing PDF version in header")
	}

	startxref, err := d.findStartXRef()
	if err != nil {
		return err
	}
	if err := d.parseXRef(startxref, map[int64]bool{}); err != nil {
		return err
	}

	rootObj, err := d.ResolveObject(d.Trailer.Get("Root"))
	if err != nil {
		return err
	}
	root, ok := rootObj.(Dictionary)
	if !ok {
		return errors.New("Root is not a dictionary")
	}
	d.Root = root

	// Info is optional
	if infoRef := d.Trailer.Get("Info"); infoRef != nil {
		if infoObj, err := d.ResolveObject(infoRef); err == nil {
			d.Info, _ = infoObj.(Dictionary)
		}
	}

	return d.parsePages()
}

// findStartXRef finds the startxref position near the end of the file
func (d *Document) findStartXRef() (int64, error) {
	tail := d.data
	if len(tail) > 1024 {
		tail = tail[len(tail)-1024:]
	}

	idx := bytes.LastIndex(tail, []byte("startxref"))
	if idx < 0 {
		return 0, errors.New("startxref not found")
	}

	fields := bytes.Fields(tail[idx+len("startxref"):])
	if len(fields) == 0 {
		return 0, errors.New("invalid startxref offset")
	}
	offset, err := strconv.ParseInt(string(fields[0]), 10, 64)
	if err != nil || offset < 0 || offset >= int64(len(d.data)) {
		return 0, errors.New("invalid startxref offset")
	}
	return offset, nil
}

// parseXRef parses the cross-reference section at offset and any
// sections it chains to through /Prev.
func (d *Document) parseXRef(offset int64, seen map[int64]bool) error {
	if seen[offset] {
		return fmt.Errorf("xref loop at offset %d", offset)
	}
	seen[offset] = true

	pos := offset
	for pos < int64(len(d.data)) && isWhitespace(d.data[pos]) {
		pos++
	}

	var trailer Dictionary
	var err error
	if bytes.HasPrefix(d.data[pos:], []byte("xref")) {
		trailer, err = d.parseXRefTable(pos)
	} else {
		trailer, err = d.parseXRefStream(pos)
	}
	if err != nil {
		return err
	}

	// keys from newer sections win
	if d.Trailer == nil {
		d.Trailer = trailer
	} else {
		for k, v := range trailer {
			if _, exists := d.Trailer[k]; !exists {
				d.Trailer[k] = v
			}
		}
	}

	if prev, ok := trailer.GetInt("Prev"); ok {
		return d.parseXRef(prev, seen)
	}
	return nil
}

// parseXRefTable parses a traditional xref table and its trailer
func (d *Document) parseXRefTable(offset int64) (Dictionary, error) {
	lexer := NewLexerFromBytes(d.data[offset:])
	lexer.ReadLine() // "xref"

	for {
		line, err := lexer.ReadLine()
		if err != nil {
			return nil, err
		}
		line = bytes.TrimSpace(line)
		if len(line) == 0 {
			if lexer.Position() >= int64(len(d.data))-offset {
				return nil, errors.New("missing trailer")
			}
			continue
		}
		if bytes.HasPrefix(line, []byte("trailer")) {
			break
		}

		// subsection header: start count
		parts := bytes.Fields(line)
		if len(parts) != 2 {
			return nil, fmt.Errorf("malformed xref subsection %q", line)
		}
		start, err1 := strconv.Atoi(string(parts[0]))
		count, err2 := strconv.Atoi(string(parts[1]))
		if err1 != nil || err2 != nil {
			return nil, fmt.Errorf("malformed xref subsection %q", line)
		}

		for i := 0; i < count; i++ {
			// nnnnnnnnnn ggggg n
			entry, err := lexer.ReadLine()
			if err != nil {
				return nil, err
			}
			fields := strings.Fields(string(entry))
			if len(fields) < 3 {
				return nil, fmt.Errorf("malformed xref entry %q", entry)
			}
			entryOffset, _ := strconv.ParseInt(fields[0], 10, 64)
			gen, _ := strconv.Atoi(fields[1])

			objNum := start + i
			if _, exists := d.xref[objNum]; !exists {
				d.xref[objNum] = xrefEntry{
					Offset:     entryOffset,
					Generation: gen,
					InUse:      fields[2] == "n",
				}
			}
		}
	}

	trailerObj, err := NewParser(lexer).ParseObject()
	if err != nil {
		return nil, fmt.Errorf("trailer: %w", err)
	}
	trailer, ok := trailerObj.(Dictionary)
	if !ok {
		return nil, errors.New("trailer is not a dictionary")
	}
	return trailer, nil
}

// parseXRefStream parses a cross-reference stream (PDF 1.5+)
func (d *Document) parseXRefStream(offset int64) (Dictionary, error) {
	_, _, obj, err := d.parserAt(offset).ParseIndirectObject()
	if err != nil {
		return nil, err
	}
	stream, ok := obj.(Stream)
	if !ok {
		return nil, fmt.Errorf("xref stream expected at offset %d", offset)
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, err
	}

	wArray, ok := stream.Dictionary.GetArray("W")
	if !ok || len(wArray) != 3 {
		return nil, errors.New("invalid xref stream W array")
	}
	var w [3]int
	for i, obj := range wArray {
		n, _ := obj.(Integer)
		w[i] = int(n)
	}

	var indices []int
	if indexArray, ok := stream.Dictionary.GetArray("Index"); ok {
		for _, obj := range indexArray {
			if n, ok := obj.(Integer); ok {
				indices = append(indices, int(n))
			}
		}
	} else if size, ok := stream.Dictionary.GetInt("Size"); ok {
		indices = []int{0, int(size)}
	}

	entrySize := w[0] + w[1] + w[2]
	pos := 0
	for i := 0; i+1 < len(indices); i += 2 {
		start, count := indices[i], indices[i+1]
		for j := 0; j < count && pos+entrySize <= len(data); j++ {
			entry := data[pos : pos+entrySize]
			pos += entrySize

			entryType := 1
			if w[0] > 0 {
				entryType = readXRefField(entry, 0, w[0])
			}
			field2 := readXRefField(entry, w[0], w[1])
			field3 := readXRefField(entry, w[0]+w[1], w[2])

			objNum := start + j
			if _, exists := d.xref[objNum]; exists {
				continue
			}
			switch entryType {
			case 0:
				d.xref[objNum] = xrefEntry{}
			case 1:
				d.xref[objNum] = xrefEntry{Offset: int64(field2), Generation: field3, InUse: true}
			case 2:
				d.xref[objNum] = xrefEntry{StreamObjNum: field2, Index: field3, InUse: true}
			}
		}
	}

	return stream.Dictionary, nil
}

// readXRefField reads a big-endian field from an xref stream entry
func readXRefField(data []byte, offset, width int) int {
	result := 0
	for i := 0; i < width; i++ {
		result = result<<8 | int(data[offset+i])
	}
	return result
}

// parserAt returns a parser positioned at offset that can resolve
// indirect stream lengths.
func (d *Document) parserAt(offset int64) *Parser {
	p := NewParserFromBytes(d.data[offset:])
	p.resolve = d.ResolveObject
	return p
}

// ResolveObject resolves an object, following references
func (d *Document) ResolveObject(obj Object) (Object, error) {
	ref, ok := obj.(Reference)
	if !ok {
		if obj == nil {
			return Null{}, nil
		}
		return obj, nil
	}
	return d.GetObject(ref.ObjectNumber)
}

// GetObject gets an object by number. Missing and free objects are null.
func (d *Document) GetObject(objNum int) (Object, error) {
	if obj, ok := d.objects[objNum]; ok {
		return obj, nil
	}

	entry, ok := d.xref[objNum]
	if !ok || !entry.InUse {
		return Null{}, nil
	}

	var obj Object
	var err error
	if entry.StreamObjNum > 0 {
		obj, err = d.getCompressedObject(entry.StreamObjNum, entry.Index)
	} else {
		if entry.Offset <= 0 || entry.Offset >= int64(len(d.data)) {
			return nil, fmt.Errorf("object %d: offset %d out of range", objNum, entry.Offset)
		}
		var num int
		num, _, obj, err = d.parserAt(entry.Offset).ParseIndirectObject()
		if err == nil && num != objNum {
			err = fmt.Errorf("xref points object %d at object %d", objNum, num)
		}
	}
	if err != nil {
		return nil, fmt.Errorf("object %d: %w", objNum, err)
	}

	d.objects[objNum] = obj
	return obj, nil
}

// getCompressedObject reads an object from an object stream
func (d *Document) getCompressedObject(streamObjNum, index int) (Object, error) {
	streamObj, err := d.GetObject(streamObjNum)
	if err != nil {
		return nil, err
	}
	stream, ok := streamObj.(Stream)
	if !ok {
		return nil, fmt.Errorf("object stream %d is not a stream", streamObjNum)
	}

	data, err := stream.Decode()
	if err != nil {
		return nil, err
	}

	first, ok := stream.Dictionary.GetInt("First")
	if !ok || first > int64(len(data)) {
		return nil, errors.New("object stream missing First")
	}
	n, _ := stream.Dictionary.GetInt("N")
	if int64(index) >= n {
		return nil, fmt.Errorf("object index %d out of range", index)
	}

	// header: pairs of object number and offset
	header := NewParserFromBytes(data[:first])
	var offset Integer
	for i := 0; i <= index; i++ {
		if _, err := header.ParseObject(); err != nil {
			return nil, err
		}
		obj, err := header.ParseObject()
		if err != nil {
			return nil, err
		}
		offset, _ = obj.(Integer)
	}

	start := first + int64(offset)
	if start > int64(len(data)) {
		return nil, fmt.Errorf("object index %d: offset out of range", index)
	}
	return NewParserFromBytes(data[start:]).ParseObject()
}

// parsePages walks the page tree
func (d *Document) parsePages() error {
	pagesObj, err := d.ResolveObject(d.Root.Get("Pages"))
	if err != nil {
		return err
	}
	pagesDict, ok := pagesObj.(Dictionary)
	if !ok {
		return errors.New("missing Pages in catalog")
	}
	return d.parsePagesNode(pagesDict, nil, Rectangle{}, 0)
}

// parsePagesNode recursively collects leaf pages, passing down the
// inheritable Resources and MediaBox.
func (d *Document) parsePagesNode(node Dictionary, resources Dictionary, mediaBox Rectangle, depth int) error {
	if depth > 64 {
		return errors.New("page tree too deep")
	}

	if res := node.Get("Resources"); res != nil {
		if resObj, err := d.ResolveObject(res); err == nil {
			if resDict, ok := resObj.(Dictionary); ok {
				resources = resDict
			}
		}
	}
	if mb := node.Get("MediaBox"); mb != nil {
		if mbObj, err := d.ResolveObject(mb); err == nil {
			if mbArray, ok := mbObj.(Array); ok && len(mbArray) == 4 {
				mediaBox = arrayToRectangle(mbArray)
			}
		}
	}

	nodeType, _ := node.GetName("Type")
	switch nodeType {
	case "Pages":
		kidsObj, err := d.ResolveObject(node.Get("Kids"))
		if err != nil {
			return err
		}
		kids, ok := kidsObj.(Array)
		if !ok {
			return errors.New("Kids is not an array")
		}
		for _, kidRef := range kids {
			kidObj, err := d.ResolveObject(kidRef)
			if err != nil {
				return err
			}
			kidDict, ok := kidObj.(Dictionary)
			if !ok {
				continue
			}
			if err := d.parsePagesNode(kidDict, resources, mediaBox, depth+1); err != nil {
				return err
			}
		}

	case "Page":
		d.Pages = append(d.Pages, &Page{
			doc:        d,
			Dictionary: node,
			Number:     len(d.Pages) + 1,
			MediaBox:   mediaBox,
			Resources:  resources,
		})
	}

	return nil
}

// arrayToRectangle converts a PDF array to a Rectangle
func arrayToRectangle(arr Array) Rectangle {
	var r Rectangle
	if len(arr) >= 4 {
		r.LLX = objectToFloat(arr[0])
		r.LLY = objectToFloat(arr[1])
		r.URX = objectToFloat(arr[2])
		r.URY = objectToFloat(arr[3])
	}
	return r
}

// rectangleToArray converts a Rectangle to a PDF array
func rectangleToArray(r Rectangle) Array {
	return Array{Real(r.LLX), Real(r.LLY), Real(r.URX), Real(r.URY)}
}

// objectToFloat converts a PDF number to float64
func objectToFloat(obj Object) float64 {
	switch v := obj.(type) {
	case Integer:
		return float64(v)
	case Real:
		return float64(v)
	}
	return 0
}

// NumPages returns the number of pages
func (d *Document) NumPages() int {
	return len(d.Pages)
}

// GetPage returns a page by number (1-indexed)
func (d *Document) GetPage(num int) (*Page, error) {
	if num < 1 || num > len(d.Pages) {
		return nil, fmt.Errorf("page %d out of range", num)
	}
	return d.Pages[num-1], nil
}

// GetContents returns the page contents as decoded bytes
func (p *Page) GetContents() ([]byte, error) {
	contentsObj, err := p.doc.ResolveObject(p.Dictionary.Get("Contents"))
	if err != nil {
		return nil, err
	}

	switch contents := contentsObj.(type) {
	case Null:
		return nil, nil
	case Stream:
		return contents.Decode()
	case Array:
		// content split over several streams
		var buf bytes.Buffer
		for _, ref := range contents {
			streamObj, err := p.doc.ResolveObject(ref)
			if err != nil {
				return nil, err
			}
			stream, ok := streamObj.(Stream)
			if !ok {
				continue
			}
			data, err := stream.Decode()
			if err != nil {
				return nil, err
			}
			buf.Write(data)
			buf.WriteByte('\n')
		}
		return buf.Bytes(), nil
	}

	return nil, fmt.Errorf("invalid Contents type %T", contentsObj)
}

// Width returns the page width
func (p *Page) Width() float64 {
	return p.MediaBox.Width()
}

// Height returns the page height
func (p *Page) Height() float64 {
	return p.MediaBox.Height()
}

// Close releases the document data
func (d *Document) Close() error {
	d.data = nil
	d.objects = nil
	d.xref = nil
	return nil
}

// DocumentInfo contains PDF document metadata
type DocumentInfo struct {
	Title        string
	Author       string
	Subject      string
	Creator      string
	Producer     string
	CreationDate time.Time
	Language     string
	FileID       []byte
	PDFVersion   string
}

// GetInfo returns document metadata
func (d *Document) GetInfo() DocumentInfo {
	info := DocumentInfo{PDFVersion: d.Version}

	if d.Info != nil {
		info.Title = objectToString(d.Info.Get("Title"))
		info.Author = objectToString(d.Info.Get("Author"))
		info.Subject = objectToString(d.Info.Get("Subject"))
		info.Creator = objectToString(d.Info.Get("Creator"))
		info.Producer = objectToString(d.Info.Get("Producer"))
		if raw := objectToString(d.Info.Get("CreationDate")); raw != "" {
			info.CreationDate = parsePDFDate(raw)
		}
	}
	if d.Root != nil {
		info.Language = objectToString(d.Root.Get("Lang"))
	}
	if id, ok := d.Trailer.GetArray("ID"); ok && len(id) > 0 {
		if s, ok := id[0].(String); ok {
			info.FileID = s.Value
		}
	}

	return info
}

// objectToString converts a PDF string or name to text
func objectToString(obj Object) string {
	switch v := obj.(type) {
	case String:
		return v.Text()
	case Name:
		return string(v)
	}
	return ""
}

// parsePDFDate parses a PDF date string (D:YYYYMMDDHHmmSSOHH'mm')
func parsePDFDate(s string) time.Time {
	s = strings.TrimPrefix(s, "D:")

	field := func(from, to, def int) int {
		if len(s) < to {
			return def
		}
		v, err := strconv.Atoi(s[from:to])
		if err != nil {
			return def
		}
		return v
	}
	year := field(0, 4, 0)
	month := field(4, 6, 1)
	day := field(6, 8, 1)
	hour := field(8, 10, 0)
	min := field(10, 12, 0)
	sec := field(12, 14, 0)

	offset := 0
	if len(s) >= 17 && (s[14] == '+' || s[14] == '-') {
		offset = field(15, 17, 0) * 3600
		if len(s) >= 20 && s[17] == '\'' {
			offset += field(18, 20, 0) * 60
		}
		if s[14] == '-' {
			offset = -offset
		}
	}

	return time.Date(year, time.Month(month), day, hour, min, sec, 0, time.FixedZone("", offset))
}

// formatPDFDate formats t as a PDF date string
func formatPDFDate(t time.Time) string {
	_, offset := t.Zone()
	if offset == 0 {
		return t.Format("D:20060102150405Z")
	}
	sign := '+'
	if offset < 0 {
		sign = '-'
		offset = -offset
	}
	return fmt.Sprintf("%s%c%02d'%02d'", t.Format("D:20060102150405"), sign, offset/3600, offset%3600/60)
}
