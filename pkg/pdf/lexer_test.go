package pdf

import (
	"testing"
)

// TestLexerReadLine tests reading lines with all three EOL conventions
func TestLexerReadLine(t *testing.T) {
	lexer := NewLexerFromBytes([]byte("line1\nline2\rline3\r\nline4"))

	for _, want := range []string{"line1", "line2", "line3", "line4"} {
		line, err := lexer.ReadLine()
		if err != nil {
			t.Fatalf("ReadLine failed: %v", err)
		}
		if string(line) != want {
			t.Errorf("Expected '%s', got '%s'", want, line)
		}
	}
}

// TestIsWhitespace tests whitespace detection
func TestIsWhitespace(t *testing.T) {
	for _, ws := range []byte{' ', '\t', '\n', '\r', '\f', 0} {
		if !isWhitespace(ws) {
			t.Errorf("Expected %d to be whitespace", ws)
		}
	}
	for _, nws := range []byte{'a', '1', '/', '('} {
		if isWhitespace(nws) {
			t.Errorf("Expected %c to not be whitespace", nws)
		}
	}
}

// TestIsDelimiter tests delimiter detection
func TestIsDelimiter(t *testing.T) {
	for _, d := range []byte{'(', ')', '<', '>', '[', ']', '{', '}', '/', '%'} {
		if !isDelimiter(d) {
			t.Errorf("Expected %c to be delimiter", d)
		}
	}
	for _, nd := range []byte{'a', '1', '.', '-', '\'', '"'} {
		if isDelimiter(nd) {
			t.Errorf("Expected %c to not be delimiter", nd)
		}
	}
}

// TestLexerKeywords tests that operators come back as keywords
func TestLexerKeywords(t *testing.T) {
	tests := []struct {
		input string
		typ   TokenType
		value interface{}
	}{
		{"BT", TokenKeyword, "BT"},
		{"T*", TokenKeyword, "T*"},
		{"'", TokenKeyword, "'"},
		{"\"", TokenKeyword, "\""},
		{"obj", TokenObjStart, nil},
		{"endstream", TokenStreamEnd, nil},
		{"R", TokenRef, nil},
		{"% comment\nnull", TokenNull, nil},
		{"true", TokenBoolean, true},
	}

	for _, tt := range tests {
		tok, err := NewLexerFromBytes([]byte(tt.input)).NextToken()
		if err != nil {
			t.Errorf("NextToken(%q) failed: %v", tt.input, err)
			continue
		}
		if tok.Type != tt.typ || tok.Value != tt.value {
			t.Errorf("NextToken(%q) = %d %v, expected %d %v", tt.input, tok.Type, tok.Value, tt.typ, tt.value)
		}
	}
}

// TestLexerErrors tests malformed input
func TestLexerErrors(t *testing.T) {
	for _, input := range []string{"(unterminated", "<4142", "/A#4", ">", ")", "-"} {
		if _, err := NewLexerFromBytes([]byte(input)).NextToken(); err == nil {
			t.Errorf("NextToken(%q) should fail", input)
		}
	}
}

// TestParserParseInteger tests parsing integers
func TestParserParseInteger(t *testing.T) {
	tests := []struct {
		input    string
		expected int64
	}{
		{"42", 42},
		{"-17", -17},
		{"0", 0},
		{"+123", 123},
	}

	for _, tt := range tests {
		obj, err := NewParserFromBytes([]byte(tt.input)).ParseObject()
		if err != nil {
			t.Errorf("ParseObject(%s) failed: %v", tt.input, err)
			continue
		}
		if i, ok := obj.(Integer); !ok || int64(i) != tt.expected {
			t.Errorf("ParseObject(%s) = %v, expected %d", tt.input, obj, tt.expected)
		}
	}
}

// TestParserParseReal tests parsing real numbers
func TestParserParseReal(t *testing.T) {
	tests := []struct {
		input    string
		expected float64
	}{
		{"3.14", 3.14},
		{"-2.5", -2.5},
		{".5", 0.5},
		{"10.", 10.0},
	}

	for _, tt := range tests {
		obj, err := NewParserFromBytes([]byte(tt.input)).ParseObject()
		if err != nil {
			t.Errorf("ParseObject(%s) failed: %v", tt.input, err)
			continue
		}
		if r, ok := obj.(Real); !ok || float64(r) != tt.expected {
			t.Errorf("ParseObject(%s) = %v, expected %f", tt.input, obj, tt.expected)
		}
	}
}

// TestParserParseName tests parsing names
func TestParserParseName(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"/Name", "Name"},
		{"/Type", "Type"},
		{"/A#20B", "A B"},
		{"/F1 12", "F1"},
	}

	for _, tt := range tests {
		obj, err := NewParserFromBytes([]byte(tt.input)).ParseObject()
		if err != nil {
			t.Errorf("ParseObject(%s) failed: %v", tt.input, err)
			continue
		}
		if n, ok := obj.(Name); !ok || string(n) != tt.expected {
			t.Errorf("ParseObject(%s) = %v, expected %s", tt.input, obj, tt.expected)
		}
	}
}

// TestParserParseString tests parsing literal strings with escapes
func TestParserParseString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"(Hello)", "Hello"},
		{"(Hello World)", "Hello World"},
		{"()", ""},
		{"(a (nested) b)", "a (nested) b"},
		{`(\(AI\))`, "(AI)"},
		{`(back\\slash)`, `back\slash`},
		{`(\101\102)`, "AB"},
		{"(line\\\ncontinued)", "linecontinued"},
		{`(tab\there)`, "tab\there"},
	}

	for _, tt := range tests {
		obj, err := NewParserFromBytes([]byte(tt.input)).ParseObject()
		if err != nil {
			t.Errorf("ParseObject(%s) failed: %v", tt.input, err)
			continue
		}
		if s, ok := obj.(String); !ok || string(s.Value) != tt.expected {
			t.Errorf("ParseObject(%s) = %v, expected %q", tt.input, obj, tt.expected)
		}
	}
}

// TestParserParseHexString tests parsing hex strings
func TestParserParseHexString(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"<48656C6C6F>", "Hello"},
		{"<48 65 6c>", "Hel"},
		{"<414>", "A@"},
		{"<>", ""},
	}

	for _, tt := range tests {
		obj, err := NewParserFromBytes([]byte(tt.input)).ParseObject()
		if err != nil {
			t.Errorf("ParseObject(%s) failed: %v", tt.input, err)
			continue
		}
		if s, ok := obj.(String); !ok || !s.IsHex || string(s.Value) != tt.expected {
			t.Errorf("ParseObject(%s) = %v, expected %q", tt.input, obj, tt.expected)
		}
	}
}

// TestParserParseArray tests parsing arrays
func TestParserParseArray(t *testing.T) {
	obj, err := NewParserFromBytes([]byte("[1 2 0 R /N (s)]")).ParseObject()
	if err != nil {
		t.Fatalf("ParseObject failed: %v", err)
	}

	arr, ok := obj.(Array)
	if !ok {
		t.Fatalf("Expected Array, got %T", obj)
	}
	if len(arr) != 4 {
		t.Fatalf("Expected array length 4, got %d", len(arr))
	}
	if ref, ok := arr[1].(Reference); !ok || ref.ObjectNumber != 2 {
		t.Errorf("Expected 2 0 R at index 1, got %v", arr[1])
	}
}

// TestParserParseDictionary tests parsing dictionaries
func TestParserParseDictionary(t *testing.T) {
	obj, err := NewParserFromBytes([]byte("<< /Type /Test /Value 42 /Kids [3 0 R] >>")).ParseObject()
	if err != nil {
		t.Fatalf("ParseObject dictionary failed: %v", err)
	}

	dict, ok := obj.(Dictionary)
	if !ok {
		t.Fatalf("Expected Dictionary, got %T", obj)
	}
	if typeVal, ok := dict.GetName("Type"); !ok || typeVal != "Test" {
		t.Errorf("Expected Type=Test, got %v", typeVal)
	}
	if intVal, ok := dict.GetInt("Value"); !ok || intVal != 42 {
		t.Errorf("Expected Value=42, got %v", intVal)
	}
	if kids, ok := dict.GetArray("Kids"); !ok || len(kids) != 1 {
		t.Errorf("Expected one kid, got %v", kids)
	}
}

// TestParserParseReference tests parsing references
func TestParserParseReference(t *testing.T) {
	obj, err := NewParserFromBytes([]byte("1 0 R")).ParseObject()
	if err != nil {
		t.Fatalf("ParseObject(1 0 R) failed: %v", err)
	}

	ref, ok := obj.(Reference)
	if !ok {
		t.Fatalf("Expected Reference, got %T", obj)
	}
	if ref.ObjectNumber != 1 || ref.GenerationNumber != 0 {
		t.Errorf("Expected 1 0 R, got %d %d R", ref.ObjectNumber, ref.GenerationNumber)
	}
}

// TestParseIndirectStream tests reading a stream object
func TestParseIndirectStream(t *testing.T) {
	input := "7 0 obj\n<</Length 5>>\nstream\r\nhello\nendstream\nendobj\n"
	num, gen, obj, err := NewParserFromBytes([]byte(input)).ParseIndirectObject()
	if err != nil {
		t.Fatalf("ParseIndirectObject failed: %v", err)
	}
	if num != 7 || gen != 0 {
		t.Errorf("Expected 7 0, got %d %d", num, gen)
	}
	stream, ok := obj.(Stream)
	if !ok {
		t.Fatalf("Expected Stream, got %T", obj)
	}
	if string(stream.Data) != "hello" {
		t.Errorf("Expected stream data 'hello', got %q", stream.Data)
	}
}

// TestParseContentStream tests splitting a content stream into operations
func TestParseContentStream(t *testing.T) {
	data := []byte("BT\n/F1 12 Tf\n1 0 0 1 100 642 Tm\n(Key Topics:) Tj\n[(A) -250 (B)] TJ\nT* (next) '\nET\n")

	ops, err := ParseContentStream(data)
	if err != nil {
		t.Fatalf("ParseContentStream failed: %v", err)
	}

	var operators []string
	for _, op := range ops {
		operators = append(operators, op.Operator)
	}
	want := []string{"BT", "Tf", "Tm", "Tj", "TJ", "T*", "'", "ET"}
	if len(operators) != len(want) {
		t.Fatalf("Expected operators %v, got %v", want, operators)
	}
	for i := range want {
		if operators[i] != want[i] {
			t.Errorf("Operator %d: expected %s, got %s", i, want[i], operators[i])
		}
	}

	if len(ops[2].Operands) != 6 {
		t.Errorf("Tm should have 6 operands, got %d", len(ops[2].Operands))
	}
	if arr, ok := ops[4].Operands[0].(Array); !ok || len(arr) != 3 {
		t.Errorf("TJ operand should be a 3-element array, got %v", ops[4].Operands)
	}
}
