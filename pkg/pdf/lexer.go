package pdf

import (
	"bufio"
	"bytes"
	"encoding/hex"
	"fmt"
	"io"
	"strconv"
)

// TokenType represents the type of a lexical token
type TokenType int

const (
	TokenEOF TokenType = iota
	TokenNull
	TokenBoolean
	TokenInteger
	TokenReal
	TokenString
	TokenHexString
	TokenName
	TokenArrayStart
	TokenArrayEnd
	TokenDictStart
	TokenDictEnd
	TokenStreamStart
	TokenStreamEnd
	TokenObjStart
	TokenObjEnd
	TokenRef
	TokenXRef
	TokenTrailer
	TokenStartXRef
	TokenKeyword
)

// Token represents a lexical token
type Token struct {
	Type  TokenType
	Value interface{}
	Pos   int64
}

// Lexer performs lexical analysis on PDF data. Bare words that are not
// part of the file structure, such as content stream operators, come
// back as TokenKeyword with the word as value.
type Lexer struct {
	reader *bufio.Reader
	pos    int64
}

// NewLexer creates a new lexer for the given reader
func NewLexer(r io.Reader) *Lexer {
	return &Lexer{reader: bufio.NewReader(r)}
}

// NewLexerFromBytes creates a new lexer from byte slice
func NewLexerFromBytes(data []byte) *Lexer {
	return NewLexer(bytes.NewReader(data))
}

// Position returns the current position
func (l *Lexer) Position() int64 {
	return l.pos
}

func (l *Lexer) readByte() (byte, error) {
	b, err := l.reader.ReadByte()
	if err != nil {
		return 0, err
	}
	l.pos++
	return b, nil
}

func (l *Lexer) unreadByte() {
	if l.reader.UnreadByte() == nil {
		l.pos--
	}
}

func (l *Lexer) peekByte() (byte, error) {
	b, err := l.reader.Peek(1)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// skipWhitespace skips whitespace and comments
func (l *Lexer) skipWhitespace() error {
	inComment := false
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return nil
		} else if err != nil {
			return err
		}

		switch {
		case inComment:
			inComment = b != '\r' && b != '\n'
		case b == '%':
			inComment = true
		case !isWhitespace(b):
			l.unreadByte()
			return nil
		}
	}
}

// isWhitespace checks if a byte is PDF whitespace
func isWhitespace(b byte) bool {
	return b == 0 || b == '\t' || b == '\n' || b == '\f' || b == '\r' || b == ' '
}

// isDelimiter checks if a byte is a PDF delimiter
func isDelimiter(b byte) bool {
	switch b {
	case '(', ')', '<', '>', '[', ']', '{', '}', '/', '%':
		return true
	}
	return false
}

// NextToken returns the next token
func (l *Lexer) NextToken() (Token, error) {
	if err := l.skipWhitespace(); err != nil {
		return Token{}, err
	}

	pos := l.pos
	b, err := l.readByte()
	if err == io.EOF {
		return Token{Type: TokenEOF, Pos: pos}, nil
	} else if err != nil {
		return Token{}, err
	}

	switch {
	case b == '[':
		return Token{Type: TokenArrayStart, Pos: pos}, nil
	case b == ']':
		return Token{Type: TokenArrayEnd, Pos: pos}, nil
	case b == '(':
		return l.readLiteralString(pos)
	case b == '<':
		if next, _ := l.peekByte(); next == '<' {
			l.readByte()
			return Token{Type: TokenDictStart, Pos: pos}, nil
		}
		return l.readHexString(pos)
	case b == '>':
		if next, _ := l.peekByte(); next == '>' {
			l.readByte()
			return Token{Type: TokenDictEnd, Pos: pos}, nil
		}
		return Token{}, fmt.Errorf("unexpected '>' at position %d", pos)
	case b == '/':
		return l.readName(pos)
	case b == '+' || b == '-' || b == '.' || b >= '0' && b <= '9':
		l.unreadByte()
		return l.readNumber(pos)
	case isDelimiter(b):
		return Token{}, fmt.Errorf("unexpected character '%c' at position %d", b, pos)
	default:
		l.unreadByte()
		return l.readKeyword(pos)
	}
}

// readLiteralString reads a literal string (...), the opening
// parenthesis already consumed.
func (l *Lexer) readLiteralString(pos int64) (Token, error) {
	var buf bytes.Buffer
	depth := 1

	for {
		b, err := l.readByte()
		if err != nil {
			return Token{}, fmt.Errorf("unterminated string at position %d", pos)
		}

		switch b {
		case '(':
			depth++
		case ')':
			depth--
			if depth == 0 {
				return Token{Type: TokenString, Value: buf.Bytes(), Pos: pos}, nil
			}
		case '\\':
			escaped, err := l.readEscapeSequence()
			if err != nil {
				return Token{}, err
			}
			buf.Write(escaped)
			continue
		}
		buf.WriteByte(b)
	}
}

// readEscapeSequence reads the part of an escape sequence after the
// backslash.
func (l *Lexer) readEscapeSequence() ([]byte, error) {
	b, err := l.readByte()
	if err != nil {
		return nil, err
	}

	switch b {
	case 'n':
		return []byte{'\n'}, nil
	case 'r':
		return []byte{'\r'}, nil
	case 't':
		return []byte{'\t'}, nil
	case 'b':
		return []byte{'\b'}, nil
	case 'f':
		return []byte{'\f'}, nil
	case '\r':
		// line continuation
		if next, err := l.peekByte(); err == nil && next == '\n' {
			l.readByte()
		}
		return nil, nil
	case '\n':
		return nil, nil
	}

	if b < '0' || b > '7' {
		// \( \) \\ and unknown escapes stand for the character itself
		return []byte{b}, nil
	}
	val := int(b - '0')
	for i := 0; i < 2; i++ {
		next, err := l.peekByte()
		if err != nil || next < '0' || next > '7' {
			break
		}
		l.readByte()
		val = val*8 + int(next-'0')
	}
	return []byte{byte(val)}, nil
}

// readHexString reads a hexadecimal string <...>
func (l *Lexer) readHexString(pos int64) (Token, error) {
	var digits []byte
	for {
		b, err := l.readByte()
		if err != nil {
			return Token{}, fmt.Errorf("unterminated hex string at position %d", pos)
		}
		if b == '>' {
			break
		}
		if !isWhitespace(b) {
			digits = append(digits, b)
		}
	}
	if len(digits)%2 != 0 {
		digits = append(digits, '0')
	}

	decoded := make([]byte, len(digits)/2)
	if _, err := hex.Decode(decoded, digits); err != nil {
		return Token{}, fmt.Errorf("invalid hex string at position %d: %w", pos, err)
	}
	return Token{Type: TokenHexString, Value: decoded, Pos: pos}, nil
}

// readWord collects bytes up to the next whitespace or delimiter
func (l *Lexer) readWord() []byte {
	var word []byte
	for {
		b, err := l.peekByte()
		if err != nil || isWhitespace(b) || isDelimiter(b) {
			return word
		}
		l.readByte()
		word = append(word, b)
	}
}

// readName reads a name object /..., resolving #XX escapes
func (l *Lexer) readName(pos int64) (Token, error) {
	raw := l.readWord()
	var buf bytes.Buffer
	for i := 0; i < len(raw); i++ {
		if raw[i] != '#' {
			buf.WriteByte(raw[i])
			continue
		}
		if i+2 >= len(raw) {
			return Token{}, fmt.Errorf("invalid name escape at position %d", pos)
		}
		val, err := strconv.ParseUint(string(raw[i+1:i+3]), 16, 8)
		if err != nil {
			return Token{}, fmt.Errorf("invalid name escape at position %d", pos)
		}
		buf.WriteByte(byte(val))
		i += 2
	}
	return Token{Type: TokenName, Value: buf.String(), Pos: pos}, nil
}

// readNumber reads a number (integer or real)
func (l *Lexer) readNumber(pos int64) (Token, error) {
	var buf []byte
	hasDecimal := false
	hasDigit := false

loop:
	for {
		b, err := l.peekByte()
		if err != nil {
			break
		}

		switch {
		case b == '+' || b == '-':
			if len(buf) > 0 {
				break loop
			}
		case b == '.':
			if hasDecimal {
				break loop
			}
			hasDecimal = true
		case b >= '0' && b <= '9':
			hasDigit = true
		default:
			break loop
		}
		l.readByte()
		buf = append(buf, b)
	}

	if !hasDigit {
		return Token{}, fmt.Errorf("invalid number at position %d", pos)
	}

	if hasDecimal {
		val, err := strconv.ParseFloat(string(buf), 64)
		if err != nil {
			return Token{}, fmt.Errorf("invalid real number at position %d", pos)
		}
		return Token{Type: TokenReal, Value: val, Pos: pos}, nil
	}

	val, err := strconv.ParseInt(string(buf), 10, 64)
	if err != nil {
		return Token{}, fmt.Errorf("invalid integer at position %d", pos)
	}
	return Token{Type: TokenInteger, Value: val, Pos: pos}, nil
}

// structural keywords of the file syntax
var keywordTokens = map[string]TokenType{
	"null":      TokenNull,
	"obj":       TokenObjStart,
	"endobj":    TokenObjEnd,
	"stream":    TokenStreamStart,
	"endstream": TokenStreamEnd,
	"R":         TokenRef,
	"xref":      TokenXRef,
	"trailer":   TokenTrailer,
	"startxref": TokenStartXRef,
}

// readKeyword reads a bare word: true, false, a structural keyword, or an
// operator.
func (l *Lexer) readKeyword(pos int64) (Token, error) {
	word := string(l.readWord())
	switch word {
	case "true":
		return Token{Type: TokenBoolean, Value: true, Pos: pos}, nil
	case "false":
		return Token{Type: TokenBoolean, Value: false, Pos: pos}, nil
	}
	if tt, ok := keywordTokens[word]; ok {
		return Token{Type: tt, Pos: pos}, nil
	}
	return Token{Type: TokenKeyword, Value: word, Pos: pos}, nil
}

// ReadLine reads until end of line
func (l *Lexer) ReadLine() ([]byte, error) {
	var line []byte
	for {
		b, err := l.readByte()
		if err == io.EOF {
			return line, nil
		} else if err != nil {
			return nil, err
		}
		switch b {
		case '\r':
			if next, err := l.peekByte(); err == nil && next == '\n' {
				l.readByte()
			}
			return line, nil
		case '\n':
			return line, nil
		}
		line = append(line, b)
	}
}

// ReadBytes reads exactly n bytes
func (l *Lexer) ReadBytes(n int) ([]byte, error) {
	buf := make([]byte, n)
	read, err := io.ReadFull(l.reader, buf)
	l.pos += int64(read)
	if err != nil {
		return buf[:read], err
	}
	return buf, nil
}
