package pdf

import (
	"errors"
	"fmt"
	"io"
)

// Parser parses PDF objects from tokens
type Parser struct {
	lexer  *Lexer
	tokens []Token
	pos    int

	// resolve looks up indirect stream lengths; may be nil
	resolve func(Object) (Object, error)
}

// NewParser creates a new parser for the given lexer
func NewParser(lexer *Lexer) *Parser {
	return &Parser{lexer: lexer}
}

// NewParserFromBytes creates a new parser from byte slice
func NewParserFromBytes(data []byte) *Parser {
	return NewParser(NewLexerFromBytes(data))
}

// nextToken gets the next token, buffering for lookahead
func (p *Parser) nextToken() (Token, error) {
	tok, err := p.peekTokenN(0)
	if err != nil {
		return Token{}, err
	}
	p.pos++
	return tok, nil
}

// peekToken peeks at the next token without consuming it
func (p *Parser) peekToken() (Token, error) {
	return p.peekTokenN(0)
}

// peekTokenN peeks at the nth token ahead (0-indexed)
func (p *Parser) peekTokenN(n int) (Token, error) {
	for len(p.tokens) <= p.pos+n {
		tok, err := p.lexer.NextToken()
		if err != nil {
			return Token{}, err
		}
		p.tokens = append(p.tokens, tok)
	}
	return p.tokens[p.pos+n], nil
}

// ParseObject parses a single PDF object
func (p *Parser) ParseObject() (Object, error) {
	tok, err := p.nextToken()
	if err != nil {
		return nil, err
	}

	switch tok.Type {
	case TokenEOF:
		return nil, io.EOF

	case TokenInteger:
		// num gen R is a reference
		next1, err := p.peekTokenN(0)
		if err == nil && next1.Type == TokenInteger {
			next2, err := p.peekTokenN(1)
			if err == nil && next2.Type == TokenRef {
				p.pos += 2
				return Reference{
					ObjectNumber:     int(tok.Value.(int64)),
					GenerationNumber: int(next1.Value.(int64)),
				}, nil
			}
		}
		return Integer(tok.Value.(int64)), nil

	case TokenArrayStart:
		return p.parseArray()

	case TokenDictStart:
		return p.parseDictionary()
	}

	if obj, ok := simpleObject(tok); ok {
		return obj, nil
	}
	return nil, fmt.Errorf("unexpected token type %d at position %d", tok.Type, tok.Pos)
}

// simpleObject converts a token that forms an object on its own
func simpleObject(tok Token) (Object, bool) {
	switch tok.Type {
	case TokenNull:
		return Null{}, true
	case TokenBoolean:
		return Boolean(tok.Value.(bool)), true
	case TokenInteger:
		return Integer(tok.Value.(int64)), true
	case TokenReal:
		return Real(tok.Value.(float64)), true
	case TokenString:
		return String{Value: tok.Value.([]byte)}, true
	case TokenHexString:
		return String{Value: tok.Value.([]byte), IsHex: true}, true
	case TokenName:
		return Name(tok.Value.(string)), true
	}
	return nil, false
}

// parseArray parses a PDF array [...]
func (p *Parser) parseArray() (Array, error) {
	arr := Array{}
	for {
		tok, err := p.peekToken()
		if err != nil {
			return nil, err
		}
		switch tok.Type {
		case TokenArrayEnd:
			p.pos++
			return arr, nil
		case TokenEOF:
			return nil, fmt.Errorf("unterminated array at position %d", tok.Pos)
		}

		obj, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		arr = append(arr, obj)
	}
}

// parseDictionary parses a PDF dictionary <<...>>
func (p *Parser) parseDictionary() (Dictionary, error) {
	dict := make(Dictionary)
	for {
		keyTok, err := p.nextToken()
		if err != nil {
			return nil, err
		}
		if keyTok.Type == TokenDictEnd {
			return dict, nil
		}
		if keyTok.Type != TokenName {
			return nil, fmt.Errorf("expected name as dictionary key at position %d", keyTok.Pos)
		}

		value, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		dict[Name(keyTok.Value.(string))] = value
	}
}

// expect consumes the next token and checks its type
func (p *Parser) expect(tt TokenType, what string) (Token, error) {
	tok, err := p.nextToken()
	if err != nil {
		return Token{}, err
	}
	if tok.Type != tt {
		return Token{}, fmt.Errorf("expected %s at position %d", what, tok.Pos)
	}
	return tok, nil
}

// ParseIndirectObject parses an indirect object definition (num gen obj ... endobj)
func (p *Parser) ParseIndirectObject() (int, int, Object, error) {
	numTok, err := p.expect(TokenInteger, "object number")
	if err != nil {
		return 0, 0, nil, err
	}
	genTok, err := p.expect(TokenInteger, "generation number")
	if err != nil {
		return 0, 0, nil, err
	}
	if _, err := p.expect(TokenObjStart, "'obj' keyword"); err != nil {
		return 0, 0, nil, err
	}

	obj, err := p.ParseObject()
	if err != nil {
		return 0, 0, nil, err
	}

	if next, err := p.peekToken(); err == nil && next.Type == TokenStreamStart {
		dict, ok := obj.(Dictionary)
		if !ok {
			return 0, 0, nil, fmt.Errorf("stream must have dictionary at position %d", next.Pos)
		}
		if p.pos+1 != len(p.tokens) {
			return 0, 0, nil, errors.New("stream keyword follows unread lookahead")
		}
		p.pos++

		data, err := p.readStreamData(dict)
		if err != nil {
			return 0, 0, nil, err
		}
		obj = Stream{Dictionary: dict, Data: data}

		if _, err := p.expect(TokenStreamEnd, "'endstream'"); err != nil {
			return 0, 0, nil, err
		}
	}

	if _, err := p.expect(TokenObjEnd, "'endobj' keyword"); err != nil {
		return 0, 0, nil, err
	}

	return int(numTok.Value.(int64)), int(genTok.Value.(int64)), obj, nil
}

// readStreamData reads the raw stream data following the 'stream'
// keyword.
func (p *Parser) readStreamData(dict Dictionary) ([]byte, error) {
	lengthObj := dict.Get("Length")
	if ref, ok := lengthObj.(Reference); ok && p.resolve != nil {
		resolved, err := p.resolve(ref)
		if err != nil {
			return nil, fmt.Errorf("stream Length: %w", err)
		}
		lengthObj = resolved
	}
	length, ok := lengthObj.(Integer)
	if !ok || length < 0 {
		return nil, fmt.Errorf("invalid stream Length %v", lengthObj)
	}

	// the keyword is followed by CRLF or LF before the data starts
	b, err := p.lexer.readByte()
	if err != nil {
		return nil, err
	}
	if b == '\r' {
		if next, err := p.lexer.peekByte(); err == nil && next == '\n' {
			p.lexer.readByte()
		}
	} else if b != '\n' {
		p.lexer.unreadByte()
	}

	return p.lexer.ReadBytes(int(length))
}

// Operation represents a content stream operation
type Operation struct {
	Operator string
	Operands []Object
}

// ParseContentStream splits a decoded content stream into operations.
// Operands collect until the next operator keyword.
func ParseContentStream(data []byte) ([]Operation, error) {
	p := NewParserFromBytes(data)

	var ops []Operation
	var operands []Object
	for {
		tok, err := p.peekToken()
		if err != nil {
			return nil, err
		}

		switch tok.Type {
		case TokenEOF:
			return ops, nil
		case TokenKeyword:
			p.pos++
			ops = append(ops, Operation{
				Operator: tok.Value.(string),
				Operands: operands,
			})
			operands = nil
			continue
		}

		obj, err := p.ParseObject()
		if err != nil {
			return nil, err
		}
		operands = append(operands, obj)
	}
}
