package sqlfmt

import (
	"fmt"
	"strings"
)

type tokenType int

const (
	tokenIdent tokenType = iota
	tokenNumber
	tokenString // quoted literal or quoted identifier, kept verbatim
	tokenOperator
	tokenLParen
	tokenRParen
	tokenComma
	tokenDot
	tokenSemi
)

type token struct {
	typ tokenType
	lit string
	off int
}

// upper returns the uppercased literal for keyword lookups.
func (t token) upper() string {
	return strings.ToUpper(t.lit)
}

// lexer tokenizes SQL input byte by byte. Whitespace and comments are
// discarded, so the token stream is a normal form: printing it and
// lexing the output yields the same stream again.
type lexer struct {
	input string
	pos   int
}

func lex(input string) ([]token, error) {
	l := &lexer{input: input}
	var toks []token
	for {
		tok, err := l.next()
		if err != nil {
			return nil, err
		}
		if tok == nil {
			return toks, nil
		}
		toks = append(toks, *tok)
	}
}

// next returns the next token, or nil at end of input.
func (l *lexer) next() (*token, error) {
	if err := l.skipSpaceAndComments(); err != nil {
		return nil, err
	}
	if l.pos >= len(l.input) {
		return nil, nil
	}

	start := l.pos
	c := l.input[l.pos]

	switch {
	case c == '\'' || c == '"' || c == '`':
		lit, err := l.readQuoted(c)
		if err != nil {
			return nil, err
		}
		return &token{typ: tokenString, lit: lit, off: start}, nil
	case isIdentStart(c):
		return &token{typ: tokenIdent, lit: l.readIdent(), off: start}, nil
	case c >= '0' && c <= '9':
		return &token{typ: tokenNumber, lit: l.readNumber(), off: start}, nil
	case c == '(':
		l.pos++
		return &token{typ: tokenLParen, lit: "(", off: start}, nil
	case c == ')':
		l.pos++
		return &token{typ: tokenRParen, lit: ")", off: start}, nil
	case c == ',':
		l.pos++
		return &token{typ: tokenComma, lit: ",", off: start}, nil
	case c == ';':
		l.pos++
		return &token{typ: tokenSemi, lit: ";", off: start}, nil
	case c == '.':
		l.pos++
		return &token{typ: tokenDot, lit: ".", off: start}, nil
	}

	if op := l.readOperator(); op != "" {
		return &token{typ: tokenOperator, lit: op, off: start}, nil
	}
	return nil, &ParseError{Msg: fmt.Sprintf("unexpected character %q", c), Offset: start}
}

// skipSpaceAndComments consumes whitespace, -- line comments and
// /* */ block comments. Comments are dropped from the token stream.
func (l *lexer) skipSpaceAndComments() error {
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		switch {
		case c == ' ' || c == '\t' || c == '\n' || c == '\r' || c == '\f' || c == '\v':
			l.pos++
		case c == '-' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '-':
			for l.pos < len(l.input) && l.input[l.pos] != '\n' {
				l.pos++
			}
		case c == '/' && l.pos+1 < len(l.input) && l.input[l.pos+1] == '*':
			end := strings.Index(l.input[l.pos+2:], "*/")
			if end < 0 {
				return &ParseError{Msg: "unterminated block comment", Offset: l.pos}
			}
			l.pos += 2 + end + 2
		default:
			return nil
		}
	}
	return nil
}

// readQuoted consumes a quoted literal or identifier including its
// delimiters. Doubled quotes and backslash escapes stay inside the
// literal.
func (l *lexer) readQuoted(quote byte) (string, error) {
	start := l.pos
	l.pos++
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if c == '\\' && l.pos+1 < len(l.input) {
			l.pos += 2
			continue
		}
		if c == quote {
			if l.pos+1 < len(l.input) && l.input[l.pos+1] == quote {
				l.pos += 2
				continue
			}
			l.pos++
			return l.input[start:l.pos], nil
		}
		l.pos++
	}
	return "", &ParseError{Msg: "unterminated string", Offset: start}
}

func (l *lexer) readIdent() string {
	start := l.pos
	for l.pos < len(l.input) && isIdentPart(l.input[l.pos]) {
		l.pos++
	}
	return l.input[start:l.pos]
}

// readNumber consumes a numeric literal, permissively including
// exponents and hex digits.
func (l *lexer) readNumber() string {
	start := l.pos
	for l.pos < len(l.input) {
		c := l.input[l.pos]
		if (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '.' || c == '_' {
			l.pos++
			continue
		}
		break
	}
	return l.input[start:l.pos]
}

// multiCharOps are matched before single-character operators.
var multiCharOps = []string{"<=>", "<=", ">=", "<>", "!=", "||", "::", "->", "=="}

func (l *lexer) readOperator() string {
	rest := l.input[l.pos:]
	for _, op := range multiCharOps {
		if strings.HasPrefix(rest, op) {
			l.pos += len(op)
			return op
		}
	}
	switch rest[0] {
	case '+', '-', '*', '/', '%', '<', '>', '=', '!', '|', '&', '^', '~', '?', ':', '[', ']':
		l.pos++
		return rest[:1]
	}
	return ""
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9') || c == '$'
}
