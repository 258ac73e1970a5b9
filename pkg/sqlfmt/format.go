// Package sqlfmt is a lexer-driven SQL formatter. It tokenizes input,
// validates statement shape, and prints each statement back in a
// normalized style: keywords uppercased, clauses on their own lines,
// select-list items indented. It does not build a full AST; layout is
// a pure function of the token stream.
package sqlfmt

import (
	"fmt"
)

// ParseError reports input the formatter refuses to normalize.
type ParseError struct {
	Msg    string
	Offset int
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("sql parse error at offset %d: %s", e.Offset, e.Msg)
}

// Formatter is the SQL formatting engine. The zero value is usable.
type Formatter struct{}

// New returns a Formatter.
func New() *Formatter {
	return &Formatter{}
}

// Format normalizes sql and returns one string per statement, in input
// order. Read and write dialect are accepted separately to keep the
// engine contract general; callers here always pass the same value for
// both (single-dialect round trip, no translation). Whitespace-only
// input yields an empty slice and no error. Malformed input yields a
// *ParseError.
func (f *Formatter) Format(sql, readDialect, writeDialect string, pretty bool) ([]string, error) {
	read := Lookup(readDialect)
	write := Lookup(writeDialect)

	toks, err := lex(sql)
	if err != nil {
		return nil, err
	}

	var out []string
	for _, stmt := range splitStatements(toks) {
		if err := validate(stmt, read); err != nil {
			return nil, err
		}
		out = append(out, print(stmt, write, pretty))
	}
	return out, nil
}

// splitStatements cuts the token stream on semicolons, dropping the
// semicolons themselves and any empty segments.
func splitStatements(toks []token) [][]token {
	var stmts [][]token
	start := 0
	for i, t := range toks {
		if t.typ == tokenSemi {
			if i > start {
				stmts = append(stmts, toks[start:i])
			}
			start = i + 1
		}
	}
	if start < len(toks) {
		stmts = append(stmts, toks[start:])
	}
	return stmts
}

// validate checks a statement begins with a statement keyword and has
// balanced parentheses.
func validate(stmt []token, d *Dialect) error {
	first := stmt[0]
	if first.typ != tokenIdent || !d.StatementStart(first.lit) {
		return &ParseError{
			Msg:    fmt.Sprintf("expected statement, found %q", first.lit),
			Offset: first.off,
		}
	}

	depth := 0
	for _, t := range stmt {
		switch t.typ {
		case tokenLParen:
			depth++
		case tokenRParen:
			depth--
			if depth < 0 {
				return &ParseError{Msg: "unmatched )", Offset: t.off}
			}
		}
	}
	if depth > 0 {
		last := stmt[len(stmt)-1]
		return &ParseError{Msg: "unmatched (", Offset: last.off}
	}
	return nil
}
