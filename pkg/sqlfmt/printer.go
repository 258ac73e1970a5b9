package sqlfmt

import "strings"

// listIndent is the indentation for select-list items and boolean
// continuation lines.
const listIndent = "  "

// printer renders a token stream. Layout decisions depend only on the
// tokens, so printing is idempotent: lexing the output and printing it
// again reproduces the same text.
type printer struct {
	b       strings.Builder
	dialect *Dialect
	pretty  bool

	depth         int // paren nesting; clause breaks apply at depth 0 only
	selectPending bool
	inSelectList  bool
	afterComma    bool
}

func print(toks []token, d *Dialect, pretty bool) string {
	p := &printer{dialect: d, pretty: pretty}
	for i := range toks {
		if i > 0 {
			p.b.WriteString(p.separator(toks, i))
		}
		p.b.WriteString(p.render(toks[i]))
		p.advance(toks, i)
	}
	return p.b.String()
}

// render returns the token text, uppercasing keywords.
func (p *printer) render(t token) string {
	if t.typ == tokenIdent && p.dialect.Keyword(t.lit) {
		return t.upper()
	}
	return t.lit
}

// separator decides what goes before a token: nothing, a space, a
// clause newline, or an indented list newline.
func (p *printer) separator(toks []token, i int) string {
	prev, cur := toks[i-1], toks[i]

	if p.pretty && p.depth == 0 {
		if cur.typ == tokenIdent {
			w := cur.upper()
			switch {
			case p.clauseBreak(toks, i, w):
				p.selectPending = false
				p.inSelectList = false
				p.afterComma = false
				return "\n"
			case w == "AND" || w == "OR":
				p.afterComma = false
				return "\n" + listIndent
			}
		}
		if p.selectPending && !isSelectModifier(cur) {
			p.selectPending = false
			p.inSelectList = true
			return "\n" + listIndent
		}
		if p.afterComma {
			p.afterComma = false
			return "\n" + listIndent
		}
	}
	return spaceBetween(prev, cur, p.dialect)
}

// advance updates layout state after a token is written.
func (p *printer) advance(toks []token, i int) {
	t := toks[i]
	switch t.typ {
	case tokenLParen:
		p.depth++
	case tokenRParen:
		if p.depth > 0 {
			p.depth--
		}
	case tokenComma:
		if p.pretty && p.depth == 0 && p.inSelectList {
			p.afterComma = true
		}
	case tokenIdent:
		if p.pretty && p.depth == 0 && t.upper() == "SELECT" {
			p.selectPending = true
		}
	}
}

// clauseBreak reports whether the keyword w starts a new clause line.
func (p *printer) clauseBreak(toks []token, i int, w string) bool {
	switch w {
	case "FROM", "WHERE", "HAVING", "LIMIT", "OFFSET",
		"UNION", "INTERSECT", "EXCEPT", "VALUES", "SET", "SELECT":
		return true
	case "GROUP", "ORDER", "CLUSTER", "DISTRIBUTE", "SORT":
		return nextWordIs(toks, i+1, "BY")
	case "JOIN":
		return !isJoinModifier(toks[i-1])
	case "LEFT", "RIGHT", "FULL", "INNER", "CROSS":
		return startsJoin(toks, i+1)
	}
	return false
}

// isSelectModifier keeps DISTINCT/ALL on the SELECT line.
func isSelectModifier(t token) bool {
	if t.typ != tokenIdent {
		return false
	}
	w := t.upper()
	return w == "DISTINCT" || w == "ALL"
}

func isJoinModifier(t token) bool {
	if t.typ != tokenIdent {
		return false
	}
	switch t.upper() {
	case "LEFT", "RIGHT", "FULL", "INNER", "CROSS", "OUTER":
		return true
	}
	return false
}

// startsJoin reports whether the tokens from i form the tail of a join
// sequence, e.g. OUTER JOIN or JOIN itself.
func startsJoin(toks []token, i int) bool {
	for ; i < len(toks); i++ {
		if toks[i].typ != tokenIdent {
			return false
		}
		w := toks[i].upper()
		if w == "JOIN" {
			return true
		}
		if !isJoinModifier(toks[i]) {
			return false
		}
	}
	return false
}

func nextWordIs(toks []token, i int, word string) bool {
	return i < len(toks) && toks[i].typ == tokenIdent && toks[i].upper() == word
}

// spaceBetween applies the default single-space join with the usual
// punctuation exceptions. Function calls bind the paren to a plain
// identifier; keyword-led parens keep the space.
func spaceBetween(prev, cur token, d *Dialect) string {
	switch cur.typ {
	case tokenComma, tokenSemi, tokenRParen, tokenDot:
		return ""
	}
	switch prev.typ {
	case tokenLParen, tokenDot:
		return ""
	}
	if cur.typ == tokenOperator {
		switch cur.lit {
		case "::", "]":
			return ""
		case "[":
			switch prev.typ {
			case tokenIdent, tokenNumber, tokenString, tokenRParen:
				return ""
			}
		}
	}
	if prev.typ == tokenOperator && (prev.lit == "::" || prev.lit == "[") {
		return ""
	}
	if cur.typ == tokenLParen && prev.typ == tokenIdent && !d.Keyword(prev.lit) {
		return ""
	}
	return " "
}
