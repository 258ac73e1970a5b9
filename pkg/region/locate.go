package region

import (
	"regexp"
	"strings"
)

// MagicHeader marks a whole-cell SQL block.
const MagicHeader = "%%sql"

// DefaultCallTarget is the identifier path whose string argument is
// scanned for SQL.
const DefaultCallTarget = "spark.sql"

// Locator finds SQL-bearing regions in cell source text.
//
// Detection is deliberately heuristic: it operates on unparsed source
// with a regex anchor plus a delimiter scan, and makes no attempt at
// host-language parsing. Strings nested inside the matched span beyond
// the delimiter rules are not understood.
type Locator struct {
	target string
	call   *regexp.Regexp
}

// NewLocator returns a locator for the default spark.sql call target.
func NewLocator() *Locator {
	return NewLocatorForCall(DefaultCallTarget)
}

// NewLocatorForCall returns a locator that scans string arguments of the
// given identifier path (e.g. "session.sql").
func NewLocatorForCall(target string) *Locator {
	if target == "" {
		target = DefaultCallTarget
	}
	// Anchor up to and including the opening delimiter. The closing
	// delimiter must match the opening one, which RE2 cannot express
	// without backreferences, so the content scan is done by hand.
	pattern := regexp.QuoteMeta(target) + `\s*\(\s*(f?)('''|"""|'|")`
	return &Locator{
		target: target,
		call:   regexp.MustCompile(pattern),
	}
}

// Target returns the call path this locator scans for.
func (l *Locator) Target() string {
	return l.target
}

// Locate returns all SQL regions in the text in document order with
// non-overlapping offsets. A magic header claims the whole cell and
// suppresses call scanning.
func (l *Locator) Locate(text string) []Region {
	if r, ok := locateMagic(text); ok {
		return []Region{r}
	}
	return l.locateCalls(text)
}

// locateMagic matches a cell whose first line is the magic header with
// optional trailing whitespace. The region body starts after the last
// newline of the whitespace run following the header and must be
// non-empty.
func locateMagic(text string) (Region, bool) {
	if !strings.HasPrefix(text, MagicHeader) {
		return Region{}, false
	}
	i := len(MagicHeader)
	lastNL := -1
	j := i
	for j < len(text) && isSpace(text[j]) {
		if text[j] == '\n' {
			lastNL = j
		}
		j++
	}
	if lastNL < 0 || j == len(text) {
		// No newline after the header, or nothing but whitespace.
		return Region{}, false
	}
	return Region{
		SQLText: text[lastNL+1:],
		Start:   lastNL + 1,
		End:     len(text),
		Quote:   QuoteNone,
		Kind:    KindMagicBlock,
	}, true
}

// locateCalls scans for call-argument string literals. Content may span
// multiple lines; the first occurrence of the opening delimiter closes
// the literal (non-greedy match, content must be at least one byte).
func (l *Locator) locateCalls(text string) []Region {
	var regions []Region

	pos := 0
	for pos < len(text) {
		m := l.call.FindStringSubmatchIndex(text[pos:])
		if m == nil {
			break
		}
		prefixStart, prefixEnd := pos+m[2], pos+m[3]
		delimStart, delimEnd := pos+m[4], pos+m[5]
		delim := text[delimStart:delimEnd]

		// Closing delimiter, at least one content byte in between.
		// Triple delimiters are atomic: the scan looks for the full
		// 3-byte sequence, never a lone quote.
		rel := strings.Index(text[delimEnd+1:], delim)
		if rel < 0 {
			// Unterminated literal: skip past this anchor and keep
			// scanning for later calls.
			pos = delimEnd
			continue
		}
		closeStart := delimEnd + 1 + rel

		start := delimStart
		templated := prefixEnd > prefixStart
		if templated {
			start = prefixStart
		}
		regions = append(regions, Region{
			SQLText:   text[delimEnd:closeStart],
			Start:     start,
			End:       closeStart + len(delim),
			Templated: templated,
			Quote:     quoteFromDelim(delim),
			Kind:      KindCallArgument,
		})
		pos = closeStart + len(delim)
	}
	return regions
}

// isSpace matches the whitespace class used by the magic header rule.
func isSpace(c byte) bool {
	switch c {
	case ' ', '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}
