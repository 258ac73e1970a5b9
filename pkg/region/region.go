// Package region locates SQL-bearing spans inside notebook cell source,
// masks template interpolations around an external formatting pass, and
// splices formatted SQL back at the original byte offsets.
package region

// Kind classifies how a region was detected.
type Kind int

const (
	// KindMagicBlock is a whole-cell region introduced by a %%sql header.
	KindMagicBlock Kind = iota
	// KindCallArgument is a string argument of a spark.sql(...) style call.
	KindCallArgument
)

// String returns the kind name.
func (k Kind) String() string {
	switch k {
	case KindMagicBlock:
		return "magic"
	case KindCallArgument:
		return "call"
	default:
		return "unknown"
	}
}

// Quote identifies the string delimiter style of a region.
type Quote int

const (
	// QuoteNone means the region is raw text (magic blocks).
	QuoteNone Quote = iota
	// QuoteSingle is a '...' literal.
	QuoteSingle
	// QuoteDouble is a "..." literal.
	QuoteDouble
	// QuoteTripleSingle is a '''...''' literal.
	QuoteTripleSingle
	// QuoteTripleDouble is a """...""" literal.
	QuoteTripleDouble
)

// Delim returns the delimiter text for the quote style.
func (q Quote) Delim() string {
	switch q {
	case QuoteSingle:
		return "'"
	case QuoteDouble:
		return `"`
	case QuoteTripleSingle:
		return "'''"
	case QuoteTripleDouble:
		return `"""`
	default:
		return ""
	}
}

// Triple reports whether the quote style is a triple-quote delimiter.
func (q Quote) Triple() bool {
	return q == QuoteTripleSingle || q == QuoteTripleDouble
}

// quoteFromDelim maps a delimiter literal to its Quote value.
func quoteFromDelim(delim string) Quote {
	switch delim {
	case "'":
		return QuoteSingle
	case `"`:
		return QuoteDouble
	case "'''":
		return QuoteTripleSingle
	case `"""`:
		return QuoteTripleDouble
	default:
		return QuoteNone
	}
}

// Region is a contiguous span of cell source identified as SQL.
// Start and End are byte offsets into the original, unmodified text;
// End is exclusive. For call-argument regions the span covers the full
// string literal including the template prefix and both delimiters.
type Region struct {
	SQLText   string
	Start     int
	End       int
	Templated bool
	Quote     Quote
	Kind      Kind
}

// Outcome is the terminal state of formatting a single region.
type Outcome int

const (
	// OutcomeFormatted means the region produced replacement text.
	OutcomeFormatted Outcome = iota
	// OutcomeUnchanged means formatting reproduced the original text.
	OutcomeUnchanged
	// OutcomeFailed means the formatter rejected the region's SQL.
	OutcomeFailed
)

// Result is the outcome of one region's format pass. There are no
// partial results: Text is set only for OutcomeFormatted and Err only
// for OutcomeFailed.
type Result struct {
	Outcome Outcome
	Text    string
	Err     error
}

// Formatted returns a result carrying replacement text.
func Formatted(text string) Result {
	return Result{Outcome: OutcomeFormatted, Text: text}
}

// Unchanged returns a result signalling the region needs no edit.
func Unchanged() Result {
	return Result{Outcome: OutcomeUnchanged}
}

// Failed returns a result recording why the region was skipped.
func Failed(err error) Result {
	return Result{Outcome: OutcomeFailed, Err: err}
}
