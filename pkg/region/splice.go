package region

import (
	"strings"
	"unicode"
)

// spliceIndent is the extra indentation applied to the body of a
// rebuilt triple-quoted literal, on top of the line's base indent.
const spliceIndent = "    "

// Splice rewrites original by substituting each formatted region back
// at its recorded offsets. Regions are processed in reverse document
// order so earlier offsets stay valid; regions whose result is
// Unchanged or Failed keep their original bytes. The second return is
// false when the rebuilt text is byte-identical to the original.
func Splice(original string, regions []Region, results []Result) (string, bool) {
	out := original
	changed := false

	for i := len(regions) - 1; i >= 0; i-- {
		if i >= len(results) || results[i].Outcome != OutcomeFormatted {
			continue
		}
		r := regions[i]
		// Edits so far are all at offsets >= r.End, so out[:r.Start]
		// still equals original[:r.Start].
		replacement := rebuild(r, results[i].Text, baseIndent(out[:r.Start]))
		out = out[:r.Start] + replacement + out[r.End:]
		changed = true
	}
	if !changed || out == original {
		return original, false
	}
	return out, true
}

// rebuild reconstructs the source form of a region around its formatted
// SQL. Magic blocks are raw text. Triple-quoted literals are reopened
// on their own line with the body indented past the base indent.
// Single-character literals stay inline.
func rebuild(r Region, formatted, indent string) string {
	if r.Kind == KindMagicBlock {
		return formatted
	}

	prefix := ""
	if r.Templated {
		prefix = "f"
	}
	delim := r.Quote.Delim()

	if !r.Quote.Triple() {
		return prefix + delim + formatted + delim
	}

	lines := strings.Split(formatted, "\n")
	for i, line := range lines {
		if strings.TrimSpace(line) == "" {
			lines[i] = ""
			continue
		}
		lines[i] = indent + spliceIndent + line
	}
	return prefix + delim + "\n" + strings.Join(lines, "\n") + "\n" + indent + delim
}

// baseIndent measures the leading whitespace of the line the region
// starts on, normalized to spaces.
func baseIndent(before string) string {
	line := before
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		line = before[i+1:]
	}
	n := 0
	for _, r := range line {
		if !unicode.IsSpace(r) {
			break
		}
		n++
	}
	return strings.Repeat(" ", n)
}
