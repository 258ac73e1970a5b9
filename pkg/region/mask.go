package region

import (
	"fmt"
	"regexp"
	"strings"
)

// interpPattern matches a non-nested {expr} interpolation span: a single
// opening brace, one or more characters containing no braces, a closing
// brace. Doubled braces are not exempted, so "{{x}}" is seen as a
// literal brace, the match "{x}", and another literal brace. That
// mis-masking of escaped braces is a documented limitation; the exact
// round-trip behavior of other regions depends on this simple rule.
var interpPattern = regexp.MustCompile(`\{[^{}]+\}`)

// maskFormat is the placeholder shape, numbered from zero per pass.
const maskFormat = "__MASK_%d__"

type maskEntry struct {
	placeholder string
	original    string
}

// MaskMap records, in discovery order, the original interpolation text
// (braces included) behind each placeholder. It lives for a single
// region's format pass.
type MaskMap struct {
	entries []maskEntry
}

// Len returns the number of masked interpolations. Safe on nil.
func (m *MaskMap) Len() int {
	if m == nil {
		return 0
	}
	return len(m.entries)
}

// Mask replaces every interpolation span in text with an opaque
// placeholder so a SQL parser never sees the embedded expression.
// Placeholders that collide with incidental user text of the same shape
// are not guarded against.
func Mask(text string) (string, *MaskMap) {
	m := &MaskMap{}
	masked := interpPattern.ReplaceAllStringFunc(text, func(match string) string {
		placeholder := fmt.Sprintf(maskFormat, len(m.entries))
		m.entries = append(m.entries, maskEntry{placeholder: placeholder, original: match})
		return placeholder
	})
	return masked, m
}

// Unmask restores every placeholder to its original interpolation text.
// With an empty map the text is returned unchanged. Entry order does
// not matter for correctness since each placeholder is unique.
func (m *MaskMap) Unmask(text string) string {
	if m == nil {
		return text
	}
	for _, e := range m.entries {
		text = strings.ReplaceAll(text, e.placeholder, e.original)
	}
	return text
}
