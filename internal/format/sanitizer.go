// Package format turns review feedback into platform-safe comment text.
package format

import (
	"regexp"
	"strings"
)

// markerReplacements maps the semantic marker emoji used in generated
// feedback to bracketed text equivalents, so their meaning survives the
// character stripping below.
var markerReplacements = []struct {
	emoji string
	text  string
}{
	{"🔴", "[CRITICAL]"},
	{"⚠️", "[WARNING]"},
	{"⚠", "[WARNING]"},
	{"💡", "[SUGGESTION]"},
	{"✅", "[OK]"},
	{"🟡", "[MINOR]"},
}

var newlineRuns = regexp.MustCompile(`\n{3,}`)

// Sanitize converts text into a form the destination platform accepts.
// The platform rejects characters outside the Basic Multilingual Plane
// (4-byte UTF-8), so those are stripped after the semantic markers have been
// rewritten; runs of three or more newlines collapse to exactly two.
// Sanitize is pure, total and idempotent.
func Sanitize(text string) string {
	for _, r := range markerReplacements {
		text = strings.ReplaceAll(text, r.emoji, r.text)
	}

	var b strings.Builder
	b.Grow(len(text))
	for _, r := range text {
		if r > 0xFFFF {
			continue
		}
		if r < 0x20 && r != '\n' && r != '\t' {
			continue
		}
		if r == 0xFE0F || r == 0xFFFD {
			// Stray variation selectors and replacement chars left behind
			// by stripped emoji sequences.
			continue
		}
		b.WriteRune(r)
	}

	return newlineRuns.ReplaceAllString(b.String(), "\n\n")
}
