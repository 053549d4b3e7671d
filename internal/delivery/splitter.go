// Package delivery sends formatted review comments to the destination
// platform, splitting oversized content and pacing sequential sends.
package delivery

import (
	"fmt"
	"unicode/utf8"
)

// partOverhead is the room reserved inside the working limit for the part
// header and continuation footer added to split comments.
const partOverhead = 64

// Part is one ordered fragment of a split comment. Body always holds an
// exact slice of the original text, so concatenating bodies reproduces it.
type Part struct {
	Header string
	Body   string
	Footer string
}

// Render returns the part as it is sent to the platform.
func (p Part) Render() string {
	return p.Header + p.Body + p.Footer
}

// Split cuts text into platform-sized parts. Content within maxLen is
// returned as a single undecorated part. Oversized content is cut greedily
// at the working limit, preferring the nearest section break (blank line or
// markdown heading) found past the chunk midpoint, so parts avoid breaking
// mid-sentence. Headers are numbered in a second pass once the part count is
// known.
func Split(text string, maxLen, splitLimit int) []Part {
	if len(text) <= maxLen {
		return []Part{{Body: text}}
	}

	budget := splitLimit - partOverhead
	if budget < 1 {
		// Degenerate limits still must not panic; fall back to raw chunks.
		budget = max(splitLimit, 1)
	}

	var bodies []string
	rest := text
	for len(rest) > 0 {
		if len(rest) <= budget {
			bodies = append(bodies, rest)
			break
		}
		cut := cutPoint(rest, budget)
		bodies = append(bodies, rest[:cut])
		rest = rest[cut:]
	}

	parts := make([]Part, len(bodies))
	for i, body := range bodies {
		parts[i] = Part{
			Header: fmt.Sprintf("**(%d/%d)**\n\n", i+1, len(bodies)),
			Body:   body,
		}
		if i < len(bodies)-1 {
			parts[i].Footer = "\n\n*(continued in next part)*"
		}
	}
	return parts
}

// cutPoint picks where to slice the next chunk off text. It starts from the
// raw budget, backed up to a rune boundary, then looks backward for a
// section break and takes it when it lies past the midpoint.
func cutPoint(text string, budget int) int {
	cut := budget
	for cut > 0 && !utf8.RuneStart(text[cut]) {
		cut--
	}
	if cut == 0 {
		// A budget smaller than one rune must still make progress.
		cut = budget
	}

	if at := sectionBreak(text[:cut]); at > cut/2 {
		return at
	}
	return cut
}

// sectionBreak returns the position just after the last blank line, or just
// before the last heading marker, inside the candidate chunk. Zero means no
// break was found.
func sectionBreak(chunk string) int {
	best := 0
	for i := len(chunk) - 2; i > 0; i-- {
		if chunk[i] == '\n' && chunk[i+1] == '\n' {
			best = i + 2
			break
		}
	}
	for i := len(chunk) - 2; i > best; i-- {
		if chunk[i] == '\n' && chunk[i+1] == '#' {
			best = i + 1
			break
		}
	}
	return best
}
