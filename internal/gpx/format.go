package gpx

import (
	"regexp"
	"strings"
)

const indentUnit = "  "

var (
	interTagSpace = regexp.MustCompile(`>\s+<`)
	openingTag    = regexp.MustCompile(`^<\w([^>]*[^/])?>`)
	closingTag    = regexp.MustCompile(`^</\w`)
	tagName       = regexp.MustCompile(`^<([^\s/>!?]+)`)
)

// Format re-indents a serialized document: one tag per line, two spaces per
// nesting level, the XML declaration kept on its own first line. It only
// touches whitespace between tags, and Format(Format(x)) == Format(x).
func Format(doc string) string {
	var declaration string
	if strings.HasPrefix(doc, "<?xml") {
		if i := strings.Index(doc, "?>"); i >= 0 {
			declaration = doc[:i+2]
			doc = doc[i+2:]
		}
	}

	doc = strings.TrimSpace(interTagSpace.ReplaceAllString(doc, "><"))
	doc = strings.ReplaceAll(doc, "><", ">\n<")

	var b strings.Builder
	depth := 0
	lines := strings.Split(doc, "\n")
	for i := 0; i < len(lines); i++ {
		line := lines[i]
		// an element without children stays on one line
		if i+1 < len(lines) && closesEmpty(line, lines[i+1]) {
			line += lines[i+1]
			i++
		}

		// Continuation of a text node that itself contains newlines:
		// written as is so a second pass sees the same bytes.
		if !strings.HasPrefix(line, "<") {
			b.WriteString(line)
			b.WriteByte('\n')
			if strings.Contains(line, "</") && depth > 0 {
				depth--
			}
			continue
		}

		if closingTag.MatchString(line) && depth > 0 {
			depth--
		}
		b.WriteString(strings.Repeat(indentUnit, depth))
		b.WriteString(line)
		b.WriteByte('\n')
		if openingTag.MatchString(line) && !strings.Contains(line, "</") {
			depth++
		}
	}

	formatted := strings.TrimSpace(b.String())
	if declaration != "" {
		return declaration + "\n" + formatted
	}
	return formatted
}

// closesEmpty reports whether next is the end tag of the start tag open.
func closesEmpty(open, next string) bool {
	if !openingTag.MatchString(open) || strings.Contains(open, "</") {
		return false
	}
	m := tagName.FindStringSubmatch(open)
	return m != nil && next == "</"+m[1]+">"
}
