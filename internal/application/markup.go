package application

import (
	"regexp"
	"strings"
)

var (
	bulletMarker   = regexp.MustCompile(`^[-•✓]\s`)
	numberedMarker = regexp.MustCompile(`^\d+\.\s`)
	strongSpan     = regexp.MustCompile(`\*\*([^*<]+?)\*\*`)
	emSpan         = regexp.MustCompile(`\*([^*<]+?)\*`)
)

type unitKind int

const (
	unitBreak unitKind = iota
	unitParagraph
	unitListItem
)

type markupUnit struct {
	kind unitKind
	text string
}

// FormatAsHTML renders a plain-text reply with light markdown (bullets,
// numbered items, **strong**, *em*) into HTML.
//
// Markup already present in the text is passed through unescaped. Only
// trusted content (configuration, generated replies) may be rendered here,
// never raw user input.
func FormatAsHTML(text string) string {
	if text == "" {
		return "<p></p>"
	}

	lines := strings.Split(text, "\n")
	units := make([]markupUnit, 0, len(lines))
	for _, line := range lines {
		units = append(units, classifyLine(strings.TrimSpace(line)))
	}

	var b strings.Builder
	inList := false
	for _, u := range units {
		if u.kind == unitListItem && !inList {
			b.WriteString("<ul>")
			inList = true
		}
		if u.kind != unitListItem && inList {
			b.WriteString("</ul>")
			inList = false
		}
		switch u.kind {
		case unitBreak:
			b.WriteString("<br>")
		case unitListItem:
			b.WriteString("<li>" + u.text + "</li>")
		default:
			b.WriteString("<p>" + u.text + "</p>")
		}
	}
	if inList {
		b.WriteString("</ul>")
	}

	return applyEmphasis(b.String())
}

func classifyLine(line string) markupUnit {
	if line == "" {
		return markupUnit{kind: unitBreak}
	}
	if loc := bulletMarker.FindStringIndex(line); loc != nil {
		return markupUnit{kind: unitListItem, text: line[loc[1]:]}
	}
	if loc := numberedMarker.FindStringIndex(line); loc != nil {
		return markupUnit{kind: unitListItem, text: line[loc[1]:]}
	}
	return markupUnit{kind: unitParagraph, text: line}
}

func applyEmphasis(html string) string {
	html = strongSpan.ReplaceAllString(html, "<strong>$1</strong>")
	return replaceSingleEmphasis(html)
}

// replaceSingleEmphasis wraps *x* in <em> unless either delimiter touches
// another '*'. A rejected candidate is retried one byte further on, so a
// valid span right after a stray '*' is still found.
func replaceSingleEmphasis(s string) string {
	var b strings.Builder
	last := 0
	pos := 0
	for pos < len(s) {
		loc := emSpan.FindStringSubmatchIndex(s[pos:])
		if loc == nil {
			break
		}
		start, end := pos+loc[0], pos+loc[1]
		if (start > 0 && s[start-1] == '*') || (end < len(s) && s[end] == '*') {
			pos = start + 1
			continue
		}
		b.WriteString(s[last:start])
		b.WriteString("<em>")
		b.WriteString(s[pos+loc[2] : pos+loc[3]])
		b.WriteString("</em>")
		last = end
		pos = end
	}
	b.WriteString(s[last:])
	return b.String()
}
