// Package markup parses the small markup subset used in coach replies into
// renderable nodes. The rendering layer walks the nodes; raw text is never
// turned into markup strings here.
package markup

import (
	"strings"
	"unicode/utf8"
)

// SpanKind classifies an inline run of text.
type SpanKind int

const (
	SpanPlain SpanKind = iota
	SpanStrong
	SpanEmphasis
	SpanCode
)

// Span is an inline run of text with a single style.
type Span struct {
	Kind SpanKind
	Text string
}

// Line is one rendered block. An empty Spans slice preserves vertical
// spacing for blank input lines.
type Line struct {
	Bullet bool
	Spans  []Span
}

// Bullet is the normalized glyph front-ends should render for bullet lines.
const Bullet = "•"

// bulletMarkers are the accepted leading markers, checked against the
// trimmed line.
var bulletMarkers = []string{"- ", "• ", "✅"}

// Format splits raw reply text on newlines and parses each line. Styling is
// applied per line in a fixed order: strong (**), emphasis (*), code (`),
// then the leading bullet marker. Unmatched delimiters render literally.
func Format(raw string) []Line {
	rawLines := strings.Split(raw, "\n")
	lines := make([]Line, 0, len(rawLines))
	for _, l := range rawLines {
		lines = append(lines, formatLine(l))
	}
	return lines
}

func formatLine(raw string) Line {
	text := raw
	bullet := false

	trimmed := strings.TrimSpace(text)
	for _, marker := range bulletMarkers {
		if strings.HasPrefix(trimmed, marker) {
			bullet = true
			// Strip the single marker rune and any following spaces.
			_, size := utf8.DecodeRuneInString(trimmed)
			text = strings.TrimLeft(trimmed[size:], " \t")
			break
		}
	}

	if text == "" {
		return Line{Bullet: bullet}
	}

	spans := []Span{{Kind: SpanPlain, Text: text}}
	spans = applyPairs(spans, "**", SpanStrong)
	spans = applyPairs(spans, "*", SpanEmphasis)
	spans = applyPairs(spans, "`", SpanCode)
	return Line{Bullet: bullet, Spans: spans}
}

// applyPairs rewrites plain spans, converting text between matched delimiter
// pairs into styled spans. Already-styled spans are left alone, so earlier
// rules cannot be restyled by later ones.
func applyPairs(spans []Span, delim string, kind SpanKind) []Span {
	out := make([]Span, 0, len(spans))
	for _, s := range spans {
		if s.Kind != SpanPlain {
			out = append(out, s)
			continue
		}
		out = append(out, splitPlain(s.Text, delim, kind)...)
	}
	return out
}

func splitPlain(text, delim string, kind SpanKind) []Span {
	var out []Span
	rest := text
	for {
		open := strings.Index(rest, delim)
		if open < 0 {
			break
		}
		end := strings.Index(rest[open+len(delim):], delim)
		if end < 0 {
			// Odd delimiter: everything from here renders literally.
			break
		}
		if open > 0 {
			out = append(out, Span{Kind: SpanPlain, Text: rest[:open]})
		}
		inner := rest[open+len(delim) : open+len(delim)+end]
		out = append(out, Span{Kind: kind, Text: inner})
		rest = rest[open+2*len(delim)+end:]
	}
	if rest != "" {
		out = append(out, Span{Kind: SpanPlain, Text: rest})
	}
	return out
}
