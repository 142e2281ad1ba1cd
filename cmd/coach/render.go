package main

import (
	"fmt"
	"strings"

	"github.com/xaenox/health-coach/internal/markup"
	"github.com/xaenox/health-coach/internal/models"
)

const (
	ansiReset  = "\x1b[0m"
	ansiBold   = "\x1b[1m"
	ansiItalic = "\x1b[3m"
	ansiCode   = "\x1b[7m"
)

// renderLines walks formatter output and emits terminal text.
func renderLines(lines []markup.Line) string {
	var b strings.Builder
	for _, line := range lines {
		if line.Bullet {
			b.WriteString("  " + markup.Bullet + " ")
		}
		for _, span := range line.Spans {
			switch span.Kind {
			case markup.SpanStrong:
				b.WriteString(ansiBold + span.Text + ansiReset)
			case markup.SpanEmphasis:
				b.WriteString(ansiItalic + span.Text + ansiReset)
			case markup.SpanCode:
				b.WriteString(ansiCode + span.Text + ansiReset)
			default:
				b.WriteString(span.Text)
			}
		}
		b.WriteByte('\n')
	}
	return b.String()
}

func printAssistant(msg models.Message) {
	fmt.Println()
	fmt.Print(renderLines(markup.Format(msg.Text)))
	fmt.Println()
}
