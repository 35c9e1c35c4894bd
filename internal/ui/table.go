package ui

import (
	"fmt"
	"strings"
)

// Field is one labelled line of a summary block.
type Field struct {
	Label string
	Value string
}

// Summary renders labelled fields under a title in a bordered box. Values are
// rendered as given so callers can pre-style addresses and amounts.
func Summary(title string, fields []Field) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label)+1)
	}

	var sb strings.Builder
	if title != "" {
		sb.WriteString(StyleTitle.Render(title))
		sb.WriteString("\n")
	}
	for _, f := range fields {
		label := StyleMeta.Render(fmt.Sprintf("%-*s", width, f.Label+":"))
		sb.WriteString(label + " " + f.Value + "\n")
	}
	return StyleBorder.Render(strings.TrimSuffix(sb.String(), "\n"))
}
