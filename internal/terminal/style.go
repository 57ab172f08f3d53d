package terminal

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

var (
	titleStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	hintStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))
	ruleStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
)

// Field is one labelled line of a summary block
type Field struct {
	Label string
	Value string
}

// Summary renders a title, aligned fields and an optional hint line
func Summary(title string, fields []Field, hint string) string {
	width := 0
	for _, f := range fields {
		width = max(width, len(f.Label))
	}
	label := labelStyle.Width(width + 2)

	var b strings.Builder
	b.WriteString(titleStyle.Render(title))
	b.WriteByte('\n')
	for _, f := range fields {
		b.WriteString(label.Render(f.Label + ":"))
		b.WriteString(valueStyle.Render(f.Value))
		b.WriteByte('\n')
	}
	if hint != "" {
		b.WriteString(hintStyle.Render(hint))
		b.WriteByte('\n')
	}
	return b.String()
}

// Rule is a horizontal separator n cells wide
func Rule(n int) string {
	return ruleStyle.Render(strings.Repeat("=", max(n, 0)))
}

// Status renders a short highlighted message
func Status(msg string) string {
	return hintStyle.Render(msg)
}
