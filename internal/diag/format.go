package diag

import (
	"fmt"
	"strings"
)

// ANSI color codes for terminal output.
const (
	colorReset = "\033[0m"
	colorRed   = "\033[31m"
	colorBlue  = "\033[34m"
	colorCyan  = "\033[36m"
	colorWhite = "\033[37m"
	colorGray  = "\033[90m"
	colorBold  = "\033[1m"
)

// colorEnabled controls whether ANSI colors are used.
var colorEnabled = true

// DisableColors disables ANSI color output.
func DisableColors() {
	colorEnabled = false
}

// EnableColors enables ANSI color output.
func EnableColors() {
	colorEnabled = true
}

// color wraps text in ANSI color codes if colors are enabled.
func color(code, text string) string {
	if !colorEnabled {
		return text
	}
	return code + text + colorReset
}

func red(text string) string   { return color(colorRed, text) }
func blue(text string) string  { return color(colorBlue, text) }
func cyan(text string) string  { return color(colorCyan, text) }
func white(text string) string { return color(colorWhite, text) }
func gray(text string) string  { return color(colorGray, text) }
func bold(text string) string  { return color(colorBold, text) }

// Format returns a formatted diagnostic for terminal display.
func (d *Diagnostic) Format() string {
	var b strings.Builder

	// Header line
	b.WriteString("\n")
	if d.Code != "" {
		b.WriteString(red(bold("ERROR ")))
		b.WriteString(white(bold(d.Code + ": ")))
		b.WriteString(white(d.Message))
	} else {
		b.WriteString(red(bold("ERROR: ")))
		b.WriteString(white(d.Subject))
	}
	b.WriteString("\n\n")

	// The offending declaration, verbatim
	if d.Code != "" && d.Subject != "" {
		b.WriteString("  ")
		b.WriteString(cyan(d.Subject))
		b.WriteString("\n\n")
	}

	// Detail
	if d.Detail != "" {
		for _, line := range wrapText(d.Detail, 70) {
			b.WriteString("  ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Hint
	if d.Hint != "" {
		b.WriteString("  ")
		b.WriteString(cyan("Hint: "))
		b.WriteString(d.Hint)
		b.WriteString("\n\n")
	}

	// Example
	if d.Example != "" {
		b.WriteString("  ")
		b.WriteString(cyan("Example:"))
		b.WriteString("\n")
		for _, line := range strings.Split(d.Example, "\n") {
			b.WriteString("    ")
			b.WriteString(line)
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	// Doc URL
	if d.DocURL != "" {
		b.WriteString("  ")
		b.WriteString(gray("Learn more: "))
		b.WriteString(blue(d.DocURL))
		b.WriteString("\n")
	}

	return b.String()
}

// FormatCompact returns a compact single-line format.
func (d *Diagnostic) FormatCompact() string {
	var b strings.Builder

	if d.Code != "" {
		b.WriteString(d.Code)
		b.WriteString(": ")
	}
	b.WriteString(d.Subject)

	return b.String()
}

// FormatJSON returns the diagnostic as a JSON object.
func (d *Diagnostic) FormatJSON() string {
	var b strings.Builder
	b.WriteString("{")

	if d.Code != "" {
		b.WriteString(fmt.Sprintf(`"code":%q,`, d.Code))
	}
	b.WriteString(fmt.Sprintf(`"category":%q,`, d.Category))
	b.WriteString(fmt.Sprintf(`"message":%q,`, d.Message))
	b.WriteString(fmt.Sprintf(`"subject":%q`, d.Subject))

	if d.Hint != "" {
		b.WriteString(fmt.Sprintf(`,"hint":%q`, d.Hint))
	}
	if d.DocURL != "" {
		b.WriteString(fmt.Sprintf(`,"docUrl":%q`, d.DocURL))
	}

	b.WriteString("}")
	return b.String()
}

// wrapText wraps text to the specified width.
func wrapText(text string, width int) []string {
	if text == "" {
		return nil
	}
	if len(text) <= width {
		return []string{text}
	}

	var lines []string
	words := strings.Fields(text)
	var current strings.Builder

	for _, word := range words {
		if current.Len()+len(word)+1 > width {
			if current.Len() > 0 {
				lines = append(lines, current.String())
				current.Reset()
			}
		}
		if current.Len() > 0 {
			current.WriteString(" ")
		}
		current.WriteString(word)
	}

	if current.Len() > 0 {
		lines = append(lines, current.String())
	}

	return lines
}
