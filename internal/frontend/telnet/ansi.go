// Package telnet provides a Telnet server with ANSI styling for text games.
package telnet

import (
	"strings"
)

// Style is an ANSI SGR escape sequence.
type Style string

// Styles used by game output.
const (
	Reset   Style = "\033[0m"
	Bold    Style = "\033[1m"
	Dim     Style = "\033[2m"
	Red     Style = "\033[31m"
	Green   Style = "\033[32m"
	Yellow  Style = "\033[33m"
	Magenta Style = "\033[35m"
	Cyan    Style = "\033[36m"
	White   Style = "\033[37m"
)

// ClearScreen clears the terminal and homes the cursor.
const ClearScreen = "\033[2J\033[H"

// Paint wraps each non-empty line of text in styles followed by Reset.
//
// Postcondition: StripANSI(Paint(s, text)) == text.
func Paint(text string, styles ...Style) string {
	if len(styles) == 0 || text == "" {
		return text
	}
	var prefix strings.Builder
	for _, s := range styles {
		prefix.WriteString(string(s))
	}
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix.String() + l + string(Reset)
		}
	}
	return strings.Join(lines, "\n")
}

// StripANSI removes all ANSI SGR sequences from s.
//
// Postcondition: Returns s with all \033[...m sequences removed.
func StripANSI(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	for i := 0; i < len(s); i++ {
		if s[i] == '\033' && i+1 < len(s) && s[i+1] == '[' {
			if j := strings.IndexByte(s[i+2:], 'm'); j >= 0 {
				i += j + 2
				continue
			}
		}
		b.WriteByte(s[i])
	}
	return b.String()
}
