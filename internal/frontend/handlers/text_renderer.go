package handlers

import (
	"strings"

	"github.com/cory-johannsen/whatif/internal/frontend/telnet"
	"github.com/cory-johannsen/whatif/internal/game/state"
)

// entryStyles maps log entry types to their Telnet colors. Plain responses
// and echoed commands carry no style.
var entryStyles = map[state.EntryType][]telnet.Style{
	state.EntryError:   {telnet.Red},
	state.EntrySuccess: {telnet.Green},
	state.EntrySystem:  {telnet.Cyan},
	state.EntryWarning: {telnet.Yellow},
	state.EntryEnding:  {telnet.Bold, telnet.Magenta},
}

// RenderEntry formats one log entry as colored Telnet text.
func RenderEntry(e state.LogEntry) string {
	return telnet.Paint(e.Text, entryStyles[e.Type]...)
}

// RenderEntries formats the entries one command produced, skipping the
// echo of the command itself since the client already shows what was typed.
//
// Postcondition: Entries are separated by a blank line.
func RenderEntries(entries []state.LogEntry) string {
	parts := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.Type == state.EntryCommand {
			continue
		}
		parts = append(parts, RenderEntry(e))
	}
	return strings.Join(parts, "\n\n")
}
