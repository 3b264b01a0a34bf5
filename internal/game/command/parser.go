package command

import "strings"

// ParseResult holds the verb and noun extracted from a text line.
type ParseResult struct {
	// Verb is the first word of the input, lowercased.
	Verb string
	// Noun is the remaining words, lowercased and joined with single spaces.
	Noun string
	// Args are the remaining words.
	Args []string
}

// Empty reports whether the line held no words.
func (p ParseResult) Empty() bool {
	return p.Verb == ""
}

// Parse splits a text line into a verb and a noun.
//
// Postcondition: Returns a ParseResult. If line is blank, Verb is empty and
// the caller must treat the line as a no-op.
func Parse(line string) ParseResult {
	fields := strings.Fields(strings.ToLower(line))
	if len(fields) == 0 {
		return ParseResult{}
	}
	res := ParseResult{Verb: fields[0]}
	if len(fields) > 1 {
		res.Args = fields[1:]
		res.Noun = strings.Join(res.Args, " ")
	}
	return res
}

var directionAbbreviations = map[string]string{
	"с": "север",
	"ю": "юг",
	"в": "восток",
	"з": "запад",
}

// ExpandDirection expands the single-letter cardinal abbreviations.
// Any other input is returned unchanged.
func ExpandDirection(noun string) string {
	if full, ok := directionAbbreviations[noun]; ok {
		return full
	}
	return noun
}
