// Package locale translates engine messages through gettext catalogs.
package locale

import (
	"embed"
	"fmt"

	"github.com/leonelquinteros/gotext"
)

//go:embed po/*.po
var catalogs embed.FS

// Supported languages.
const (
	Russian = "ru"
	English = "en"
)

// Catalog translates msgids into one language. English is the msgid language
// and needs no catalog file.
type Catalog struct {
	lang string
	po   *gotext.Po
}

// New loads the catalog for lang.
//
// Postcondition: Returns a Catalog or an error for an unsupported language.
func New(lang string) (*Catalog, error) {
	po := gotext.NewPo()
	switch lang {
	case English:
	case Russian:
		data, err := catalogs.ReadFile("po/" + lang + ".po")
		if err != nil {
			return nil, fmt.Errorf("reading %s catalog: %w", lang, err)
		}
		po.Parse(data)
	default:
		return nil, fmt.Errorf("unsupported locale %q", lang)
	}
	return &Catalog{lang: lang, po: po}, nil
}

// MustNew is New for known-good languages.
func MustNew(lang string) *Catalog {
	c, err := New(lang)
	if err != nil {
		panic(err)
	}
	return c
}

// Lang returns the catalog language.
func (c *Catalog) Lang() string {
	return c.lang
}

// T translates msgid and applies Printf-style vars.
// Untranslated msgids are returned formatted as-is.
func (c *Catalog) T(msgid string, vars ...any) string {
	return c.po.Get(msgid, vars...)
}

// noVars keeps Text from formatting: a msgid read from data may contain %.
var noVars []any

// Text translates a msgid taken from data, such as a command's help line.
// The result is never formatted.
func (c *Catalog) Text(msgid string) string {
	return c.po.Get(msgid, noVars...)
}
