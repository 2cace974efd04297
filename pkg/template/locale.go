package template

import (
	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

// Locale carries the culture used by format specifiers. A nil *Locale is
// the invariant culture.
type Locale struct {
	tag     language.Tag
	printer *message.Printer
}

// NewLocale creates a locale for a language tag.
func NewLocale(tag language.Tag) *Locale {
	return &Locale{tag: tag, printer: message.NewPrinter(tag)}
}

// ParseLocale creates a locale from a BCP 47 tag such as "de-CH".
func ParseLocale(s string) (*Locale, error) {
	tag, err := language.Parse(s)
	if err != nil {
		return nil, err
	}
	return NewLocale(tag), nil
}

// invariantPrinter formats grouped numbers for the invariant culture.
var invariantPrinter = message.NewPrinter(language.English)

// Tag returns the language tag, language.Und for the invariant culture.
func (l *Locale) Tag() language.Tag {
	if l == nil {
		return language.Und
	}
	return l.tag
}

// Printer returns the message printer of the locale.
func (l *Locale) Printer() *message.Printer {
	if l == nil {
		return invariantPrinter
	}
	return l.printer
}

func (l *Locale) String() string {
	if l == nil {
		return "invariant"
	}
	return l.tag.String()
}
