package template

import "strings"

// Escaper converts between literal text and its escaped form in a grammar.
type Escaper interface {
	Escape(s string) string
	Unescape(s string) string
}

// NoEscaper leaves text unchanged.
var NoEscaper Escaper = noEscaper{}

type noEscaper struct{}

func (noEscaper) Escape(s string) string   { return s }
func (noEscaper) Unescape(s string) string { return s }

// doublingEscaper escapes a delimiter by writing it twice.
type doublingEscaper struct {
	escape   *strings.Replacer
	unescape *strings.Replacer
}

// NewDoublingEscaper escapes each delimiter by doubling it.
func NewDoublingEscaper(delims ...rune) Escaper {
	if len(delims) == 0 {
		return NoEscaper
	}
	var esc, unesc []string
	for _, d := range delims {
		s := string(d)
		esc = append(esc, s, s+s)
		unesc = append(unesc, s+s, s)
	}
	return &doublingEscaper{
		escape:   strings.NewReplacer(esc...),
		unescape: strings.NewReplacer(unesc...),
	}
}

func (e *doublingEscaper) Escape(s string) string   { return e.escape.Replace(s) }
func (e *doublingEscaper) Unescape(s string) string { return e.unescape.Replace(s) }
