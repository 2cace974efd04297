package template

import (
	"sync/atomic"
)

// Template is template text in a grammar, parsed on first use.
type Template struct {
	text      string
	grammar   Grammar
	breakdown atomic.Pointer[Breakdown]
}

// New creates a template. The text is not parsed until it is needed.
func New(text string, g Grammar) *Template {
	return &Template{text: text, grammar: g}
}

// FromBreakdown wraps an existing breakdown.
func FromBreakdown(b *Breakdown) *Template {
	t := &Template{text: b.Text(), grammar: b.Grammar()}
	t.breakdown.Store(b)
	return t
}

func (t *Template) Text() string     { return t.text }
func (t *Template) String() string   { return t.text }
func (t *Template) Grammar() Grammar { return t.grammar }

// Breakdown parses the text, once.
func (t *Template) Breakdown() (*Breakdown, error) {
	if b := t.breakdown.Load(); b != nil {
		return b, nil
	}
	b, err := t.grammar.Parse(t.text)
	if err != nil {
		return nil, err
	}
	if !t.breakdown.CompareAndSwap(nil, b) {
		return t.breakdown.Load(), nil
	}
	return b, nil
}

// MustBreakdown is Breakdown for templates known to parse.
func (t *Template) MustBreakdown() *Breakdown {
	b, err := t.Breakdown()
	if err != nil {
		panic(err)
	}
	return b
}

// ParameterNames returns the parameter names, or nil if the text does not parse.
func (t *Template) ParameterNames() []string {
	b, err := t.Breakdown()
	if err != nil {
		return nil
	}
	return b.ParameterNames()
}

// Print renders the template. Text that does not parse is returned as is.
func (t *Template) Print(l *Locale, args ...any) string {
	b, err := t.Breakdown()
	if err != nil {
		return t.text
	}
	return b.Print(l, args...)
}

// PrintMap renders the template with arguments looked up by name.
func (t *Template) PrintMap(l *Locale, args map[string]any) string {
	b, err := t.Breakdown()
	if err != nil {
		return t.text
	}
	return b.PrintMap(l, args)
}

// AppendFormat implements Appender.
func (t *Template) AppendFormat(dst []byte, format string, l *Locale) []byte {
	b, err := t.Breakdown()
	if err != nil {
		return append(dst, t.text...)
	}
	return b.AppendFormat(dst, format, l)
}

// Place emplaces templates into this one and writes the result in this
// template's grammar.
func (t *Template) Place(emplacements ...Emplacement) (*Template, error) {
	b, err := t.Breakdown()
	if err != nil {
		return nil, err
	}
	out, err := EmplaceWith(t.grammar, b, emplacements...)
	if err != nil {
		return nil, err
	}
	return FromBreakdown(out), nil
}

// FormatTemplate returns the text with numbered brace placeholders, as
// used by positional formatters.
func (t *Template) FormatTemplate() (string, error) {
	return t.assembleAs(BraceNumeric)
}

// LoggerTemplate returns the text with named brace placeholders, as used
// by structured loggers.
func (t *Template) LoggerTemplate() (string, error) {
	return t.assembleAs(BraceAlphaNumeric)
}

func (t *Template) assembleAs(g Grammar) (string, error) {
	b, err := t.Breakdown()
	if err != nil {
		return "", err
	}
	return g.Assemble(b)
}

// WithLocale binds a locale to the template.
func (t *Template) WithLocale(l *Locale) *Localized {
	return &Localized{Template: t, Locale: l}
}

// Localized is a template bound to a locale.
type Localized struct {
	Template *Template
	Locale   *Locale
}

// Print renders the template in the bound locale.
func (lt *Localized) Print(args ...any) string {
	return lt.Template.Print(lt.Locale, args...)
}

// AppendFormat implements Appender. The bound locale wins over the one
// passed in.
func (lt *Localized) AppendFormat(dst []byte, format string, _ *Locale) []byte {
	return lt.Template.AppendFormat(dst, format, lt.Locale)
}

func (lt *Localized) String() string {
	return lt.Print()
}
