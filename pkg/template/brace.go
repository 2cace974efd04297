package template

import (
	"github.com/spicery/nutmeg-template/pkg/tokenizer"
)

// BraceKind selects how brace parameters are read.
type BraceKind int

const (
	// KindNumeric reads `{0}` parameters as argument positions.
	KindNumeric BraceKind = iota
	// KindAlphaNumeric reads `{name}` parameters in first occurrence order.
	KindAlphaNumeric
	// KindAuto picks one of the other kinds per template.
	KindAuto
)

func (k BraceKind) String() string {
	switch k {
	case KindNumeric:
		return "Numeric"
	case KindAlphaNumeric:
		return "AlphaNumeric"
	case KindAuto:
		return "Auto"
	}
	return "Unknown"
}

// Built-in grammars.
var (
	BraceNumeric      = mustRuleGrammar(tokenizer.BraceNumericRule())
	BraceAlphaNumeric = mustRuleGrammar(tokenizer.BraceAlphaNumericRule())
	Percent           = mustRuleGrammar(tokenizer.PercentRule())
	Dash              = mustRuleGrammar(tokenizer.DashRule())
)

// BraceAuto reads `{0}` templates as numeric and `{name}` templates as named.
var BraceAuto Grammar = braceAuto{}

// Brace returns the brace grammar of a kind.
func Brace(kind BraceKind) Grammar {
	switch kind {
	case KindNumeric:
		return BraceNumeric
	case KindAlphaNumeric:
		return BraceAlphaNumeric
	}
	return BraceAuto
}

// DetectBraceKind classifies parameter names. Numeric needs every name to
// be a non-negative integer and the highest to be at most eight beyond
// the number of names; anything else is AlphaNumeric. No names at all is
// Numeric.
func DetectBraceKind(names []string) BraceKind {
	if len(names) == 0 {
		return KindNumeric
	}
	highest := -1
	for _, name := range names {
		n, ok := parseIndex(name)
		if !ok {
			return KindAlphaNumeric
		}
		highest = max(highest, n)
	}
	if highest < 0 || highest+1 > len(names)+8 {
		return KindAlphaNumeric
	}
	return KindNumeric
}

// braceAuto parses with the alphanumeric tokenizer and attributes the
// breakdown to whichever concrete brace grammar fits its parameters.
type braceAuto struct{}

func (braceAuto) Name() string              { return tokenizer.BraceName }
func (braceAuto) String() string            { return tokenizer.BraceName }
func (braceAuto) Escaper() Escaper          { return BraceAlphaNumeric.Escaper() }
func (braceAuto) NumberAssignedOrder() bool { return false }

func (braceAuto) Parse(text string) (*Breakdown, error) {
	tokens, err := BraceAlphaNumeric.Tokenize(text)
	if err != nil {
		return nil, err
	}
	var names []string
	for _, token := range tokens {
		if token.Type == tokenizer.PlaceholderToken {
			names = append(names, token.Parameter.Text)
		}
	}
	target := Brace(DetectBraceKind(names)).(*RuleGrammar)
	return target.build(text, tokens, target), nil
}

func (a braceAuto) Assemble(b *Breakdown) (string, error) {
	if b.Grammar() == Grammar(a) && b.HasText() {
		return b.Text(), nil
	}
	return a.Resolve(b).Assemble(b)
}

// Resolve keeps the kind of a brace breakdown, writes breakdowns from
// numbered grammars as numeric, and classifies the rest.
func (braceAuto) Resolve(b *Breakdown) Grammar {
	switch g := b.Grammar(); {
	case g == Grammar(BraceNumeric), g == Grammar(BraceAlphaNumeric):
		return g
	case g != nil && g.NumberAssignedOrder():
		return BraceNumeric
	}
	names := make([]string, 0, len(b.Placeholders()))
	for _, ph := range b.Placeholders() {
		if ph.Parameter() != nil {
			names = append(names, ph.Parameter().Unescaped())
		}
	}
	return Brace(DetectBraceKind(names))
}
