package tokenizer

// Names of the built-in grammars.
const (
	BraceNumericName      = "BraceNumeric"
	BraceAlphaNumericName = "BraceAlphaNumeric"
	PercentName           = "Percent"
	DashName              = "Dash"
	BraceName             = "Brace"
	ParameterlessName     = "Parameterless"
)

// BraceNumericRule is `{0[,align][:fmt]}` with `{{` and `}}` escapes.
func BraceNumericRule() GrammarRule {
	return GrammarRule{
		Name:       BraceNumericName,
		Opener:     "{",
		Closer:     "}",
		Parameter:  ParameterNumeric,
		Alignment:  true,
		Formatting: true,
		Escape:     EscapeDouble,
		Index:      IndexNumeric,
	}
}

// BraceAlphaNumericRule is `{name[,align][:fmt]}` with `{{` and `}}` escapes.
func BraceAlphaNumericRule() GrammarRule {
	rule := BraceNumericRule()
	rule.Name = BraceAlphaNumericName
	rule.Parameter = ParameterAlphaNumeric
	rule.Index = IndexOccurrence
	return rule
}

// PercentRule is `%1` with a `%%` escape.
func PercentRule() GrammarRule {
	return GrammarRule{
		Name:      PercentName,
		Opener:    "%",
		Parameter: ParameterNumeric,
		Escape:    EscapeDouble,
		Index:     IndexOneBased,
	}
}

// DashRule is `#name[,align][:fmt]#` without escapes.
func DashRule() GrammarRule {
	return GrammarRule{
		Name:       DashName,
		Opener:     "#",
		Closer:     "#",
		Parameter:  ParameterUntil,
		Alignment:  true,
		Formatting: true,
		Escape:     EscapeNone,
		Index:      IndexOccurrence,
	}
}

// DefaultRules returns the brace rules accepting named and numbered parameters.
func DefaultRules() *Rules {
	rules, err := BraceAlphaNumericRule().Build()
	if err != nil {
		panic(err)
	}
	return rules
}

// DefaultRulesFile describes the built-in grammars.
func DefaultRulesFile() *RulesFile {
	return &RulesFile{
		Grammars: []GrammarRule{
			BraceNumericRule(),
			BraceAlphaNumericRule(),
			PercentRule(),
			DashRule(),
		},
		Detect: []string{
			ParameterlessName,
			BraceNumericName,
			BraceAlphaNumericName,
			BraceName,
			PercentName,
		},
	}
}
