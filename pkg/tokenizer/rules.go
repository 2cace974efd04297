package tokenizer

import (
	"fmt"
	"os"
	"slices"
	"strings"
	"unicode/utf8"

	"gopkg.in/yaml.v3"
)

// RulesFile represents the structure of a YAML rules file
type RulesFile struct {
	Grammars []GrammarRule `yaml:"grammars"`
	Detect   []string      `yaml:"detect,omitempty"` // Candidate order for grammar detection
}

// Parameter classes
const (
	ParameterNumeric      = "numeric"
	ParameterAlphaNumeric = "alphanumeric"
	ParameterUntil        = "until" // anything up to the closer or a separator
)

// Escape styles
const (
	EscapeDouble = "double" // a doubled delimiter stands for itself
	EscapeNone   = "none"
)

// Index policies
const (
	IndexNumeric    = "numeric"    // parameter digits are the index
	IndexOneBased   = "one-based"  // parameter digits minus one, zero is not a placeholder
	IndexOccurrence = "occurrence" // first occurrence order of distinct names
)

// GrammarRule describes one placeholder syntax.
type GrammarRule struct {
	Name       string `yaml:"name"`
	Opener     string `yaml:"opener"`
	Closer     string `yaml:"closer,omitempty"`
	Parameter  string `yaml:"parameter"`
	Alignment  bool   `yaml:"alignment,omitempty"`
	Formatting bool   `yaml:"formatting,omitempty"`
	Escape     string `yaml:"escape"`
	Index      string `yaml:"index"`
}

// LoadRulesFile loads and parses a YAML rules file
func LoadRulesFile(filename string) (*RulesFile, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file '%s': %w", filename, err)
	}
	return ParseRules(data)
}

// ParseRules parses YAML rules and validates every grammar in them.
func ParseRules(data []byte) (*RulesFile, error) {
	var rules RulesFile
	if err := yaml.Unmarshal(data, &rules); err != nil {
		return nil, fmt.Errorf("failed to parse YAML rules: %w", err)
	}
	seen := make(map[string]bool)
	for _, g := range rules.Grammars {
		if err := g.Validate(); err != nil {
			return nil, err
		}
		key := strings.ToLower(g.Name)
		if seen[key] {
			return nil, fmt.Errorf("grammar '%s' is defined more than once", g.Name)
		}
		seen[key] = true
	}
	return &rules, nil
}

// Validate checks that the rule describes a usable grammar.
func (g GrammarRule) Validate() error {
	if g.Name == "" {
		return fmt.Errorf("grammar rule with opener '%s' has no name", g.Opener)
	}
	if g.Opener == "" {
		return fmt.Errorf("grammar '%s': opener must not be empty", g.Name)
	}
	switch g.Parameter {
	case ParameterNumeric, ParameterAlphaNumeric, ParameterUntil:
	default:
		return fmt.Errorf("grammar '%s': unknown parameter class '%s'", g.Name, g.Parameter)
	}
	switch g.Escape {
	case EscapeDouble, EscapeNone:
	default:
		return fmt.Errorf("grammar '%s': unknown escape style '%s'", g.Name, g.Escape)
	}
	switch g.Index {
	case IndexNumeric, IndexOneBased:
		if g.Parameter != ParameterNumeric {
			return fmt.Errorf("grammar '%s': index '%s' needs numeric parameters", g.Name, g.Index)
		}
	case IndexOccurrence:
	default:
		return fmt.Errorf("grammar '%s': unknown index policy '%s'", g.Name, g.Index)
	}
	if g.Closer == "" && (g.Alignment || g.Formatting || g.Parameter == ParameterUntil) {
		return fmt.Errorf("grammar '%s': alignment, formatting and 'until' parameters need a closer", g.Name)
	}
	return nil
}

// Delimiters returns the runes that are escaped by doubling, or nil when
// the grammar has no escaping.
func (g GrammarRule) Delimiters() []rune {
	if g.Escape != EscapeDouble {
		return nil
	}
	open, _ := utf8.DecodeRuneInString(g.Opener)
	delims := []rune{open}
	if g.Closer != "" {
		if closer, _ := utf8.DecodeRuneInString(g.Closer); closer != open {
			delims = append(delims, closer)
		}
	}
	return delims
}

// parameterClass is the class of runes a parameter of the rule is made of.
// Free-form parameters stop at the delimiters and at any separator the
// rule uses.
func (g GrammarRule) parameterClass() CharClass {
	switch g.Parameter {
	case ParameterNumeric:
		return Numeric
	case ParameterAlphaNumeric:
		return AlphaNumeric
	}
	stop := []rune{}
	for _, delim := range []string{g.Opener, g.Closer} {
		if r, _ := utf8.DecodeRuneInString(delim); delim != "" && !slices.Contains(stop, r) {
			stop = append(stop, r)
		}
	}
	if g.Alignment {
		stop = append(stop, AlignmentSeparator)
	}
	if g.Formatting {
		stop = append(stop, FormattingSeparator)
	}
	return Except(stop...)
}

// acceptOneBased rejects parameters that are all zeros.
func acceptOneBased(parameter string) bool {
	return strings.TrimLeft(parameter, "0") != ""
}

// AcceptsParameter reports whether name can be written as the parameter of
// a placeholder of this rule and read back unchanged.
func (g GrammarRule) AcceptsParameter(name string) bool {
	if name == "" {
		return false
	}
	class := g.parameterClass()
	for _, r := range name {
		if !class(r) {
			return false
		}
	}
	return g.Index != IndexOneBased || acceptOneBased(name)
}

// Build turns the rule into tokenizer rules.
func (g GrammarRule) Build() (*Rules, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}
	open, _ := utf8.DecodeRuneInString(g.Opener)
	stop := []rune{open}
	if g.Closer != "" {
		if closer, _ := utf8.DecodeRuneInString(g.Closer); closer != open {
			stop = append(stop, closer)
		}
	}

	placeholder := &Placeholder{
		Opener:    Constant(g.Opener),
		Parameter: Chars(g.parameterClass(), ParameterToken),
	}
	if g.Alignment {
		placeholder.Alignment = Integer(AlignmentToken)
	}
	if g.Formatting {
		placeholder.Formatting = Until(FormattingToken, stop...)
	}
	if g.Closer != "" {
		placeholder.Closer = Constant(g.Closer)
	}
	if g.Index == IndexOneBased {
		placeholder.Accept = acceptOneBased
	}

	var text Matcher
	if g.Escape == EscapeDouble {
		text = Escaped(g.Delimiters()...)
	} else {
		text = Until(TextToken, open)
	}

	return &Rules{
		Placeholder: placeholder,
		Text:        text,
		Malformed:   Malformed(),
	}, nil
}
