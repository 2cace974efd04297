package template

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/spicery/nutmeg-template/pkg/tokenizer"
)

// Grammar is one placeholder syntax.
type Grammar interface {
	Name() string
	// Parse breaks text into parts. It fails with ErrParseFailure only when
	// the input cannot be classified at all; unrecognised placeholders
	// become Malformed parts.
	Parse(text string) (*Breakdown, error)
	// Assemble writes a breakdown as text in this grammar.
	Assemble(b *Breakdown) (string, error)
	Escaper() Escaper
	// NumberAssignedOrder reports whether parameter order comes from the
	// numbers written in the placeholders.
	NumberAssignedOrder() bool
}

// resolver is implemented by grammars that settle on a concrete grammar for
// each breakdown they assemble.
type resolver interface {
	Resolve(b *Breakdown) Grammar
}

func resolve(g Grammar, b *Breakdown) Grammar {
	if r, ok := g.(resolver); ok {
		return r.Resolve(b)
	}
	return g
}

// RuleGrammar is a delimited placeholder syntax described by a
// tokenizer.GrammarRule.
type RuleGrammar struct {
	rule    tokenizer.GrammarRule
	rules   *tokenizer.Rules
	escaper Escaper
}

// NewRuleGrammar builds a grammar from a rule.
func NewRuleGrammar(rule tokenizer.GrammarRule) (*RuleGrammar, error) {
	rules, err := rule.Build()
	if err != nil {
		return nil, err
	}
	return &RuleGrammar{
		rule:    rule,
		rules:   rules,
		escaper: NewDoublingEscaper(rule.Delimiters()...),
	}, nil
}

func mustRuleGrammar(rule tokenizer.GrammarRule) *RuleGrammar {
	g, err := NewRuleGrammar(rule)
	if err != nil {
		panic(err)
	}
	return g
}

// Rule returns the rule the grammar was built from.
func (g *RuleGrammar) Rule() tokenizer.GrammarRule { return g.rule }

func (g *RuleGrammar) Name() string     { return g.rule.Name }
func (g *RuleGrammar) Escaper() Escaper { return g.escaper }
func (g *RuleGrammar) String() string   { return g.rule.Name }

// NumberAssignedOrder is true for grammars whose parameters carry their index.
func (g *RuleGrammar) NumberAssignedOrder() bool {
	return g.rule.Index != tokenizer.IndexOccurrence
}

// Parse implements Grammar.
func (g *RuleGrammar) Parse(text string) (*Breakdown, error) {
	tokens, err := g.Tokenize(text)
	if err != nil {
		return nil, err
	}
	return g.build(text, tokens, g), nil
}

// Tokenize splits text into tokens without building a breakdown.
func (g *RuleGrammar) Tokenize(text string) ([]*tokenizer.Token, error) {
	tokens, err := tokenizer.NewTokenizerWithRules(text, g.rules).Tokenize()
	if err != nil {
		return nil, fmt.Errorf("%s: %w: %w", g.rule.Name, ErrParseFailure, err)
	}
	return tokens, nil
}

// build turns tokens into a breakdown attributed to as.
func (g *RuleGrammar) build(text string, tokens []*tokenizer.Token, as Grammar) *Breakdown {
	builder := NewBuilder(as).SetText(text)
	seen := make(map[string]int)
	for _, token := range tokens {
		switch token.Type {
		case tokenizer.TextToken:
			builder.Add(NewText(token.Text, g.escaper.Unescape(token.Text)))
		case tokenizer.PlaceholderToken:
			builder.Add(g.placeholder(token, seen))
		default:
			builder.Add(NewMalformed(token.Text))
		}
	}
	return builder.Build()
}

func (g *RuleGrammar) placeholder(token *tokenizer.Token, seen map[string]int) *Placeholder {
	name := token.Parameter.Text
	var index int
	switch g.rule.Index {
	case tokenizer.IndexNumeric, tokenizer.IndexOneBased:
		n, ok := parseIndex(name)
		if !ok {
			Logger().Warn("numeric parameter does not fit an int, using index 0",
				slog.String("grammar", g.rule.Name), slog.String("parameter", name))
		} else if g.rule.Index == tokenizer.IndexOneBased {
			n--
		}
		index = n
	default:
		i, ok := seen[name]
		if !ok {
			i = len(seen)
			seen[name] = i
		}
		index = i
	}

	parameter := NewParameter(name, name, index)
	var alignment *Alignment
	if token.Alignment != nil {
		alignment = NewAlignment(token.Alignment.Text)
	}
	var formatting *Formatting
	if token.Formatting != nil {
		formatting = NewFormatting(token.Formatting.Text, token.Formatting.Text)
	}
	return NewPlaceholder(token.Text, token.Text, parameter, alignment, formatting)
}

// Assemble implements Grammar.
func (g *RuleGrammar) Assemble(b *Breakdown) (string, error) {
	if b.Grammar() == Grammar(g) && b.HasText() {
		return b.Text(), nil
	}
	var sb strings.Builder
	for _, p := range b.Parts() {
		switch p := p.(type) {
		case *Text:
			sb.WriteString(g.escaper.Escape(p.Unescaped()))
		case *Placeholder:
			if err := g.writePlaceholder(&sb, p); err != nil {
				return "", err
			}
		case *Malformed:
			sb.WriteString(p.Escaped())
		}
	}
	return sb.String(), nil
}

// writePlaceholder writes p with its parameter by number or by name. A
// parameter the grammar would not read back as the same parameter fails
// with ErrInvalidParameter.
func (g *RuleGrammar) writePlaceholder(sb *strings.Builder, p *Placeholder) error {
	sb.WriteString(g.rule.Opener)
	if param := p.Parameter(); param != nil {
		var name string
		switch g.rule.Index {
		case tokenizer.IndexNumeric:
			name = strconv.Itoa(param.ParameterIndex())
		case tokenizer.IndexOneBased:
			name = strconv.Itoa(param.ParameterIndex() + 1)
		default:
			name = param.Unescaped()
		}
		if !g.rule.AcceptsParameter(name) {
			return fmt.Errorf("%s: parameter '%s' cannot be written as '%s': %w",
				g.rule.Name, param.Unescaped(), name, ErrInvalidParameter)
		}
		sb.WriteString(name)
	}
	if a := p.Alignment(); a != nil && g.rule.Alignment {
		sb.WriteByte(tokenizer.AlignmentSeparator)
		sb.WriteString(a.Unescaped())
	}
	if f := p.Formatting(); f != nil && g.rule.Formatting {
		sb.WriteByte(tokenizer.FormattingSeparator)
		sb.WriteString(f.Unescaped())
	}
	sb.WriteString(g.rule.Closer)
	return nil
}

// parseIndex parses a run of ASCII digits.
func parseIndex(s string) (int, bool) {
	if s == "" {
		return 0, false
	}
	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return 0, false
		}
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, false
	}
	return n, true
}
