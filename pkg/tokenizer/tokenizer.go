package tokenizer

import (
	"errors"
	"fmt"
)

// ErrNoMatch is returned when no matcher accepts the remaining input.
var ErrNoMatch = errors.New("no matcher accepts input")

// Rules is the set of matchers tried at each position, in order.
type Rules struct {
	Placeholder Matcher
	Text        Matcher
	Malformed   Matcher
}

// Tokenizer represents the main tokenizer structure.
type Tokenizer struct {
	input    string
	position int
	tokens   []*Token
	rules    *Rules
}

// NewTokenizer creates a new tokenizer instance with default rules.
func NewTokenizer(input string) *Tokenizer {
	return NewTokenizerWithRules(input, DefaultRules())
}

// NewTokenizerWithRules creates a new tokenizer instance with custom rules.
func NewTokenizerWithRules(input string, rules *Rules) *Tokenizer {
	return &Tokenizer{
		input:  input,
		tokens: make([]*Token, 0),
		rules:  rules,
	}
}

// Tokenize splits the whole input into placeholder, text and malformed
// tokens. The tokens read so far are returned alongside any error.
func (t *Tokenizer) Tokenize() ([]*Token, error) {
	for t.hasMoreInput() {
		if err := t.nextToken(); err != nil {
			return t.tokens, err
		}
	}
	return t.tokens, nil
}

func (t *Tokenizer) nextToken() error {
	if token, ok := t.try(t.rules.Placeholder); ok {
		t.addToken(token)
		return nil
	}
	if token, ok := t.try(t.rules.Text); ok {
		t.addToken(token)
		return nil
	}
	if token, ok := t.try(t.rules.Malformed); ok {
		t.addToken(token)
		return nil
	}
	pos := LineCol(t.input, t.position)
	return fmt.Errorf("tokenisation error at line %d, column %d: %w", pos.Line, pos.Col, ErrNoMatch)
}

func (t *Tokenizer) try(m Matcher) (*Token, bool) {
	if m == nil {
		return nil, false
	}
	token, ok := m.TryTake(t.input, t.position)
	if !ok || token.Span.End <= t.position {
		return nil, false
	}
	return token, true
}

// addToken appends a token and advances past it. A malformed token directly
// after another malformed token extends it instead.
func (t *Tokenizer) addToken(token *Token) {
	t.position = token.Span.End
	if token.Type == MalformedToken && len(t.tokens) > 0 {
		last := t.tokens[len(t.tokens)-1]
		if last.Type == MalformedToken && last.Span.End == token.Span.Start {
			last.Span.End = token.Span.End
			last.Text = t.input[last.Span.Start:last.Span.End]
			return
		}
	}
	t.tokens = append(t.tokens, token)
}

func (t *Tokenizer) hasMoreInput() bool {
	return t.position < len(t.input)
}
