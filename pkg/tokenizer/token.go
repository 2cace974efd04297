package tokenizer

import (
	"encoding/json"
	"strings"
	"unicode/utf8"
)

// TokenType represents the different types of tokens.
type TokenType string

const (
	TextToken        TokenType = "t" // Literal text, possibly containing escapes
	PlaceholderToken TokenType = "p" // A whole placeholder including delimiters
	ParameterToken   TokenType = "n" // Parameter name or index inside a placeholder
	AlignmentToken   TokenType = "a" // Signed alignment inside a placeholder
	FormattingToken  TokenType = "f" // Format specifier inside a placeholder
	MalformedToken   TokenType = "x" // Input no other matcher accepted
	ConstantToken    TokenType = "k" // Fixed literal such as an opener or closer
)

// Position represents a line and column position in the source text.
type Position struct {
	Line int `json:"line" yaml:"line"`
	Col  int `json:"col" yaml:"col"`
}

// Span represents the start and end byte offsets of a token.
type Span struct {
	Start int
	End   int
}

// Len returns the number of bytes covered by the span.
func (s Span) Len() int {
	return s.End - s.Start
}

// MarshalJSON implements custom JSON marshaling for Span.
func (s Span) MarshalJSON() ([]byte, error) {
	return json.Marshal([2]int{s.Start, s.End})
}

// UnmarshalJSON implements custom JSON unmarshaling for Span.
func (s *Span) UnmarshalJSON(data []byte) error {
	var arr [2]int
	if err := json.Unmarshal(data, &arr); err != nil {
		return err
	}
	s.Start, s.End = arr[0], arr[1]
	return nil
}

// Token is a contiguous slice of the input plus optional named child slices.
type Token struct {
	Text string    `json:"text"`
	Span Span      `json:"span"`
	Type TokenType `json:"type"`

	// Placeholder token fields
	Parameter  *Token `json:"parameter,omitempty"`
	Alignment  *Token `json:"alignment,omitempty"`
	Formatting *Token `json:"formatting,omitempty"`
}

// NewToken creates a new token with the basic required fields.
func NewToken(text string, tokenType TokenType, span Span) *Token {
	return &Token{
		Text: text,
		Type: tokenType,
		Span: span,
	}
}

// NewPlaceholderToken creates a placeholder token with its sub tokens.
func NewPlaceholderToken(text string, span Span, parameter, alignment, formatting *Token) *Token {
	return &Token{
		Text:       text,
		Type:       PlaceholderToken,
		Span:       span,
		Parameter:  parameter,
		Alignment:  alignment,
		Formatting: formatting,
	}
}

// LineCol returns the 1-based line and column of a byte offset in input.
// Columns count runes, not bytes.
func LineCol(input string, offset int) Position {
	if offset > len(input) {
		offset = len(input)
	}
	if offset < 0 {
		offset = 0
	}
	before := input[:offset]
	line := strings.Count(before, "\n") + 1
	if i := strings.LastIndexByte(before, '\n'); i >= 0 {
		before = before[i+1:]
	}
	return Position{Line: line, Col: utf8.RuneCountInString(before) + 1}
}
