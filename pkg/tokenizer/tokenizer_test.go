package tokenizer

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func typesOf(tokens []*Token) []TokenType {
	types := make([]TokenType, len(tokens))
	for i, token := range tokens {
		types[i] = token.Type
	}
	return types
}

func textsOf(tokens []*Token) []string {
	texts := make([]string, len(tokens))
	for i, token := range tokens {
		texts[i] = token.Text
	}
	return texts
}

func TestBasicTokenisation(t *testing.T) {
	tests := []struct {
		name     string
		input    string
		expected []string
	}{
		{"Empty input", "", []string{}},
		{"Plain text", "hello world", []string{"hello world"}},
		{"Single placeholder", "{0}", []string{"{0}"}},
		{"Named placeholder", "Welcome, {user}!", []string{"Welcome, ", "{user}", "!"}},
		{"Escaped braces", "{{literal}} {x}", []string{"{{literal}} ", "{x}"}},
		{"Alignment and formatting", "[{0,-10:X4}]", []string{"[", "{0,-10:X4}", "]"}},
		{"Unclosed placeholder", "a {b", []string{"a ", "{", "b"}},
		{"Malformed run merges", "{}{}", []string{"{}{}"}},
		{"Lone closer", "a } b", []string{"a ", "}", " b"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tokenizer := NewTokenizer(tt.input)
			tokens, err := tokenizer.Tokenize()
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.expected, textsOf(tokens)); diff != "" {
				t.Errorf("token texts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestPlaceholderChildren(t *testing.T) {
	tokens, err := NewTokenizer("x{name,5:0.00}y").Tokenize()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(tokens) != 3 {
		t.Fatalf("Expected 3 tokens, got %d", len(tokens))
	}
	p := tokens[1]
	if p.Type != PlaceholderToken {
		t.Fatalf("Expected placeholder token, got %s", p.Type)
	}
	if p.Parameter == nil || p.Parameter.Text != "name" {
		t.Errorf("Expected parameter 'name', got %+v", p.Parameter)
	}
	if p.Alignment == nil || p.Alignment.Text != "5" {
		t.Errorf("Expected alignment '5', got %+v", p.Alignment)
	}
	if p.Formatting == nil || p.Formatting.Text != "0.00" {
		t.Errorf("Expected formatting '0.00', got %+v", p.Formatting)
	}
	if p.Span != (Span{1, 14}) {
		t.Errorf("Expected span [1,14], got %v", p.Span)
	}
}

func TestFailedPlaceholderConsumesNothing(t *testing.T) {
	tests := []string{"{0,}", "{0:}", "{0,x}", "{", "{0"}
	p := DefaultRules().Placeholder
	for _, input := range tests {
		t.Run(input, func(t *testing.T) {
			if token, ok := p.TryTake(input, 0); ok {
				t.Errorf("Expected no placeholder, got %q", token.Text)
			}
		})
	}
}

func TestPercentRules(t *testing.T) {
	rules, err := PercentRule().Build()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	tests := []struct {
		input string
		types []TokenType
		texts []string
	}{
		{"%1", []TokenType{PlaceholderToken}, []string{"%1"}},
		{"a %12b", []TokenType{TextToken, PlaceholderToken, TextToken}, []string{"a ", "%12", "b"}},
		{"100%% sure", []TokenType{TextToken}, []string{"100%% sure"}},
		{"%0 here", []TokenType{MalformedToken, TextToken}, []string{"%", "0 here"}},
		{"50%", []TokenType{TextToken, MalformedToken}, []string{"50", "%"}},
	}
	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			tokens, err := NewTokenizerWithRules(tt.input, rules).Tokenize()
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if diff := cmp.Diff(tt.types, typesOf(tokens)); diff != "" {
				t.Errorf("types mismatch (-want +got):\n%s", diff)
			}
			if diff := cmp.Diff(tt.texts, textsOf(tokens)); diff != "" {
				t.Errorf("texts mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDashRules(t *testing.T) {
	rules, err := DashRule().Build()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	tokens, err := NewTokenizerWithRules("Hi #first name,-8:u#!", rules).Tokenize()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"Hi ", "#first name,-8:u#", "!"}, textsOf(tokens)); diff != "" {
		t.Fatalf("texts mismatch (-want +got):\n%s", diff)
	}
	p := tokens[1]
	if p.Parameter.Text != "first name" || p.Alignment.Text != "-8" || p.Formatting.Text != "u" {
		t.Errorf("Unexpected children: %q %q %q", p.Parameter.Text, p.Alignment.Text, p.Formatting.Text)
	}
}

func TestNoMatchError(t *testing.T) {
	rules := &Rules{Text: Chars(Numeric, TextToken)}
	tokens, err := NewTokenizerWithRules("12\nab", rules).Tokenize()
	if !errors.Is(err, ErrNoMatch) {
		t.Fatalf("Expected ErrNoMatch, got %v", err)
	}
	if len(tokens) != 1 || tokens[0].Text != "12" {
		t.Errorf("Expected the tokens read so far, got %v", textsOf(tokens))
	}
	if want := "tokenisation error at line 1, column 3: no matcher accepts input"; err.Error() != want {
		t.Errorf("Expected %q, got %q", want, err.Error())
	}
}

func TestLineCol(t *testing.T) {
	input := "ab\ncdé\nf"
	tests := []struct {
		offset   int
		expected Position
	}{
		{0, Position{1, 1}},
		{2, Position{1, 3}},
		{3, Position{2, 1}},
		{7, Position{2, 4}},
		{8, Position{3, 1}},
	}
	for _, tt := range tests {
		if got := LineCol(input, tt.offset); got != tt.expected {
			t.Errorf("LineCol(%d): expected %+v, got %+v", tt.offset, tt.expected, got)
		}
	}
}

func TestTokenJSON(t *testing.T) {
	tokens, err := NewTokenizer("a{b}").Tokenize()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	data, err := json.Marshal(tokens[1])
	if err != nil {
		t.Fatalf("JSON encoding error: %v", err)
	}
	var decoded Token
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("JSON decoding error: %v", err)
	}
	if decoded.Span != (Span{1, 4}) || decoded.Parameter.Text != "b" {
		t.Errorf("Unexpected decoded token: %+v", decoded)
	}
}

func TestLoadRulesFile(t *testing.T) {
	content := `grammars:
  - name: Dollar
    opener: "${"
    closer: "}"
    parameter: alphanumeric
    formatting: true
    escape: double
    index: occurrence
detect: [Parameterless, Dollar]
`
	filename := filepath.Join(t.TempDir(), "rules.yaml")
	if err := os.WriteFile(filename, []byte(content), 0o644); err != nil {
		t.Fatalf("Failed to write rules file: %v", err)
	}

	rules, err := LoadRulesFile(filename)
	if err != nil {
		t.Fatalf("Failed to load rules: %v", err)
	}
	if len(rules.Grammars) != 1 || rules.Grammars[0].Name != "Dollar" {
		t.Fatalf("Unexpected grammars: %+v", rules.Grammars)
	}
	if diff := cmp.Diff([]string{"Parameterless", "Dollar"}, rules.Detect); diff != "" {
		t.Errorf("detect mismatch (-want +got):\n%s", diff)
	}

	built, err := rules.Grammars[0].Build()
	if err != nil {
		t.Fatalf("Failed to build rules: %v", err)
	}
	tokens, err := NewTokenizerWithRules("cost: ${price:F2}$$", built).Tokenize()
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if diff := cmp.Diff([]string{"cost: ", "${price:F2}", "$$"}, textsOf(tokens)); diff != "" {
		t.Errorf("texts mismatch (-want +got):\n%s", diff)
	}
}

func TestInvalidRules(t *testing.T) {
	tests := []struct {
		name string
		yaml string
	}{
		{"Missing name", "grammars: [{opener: '{', closer: '}', parameter: numeric, escape: double, index: numeric}]"},
		{"Unknown parameter", "grammars: [{name: X, opener: '{', closer: '}', parameter: words, escape: double, index: occurrence}]"},
		{"Numeric index on names", "grammars: [{name: X, opener: '{', closer: '}', parameter: alphanumeric, escape: double, index: numeric}]"},
		{"Formatting without closer", "grammars: [{name: X, opener: '%', parameter: numeric, formatting: true, escape: double, index: numeric}]"},
		{"Duplicate", "grammars: [{name: X, opener: '<', closer: '>', parameter: numeric, escape: none, index: numeric}, {name: x, opener: '[', closer: ']', parameter: numeric, escape: none, index: numeric}]"},
		{"Not YAML", "grammars: ["},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseRules([]byte(tt.yaml)); err == nil {
				t.Errorf("Expected an error")
			}
		})
	}
}

func TestDefaultRulesFileBuilds(t *testing.T) {
	for _, rule := range DefaultRulesFile().Grammars {
		if _, err := rule.Build(); err != nil {
			t.Errorf("Built-in grammar %s does not build: %v", rule.Name, err)
		}
	}
}

func TestAcceptsParameter(t *testing.T) {
	tests := []struct {
		rule     GrammarRule
		name     string
		expected bool
	}{
		{BraceNumericRule(), "12", true},
		{BraceNumericRule(), "x", false},
		{BraceAlphaNumericRule(), "first_name", true},
		{BraceAlphaNumericRule(), "first name", false},
		{BraceAlphaNumericRule(), "", false},
		{PercentRule(), "1", true},
		{PercentRule(), "00", false},
		{DashRule(), "first name", true},
		{DashRule(), "a#b", false},
		{DashRule(), "a,b", false},
	}
	for _, tt := range tests {
		t.Run(tt.rule.Name+" "+tt.name, func(t *testing.T) {
			if got := tt.rule.AcceptsParameter(tt.name); got != tt.expected {
				t.Errorf("Expected AcceptsParameter(%q) = %v, got %v", tt.name, tt.expected, got)
			}
		})
	}
}
