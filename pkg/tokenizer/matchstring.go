package tokenizer

import (
	"strings"
	"unicode"
	"unicode/utf8"
)

// Matcher takes one unit from the front of the remaining input. It reads
// input from pos onwards only, and the consumed length is len(token.Text).
type Matcher interface {
	TryTake(input string, pos int) (*Token, bool)
}

// MatcherFunc adapts a function to the Matcher interface.
type MatcherFunc func(input string, pos int) (*Token, bool)

// TryTake calls f.
func (f MatcherFunc) TryTake(input string, pos int) (*Token, bool) {
	return f(input, pos)
}

// CharClass reports whether a rune belongs to a class of characters.
type CharClass func(r rune) bool

// Numeric accepts ASCII digits.
func Numeric(r rune) bool {
	return r >= '0' && r <= '9'
}

// AlphaNumeric accepts letters, digits and underscore.
func AlphaNumeric(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}

// Except accepts every rune other than the given ones.
func Except(stop ...rune) CharClass {
	return func(r rune) bool {
		for _, s := range stop {
			if r == s {
				return false
			}
		}
		return true
	}
}

// Constant matches a fixed literal.
func Constant(lit string) Matcher {
	return MatcherFunc(func(input string, pos int) (*Token, bool) {
		if lit == "" || !strings.HasPrefix(input[pos:], lit) {
			return nil, false
		}
		end := pos + len(lit)
		return NewToken(input[pos:end], ConstantToken, Span{pos, end}), true
	})
}

// Chars matches one or more runes of a class.
func Chars(class CharClass, tokenType TokenType) Matcher {
	return MatcherFunc(func(input string, pos int) (*Token, bool) {
		end := takeWhile(input, pos, class)
		if end == pos {
			return nil, false
		}
		return NewToken(input[pos:end], tokenType, Span{pos, end}), true
	})
}

// Until matches one or more runes up to, but excluding, any stop rune.
func Until(tokenType TokenType, stop ...rune) Matcher {
	return Chars(Except(stop...), tokenType)
}

// Integer matches an optionally signed run of digits.
func Integer(tokenType TokenType) Matcher {
	return MatcherFunc(func(input string, pos int) (*Token, bool) {
		i := pos
		if i < len(input) && (input[i] == '-' || input[i] == '+') {
			i++
		}
		end := takeWhile(input, i, Numeric)
		if end == i {
			return nil, false
		}
		return NewToken(input[pos:end], tokenType, Span{pos, end}), true
	})
}

// Escaped matches literal text that contains none of the delimiters except
// where a delimiter is doubled, which is taken as an escape. It stops in
// front of a lone delimiter.
func Escaped(delims ...rune) Matcher {
	isDelim := func(r rune) bool {
		for _, d := range delims {
			if r == d {
				return true
			}
		}
		return false
	}
	return MatcherFunc(func(input string, pos int) (*Token, bool) {
		i := pos
		for i < len(input) {
			r, size := utf8.DecodeRuneInString(input[i:])
			if !isDelim(r) {
				i += size
				continue
			}
			next, nextSize := utf8.DecodeRuneInString(input[i+size:])
			if nextSize == 0 || next != r {
				break
			}
			i += size + nextSize
		}
		if i == pos {
			return nil, false
		}
		return NewToken(input[pos:i], TextToken, Span{pos, i}), true
	})
}

// Malformed takes exactly one rune.
func Malformed() Matcher {
	return MatcherFunc(func(input string, pos int) (*Token, bool) {
		if pos >= len(input) {
			return nil, false
		}
		_, size := utf8.DecodeRuneInString(input[pos:])
		return NewToken(input[pos:pos+size], MalformedToken, Span{pos, pos + size}), true
	})
}

// takeWhile returns the offset of the first rune at or after pos outside class.
func takeWhile(input string, pos int, class CharClass) int {
	i := pos
	for i < len(input) {
		r, size := utf8.DecodeRuneInString(input[i:])
		if !class(r) {
			break
		}
		i += size
	}
	return i
}
