package template

import (
	"fmt"
	"regexp"
	"strings"
)

// extractor is the compiled pattern of a breakdown. The i-th placeholder is
// capture group i+1.
type extractor struct {
	pattern string
	re      *regexp.Regexp
	err     error
}

// PatternString returns the regular expression matching printed output of
// the template. Literal parts are quoted and each placeholder is a named
// group. Group names are deterministic, so the same breakdown always
// yields the same pattern.
func (b *Breakdown) PatternString() string {
	var sb strings.Builder
	sb.WriteString(`(?s)^`)
	groups := make(map[string]string)
	used := make(map[string]bool)
	for _, part := range b.parts {
		switch p := part.(type) {
		case *Placeholder:
			name := ""
			if p.Parameter() != nil {
				name = p.Parameter().Unescaped()
			}
			group, ok := groups[name]
			if !ok {
				group = groupName(name, used)
				used[group] = true
				groups[name] = group
			}
			sb.WriteString(`(?P<`)
			sb.WriteString(group)
			sb.WriteString(`>.*)`)
		default:
			sb.WriteString(regexp.QuoteMeta(part.Unescaped()))
		}
	}
	sb.WriteString(`$`)
	return sb.String()
}

// groupName keeps the ASCII letters and digits of a parameter name, then
// appends underscores until the name is unused.
func groupName(name string, used map[string]bool) string {
	var sb strings.Builder
	for i := 0; i < len(name); i++ {
		c := name[i]
		if c >= '0' && c <= '9' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' {
			sb.WriteByte(c)
		}
	}
	group := sb.String()
	switch group {
	case "":
		group = "_"
	case "0":
		group = "_0"
	}
	for used[group] {
		group += "_"
	}
	return group
}

// Pattern returns the compiled extraction pattern. It is compiled on first
// use; concurrent first calls may compile it more than once but all
// observe the same result.
func (b *Breakdown) Pattern() (*regexp.Regexp, error) {
	e := b.compiled()
	return e.re, e.err
}

func (b *Breakdown) compiled() *extractor {
	if e := b.extractor.Load(); e != nil {
		return e
	}
	e := &extractor{pattern: b.PatternString()}
	e.re, e.err = regexp.Compile(e.pattern)
	if e.err != nil {
		e.err = fmt.Errorf("compile extraction pattern: %w", e.err)
	}
	if !b.extractor.CompareAndSwap(nil, e) {
		return b.extractor.Load()
	}
	return e
}

// ExtractArguments recovers the arguments that printed text. The result
// is indexed like the arguments of Print; indices no placeholder uses are
// "". When a parameter appears more than once its first capture is used.
func (b *Breakdown) ExtractArguments(text string) ([]string, error) {
	matches, highest, err := b.match(text)
	if err != nil {
		return nil, err
	}
	out := make([]string, highest+1)
	b.fill(out, text, matches)
	return out, nil
}

// ExtractArgumentsTo is ExtractArguments into a caller supplied slice. It
// returns the number of arguments, or ErrBufferTooSmall without writing
// anything when an index does not fit.
func (b *Breakdown) ExtractArgumentsTo(text string, dst []string) (int, error) {
	matches, highest, err := b.match(text)
	if err != nil {
		return 0, err
	}
	if highest >= len(dst) {
		return 0, fmt.Errorf("need %d arguments, have %d: %w", highest+1, len(dst), ErrBufferTooSmall)
	}
	clear(dst[:highest+1])
	b.fill(dst, text, matches)
	return highest + 1, nil
}

// match runs the pattern and checks every parameter index.
func (b *Breakdown) match(text string) ([]int, int, error) {
	e := b.compiled()
	if e.err != nil {
		return nil, 0, e.err
	}
	matches := e.re.FindStringSubmatchIndex(text)
	if matches == nil {
		return nil, 0, ErrNoMatch
	}
	limit := len(b.parameterNames) + 8
	highest := -1
	for _, ph := range b.placeholders {
		if ph.Parameter() == nil {
			continue
		}
		i := ph.Parameter().ParameterIndex()
		if i < 0 || i > limit {
			return nil, 0, fmt.Errorf("parameter '%s' has index %d: %w", ph.Parameter().Unescaped(), i, ErrIndexOutOfRange)
		}
		highest = max(highest, i)
	}
	return matches, highest, nil
}

func (b *Breakdown) fill(dst []string, text string, matches []int) {
	filled := make(map[int]bool, len(b.placeholders))
	for n, ph := range b.placeholders {
		if ph.Parameter() == nil {
			continue
		}
		i := ph.Parameter().ParameterIndex()
		if filled[i] {
			continue
		}
		start, end := matches[2*(n+1)], matches[2*(n+1)+1]
		if start >= 0 {
			dst[i] = text[start:end]
		}
		filled[i] = true
	}
}
