package tokenizer

const (
	AlignmentSeparator  = ','
	FormattingSeparator = ':'
)

// Placeholder assembles opener, parameter, alignment, formatting and closer
// matchers into one placeholder matcher. Opener and Parameter are required,
// the rest are optional. A failed attempt consumes nothing.
type Placeholder struct {
	Opener     Matcher
	Parameter  Matcher
	Alignment  Matcher
	Formatting Matcher
	Closer     Matcher

	// Accept may veto a parameter after it has been matched.
	Accept func(parameter string) bool
}

// TryTake implements Matcher.
func (p *Placeholder) TryTake(input string, pos int) (*Token, bool) {
	opener, ok := p.Opener.TryTake(input, pos)
	if !ok {
		return nil, false
	}
	i := opener.Span.End

	parameter, ok := p.Parameter.TryTake(input, i)
	if !ok {
		return nil, false
	}
	if p.Accept != nil && !p.Accept(parameter.Text) {
		return nil, false
	}
	i = parameter.Span.End

	var alignment, formatting *Token
	if p.Alignment != nil && i < len(input) && input[i] == AlignmentSeparator {
		if alignment, ok = p.Alignment.TryTake(input, i+1); !ok {
			return nil, false
		}
		i = alignment.Span.End
	}
	if p.Formatting != nil && i < len(input) && input[i] == FormattingSeparator {
		if formatting, ok = p.Formatting.TryTake(input, i+1); !ok {
			return nil, false
		}
		i = formatting.Span.End
	}

	if p.Closer != nil {
		closer, ok := p.Closer.TryTake(input, i)
		if !ok {
			return nil, false
		}
		i = closer.Span.End
	}

	return NewPlaceholderToken(input[pos:i], Span{pos, i}, parameter, alignment, formatting), true
}
