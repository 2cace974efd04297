package template

import (
	"strings"

	"github.com/spicery/nutmeg-template/pkg/tokenizer"
)

// Parameterless treats the whole text as one literal part.
var Parameterless Grammar = parameterless{}

type parameterless struct{}

func (parameterless) Name() string { return tokenizer.ParameterlessName }

func (parameterless) String() string { return tokenizer.ParameterlessName }

func (parameterless) Escaper() Escaper { return NoEscaper }

func (parameterless) NumberAssignedOrder() bool { return false }

func (p parameterless) Parse(text string) (*Breakdown, error) {
	return NewBuilder(p).SetText(text).Add(NewText(text, text)).Build(), nil
}

func (p parameterless) Assemble(b *Breakdown) (string, error) {
	if b.Grammar() == Grammar(p) && b.HasText() {
		return b.Text(), nil
	}
	var sb strings.Builder
	for _, part := range b.Parts() {
		sb.WriteString(part.Unescaped())
	}
	return sb.String(), nil
}

// Literal returns a breakdown of text with no placeholders.
func Literal(text string) *Breakdown {
	b, _ := Parameterless.Parse(text)
	return b
}
