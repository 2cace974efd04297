package template

import (
	"log/slog"
	"sync/atomic"

	"github.com/spicery/nutmeg-template/pkg/tokenizer"
)

// Breakdown is a parsed template. It is immutable once built, so it can be
// shared between goroutines. The slices returned by its accessors must not
// be modified.
type Breakdown struct {
	text    string
	hasText bool
	grammar Grammar
	parts   []Part

	placeholders   []*Placeholder
	parameters     []*Parameter
	parameterNames []string

	extractor atomic.Pointer[extractor]
}

// MalformedInfo locates a malformed part.
type MalformedInfo struct {
	Index    int                `json:"index" yaml:"index"`
	Offset   int                `json:"offset" yaml:"offset"`
	Length   int                `json:"length" yaml:"length"`
	Text     string             `json:"text" yaml:"text"`
	Position tokenizer.Position `json:"position" yaml:"position"`
}

// Text is the template text.
func (b *Breakdown) Text() string { return b.text }

// HasText reports whether the breakdown carries source text.
func (b *Breakdown) HasText() bool { return b.hasText }

// Grammar is the grammar the breakdown was parsed or assembled with.
func (b *Breakdown) Grammar() Grammar { return b.grammar }

// Parts returns the parts in order.
func (b *Breakdown) Parts() []Part { return b.parts }

// Placeholders returns the placeholders in occurrence order.
func (b *Breakdown) Placeholders() []*Placeholder { return b.placeholders }

// Parameters returns the parameters by index. Indices no placeholder uses
// hold nil. When the written indices are implausibly large the parameters
// are renumbered 0, 1, 2... in first occurrence order instead, and print
// and extraction use the new numbers.
func (b *Breakdown) Parameters() []*Parameter { return b.parameters }

// ParameterNames is parallel to Parameters, with "" for holes.
func (b *Breakdown) ParameterNames() []string { return b.parameterNames }

// MalformedParts lists the parts the grammar could not classify.
func (b *Breakdown) MalformedParts() []MalformedInfo {
	var out []MalformedInfo
	for _, p := range b.parts {
		m, ok := p.(*Malformed)
		if !ok {
			continue
		}
		info := MalformedInfo{
			Index:  m.Index(),
			Offset: m.Offset(),
			Length: len(m.Escaped()),
			Text:   m.Escaped(),
		}
		if m.Offset() >= 0 {
			info.Position = tokenizer.LineCol(b.text, m.Offset())
		}
		out = append(out, info)
	}
	return out
}

// Equal reports whether two breakdowns have the same text.
func (b *Breakdown) Equal(other *Breakdown) bool {
	if b == nil || other == nil {
		return b == other
	}
	return b.text == other.text
}

// String returns the template text.
func (b *Breakdown) String() string { return b.text }

// Clone returns a deep copy.
func (b *Breakdown) Clone() *Breakdown {
	builder := NewBuilder(b.grammar)
	if b.hasText {
		builder.SetText(b.text)
	}
	builder.Add(b.parts...)
	return builder.Build()
}

// LogValue implements slog.LogValuer.
func (b *Breakdown) LogValue() slog.Value {
	name := ""
	if b.grammar != nil {
		name = b.grammar.Name()
	}
	return slog.GroupValue(
		slog.String("text", b.text),
		slog.String("grammar", name),
		slog.Any("parameters", b.parameterNames),
	)
}

// reconcile derives the parameter array from the placeholders. Parameters
// are placed by index unless the highest index is negative or more than
// eight beyond the placeholder count, in which case they are listed in
// first occurrence order, one per distinct index. With renumber set the
// fallback also rewrites each parameter's index to its position in that
// list; only the builder may do so, as it owns the parts.
func reconcile(placeholders []*Placeholder, renumber bool) ([]*Parameter, []string) {
	count, highest := 0, -1
	for _, ph := range placeholders {
		if ph.parameter == nil {
			continue
		}
		count++
		if i := ph.parameter.parameterIndex; i > highest {
			highest = i
		}
	}

	var parameters []*Parameter
	if highest+1 < 0 || highest+1 > count+8 {
		Logger().Debug("parameter indices too sparse, using occurrence order",
			slog.Int("highest", highest), slog.Int("count", count))
		parameters = make([]*Parameter, 0, count)
		slots := make(map[int]int, count)
		for _, ph := range placeholders {
			p := ph.parameter
			if p == nil {
				continue
			}
			slot, ok := slots[p.parameterIndex]
			if !ok {
				slot = len(parameters)
				slots[p.parameterIndex] = slot
				parameters = append(parameters, p)
			}
			if renumber {
				p.parameterIndex = slot
			}
		}
	} else {
		parameters = make([]*Parameter, highest+1)
		for _, ph := range placeholders {
			p := ph.parameter
			if p == nil || p.parameterIndex < 0 || parameters[p.parameterIndex] != nil {
				continue
			}
			parameters[p.parameterIndex] = p
		}
	}

	names := make([]string, len(parameters))
	for i, p := range parameters {
		if p != nil {
			names[i] = p.Unescaped()
		}
	}
	return parameters, names
}
