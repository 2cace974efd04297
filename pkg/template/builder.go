package template

// Builder assembles a Breakdown. It is not safe for concurrent use.
type Builder struct {
	text    string
	hasText bool
	grammar Grammar
	parts   []Part
}

// NewBuilder creates a builder for a breakdown of the given grammar.
func NewBuilder(g Grammar) *Builder {
	return &Builder{grammar: g}
}

// SetText sets the template text.
func (b *Builder) SetText(text string) *Builder {
	b.text, b.hasText = text, true
	return b
}

// Add appends parts.
func (b *Builder) Add(parts ...Part) *Builder {
	b.parts = append(b.parts, parts...)
	return b
}

// Build returns the frozen breakdown. The parts are copied, so the builder
// may be reused. Part offsets are the running sum of escaped lengths, or -1
// when there is no text.
func (b *Builder) Build() *Breakdown {
	out := &Breakdown{
		text:    b.text,
		hasText: b.hasText,
		grammar: b.grammar,
		parts:   make([]Part, len(b.parts)),
	}
	offset := 0
	for i, p := range b.parts {
		c := p.clone()
		at := offset
		if !b.hasText {
			at = -1
		}
		c.attach(out, i, at)
		offset += len(c.Escaped())
		out.parts[i] = c
		if ph, ok := c.(*Placeholder); ok {
			out.placeholders = append(out.placeholders, ph)
		}
	}
	out.parameters, out.parameterNames = reconcile(out.placeholders, true)
	return out
}

// draft wraps parts in an unfrozen breakdown for assembly. The parts are
// not attached.
func draft(g Grammar, parts []Part) *Breakdown {
	d := &Breakdown{grammar: g, parts: parts}
	for _, p := range parts {
		if ph, ok := p.(*Placeholder); ok {
			d.placeholders = append(d.placeholders, ph)
		}
	}
	d.parameters, d.parameterNames = reconcile(d.placeholders, false)
	return d
}
