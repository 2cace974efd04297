package template

import (
	"strconv"
	"strings"
)

// Part is one piece of a Breakdown. The concrete types are *Text,
// *Placeholder, *Parameter, *Alignment, *Formatting and *Malformed; the set
// is closed.
type Part interface {
	// Escaped is the slice as it appears in the template text.
	Escaped() string
	// Unescaped is the value with the grammar's escapes removed.
	Unescaped() string
	// Index is the position in Breakdown.Parts, or -1 for parts inside a placeholder.
	Index() int
	// Offset is the byte offset in Breakdown.Text, or -1 when unknown.
	Offset() int
	// Breakdown is the breakdown the part belongs to.
	Breakdown() *Breakdown

	clone() Part
	attach(owner *Breakdown, index, offset int)
}

type part struct {
	escaped   string
	unescaped string
	index     int
	offset    int
	owner     *Breakdown
}

func newPart(escaped, unescaped string) part {
	return part{escaped: escaped, unescaped: unescaped, index: -1, offset: -1}
}

func (p *part) Escaped() string       { return p.escaped }
func (p *part) Unescaped() string     { return p.unescaped }
func (p *part) Index() int            { return p.index }
func (p *part) Offset() int           { return p.offset }
func (p *part) Breakdown() *Breakdown { return p.owner }

func (p *part) attach(owner *Breakdown, index, offset int) {
	p.owner, p.index, p.offset = owner, index, offset
}

func (p part) detached() part {
	return newPart(p.escaped, p.unescaped)
}

// Text is literal content.
type Text struct{ part }

// NewText creates a text part.
func NewText(escaped, unescaped string) *Text {
	return &Text{newPart(escaped, unescaped)}
}

func (t *Text) clone() Part { return &Text{t.part.detached()} }

// Malformed is a run of input the grammar could not classify.
type Malformed struct{ part }

// NewMalformed creates a malformed part. Its escaped and unescaped forms are the same.
func NewMalformed(text string) *Malformed {
	return &Malformed{newPart(text, text)}
}

func (m *Malformed) clone() Part { return &Malformed{m.part.detached()} }

// Parameter names an argument and carries the index it is read from.
type Parameter struct {
	part
	parameterIndex int
}

// NewParameter creates a parameter part.
func NewParameter(escaped, unescaped string, parameterIndex int) *Parameter {
	return &Parameter{part: newPart(escaped, unescaped), parameterIndex: parameterIndex}
}

// ParameterIndex is the position of the argument this parameter reads.
func (p *Parameter) ParameterIndex() int { return p.parameterIndex }

func (p *Parameter) clone() Part {
	return &Parameter{part: p.part.detached(), parameterIndex: p.parameterIndex}
}

// Alignment is the signed width of a placeholder. Positive values pad on
// the left, negative values pad on the right.
type Alignment struct{ part }

// NewAlignment creates an alignment part from its integer text.
func NewAlignment(text string) *Alignment {
	return &Alignment{newPart(text, text)}
}

// MaxAlignment bounds the width a placeholder is padded to.
const MaxAlignment = 1 << 16

// Value parses the alignment, clamped to ±MaxAlignment. Unparsable text
// counts as zero.
func (a *Alignment) Value() int {
	v, err := strconv.Atoi(strings.TrimPrefix(a.unescaped, "+"))
	if err != nil {
		return 0
	}
	return min(max(v, -MaxAlignment), MaxAlignment)
}

func (a *Alignment) clone() Part { return &Alignment{a.part.detached()} }

// Formatting is an opaque format specifier passed to the value formatter.
type Formatting struct{ part }

// NewFormatting creates a formatting part.
func NewFormatting(escaped, unescaped string) *Formatting {
	return &Formatting{newPart(escaped, unescaped)}
}

func (f *Formatting) clone() Part { return &Formatting{f.part.detached()} }

// Placeholder is a substitution site. Its escaped and unescaped forms span
// the whole placeholder including delimiters.
type Placeholder struct {
	part
	parameter  *Parameter
	alignment  *Alignment
	formatting *Formatting
}

// NewPlaceholder creates a placeholder. Alignment and formatting may be nil.
func NewPlaceholder(escaped, unescaped string, parameter *Parameter, alignment *Alignment, formatting *Formatting) *Placeholder {
	return &Placeholder{
		part:       newPart(escaped, unescaped),
		parameter:  parameter,
		alignment:  alignment,
		formatting: formatting,
	}
}

func (p *Placeholder) Parameter() *Parameter   { return p.parameter }
func (p *Placeholder) Alignment() *Alignment   { return p.alignment }
func (p *Placeholder) Formatting() *Formatting { return p.formatting }

func (p *Placeholder) clone() Part {
	c := &Placeholder{part: p.part.detached()}
	if p.parameter != nil {
		c.parameter = p.parameter.clone().(*Parameter)
	}
	if p.alignment != nil {
		c.alignment = p.alignment.clone().(*Alignment)
	}
	if p.formatting != nil {
		c.formatting = p.formatting.clone().(*Formatting)
	}
	return c
}

func (p *Placeholder) attach(owner *Breakdown, index, offset int) {
	p.part.attach(owner, index, offset)
	if p.parameter != nil {
		p.parameter.attach(owner, -1, -1)
	}
	if p.alignment != nil {
		p.alignment.attach(owner, -1, -1)
	}
	if p.formatting != nil {
		p.formatting.attach(owner, -1, -1)
	}
}

// withText returns a copy of the placeholder with new source text.
func (p *Placeholder) withText(escaped, unescaped string) *Placeholder {
	c := p.clone().(*Placeholder)
	c.escaped, c.unescaped = escaped, unescaped
	return c
}
