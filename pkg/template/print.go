package template

import (
	"fmt"
	"io"
	"sync"
	"unicode/utf8"
)

// lookup returns the argument for a parameter, or nil when there is none.
type lookup func(p *Parameter) any

func positional(args []any) lookup {
	return func(p *Parameter) any {
		if i := p.ParameterIndex(); i >= 0 && i < len(args) {
			return args[i]
		}
		return nil
	}
}

func named(args map[string]any) lookup {
	return func(p *Parameter) any {
		return args[p.Unescaped()]
	}
}

// Scratch buffers are pooled; large ones are dropped so the pool does not
// pin memory.
const maxPooledBuffer = 64 << 10

var bufferPool = sync.Pool{
	New: func() any {
		buf := make([]byte, 0, 256)
		return &buf
	},
}

func getBuffer() *[]byte {
	buf := bufferPool.Get().(*[]byte)
	*buf = (*buf)[:0]
	return buf
}

func putBuffer(buf *[]byte) {
	if cap(*buf) > maxPooledBuffer {
		return
	}
	bufferPool.Put(buf)
}

// Print renders the template with positional arguments.
func (b *Breakdown) Print(l *Locale, args ...any) string {
	return b.print(l, positional(args))
}

// PrintMap renders the template with arguments looked up by parameter name.
func (b *Breakdown) PrintMap(l *Locale, args map[string]any) string {
	return b.print(l, named(args))
}

func (b *Breakdown) print(l *Locale, arg lookup) string {
	buf := getBuffer()
	*buf = b.appendParts(*buf, l, arg)
	s := string(*buf)
	putBuffer(buf)
	return s
}

// AppendTo appends the rendered template to dst and returns the extended buffer.
func (b *Breakdown) AppendTo(dst []byte, l *Locale, args ...any) []byte {
	return b.appendParts(dst, l, positional(args))
}

// PrintTo renders into dst without growing it. When the output does not
// fit it returns ErrBufferTooSmall and leaves dst untouched.
func (b *Breakdown) PrintTo(dst []byte, l *Locale, args ...any) (int, error) {
	buf := getBuffer()
	defer putBuffer(buf)
	*buf = b.appendParts(*buf, l, positional(args))
	if len(*buf) > len(dst) {
		return 0, fmt.Errorf("need %d bytes, have %d: %w", len(*buf), len(dst), ErrBufferTooSmall)
	}
	return copy(dst, *buf), nil
}

// Fprint streams the rendered template to w part by part.
func (b *Breakdown) Fprint(w io.Writer, l *Locale, args ...any) (int, error) {
	arg := positional(args)
	buf := getBuffer()
	defer putBuffer(buf)
	total := 0
	for _, part := range b.parts {
		var n int
		var err error
		if ph, ok := part.(*Placeholder); ok {
			*buf = appendPlaceholder((*buf)[:0], ph, l, arg)
			n, err = w.Write(*buf)
		} else {
			n, err = io.WriteString(w, part.Unescaped())
		}
		total += n
		if err != nil {
			return total, err
		}
	}
	return total, nil
}

// EstimateLength returns the length in bytes of the rendered template. It
// formats every argument, so the result is exact.
func (b *Breakdown) EstimateLength(l *Locale, args ...any) (n int, err error) {
	if b == nil {
		return 0, ErrEstimateUnavailable
	}
	defer func() {
		if r := recover(); r != nil {
			n, err = 0, fmt.Errorf("%w: %v", ErrEstimateUnavailable, r)
		}
	}()
	arg := positional(args)
	buf := getBuffer()
	defer putBuffer(buf)
	for _, part := range b.parts {
		if ph, ok := part.(*Placeholder); ok {
			*buf = appendPlaceholder((*buf)[:0], ph, l, arg)
			n += len(*buf)
		} else {
			n += len(part.Unescaped())
		}
	}
	return n, nil
}

// MustEstimateLength is EstimateLength for callers that need a length up
// front. It panics when no estimate is available.
func (b *Breakdown) MustEstimateLength(l *Locale, args ...any) int {
	n, err := b.EstimateLength(l, args...)
	if err != nil {
		panic(err)
	}
	return n
}

// AppendFormat implements Appender, so a template can be an argument of
// another template. It renders without arguments.
func (b *Breakdown) AppendFormat(dst []byte, _ string, l *Locale) []byte {
	return b.appendParts(dst, l, positional(nil))
}

func (b *Breakdown) appendParts(dst []byte, l *Locale, arg lookup) []byte {
	for _, part := range b.parts {
		switch p := part.(type) {
		case *Placeholder:
			dst = appendPlaceholder(dst, p, l, arg)
		case *Text, *Malformed:
			dst = append(dst, p.Unescaped()...)
		}
	}
	return dst
}

// appendPlaceholder formats the argument of a placeholder and pads it to
// the alignment width. Width is counted in runes.
func appendPlaceholder(dst []byte, p *Placeholder, l *Locale, arg lookup) []byte {
	var value any
	if param := p.Parameter(); param != nil {
		value = arg(param)
	}
	format := ""
	if f := p.Formatting(); f != nil {
		format = f.Unescaped()
	}
	alignment := 0
	if a := p.Alignment(); a != nil {
		alignment = a.Value()
	}

	start := len(dst)
	dst = appendValue(dst, value, format, l)
	if alignment == 0 {
		return dst
	}
	padding := alignment
	if padding < 0 {
		padding = -padding
	}
	pad := padding - utf8.RuneCount(dst[start:])
	if pad <= 0 {
		return dst
	}

	end := len(dst)
	for i := 0; i < pad; i++ {
		dst = append(dst, ' ')
	}
	if alignment > 0 {
		copy(dst[start+pad:], dst[start:end])
		for i := start; i < start+pad; i++ {
			dst[i] = ' '
		}
	}
	return dst
}
