package template

import (
	"bytes"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/text/language"
)

type angled struct{}

func (angled) AppendFormat(dst []byte, format string, _ *Locale) []byte {
	dst = append(dst, '<')
	dst = append(dst, format...)
	return append(dst, '>')
}

type tagged struct{}

func (tagged) FormatLocale(format string, l *Locale) string {
	return l.String() + ":" + format
}

type exploding struct{}

func (exploding) AppendFormat([]byte, string, *Locale) []byte {
	panic("cannot format")
}

type failingWriter struct{ after int }

func (w *failingWriter) Write(p []byte) (int, error) {
	if w.after <= 0 {
		return 0, errors.New("disk full")
	}
	w.after--
	return len(p), nil
}

func TestPrint(t *testing.T) {
	tests := []struct {
		name     string
		grammar  Grammar
		text     string
		args     []any
		expected string
	}{
		{"named", BraceAuto, "Welcome, {user}!", []any{"Ada"}, "Welcome, Ada!"},
		{"numbered", BraceAuto, "{1} before {0}", []any{"a", "b"}, "b before a"},
		{"missing argument", BraceAuto, "{0}-{1}", []any{"a"}, "a-"},
		{"nil argument", BraceAuto, "[{0}]", []any{nil}, "[]"},
		{"escapes", BraceAuto, "{{{0}}}", []any{7}, "{7}"},
		{"percent", Percent, "%2 of %1 is 100%%", []any{"x", "y"}, "y of x is 100%"},
		{"dash", Dash, "#who# likes #what#", []any{"Ada", "tea"}, "Ada likes tea"},
		{"repeated", BraceAuto, "{a}{b}{a}", []any{1, 2}, "121"},
		{"malformed kept", BraceAuto, "{0} {", []any{"x"}, "x {"},
		{"parameterless", Parameterless, "{0}", []any{"x"}, "{0}"},
		{"left pad", BraceAuto, "[{0,10}]", []any{"abc"}, "[       abc]"},
		{"right pad", BraceAuto, "[{0,-10}]", []any{"abc"}, "[abc       ]"},
		{"too wide", BraceAuto, "[{0,2}]", []any{"abcdef"}, "[abcdef]"},
		{"pad counts runes", BraceAuto, "[{0,4}]", []any{"é"}, "[   é]"},
		{"pad and format", BraceAuto, "[{0,6:X2}]", []any{10}, "[    0A]"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, tt.grammar, tt.text)
			assert.Equal(t, tt.expected, b.Print(nil, tt.args...))
		})
	}
}

func TestFormatSpecifiers(t *testing.T) {
	date := time.Date(2024, time.March, 1, 14, 30, 0, 0, time.UTC)
	tests := []struct {
		name     string
		value    any
		format   string
		expected string
	}{
		{"hex", 256, "X4", "0100"},
		{"lower hex", 255, "x", "ff"},
		{"hex of negative", int8(-1), "X", "FF"},
		{"decimal", 42, "D5", "00042"},
		{"negative decimal", -7, "D3", "-007"},
		{"decimal of float", 1.5, "D3", "1.5"},
		{"grouped", 1234567, "N0", "1,234,567"},
		{"fixed", 1234.5, "F1", "1234.5"},
		{"scientific", 1234.5, "E2", "1.23E+03"},
		{"general", 0.5, "G", "0.5"},
		{"printf verb", 3.14159, "%05.1f", "003.1"},
		{"time layout", date, "2006-01-02 15:04", "2024-03-01 14:30"},
		{"not a number", "text", "X4", "text"},
		{"unknown letter", 42, "Q", "42"},
		{"bad precision", 42, "Nx", "42"},
		{"bool", true, "", "true"},
		{"float", 1.5, "", "1.5"},
		{"error", errors.New("boom"), "", "boom"},
		{"appender", angled{}, "abc", "<abc>"},
		{"locale formatter", tagged{}, "N", "invariant:N"},
		{"template argument", Literal("inner"), "", "inner"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			text := "{0}"
			if tt.format != "" {
				text = "{0:" + tt.format + "}"
			}
			b := mustParse(t, BraceNumeric, text)
			assert.Equal(t, tt.expected, b.Print(nil, tt.value))
		})
	}
}

func TestLocaleFormatting(t *testing.T) {
	german := NewLocale(language.German)
	english := NewLocale(language.English)

	b := mustParse(t, BraceNumeric, "{0:N2}")
	assert.Equal(t, "1.234,50", b.Print(german, 1234.5))
	assert.Equal(t, "1,234.50", b.Print(english, 1234.5))

	plain := mustParse(t, BraceNumeric, "{0}")
	assert.Equal(t, "1234.5", plain.Print(german, 1234.5))

	verb := mustParse(t, BraceNumeric, "{0:%v}")
	assert.Equal(t, "1,500", verb.Print(english, 1500))

	formatter := mustParse(t, BraceNumeric, "{0:x}")
	assert.Equal(t, "de:x", formatter.Print(german, tagged{}))

	l, err := ParseLocale("de-CH")
	require.NoError(t, err)
	assert.Equal(t, "de-CH", l.String())
	_, err = ParseLocale("not a locale!")
	assert.Error(t, err)

	var invariant *Locale
	assert.Equal(t, language.Und, invariant.Tag())
	assert.Equal(t, "invariant", invariant.String())
}

func TestPrintMap(t *testing.T) {
	b := mustParse(t, BraceAuto, "{name} is {age,3} and {missing} here")
	got := b.PrintMap(nil, map[string]any{"name": "Ada", "age": 36})
	assert.Equal(t, "Ada is  36 and  here", got)
}

func TestSinksAgree(t *testing.T) {
	b := mustParse(t, BraceAuto, "{0,-6}|{1:D3}|{2}")
	args := []any{"left", 7, "é"}
	expected := "left  |007|é"

	assert.Equal(t, expected, b.Print(nil, args...))
	assert.Equal(t, "> "+expected, string(b.AppendTo([]byte("> "), nil, args...)))

	dst := make([]byte, 32)
	n, err := b.PrintTo(dst, nil, args...)
	require.NoError(t, err)
	assert.Equal(t, expected, string(dst[:n]))

	var out bytes.Buffer
	n, err = b.Fprint(&out, nil, args...)
	require.NoError(t, err)
	assert.Equal(t, expected, out.String())
	assert.Equal(t, len(expected), n)

	size, err := b.EstimateLength(nil, args...)
	require.NoError(t, err)
	assert.Equal(t, len(expected), size)
	assert.Equal(t, len(expected), b.MustEstimateLength(nil, args...))
}

func TestPrintToBufferTooSmall(t *testing.T) {
	b := mustParse(t, BraceAuto, "Hello, {0}!")
	dst := []byte("xxxx")
	n, err := b.PrintTo(dst, nil, "world")
	assert.ErrorIs(t, err, ErrBufferTooSmall)
	assert.Zero(t, n)
	assert.Equal(t, "xxxx", string(dst))
}

func TestFprintWriteError(t *testing.T) {
	b := mustParse(t, BraceAuto, "a{0}b")
	n, err := b.Fprint(&failingWriter{after: 1}, nil, "x")
	assert.EqualError(t, err, "disk full")
	assert.Equal(t, 1, n)
}

func TestEstimateUnavailable(t *testing.T) {
	b := mustParse(t, BraceAuto, "{0}")
	_, err := b.EstimateLength(nil, exploding{})
	assert.ErrorIs(t, err, ErrEstimateUnavailable)
	assert.Panics(t, func() { b.MustEstimateLength(nil, exploding{}) })

	var missing *Breakdown
	_, err = missing.EstimateLength(nil)
	assert.ErrorIs(t, err, ErrEstimateUnavailable)
}

func TestLargeOutputNotPooled(t *testing.T) {
	big := make([]byte, maxPooledBuffer+1)
	for i := range big {
		big[i] = 'a'
	}
	b := mustParse(t, BraceAuto, "{0}")
	assert.Len(t, b.Print(nil, string(big)), len(big))
	assert.Equal(t, "x", b.Print(nil, "x"))
}

func TestAlignmentClamped(t *testing.T) {
	for _, text := range []string{"{0,1000000000}", "{0,-1000000000}"} {
		b := mustParse(t, BraceNumeric, text)
		out := b.Print(nil, "x")
		assert.Len(t, out, MaxAlignment, text)
		assert.Contains(t, out, "x")

		n, err := b.EstimateLength(nil, "x")
		require.NoError(t, err)
		assert.Equal(t, MaxAlignment, n)
	}

	assert.Equal(t, -MaxAlignment, NewAlignment("-1000000000").Value())
	assert.Equal(t, 12, NewAlignment("+12").Value())
	assert.Zero(t, NewAlignment("99999999999999999999").Value())
}
