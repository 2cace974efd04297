package template

import (
	"regexp"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPatternString(t *testing.T) {
	tests := []struct {
		grammar  Grammar
		text     string
		expected string
	}{
		{BraceAuto, "Hello {name}, you are {age}.", `(?s)^Hello (?P<name>.*), you are (?P<age>.*)\.$`},
		{BraceNumeric, "{0} {0} {1}", `(?s)^(?P<_0>.*) (?P<_0>.*) (?P<1>.*)$`},
		{Dash, "#a-b# #ab#", `(?s)^(?P<ab>.*) (?P<ab_>.*)$`},
		{Dash, "#über#", `(?s)^(?P<ber>.*)$`},
		{BraceNumeric, "{{x}}", `(?s)^\{x\}$`},
		{Parameterless, "a+b", `(?s)^a\+b$`},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			b := mustParse(t, tt.grammar, tt.text)
			assert.Equal(t, tt.expected, b.PatternString())
			_, err := b.Pattern()
			assert.NoError(t, err)
		})
	}
}

func TestGroupName(t *testing.T) {
	used := map[string]bool{}
	tests := []struct {
		name     string
		expected string
	}{
		{"first name", "firstname"},
		{"", "_"},
		{"0", "_0"},
		{"12", "12"},
		{"first-name", "firstname_"},
	}
	for _, tt := range tests {
		got := groupName(tt.name, used)
		used[got] = true
		assert.Equal(t, tt.expected, got, tt.name)
	}
}

func TestExtractArguments(t *testing.T) {
	tests := []struct {
		name     string
		grammar  Grammar
		text     string
		args     []any
		expected []string
	}{
		{"named", BraceAuto, "Hello {name}, you are {age}.", []any{"Ada", 36}, []string{"Ada", "36"}},
		{"reordered", BraceNumeric, "{1} before {0}", []any{"a", "b"}, []string{"a", "b"}},
		{"hole", BraceNumeric, "{0}/{2}", []any{"a", "b", "c"}, []string{"a", "", "c"}},
		{"repeated", BraceAuto, "{x}={x}", []any{"1"}, []string{"1"}},
		{"percent", Percent, "%2 of %1 at 100%%", []any{"x", "y"}, []string{"x", "y"}},
		{"multiline", BraceAuto, "<{body}>", []any{"a\nb"}, []string{"a\nb"}},
		{"no parameters", Parameterless, "plain", nil, []string{}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := mustParse(t, tt.grammar, tt.text)
			got, err := b.ExtractArguments(b.Print(nil, tt.args...))
			require.NoError(t, err)
			assert.Equal(t, tt.expected, got)
		})
	}
}

func TestExtractArgumentsErrors(t *testing.T) {
	b := mustParse(t, BraceAuto, "Hello {name}.")
	_, err := b.ExtractArguments("Goodbye Ada.")
	assert.ErrorIs(t, err, ErrNoMatch)

	negative := NewBuilder(BraceNumeric).
		SetText("<{x}>").
		Add(NewText("<", "<"), NewPlaceholder("{x}", "{x}", NewParameter("x", "x", -2), nil, nil), NewText(">", ">")).
		Build()
	_, err = negative.ExtractArguments("<a>")
	assert.ErrorIs(t, err, ErrIndexOutOfRange)
}

func TestExtractSparseIndices(t *testing.T) {
	b := mustParse(t, BraceNumeric, "{999} and {5}")
	got, err := b.ExtractArguments("A and B")
	require.NoError(t, err)
	assert.Equal(t, []string{"A", "B"}, got)
}

func TestExtractArgumentsTo(t *testing.T) {
	b := mustParse(t, BraceAuto, "{0}-{1}")

	dst := []string{"old", "old", "spare"}
	n, err := b.ExtractArgumentsTo("a-b", dst)
	require.NoError(t, err)
	assert.Equal(t, 2, n)
	assert.Equal(t, []string{"a", "b", "spare"}, dst)

	small := []string{"keep"}
	n, err = b.ExtractArgumentsTo("a-b", small)
	assert.ErrorIs(t, err, ErrBufferTooSmall)
	assert.Zero(t, n)
	assert.Equal(t, []string{"keep"}, small)
}

func TestPatternCompiledOnce(t *testing.T) {
	b := mustParse(t, BraceAuto, "{a}:{b}")

	const workers = 16
	patterns := make([]*regexp.Regexp, workers)
	var wg sync.WaitGroup
	for i := range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			patterns[i], _ = b.Pattern()
		}()
	}
	wg.Wait()

	for _, p := range patterns {
		assert.Same(t, patterns[0], p)
	}
	again, err := b.Pattern()
	require.NoError(t, err)
	assert.Same(t, patterns[0], again)
}
