package template

import (
	"errors"
	"fmt"
	"log/slog"
)

// Detect parses with every candidate grammar and keeps the best result.
type Detect struct {
	name       string
	candidates []Grammar
}

// NewDetect creates a detecting grammar over candidates, tried in order.
func NewDetect(name string, candidates ...Grammar) *Detect {
	return &Detect{name: name, candidates: candidates}
}

// DefaultDetect tries Parameterless, BraceNumeric, BraceAlphaNumeric, Brace and Percent.
var DefaultDetect = NewDetect("Detect", Parameterless, BraceNumeric, BraceAlphaNumeric, BraceAuto, Percent)

func (d *Detect) Name() string              { return d.name }
func (d *Detect) String() string            { return d.name }
func (d *Detect) Escaper() Escaper          { return NoEscaper }
func (d *Detect) NumberAssignedOrder() bool { return false }

// Candidates returns the grammars tried, in order.
func (d *Detect) Candidates() []Grammar { return d.candidates }

// Score rates a breakdown: one point per placeholder, minus three per malformed part.
func Score(b *Breakdown) int {
	return len(b.Placeholders()) - 3*len(b.MalformedParts())
}

// Parse keeps the highest scoring parse. Ties go to the earlier candidate.
func (d *Detect) Parse(text string) (*Breakdown, error) {
	var best *Breakdown
	bestScore := 0
	var errs []error
	for _, g := range d.candidates {
		b, err := g.Parse(text)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if s := Score(b); best == nil || s > bestScore {
			best, bestScore = b, s
		}
	}
	if best == nil {
		return nil, fmt.Errorf("%s: %w", d.name, errors.Join(append([]error{ErrParseFailure}, errs...)...))
	}
	Logger().Debug("detected grammar", slog.String("grammar", best.Grammar().Name()),
		slog.Int("score", bestScore), slog.String("text", text))
	return best, nil
}

// Assemble uses the breakdown's own grammar, then each candidate in order.
func (d *Detect) Assemble(b *Breakdown) (string, error) {
	var errs []error
	if g := b.Grammar(); g != nil && g != Grammar(d) {
		s, err := g.Assemble(b)
		if err == nil {
			return s, nil
		}
		errs = append(errs, err)
	}
	for _, g := range d.candidates {
		s, err := g.Assemble(b)
		if err == nil {
			return s, nil
		}
		errs = append(errs, err)
	}
	err := errors.Join(errs...)
	if err == nil {
		err = ErrUnknownGrammar
	}
	return "", fmt.Errorf("%s: no grammar can assemble %q: %w", d.name, b.Text(), err)
}
