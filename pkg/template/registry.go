package template

import (
	"fmt"
	"strings"
	"sync"

	"github.com/spicery/nutmeg-template/pkg/tokenizer"
)

// Registry is an ordered set of grammars with lookup by name. Some of them
// are candidates for detection.
type Registry struct {
	mu       sync.RWMutex
	grammars []Grammar
	detect   []Grammar
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{}
}

// DefaultRegistry holds the built-in grammars. Dash is registered but is
// not a detection candidate, since `#` is common in ordinary text.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(Parameterless, true)
	r.Register(BraceNumeric, true)
	r.Register(BraceAlphaNumeric, true)
	r.Register(BraceAuto, true)
	r.Register(Percent, true)
	r.Register(Dash, false)
	return r
}

// ApplyRulesToDefaults returns the default registry extended by a rules file.
func ApplyRulesToDefaults(rules *tokenizer.RulesFile) (*Registry, error) {
	r := DefaultRegistry()
	if err := r.ApplyRulesFile(rules); err != nil {
		return nil, err
	}
	return r, nil
}

// Register adds a grammar, replacing any grammar of the same name.
func (r *Registry) Register(g Grammar, detect bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.grammars = replaceOrAppend(r.grammars, g)
	if detect {
		r.detect = replaceOrAppend(r.detect, g)
	} else {
		r.detect = removeNamed(r.detect, g.Name())
	}
}

// ByName finds a grammar, ignoring case. "Detect" names the detecting grammar.
func (r *Registry) ByName(name string) (Grammar, error) {
	if strings.EqualFold(name, "Detect") {
		return r.Detect(), nil
	}
	r.mu.RLock()
	defer r.mu.RUnlock()
	if i := indexNamed(r.grammars, name); i >= 0 {
		return r.grammars[i], nil
	}
	names := make([]string, len(r.grammars))
	for i, g := range r.grammars {
		names[i] = g.Name()
	}
	if s := suggest(name, names); s != "" {
		return nil, fmt.Errorf("%w '%s', did you mean '%s'?", ErrUnknownGrammar, name, s)
	}
	return nil, fmt.Errorf("%w '%s'", ErrUnknownGrammar, name)
}

// All returns the registered grammars in registration order.
func (r *Registry) All() []Grammar {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return append([]Grammar(nil), r.grammars...)
}

// Detect returns a detecting grammar over the current candidates.
func (r *Registry) Detect() *Detect {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return NewDetect("Detect", append([]Grammar(nil), r.detect...)...)
}

// SetDetectOrder replaces the detection candidates.
func (r *Registry) SetDetectOrder(names ...string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	detect := make([]Grammar, 0, len(names))
	for _, name := range names {
		i := indexNamed(r.grammars, name)
		if i < 0 {
			return fmt.Errorf("detect order: %w '%s'", ErrUnknownGrammar, name)
		}
		detect = append(detect, r.grammars[i])
	}
	r.detect = detect
	return nil
}

// ApplyRulesFile registers the grammars of a rules file and applies its
// detection order. Rule grammars are not detection candidates unless the
// file lists them.
func (r *Registry) ApplyRulesFile(rules *tokenizer.RulesFile) error {
	for _, rule := range rules.Grammars {
		g, err := NewRuleGrammar(rule)
		if err != nil {
			return err
		}
		r.mu.RLock()
		detect := indexNamed(r.detect, rule.Name) >= 0
		r.mu.RUnlock()
		r.Register(g, detect)
	}
	if len(rules.Detect) > 0 {
		return r.SetDetectOrder(rules.Detect...)
	}
	return nil
}

// RulesFile describes the registry's rule grammars and detection order.
func (r *Registry) RulesFile() *tokenizer.RulesFile {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := &tokenizer.RulesFile{}
	for _, g := range r.grammars {
		if rg, ok := g.(*RuleGrammar); ok {
			out.Grammars = append(out.Grammars, rg.Rule())
		}
	}
	for _, g := range r.detect {
		out.Detect = append(out.Detect, g.Name())
	}
	return out
}

func indexNamed(grammars []Grammar, name string) int {
	for i, g := range grammars {
		if strings.EqualFold(g.Name(), name) {
			return i
		}
	}
	return -1
}

func replaceOrAppend(grammars []Grammar, g Grammar) []Grammar {
	if i := indexNamed(grammars, g.Name()); i >= 0 {
		grammars[i] = g
		return grammars
	}
	return append(grammars, g)
}

func removeNamed(grammars []Grammar, name string) []Grammar {
	if i := indexNamed(grammars, name); i >= 0 {
		return append(grammars[:i], grammars[i+1:]...)
	}
	return grammars
}
