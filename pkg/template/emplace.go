package template

import (
	"errors"
	"fmt"
	"sort"
	"strconv"

	"github.com/lithammer/fuzzysearch/fuzzy"
)

// ParameterSeparator joins a base parameter name and the name of a
// parameter of the template emplaced into it.
const ParameterSeparator = "_"

// Emplacement replaces the placeholders of the named parameter with a template.
type Emplacement struct {
	Name     string
	Template *Breakdown
}

// ParameterMapping records where a base parameter ends up.
type ParameterMapping struct {
	OriginalIndex int
	OriginalName  string
	// NewIndex and NewName are set when the parameter is carried through.
	NewIndex int
	NewName  string
	// Template is the emplaced template, nil when carried through.
	Template *Breakdown
	// Parameters are the emplaced template's parameters in the new numbering.
	Parameters []SubParameterMapping

	byName  map[string]*SubParameterMapping
	byIndex map[int]*SubParameterMapping
}

// SubParameterMapping places one parameter of an emplaced template.
type SubParameterMapping struct {
	Index    int
	Name     string
	NewIndex int
	NewName  string
}

// Mapping describes the parameter space of an emplacement.
type Mapping struct {
	Base       *Breakdown
	Parameters []*ParameterMapping
	// Count is the number of parameters after emplacement.
	Count int

	byIndex map[int]*ParameterMapping
}

// NewMapping validates the emplacements against the base template and
// numbers the resulting parameters.
func NewMapping(base *Breakdown, emplacements ...Emplacement) (*Mapping, error) {
	if base == nil {
		return nil, errors.New("emplace: base template is nil")
	}
	names := base.ParameterNames()
	known := make(map[string]bool, len(names))
	for _, name := range names {
		if name != "" {
			known[name] = true
		}
	}
	byName := make(map[string]*Breakdown, len(emplacements))
	for _, e := range emplacements {
		if e.Template == nil {
			return nil, fmt.Errorf("emplace: template for parameter '%s' is nil", e.Name)
		}
		if !known[e.Name] {
			return nil, &UnknownParameterError{Name: e.Name, Template: base.Text(), Suggestion: suggest(e.Name, names)}
		}
		if _, dup := byName[e.Name]; dup {
			return nil, fmt.Errorf("emplace: parameter '%s' is emplaced more than once", e.Name)
		}
		byName[e.Name] = e.Template
	}

	m := &Mapping{Base: base, byIndex: make(map[int]*ParameterMapping)}
	next := 0
	for i, p := range base.Parameters() {
		if p == nil {
			// Holes keep their slot, in the base and in emplaced
			// templates, so positional arguments still line up.
			next++
			continue
		}
		if _, dup := m.byIndex[p.ParameterIndex()]; dup {
			continue
		}
		pm := &ParameterMapping{OriginalIndex: p.ParameterIndex(), OriginalName: names[i], NewIndex: -1}
		if sub, ok := byName[pm.OriginalName]; ok {
			pm.Template = sub
			pm.byName = make(map[string]*SubParameterMapping)
			pm.byIndex = make(map[int]*SubParameterMapping)
			subNames := sub.ParameterNames()
			for j, sp := range sub.Parameters() {
				if sp == nil {
					next++
					continue
				}
				pm.Parameters = append(pm.Parameters, SubParameterMapping{
					Index:    sp.ParameterIndex(),
					Name:     subNames[j],
					NewIndex: next,
					NewName:  pm.OriginalName + ParameterSeparator + subNames[j],
				})
				next++
			}
			for j := range pm.Parameters {
				sm := &pm.Parameters[j]
				if _, dup := pm.byName[sm.Name]; !dup {
					pm.byName[sm.Name] = sm
				}
				pm.byIndex[sm.Index] = sm
			}
		} else {
			pm.NewIndex = next
			pm.NewName = renumberedName(pm.OriginalName, pm.OriginalIndex, next)
			next++
		}
		m.Parameters = append(m.Parameters, pm)
		m.byIndex[pm.OriginalIndex] = pm
	}
	m.Count = next
	return m, nil
}

// renumberedName keeps a numeric name in step with its new index.
func renumberedName(name string, oldIndex, newIndex int) string {
	n, ok := parseIndex(name)
	if !ok {
		return name
	}
	return strconv.Itoa(n - oldIndex + newIndex)
}

// lookupSub finds the mapping of an emplaced template's parameter by name,
// falling back to its index.
func (pm *ParameterMapping) lookupSub(p *Parameter) *SubParameterMapping {
	if sm, ok := pm.byName[p.Unescaped()]; ok {
		return sm
	}
	return pm.byIndex[p.ParameterIndex()]
}

// Emplace substitutes templates into the placeholders of base, writing the
// result in the base template's grammar.
func Emplace(base *Breakdown, emplacements ...Emplacement) (*Breakdown, error) {
	if base == nil {
		return nil, errors.New("emplace: base template is nil")
	}
	return EmplaceWith(base.Grammar(), base, emplacements...)
}

// EmplaceWith substitutes templates into the placeholders of base, writing
// the result in grammar g. A detecting grammar writes in the base
// template's own grammar. Neither input is modified.
func EmplaceWith(g Grammar, base *Breakdown, emplacements ...Emplacement) (*Breakdown, error) {
	if _, ok := g.(*Detect); ok && base != nil {
		g = base.Grammar()
	}
	if g == nil {
		return nil, errors.New("emplace: no grammar to write the result in")
	}
	m, err := NewMapping(base, emplacements...)
	if err != nil {
		return nil, err
	}
	escaper := g.Escaper()

	var parts []Part
	for _, part := range base.Parts() {
		if t, ok := part.(*Text); ok {
			parts = append(parts, NewText(escaper.Escape(t.Unescaped()), t.Unescaped()))
			continue
		}
		ph, ok := part.(*Placeholder)
		if !ok || ph.Parameter() == nil {
			parts = append(parts, part.clone())
			continue
		}
		pm := m.byIndex[ph.Parameter().ParameterIndex()]
		if pm == nil {
			parts = append(parts, part.clone())
			continue
		}
		if pm.Template == nil {
			parts = append(parts, rewritePlaceholder(ph, pm.NewName, pm.NewIndex, escaper))
			continue
		}
		for _, subPart := range pm.Template.Parts() {
			switch sp := subPart.(type) {
			case *Placeholder:
				sm := (*SubParameterMapping)(nil)
				if sp.Parameter() != nil {
					sm = pm.lookupSub(sp.Parameter())
				}
				if sm == nil {
					parts = append(parts, sp.clone())
					continue
				}
				parts = append(parts, rewritePlaceholder(sp, sm.NewName, sm.NewIndex, escaper))
			case *Text:
				parts = append(parts, NewText(escaper.Escape(sp.Unescaped()), sp.Unescaped()))
			default:
				parts = append(parts, subPart.clone())
			}
		}
	}

	target := resolve(g, draft(g, parts))
	for i, part := range parts {
		ph, ok := part.(*Placeholder)
		if !ok || ph.Escaped() != "" {
			continue
		}
		text, err := target.Assemble(draft(target, []Part{ph}))
		if err != nil {
			return nil, fmt.Errorf("emplace: %w", err)
		}
		parts[i] = ph.withText(text, text)
	}

	text, err := target.Assemble(draft(target, parts))
	if err != nil {
		return nil, fmt.Errorf("emplace: %w", err)
	}
	return NewBuilder(target).SetText(text).Add(parts...).Build(), nil
}

// rewritePlaceholder copies a placeholder with a new parameter. The copy
// has no source text yet; alignment and formatting are kept.
func rewritePlaceholder(ph *Placeholder, name string, index int, escaper Escaper) *Placeholder {
	c := ph.clone().(*Placeholder)
	c.escaped, c.unescaped = "", ""
	c.parameter = NewParameter(escaper.Escape(name), name, index)
	return c
}

// suggest picks the candidate closest to name, or "" when none is close.
func suggest(name string, candidates []string) string {
	var filtered []string
	for _, c := range candidates {
		if c != "" {
			filtered = append(filtered, c)
		}
	}
	if ranks := fuzzy.RankFindFold(name, filtered); len(ranks) > 0 {
		sort.Sort(ranks)
		return ranks[0].Target
	}
	best, bestDistance := "", len(name)/2+1
	for _, c := range filtered {
		if d := fuzzy.LevenshteinDistance(name, c); d < bestDistance {
			best, bestDistance = c, d
		}
	}
	return best
}
