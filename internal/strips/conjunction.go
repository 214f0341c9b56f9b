package strips

import (
	"slices"
	"strings"
)

// Conjunction is an ordered list of literals, used for preconditions, goals
// and effects. Order is kept because effects are applied in sequence.
type Conjunction struct {
	preds []Predicate
	pos   []Predicate
	neg   []Predicate
}

// NewConjunction copies preds into a Conjunction.
func NewConjunction(preds ...Predicate) Conjunction {
	return partition(slices.Clone(preds))
}

// partition takes ownership of preds.
func partition(preds []Predicate) Conjunction {
	return Conjunction{
		preds: preds,
		pos:   filterPredicates(preds, Predicate.IsTrue),
		neg:   filterPredicates(preds, Predicate.IsNegated),
	}
}

// Predicates returns a copy of the literals in declaration order.
func (c Conjunction) Predicates() []Predicate { return slices.Clone(c.preds) }

// Len returns the number of literals.
func (c Conjunction) Len() int { return len(c.preds) }

// At returns the i'th literal.
func (c Conjunction) At(i int) Predicate { return c.preds[i] }

// Positive returns the positive literals, in order. The slice is shared and
// must not be modified.
func (c Conjunction) Positive() []Predicate { return c.pos }

// Negative returns the negative literals, in order. The slice is shared and
// must not be modified.
func (c Conjunction) Negative() []Predicate { return c.neg }

// Contains reports whether p is one of the literals.
func (c Conjunction) Contains(p Predicate) bool {
	return slices.ContainsFunc(c.preds, p.Equal)
}

// Substitute applies b to every literal.
func (c Conjunction) Substitute(b Binding) Conjunction {
	out := make([]Predicate, len(c.preds))
	for i, p := range c.preds {
		out[i] = p.Substitute(b)
	}
	return partition(out)
}

// Equal reports whether c and other have the same literals, regardless of
// order.
func (c Conjunction) Equal(other Conjunction) bool {
	if len(c.preds) != len(other.preds) {
		return false
	}
	for _, p := range c.preds {
		if !other.Contains(p) {
			return false
		}
	}
	return true
}

func (c Conjunction) String() string {
	parts := make([]string, len(c.preds))
	for i, p := range c.preds {
		parts[i] = p.String()
	}
	return "(and " + strings.Join(parts, " ") + ")"
}

func filterPredicates(preds []Predicate, keep func(Predicate) bool) []Predicate {
	var out []Predicate
	for _, p := range preds {
		if keep(p) {
			out = append(out, p)
		}
	}
	return out
}
