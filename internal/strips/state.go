package strips

import (
	"maps"
	"slices"
	"strings"
)

// State is a closed-world set of true facts. Only positive predicates are
// stored; every other fact is false.
//
// The zero value is the empty state.
type State struct {
	preds []Predicate // ascending
	index map[string]struct{}
	key   string
}

// NewState folds updates, in order, into the empty state. See State.Apply.
func NewState(updates ...Predicate) State {
	return State{}.Apply(updates...)
}

// Apply returns the state obtained by applying each update in sequence: a
// positive update inserts the fact, a negative update removes its positive
// counterpart. Later updates win over earlier ones for the same fact.
//
// Apply does not check legality of anything, that is the caller's concern.
func (s State) Apply(updates ...Predicate) State {
	if len(updates) == 0 {
		return s
	}
	facts := make(map[string]Predicate, len(s.preds)+len(updates))
	for _, p := range s.preds {
		facts[p.key] = p
	}
	for _, u := range updates {
		if u.negated {
			delete(facts, u.Positive().key)
		} else {
			facts[u.key] = u
		}
	}
	return stateFromFacts(facts)
}

// ApplyEffects is Apply over a conjunction.
func (s State) ApplyEffects(effects Conjunction) State {
	return s.Apply(effects.preds...)
}

func stateFromFacts(facts map[string]Predicate) State {
	preds := slices.SortedFunc(maps.Values(facts), Predicate.Compare)
	index := make(map[string]struct{}, len(preds))
	keys := make([]string, len(preds))
	for i, p := range preds {
		index[p.key] = struct{}{}
		keys[i] = p.key
	}
	return State{preds: preds, index: index, key: strings.Join(keys, " ")}
}

// Len returns the number of stored facts.
func (s State) Len() int { return len(s.preds) }

// Predicates returns the stored facts in ascending order.
func (s State) Predicates() []Predicate { return slices.Clone(s.preds) }

// Contains reports whether the positive fact p is stored. It is false for
// any negated p.
func (s State) Contains(p Predicate) bool {
	_, ok := s.index[p.key]
	return ok
}

// PredIsTrue evaluates p under the closed-world assumption.
func (s State) PredIsTrue(p Predicate) bool {
	if p.negated {
		return !s.Contains(p.Positive())
	}
	return s.Contains(p)
}

// UnmetGoals returns the literals of goal which are false in s, in order.
func (s State) UnmetGoals(goal Conjunction) []Predicate {
	var unmet []Predicate
	for _, g := range goal.preds {
		if !s.PredIsTrue(g) {
			unmet = append(unmet, g)
		}
	}
	return unmet
}

// NumGoalsMet counts the literals of goal which are true in s.
func (s State) NumGoalsMet(goal Conjunction) int {
	return goal.Len() - len(s.UnmetGoals(goal))
}

// AllGoalsMet reports whether every literal of goal is true in s.
func (s State) AllGoalsMet(goal Conjunction) bool {
	for _, g := range goal.preds {
		if !s.PredIsTrue(g) {
			return false
		}
	}
	return true
}

// ContainsAll reports whether every fact of other is stored in s.
func (s State) ContainsAll(other State) bool {
	for _, p := range other.preds {
		if !s.Contains(p) {
			return false
		}
	}
	return true
}

// AllBindingsFor returns, for every stored fact matching p, the binding of
// p's arguments to that fact's arguments, merged into partial. Facts whose
// arguments conflict with partial, or which would bind one argument to two
// different values, are skipped. Results follow the ascending fact order and
// are not deduplicated.
func (s State) AllBindingsFor(p Predicate, partial Binding) []Binding {
	var out []Binding
next:
	for _, q := range s.preds {
		if !p.Matches(q) {
			continue
		}
		b := maps.Clone(partial)
		if b == nil {
			b = make(Binding, len(p.args))
		}
		for i, a := range p.args {
			v := q.args[i]
			if existing, ok := b[a]; ok {
				if existing != v {
					continue next
				}
				continue
			}
			b[a] = v
		}
		out = append(out, b)
	}
	return out
}

// Substitute applies b to every stored fact.
func (s State) Substitute(b Binding) State {
	updates := make([]Predicate, len(s.preds))
	for i, p := range s.preds {
		updates[i] = p.Substitute(b)
	}
	return NewState(updates...)
}

// Compare orders states by size, then element-wise in ascending fact order.
func (s State) Compare(other State) int {
	if len(s.preds) != len(other.preds) {
		if len(s.preds) < len(other.preds) {
			return -1
		}
		return 1
	}
	for i := range s.preds {
		if c := s.preds[i].Compare(other.preds[i]); c != 0 {
			return c
		}
	}
	return 0
}

// Equal reports whether both states store the same facts.
func (s State) Equal(other State) bool { return s.key == other.key }

// Key returns a canonical text form consistent with Equal, usable as a map
// key.
func (s State) Key() string { return s.key }

// Conjunction returns the stored facts as a conjunction, in ascending order.
func (s State) Conjunction() Conjunction { return partition(slices.Clone(s.preds)) }

// String renders s as "(and (f1) (f2) ...)".
func (s State) String() string { return "(and " + s.key + ")" }
