package strips

import "maps"

// Groundings enumerates the fully bound instances of a reachable from s,
// extending seed. Each positive precondition, in declaration order, refines
// the set of partial bindings by joining it against the facts of s; a
// precondition already bound under a binding carries that binding forward
// unchanged. Candidates are deduplicated in first-seen order.
//
// The candidates are not filtered for legality. A binding which leaves any
// parameter unbound fails with an UnboundError: it means some parameter is
// not constrained by a positive precondition.
func (a *Action) Groundings(s State, seed Binding) ([]*Action, error) {
	vars := make(map[string]struct{})
	for _, p := range a.unbound() {
		vars[p] = struct{}{}
	}

	bindings := []Binding{restrictBinding(seed, vars)}
	for _, p := range a.pre {
		if p.negated {
			continue
		}
		bindings = refine(bindings, p, s, vars)
	}

	var (
		out  []*Action
		seen = make(map[string]struct{}, len(bindings))
	)
	for _, b := range bindings {
		if missing := a.StillUnbound(b); len(missing) != 0 {
			return nil, &UnboundError{Action: a.NameAndParams(), Unbound: missing, Binding: b}
		}
		candidate := a.Bind(b)
		if _, ok := seen[candidate.Key()]; ok {
			continue
		}
		seen[candidate.Key()] = struct{}{}
		out = append(out, candidate)
	}
	return out, nil
}

// refine maps each partial binding to its completions against p.
func refine(bindings []Binding, p Predicate, s State, vars map[string]struct{}) []Binding {
	var next []Binding
	for _, b := range bindings {
		if varsBound(p, b, vars) {
			next = append(next, b)
			continue
		}
		// constants bind to themselves so the join only matches them exactly
		partial := maps.Clone(b)
		for _, arg := range p.args {
			if _, ok := vars[arg]; !ok {
				partial[arg] = arg
			}
		}
		for _, c := range s.AllBindingsFor(p, partial) {
			next = append(next, restrictBinding(c, vars))
		}
	}
	return next
}

func varsBound(p Predicate, b Binding, vars map[string]struct{}) bool {
	for _, arg := range p.args {
		if _, ok := vars[arg]; !ok {
			continue
		}
		if _, ok := b[arg]; !ok {
			return false
		}
	}
	return true
}

func restrictBinding(b Binding, vars map[string]struct{}) Binding {
	out := make(Binding, len(vars))
	for k, v := range b {
		if _, ok := vars[k]; ok {
			out[k] = v
		}
	}
	return out
}

// AllInstantiationsOf returns the legal ground instances of a in s.
func (a *Action) AllInstantiationsOf(s State) ([]*Action, error) {
	return a.AllInstantiationsFrom(s, nil)
}

// AllInstantiationsFrom is AllInstantiationsOf, extending seed.
func (a *Action) AllInstantiationsFrom(s State, seed Binding) ([]*Action, error) {
	candidates, err := a.Groundings(s, seed)
	if err != nil {
		return nil, err
	}
	legal := candidates[:0]
	for _, c := range candidates {
		if c.IsLegal(s) {
			legal = append(legal, c)
		}
	}
	return legal, nil
}
