package strips

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
)

// Action is a named operator with parameters, preconditions and effects.
//
// A schema is an Action as declared in a domain. Binding some or all of its
// parameters yields a grounded Action whose parameter list holds the bound
// objects in place of the formal names. Symbols appearing in preconditions or
// effects that are not formal parameters are constants: they are never
// rebound.
type Action struct {
	name     string
	params   []string
	formals  []string
	pre      []Predicate // declaration order, negative literals included
	preconds State
	effects  Conjunction
}

// NewAction validates and constructs an action schema. Parameters must be
// distinct, and any '?'-prefixed symbol used in a literal must be declared.
func NewAction(name string, params []string, preconditions, effects []Predicate) (*Action, error) {
	declared := make(map[string]struct{}, len(params))
	for _, p := range params {
		if _, ok := declared[p]; ok {
			return nil, &SchemaError{Action: name, Detail: fmt.Sprintf("duplicate parameter %s", p)}
		}
		declared[p] = struct{}{}
	}
	for _, lits := range [][]Predicate{preconditions, effects} {
		for _, lit := range lits {
			for _, arg := range lit.args {
				if _, ok := declared[arg]; !ok && strings.HasPrefix(arg, "?") {
					return nil, &SchemaError{Action: name, Detail: fmt.Sprintf("undeclared parameter %s in %s", arg, lit)}
				}
			}
		}
	}
	return &Action{
		name:     name,
		params:   slices.Clone(params),
		formals:  slices.Clone(params),
		pre:      slices.Clone(preconditions),
		preconds: NewState(filterPredicates(preconditions, Predicate.IsTrue)...),
		effects:  NewConjunction(effects...),
	}, nil
}

// MustAction is NewAction that panics on error.
func MustAction(name string, params []string, preconditions, effects []Predicate) *Action {
	a, err := NewAction(name, params, preconditions, effects)
	if err != nil {
		panic(err)
	}
	return a
}

// Name returns the action name.
func (a *Action) Name() string { return a.name }

// IsNamed reports whether the action is called name.
func (a *Action) IsNamed(name string) bool { return a.name == name }

// Parameters returns the current parameter list: objects for bound
// parameters, formal names for unbound ones.
func (a *Action) Parameters() []string { return slices.Clone(a.params) }

// Preconditions returns the positive preconditions as a State.
func (a *Action) Preconditions() State { return a.preconds }

// PreconditionLiterals returns every precondition literal, including
// negative ones, in declaration order.
func (a *Action) PreconditionLiterals() []Predicate { return slices.Clone(a.pre) }

// Effects returns the effects in declaration order.
func (a *Action) Effects() Conjunction { return a.effects }

// AddEffects returns the positive effects.
func (a *Action) AddEffects() []Predicate { return a.effects.Positive() }

// DeleteEffects returns the negative effects.
func (a *Action) DeleteEffects() []Predicate { return a.effects.Negative() }

// HasPrecondition reports whether p is one of the precondition literals.
func (a *Action) HasPrecondition(p Predicate) bool {
	return slices.ContainsFunc(a.pre, p.Equal)
}

// Adds reports whether p is an effect. For negative p this means the action
// deletes its positive counterpart.
func (a *Action) Adds(p Predicate) bool { return a.effects.Contains(p) }

// Deletes reports whether the negation of p is an effect.
func (a *Action) Deletes(p Predicate) bool { return a.Adds(p.Negated()) }

// AddsAll reports whether every element of preds is an effect.
func (a *Action) AddsAll(preds []Predicate) bool {
	for _, p := range preds {
		if !a.Adds(p) {
			return false
		}
	}
	return true
}

// AddsAny reports whether at least one element of preds is an effect.
func (a *Action) AddsAny(preds []Predicate) bool {
	return slices.ContainsFunc(preds, a.Adds)
}

// IsInverseOf reports whether every effect of a is negated by some effect of
// other, with both having the same number of effects.
func (a *Action) IsInverseOf(other *Action) bool {
	if a.effects.Len() != other.effects.Len() {
		return false
	}
	for _, mine := range a.effects.preds {
		if !slices.ContainsFunc(other.effects.preds, mine.Negates) {
			return false
		}
	}
	return true
}

// Matches reports whether a and other are instances of the same schema: same
// name and arity, and pairwise matching preconditions and effects.
func (a *Action) Matches(other *Action) bool {
	if other == nil || a.name != other.name || len(a.params) != len(other.params) {
		return false
	}
	if len(a.pre) != len(other.pre) || a.effects.Len() != other.effects.Len() {
		return false
	}
	for i := range a.pre {
		if !a.pre[i].Matches(other.pre[i]) {
			return false
		}
	}
	for i := range a.effects.preds {
		if !a.effects.preds[i].Matches(other.effects.preds[i]) {
			return false
		}
	}
	return true
}

// BindingsFor maps each parameter of a to the parameter of other in the same
// position. a.Matches(other) must hold.
func (a *Action) BindingsFor(other *Action) Binding {
	b := make(Binding, len(a.params))
	for i, p := range a.params {
		b[p] = other.params[i]
	}
	return b
}

// BindingsFrom returns the binding implied by matching the ground predicate
// against the first precondition with the same name and arity.
func (a *Action) BindingsFrom(bound Predicate) (Binding, error) {
	for _, p := range a.pre {
		if p.negated == bound.negated && p.Matches(bound) {
			return p.BindingsFor(bound), nil
		}
	}
	return nil, fmt.Errorf("%w: %s for %s", ErrPreconditionNotFound, bound, a.NameAndParams())
}

// unbound returns the formal parameters not yet replaced by objects.
func (a *Action) unbound() []string {
	var out []string
	for i, p := range a.params {
		if p == a.formals[i] {
			out = append(out, p)
		}
	}
	return out
}

// AnyUnbound reports whether b leaves any of a's unbound parameters unbound.
func (a *Action) AnyUnbound(b Binding) bool { return len(a.StillUnbound(b)) != 0 }

// StillUnbound returns the unbound parameters of a not covered by b, in
// declaration order.
func (a *Action) StillUnbound(b Binding) []string {
	var out []string
	for _, p := range a.unbound() {
		if _, ok := b[p]; !ok {
			out = append(out, p)
		}
	}
	return out
}

// Bind substitutes b into every unbound parameter, precondition and effect.
// Entries of b that do not name an unbound parameter are ignored.
func (a *Action) Bind(b Binding) *Action {
	sub := make(Binding, len(b))
	for _, p := range a.unbound() {
		if v, ok := b[p]; ok {
			sub[p] = v
		}
	}
	out := &Action{
		name:    a.name,
		params:  make([]string, len(a.params)),
		formals: a.formals,
		pre:     make([]Predicate, len(a.pre)),
		effects: a.effects.Substitute(sub),
	}
	for i, p := range a.params {
		if v, ok := sub[p]; ok && p == a.formals[i] {
			out.params[i] = v
		} else {
			out.params[i] = p
		}
	}
	for i, p := range a.pre {
		out.pre[i] = p.Substitute(sub)
	}
	out.preconds = a.preconds.Substitute(sub)
	return out
}

// BindObjects binds every parameter positionally.
func (a *Action) BindObjects(objects ...string) (*Action, error) {
	if len(objects) != len(a.params) {
		return nil, fmt.Errorf("%w: %s takes %d, got %d", ErrArity, a.name, len(a.params), len(objects))
	}
	b := make(Binding, len(objects))
	for i, p := range a.params {
		b[p] = objects[i]
	}
	return a.Bind(b), nil
}

// Unmet returns the precondition literals false in s.
func (a *Action) Unmet(s State) []Predicate {
	var out []Predicate
	for _, p := range a.pre {
		if !s.PredIsTrue(p) {
			out = append(out, p)
		}
	}
	return out
}

// IsLegal reports whether every precondition literal is true in s.
func (a *Action) IsLegal(s State) bool {
	for _, p := range a.pre {
		if !s.PredIsTrue(p) {
			return false
		}
	}
	return true
}

// Apply returns the state after applying every effect, in order. It assumes
// a.IsLegal(s).
func (a *Action) Apply(s State) State { return s.ApplyEffects(a.effects) }

// ApplyAdds returns the state after applying only the positive effects.
func (a *Action) ApplyAdds(s State) State { return s.Apply(a.effects.Positive()...) }

// Compare orders by name, then number of parameters, then parameter values.
func (a *Action) Compare(other *Action) int {
	if c := cmp.Compare(a.name, other.name); c != 0 {
		return c
	}
	if c := cmp.Compare(len(a.params), len(other.params)); c != 0 {
		return c
	}
	return slices.Compare(a.params, other.params)
}

// Equal reports whether a and other have the same name and parameters.
func (a *Action) Equal(other *Action) bool {
	return other != nil && a.Compare(other) == 0
}

// NameAndParams renders the action as "(name p1 p2)".
func (a *Action) NameAndParams() string {
	var b strings.Builder
	b.WriteByte('(')
	b.WriteString(a.name)
	for _, p := range a.params {
		b.WriteByte(' ')
		b.WriteString(p)
	}
	b.WriteByte(')')
	return b.String()
}

// Key is NameAndParams; it identifies a ground action within a domain.
func (a *Action) Key() string { return a.NameAndParams() }

func (a *Action) String() string { return a.NameAndParams() }
