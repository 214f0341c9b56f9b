package strips

import (
	"cmp"
	"hash/fnv"
	"slices"
	"strings"
)

// Predicate is an atomic fact, or its negation, over named arguments.
//
// The zero value is not useful; construct with NewPredicate.
type Predicate struct {
	name    string
	args    []string
	negated bool
	// key is the canonical text form, precomputed for hashing and lookups.
	key string
}

// NewPredicate returns the positive fact name(args...).
func NewPredicate(name string, args ...string) Predicate {
	return makePredicate(name, slices.Clone(args), false)
}

// NewNegatedPredicate returns the negative fact (not (name args...)).
func NewNegatedPredicate(name string, args ...string) Predicate {
	return makePredicate(name, slices.Clone(args), true)
}

// makePredicate takes ownership of args.
func makePredicate(name string, args []string, negated bool) Predicate {
	p := Predicate{name: name, args: args, negated: negated}
	p.key = p.format()
	return p
}

func (p Predicate) format() string {
	var b strings.Builder
	if p.negated {
		b.WriteString("(not ")
	}
	b.WriteByte('(')
	b.WriteString(p.name)
	for _, a := range p.args {
		b.WriteByte(' ')
		b.WriteString(a)
	}
	b.WriteByte(')')
	if p.negated {
		b.WriteByte(')')
	}
	return b.String()
}

// Name returns the predicate symbol.
func (p Predicate) Name() string { return p.name }

// Args returns a copy of the argument list.
func (p Predicate) Args() []string { return slices.Clone(p.args) }

// Arity returns the number of arguments.
func (p Predicate) Arity() int { return len(p.args) }

// Arg returns the i'th argument.
func (p Predicate) Arg(i int) string { return p.args[i] }

// IsNegated reports whether p is a negative literal.
func (p Predicate) IsNegated() bool { return p.negated }

// IsTrue reports whether p is a positive literal.
func (p Predicate) IsTrue() bool { return !p.negated }

// Negated returns p with its sign flipped.
func (p Predicate) Negated() Predicate {
	return makePredicate(p.name, p.args, !p.negated)
}

// Positive returns the positive form of p.
func (p Predicate) Positive() Predicate {
	if !p.negated {
		return p
	}
	return p.Negated()
}

// Negates reports whether p and other have the same name and arguments but
// opposite signs.
func (p Predicate) Negates(other Predicate) bool {
	return p.negated != other.negated && p.compareNamesAndArgs(other) == 0
}

// Matches reports whether p and other have the same name and arity,
// irrespective of argument values and sign.
func (p Predicate) Matches(other Predicate) bool {
	return p.name == other.name && len(p.args) == len(other.args)
}

// BindingsFor maps each of p's arguments to the argument of other in the
// same position. p.Matches(other) must hold.
func (p Predicate) BindingsFor(other Predicate) Binding {
	b := make(Binding, len(p.args))
	for i, a := range p.args {
		b[a] = other.args[i]
	}
	return b
}

// AllBound reports whether every argument of p is a key of b.
func (p Predicate) AllBound(b Binding) bool {
	for _, a := range p.args {
		if _, ok := b[a]; !ok {
			return false
		}
	}
	return true
}

// Substitute replaces every argument that is a key of b with its value.
func (p Predicate) Substitute(b Binding) Predicate {
	args := make([]string, len(p.args))
	for i, a := range p.args {
		if v, ok := b[a]; ok {
			args[i] = v
		} else {
			args[i] = a
		}
	}
	return makePredicate(p.name, args, p.negated)
}

// Compare orders by name, then arguments, with a positive literal sorting
// before its negation.
func (p Predicate) Compare(other Predicate) int {
	if c := p.compareNamesAndArgs(other); c != 0 {
		return c
	}
	switch {
	case p.negated == other.negated:
		return 0
	case !p.negated:
		return -1
	default:
		return 1
	}
}

func (p Predicate) compareNamesAndArgs(other Predicate) int {
	if c := cmp.Compare(p.name, other.name); c != 0 {
		return c
	}
	return slices.Compare(p.args, other.args)
}

// Equal reports structural equality.
func (p Predicate) Equal(other Predicate) bool { return p.key == other.key }

// Key returns the canonical text form, usable as a map key.
func (p Predicate) Key() string { return p.key }

// Hash returns a hash consistent with Equal.
func (p Predicate) Hash() uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(p.key))
	return h.Sum64()
}

// String renders p as "(name a b)" or "(not (name a b))".
func (p Predicate) String() string { return p.key }
