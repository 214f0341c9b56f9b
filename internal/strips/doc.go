// Package strips implements the symbolic core of a STRIPS-style planner.
//
// Facts are Predicate values. A State is a closed-world set of positive
// facts: anything not stored is false. Actions are parameterized schemas
// (name, parameters, preconditions, effects) that are grounded against a State
// by joining precondition predicates over the stored facts:
//
//	acts, err := domain.MakeInstantiatedActions(state)
//	for _, act := range acts {
//	    next := act.Apply(state)
//	    ...
//	}
//
// All values are immutable once constructed and safe to share between
// goroutines. Deriving a value (negating, binding, applying effects) always
// allocates a new one.
//
// Plans are ordered sequences of ground actions, with legality and validity
// checked against a start state, and a line-oriented text form:
//
//	(pick-up a)
//	(stack a b)
package strips
