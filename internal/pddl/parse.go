// Package pddl reads and writes the STRIPS subset of PDDL used by the
// planner: domains with typed-free parameters, single-literal or conjunctive
// preconditions and effects, and simple negation.
//
// Input is case folded. Clause order is fixed:
//
//	(define (domain NAME)
//	  (:requirements ...)
//	  (:predicates (p ?x) ...)
//	  (:action NAME :parameters (?x ...) :precondition P :effect E) ...)
//
//	(define (problem NAME)
//	  (:domain NAME)
//	  (:objects ...)
//	  (:init (p a) ...)
//	  (:goal G))
package pddl

import (
	"fmt"
	"io"
	"os"

	"github.com/joeycumines/go-strips/internal/sexpr"
	"github.com/joeycumines/go-strips/internal/strips"
)

// ParseError describes a description that is well formed as an
// s-expression but does not follow the clause structure.
type ParseError struct {
	Clause string
	Detail string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("pddl: %s: %s", e.Clause, e.Detail)
}

func (e *ParseError) Unwrap() error { return strips.ErrMalformedSchema }

func clauseError(clause string, v sexpr.Value) error {
	return &ParseError{Clause: clause, Detail: fmt.Sprintf("no %s clause in %s", clause, v)}
}

// ReadDomainFile parses the domain at path.
func ReadDomainFile(path string) (*strips.Domain, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	d, err := ReadDomain(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return d, nil
}

// ReadProblemFile parses the problem at path.
func ReadProblemFile(path string) (*strips.Problem, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	p, err := ReadProblem(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return p, nil
}

// ReadDomain parses a domain description.
func ReadDomain(r io.Reader) (*strips.Domain, error) {
	v, err := sexpr.Parse(r)
	if err != nil {
		return nil, err
	}
	return DomainFrom(v)
}

// ReadProblem parses a problem description.
func ReadProblem(r io.Reader) (*strips.Problem, error) {
	v, err := sexpr.Parse(r)
	if err != nil {
		return nil, err
	}
	return ProblemFrom(v)
}

// DomainFrom builds a domain from a parsed description.
func DomainFrom(v sexpr.Value) (*strips.Domain, error) {
	v = sexpr.Lower(v)
	items, err := clauses(v, "define")
	if err != nil {
		return nil, err
	}
	if len(items) < 3 {
		return nil, &ParseError{Clause: "define", Detail: "expected domain, requirements and predicates"}
	}

	name, err := namedClause(items[0], "domain")
	if err != nil {
		return nil, err
	}

	if !sexpr.HeadIs(items[1], ":requirements") {
		return nil, clauseError(":requirements", items[1])
	}
	requirements, err := symbols(sexpr.Rest(items[1]), ":requirements")
	if err != nil {
		return nil, err
	}

	predItems, err := clauses(items[2], ":predicates")
	if err != nil {
		return nil, err
	}
	signatures := make([]strips.Signature, 0, len(predItems))
	for _, item := range predItems {
		p, err := literal(item, ":predicates")
		if err != nil {
			return nil, err
		}
		signatures = append(signatures, strips.Signature{Name: p.Name(), Args: p.Args()})
	}

	actions := make([]*strips.Action, 0, sexpr.CountAtoms(v, ":action"))
	for _, item := range items[3:] {
		a, err := action(item)
		if err != nil {
			return nil, err
		}
		actions = append(actions, a)
	}

	return strips.NewDomain(name, requirements, signatures, actions)
}

// ProblemFrom builds a problem from a parsed description.
func ProblemFrom(v sexpr.Value) (*strips.Problem, error) {
	items, err := clauses(sexpr.Lower(v), "define")
	if err != nil {
		return nil, err
	}
	if len(items) != 5 {
		return nil, &ParseError{Clause: "define", Detail: "expected problem, domain, objects, init and goal"}
	}

	name, err := namedClause(items[0], "problem")
	if err != nil {
		return nil, err
	}
	domain, err := namedClause(items[1], ":domain")
	if err != nil {
		return nil, err
	}

	if !sexpr.HeadIs(items[2], ":objects") {
		return nil, clauseError(":objects", items[2])
	}
	objects, err := symbols(sexpr.Rest(items[2]), ":objects")
	if err != nil {
		return nil, err
	}

	if !sexpr.HeadIs(items[3], ":init") {
		return nil, clauseError(":init", items[3])
	}
	facts, err := literals(sexpr.Rest(items[3]), ":init")
	if err != nil {
		return nil, err
	}

	if !sexpr.HeadIs(items[4], ":goal") || sexpr.Len(items[4]) != 2 {
		return nil, clauseError(":goal", items[4])
	}
	goal, err := condition(sexpr.First(sexpr.Rest(items[4])), ":goal")
	if err != nil {
		return nil, err
	}

	return strips.NewProblem(name, domain, objects, strips.NewState(facts...), strips.NewConjunction(goal...)), nil
}

// clauses returns the elements after head of the list v.
func clauses(v sexpr.Value, head string) ([]sexpr.Value, error) {
	if !sexpr.HeadIs(v, head) {
		return nil, clauseError(head, v)
	}
	items, ok := sexpr.Slice(sexpr.Rest(v))
	if !ok {
		return nil, &ParseError{Clause: head, Detail: "improper list"}
	}
	return items, nil
}

// namedClause reads (head name).
func namedClause(v sexpr.Value, head string) (string, error) {
	if !sexpr.HeadIs(v, head) || sexpr.Len(v) != 2 {
		return "", clauseError(head, v)
	}
	name, ok := sexpr.First(sexpr.Rest(v)).(sexpr.Atom)
	if !ok {
		return "", &ParseError{Clause: head, Detail: fmt.Sprintf("expected a name, got %s", v)}
	}
	return string(name), nil
}

func symbols(v sexpr.Value, clause string) ([]string, error) {
	items, ok := sexpr.Slice(v)
	if !ok {
		return nil, &ParseError{Clause: clause, Detail: "improper list"}
	}
	out := make([]string, 0, len(items))
	for _, item := range items {
		a, ok := item.(sexpr.Atom)
		if !ok {
			return nil, &ParseError{Clause: clause, Detail: fmt.Sprintf("expected a symbol, got %s", item)}
		}
		out = append(out, string(a))
	}
	return out, nil
}

func action(v sexpr.Value) (*strips.Action, error) {
	items, err := clauses(v, ":action")
	if err != nil {
		return nil, err
	}
	if len(items) != 7 {
		return nil, &ParseError{Clause: ":action", Detail: fmt.Sprintf("expected name, :parameters, :precondition and :effect in %s", v)}
	}
	name, ok := items[0].(sexpr.Atom)
	if !ok {
		return nil, &ParseError{Clause: ":action", Detail: fmt.Sprintf("expected a name, got %s", items[0])}
	}
	for i, label := range []string{":parameters", ":precondition", ":effect"} {
		if a, ok := items[1+2*i].(sexpr.Atom); !ok || string(a) != label {
			return nil, &ParseError{Clause: ":action", Detail: fmt.Sprintf("no %s clause in %s", label, v)}
		}
	}
	params, err := symbols(items[2], ":parameters")
	if err != nil {
		return nil, err
	}
	pre, err := condition(items[4], ":precondition")
	if err != nil {
		return nil, err
	}
	eff, err := condition(items[6], ":effect")
	if err != nil {
		return nil, err
	}
	return strips.NewAction(string(name), params, pre, eff)
}

// condition reads a single literal, (and literal...), or ().
func condition(v sexpr.Value, clause string) ([]strips.Predicate, error) {
	switch {
	case sexpr.IsEmpty(v):
		return nil, nil
	case sexpr.HeadIs(v, "and"):
		return literals(sexpr.Rest(v), clause)
	default:
		p, err := literal(v, clause)
		if err != nil {
			return nil, err
		}
		return []strips.Predicate{p}, nil
	}
}

func literals(v sexpr.Value, clause string) ([]strips.Predicate, error) {
	items, ok := sexpr.Slice(v)
	if !ok {
		return nil, &ParseError{Clause: clause, Detail: "improper list"}
	}
	out := make([]strips.Predicate, 0, len(items))
	for _, item := range items {
		p, err := literal(item, clause)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, nil
}

// literal reads (name arg...) or (not (name arg...)).
func literal(v sexpr.Value, clause string) (strips.Predicate, error) {
	if sexpr.HeadIs(v, "not") {
		if sexpr.Len(v) != 2 {
			return strips.Predicate{}, &ParseError{Clause: clause, Detail: fmt.Sprintf("malformed negation %s", v)}
		}
		p, err := literal(sexpr.First(sexpr.Rest(v)), clause)
		if err != nil {
			return strips.Predicate{}, err
		}
		if p.IsNegated() {
			return strips.Predicate{}, &ParseError{Clause: clause, Detail: fmt.Sprintf("double negation %s", v)}
		}
		return p.Negated(), nil
	}
	syms, err := symbols(v, clause)
	if err != nil || len(syms) == 0 {
		return strips.Predicate{}, &ParseError{Clause: clause, Detail: fmt.Sprintf("expected a literal, got %s", v)}
	}
	return strips.NewPredicate(syms[0], syms[1:]...), nil
}
