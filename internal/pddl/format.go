package pddl

import (
	"github.com/joeycumines/go-strips/internal/sexpr"
	"github.com/joeycumines/go-strips/internal/strips"
)

// FormatDomain renders d in the form accepted by ReadDomain.
func FormatDomain(d *strips.Domain) string { return sexpr.Format(DomainValue(d)) }

// FormatProblem renders p in the form accepted by ReadProblem.
func FormatProblem(p *strips.Problem) string { return sexpr.Format(ProblemValue(p)) }

// DomainValue converts d to its description.
func DomainValue(d *strips.Domain) sexpr.Value {
	preds := []sexpr.Value{sexpr.Atom(":predicates")}
	for _, sig := range d.Predicates() {
		preds = append(preds, sexpr.Atoms(append([]string{sig.Name}, sig.Args...)...))
	}
	items := []sexpr.Value{
		sexpr.Atom("define"),
		sexpr.Atoms("domain", d.Name()),
		sexpr.Atoms(append([]string{":requirements"}, d.Requirements()...)...),
		sexpr.List(preds...),
	}
	for _, a := range d.Actions() {
		items = append(items, ActionValue(a))
	}
	return sexpr.List(items...)
}

// ActionValue converts a to its (:action ...) description.
func ActionValue(a *strips.Action) sexpr.Value {
	return sexpr.List(
		sexpr.Atom(":action"),
		sexpr.Atom(a.Name()),
		sexpr.Atom(":parameters"),
		sexpr.Atoms(a.Parameters()...),
		sexpr.Atom(":precondition"),
		conditionValue(a.PreconditionLiterals()),
		sexpr.Atom(":effect"),
		conditionValue(a.Effects().Predicates()),
	)
}

// ProblemValue converts p to its description.
func ProblemValue(p *strips.Problem) sexpr.Value {
	init := []sexpr.Value{sexpr.Atom(":init")}
	for _, f := range p.Start().Predicates() {
		init = append(init, LiteralValue(f))
	}
	return sexpr.List(
		sexpr.Atom("define"),
		sexpr.Atoms("problem", p.Name()),
		sexpr.Atoms(":domain", p.DomainName()),
		sexpr.Atoms(append([]string{":objects"}, p.Objects()...)...),
		sexpr.List(init...),
		sexpr.List(sexpr.Atom(":goal"), conditionValue(p.Goal().Predicates())),
	)
}

// LiteralValue converts p to (name args...) or (not (name args...)).
func LiteralValue(p strips.Predicate) sexpr.Value {
	v := sexpr.Atoms(append([]string{p.Name()}, p.Args()...)...)
	if p.IsNegated() {
		return sexpr.List(sexpr.Atom("not"), v)
	}
	return v
}

func conditionValue(preds []strips.Predicate) sexpr.Value {
	switch len(preds) {
	case 0:
		return sexpr.List()
	case 1:
		return LiteralValue(preds[0])
	}
	items := []sexpr.Value{sexpr.Atom("and")}
	for _, p := range preds {
		items = append(items, LiteralValue(p))
	}
	return sexpr.List(items...)
}
