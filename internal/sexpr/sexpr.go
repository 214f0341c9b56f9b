// Package sexpr implements the nested-list text format used by planning
// domain and problem descriptions.
//
// A Value is one of three variants: Atom (a symbol), *Pair (a cons cell) or
// Empty (the empty list). Traversal is a type switch over those variants:
//
//	switch v := v.(type) {
//	case sexpr.Atom:
//	case *sexpr.Pair:
//	case sexpr.Empty:
//	}
package sexpr

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Value is a parsed s-expression. The set of implementations is closed.
type Value interface {
	String() string
	value()
}

// Atom is a bare symbol.
type Atom string

// Pair is a cons cell.
type Pair struct {
	Head Value
	Tail Value
}

// Empty is the empty list, "()".
type Empty struct{}

func (Atom) value()  {}
func (*Pair) value() {}
func (Empty) value() {}

func (a Atom) String() string { return string(a) }

func (Empty) String() string { return "()" }

func (p *Pair) String() string {
	var b strings.Builder
	b.WriteByte('(')
	var cur Value = p
	for first := true; ; first = false {
		cell, ok := cur.(*Pair)
		if !ok {
			break
		}
		if !first {
			b.WriteByte(' ')
		}
		b.WriteString(cell.Head.String())
		if tail, ok := cell.Tail.(Atom); ok {
			b.WriteString(" . ")
			b.WriteString(string(tail))
		}
		cur = cell.Tail
	}
	b.WriteByte(')')
	return b.String()
}

// Cons prepends head to tail.
func Cons(head, tail Value) *Pair { return &Pair{Head: head, Tail: tail} }

// List builds a proper list of values.
func List(values ...Value) Value {
	var result Value = Empty{}
	for i := len(values) - 1; i >= 0; i-- {
		result = Cons(values[i], result)
	}
	return result
}

// Atoms builds a proper list of atoms.
func Atoms(symbols ...string) Value {
	values := make([]Value, len(symbols))
	for i, s := range symbols {
		values[i] = Atom(s)
	}
	return List(values...)
}

// First returns the head of a pair, or Empty for anything else.
func First(v Value) Value {
	if p, ok := v.(*Pair); ok {
		return p.Head
	}
	return Empty{}
}

// Rest returns the tail of a pair, or Empty for anything else.
func Rest(v Value) Value {
	if p, ok := v.(*Pair); ok {
		return p.Tail
	}
	return Empty{}
}

// IsEmpty reports whether v is the empty list.
func IsEmpty(v Value) bool {
	_, ok := v.(Empty)
	return ok
}

// Len returns the number of top-level elements of a list. Atoms have length 0.
func Len(v Value) int {
	n := 0
	for {
		p, ok := v.(*Pair)
		if !ok {
			return n
		}
		n++
		v = p.Tail
	}
}

// Slice returns the elements of a proper list. The boolean is false if v is
// an atom or an improper (dotted) list.
func Slice(v Value) ([]Value, bool) {
	var out []Value
	for {
		switch cell := v.(type) {
		case Empty:
			return out, true
		case *Pair:
			out = append(out, cell.Head)
			v = cell.Tail
		default:
			return out, false
		}
	}
}

// HeadIs reports whether v is a list whose first element is the atom name.
func HeadIs(v Value, name string) bool {
	a, ok := First(v).(Atom)
	return ok && string(a) == name
}

// CountAtoms returns the number of atoms equal to symbol anywhere in v.
func CountAtoms(v Value, symbol string) int {
	switch v := v.(type) {
	case Atom:
		if string(v) == symbol {
			return 1
		}
		return 0
	case *Pair:
		return CountAtoms(v.Head, symbol) + CountAtoms(v.Tail, symbol)
	default:
		return 0
	}
}

// Lower returns a copy of v with every atom case-folded to lower case.
func Lower(v Value) Value {
	return lower(cases.Lower(language.Und), v)
}

func lower(c cases.Caser, v Value) Value {
	switch v := v.(type) {
	case Atom:
		return Atom(c.String(string(v)))
	case *Pair:
		return Cons(lower(c, v.Head), lower(c, v.Tail))
	default:
		return v
	}
}
