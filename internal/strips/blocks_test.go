package strips

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func pred(name string, args ...string) Predicate { return NewPredicate(name, args...) }

func not(name string, args ...string) Predicate { return NewNegatedPredicate(name, args...) }

// blocksDomain is the four-operator blocks world.
func blocksDomain(t testing.TB) *Domain {
	t.Helper()
	pickup := MustAction("pickup", []string{"?x"},
		[]Predicate{pred("clear", "?x"), pred("ontable", "?x"), pred("handempty")},
		[]Predicate{pred("holding", "?x"), not("clear", "?x"), not("ontable", "?x"), not("handempty")})
	putdown := MustAction("putdown", []string{"?x"},
		[]Predicate{pred("holding", "?x")},
		[]Predicate{pred("clear", "?x"), pred("ontable", "?x"), pred("handempty"), not("holding", "?x")})
	unstack := MustAction("unstack", []string{"?x", "?y"},
		[]Predicate{pred("on", "?x", "?y"), pred("clear", "?x"), pred("handempty")},
		[]Predicate{pred("holding", "?x"), pred("clear", "?y"), not("on", "?x", "?y"), not("clear", "?x"), not("handempty")})
	d, err := NewDomain("blocks", []string{":strips"},
		[]Signature{
			{Name: "on", Args: []string{"?x", "?y"}},
			{Name: "ontable", Args: []string{"?x"}},
			{Name: "clear", Args: []string{"?x"}},
			{Name: "holding", Args: []string{"?x"}},
			{Name: "handempty"},
		},
		[]*Action{pickup, putdown, stackAction(), unstack})
	require.NoError(t, err)
	return d
}

// tableDomain is a pick-up/stack pair where the table is a constant.
func tableDomain(t testing.TB) *Domain {
	t.Helper()
	pickup := MustAction("pickup", []string{"?x"},
		[]Predicate{pred("clear", "?x"), pred("on", "?x", "table"), pred("handempty")},
		[]Predicate{pred("holding", "?x"), not("clear", "?x"), not("on", "?x", "table"), not("handempty")})
	d, err := NewDomain("table", []string{":strips"}, nil, []*Action{pickup, stackAction()})
	require.NoError(t, err)
	return d
}

func stackAction() *Action {
	return MustAction("stack", []string{"?x", "?y"},
		[]Predicate{pred("holding", "?x"), pred("clear", "?y")},
		[]Predicate{pred("on", "?x", "?y"), pred("clear", "?x"), pred("handempty"), not("holding", "?x"), not("clear", "?y")})
}

func twoBlocksProblem() *Problem {
	start := NewState(
		pred("on", "a", "table"),
		pred("on", "b", "table"),
		pred("clear", "a"),
		pred("clear", "b"),
		pred("handempty"),
	)
	return NewProblem("two", "table", []string{"a", "b"}, start, NewConjunction(pred("on", "a", "b")))
}

func actionKeys(acts []*Action) []string {
	out := make([]string, len(acts))
	for i, a := range acts {
		out[i] = a.Key()
	}
	return out
}

func predicateKeys(preds []Predicate) []string {
	out := make([]string, len(preds))
	for i, p := range preds {
		out[i] = p.Key()
	}
	return out
}
