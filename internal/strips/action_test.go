package strips

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewActionValidation(t *testing.T) {
	_, err := NewAction("dup", []string{"?x", "?x"}, nil, nil)
	require.ErrorIs(t, err, ErrMalformedSchema)

	_, err = NewAction("undeclared", []string{"?x"},
		[]Predicate{pred("clear", "?x")},
		[]Predicate{pred("on", "?x", "?y")})
	require.ErrorIs(t, err, ErrMalformedSchema)
	var se *SchemaError
	require.ErrorAs(t, err, &se)
	assert.Equal(t, "undeclared", se.Action)
	assert.Contains(t, se.Detail, "?y")

	_, err = NewAction("constant", []string{"?x"},
		[]Predicate{pred("on", "?x", "table")}, nil)
	require.NoError(t, err)
}

func TestGroundingPickupFromStart(t *testing.T) {
	d := tableDomain(t)
	start := twoBlocksProblem().Start()

	pickup, ok := d.Action("pickup")
	require.True(t, ok)
	acts, err := pickup.AllInstantiationsOf(start)
	require.NoError(t, err)
	assert.Equal(t, []string{"(pickup a)", "(pickup b)"}, actionKeys(acts))

	all, err := d.MakeInstantiatedActions(start)
	require.NoError(t, err)
	assert.Equal(t, []string{"(pickup a)", "(pickup b)"}, actionKeys(all))
}

func TestGroundingIsLegalAndFullyBound(t *testing.T) {
	d := blocksDomain(t)
	states := []State{
		NewState(pred("ontable", "a"), pred("ontable", "b"), pred("clear", "a"), pred("clear", "b"), pred("handempty")),
		NewState(pred("holding", "a"), pred("clear", "b"), pred("ontable", "b"), pred("clear", "c"), pred("ontable", "c")),
		NewState(pred("on", "a", "b"), pred("ontable", "b"), pred("clear", "a"), pred("handempty")),
	}
	for _, s := range states {
		acts, err := d.MakeInstantiatedActions(s)
		require.NoError(t, err)
		require.NotEmpty(t, acts)
		for _, a := range acts {
			assert.True(t, a.IsLegal(s), "%s in %s", a, s)
			assert.False(t, a.AnyUnbound(nil), a.String())
		}
	}
}

func TestGroundingIsComplete(t *testing.T) {
	d := blocksDomain(t)
	stack, _ := d.Action("stack")
	want, err := stack.BindObjects("a", "b")
	require.NoError(t, err)

	// exactly the facts the instance needs
	s := NewState(want.Preconditions().Predicates()...)
	acts, err := stack.AllInstantiationsOf(s)
	require.NoError(t, err)
	require.Len(t, acts, 1)
	assert.True(t, acts[0].Equal(want))
}

func TestGroundingStackAfterPickup(t *testing.T) {
	d := blocksDomain(t)
	s := NewState(pred("holding", "a"), pred("clear", "b"), pred("clear", "c"))
	stack, _ := d.Action("stack")

	acts, err := stack.AllInstantiationsOf(s)
	require.NoError(t, err)
	if diff := cmp.Diff([]string{"(stack a b)", "(stack a c)"}, actionKeys(acts)); diff != "" {
		t.Errorf("instantiations mismatch (-want +got):\n%s", diff)
	}
}

func TestGroundingWithSeed(t *testing.T) {
	d := tableDomain(t)
	pickup, _ := d.Action("pickup")
	acts, err := pickup.AllInstantiationsFrom(twoBlocksProblem().Start(), Binding{"?x": "b"})
	require.NoError(t, err)
	assert.Equal(t, []string{"(pickup b)"}, actionKeys(acts))
}

func TestGroundingConstantsAreNotRebound(t *testing.T) {
	fromTable := MustAction("lift", []string{"?x"},
		[]Predicate{pred("on", "?x", "table")},
		[]Predicate{not("on", "?x", "table")})
	s := NewState(pred("on", "a", "table"), pred("on", "b", "c"))

	cands, err := fromTable.Groundings(s, nil)
	require.NoError(t, err)
	assert.Equal(t, []string{"(lift a)"}, actionKeys(cands))
}

func TestGroundingNegativePrecondition(t *testing.T) {
	lift := MustAction("lift", []string{"?x"},
		[]Predicate{pred("clear", "?x"), not("heavy", "?x")},
		[]Predicate{pred("holding", "?x")})
	s := NewState(pred("clear", "a"), pred("clear", "b"), pred("heavy", "b"))

	cands, err := lift.Groundings(s, nil)
	require.NoError(t, err)
	assert.Len(t, cands, 2)

	acts, err := lift.AllInstantiationsOf(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"(lift a)"}, actionKeys(acts))
}

func TestGroundingUnboundParameterFails(t *testing.T) {
	bad := MustAction("bad", []string{"?x", "?y"},
		[]Predicate{pred("clear", "?x")},
		[]Predicate{pred("on", "?x", "?y")})

	_, err := bad.AllInstantiationsOf(NewState(pred("clear", "a")))
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnboundParameters))
	var ue *UnboundError
	require.ErrorAs(t, err, &ue)
	assert.Equal(t, []string{"?y"}, ue.Unbound)

	// no candidate bindings at all is not an error
	acts, err := bad.AllInstantiationsOf(NewState())
	require.NoError(t, err)
	assert.Empty(t, acts)
}

func TestGroundingRepeatedParameter(t *testing.T) {
	touch := MustAction("touch", []string{"?x"},
		[]Predicate{pred("p", "?x", "?x"), pred("q", "?x")},
		[]Predicate{pred("touched", "?x")})
	s := NewState(pred("p", "a", "a"), pred("p", "a", "b"), pred("q", "a"), pred("q", "b"))

	acts, err := touch.AllInstantiationsOf(s)
	require.NoError(t, err)
	assert.Equal(t, []string{"(touch a)"}, actionKeys(acts))
}

func TestActionBind(t *testing.T) {
	d := blocksDomain(t)
	stack, _ := d.Action("stack")

	partial := stack.Bind(Binding{"?x": "a"})
	assert.Equal(t, "(stack a ?y)", partial.Key())
	assert.True(t, partial.AnyUnbound(nil))
	assert.Equal(t, []string{"?y"}, partial.StillUnbound(nil))
	assert.False(t, partial.AnyUnbound(Binding{"?y": "b"}))

	full := partial.Bind(Binding{"?y": "b"})
	assert.Equal(t, "(stack a b)", full.Key())
	assert.True(t, full.HasPrecondition(pred("holding", "a")))
	assert.True(t, full.Adds(pred("on", "a", "b")))
	assert.True(t, full.Deletes(pred("clear", "b")))
	assert.True(t, full.Adds(not("holding", "a")))

	// grounding a partially bound action completes the remaining parameter
	acts, err := partial.AllInstantiationsOf(NewState(pred("holding", "a"), pred("clear", "b"), pred("clear", "c")))
	require.NoError(t, err)
	assert.Equal(t, []string{"(stack a b)", "(stack a c)"}, actionKeys(acts))

	// the schema is unchanged
	assert.Equal(t, "(stack ?x ?y)", stack.Key())
}

func TestActionBindObjects(t *testing.T) {
	d := blocksDomain(t)
	stack, _ := d.Action("stack")

	_, err := stack.BindObjects("a")
	require.ErrorIs(t, err, ErrArity)

	act, err := d.Instantiate("stack", "a", "b")
	require.NoError(t, err)
	assert.Equal(t, "(stack a b)", act.String())

	_, err = d.Instantiate("fly", "a")
	require.ErrorIs(t, err, ErrUnknownAction)
}

func TestActionBindingsFrom(t *testing.T) {
	d := blocksDomain(t)
	unstack, _ := d.Action("unstack")

	b, err := unstack.BindingsFrom(pred("on", "a", "b"))
	require.NoError(t, err)
	assert.Equal(t, Binding{"?x": "a", "?y": "b"}, b)

	_, err = unstack.BindingsFrom(pred("holding", "a"))
	require.ErrorIs(t, err, ErrPreconditionNotFound)
}

func TestActionInverse(t *testing.T) {
	d := blocksDomain(t)
	stack, _ := d.Instantiate("stack", "a", "b")
	unstack, _ := d.Instantiate("unstack", "a", "b")
	pickup, _ := d.Instantiate("pickup", "a")

	assert.True(t, stack.IsInverseOf(unstack))
	assert.True(t, unstack.IsInverseOf(stack))
	assert.False(t, stack.IsInverseOf(pickup))
}

func TestActionMatchesAndOrdering(t *testing.T) {
	d := blocksDomain(t)
	ab, _ := d.Instantiate("stack", "a", "b")
	ba, _ := d.Instantiate("stack", "b", "a")
	ab2, _ := d.Instantiate("stack", "a", "b")
	pick, _ := d.Instantiate("pickup", "a")

	assert.True(t, ab.Matches(ba))
	assert.False(t, ab.Matches(pick))
	assert.Equal(t, Binding{"a": "b", "b": "a"}, ab.BindingsFor(ba))

	assert.True(t, ab.Equal(ab2))
	assert.Negative(t, ab.Compare(ba))
	assert.Negative(t, pick.Compare(ab))
	assert.False(t, ab.Equal(nil))
}

func TestActionApply(t *testing.T) {
	d := tableDomain(t)
	start := twoBlocksProblem().Start()
	pickup, _ := d.Instantiate("pickup", "a")

	next := pickup.Apply(start)
	assert.Equal(t, []string{"(clear b)", "(holding a)", "(on b table)"}, predicateKeys(next.Predicates()))

	relaxed := pickup.ApplyAdds(start)
	assert.True(t, relaxed.ContainsAll(start))
	assert.True(t, relaxed.Contains(pred("holding", "a")))
}
