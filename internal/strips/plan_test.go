package strips

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlanPickupStack(t *testing.T) {
	d := tableDomain(t)
	prob := twoBlocksProblem()

	pickup, err := d.Instantiate("pickup", "a")
	require.NoError(t, err)
	stack, err := d.Instantiate("stack", "a", "b")
	require.NoError(t, err)

	plan := NewPlan(pickup, stack)
	final, ok := plan.FinalState(prob.Start())
	require.True(t, ok)
	assert.True(t, final.Contains(pred("on", "a", "b")))
	assert.True(t, plan.IsLegal(prob.Start()))
	assert.True(t, plan.IsValid(prob))
	assert.Empty(t, plan.UnachievedGoals(prob))
	assert.Equal(t, "Plan is legal, and goals are met.", plan.Report(prob))
	assert.True(t, plan.Contains(stack))
}

func TestPlanIllegalStep(t *testing.T) {
	d := tableDomain(t)
	prob := twoBlocksProblem()
	stack, _ := d.Instantiate("stack", "a", "b")

	plan := NewPlan(stack)
	_, ok := plan.FinalState(prob.Start())
	assert.False(t, ok)
	assert.False(t, plan.IsLegal(prob.Start()))
	assert.False(t, plan.IsValid(prob))
	assert.Nil(t, plan.UnachievedGoals(prob))

	_, err := plan.Check(prob.Start())
	require.ErrorIs(t, err, ErrIllegalStep)
	var ise *IllegalStepError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, 0, ise.Index)
	assert.Equal(t, []string{"(holding a)"}, predicateKeys(ise.Unmet))

	assert.Equal(t, "Action (stack a b) is illegal; unmet preconditions: [(holding a)]", plan.Report(prob))
}

func TestPlanLegalButGoalsUnmet(t *testing.T) {
	d := tableDomain(t)
	prob := twoBlocksProblem()
	pickup, _ := d.Instantiate("pickup", "b")

	plan := NewPlan(pickup)
	assert.True(t, plan.IsLegal(prob.Start()))
	assert.False(t, plan.IsValid(prob))
	assert.Equal(t, []string{"(on a b)"}, predicateKeys(plan.UnachievedGoals(prob)))
	assert.Equal(t, "Plan is legal, but goals are not met.", plan.Report(prob))
}

func TestPlanAppendNil(t *testing.T) {
	plan := NewPlan()
	plan.Append(nil)
	assert.Zero(t, plan.Len())
	assert.True(t, plan.IsLegal(NewState()))
	assert.Empty(t, plan.String())
}

func TestNoDeletePlan(t *testing.T) {
	d := tableDomain(t)
	prob := twoBlocksProblem()
	pa, _ := d.Instantiate("pickup", "a")
	pb, _ := d.Instantiate("pickup", "b")

	// illegal for real: the hand is no longer empty after the first pickup
	assert.False(t, NewPlan(pa, pb).IsLegal(prob.Start()))

	relaxed := NewNoDeletePlan(pa, pb)
	assert.True(t, relaxed.IsNoDelete())
	final, ok := relaxed.FinalState(prob.Start())
	require.True(t, ok)
	assert.True(t, final.ContainsAll(prob.Start()))
	assert.True(t, final.Contains(pred("holding", "a")))
	assert.True(t, final.Contains(pred("holding", "b")))
}

func TestPlanTextRoundTrip(t *testing.T) {
	d := blocksDomain(t)
	var steps []*Action
	for _, args := range [][]string{{"unstack", "c", "a"}, {"putdown", "c"}, {"pickup", "a"}, {"stack", "a", "b"}} {
		act, err := d.Instantiate(args[0], args[1:]...)
		require.NoError(t, err)
		steps = append(steps, act)
	}
	plan := NewPlan(steps...)
	text := plan.String()
	assert.Equal(t, "(unstack c a)\n(putdown c)\n(pickup a)\n(stack a b)\n", text)

	back, err := ParsePlan(text, d)
	require.NoError(t, err)
	require.Equal(t, plan.Len(), back.Len())
	for i := range steps {
		assert.True(t, steps[i].Equal(back.Step(i)), "step %d", i)
	}
	assert.False(t, back.IsNoDelete())

	relaxed, err := ParseNoDeletePlan("\n(PICKUP A)\n\n", d)
	require.NoError(t, err)
	assert.True(t, relaxed.IsNoDelete())
	assert.Equal(t, "(pickup a)\n", relaxed.String())
}

func TestParsePlanZeroArgs(t *testing.T) {
	noop := MustAction("noop", nil, nil, nil)
	d, err := NewDomain("tiny", nil, nil, []*Action{noop})
	require.NoError(t, err)

	plan, err := ParsePlan("(noop)\n(noop)", d)
	require.NoError(t, err)
	assert.Equal(t, 2, plan.Len())
}

func TestParsePlanErrors(t *testing.T) {
	d := blocksDomain(t)
	tests := []struct {
		name string
		text string
		err  error
	}{
		{"unknown action", "(fly a)", ErrUnknownAction},
		{"wrong arity", "(stack a)", ErrArity},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParsePlan(tt.text, d)
			require.ErrorIs(t, err, tt.err)
		})
	}

	_, err := ParsePlan("pickup a", d)
	require.Error(t, err)
	_, err = ParsePlan("()", d)
	require.Error(t, err)
}

func TestNewDomainRejectsDuplicateActions(t *testing.T) {
	_, err := NewDomain("dup", nil, nil, []*Action{stackAction(), stackAction()})
	require.ErrorIs(t, err, ErrMalformedSchema)
}
