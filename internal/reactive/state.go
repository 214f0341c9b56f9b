// Package reactive executes STRIPS problems as behavior trees.
//
// A State exposes a grounded problem to go-pabt: every fact is a boolean
// variable keyed by its predicate, and every relaxed-reachable ground action
// is a PA-BT action whose conditions are its precondition literals and whose
// effects are its effect literals. Run grows the tree on demand from the goal
// and ticks it until the goal holds, executing actions against the world
// state as they are reached.
//
// ExecutePlan instead runs a fixed plan as a behavior tree sequence.
package reactive

import (
	"fmt"
	"sync"

	bt "github.com/joeycumines/go-behaviortree"
	pabtpkg "github.com/joeycumines/go-pabt"

	"github.com/joeycumines/go-strips/internal/plangraph"
	"github.com/joeycumines/go-strips/internal/strips"
)

var _ pabtpkg.IState = (*State)(nil)

// State is the world state of a problem being executed, and the catalog of
// ground actions available to the planner.
type State struct {
	domain  *strips.Domain
	problem *strips.Problem
	facts   map[string]strips.Predicate
	actions []*strips.Action

	mu      sync.Mutex
	current strips.State
	trace   []*strips.Action
}

// NewState grounds every action of d whose positive preconditions are
// reachable from the start of p when deletes are ignored.
func NewState(d *strips.Domain, p *strips.Problem) (*State, error) {
	reachable, err := plangraph.Reachable(d, p.Start())
	if err != nil {
		return nil, err
	}
	s := &State{
		domain:  d,
		problem: p,
		facts:   make(map[string]strips.Predicate),
		current: p.Start(),
	}
	for _, f := range reachable.Predicates() {
		s.facts[f.Key()] = f
	}
	for _, g := range p.Goal().Predicates() {
		s.facts[g.Positive().Key()] = g.Positive()
	}
	for _, schema := range d.Actions() {
		acts, err := schema.Groundings(reachable, nil)
		if err != nil {
			return nil, err
		}
		s.actions = append(s.actions, acts...)
	}
	for _, act := range s.actions {
		for _, l := range append(act.PreconditionLiterals(), act.Effects().Predicates()...) {
			s.facts[l.Positive().Key()] = l.Positive()
		}
	}
	return s, nil
}

// Goal is the problem goal as a single PA-BT conjunction.
func (s *State) Goal() []pabtpkg.IConditions {
	return []pabtpkg.IConditions{conditions(s.problem.Goal().Predicates())}
}

// Current returns the world state.
func (s *State) Current() strips.State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.current
}

// Trace returns the actions executed so far.
func (s *State) Trace() *strips.Plan {
	s.mu.Lock()
	defer s.mu.Unlock()
	return strips.NewPlan(s.trace...)
}

// NumActions is the number of ground actions known to the planner.
func (s *State) NumActions() int { return len(s.actions) }

// Variable returns whether the fact keyed by key holds.
func (s *State) Variable(key any) (any, error) {
	k, ok := key.(string)
	if !ok {
		return nil, fmt.Errorf("reactive: invalid key (%T): %+v", key, key)
	}
	f, ok := s.facts[k]
	if !ok {
		return nil, fmt.Errorf("reactive: unknown fact %s", k)
	}
	return s.Current().Contains(f), nil
}

// Actions returns the ground actions with an effect satisfying failed.
func (s *State) Actions(failed pabtpkg.Condition) ([]pabtpkg.IAction, error) {
	c, ok := failed.(*condition)
	if !ok {
		return nil, fmt.Errorf("reactive: invalid condition type (%T): %+v", failed, failed)
	}
	var out []pabtpkg.IAction
	for _, act := range s.actions {
		if act.Effects().Contains(c.literal) {
			out = append(out, &action{state: s, act: act})
		}
	}
	return out, nil
}

func (s *State) execute(act *strips.Action) bt.Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	if !act.IsLegal(s.current) {
		return bt.Failure
	}
	s.current = act.Apply(s.current)
	s.trace = append(s.trace, act)
	return bt.Success
}

// condition is a literal: a fact key and the truth value it needs.
type condition struct{ literal strips.Predicate }

func conditions(literals []strips.Predicate) pabtpkg.IConditions {
	out := make(pabtpkg.IConditions, 0, len(literals))
	for _, l := range literals {
		out = append(out, &condition{literal: l})
	}
	return out
}

func (c *condition) Key() any { return c.literal.Positive().Key() }

func (c *condition) Match(value any) bool {
	v, ok := value.(bool)
	return ok && v == c.literal.IsTrue()
}

func (c *condition) String() string { return c.literal.String() }

type effect struct{ literal strips.Predicate }

func (e *effect) Key() any { return e.literal.Positive().Key() }

func (e *effect) Value() any { return e.literal.IsTrue() }

// action adapts a ground action to PA-BT.
type action struct {
	state *State
	act   *strips.Action
}

func (a *action) Conditions() []pabtpkg.IConditions {
	return []pabtpkg.IConditions{conditions(a.act.PreconditionLiterals())}
}

func (a *action) Effects() pabtpkg.Effects {
	lits := a.act.Effects().Predicates()
	out := make(pabtpkg.Effects, 0, len(lits))
	for _, l := range lits {
		out = append(out, &effect{literal: l})
	}
	return out
}

func (a *action) Node() bt.Node {
	return bt.New(func([]bt.Node) (bt.Status, error) {
		return a.state.execute(a.act), nil
	})
}

func (a *action) String() string { return a.act.String() }
