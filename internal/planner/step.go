package planner

import (
	"github.com/joeycumines/go-strips/internal/search"
	"github.com/joeycumines/go-strips/internal/strips"
)

// Step is a search node: a world state, and the action that produced it
// from its parent. Steps with equal states are the same node.
type Step struct {
	state     strips.State
	goal      strips.Conjunction
	domain    *strips.Domain
	problem   *strips.Problem
	generator *strips.Action
}

var _ search.Node[*Step] = (*Step)(nil)

// StartStep is the node for the problem's start state.
func StartStep(d *strips.Domain, p *strips.Problem) *Step {
	return &Step{state: p.Start(), domain: d, problem: p}
}

// GoalStep is the target node for the problem. Its goal may contain
// negative literals, so it carries the conjunction rather than a state.
func GoalStep(d *strips.Domain, p *strips.Problem) *Step {
	return &Step{state: strips.NewState(p.Goal().Positive()...), goal: p.Goal(), domain: d, problem: p}
}

func (s *Step) State() strips.State { return s.state }

// Goal is the goal conjunction of a GoalStep, empty otherwise.
func (s *Step) Goal() strips.Conjunction { return s.goal }

func (s *Step) Domain() *strips.Domain { return s.domain }

func (s *Step) Problem() *strips.Problem { return s.problem }

// GeneratingAction is nil for the start node.
func (s *Step) GeneratingAction() *strips.Action { return s.generator }

// Successors applies each legal ground action in the domain.
func (s *Step) Successors() ([]*Step, error) {
	acts, err := s.domain.MakeInstantiatedActions(s.state)
	if err != nil {
		return nil, err
	}
	out := make([]*Step, 0, len(acts))
	for _, act := range acts {
		out = append(out, &Step{
			state:     act.Apply(s.state),
			domain:    s.domain,
			problem:   s.problem,
			generator: act,
		})
	}
	return out, nil
}

// Achieves reports whether every literal of goal's conjunction holds.
func (s *Step) Achieves(goal *Step) bool { return s.state.AllGoalsMet(goal.goal) }

func (s *Step) Key() string { return s.state.Key() }

func (s *Step) String() string {
	out := "PlanStep;State:" + s.state.String()
	if s.generator != nil {
		out += ";Generator:" + s.generator.NameAndParams()
	}
	return out
}
