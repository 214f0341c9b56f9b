package strips

import "slices"

// Problem is a planning instance: a start state and a goal within a domain.
type Problem struct {
	name    string
	domain  string
	objects []string
	start   State
	goal    Conjunction
}

// NewProblem constructs a problem referencing the domain called domain.
func NewProblem(name, domain string, objects []string, start State, goal Conjunction) *Problem {
	return &Problem{
		name:    name,
		domain:  domain,
		objects: slices.Clone(objects),
		start:   start,
		goal:    goal,
	}
}

func (p *Problem) Name() string       { return p.name }
func (p *Problem) DomainName() string { return p.domain }
func (p *Problem) Objects() []string  { return slices.Clone(p.objects) }
func (p *Problem) Start() State       { return p.start }
func (p *Problem) Goal() Conjunction  { return p.goal }

// GoalsMet reports whether s satisfies the goal.
func (p *Problem) GoalsMet(s State) bool { return s.AllGoalsMet(p.goal) }

// NumGoals returns the number of goal literals.
func (p *Problem) NumGoals() int { return p.goal.Len() }
