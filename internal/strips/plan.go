package strips

import (
	"errors"
	"fmt"
	"slices"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Plan is an ordered sequence of ground actions.
//
// A no-delete plan applies only the positive effects of each step, which is
// the semantics of relaxed plans extracted from a plan graph.
type Plan struct {
	steps    []*Action
	noDelete bool
}

// NewPlan returns a plan over steps. Nil steps are skipped.
func NewPlan(steps ...*Action) *Plan {
	p := &Plan{}
	for _, s := range steps {
		p.Append(s)
	}
	return p
}

// NewNoDeletePlan is NewPlan for the delete-relaxed semantics.
func NewNoDeletePlan(steps ...*Action) *Plan {
	p := NewPlan(steps...)
	p.noDelete = true
	return p
}

// IsNoDelete reports whether steps apply only their positive effects.
func (p *Plan) IsNoDelete() bool { return p.noDelete }

// Append adds act as the final step. A nil act is ignored.
func (p *Plan) Append(act *Action) {
	if act != nil {
		p.steps = append(p.steps, act)
	}
}

// Len returns the number of steps.
func (p *Plan) Len() int { return len(p.steps) }

// Step returns the i'th step.
func (p *Plan) Step(i int) *Action { return p.steps[i] }

// Steps returns the steps in execution order.
func (p *Plan) Steps() []*Action { return slices.Clone(p.steps) }

// Contains reports whether an equal action is one of the steps.
func (p *Plan) Contains(act *Action) bool {
	return slices.ContainsFunc(p.steps, act.Equal)
}

// ApplyAction applies step i to s, without checking legality.
func (p *Plan) ApplyAction(i int, s State) State {
	if p.noDelete {
		return p.steps[i].ApplyAdds(s)
	}
	return p.steps[i].Apply(s)
}

// Check applies every step from start, verifying legality before each. It
// returns the final state, or an IllegalStepError for the first illegal step.
func (p *Plan) Check(start State) (State, error) {
	current := start
	for i, step := range p.steps {
		if !step.IsLegal(current) {
			return State{}, &IllegalStepError{Index: i, Action: step, Unmet: step.Unmet(current)}
		}
		current = p.ApplyAction(i, current)
	}
	return current, nil
}

// FinalState returns the state reached from start, and false if some step is
// illegal at the point it is applied.
func (p *Plan) FinalState(start State) (State, bool) {
	s, err := p.Check(start)
	return s, err == nil
}

// IsLegal reports whether every step applies legally from start.
func (p *Plan) IsLegal(start State) bool {
	_, ok := p.FinalState(start)
	return ok
}

// IsValid reports whether the plan is legal from the problem's start and
// reaches a state satisfying its goal.
func (p *Plan) IsValid(prob *Problem) bool {
	s, ok := p.FinalState(prob.Start())
	return ok && prob.GoalsMet(s)
}

// UnachievedGoals returns the goal literals unmet in the final state. It
// returns nil for an illegal plan; check IsLegal to tell the cases apart.
func (p *Plan) UnachievedGoals(prob *Problem) []Predicate {
	s, ok := p.FinalState(prob.Start())
	if !ok {
		return nil
	}
	return s.UnmetGoals(prob.Goal())
}

// Report describes the legality and validity of the plan for prob.
func (p *Plan) Report(prob *Problem) string {
	var ise *IllegalStepError
	if _, err := p.Check(prob.Start()); errors.As(err, &ise) {
		return fmt.Sprintf("Action %s is illegal; unmet preconditions: %s",
			ise.Action.NameAndParams(), formatPredicates(ise.Unmet))
	}
	if p.IsValid(prob) {
		return "Plan is legal, and goals are met."
	}
	return "Plan is legal, but goals are not met."
}

// String renders one "(name obj...)" line per step, each newline terminated.
func (p *Plan) String() string {
	var b strings.Builder
	for _, s := range p.steps {
		b.WriteString(s.NameAndParams())
		b.WriteByte('\n')
	}
	return b.String()
}

// ParsePlan reads the text form produced by Plan.String, instantiating each
// line against d. Blank lines are skipped and input is case folded.
func ParsePlan(text string, d *Domain) (*Plan, error) {
	return parsePlan(text, d, NewPlan())
}

// ParseNoDeletePlan is ParsePlan producing a no-delete plan.
func ParseNoDeletePlan(text string, d *Domain) (*Plan, error) {
	return parsePlan(text, d, NewNoDeletePlan())
}

func parsePlan(text string, d *Domain, plan *Plan) (*Plan, error) {
	lower := cases.Lower(language.Und)
	for n, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		if !strings.HasPrefix(line, "(") || !strings.HasSuffix(line, ")") {
			return nil, fmt.Errorf("plan line %d: expected (name objects...), got %q", n+1, line)
		}
		fields := strings.Fields(lower.String(line[1 : len(line)-1]))
		if len(fields) == 0 {
			return nil, fmt.Errorf("plan line %d: missing action name", n+1)
		}
		act, err := d.Instantiate(fields[0], fields[1:]...)
		if err != nil {
			return nil, fmt.Errorf("plan line %d: %w", n+1, err)
		}
		plan.Append(act)
	}
	return plan, nil
}
