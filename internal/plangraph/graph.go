// Package plangraph builds delete-relaxed planning graphs and extracts
// relaxed plans from them.
//
// A Graph expands the start state level by level: each level holds the ground
// actions applicable in the current relaxed state that no earlier level used,
// and the next state is the current one plus all of their positive effects.
// Expansion stops when the positive goal literals hold, or when a level makes
// no progress. Negated goal literals are dropped along with delete effects.
// The first action to add each fact is recorded, and a relaxed plan is
// recovered by chaining backwards from the goal through those first adders.
// Its length is a distance estimate for search.
package plangraph

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/joeycumines/go-strips/internal/strips"
)

var (
	// ErrUnreachable is returned when extracting a plan from a graph that hit
	// a fixed point without satisfying its goal.
	ErrUnreachable = errors.New("plangraph: goal unreachable under relaxation")

	// ErrCacheDomainMismatch is returned by New when given a cache bound to a
	// different domain.
	ErrCacheDomainMismatch = errors.New("plangraph: cache belongs to a different domain")
)

// Option configures New.
type Option func(*options)

type options struct {
	ctx   context.Context
	cache *Cache
}

// WithCache replays and records levels through c, which must be bound to the
// graph's domain.
func WithCache(c *Cache) Option {
	return func(o *options) { o.cache = c }
}

// WithContext makes construction stop with ctx's error, checked between
// levels.
func WithContext(ctx context.Context) Option {
	return func(o *options) { o.ctx = ctx }
}

// Graph is a delete-relaxed reachability graph from a start state toward a
// goal. It is immutable once built.
type Graph struct {
	domain      *strips.Domain
	start       strips.State
	goal        strips.Conjunction
	levels      [][]*strips.Action
	states      []strips.State
	firstAdders map[string]*strips.Action
	reached     bool
}

// New expands the graph for the positive literals of goal from start over the
// actions of d.
func New(d *strips.Domain, start strips.State, goal strips.Conjunction, opts ...Option) (*Graph, error) {
	g := &Graph{
		domain:      d,
		start:       start,
		goal:        goal,
		firstAdders: make(map[string]*strips.Action),
	}
	facts := strips.NewConjunction(goal.Positive()...)
	if err := g.build(func(s strips.State) bool { return s.AllGoalsMet(facts) }, opts); err != nil {
		return nil, err
	}
	return g, nil
}

// Reachable returns every fact reachable from start when delete effects are
// ignored.
func Reachable(d *strips.Domain, start strips.State, opts ...Option) (strips.State, error) {
	g := &Graph{domain: d, start: start, firstAdders: make(map[string]*strips.Action)}
	if err := g.build(func(strips.State) bool { return false }, opts); err != nil {
		return strips.State{}, err
	}
	return g.states[len(g.states)-1], nil
}

func (g *Graph) build(done func(strips.State) bool, opts []Option) error {
	o := options{ctx: context.Background()}
	for _, opt := range opts {
		opt(&o)
	}
	if o.cache != nil && o.cache.Domain() != g.domain {
		return fmt.Errorf("%w: cache for %s, graph for %s", ErrCacheDomainMismatch, o.cache.Domain().Name(), g.domain.Name())
	}

	used := make(map[string]struct{})
	current := g.start
	g.states = append(g.states, current)
	for !done(current) {
		if err := o.ctx.Err(); err != nil {
			return err
		}
		next, err := g.addLevel(current, used, o.cache)
		if err != nil {
			return err
		}
		g.states = append(g.states, next)
		if next.Equal(current) {
			g.reached = false
			return nil
		}
		current = next
	}
	g.reached = true
	return nil
}

// addLevel appends the level expanded from current and returns the next
// state.
func (g *Graph) addLevel(current strips.State, used map[string]struct{}, cache *Cache) (strips.State, error) {
	var (
		candidates []*strips.Action
		next       strips.State
		cached     bool
	)
	if cache != nil {
		var l level
		if l, cached = cache.get(current.Key()); cached {
			candidates, next = l.actions, l.next
		}
	}
	if !cached {
		var err error
		if candidates, err = g.domain.MakeInstantiatedActions(current); err != nil {
			return strips.State{}, err
		}
	}

	var adds []strips.Predicate
	lvl := make([]*strips.Action, 0, len(candidates))
	for _, act := range candidates {
		if _, ok := used[act.Key()]; ok {
			continue
		}
		used[act.Key()] = struct{}{}
		lvl = append(lvl, act)
		for _, p := range act.AddEffects() {
			if _, ok := g.firstAdders[p.Key()]; !ok {
				g.firstAdders[p.Key()] = act
			}
			adds = append(adds, p)
		}
	}
	g.levels = append(g.levels, lvl)

	if !cached {
		// actions filtered by used added their facts at an earlier level
		next = current.Apply(adds...)
		if cache != nil {
			cache.put(current.Key(), level{actions: candidates, next: next})
		}
	}
	slog.Debug("plangraph level",
		"level", len(g.levels),
		"width", len(lvl),
		"facts", next.Len(),
		"cached", cached)
	return next, nil
}

// Domain returns the domain the graph was built over.
func (g *Graph) Domain() *strips.Domain { return g.domain }

// Start returns the start state.
func (g *Graph) Start() strips.State { return g.start }

// Goal returns the goal.
func (g *Graph) Goal() strips.Conjunction { return g.goal }

// Reached reports whether the positive goal literals hold in the final level.
func (g *Graph) Reached() bool { return g.reached }

// Depth returns the number of levels.
func (g *Graph) Depth() int { return len(g.levels) }

// Levels returns the actions of each level, in expansion order.
func (g *Graph) Levels() [][]*strips.Action {
	out := make([][]*strips.Action, len(g.levels))
	for i, l := range g.levels {
		out[i] = slices.Clone(l)
	}
	return out
}

// LevelStates returns the relaxed state before each level, followed by the
// final state.
func (g *Graph) LevelStates() []strips.State { return slices.Clone(g.states) }

// FirstAdder returns the first action whose positive effects include p.
func (g *Graph) FirstAdder(p strips.Predicate) (*strips.Action, bool) {
	a, ok := g.firstAdders[p.Key()]
	return a, ok
}

// RelaxedPlan chains backwards from the positive goal literals: each fact not
// true in the start state contributes its first adder, whose preconditions
// are then chained in turn. A fact needed more than once contributes its
// adder more than once.
func (g *Graph) RelaxedPlan() (*strips.Plan, error) {
	if !g.reached {
		return nil, ErrUnreachable
	}
	var (
		queue = slices.Clone(g.goal.Positive())
		stack []*strips.Action
	)
	for len(queue) != 0 {
		p := queue[0]
		queue = queue[1:]
		if g.start.PredIsTrue(p) {
			continue
		}
		act, ok := g.firstAdders[p.Key()]
		if !ok {
			return nil, fmt.Errorf("%w: no adder for %s", ErrUnreachable, p)
		}
		stack = append(stack, act)
		queue = append(queue, act.Preconditions().Predicates()...)
	}
	plan := strips.NewNoDeletePlan()
	for i := len(stack) - 1; i >= 0; i-- {
		plan.Append(stack[i])
	}
	return plan, nil
}

// CompactRelaxedPlan is RelaxedPlan with each fact chained once and the
// resulting actions ordered by the level that used them. The result is
// always legal as a no-delete plan from the start state.
func (g *Graph) CompactRelaxedPlan() (*strips.Plan, error) {
	if !g.reached {
		return nil, ErrUnreachable
	}
	var (
		queue  = slices.Clone(g.goal.Positive())
		seen   = make(map[string]struct{})
		needed = make(map[string]struct{})
	)
	for len(queue) != 0 {
		p := queue[0]
		queue = queue[1:]
		if _, ok := seen[p.Key()]; ok || g.start.PredIsTrue(p) {
			continue
		}
		seen[p.Key()] = struct{}{}
		act, ok := g.firstAdders[p.Key()]
		if !ok {
			return nil, fmt.Errorf("%w: no adder for %s", ErrUnreachable, p)
		}
		if _, ok := needed[act.Key()]; ok {
			continue
		}
		needed[act.Key()] = struct{}{}
		queue = append(queue, act.Preconditions().Predicates()...)
	}
	plan := strips.NewNoDeletePlan()
	for _, lvl := range g.levels {
		for _, act := range lvl {
			if _, ok := needed[act.Key()]; ok {
				plan.Append(act)
			}
		}
	}
	return plan, nil
}
