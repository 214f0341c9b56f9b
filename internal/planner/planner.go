// Package planner finds plans by best-first search over world states.
//
// Each search node is a Step; its successors are the states reached by the
// legal ground actions of the domain. A named heuristic guides the search,
// and the generating actions along the solution path form the plan.
package planner

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/joeycumines/go-strips/internal/plangraph"
	"github.com/joeycumines/go-strips/internal/search"
	"github.com/joeycumines/go-strips/internal/strips"
)

var (
	// ErrNoPlan is returned when the search ends without reaching the goal,
	// either because the reachable states are exhausted or because the node
	// budget ran out. It wraps the search error that ended the run.
	ErrNoPlan = errors.New("planner: no plan")

	// ErrDomainMismatch is returned for a problem naming a different domain.
	ErrDomainMismatch = errors.New("planner: problem is for a different domain")
)

// Planner holds search settings. It is safe for concurrent use; every
// MakePlan call gets its own plan graph cache.
type Planner struct {
	heuristic string
	priority  *search.Priority
	maxNodes  int
	timeout   time.Duration
	cacheSize int
}

// Option configures a Planner.
type Option func(*Planner)

// WithHeuristic selects a heuristic by name, see Heuristics.
func WithHeuristic(name string) Option {
	return func(p *Planner) { p.heuristic = name }
}

// WithPriority orders the frontier by prio instead of search.DefaultPriority.
func WithPriority(prio *search.Priority) Option {
	return func(p *Planner) { p.priority = prio }
}

// WithMaxNodes bounds the number of expanded nodes. Zero means unbounded.
func WithMaxNodes(n int) Option {
	return func(p *Planner) { p.maxNodes = n }
}

// WithTimeout bounds the duration of each MakePlan call.
func WithTimeout(d time.Duration) Option {
	return func(p *Planner) { p.timeout = d }
}

// WithCacheSize sets the capacity of the per-call plan graph cache.
func WithCacheSize(n int) Option {
	return func(p *Planner) { p.cacheSize = n }
}

// New returns a Planner, failing for an unknown heuristic.
func New(opts ...Option) (*Planner, error) {
	p := &Planner{heuristic: DefaultHeuristic, cacheSize: plangraph.DefaultCacheSize}
	for _, opt := range opts {
		opt(p)
	}
	if !IsHeuristic(p.heuristic) {
		return nil, fmt.Errorf("%w %q (want one of %v)", ErrUnknownHeuristic, p.heuristic, Heuristics())
	}
	if p.maxNodes < 0 {
		return nil, fmt.Errorf("planner: negative node limit %d", p.maxNodes)
	}
	return p, nil
}

// Heuristic returns the configured heuristic name.
func (p *Planner) Heuristic() string { return p.heuristic }

// MakePlan searches for a plan solving prob in d. Search statistics are
// returned with every result, including failures.
func (p *Planner) MakePlan(ctx context.Context, d *strips.Domain, prob *strips.Problem) (*strips.Plan, search.Stats, error) {
	if prob.DomainName() != "" && prob.DomainName() != d.Name() {
		return nil, search.Stats{}, fmt.Errorf("%w: problem %s wants %s, got %s", ErrDomainMismatch, prob.Name(), prob.DomainName(), d.Name())
	}
	if p.timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, p.timeout)
		defer cancel()
	}

	cache := plangraph.NewCache(d, p.cacheSize)
	h, err := NewHeuristic(ctx, p.heuristic, cache)
	if err != nil {
		return nil, search.Stats{}, err
	}
	opts := []search.Option{search.WithMaxNodes(p.maxNodes)}
	if p.priority != nil {
		opts = append(opts, search.WithPriority(p.priority))
	}

	res, err := search.Solve(ctx, StartStep(d, prob), GoalStep(d, prob), h, opts...)
	size, hits, misses, _ := cache.Stats()
	slog.Debug("planner finished",
		"problem", prob.Name(),
		"heuristic", p.heuristic,
		"nodes", res.Stats.Expanded,
		"cacheSize", size,
		"cacheHits", hits,
		"cacheMisses", misses)
	switch {
	case errors.Is(err, search.ErrNoSolution), errors.Is(err, search.ErrNodeLimit):
		return nil, res.Stats, fmt.Errorf("%w for %s: %w", ErrNoPlan, prob.Name(), err)
	case err != nil:
		return nil, res.Stats, err
	}

	plan := strips.NewPlan()
	for _, step := range res.Path[1:] {
		plan.Append(step.GeneratingAction())
	}
	return plan, res.Stats, nil
}

// MakePlan is New(opts...).MakePlan(ctx, d, prob).
func MakePlan(ctx context.Context, d *strips.Domain, prob *strips.Problem, opts ...Option) (*strips.Plan, search.Stats, error) {
	p, err := New(opts...)
	if err != nil {
		return nil, search.Stats{}, err
	}
	return p.MakePlan(ctx, d, prob)
}
