package planner

import (
	"context"
	"errors"
	"fmt"
	"slices"

	"github.com/joeycumines/go-strips/internal/plangraph"
	"github.com/joeycumines/go-strips/internal/search"
	"github.com/joeycumines/go-strips/internal/strips"
)

// Heuristic names.
const (
	BreadthFirst       = "breadth-first"
	UnmetGoals         = "unmet-goals"
	RelaxedPlan        = "relaxed-plan"
	RelaxedPlanCompact = "relaxed-plan-compact"
)

// DefaultHeuristic is used when no heuristic is configured.
const DefaultHeuristic = RelaxedPlan

// ErrUnknownHeuristic is returned for a heuristic name not in Heuristics.
var ErrUnknownHeuristic = errors.New("planner: unknown heuristic")

// Heuristic estimates the number of steps from a node to the goal node.
type Heuristic = search.Heuristic[*Step]

// Heuristics lists the heuristic names in a stable order.
func Heuristics() []string {
	return []string{BreadthFirst, UnmetGoals, RelaxedPlan, RelaxedPlanCompact}
}

// NewHeuristic returns the named heuristic. The relaxed plan heuristics build
// their graphs through cache, which must be bound to the domain being
// searched, and stop with ctx's error when it is done.
func NewHeuristic(ctx context.Context, name string, cache *plangraph.Cache) (Heuristic, error) {
	switch name {
	case BreadthFirst:
		return search.Zero[*Step], nil
	case UnmetGoals:
		return unmetGoals, nil
	case RelaxedPlan:
		return relaxedPlan(ctx, cache, (*plangraph.Graph).RelaxedPlan), nil
	case RelaxedPlanCompact:
		return relaxedPlan(ctx, cache, (*plangraph.Graph).CompactRelaxedPlan), nil
	}
	return nil, fmt.Errorf("%w %q (want one of %v)", ErrUnknownHeuristic, name, Heuristics())
}

// IsHeuristic reports whether name is a known heuristic.
func IsHeuristic(name string) bool { return slices.Contains(Heuristics(), name) }

func unmetGoals(node, goal *Step) (int, error) {
	return len(node.state.UnmetGoals(goal.goal)), nil
}

func relaxedPlan(ctx context.Context, cache *plangraph.Cache, extract func(*plangraph.Graph) (*strips.Plan, error)) Heuristic {
	opts := []plangraph.Option{plangraph.WithContext(ctx)}
	if cache != nil {
		opts = append(opts, plangraph.WithCache(cache))
	}
	return func(node, goal *Step) (int, error) {
		g, err := plangraph.New(node.domain, node.state, goal.goal, opts...)
		if err != nil {
			return 0, err
		}
		plan, err := extract(g)
		if errors.Is(err, plangraph.ErrUnreachable) {
			return 0, search.ErrDeadEnd
		}
		if err != nil {
			return 0, err
		}
		return plan.Len(), nil
	}
}
