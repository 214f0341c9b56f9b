package reactive

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	bt "github.com/joeycumines/go-behaviortree"
	pabtpkg "github.com/joeycumines/go-pabt"

	"github.com/joeycumines/go-strips/internal/strips"
)

// DefaultMaxTicks bounds Run when maxTicks is not positive.
const DefaultMaxTicks = 1000

var (
	// ErrFailed is returned when the tree fails, which happens when no
	// known action can establish some needed condition.
	ErrFailed = errors.New("reactive: execution failed")

	// ErrTickLimit is returned when the goal is not reached in time.
	ErrTickLimit = errors.New("reactive: tick limit reached")
)

// Run builds a PA-BT tree for the goal of state and ticks it until it
// succeeds, at most maxTicks times. It returns the executed actions, which
// are returned on failure too.
func Run(ctx context.Context, state *State, maxTicks int) (*strips.Plan, error) {
	if maxTicks <= 0 {
		maxTicks = DefaultMaxTicks
	}
	plan, err := pabtpkg.INew(state, state.Goal())
	if err != nil {
		return nil, fmt.Errorf("reactive: building tree: %w", err)
	}
	node := plan.Node()
	for tick := 1; tick <= maxTicks; tick++ {
		if err := ctx.Err(); err != nil {
			return state.Trace(), err
		}
		status, err := node.Tick()
		slog.Debug("reactive tick", "tick", tick, "status", status, "executed", state.Trace().Len())
		if err != nil {
			return state.Trace(), fmt.Errorf("reactive: tick %d: %w", tick, err)
		}
		switch status {
		case bt.Success:
			return state.Trace(), nil
		case bt.Failure:
			return state.Trace(), fmt.Errorf("%w at tick %d in %s", ErrFailed, tick, state.Current())
		}
	}
	return state.Trace(), fmt.Errorf("%w: %d", ErrTickLimit, maxTicks)
}

// ExecutePlan runs plan from start as a behavior tree sequence with one leaf
// per step. It returns the final state, or an IllegalStepError for the
// first step whose preconditions do not hold.
func ExecutePlan(plan *strips.Plan, start strips.State) (strips.State, error) {
	var (
		current = start
		failed  = -1
	)
	children := make([]bt.Node, 0, plan.Len())
	for i := range plan.Len() {
		children = append(children, bt.New(func([]bt.Node) (bt.Status, error) {
			if !plan.Step(i).IsLegal(current) {
				failed = i
				return bt.Failure, nil
			}
			current = plan.ApplyAction(i, current)
			return bt.Success, nil
		}))
	}
	status, err := bt.New(bt.Sequence, children...).Tick()
	if err != nil {
		return current, err
	}
	if status != bt.Success {
		act := plan.Step(failed)
		return current, &strips.IllegalStepError{Index: failed, Action: act, Unmet: act.Unmet(current)}
	}
	return current, nil
}
