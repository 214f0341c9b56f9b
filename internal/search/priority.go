package search

import (
	"fmt"

	"github.com/expr-lang/expr"
	"github.com/expr-lang/expr/vm"
)

// DefaultPriority orders nodes by path cost plus estimated distance.
const DefaultPriority = "depth + h"

var defaultPriority = MustPriority(DefaultPriority)

// Priority is a compiled expression over the variables depth (the number of
// steps from the start) and h (the heuristic distance) giving the frontier
// order; lower is expanded first. For example "h" is greedy best-first and
// "depth + 2 * h" is weighted A*.
type Priority struct {
	source  string
	program *vm.Program
}

func priorityEnv(depth, h int) map[string]any {
	return map[string]any{"depth": depth, "h": h}
}

// NewPriority compiles source.
func NewPriority(source string) (*Priority, error) {
	program, err := expr.Compile(source,
		expr.Env(priorityEnv(0, 0)),
		expr.AsFloat64(),
	)
	if err != nil {
		return nil, fmt.Errorf("search: priority %q: %w", source, err)
	}
	return &Priority{source: source, program: program}, nil
}

// MustPriority is NewPriority that panics on error.
func MustPriority(source string) *Priority {
	p, err := NewPriority(source)
	if err != nil {
		panic(err)
	}
	return p
}

// Eval computes the priority of a node.
func (p *Priority) Eval(depth, h int) (float64, error) {
	out, err := expr.Run(p.program, priorityEnv(depth, h))
	if err != nil {
		return 0, fmt.Errorf("search: priority %q: %w", p.source, err)
	}
	v, ok := out.(float64)
	if !ok {
		return 0, fmt.Errorf("search: priority %q returned %T", p.source, out)
	}
	return v, nil
}

func (p *Priority) String() string { return p.source }
