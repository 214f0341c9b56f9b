// Package search is a generic best-first search over nodes that can
// enumerate their successors and test themselves against a goal.
//
// Nodes are ordered by a priority computed from their depth and a pluggable
// heuristic distance; the default priority, "depth + h", gives A*-style
// behavior. A heuristic returning ErrDeadEnd prunes the node.
package search

import (
	"container/heap"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"
)

var (
	// ErrNoSolution is returned when the reachable space is exhausted.
	ErrNoSolution = errors.New("search: no solution")

	// ErrNodeLimit is returned when the node budget is spent.
	ErrNodeLimit = errors.New("search: node limit reached")

	// ErrDeadEnd is returned by a Heuristic for a node from which the goal
	// cannot be reached. Such nodes are never expanded.
	ErrDeadEnd = errors.New("search: dead end")
)

// Node is the capability required of search nodes.
type Node[T any] interface {
	// Successors returns the nodes reachable in one step.
	Successors() ([]T, error)
	// Achieves reports whether this node satisfies goal.
	Achieves(goal T) bool
	// Key identifies equivalent nodes; each key is expanded at most once.
	Key() string
}

// Heuristic estimates the distance from node to goal. It must not be
// negative.
type Heuristic[T any] func(node, goal T) (int, error)

// Zero is the heuristic that always returns 0.
func Zero[T any](T, T) (int, error) { return 0, nil }

// Result is the outcome of a search. Path runs from the start node to the
// node which achieved the goal, and is empty on failure.
type Result[T any] struct {
	Path  []T
	Stats Stats
}

// Option configures a search.
type Option func(*config)

type config struct {
	priority *Priority
	maxNodes int
}

// WithPriority orders the frontier by p rather than DefaultPriority.
func WithPriority(p *Priority) Option {
	return func(c *config) { c.priority = p }
}

// WithMaxNodes fails the search with ErrNodeLimit after n expansions. Zero
// means no limit.
func WithMaxNodes(n int) Option {
	return func(c *config) { c.maxNodes = n }
}

// Solve runs best-first search from start until a node achieves goal. The
// returned Result carries statistics even when err is not nil.
func Solve[T Node[T]](ctx context.Context, start, goal T, h Heuristic[T], opts ...Option) (Result[T], error) {
	cfg := config{}
	for _, opt := range opts {
		opt(&cfg)
	}
	if cfg.priority == nil {
		cfg.priority = defaultPriority
	}

	s := &searcher[T]{
		goal:   goal,
		h:      h,
		cfg:    cfg,
		closed: make(map[string]struct{}),
		began:  time.Now(),
	}
	path, err := s.run(ctx, start)
	s.stats.Elapsed = time.Since(s.began)
	if err == nil {
		s.stats.Depth = len(path) - 1
	}
	slog.Debug("search finished",
		"expanded", s.stats.Expanded,
		"generated", s.stats.Generated,
		"maxDepth", s.stats.MaxDepth,
		"elapsed", s.stats.Elapsed,
		"error", err)
	return Result[T]{Path: path, Stats: s.stats}, err
}

type searcher[T Node[T]] struct {
	goal   T
	h      Heuristic[T]
	cfg    config
	open   frontier[T]
	closed map[string]struct{}
	seq    int
	stats  Stats
	began  time.Time
}

func (s *searcher[T]) run(ctx context.Context, start T) ([]T, error) {
	if err := s.push(start, nil); err != nil {
		if errors.Is(err, ErrDeadEnd) {
			return nil, ErrNoSolution
		}
		return nil, err
	}
	for s.open.Len() > 0 {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		it := heap.Pop(&s.open).(*item[T])
		if _, ok := s.closed[it.node.Key()]; ok {
			continue
		}
		if it.node.Achieves(s.goal) {
			return it.path(), nil
		}
		if s.cfg.maxNodes > 0 && s.stats.Expanded >= s.cfg.maxNodes {
			return nil, fmt.Errorf("%w: %d nodes expanded", ErrNodeLimit, s.stats.Expanded)
		}
		s.closed[it.node.Key()] = struct{}{}
		s.stats.Expanded++

		succ, err := it.node.Successors()
		if err != nil {
			return nil, err
		}
		for _, next := range succ {
			if _, ok := s.closed[next.Key()]; ok {
				continue
			}
			if err := s.push(next, it); err != nil && !errors.Is(err, ErrDeadEnd) {
				return nil, err
			}
		}
	}
	return nil, ErrNoSolution
}

func (s *searcher[T]) push(node T, parent *item[T]) error {
	depth := 0
	if parent != nil {
		depth = parent.depth + 1
	}
	dist, err := s.h(node, s.goal)
	if err != nil {
		return err
	}
	if dist < 0 {
		return fmt.Errorf("search: negative heuristic %d for %s", dist, node.Key())
	}
	priority, err := s.cfg.priority.Eval(depth, dist)
	if err != nil {
		return err
	}
	s.seq++
	s.stats.Generated++
	s.stats.MaxDepth = max(s.stats.MaxDepth, depth)
	heap.Push(&s.open, &item[T]{node: node, parent: parent, depth: depth, priority: priority, seq: s.seq})
	return nil
}

type item[T any] struct {
	node     T
	parent   *item[T]
	depth    int
	priority float64
	seq      int
}

func (it *item[T]) path() []T {
	out := make([]T, it.depth+1)
	for cur := it; cur != nil; cur = cur.parent {
		out[cur.depth] = cur.node
	}
	return out
}

// frontier is a min-heap by priority, first-in first-out among equals.
type frontier[T any] []*item[T]

func (f frontier[T]) Len() int { return len(f) }

func (f frontier[T]) Less(i, j int) bool {
	if f[i].priority != f[j].priority {
		return f[i].priority < f[j].priority
	}
	return f[i].seq < f[j].seq
}

func (f frontier[T]) Swap(i, j int) { f[i], f[j] = f[j], f[i] }

func (f *frontier[T]) Push(x any) { *f = append(*f, x.(*item[T])) }

func (f *frontier[T]) Pop() any {
	old := *f
	n := len(old)
	it := old[n-1]
	old[n-1] = nil
	*f = old[:n-1]
	return it
}
