package search

import (
	"fmt"
	"math"
	"time"
)

// BranchingTolerance is the precision of Stats.BranchingFactor.
const BranchingTolerance = 0.001

// Stats describes the work done by a search.
type Stats struct {
	// Expanded counts nodes whose successors were generated.
	Expanded int
	// Generated counts nodes pushed onto the frontier, the start included.
	Generated int
	// MaxDepth is the deepest node generated.
	MaxDepth int
	// Depth is the solution depth, zero when there is no solution.
	Depth   int
	Elapsed time.Duration
}

// BranchingFactor returns the effective branching factor b* of the search:
// the branching factor a uniform tree of the solution depth would need to
// contain the expanded nodes.
func (s Stats) BranchingFactor() float64 {
	return EffectiveBranchingFactor(s.Expanded, s.Depth, BranchingTolerance)
}

func (s Stats) String() string {
	return fmt.Sprintf("nodes=%d generated=%d depth=%d maxDepth=%d b*=%.3f elapsed=%s",
		s.Expanded, s.Generated, s.Depth, s.MaxDepth, s.BranchingFactor(), s.Elapsed)
}

// EffectiveBranchingFactor solves n = b + b^2 + ... + b^depth for b, by
// bisection to within tolerance. It returns 0 when depth is 0, and 1 when
// n does not exceed depth.
func EffectiveBranchingFactor(n, depth int, tolerance float64) float64 {
	if depth <= 0 {
		return 0
	}
	if n <= depth {
		return 1
	}
	total := func(b float64) float64 {
		sum, term := 0.0, 1.0
		for range depth {
			term *= b
			sum += term
			if math.IsInf(sum, 1) {
				break
			}
		}
		return sum
	}
	lo, hi := 1.0, float64(n)
	target := float64(n)
	for hi-lo > tolerance {
		mid := (lo + hi) / 2
		if total(mid) < target {
			lo = mid
		} else {
			hi = mid
		}
	}
	return (lo + hi) / 2
}
