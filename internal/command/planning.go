package command

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"os/signal"
	"time"

	"github.com/joeycumines/go-strips/internal/config"
	"github.com/joeycumines/go-strips/internal/pddl"
	"github.com/joeycumines/go-strips/internal/planner"
	"github.com/joeycumines/go-strips/internal/search"
	"github.com/joeycumines/go-strips/internal/strips"
)

// loadProblem reads a domain and a problem description.
func loadProblem(domainPath, problemPath string) (*strips.Domain, *strips.Problem, error) {
	d, err := pddl.ReadDomainFile(domainPath)
	if err != nil {
		return nil, nil, err
	}
	p, err := pddl.ReadProblemFile(problemPath)
	if err != nil {
		return nil, nil, err
	}
	return d, p, nil
}

// interruptContext is cancelled by an interrupt signal.
func interruptContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt)
}

// searchFlags are the search settings shared by plan and bench. Unset flags
// fall back to the configuration.
type searchFlags struct {
	heuristic string
	priority  string
	maxNodes  int
	timeout   time.Duration
	cacheSize int
}

func (f *searchFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.heuristic, "heuristic", "", fmt.Sprintf("Search heuristic, one of %v", planner.Heuristics()))
	fs.StringVar(&f.priority, "priority", "", "Frontier priority expression over depth and h (default \"depth + h\")")
	fs.IntVar(&f.maxNodes, "max-nodes", -1, "Max nodes expanded, 0 for no limit")
	fs.DurationVar(&f.timeout, "timeout", 0, "Max duration of a search")
	fs.IntVar(&f.cacheSize, "cache-size", 0, "Plan graph levels cached per search")
}

// options resolves the settings for command. The heuristic is left out, so
// callers can choose it per problem.
func (f *searchFlags) options(cfg *config.Config, command string) ([]planner.Option, error) {
	schema := config.DefaultSchema()
	var opts []planner.Option

	source := f.priority
	if source == "" {
		source = schema.Resolve(cfg, command, config.KeySearchPriority)
	}
	prio, err := search.NewPriority(source)
	if err != nil {
		return nil, err
	}
	opts = append(opts, planner.WithPriority(prio))

	maxNodes := f.maxNodes
	if maxNodes < 0 {
		if maxNodes, err = schema.ResolveInt(cfg, command, config.KeySearchMaxNodes); err != nil {
			return nil, err
		}
	}
	opts = append(opts, planner.WithMaxNodes(maxNodes))

	timeout := f.timeout
	if timeout == 0 {
		if timeout, err = schema.ResolveDuration(cfg, command, config.KeySearchTimeout); err != nil {
			return nil, err
		}
	}
	opts = append(opts, planner.WithTimeout(timeout))

	cacheSize := f.cacheSize
	if cacheSize <= 0 {
		if cacheSize, err = schema.ResolveInt(cfg, command, config.KeyCacheSize); err != nil {
			return nil, err
		}
	}
	return append(opts, planner.WithCacheSize(cacheSize)), nil
}

// heuristicName is the heuristic flag, or the configured heuristic.
func (f *searchFlags) heuristicName(cfg *config.Config, command string) string {
	if f.heuristic != "" {
		return f.heuristic
	}
	return config.DefaultSchema().Resolve(cfg, command, config.KeyHeuristic)
}

// writeStats prints search statistics in the form
//
//	Nodes expanded: 12
//	Max depth: 4
//	Effective branching factor: 1.486
//	Elapsed: 1.2ms
func writeStats(w io.Writer, stats search.Stats) {
	_, _ = fmt.Fprintf(w, "Nodes expanded: %d\n", stats.Expanded)
	_, _ = fmt.Fprintf(w, "Max depth: %d\n", stats.MaxDepth)
	_, _ = fmt.Fprintf(w, "Effective branching factor: %.3f\n", stats.BranchingFactor())
	_, _ = fmt.Fprintf(w, "Elapsed: %s\n", stats.Elapsed.Round(time.Microsecond))
}
