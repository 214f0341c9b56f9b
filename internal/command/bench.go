package command

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"slices"
	"text/tabwriter"
	"time"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"

	"github.com/joeycumines/go-strips/internal/config"
	"github.com/joeycumines/go-strips/internal/planner"
	"github.com/joeycumines/go-strips/internal/search"
	"github.com/joeycumines/go-strips/internal/strips"
)

// ErrBenchFailed is returned by bench when some problem did not meet its
// expectation.
var ErrBenchFailed = errors.New("benchmark expectations not met")

// Suite is a benchmark suite file. Paths are relative to the directory of
// the suite file.
//
//	problems:
//	  - name: sussman
//	    domain: blocks-domain.pddl
//	    problem: blocks-3-sussman.pddl
//	    heuristic: relaxed-plan
//	    expect: solvable
//	    max-length: 6
type Suite struct {
	Problems []SuiteProblem `yaml:"problems"`
}

// SuiteProblem is one problem of a Suite.
type SuiteProblem struct {
	Name      string `yaml:"name"`
	Domain    string `yaml:"domain"`
	Problem   string `yaml:"problem"`
	Heuristic string `yaml:"heuristic,omitempty"`
	// Expect is "solvable", "unsolvable", or empty for no expectation.
	Expect    string `yaml:"expect,omitempty"`
	MaxLength int    `yaml:"max-length,omitempty"`
}

const (
	expectSolvable   = "solvable"
	expectUnsolvable = "unsolvable"
)

// ReadSuite decodes the suite file at path, resolving its problem paths.
func ReadSuite(path string) (*Suite, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var suite Suite
	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&suite); err != nil {
		return nil, fmt.Errorf("suite %s: %w", path, err)
	}
	dir := filepath.Dir(path)
	for i := range suite.Problems {
		sp := &suite.Problems[i]
		if sp.Name == "" {
			sp.Name = fmt.Sprintf("#%d", i+1)
		}
		if sp.Domain == "" || sp.Problem == "" {
			return nil, fmt.Errorf("suite %s: problem %s: domain and problem are required", path, sp.Name)
		}
		switch sp.Expect {
		case "", expectSolvable, expectUnsolvable:
		default:
			return nil, fmt.Errorf("suite %s: problem %s: expect must be %s or %s, got %q",
				path, sp.Name, expectSolvable, expectUnsolvable, sp.Expect)
		}
		if sp.Heuristic != "" && !planner.IsHeuristic(sp.Heuristic) {
			return nil, fmt.Errorf("suite %s: problem %s: %w: %s", path, sp.Name, planner.ErrUnknownHeuristic, sp.Heuristic)
		}
		if !filepath.IsAbs(sp.Domain) {
			sp.Domain = filepath.Join(dir, sp.Domain)
		}
		if !filepath.IsAbs(sp.Problem) {
			sp.Problem = filepath.Join(dir, sp.Problem)
		}
	}
	return &suite, nil
}

// benchResult is the outcome of one suite problem.
type benchResult struct {
	problem   SuiteProblem
	heuristic string
	plan      *strips.Plan
	stats     search.Stats
	err       error
	failure   string
}

func (r benchResult) result() string {
	switch {
	case r.plan != nil:
		return "solved"
	case errors.Is(r.err, planner.ErrNoPlan):
		return "no plan"
	default:
		return "error"
	}
}

// BenchCommand plans every problem of a suite concurrently and reports a
// table of results.
type BenchCommand struct {
	*BaseCommand
	config      *config.Config
	search      searchFlags
	logs        logFlags
	parallelism int
}

// NewBenchCommand creates a new bench command.
func NewBenchCommand(cfg *config.Config) *BenchCommand {
	return &BenchCommand{
		BaseCommand: NewBaseCommand(
			"bench",
			"Plan a suite of problems and report the results",
			"bench [options] <suite-file>",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the bench command.
func (c *BenchCommand) SetupFlags(fs *flag.FlagSet) {
	c.search.register(fs)
	c.logs.register(fs)
	fs.IntVar(&c.parallelism, "parallelism", 0, "Max problems planned at once")
}

// Execute plans every problem of the suite and prints the results table.
func (c *BenchCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 1 {
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", c.Usage())
		return fmt.Errorf("expected 1 argument, got %d", len(args))
	}
	logger, restore, err := c.logs.install(c.config, c.Name(), stderr)
	if err != nil {
		return err
	}
	defer restore()

	suite, err := ReadSuite(args[0])
	if err != nil {
		return err
	}
	opts, err := c.search.options(c.config, c.Name())
	if err != nil {
		return err
	}
	parallelism := c.parallelism
	if parallelism <= 0 {
		if parallelism, err = config.DefaultSchema().ResolveInt(c.config, c.Name(), config.KeyBenchParallelism); err != nil {
			return err
		}
	}
	if parallelism <= 0 {
		parallelism = 1
	}

	ctx, cancel := interruptContext()
	defer cancel()
	logger.Info("running suite", "suite", args[0], "problems", len(suite.Problems), "parallelism", parallelism)

	started := time.Now()
	results := make([]benchResult, len(suite.Problems))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(parallelism)
	for i, sp := range suite.Problems {
		heuristic := sp.Heuristic
		if heuristic == "" {
			heuristic = c.search.heuristicName(c.config, c.Name())
		}
		g.Go(func() error {
			results[i] = c.runProblem(ctx, sp, heuristic, opts)
			// only interruption stops the suite
			if err := ctx.Err(); err != nil {
				return err
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	failed := writeBenchTable(stdout, results)
	_, _ = fmt.Fprintf(stdout, "\n%d problems, %d failed, %s\n",
		len(results), failed, time.Since(started).Round(time.Millisecond))
	logger.Info("suite finished", "suite", args[0], "failed", failed)
	if failed > 0 {
		return fmt.Errorf("%w: %d of %d", ErrBenchFailed, failed, len(results))
	}
	return nil
}

// runProblem loads and plans sp, leaving opts untouched.
func (c *BenchCommand) runProblem(ctx context.Context, sp SuiteProblem, heuristic string, opts []planner.Option) benchResult {
	r := benchResult{problem: sp, heuristic: heuristic}
	d, p, err := loadProblem(sp.Domain, sp.Problem)
	if err != nil {
		r.err = err
		r.failure = err.Error()
		return r
	}
	pl, err := planner.New(append(slices.Clone(opts), planner.WithHeuristic(heuristic))...)
	if err != nil {
		r.err = err
		r.failure = err.Error()
		return r
	}
	r.plan, r.stats, r.err = pl.MakePlan(ctx, d, p)
	r.failure = checkExpectation(sp, p, r.plan, r.err)
	return r
}

// checkExpectation returns why a result fails the expectation of sp, or the
// empty string.
func checkExpectation(sp SuiteProblem, p *strips.Problem, plan *strips.Plan, err error) string {
	if err != nil && !errors.Is(err, planner.ErrNoPlan) {
		return err.Error()
	}
	if plan != nil && !plan.IsValid(p) {
		return "invalid plan: " + plan.Report(p)
	}
	switch sp.Expect {
	case expectSolvable:
		if plan == nil {
			return "expected a plan"
		}
	case expectUnsolvable:
		if plan != nil {
			return "expected no plan"
		}
	}
	if plan != nil && sp.MaxLength > 0 && plan.Len() > sp.MaxLength {
		return fmt.Sprintf("plan length %d exceeds %d", plan.Len(), sp.MaxLength)
	}
	return ""
}

// writeBenchTable prints results in suite order and returns how many
// failed.
func writeBenchTable(w io.Writer, results []benchResult) int {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "NAME\tHEURISTIC\tRESULT\tLENGTH\tNODES\tB*\tELAPSED\tSTATUS")
	failed := 0
	for _, r := range results {
		length := "-"
		if r.plan != nil {
			length = fmt.Sprint(r.plan.Len())
		}
		status := "ok"
		if r.failure != "" {
			status = "FAIL: " + r.failure
			failed++
		}
		_, _ = fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t%.3f\t%s\t%s\n",
			r.problem.Name, r.heuristic, r.result(), length, r.stats.Expanded,
			r.stats.BranchingFactor(), r.stats.Elapsed.Round(time.Microsecond), status)
	}
	_ = tw.Flush()
	return failed
}
