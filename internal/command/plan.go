package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joeycumines/go-strips/internal/config"
	"github.com/joeycumines/go-strips/internal/planner"
)

// PlanCommand searches for a plan and prints it, one action per line.
type PlanCommand struct {
	*BaseCommand
	config *config.Config
	search searchFlags
	logs   logFlags
	output string
	quiet  bool
}

// NewPlanCommand creates a new plan command.
func NewPlanCommand(cfg *config.Config) *PlanCommand {
	return &PlanCommand{
		BaseCommand: NewBaseCommand(
			"plan",
			"Find a plan for a problem",
			"plan [options] <domain-file> <problem-file>",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the plan command.
func (c *PlanCommand) SetupFlags(fs *flag.FlagSet) {
	c.search.register(fs)
	c.logs.register(fs)
	fs.StringVar(&c.output, "o", "", "Write the plan to this file instead of stdout")
	fs.BoolVar(&c.quiet, "quiet", false, "Do not print search statistics")
}

// Execute searches for a plan and prints it.
func (c *PlanCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 2 {
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", c.Usage())
		return fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	logger, restore, err := c.logs.install(c.config, c.Name(), stderr)
	if err != nil {
		return err
	}
	defer restore()

	d, p, err := loadProblem(args[0], args[1])
	if err != nil {
		return err
	}
	opts, err := c.search.options(c.config, c.Name())
	if err != nil {
		return err
	}
	heuristic := c.search.heuristicName(c.config, c.Name())
	pl, err := planner.New(append(opts, planner.WithHeuristic(heuristic))...)
	if err != nil {
		return err
	}

	ctx, cancel := interruptContext()
	defer cancel()
	logger.Info("planning", "domain", d.Name(), "problem", p.Name(), "heuristic", heuristic)
	plan, stats, err := pl.MakePlan(ctx, d, p)
	if !c.quiet {
		defer writeStats(stderr, stats)
	}
	if errors.Is(err, planner.ErrNoPlan) {
		logger.Info("no plan", "problem", p.Name(), "nodes", stats.Expanded, "error", err)
		_, _ = fmt.Fprintf(stdout, "No plan found for %s.\n", p.Name())
		return err
	}
	if err != nil {
		return err
	}
	logger.Info("plan found", "problem", p.Name(), "length", plan.Len(), "nodes", stats.Expanded, "elapsed", stats.Elapsed)

	if c.output == "" {
		_, err = io.WriteString(stdout, plan.String())
		return err
	}
	return os.WriteFile(c.output, []byte(plan.String()), 0o644)
}
