package command

import (
	"flag"
	"fmt"
	"io"
	"strings"

	"github.com/joeycumines/go-strips/internal/config"
	"github.com/joeycumines/go-strips/internal/plangraph"
)

// GraphCommand prints the relaxed planning graph of a problem and the
// relaxed plan extracted from it.
type GraphCommand struct {
	*BaseCommand
	config    *config.Config
	logs      logFlags
	compact   bool
	reachable bool
}

// NewGraphCommand creates a new graph command.
func NewGraphCommand(cfg *config.Config) *GraphCommand {
	return &GraphCommand{
		BaseCommand: NewBaseCommand(
			"graph",
			"Show the relaxed planning graph of a problem",
			"graph [options] <domain-file> <problem-file>",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the graph command.
func (c *GraphCommand) SetupFlags(fs *flag.FlagSet) {
	c.logs.register(fs)
	fs.BoolVar(&c.compact, "compact", false, "Extract each needed fact once, ordered by level")
	fs.BoolVar(&c.reachable, "reachable", false, "Print every fact reachable from the start instead")
}

// Execute prints the levels and relaxed plan of the graph, or the reachable facts.
func (c *GraphCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 2 {
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", c.Usage())
		return fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	_, restore, err := c.logs.install(c.config, c.Name(), stderr)
	if err != nil {
		return err
	}
	defer restore()

	d, p, err := loadProblem(args[0], args[1])
	if err != nil {
		return err
	}
	ctx, cancel := interruptContext()
	defer cancel()

	if c.reachable {
		s, err := plangraph.Reachable(d, p.Start(), plangraph.WithContext(ctx))
		if err != nil {
			return err
		}
		for _, f := range s.Predicates() {
			_, _ = fmt.Fprintln(stdout, f)
		}
		return nil
	}

	g, err := plangraph.New(d, p.Start(), p.Goal(), plangraph.WithContext(ctx))
	if err != nil {
		return err
	}
	for i, level := range g.Levels() {
		names := make([]string, len(level))
		for j, act := range level {
			names[j] = act.String()
		}
		_, _ = fmt.Fprintf(stdout, "level %d: %s\n", i+1, strings.Join(names, " "))
	}
	if !g.Reached() {
		_, _ = fmt.Fprintf(stdout, "Goal unreachable after %d levels.\n", g.Depth())
		return plangraph.ErrUnreachable
	}

	extract := g.RelaxedPlan
	if c.compact {
		extract = g.CompactRelaxedPlan
	}
	plan, err := extract()
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintf(stdout, "relaxed plan (%d steps):\n%s", plan.Len(), plan)
	return nil
}
