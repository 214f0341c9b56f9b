package command

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/joeycumines/go-strips/internal/config"
	"github.com/joeycumines/go-strips/internal/strips"
)

// ErrInvalidPlan is returned by check for a plan that is illegal or leaves
// goals unmet.
var ErrInvalidPlan = errors.New("plan does not solve the problem")

// CheckCommand validates a plan file against a problem.
type CheckCommand struct {
	*BaseCommand
	config   *config.Config
	logs     logFlags
	noDelete bool
}

// NewCheckCommand creates a new check command.
func NewCheckCommand(cfg *config.Config) *CheckCommand {
	return &CheckCommand{
		BaseCommand: NewBaseCommand(
			"check",
			"Check that a plan solves a problem",
			"check [options] <domain-file> <problem-file> <plan-file>",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the check command.
func (c *CheckCommand) SetupFlags(fs *flag.FlagSet) {
	c.logs.register(fs)
	fs.BoolVar(&c.noDelete, "no-delete", false, "Apply only the positive effects of each step")
}

// Execute checks that a plan file solves a problem.
func (c *CheckCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 3 {
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", c.Usage())
		return fmt.Errorf("expected 3 arguments, got %d", len(args))
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
	text, err := os.ReadFile(args[2])
	if err != nil {
		return err
	}
	parse := strips.ParsePlan
	if c.noDelete {
		parse = strips.ParseNoDeletePlan
	}
	plan, err := parse(string(text), d)
	if err != nil {
		return err
	}

	report := plan.Report(p)
	logger.Info("checked plan", "problem", p.Name(), "steps", plan.Len(), "report", report)
	_, _ = fmt.Fprintln(stdout, report)
	if !plan.IsValid(p) {
		return ErrInvalidPlan
	}
	return nil
}
