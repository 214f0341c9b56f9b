package command

import (
	"flag"
	"fmt"
	"io"

	"github.com/joeycumines/go-strips/internal/config"
	"github.com/joeycumines/go-strips/internal/reactive"
)

// ReactCommand solves a problem by ticking a PA-BT behavior tree grown from
// the goal, and prints the actions it executed.
type ReactCommand struct {
	*BaseCommand
	config   *config.Config
	logs     logFlags
	maxTicks int
}

// NewReactCommand creates a new react command.
func NewReactCommand(cfg *config.Config) *ReactCommand {
	return &ReactCommand{
		BaseCommand: NewBaseCommand(
			"react",
			"Execute a problem reactively with a behavior tree",
			"react [options] <domain-file> <problem-file>",
		),
		config: cfg,
	}
}

// SetupFlags configures the flags for the react command.
func (c *ReactCommand) SetupFlags(fs *flag.FlagSet) {
	c.logs.register(fs)
	fs.IntVar(&c.maxTicks, "max-ticks", 0, "Max behavior tree ticks")
}

// Execute runs the behavior tree and prints the executed actions.
func (c *ReactCommand) Execute(args []string, stdout, stderr io.Writer) error {
	if len(args) != 2 {
		_, _ = fmt.Fprintf(stderr, "Usage: %s\n", c.Usage())
		return fmt.Errorf("expected 2 arguments, got %d", len(args))
	}
	logger, restore, err := c.logs.install(c.config, c.Name(), stderr)
	if err != nil {
		return err
	}
	defer restore()

	maxTicks := c.maxTicks
	if maxTicks <= 0 {
		if maxTicks, err = config.DefaultSchema().ResolveInt(c.config, c.Name(), config.KeyReactMaxTicks); err != nil {
			return err
		}
	}

	d, p, err := loadProblem(args[0], args[1])
	if err != nil {
		return err
	}
	state, err := reactive.NewState(d, p)
	if err != nil {
		return err
	}
	logger.Info("reacting", "problem", p.Name(), "actions", state.NumActions(), "maxTicks", maxTicks)

	ctx, cancel := interruptContext()
	defer cancel()
	trace, err := reactive.Run(ctx, state, maxTicks)
	if err != nil {
		if trace != nil {
			_, _ = io.WriteString(stdout, trace.String())
		}
		logger.Info("reaction failed", "problem", p.Name(), "error", err)
		return err
	}
	_, _ = io.WriteString(stdout, trace.String())
	_, _ = fmt.Fprintln(stdout, trace.Report(p))
	return nil
}
