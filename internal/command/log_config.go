package command

import (
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/google/uuid"

	"github.com/joeycumines/go-strips/internal/config"
)

// logConfig holds resolved logging configuration for a command.
type logConfig struct {
	level   slog.Level
	logFile io.WriteCloser // nil if no file logging
}

// resolveLogConfig resolves log configuration for command. Flag values take
// precedence; empty flags fall back to the environment, the config file and
// the schema defaults, in that order. The caller must Close the returned
// logFile when it is not nil.
func resolveLogConfig(flagPath, flagLevel string, cfg *config.Config, command string) (logConfig, error) {
	schema := config.DefaultSchema()
	if cfg == nil {
		cfg = config.NewConfig()
	}
	var lc logConfig

	levelStr := flagLevel
	if levelStr == "" {
		levelStr = schema.Resolve(cfg, command, config.KeyLogLevel)
	}
	switch strings.ToLower(levelStr) {
	case "debug":
		lc.level = slog.LevelDebug
	case "info", "":
		lc.level = slog.LevelInfo
	case "warn":
		lc.level = slog.LevelWarn
	case "error":
		lc.level = slog.LevelError
	default:
		return lc, fmt.Errorf("invalid log level: %s", levelStr)
	}

	logPath := flagPath
	if logPath == "" {
		logPath = schema.Resolve(cfg, command, config.KeyLogFile)
	}
	if logPath != "" {
		f, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return lc, fmt.Errorf("failed to open log file %s: %w", logPath, err)
		}
		lc.logFile = f
	}
	return lc, nil
}

// logger returns a JSON logger on the log file if there is one, otherwise a
// text logger on stderr. Every record carries the run id.
func (lc logConfig) logger(stderr io.Writer, runID string) *slog.Logger {
	opts := &slog.HandlerOptions{Level: lc.level}
	var h slog.Handler
	if lc.logFile != nil {
		h = slog.NewJSONHandler(lc.logFile, opts)
	} else {
		h = slog.NewTextHandler(stderr, opts)
	}
	return slog.New(h).With("run_id", runID)
}

// logFlags are the logging flags shared by the planning commands.
type logFlags struct {
	file  string
	level string
}

func (f *logFlags) register(fs *flag.FlagSet) {
	fs.StringVar(&f.file, "log-file", "", "Write JSON logs to this file instead of stderr")
	fs.StringVar(&f.level, "log-level", "", "Log level: debug, info, warn, error")
}

// install resolves the logging configuration, makes its logger the default,
// and returns a function restoring the previous default.
func (f *logFlags) install(cfg *config.Config, command string, stderr io.Writer) (*slog.Logger, func(), error) {
	lc, err := resolveLogConfig(f.file, f.level, cfg, command)
	if err != nil {
		return nil, nil, err
	}
	prev := slog.Default()
	logger := lc.logger(stderr, uuid.NewString())
	slog.SetDefault(logger)
	return logger, func() {
		slog.SetDefault(prev)
		if lc.logFile != nil {
			_ = lc.logFile.Close()
		}
	}, nil
}
