package config

import (
	"fmt"
	"os"
	"slices"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/joeycumines/go-strips/internal/plangraph"
	"github.com/joeycumines/go-strips/internal/planner"
	"github.com/joeycumines/go-strips/internal/reactive"
	"github.com/joeycumines/go-strips/internal/search"
)

// OptionType is the expected type of an option value.
type OptionType string

const (
	TypeString OptionType = "string"
	// TypeBool accepts true/false, yes/no, on/off and 1/0.
	TypeBool OptionType = "bool"
	TypeInt  OptionType = "int"
	// TypeDuration is a time.Duration, such as "30s".
	TypeDuration OptionType = "duration"
)

// Option declares a configuration option.
type Option struct {
	// Key is the option name as written in the file.
	Key  string
	Type OptionType
	// Default is the value used when the option is set nowhere, "" for none.
	Default     string
	Description string
	// Choices, when not empty, lists the accepted values.
	Choices []string
	// EnvVar overrides the file when set.
	EnvVar string
}

// Schema is the set of known options. Every option is global, and may be
// overridden per command in a [command] section.
type Schema struct {
	options []*Option
	byKey   map[string]*Option
}

func NewSchema() *Schema {
	return &Schema{byKey: make(map[string]*Option)}
}

// Register adds opt, replacing any option with the same key.
func (s *Schema) Register(opt Option) {
	ref := &opt
	if old, ok := s.byKey[opt.Key]; ok {
		s.options[slices.Index(s.options, old)] = ref
	} else {
		s.options = append(s.options, ref)
	}
	s.byKey[opt.Key] = ref
}

func (s *Schema) RegisterAll(opts []Option) {
	for _, opt := range opts {
		s.Register(opt)
	}
}

// Lookup returns the option for key, or nil.
func (s *Schema) Lookup(key string) *Option { return s.byKey[key] }

// Options returns the options in registration order.
func (s *Schema) Options() []Option {
	out := make([]Option, len(s.options))
	for i, o := range s.options {
		out[i] = *o
	}
	return out
}

// Resolve returns the effective value of key for command ("" for none),
// checking in order the option's environment variable, the command's
// section, the global options, and the default.
func (s *Schema) Resolve(c *Config, command, key string) string {
	opt := s.Lookup(key)
	if opt != nil && opt.EnvVar != "" {
		if v, ok := os.LookupEnv(opt.EnvVar); ok {
			return v
		}
	}
	if v, ok := c.GetCommandOption(command, key); ok {
		return v
	}
	if opt != nil {
		return opt.Default
	}
	return ""
}

// ResolveInt is Resolve parsed as an int. An empty value is 0.
func (s *Schema) ResolveInt(c *Config, command, key string) (int, error) {
	v := s.Resolve(c, command, key)
	if v == "" {
		return 0, nil
	}
	i, err := strconv.Atoi(v)
	if err != nil {
		return 0, fmt.Errorf("option %s: expected int, got %q", key, v)
	}
	return i, nil
}

// ResolveBool is Resolve parsed as a bool. An empty value is false.
func (s *Schema) ResolveBool(c *Config, command, key string) (bool, error) {
	v := s.Resolve(c, command, key)
	if v == "" {
		return false, nil
	}
	b, err := parseBool(v)
	if err != nil {
		return false, fmt.Errorf("option %s: expected bool, got %q", key, v)
	}
	return b, nil
}

// ResolveDuration is Resolve parsed as a duration. An empty value is 0.
func (s *Schema) ResolveDuration(c *Config, command, key string) (time.Duration, error) {
	v := s.Resolve(c, command, key)
	if v == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("option %s: expected duration, got %q", key, v)
	}
	return d, nil
}

// ValidateConfig reports unknown options and invalid values, sorted.
func ValidateConfig(c *Config, s *Schema) []string {
	var issues []string
	check := func(where, key, value string) {
		opt := s.Lookup(key)
		if opt == nil {
			issues = append(issues, fmt.Sprintf("unknown option %q%s (value: %q)", key, where, value))
			return
		}
		if err := opt.validate(value); err != nil {
			issues = append(issues, fmt.Sprintf("option %q%s: %v", key, where, err))
		}
	}
	for key, value := range c.Global {
		check("", key, value)
	}
	for section, opts := range c.Commands {
		for key, value := range opts {
			check(" in ["+section+"]", key, value)
		}
	}
	sort.Strings(issues)
	return issues
}

func (o *Option) validate(value string) error {
	if len(o.Choices) != 0 && !slices.Contains(o.Choices, value) {
		return fmt.Errorf("expected one of %s, got %q", strings.Join(o.Choices, ", "), value)
	}
	switch o.Type {
	case TypeString, "":
	case TypeBool:
		if _, err := parseBool(value); err != nil {
			return fmt.Errorf("expected bool, got %q", value)
		}
	case TypeInt:
		if _, err := strconv.Atoi(value); err != nil {
			return fmt.Errorf("expected int, got %q", value)
		}
	case TypeDuration:
		if _, err := time.ParseDuration(value); err != nil {
			return fmt.Errorf("expected duration, got %q", value)
		}
	default:
		return fmt.Errorf("unknown option type %q", o.Type)
	}
	return nil
}

// FormatHelp describes every option, one per line.
func (s *Schema) FormatHelp() string {
	var b strings.Builder
	b.WriteString("Options:\n")
	for _, o := range s.options {
		fmt.Fprintf(&b, "  %-24s %s", o.Key, o.Description)
		var parts []string
		if o.Type != "" && o.Type != TypeString {
			parts = append(parts, "type: "+string(o.Type))
		}
		if len(o.Choices) != 0 {
			parts = append(parts, "one of: "+strings.Join(o.Choices, "|"))
		}
		if o.Default != "" {
			parts = append(parts, "default: "+o.Default)
		}
		if o.EnvVar != "" {
			parts = append(parts, "env: "+o.EnvVar)
		}
		if len(parts) != 0 {
			fmt.Fprintf(&b, " (%s)", strings.Join(parts, ", "))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// Option keys.
const (
	KeyHeuristic        = "heuristic"
	KeySearchPriority   = "search.priority"
	KeySearchMaxNodes   = "search.max-nodes"
	KeySearchTimeout    = "search.timeout"
	KeyCacheSize        = "plangraph.cache-size"
	KeyReactMaxTicks    = "react.max-ticks"
	KeyBenchParallelism = "bench.parallelism"
	KeyLogLevel         = "log.level"
	KeyLogFile          = "log.file"
)

// DefaultSchema declares every option strips understands.
func DefaultSchema() *Schema {
	s := NewSchema()
	s.RegisterAll([]Option{
		{Key: KeyHeuristic, Default: planner.DefaultHeuristic, Description: "Search heuristic",
			Choices: planner.Heuristics(), EnvVar: "STRIPS_HEURISTIC"},
		{Key: KeySearchPriority, Default: search.DefaultPriority, Description: "Frontier priority expression over depth and h"},
		{Key: KeySearchMaxNodes, Type: TypeInt, Default: "0", Description: "Max nodes expanded, 0 for no limit"},
		{Key: KeySearchTimeout, Type: TypeDuration, Description: "Max duration of a search"},
		{Key: KeyCacheSize, Type: TypeInt, Default: strconv.Itoa(plangraph.DefaultCacheSize), Description: "Plan graph levels cached per search"},
		{Key: KeyReactMaxTicks, Type: TypeInt, Default: strconv.Itoa(reactive.DefaultMaxTicks), Description: "Max behavior tree ticks for react"},
		{Key: KeyBenchParallelism, Type: TypeInt, Default: "4", Description: "Problems solved concurrently by bench"},
		{Key: KeyLogLevel, Default: "info", Description: "Log level",
			Choices: []string{"debug", "info", "warn", "error"}, EnvVar: "STRIPS_LOG_LEVEL"},
		{Key: KeyLogFile, Description: "Log file path (JSON output)", EnvVar: "STRIPS_LOG_FILE"},
	})
	return s
}
