package command

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/joeycumines/go-strips/internal/config"
)

func newTestRegistry() *Registry {
	cfg := config.NewConfig()
	registry := NewRegistry()
	registry.Register(NewHelpCommand(registry))
	registry.Register(NewVersionCommand("1.2.3"))
	registry.Register(NewPlanCommand(cfg))
	registry.Register(NewBenchCommand(cfg))
	return registry
}

func TestHelpCommand(t *testing.T) {
	t.Parallel()
	help := NewHelpCommand(newTestRegistry())

	var stdout, stderr bytes.Buffer
	if err := help.Execute(nil, &stdout, &stderr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"strips - STRIPS planner", "Usage: strips <command>", "bench", "plan", "Find a plan for a problem", "version"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in help output:\n%s", want, out)
		}
	}
	if strings.Index(out, "  bench") > strings.Index(out, "  plan") {
		t.Errorf("expected commands sorted by name:\n%s", out)
	}
}

func TestHelpCommandSpecific(t *testing.T) {
	t.Parallel()
	help := NewHelpCommand(newTestRegistry())

	var stdout, stderr bytes.Buffer
	if err := help.Execute([]string{"plan"}, &stdout, &stderr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	out := stdout.String()
	for _, want := range []string{"Command: plan", "Usage: strips plan [options] <domain-file> <problem-file>", "Flags:", "-heuristic", "-max-nodes", "-log-level", "-quiet"} {
		if !strings.Contains(out, want) {
			t.Errorf("expected %q in help output:\n%s", want, out)
		}
	}

	stdout.Reset()
	if err := help.Execute([]string{"version"}, &stdout, &stderr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Contains(stdout.String(), "Flags:") {
		t.Errorf("expected no flags section for version:\n%s", stdout.String())
	}
}

func TestHelpCommandUnknown(t *testing.T) {
	t.Parallel()
	help := NewHelpCommand(newTestRegistry())

	var stdout, stderr bytes.Buffer
	if err := help.Execute([]string{"fly"}, &stdout, &stderr); err == nil {
		t.Fatal("expected error for unknown command")
	}
	if !strings.Contains(stderr.String(), "Unknown command: fly") {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestVersionCommand(t *testing.T) {
	t.Parallel()
	var stdout, stderr bytes.Buffer
	cmd := NewVersionCommand("1.2.3")
	if err := cmd.Execute(nil, &stdout, &stderr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := stdout.String(); got != "strips version 1.2.3\n" {
		t.Errorf("unexpected output %q", got)
	}
	if err := cmd.Execute([]string{"extra"}, &stdout, &stderr); err == nil {
		t.Error("expected error for extra arguments")
	}
}

func TestConfigCommandShow(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig()
	cfg.SetGlobalOption("heuristic", "unmet-goals")
	cfg.SetGlobalOption("log.level", "debug")
	cfg.SetCommandOption("bench", "bench.parallelism", "8")

	var stdout, stderr bytes.Buffer
	cmd := NewConfigCommand(cfg, "")
	cmd.showAll = true
	if err := cmd.Execute(nil, &stdout, &stderr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	want := "Global configuration:\n  heuristic: unmet-goals\n  log.level: debug\n\nCommand-specific configuration:\n  [bench]\n    bench.parallelism: 8\n"
	if got := stdout.String(); got != want {
		t.Errorf("unexpected output:\n%s\nwant:\n%s", got, want)
	}

	stdout.Reset()
	cmd = NewConfigCommand(cfg, "")
	cmd.showGlobal = true
	if err := cmd.Execute(nil, &stdout, &stderr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if strings.Contains(stdout.String(), "[bench]") {
		t.Errorf("expected only global options:\n%s", stdout.String())
	}

	stdout.Reset()
	if err := NewConfigCommand(cfg, "").Execute(nil, &stdout, &stderr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(stdout.String(), "Configuration management:") {
		t.Errorf("expected usage:\n%s", stdout.String())
	}
}

func TestConfigCommandGet(t *testing.T) {
	unsetenv(t, "STRIPS_HEURISTIC")
	cfg := config.NewConfig()
	cfg.SetGlobalOption("custom", "value")

	cases := []struct {
		key  string
		want string
	}{
		{"custom", "custom: value\n"},
		{"search.priority", "search.priority: depth + h\n"},
		{"search.timeout", "search.timeout: \n"},
		{"nonsense", "Configuration key 'nonsense' not found\n"},
	}
	for _, tc := range cases {
		var stdout, stderr bytes.Buffer
		if err := NewConfigCommand(cfg, "").Execute([]string{tc.key}, &stdout, &stderr); err != nil {
			t.Fatalf("Execute(%s): %v", tc.key, err)
		}
		if got := stdout.String(); got != tc.want {
			t.Errorf("config %s: got %q, want %q", tc.key, got, tc.want)
		}
	}

	t.Setenv("STRIPS_HEURISTIC", "breadth-first")
	var stdout, stderr bytes.Buffer
	if err := NewConfigCommand(cfg, "").Execute([]string{"heuristic"}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != "heuristic: breadth-first\n" {
		t.Errorf("expected environment value, got %q", got)
	}
}

func TestConfigCommandSet(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("# mine\n[react]\nreact.max-ticks 5\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	cfg := config.NewConfig()

	var stdout, stderr bytes.Buffer
	if err := NewConfigCommand(cfg, path).Execute([]string{"heuristic", "unmet-goals"}, &stdout, &stderr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if got := stdout.String(); got != "Set configuration: heuristic = unmet-goals\n" {
		t.Errorf("unexpected output %q", got)
	}
	if stderr.Len() != 0 {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
	if v, _ := cfg.GetGlobalOption("heuristic"); v != "unmet-goals" {
		t.Errorf("expected in-memory update, got %q", v)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "# mine\nheuristic unmet-goals\n[react]\nreact.max-ticks 5\n"; string(data) != want {
		t.Errorf("unexpected file:\n%s", data)
	}

	stderr.Reset()
	if err := NewConfigCommand(cfg, path).Execute([]string{"heuristic", "psychic"}, &stdout, &stderr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(stderr.String(), "Warning: option \"heuristic\"") {
		t.Errorf("expected validation warning, got %q", stderr.String())
	}
}

func TestConfigCommandValidateAndSchema(t *testing.T) {
	t.Parallel()
	cfg := config.NewConfig()

	var stdout, stderr bytes.Buffer
	if err := NewConfigCommand(cfg, "").Execute([]string{"validate"}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	if got := stdout.String(); got != "Configuration is valid.\n" {
		t.Errorf("unexpected output %q", got)
	}

	cfg.SetGlobalOption("colour", "red")
	stdout.Reset()
	if err := NewConfigCommand(cfg, "").Execute([]string{"validate"}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "Configuration has 1 issue(s):") || !strings.Contains(stdout.String(), `unknown option "colour"`) {
		t.Errorf("unexpected output %q", stdout.String())
	}

	stdout.Reset()
	if err := NewConfigCommand(cfg, "").Execute([]string{"schema"}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"Options:", "heuristic", "search.max-nodes", "bench.parallelism"} {
		if !strings.Contains(stdout.String(), want) {
			t.Errorf("expected %q in schema:\n%s", want, stdout.String())
		}
	}

	if err := NewConfigCommand(cfg, "").Execute([]string{"a", "b", "c"}, &stdout, &stderr); err == nil {
		t.Error("expected error for too many arguments")
	}
}

func TestInitCommand(t *testing.T) {
	t.Parallel()
	path := filepath.Join(t.TempDir(), "nested", "config")

	var stdout, stderr bytes.Buffer
	if err := NewInitCommand(path).Execute(nil, &stdout, &stderr); err != nil {
		t.Fatalf("Execute: %v", err)
	}
	if !strings.Contains(stdout.String(), "Created configuration with heuristic=relaxed-plan") {
		t.Errorf("unexpected output %q", stdout.String())
	}
	cfg, err := config.LoadFromPath(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.HasWarnings() {
		t.Errorf("default config has warnings: %v", cfg.Warnings)
	}
	if v, _ := cfg.GetCommandOption("react", "react.max-ticks"); v != "1000" {
		t.Errorf("expected react.max-ticks 1000, got %q", v)
	}

	if err := os.WriteFile(path, []byte("heuristic unmet-goals\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	stdout.Reset()
	if err := NewInitCommand(path).Execute(nil, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	if !strings.Contains(stdout.String(), "Configuration already exists") {
		t.Errorf("unexpected output %q", stdout.String())
	}

	cmd := NewInitCommand(path)
	cmd.force = true
	stdout.Reset()
	if err := cmd.Execute(nil, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	data, _ := os.ReadFile(path)
	if string(data) != defaultConfig {
		t.Errorf("expected forced overwrite, got:\n%s", data)
	}
}
