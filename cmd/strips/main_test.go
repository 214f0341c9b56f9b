package main

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func testdata(name string) string {
	return filepath.Join("..", "..", "internal", "pddl", "testdata", name)
}

func TestRun(t *testing.T) {
	t.Setenv("STRIPS_CONFIG", filepath.Join(t.TempDir(), "config"))

	t.Run("help command", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if err := run([]string{"help"}, &stdout, &stderr); err != nil {
			t.Errorf("Expected no error for help command, got: %v", err)
		}
		if !strings.Contains(stdout.String(), "Available commands:") {
			t.Errorf("unexpected help output:\n%s", stdout.String())
		}
	})

	t.Run("version command", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if err := run([]string{"version"}, &stdout, &stderr); err != nil {
			t.Errorf("Expected no error for version command, got: %v", err)
		}
		if got := stdout.String(); got != "strips version "+version+"\n" {
			t.Errorf("unexpected version output %q", got)
		}
	})

	t.Run("no command shows help", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if err := run(nil, &stdout, &stderr); err != nil {
			t.Errorf("Expected no error when no command specified, got: %v", err)
		}
		if !strings.Contains(stdout.String(), "strips - STRIPS planner") {
			t.Errorf("unexpected output:\n%s", stdout.String())
		}
	})

	t.Run("help flag", func(t *testing.T) {
		for _, flag := range []string{"-h", "--help"} {
			var stdout, stderr bytes.Buffer
			if err := run([]string{flag}, &stdout, &stderr); err != nil {
				t.Errorf("Expected no error for %s flag, got: %v", flag, err)
			}
		}
	})

	t.Run("command help flag", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if err := run([]string{"plan", "-h"}, &stdout, &stderr); err != nil {
			t.Errorf("Expected no error for plan -h, got: %v", err)
		}
		if !strings.Contains(stderr.String(), "Usage: strips plan") {
			t.Errorf("unexpected usage output:\n%s", stderr.String())
		}
	})

	t.Run("unknown command", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if err := run([]string{"nonexistent"}, &stdout, &stderr); err == nil {
			t.Error("Expected error for unknown command")
		}
		if !strings.Contains(stderr.String(), "Use 'strips help'") {
			t.Errorf("unexpected stderr %q", stderr.String())
		}
	})

	t.Run("bad flag", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		if err := run([]string{"plan", "-bogus"}, &stdout, &stderr); err == nil {
			t.Error("Expected error for unknown flag")
		}
	})

	t.Run("plan", func(t *testing.T) {
		var stdout, stderr bytes.Buffer
		err := run([]string{"plan", "-quiet", testdata("table-domain.pddl"), testdata("table-two.pddl")}, &stdout, &stderr)
		if err != nil {
			t.Fatalf("plan: %v\n%s", err, stderr.String())
		}
		if got := stdout.String(); got != "(pickup a)\n(stack a b)\n" {
			t.Errorf("unexpected plan %q", got)
		}
	})
}

func TestRunUsesConfigFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config")
	if err := os.WriteFile(path, []byte("[plan]\nsearch.max-nodes 1\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	t.Setenv("STRIPS_CONFIG", path)
	t.Setenv("STRIPS_HEURISTIC", "breadth-first")

	var stdout, stderr bytes.Buffer
	err := run([]string{"plan", "-quiet", testdata("blocks-domain.pddl"), testdata("blocks-3-sussman.pddl")}, &stdout, &stderr)
	if err == nil || !strings.Contains(err.Error(), "node limit") {
		t.Fatalf("expected the configured node limit to stop the search, got %v", err)
	}

	stdout.Reset()
	if err := run([]string{"config", "set-me", "1"}, &stdout, &stderr); err != nil {
		t.Fatal(err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if !strings.HasPrefix(string(data), "set-me 1\n[plan]") {
		t.Errorf("expected the key written to the config file, got:\n%s", data)
	}
}

func TestRunWithBrokenConfig(t *testing.T) {
	dir := t.TempDir()
	target := filepath.Join(dir, "real")
	if err := os.WriteFile(target, []byte("heuristic unmet-goals\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	link := filepath.Join(dir, "config")
	if err := os.Symlink(target, link); err != nil {
		t.Skipf("symlinks unsupported: %v", err)
	}
	t.Setenv("STRIPS_CONFIG", link)

	var stdout, stderr bytes.Buffer
	if err := run([]string{"version"}, &stdout, &stderr); err != nil {
		t.Fatalf("expected version to run, got %v", err)
	}
	if !strings.Contains(stderr.String(), "Warning: symlink not allowed") {
		t.Errorf("expected a warning, got %q", stderr.String())
	}
}
