package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// SetKeyInFile sets a global option in the file at path, creating it if
// needed. An existing global line for key is replaced in place; otherwise
// the line goes before the first section header, or at the end. Comments,
// other lines, and [section] contents are kept as they are.
func SetKeyInFile(path, key, value string) error {
	data, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("reading config file: %w", err)
	}
	var lines []string
	if len(data) != 0 {
		lines = strings.Split(string(data), "\n")
	}

	entry := strings.TrimSpace(key + " " + value)
	insert := -1
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if strings.HasPrefix(trimmed, "[") {
			insert = i
			break
		}
		if name, _, _ := strings.Cut(trimmed, " "); name == key {
			lines[i] = entry
			return writeAtomic(path, strings.Join(lines, "\n"))
		}
	}
	switch {
	case insert >= 0:
		lines = append(lines[:insert], append([]string{entry}, lines[insert:]...)...)
	case len(lines) != 0 && lines[len(lines)-1] == "":
		lines = append(lines[:len(lines)-1], entry, "")
	default:
		lines = append(lines, entry, "")
	}
	return writeAtomic(path, strings.Join(lines, "\n"))
}

// writeAtomic replaces path with content through a temporary file in the
// same directory.
func writeAtomic(path, content string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".config-*")
	if err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	defer os.Remove(tmp.Name())
	if _, err := tmp.WriteString(content); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := tmp.Chmod(0o644); err != nil {
		tmp.Close()
		return fmt.Errorf("writing config file: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing config file: %w", err)
	}
	return os.Rename(tmp.Name(), path)
}
