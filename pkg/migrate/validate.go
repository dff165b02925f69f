package migrate

import (
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"go.uber.org/multierr"
)

var sqlFileRe = regexp.MustCompile(`^(\d{14})_[a-z0-9_]+\.sql$`)

// Lint checks migration filenames and goose annotations for every SQL
// file in dir. Problems across all files are combined into one error so a
// single run surfaces everything that needs fixing. An empty directory is
// fine; goose treats it as nothing to apply.
func Lint(dir string) error {
	if dir == "" {
		return fmt.Errorf("dir must not be empty")
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("read dir %q: %w", dir, err)
	}

	var errs error
	versions := map[string]string{} // version -> filename holding it

	for _, entry := range entries {
		name := entry.Name()
		if entry.IsDir() || !strings.HasSuffix(name, ".sql") {
			continue
		}
		errs = multierr.Append(errs, checkMigrationFile(dir, name, versions))
	}
	return errs
}

// checkMigrationFile verifies one file's name, version uniqueness, and goose
// section markers.
func checkMigrationFile(dir, name string, versions map[string]string) error {
	m := sqlFileRe.FindStringSubmatch(name)
	if m == nil {
		return fmt.Errorf("invalid migration filename %q (expected YYYYMMDDHHMMSS_name.sql)", name)
	}

	version := m[1]
	if prev, taken := versions[version]; taken {
		return fmt.Errorf("duplicate migration version %s in %q and %q", version, prev, name)
	}
	versions[version] = name

	body, err := os.ReadFile(filepath.Join(dir, name))
	if err != nil {
		return fmt.Errorf("read file %q: %w", name, err)
	}

	var problems error
	for _, marker := range []string{"-- +goose Up", "-- +goose Down"} {
		if !strings.Contains(string(body), marker) {
			problems = multierr.Append(problems, fmt.Errorf("migration %q missing %q", name, marker))
		}
	}
	return problems
}
