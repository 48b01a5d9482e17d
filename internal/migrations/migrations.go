package migrations

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"regexp"
	"strings"

	"github.com/pressly/goose/v3"
)

//go:embed sql/*.sql
var embedded embed.FS

const Dir = "sql"

var fileNameRe = regexp.MustCompile(`^(\d{5})_[a-z0-9_]+\.sql$`)

// Commands accepted by Run.
var Commands = []string{"up", "down", "status", "version", "redo", "reset"}

// Run executes a goose command against the embedded migrations.
func Run(ctx context.Context, db *sql.DB, command string, args ...string) error {
	if db == nil {
		return fmt.Errorf("db is required")
	}

	if !isKnown(command) {
		return fmt.Errorf("unknown migration command %q (expected one of %s)", command, strings.Join(Commands, ", "))
	}

	goose.SetBaseFS(embedded)
	defer goose.SetBaseFS(nil)

	if err := goose.SetDialect("postgres"); err != nil {
		return fmt.Errorf("set goose dialect: %w", err)
	}

	if err := goose.RunContext(ctx, command, db, Dir, args...); err != nil {
		return fmt.Errorf("goose %s: %w", command, err)
	}

	return nil
}

// Files lists the embedded migration file names in apply order.
func Files() ([]string, error) {
	entries, err := fs.ReadDir(embedded, Dir)
	if err != nil {
		return nil, fmt.Errorf("read embedded migrations: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if !e.IsDir() && strings.HasSuffix(e.Name(), ".sql") {
			names = append(names, e.Name())
		}
	}

	return names, nil
}

func isKnown(command string) bool {
	for _, c := range Commands {
		if c == command {
			return true
		}
	}

	return false
}

// Validate checks file names, version uniqueness and goose annotations of
// the embedded migrations.
func Validate() error {
	names, err := Files()
	if err != nil {
		return err
	}

	if len(names) == 0 {
		return fmt.Errorf("no migrations embedded")
	}

	seen := map[string]string{}

	for _, name := range names {
		m := fileNameRe.FindStringSubmatch(name)
		if m == nil {
			return fmt.Errorf("invalid migration filename %q (expected NNNNN_name.sql)", name)
		}

		if prev, ok := seen[m[1]]; ok {
			return fmt.Errorf("duplicate migration version %s in %q and %q", m[1], prev, name)
		}
		seen[m[1]] = name

		b, err := fs.ReadFile(embedded, path.Join(Dir, name))
		if err != nil {
			return fmt.Errorf("read migration %q: %w", name, err)
		}

		txt := string(b)
		if !strings.Contains(txt, "-- +goose Up") {
			return fmt.Errorf("migration %q missing \"-- +goose Up\"", name)
		}
		if !strings.Contains(txt, "-- +goose Down") {
			return fmt.Errorf("migration %q missing \"-- +goose Down\"", name)
		}
	}

	return nil
}
