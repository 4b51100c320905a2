package localstore

import (
	"context"
	"embed"
	"fmt"
	"io/fs"
	"path"
	"slices"
	"strconv"
	"strings"
)

// Schema steps live in migrations/NNNN_name.sql. The database records the
// last step it has seen in PRAGMA user_version.
//
//go:embed migrations/*.sql
var schemaFS embed.FS

type schemaStep struct {
	version int
	name    string
	script  string
}

func schemaSteps() ([]schemaStep, error) {
	files, err := fs.Glob(schemaFS, "migrations/*.sql")
	if err != nil {
		return nil, fmt.Errorf("list schema steps: %w", err)
	}
	steps := make([]schemaStep, 0, len(files))
	for _, file := range files {
		base := strings.TrimSuffix(path.Base(file), ".sql")
		prefix, _, _ := strings.Cut(base, "_")
		version, err := strconv.Atoi(prefix)
		if err != nil || version <= 0 {
			return nil, fmt.Errorf("schema step %s: name must start with a positive number", file)
		}
		script, err := fs.ReadFile(schemaFS, file)
		if err != nil {
			return nil, fmt.Errorf("read schema step %s: %w", file, err)
		}
		steps = append(steps, schemaStep{version: version, name: base, script: string(script)})
	}
	slices.SortFunc(steps, func(a, b schemaStep) int { return a.version - b.version })
	for i := 1; i < len(steps); i++ {
		if steps[i].version == steps[i-1].version {
			return nil, fmt.Errorf("schema steps %s and %s share version %d", steps[i-1].name, steps[i].name, steps[i].version)
		}
	}
	return steps, nil
}

// SchemaVersion reports the schema step the database is at.
func (s *Store) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	if err := s.db.QueryRowContext(ctx, "PRAGMA user_version").Scan(&version); err != nil {
		return 0, fmt.Errorf("read schema version: %w", err)
	}
	return version, nil
}

// upgrade brings the database to the newest embedded step. Each step commits
// on its own so a failure leaves the earlier ones in place.
func (s *Store) upgrade(ctx context.Context) error {
	steps, err := schemaSteps()
	if err != nil {
		return err
	}
	current, err := s.SchemaVersion(ctx)
	if err != nil {
		return err
	}
	if n := len(steps); n > 0 && current > steps[n-1].version {
		return fmt.Errorf("database schema %d is newer than this build supports (%d)", current, steps[n-1].version)
	}

	for _, step := range steps {
		if step.version <= current {
			continue
		}
		if err := s.runStep(ctx, step); err != nil {
			return err
		}
	}
	return nil
}

func (s *Store) runStep(ctx context.Context, step schemaStep) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("schema step %s: begin: %w", step.name, err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, step.script); err != nil {
		return fmt.Errorf("schema step %s: %w", step.name, err)
	}
	// PRAGMA arguments cannot be bound parameters.
	if _, err := tx.ExecContext(ctx, "PRAGMA user_version = "+strconv.Itoa(step.version)); err != nil {
		return fmt.Errorf("schema step %s: record version: %w", step.name, err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("schema step %s: commit: %w", step.name, err)
	}
	return nil
}
