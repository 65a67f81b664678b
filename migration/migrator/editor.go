package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/stokaro/inkwell/core/ast"
	"github.com/stokaro/inkwell/core/renderer"
)

// txEditor executes rendered statements inside a migration transaction.
type txEditor struct {
	tx      *sql.Tx
	dialect string
	logger  *slog.Logger
}

func (e *txEditor) Dialect() string {
	return e.dialect
}

func (e *txEditor) Apply(ctx context.Context, nodes ...ast.Node) error {
	statements, err := renderer.Render(e.dialect, nodes...)
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		e.logger.Debug("Executing statement", "sql", stmt)
		if _, err := e.tx.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to execute SQL statement: %w\nSQL: %s", err, stmt)
		}
	}
	return nil
}

// recordingEditor renders statements without executing them.
type recordingEditor struct {
	dialect    string
	statements []string
}

func (e *recordingEditor) Dialect() string {
	return e.dialect
}

func (e *recordingEditor) Apply(_ context.Context, nodes ...ast.Node) error {
	statements, err := renderer.Render(e.dialect, nodes...)
	if err != nil {
		return err
	}
	e.statements = append(e.statements, statements...)
	return nil
}

// RenderedMigration holds the statements one migration direction would execute.
type RenderedMigration struct {
	Version     int64
	Description string
	Statements  []string
}

// Render performs a dry run of every migration in provider for dialect.
// Up renders in ascending version order, Down in descending order.
func Render(ctx context.Context, provider MigrationProvider, dialect string, dir Direction) ([]RenderedMigration, error) {
	if err := Validate(provider); err != nil {
		return nil, err
	}
	if _, err := renderer.ForDialect(dialect); err != nil {
		return nil, err
	}

	migrations := provider.Migrations()
	out := make([]RenderedMigration, 0, len(migrations))
	for i := range migrations {
		m := migrations[i]
		if dir == Down {
			m = migrations[len(migrations)-1-i]
		}
		ed := &recordingEditor{dialect: dialect}
		if err := m.fn(dir)(ctx, ed); err != nil {
			return nil, &MigrationError{Version: m.Version, Description: m.Description, Direction: dir, Err: err}
		}
		out = append(out, RenderedMigration{Version: m.Version, Description: m.Description, Statements: ed.statements})
	}
	return out, nil
}
