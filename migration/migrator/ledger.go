package migrator

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/stokaro/inkwell/core/ast"
	"github.com/stokaro/inkwell/core/platform"
	"github.com/stokaro/inkwell/core/renderer"
)

// LedgerTable is the table recording applied migrations.
const LedgerTable = "schema_migrations"

// AppliedMigration is one ledger row.
type AppliedMigration struct {
	Version     int64     `json:"version"`
	Description string    `json:"description"`
	AppliedAt   time.Time `json:"applied_at"`
}

func ledgerTableNode() *ast.CreateTableNode {
	return ast.NewCreateTable(LedgerTable).SetIfNotExists().
		AddColumn(ast.NewColumn("version", ast.TypeBigInt).SetPrimary()).
		AddColumn(ast.NewColumn("description", ast.TypeString).SetNotNull()).
		AddColumn(ast.NewColumn("applied_at", ast.TypeTimestamp).SetNotNull())
}

func (m *Migrator) ensureLedger(ctx context.Context) error {
	statements, err := renderer.Render(m.conn.Dialect(), ledgerTableNode())
	if err != nil {
		return err
	}
	for _, stmt := range statements {
		if _, err := m.conn.DB().ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to create migrations table: %w", err)
		}
	}
	return nil
}

func (m *Migrator) ledgerExists(ctx context.Context) (bool, error) {
	var query string
	switch m.conn.Dialect() {
	case platform.Postgres:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = current_schema() AND table_name = 'schema_migrations'"
	case platform.MySQL:
		query = "SELECT COUNT(*) FROM information_schema.tables WHERE table_schema = DATABASE() AND table_name = 'schema_migrations'"
	default:
		query = "SELECT COUNT(*) FROM sqlite_master WHERE type = 'table' AND name = 'schema_migrations'"
	}
	var n int
	if err := m.conn.DB().QueryRowContext(ctx, query).Scan(&n); err != nil {
		return false, fmt.Errorf("failed to look up migrations table: %w", err)
	}
	return n > 0, nil
}

// GetAppliedMigrations returns the ledger rows in ascending version order.
// A missing ledger table means nothing is applied; it is not created.
func (m *Migrator) GetAppliedMigrations(ctx context.Context) ([]AppliedMigration, error) {
	exists, err := m.ledgerExists(ctx)
	if err != nil || !exists {
		return nil, err
	}

	rows, err := m.conn.DB().QueryContext(ctx, "SELECT version, description, applied_at FROM schema_migrations ORDER BY version")
	if err != nil {
		return nil, fmt.Errorf("failed to query applied migrations: %w", err)
	}
	defer rows.Close()

	var applied []AppliedMigration
	for rows.Next() {
		var a AppliedMigration
		if err := rows.Scan(&a.Version, &a.Description, &a.AppliedAt); err != nil {
			return nil, fmt.Errorf("failed to scan migration version: %w", err)
		}
		applied = append(applied, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating migration rows: %w", err)
	}
	return applied, nil
}

func (m *Migrator) recordMigration(ctx context.Context, tx *sql.Tx, mig *Migration) error {
	d := m.conn.Dialect()
	query := fmt.Sprintf("INSERT INTO schema_migrations (version, description, applied_at) VALUES (%s, %s, %s)",
		platform.Placeholder(d, 1), platform.Placeholder(d, 2), platform.Placeholder(d, 3))
	_, err := tx.ExecContext(ctx, query, mig.Version, mig.Description, time.Now().UTC().Truncate(time.Second))
	return err
}

func (m *Migrator) deleteMigration(ctx context.Context, tx *sql.Tx, mig *Migration) error {
	query := "DELETE FROM schema_migrations WHERE version = " + platform.Placeholder(m.conn.Dialect(), 1)
	_, err := tx.ExecContext(ctx, query, mig.Version)
	return err
}
