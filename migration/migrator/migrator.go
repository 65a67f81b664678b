package migrator

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log/slog"
	"slices"

	"github.com/stokaro/inkwell/dbschema"
)

// MigrationStatus represents the current state of migrations
type MigrationStatus struct {
	CurrentVersion    int64              `json:"current_version"`
	Applied           []AppliedMigration `json:"applied"`
	PendingMigrations []int64            `json:"pending_migrations"`
	TotalMigrations   int                `json:"total_migrations"`
	HasPendingChanges bool               `json:"has_pending_changes"`
}

// Migrator applies and reverts migrations, one transaction per migration.
type Migrator struct {
	conn              *dbschema.DatabaseConnection
	migrationProvider MigrationProvider
	logger            *slog.Logger
}

// NewMigrator creates a new migrator with the given database connection
func NewMigrator(conn *dbschema.DatabaseConnection, provider MigrationProvider) *Migrator {
	return &Migrator{
		conn:              conn,
		migrationProvider: provider,
		logger:            slog.Default(),
	}
}

// WithLogger sets the logger for the migrator
func (m *Migrator) WithLogger(l *slog.Logger) *Migrator {
	tmp := *m
	tmp.logger = l
	return &tmp
}

// MigrationProvider returns the migration provider
func (m *Migrator) MigrationProvider() MigrationProvider {
	return m.migrationProvider
}

// GetCurrentVersion returns the highest applied version, or 0.
func (m *Migrator) GetCurrentVersion(ctx context.Context) (int64, error) {
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return 0, err
	}
	if len(applied) == 0 {
		return 0, nil
	}
	return applied[len(applied)-1].Version, nil
}

// GetPendingMigrations returns, in version order, the migrations whose
// version is not recorded in the ledger. It has no side effects.
func (m *Migrator) GetPendingMigrations(ctx context.Context) ([]*Migration, error) {
	if err := Validate(m.migrationProvider); err != nil {
		return nil, err
	}
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, err
	}
	return m.pending(applied)
}

func (m *Migrator) pending(applied []AppliedMigration) ([]*Migration, error) {
	migrations := m.migrationProvider.Migrations()

	done := make(map[int64]bool, len(applied))
	var unknown []int64
	for _, a := range applied {
		done[a.Version] = true
		if find(migrations, a.Version) == nil {
			unknown = append(unknown, a.Version)
		}
	}
	if len(unknown) > 0 {
		return nil, fmt.Errorf("%w: %v", ErrUnknownVersion, unknown)
	}

	var pending []*Migration
	for _, mig := range migrations {
		if !done[mig.Version] {
			pending = append(pending, mig)
		}
	}
	return pending, nil
}

// GetMigrationStatus reports applied and pending migrations.
func (m *Migrator) GetMigrationStatus(ctx context.Context) (*MigrationStatus, error) {
	if err := Validate(m.migrationProvider); err != nil {
		return nil, err
	}
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to get applied migrations: %w", err)
	}
	pending, err := m.pending(applied)
	if err != nil {
		return nil, fmt.Errorf("failed to get pending migrations: %w", err)
	}

	status := &MigrationStatus{
		Applied:           applied,
		PendingMigrations: versions(pending),
		TotalMigrations:   len(m.migrationProvider.Migrations()),
		HasPendingChanges: len(pending) > 0,
	}
	if len(applied) > 0 {
		status.CurrentVersion = applied[len(applied)-1].Version
	}
	return status, nil
}

// MigrateUp applies every pending migration in version order and returns how
// many were applied. A failing migration is rolled back and reported as a
// *MigrationError; migrations before it stay applied and later ones are not
// attempted.
func (m *Migrator) MigrateUp(ctx context.Context) (int, error) {
	if err := Validate(m.migrationProvider); err != nil {
		return 0, err
	}
	if err := m.ensureLedger(ctx); err != nil {
		return 0, err
	}
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return 0, err
	}
	pending, err := m.pending(applied)
	if err != nil {
		return 0, err
	}

	m.logger.Info("Migrating up", "applied", len(applied), "pending", len(pending))

	for i, mig := range pending {
		m.logger.Info("Applying migration", "version", mig.Version, "description", mig.Description)
		if err := m.run(ctx, mig, Up); err != nil {
			return i, err
		}
		m.logger.Info("Applied migration", "version", mig.Version, "description", mig.Description)
	}

	if len(pending) == 0 {
		m.logger.Info("Schema is up to date")
	} else {
		m.logger.Info("All migrations applied successfully", "count", len(pending))
	}
	return len(pending), nil
}

// MigrateDown reverts only the most recently applied migration.
func (m *Migrator) MigrateDown(ctx context.Context) error {
	if err := Validate(m.migrationProvider); err != nil {
		return err
	}
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}
	if len(applied) == 0 {
		return ErrNothingToRevert
	}

	last := applied[len(applied)-1]
	mig := find(m.migrationProvider.Migrations(), last.Version)
	if mig == nil {
		return fmt.Errorf("%w: %d", ErrUnknownVersion, last.Version)
	}
	return m.revert(ctx, mig)
}

// MigrateDownTo reverts applied migrations newer than targetVersion, newest
// first. A target of 0 reverts everything.
func (m *Migrator) MigrateDownTo(ctx context.Context, targetVersion int64) error {
	if err := Validate(m.migrationProvider); err != nil {
		return err
	}
	applied, err := m.GetAppliedMigrations(ctx)
	if err != nil {
		return err
	}

	migrations := m.migrationProvider.Migrations()
	var todo []*Migration
	for _, a := range slices.Backward(applied) {
		if a.Version <= targetVersion {
			break
		}
		mig := find(migrations, a.Version)
		if mig == nil {
			return fmt.Errorf("%w: %d", ErrUnknownVersion, a.Version)
		}
		todo = append(todo, mig)
	}

	if len(todo) == 0 {
		m.logger.Info("Already at or below target version", "targetVersion", targetVersion)
		return nil
	}

	m.logger.Info("Migrating down", "targetVersion", targetVersion, "count", len(todo))
	for _, mig := range todo {
		if err := m.revert(ctx, mig); err != nil {
			return err
		}
	}
	m.logger.Info("Migrations rolled back successfully", "targetVersion", targetVersion)
	return nil
}

func (m *Migrator) revert(ctx context.Context, mig *Migration) error {
	m.logger.Info("Rolling back migration", "version", mig.Version, "description", mig.Description)
	if err := m.run(ctx, mig, Down); err != nil {
		return err
	}
	m.logger.Info("Rolled back migration", "version", mig.Version, "description", mig.Description)
	return nil
}

// run executes one direction of mig and its ledger change in a single
// transaction. MySQL commits DDL implicitly, so there a failure can leave
// the objects created before the failing statement in place.
func (m *Migrator) run(ctx context.Context, mig *Migration, dir Direction) (err error) {
	fail := func(err error) error {
		return &MigrationError{Version: mig.Version, Description: mig.Description, Direction: dir, Err: err}
	}

	tx, err := m.conn.DB().BeginTx(ctx, nil)
	if err != nil {
		return fail(fmt.Errorf("failed to begin transaction: %w", err))
	}
	defer func() {
		if err == nil {
			return
		}
		if rbErr := tx.Rollback(); rbErr != nil && !errors.Is(rbErr, sql.ErrTxDone) {
			err = errors.Join(err, fmt.Errorf("rollback: %w", rbErr))
		}
	}()

	ed := &txEditor{tx: tx, dialect: m.conn.Dialect(), logger: m.logger}
	if err := mig.fn(dir)(ctx, ed); err != nil {
		return fail(err)
	}

	if dir == Up {
		err = m.recordMigration(ctx, tx, mig)
	} else {
		err = m.deleteMigration(ctx, tx, mig)
	}
	if err != nil {
		return fail(fmt.Errorf("failed to update migrations table: %w", err))
	}

	if err := tx.Commit(); err != nil {
		return fail(fmt.Errorf("failed to commit transaction: %w", err))
	}
	return nil
}
