package migrator_test

import (
	"context"
	"errors"
	"log/slog"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/inkwell/core/ast"
	"github.com/stokaro/inkwell/dbschema"
	"github.com/stokaro/inkwell/internal/testutil"
	"github.com/stokaro/inkwell/migration/migrator"
)

func tableMigration(version int64, table string) *migrator.Migration {
	return &migrator.Migration{
		Version:     version,
		Description: "create_" + table,
		Up: migrator.NodesFunc(ast.NewCreateTable(table).
			AddColumn(ast.NewColumn("id", ast.TypeBigInt).SetPrimary().SetAutoIncrement())),
		Down: migrator.NodesFunc(ast.NewDropTable(table)),
	}
}

func newMigrator(conn *dbschema.DatabaseConnection, migrations ...*migrator.Migration) *migrator.Migrator {
	return migrator.NewMigrator(conn, migrator.NewRegisteredMigrationProvider(migrations...)).
		WithLogger(testutil.DiscardLogger)
}

func tableNames(c *qt.C, conn *dbschema.DatabaseConnection) []string {
	schema, err := conn.Reader().ReadSchema(context.Background())
	c.Assert(err, qt.IsNil)
	return schema.TableNames()
}

func ledgerExists(c *qt.C, conn *dbschema.DatabaseConnection) bool {
	var n int
	err := conn.DB().QueryRow("SELECT COUNT(*) FROM sqlite_master WHERE name = 'schema_migrations'").Scan(&n)
	c.Assert(err, qt.IsNil)
	return n > 0
}

func TestMigrator_WithLogger(t *testing.T) {
	c := qt.New(t)

	provider := migrator.NewRegisteredMigrationProvider()
	m := migrator.NewMigrator(nil, provider)
	m2 := m.WithLogger(slog.Default())

	c.Assert(m2, qt.Not(qt.Equals), m)
	c.Assert(m2.MigrationProvider(), qt.Equals, provider)
}

func TestGetPendingMigrations_HasNoSideEffects(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := testutil.OpenSQLite(t)

	m := newMigrator(conn, tableMigration(2, "b"), tableMigration(1, "a"))
	pending, err := m.GetPendingMigrations(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(pending, qt.HasLen, 2)
	c.Assert(pending[0].Version, qt.Equals, int64(1))
	c.Assert(pending[1].Version, qt.Equals, int64(2))

	c.Assert(ledgerExists(c, conn), qt.IsFalse)
}

func TestMigrateUp_AppliesInOrderAndIsIdempotent(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := testutil.OpenSQLite(t)

	m := newMigrator(conn, tableMigration(1, "a"), tableMigration(2, "b"))

	n, err := m.MigrateUp(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 2)
	c.Assert(tableNames(c, conn), qt.DeepEquals, []string{"a", "b"})

	n, err = m.MigrateUp(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(n, qt.Equals, 0)

	pending, err := m.GetPendingMigrations(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(pending, qt.HasLen, 0)

	applied, err := m.GetAppliedMigrations(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(applied, qt.HasLen, 2)
	c.Assert(applied[0].Description, qt.Equals, "create_a")
	c.Assert(applied[1].AppliedAt.IsZero(), qt.IsFalse)
}

func TestMigrateUp_FailureStopsAtFailingMigration(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := testutil.OpenSQLite(t)

	broken := &migrator.Migration{
		Version:     2,
		Description: "half_done",
		Up: func(ctx context.Context, ed migrator.Editor) error {
			if err := ed.Apply(ctx, tableMigrationNode("b")); err != nil {
				return err
			}
			// "a" already exists, so this fails after "b" was created
			return ed.Apply(ctx, tableMigrationNode("a"))
		},
		Down: migrator.NoopMigrationFunc,
	}
	m := newMigrator(conn, tableMigration(1, "a"), broken, tableMigration(3, "c"))

	n, err := m.MigrateUp(ctx)
	c.Assert(n, qt.Equals, 1)

	var migErr *migrator.MigrationError
	c.Assert(errors.As(err, &migErr), qt.IsTrue)
	c.Assert(migErr.Version, qt.Equals, int64(2))
	c.Assert(migErr.Description, qt.Equals, "half_done")
	c.Assert(migErr.Direction, qt.Equals, migrator.Up)

	// "b" was rolled back with the failing migration and "c" never ran
	c.Assert(tableNames(c, conn), qt.DeepEquals, []string{"a"})

	version, err := m.GetCurrentVersion(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(version, qt.Equals, int64(1))
}

func tableMigrationNode(table string) ast.Node {
	return ast.NewCreateTable(table).AddColumn(ast.NewColumn("id", ast.TypeBigInt).SetPrimary())
}

func TestMigrateDown_RevertsOnlyTheLastMigration(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := testutil.OpenSQLite(t)

	m := newMigrator(conn, tableMigration(1, "a"), tableMigration(2, "b"))
	_, err := m.MigrateUp(ctx)
	c.Assert(err, qt.IsNil)

	c.Assert(m.MigrateDown(ctx), qt.IsNil)
	c.Assert(tableNames(c, conn), qt.DeepEquals, []string{"a"})

	pending, err := m.GetPendingMigrations(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(pending, qt.HasLen, 1)
	c.Assert(pending[0].Version, qt.Equals, int64(2))

	c.Assert(m.MigrateDown(ctx), qt.IsNil)
	c.Assert(tableNames(c, conn), qt.HasLen, 0)

	c.Assert(m.MigrateDown(ctx), qt.ErrorIs, migrator.ErrNothingToRevert)
}

func TestMigrateDown_NothingApplied(t *testing.T) {
	c := qt.New(t)
	conn := testutil.OpenSQLite(t)

	m := newMigrator(conn, tableMigration(1, "a"))
	c.Assert(m.MigrateDown(context.Background()), qt.ErrorIs, migrator.ErrNothingToRevert)
	c.Assert(ledgerExists(c, conn), qt.IsFalse)
}

func TestMigrateDownTo(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := testutil.OpenSQLite(t)

	m := newMigrator(conn, tableMigration(1, "a"), tableMigration(2, "b"), tableMigration(3, "c"))
	_, err := m.MigrateUp(ctx)
	c.Assert(err, qt.IsNil)

	c.Assert(m.MigrateDownTo(ctx, 1), qt.IsNil)
	c.Assert(tableNames(c, conn), qt.DeepEquals, []string{"a"})

	// already below target
	c.Assert(m.MigrateDownTo(ctx, 2), qt.IsNil)

	c.Assert(m.MigrateDownTo(ctx, 0), qt.IsNil)
	c.Assert(tableNames(c, conn), qt.HasLen, 0)
}

func TestGetPendingMigrations_DetectsUnknownVersion(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := testutil.OpenSQLite(t)

	_, err := newMigrator(conn, tableMigration(1, "a"), tableMigration(2, "b")).MigrateUp(ctx)
	c.Assert(err, qt.IsNil)

	// a binary that only knows about version 1
	older := newMigrator(conn, tableMigration(1, "a"))

	_, err = older.GetPendingMigrations(ctx)
	c.Assert(err, qt.ErrorIs, migrator.ErrUnknownVersion)

	_, err = older.MigrateUp(ctx)
	c.Assert(err, qt.ErrorIs, migrator.ErrUnknownVersion)

	c.Assert(older.MigrateDown(ctx), qt.ErrorIs, migrator.ErrUnknownVersion)
}

func TestGetMigrationStatus(t *testing.T) {
	c := qt.New(t)
	ctx := context.Background()
	conn := testutil.OpenSQLite(t)

	m := newMigrator(conn, tableMigration(1, "a"), tableMigration(2, "b"))

	status, err := m.GetMigrationStatus(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(status.CurrentVersion, qt.Equals, int64(0))
	c.Assert(status.PendingMigrations, qt.DeepEquals, []int64{1, 2})
	c.Assert(status.TotalMigrations, qt.Equals, 2)
	c.Assert(status.HasPendingChanges, qt.IsTrue)

	_, err = m.MigrateUp(ctx)
	c.Assert(err, qt.IsNil)

	status, err = m.GetMigrationStatus(ctx)
	c.Assert(err, qt.IsNil)
	c.Assert(status.CurrentVersion, qt.Equals, int64(2))
	c.Assert(status.Applied, qt.HasLen, 2)
	c.Assert(status.PendingMigrations, qt.HasLen, 0)
	c.Assert(status.HasPendingChanges, qt.IsFalse)
}

func TestMigrateUp_RejectsInvalidCatalog(t *testing.T) {
	c := qt.New(t)
	conn := testutil.OpenSQLite(t)

	m := newMigrator(conn, tableMigration(1, "a"), tableMigration(1, "b"))
	_, err := m.MigrateUp(context.Background())
	c.Assert(err, qt.ErrorIs, migrator.ErrInvalidCatalog)
	c.Assert(ledgerExists(c, conn), qt.IsFalse)
}

func TestMigrationError(t *testing.T) {
	c := qt.New(t)

	cause := errors.New("boom")
	err := error(&migrator.MigrationError{Version: 7, Description: "seven", Direction: migrator.Down, Err: cause})
	c.Assert(err, qt.ErrorMatches, "migration 7 \\(seven\\) down: boom")
	c.Assert(err, qt.ErrorIs, cause)
}

func TestRender(t *testing.T) {
	c := qt.New(t)
	provider := migrator.NewRegisteredMigrationProvider(tableMigration(2, "b"), tableMigration(1, "a"))

	up, err := migrator.Render(context.Background(), provider, "sqlite", migrator.Up)
	c.Assert(err, qt.IsNil)
	c.Assert(up, qt.HasLen, 2)
	c.Assert(up[0].Version, qt.Equals, int64(1))
	c.Assert(up[0].Statements, qt.DeepEquals, []string{"CREATE TABLE \"a\" (\n  \"id\" INTEGER PRIMARY KEY AUTOINCREMENT\n)"})

	down, err := migrator.Render(context.Background(), provider, "mysql", migrator.Down)
	c.Assert(err, qt.IsNil)
	c.Assert(down[0].Version, qt.Equals, int64(2))
	c.Assert(down[0].Statements, qt.DeepEquals, []string{"DROP TABLE `b`"})

	_, err = migrator.Render(context.Background(), provider, "oracle", migrator.Up)
	c.Assert(err, qt.ErrorMatches, `unsupported dialect: "oracle"`)
}
