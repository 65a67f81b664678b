// Package testutil opens databases for tests.
//
// Unit tests run against a temp-file SQLite database. Setting PG_DSN or
// MYSQL_DSN points the contract tests at a real server instead; those
// databases are reset destructively.
package testutil

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stokaro/inkwell/core/platform"
	"github.com/stokaro/inkwell/dbschema"
	"github.com/stokaro/inkwell/migration/migrations"
	"github.com/stokaro/inkwell/migration/migrator"
)

// DiscardLogger is a logger for code under test that must not print.
var DiscardLogger = slog.New(slog.NewTextHandler(io.Discard, nil))

// OpenSQLite opens an empty temp-file SQLite database that is closed when the test ends.
func OpenSQLite(t testing.TB) *dbschema.DatabaseConnection {
	t.Helper()
	return Open(t, "sqlite://"+filepath.Join(t.TempDir(), "inkwell.db"))
}

// Open connects to dbURL and removes every blog object from it, leaving an
// empty schema.
func Open(t testing.TB, dbURL string) *dbschema.DatabaseConnection {
	t.Helper()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	conn, err := dbschema.ConnectToDatabase(ctx, dbURL, dbschema.PoolConfig{})
	if err != nil {
		t.Fatalf("connect %s: %v", dbURL, err)
	}
	t.Cleanup(func() { _ = conn.Close() })

	if err := reset(ctx, conn); err != nil {
		t.Fatalf("reset schema: %v", err)
	}
	return conn
}

// OpenFromEnv opens the database named by env, skipping the test when it is unset.
func OpenFromEnv(t testing.TB, env string) *dbschema.DatabaseConnection {
	t.Helper()

	dsn := os.Getenv(env)
	if dsn == "" {
		t.Skipf("%s not set; skipping contract tests", env)
	}
	return Open(t, dsn)
}

// OpenMigrated opens an SQLite database with every migration applied.
func OpenMigrated(t testing.TB) *dbschema.DatabaseConnection {
	t.Helper()
	conn := OpenSQLite(t)
	Migrate(t, conn)
	return conn
}

// Migrate applies the full catalog to conn.
func Migrate(t testing.TB, conn *dbschema.DatabaseConnection) {
	t.Helper()

	m := migrator.NewMigrator(conn, migrations.Provider()).WithLogger(DiscardLogger)
	if _, err := m.MigrateUp(context.Background()); err != nil {
		t.Fatalf("apply migrations: %v", err)
	}
}

func reset(ctx context.Context, conn *dbschema.DatabaseConnection) error {
	var statements []string
	switch conn.Dialect() {
	case platform.Postgres:
		statements = []string{"DROP SCHEMA IF EXISTS public CASCADE", "CREATE SCHEMA public"}
	case platform.MySQL:
		for _, table := range []string{
			migrations.TablePostTag,
			migrations.TableTag,
			migrations.TablePost,
			migrations.TableAuthor,
			migrator.LedgerTable,
		} {
			statements = append(statements, "DROP TABLE IF EXISTS `"+table+"`")
		}
	default:
		// temp-file SQLite databases start empty
	}
	for _, stmt := range statements {
		if _, err := conn.DB().ExecContext(ctx, stmt); err != nil {
			return err
		}
	}
	return nil
}
