package migrate_test

import (
	"bytes"
	"io"
	"path/filepath"
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/inkwell/cmd/internal/cli"
	"github.com/stokaro/inkwell/cmd/migrate"
)

func run(c *qt.C, g *cli.Globals, args ...string) (string, error) {
	c.Helper()
	cmd := migrate.NewMigrateCommand(g)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(io.Discard)
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestMigrateCommands(t *testing.T) {
	c := qt.New(t)
	g := &cli.Globals{DatabaseURL: "sqlite://" + filepath.Join(c.TempDir(), "migrate.db")}

	out, err := run(c, g, "status")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "pending  20240220180000")
	c.Assert(out, qt.Contains, "pending  20240305090000")

	out, err = run(c, g, "up")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "Applied 2 migration(s)\n")

	out, err = run(c, g, "up")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "Applied 0 migration(s)\n")

	out, err = run(c, g, "status")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Current version: 20240305090000")
	c.Assert(out, qt.Contains, "Schema is up to date")

	_, err = run(c, g, "down")
	c.Assert(err, qt.IsNil)

	out, err = run(c, g, "status", "--format", "json")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, `"current_version":20240220180000`)
	c.Assert(out, qt.Contains, `"pending_migrations":[20240305090000]`)

	_, err = run(c, g, "reset")
	c.Assert(err, qt.IsNil)

	out, err = run(c, g, "down")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Equals, "Nothing to revert\n")

	_, err = run(c, g, "up")
	c.Assert(err, qt.IsNil)
	_, err = run(c, g, "down", "--to", "20240220180000")
	c.Assert(err, qt.IsNil)
	out, err = run(c, g, "status")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "Current version: 20240220180000")

	_, err = run(c, g, "down", "--to", "latest")
	c.Assert(err, qt.ErrorMatches, `invalid --to value "latest": .*`)
}

func TestMigrateRender(t *testing.T) {
	c := qt.New(t)

	out, err := run(c, &cli.Globals{}, "render", "--dialect", "postgres")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, "-- dialect: postgres, direction: up")
	c.Assert(out, qt.Contains, "-- 20240220180000 create_author_and_post")
	c.Assert(out, qt.Contains, `CREATE TYPE "gender" AS ENUM ('female', 'male', 'unknown');`)

	out, err = run(c, &cli.Globals{}, "render", "--dialect", "sqlite", "--direction", "down")
	c.Assert(err, qt.IsNil)
	c.Assert(out, qt.Contains, `DROP TABLE "post_tag";`)

	_, err = run(c, &cli.Globals{}, "render", "--direction", "sideways")
	c.Assert(err, qt.ErrorMatches, `invalid migration direction: "sideways"`)
}

func TestMigrate_RequiresDatabase(t *testing.T) {
	c := qt.New(t)
	_, err := run(c, &cli.Globals{}, "up")
	c.Assert(err, qt.ErrorMatches, `no database URL configured.*`)
}
