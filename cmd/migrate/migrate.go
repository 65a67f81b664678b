package migrate

import (
	"errors"
	"fmt"
	"io"
	"strconv"

	"github.com/go-extras/cobraflags"
	"github.com/go-json-experiment/json"
	"github.com/spf13/cobra"

	"github.com/stokaro/inkwell/cmd/internal/cli"
	"github.com/stokaro/inkwell/core/platform"
	"github.com/stokaro/inkwell/migration/migrations"
	"github.com/stokaro/inkwell/migration/migrator"
)

const (
	toFlag        = "to"
	formatFlag    = "format"
	dialectFlag   = "dialect"
	directionFlag = "direction"
)

var downFlags = map[string]cobraflags.Flag{
	toFlag: &cobraflags.StringFlag{
		Name:  toFlag,
		Value: "",
		Usage: "Revert every migration newer than this version instead of only the last one",
	},
}

var statusFlags = map[string]cobraflags.Flag{
	formatFlag: &cobraflags.StringFlag{
		Name:  formatFlag,
		Value: "text",
		Usage: "Output format (text or json)",
	},
}

var renderFlags = map[string]cobraflags.Flag{
	dialectFlag: &cobraflags.StringFlag{
		Name:  dialectFlag,
		Value: "",
		Usage: "Database dialect (postgres, mysql, sqlite). If empty, renders for all dialects",
	},
	directionFlag: &cobraflags.StringFlag{
		Name:  directionFlag,
		Value: string(migrator.Up),
		Usage: "Migration direction to render (up or down)",
	},
}

func NewMigrateCommand(g *cli.Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "migrate [up|down|reset|status|render]",
		Short: "Apply, revert and inspect schema migrations",
		Long: `Apply, revert and inspect schema migrations.

Migrations run one at a time, each in its own transaction. Only one
migrator may run against a database at a time.`,
	}
	cmd.AddCommand(
		&cobra.Command{
			Use:   "up",
			Short: "Apply every pending migration",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, g, func(m *migrator.Migrator) error {
					n, err := m.MigrateUp(cmd.Context())
					if err != nil {
						return err
					}
					fmt.Fprintf(cmd.OutOrStdout(), "Applied %d migration(s)\n", n)
					return nil
				})
			},
		},
		newDownCommand(g),
		&cobra.Command{
			Use:   "reset",
			Short: "Revert every applied migration, newest first",
			RunE: func(cmd *cobra.Command, _ []string) error {
				return withMigrator(cmd, g, func(m *migrator.Migrator) error {
					return m.MigrateDownTo(cmd.Context(), 0)
				})
			},
		},
		newStatusCommand(g),
		newRenderCommand(),
	)
	return cmd
}

func newDownCommand(g *cli.Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "down",
		Short: "Revert the most recently applied migration",
		RunE: func(cmd *cobra.Command, _ []string) error {
			to := downFlags[toFlag].GetString()
			return withMigrator(cmd, g, func(m *migrator.Migrator) error {
				if to == "" {
					err := m.MigrateDown(cmd.Context())
					if errors.Is(err, migrator.ErrNothingToRevert) {
						fmt.Fprintln(cmd.OutOrStdout(), "Nothing to revert")
						return nil
					}
					return err
				}
				version, err := strconv.ParseInt(to, 10, 64)
				if err != nil {
					return fmt.Errorf("invalid --%s value %q: %w", toFlag, to, err)
				}
				return m.MigrateDownTo(cmd.Context(), version)
			})
		},
	}
	cobraflags.RegisterMap(cmd, downFlags)
	return cmd
}

func newStatusCommand(g *cli.Globals) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "status",
		Short: "Show applied and pending migrations",
		RunE: func(cmd *cobra.Command, _ []string) error {
			format := statusFlags[formatFlag].GetString()
			if format != "text" && format != "json" {
				return fmt.Errorf("invalid --%s value %q (want text or json)", formatFlag, format)
			}
			return withMigrator(cmd, g, func(m *migrator.Migrator) error {
				status, err := m.GetMigrationStatus(cmd.Context())
				if err != nil {
					return err
				}
				return printStatus(cmd.OutOrStdout(), status, format == "json")
			})
		},
	}
	cobraflags.RegisterMap(cmd, statusFlags)
	return cmd
}

func newRenderCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print the SQL of every migration without touching a database",
		RunE: func(cmd *cobra.Command, _ []string) error {
			dir, err := migrator.ParseDirection(renderFlags[directionFlag].GetString())
			if err != nil {
				return err
			}
			dialects := platform.Dialects
			if d := renderFlags[dialectFlag].GetString(); d != "" {
				dialects = []string{d}
			}
			for _, dialect := range dialects {
				if err := render(cmd, dialect, dir); err != nil {
					return err
				}
			}
			return nil
		},
	}
	cobraflags.RegisterMap(cmd, renderFlags)
	return cmd
}

func render(cmd *cobra.Command, dialect string, dir migrator.Direction) error {
	rendered, err := migrator.Render(cmd.Context(), migrations.Provider(), dialect, dir)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "-- dialect: %s, direction: %s\n", dialect, dir)
	for _, r := range rendered {
		fmt.Fprintf(out, "\n-- %d %s\n", r.Version, r.Description)
		for _, stmt := range r.Statements {
			fmt.Fprintf(out, "%s;\n", stmt)
		}
	}
	return nil
}

func withMigrator(cmd *cobra.Command, g *cli.Globals, fn func(*migrator.Migrator) error) error {
	cfg, logger, err := g.Load(cmd.ErrOrStderr(), nil)
	if err != nil {
		return err
	}
	conn, err := cli.Connect(cmd.Context(), cfg, logger)
	if err != nil {
		return err
	}
	defer conn.Close()
	return fn(migrator.NewMigrator(conn, migrations.Provider()).WithLogger(logger))
}

func printStatus(w io.Writer, status *migrator.MigrationStatus, asJSON bool) error {
	if asJSON {
		return json.MarshalFull(w, status)
	}
	fmt.Fprintf(w, "Current version: %d\n", status.CurrentVersion)
	fmt.Fprintf(w, "Total migrations: %d\n", status.TotalMigrations)
	for _, a := range status.Applied {
		fmt.Fprintf(w, "  applied  %d  %s  (%s)\n", a.Version, a.Description, a.AppliedAt.Format("2006-01-02 15:04:05"))
	}
	for _, v := range status.PendingMigrations {
		fmt.Fprintf(w, "  pending  %d\n", v)
	}
	if !status.HasPendingChanges {
		fmt.Fprintln(w, "Schema is up to date")
	}
	return nil
}
