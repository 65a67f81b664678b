// Package cli holds what every inkwell command shares: the global flags,
// configuration loading and the database connection.
package cli

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"maps"

	"github.com/go-extras/cobraflags"
	"github.com/spf13/cobra"

	"github.com/stokaro/inkwell/config"
	"github.com/stokaro/inkwell/dbschema"
)

const (
	configFlag      = "config"
	databaseURLFlag = "database-url"
	logLevelFlag    = "log-level"
	logFormatFlag   = "log-format"
)

func newGlobalFlags() map[string]cobraflags.Flag {
	return map[string]cobraflags.Flag{
		configFlag: &cobraflags.StringFlag{
			Name:       configFlag,
			Value:      "",
			Usage:      "YAML config file",
			Persistent: true,
		},
		databaseURLFlag: &cobraflags.StringFlag{
			Name:       databaseURLFlag,
			Value:      "",
			Usage:      "Database URL (overrides DATABASE_URL)",
			Persistent: true,
		},
		logLevelFlag: &cobraflags.StringFlag{
			Name:       logLevelFlag,
			Value:      "",
			Usage:      "Log level: debug, info, warn or error",
			Persistent: true,
		},
		logFormatFlag: &cobraflags.StringFlag{
			Name:       logFormatFlag,
			Value:      "",
			Usage:      "Log format: text or json",
			Persistent: true,
		},
	}
}

// Globals are the persistent flags of the root command. Commands built
// without a root (tests) may set the fields directly instead.
type Globals struct {
	ConfigFile  string
	DatabaseURL string
	LogLevel    string
	LogFormat   string

	flags map[string]cobraflags.Flag
}

// Register adds the global flags to cmd as persistent flags. Each Globals
// gets its own flag set, so several root commands can coexist in one process.
func (g *Globals) Register(cmd *cobra.Command) {
	g.flags = newGlobalFlags()
	cobraflags.RegisterMap(cmd, g.flags)
}

// resolve copies flag values given on the command line over the fields.
func (g *Globals) resolve() {
	if g.flags == nil {
		return
	}
	for name, field := range map[string]*string{
		configFlag:      &g.ConfigFile,
		databaseURLFlag: &g.DatabaseURL,
		logLevelFlag:    &g.LogLevel,
		logFormatFlag:   &g.LogFormat,
	} {
		if v := g.flags[name].GetString(); v != "" {
			*field = v
		}
	}
}

// Load reads the configuration with the global flags and overrides applied,
// and builds the logger. Empty override values are ignored.
func (g *Globals) Load(stderr io.Writer, overrides map[string]string) (config.Config, *slog.Logger, error) {
	g.resolve()
	all := Overrides(
		config.KeyDatabaseURL, g.DatabaseURL,
		config.KeyLogLevel, g.LogLevel,
		config.KeyLogFormat, g.LogFormat,
	)
	maps.Copy(all, overrides)

	cfg, err := config.Load(config.LoadOptions{File: g.ConfigFile, Overrides: all})
	if err != nil {
		return config.Config{}, nil, err
	}
	logger, err := cfg.Log.NewLogger(stderr)
	if err != nil {
		return config.Config{}, nil, err
	}
	return cfg, logger, nil
}

// Overrides builds an override map from key, value pairs, skipping empty values.
func Overrides(pairs ...string) map[string]string {
	m := make(map[string]string, len(pairs)/2)
	for i := 0; i+1 < len(pairs); i += 2 {
		if pairs[i+1] != "" {
			m[pairs[i]] = pairs[i+1]
		}
	}
	return m
}

// Connect opens the database named by cfg.
func Connect(ctx context.Context, cfg config.Config, logger *slog.Logger) (*dbschema.DatabaseConnection, error) {
	if err := cfg.RequireDatabase(); err != nil {
		return nil, err
	}
	conn, err := dbschema.ConnectToDatabase(ctx, cfg.DatabaseURL, dbschema.PoolConfig{
		MaxOpenConns: cfg.DB.MaxOpenConns,
		MaxIdleConns: cfg.DB.MaxIdleConns,
	})
	if err != nil {
		return nil, fmt.Errorf("connect to database: %w", err)
	}
	info := conn.Info()
	logger.Info("Connected to database", "dialect", info.Dialect, "driver", info.Driver, "version", info.Version)
	return conn, nil
}
