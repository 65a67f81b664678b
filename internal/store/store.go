// Package store is the persistence gateway for the blog entities. It is split
// into a read-only Query side and a Mutation side, both backed by gorm over
// the process-wide connection pool.
package store

import (
	"fmt"
	"log/slog"
	"time"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"github.com/stokaro/inkwell/core/platform"
	"github.com/stokaro/inkwell/dbschema"
)

// Store bundles the query and mutation sides over one gorm handle.
type Store struct {
	db *gorm.DB
}

// Open builds a Store on top of conn. The pool stays owned by conn; closing
// the Store is not required.
func Open(conn *dbschema.DatabaseConnection, log *slog.Logger) (*Store, error) {
	dialector, err := newDialector(conn)
	if err != nil {
		return nil, err
	}
	db, err := gorm.Open(dialector, &gorm.Config{
		SkipDefaultTransaction: true,
		Logger: logger.New(slog.NewLogLogger(log.Handler(), slog.LevelWarn), logger.Config{
			SlowThreshold:             200 * time.Millisecond,
			LogLevel:                  logger.Warn,
			IgnoreRecordNotFoundError: true,
		}),
	})
	if err != nil {
		return nil, fmt.Errorf("open gorm on %s: %w", conn.Dialect(), err)
	}
	return &Store{db: db}, nil
}

func newDialector(conn *dbschema.DatabaseConnection) (gorm.Dialector, error) {
	switch conn.Dialect() {
	case platform.Postgres:
		return postgres.New(postgres.Config{Conn: conn.DB()}), nil
	case platform.MySQL:
		return mysql.New(mysql.Config{
			Conn:                      conn.DB(),
			SkipInitializeWithVersion: true,
		}), nil
	case platform.SQLite:
		return &sqlite.Dialector{
			DriverName: "sqlite",
			Conn:       conn.DB(),
		}, nil
	default:
		return nil, fmt.Errorf("%w: dialect %q", dbschema.ErrUnsupportedURL, conn.Dialect())
	}
}

// Query returns the read side.
func (s *Store) Query() Query {
	return Query{db: s.db}
}

// Mutation returns the write side.
func (s *Store) Mutation() Mutation {
	return Mutation{db: s.db}
}
