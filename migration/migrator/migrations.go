package migrator

import (
	"context"
	"errors"
	"fmt"

	"github.com/stokaro/inkwell/core/ast"
)

// Direction tells which half of a migration runs.
type Direction string

const (
	Up   Direction = "up"
	Down Direction = "down"
)

// ParseDirection parses "up" or "down".
func ParseDirection(s string) (Direction, error) {
	switch Direction(s) {
	case Up, Down:
		return Direction(s), nil
	default:
		return "", fmt.Errorf("invalid migration direction: %q", s)
	}
}

// Editor is the schema-editing handle a migration function receives. Nodes
// are rendered for the connection's dialect and executed inside the
// migration's transaction.
type Editor interface {
	// Dialect returns the normalized dialect the nodes are rendered for
	Dialect() string
	// Apply renders and executes nodes in order
	Apply(ctx context.Context, nodes ...ast.Node) error
}

// MigrationFunc represents one direction of a migration
type MigrationFunc func(ctx context.Context, ed Editor) error

// NodesFunc returns a migration function that applies a fixed list of nodes
func NodesFunc(nodes ...ast.Node) MigrationFunc {
	return func(ctx context.Context, ed Editor) error {
		return ed.Apply(ctx, nodes...)
	}
}

// NoopMigrationFunc is a no-op migration function
func NoopMigrationFunc(_ context.Context, _ Editor) error {
	return nil
}

// Migration represents a database migration
type Migration struct {
	Version     int64
	Description string
	Up          MigrationFunc
	Down        MigrationFunc
}

func (m *Migration) fn(dir Direction) MigrationFunc {
	if dir == Down {
		return m.Down
	}
	return m.Up
}

var (
	// ErrNothingToRevert is returned by MigrateDown when no migration is applied.
	ErrNothingToRevert = errors.New("no applied migration to revert")
	// ErrUnknownVersion is returned when the ledger records a version the
	// provider does not know about.
	ErrUnknownVersion = errors.New("applied migration version is not registered")
	// ErrInvalidCatalog is returned when the registered migrations are malformed.
	ErrInvalidCatalog = errors.New("invalid migration catalog")
)

// MigrationError identifies the migration that failed.
type MigrationError struct {
	Version     int64
	Description string
	Direction   Direction
	Err         error
}

func (e *MigrationError) Error() string {
	return fmt.Sprintf("migration %d (%s) %s: %v", e.Version, e.Description, e.Direction, e.Err)
}

func (e *MigrationError) Unwrap() error {
	return e.Err
}
