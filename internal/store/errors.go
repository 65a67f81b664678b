package store

import (
	"errors"
	"fmt"

	"github.com/go-sql-driver/mysql"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/lib/pq"
	"gorm.io/gorm"
	"modernc.org/sqlite"
	sqlite3 "modernc.org/sqlite/lib"
)

var (
	// ErrNotFound is returned by updates whose target row does not exist.
	ErrNotFound = errors.New("not found")

	ErrUniqueViolation     = errors.New("unique constraint violation")
	ErrForeignKeyViolation = errors.New("foreign key constraint violation")
)

const (
	pgUniqueViolation     = "23505"
	pgForeignKeyViolation = "23503"

	mysqlDuplicateEntry     = 1062
	mysqlRowIsReferenced    = 1451
	mysqlNoReferencedRow    = 1452
	mysqlRowIsReferencedOld = 1217
	mysqlNoReferencedRowOld = 1216
)

// ConstraintKind names the store constraint a write ran into.
type ConstraintKind int

const (
	UniqueViolation ConstraintKind = iota + 1
	ForeignKeyViolation
)

func (k ConstraintKind) String() string {
	switch k {
	case UniqueViolation:
		return "unique"
	case ForeignKeyViolation:
		return "foreign key"
	default:
		return "unknown"
	}
}

// ConstraintError is a write rejected by a unique or foreign key constraint.
// Err is the driver error.
type ConstraintError struct {
	Kind       ConstraintKind
	Constraint string
	Err        error
}

func (e *ConstraintError) Error() string {
	if e.Constraint != "" {
		return fmt.Sprintf("%s constraint %s violated: %v", e.Kind, e.Constraint, e.Err)
	}
	return fmt.Sprintf("%s constraint violated: %v", e.Kind, e.Err)
}

func (e *ConstraintError) Unwrap() error {
	return e.Err
}

// Is matches ErrUniqueViolation or ErrForeignKeyViolation according to Kind.
func (e *ConstraintError) Is(target error) bool {
	switch target {
	case ErrUniqueViolation:
		return e.Kind == UniqueViolation
	case ErrForeignKeyViolation:
		return e.Kind == ForeignKeyViolation
	}
	return false
}

// classify wraps driver constraint errors into *ConstraintError. Anything
// else is returned unchanged.
func classify(err error) error {
	if kind, name := constraintKind(err); kind != 0 {
		return &ConstraintError{Kind: kind, Constraint: name, Err: err}
	}
	return err
}

func constraintKind(err error) (ConstraintKind, string) {
	if pgErr := new(pgconn.PgError); errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return UniqueViolation, pgErr.ConstraintName
		case pgForeignKeyViolation:
			return ForeignKeyViolation, pgErr.ConstraintName
		}
		return 0, ""
	}
	if pqErr := new(pq.Error); errors.As(err, &pqErr) {
		switch pqErr.Code {
		case pgUniqueViolation:
			return UniqueViolation, pqErr.Constraint
		case pgForeignKeyViolation:
			return ForeignKeyViolation, pqErr.Constraint
		}
		return 0, ""
	}
	if myErr := new(mysql.MySQLError); errors.As(err, &myErr) {
		switch myErr.Number {
		case mysqlDuplicateEntry:
			return UniqueViolation, ""
		case mysqlRowIsReferenced, mysqlNoReferencedRow, mysqlRowIsReferencedOld, mysqlNoReferencedRowOld:
			return ForeignKeyViolation, ""
		}
		return 0, ""
	}
	if liteErr := new(sqlite.Error); errors.As(err, &liteErr) {
		switch liteErr.Code() {
		case sqlite3.SQLITE_CONSTRAINT_UNIQUE, sqlite3.SQLITE_CONSTRAINT_PRIMARYKEY:
			return UniqueViolation, ""
		case sqlite3.SQLITE_CONSTRAINT_FOREIGNKEY:
			return ForeignKeyViolation, ""
		}
		return 0, ""
	}
	switch {
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return UniqueViolation, ""
	case errors.Is(err, gorm.ErrForeignKeyViolated):
		return ForeignKeyViolation, ""
	}
	return 0, ""
}
