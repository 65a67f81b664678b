package platform

import (
	"strconv"
	"strings"
)

const (
	Postgres = "postgres"
	MySQL    = "mysql"
	SQLite   = "sqlite"
)

// Dialects lists every dialect the renderers and readers support.
var Dialects = []string{Postgres, MySQL, SQLite}

func NormalizeDialect(dialect string) string {
	switch strings.ToLower(dialect) {
	case "pgx", "postgresql", "postgres", "pq":
		return Postgres
	case "mysql", "mariadb":
		return MySQL
	case "sqlite", "sqlite3":
		return SQLite
	default:
		return ""
	}
}

// Placeholder returns the bind parameter marker for the n-th (1-based)
// argument of a statement in the given dialect.
func Placeholder(dialect string, n int) string {
	if NormalizeDialect(dialect) == Postgres {
		return "$" + strconv.Itoa(n)
	}
	return "?"
}
