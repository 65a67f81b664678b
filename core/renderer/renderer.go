// Package renderer turns schema AST nodes into SQL statements for a dialect.
package renderer

import (
	"fmt"

	"github.com/stokaro/inkwell/core/ast"
	"github.com/stokaro/inkwell/core/platform"
	"github.com/stokaro/inkwell/core/renderer/dialects/mysql"
	"github.com/stokaro/inkwell/core/renderer/dialects/postgres"
	"github.com/stokaro/inkwell/core/renderer/dialects/sqlite"
	"github.com/stokaro/inkwell/core/renderer/types"
)

// ForDialect returns a fresh renderer for dialect. Aliases accepted by
// platform.NormalizeDialect are allowed.
func ForDialect(dialect string) (types.RenderVisitor, error) {
	switch platform.NormalizeDialect(dialect) {
	case platform.Postgres:
		return postgres.New(), nil
	case platform.MySQL:
		return mysql.New(), nil
	case platform.SQLite:
		return sqlite.New(), nil
	default:
		return nil, fmt.Errorf("unsupported dialect: %q", dialect)
	}
}

// Render renders nodes in order and returns the resulting statements.
// Nodes that have no representation in the dialect contribute nothing.
func Render(dialect string, nodes ...ast.Node) ([]string, error) {
	r, err := ForDialect(dialect)
	if err != nil {
		return nil, err
	}
	for _, node := range nodes {
		if err := node.Accept(r); err != nil {
			return nil, fmt.Errorf("render %s: %w", r.Dialect(), err)
		}
	}
	return r.Statements(), nil
}
