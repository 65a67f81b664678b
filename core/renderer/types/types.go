package types

import "github.com/stokaro/inkwell/core/ast"

// RenderVisitor is an ast.Visitor that accumulates dialect-specific SQL.
//
// Every Visit method that produces DDL appends one complete statement.
// Statements are kept separate because MySQL and SQLite drivers do not accept
// several statements in a single Exec call.
type RenderVisitor interface {
	ast.Visitor

	// Dialect returns the normalized dialect name (see platform.NormalizeDialect)
	Dialect() string
	// Reset discards everything rendered so far
	Reset()
	// Statements returns the rendered statements without trailing semicolons
	Statements() []string
	// Output returns the statements as a script, one per line, each terminated by a semicolon
	Output() string
}
