package renderer_test

import (
	"testing"

	qt "github.com/frankban/quicktest"

	"github.com/stokaro/inkwell/core/ast"
	"github.com/stokaro/inkwell/core/renderer"
)

func TestForDialect(t *testing.T) {
	tests := []struct {
		dialect  string
		expected string
	}{
		{"postgres", "postgres"},
		{"pgx", "postgres"},
		{"MySQL", "mysql"},
		{"mariadb", "mysql"},
		{"sqlite3", "sqlite"},
	}

	for _, tt := range tests {
		t.Run(tt.dialect, func(t *testing.T) {
			c := qt.New(t)

			r, err := renderer.ForDialect(tt.dialect)
			c.Assert(err, qt.IsNil)
			c.Assert(r.Dialect(), qt.Equals, tt.expected)
		})
	}
}

func TestForDialect_Unsupported(t *testing.T) {
	c := qt.New(t)

	_, err := renderer.ForDialect("oracle")
	c.Assert(err, qt.ErrorMatches, `unsupported dialect: "oracle"`)
}

func TestRender_SkipsNodesWithoutRepresentation(t *testing.T) {
	c := qt.New(t)

	gender := ast.NewEnum("gender", "female", "male")
	nodes := []ast.Node{gender, ast.NewDropTable("author"), ast.NewDropType("gender")}

	pg, err := renderer.Render("postgres", nodes...)
	c.Assert(err, qt.IsNil)
	c.Assert(pg, qt.HasLen, 3)

	my, err := renderer.Render("mysql", nodes...)
	c.Assert(err, qt.IsNil)
	c.Assert(my, qt.DeepEquals, []string{"DROP TABLE `author`"})
}

func TestRender_WrapsErrors(t *testing.T) {
	c := qt.New(t)

	_, err := renderer.Render("sqlite", ast.NewCreateTable("empty"))
	c.Assert(err, qt.ErrorMatches, "render sqlite: table empty has no columns")
}
