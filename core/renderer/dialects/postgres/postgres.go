package postgres

import (
	"fmt"
	"strings"

	"github.com/stokaro/inkwell/core/ast"
	"github.com/stokaro/inkwell/core/platform"
	"github.com/stokaro/inkwell/core/renderer/dialects/internal/bufwriter"
	"github.com/stokaro/inkwell/core/renderer/types"
)

var (
	_ types.RenderVisitor = (*Renderer)(nil)
)

// Renderer provides PostgreSQL-specific SQL rendering
type Renderer struct {
	w bufwriter.Writer
}

// New creates a new PostgreSQL renderer
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Dialect() string {
	return platform.Postgres
}

func (r *Renderer) Reset() {
	r.w.Reset()
}

func (r *Renderer) Statements() []string {
	return r.w.Statements()
}

func (r *Renderer) Output() string {
	return r.w.Output()
}

func quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// VisitEnum renders CREATE TYPE ... AS ENUM
func (r *Renderer) VisitEnum(node *ast.EnumNode) error {
	if len(node.Values) == 0 {
		return fmt.Errorf("enum %s has no values", node.Name)
	}
	r.w.Statement("CREATE TYPE %s AS ENUM (%s)", quote(node.Name), bufwriter.QuoteLiterals(node.Values))
	return nil
}

// VisitCreateTable renders CREATE TABLE with inline columns and table constraints
func (r *Renderer) VisitCreateTable(node *ast.CreateTableNode) error {
	if len(node.Columns) == 0 {
		return fmt.Errorf("table %s has no columns", node.Name)
	}
	r.w.Write("CREATE TABLE ")
	if node.IfNotExists {
		r.w.Write("IF NOT EXISTS ")
	}
	r.w.Writef("%s (\n", quote(node.Name))
	for i, col := range node.Columns {
		r.w.Write("  ")
		if err := col.Accept(r); err != nil {
			return err
		}
		if i < len(node.Columns)-1 || len(node.Constraints) > 0 {
			r.w.Write(",")
		}
		r.w.Write("\n")
	}
	for i, c := range node.Constraints {
		r.w.Write("  ")
		if err := c.Accept(r); err != nil {
			return err
		}
		if i < len(node.Constraints)-1 {
			r.w.Write(",")
		}
		r.w.Write("\n")
	}
	r.w.Write(")")
	r.w.End()
	return nil
}

// VisitColumn writes a column definition into the CREATE TABLE being rendered
func (r *Renderer) VisitColumn(node *ast.ColumnNode) error {
	colType, err := columnType(node)
	if err != nil {
		return err
	}
	r.w.Writef("%s %s", quote(node.Name), colType)
	switch {
	case node.Primary:
		r.w.Write(" PRIMARY KEY")
	case !node.Nullable:
		r.w.Write(" NOT NULL")
	}
	return nil
}

func columnType(node *ast.ColumnNode) (string, error) {
	if node.Enum != nil {
		return quote(node.Enum.Name), nil
	}
	switch node.Type {
	case ast.TypeBigInt:
		if node.AutoInc {
			return "BIGSERIAL", nil
		}
		return "BIGINT", nil
	case ast.TypeString:
		return "VARCHAR(255)", nil
	case ast.TypeText:
		return "TEXT", nil
	case ast.TypeTimestamp:
		return "TIMESTAMP", nil
	default:
		return "", fmt.Errorf("column %s: unsupported type %q", node.Name, node.Type)
	}
}

// VisitConstraint writes a table constraint into the CREATE TABLE being rendered
func (r *Renderer) VisitConstraint(node *ast.ConstraintNode) error {
	if node.Name != "" && node.Type != ast.PrimaryKeyConstraint {
		r.w.Writef("CONSTRAINT %s ", quote(node.Name))
	}
	r.w.Writef("%s (%s)", node.Type, bufwriter.QuoteList(quote, node.Columns))
	if node.Type == ast.ForeignKeyConstraint {
		if node.Reference == nil {
			return fmt.Errorf("foreign key %s has no reference", node.Name)
		}
		r.w.Writef(" REFERENCES %s (%s)", quote(node.Reference.Table), quote(node.Reference.Column))
		if node.Reference.OnDelete != "" {
			r.w.Writef(" ON DELETE %s", node.Reference.OnDelete)
		}
	}
	return nil
}

// VisitIndex renders CREATE [UNIQUE] INDEX
func (r *Renderer) VisitIndex(node *ast.IndexNode) error {
	r.w.Write("CREATE ")
	if node.Unique {
		r.w.Write("UNIQUE ")
	}
	r.w.Statement("INDEX %s ON %s (%s)", quote(node.Name), quote(node.Table), bufwriter.QuoteList(quote, node.Columns))
	return nil
}

// VisitDropTable renders DROP TABLE. CASCADE is never emitted.
func (r *Renderer) VisitDropTable(node *ast.DropTableNode) error {
	r.w.Write("DROP TABLE ")
	if node.IfExists {
		r.w.Write("IF EXISTS ")
	}
	r.w.Statement("%s", quote(node.Name))
	return nil
}

// VisitDropType renders DROP TYPE
func (r *Renderer) VisitDropType(node *ast.DropTypeNode) error {
	r.w.Write("DROP TYPE ")
	if node.IfExists {
		r.w.Write("IF EXISTS ")
	}
	r.w.Statement("%s", quote(node.Name))
	return nil
}

// VisitDropIndex renders DROP INDEX; PostgreSQL index names are schema-wide
func (r *Renderer) VisitDropIndex(node *ast.DropIndexNode) error {
	r.w.Write("DROP INDEX ")
	if node.IfExists {
		r.w.Write("IF EXISTS ")
	}
	r.w.Statement("%s", quote(node.Name))
	return nil
}
