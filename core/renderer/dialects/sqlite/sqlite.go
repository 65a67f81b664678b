package sqlite

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

// Renderer provides SQLite-specific SQL rendering.
//
// Enum columns become TEXT with a CHECK constraint listing the allowed
// values. Auto-increment primary keys must be spelled exactly
// INTEGER PRIMARY KEY AUTOINCREMENT to alias the rowid.
type Renderer struct {
	w bufwriter.Writer
}

// New creates a new SQLite renderer
func New() *Renderer {
	return &Renderer{}
}

func (r *Renderer) Dialect() string {
	return platform.SQLite
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

func (r *Renderer) VisitEnum(node *ast.EnumNode) error {
	if len(node.Values) == 0 {
		return fmt.Errorf("enum %s has no values", node.Name)
	}
	return nil
}

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

func (r *Renderer) VisitColumn(node *ast.ColumnNode) error {
	if node.AutoInc {
		if !node.Primary || node.Type != ast.TypeBigInt {
			return fmt.Errorf("column %s: SQLite only auto-increments integer primary keys", node.Name)
		}
		r.w.Writef("%s INTEGER PRIMARY KEY AUTOINCREMENT", quote(node.Name))
		return nil
	}
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
	if node.Enum != nil {
		r.w.Writef(" CHECK (%s IN (%s))", quote(node.Name), bufwriter.QuoteLiterals(node.Enum.Values))
	}
	return nil
}

func columnType(node *ast.ColumnNode) (string, error) {
	if node.Enum != nil {
		if len(node.Enum.Values) == 0 {
			return "", fmt.Errorf("column %s: enum %s has no values", node.Name, node.Enum.Name)
		}
		return "TEXT", nil
	}
	switch node.Type {
	case ast.TypeBigInt:
		return "INTEGER", nil
	case ast.TypeString, ast.TypeText:
		return "TEXT", nil
	case ast.TypeTimestamp:
		return "TIMESTAMP", nil
	default:
		return "", fmt.Errorf("column %s: unsupported type %q", node.Name, node.Type)
	}
}

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

func (r *Renderer) VisitIndex(node *ast.IndexNode) error {
	r.w.Write("CREATE ")
	if node.Unique {
		r.w.Write("UNIQUE ")
	}
	r.w.Statement("INDEX %s ON %s (%s)", quote(node.Name), quote(node.Table), bufwriter.QuoteList(quote, node.Columns))
	return nil
}

func (r *Renderer) VisitDropTable(node *ast.DropTableNode) error {
	r.w.Write("DROP TABLE ")
	if node.IfExists {
		r.w.Write("IF EXISTS ")
	}
	r.w.Statement("%s", quote(node.Name))
	return nil
}

// VisitDropType is a no-op: the enum lives in the column's CHECK constraint
func (r *Renderer) VisitDropType(_ *ast.DropTypeNode) error {
	return nil
}

func (r *Renderer) VisitDropIndex(node *ast.DropIndexNode) error {
	r.w.Write("DROP INDEX ")
	if node.IfExists {
		r.w.Write("IF EXISTS ")
	}
	r.w.Statement("%s", quote(node.Name))
	return nil
}
