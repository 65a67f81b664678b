// Package ast describes schema changes as dialect-neutral nodes. Migrations
// build nodes; renderers turn them into SQL for one dialect.
package ast

// Node is a schema change that a renderer can visit.
type Node interface {
	Accept(visitor Visitor) error
}

// Visitor is implemented by dialect renderers.
type Visitor interface {
	VisitCreateTable(node *CreateTableNode) error
	VisitColumn(node *ColumnNode) error
	VisitConstraint(node *ConstraintNode) error
	VisitIndex(node *IndexNode) error
	VisitEnum(node *EnumNode) error
	VisitDropTable(node *DropTableNode) error
	VisitDropType(node *DropTypeNode) error
	VisitDropIndex(node *DropIndexNode) error
}

// Logical column types. Renderers translate them to the dialect's spelling.
const (
	TypeBigInt    = "BIGINT"
	TypeString    = "VARCHAR"
	TypeText      = "TEXT"
	TypeTimestamp = "TIMESTAMP"
)

// EnumNode is a named set of string values.
//
// PostgreSQL renders it as CREATE TYPE ... AS ENUM. MySQL inlines the values
// into an ENUM column type and SQLite into a CHECK constraint, so for those
// dialects the node itself renders to nothing and only columns that reference
// it carry the value list.
type EnumNode struct {
	Name   string
	Values []string // declaration order
}

// NewEnum returns an enum with the given values.
//
//	gender := NewEnum("gender", "female", "male", "unknown")
func NewEnum(name string, values ...string) *EnumNode {
	return &EnumNode{Name: name, Values: values}
}

func (n *EnumNode) Accept(visitor Visitor) error {
	return visitor.VisitEnum(n)
}

// CreateTableNode creates one table with its columns and table-level constraints.
type CreateTableNode struct {
	Name        string
	IfNotExists bool
	Columns     []*ColumnNode
	Constraints []*ConstraintNode
}

// NewCreateTable starts a table definition. Add columns with AddColumn.
//
//	author := NewCreateTable("author").
//		AddColumn(NewColumn("id", TypeBigInt).SetPrimary().SetAutoIncrement())
func NewCreateTable(name string) *CreateTableNode {
	return &CreateTableNode{Name: name}
}

func (n *CreateTableNode) Accept(visitor Visitor) error {
	return visitor.VisitCreateTable(n)
}

// AddColumn appends a column and returns n.
func (n *CreateTableNode) AddColumn(column *ColumnNode) *CreateTableNode {
	n.Columns = append(n.Columns, column)
	return n
}

// AddConstraint appends a table-level constraint and returns n.
func (n *CreateTableNode) AddConstraint(constraint *ConstraintNode) *CreateTableNode {
	n.Constraints = append(n.Constraints, constraint)
	return n
}

// SetIfNotExists makes the statement a no-op when the table already exists.
func (n *CreateTableNode) SetIfNotExists() *CreateTableNode {
	n.IfNotExists = true
	return n
}

// ColumnNode is one column of a CreateTableNode.
type ColumnNode struct {
	Name string
	// Type is one of the Type* constants, or the enum name for enum columns.
	Type     string
	Nullable bool
	// Primary marks a single-column primary key. Composite keys use
	// NewPrimaryKeyConstraint instead.
	Primary bool
	AutoInc bool
	Enum    *EnumNode
}

// NewColumn returns a nullable column of the given logical type.
func NewColumn(name, dataType string) *ColumnNode {
	return &ColumnNode{Name: name, Type: dataType, Nullable: true}
}

// NewEnumColumn returns a nullable column restricted to the values of enum.
func NewEnumColumn(name string, enum *EnumNode) *ColumnNode {
	return &ColumnNode{Name: name, Type: enum.Name, Nullable: true, Enum: enum}
}

func (n *ColumnNode) Accept(visitor Visitor) error {
	return visitor.VisitColumn(n)
}

// SetPrimary makes the column the primary key. This implies NOT NULL.
func (n *ColumnNode) SetPrimary() *ColumnNode {
	n.Primary = true
	n.Nullable = false
	return n
}

func (n *ColumnNode) SetNotNull() *ColumnNode {
	n.Nullable = false
	return n
}

// SetAutoIncrement lets the store assign the value: BIGSERIAL on PostgreSQL,
// AUTO_INCREMENT on MySQL and INTEGER PRIMARY KEY AUTOINCREMENT on SQLite.
func (n *ColumnNode) SetAutoIncrement() *ColumnNode {
	n.AutoInc = true
	return n
}

// ForeignKeyRef is the referenced side of a foreign key. An empty OnDelete
// leaves the store default, NO ACTION.
type ForeignKeyRef struct {
	Table    string
	Column   string
	Name     string
	OnDelete string
}

// IndexNode creates an index on Table.
type IndexNode struct {
	Name    string
	Table   string
	Columns []string
	Unique  bool
}

// NewIndex returns a non-unique index.
//
//	idx := NewIndex("IDX_author_id", "post", "author_id")
func NewIndex(name, table string, columns ...string) *IndexNode {
	return &IndexNode{Name: name, Table: table, Columns: columns}
}

func (n *IndexNode) SetUnique() *IndexNode {
	n.Unique = true
	return n
}

func (n *IndexNode) Accept(visitor Visitor) error {
	return visitor.VisitIndex(n)
}

// DropTableNode drops a table. There is no CASCADE: dropping a table that a
// foreign key still references fails in the store.
type DropTableNode struct {
	Name     string
	IfExists bool
}

func NewDropTable(name string) *DropTableNode {
	return &DropTableNode{Name: name}
}

func (n *DropTableNode) SetIfExists() *DropTableNode {
	n.IfExists = true
	return n
}

func (n *DropTableNode) Accept(visitor Visitor) error {
	return visitor.VisitDropTable(n)
}

// DropTypeNode drops an enum created by EnumNode.
type DropTypeNode struct {
	Name     string
	IfExists bool
}

func NewDropType(name string) *DropTypeNode {
	return &DropTypeNode{Name: name}
}

func (n *DropTypeNode) SetIfExists() *DropTypeNode {
	n.IfExists = true
	return n
}

func (n *DropTypeNode) Accept(visitor Visitor) error {
	return visitor.VisitDropType(n)
}

// DropIndexNode drops an index. MySQL needs the table name; the other
// dialects ignore it.
type DropIndexNode struct {
	Name     string
	Table    string
	IfExists bool
}

func NewDropIndex(name, table string) *DropIndexNode {
	return &DropIndexNode{Name: name, Table: table}
}

func (n *DropIndexNode) SetIfExists() *DropIndexNode {
	n.IfExists = true
	return n
}

func (n *DropIndexNode) Accept(visitor Visitor) error {
	return visitor.VisitDropIndex(n)
}
