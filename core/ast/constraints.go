package ast

type ConstraintType int

const (
	PrimaryKeyConstraint ConstraintType = iota + 1
	UniqueConstraint
	ForeignKeyConstraint
)

// String returns the SQL keyword, e.g. "FOREIGN KEY".
func (t ConstraintType) String() string {
	switch t {
	case PrimaryKeyConstraint:
		return "PRIMARY KEY"
	case UniqueConstraint:
		return "UNIQUE"
	case ForeignKeyConstraint:
		return "FOREIGN KEY"
	default:
		return "UNKNOWN"
	}
}

// ConstraintNode is a constraint written after the column list of a
// CREATE TABLE. Reference is set only for foreign keys.
type ConstraintNode struct {
	Type      ConstraintType
	Name      string // empty for unnamed primary keys
	Columns   []string
	Reference *ForeignKeyRef
}

func (n *ConstraintNode) Accept(visitor Visitor) error {
	return visitor.VisitConstraint(n)
}

// NewPrimaryKeyConstraint declares a composite key, as on post_tag:
//
//	NewPrimaryKeyConstraint("post_id", "tag_id")
func NewPrimaryKeyConstraint(columns ...string) *ConstraintNode {
	return &ConstraintNode{Type: PrimaryKeyConstraint, Columns: columns}
}

func NewUniqueConstraint(name string, columns ...string) *ConstraintNode {
	return &ConstraintNode{Type: UniqueConstraint, Name: name, Columns: columns}
}

// NewForeignKeyConstraint links column to ref. The constraint name is copied
// into ref so renderers can emit it from either side.
func NewForeignKeyConstraint(name, column string, ref *ForeignKeyRef) *ConstraintNode {
	ref.Name = name
	return &ConstraintNode{
		Type:      ForeignKeyConstraint,
		Name:      name,
		Columns:   []string{column},
		Reference: ref,
	}
}
