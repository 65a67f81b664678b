package mocks

import (
	"errors"

	"github.com/stokaro/inkwell/core/ast"
)

// MockVisitor records a "Kind:name" label for every node it visits.
type MockVisitor struct {
	VisitedNodes []string
	ReturnError  bool
}

func (m *MockVisitor) visit(label string) error {
	m.VisitedNodes = append(m.VisitedNodes, label)
	if m.ReturnError {
		return errors.New("visit failed")
	}
	return nil
}

func (m *MockVisitor) VisitCreateTable(node *ast.CreateTableNode) error {
	return m.visit("CreateTable:" + node.Name)
}

func (m *MockVisitor) VisitColumn(node *ast.ColumnNode) error {
	return m.visit("Column:" + node.Name)
}

func (m *MockVisitor) VisitConstraint(node *ast.ConstraintNode) error {
	return m.visit("Constraint:" + node.Name)
}

func (m *MockVisitor) VisitIndex(node *ast.IndexNode) error {
	return m.visit("Index:" + node.Name)
}

func (m *MockVisitor) VisitEnum(node *ast.EnumNode) error {
	return m.visit("Enum:" + node.Name)
}

func (m *MockVisitor) VisitDropTable(node *ast.DropTableNode) error {
	return m.visit("DropTable:" + node.Name)
}

func (m *MockVisitor) VisitDropType(node *ast.DropTypeNode) error {
	return m.visit("DropType:" + node.Name)
}

func (m *MockVisitor) VisitDropIndex(node *ast.DropIndexNode) error {
	return m.visit("DropIndex:" + node.Name)
}
