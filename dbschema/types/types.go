package types

import "context"

// DBSchema represents the schema objects read from a database.
// The migration ledger table is never included.
type DBSchema struct {
	Tables  []DBTable `json:"tables"`
	Enums   []DBEnum  `json:"enums"`
	Indexes []DBIndex `json:"indexes"`
}

// IsEmpty reports whether the schema has no tables, enums or indexes.
func (s *DBSchema) IsEmpty() bool {
	return len(s.Tables) == 0 && len(s.Enums) == 0 && len(s.Indexes) == 0
}

// TableNames returns the table names in the order they were read.
func (s *DBSchema) TableNames() []string {
	names := make([]string, len(s.Tables))
	for i, t := range s.Tables {
		names[i] = t.Name
	}
	return names
}

// Table returns the table with the given name, or nil.
func (s *DBSchema) Table(name string) *DBTable {
	for i := range s.Tables {
		if s.Tables[i].Name == name {
			return &s.Tables[i]
		}
	}
	return nil
}

// Index returns the index with the given name, or nil.
func (s *DBSchema) Index(name string) *DBIndex {
	for i := range s.Indexes {
		if s.Indexes[i].Name == name {
			return &s.Indexes[i]
		}
	}
	return nil
}

// DBTable represents a database table
type DBTable struct {
	Name    string     `json:"name"`
	Columns []DBColumn `json:"columns"`
}

// DBColumn represents a database column
type DBColumn struct {
	Name         string `json:"name"`
	DataType     string `json:"data_type"`
	UDTName      string `json:"udt_name"`    // For PostgreSQL enum types
	ColumnType   string `json:"column_type"` // For MySQL ENUM syntax
	IsNullable   bool   `json:"is_nullable"`
	IsPrimaryKey bool   `json:"is_primary_key"`
}

// DBEnum represents a database enum type (PostgreSQL)
type DBEnum struct {
	Name   string   `json:"name"`
	Values []string `json:"values"`
}

// DBIndex represents a secondary index. Primary key indexes are not reported.
type DBIndex struct {
	Name      string   `json:"name"`
	TableName string   `json:"table_name"`
	Columns   []string `json:"columns"`
	IsUnique  bool     `json:"is_unique"`
}

// DBInfo contains connection and metadata information
type DBInfo struct {
	Dialect string `json:"dialect"`
	Driver  string `json:"driver"`
	Version string `json:"version"`
	Schema  string `json:"schema"`
}

// SchemaReader interface for reading database schemas
type SchemaReader interface {
	ReadSchema(ctx context.Context) (*DBSchema, error)
}
