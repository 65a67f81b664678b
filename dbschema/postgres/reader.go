package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stokaro/inkwell/dbschema/types"
)

// Reader inspects the live schema of one PostgreSQL schema (namespace).
type Reader struct {
	db     *sql.DB
	schema string
}

// NewPostgreSQLReader reads from schema, "public" when empty.
func NewPostgreSQLReader(db *sql.DB, schema string) *Reader {
	if schema == "" {
		schema = "public"
	}
	return &Reader{
		db:     db,
		schema: schema,
	}
}

// ReadSchema returns user tables (the migrations ledger excluded), enum types and secondary indexes.
func (r *Reader) ReadSchema(ctx context.Context) (*types.DBSchema, error) {
	schema := &types.DBSchema{}

	tables, err := r.readTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}
	schema.Tables = tables

	enums, err := r.readEnums(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read enums: %w", err)
	}
	schema.Enums = enums

	indexes, err := r.readIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read indexes: %w", err)
	}
	schema.Indexes = indexes

	return schema, nil
}

func (r *Reader) readTables(ctx context.Context) ([]types.DBTable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT table_name
		FROM information_schema.tables
		WHERE table_schema = $1 AND table_type = 'BASE TABLE'
		AND table_name NOT IN ('schema_migrations')
		ORDER BY table_name`, r.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query tables: %w", err)
	}
	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			rows.Close()
			return nil, fmt.Errorf("failed to scan table: %w", err)
		}
		names = append(names, name)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	tables := make([]types.DBTable, 0, len(names))
	for _, name := range names {
		columns, err := r.readColumns(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns for table %s: %w", name, err)
		}
		tables = append(tables, types.DBTable{Name: name, Columns: columns})
	}
	return tables, nil
}

func (r *Reader) readColumns(ctx context.Context, table string) ([]types.DBColumn, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.column_name, c.data_type, c.udt_name, c.is_nullable,
		       EXISTS (
		           SELECT 1
		           FROM information_schema.table_constraints tc
		           JOIN information_schema.key_column_usage kcu
		             ON tc.constraint_name = kcu.constraint_name AND tc.table_schema = kcu.table_schema
		           WHERE tc.constraint_type = 'PRIMARY KEY'
		             AND tc.table_schema = c.table_schema
		             AND tc.table_name = c.table_name
		             AND kcu.column_name = c.column_name
		       ) AS is_primary
		FROM information_schema.columns c
		WHERE c.table_schema = $1 AND c.table_name = $2
		ORDER BY c.ordinal_position`, r.schema, table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []types.DBColumn
	for rows.Next() {
		var col types.DBColumn
		var nullable string
		if err := rows.Scan(&col.Name, &col.DataType, &col.UDTName, &nullable, &col.IsPrimaryKey); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.IsNullable = nullable == "YES"
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (r *Reader) readEnums(ctx context.Context) ([]types.DBEnum, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT t.typname, e.enumlabel
		FROM pg_type t
		JOIN pg_enum e ON t.oid = e.enumtypid
		JOIN pg_namespace n ON n.oid = t.typnamespace
		WHERE n.nspname = $1
		ORDER BY t.typname, e.enumsortorder`, r.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query enums: %w", err)
	}
	defer rows.Close()

	var enums []types.DBEnum
	for rows.Next() {
		var name, value string
		if err := rows.Scan(&name, &value); err != nil {
			return nil, fmt.Errorf("failed to scan enum: %w", err)
		}
		if n := len(enums); n > 0 && enums[n-1].Name == name {
			enums[n-1].Values = append(enums[n-1].Values, value)
			continue
		}
		enums = append(enums, types.DBEnum{Name: name, Values: []string{value}})
	}
	return enums, rows.Err()
}

func (r *Reader) readIndexes(ctx context.Context) ([]types.DBIndex, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT ic.relname, tc.relname, ix.indisunique, a.attname
		FROM pg_index ix
		JOIN pg_class ic ON ic.oid = ix.indexrelid
		JOIN pg_class tc ON tc.oid = ix.indrelid
		JOIN pg_namespace n ON n.oid = tc.relnamespace
		JOIN LATERAL unnest(ix.indkey) WITH ORDINALITY AS k(attnum, ord) ON true
		JOIN pg_attribute a ON a.attrelid = tc.oid AND a.attnum = k.attnum
		WHERE n.nspname = $1 AND NOT ix.indisprimary
		AND tc.relname NOT IN ('schema_migrations')
		ORDER BY ic.relname, k.ord`, r.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []types.DBIndex
	for rows.Next() {
		var idx types.DBIndex
		var column string
		if err := rows.Scan(&idx.Name, &idx.TableName, &idx.IsUnique, &column); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		if n := len(indexes); n > 0 && indexes[n-1].Name == idx.Name {
			indexes[n-1].Columns = append(indexes[n-1].Columns, column)
			continue
		}
		idx.Columns = []string{column}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}
