package mysql

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/stokaro/inkwell/dbschema/types"
)

// Reader reads schema from MySQL databases. MySQL has no standalone enum
// types, so Enums is always empty; ENUM columns keep their full definition
// in DBColumn.ColumnType.
type Reader struct {
	db     *sql.DB
	schema string
}

// NewMySQLReader creates a reader for schema; empty means the connection's current database.
func NewMySQLReader(db *sql.DB, schema string) *Reader {
	return &Reader{
		db:     db,
		schema: schema,
	}
}

func (r *Reader) ReadSchema(ctx context.Context) (*types.DBSchema, error) {
	if r.schema == "" {
		if err := r.db.QueryRowContext(ctx, "SELECT DATABASE()").Scan(&r.schema); err != nil {
			return nil, fmt.Errorf("failed to read current database: %w", err)
		}
	}

	schema := &types.DBSchema{}

	tables, err := r.readTables(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}
	schema.Tables = tables

	indexes, err := r.readIndexes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read indexes: %w", err)
	}
	schema.Indexes = indexes

	return schema, nil
}

func (r *Reader) readTables(ctx context.Context) ([]types.DBTable, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT c.TABLE_NAME, c.COLUMN_NAME, c.DATA_TYPE, c.COLUMN_TYPE, c.IS_NULLABLE, c.COLUMN_KEY
		FROM information_schema.COLUMNS c
		JOIN information_schema.TABLES t
		  ON t.TABLE_SCHEMA = c.TABLE_SCHEMA AND t.TABLE_NAME = c.TABLE_NAME
		WHERE c.TABLE_SCHEMA = ? AND t.TABLE_TYPE = 'BASE TABLE'
		AND c.TABLE_NAME NOT IN ('schema_migrations')
		ORDER BY c.TABLE_NAME, c.ORDINAL_POSITION`, r.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query columns: %w", err)
	}
	defer rows.Close()

	var tables []types.DBTable
	for rows.Next() {
		var table, nullable, key string
		var col types.DBColumn
		if err := rows.Scan(&table, &col.Name, &col.DataType, &col.ColumnType, &nullable, &key); err != nil {
			return nil, fmt.Errorf("failed to scan column: %w", err)
		}
		col.IsNullable = nullable == "YES"
		col.IsPrimaryKey = key == "PRI"
		if n := len(tables); n > 0 && tables[n-1].Name == table {
			tables[n-1].Columns = append(tables[n-1].Columns, col)
			continue
		}
		tables = append(tables, types.DBTable{Name: table, Columns: []types.DBColumn{col}})
	}
	return tables, rows.Err()
}

func (r *Reader) readIndexes(ctx context.Context) ([]types.DBIndex, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT INDEX_NAME, TABLE_NAME, NON_UNIQUE, COLUMN_NAME
		FROM information_schema.STATISTICS
		WHERE TABLE_SCHEMA = ? AND INDEX_NAME <> 'PRIMARY'
		AND TABLE_NAME NOT IN ('schema_migrations')
		ORDER BY INDEX_NAME, SEQ_IN_INDEX`, r.schema)
	if err != nil {
		return nil, fmt.Errorf("failed to query indexes: %w", err)
	}
	defer rows.Close()

	var indexes []types.DBIndex
	for rows.Next() {
		var idx types.DBIndex
		var nonUnique int
		var column string
		if err := rows.Scan(&idx.Name, &idx.TableName, &nonUnique, &column); err != nil {
			return nil, fmt.Errorf("failed to scan index: %w", err)
		}
		if n := len(indexes); n > 0 && indexes[n-1].Name == idx.Name && indexes[n-1].TableName == idx.TableName {
			indexes[n-1].Columns = append(indexes[n-1].Columns, column)
			continue
		}
		idx.IsUnique = nonUnique == 0
		idx.Columns = []string{column}
		indexes = append(indexes, idx)
	}
	return indexes, rows.Err()
}
