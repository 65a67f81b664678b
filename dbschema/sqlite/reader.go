package sqlite

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/stokaro/inkwell/dbschema/types"
)

// Reader reads schema from SQLite databases through sqlite_master and the
// table_info / index_list / index_info pragmas.
type Reader struct {
	db *sql.DB
}

func NewSQLiteReader(db *sql.DB) *Reader {
	return &Reader{db: db}
}

func (r *Reader) ReadSchema(ctx context.Context) (*types.DBSchema, error) {
	names, err := r.readTableNames(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to read tables: %w", err)
	}

	schema := &types.DBSchema{}
	for _, name := range names {
		columns, err := r.readColumns(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read columns for table %s: %w", name, err)
		}
		schema.Tables = append(schema.Tables, types.DBTable{Name: name, Columns: columns})

		indexes, err := r.readIndexes(ctx, name)
		if err != nil {
			return nil, fmt.Errorf("failed to read indexes for table %s: %w", name, err)
		}
		schema.Indexes = append(schema.Indexes, indexes...)
	}
	return schema, nil
}

func (r *Reader) readTableNames(ctx context.Context) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT name FROM sqlite_master
		WHERE type = 'table' AND name NOT LIKE 'sqlite_%'
		AND name NOT IN ('schema_migrations')
		ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var names []string
	for rows.Next() {
		var name string
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		names = append(names, name)
	}
	return names, rows.Err()
}

func (r *Reader) readColumns(ctx context.Context, table string) ([]types.DBColumn, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name, type, \"notnull\", pk FROM pragma_table_info(?)", table)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var columns []types.DBColumn
	for rows.Next() {
		var col types.DBColumn
		var notNull, pk int
		if err := rows.Scan(&col.Name, &col.DataType, &notNull, &pk); err != nil {
			return nil, err
		}
		col.IsPrimaryKey = pk > 0
		col.IsNullable = notNull == 0 && !col.IsPrimaryKey
		columns = append(columns, col)
	}
	return columns, rows.Err()
}

func (r *Reader) readIndexes(ctx context.Context, table string) ([]types.DBIndex, error) {
	// origin 'c' is CREATE INDEX; 'u' and 'pk' are implicit indexes.
	rows, err := r.db.QueryContext(ctx, `SELECT name, "unique" FROM pragma_index_list(?) WHERE origin = 'c' ORDER BY name`, table)
	if err != nil {
		return nil, err
	}
	var indexes []types.DBIndex
	for rows.Next() {
		var idx types.DBIndex
		var unique int
		if err := rows.Scan(&idx.Name, &unique); err != nil {
			rows.Close()
			return nil, err
		}
		idx.TableName = table
		idx.IsUnique = unique == 1
		indexes = append(indexes, idx)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for i := range indexes {
		cols, err := r.readIndexColumns(ctx, indexes[i].Name)
		if err != nil {
			return nil, err
		}
		indexes[i].Columns = cols
	}
	return indexes, nil
}

func (r *Reader) readIndexColumns(ctx context.Context, index string) ([]string, error) {
	rows, err := r.db.QueryContext(ctx, "SELECT name FROM pragma_index_info(?) ORDER BY seqno", index)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []string
	for rows.Next() {
		var name sql.NullString
		if err := rows.Scan(&name); err != nil {
			return nil, err
		}
		cols = append(cols, strings.TrimSpace(name.String))
	}
	return cols, rows.Err()
}
