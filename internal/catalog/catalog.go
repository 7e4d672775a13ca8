// Package catalog is the query layer of the reflection engine: it executes
// the fixed INFORMATION_SCHEMA query shapes against a database.Conn and
// returns raw, typed rows. It holds no state and interprets nothing — row
// semantics (type mapping, constraint parsing, index folding) belong to the
// schema package.
package catalog

import (
	"context"

	"github.com/h2go/h2reflect/internal/database"
)

// ColumnRow is one raw row of the column listing.
type ColumnRow struct {
	Name          string
	TypeName      string  // catalog type name, e.g. VARCHAR_IGNORECASE
	Default       *string // nil when the column has no default expression
	Nullable      bool
	AutoIncrement *bool // TYPE_INFO join result; nil when the type has no entry
	MaxLength     *int  // nil for non-character types
}

// ForeignKeyRow is one raw row of the referential-constraint listing.
type ForeignKeyRow struct {
	Name       string
	Definition string // the constraint's defining SQL text
}

// IndexRow is one raw row of the index listing; one row per indexed column.
type IndexRow struct {
	Name      string
	NonUnique bool
	Column    string
}

// SchemaNames lists all schema names in the catalog.
func SchemaNames(ctx context.Context, conn database.Conn) ([]string, error) {
	return stringList(ctx, conn, querySchemaNames)
}

// TableNames lists the user tables of one schema, sorted ascending by name.
func TableNames(ctx context.Context, conn database.Conn, schema string) ([]string, error) {
	schema = NormalizeName(schema)
	if err := checkIdentifier(schema); err != nil {
		return nil, err
	}
	return stringList(ctx, conn, queryTableNames, schema)
}

// TableExists reports whether exactly one table row matches (schema, table).
func TableExists(ctx context.Context, conn database.Conn, schema, table string) (bool, error) {
	schema, table = NormalizeName(schema), NormalizeName(table)
	if err := checkIdentifier(schema); err != nil {
		return false, err
	}
	if err := checkIdentifier(table); err != nil {
		return false, err
	}

	names, err := stringList(ctx, conn, queryTableExists, schema, table)
	if err != nil {
		return false, err
	}
	return len(names) == 1, nil
}

// Columns fetches the raw column listing of one table.
func Columns(ctx context.Context, conn database.Conn, schema, table string) ([]ColumnRow, error) {
	schema, table = NormalizeName(schema), NormalizeName(table)
	if err := checkIdentifier(schema); err != nil {
		return nil, err
	}
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, queryColumns, table, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cols []ColumnRow
	for rows.Next() {
		var r ColumnRow
		if err := rows.Scan(&r.Name, &r.TypeName, &r.Default, &r.Nullable, &r.AutoIncrement, &r.MaxLength); err != nil {
			return nil, err
		}
		cols = append(cols, r)
	}
	return cols, rows.Err()
}

// PrimaryKeyColumns fetches the primary-key column names of one table in
// the catalog's natural order.
func PrimaryKeyColumns(ctx context.Context, conn database.Conn, schema, table string) ([]string, error) {
	schema, table = NormalizeName(schema), NormalizeName(table)
	if err := checkIdentifier(schema); err != nil {
		return nil, err
	}
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}
	return stringList(ctx, conn, queryPrimaryKeyColumns, table, schema)
}

// PrimaryKeyName fetches the name of the table's primary-key constraint.
// Returns "" when the table has no primary key.
func PrimaryKeyName(ctx context.Context, conn database.Conn, schema, table string) (string, error) {
	schema, table = NormalizeName(schema), NormalizeName(table)
	if err := checkIdentifier(schema); err != nil {
		return "", err
	}
	if err := checkIdentifier(table); err != nil {
		return "", err
	}

	names, err := stringList(ctx, conn, queryPrimaryKeyName, table, schema)
	if err != nil {
		return "", err
	}
	if len(names) == 0 {
		return "", nil
	}
	return names[0], nil
}

// ForeignKeys fetches the referential constraints of one table together
// with their defining SQL text.
func ForeignKeys(ctx context.Context, conn database.Conn, schema, table string) ([]ForeignKeyRow, error) {
	schema, table = NormalizeName(schema), NormalizeName(table)
	if err := checkIdentifier(schema); err != nil {
		return nil, err
	}
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, queryForeignKeys, table, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var fks []ForeignKeyRow
	for rows.Next() {
		var r ForeignKeyRow
		if err := rows.Scan(&r.Name, &r.Definition); err != nil {
			return nil, err
		}
		fks = append(fks, r)
	}
	return fks, rows.Err()
}

// Indexes fetches the index listing of one table, one row per indexed column.
func Indexes(ctx context.Context, conn database.Conn, schema, table string) ([]IndexRow, error) {
	schema, table = NormalizeName(schema), NormalizeName(table)
	if err := checkIdentifier(schema); err != nil {
		return nil, err
	}
	if err := checkIdentifier(table); err != nil {
		return nil, err
	}

	rows, err := conn.Query(ctx, queryIndexes, table, schema)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var idx []IndexRow
	for rows.Next() {
		var r IndexRow
		if err := rows.Scan(&r.Name, &r.NonUnique, &r.Column); err != nil {
			return nil, err
		}
		idx = append(idx, r)
	}
	return idx, rows.Err()
}

// stringList runs a query returning a single text column.
func stringList(ctx context.Context, conn database.Conn, q string, args ...any) ([]string, error) {
	rows, err := conn.Query(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var list []string
	for rows.Next() {
		var s string
		if err := rows.Scan(&s); err != nil {
			return nil, err
		}
		list = append(list, s)
	}
	return list, rows.Err()
}
