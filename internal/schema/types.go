// Package schema is the reflection engine: it turns raw catalog rows into a
// normalized description of a schema's tables, columns, keys and indexes.
//
// Data flows one way: connection → raw rows (internal/catalog) → per-kind
// records (parsers in this package) → assembled TableSchema (Inspector).
package schema

// DataType is the portable semantic type a catalog type name resolves to.
type DataType string

const (
	TypeBigInt    DataType = "BIGINT"
	TypeBinary    DataType = "BINARY"
	TypeBlob      DataType = "BLOB"
	TypeBoolean   DataType = "BOOLEAN"
	TypeChar      DataType = "CHAR"
	TypeClob      DataType = "CLOB"
	TypeDate      DataType = "DATE"
	TypeDecimal   DataType = "DECIMAL"
	TypeInteger   DataType = "INTEGER"
	TypeNumeric   DataType = "NUMERIC"
	TypeSmallInt  DataType = "SMALLINT"
	TypeTime      DataType = "TIME"
	TypeTimestamp DataType = "TIMESTAMP"
	TypeVarchar   DataType = "VARCHAR"
)

// IsInteger reports whether t is an integer type. Used by DDL rendering to
// decide AUTO_INCREMENT eligibility.
func (t DataType) IsInteger() bool {
	return t == TypeInteger || t == TypeBigInt || t == TypeSmallInt
}

// ColumnInfo describes a single column in a table.
type ColumnInfo struct {
	Name          string   `json:"name"`
	DeclaredType  string   `json:"declared_type"` // catalog type name as reported
	Type          DataType `json:"type"`          // portable mapped type
	Nullable      bool     `json:"nullable"`
	Default       *string  `json:"default,omitempty"` // nil when no default expression
	AutoIncrement bool     `json:"auto_increment"`
	MaxLength     *int     `json:"max_length,omitempty"` // nil for non-character types
}

// PrimaryKeyInfo describes a table's primary-key constraint. Columns keeps
// the catalog's natural order; it determines composite-key column order
// downstream and is never re-sorted.
type PrimaryKeyInfo struct {
	Name    string   `json:"name,omitempty"`
	Columns []string `json:"columns"`
}

// ForeignKeyInfo describes one referential constraint, parsed out of the
// constraint's defining SQL text.
type ForeignKeyInfo struct {
	Name               string   `json:"name"`
	ConstrainedColumns []string `json:"constrained_columns"`
	ReferredSchema     string   `json:"referred_schema,omitempty"`
	ReferredTable      string   `json:"referred_table"`
	ReferredColumns    []string `json:"referred_columns"`
}

// IndexInfo describes one index. Columns keeps first-seen order as the
// catalog reports one row per indexed column.
type IndexInfo struct {
	Name    string   `json:"name"`
	Columns []string `json:"columns"`
	Unique  bool     `json:"unique"`
}

// TableSchema is the assembled, point-in-time description of one table.
// It is constructed fresh per reflection call and never mutated afterwards;
// it goes stale the moment the catalog changes.
type TableSchema struct {
	Schema      string           `json:"schema"`
	Name        string           `json:"name"`
	Columns     []ColumnInfo     `json:"columns"`
	PrimaryKey  PrimaryKeyInfo   `json:"primary_key"`
	ForeignKeys []ForeignKeyInfo `json:"foreign_keys,omitempty"`
	Indexes     []IndexInfo      `json:"indexes,omitempty"`
}

// SchemaInfo is the reflected description of every table in one schema.
type SchemaInfo struct {
	Schema string        `json:"schema"`
	Tables []TableSchema `json:"tables"`
}
