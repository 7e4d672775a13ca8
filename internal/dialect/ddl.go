package dialect

import "strings"

// ColumnDef describes one column for DDL rendering.
type ColumnDef struct {
	Name       string
	TypeSpec   string // compiled type, e.g. "INTEGER" or "VARCHAR(255)"
	Default    string // default expression, "" for none
	Nullable   bool
	PrimaryKey bool
	Integer    bool // the column's type is an integer type
	ForeignKey bool // the column participates in a foreign key
}

// ColumnSpec renders one column clause of a CREATE TABLE statement.
// pkColumns is the total number of columns in the table's primary key.
//
// The PRIMARY KEY AUTO_INCREMENT augmentation applies only to the exact
// shape H2 can auto-increment: a single-column integer primary key whose
// column is not part of a foreign key.
func ColumnSpec(col ColumnDef, pkColumns int) string {
	var sb strings.Builder
	sb.WriteString(col.Name)
	sb.WriteString(" ")
	sb.WriteString(col.TypeSpec)

	if col.Default != "" {
		sb.WriteString(" DEFAULT ")
		sb.WriteString(col.Default)
	}

	if !col.Nullable {
		sb.WriteString(" NOT NULL")
	}

	if col.PrimaryKey && pkColumns == 1 && col.Integer && !col.ForeignKey {
		sb.WriteString(" PRIMARY KEY AUTO_INCREMENT")
	}

	return sb.String()
}
