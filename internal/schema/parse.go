package schema

import (
	"regexp"

	"github.com/h2go/h2reflect/internal/catalog"
	"github.com/h2go/h2reflect/internal/dialect"
)

var (
	// A column default of this form is bound to a sequence; H2 generates
	// the value, so the column is auto-incrementing no matter what the
	// TYPE_INFO join said.
	sequenceDefaultRe = regexp.MustCompile(`NEXT VALUE FOR\s+\S+`)

	// Structural grammar of a referential constraint's defining SQL:
	// FOREIGN KEY(<cols>) ... REFERENCES [<schema>.]<table>(<cols>)
	foreignKeyRe = regexp.MustCompile(`FOREIGN KEY\((.*?)\).*?REFERENCES (?:(.*?)\.)?(.*?)\((.*?)\)`)

	columnSplitRe = regexp.MustCompile(`\s*,\s*`)
)

// parseColumns normalizes raw column rows. The whole listing fails on the
// first unmapped type name.
func parseColumns(rows []catalog.ColumnRow) ([]ColumnInfo, error) {
	cols := make([]ColumnInfo, 0, len(rows))
	for _, r := range rows {
		t, err := mapType(r.TypeName, r.Name)
		if err != nil {
			return nil, err
		}

		auto := r.AutoIncrement != nil && *r.AutoIncrement
		if r.Default != nil && sequenceDefaultRe.MatchString(*r.Default) {
			auto = true
		}

		cols = append(cols, ColumnInfo{
			Name:          r.Name,
			DeclaredType:  r.TypeName,
			Type:          t,
			Nullable:      r.Nullable,
			Default:       r.Default,
			AutoIncrement: auto,
			MaxLength:     r.MaxLength,
		})
	}
	return cols, nil
}

// parsePrimaryKey pairs the constraint name with its columns. The column
// slice keeps the catalog's order.
func parsePrimaryKey(name string, columns []string) PrimaryKeyInfo {
	return PrimaryKeyInfo{Name: name, Columns: columns}
}

// parseForeignKeys extracts the structural parts of each referential
// constraint from its defining SQL text.
//
// A referred schema missing from the DDL text falls back to the schema the
// table was reflected under, but only when that schema is the dialect's
// default — the original adapter applies the caller's naming convention in
// exactly that case and we keep the condition as documented.
func parseForeignKeys(rows []catalog.ForeignKeyRow, schema, defaultSchema string) ([]ForeignKeyInfo, error) {
	fks := make([]ForeignKeyInfo, 0, len(rows))
	for _, r := range rows {
		m := foreignKeyRe.FindStringSubmatch(r.Definition)
		if m == nil {
			return nil, &MalformedConstraintError{Constraint: r.Name, Definition: r.Definition}
		}

		referredSchema := m[2]
		if referredSchema != "" {
			referredSchema = dialect.Unescape(referredSchema)
		} else if schema == defaultSchema {
			referredSchema = schema
		}

		fks = append(fks, ForeignKeyInfo{
			Name:               r.Name,
			ConstrainedColumns: splitColumns(m[1]),
			ReferredSchema:     referredSchema,
			ReferredTable:      dialect.Unescape(m[3]),
			ReferredColumns:    splitColumns(m[4]),
		})
	}
	return fks, nil
}

// parseIndexes folds per-column index rows into one record per index name,
// preserving first-seen name order and column arrival order. All rows of
// one index must agree on the unique flag.
func parseIndexes(rows []catalog.IndexRow) ([]IndexInfo, error) {
	byName := make(map[string]int, len(rows))
	var indexes []IndexInfo

	for _, r := range rows {
		if i, ok := byName[r.Name]; ok {
			if indexes[i].Unique != !r.NonUnique {
				return nil, &AmbiguousIndexError{Index: r.Name}
			}
			indexes[i].Columns = append(indexes[i].Columns, r.Column)
			continue
		}
		byName[r.Name] = len(indexes)
		indexes = append(indexes, IndexInfo{
			Name:    r.Name,
			Columns: []string{r.Column},
			Unique:  !r.NonUnique,
		})
	}
	return indexes, nil
}

func splitColumns(list string) []string {
	parts := columnSplitRe.Split(list, -1)
	cols := make([]string, 0, len(parts))
	for _, p := range parts {
		cols = append(cols, dialect.Unescape(p))
	}
	return cols
}
