package catalog

import (
	"strings"

	"github.com/h2go/h2reflect/internal/database"
)

// The fixed catalog query shapes. H2 upper-cases unquoted identifiers, so
// table and schema names are normalized with NormalizeName before binding.
// Names are passed as bind parameters, never interpolated into the SQL text.
const (
	querySchemaNames = `
		SELECT SCHEMA_NAME
		FROM INFORMATION_SCHEMA.SCHEMATA`

	queryTableNames = `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_TYPE = 'TABLE'
		  AND TABLE_SCHEMA = $1
		ORDER BY TABLE_NAME`

	queryTableExists = `
		SELECT TABLE_NAME
		FROM INFORMATION_SCHEMA.TABLES
		WHERE TABLE_TYPE = 'TABLE'
		  AND TABLE_SCHEMA = $1
		  AND TABLE_NAME = $2`

	// AUTO_INCREMENT comes from the TYPE_INFO join; a column default of the
	// form NEXT VALUE FOR <seq> additionally forces it true during parsing.
	queryColumns = `
		SELECT C.COLUMN_NAME,
		       C.TYPE_NAME,
		       C.COLUMN_DEFAULT,
		       C.IS_NULLABLE = 'YES',
		       (SELECT T.AUTO_INCREMENT
		          FROM INFORMATION_SCHEMA.TYPE_INFO T
		         WHERE T.DATA_TYPE = C.DATA_TYPE
		           AND T.TYPE_NAME = C.TYPE_NAME) AS AUTO_INCREMENT,
		       C.CHARACTER_MAXIMUM_LENGTH
		FROM INFORMATION_SCHEMA.COLUMNS C
		WHERE C.TABLE_NAME = $1
		  AND C.TABLE_SCHEMA = $2
		ORDER BY C.ORDINAL_POSITION`

	// No ORDER BY: the catalog's natural ordering determines composite-key
	// column order downstream.
	queryPrimaryKeyColumns = `
		SELECT COLUMN_NAME
		FROM INFORMATION_SCHEMA.INDEXES
		WHERE PRIMARY_KEY = 'TRUE'
		  AND TABLE_NAME = $1
		  AND TABLE_SCHEMA = $2`

	queryPrimaryKeyName = `
		SELECT CONSTRAINT_NAME
		FROM INFORMATION_SCHEMA.CONSTRAINTS
		WHERE TABLE_NAME = $1
		  AND TABLE_SCHEMA = $2
		  AND CONSTRAINT_TYPE = 'PRIMARY_KEY'`

	queryForeignKeys = `
		SELECT CONSTRAINT_NAME, SQL
		FROM INFORMATION_SCHEMA.CONSTRAINTS
		WHERE TABLE_NAME = $1
		  AND TABLE_SCHEMA = $2
		  AND CONSTRAINT_TYPE = 'REFERENTIAL'`

	queryIndexes = `
		SELECT INDEX_NAME, NON_UNIQUE, COLUMN_NAME
		FROM INFORMATION_SCHEMA.INDEXES
		WHERE TABLE_NAME = $1
		  AND TABLE_SCHEMA = $2`
)

// NormalizeName canonicalizes a user-supplied identifier the way H2 stores
// unquoted identifiers: upper-cased, surrounding whitespace removed.
func NormalizeName(name string) string {
	return strings.ToUpper(strings.TrimSpace(name))
}

// checkIdentifier rejects identifiers that could not have come from an
// unquoted H2 name. Names are bound as parameters so this is not an
// injection barrier, but a quote character in a table or schema name means
// the caller forgot to unescape it first.
func checkIdentifier(name string) error {
	if name == "" {
		return database.NewError(database.ErrKindInvalidInput, "empty identifier")
	}
	if strings.ContainsAny(name, `"'`) {
		return database.NewError(database.ErrKindInvalidInput,
			"identifier contains a quote character: "+name)
	}
	return nil
}
