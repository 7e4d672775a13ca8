package schema

// catalogTypes maps H2 catalog type names to portable types. An unmapped
// name is a hard failure: silently dropping type information would corrupt
// every downstream consumer of the schema.
var catalogTypes = map[string]DataType{
	"BIGINT":             TypeBigInt,
	"BINARY":             TypeBinary,
	"BLOB":               TypeBlob,
	"BOOLEAN":            TypeBoolean,
	"CHAR":               TypeChar,
	"CLOB":               TypeClob,
	"DATE":               TypeDate,
	"DECIMAL":            TypeDecimal,
	"DOUBLE":             TypeNumeric,
	"INT":                TypeInteger,
	"INTEGER":            TypeInteger,
	"SMALLINT":           TypeSmallInt,
	"TIME":               TypeTime,
	"TIMESTAMP":          TypeTimestamp,
	"VARCHAR":            TypeVarchar,
	"VARCHAR_IGNORECASE": TypeVarchar,
}

// mapType resolves a catalog type name for the named column.
func mapType(typeName, column string) (DataType, error) {
	t, ok := catalogTypes[typeName]
	if !ok {
		return "", &UnknownTypeError{TypeName: typeName, Column: column}
	}
	return t, nil
}
