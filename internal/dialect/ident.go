// Package dialect holds the H2-specific identifier and DDL helpers the
// reflection engine consumes: unescaping catalog-returned identifiers and
// rendering column clauses the way H2 expects them.
package dialect

import "strings"

// Quote wraps a SQL identifier in double quotes, doubling any embedded
// quote. H2 preserves the case of quoted identifiers.
func Quote(name string) string {
	return `"` + strings.ReplaceAll(name, `"`, `""`) + `"`
}

// Valid reports whether name can be an unquoted H2 identifier: non-empty
// after trimming and free of quote characters.
func Valid(name string) bool {
	name = strings.TrimSpace(name)
	return name != "" && !strings.ContainsAny(name, `"'`)
}

// Unescape strips identifier-quoting syntax from a catalog-returned name:
// a surrounding pair of double quotes is removed and doubled quotes inside
// are collapsed. Unquoted names pass through unchanged.
func Unescape(name string) string {
	name = strings.TrimSpace(name)
	if len(name) >= 2 && name[0] == '"' && name[len(name)-1] == '"' {
		name = name[1 : len(name)-1]
		name = strings.ReplaceAll(name, `""`, `"`)
	}
	return name
}
