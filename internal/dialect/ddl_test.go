package dialect

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestColumnSpec_AutoIncrementShape(t *testing.T) {
	base := ColumnDef{
		Name:       "ID",
		TypeSpec:   "INTEGER",
		Nullable:   false,
		PrimaryKey: true,
		Integer:    true,
	}

	tests := []struct {
		name      string
		mutate    func(*ColumnDef)
		pkColumns int
		want      string
	}{
		{
			name:      "single integer pk, no fk",
			mutate:    func(c *ColumnDef) {},
			pkColumns: 1,
			want:      "ID INTEGER NOT NULL PRIMARY KEY AUTO_INCREMENT",
		},
		{
			name:      "composite pk",
			mutate:    func(c *ColumnDef) {},
			pkColumns: 2,
			want:      "ID INTEGER NOT NULL",
		},
		{
			name:      "non-integer pk",
			mutate:    func(c *ColumnDef) { c.TypeSpec = "VARCHAR(36)"; c.Integer = false },
			pkColumns: 1,
			want:      "ID VARCHAR(36) NOT NULL",
		},
		{
			name:      "pk column with foreign key",
			mutate:    func(c *ColumnDef) { c.ForeignKey = true },
			pkColumns: 1,
			want:      "ID INTEGER NOT NULL",
		},
		{
			name:      "not a pk column",
			mutate:    func(c *ColumnDef) { c.PrimaryKey = false },
			pkColumns: 1,
			want:      "ID INTEGER NOT NULL",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			col := base
			tt.mutate(&col)
			assert.Equal(t, tt.want, ColumnSpec(col, tt.pkColumns))
		})
	}
}

func TestColumnSpec_DefaultAndNullable(t *testing.T) {
	col := ColumnDef{
		Name:     "CREATED",
		TypeSpec: "TIMESTAMP",
		Default:  "CURRENT_TIMESTAMP",
		Nullable: true,
	}
	assert.Equal(t, "CREATED TIMESTAMP DEFAULT CURRENT_TIMESTAMP", ColumnSpec(col, 0))

	col.Nullable = false
	assert.Equal(t, "CREATED TIMESTAMP DEFAULT CURRENT_TIMESTAMP NOT NULL", ColumnSpec(col, 0))
}
