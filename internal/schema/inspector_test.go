package schema

import (
	"context"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h2go/h2reflect/internal/database/databasetest"
)

// usersCatalog fakes the H2 catalog for a PUBLIC.USERS table with a
// sequence-backed primary key, a foreign key into ORGS and two indexes.
func usersCatalog() *databasetest.FakeConn {
	return &databasetest.FakeConn{
		OnQuery: func(sql string, args []any) ([][]any, error) {
			switch {
			case strings.Contains(sql, "SCHEMATA"):
				return [][]any{{"INFORMATION_SCHEMA"}, {"PUBLIC"}}, nil

			case strings.Contains(sql, "INFORMATION_SCHEMA.TABLES") && strings.Contains(sql, "TABLE_NAME = $2"):
				if args[0] == "PUBLIC" && (args[1] == "USERS" || args[1] == "ORGS") {
					return [][]any{{args[1].(string)}}, nil
				}
				return nil, nil

			case strings.Contains(sql, "INFORMATION_SCHEMA.TABLES"):
				if args[0] == "PUBLIC" {
					return [][]any{{"ORGS"}, {"USERS"}}, nil
				}
				return nil, nil

			case strings.Contains(sql, "INFORMATION_SCHEMA.COLUMNS"):
				if args[0] != "USERS" {
					return [][]any{{"ID", "INTEGER", nil, false, nil, nil}}, nil
				}
				return [][]any{
					{"ID", "INTEGER", "NEXT VALUE FOR PUBLIC.SEQ_USERS", false, nil, nil},
					{"ORG_ID", "INTEGER", nil, false, nil, nil},
					{"EMAIL", "VARCHAR", nil, false, nil, 255},
					{"CREATED", "TIMESTAMP", nil, true, nil, nil},
				}, nil

			case strings.Contains(sql, "PRIMARY_KEY = 'TRUE'"):
				return [][]any{{"ID"}}, nil

			case strings.Contains(sql, "CONSTRAINT_TYPE = 'PRIMARY_KEY'"):
				return [][]any{{"CONSTRAINT_4"}}, nil

			case strings.Contains(sql, "CONSTRAINT_TYPE = 'REFERENTIAL'"):
				if args[0] != "USERS" {
					return nil, nil
				}
				return [][]any{
					{"FK_USERS_ORG", "ALTER TABLE PUBLIC.USERS ADD CONSTRAINT FK_USERS_ORG FOREIGN KEY(ORG_ID) REFERENCES PUBLIC.ORGS(ID)"},
				}, nil

			case strings.Contains(sql, "INFORMATION_SCHEMA.INDEXES"):
				if args[0] != "USERS" {
					return [][]any{{"PRIMARY_KEY_1", false, "ID"}}, nil
				}
				return [][]any{
					{"PRIMARY_KEY_4", false, "ID"},
					{"IDX_EMAIL", false, "EMAIL"},
					{"IDX_ORG_CREATED", true, "ORG_ID"},
					{"IDX_ORG_CREATED", true, "CREATED"},
				}, nil
			}
			return nil, nil
		},
	}
}

func TestReflectTable_AssemblesFullSchema(t *testing.T) {
	in := NewInspector(usersCatalog())

	got, err := in.ReflectTable(context.Background(), "users", "public")
	require.NoError(t, err)

	want := &TableSchema{
		Schema: "PUBLIC",
		Name:   "USERS",
		Columns: []ColumnInfo{
			{Name: "ID", DeclaredType: "INTEGER", Type: TypeInteger, Nullable: false,
				Default: strPtr("NEXT VALUE FOR PUBLIC.SEQ_USERS"), AutoIncrement: true},
			{Name: "ORG_ID", DeclaredType: "INTEGER", Type: TypeInteger, Nullable: false},
			{Name: "EMAIL", DeclaredType: "VARCHAR", Type: TypeVarchar, Nullable: false, MaxLength: intPtr(255)},
			{Name: "CREATED", DeclaredType: "TIMESTAMP", Type: TypeTimestamp, Nullable: true},
		},
		PrimaryKey: PrimaryKeyInfo{Name: "CONSTRAINT_4", Columns: []string{"ID"}},
		ForeignKeys: []ForeignKeyInfo{
			{Name: "FK_USERS_ORG", ConstrainedColumns: []string{"ORG_ID"},
				ReferredSchema: "PUBLIC", ReferredTable: "ORGS", ReferredColumns: []string{"ID"}},
		},
		Indexes: []IndexInfo{
			{Name: "PRIMARY_KEY_4", Columns: []string{"ID"}, Unique: true},
			{Name: "IDX_EMAIL", Columns: []string{"EMAIL"}, Unique: true},
			{Name: "IDX_ORG_CREATED", Columns: []string{"ORG_ID", "CREATED"}, Unique: false},
		},
	}

	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("ReflectTable mismatch (-want +got):\n%s", diff)
	}
}

func TestReflectTable_DefaultSchemaEquivalence(t *testing.T) {
	in := NewInspector(usersCatalog())
	ctx := context.Background()

	implicit, err := in.ReflectTable(ctx, "USERS", "")
	require.NoError(t, err)

	explicit, err := in.ReflectTable(ctx, "USERS", "PUBLIC")
	require.NoError(t, err)

	if diff := cmp.Diff(explicit, implicit); diff != "" {
		t.Errorf("schema=\"\" and schema=\"PUBLIC\" disagree (-explicit +implicit):\n%s", diff)
	}
}

func TestReflectTable_UnknownTypeAbortsReflection(t *testing.T) {
	conn := &databasetest.FakeConn{
		OnQuery: func(sql string, args []any) ([][]any, error) {
			if strings.Contains(sql, "INFORMATION_SCHEMA.COLUMNS") {
				return [][]any{{"X", "FOOBAR", nil, true, nil, nil}}, nil
			}
			return nil, nil
		},
	}
	in := NewInspector(conn)

	ts, err := in.ReflectTable(context.Background(), "T", "")
	require.Error(t, err)
	assert.True(t, IsUnknownType(err))
	assert.Nil(t, ts)
}

func TestHasTable_AgreesWithListTables(t *testing.T) {
	in := NewInspector(usersCatalog())
	ctx := context.Background()

	tables, err := in.ListTables(ctx, "")
	require.NoError(t, err)
	assert.Equal(t, []string{"ORGS", "USERS"}, tables, "sorted ascending by name")

	for _, table := range tables {
		ok, err := in.HasTable(ctx, table, "")
		require.NoError(t, err)
		assert.True(t, ok, "listed table %s must exist", table)
	}

	ok, err := in.HasTable(ctx, "NO_SUCH_TABLE", "")
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestHasTable_NormalizesCase(t *testing.T) {
	in := NewInspector(usersCatalog())

	ok, err := in.HasTable(context.Background(), "users", "public")
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestListSchemas(t *testing.T) {
	in := NewInspector(usersCatalog())

	schemas, err := in.ListSchemas(context.Background())
	require.NoError(t, err)
	assert.Contains(t, schemas, "PUBLIC")
}

func TestReflectSchema_CoversEveryTable(t *testing.T) {
	in := NewInspector(usersCatalog())

	info, err := in.ReflectSchema(context.Background(), "")
	require.NoError(t, err)

	assert.Equal(t, "PUBLIC", info.Schema)
	require.Len(t, info.Tables, 2)
	assert.Equal(t, "ORGS", info.Tables[0].Name)
	assert.Equal(t, "USERS", info.Tables[1].Name)
}

func TestResolveSchema(t *testing.T) {
	in := NewInspector(&databasetest.FakeConn{})

	assert.Equal(t, "PUBLIC", in.ResolveSchema(""))
	assert.Equal(t, "PUBLIC", in.ResolveSchema("  "))
	assert.Equal(t, "PUBLIC", in.ResolveSchema("public"))
	assert.Equal(t, "ACCOUNTING", in.ResolveSchema("accounting"))
}

func TestNewInspectorWithDefault(t *testing.T) {
	conn := &databasetest.FakeConn{}

	in := NewInspectorWithDefault(conn, "reporting")
	assert.Equal(t, "REPORTING", in.DefaultSchemaName())
	assert.Equal(t, "REPORTING", in.ResolveSchema(""))
	assert.Equal(t, "PUBLIC", in.ResolveSchema("public"))

	assert.Equal(t, "PUBLIC", NewInspectorWithDefault(conn, "").DefaultSchemaName())
}
