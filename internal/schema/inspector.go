package schema

import (
	"context"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/h2go/h2reflect/internal/catalog"
	"github.com/h2go/h2reflect/internal/database"
)

// DefaultSchema is the schema H2 assumes when none is given.
const DefaultSchema = "PUBLIC"

// Inspector assembles normalized table schemas from a live catalog. It is
// stateless apart from the connection handle; every operation is idempotent
// and side-effect-free, so results may be memoized (see CachedInspector).
//
// The catalog is assumed externally stable for the duration of a single
// call; no transactional snapshot is taken.
type Inspector struct {
	conn          database.Conn
	defaultSchema string
}

// NewInspector creates an Inspector over the given connection.
func NewInspector(conn database.Conn) *Inspector {
	return &Inspector{conn: conn, defaultSchema: DefaultSchema}
}

// NewInspectorWithDefault creates an Inspector whose empty-schema fallback
// is defaultSchema instead of PUBLIC. An empty defaultSchema means PUBLIC.
func NewInspectorWithDefault(conn database.Conn, defaultSchema string) *Inspector {
	if strings.TrimSpace(defaultSchema) == "" {
		return NewInspector(conn)
	}
	return &Inspector{conn: conn, defaultSchema: catalog.NormalizeName(defaultSchema)}
}

// DefaultSchemaName returns the schema used when callers pass none.
func (in *Inspector) DefaultSchemaName() string {
	return in.defaultSchema
}

// ResolveSchema applies default-schema substitution and case normalization.
// Every per-table operation resolves its schema exactly once, on entry, and
// never re-resolves mid-call.
func (in *Inspector) ResolveSchema(schema string) string {
	if strings.TrimSpace(schema) == "" {
		return in.defaultSchema
	}
	return catalog.NormalizeName(schema)
}

// ListSchemas returns all schema names in the catalog.
func (in *Inspector) ListSchemas(ctx context.Context) ([]string, error) {
	return catalog.SchemaNames(ctx, in.conn)
}

// ListTables returns the table names of one schema, sorted ascending.
// An empty schema means the default schema.
func (in *Inspector) ListTables(ctx context.Context, schema string) ([]string, error) {
	return catalog.TableNames(ctx, in.conn, in.ResolveSchema(schema))
}

// HasTable reports whether the table exists in the (resolved) schema.
// It never disagrees with ListTables on the same catalog snapshot.
func (in *Inspector) HasTable(ctx context.Context, table, schema string) (bool, error) {
	return catalog.TableExists(ctx, in.conn, in.ResolveSchema(schema), table)
}

// ReflectTable assembles the full schema of one table. The four per-kind
// catalog queries are independent of each other, so they run concurrently
// over the pooled connection; each result lands in its own slot and is read
// only after Wait.
func (in *Inspector) ReflectTable(ctx context.Context, table, schema string) (*TableSchema, error) {
	resolved := in.ResolveSchema(schema)
	name := catalog.NormalizeName(table)

	var (
		cols    []ColumnInfo
		pk      PrimaryKeyInfo
		fks     []ForeignKeyInfo
		indexes []IndexInfo
	)

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		rows, err := catalog.Columns(gctx, in.conn, resolved, name)
		if err != nil {
			return err
		}
		cols, err = parseColumns(rows)
		return err
	})

	g.Go(func() error {
		pkCols, err := catalog.PrimaryKeyColumns(gctx, in.conn, resolved, name)
		if err != nil {
			return err
		}
		pkName, err := catalog.PrimaryKeyName(gctx, in.conn, resolved, name)
		if err != nil {
			return err
		}
		pk = parsePrimaryKey(pkName, pkCols)
		return nil
	})

	g.Go(func() error {
		rows, err := catalog.ForeignKeys(gctx, in.conn, resolved, name)
		if err != nil {
			return err
		}
		fks, err = parseForeignKeys(rows, resolved, in.defaultSchema)
		return err
	})

	g.Go(func() error {
		rows, err := catalog.Indexes(gctx, in.conn, resolved, name)
		if err != nil {
			return err
		}
		indexes, err = parseIndexes(rows)
		return err
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &TableSchema{
		Schema:      resolved,
		Name:        name,
		Columns:     cols,
		PrimaryKey:  pk,
		ForeignKeys: fks,
		Indexes:     indexes,
	}, nil
}

// ReflectSchema assembles every table of one schema into a SchemaInfo.
func (in *Inspector) ReflectSchema(ctx context.Context, schema string) (*SchemaInfo, error) {
	resolved := in.ResolveSchema(schema)

	tables, err := in.ListTables(ctx, resolved)
	if err != nil {
		return nil, err
	}

	info := &SchemaInfo{Schema: resolved}
	for _, table := range tables {
		ts, err := in.ReflectTable(ctx, table, resolved)
		if err != nil {
			return nil, err
		}
		info.Tables = append(info.Tables, *ts)
	}
	return info, nil
}
