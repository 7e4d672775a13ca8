package schema

import (
	"context"
	"sync"

	"golang.org/x/sync/singleflight"

	"github.com/h2go/h2reflect/internal/catalog"
)

// cache operation names, part of the memoization key.
const (
	opListSchemas   = "list_schemas"
	opListTables    = "list_tables"
	opHasTable      = "has_table"
	opReflectTable  = "reflect_table"
	opReflectSchema = "reflect_schema"
)

// CachedInspector memoizes Inspector results keyed by
// (operation, schema, table). The schema is resolved and the table name
// normalized before the key is built, so every spelling of one identifier
// shares one key — lookups, coalescing and Invalidate all agree. Safe
// because every Inspector operation is idempotent and side-effect-free for
// an unchanged catalog.
//
// Concurrent callers for one key are coalesced through singleflight so the
// underlying query sequence executes at most once per key; the others wait
// on that result. Errors are never cached. Invalidation is caller-owned —
// the cache is an explicit component, never an implicit global.
type CachedInspector struct {
	inner *Inspector

	group   singleflight.Group
	mu      sync.RWMutex
	entries map[string]any
}

// NewCachedInspector wraps an Inspector with a fresh, empty cache.
func NewCachedInspector(inner *Inspector) *CachedInspector {
	return &CachedInspector{
		inner:   inner,
		entries: make(map[string]any),
	}
}

// ResolveSchema applies the inner Inspector's default-schema substitution
// and case normalization.
func (c *CachedInspector) ResolveSchema(schema string) string {
	return c.inner.ResolveSchema(schema)
}

// ListSchemas is the memoized Inspector.ListSchemas.
func (c *CachedInspector) ListSchemas(ctx context.Context) ([]string, error) {
	v, err := c.do(cacheKey(opListSchemas, "", ""), func() (any, error) {
		return c.inner.ListSchemas(ctx)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// ListTables is the memoized Inspector.ListTables.
func (c *CachedInspector) ListTables(ctx context.Context, schema string) ([]string, error) {
	resolved := c.inner.ResolveSchema(schema)
	v, err := c.do(cacheKey(opListTables, resolved, ""), func() (any, error) {
		return c.inner.ListTables(ctx, resolved)
	})
	if err != nil {
		return nil, err
	}
	return v.([]string), nil
}

// HasTable is the memoized Inspector.HasTable.
func (c *CachedInspector) HasTable(ctx context.Context, table, schema string) (bool, error) {
	resolved := c.inner.ResolveSchema(schema)
	table = catalog.NormalizeName(table)
	v, err := c.do(cacheKey(opHasTable, resolved, table), func() (any, error) {
		return c.inner.HasTable(ctx, table, resolved)
	})
	if err != nil {
		return false, err
	}
	return v.(bool), nil
}

// ReflectTable is the memoized Inspector.ReflectTable.
func (c *CachedInspector) ReflectTable(ctx context.Context, table, schema string) (*TableSchema, error) {
	resolved := c.inner.ResolveSchema(schema)
	table = catalog.NormalizeName(table)
	v, err := c.do(cacheKey(opReflectTable, resolved, table), func() (any, error) {
		return c.inner.ReflectTable(ctx, table, resolved)
	})
	if err != nil {
		return nil, err
	}
	return v.(*TableSchema), nil
}

// ReflectSchema is the memoized Inspector.ReflectSchema.
func (c *CachedInspector) ReflectSchema(ctx context.Context, schema string) (*SchemaInfo, error) {
	resolved := c.inner.ResolveSchema(schema)
	v, err := c.do(cacheKey(opReflectSchema, resolved, ""), func() (any, error) {
		return c.inner.ReflectSchema(ctx, resolved)
	})
	if err != nil {
		return nil, err
	}
	return v.(*SchemaInfo), nil
}

// Invalidate drops the cached per-table entries for (schema, table) along
// with the listing entries of that schema, so the next call re-reads the
// catalog.
func (c *CachedInspector) Invalidate(table, schema string) {
	resolved := c.inner.ResolveSchema(schema)
	table = catalog.NormalizeName(table)

	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.entries, cacheKey(opReflectTable, resolved, table))
	delete(c.entries, cacheKey(opHasTable, resolved, table))
	delete(c.entries, cacheKey(opListTables, resolved, ""))
	delete(c.entries, cacheKey(opReflectSchema, resolved, ""))
}

// Reset clears the whole cache.
func (c *CachedInspector) Reset() {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries = make(map[string]any)
}

// do returns the cached value for key, or runs fn at most once across
// concurrent callers and caches its result.
func (c *CachedInspector) do(key string, fn func() (any, error)) (any, error) {
	c.mu.RLock()
	v, ok := c.entries[key]
	c.mu.RUnlock()
	if ok {
		return v, nil
	}

	v, err, _ := c.group.Do(key, func() (any, error) {
		// A winner may have stored the entry between our read and Do.
		c.mu.RLock()
		v, ok := c.entries[key]
		c.mu.RUnlock()
		if ok {
			return v, nil
		}

		v, err := fn()
		if err != nil {
			return nil, err
		}

		c.mu.Lock()
		c.entries[key] = v
		c.mu.Unlock()
		return v, nil
	})
	return v, err
}

func cacheKey(op, schema, table string) string {
	return op + "\x00" + schema + "\x00" + table
}
