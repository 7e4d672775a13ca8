// Package databasetest provides an in-memory database.Conn fake for tests.
// Result grids are plain [][]any; cells may be string, bool, int or nil,
// and scan into the matching destination or its pointer form.
package databasetest

import (
	"context"
	"fmt"
	"sync"

	"github.com/h2go/h2reflect/internal/database"
)

// FakeConn implements database.Conn over canned result grids.
// It is safe for concurrent use.
type FakeConn struct {
	// OnQuery returns the result grid for a statement. args carries the
	// bind values in order.
	OnQuery func(sql string, args []any) ([][]any, error)

	mu      sync.Mutex
	queries []string
}

// Ping always succeeds.
func (c *FakeConn) Ping(ctx context.Context) error { return nil }

// Close is a no-op.
func (c *FakeConn) Close() {}

// Query records the statement and serves the grid from OnQuery.
func (c *FakeConn) Query(ctx context.Context, sql string, args ...any) (database.Rows, error) {
	c.mu.Lock()
	c.queries = append(c.queries, sql)
	c.mu.Unlock()

	if c.OnQuery == nil {
		return &fakeRows{}, nil
	}
	grid, err := c.OnQuery(sql, args)
	if err != nil {
		return nil, err
	}
	return &fakeRows{grid: grid}, nil
}

// QueryRow serves the first row of the grid, or a not-found DBError when
// the grid is empty.
func (c *FakeConn) QueryRow(ctx context.Context, sql string, args ...any) database.Row {
	rows, err := c.Query(ctx, sql, args...)
	if err != nil {
		return &fakeRow{err: err}
	}
	fr := rows.(*fakeRows)
	if len(fr.grid) == 0 {
		return &fakeRow{err: database.NewError(database.ErrKindNotFound, "no rows")}
	}
	return &fakeRow{cells: fr.grid[0]}
}

// Queries returns a copy of every statement executed so far.
func (c *FakeConn) Queries() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.queries))
	copy(out, c.queries)
	return out
}

// QueryCount returns the number of statements executed so far.
func (c *FakeConn) QueryCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.queries)
}

type fakeRows struct {
	grid [][]any
	pos  int
	err  error
}

func (r *fakeRows) Next() bool {
	if r.pos >= len(r.grid) {
		return false
	}
	r.pos++
	return true
}

func (r *fakeRows) Scan(dest ...any) error {
	cells := r.grid[r.pos-1]
	return scanCells(cells, dest)
}

func (r *fakeRows) Close()     {}
func (r *fakeRows) Err() error { return r.err }

type fakeRow struct {
	cells []any
	err   error
}

func (r *fakeRow) Scan(dest ...any) error {
	if r.err != nil {
		return r.err
	}
	return scanCells(r.cells, dest)
}

func scanCells(cells, dest []any) error {
	if len(cells) != len(dest) {
		return fmt.Errorf("scan: %d destinations for %d columns", len(dest), len(cells))
	}
	for i, cell := range cells {
		if err := assign(dest[i], cell); err != nil {
			return fmt.Errorf("scan column %d: %w", i, err)
		}
	}
	return nil
}

func assign(dest, cell any) error {
	switch d := dest.(type) {
	case *string:
		v, ok := cell.(string)
		if !ok {
			return fmt.Errorf("cannot scan %T into *string", cell)
		}
		*d = v
	case **string:
		if cell == nil {
			*d = nil
			return nil
		}
		v, ok := cell.(string)
		if !ok {
			return fmt.Errorf("cannot scan %T into **string", cell)
		}
		*d = &v
	case *bool:
		v, ok := cell.(bool)
		if !ok {
			return fmt.Errorf("cannot scan %T into *bool", cell)
		}
		*d = v
	case **bool:
		if cell == nil {
			*d = nil
			return nil
		}
		v, ok := cell.(bool)
		if !ok {
			return fmt.Errorf("cannot scan %T into **bool", cell)
		}
		*d = &v
	case *int:
		v, ok := cell.(int)
		if !ok {
			return fmt.Errorf("cannot scan %T into *int", cell)
		}
		*d = v
	case **int:
		if cell == nil {
			*d = nil
			return nil
		}
		v, ok := cell.(int)
		if !ok {
			return fmt.Errorf("cannot scan %T into **int", cell)
		}
		*d = &v
	default:
		return fmt.Errorf("unsupported scan destination %T", dest)
	}
	return nil
}
