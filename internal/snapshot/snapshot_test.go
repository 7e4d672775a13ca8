package snapshot

import (
	"bytes"
	"context"
	"io"
	"sort"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/h2go/h2reflect/internal/errs"
	"github.com/h2go/h2reflect/internal/filestore"
	"github.com/h2go/h2reflect/internal/schema"
)

// memStore is an in-memory filestore.Store for tests.
type memStore struct {
	mu      sync.Mutex
	buckets map[string]map[string][]byte
}

func newMemStore() *memStore {
	return &memStore{buckets: make(map[string]map[string][]byte)}
}

func (s *memStore) Ping(ctx context.Context) error { return nil }
func (s *memStore) Close() error                   { return nil }

func (s *memStore) EnsureBucket(ctx context.Context, bucket string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.buckets[bucket] == nil {
		s.buckets[bucket] = make(map[string][]byte)
	}
	return nil
}

func (s *memStore) Put(ctx context.Context, bucket, key string, body io.Reader, size int64, contentType string) (*filestore.ObjectInfo, error) {
	data, err := io.ReadAll(body)
	if err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	b := s.buckets[bucket]
	if b == nil {
		return nil, errs.New(errs.ErrKindNotFound, "bucket does not exist")
	}
	b[key] = data

	return &filestore.ObjectInfo{Key: key, Size: int64(len(data)), ContentType: contentType}, nil
}

func (s *memStore) Get(ctx context.Context, bucket, key string) (filestore.Object, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.buckets[bucket][key]
	if !ok {
		return nil, errs.New(errs.ErrKindNotFound, "object does not exist")
	}
	return &memObject{
		ReadCloser: io.NopCloser(bytes.NewReader(data)),
		info:       &filestore.ObjectInfo{Key: key, Size: int64(len(data))},
	}, nil
}

func (s *memStore) Stat(ctx context.Context, bucket, key string) (*filestore.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	data, ok := s.buckets[bucket][key]
	if !ok {
		return nil, errs.New(errs.ErrKindNotFound, "object does not exist")
	}
	return &filestore.ObjectInfo{Key: key, Size: int64(len(data))}, nil
}

func (s *memStore) List(ctx context.Context, bucket, prefix string) ([]filestore.ObjectInfo, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []filestore.ObjectInfo
	for key, data := range s.buckets[bucket] {
		if strings.HasPrefix(key, prefix) {
			out = append(out, filestore.ObjectInfo{Key: key, Size: int64(len(data))})
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Key < out[j].Key })
	return out, nil
}

type memObject struct {
	io.ReadCloser
	info *filestore.ObjectInfo
}

func (o *memObject) Info() *filestore.ObjectInfo { return o.info }

func sampleSchema() *schema.SchemaInfo {
	return &schema.SchemaInfo{
		Schema: "PUBLIC",
		Tables: []schema.TableSchema{
			{
				Name:   "USERS",
				Schema: "PUBLIC",
				Columns: []schema.ColumnInfo{
					{Name: "ID", DeclaredType: "INTEGER", Type: schema.TypeInteger, AutoIncrement: true},
					{Name: "EMAIL", DeclaredType: "VARCHAR", Type: schema.TypeVarchar, Nullable: true},
				},
				PrimaryKey: schema.PrimaryKeyInfo{Name: "CONSTRAINT_4", Columns: []string{"ID"}},
			},
		},
	}
}

func TestSaveAndLoadRoundTrip(t *testing.T) {
	store := newMemStore()
	arch := NewArchiver(store, "snaps")
	arch.now = func() time.Time { return time.Date(2026, 8, 25, 10, 15, 0, 0, time.UTC) }

	info, err := arch.Save(t.Context(), sampleSchema())
	require.NoError(t, err)
	assert.Equal(t, "snapshots/PUBLIC/20260825T101500Z.json", info.Key)
	assert.Equal(t, "application/json", info.ContentType)

	loaded, err := arch.Load(t.Context(), info.Key)
	require.NoError(t, err)
	assert.Equal(t, sampleSchema(), loaded)
}

func TestListIsOldestFirstAndScopedToSchema(t *testing.T) {
	store := newMemStore()
	arch := NewArchiver(store, "snaps")

	stamps := []time.Time{
		time.Date(2026, 8, 25, 12, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC),
		time.Date(2026, 8, 25, 8, 0, 0, 0, time.UTC),
	}
	for _, ts := range stamps {
		arch.now = func() time.Time { return ts }
		_, err := arch.Save(t.Context(), sampleSchema())
		require.NoError(t, err)
	}

	// A snapshot of another schema must not show up.
	other := sampleSchema()
	other.Schema = "REPORTING"
	arch.now = func() time.Time { return time.Date(2026, 8, 25, 13, 0, 0, 0, time.UTC) }
	_, err := arch.Save(t.Context(), other)
	require.NoError(t, err)

	objs, err := arch.List(t.Context(), "PUBLIC")
	require.NoError(t, err)
	require.Len(t, objs, 3)
	assert.Equal(t, "snapshots/PUBLIC/20260824T090000Z.json", objs[0].Key)
	assert.Equal(t, "snapshots/PUBLIC/20260825T080000Z.json", objs[1].Key)
	assert.Equal(t, "snapshots/PUBLIC/20260825T120000Z.json", objs[2].Key)
}

func TestLatest(t *testing.T) {
	store := newMemStore()
	arch := NewArchiver(store, "snaps")

	got, err := arch.Latest(t.Context(), "PUBLIC")
	require.NoError(t, err)
	assert.Nil(t, got, "no snapshots yet")

	first := sampleSchema()
	arch.now = func() time.Time { return time.Date(2026, 8, 24, 9, 0, 0, 0, time.UTC) }
	_, err = arch.Save(t.Context(), first)
	require.NoError(t, err)

	second := sampleSchema()
	second.Tables[0].Columns[1].MaxLength = intPtr(255)
	arch.now = func() time.Time { return time.Date(2026, 8, 25, 9, 0, 0, 0, time.UTC) }
	_, err = arch.Save(t.Context(), second)
	require.NoError(t, err)

	got, err = arch.Latest(t.Context(), "PUBLIC")
	require.NoError(t, err)
	assert.Equal(t, second, got)
}

func TestLoadMissingKey(t *testing.T) {
	store := newMemStore()
	arch := NewArchiver(store, "snaps")
	require.NoError(t, store.EnsureBucket(t.Context(), "snaps"))

	_, err := arch.Load(t.Context(), "snapshots/PUBLIC/nope.json")
	assert.True(t, errs.IsNotFound(err))
}

func TestDecodeRejectsGarbage(t *testing.T) {
	_, err := Decode([]byte("{not json"))
	assert.Error(t, err)
}

func TestCompare(t *testing.T) {
	oldInfo := sampleSchema()
	oldInfo.Tables = append(oldInfo.Tables, schema.TableSchema{Name: "ORGS", Schema: "PUBLIC"})

	newInfo := sampleSchema()
	newInfo.Tables[0].Columns[1].MaxLength = intPtr(255) // USERS changed
	newInfo.Tables = append(newInfo.Tables, schema.TableSchema{Name: "AUDIT", Schema: "PUBLIC"})

	d := Compare(oldInfo, newInfo)
	assert.Equal(t, []string{"AUDIT"}, d.Added)
	assert.Equal(t, []string{"ORGS"}, d.Removed)
	assert.Equal(t, []string{"USERS"}, d.Changed)
	assert.False(t, d.Empty())

	same := Compare(sampleSchema(), sampleSchema())
	assert.True(t, same.Empty())
}

func intPtr(v int) *int { return &v }
