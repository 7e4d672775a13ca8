// Package snapshot archives reflected schema descriptions in object
// storage. A snapshot is the JSON encoding of one schema.SchemaInfo,
// keyed by schema name and capture time, so later runs can detect drift
// against an earlier catalog state.
package snapshot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"path"
	"reflect"
	"sort"
	"time"

	"github.com/h2go/h2reflect/internal/filestore"
	"github.com/h2go/h2reflect/internal/schema"
)

const (
	keyPrefix   = "snapshots"
	contentType = "application/json"
	timeLayout  = "20060102T150405Z"
)

// Archiver stores and retrieves schema snapshots through a filestore.Store.
type Archiver struct {
	store  filestore.Store
	bucket string
	now    func() time.Time
}

// NewArchiver creates an Archiver writing into the given bucket.
func NewArchiver(store filestore.Store, bucket string) *Archiver {
	return &Archiver{
		store:  store,
		bucket: bucket,
		now:    time.Now,
	}
}

// Save encodes info and stores it under a key derived from the schema name
// and the current UTC time. The bucket is created on first use.
func (a *Archiver) Save(ctx context.Context, info *schema.SchemaInfo) (*filestore.ObjectInfo, error) {
	if err := a.store.EnsureBucket(ctx, a.bucket); err != nil {
		return nil, err
	}

	data, err := Encode(info)
	if err != nil {
		return nil, err
	}

	key := path.Join(keyPrefix, info.Schema, a.now().UTC().Format(timeLayout)+".json")
	return a.store.Put(ctx, a.bucket, key, bytes.NewReader(data), int64(len(data)), contentType)
}

// Load reads and decodes the snapshot stored under key.
func (a *Archiver) Load(ctx context.Context, key string) (*schema.SchemaInfo, error) {
	obj, err := a.store.Get(ctx, a.bucket, key)
	if err != nil {
		return nil, err
	}
	defer obj.Close()

	data, err := io.ReadAll(obj)
	if err != nil {
		return nil, fmt.Errorf("read snapshot %s: %w", key, err)
	}
	return Decode(data)
}

// List returns the stored snapshots of one schema, oldest first.
func (a *Archiver) List(ctx context.Context, schemaName string) ([]filestore.ObjectInfo, error) {
	objs, err := a.store.List(ctx, a.bucket, path.Join(keyPrefix, schemaName)+"/")
	if err != nil {
		return nil, err
	}
	sort.Slice(objs, func(i, j int) bool { return objs[i].Key < objs[j].Key })
	return objs, nil
}

// Latest loads the most recent snapshot of one schema.
// Returns nil when no snapshot exists yet.
func (a *Archiver) Latest(ctx context.Context, schemaName string) (*schema.SchemaInfo, error) {
	objs, err := a.List(ctx, schemaName)
	if err != nil {
		return nil, err
	}
	if len(objs) == 0 {
		return nil, nil
	}
	return a.Load(ctx, objs[len(objs)-1].Key)
}

// Encode renders info as indented JSON.
func Encode(info *schema.SchemaInfo) ([]byte, error) {
	data, err := json.MarshalIndent(info, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode snapshot: %w", err)
	}
	return data, nil
}

// Decode parses a snapshot produced by Encode.
func Decode(data []byte) (*schema.SchemaInfo, error) {
	var info schema.SchemaInfo
	if err := json.Unmarshal(data, &info); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	return &info, nil
}

// Drift summarises the table-level differences between two snapshots.
type Drift struct {
	Added   []string `json:"added,omitempty"`   // tables only in the newer snapshot
	Removed []string `json:"removed,omitempty"` // tables only in the older snapshot
	Changed []string `json:"changed,omitempty"` // tables whose definition differs
}

// Empty reports whether the two snapshots describe the same tables.
func (d Drift) Empty() bool {
	return len(d.Added) == 0 && len(d.Removed) == 0 && len(d.Changed) == 0
}

// Compare computes table-level drift from old to new.
func Compare(oldInfo, newInfo *schema.SchemaInfo) Drift {
	oldTables := make(map[string]schema.TableSchema, len(oldInfo.Tables))
	for _, t := range oldInfo.Tables {
		oldTables[t.Name] = t
	}

	var d Drift
	seen := make(map[string]bool, len(newInfo.Tables))
	for _, t := range newInfo.Tables {
		seen[t.Name] = true
		prev, ok := oldTables[t.Name]
		switch {
		case !ok:
			d.Added = append(d.Added, t.Name)
		case !reflect.DeepEqual(prev, t):
			d.Changed = append(d.Changed, t.Name)
		}
	}
	for _, t := range oldInfo.Tables {
		if !seen[t.Name] {
			d.Removed = append(d.Removed, t.Name)
		}
	}

	sort.Strings(d.Added)
	sort.Strings(d.Removed)
	sort.Strings(d.Changed)
	return d
}
