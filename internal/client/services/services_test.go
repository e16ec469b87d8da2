package services

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/dmitrijs2005/fieldsync/internal/client/client"
	"github.com/stretchr/testify/require"
)

func setupStore(t *testing.T) *client.Repositories {
	t.Helper()
	repos, err := client.InitDatabase(context.Background(), ":memory:")
	require.NoError(t, err)
	t.Cleanup(func() { _ = repos.Close() })
	return repos
}

type fixedOwner struct {
	id  string
	err error
}

func (f fixedOwner) OwnerID() (string, error) { return f.id, f.err }

type upload struct {
	bucket, path, mime string
	data               []byte
}

type insert struct {
	table  string
	fields map[string]any
}

// fakeRemote records every call. Hooks run before the call is recorded.
type fakeRemote struct {
	mu      sync.Mutex
	uploads []upload
	inserts []insert
	nextID  int

	beforeUpload func(path string) error
	beforeInsert func(table string, fields map[string]any) error
}

func (f *fakeRemote) UploadBinary(_ context.Context, bucket, path string, data []byte, mime string) (string, error) {
	if f.beforeUpload != nil {
		if err := f.beforeUpload(path); err != nil {
			return "", err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.uploads = append(f.uploads, upload{bucket: bucket, path: path, mime: mime, data: data})
	return path, nil
}

func (f *fakeRemote) InsertRecord(_ context.Context, table string, fields map[string]any) (string, error) {
	if f.beforeInsert != nil {
		if err := f.beforeInsert(table, fields); err != nil {
			return "", err
		}
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.nextID++
	f.inserts = append(f.inserts, insert{table: table, fields: fields})
	return fmt.Sprintf("row-%d", f.nextID), nil
}

func (f *fakeRemote) tables() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.inserts))
	for _, in := range f.inserts {
		out = append(out, in.table)
	}
	return out
}

func (f *fakeRemote) paths() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make([]string, 0, len(f.uploads))
	for _, u := range f.uploads {
		out = append(out, u.path)
	}
	return out
}

var testBuckets = Buckets{Media: "site-media", Voice: "voice-notes"}
