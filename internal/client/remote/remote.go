// Package remote is the client's narrow view of the backend: binary object
// storage and a relational record store. Both are consumed, never managed,
// by the sync engine.
package remote

import "context"

// BlobStore stores opaque binaries.
type BlobStore interface {
	// UploadBinary stores data at bucket/path and returns the stored path.
	UploadBinary(ctx context.Context, bucket, path string, data []byte, mimeType string) (string, error)
}

// RecordStore inserts rows into backend tables.
type RecordStore interface {
	// InsertRecord inserts fields into table and returns the new row id.
	InsertRecord(ctx context.Context, table string, fields map[string]any) (string, error)
}

// Remote is everything the sync engine needs from the backend.
type Remote interface {
	BlobStore
	RecordStore
}
