package remote

import (
	"context"
	"fmt"
)

// TokenValidator reports whether the current session can make remote calls.
type TokenValidator interface {
	Valid() (string, error)
}

// SessionGate refuses remote calls before any I/O when the session is
// missing or expired.
type SessionGate struct {
	session TokenValidator
	blobs   BlobStore
	records RecordStore
}

func NewSessionGate(session TokenValidator, blobs BlobStore, records RecordStore) *SessionGate {
	return &SessionGate{session: session, blobs: blobs, records: records}
}

func (g *SessionGate) UploadBinary(ctx context.Context, bucket, path string, data []byte, mimeType string) (string, error) {
	if _, err := g.session.Valid(); err != nil {
		return "", fmt.Errorf("upload %s/%s: %w", bucket, path, err)
	}
	return g.blobs.UploadBinary(ctx, bucket, path, data, mimeType)
}

func (g *SessionGate) InsertRecord(ctx context.Context, table string, fields map[string]any) (string, error) {
	if _, err := g.session.Valid(); err != nil {
		return "", fmt.Errorf("insert %s: %w", table, err)
	}
	return g.records.InsertRecord(ctx, table, fields)
}
