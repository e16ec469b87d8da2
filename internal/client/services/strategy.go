package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/remote"
	"github.com/dmitrijs2005/fieldsync/internal/cryptox"
)

// Buckets names the object storage buckets binaries are uploaded to.
type Buckets struct {
	Media string
	Voice string
}

// Uploader pushes one artifact of a single kind to the backend. A nil error
// means the backend has confirmed every write the artifact needs.
type Uploader interface {
	Upload(ctx context.Context, a *models.Artifact) error
}

// UploaderFunc adapts a function to Uploader.
type UploaderFunc func(ctx context.Context, a *models.Artifact) error

func (f UploaderFunc) Upload(ctx context.Context, a *models.Artifact) error { return f(ctx, a) }

// DefaultUploaders returns the strategy for every kind.
func DefaultUploaders(r remote.Remote, b Buckets) map[models.Kind]Uploader {
	return map[models.Kind]Uploader{
		models.KindMedia:     &mediaUploader{remote: r, bucket: b.Media},
		models.KindNote:      &noteUploader{remote: r, bucket: b.Voice},
		models.KindTask:      &taskUploader{remote: r},
		models.KindChecklist: &checklistUploader{remote: r},
	}
}

// objectPath is owner/collection/id+ext. It depends only on the artifact, so
// a retried upload overwrites the object a failed attempt may have left.
func objectPath(a *models.Artifact, ext string) string {
	collection := "unlinked"
	if a.TargetCollectionID != nil && *a.TargetCollectionID != "" {
		collection = *a.TargetCollectionID
	}
	return strings.Join([]string{a.OwnerUserID, collection, a.ID + ext}, "/")
}

func baseFields(a *models.Artifact) map[string]any {
	var collection any
	if a.TargetCollectionID != nil {
		collection = *a.TargetCollectionID
	}
	return map[string]any{
		"client_id":     a.ID,
		"owner_user_id": a.OwnerUserID,
		"collection_id": collection,
		"created_at":    a.CreatedAt,
	}
}

func payloadOf[T any](a *models.Artifact) (*T, error) {
	p, ok := models.PayloadAs[T](a.Payload)
	if !ok {
		return nil, fmt.Errorf("artifact %s: unexpected payload %T", a.ID, a.Payload)
	}
	return p, nil
}

type mediaUploader struct {
	remote remote.Remote
	bucket string
}

func (u *mediaUploader) Upload(ctx context.Context, a *models.Artifact) error {
	m, err := payloadOf[models.Media](a)
	if err != nil {
		return err
	}

	path, err := u.remote.UploadBinary(ctx, u.bucket, objectPath(a, m.Extension()), m.Data, m.MimeType)
	if err != nil {
		return err
	}

	fields := baseFields(a)
	fields["storage_path"] = path
	fields["mime_type"] = m.MimeType
	fields["media_type"] = string(m.Type)
	fields["size"] = m.Size
	fields["checksum"] = cryptox.Checksum(m.Data)
	if m.Caption != "" {
		fields["caption"] = m.Caption
	}
	if m.Location != nil {
		fields["latitude"] = m.Location.Latitude
		fields["longitude"] = m.Location.Longitude
		if m.Location.LocationName != "" {
			fields["location_name"] = m.Location.LocationName
		}
	}
	if m.CapturedAt != nil {
		fields["captured_at"] = *m.CapturedAt
	}

	_, err = u.remote.InsertRecord(ctx, "media", fields)
	return err
}

type noteUploader struct {
	remote remote.Remote
	bucket string
}

func (u *noteUploader) Upload(ctx context.Context, a *models.Artifact) error {
	n, err := payloadOf[models.Note](a)
	if err != nil {
		return err
	}

	fields := baseFields(a)
	fields["text"] = n.Text
	if len(n.Audio) > 0 {
		path, err := u.remote.UploadBinary(ctx, u.bucket, objectPath(a, models.ExtensionFor(n.AudioMimeType)), n.Audio, n.AudioMimeType)
		if err != nil {
			return err
		}
		fields["audio_path"] = path
		fields["audio_mime_type"] = n.AudioMimeType
	}

	_, err = u.remote.InsertRecord(ctx, "notes", fields)
	return err
}

type taskUploader struct {
	remote remote.Remote
}

func (u *taskUploader) Upload(ctx context.Context, a *models.Artifact) error {
	t, err := payloadOf[models.Task](a)
	if err != nil {
		return err
	}

	fields := baseFields(a)
	fields["title"] = t.Title
	fields["description"] = t.Description
	fields["priority"] = string(t.Priority)
	if t.DueDate != nil {
		fields["due_date"] = *t.DueDate
	}

	_, err = u.remote.InsertRecord(ctx, "tasks", fields)
	return err
}

type checklistUploader struct {
	remote remote.Remote
}

// Upload inserts the checklist and then its rows in order. If a row fails the
// artifact stays queued and the next run inserts the checklist again.
func (u *checklistUploader) Upload(ctx context.Context, a *models.Artifact) error {
	c, err := payloadOf[models.Checklist](a)
	if err != nil {
		return err
	}

	fields := baseFields(a)
	fields["title"] = c.Title
	fields["item_count"] = len(c.Items)

	id, err := u.remote.InsertRecord(ctx, "checklists", fields)
	if err != nil {
		return err
	}

	for i, item := range c.Items {
		_, err := u.remote.InsertRecord(ctx, "checklist_items", map[string]any{
			"checklist_id": id,
			"position":     i,
			"text":         item.Text,
			"priority":     string(item.Priority),
			"category":     item.Category,
			"completed":    item.Completed,
		})
		if err != nil {
			return fmt.Errorf("checklist %s item %d: %w", id, i, err)
		}
	}
	return nil
}
