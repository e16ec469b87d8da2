// Package models defines the client-side artifacts captured in the field and
// queued locally until they are synced with the backend.
package models

import (
	"fmt"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/common"
)

// Kind names one artifact family. Each kind is stored in its own table and
// synced by its own strategy.
type Kind string

const (
	KindMedia     Kind = "media"
	KindNote      Kind = "notes"
	KindTask      Kind = "tasks"
	KindChecklist Kind = "checklists"
)

// Kinds lists every kind in the order the sync engine drains them.
var Kinds = []Kind{KindMedia, KindNote, KindTask, KindChecklist}

// ParseKind accepts both the table name and the singular form ("note").
func ParseKind(s string) (Kind, error) {
	switch s {
	case "media", "photo", "video":
		return KindMedia, nil
	case "notes", "note":
		return KindNote, nil
	case "tasks", "task":
		return KindTask, nil
	case "checklists", "checklist":
		return KindChecklist, nil
	}
	return "", fmt.Errorf("%w: %q", common.ErrUnknownKind, s)
}

// Payload is the kind-specific part of an artifact.
type Payload interface {
	Kind() Kind
}

// Artifact is one queued capture. While present in the local store it is
// pending; it is removed once the backend has confirmed the write.
type Artifact struct {
	// ID is generated on the client when the artifact is persisted locally
	// and is never reused.
	ID string

	// OwnerUserID identifies the authenticated user who captured it.
	OwnerUserID string

	// TargetCollectionID is the remote parent record (e.g. a project), if linked.
	TargetCollectionID *string

	// CreatedAt is the client-side capture time used for ordering.
	CreatedAt time.Time

	Payload Payload
}

// Kind reports the kind of the artifact's payload.
func (a *Artifact) Kind() Kind {
	if a.Payload == nil {
		return ""
	}
	return a.Payload.Kind()
}

// Validate checks the fields every kind needs before it can be queued.
func (a *Artifact) Validate() error {
	if a.ID == "" {
		return fmt.Errorf("%w: empty id", common.ErrInvalidArtifact)
	}
	if a.OwnerUserID == "" {
		return fmt.Errorf("%w: empty owner", common.ErrInvalidArtifact)
	}
	if a.Payload == nil {
		return fmt.Errorf("%w: missing payload", common.ErrInvalidArtifact)
	}
	if v, ok := a.Payload.(interface{ validate() error }); ok {
		return v.validate()
	}
	return nil
}

// PendingCounts is the per-kind number of queued artifacts.
type PendingCounts struct {
	Media      int `json:"media"`
	Notes      int `json:"notes"`
	Tasks      int `json:"tasks"`
	Checklists int `json:"checklists"`
}

func (c PendingCounts) Total() int {
	return c.Media + c.Notes + c.Tasks + c.Checklists
}

// Set stores n under kind k.
func (c *PendingCounts) Set(k Kind, n int) {
	switch k {
	case KindMedia:
		c.Media = n
	case KindNote:
		c.Notes = n
	case KindTask:
		c.Tasks = n
	case KindChecklist:
		c.Checklists = n
	}
}
