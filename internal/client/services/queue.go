package services

import (
	"context"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/artifacts"
	"github.com/google/uuid"
)

// OwnerSource returns the id of the signed-in user.
type OwnerSource interface {
	OwnerID() (string, error)
}

// QueueService is the capture side of the queue.
type QueueService struct {
	store artifacts.Repository
	owner OwnerSource
	now   func() time.Time
	newID func() string
}

func NewQueueService(store artifacts.Repository, owner OwnerSource) *QueueService {
	return &QueueService{store: store, owner: owner, now: time.Now, newID: uuid.NewString}
}

// queue stamps id, owner and capture time at the moment of persistence.
func (s *QueueService) queue(ctx context.Context, target *string, p models.Payload) (*models.Artifact, error) {
	owner, err := s.owner.OwnerID()
	if err != nil {
		return nil, err
	}
	a := &models.Artifact{
		ID:                 s.newID(),
		OwnerUserID:        owner,
		TargetCollectionID: target,
		CreatedAt:          s.now().UTC(),
		Payload:            p,
	}
	if err := s.store.Put(ctx, a); err != nil {
		return nil, err
	}
	return a, nil
}

func (s *QueueService) QueueMedia(ctx context.Context, target *string, m models.Media) (*models.Artifact, error) {
	if m.Size == 0 {
		m.Size = int64(len(m.Data))
	}
	return s.queue(ctx, target, &m)
}

func (s *QueueService) QueueNote(ctx context.Context, target *string, n models.Note) (*models.Artifact, error) {
	return s.queue(ctx, target, &n)
}

func (s *QueueService) QueueTask(ctx context.Context, target *string, t models.Task) (*models.Artifact, error) {
	if t.Priority == "" {
		t.Priority = models.PriorityMedium
	}
	return s.queue(ctx, target, &t)
}

func (s *QueueService) QueueChecklist(ctx context.Context, target *string, c models.Checklist) (*models.Artifact, error) {
	for i := range c.Items {
		if c.Items[i].Priority == "" {
			c.Items[i].Priority = models.PriorityMedium
		}
	}
	return s.queue(ctx, target, &c)
}

func (s *QueueService) List(ctx context.Context, kind models.Kind) ([]*models.Artifact, error) {
	return s.store.GetAll(ctx, kind)
}

// Discard drops a queued artifact without syncing it.
func (s *QueueService) Discard(ctx context.Context, kind models.Kind, id string) error {
	return s.store.Remove(ctx, kind, id)
}

func (s *QueueService) PendingCounts(ctx context.Context) (models.PendingCounts, error) {
	return s.store.Counts(ctx)
}
