package services

import (
	"context"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/client/notify"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/artifacts"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
	"github.com/google/uuid"
)

// SyncService drains the local queue to the backend.
//
// At most one run is active at a time. Every artifact gets exactly one
// attempt per run; a failure leaves it queued for the next run and never
// stops the run.
type SyncService struct {
	store     artifacts.Repository
	uploaders map[models.Kind]Uploader
	bus       *notify.Bus[models.SyncProgress]
	log       logging.Logger

	running atomic.Bool
}

func NewSyncService(store artifacts.Repository, uploaders map[models.Kind]Uploader, log logging.Logger) *SyncService {
	return &SyncService{
		store:     store,
		uploaders: uploaders,
		bus:       notify.New[models.SyncProgress]("sync-progress", log),
		log:       log,
	}
}

// Subscribe registers fn for progress snapshots of future runs.
func (s *SyncService) Subscribe(fn func(models.SyncProgress)) (unsubscribe func()) {
	return s.bus.Subscribe(fn)
}

// Running reports whether a run is active.
func (s *SyncService) Running() bool {
	return s.running.Load()
}

// Run performs one sync pass. A call made while another run is active returns
// common.ErrSyncInProgress and an in-progress snapshot without doing any work.
// Per-artifact failures are counted in the result, not returned.
//
// When the queue cannot be read Run returns an error wrapping
// common.ErrStoreUnavailable and publishes no snapshot: the run never
// started, so subscribers are left in whatever state the previous run
// finished in and the caller reports the error.
func (s *SyncService) Run(ctx context.Context) (models.SyncProgress, error) {
	if !s.running.CompareAndSwap(false, true) {
		return models.SyncProgress{InProgress: true}, common.ErrSyncInProgress
	}
	defer s.running.Store(false)

	log := s.log.With("run", uuid.NewString()[:8])
	started := time.Now()

	snap, err := s.store.Snapshot(ctx)
	if err != nil {
		log.Error(ctx, "sync snapshot failed", "error", err)
		return models.SyncProgress{}, fmt.Errorf("sync snapshot: %w", err)
	}

	progress := models.SyncProgress{}
	for _, kind := range models.Kinds {
		progress.Total += len(snap[kind])
	}
	if progress.Total == 0 {
		s.bus.Publish(ctx, progress)
		return progress, nil
	}

	log.Info(ctx, "sync started", "total", progress.Total)
	progress.InProgress = true

	for _, kind := range models.Kinds {
		for _, a := range snap[kind] {
			if err := s.syncOne(ctx, kind, a); err != nil {
				progress.Failed++
				log.Warn(ctx, "artifact not synced", "kind", kind, "id", a.ID, "error", err)
			} else {
				progress.Completed++
				log.Debug(ctx, "artifact synced", "kind", kind, "id", a.ID)
			}
			s.bus.Publish(ctx, progress)
		}
	}

	progress.InProgress = false
	s.bus.Publish(ctx, progress)

	log.Info(ctx, "sync finished",
		"completed", progress.Completed, "failed", progress.Failed, "elapsed", time.Since(started))
	return progress, nil
}

// syncOne uploads a and, once the backend confirmed it, removes it locally.
// A failed removal leaves the artifact queued so it is counted as failed.
func (s *SyncService) syncOne(ctx context.Context, kind models.Kind, a *models.Artifact) error {
	u, ok := s.uploaders[kind]
	if !ok {
		return fmt.Errorf("%w: no uploader for %s", common.ErrUnknownKind, kind)
	}
	if err := u.Upload(ctx, a); err != nil {
		return err
	}
	if err := s.store.Remove(ctx, kind, a.ID); err != nil {
		return fmt.Errorf("remove after upload: %w", err)
	}
	return nil
}
