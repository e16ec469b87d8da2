// Package reconnect starts a sync automatically when the client comes back
// online after having been offline.
//
// The trigger is a single-goroutine state machine:
//
//	Idle --offline--> ArmedAfterOffline --online--> Settling
//	Settling --offline--> ArmedAfterOffline
//	Settling --settle delay elapsed, queue not empty--> Syncing
//	Settling --settle delay elapsed, queue empty--> Idle
//	Syncing --run finished--> Idle
//
// Online observations in Idle are ignored. An offline observation made while
// Syncing is applied when the run finishes.
package reconnect

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/connectivity"
	"github.com/dmitrijs2005/fieldsync/internal/client/models"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

type State int

const (
	Idle State = iota
	ArmedAfterOffline
	Settling
	Syncing
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case ArmedAfterOffline:
		return "armed"
	case Settling:
		return "settling"
	case Syncing:
		return "syncing"
	}
	return "unknown"
}

// Syncer runs one sync pass.
type Syncer interface {
	Run(ctx context.Context) (models.SyncProgress, error)
}

// Counter reports how much is queued.
type Counter interface {
	PendingCounts(ctx context.Context) (models.PendingCounts, error)
}

type Trigger struct {
	syncer  Syncer
	counter Counter
	log     logging.Logger
	delay   time.Duration

	observations chan bool
	done         chan struct{}

	mu    sync.RWMutex
	state State
}

// New returns a trigger waiting delay after reconnecting before it syncs.
// A non-positive delay uses common.DefaultSettleDelay.
func New(syncer Syncer, counter Counter, log logging.Logger, delay time.Duration) *Trigger {
	if delay <= 0 {
		delay = common.DefaultSettleDelay
	}
	return &Trigger{
		syncer:       syncer,
		counter:      counter,
		log:          log,
		delay:        delay,
		observations: make(chan bool, 16),
		done:         make(chan struct{}),
	}
}

func (t *Trigger) State() State {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.state
}

func (t *Trigger) setState(ctx context.Context, s State) {
	t.mu.Lock()
	prev := t.state
	t.state = s
	t.mu.Unlock()
	if prev != s {
		t.log.Debug(ctx, "reconnect trigger", "from", prev.String(), "to", s.String())
	}
}

// Observe feeds one effective-online observation. It returns without effect
// once Run has exited.
func (t *Trigger) Observe(online bool) {
	select {
	case t.observations <- online:
	case <-t.done:
	}
}

// Attach feeds the monitor's current and future effective state into t.
func (t *Trigger) Attach(m *connectivity.Monitor) (detach func()) {
	unsubscribe := m.Subscribe(func(s connectivity.State) {
		t.Observe(!s.EffectivelyOffline())
	})
	t.Observe(!m.EffectivelyOffline())
	return unsubscribe
}

// Run processes observations until ctx is done. A sync in flight when ctx is
// cancelled sees the same cancellation, and Run returns only after it ends so
// the caller can release the store.
func (t *Trigger) Run(ctx context.Context) {
	defer close(t.done)

	var (
		timer    *time.Timer
		timerC   <-chan time.Time
		syncDone chan struct{}

		// observations received while syncing, applied once the run ends
		offlineDuringSync  bool
		onlineAfterOffline bool
	)

	stopTimer := func() {
		if timer != nil {
			timer.Stop()
			timer, timerC = nil, nil
		}
	}
	settle := func() {
		stopTimer()
		timer = time.NewTimer(t.delay)
		timerC = timer.C
		t.setState(ctx, Settling)
	}

	for {
		select {
		case <-ctx.Done():
			stopTimer()
			if syncDone != nil {
				<-syncDone
			}
			return

		case online := <-t.observations:
			switch t.State() {
			case Idle:
				if !online {
					t.setState(ctx, ArmedAfterOffline)
				}
			case ArmedAfterOffline:
				if online {
					settle()
				}
			case Settling:
				if !online {
					stopTimer()
					t.setState(ctx, ArmedAfterOffline)
				}
			case Syncing:
				if !online {
					offlineDuringSync = true
					onlineAfterOffline = false
				} else if offlineDuringSync {
					onlineAfterOffline = true
				}
			}

		case <-timerC:
			timer, timerC = nil, nil
			counts, err := t.counter.PendingCounts(ctx)
			if err != nil {
				t.log.Warn(ctx, "reconnect: pending counts unavailable", "error", err)
				t.setState(ctx, Idle)
				continue
			}
			if counts.Total() == 0 {
				t.setState(ctx, Idle)
				continue
			}
			t.setState(ctx, Syncing)
			syncDone = make(chan struct{})
			go t.runSync(ctx, syncDone)

		case <-syncDone:
			syncDone = nil
			t.setState(ctx, Idle)
			if offlineDuringSync {
				t.setState(ctx, ArmedAfterOffline)
				if onlineAfterOffline {
					settle()
				}
			}
			offlineDuringSync, onlineAfterOffline = false, false
		}
	}
}

func (t *Trigger) runSync(ctx context.Context, done chan<- struct{}) {
	defer close(done)
	t.log.Info(ctx, "reconnected, starting sync")
	p, err := t.syncer.Run(ctx)
	if err != nil {
		t.log.Warn(ctx, "reconnect sync did not run", "error", err)
		return
	}
	t.log.Info(ctx, "reconnect sync finished", "summary", p.Summary())
}
