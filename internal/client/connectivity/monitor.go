// Package connectivity decides whether the client should talk to the backend.
//
// Two inputs are combined: raw reachability, fed by a periodic probe, and a
// persisted user preference that forces offline mode regardless of the
// network. The client is effectively offline when either says so.
package connectivity

import (
	"context"
	"sync"
	"time"

	"github.com/dmitrijs2005/fieldsync/internal/client/notify"
	"github.com/dmitrijs2005/fieldsync/internal/client/repositories/metadata"
	"github.com/dmitrijs2005/fieldsync/internal/common"
	"github.com/dmitrijs2005/fieldsync/internal/logging"
)

// State is the connectivity snapshot delivered to subscribers.
type State struct {
	Online        bool
	ForcedOffline bool
}

func (s State) EffectivelyOffline() bool {
	return !s.Online || s.ForcedOffline
}

func (s State) String() string {
	switch {
	case s.ForcedOffline:
		return "offline (forced)"
	case s.Online:
		return "online"
	default:
		return "offline"
	}
}

// Prober checks backend reachability.
type Prober interface {
	Ping(ctx context.Context) error
}

type Monitor struct {
	repo metadata.Repository
	log  logging.Logger
	bus  *notify.Bus[State]

	mu    sync.RWMutex
	state State
}

// NewMonitor loads the persisted forced-offline flag. Reachability starts out
// false until the first probe reports otherwise.
func NewMonitor(ctx context.Context, repo metadata.Repository, log logging.Logger) (*Monitor, error) {
	forced, err := repo.GetBool(ctx, common.MetadataForceOffline)
	if err != nil {
		return nil, err
	}
	return &Monitor{
		repo:  repo,
		log:   log,
		bus:   notify.New[State]("connectivity", log),
		state: State{ForcedOffline: forced},
	}, nil
}

func (m *Monitor) State() State {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.state
}

func (m *Monitor) Online() bool { return m.State().Online }

func (m *Monitor) ForcedOffline() bool { return m.State().ForcedOffline }

func (m *Monitor) EffectivelyOffline() bool { return m.State().EffectivelyOffline() }

// Subscribe registers fn for every state transition.
func (m *Monitor) Subscribe(fn func(State)) (unsubscribe func()) {
	return m.bus.Subscribe(fn)
}

// SetReachable records a probe result and notifies subscribers on change.
func (m *Monitor) SetReachable(ctx context.Context, online bool) {
	m.update(ctx, func(s *State) { s.Online = online })
}

// SetForcedOffline persists the preference first; on a storage error the
// in-memory state is left unchanged.
func (m *Monitor) SetForcedOffline(ctx context.Context, forced bool) error {
	if err := m.repo.SetBool(ctx, common.MetadataForceOffline, forced); err != nil {
		return err
	}
	m.update(ctx, func(s *State) { s.ForcedOffline = forced })
	return nil
}

func (m *Monitor) update(ctx context.Context, fn func(*State)) {
	m.mu.Lock()
	prev := m.state
	fn(&m.state)
	next := m.state
	m.mu.Unlock()

	if prev == next {
		return
	}
	m.log.Info(ctx, "connectivity changed", "from", prev.String(), "to", next.String())
	m.bus.Publish(ctx, next)
}

// DefaultCheckInterval is used by Watch when given a non-positive interval.
const DefaultCheckInterval = 3 * time.Second

// Watch probes immediately and then every interval until ctx is done.
func (m *Monitor) Watch(ctx context.Context, p Prober, interval time.Duration) {
	if interval <= 0 {
		m.log.Warn(ctx, "non-positive probe interval, using default", "interval", interval, "default", DefaultCheckInterval)
		interval = DefaultCheckInterval
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		m.probe(ctx, p, interval)

		select {
		case <-ticker.C:
		case <-ctx.Done():
			return
		}
	}
}

func (m *Monitor) probe(ctx context.Context, p Prober, interval time.Duration) {
	timeout := 3 * time.Second
	if interval < timeout {
		timeout = interval
	}
	pctx, cancel := context.WithTimeout(ctx, timeout)
	err := p.Ping(pctx)
	cancel()

	if ctx.Err() != nil {
		return
	}
	if err != nil {
		m.log.Debug(ctx, "backend probe failed", "error", err)
	}
	m.SetReachable(ctx, err == nil)
}
