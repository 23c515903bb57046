package dashboard

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"github.com/go-co-op/gocron"

	"github.com/lmi-dashboard/lmi-dashboard/internal/aggregate"
	"github.com/lmi-dashboard/lmi-dashboard/internal/logging"
	"github.com/lmi-dashboard/lmi-dashboard/internal/source"
)

// Loader fetches and normalizes the rows behind a dataset location.
type Loader interface {
	Load(ctx context.Context, location string) ([]source.Row, error)
}

// Config controls how the Manager runs the pipeline.
type Config struct {
	TopN            int
	LoadTimeout     time.Duration
	RefreshInterval time.Duration
}

// Manager runs the load → aggregate pipeline and publishes its result.
//
// Every run is tagged with a token taken from a monotonically increasing
// counter. A finished run is published only if no newer run was started in the
// meantime; results of superseded runs are dropped, their I/O is not aborted.
// The published Snapshot is swapped atomically, so readers never see a
// partially updated value.
type Manager struct {
	loader Loader
	config Config
	logger *slog.Logger
	now    func() time.Time

	mu        sync.Mutex // guards latest, location, closed, scheduler and publication order
	latest    uint64
	location  string
	closed    bool
	scheduler *gocron.Scheduler

	current  atomic.Pointer[Snapshot]
	inflight atomic.Int64

	subsMu     sync.Mutex
	subs       map[chan Snapshot]struct{}
	subsClosed bool

	baseCtx      context.Context
	cancel       context.CancelFunc
	runs         sync.WaitGroup
	shutdownOnce sync.Once
}

// NewManager returns an Idle Manager.
func NewManager(loader Loader, config Config, logger *slog.Logger) *Manager {
	if config.TopN < 1 {
		config.TopN = aggregate.DefaultTopN
	}
	if config.LoadTimeout <= 0 {
		config.LoadTimeout = 60 * time.Second
	}
	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		loader:  loader,
		config:  config,
		logger:  logging.Component(logger, "dashboard"),
		now:     time.Now,
		subs:    make(map[chan Snapshot]struct{}),
		baseCtx: ctx,
		cancel:  cancel,
	}
	m.current.Store(&Snapshot{State: Idle})
	return m
}

// Snapshot returns the currently published result.
func (m *Manager) Snapshot() Snapshot {
	return *m.current.Load()
}

// Status summarizes the published result for consumers.
func (m *Manager) Status() Status {
	return statusOf(m.Snapshot(), m.inflight.Load() > 0)
}

func statusOf(snap Snapshot, refreshing bool) Status {
	return Status{
		State:       snap.State,
		Location:    snap.Location,
		Error:       snap.ErrorText(),
		Refreshing:  refreshing && snap.State != Loading,
		CompletedAt: snap.CompletedAt,
	}
}

// Location returns the most recently requested dataset location.
func (m *Manager) Location() string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.location
}

// SetLocation starts a pipeline run for location in the background and
// returns its token. Any run still in flight is superseded. A blank location
// publishes a Failed snapshot carrying source.ErrMissingSource without
// touching the loader.
func (m *Manager) SetLocation(location string) uint64 {
	token, location, started, ok := m.begin(location, true)
	if !ok {
		return token
	}

	go func() {
		defer m.runs.Done()
		defer m.inflight.Add(-1)
		ctx, cancel := context.WithTimeout(m.baseCtx, m.config.LoadTimeout)
		defer cancel()
		m.run(ctx, token, location, started)
	}()
	return token
}

// Load runs the pipeline for location in the calling goroutine and returns
// the snapshot it produced. The snapshot is also published unless a newer
// run was started before it finished.
func (m *Manager) Load(ctx context.Context, location string) Snapshot {
	token, location, started, ok := m.begin(location, false)
	if !ok {
		return m.Snapshot()
	}

	defer m.inflight.Add(-1)
	ctx, cancel := context.WithTimeout(ctx, m.config.LoadTimeout)
	defer cancel()
	return m.run(ctx, token, location, started)
}

// Reload re-runs the pipeline for the current location. Without a location
// an existing Failed snapshot is kept as is, so a resolution failure recorded
// by Fail is not replaced by source.ErrMissingSource.
func (m *Manager) Reload() uint64 {
	m.mu.Lock()
	location := m.location
	m.mu.Unlock()

	if location == "" {
		if cur := m.Snapshot(); cur.State == Failed {
			return cur.Token
		}
	}
	return m.SetLocation(location)
}

// Fail publishes a Failed snapshot for err without running the loader,
// superseding any run in flight. It is used when the location itself could
// not be resolved. It returns 0 after Shutdown.
func (m *Manager) Fail(location string, err error) uint64 {
	loc := strings.TrimSpace(location)
	now := m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0
	}

	m.latest++
	token := m.latest
	m.store(Snapshot{
		State:       Failed,
		Token:       token,
		Location:    loc,
		Err:         err,
		StartedAt:   now,
		CompletedAt: now,
	})
	logging.LogError(m.logger, "dataset load failed", err,
		slog.String("location", loc),
		slog.Uint64("token", token))
	return token
}

// begin registers a new run. ok is false when no loader call should follow,
// either because the location is blank or the manager is shut down. On the ok
// path the run is counted as in flight, and background runs are added to
// m.runs before the lock is released so Shutdown cannot miss them.
func (m *Manager) begin(location string, background bool) (token uint64, loc string, started time.Time, ok bool) {
	loc = strings.TrimSpace(location)
	started = m.now()

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return 0, loc, started, false
	}

	m.latest++
	token = m.latest
	m.location = loc

	if loc == "" {
		m.store(Snapshot{
			State:       Failed,
			Token:       token,
			Err:         source.ErrMissingSource,
			StartedAt:   started,
			CompletedAt: started,
		})
		logging.LogError(m.logger, "dataset location missing", source.ErrMissingSource,
			slog.Uint64("token", token))
		return token, loc, started, false
	}

	// With nothing to show yet, consumers see Loading. A previous Ready or
	// Failed result stays visible until the new run completes.
	if cur := m.current.Load(); cur.State == Idle || cur.State == Loading {
		m.store(Snapshot{State: Loading, Token: token, Location: loc, StartedAt: started})
	}
	logging.LogOperation(m.logger, "dataset_load_started",
		slog.String("location", loc),
		slog.Uint64("token", token))

	m.inflight.Add(1)
	if background {
		m.runs.Add(1)
	}
	return token, loc, started, true
}

func (m *Manager) run(ctx context.Context, token uint64, location string, started time.Time) Snapshot {
	rows, err := m.loader.Load(ctx, location)

	snap := Snapshot{
		Token:     token,
		Location:  location,
		StartedAt: started,
	}
	if err != nil {
		snap.State = Failed
		snap.Err = err
	} else {
		snap.State = Ready
		snap.Summary = aggregate.Summarize(rows, m.config.TopN)
	}
	snap.CompletedAt = m.now()

	if !m.publish(snap) {
		logging.LogOperation(m.logger, "dataset_load_superseded",
			slog.String("location", location),
			slog.Uint64("token", token))
		return snap
	}

	if err != nil {
		logging.LogError(m.logger, "dataset load failed", err,
			slog.String("location", location),
			slog.Uint64("token", token))
	} else {
		logging.LogOperation(m.logger, "dashboard_ready",
			slog.String("location", location),
			slog.Uint64("token", token),
			slog.Int("rows", snap.Summary.RowCount),
			slog.Int64("total_postings", snap.Summary.TotalPostings),
			slog.Duration("duration", snap.CompletedAt.Sub(started)))
	}
	return snap
}

// publish stores snap if its run is still the latest one requested.
func (m *Manager) publish(snap Snapshot) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	if snap.Token != m.latest {
		return false
	}
	m.store(snap)
	return true
}

// store must be called with m.mu held.
func (m *Manager) store(snap Snapshot) {
	m.current.Store(&snap)
	m.notify(snap)
}

// Subscribe returns a channel receiving every published snapshot. A slow
// subscriber only ever holds the most recent one. The returned func cancels
// the subscription.
func (m *Manager) Subscribe() (<-chan Snapshot, func()) {
	ch := make(chan Snapshot, 1)

	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	if m.subsClosed {
		close(ch)
		return ch, func() {}
	}
	m.subs[ch] = struct{}{}

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			m.subsMu.Lock()
			delete(m.subs, ch)
			m.subsMu.Unlock()
		})
	}
}

func (m *Manager) notify(snap Snapshot) {
	m.subsMu.Lock()
	defer m.subsMu.Unlock()
	for ch := range m.subs {
		select {
		case <-ch:
		default:
		}
		select {
		case ch <- snap:
		default:
		}
	}
}

// StartRefresh reloads the current location every RefreshInterval. It is a
// no-op when no interval is configured.
func (m *Manager) StartRefresh() error {
	if m.config.RefreshInterval <= 0 {
		return nil
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed || m.scheduler != nil {
		return nil
	}

	scheduler := gocron.NewScheduler(time.UTC)
	_, err := scheduler.Every(m.config.RefreshInterval).WaitForSchedule().Do(func() {
		logging.LogOperation(m.logger, "scheduled_refresh")
		m.Reload()
	})
	if err != nil {
		return fmt.Errorf("failed to schedule dataset refresh: %w", err)
	}
	scheduler.StartAsync()
	m.scheduler = scheduler

	logging.LogOperation(m.logger, "refresh_scheduled",
		slog.Duration("interval", m.config.RefreshInterval))
	return nil
}

// Shutdown stops scheduled refreshes, cancels in-flight loads, waits for them
// and closes all subscriptions. It is safe to call more than once.
func (m *Manager) Shutdown() {
	m.shutdownOnce.Do(func() {
		m.mu.Lock()
		m.closed = true
		scheduler := m.scheduler
		m.mu.Unlock()

		if scheduler != nil {
			scheduler.Stop()
		}
		m.cancel()
		m.runs.Wait()

		m.subsMu.Lock()
		for ch := range m.subs {
			close(ch)
		}
		m.subs = map[chan Snapshot]struct{}{}
		m.subsClosed = true
		m.subsMu.Unlock()

		logging.LogOperation(m.logger, "dashboard_shutdown")
	})
}
