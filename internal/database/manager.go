// Package database owns the open/close lifecycle of the wallet store. The
// manager keeps the single engine handle available to the whole process,
// recovering from blocked and closed signals with a bounded-retry reopen
// policy and announcing every successful restart.
package database

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"github.com/robfig/cron/v3"

	"github.com/os2357/fuels-wallet/pkg/types"
)

// State is the lifecycle state of the store handle.
type State string

const (
	StateClosed     State = "closed"
	StateOpening    State = "opening"
	StateOpen       State = "open"
	StateRestarting State = "restarting"
)

// RestartReason names the signal that triggered a restart.
type RestartReason string

const (
	// RestartBlocked: the open failed or another connection holds an
	// incompatible lock. The current handle is force-closed before reopening.
	RestartBlocked RestartReason = "blocked"

	// RestartClosed: the engine connection was torn down unexpectedly. The
	// handle is already gone, so the periodic integrity check is cancelled
	// and the store reopens directly.
	RestartClosed RestartReason = "closed"
)

// closeAttemptLimit bounds the self-heal cycles a close request is converted
// into. Past the limit the close is honored for real, surfacing the failure
// upward instead of retrying forever against a dead engine.
const closeAttemptLimit = 3

// defaultCheckSchedule drives the periodic integrity check.
const defaultCheckSchedule = "@every 10m"

// Engine is what the manager needs from the storage engine. *sqlite.Engine
// satisfies it; tests inject a fake that emits synthetic signals.
type Engine interface {
	Open(ctx context.Context) error
	Close() error
	Check(ctx context.Context) error
	Events() <-chan types.LifecycleEvent
}

// Notifier receives the fire-and-forget restart notifications.
type Notifier interface {
	Publish(types.DBEvent)
}

// Manager guarantees the store is open whenever the application needs it.
// Exactly one manager exists per process; all lifecycle transitions and the
// restart-attempt counter are owned here and serialized by mu, so
// near-simultaneous blocked and closed signals never race.
type Manager struct {
	mu         sync.Mutex
	state      State
	attempts   int
	alwaysOpen bool

	engine   Engine
	notifier Notifier
	logger   *slog.Logger

	checkSchedule string
	checker       *cron.Cron
	checkEntry    cron.EntryID

	watchOnce sync.Once
	done      chan struct{}
}

// Option configures a Manager.
type Option func(*Manager)

// WithAlwaysOpen controls whether close requests are converted into
// self-heal cycles. Enabled by default.
func WithAlwaysOpen(v bool) Option {
	return func(m *Manager) { m.alwaysOpen = v }
}

// WithCheckSchedule overrides the integrity check cron schedule.
func WithCheckSchedule(spec string) Option {
	return func(m *Manager) { m.checkSchedule = spec }
}

// WithLogger overrides the default logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger.With("component", "database") }
}

// NewManager creates a manager for the given engine. The store starts
// closed; call Open.
func NewManager(engine Engine, notifier Notifier, opts ...Option) *Manager {
	m := &Manager{
		state:         StateClosed,
		alwaysOpen:    true,
		engine:        engine,
		notifier:      notifier,
		logger:        slog.Default().With("component", "database"),
		checkSchedule: defaultCheckSchedule,
		done:          make(chan struct{}),
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// State returns the current lifecycle state.
func (m *Manager) State() State {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state
}

// Attempts returns the current restart-attempt count. The counter persists
// across handle recreation and resets only on a clean open.
func (m *Manager) Attempts() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.attempts
}

// Open brings the store up. An open failure is treated as a blocked signal
// and goes straight into the restart path. On success the manager begins
// watching engine lifecycle signals.
func (m *Manager) Open(ctx context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateOpen {
		return nil
	}

	m.state = StateOpening
	if err := m.engine.Open(ctx); err != nil {
		m.logger.Warn("open failed, restarting", "error", err)
		if rerr := m.restartLocked(ctx, RestartBlocked); rerr != nil {
			return rerr
		}
	} else {
		m.state = StateOpen
		m.attempts = 0
		m.startCheckerLocked()
	}

	m.watchOnce.Do(func() { go m.watch() })
	return nil
}

// Close handles a logical close request. The request is honored immediately
// only when the store is not configured to stay open, the caller forces a
// safe close, or the restart-attempt counter has exceeded its limit.
// Otherwise the close converts into a self-heal cycle: bump the counter,
// reopen, and on reopen failure loop back into the close logic.
func (m *Manager) Close(ctx context.Context, force bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for {
		if !m.alwaysOpen || force || m.attempts > closeAttemptLimit {
			m.stopCheckerLocked()
			if err := m.engine.Close(); err != nil {
				return fmt.Errorf("closing store: %w", err)
			}
			m.state = StateClosed
			if m.attempts > closeAttemptLimit {
				m.logger.Error("store closed after exhausting restart attempts",
					"attempts", m.attempts)
			}
			return nil
		}

		// The store is a shared always-on resource; heal instead of closing.
		m.attempts++
		m.logger.Warn("close refused, reopening", "attempt", m.attempts)
		if err := m.reopenLocked(ctx); err == nil {
			return nil
		}
	}
}

// Restart recovers from an engine lifecycle signal. Concurrent triggers
// serialize on the manager lock; a trigger that queued behind a completed
// restart finds the store open again and returns without reopening, and a
// trigger that queued behind a deliberate close is stale and ignored.
func (m *Manager) Restart(ctx context.Context, reason RestartReason) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.state == StateOpen || m.state == StateClosed {
		return nil
	}
	return m.restartLocked(ctx, reason)
}

// restartLocked performs one restart sequence. Caller holds mu.
func (m *Manager) restartLocked(ctx context.Context, reason RestartReason) error {
	m.state = StateRestarting

	switch reason {
	case RestartBlocked:
		// Force-close the current handle, bypassing the always-open guard.
		if err := m.engine.Close(); err != nil {
			m.logger.Warn("force close before restart failed", "error", err)
		}
	case RestartClosed:
		// The handle is already gone; cancel the periodic integrity check
		// and reopen directly.
		m.stopCheckerLocked()
	}

	for {
		err := m.engine.Open(ctx)
		if err == nil || errors.Is(err, types.ErrAlreadyOpen) {
			break
		}
		m.attempts++
		m.logger.Warn("reopen failed", "reason", reason, "attempt", m.attempts, "error", err)
		if m.attempts > closeAttemptLimit {
			m.state = StateClosed
			return fmt.Errorf("store unavailable after %d restart attempts: %w", m.attempts, err)
		}
		if ctx.Err() != nil {
			m.state = StateClosed
			return ctx.Err()
		}
	}

	m.state = StateOpen
	m.attempts = 0
	m.startCheckerLocked()

	// Exactly one notification per successful recovery, never one per retry.
	m.notifier.Publish(types.RestartedEvent())
	m.logger.Info("store restarted", "reason", reason)
	return nil
}

// reopenLocked ensures the engine is open. An engine that reports it is
// already open counts as healthy. Caller holds mu.
func (m *Manager) reopenLocked(ctx context.Context) error {
	err := m.engine.Open(ctx)
	if err != nil && !errors.Is(err, types.ErrAlreadyOpen) {
		return err
	}
	m.state = StateOpen
	m.attempts = 0
	m.startCheckerLocked()
	return nil
}

// watch consumes engine lifecycle signals until Stop. Signals are processed
// one at a time; whatever piled up while a restart ran describes the same
// breakage and is drained so a single recovery emits a single notification.
func (m *Manager) watch() {
	events := m.engine.Events()
	for {
		select {
		case <-m.done:
			return
		case ev, ok := <-events:
			if !ok {
				return
			}
			m.handleSignal(ev)
			m.drain(events)
		}
	}
}

func (m *Manager) drain(events <-chan types.LifecycleEvent) {
	for {
		select {
		case _, ok := <-events:
			if !ok {
				return
			}
		default:
			return
		}
	}
}

// handleSignal maps a lifecycle signal onto a restart. Signals observed
// while the store is deliberately closed are ignored. The check and the
// recovery run under one lock acquisition so a close landing in between
// cannot make a stale signal reopen a closed store.
func (m *Manager) handleSignal(ev types.LifecycleEvent) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.state == StateClosed {
		m.logger.Debug("ignoring signal on closed store", "signal", ev.Signal)
		return
	}

	reason := RestartClosed
	if ev.Signal == types.SignalBlocked {
		reason = RestartBlocked
	}
	m.logger.Warn("lifecycle signal", "signal", ev.Signal, "error", ev.Err)

	if err := m.restartLocked(context.Background(), reason); err != nil {
		m.logger.Error("restart failed, store left closed", "error", err)
	}
}

// Check runs an immediate integrity check against the open store.
func (m *Manager) Check(ctx context.Context) error {
	return m.engine.Check(ctx)
}

// Stop ends lifecycle watching. It does not close the store; callers close
// with Close(ctx, true) at process teardown.
func (m *Manager) Stop() {
	m.mu.Lock()
	defer m.mu.Unlock()
	select {
	case <-m.done:
	default:
		close(m.done)
	}
	m.stopCheckerLocked()
}

// startCheckerLocked schedules the periodic integrity check. A check failure
// is classified by the engine, which emits the matching lifecycle signal and
// lets the watch loop recover. Caller holds mu.
func (m *Manager) startCheckerLocked() {
	if m.checkSchedule == "" || m.checker != nil {
		return
	}
	c := cron.New()
	id, err := c.AddFunc(m.checkSchedule, func() {
		if err := m.engine.Check(context.Background()); err != nil {
			m.logger.Warn("integrity check failed", "error", err)
		}
	})
	if err != nil {
		m.logger.Error("invalid check schedule", "schedule", m.checkSchedule, "error", err)
		return
	}
	m.checker = c
	m.checkEntry = id
	c.Start()
}

// stopCheckerLocked cancels the periodic integrity check. Caller holds mu.
func (m *Manager) stopCheckerLocked() {
	if m.checker == nil {
		return
	}
	m.checker.Remove(m.checkEntry)
	m.checker.Stop()
	m.checker = nil
}
