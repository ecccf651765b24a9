// Package actomaton implements the scheduler core: a serial mailbox over
// user actions that owns a mutable state value, runs a pure reducer to
// obtain effects, and schedules those effects with identity-based
// cancellation, per-queue admission policies, inter-effect delay, and
// feedback of produced actions back into the same mailbox.
package actomaton

import (
	"context"
	"sync"
	"time"

	"github.com/nextlevelbuilder/actomaton/actid"
	"github.com/nextlevelbuilder/actomaton/effect"
	"github.com/nextlevelbuilder/actomaton/observation"
	"github.com/nextlevelbuilder/actomaton/reducer"
)

// pendingEntry is one effect kind waiting in a RunOldest+SuspendNew queue,
// together with the send options that should apply once it is promoted.
type pendingEntry[A any] struct {
	kind effect.Kind[A]
	opts sendConfig
}

// Actomaton is the scheduler core described in the package doc: construct
// one with New, drive it with Send, observe it with Snapshot/Subscribe, and
// release it with Close.
type Actomaton[A, S, E any] struct {
	cfg config[A, S, E]

	// mu serializes the reducer invocation and every direct mutation of
	// the task tables below — the single logical critical section per
	// Send (§3 invariant 1).
	mu      sync.Mutex
	state   S
	reducer reducer.Reducer[A, S, E]
	env     E
	closed  bool

	runningTasks map[actid.EffectID]map[*taskHandle]struct{}
	queueTasks   map[any][]*taskHandle
	queueMeta    map[any]actid.QueueRef
	pendingBuf   map[any][]pendingEntry[A]
	latestDate   map[any]time.Time

	obs *observation.Channel[S]
	wg  sync.WaitGroup
}

// New constructs an Actomaton. No effect runs until the first Send.
func New[A, S, E any](state S, red reducer.Reducer[A, S, E], env E, opts ...Option[A, S, E]) *Actomaton[A, S, E] {
	cfg := defaultConfig[A, S, E]()
	for _, opt := range opts {
		opt(&cfg)
	}
	m := &Actomaton[A, S, E]{
		cfg:          cfg,
		state:        state,
		reducer:      red,
		env:          env,
		runningTasks: make(map[actid.EffectID]map[*taskHandle]struct{}),
		queueTasks:   make(map[any][]*taskHandle),
		queueMeta:    make(map[any]actid.QueueRef),
		pendingBuf:   make(map[any][]pendingEntry[A]),
		latestDate:   make(map[any]time.Time),
		obs:          observation.New(state),
	}
	if cfg.hasRootCtx {
		go m.watchRootContext(cfg.rootCtx)
	}
	return m
}

// NoEnv is the environment type used by constructions that have no
// collaborators to inject.
type NoEnv = struct{}

// NewWithoutEnvironment is the environment = unit variant of New.
func NewWithoutEnvironment[A, S any](state S, red reducer.Reducer[A, S, NoEnv], opts ...Option[A, S, NoEnv]) *Actomaton[A, S, NoEnv] {
	return New[A, S, NoEnv](state, red, NoEnv{}, opts...)
}

func (m *Actomaton[A, S, E]) watchRootContext(ctx context.Context) {
	<-ctx.Done()
	m.Close()
}

// Send runs the reducer against the current state, admits and spawns the
// resulting effects, and returns a Handle for whatever was directly
// spawned. A nil Handle means nothing was spawned; the caller may treat it
// as already complete.
func (m *Actomaton[A, S, E]) Send(action A, opts ...SendOption) *Handle {
	cfg := resolveSendOptions(opts)

	var spawned []*taskHandle
	m.cfg.executor.RunSync(func() {
		traceSend(m.cfg.rootCtx, m.cfg.tracer, "send", func() {
			m.mu.Lock()
			defer m.mu.Unlock()
			if m.closed {
				return
			}
			eff := m.reducer.Run(action, &m.state, m.env)
			m.obs.Publish(m.state)
			spawned = m.admitAndSpawn(eff, cfg)
		})
	})

	return newHandle(spawned)
}

// Snapshot returns the most recently committed state.
func (m *Actomaton[A, S, E]) Snapshot() S {
	return m.obs.Snapshot()
}

// Subscribe returns a latest-state feed (coalescing, drop-oldest for slow
// readers) and an unsubscribe function.
func (m *Actomaton[A, S, E]) Subscribe() (<-chan S, func()) {
	return m.obs.Subscribe()
}

// SubscribeChanges returns an every-transition feed (unbounded, never
// drops) and an unsubscribe function.
func (m *Actomaton[A, S, E]) SubscribeChanges() (<-chan S, func()) {
	return m.obs.SubscribeAll()
}

// Wait blocks until every task this Actomaton has ever spawned — running or
// since completed — has returned. Intended for tests and graceful shutdown
// after Close.
func (m *Actomaton[A, S, E]) Wait() {
	m.wg.Wait()
}

// Close tears the Actomaton down deterministically: cancel every running
// task, drain the pending buffer through the cancel-path, and stop
// accepting new actions. Close does not block on task completion; call
// Wait afterward if that's needed.
func (m *Actomaton[A, S, E]) Close() {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.closed {
		return
	}
	m.closed = true

	for _, set := range m.runningTasks {
		for h := range set {
			h.cancel()
		}
	}
	for qKey, entries := range m.pendingBuf {
		for _, e := range entries {
			m.cancelPath(e.kind, e.opts)
		}
		delete(m.pendingBuf, qKey)
	}
	m.obs.Close()
}
