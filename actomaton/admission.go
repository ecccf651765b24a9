package actomaton

import (
	"context"
	"time"

	"github.com/nextlevelbuilder/actomaton/actid"
	"github.com/nextlevelbuilder/actomaton/effect"
)

// admitAndSpawn runs the admission algorithm (§4.4.2) over every kind in
// eff and returns the task handles for whatever was admitted and spawned
// directly. Must be called with m.mu held.
func (m *Actomaton[A, S, E]) admitAndSpawn(eff effect.Effect[A], cfg sendConfig) []*taskHandle {
	var spawned []*taskHandle
	for _, kind := range eff {
		if cancel, ok := kind.(effect.Cancel[A]); ok {
			m.handleCancelKind(cancel)
			continue
		}
		if th := m.admitOne(kind, cfg); th != nil {
			spawned = append(spawned, th)
		}
	}
	return spawned
}

// admitOne decides the fate of a single Single/Sequence kind and, if
// admitted, spawns it. Must be called with m.mu held.
func (m *Actomaton[A, S, E]) admitOne(kind effect.Kind[A], cfg sendConfig) *taskHandle {
	queue := queueOf(kind)
	if queue == nil {
		return m.spawnAdmitted(kind, cfg)
	}

	qKey := queue.Key()
	m.queueMeta[qKey] = *queue
	policy := queue.Policy()

	switch policy.Kind {
	case actid.PolicyRunNewest:
		th := m.spawnAdmitted(kind, cfg)
		if policy.Max > 0 {
			list := m.queueTasks[qKey]
			drop := len(list) - policy.Max
			if drop > 0 {
				toCancel := append([]*taskHandle(nil), list[:drop]...)
				m.queueTasks[qKey] = list[drop:]
				for _, old := range toCancel {
					old.cancel()
				}
			}
		}
		return th

	case actid.PolicyRunOldest:
		running := len(m.queueTasks[qKey])
		if running < policy.Max {
			return m.spawnAdmitted(kind, cfg)
		}
		switch policy.Overflow {
		case actid.OverflowSuspendNew:
			m.pendingBuf[qKey] = append(m.pendingBuf[qKey], pendingEntry[A]{kind: kind, opts: cfg})
		default: // OverflowDiscardNew
			m.cancelPath(kind, cfg)
		}
		return nil
	}
	return nil
}

// handleCancelKind walks the running-tasks table and the pending buffer,
// cancelling every entry whose id matches the predicate. Bypasses
// admission entirely (§4.4.2). Must be called with m.mu held.
func (m *Actomaton[A, S, E]) handleCancelKind(k effect.Cancel[A]) {
	for id, set := range m.runningTasks {
		if !k.Predicate(id) {
			continue
		}
		for h := range set {
			h.cancel()
		}
	}

	for qKey, entries := range m.pendingBuf {
		kept := entries[:0:0]
		for _, e := range entries {
			id := resolveID(kindID(e.kind))
			if k.Predicate(id) {
				m.cancelPath(e.kind, e.opts)
			} else {
				kept = append(kept, e)
			}
		}
		if len(kept) == 0 {
			delete(m.pendingBuf, qKey)
		} else {
			m.pendingBuf[qKey] = kept
		}
	}
}

// computeDelay implements §4.4.3 steps 1-4: sample this admission's delay,
// account for the queue's latest scheduled start, and advance that marker.
// Must be called with m.mu held (sampling happens inside the critical
// section, per the spec's determinism note in §9).
func (m *Actomaton[A, S, E]) computeDelay(qKey any, queue actid.QueueRef) time.Duration {
	now := time.Now()
	sample := queue.Delay().Sample()

	// Absent means no admission has ever happened on this queue: the zero
	// time.Time (epoch) makes target clamp to 0 below, so the first
	// admission never waits out its own sample.
	latest := m.latestDate[qKey]
	target := latest.Sub(now) + sample
	if target < 0 {
		target = 0
	}
	m.latestDate[qKey] = now.Add(target)
	return target
}

// spawnAdmitted registers the task and launches its body on the executor.
// Must be called with m.mu held.
func (m *Actomaton[A, S, E]) spawnAdmitted(kind effect.Kind[A], cfg sendConfig) *taskHandle {
	id := resolveID(kindID(kind))
	queue := queueOf(kind)

	var qKey any
	var delay time.Duration
	if queue != nil {
		qKey = queue.Key()
		delay = m.computeDelay(qKey, *queue)
	}

	taskCtx, cancel := context.WithCancel(m.cfg.rootCtx)
	th := &taskHandle{id: id, queueKey: qKey, cancel: cancel, done: make(chan struct{})}
	m.registerTask(id, qKey, th)

	m.wg.Add(1)
	m.cfg.executor.Go(func() {
		defer m.wg.Done()
		th.err = traceTask(taskCtx, m.cfg.tracer, func() error {
			return m.runTaskBody(taskCtx, kind, delay, cfg)
		})
		close(th.done)

		m.mu.Lock()
		m.completeTask(id, qKey, th)
		m.mu.Unlock()
	})
	return th
}

// cancelPath spawns a body solely to cancel it before its first suspension
// returns, so its cancellation-cleanup branch runs without ever performing
// the real work (§4.4.5). Used for DiscardNew overflow, cancel-by-id
// against pending effects, and teardown. Never registers in any table —
// the effect was never admitted.
func (m *Actomaton[A, S, E]) cancelPath(kind effect.Kind[A], cfg sendConfig) {
	ctx, cancel := context.WithCancel(m.cfg.rootCtx)
	cancel()
	m.wg.Add(1)
	m.cfg.executor.Go(func() {
		defer m.wg.Done()
		m.runTaskBody(ctx, kind, 0, cfg)
	})
}

// registerTask adds th to the running-tasks table and, if queued, the
// queue-tasks table. Must be called with m.mu held.
func (m *Actomaton[A, S, E]) registerTask(id actid.EffectID, qKey any, th *taskHandle) {
	set := m.runningTasks[id]
	if set == nil {
		set = make(map[*taskHandle]struct{})
		m.runningTasks[id] = set
	}
	set[th] = struct{}{}
	if qKey != nil {
		m.queueTasks[qKey] = append(m.queueTasks[qKey], th)
	}
}

// completeTask removes th from both tables and, for a RunOldest+SuspendNew
// queue with a free slot, promotes the next pending effect. Must be called
// with m.mu held.
func (m *Actomaton[A, S, E]) completeTask(id actid.EffectID, qKey any, th *taskHandle) {
	if set, ok := m.runningTasks[id]; ok {
		delete(set, th)
		if len(set) == 0 {
			delete(m.runningTasks, id)
		}
	}
	if qKey == nil {
		return
	}
	if list, ok := m.queueTasks[qKey]; ok {
		for i, h := range list {
			if h == th {
				m.queueTasks[qKey] = append(list[:i], list[i+1:]...)
				break
			}
		}
		if len(m.queueTasks[qKey]) == 0 {
			delete(m.queueTasks, qKey)
		}
	}

	meta, ok := m.queueMeta[qKey]
	if !ok || meta.Policy().Kind != actid.PolicyRunOldest || meta.Policy().Overflow != actid.OverflowSuspendNew {
		return
	}
	entries, ok := m.pendingBuf[qKey]
	if !ok || len(entries) == 0 {
		return
	}
	next := entries[0]
	if len(entries) == 1 {
		delete(m.pendingBuf, qKey)
	} else {
		m.pendingBuf[qKey] = entries[1:]
	}
	m.admitOne(next.kind, next.opts)
}

func resolveID(id *actid.EffectID) actid.EffectID {
	if id == nil {
		return actid.Anonymous
	}
	return *id
}

func kindID[A any](k effect.Kind[A]) *actid.EffectID {
	switch v := k.(type) {
	case effect.Single[A]:
		return v.ID
	case effect.Sequence[A]:
		return v.ID
	default:
		return nil
	}
}

func queueOf[A any](k effect.Kind[A]) *actid.QueueRef {
	switch v := k.(type) {
	case effect.Single[A]:
		return v.Queue
	case effect.Sequence[A]:
		return v.Queue
	default:
		return nil
	}
}
