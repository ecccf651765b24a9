package actomaton

import (
	"context"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/nextlevelbuilder/actomaton/actid"
	"github.com/nextlevelbuilder/actomaton/effect"
	"github.com/nextlevelbuilder/actomaton/reducer"
)

// --- Counter scenario (§8.1) ---

type counterAction int

const (
	inc counterAction = iota
	dec
)

func counterReducer() reducer.Reducer[counterAction, int, struct{}] {
	return reducer.New(func(a counterAction, s *int, _ struct{}) effect.Effect[counterAction] {
		if a == inc {
			*s++
		} else {
			*s--
		}
		return nil
	})
}

func TestCounterScenario(t *testing.T) {
	m := NewWithoutEnvironment[counterAction](0, counterReducer())
	defer m.Close()

	for _, a := range []counterAction{inc, inc, inc, dec} {
		m.Send(a)
	}
	m.Wait()

	if got := m.Snapshot(); got != 2 {
		t.Fatalf("expected count 2, got %d", got)
	}
}

// --- Run-newest-1 cancels the older in-flight task ---

type sessionAction struct {
	start bool
	done  bool
}

func TestRunNewestCancelsOlderRunningTask(t *testing.T) {
	queue := actid.NewQueue("session", actid.Newest1(), actid.NoDelay())
	var firstCancelled atomic.Bool

	red := reducer.New(func(a sessionAction, s *int, _ struct{}) effect.Effect[sessionAction] {
		if a.done {
			*s++
			return nil
		}
		return effect.Effect[sessionAction]{effect.Single[sessionAction]{
			Queue: &queue,
			Run: func(ctx context.Context) (*sessionAction, error) {
				select {
				case <-time.After(200 * time.Millisecond):
				case <-ctx.Done():
					firstCancelled.Store(true)
					return nil, ctx.Err()
				}
				v := sessionAction{done: true}
				return &v, nil
			},
		}}
	})

	m := NewWithoutEnvironment[sessionAction](0, red)
	defer m.Close()

	m.Send(sessionAction{start: true})
	time.Sleep(20 * time.Millisecond)
	m.Send(sessionAction{start: true}) // newest entrant; cancels the first
	m.Wait()

	if !firstCancelled.Load() {
		t.Fatalf("expected the first in-flight task to observe cancellation")
	}
	if got := m.Snapshot(); got != 1 {
		t.Fatalf("expected exactly 1 completion (the second task), got %d", got)
	}
}

// --- Run-oldest + SuspendNew buffers the second submission ---

type fetchAction struct {
	name string
	done bool
}

func TestRunOldestSuspendBuffersSecondSubmission(t *testing.T) {
	queue := actid.NewQueue("fetch", actid.Oldest1Suspend(), actid.NoDelay())
	var mu sync.Mutex
	var completed []string

	red := reducer.New(func(a fetchAction, s *int, _ struct{}) effect.Effect[fetchAction] {
		if a.done {
			mu.Lock()
			completed = append(completed, a.name)
			mu.Unlock()
			return nil
		}
		name := a.name
		return effect.Effect[fetchAction]{effect.Single[fetchAction]{
			Queue: &queue,
			Run: func(ctx context.Context) (*fetchAction, error) {
				time.Sleep(100 * time.Millisecond)
				v := fetchAction{name: name, done: true}
				return &v, nil
			},
		}}
	})

	m := NewWithoutEnvironment[fetchAction](0, red)
	defer m.Close()

	start := time.Now()
	h1 := m.Send(fetchAction{name: "Fetch1"})
	h2 := m.Send(fetchAction{name: "Fetch2"})
	h1.Wait(context.Background())
	h2.Wait(context.Background())
	m.Wait()
	elapsed := time.Since(start)

	if elapsed < 180*time.Millisecond {
		t.Fatalf("expected the second fetch to wait for the first, elapsed=%s", elapsed)
	}
	mu.Lock()
	defer mu.Unlock()
	if len(completed) != 2 || completed[0] != "Fetch1" || completed[1] != "Fetch2" {
		t.Fatalf("expected both fetches to complete in submission order, got %v", completed)
	}
}

// --- Run-oldest + DiscardNew drops overflow without producing an action ---

func TestRunOldestDiscardDropsOverflow(t *testing.T) {
	queue := actid.NewQueue("fetch", actid.RunOldest(2, actid.OverflowDiscardNew), actid.NoDelay())
	var mu sync.Mutex
	var completed []string

	red := reducer.New(func(a fetchAction, s *int, _ struct{}) effect.Effect[fetchAction] {
		if a.done {
			mu.Lock()
			completed = append(completed, a.name)
			mu.Unlock()
			return nil
		}
		name := a.name
		return effect.Effect[fetchAction]{effect.Single[fetchAction]{
			Queue: &queue,
			Run: func(ctx context.Context) (*fetchAction, error) {
				select {
				case <-time.After(150 * time.Millisecond):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				v := fetchAction{name: name, done: true}
				return &v, nil
			},
		}}
	})

	m := NewWithoutEnvironment[fetchAction](0, red)
	defer m.Close()

	var handles []*Handle
	for _, name := range []string{"F1", "F2", "F3", "F4"} {
		handles = append(handles, m.Send(fetchAction{name: name}))
	}
	for _, h := range handles {
		h.Wait(context.Background())
	}
	m.Wait()

	mu.Lock()
	defer mu.Unlock()
	if len(completed) != 2 {
		t.Fatalf("expected exactly 2 completions, got %v", completed)
	}
}

// --- Cancel-by-id cancels every running task sharing that id ---

func TestCancelByIDCancelsAllSharingID(t *testing.T) {
	id := actid.NewEffectID("timer")
	var cancelled atomic.Int32

	red := reducer.New(func(a string, s *int, _ struct{}) effect.Effect[string] {
		switch a {
		case "start":
			return effect.Effect[string]{effect.Single[string]{
				ID: idPtr(id),
				Run: func(ctx context.Context) (*string, error) {
					<-ctx.Done()
					cancelled.Add(1)
					return nil, ctx.Err()
				},
			}}
		case "stop":
			return effect.CancelID[string](id)
		}
		return nil
	})

	m := NewWithoutEnvironment[string](0, red)
	defer m.Close()

	m.Send("start")
	m.Send("start")
	time.Sleep(20 * time.Millisecond)
	m.Send("stop")
	m.Wait()

	if cancelled.Load() != 2 {
		t.Fatalf("expected both running tasks sharing id to be cancelled, got %d", cancelled.Load())
	}
}

func idPtr(id actid.EffectID) *actid.EffectID { return &id }

// --- Teardown cancels everything, running and pending ---

func TestCloseCancelsRunningAndPendingTasks(t *testing.T) {
	queue := actid.NewQueue("serial", actid.Oldest1Suspend(), actid.NoDelay())
	var runningCancelled, pendingRan atomic.Bool

	red := reducer.New(func(a int, s *int, _ struct{}) effect.Effect[int] {
		return effect.Effect[int]{effect.Single[int]{
			Queue: &queue,
			Run: func(ctx context.Context) (*int, error) {
				select {
				case <-ctx.Done():
					if a == 0 {
						runningCancelled.Store(true)
					} else {
						pendingRan.Store(true)
					}
					return nil, ctx.Err()
				case <-time.After(time.Second):
					return nil, nil
				}
			},
		}}
	})

	m := NewWithoutEnvironment[int](0, red)
	m.Send(0)
	m.Send(1) // buffered behind the first
	time.Sleep(20 * time.Millisecond)
	m.Close()
	m.Wait()

	if !runningCancelled.Load() {
		t.Fatalf("expected the running task to be cancelled on Close")
	}
	if !pendingRan.Load() {
		t.Fatalf("expected the pending task to run its cancellation branch on Close")
	}
}

// --- Observation channel sees every transition in order ---

func TestSubscribeChangesSeesEveryTransitionInOrder(t *testing.T) {
	m := NewWithoutEnvironment[counterAction](0, counterReducer())
	defer m.Close()

	ch, unsub := m.SubscribeChanges()
	defer unsub()
	<-ch // initial state

	for i := 0; i < 20; i++ {
		m.Send(inc)
	}
	m.Wait()

	for i := 1; i <= 20; i++ {
		select {
		case v := <-ch:
			if v != i {
				t.Fatalf("expected state %d in order, got %d", i, v)
			}
		case <-time.After(time.Second):
			t.Fatalf("timed out waiting for state %d", i)
		}
	}
}

// --- A nil Handle behaves as already complete ---

func TestNilHandleIsAlreadyComplete(t *testing.T) {
	m := NewWithoutEnvironment[counterAction](0, counterReducer())
	defer m.Close()

	h := m.Send(inc) // no effects returned -> nil handle
	if h != nil {
		t.Fatalf("expected nil handle for an effect-less send")
	}
	if err := h.Wait(context.Background()); err != nil {
		t.Fatalf("expected nil-handle Wait to return nil, got %v", err)
	}
	if !h.Done() {
		t.Fatalf("expected nil-handle Done to report true")
	}
	h.Cancel() // must not panic
}
