package actomaton

import (
	"context"
	"testing"
	"time"

	"github.com/nextlevelbuilder/actomaton/actid"
	"github.com/nextlevelbuilder/actomaton/effect"
	"github.com/nextlevelbuilder/actomaton/reducer"
)

// TestDelayAccountingSchedulesNonDecreasingStarts implements §8.6 at a
// shorter spacing: three effects submitted synchronously to an unbounded
// RunNewest queue with a 300ms constant delay should begin at t=0,
// t≈300ms, t≈600ms.
func TestDelayAccountingSchedulesNonDecreasingStarts(t *testing.T) {
	queue := actid.NewQueue("delay", actid.RunNewest(0), actid.ConstantDelay(300*time.Millisecond))

	type started struct {
		name string
		at   time.Time
	}

	var starts []started
	done := make(chan struct{}, 3)

	red := reducer.New(func(a string, s *int, _ struct{}) effect.Effect[string] {
		name := a
		return effect.Effect[string]{effect.Single[string]{
			Queue: &queue,
			Run: func(ctx context.Context) (*string, error) {
				starts = append(starts, started{name: name, at: time.Now()})
				done <- struct{}{}
				return nil, nil
			},
		}}
	})

	m := NewWithoutEnvironment[string](0, red)
	defer m.Close()

	begin := time.Now()
	m.Send("F1")
	m.Send("F2")
	m.Send("F3")

	for i := 0; i < 3; i++ {
		select {
		case <-done:
		case <-time.After(5 * time.Second):
			t.Fatalf("timed out waiting for effect %d to start", i)
		}
	}

	if len(starts) != 3 {
		t.Fatalf("expected 3 starts, got %d", len(starts))
	}
	for i, s := range starts {
		want := time.Duration(i) * 300 * time.Millisecond
		got := s.at.Sub(begin)
		if got < want-50*time.Millisecond {
			t.Fatalf("start %d (%s) came too early: wanted >= %s, got %s", i, s.name, want, got)
		}
		if got > want+50*time.Millisecond {
			t.Fatalf("start %d (%s) came too late: wanted ~%s, got %s", i, s.name, want, got)
		}
	}
	for i := 1; i < len(starts); i++ {
		if starts[i].at.Before(starts[i-1].at) {
			t.Fatalf("expected non-decreasing start times, got %v", starts)
		}
	}
}

// TestRunNewestQueueLenNeverExceedsMax asserts the real-time invariant from
// §8: queue_tasks[q].len() <= max at any instant for RunNewest{max}.
func TestRunNewestQueueLenNeverExceedsMax(t *testing.T) {
	queue := actid.NewQueue("bounded", actid.RunNewest(2), actid.NoDelay())

	red := reducer.New(func(a int, s *int, _ struct{}) effect.Effect[int] {
		return effect.Effect[int]{effect.Single[int]{
			Queue: &queue,
			Run: func(ctx context.Context) (*int, error) {
				select {
				case <-ctx.Done():
				case <-time.After(50 * time.Millisecond):
				}
				return nil, nil
			},
		}}
	})

	m := NewWithoutEnvironment[int](0, red)
	defer m.Close()

	var handles []*Handle
	for i := 0; i < 10; i++ {
		handles = append(handles, m.Send(i))

		m.mu.Lock()
		n := len(m.queueTasks[queue.Key()])
		m.mu.Unlock()
		if n > 2 {
			t.Fatalf("queue_tasks length %d exceeds max 2 after submission %d", n, i)
		}
	}
	for _, h := range handles {
		h.Wait(context.Background())
	}
	m.Wait()
}
