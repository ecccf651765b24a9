package demo

import (
	"context"
	"fmt"
	"time"

	"github.com/nextlevelbuilder/actomaton/actid"
	"github.com/nextlevelbuilder/actomaton/effect"
	"github.com/nextlevelbuilder/actomaton/reducer"
)

// FetchAction drives both the "run-oldest suspend-new" and "run-oldest
// discard-new" scenarios: Fetch(name) submits a 1-second body; Fetched(name)
// records which ones actually ran to completion.
type FetchAction struct {
	Name    string
	Fetched bool
}

// FetchState records which fetches completed, in completion order.
type FetchState struct {
	Completed []string
}

func fetchQueue(policy actid.QueuePolicy) actid.QueueRef {
	return actid.NewQueue("fetch", policy, actid.NoDelay())
}

// SuspendFetchReducer implements "run-oldest suspend-new, max=1": a second
// Fetch submitted while the first is in flight is buffered, not dropped,
// and runs once the first completes.
func SuspendFetchReducer() reducer.Reducer[FetchAction, FetchState, struct{}] {
	return fetchReducer(fetchQueue(actid.Oldest1Suspend()))
}

// DiscardFetchReducer implements "run-oldest discard-new, max=2": the
// third and fourth Fetch submitted while two are already in flight are
// cancelled via the cancel-path and never produce a Fetched action.
func DiscardFetchReducer() reducer.Reducer[FetchAction, FetchState, struct{}] {
	return fetchReducer(actid.NewQueue("fetch", actid.RunOldest(2, actid.OverflowDiscardNew), actid.NoDelay()))
}

func fetchReducer(queue actid.QueueRef) reducer.Reducer[FetchAction, FetchState, struct{}] {
	return reducer.New(func(a FetchAction, s *FetchState, _ struct{}) effect.Effect[FetchAction] {
		if a.Fetched {
			s.Completed = append(s.Completed, a.Name)
			return effect.Empty[FetchAction]()
		}
		name := a.Name
		return effect.Effect[FetchAction]{effect.Single[FetchAction]{
			Queue: &queue,
			Run: func(ctx context.Context) (*FetchAction, error) {
				select {
				case <-time.After(time.Second):
				case <-ctx.Done():
					return nil, ctx.Err()
				}
				v := FetchAction{Name: name, Fetched: true}
				return &v, nil
			},
		}}
	})
}

// DelayAction submits a named, instantaneous effect under a constant-delay
// queue for the "delay accounting" scenario.
type DelayAction struct {
	Name      string
	StartedAt time.Time
}

// DelayState records the start time reported by each submitted effect.
type DelayState struct {
	Started map[string]time.Time
}

var delayQueue = actid.NewQueue("delay", actid.RunNewest(0), actid.ConstantDelay(time.Second))

// DelayReducer implements the "delay accounting" scenario: three effects
// submitted synchronously to a RunNewest{unbounded} queue with a 1-second
// constant delay start at t=0, t=1s, t=2s respectively.
func DelayReducer() reducer.Reducer[DelayAction, DelayState, struct{}] {
	return reducer.New(func(a DelayAction, s *DelayState, _ struct{}) effect.Effect[DelayAction] {
		if !a.StartedAt.IsZero() {
			if s.Started == nil {
				s.Started = make(map[string]time.Time)
			}
			s.Started[a.Name] = a.StartedAt
			return effect.Empty[DelayAction]()
		}
		name := a.Name
		return effect.Effect[DelayAction]{effect.Single[DelayAction]{
			Queue: &delayQueue,
			Run: func(ctx context.Context) (*DelayAction, error) {
				v := DelayAction{Name: name, StartedAt: time.Now()}
				return &v, nil
			},
		}}
	})
}

func (s DelayState) String() string {
	return fmt.Sprintf("%v", s.Started)
}
