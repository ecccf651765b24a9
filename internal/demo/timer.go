package demo

import (
	"context"
	"time"

	"github.com/nextlevelbuilder/actomaton/actid"
	"github.com/nextlevelbuilder/actomaton/effect"
	"github.com/nextlevelbuilder/actomaton/reducer"
)

// TimerAction drives the "Timer stream with id-cancel" scenario.
type TimerAction struct {
	Kind TimerActionKind
}

// TimerActionKind tags a TimerAction.
type TimerActionKind int

const (
	StartTimer TimerActionKind = iota
	Tick
	StopTimer
)

// TimerState counts ticks observed since the last Start.
type TimerState struct {
	Count int
}

var timerID = actid.NewEffectID("timer")

// TimerReducer implements the timer-stream scenario: Start begins a
// 1-tick/second Sequence identified by timerID; Stop cancels it by id, so
// the ticker goroutine stops producing Ticks. The task leaves the
// running-tasks table once its body returns; a Tick the body had already
// received before cancellation is still fed back.
func TimerReducer() reducer.Reducer[TimerAction, TimerState, struct{}] {
	return reducer.New(func(a TimerAction, s *TimerState, _ struct{}) effect.Effect[TimerAction] {
		switch a.Kind {
		case StartTimer:
			s.Count = 0
			return effect.Effect[TimerAction]{effect.Sequence[TimerAction]{
				ID: &timerID,
				Make: func(ctx context.Context) (<-chan TimerAction, error) {
					out := make(chan TimerAction)
					go func() {
						defer close(out)
						ticker := time.NewTicker(time.Second)
						defer ticker.Stop()
						for {
							select {
							case <-ctx.Done():
								return
							case <-ticker.C:
								select {
								case out <- TimerAction{Kind: Tick}:
								case <-ctx.Done():
									return
								}
							}
						}
					}()
					return out, nil
				},
			}}
		case Tick:
			s.Count++
			return effect.Empty[TimerAction]()
		case StopTimer:
			return effect.CancelID[TimerAction](timerID)
		}
		return effect.Empty[TimerAction]()
	})
}
