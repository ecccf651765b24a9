// Package demo holds the six runnable scenarios also exercised by the
// package-level tests, wired up here as standalone reducers a CLI
// subcommand can drive end to end.
package demo

import (
	"github.com/nextlevelbuilder/actomaton/effect"
	"github.com/nextlevelbuilder/actomaton/reducer"
)

// CounterAction is Inc or Dec.
type CounterAction int

const (
	Inc CounterAction = iota
	Dec
)

// CounterState is a running count.
type CounterState struct {
	Count int
}

// CounterReducer implements the "Counter" scenario: three Inc and one Dec
// land on count == 2, with no effects at all.
func CounterReducer() reducer.Reducer[CounterAction, CounterState, struct{}] {
	return reducer.New(func(a CounterAction, s *CounterState, _ struct{}) effect.Effect[CounterAction] {
		switch a {
		case Inc:
			s.Count++
		case Dec:
			s.Count--
		}
		return effect.Empty[CounterAction]()
	})
}
