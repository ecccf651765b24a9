// Package reducer defines the pure state-transition function at the heart
// of an Actomaton: given an action, a mutable reference to state, and a
// read-only environment, it produces the next Effect to schedule.
package reducer

import "github.com/nextlevelbuilder/actomaton/effect"

// Func is the shape every Reducer wraps: mutate state in place in response
// to action, and return whatever effects should run next. A Func must be
// pure with respect to everything outside state — no side effects should
// happen inside it; side effects belong in the returned Effect's bodies.
type Func[A, S, E any] func(action A, state *S, env E) effect.Effect[A]

// Reducer is a composable, projectable wrapper around a Func.
type Reducer[A, S, E any] struct {
	run Func[A, S, E]
}

// New wraps a plain function as a Reducer.
func New[A, S, E any](f Func[A, S, E]) Reducer[A, S, E] {
	return Reducer[A, S, E]{run: f}
}

// Empty is the reducer that mutates nothing and returns no effect.
func Empty[A, S, E any]() Reducer[A, S, E] {
	return New(func(A, *S, E) effect.Effect[A] { return nil })
}

// Run executes the reducer, mutating state and returning the next effect.
func (r Reducer[A, S, E]) Run(action A, state *S, env E) effect.Effect[A] {
	if r.run == nil {
		return nil
	}
	return r.run(action, state, env)
}

// Combine runs r then other, in order, concatenating their effects. Both
// mutate state.
func (r Reducer[A, S, E]) Combine(other Reducer[A, S, E]) Reducer[A, S, E] {
	return New(func(action A, state *S, env E) effect.Effect[A] {
		first := r.Run(action, state, env)
		second := other.Run(action, state, env)
		return effect.Concat(first, second)
	})
}

// Combine runs every reducer, in order, concatenating their effects.
func Combine[A, S, E any](reducers ...Reducer[A, S, E]) Reducer[A, S, E] {
	return New(func(action A, state *S, env E) effect.Effect[A] {
		var out effect.Effect[A]
		for _, r := range reducers {
			out = out.Concat(r.Run(action, state, env))
		}
		return out
	})
}

// First runs reducers in order and returns the effect of the first one that
// returns a non-empty effect, skipping the rest. If every reducer returns
// empty, First returns empty too. Reducers before the match still mutate
// state as they run.
func First[A, S, E any](reducers ...Reducer[A, S, E]) Reducer[A, S, E] {
	return New(func(action A, state *S, env E) effect.Effect[A] {
		for _, r := range reducers {
			if eff := r.Run(action, state, env); len(eff) > 0 {
				return eff
			}
		}
		return nil
	})
}
