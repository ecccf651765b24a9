package reducer

import "github.com/nextlevelbuilder/actomaton/effect"

// ContramapAction adapts a reducer over a narrower action type B into one
// over a wider action type A. tryExtract picks B out of A (returning ok =
// false for actions the inner reducer doesn't care about, in which case the
// outer reducer yields empty without touching state); embed lifts B back
// into A so feedback actions produced by the inner reducer's effects keep
// flowing through the outer action type.
func ContramapAction[A, B, S, E any](inner Reducer[B, S, E], tryExtract func(A) (B, bool), embed func(B) A) Reducer[A, S, E] {
	return New(func(action A, state *S, env E) effect.Effect[A] {
		b, ok := tryExtract(action)
		if !ok {
			return nil
		}
		return effect.MapAction(inner.Run(b, state, env), embed)
	})
}

// ContramapState adapts a reducer over a sub-field T of a wider state S.
// get returns a pointer into the live S value, so mutations the inner
// reducer makes through that pointer are mutations of the caller's state —
// no copy-back step is needed.
func ContramapState[A, S, T, E any](inner Reducer[A, T, E], get func(*S) *T) Reducer[A, S, E] {
	return New(func(action A, state *S, env E) effect.Effect[A] {
		return inner.Run(action, get(state), env)
	})
}

// ContramapEnvironment adapts a reducer over a narrower environment F out of
// a wider environment E.
func ContramapEnvironment[A, S, E, F any](inner Reducer[A, S, F], get func(E) F) Reducer[A, S, E] {
	return New(func(action A, state *S, env E) effect.Effect[A] {
		return inner.Run(action, state, get(env))
	})
}
