package reducer

import (
	"context"
	"testing"

	"github.com/nextlevelbuilder/actomaton/effect"
)

type wideAction struct {
	tag   string
	value int
}

func TestContramapActionExtractsAndEmbeds(t *testing.T) {
	inner := New(func(v int, s *int, _ struct{}) effect.Effect[int] {
		*s += v
		return effect.Next(v)
	})
	outer := ContramapAction[wideAction, int](inner,
		func(a wideAction) (int, bool) {
			if a.tag != "bump" {
				return 0, false
			}
			return a.value, true
		},
		func(v int) wideAction { return wideAction{tag: "bumped", value: v} },
	)

	state := 0
	eff := outer.Run(wideAction{tag: "bump", value: 3}, &state, struct{}{})
	if state != 3 {
		t.Fatalf("expected state 3, got %d", state)
	}
	single := eff[0].(effect.Single[wideAction])
	a, _ := single.Run(context.Background())
	if a.tag != "bumped" || a.value != 3 {
		t.Fatalf("expected embedded action {bumped 3}, got %+v", a)
	}
}

func TestContramapActionIgnoresUnmatchedActions(t *testing.T) {
	inner := New(func(v int, s *int, _ struct{}) effect.Effect[int] {
		*s += v
		return nil
	})
	outer := ContramapAction[wideAction, int](inner,
		func(a wideAction) (int, bool) { return 0, false },
		func(v int) wideAction { return wideAction{} },
	)

	state := 5
	eff := outer.Run(wideAction{tag: "irrelevant"}, &state, struct{}{})
	if state != 5 {
		t.Fatalf("expected state untouched, got %d", state)
	}
	if eff != nil {
		t.Fatalf("expected nil effect for unmatched action, got %v", eff)
	}
}

type parent struct {
	child int
}

func TestContramapStateMutatesThroughPointer(t *testing.T) {
	inner := New(func(a int, s *int, _ struct{}) effect.Effect[int] {
		*s += a
		return nil
	})
	outer := ContramapState[int, parent](inner, func(p *parent) *int { return &p.child })

	state := parent{child: 10}
	outer.Run(5, &state, struct{}{})
	if state.child != 15 {
		t.Fatalf("expected child field mutated to 15, got %d", state.child)
	}
}

func TestContramapEnvironmentNarrowsEnvironment(t *testing.T) {
	type wideEnv struct{ name string }
	inner := New(func(a int, s *int, env string) effect.Effect[int] {
		*s = len(env)
		return nil
	})
	outer := ContramapEnvironment[int, int](inner, func(e wideEnv) string { return e.name })

	state := 0
	outer.Run(0, &state, wideEnv{name: "actomaton"})
	if state != len("actomaton") {
		t.Fatalf("expected state %d, got %d", len("actomaton"), state)
	}
}
