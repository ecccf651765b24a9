package effect

import (
	"context"
	"errors"
	"testing"

	"github.com/nextlevelbuilder/actomaton/actid"
)

func TestConcatPreservesOrder(t *testing.T) {
	first := Next(1)
	second := Next(2)
	combined := Concat(first, second)

	if len(combined) != 2 {
		t.Fatalf("expected 2 kinds, got %d", len(combined))
	}
	run0 := combined[0].(Single[int]).Run
	run1 := combined[1].(Single[int]).Run
	a, _ := run0(context.Background())
	b, _ := run1(context.Background())
	if *a != 1 || *b != 2 {
		t.Fatalf("expected order 1,2, got %d,%d", *a, *b)
	}
}

func TestEmptyConcatIsNil(t *testing.T) {
	if Concat[int]() != nil {
		t.Fatalf("expected Concat of nothing to be nil")
	}
	if Empty[int]().Concat(Empty[int]()) != nil {
		t.Fatalf("expected Empty.Concat(Empty) to be nil")
	}
}

func TestFireAndForgetProducesNoAction(t *testing.T) {
	ran := false
	eff := FireAndForget[int](nil, nil, func(ctx context.Context) error {
		ran = true
		return nil
	})
	single := eff[0].(Single[int])
	a, err := single.Run(context.Background())
	if err != nil || a != nil {
		t.Fatalf("expected (nil, nil), got (%v, %v)", a, err)
	}
	if !ran {
		t.Fatalf("expected body to run")
	}
}

func TestCancelIDMatchesOnlyEqualIDs(t *testing.T) {
	target := actid.NewEffectID("target")
	other := actid.NewEffectID("other")

	eff := CancelID[int](target)
	cancel := eff[0].(Cancel[int])

	if !cancel.Predicate(target) {
		t.Fatalf("expected predicate to match target id")
	}
	if cancel.Predicate(other) {
		t.Fatalf("expected predicate to reject unrelated id")
	}
}

func TestFromStreamPropagatesMakeError(t *testing.T) {
	wantErr := errors.New("boom")
	eff := FromStream[int](nil, nil, func(ctx context.Context) (<-chan int, error) {
		return nil, wantErr
	})
	seq := eff[0].(Sequence[int])
	ch, err := seq.Make(context.Background())
	if ch != nil || !errors.Is(err, wantErr) {
		t.Fatalf("expected (nil, wantErr), got (%v, %v)", ch, err)
	}
}
