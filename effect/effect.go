// Package effect describes the side effects a reducer can hand back to the
// scheduler: a single async operation, a lazily-created multi-shot stream,
// or a cancellation request. An Effect never touches state directly — it is
// a value the scheduler interprets, not code that runs itself.
package effect

import (
	"context"

	"github.com/nextlevelbuilder/actomaton/actid"
)

// Kind is one atom of an Effect: a single async operation, a lazy stream, or
// a cancellation request. The concrete types in this package are the only
// implementations.
type Kind[A any] interface {
	isKind()
}

// Single is a one-shot async operation that produces at most one feedback
// action. Run is invoked at most once: after admission and any queue delay,
// or, for an effect discarded or cancelled before it was started, with an
// already-cancelled ctx so its cancellation branch can run.
// A nil *A return means "no feedback action".
type Single[A any] struct {
	ID    *actid.EffectID
	Queue *actid.QueueRef
	Run   func(ctx context.Context) (*A, error)
}

func (Single[A]) isKind() {}

// Sequence is a lazily-created, possibly infinite multi-shot stream of
// feedback actions. Make is invoked at most once, on the same terms as
// Single.Run (with an already-cancelled ctx for an effect discarded or
// cancelled before it was started); every value sent on the
// returned channel is fed back as an action. The channel is not restarted
// once it ends.
type Sequence[A any] struct {
	ID    *actid.EffectID
	Queue *actid.QueueRef
	Make  func(ctx context.Context) (<-chan A, error)
}

func (Sequence[A]) isKind() {}

// Cancel requests cancellation of every running or pending effect whose id
// satisfies Predicate. It bypasses admission entirely.
type Cancel[A any] struct {
	Predicate func(actid.EffectID) bool
}

func (Cancel[A]) isKind() {}

// Effect is an ordered list of effect kinds. The empty list is the identity
// of the concatenation monoid.
type Effect[A any] []Kind[A]

// Empty returns the effect that does nothing.
func Empty[A any]() Effect[A] { return nil }

// Concat concatenates effects in order, left to right.
func Concat[A any](effects ...Effect[A]) Effect[A] {
	var total int
	for _, e := range effects {
		total += len(e)
	}
	if total == 0 {
		return nil
	}
	out := make(Effect[A], 0, total)
	for _, e := range effects {
		out = append(out, e...)
	}
	return out
}

// Concat appends other after e, without mutating either operand.
func (e Effect[A]) Concat(other Effect[A]) Effect[A] {
	return Concat(e, other)
}

// FromAsync builds a Single-kind effect around body.
func FromAsync[A any](id *actid.EffectID, queue *actid.QueueRef, body func(ctx context.Context) (*A, error)) Effect[A] {
	return Effect[A]{Single[A]{ID: id, Queue: queue, Run: body}}
}

// FromStream builds a Sequence-kind effect around make.
func FromStream[A any](id *actid.EffectID, queue *actid.QueueRef, make func(ctx context.Context) (<-chan A, error)) Effect[A] {
	return Effect[A]{Sequence[A]{ID: id, Queue: queue, Make: make}}
}

// FireAndForget wraps a body that never produces a feedback action.
func FireAndForget[A any](id *actid.EffectID, queue *actid.QueueRef, body func(ctx context.Context) error) Effect[A] {
	return FromAsync[A](id, queue, func(ctx context.Context) (*A, error) {
		return nil, body(ctx)
	})
}

// Next is synchronous sugar for an effect that immediately yields a.
func Next[A any](a A) Effect[A] {
	return FromAsync[A](nil, nil, func(context.Context) (*A, error) {
		v := a
		return &v, nil
	})
}

// CancelID builds an effect that cancels every running/pending effect whose
// id equals id.
func CancelID[A any](id actid.EffectID) Effect[A] {
	return CancelWhere[A](func(other actid.EffectID) bool { return other.Equal(id) })
}

// CancelWhere builds an effect that cancels every running/pending effect
// whose id satisfies pred.
func CancelWhere[A any](pred func(actid.EffectID) bool) Effect[A] {
	return Effect[A]{Cancel[A]{Predicate: pred}}
}
