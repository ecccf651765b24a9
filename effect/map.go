package effect

import (
	"context"

	"github.com/nextlevelbuilder/actomaton/actid"
)

// MapAction rewrites the action type produced by every Single and Sequence
// kind in e, applying f to each feedback action. Cancel kinds pass through
// unchanged since they carry no action payload.
func MapAction[A, B any](e Effect[A], f func(A) B) Effect[B] {
	if len(e) == 0 {
		return nil
	}
	out := make(Effect[B], 0, len(e))
	for _, k := range e {
		switch kind := k.(type) {
		case Single[A]:
			run := kind.Run
			out = append(out, Single[B]{
				ID:    kind.ID,
				Queue: kind.Queue,
				Run: func(ctx context.Context) (*B, error) {
					a, err := run(ctx)
					if a == nil {
						return nil, err
					}
					b := f(*a)
					return &b, err
				},
			})
		case Sequence[A]:
			make_ := kind.Make
			out = append(out, Sequence[B]{
				ID:    kind.ID,
				Queue: kind.Queue,
				Make: func(ctx context.Context) (<-chan B, error) {
					in, err := make_(ctx)
					if err != nil || in == nil {
						return nil, err
					}
					mapped := make(chan B)
					go func() {
						defer close(mapped)
						for a := range in {
							select {
							case mapped <- f(a):
							case <-ctx.Done():
								return
							}
						}
					}()
					return mapped, nil
				},
			})
		case Cancel[A]:
			out = append(out, Cancel[B]{Predicate: kind.Predicate})
		}
	}
	return out
}

// MapID rewrites the identity carried by every Single and Sequence kind in
// e. Kinds without an explicit id (nil ID) are left anonymous.
func MapID[A any](e Effect[A], f func(actid.EffectID) actid.EffectID) Effect[A] {
	if len(e) == 0 {
		return nil
	}
	out := make(Effect[A], 0, len(e))
	for _, k := range e {
		switch kind := k.(type) {
		case Single[A]:
			if kind.ID != nil {
				id := f(*kind.ID)
				kind.ID = &id
			}
			out = append(out, kind)
		case Sequence[A]:
			if kind.ID != nil {
				id := f(*kind.ID)
				kind.ID = &id
			}
			out = append(out, kind)
		default:
			out = append(out, k)
		}
	}
	return out
}

// MapQueue rewrites the queue carried by every Single and Sequence kind in
// e. Kinds without an explicit queue (nil Queue) are left unqueued.
func MapQueue[A any](e Effect[A], f func(actid.QueueRef) actid.QueueRef) Effect[A] {
	if len(e) == 0 {
		return nil
	}
	out := make(Effect[A], 0, len(e))
	for _, k := range e {
		switch kind := k.(type) {
		case Single[A]:
			if kind.Queue != nil {
				q := f(*kind.Queue)
				kind.Queue = &q
			}
			out = append(out, kind)
		case Sequence[A]:
			if kind.Queue != nil {
				q := f(*kind.Queue)
				kind.Queue = &q
			}
			out = append(out, kind)
		default:
			out = append(out, k)
		}
	}
	return out
}
