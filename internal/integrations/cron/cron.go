// Package cron turns a cron expression into a Sequence effect, so a reducer
// can schedule a recurring action the same way it schedules anything else:
// by returning an effect kind, not by registering a callback with an
// external scheduler.
package cron

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/adhocore/gronx"

	"github.com/nextlevelbuilder/actomaton/actid"
	"github.com/nextlevelbuilder/actomaton/effect"
)

// Option configures a Source.
type Option func(*Source)

// WithLogger injects a structured logger for tick-computation failures.
// Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Source) { s.logger = logger }
}

// WithLocation fixes the timezone used to evaluate the cron expression.
// Defaults to time.Local.
func WithLocation(loc *time.Location) Option {
	return func(s *Source) { s.loc = loc }
}

// Source computes cron occurrences for one expression.
type Source struct {
	expr   string
	loc    *time.Location
	logger *slog.Logger
}

// New validates expr and returns a Source for it.
func New(expr string, opts ...Option) (*Source, error) {
	gx := gronx.New()
	if !gx.IsValid(expr) {
		return nil, fmt.Errorf("actomaton/cron: invalid expression %q", expr)
	}
	s := &Source{expr: expr, loc: time.Local, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// EffectFor builds a Sequence effect that emits action(fireTime) once per
// cron occurrence, forever, until cancelled. queue (nil for none) governs
// admission of the stream task as a whole, not of individual occurrences:
// every occurrence is fed back as an action.
func EffectFor[A any](s *Source, id *actid.EffectID, queue *actid.QueueRef, action func(at time.Time) A) effect.Effect[A] {
	return effect.FromStream[A](id, queue, func(ctx context.Context) (<-chan A, error) {
		out := make(chan A)
		go runFor(ctx, s, out, action)
		return out, nil
	})
}

func runFor[A any](ctx context.Context, s *Source, out chan<- A, action func(at time.Time) A) {
	defer close(out)
	for {
		now := time.Now().In(s.loc)
		next, err := gronx.NextTickAfter(s.expr, now, false)
		if err != nil {
			s.logger.Error("actomaton/cron: failed to compute next tick", "expr", s.expr, "error", err)
			return
		}

		timer := time.NewTimer(time.Until(next))
		select {
		case <-ctx.Done():
			timer.Stop()
			return
		case fire := <-timer.C:
			select {
			case out <- action(fire):
			case <-ctx.Done():
				return
			}
		}
	}
}
