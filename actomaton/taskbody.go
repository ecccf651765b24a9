package actomaton

import (
	"context"
	"errors"
	"time"

	"github.com/nextlevelbuilder/actomaton/effect"
)

// runTaskBody sleeps for the admitted delay, then runs the effect body and
// dispatches any feedback actions back through Send. It returns the
// aggregate error the body (and, under tracks_feedbacks, its feedback
// tree) produced.
//
// The initial sleep intentionally ignores ctx: §4.4.4 requires that a
// cancelled-before-start effect still gets to run its body so its
// cancellation branch can execute cleanup; an early-exiting sleep would
// skip that entirely. Bodies are expected to observe ctx cooperatively
// after their own await points.
func (m *Actomaton[A, S, E]) runTaskBody(ctx context.Context, kind effect.Kind[A], delay time.Duration, cfg sendConfig) error {
	if delay > 0 {
		time.Sleep(delay)
	}

	switch k := kind.(type) {
	case effect.Single[A]:
		a, err := k.Run(ctx)
		if err != nil {
			m.logBodyError(err)
			return err
		}
		if a == nil {
			return nil
		}
		h := m.Send(*a, sendOptionsFrom(cfg)...)
		if cfg.tracksFeedbacks {
			return h.Wait(context.Background())
		}
		return nil

	case effect.Sequence[A]:
		ch, err := k.Make(ctx)
		if err != nil {
			m.logStreamError(err)
			return err
		}
		if ch == nil {
			return nil
		}
		var handles []*Handle
		for a := range ch {
			h := m.Send(a, sendOptionsFrom(cfg)...)
			if cfg.tracksFeedbacks && h != nil {
				handles = append(handles, h)
			}
		}
		if !cfg.tracksFeedbacks {
			return nil
		}
		var errs []error
		for _, h := range handles {
			if err := h.Wait(context.Background()); err != nil {
				errs = append(errs, err)
			}
		}
		return errors.Join(errs...)

	default:
		return nil
	}
}

func (m *Actomaton[A, S, E]) logBodyError(err error) {
	if errors.Is(err, context.Canceled) {
		m.cfg.logger.Debug("actomaton: effect cancelled", "error", err)
		return
	}
	m.cfg.logger.Error("actomaton: effect body error", "error", err)
}

func (m *Actomaton[A, S, E]) logStreamError(err error) {
	if errors.Is(err, context.Canceled) {
		m.cfg.logger.Debug("actomaton: stream cancelled", "error", err)
		return
	}
	m.cfg.logger.Error("actomaton: stream creation error", "error", err)
}
