// Package watch turns filesystem change notifications into a Sequence
// effect, so a reducer reacts to file changes the same way it reacts to
// any other external event: by returning an effect kind.
package watch

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/fsnotify/fsnotify"

	"github.com/nextlevelbuilder/actomaton/actid"
	"github.com/nextlevelbuilder/actomaton/effect"
)

// Option configures EffectFor.
type Option func(*config)

type config struct {
	logger *slog.Logger
}

// WithLogger injects a structured logger for watcher-error reporting.
// Defaults to a discarding logger.
func WithLogger(logger *slog.Logger) Option {
	return func(c *config) { c.logger = logger }
}

// EffectFor builds a Sequence effect that watches path and emits
// translate(event) for every filesystem event observed there, until
// cancelled. The watcher is opened lazily, inside Make, so no file handle
// is held until the effect is actually admitted.
func EffectFor[A any](id *actid.EffectID, queue *actid.QueueRef, path string, translate func(fsnotify.Event) A, opts ...Option) effect.Effect[A] {
	cfg := config{logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(&cfg)
	}

	return effect.FromStream[A](id, queue, func(ctx context.Context) (<-chan A, error) {
		w, err := fsnotify.NewWatcher()
		if err != nil {
			return nil, fmt.Errorf("actomaton/watch: new watcher: %w", err)
		}
		if err := w.Add(path); err != nil {
			w.Close()
			return nil, fmt.Errorf("actomaton/watch: watch %q: %w", path, err)
		}

		out := make(chan A)
		go relay(ctx, w, out, translate, cfg.logger)
		return out, nil
	})
}

func relay[A any](ctx context.Context, w *fsnotify.Watcher, out chan<- A, translate func(fsnotify.Event) A, logger *slog.Logger) {
	defer close(out)
	defer w.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case err, ok := <-w.Errors:
			if !ok {
				return
			}
			logger.Error("actomaton/watch: watcher error", "error", err)
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			select {
			case out <- translate(ev):
			case <-ctx.Done():
				return
			}
		}
	}
}
