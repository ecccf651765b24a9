package actomaton

import (
	"context"
	"log/slog"

	"go.opentelemetry.io/otel/trace"
)

// Option configures an Actomaton at construction time.
type Option[A, S, E any] func(*config[A, S, E])

type config[A, S, E any] struct {
	executor   Executor
	logger     *slog.Logger
	tracer     trace.Tracer
	rootCtx    context.Context
	hasRootCtx bool
}

func defaultConfig[A, S, E any]() config[A, S, E] {
	return config[A, S, E]{
		executor: DefaultExecutor,
		logger:   slog.New(slog.DiscardHandler),
		tracer:   defaultTracer,
		rootCtx:  context.Background(),
	}
}

// WithExecutor selects where the critical section and task bodies run.
// Defaults to DefaultExecutor (plain goroutines).
func WithExecutor[A, S, E any](ex Executor) Option[A, S, E] {
	return func(c *config[A, S, E]) { c.executor = ex }
}

// WithLogger injects a structured logger for BodyThrew/StreamThrew
// reporting. Defaults to a discarding logger (§7: "logged via an
// injectable logger, default no-op").
func WithLogger[A, S, E any](logger *slog.Logger) Option[A, S, E] {
	return func(c *config[A, S, E]) { c.logger = logger }
}

// WithTracer attaches an OpenTelemetry tracer that spans every Send's
// reducer invocation and every admitted task body. Purely observational:
// a no-op tracer (the default) changes nothing about scheduling behavior.
func WithTracer[A, S, E any](tracer trace.Tracer) Option[A, S, E] {
	return func(c *config[A, S, E]) { c.tracer = tracer }
}

// WithContext ties the Actomaton's lifetime to ctx: when ctx is cancelled,
// the Actomaton tears down exactly as if Close had been called.
func WithContext[A, S, E any](ctx context.Context) Option[A, S, E] {
	return func(c *config[A, S, E]) { c.rootCtx = ctx; c.hasRootCtx = true }
}

// sendConfig holds the per-Send options described in §6: an optional
// priority hint, carried along to the Sends of fed-back actions, and
// whether the returned Handle should track the transitive closure of
// fed-back actions.
type sendConfig struct {
	tracksFeedbacks bool
	priority        int
}

// SendOption configures one call to Send.
type SendOption func(*sendConfig)

// WithTracksFeedbacks makes the returned Handle wait for every action fed
// back by this send's effects (transitively), not just the directly
// spawned tasks.
func WithTracksFeedbacks(v bool) SendOption {
	return func(c *sendConfig) { c.tracksFeedbacks = v }
}

// WithPriority attaches a priority hint to this send, which is passed on
// to the Sends of its fed-back actions. The Executor interface takes no
// priority, so the hint does not affect where or when work runs.
func WithPriority(p int) SendOption {
	return func(c *sendConfig) { c.priority = p }
}

func resolveSendOptions(opts []SendOption) sendConfig {
	var c sendConfig
	for _, opt := range opts {
		opt(&c)
	}
	return c
}

func sendOptionsFrom(c sendConfig) []SendOption {
	return []SendOption{WithTracksFeedbacks(c.tracksFeedbacks), WithPriority(c.priority)}
}
