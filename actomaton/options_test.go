package actomaton

import (
	"context"
	"log/slog"
	"testing"
)

func TestDefaultConfigHasNoOpLoggerAndBackgroundContext(t *testing.T) {
	c := defaultConfig[int, int, struct{}]()
	if c.executor != DefaultExecutor {
		t.Fatalf("expected default executor to be DefaultExecutor")
	}
	if c.logger == nil {
		t.Fatalf("expected a non-nil default logger")
	}
	if c.tracer == nil {
		t.Fatalf("expected a non-nil default tracer")
	}
	if c.hasRootCtx {
		t.Fatalf("expected hasRootCtx to be false by default")
	}
	if c.rootCtx != context.Background() {
		t.Fatalf("expected rootCtx to default to context.Background()")
	}
}

func TestWithLoggerOverridesDefault(t *testing.T) {
	custom := slog.New(slog.DiscardHandler)
	c := defaultConfig[int, int, struct{}]()
	WithLogger[int, int, struct{}](custom)(&c)
	if c.logger != custom {
		t.Fatalf("expected WithLogger to install the custom logger")
	}
}

func TestWithContextSetsHasRootCtx(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	c := defaultConfig[int, int, struct{}]()
	if c.hasRootCtx {
		t.Fatalf("expected hasRootCtx false before WithContext")
	}
	WithContext[int, int, struct{}](ctx)(&c)
	if !c.hasRootCtx {
		t.Fatalf("expected hasRootCtx true after WithContext")
	}
	if c.rootCtx != ctx {
		t.Fatalf("expected rootCtx to be the supplied context")
	}
}

func TestResolveSendOptionsAppliesEachOption(t *testing.T) {
	c := resolveSendOptions([]SendOption{WithTracksFeedbacks(true), WithPriority(7)})
	if !c.tracksFeedbacks {
		t.Fatalf("expected tracksFeedbacks true")
	}
	if c.priority != 7 {
		t.Fatalf("expected priority 7, got %d", c.priority)
	}
}

func TestResolveSendOptionsDefaultsToZeroValue(t *testing.T) {
	c := resolveSendOptions(nil)
	if c.tracksFeedbacks || c.priority != 0 {
		t.Fatalf("expected zero-value sendConfig, got %+v", c)
	}
}

func TestSendOptionsFromRoundTrips(t *testing.T) {
	original := sendConfig{tracksFeedbacks: true, priority: 3}
	restored := resolveSendOptions(sendOptionsFrom(original))
	if restored != original {
		t.Fatalf("expected round-trip through sendOptionsFrom to preserve sendConfig, got %+v", restored)
	}
}
