package actomaton

// Executor abstracts where the reducer's critical section and effect task
// bodies actually run, so the same scheduler serves both a general worker
// pool and a main-thread-pinned variant (e.g. a UI thread) without
// duplicating any scheduling logic.
type Executor interface {
	// Go runs f concurrently, without waiting for it to finish. Used for
	// effect task bodies, which must run independently of the mailbox.
	Go(f func())

	// RunSync runs f and blocks until it returns. Used for the reducer's
	// critical section: a goroutine-pool executor simply calls f on the
	// caller's own goroutine; a pinned executor hands f to its dedicated
	// goroutine and waits for it to complete there.
	RunSync(f func())
}

// goroutinePoolExecutor is the default Executor: task bodies run on
// ordinary goroutines, and the critical section runs inline on whichever
// goroutine called Send.
type goroutinePoolExecutor struct{}

func (goroutinePoolExecutor) Go(f func())       { go f() }
func (goroutinePoolExecutor) RunSync(f func())  { f() }

// DefaultExecutor is the goroutine-pool executor used when no Executor
// option is supplied.
var DefaultExecutor Executor = goroutinePoolExecutor{}

// PinnedExecutor pins every RunSync call onto a single dedicated goroutine,
// which is the mechanism by which a main-thread variant is obtained: run
// the Actomaton with a PinnedExecutor whose worker goroutine has been
// locked onto the OS main thread by the caller. Task bodies (Go) still run
// concurrently on ordinary goroutines, matching §4.4.6: "Effect bodies run
// concurrently with each other and with subsequent send reducer runs."
type PinnedExecutor struct {
	jobs chan func()
}

// NewPinnedExecutor starts the dedicated worker goroutine and returns an
// Executor that funnels every RunSync call through it.
func NewPinnedExecutor() *PinnedExecutor {
	e := &PinnedExecutor{jobs: make(chan func(), 64)}
	go e.loop()
	return e
}

func (e *PinnedExecutor) loop() {
	for job := range e.jobs {
		job()
	}
}

func (e *PinnedExecutor) Go(f func()) { go f() }

func (e *PinnedExecutor) RunSync(f func()) {
	done := make(chan struct{})
	e.jobs <- func() {
		defer close(done)
		f()
	}
	<-done
}

// Close stops the worker goroutine. Do not call RunSync after Close.
func (e *PinnedExecutor) Close() {
	close(e.jobs)
}
