package desktop

import (
	"context"
	"errors"
	"sync"

	"github.com/wailsapp/wails/v2"
	"github.com/wailsapp/wails/v2/pkg/options"

	"webshell/internal/logger"
	"webshell/internal/shell"
)

// Source implements shell.EventSource on top of wails.Run, which blocks the
// calling goroutine as the platform event pump.
type Source struct {
	factory *Factory
	rt      windowRuntime
	run     func(*options.App) error
}

func NewSource(f *Factory) *Source {
	return &Source{factory: f, rt: f.rt, run: wails.Run}
}

func (s *Source) Run(dispatch shell.DispatchFunc) error {
	return s.run(s.app(dispatch))
}

func (s *Source) app(dispatch shell.DispatchFunc) *options.App {
	app := s.factory.appOptions()
	var (
		mu sync.Mutex
		lp *loop
	)
	current := func(ctx context.Context) *loop {
		mu.Lock()
		defer mu.Unlock()
		if lp == nil {
			lp = newLoop(ctx, s.rt)
		}
		return lp
	}

	app.OnStartup = func(ctx context.Context) {
		s.dispatch(dispatch, current(ctx), shell.Event{Kind: shell.EventLoopStarted, Name: "startup"})
	}
	app.OnDomReady = func(ctx context.Context) {
		l := current(ctx)
		if !l.exiting() {
			s.factory.domReady(l)
		}
		s.dispatch(dispatch, l, shell.Event{Kind: shell.EventOther, Name: "dom-ready"})
	}
	app.OnBeforeClose = func(ctx context.Context) (prevent bool) {
		l := current(ctx)
		done := l.closeRequest()
		s.dispatch(dispatch, l, shell.Event{Kind: shell.EventCloseRequested, Name: "before-close"})
		return !done()
	}
	app.OnShutdown = func(ctx context.Context) {
		s.dispatch(dispatch, current(ctx), shell.Event{Kind: shell.EventOther, Name: "shutdown"})
	}
	return app
}

// dispatch runs one event through the lifecycle. A panic in the callback is
// contained here because wails may invoke hooks off the entry goroutine.
func (s *Source) dispatch(fn shell.DispatchFunc, lp *loop, ev shell.Event) {
	err := shell.Guard(func() error { return fn(lp, ev) })
	if err == nil {
		return
	}
	var aerr *shell.AbortError
	if errors.As(err, &aerr) {
		logger.Errorf(logger.CatLifecycle, "%s dispatch panicked: %v\n%s", ev.Kind, aerr.Value, aerr.Stack)
		lp.Exit()
		return
	}
	logger.ErrorFields(logger.CatLifecycle, "dispatch failed", logger.F{"event": ev.Name, "kind": ev.Kind.String(), "error": err.Error()})
}
