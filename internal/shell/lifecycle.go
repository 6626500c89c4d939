// Package shell owns the single window/webview pair and drives it from
// platform loop events.
package shell

import (
	"context"
	"fmt"
	"sync"

	"webshell/internal/logger"
)

type State int

const (
	Uninitialized State = iota
	Running
	Terminated
)

func (s State) String() string {
	switch s {
	case Uninitialized:
		return "uninitialized"
	case Running:
		return "running"
	case Terminated:
		return "terminated"
	}
	return fmt.Sprintf("state(%d)", int(s))
}

type EventKind int

const (
	EventOther EventKind = iota
	// EventLoopStarted is delivered when the platform loop begins pumping.
	EventLoopStarted
	// EventCloseRequested is delivered when the user asks to close the window.
	EventCloseRequested
)

func (k EventKind) String() string {
	switch k {
	case EventLoopStarted:
		return "loop-started"
	case EventCloseRequested:
		return "close-requested"
	}
	return "other"
}

type Event struct {
	Kind EventKind
	// Name identifies the platform notification, for logs only.
	Name string
}

// Loop is the handle the platform passes along with each event.
type Loop interface {
	Context() context.Context
	// Exit asks the loop to stop once the current dispatch returns.
	Exit()
}

// Webview is an embedded webview attached to its host window. Close releases
// both.
type Webview interface {
	Close() error
}

// Factory builds the window and its webview. Implementations differ per
// platform but return a Webview with the same behaviour.
type Factory interface {
	Build(loop Loop, title, url string) (Webview, error)
}

type DispatchFunc func(Loop, Event) error

// EventSource pumps platform events into dispatch until the loop exits.
type EventSource interface {
	Run(dispatch DispatchFunc) error
}

// ConstructionError means the window or webview could not be created. It is
// fatal for the run.
type ConstructionError struct {
	Err error
}

func (e *ConstructionError) Error() string {
	return fmt.Sprintf("construct window: %v", e.Err)
}

func (e *ConstructionError) Unwrap() error { return e.Err }

// Lifecycle holds the process's only webview. It moves
// Uninitialized -> Running -> Terminated and never back.
type Lifecycle struct {
	mu      sync.Mutex
	factory Factory
	title   string
	url     string
	state   State
	webview Webview
	err     error
}

func New(factory Factory, title, url string) *Lifecycle {
	return &Lifecycle{factory: factory, title: title, url: url}
}

func (l *Lifecycle) State() State {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.state
}

// Init builds the window and webview on the first call; later calls are
// no-ops. A build failure terminates the lifecycle and asks the loop to exit.
func (l *Lifecycle) Init(loop Loop) error {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state != Uninitialized {
		return nil
	}

	wv, err := l.factory.Build(loop, l.title, l.url)
	if err == nil && wv == nil {
		err = fmt.Errorf("factory returned no webview")
	}
	if err != nil {
		cerr := &ConstructionError{Err: err}
		l.state = Terminated
		l.err = cerr
		logger.Errorf(logger.CatLifecycle, "init failed: %v", err)
		loop.Exit()
		return cerr
	}

	l.webview = wv
	l.state = Running
	logger.InfoFields(logger.CatLifecycle, "webview running", logger.F{"title": l.title, "url": l.url})
	return nil
}

// Teardown releases the webview, then asks the loop to exit. Once terminated
// it does nothing.
func (l *Lifecycle) Teardown(loop Loop) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.state == Terminated {
		return
	}

	if l.webview != nil {
		if err := l.webview.Close(); err != nil {
			logger.Warnf(logger.CatLifecycle, "webview close: %v", err)
		}
		l.webview = nil
	}
	l.state = Terminated
	logger.Infof(logger.CatLifecycle, "webview released, exiting loop")
	loop.Exit()
}

// Dispatch routes one platform event. Events other than loop-started and
// close-requested leave the state untouched.
func (l *Lifecycle) Dispatch(loop Loop, ev Event) error {
	switch ev.Kind {
	case EventLoopStarted:
		return l.Init(loop)
	case EventCloseRequested:
		l.Teardown(loop)
	default:
		logger.Debugf(logger.CatLifecycle, "ignored event %s %s", ev.Kind, ev.Name)
	}
	return nil
}

// Run blocks while src pumps events. It returns the ConstructionError when
// init failed, otherwise whatever the source returned.
func (l *Lifecycle) Run(src EventSource) error {
	err := src.Run(l.Dispatch)

	l.mu.Lock()
	defer l.mu.Unlock()
	if l.err != nil {
		return l.err
	}
	return err
}
