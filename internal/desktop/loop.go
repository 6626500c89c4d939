package desktop

import (
	"context"
	"sync"
)

// loop is the shell.Loop handed to the lifecycle. Exit during a close request
// lets that close proceed; anywhere else it asks the runtime to quit.
type loop struct {
	ctx context.Context
	rt  windowRuntime

	mu      sync.Mutex
	exit    bool
	closing bool
}

func newLoop(ctx context.Context, rt windowRuntime) *loop {
	return &loop{ctx: ctx, rt: rt}
}

func (l *loop) Context() context.Context { return l.ctx }

func (l *loop) Exit() {
	l.mu.Lock()
	already, closing := l.exit, l.closing
	l.exit = true
	l.mu.Unlock()
	if already || closing {
		return
	}
	// Quit may call back into OnBeforeClose, which dispatches into the
	// lifecycle that is calling us.
	go l.rt.Quit(l.ctx)
}

func (l *loop) exiting() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exit
}

// closeRequest marks the dispatch of a close request. The returned func
// reports whether the window may close.
func (l *loop) closeRequest() func() bool {
	l.mu.Lock()
	l.closing = true
	l.mu.Unlock()
	return func() bool {
		l.mu.Lock()
		defer l.mu.Unlock()
		l.closing = false
		return l.exit
	}
}
