package shell

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type fakeLoop struct {
	exits int
}

func (l *fakeLoop) Context() context.Context { return context.Background() }
func (l *fakeLoop) Exit()                    { l.exits++ }

type fakeWebview struct {
	closed int
	err    error
}

func (w *fakeWebview) Close() error {
	w.closed++
	return w.err
}

type fakeFactory struct {
	builds  int
	webview *fakeWebview
	err     error
	title   string
	url     string
}

func (f *fakeFactory) Build(loop Loop, title, url string) (Webview, error) {
	f.builds++
	f.title, f.url = title, url
	if f.err != nil {
		return nil, f.err
	}
	if f.webview == nil {
		return nil, nil
	}
	return f.webview, nil
}

// scriptedSource replays events and stops once the loop asked to exit, the
// way a platform loop would.
type scriptedSource struct {
	loop   *fakeLoop
	events []Event
	err    error
	seen   int
}

func (s *scriptedSource) Run(dispatch DispatchFunc) error {
	for _, ev := range s.events {
		if s.loop.exits > 0 {
			break
		}
		s.seen++
		_ = dispatch(s.loop, ev)
	}
	return s.err
}

func TestInitOnce(t *testing.T) {
	f := &fakeFactory{webview: &fakeWebview{}}
	l := New(f, "A fantastic window!", "index.html")
	loop := &fakeLoop{}

	require.Equal(t, Uninitialized, l.State())
	require.NoError(t, l.Dispatch(loop, Event{Kind: EventLoopStarted}))
	require.NoError(t, l.Dispatch(loop, Event{Kind: EventLoopStarted}))
	require.NoError(t, l.Dispatch(loop, Event{Kind: EventLoopStarted}))

	require.Equal(t, 1, f.builds)
	require.Equal(t, "A fantastic window!", f.title)
	require.Equal(t, "index.html", f.url)
	require.Equal(t, Running, l.State())
	require.Zero(t, loop.exits)
}

func TestOtherEventsIgnored(t *testing.T) {
	f := &fakeFactory{webview: &fakeWebview{}}
	l := New(f, "t", "u")
	loop := &fakeLoop{}

	require.NoError(t, l.Dispatch(loop, Event{Kind: EventOther, Name: "dom-ready"}))
	require.Equal(t, Uninitialized, l.State())

	require.NoError(t, l.Dispatch(loop, Event{Kind: EventLoopStarted}))
	require.NoError(t, l.Dispatch(loop, Event{Kind: EventOther, Name: "shutdown"}))
	require.Equal(t, Running, l.State())
	require.Zero(t, f.webview.closed)
}

func TestTeardownReleasesOnce(t *testing.T) {
	wv := &fakeWebview{}
	f := &fakeFactory{webview: wv}
	l := New(f, "t", "u")
	loop := &fakeLoop{}

	require.NoError(t, l.Dispatch(loop, Event{Kind: EventLoopStarted}))
	require.NoError(t, l.Dispatch(loop, Event{Kind: EventCloseRequested}))
	require.Equal(t, Terminated, l.State())
	require.Equal(t, 1, wv.closed)
	require.Equal(t, 1, loop.exits)

	require.NoError(t, l.Dispatch(loop, Event{Kind: EventCloseRequested}))
	require.NoError(t, l.Dispatch(loop, Event{Kind: EventLoopStarted}))
	require.Equal(t, 1, wv.closed)
	require.Equal(t, 1, loop.exits)
	require.Equal(t, 1, f.builds)
	require.Equal(t, Terminated, l.State())
}

func TestTeardownCloseErrorStillTerminates(t *testing.T) {
	wv := &fakeWebview{err: errors.New("already gone")}
	l := New(&fakeFactory{webview: wv}, "t", "u")
	loop := &fakeLoop{}

	require.NoError(t, l.Init(loop))
	l.Teardown(loop)
	require.Equal(t, Terminated, l.State())
	require.Equal(t, 1, loop.exits)
}

func TestTeardownBeforeInit(t *testing.T) {
	f := &fakeFactory{webview: &fakeWebview{}}
	l := New(f, "t", "u")
	loop := &fakeLoop{}

	l.Teardown(loop)
	require.Equal(t, Terminated, l.State())
	require.Equal(t, 1, loop.exits)

	require.NoError(t, l.Init(loop))
	require.Zero(t, f.builds)
}

func TestInitFailureIsFatal(t *testing.T) {
	boom := errors.New("no display")
	f := &fakeFactory{err: boom}
	l := New(f, "t", "u")
	loop := &fakeLoop{}

	err := l.Dispatch(loop, Event{Kind: EventLoopStarted})
	var cerr *ConstructionError
	require.ErrorAs(t, err, &cerr)
	require.ErrorIs(t, err, boom)
	require.Equal(t, Terminated, l.State())
	require.Equal(t, 1, loop.exits)

	require.NoError(t, l.Dispatch(loop, Event{Kind: EventLoopStarted}))
	require.Equal(t, 1, f.builds)
}

func TestInitNilWebview(t *testing.T) {
	l := New(&fakeFactory{}, "t", "u")
	err := l.Init(&fakeLoop{})
	var cerr *ConstructionError
	require.ErrorAs(t, err, &cerr)
}

func TestRunFullCycle(t *testing.T) {
	wv := &fakeWebview{}
	f := &fakeFactory{webview: wv}
	l := New(f, "t", "u")
	src := &scriptedSource{loop: &fakeLoop{}, events: []Event{
		{Kind: EventLoopStarted},
		{Kind: EventOther, Name: "dom-ready"},
		{Kind: EventLoopStarted},
		{Kind: EventCloseRequested},
		{Kind: EventCloseRequested},
	}}

	require.NoError(t, l.Run(src))
	require.Equal(t, 4, src.seen)
	require.Equal(t, 1, f.builds)
	require.Equal(t, 1, wv.closed)
	require.Equal(t, Terminated, l.State())
}

func TestRunReturnsConstructionError(t *testing.T) {
	l := New(&fakeFactory{err: errors.New("no display")}, "t", "u")
	src := &scriptedSource{loop: &fakeLoop{}, events: []Event{
		{Kind: EventLoopStarted},
		{Kind: EventCloseRequested},
	}}

	err := l.Run(src)
	var cerr *ConstructionError
	require.ErrorAs(t, err, &cerr)
	require.Equal(t, 1, src.seen)
}

func TestRunReturnsSourceError(t *testing.T) {
	srcErr := errors.New("loop crashed")
	l := New(&fakeFactory{webview: &fakeWebview{}}, "t", "u")
	src := &scriptedSource{loop: &fakeLoop{}, err: srcErr}

	require.ErrorIs(t, l.Run(src), srcErr)
}

func TestStateStrings(t *testing.T) {
	require.Equal(t, "uninitialized", Uninitialized.String())
	require.Equal(t, "running", Running.String())
	require.Equal(t, "terminated", Terminated.String())
	require.Equal(t, "close-requested", EventCloseRequested.String())
}
