package desktop

import (
	"context"
	"errors"
	"sync"
)

var errClosed = errors.New("webview already closed")

type webview struct {
	ctx         context.Context
	rt          windowRuntime
	unsubscribe func()

	once sync.Once
}

// Close drops the message subscription and hides the window; the runtime
// destroys both when the loop exits.
func (w *webview) Close() error {
	err := errClosed
	w.once.Do(func() {
		if w.unsubscribe != nil {
			w.unsubscribe()
		}
		w.rt.Hide(w.ctx)
		err = nil
	})
	return err
}
