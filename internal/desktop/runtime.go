package desktop

import (
	"context"

	"github.com/wailsapp/wails/v2/pkg/runtime"
)

// windowRuntime is the slice of the wails runtime the shell drives. Every
// call needs the context wails handed to OnStartup.
type windowRuntime interface {
	SetTitle(ctx context.Context, title string)
	Show(ctx context.Context)
	Hide(ctx context.Context)
	ExecJS(ctx context.Context, js string)
	EventsOn(ctx context.Context, name string, cb func(data ...interface{})) func()
	Quit(ctx context.Context)
}

type wailsRuntime struct{}

func (wailsRuntime) SetTitle(ctx context.Context, title string) { runtime.WindowSetTitle(ctx, title) }
func (wailsRuntime) Show(ctx context.Context)                   { runtime.WindowShow(ctx) }
func (wailsRuntime) Hide(ctx context.Context)                   { runtime.WindowHide(ctx) }
func (wailsRuntime) ExecJS(ctx context.Context, js string)      { runtime.WindowExecJS(ctx, js) }
func (wailsRuntime) Quit(ctx context.Context)                   { runtime.Quit(ctx) }

func (wailsRuntime) EventsOn(ctx context.Context, name string, cb func(data ...interface{})) func() {
	return runtime.EventsOn(ctx, name, cb)
}
