// Package desktop binds the shell lifecycle to a native window and webview
// provided by wails.
package desktop

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"
	"sync"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/assetserver"

	"webshell/internal/ipc"
	"webshell/internal/logger"
	"webshell/internal/protocol"
	"webshell/internal/shell"
)

// DefaultInitScript runs in every page served over the scheme before the
// page's own scripts.
const DefaultInitScript = "console.log('hello world from init script');"

// Options is the fixed wiring applied to the window and webview.
type Options struct {
	Width      int
	Height     int
	DevTools   bool
	Handler    http.Handler
	InitScript string
	OnMessage  func(msg string)
	Logger     *logger.Logger
	// DataDir holds webview profile data where the platform needs one.
	DataDir string
}

// Factory implements shell.Factory. Scheme registration happens when the
// runtime starts (appOptions); Build attaches everything that needs a live
// window.
type Factory struct {
	opts Options
	rt   windowRuntime

	mu      sync.Mutex
	pending string
	// loaded is set once the first page has fired DOM-ready.
	loaded bool
}

func NewFactory(opts Options) *Factory {
	return &Factory{opts: opts, rt: wailsRuntime{}}
}

// Build titles the window, subscribes the message handler, schedules
// navigation to startURL and shows the window. The window stays hidden if any
// step fails.
func (f *Factory) Build(lp shell.Loop, title, startURL string) (shell.Webview, error) {
	ctx := lp.Context()
	if ctx == nil {
		return nil, errors.New("no runtime context")
	}
	if f.opts.Handler == nil {
		return nil, errors.New("no protocol handler registered")
	}
	target, err := navigationTarget(startURL)
	if err != nil {
		return nil, err
	}

	f.rt.SetTitle(ctx, title)
	wv := &webview{ctx: ctx, rt: f.rt}
	if f.opts.OnMessage != nil {
		onMessage := f.opts.OnMessage
		wv.unsubscribe = f.rt.EventsOn(ctx, ipc.EventName, func(data ...interface{}) {
			for _, d := range data {
				if s, ok := d.(string); ok {
					onMessage(s)
				} else {
					logger.WarnFields(logger.CatIPC, "dropping non-string message", logger.F{"type": fmt.Sprintf("%T", d)})
				}
			}
		})
	}

	// DOM-ready 可能先于 Build 到达，此时直接跳转
	f.mu.Lock()
	now := f.loaded
	if !now {
		f.pending = target
	}
	f.mu.Unlock()
	if now {
		f.navigate(ctx, target)
	}

	f.rt.Show(ctx)
	logger.InfoFields(logger.CatWebview, "window attached", logger.F{
		"attach": attachMode,
		"title":  title,
		"target": target,
	})
	return wv, nil
}

// domReady performs the navigation scheduled by Build, once. The runtime
// always loads the scheme root first.
func (f *Factory) domReady(lp shell.Loop) {
	f.mu.Lock()
	target := f.pending
	f.pending = ""
	f.loaded = true
	f.mu.Unlock()

	f.navigate(lp.Context(), target)
}

func (f *Factory) navigate(ctx context.Context, target string) {
	if target == "" || target == "/" {
		return
	}
	js, _ := json.Marshal(target)
	f.rt.ExecJS(ctx, "window.location.replace("+string(js)+");")
	logger.Debugf(logger.CatWebview, "navigating to %s", target)
}

func (f *Factory) appOptions() *options.App {
	o := f.opts
	app := &options.App{
		Width:       o.Width,
		Height:      o.Height,
		StartHidden: true,
		AssetServer: &assetserver.Options{
			Handler:    o.Handler,
			Middleware: assetserver.Middleware(protocol.InjectScript(o.InitScript)),
		},
		EnableDefaultContextMenu: o.DevTools,
		Debug: options.Debug{
			OpenInspectorOnStartup: o.DevTools,
		},
		Bind: []interface{}{
			&Bridge{onMessage: o.OnMessage},
		},
	}
	if o.Logger != nil {
		app.Logger = logger.Wails(o.Logger)
		app.LogLevel = logger.WailsLevel(o.Logger.Level())
		app.LogLevelProduction = app.LogLevel
	}
	platformOptions(app, o)
	return app
}

// navigationTarget turns the configured start url into what the page should
// navigate to: a root-relative scheme path, or an absolute http(s) URL.
func navigationTarget(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "/", nil
	}
	u, err := url.Parse(raw)
	if err != nil {
		return "", fmt.Errorf("start url %q: %w", raw, err)
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https":
		if u.Host == "" {
			return "", fmt.Errorf("start url %q has no host", raw)
		}
		return u.String(), nil
	case "", protocol.SchemeName:
		p, err := protocol.RequestPath(raw)
		if err != nil {
			return "", fmt.Errorf("start url %q: %w", raw, err)
		}
		if p == protocol.IndexPath {
			return "/", nil
		}
		return "/" + p, nil
	}
	return "", fmt.Errorf("start url %q: unsupported scheme %q", raw, u.Scheme)
}

// Bridge is bound into the page as window.go.desktop.Bridge, a second way
// for content to post messages.
type Bridge struct {
	onMessage func(string)
}

// PostMessage delivers msg to the host. Nothing is returned to the page.
func (b *Bridge) PostMessage(msg string) {
	if b.onMessage != nil {
		b.onMessage(msg)
	}
}
