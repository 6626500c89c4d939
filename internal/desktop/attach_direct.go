//go:build windows || darwin

package desktop

import (
	"path/filepath"

	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/mac"
	"github.com/wailsapp/wails/v2/pkg/options/windows"
)

// The webview is attached straight to the native window.
const attachMode = "direct"

func platformOptions(app *options.App, o Options) {
	win := &windows.Options{
		WebviewIsTransparent: false,
		WindowIsTranslucent:  false,
		IsZoomControlEnabled: true,
	}
	if o.DataDir != "" {
		win.WebviewUserDataPath = filepath.Join(o.DataDir, "webview")
	}
	app.Windows = win
	app.Mac = &mac.Options{
		TitleBar:             mac.TitleBarDefault(),
		WebviewIsTransparent: false,
		WindowIsTranslucent:  false,
	}
}
