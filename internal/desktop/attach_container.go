//go:build !windows && !darwin

package desktop

import (
	"github.com/wailsapp/wails/v2/pkg/options"
	"github.com/wailsapp/wails/v2/pkg/options/linux"
)

// GTK targets put the webview into the window's layout box rather than the
// window itself.
const attachMode = "container"

func platformOptions(app *options.App, o Options) {
	app.Linux = &linux.Options{
		ProgramName:         "webshell",
		WindowIsTranslucent: false,
		WebviewGpuPolicy:    linux.WebviewGpuPolicyOnDemand,
	}
}
