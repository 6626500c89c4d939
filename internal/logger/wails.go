package logger

import (
	wailslog "github.com/wailsapp/wails/v2/pkg/logger"
)

// wailsBridge routes the webview runtime's own log output through Logger
// under CatWebview.
type wailsBridge struct {
	l *Logger
}

// Wails adapts l to the logger interface expected by wails options.
func Wails(l *Logger) wailslog.Logger {
	return &wailsBridge{l: l}
}

// WailsLevel maps a Level onto the runtime's log level scale.
func WailsLevel(level Level) wailslog.LogLevel {
	switch level {
	case DEBUG:
		return wailslog.DEBUG
	case WARN:
		return wailslog.WARNING
	case ERROR, FATAL:
		return wailslog.ERROR
	}
	return wailslog.INFO
}

func (b *wailsBridge) Print(message string)   { b.l.log(1, INFO, CatWebview, "", message, nil) }
func (b *wailsBridge) Trace(message string)   { b.l.log(1, DEBUG, CatWebview, "", message, nil) }
func (b *wailsBridge) Debug(message string)   { b.l.log(1, DEBUG, CatWebview, "", message, nil) }
func (b *wailsBridge) Info(message string)    { b.l.log(1, INFO, CatWebview, "", message, nil) }
func (b *wailsBridge) Warning(message string) { b.l.log(1, WARN, CatWebview, "", message, nil) }
func (b *wailsBridge) Error(message string)   { b.l.log(1, ERROR, CatWebview, "", message, nil) }

// Fatal is logged at FATAL; the runtime decides whether to exit.
func (b *wailsBridge) Fatal(message string) { b.l.log(1, FATAL, CatWebview, "", message, nil) }
