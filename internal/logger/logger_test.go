package logger

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestLoggerTextFormat(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)

	l.Infof(CatProtocol, "served %s", "index.html")
	l.log(1, DEBUG, CatProtocol, "", "hidden", nil)

	out := buf.String()
	require.Contains(t, out, "[INFO] [PROTOCOL] served index.html")
	require.NotContains(t, out, "hidden")
}

func TestLoggerFieldsSorted(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG)

	c := &ContextLogger{logger: l, requestID: "rid-1", category: CatIPC}
	c.Info("message", F{"b": 2, "a": 1})

	line := buf.String()
	require.Contains(t, line, "rid=rid-1")
	require.Less(t, strings.Index(line, "a=1"), strings.Index(line, "b=2"))
}

func TestLoggerJSONMode(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)
	l.jsonMode.Store(true)

	l.Warnf(CatLifecycle, "state %d", 2)

	var entry LogEntry
	require.NoError(t, json.Unmarshal(buf.Bytes(), &entry))
	require.Equal(t, "WARN", entry.Level)
	require.Equal(t, "LIFECYCLE", entry.Category)
	require.Equal(t, "state 2", entry.Message)
	require.Contains(t, entry.Caller, "logger_test.go:")
}

func TestLoggerFileSinkRotates(t *testing.T) {
	dir := t.TempDir()
	l := New(nil, INFO)
	require.NoError(t, l.SetLogDir(dir))
	l.fileWriter.maxSize = 64

	for i := 0; i < 10; i++ {
		l.Infof(CatSystem, "line %d", i)
	}
	l.Close()

	_, err := os.Stat(filepath.Join(dir, "webshell.log.old"))
	require.NoError(t, err)
	data, err := os.ReadFile(filepath.Join(dir, "webshell.log"))
	require.NoError(t, err)
	require.Contains(t, string(data), "line 9")
}

func TestAsyncLoggerDrainsOnClose(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, INFO)
	l.startAsync(16)

	l.Errorf(CatSystem, "boom")
	l.Close()

	require.Contains(t, buf.String(), "[ERROR] [SYSTEM] boom")
}

func TestParseLevel(t *testing.T) {
	cases := map[string]Level{
		"debug":   DEBUG,
		"trace":   DEBUG,
		"INFO":    INFO,
		" warn ":  WARN,
		"warning": WARN,
		"error":   ERROR,
		"fatal":   FATAL,
		"":        INFO,
		"bogus":   INFO,
	}
	for in, want := range cases {
		require.Equal(t, want, ParseLevel(in), in)
	}
}

func TestWailsBridge(t *testing.T) {
	var buf bytes.Buffer
	l := New(&buf, DEBUG)
	b := Wails(l)

	b.Warning("gpu policy ignored")
	b.Trace("tick")

	out := buf.String()
	require.Contains(t, out, "[WARN] [WEBVIEW] gpu policy ignored")
	require.Contains(t, out, "[DEBUG] [WEBVIEW] tick")
}
