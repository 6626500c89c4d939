package logger

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"runtime"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"
)

type Level int

const (
	DEBUG Level = iota
	INFO
	WARN
	ERROR
	FATAL
)

func (l Level) String() string {
	switch l {
	case DEBUG:
		return "DEBUG"
	case INFO:
		return "INFO"
	case WARN:
		return "WARN"
	case ERROR:
		return "ERROR"
	case FATAL:
		return "FATAL"
	}
	return "UNKNOWN"
}

// ParseLevel 解析配置中的日志级别，未知值回退到 INFO
func ParseLevel(s string) Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG", "TRACE":
		return DEBUG
	case "WARN", "WARNING":
		return WARN
	case "ERROR":
		return ERROR
	case "FATAL":
		return FATAL
	}
	return INFO
}

type Category string

const (
	CatSystem    Category = "SYSTEM"
	CatLifecycle Category = "LIFECYCLE"
	CatProtocol  Category = "PROTOCOL"
	CatIPC       Category = "IPC"
	CatWebview   Category = "WEBVIEW"
)

type LogEntry struct {
	Time      string                 `json:"time"`
	Level     string                 `json:"level"`
	Category  string                 `json:"category"`
	RequestID string                 `json:"request_id,omitempty"`
	Message   string                 `json:"message"`
	Fields    map[string]interface{} `json:"fields,omitempty"`
	Caller    string                 `json:"caller,omitempty"`
}

// ── 文件写入器：单文件，超过 maxSize 时轮转为 .old ──

const defaultMaxFileSize = 5 * 1024 * 1024

type fileWriter struct {
	mu      sync.Mutex
	path    string
	maxSize int64
	size    int64
	f       *os.File
}

func newFileWriter(dir, name string) (*fileWriter, error) {
	if dir == "" {
		return nil, nil
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("create log dir: %w", err)
	}
	fw := &fileWriter{path: filepath.Join(dir, name), maxSize: defaultMaxFileSize}
	if err := fw.open(); err != nil {
		return nil, err
	}
	return fw, nil
}

func (fw *fileWriter) open() error {
	if info, err := os.Stat(fw.path); err == nil && info.Size() > fw.maxSize {
		fw.rotateLocked()
	}
	f, err := os.OpenFile(fw.path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("open log file: %w", err)
	}
	info, err := f.Stat()
	if err == nil {
		fw.size = info.Size()
	}
	fw.f = f
	return nil
}

func (fw *fileWriter) rotateLocked() {
	if fw.f != nil {
		fw.f.Close()
		fw.f = nil
	}
	oldPath := fw.path + ".old"
	os.Remove(oldPath)
	os.Rename(fw.path, oldPath)
	fw.size = 0
}

func (fw *fileWriter) write(line []byte) {
	if fw == nil {
		return
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.size+int64(len(line)) > fw.maxSize {
		fw.rotateLocked()
		if err := fw.open(); err != nil {
			return
		}
	}
	if fw.f == nil {
		return
	}
	n, _ := fw.f.Write(line)
	fw.size += int64(n)
}

func (fw *fileWriter) close() {
	if fw == nil {
		return
	}
	fw.mu.Lock()
	defer fw.mu.Unlock()
	if fw.f != nil {
		fw.f.Close()
		fw.f = nil
	}
}

// ── Logger 核心 ──

type Logger struct {
	level      atomic.Int32
	jsonMode   atomic.Bool
	mu         sync.Mutex
	out        io.Writer
	asyncCh    chan []byte
	done       chan struct{}
	fileWriter *fileWriter
}

var defaultLogger atomic.Pointer[Logger]

func init() {
	l := New(os.Stderr, INFO)
	l.startAsync(4096)
	defaultLogger.Store(l)
}

// New returns a synchronous logger writing to out. The package-level default
// is asynchronous and never blocks its callers.
func New(out io.Writer, level Level) *Logger {
	l := &Logger{out: out}
	l.level.Store(int32(level))
	return l
}

func Default() *Logger {
	return defaultLogger.Load()
}

// SetDefault replaces the package-level logger and returns the previous one.
func SetDefault(l *Logger) *Logger {
	return defaultLogger.Swap(l)
}

func SetLevel(l Level) {
	Default().SetLevel(l)
}

func SetJSONMode(on bool) {
	Default().jsonMode.Store(on)
}

// SetLogDir 设置日志文件目录，启用文件日志（webshell.log，5MB 轮转）
func SetLogDir(dir string) error {
	return Default().SetLogDir(dir)
}

func (l *Logger) SetLevel(level Level) {
	l.level.Store(int32(level))
}

func (l *Logger) Level() Level {
	return Level(l.level.Load())
}

func (l *Logger) SetLogDir(dir string) error {
	fw, err := newFileWriter(dir, "webshell.log")
	if err != nil {
		return err
	}
	l.mu.Lock()
	old := l.fileWriter
	l.fileWriter = fw
	l.mu.Unlock()
	old.close()
	return nil
}

// Close drains pending async writes and closes the log file.
func (l *Logger) Close() {
	l.mu.Lock()
	ch := l.asyncCh
	l.asyncCh = nil
	l.mu.Unlock()
	if ch != nil {
		close(ch)
		<-l.done
	}
	l.mu.Lock()
	fw := l.fileWriter
	l.fileWriter = nil
	l.mu.Unlock()
	fw.close()
}

func (l *Logger) startAsync(bufSize int) {
	l.asyncCh = make(chan []byte, bufSize)
	l.done = make(chan struct{})
	go func(ch chan []byte) {
		defer close(l.done)
		for line := range ch {
			l.emit(line)
		}
	}(l.asyncCh)
}

func (l *Logger) emit(line []byte) {
	l.mu.Lock()
	out, fw := l.out, l.fileWriter
	l.mu.Unlock()
	if out != nil {
		out.Write(line)
	}
	fw.write(line)
}

func (l *Logger) format(entry LogEntry) []byte {
	if l.jsonMode.Load() {
		line, _ := json.Marshal(entry)
		return append(line, '\n')
	}
	var sb strings.Builder
	sb.WriteString(entry.Time)
	sb.WriteString(" [")
	sb.WriteString(entry.Level)
	sb.WriteString("] [")
	sb.WriteString(entry.Category)
	sb.WriteString("]")
	if entry.RequestID != "" {
		sb.WriteString(" rid=")
		sb.WriteString(entry.RequestID)
	}
	sb.WriteString(" ")
	sb.WriteString(entry.Message)
	if len(entry.Fields) > 0 {
		keys := make([]string, 0, len(entry.Fields))
		for k := range entry.Fields {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			sb.WriteString(fmt.Sprintf(" %s=%v", k, entry.Fields[k]))
		}
	}
	sb.WriteString("\n")
	return []byte(sb.String())
}

func (l *Logger) write(entry LogEntry) {
	line := l.format(entry)

	l.mu.Lock()
	ch := l.asyncCh
	if ch == nil {
		l.mu.Unlock()
		l.emit(line)
		return
	}
	select {
	case ch <- line:
	default:
		// channel full, drop — 绝不阻塞
	}
	l.mu.Unlock()
}

// log records one entry; skip is the number of frames between the caller of
// the public helper and this function.
func (l *Logger) log(skip int, level Level, cat Category, requestID, msg string, fields map[string]interface{}) {
	if level < l.Level() {
		return
	}
	_, file, line, _ := runtime.Caller(skip + 1)
	if idx := strings.LastIndex(file, "/"); idx >= 0 {
		file = file[idx+1:]
	}

	l.write(LogEntry{
		Time:      time.Now().Format("2006-01-02 15:04:05.000"),
		Level:     level.String(),
		Category:  string(cat),
		RequestID: requestID,
		Message:   msg,
		Fields:    fields,
		Caller:    fmt.Sprintf("%s:%d", file, line),
	})
}

func (l *Logger) logf(level Level, cat Category, format string, args ...interface{}) {
	l.log(2, level, cat, "", fmt.Sprintf(format, args...), nil)
}

func (l *Logger) Infof(cat Category, format string, args ...interface{}) {
	l.logf(INFO, cat, format, args...)
}

func (l *Logger) Warnf(cat Category, format string, args ...interface{}) {
	l.logf(WARN, cat, format, args...)
}

func (l *Logger) Errorf(cat Category, format string, args ...interface{}) {
	l.logf(ERROR, cat, format, args...)
}

// ── ContextLogger: 请求级别上下文 ──

type ContextLogger struct {
	logger    *Logger
	requestID string
	category  Category
}

func NewContext(cat Category, requestID string) *ContextLogger {
	return &ContextLogger{
		logger:    Default(),
		requestID: requestID,
		category:  cat,
	}
}

func (c *ContextLogger) Debug(msg string, fields ...map[string]interface{}) {
	c.logger.log(1, DEBUG, c.category, c.requestID, msg, mergeFields(fields))
}

func (c *ContextLogger) Info(msg string, fields ...map[string]interface{}) {
	c.logger.log(1, INFO, c.category, c.requestID, msg, mergeFields(fields))
}

func (c *ContextLogger) Warn(msg string, fields ...map[string]interface{}) {
	c.logger.log(1, WARN, c.category, c.requestID, msg, mergeFields(fields))
}

func (c *ContextLogger) Error(msg string, fields ...map[string]interface{}) {
	c.logger.log(1, ERROR, c.category, c.requestID, msg, mergeFields(fields))
}

// ── Package-level convenience functions ──

func Debugf(cat Category, format string, args ...interface{}) {
	Default().logf(DEBUG, cat, format, args...)
}

func Infof(cat Category, format string, args ...interface{}) {
	Default().logf(INFO, cat, format, args...)
}

func Warnf(cat Category, format string, args ...interface{}) {
	Default().logf(WARN, cat, format, args...)
}

func Errorf(cat Category, format string, args ...interface{}) {
	Default().logf(ERROR, cat, format, args...)
}

// Fatalf logs, flushes the default logger and exits with status 1.
func Fatalf(cat Category, format string, args ...interface{}) {
	d := Default()
	d.logf(FATAL, cat, format, args...)
	d.Close()
	os.Exit(1)
}

func InfoFields(cat Category, msg string, fields map[string]interface{}) {
	Default().log(1, INFO, cat, "", msg, fields)
}

func WarnFields(cat Category, msg string, fields map[string]interface{}) {
	Default().log(1, WARN, cat, "", msg, fields)
}

func ErrorFields(cat Category, msg string, fields map[string]interface{}) {
	Default().log(1, ERROR, cat, "", msg, fields)
}

// F is a shorthand for map[string]interface{}
type F = map[string]interface{}

func mergeFields(fields []map[string]interface{}) map[string]interface{} {
	if len(fields) == 0 {
		return nil
	}
	return fields[0]
}

// TruncateBody truncates a string for logging
func TruncateBody(body string, maxLen int) string {
	if len(body) <= maxLen {
		return body
	}
	return body[:maxLen] + fmt.Sprintf("...(truncated, total %d bytes)", len(body))
}
