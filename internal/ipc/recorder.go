// Package ipc receives one-way messages posted by webview content.
package ipc

import (
	"sync"
	"time"

	"webshell/internal/logger"
)

// EventName is the runtime event content emits to reach the host:
//
//	window.runtime.EventsEmit("ipc", "hello")
const EventName = "ipc"

const maxLoggedBody = 512

type Message struct {
	Time time.Time
	Body string
}

// Recorder logs every inbound message and keeps the most recent ones. There
// is no reply path.
type Recorder struct {
	mu      sync.Mutex
	history []Message
	limit   int
	total   int
	now     func() time.Time
}

func NewRecorder(limit int) *Recorder {
	if limit <= 0 {
		limit = 500
	}
	return &Recorder{limit: limit, now: time.Now}
}

// Receive records msg.
func (r *Recorder) Receive(msg string) {
	logger.InfoFields(logger.CatIPC, "message", logger.F{
		"size": len(msg),
		"body": logger.TruncateBody(msg, maxLoggedBody),
	})

	r.mu.Lock()
	defer r.mu.Unlock()
	r.total++
	r.history = append(r.history, Message{Time: r.now(), Body: msg})
	if len(r.history) > r.limit {
		r.history = r.history[len(r.history)-r.limit:]
	}
}

// Recent returns a copy of the retained messages, oldest first.
func (r *Recorder) Recent() []Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]Message, len(r.history))
	copy(out, r.history)
	return out
}

// Total counts every message received, including ones no longer retained.
func (r *Recorder) Total() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.total
}

// LogSummary logs the session totals and the last retained message. Called
// once the loop has exited.
func (r *Recorder) LogSummary() {
	recent := r.Recent()
	fields := logger.F{
		"total":    r.Total(),
		"retained": len(recent),
	}
	if n := len(recent); n > 0 {
		last := recent[n-1]
		fields["last_at"] = last.Time.Format(time.RFC3339)
		fields["last"] = logger.TruncateBody(last.Body, 128)
	}
	logger.InfoFields(logger.CatIPC, "session summary", fields)
}
