package ipc

import (
	"bytes"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"webshell/internal/logger"
)

func TestRecorderKeepsRecent(t *testing.T) {
	r := NewRecorder(3)
	base := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	tick := 0
	r.now = func() time.Time {
		tick++
		return base.Add(time.Duration(tick) * time.Second)
	}

	for i := 0; i < 5; i++ {
		r.Receive(fmt.Sprintf("m%d", i))
	}

	recent := r.Recent()
	require.Len(t, recent, 3)
	require.Equal(t, "m2", recent[0].Body)
	require.Equal(t, "m4", recent[2].Body)
	require.True(t, recent[0].Time.Before(recent[2].Time))
	require.Equal(t, 5, r.Total())
}

func TestRecorderDefaultCapacity(t *testing.T) {
	r := NewRecorder(0)
	require.Equal(t, 500, r.limit)
}

func TestRecorderConcurrent(t *testing.T) {
	r := NewRecorder(1000)
	var wg sync.WaitGroup
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				r.Receive(fmt.Sprintf("%d-%d", i, j))
			}
		}(i)
	}
	wg.Wait()

	require.Equal(t, 400, r.Total())
	require.Len(t, r.Recent(), 400)
}

func TestRecentIsCopy(t *testing.T) {
	r := NewRecorder(2)
	r.Receive("a")
	got := r.Recent()
	got[0].Body = "mutated"
	require.Equal(t, "a", r.Recent()[0].Body)
}

func TestRecorderLogSummary(t *testing.T) {
	var buf bytes.Buffer
	prev := logger.SetDefault(logger.New(&buf, logger.INFO))
	t.Cleanup(func() { logger.SetDefault(prev) })

	r := NewRecorder(2)
	r.now = func() time.Time { return time.Date(2024, 1, 1, 8, 0, 0, 0, time.UTC) }
	r.LogSummary()
	require.Contains(t, buf.String(), "session summary retained=0 total=0")

	for _, m := range []string{"a", "b", "c"} {
		r.Receive(m)
	}
	buf.Reset()
	r.LogSummary()
	out := buf.String()
	require.Contains(t, out, "[INFO] [IPC] session summary")
	require.Contains(t, out, "last=c last_at=2024-01-01T08:00:00Z retained=2 total=3")
}
