package stats

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStats(now time.Time) *BotStats {
	s := New()
	s.StartTime = now.Add(-time.Hour)
	s.now = func() time.Time { return now }
	return s
}

func TestRecordTransfer(t *testing.T) {
	now := time.Date(2024, 5, 17, 12, 0, 0, 0, time.UTC)
	s := newTestStats(now)

	s.RecordTransfer(1, "video", 1000, OutcomeSuccess)
	s.RecordTransfer(1, "photo", 50, OutcomeSuccess)
	s.RecordTransfer(2, "", 0, OutcomeFailed)
	s.RecordTransfer(3, "", 400, OutcomeCancelled)
	s.RecordCacheHit(4)

	snap := s.Snapshot()
	assert.Equal(t, int64(4), snap.Transfers)
	assert.Equal(t, int64(2), snap.Success)
	assert.Equal(t, int64(1), snap.Failed)
	assert.Equal(t, int64(1), snap.Cancelled)
	assert.Equal(t, int64(1), snap.CacheHits)
	assert.Equal(t, int64(1050), snap.TotalBytes, "only delivered bytes count")
	assert.Equal(t, 4, snap.UniqueUsers)
	assert.Equal(t, map[string]int64{"video": 1, "photo": 1}, snap.Kinds)
	assert.Equal(t, time.Hour, snap.Uptime)

	assert.Equal(t, int64(4), snap.Today.Transfers)
	assert.Equal(t, int64(1050), snap.Today.Bytes)
	assert.Len(t, snap.Today.Users, 3)
	assert.Equal(t, int64(4), snap.Month.Transfers)
	assert.Equal(t, "50.0%", snap.SuccessRate())
}

func TestSnapshotIsACopy(t *testing.T) {
	s := newTestStats(time.Now())
	s.RecordTransfer(1, "audio", 1, OutcomeSuccess)

	snap := s.Snapshot()
	snap.Kinds["audio"] = 100
	snap.Today.Users[99] = true

	again := s.Snapshot()
	assert.Equal(t, int64(1), again.Kinds["audio"])
	assert.Len(t, again.Today.Users, 1)
}

func TestEmptySnapshot(t *testing.T) {
	snap := newTestStats(time.Now()).Snapshot()
	assert.Equal(t, "-", snap.SuccessRate())
	assert.Zero(t, snap.Today.Transfers)
	require.NotNil(t, snap.Today.Users)
}

func TestRecordTransferConcurrent(t *testing.T) {
	s := New()
	var wg sync.WaitGroup
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func(id int64) {
			defer wg.Done()
			s.RecordTransfer(id, "document", 10, OutcomeSuccess)
		}(int64(i))
	}
	wg.Wait()
	assert.Equal(t, int64(50), s.Snapshot().Success)
	assert.Equal(t, int64(500), s.Snapshot().TotalBytes)
}
