package streaming

import (
	"errors"
	"sync/atomic"
	"time"
)

var ErrCancelled = errors.New("transfer cancelled")

type Config struct {
	MaxConcurrentStreams int
}

// StreamState is the per-transfer shared state. The cancel flag is polled
// by the copy loop and the upload progress sink of this transfer only.
type StreamState struct {
	ID          string
	RequesterID int64
	StartedAt   time.Time

	cancelled atomic.Bool
	done      atomic.Int64
	total     atomic.Int64
}

// Cancel sets the flag and reports whether this call set it.
func (s *StreamState) Cancel() bool {
	return s.cancelled.CompareAndSwap(false, true)
}

func (s *StreamState) Cancelled() bool {
	return s.cancelled.Load()
}

// Err returns ErrCancelled once the transfer was cancelled.
func (s *StreamState) Err() error {
	if s.Cancelled() {
		return ErrCancelled
	}
	return nil
}

func (s *StreamState) Progress() (done, total int64) {
	return s.done.Load(), s.total.Load()
}

func (s *StreamState) setProgress(done, total int64) {
	s.done.Store(done)
	s.total.Store(total)
}
