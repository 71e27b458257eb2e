package download

import (
	"context"
	"sync"
	"time"

	"github.com/gotd/td/tg"
	"golang.org/x/time/rate"

	"github.com/pavelc4/terabox-tg-bot/internal/messaging"
	"github.com/pavelc4/terabox-tg-bot/internal/streaming"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

// ProgressInterval is the minimum gap between two progress renders of
// one transfer phase.
const ProgressInterval = 3 * time.Second

// Progress receives byte counts of a running download or upload. A
// non-nil error aborts the operation reporting it.
type Progress interface {
	Report(ctx context.Context, done, total int64) error
}

type NopProgress struct{}

func (NopProgress) Report(context.Context, int64, int64) error { return nil }

// StatusMessage is the editable status message of one request. text may
// carry HTML-lite tags; markup may be nil.
type StatusMessage interface {
	Edit(ctx context.Context, text string, markup tg.ReplyMarkupClass) error
}

// Reporter renders progress into a status message, at most once per
// ProgressInterval. The render reaching the total is never throttled.
type Reporter struct {
	status  StatusMessage
	phase   messaging.Phase
	markup  tg.ReplyMarkupClass
	limiter *rate.Limiter
	start   time.Time
	now     func() time.Time

	mu       sync.Mutex
	maxDone  int64
	finished bool
}

func NewReporter(status StatusMessage, phase messaging.Phase, transferID string, now func() time.Time) *Reporter {
	if now == nil {
		now = time.Now
	}
	return &Reporter{
		status:  status,
		phase:   phase,
		markup:  messaging.CancelKeyboard(transferID),
		limiter: rate.NewLimiter(rate.Every(ProgressInterval), 1),
		start:   now(),
		now:     now,
	}
}

// Report renders the snapshot if the throttle allows. Edit failures are
// logged and never returned.
func (r *Reporter) Report(ctx context.Context, done, total int64) error {
	if total <= 0 {
		return nil
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.finished || done < r.maxDone {
		return nil
	}
	r.maxDone = done

	now := r.now()
	final := done >= total
	if !r.limiter.AllowN(now, 1) && !final {
		return nil
	}
	r.finished = final

	text := messaging.RenderProgress(r.phase, messaging.NewSnapshot(done, total, r.start, now))
	if err := r.status.Edit(ctx, text, r.markup); err != nil {
		logger.Warn("Failed to update progress", "phase", r.phase.String(), "error", err)
	}
	return nil
}

// cancelGuard aborts the wrapped operation once the transfer is cancelled.
type cancelGuard struct {
	state *streaming.StreamState
	next  Progress
}

func (g cancelGuard) Report(ctx context.Context, done, total int64) error {
	if err := g.state.Err(); err != nil {
		return err
	}
	return g.next.Report(ctx, done, total)
}
