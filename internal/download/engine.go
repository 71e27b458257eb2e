package download

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/internal/cache"
	"github.com/pavelc4/terabox-tg-bot/internal/messaging"
	"github.com/pavelc4/terabox-tg-bot/internal/provider"
	"github.com/pavelc4/terabox-tg-bot/internal/stats"
	"github.com/pavelc4/terabox-tg-bot/internal/streaming"
	pkghttp "github.com/pavelc4/terabox-tg-bot/pkg/http"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
	"github.com/pavelc4/terabox-tg-bot/pkg/utils"
)

type Options struct {
	// DownloadDir holds one subdirectory per running transfer.
	DownloadDir string
	// Channel is the public channel named in the relay caption.
	Channel string
	// Dump receives every file before it is relayed.
	Dump tg.InputPeerClass
	// UploadProgress renders progress while uploading to Dump.
	UploadProgress bool
}

// Request is one link submitted by a user.
type Request struct {
	Link   string
	UserID int64
	// Chat is where the requester receives the file.
	Chat   tg.InputPeerClass
	Status StatusMessage
}

type Engine struct {
	opts       Options
	providers  *provider.Registry
	streams    *streaming.Manager
	sender     MediaSender
	dispatcher *Dispatcher
	cache      *cache.Cache
	stats      *stats.BotStats
	now        func() time.Time
}

func NewEngine(opts Options, providers *provider.Registry, streams *streaming.Manager, sender MediaSender, c *cache.Cache, st *stats.BotStats) *Engine {
	if c == nil {
		c = cache.New()
	}
	if st == nil {
		st = stats.New()
	}
	return &Engine{
		opts:       opts,
		providers:  providers,
		streams:    streams,
		sender:     sender,
		dispatcher: NewDispatcher(sender),
		cache:      c,
		stats:      st,
		now:        time.Now,
	}
}

// Cancel flags the transfer as cancelled if userID started it.
func (e *Engine) Cancel(transferID string, userID int64) bool {
	return e.streams.Cancel(transferID, userID)
}

func (e *Engine) ActiveTransfers() int {
	return e.streams.GetActiveStreams()
}

// Run takes a link through resolve, download, dump upload and relay. The
// status message always ends with exactly one terminal line, and the
// transfer directory is removed on every path. The returned error is
// already reported to the user.
func (e *Engine) Run(ctx context.Context, req Request) error {
	start := e.now()
	req.Link = provider.NormalizeURL(req.Link)

	prov, err := e.providers.Find(req.Link)
	if err != nil {
		err = &Error{Kind: KindUnsupported, Err: err}
		e.edit(ctx, req.Status, StatusText(err))
		return err
	}

	if e.relayCached(ctx, req) {
		logger.InfoWithDuration("Served from cache", start, "user", req.UserID, "link", req.Link)
		return nil
	}

	state, finish, err := e.streams.Begin(ctx, req.UserID)
	if err != nil {
		return e.finish(ctx, req, "", 0, start, classify(err, KindUnexpected))
	}
	defer finish()

	kind, size, err := e.transfer(ctx, prov, req, state)
	return e.finish(ctx, req, kind, size, start, err)
}

func (e *Engine) transfer(ctx context.Context, prov provider.Provider, req Request, state *streaming.StreamState) (string, int64, error) {
	log := logger.Log.With("transfer", state.ID, "user", req.UserID)
	dir := filepath.Join(e.opts.DownloadDir, state.ID)
	defer func() {
		if err := utils.RemoveArtifact(dir); err != nil {
			log.Error("Failed to cleanup transfer", "path", dir, "error", err)
			return
		}
		log.Debug("Cleaned up transfer", "path", dir)
	}()

	src, err := prov.Open(ctx, req.Link)
	if err != nil {
		var se *pkghttp.StatusError
		if errors.As(err, &se) {
			return "", 0, &Error{Kind: KindUpstream, Code: se.Code, Err: err}
		}
		return "", 0, classify(err, KindUnexpected)
	}
	defer src.Body.Close()

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", 0, classify(errors.Wrap(err, "create transfer dir"), KindUnexpected)
	}
	path := filepath.Join(dir, src.Filename)
	log.Info("Downloading", "provider", prov.Name(), "file", src.Filename, "size", src.Size)

	e.edit(ctx, req.Status, messaging.StatusDownloading)
	size, err := e.download(ctx, req.Status, state, src, path)
	if err != nil {
		return "", size, classify(err, KindUnexpected)
	}

	e.edit(ctx, req.Status, messaging.StatusUploadToDump)
	var progress Progress = NopProgress{}
	if e.opts.UploadProgress {
		progress = NewReporter(req.Status, messaging.PhaseUpload, state.ID, e.now)
	}
	media, kind, err := e.dispatcher.Send(ctx, req.Status, e.opts.Dump, path,
		messaging.DumpCaption(req.UserID, req.Link), cancelGuard{state: state, next: progress})
	if err != nil {
		return kind.String(), size, classify(err, KindUploadFailed)
	}
	if media.Filename == "" {
		media.Filename = src.Filename
	}
	if media.Size == 0 {
		media.Size = size
	}
	e.cache.Set(req.Link, media)

	if err := e.sender.Copy(ctx, media, req.Chat, messaging.RelayCaption(e.opts.Channel)); err != nil {
		return kind.String(), size, &Error{Kind: KindRelayFailed, Err: err}
	}
	e.edit(ctx, req.Status, messaging.StatusSent)
	return kind.String(), size, nil
}

func (e *Engine) download(ctx context.Context, status StatusMessage, state *streaming.StreamState, src *provider.Source, path string) (int64, error) {
	f, err := os.Create(path)
	if err != nil {
		return 0, errors.Wrap(err, "create file")
	}

	reporter := NewReporter(status, messaging.PhaseDownload, state.ID, e.now)
	n, err := streaming.CopyChunks(ctx, f, src.Body, src.Size, state, func(done, total int64) {
		_ = reporter.Report(ctx, done, total)
	})
	if closeErr := f.Close(); err == nil && closeErr != nil {
		err = errors.Wrap(closeErr, "close file")
	}
	return n, err
}

// relayCached sends a previously uploaded copy of the link and records the
// request in the dump channel like a fresh transfer would. A stale entry is
// dropped so the caller falls back to a fresh transfer.
func (e *Engine) relayCached(ctx context.Context, req Request) bool {
	media := e.cache.Get(req.Link)
	if media == nil {
		return false
	}

	if err := e.sender.Copy(ctx, media, req.Chat, messaging.RelayCaption(e.opts.Channel)); err != nil {
		logger.Warn("Failed to send cached media, falling back to download", "link", req.Link, "error", err)
		e.cache.Delete(req.Link)
		return false
	}
	if err := e.sender.Copy(ctx, media, e.opts.Dump, messaging.DumpCaption(req.UserID, req.Link)); err != nil {
		logger.Warn("Failed to record cached relay in dump channel", "link", req.Link, "error", err)
	}

	e.edit(ctx, req.Status, messaging.StatusSent)
	e.stats.RecordCacheHit(req.UserID)
	return true
}

func (e *Engine) finish(ctx context.Context, req Request, kind string, size int64, start time.Time, err error) error {
	if err == nil {
		logger.InfoWithDuration("Transfer completed", start, "user", req.UserID, "kind", kind, "size", size)
		e.stats.RecordTransfer(req.UserID, kind, size, stats.OutcomeSuccess)
		return nil
	}

	e.edit(ctx, req.Status, StatusText(err))

	outcome := stats.OutcomeFailed
	if KindOf(err) == KindCancelled {
		outcome = stats.OutcomeCancelled
		logger.InfoWithDuration("Transfer cancelled", start, "user", req.UserID)
	} else {
		logger.ErrorWithDuration("Transfer failed", start, "user", req.UserID, "link", req.Link, "error", err)
	}
	e.stats.RecordTransfer(req.UserID, kind, size, outcome)
	return err
}

func (e *Engine) edit(ctx context.Context, status StatusMessage, text string) {
	if err := status.Edit(ctx, text, nil); err != nil {
		logger.Warn("Failed to update status", "error", err)
	}
}
