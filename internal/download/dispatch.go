package download

import (
	"context"
	"path/filepath"
	"strings"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/internal/cache"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

type MediaKind int

const (
	MediaDocument MediaKind = iota
	MediaVideo
	MediaPhoto
	MediaAudio
)

func (k MediaKind) String() string {
	switch k {
	case MediaVideo:
		return "video"
	case MediaPhoto:
		return "photo"
	case MediaAudio:
		return "audio"
	default:
		return "document"
	}
}

var mediaByExt = map[string]MediaKind{
	".mp4":  MediaVideo,
	".mkv":  MediaVideo,
	".avi":  MediaVideo,
	".webm": MediaVideo,
	".jpg":  MediaPhoto,
	".jpeg": MediaPhoto,
	".png":  MediaPhoto,
	".webp": MediaPhoto,
	".mp3":  MediaAudio,
	".m4a":  MediaAudio,
	".ogg":  MediaAudio,
	".opus": MediaAudio,
}

// KindOfFile picks the upload primitive from the file extension,
// case-insensitively. Anything unknown is sent as a document.
func KindOfFile(name string) MediaKind {
	if kind, ok := mediaByExt[strings.ToLower(filepath.Ext(name))]; ok {
		return kind
	}
	return MediaDocument
}

// MediaSender uploads local files to a chat and re-sends stored media.
type MediaSender interface {
	SendVideo(ctx context.Context, to tg.InputPeerClass, path, caption string, p Progress) (*cache.CachedMedia, error)
	SendAudio(ctx context.Context, to tg.InputPeerClass, path, caption string, p Progress) (*cache.CachedMedia, error)
	SendDocument(ctx context.Context, to tg.InputPeerClass, path, caption string, p Progress) (*cache.CachedMedia, error)
	SendPhoto(ctx context.Context, to tg.InputPeerClass, path, caption string) (*cache.CachedMedia, error)
	// Copy sends media to a chat as a new message, without a forward header.
	Copy(ctx context.Context, media *cache.CachedMedia, to tg.InputPeerClass, caption string) error
}

var uploadingText = map[MediaKind]string{
	MediaVideo:    "📤 Uploading video...",
	MediaPhoto:    "📤 Uploading photo...",
	MediaAudio:    "📤 Uploading audio...",
	MediaDocument: "📤 Uploading file...",
}

var errNoMedia = errors.New("upload returned no media")

type Dispatcher struct {
	sender MediaSender
}

func NewDispatcher(sender MediaSender) *Dispatcher {
	return &Dispatcher{sender: sender}
}

// Send announces the upload on status and sends path with the primitive
// matching its extension. Photos never report progress.
func (d *Dispatcher) Send(ctx context.Context, status StatusMessage, to tg.InputPeerClass, path, caption string, p Progress) (*cache.CachedMedia, MediaKind, error) {
	if p == nil {
		p = NopProgress{}
	}

	kind := KindOfFile(path)
	if err := status.Edit(ctx, uploadingText[kind], nil); err != nil {
		logger.Warn("Failed to update status", "error", err)
	}

	var (
		media *cache.CachedMedia
		err   error
	)
	switch kind {
	case MediaVideo:
		media, err = d.sender.SendVideo(ctx, to, path, caption, p)
	case MediaPhoto:
		media, err = d.sender.SendPhoto(ctx, to, path, caption)
	case MediaAudio:
		media, err = d.sender.SendAudio(ctx, to, path, caption, p)
	default:
		media, err = d.sender.SendDocument(ctx, to, path, caption, p)
	}
	if err != nil {
		return nil, kind, errors.Wrapf(err, "send %s", kind)
	}
	if media == nil {
		return nil, kind, errNoMedia
	}
	return media, kind, nil
}
