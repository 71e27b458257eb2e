package telegram

import (
	"context"
	"path/filepath"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/internal/cache"
	"github.com/pavelc4/terabox-tg-bot/internal/download"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

const (
	defaultVideoWidth  = 1280
	defaultVideoHeight = 720
)

// MediaSender uploads local files and re-sends stored media.
type MediaSender struct {
	api *tg.Client
}

func NewMediaSender(api *tg.Client) *MediaSender {
	return &MediaSender{api: api}
}

func (s *MediaSender) SendVideo(ctx context.Context, to tg.InputPeerClass, path, caption string, p download.Progress) (*cache.CachedMedia, error) {
	file, err := upload(ctx, s.api, path, p)
	if err != nil {
		return nil, err
	}

	logger.Debug("Creating video document", "file", filepath.Base(path))
	return s.send(ctx, to, &tg.InputMediaUploadedDocument{
		File:     file,
		MimeType: detectMIME(path, "video/mp4"),
		Attributes: []tg.DocumentAttributeClass{
			&tg.DocumentAttributeVideo{
				SupportsStreaming: true,
				W:                 defaultVideoWidth,
				H:                 defaultVideoHeight,
			},
			&tg.DocumentAttributeFilename{FileName: filepath.Base(path)},
		},
	}, caption)
}

func (s *MediaSender) SendAudio(ctx context.Context, to tg.InputPeerClass, path, caption string, p download.Progress) (*cache.CachedMedia, error) {
	file, err := upload(ctx, s.api, path, p)
	if err != nil {
		return nil, err
	}

	name := filepath.Base(path)
	return s.send(ctx, to, &tg.InputMediaUploadedDocument{
		File:     file,
		MimeType: detectMIME(path, "audio/mpeg"),
		Attributes: []tg.DocumentAttributeClass{
			&tg.DocumentAttributeAudio{
				Title: strings.TrimSuffix(name, filepath.Ext(name)),
			},
			&tg.DocumentAttributeFilename{FileName: name},
		},
	}, caption)
}

func (s *MediaSender) SendDocument(ctx context.Context, to tg.InputPeerClass, path, caption string, p download.Progress) (*cache.CachedMedia, error) {
	file, err := upload(ctx, s.api, path, p)
	if err != nil {
		return nil, err
	}

	return s.send(ctx, to, &tg.InputMediaUploadedDocument{
		File:       file,
		MimeType:   detectMIME(path, "application/octet-stream"),
		ForceFile:  true,
		Attributes: []tg.DocumentAttributeClass{
			&tg.DocumentAttributeFilename{FileName: filepath.Base(path)},
		},
	}, caption)
}

func (s *MediaSender) SendPhoto(ctx context.Context, to tg.InputPeerClass, path, caption string) (*cache.CachedMedia, error) {
	file, err := upload(ctx, s.api, path, nil)
	if err != nil {
		return nil, err
	}
	return s.send(ctx, to, &tg.InputMediaUploadedPhoto{File: file}, caption)
}

// Copy sends already stored media as a new message, so the recipient sees
// no forward header.
func (s *MediaSender) Copy(ctx context.Context, media *cache.CachedMedia, to tg.InputPeerClass, caption string) error {
	_, err := s.api.MessagesSendMedia(ctx, &tg.MessagesSendMediaRequest{
		Peer:     to,
		Media:    media.Input(),
		Message:  caption,
		RandomID: time.Now().UnixNano(),
	})
	if err != nil {
		return errors.Wrap(err, "send stored media")
	}
	return nil
}

func (s *MediaSender) send(ctx context.Context, to tg.InputPeerClass, media tg.InputMediaClass, caption string) (*cache.CachedMedia, error) {
	updates, err := s.api.MessagesSendMedia(ctx, &tg.MessagesSendMediaRequest{
		Peer:     to,
		Media:    media,
		Message:  caption,
		RandomID: time.Now().UnixNano(),
	})
	if err != nil {
		return nil, errors.Wrap(err, "send media")
	}

	stored := getMediaFromUpdates(updates)
	if stored == nil {
		logger.Warn("Sent media message carries no file", "updates", updates.TypeName())
	}
	return stored, nil
}

// detectMIME sniffs the file content and falls back to def when the
// result is not specific.
func detectMIME(path, def string) string {
	m, err := mimetype.DetectFile(path)
	if err != nil || m.Is("application/octet-stream") || m.Is("text/plain") {
		return def
	}
	return m.String()
}
