package telegram

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/gotd/td/telegram/uploader"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/internal/download"
)

// uploadProgress bridges gotd's uploader callbacks to download.Progress.
// An error from the sink aborts the upload.
type uploadProgress struct {
	sink download.Progress
}

func (p uploadProgress) Chunk(ctx context.Context, state uploader.ProgressState) error {
	return p.sink.Report(ctx, state.Uploaded, state.Total)
}

// upload streams the file at path to Telegram in parts.
func upload(ctx context.Context, api *tg.Client, path string, p download.Progress) (tg.InputFileClass, error) {
	u := uploader.NewUploader(api)
	if p != nil {
		u = u.WithProgress(uploadProgress{sink: p})
	}

	file, err := u.FromPath(ctx, path)
	if err != nil {
		return nil, errors.Wrap(err, "upload")
	}
	return file, nil
}
