package handler

import (
	"context"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/config"
	"github.com/pavelc4/terabox-tg-bot/internal/download"
	"github.com/pavelc4/terabox-tg-bot/internal/messaging"
	"github.com/pavelc4/terabox-tg-bot/internal/provider"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

type DownloadHandler struct {
	msgr      Messenger
	gate      Gate
	transfers Transfers
	providers *provider.Registry
	cfg       *config.Config
}

func NewDownloadHandler(m Messenger, g Gate, t Transfers, providers *provider.Registry, cfg *config.Config) *DownloadHandler {
	return &DownloadHandler{
		msgr:      m,
		gate:      g,
		transfers: t,
		providers: providers,
		cfg:       cfg,
	}
}

// HandleLink runs a transfer for link. Transfer failures are reported on
// the status message and not returned.
func (h *DownloadHandler) HandleLink(ctx context.Context, e tg.Entities, msg *tg.Message, link string) error {
	peer, user, err := origin(e, msg)
	if err != nil {
		return err
	}

	if !h.gate.Allowed(ctx, user) {
		logger.Info("Sending force sub message", "user", user.UserID)
		return promptJoin(ctx, h.msgr, peer, msg.ID, h.cfg.ForceSubMsg, messaging.SenderName(e, msg), h.cfg.ChannelUsername)
	}

	if !h.providers.IsSupported(link) {
		_, err := h.msgr.Reply(ctx, peer, msg.ID, messaging.StatusUnsupported, nil)
		return err
	}

	logger.Info("Processing link", "user", user.UserID, "link", link)
	status, err := h.msgr.NewStatus(ctx, peer, msg.ID, messaging.StatusProcessing)
	if err != nil {
		return err
	}

	err = h.transfers.Run(ctx, download.Request{
		Link:   link,
		UserID: user.UserID,
		Chat:   peer,
		Status: status,
	})
	if err != nil {
		logger.Debug("Transfer ended with error", "user", user.UserID, "kind", download.KindOf(err).String())
	}
	return nil
}

// HandleCancel stops the transfer named by a cancel button, if the
// presser started it.
func (h *DownloadHandler) HandleCancel(ctx context.Context, u *tg.UpdateBotCallbackQuery, transferID string) error {
	if !h.transfers.Cancel(transferID, u.UserID) {
		return h.msgr.AnswerCallback(ctx, u.QueryID, messaging.AnswerNothingToDo, false)
	}
	logger.Info("Download cancelled by user", "user", u.UserID, "transfer", transferID)
	return h.msgr.AnswerCallback(ctx, u.QueryID, messaging.AnswerCancelling, false)
}
