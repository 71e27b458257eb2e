package handler

import (
	"context"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/config"
	"github.com/pavelc4/terabox-tg-bot/internal/messaging"
	"github.com/pavelc4/terabox-tg-bot/internal/telegram"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

type BasicHandler struct {
	msgr Messenger
	gate Gate
	cfg  *config.Config
}

func NewBasicHandler(m Messenger, g Gate, cfg *config.Config) *BasicHandler {
	return &BasicHandler{msgr: m, gate: g, cfg: cfg}
}

func (h *BasicHandler) HandleStart(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	peer, user, err := origin(e, msg)
	if err != nil {
		return err
	}

	if !h.gate.Allowed(ctx, user) {
		logger.Info("Sending force sub message", "user", user.UserID)
		return promptJoin(ctx, h.msgr, peer, msg.ID, h.cfg.ForceSubMsg, messaging.SenderName(e, msg), h.cfg.ChannelUsername)
	}
	return h.sendStart(ctx, peer, msg.ID, messaging.SenderName(e, msg))
}

func (h *BasicHandler) HandleHelp(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	peer, err := telegram.InputPeer(msg.PeerID, e)
	if err != nil {
		return err
	}
	_, err = h.msgr.Reply(ctx, peer, msg.ID, messaging.HelpText, messaging.ChannelKeyboard(h.cfg.ChannelUsername))
	return err
}

// HandleCheckSub re-checks membership after the user pressed "Check Again".
func (h *BasicHandler) HandleCheckSub(ctx context.Context, e tg.Entities, u *tg.UpdateBotCallbackQuery) error {
	user, err := telegram.InputUser(u.UserID, e)
	if err != nil {
		return err
	}

	if !h.gate.Allowed(ctx, user) {
		logger.Info("User still not subscribed", "user", u.UserID)
		return h.msgr.AnswerCallback(ctx, u.QueryID, messaging.AlertJoinFirst, true)
	}

	logger.Info("Subscription verified", "user", u.UserID)
	if err := h.msgr.AnswerCallback(ctx, u.QueryID, "", false); err != nil {
		logger.Warn("Failed to answer callback", "error", err)
	}

	peer, err := telegram.InputPeer(u.Peer, e)
	if err != nil {
		return err
	}
	if err := h.msgr.Delete(ctx, peer, u.MsgID); err != nil {
		logger.Warn("Failed to delete join prompt", "msg_id", u.MsgID, "error", err)
	}
	return h.sendStart(ctx, peer, 0, messaging.UserName(e.Users[u.UserID]))
}

func (h *BasicHandler) sendStart(ctx context.Context, peer tg.InputPeerClass, replyTo int, userName string) error {
	text := messaging.FillTemplate(h.cfg.StartMsg, userName, h.cfg.ChannelUsername)
	_, err := h.msgr.Reply(ctx, peer, replyTo, text, messaging.ChannelKeyboard(h.cfg.ChannelUsername))
	return err
}
