package bot

import (
	"context"
	"strings"

	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/internal/messaging"
	"github.com/pavelc4/terabox-tg-bot/internal/provider"
	"github.com/pavelc4/terabox-tg-bot/internal/telegram"
	"github.com/pavelc4/terabox-tg-bot/pkg/logger"
)

type BasicHandler interface {
	HandleStart(ctx context.Context, e tg.Entities, msg *tg.Message) error
	HandleHelp(ctx context.Context, e tg.Entities, msg *tg.Message) error
	HandleCheckSub(ctx context.Context, e tg.Entities, u *tg.UpdateBotCallbackQuery) error
}

type DownloadHandler interface {
	HandleLink(ctx context.Context, e tg.Entities, msg *tg.Message, link string) error
	HandleCancel(ctx context.Context, u *tg.UpdateBotCallbackQuery, transferID string) error
}

type AdminHandler interface {
	HandleStats(ctx context.Context, e tg.Entities, msg *tg.Message) error
}

// Replier reports handler failures back to the chat.
type Replier interface {
	Reply(ctx context.Context, peer tg.InputPeerClass, replyTo int, text string, markup tg.ReplyMarkupClass) (int, error)
	AnswerCallback(ctx context.Context, queryID int64, text string, alert bool) error
}

type Router struct {
	download DownloadHandler
	admin    AdminHandler
	basic    BasicHandler
	replier  Replier
}

func NewRouter(dl DownloadHandler, adm AdminHandler, basic BasicHandler, r Replier) *Router {
	return &Router{
		download: dl,
		admin:    adm,
		basic:    basic,
		replier:  r,
	}
}

// OnMessage is the main entry point for updates
func (r *Router) OnMessage(ctx context.Context, e tg.Entities, update *tg.UpdateNewMessage) error {
	msg, ok := update.Message.(*tg.Message)
	if !ok {
		return nil
	}
	return r.handle(ctx, e, msg)
}

func (r *Router) OnChannelMessage(ctx context.Context, e tg.Entities, update *tg.UpdateNewChannelMessage) error {
	msg, ok := update.Message.(*tg.Message)
	if !ok {
		return nil
	}
	return r.handle(ctx, e, msg)
}

func (r *Router) handle(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	err := r.HandleMessage(ctx, e, msg)
	if err == nil {
		return nil
	}
	logger.Error("HandleMessage failed", "id", msg.ID, "error", err)

	if peer, perr := telegram.InputPeer(msg.PeerID, e); perr == nil {
		if _, rerr := r.replier.Reply(ctx, peer, msg.ID, messaging.ReplyGenericError, nil); rerr != nil {
			logger.Warn("Failed to send error reply", "error", rerr)
		}
	}
	return err
}

func (r *Router) HandleMessage(ctx context.Context, e tg.Entities, msg *tg.Message) error {
	if msg.Out || messaging.SenderID(msg) == 0 {
		return nil
	}
	logger.Debug("HandleMessage called", "id", msg.ID, "sender", messaging.SenderID(msg))

	switch command(msg.Message) {
	case "/start":
		return r.basic.HandleStart(ctx, e, msg)
	case "/help":
		return r.basic.HandleHelp(ctx, e, msg)
	case "/stats":
		return r.admin.HandleStats(ctx, e, msg)
	}

	if link := provider.ExtractURL(msg.Message); link != "" {
		return r.download.HandleLink(ctx, e, msg, provider.NormalizeURL(link))
	}
	return nil
}

// OnCallback routes inline button presses.
func (r *Router) OnCallback(ctx context.Context, e tg.Entities, u *tg.UpdateBotCallbackQuery) error {
	data := string(u.Data)

	var err error
	switch {
	case data == messaging.CallbackCheckSub:
		err = r.basic.HandleCheckSub(ctx, e, u)
	default:
		if id, ok := messaging.ParseCancelData(u.Data); ok {
			err = r.download.HandleCancel(ctx, u, id)
		} else {
			err = r.replier.AnswerCallback(ctx, u.QueryID, "", false)
		}
	}
	if err != nil {
		logger.Error("Callback failed", "data", data, "user", u.UserID, "error", err)
	}
	return err
}

// command returns the leading /command of text without any @botname
// suffix, or "" when text is not a command.
func command(text string) string {
	if !strings.HasPrefix(text, "/") {
		return ""
	}
	fields := strings.Fields(text)
	if len(fields) == 0 {
		return ""
	}
	cmd := fields[0]
	if idx := strings.IndexByte(cmd, '@'); idx != -1 {
		cmd = cmd[:idx]
	}
	return strings.ToLower(cmd)
}
