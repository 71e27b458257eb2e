package handler

import (
	"context"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/internal/download"
	"github.com/pavelc4/terabox-tg-bot/internal/messaging"
	"github.com/pavelc4/terabox-tg-bot/internal/telegram"
)

// Messenger is the chat surface handlers talk through.
type Messenger interface {
	Reply(ctx context.Context, peer tg.InputPeerClass, replyTo int, text string, markup tg.ReplyMarkupClass) (int, error)
	NewStatus(ctx context.Context, peer tg.InputPeerClass, replyTo int, text string) (download.StatusMessage, error)
	Delete(ctx context.Context, peer tg.InputPeerClass, msgID int) error
	AnswerCallback(ctx context.Context, queryID int64, text string, alert bool) error
}

type Gate interface {
	Allowed(ctx context.Context, user *tg.InputPeerUser) bool
}

type Transfers interface {
	Run(ctx context.Context, req download.Request) error
	Cancel(transferID string, userID int64) bool
	ActiveTransfers() int
}

// origin resolves where msg came from and who sent it.
func origin(e tg.Entities, msg *tg.Message) (tg.InputPeerClass, *tg.InputPeerUser, error) {
	peer, err := telegram.InputPeer(msg.PeerID, e)
	if err != nil {
		return nil, nil, errors.Wrap(err, "resolve chat")
	}

	senderID := messaging.SenderID(msg)
	if senderID == 0 {
		return nil, nil, errors.New("message has no user sender")
	}
	user, err := telegram.InputUser(senderID, e)
	if err != nil {
		return nil, nil, errors.Wrap(err, "resolve sender")
	}
	return peer, user, nil
}

// promptJoin asks the user to join the required channel.
func promptJoin(ctx context.Context, m Messenger, peer tg.InputPeerClass, replyTo int, tmpl, userName, channel string) error {
	text := messaging.FillTemplate(tmpl, userName, channel)
	_, err := m.Reply(ctx, peer, replyTo, text, messaging.ForceSubKeyboard(channel))
	return err
}
