package telegram

import (
	"context"
	"time"

	"github.com/go-faster/errors"
	"github.com/gotd/td/tg"
	"github.com/gotd/td/tgerr"

	"github.com/pavelc4/terabox-tg-bot/internal/download"
	"github.com/pavelc4/terabox-tg-bot/internal/messaging"
)

// Messenger sends, edits and deletes bot messages. Message texts may
// carry the HTML-lite tags understood by messaging.ParseCaptionEntities.
type Messenger struct {
	api *tg.Client
}

func NewMessenger(api *tg.Client) *Messenger {
	return &Messenger{api: api}
}

// Reply sends text to peer, as a reply when replyTo is non-zero, and
// returns the new message ID.
func (m *Messenger) Reply(ctx context.Context, peer tg.InputPeerClass, replyTo int, text string, markup tg.ReplyMarkupClass) (int, error) {
	plain, entities := messaging.ParseCaptionEntities(text)
	req := &tg.MessagesSendMessageRequest{
		Peer:        peer,
		Message:     plain,
		Entities:    entities,
		ReplyMarkup: markup,
		NoWebpage:   true,
		RandomID:    time.Now().UnixNano(),
	}
	if replyTo != 0 {
		req.ReplyTo = &tg.InputReplyToMessage{ReplyToMsgID: replyTo}
	}

	updates, err := m.api.MessagesSendMessage(ctx, req)
	if err != nil {
		return 0, errors.Wrap(err, "send message")
	}
	return getMsgID(updates), nil
}

// NewStatus replies with text and returns the message as an editable
// status.
func (m *Messenger) NewStatus(ctx context.Context, peer tg.InputPeerClass, replyTo int, text string) (download.StatusMessage, error) {
	id, err := m.Reply(ctx, peer, replyTo, text, nil)
	if err != nil {
		return nil, err
	}
	return &Status{api: m.api, peer: peer, msgID: id}, nil
}

func (m *Messenger) Delete(ctx context.Context, peer tg.InputPeerClass, msgID int) error {
	if ch, ok := peer.(*tg.InputPeerChannel); ok {
		_, err := m.api.ChannelsDeleteMessages(ctx, &tg.ChannelsDeleteMessagesRequest{
			Channel: &tg.InputChannel{ChannelID: ch.ChannelID, AccessHash: ch.AccessHash},
			ID:      []int{msgID},
		})
		return errors.Wrap(err, "delete channel message")
	}

	_, err := m.api.MessagesDeleteMessages(ctx, &tg.MessagesDeleteMessagesRequest{
		ID:     []int{msgID},
		Revoke: true,
	})
	return errors.Wrap(err, "delete message")
}

// AnswerCallback acknowledges a button press, as a popup when alert is set.
func (m *Messenger) AnswerCallback(ctx context.Context, queryID int64, text string, alert bool) error {
	_, err := m.api.MessagesSetBotCallbackAnswer(ctx, &tg.MessagesSetBotCallbackAnswerRequest{
		QueryID: queryID,
		Message: text,
		Alert:   alert,
	})
	return errors.Wrap(err, "answer callback")
}

// Status is a sent message that is edited in place.
type Status struct {
	api   *tg.Client
	peer  tg.InputPeerClass
	msgID int
}

func (s *Status) ID() int {
	return s.msgID
}

// Edit replaces the text and keyboard. Edits with unchanged content are
// not an error.
func (s *Status) Edit(ctx context.Context, text string, markup tg.ReplyMarkupClass) error {
	if s.msgID == 0 {
		return errors.New("status message has no id")
	}

	plain, entities := messaging.ParseCaptionEntities(text)
	_, err := s.api.MessagesEditMessage(ctx, &tg.MessagesEditMessageRequest{
		Peer:        s.peer,
		ID:          s.msgID,
		Message:     plain,
		Entities:    entities,
		ReplyMarkup: markup,
		NoWebpage:   true,
	})
	if err != nil && !tgerr.Is(err, "MESSAGE_NOT_MODIFIED") {
		return errors.Wrap(err, "edit message")
	}
	return nil
}
