package telegram

import (
	"github.com/gotd/td/tg"

	"github.com/pavelc4/terabox-tg-bot/internal/cache"
)

func getMsgID(updates tg.UpdatesClass) int {
	switch u := updates.(type) {
	case *tg.UpdateShortSentMessage:
		return u.ID
	case *tg.Updates:
		if msg := sentMessage(u.Updates); msg != nil {
			return msg.ID
		}
		for _, update := range u.Updates {
			if m, ok := update.(*tg.UpdateMessageID); ok {
				return m.ID
			}
		}
	}
	return 0
}

func sentMessage(updates []tg.UpdateClass) *tg.Message {
	for _, update := range updates {
		switch m := update.(type) {
		case *tg.UpdateNewMessage:
			if msg, ok := m.Message.(*tg.Message); ok {
				return msg
			}
		case *tg.UpdateNewChannelMessage:
			if msg, ok := m.Message.(*tg.Message); ok {
				return msg
			}
		}
	}
	return nil
}

// getMediaFromUpdates extracts the stored file of a sent media message.
func getMediaFromUpdates(updates tg.UpdatesClass) *cache.CachedMedia {
	u, ok := updates.(*tg.Updates)
	if !ok {
		return nil
	}
	msg := sentMessage(u.Updates)
	if msg == nil {
		return nil
	}
	return cache.FromMessageMedia(msg.Media)
}
