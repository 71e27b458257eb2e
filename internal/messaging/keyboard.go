package messaging

import (
	"strings"

	"github.com/gotd/td/tg"
)

const (
	CallbackCheckSub     = "checksub"
	callbackCancelPrefix = "cancel:"
)

func CancelData(transferID string) []byte {
	return []byte(callbackCancelPrefix + transferID)
}

// ParseCancelData returns the transfer ID of a cancel button press.
func ParseCancelData(data []byte) (string, bool) {
	id, ok := strings.CutPrefix(string(data), callbackCancelPrefix)
	if !ok || id == "" {
		return "", false
	}
	return id, true
}

func ChannelURL(channel string) string {
	return "https://t.me/" + channel
}

func CancelKeyboard(transferID string) *tg.ReplyInlineMarkup {
	return inlineRow(&tg.KeyboardButtonCallback{
		Text: "❌ Cancel",
		Data: CancelData(transferID),
	})
}

func ForceSubKeyboard(channel string) *tg.ReplyInlineMarkup {
	return inlineRow(
		&tg.KeyboardButtonURL{Text: "🔔 Join Channel", URL: ChannelURL(channel)},
		&tg.KeyboardButtonCallback{Text: "🔄 Check Again", Data: []byte(CallbackCheckSub)},
	)
}

func ChannelKeyboard(channel string) *tg.ReplyInlineMarkup {
	return inlineRow(&tg.KeyboardButtonURL{Text: "📢 Channel", URL: ChannelURL(channel)})
}

func inlineRow(buttons ...tg.KeyboardButtonClass) *tg.ReplyInlineMarkup {
	return &tg.ReplyInlineMarkup{
		Rows: []tg.KeyboardButtonRow{{Buttons: buttons}},
	}
}
