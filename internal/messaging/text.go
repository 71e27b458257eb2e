package messaging

import (
	"fmt"
	"strings"
)

const (
	StatusProcessing   = "⏳ Processing your link..."
	StatusDownloading  = "📥 Downloading file..."
	StatusUploadToDump = "📤 Uploading to channel..."
	StatusSent         = "✅ File sent successfully!"
	StatusRelayFailed  = "❌ Failed to send file!"
	StatusUploadFailed = "❌ Failed to upload file!"
	StatusCancelled    = "📛 Download cancelled!"
	StatusUnsupported  = "❌ This link is not a supported TeraBox link."

	AlertJoinFirst    = "❌ Please join the channel first!"
	AnswerCancelling  = "Cancelling download..."
	AnswerNothingToDo = "Nothing to cancel."
	ReplyGenericError = "An error occurred. Please try again later."
)

func StatusUpstream(code int) string {
	return fmt.Sprintf("❌ Failed to process link (Status: %d)", code)
}

func StatusFailed(err error) string {
	return "❌ Failed to process link: " + Escape(err.Error())
}

// FillTemplate substitutes {user} and {channel} in an operator supplied
// message template. The template may carry tags; the values may not.
func FillTemplate(tmpl, user, channel string) string {
	return strings.NewReplacer("{user}", Escape(user), "{channel}", Escape(channel)).Replace(tmpl)
}

const HelpText = "<b>TeraBox Downloader</b>\n\n" +
	"Send me a TeraBox share link and I will download the file and send it back to you.\n\n" +
	"<b>Commands:</b>\n" +
	"• /start - Start the bot\n" +
	"• /help - Show this help message\n" +
	"• /stats - Bot statistics (owner only)\n\n" +
	"Press <b>❌ Cancel</b> under a progress message to stop that transfer."
