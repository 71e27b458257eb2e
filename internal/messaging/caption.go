package messaging

import (
	"fmt"
	"html"
	"regexp"
	"strings"
	"unicode/utf16"

	"github.com/gotd/td/tg"
)

var entityTag = regexp.MustCompile(`(?s)<(b|code|a)(?: href="([^"]+)")?>([^<]+)</(?:b|code|a)>`)

// DumpCaption labels the archived copy in the dump channel.
func DumpCaption(userID int64, link string) string {
	return fmt.Sprintf("#terabox\nUser: %d\nLink: %s", userID, link)
}

// RelayCaption is the caption of the copy the requester receives.
func RelayCaption(channel string) string {
	return fmt.Sprintf("Terabox downloader @%s", channel)
}

// Escape makes s safe to interpolate into a tagged message text.
func Escape(s string) string {
	return html.EscapeString(s)
}

// ParseCaptionEntities strips the <b>, <code> and <a href> tags from text
// and returns the plain text with matching entities. Character references
// produced by Escape are decoded. Offsets are UTF-16.
func ParseCaptionEntities(text string) (string, []tg.MessageEntityClass) {
	var cleanText strings.Builder
	var entities []tg.MessageEntityClass

	lastIdx := 0
	for _, m := range entityTag.FindAllStringSubmatchIndex(text, -1) {
		cleanText.WriteString(html.UnescapeString(text[lastIdx:m[0]]))
		offset := utf16Len(cleanText.String())

		tagName := text[m[2]:m[3]]
		href := ""
		if m[4] != -1 {
			href = html.UnescapeString(text[m[4]:m[5]])
		}
		content := html.UnescapeString(text[m[6]:m[7]])

		cleanText.WriteString(content)
		length := utf16Len(content)

		switch tagName {
		case "b":
			entities = append(entities, &tg.MessageEntityBold{Offset: offset, Length: length})
		case "code":
			entities = append(entities, &tg.MessageEntityCode{Offset: offset, Length: length})
		case "a":
			entities = append(entities, &tg.MessageEntityTextURL{Offset: offset, Length: length, URL: href})
		}
		lastIdx = m[1]
	}
	cleanText.WriteString(html.UnescapeString(text[lastIdx:]))
	return cleanText.String(), entities
}

func utf16Len(s string) int {
	return len(utf16.Encode([]rune(s)))
}

// UserName prefers the @username, then the full name.
func UserName(user *tg.User) string {
	if user == nil {
		return "User"
	}
	if user.Username != "" {
		return "@" + user.Username
	}
	if name := strings.TrimSpace(user.FirstName + " " + user.LastName); name != "" {
		return name
	}
	return "User"
}

// SenderID returns the user who sent msg, or 0.
func SenderID(msg *tg.Message) int64 {
	if from, ok := msg.GetFromID(); ok {
		if u, ok := from.(*tg.PeerUser); ok {
			return u.UserID
		}
		return 0
	}
	if u, ok := msg.GetPeerID().(*tg.PeerUser); ok {
		return u.UserID
	}
	return 0
}

// SenderName resolves the display name of msg's sender from e.
func SenderName(e tg.Entities, msg *tg.Message) string {
	if id := SenderID(msg); id != 0 {
		return UserName(e.Users[id])
	}
	return "User"
}
