package provider

import (
	"regexp"
	"strings"
)

var urlRegex = regexp.MustCompile(`(?i)https?://[^\s<>"]+`)

// trailing punctuation that chat clients glue to a pasted link
const urlTrailer = ".,;:!?)]}'"

// ExtractURL returns the first http(s) link in text, or "".
func ExtractURL(text string) string {
	return strings.TrimRight(urlRegex.FindString(text), urlTrailer)
}

func NormalizeURL(link string) string {
	return strings.TrimRight(strings.TrimSpace(link), urlTrailer)
}
