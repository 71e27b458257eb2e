package utils

import (
	"path/filepath"
	"strings"
)

const maxFilenameLen = 200

// SanitizeFilename keeps only ASCII letters, digits, spaces, hyphens,
// underscores and dots. It returns "" when nothing usable is left,
// including names made only of dots.
func SanitizeFilename(raw string) string {
	var sb strings.Builder
	for _, r := range raw {
		if isFilenameRune(r) {
			sb.WriteRune(r)
		}
	}

	name := strings.TrimSpace(sb.String())
	if strings.Trim(name, ". ") == "" {
		return ""
	}

	if len(name) > maxFilenameLen {
		ext := filepath.Ext(name)
		if len(ext) > 16 {
			ext = ""
		}
		name = strings.TrimSpace(name[:maxFilenameLen-len(ext)]) + ext
	}
	return name
}

func isFilenameRune(r rune) bool {
	switch {
	case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
		return true
	case r == ' ', r == '-', r == '_', r == '.':
		return true
	}
	return false
}
