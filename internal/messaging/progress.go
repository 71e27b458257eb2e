package messaging

import (
	"fmt"
	"strings"
	"time"

	"github.com/pavelc4/terabox-tg-bot/pkg/utils"
)

const barSegments = 12

type Phase int

const (
	PhaseDownload Phase = iota
	PhaseUpload
)

func (p Phase) String() string {
	if p == PhaseUpload {
		return "upload"
	}
	return "download"
}

// Snapshot is the derived view of a transfer at one instant.
type Snapshot struct {
	Done    int64
	Total   int64
	Percent float64
	Bar     string
	Speed   float64 // bytes per second
	ETA     time.Duration
}

// NewSnapshot computes percentage, bar, speed and ETA. total must be > 0.
func NewSnapshot(done, total int64, start, now time.Time) Snapshot {
	if done > total {
		done = total
	}
	if done < 0 {
		done = 0
	}

	s := Snapshot{
		Done:    done,
		Total:   total,
		Percent: float64(done) * 100 / float64(total),
	}

	filled := int(int64(barSegments) * done / total)
	s.Bar = strings.Repeat("■", filled) + strings.Repeat("□", barSegments-filled)

	if elapsed := now.Sub(start).Seconds(); elapsed > 0 {
		s.Speed = float64(done) / elapsed
	}
	if s.Speed > 0 {
		s.ETA = time.Duration(float64(total-done) / s.Speed * float64(time.Second))
	}
	return s
}

// RenderProgress formats snap for the status message. The result carries
// HTML-lite tags for ParseCaptionEntities.
func RenderProgress(phase Phase, snap Snapshot) string {
	title, label := "📥 Downloading File", "Size:"
	if phase == PhaseUpload {
		title, label = "📤 Uploading File", "Uploaded:"
	}

	return fmt.Sprintf(
		"<b>%s</b>\n\n"+
			"<b>%s</b> <code>%.1f%%</code>\n\n"+
			"<b>%s</b> <code>%s</code> / <code>%s</code>\n"+
			"<b>Speed:</b> <code>%s/s</code>\n"+
			"<b>ETA:</b> <code>%s</code>",
		title,
		snap.Bar, snap.Percent,
		label, utils.FormatSize(snap.Done), utils.FormatSize(snap.Total),
		utils.FormatSize(int64(snap.Speed)),
		utils.FormatETA(snap.ETA),
	)
}
