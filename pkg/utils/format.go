package utils

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

var sizeUnits = [...]string{"B", "KB", "MB", "GB", "TB"}

// FormatSize renders a byte count with binary units, rounded to two
// decimals and printed in its shortest form: 0B, 500.0 B, 1.5 KB, 1.0 GB.
func FormatSize(size int64) string {
	if size <= 0 {
		return "0B"
	}

	exp := 0
	div := int64(1)
	for n := size; n >= 1024 && exp < len(sizeUnits)-1; n /= 1024 {
		div *= 1024
		exp++
	}

	v := float64(size) / float64(div)
	v = float64(int64(v*100+0.5)) / 100

	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s + " " + sizeUnits[exp]
}

// FormatETA renders the remaining time in natural language ("now",
// "12 seconds left", "3 minutes left").
func FormatETA(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	var origin time.Time
	return humanize.RelTime(origin, origin.Add(d), "left", "left")
}

func FormatDuration(d time.Duration) string {
	d = d.Round(time.Second)
	h := d / time.Hour
	d -= h * time.Hour
	m := d / time.Minute
	d -= m * time.Minute
	s := d / time.Second
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
