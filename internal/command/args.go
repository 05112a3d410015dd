package command

import (
	"fmt"
	"strconv"

	"tunebard/internal/player"
)

// ParseTimeArgs interprets 1–3 positional tokens right to left as
// seconds / minutes+seconds / hours+minutes+seconds and returns the
// target in milliseconds. Minutes and seconds must be in [0,59]; any
// other shape is invalid.
func ParseTimeArgs(args []string) (int64, bool) {
	var hours, minutes, seconds int64
	var err error

	atoi := func(s string) int64 {
		if err != nil {
			return 0
		}
		var n int64
		n, err = strconv.ParseInt(s, 10, 64)
		return n
	}

	switch len(args) {
	case 1:
		seconds = atoi(args[0])
	case 2:
		minutes = atoi(args[0])
		seconds = atoi(args[1])
	case 3:
		hours = atoi(args[0])
		minutes = atoi(args[1])
		seconds = atoi(args[2])
	default:
		return 0, false
	}

	if err != nil || hours < 0 || minutes < 0 || minutes > 59 || seconds < 0 || seconds > 59 {
		return 0, false
	}
	return (hours*3600 + minutes*60 + seconds) * 1000, true
}

// FormatDuration renders a millisecond duration as MM:SS, or HH:MM:SS
// when an hour or more. Non-positive durations render as LIVE.
func FormatDuration(ms int64) string {
	if ms <= 0 {
		return "LIVE"
	}
	seconds := (ms / 1000) % 60
	minutes := (ms / (1000 * 60)) % 60
	hours := ms / (1000 * 60 * 60)
	if hours > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", hours, minutes, seconds)
	}
	return fmt.Sprintf("%02d:%02d", minutes, seconds)
}

// TrackDuration renders a track's duration for display.
func TrackDuration(t player.Track) string {
	if t.IsStream {
		return "LIVE"
	}
	return FormatDuration(t.Duration)
}

// FormatPosition renders a seek target as MM:SS or H:MM:SS, omitting
// the hours segment when zero.
func FormatPosition(ms int64) string {
	h := ms / 3600000
	m := (ms % 3600000) / 60000
	s := (ms % 60000) / 1000
	if h > 0 {
		return fmt.Sprintf("%02d:%02d:%02d", h, m, s)
	}
	return fmt.Sprintf("%02d:%02d", m, s)
}
