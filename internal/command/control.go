package command

import (
	"fmt"
	"strconv"

	"tunebard/internal/player"
)

// Sources whose positions are resolved remotely; seeking within them is
// best-effort, so the reply carries a heads-up.
var inaccurateSeekSources = map[string]bool{
	"spotify":    true,
	"youtube":    true,
	"soundcloud": true,
}

func runVolume(c *Context) error {
	s, err := requireSession(c)
	if err != nil {
		return err
	}
	if len(c.Intent.Args) == 0 {
		return inputErrf("Provide a volume level between 0 and 100.")
	}
	level, perr := strconv.Atoi(c.Intent.Args[0])
	if perr != nil || level < 0 || level > 100 {
		return inputErrf("Volume must be between 0 and 100.")
	}
	s.SetVolume(level)
	return c.Public(SuccessView(fmt.Sprintf("Volume set to %d%%.", level)))
}

func runLoop(c *Context) error {
	s, err := requireSession(c)
	if err != nil {
		return err
	}
	if s.Loop() == player.LoopQueue {
		s.SetLoop(player.LoopNone)
		return c.Public(SuccessView("Queue loop disabled."))
	}
	s.SetLoop(player.LoopQueue)
	return c.Public(SuccessView("Queue loop enabled."))
}

func runGoto(c *Context) error {
	s, t, err := requireCurrent(c)
	if err != nil {
		return err
	}
	if t.IsStream || t.Duration <= 0 {
		return preconditionErrf("Cannot seek within a live stream.")
	}
	target, ok := ParseTimeArgs(c.Intent.Args)
	if !ok {
		return inputErrf("Provide a time as `ss`, `mm ss` or `hh mm ss` (minutes and seconds 0-59).")
	}
	if target >= t.Duration {
		return inputErrf("Cannot jump to %s, the track is only %s long.",
			FormatPosition(target), FormatDuration(t.Duration))
	}
	if err := s.Seek(target); err != nil {
		return &CollaboratorError{Err: err}
	}
	msg := fmt.Sprintf("Jumped to %s.", FormatPosition(target))
	if inaccurateSeekSources[t.SourceName] {
		msg += " Seeking on this source is approximate; the position may drift."
	}
	return c.Public(SuccessView(msg))
}
