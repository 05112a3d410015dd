package command

import "tunebard/internal/player"

// requireSession fetches the guild's active session or fails the intent.
func requireSession(c *Context) (*player.Session, error) {
	s, ok := c.Deps.Engine.Session(c.Intent.GuildID)
	if !ok {
		return nil, preconditionErrf("Nothing is playing in this server.")
	}
	return s, nil
}

// requireCurrent fetches the session and its current track.
func requireCurrent(c *Context) (*player.Session, player.Track, error) {
	s, err := requireSession(c)
	if err != nil {
		return nil, player.Track{}, err
	}
	t, ok := s.Current()
	if !ok {
		return nil, player.Track{}, preconditionErrf("No track is currently playing.")
	}
	return s, t, nil
}

func runPause(c *Context) error {
	s, _, err := requireCurrent(c)
	if err != nil {
		return err
	}
	if s.Paused() {
		return preconditionErrf("The track is already paused.")
	}
	if err := s.Pause(true); err != nil {
		return &CollaboratorError{Err: err}
	}
	return c.Public(SuccessView("Paused the current track."))
}

func runResume(c *Context) error {
	s, _, err := requireCurrent(c)
	if err != nil {
		return err
	}
	if !s.Paused() {
		return preconditionErrf("The track is not paused.")
	}
	if err := s.Pause(false); err != nil {
		return &CollaboratorError{Err: err}
	}
	return c.Public(SuccessView("Resumed the current track."))
}

func runSkip(c *Context) error {
	s, t, err := requireCurrent(c)
	if err != nil {
		return err
	}
	if s.Queue().Len() == 0 {
		return preconditionErrf("There are no more tracks in the queue to skip to.")
	}
	if err := s.Stop(); err != nil {
		return &CollaboratorError{Err: err}
	}
	return c.Public(SuccessView("Skipped **" + t.Title + "**."))
}

func runStop(c *Context) error {
	s, err := requireSession(c)
	if err != nil {
		return err
	}
	s.Destroy()
	return c.Public(SuccessView("Stopped playback and cleared the queue."))
}
