package command

import (
	"strconv"

	"tunebard/internal/player"
)

func runQueue(c *Context) error {
	s, err := requireSession(c)
	if err != nil {
		return err
	}
	tracks := s.Queue().Tracks()
	var current *player.Track
	if t, ok := s.Current(); ok {
		current = &t
	}
	if current == nil && len(tracks) == 0 {
		return preconditionErrf("The queue is empty.")
	}
	return c.Public(QueueView(current, tracks, 1))
}

func runShuffle(c *Context) error {
	s, err := requireSession(c)
	if err != nil {
		return err
	}
	if s.Queue().Len() == 0 {
		return preconditionErrf("The queue is empty, nothing to shuffle.")
	}
	s.Queue().Shuffle()
	return c.Public(SuccessView("Shuffled the queue."))
}

func runRemove(c *Context) error {
	s, err := requireSession(c)
	if err != nil {
		return err
	}
	if len(c.Intent.Args) == 0 {
		return inputErrf("Provide the queue position to remove.")
	}
	pos, perr := strconv.Atoi(c.Intent.Args[0])
	if perr != nil {
		return inputErrf("%q is not a valid queue position.", c.Intent.Args[0])
	}
	length := s.Queue().Len()
	if pos < 1 || pos > length {
		return inputErrf("Position must be between 1 and %d.", length)
	}
	removed, ok := s.Queue().Remove(pos - 1)
	if !ok {
		return inputErrf("Position must be between 1 and %d.", s.Queue().Len())
	}
	return c.Public(SuccessView("Removed **" + removed.Title + "** from the queue."))
}

func runClear(c *Context) error {
	s, err := requireSession(c)
	if err != nil {
		return err
	}
	if s.Queue().Len() == 0 {
		return preconditionErrf("The queue is already empty.")
	}
	s.Queue().Clear()
	return c.Public(SuccessView("Cleared the queue."))
}
