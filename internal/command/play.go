package command

import (
	"log"
	"strings"

	"tunebard/internal/player"
)

// runPlay resolves the query and feeds the guild's session. Resolution
// can hit the network, so the reply is deferred up front.
func runPlay(c *Context) error {
	query := strings.TrimSpace(strings.Join(c.Intent.Args, " "))
	if query == "" {
		return inputErrf("Provide a song name or URL to play.")
	}

	if err := c.Defer(); err != nil {
		return &CollaboratorError{Err: err}
	}

	res, err := c.Deps.Engine.Resolve(c.Ctx, query, c.Intent.ActorID, c.Intent.ActorName)
	if err != nil {
		return &CollaboratorError{Err: err}
	}

	s := c.Deps.Engine.CreateSession(c.Intent.GuildID, c.Intent.ActorVoiceChannelID, c.Intent.ChannelID, true)

	switch res.LoadType {
	case player.LoadTypePlaylist:
		if len(res.Tracks) == 0 {
			return inputErrf("The playlist is empty.")
		}
		for _, t := range res.Tracks {
			s.Queue().Add(t)
		}
		info := player.PlaylistInfo{Name: query}
		if res.Playlist != nil {
			info = *res.Playlist
		}
		if err := c.EditLast(AddedPlaylistView(info, res.Tracks)); err != nil {
			return &CollaboratorError{Err: err}
		}
		log.Printf("[INFO] [%s] Queued playlist %q (%d tracks)", c.Intent.GuildID, info.Name, len(res.Tracks))

	case player.LoadTypeTrack, player.LoadTypeSearch:
		if len(res.Tracks) == 0 {
			return inputErrf("No results found for %q.", query)
		}
		t := res.Tracks[0]
		s.Queue().Add(t)
		if err := c.EditLast(AddedToQueueView(t, s.Queue().Len())); err != nil {
			return &CollaboratorError{Err: err}
		}
		log.Printf("[INFO] [%s] Queued track %q", c.Intent.GuildID, t.Title)

	default:
		return inputErrf("No results found for %q.", query)
	}

	if !s.Playing() && !s.Paused() {
		if err := s.Play(); err != nil {
			return &CollaboratorError{Err: err}
		}
	}
	return nil
}
