package player

import (
	"context"
	"fmt"
	"sync"
)

// Engine owns the per-guild session registry and delegates track
// resolution to its Resolver. It is the single entry point the command
// layer uses to reach playback state.
type Engine struct {
	resolver Resolver

	mu       sync.RWMutex
	sessions map[string]*Session

	onTrackStart func(*Session, Track)
	onQueueEnd   func(*Session)
}

// NewEngine creates an engine backed by the given resolver.
func NewEngine(resolver Resolver) *Engine {
	return &Engine{
		resolver: resolver,
		sessions: make(map[string]*Session),
	}
}

// OnTrackStart sets the handler invoked whenever a track begins playing.
func (e *Engine) OnTrackStart(fn func(*Session, Track)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onTrackStart = fn
}

// OnQueueEnd sets the handler invoked when a session runs out of tracks.
func (e *Engine) OnQueueEnd(fn func(*Session)) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.onQueueEnd = fn
}

// Resolve runs the query through the resolver and stamps the requester
// onto every returned track.
func (e *Engine) Resolve(ctx context.Context, query, requesterID, requesterName string) (*Resolution, error) {
	res, err := e.resolver.Resolve(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("resolve %q: %w", query, err)
	}
	for i := range res.Tracks {
		res.Tracks[i].RequesterID = requesterID
		res.Tracks[i].RequesterName = requesterName
	}
	return res, nil
}

// CreateSession returns the guild's session, creating one if absent.
func (e *Engine) CreateSession(guildID, voiceChannelID, textChannelID string, deaf bool) *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	if s, ok := e.sessions[guildID]; ok {
		return s
	}
	s := newSession(e, guildID, voiceChannelID, textChannelID, deaf)
	e.sessions[guildID] = s
	return s
}

// Session returns the guild's session, if one exists.
func (e *Engine) Session(guildID string) (*Session, bool) {
	e.mu.RLock()
	defer e.mu.RUnlock()
	s, ok := e.sessions[guildID]
	return s, ok
}

func (e *Engine) remove(guildID string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	delete(e.sessions, guildID)
}

func (e *Engine) emitTrackStart(s *Session, t Track) {
	e.mu.RLock()
	fn := e.onTrackStart
	e.mu.RUnlock()
	if fn != nil {
		fn(s, t)
	}
}

func (e *Engine) emitQueueEnd(s *Session) {
	e.mu.RLock()
	fn := e.onQueueEnd
	e.mu.RUnlock()
	if fn != nil {
		fn(s)
	}
}
