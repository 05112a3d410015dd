package player

import (
	"errors"
	"log"
	"sync"
	"time"
)

// LoopMode controls what happens when a track ends.
type LoopMode string

const (
	LoopNone  LoopMode = "none"
	LoopQueue LoopMode = "queue"
)

var (
	ErrNoCurrentTrack = errors.New("no track is currently playing")
	ErrSessionDone    = errors.New("session has been destroyed")
)

// Session is the per-guild playback state: the current track, the queue,
// playing/paused flags, volume and loop mode. At most one session exists
// per guild; the Engine enforces that.
//
// Without an audio pipeline the session advances tracks on a wall-clock
// timer armed for the remaining duration. Streams have no timer and play
// until stopped.
type Session struct {
	GuildID        string
	VoiceChannelID string
	TextChannelID  string
	Deaf           bool

	engine *Engine
	queue  *Queue

	mu        sync.Mutex
	current   *Track
	playing   bool
	paused    bool
	volume    int
	loop      LoopMode
	destroyed bool

	startedAt time.Time     // when the current play segment began
	elapsed   time.Duration // accumulated before startedAt (pause/seek)
	advance   *time.Timer
	playGen   int // invalidates stale advance timers
}

func newSession(e *Engine, guildID, voiceChannelID, textChannelID string, deaf bool) *Session {
	return &Session{
		GuildID:        guildID,
		VoiceChannelID: voiceChannelID,
		TextChannelID:  textChannelID,
		Deaf:           deaf,
		engine:         e,
		queue:          &Queue{},
		volume:         100,
		loop:           LoopNone,
	}
}

// Queue returns the session's queue container.
func (s *Session) Queue() *Queue { return s.queue }

// Current returns the track being played, if any.
func (s *Session) Current() (Track, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return Track{}, false
	}
	return *s.current, true
}

// Playing reports whether playback is active (never true while paused).
func (s *Session) Playing() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.playing
}

// Paused reports whether playback is paused.
func (s *Session) Paused() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paused
}

// Volume returns the current volume in [0,100].
func (s *Session) Volume() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.volume
}

// Loop returns the current loop mode.
func (s *Session) Loop() LoopMode {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.loop
}

// SetVolume clamps v to [0,100] and applies it.
func (s *Session) SetVolume(v int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if v < 0 {
		v = 0
	}
	if v > 100 {
		v = 100
	}
	s.volume = v
}

// SetLoop switches the loop mode.
func (s *Session) SetLoop(m LoopMode) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.loop = m
}

// Play starts playback if the session is idle: the queue head becomes the
// current track. A session that is already playing or paused is untouched.
func (s *Session) Play() error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return ErrSessionDone
	}
	if s.playing || s.paused {
		s.mu.Unlock()
		return nil
	}
	next, ok := s.queue.pop()
	if !ok {
		s.mu.Unlock()
		return ErrNoCurrentTrack
	}
	s.startLocked(next)
	track := next
	s.mu.Unlock()

	s.engine.emitTrackStart(s, track)
	return nil
}

// Pause suspends (true) or resumes (false) playback of the current track.
func (s *Session) Pause(pause bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return ErrSessionDone
	}
	if s.current == nil {
		return ErrNoCurrentTrack
	}
	if pause {
		if s.paused {
			return nil
		}
		s.elapsed += time.Since(s.startedAt)
		s.stopTimerLocked()
		s.playing = false
		s.paused = true
		return nil
	}
	if !s.paused {
		return nil
	}
	s.startedAt = time.Now()
	s.playing = true
	s.paused = false
	s.armTimerLocked()
	return nil
}

// Stop ends the current track and advances: the next queued track starts,
// or the queue-end event fires when nothing is left.
func (s *Session) Stop() error {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return ErrSessionDone
	}
	if s.current == nil {
		s.mu.Unlock()
		return ErrNoCurrentTrack
	}
	s.advanceLocked()
	return nil
}

// Seek jumps to the given position within the current track. The caller
// is responsible for range-checking against the track duration.
func (s *Session) Seek(ms int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.destroyed {
		return ErrSessionDone
	}
	if s.current == nil {
		return ErrNoCurrentTrack
	}
	s.elapsed = time.Duration(ms) * time.Millisecond
	s.startedAt = time.Now()
	if s.playing {
		s.armTimerLocked()
	}
	return nil
}

// Position returns the playback position within the current track, in ms.
func (s *Session) Position() int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return 0
	}
	pos := s.elapsed
	if s.playing {
		pos += time.Since(s.startedAt)
	}
	return pos.Milliseconds()
}

// Destroy tears the session down and removes it from the engine registry.
func (s *Session) Destroy() {
	s.destroy(true)
}

// DestroyIfIdle tears the session down only when no track is playing.
// Queue-end teardown is asynchronous and can race a command that has
// restarted playback in the meantime; the recheck keeps a restarted
// session alive. Reports whether the session was destroyed.
func (s *Session) DestroyIfIdle() bool {
	return s.destroy(false)
}

func (s *Session) destroy(force bool) bool {
	s.mu.Lock()
	if s.destroyed {
		s.mu.Unlock()
		return false
	}
	if !force && s.current != nil {
		s.mu.Unlock()
		return false
	}
	s.destroyed = true
	s.stopTimerLocked()
	s.current = nil
	s.playing = false
	s.paused = false
	s.queue.Clear()
	s.mu.Unlock()

	s.engine.remove(s.GuildID)
	return true
}

// startLocked makes t the current track and begins its play segment.
func (s *Session) startLocked(t Track) {
	s.current = &t
	s.playing = true
	s.paused = false
	s.elapsed = 0
	s.startedAt = time.Now()
	s.armTimerLocked()
}

// advanceLocked finishes the current track and moves to the next one.
// Called with s.mu held; releases it before emitting events.
func (s *Session) advanceLocked() {
	s.stopTimerLocked()
	finished := s.current
	if s.loop == LoopQueue && finished != nil {
		s.queue.Add(*finished)
	}
	next, ok := s.queue.pop()
	if !ok {
		s.current = nil
		s.playing = false
		s.paused = false
		s.mu.Unlock()
		s.engine.emitQueueEnd(s)
		return
	}
	s.startLocked(next)
	s.mu.Unlock()
	s.engine.emitTrackStart(s, next)
}

// armTimerLocked schedules the natural end of the current track.
func (s *Session) armTimerLocked() {
	s.stopTimerLocked()
	if s.current == nil || s.current.IsStream || s.current.Duration <= 0 {
		return
	}
	remaining := time.Duration(s.current.Duration)*time.Millisecond - s.elapsed
	if s.playing {
		remaining -= time.Since(s.startedAt)
	}
	if remaining < 0 {
		remaining = 0
	}
	gen := s.playGen
	s.advance = time.AfterFunc(remaining, func() { s.onTrackEnd(gen) })
}

func (s *Session) stopTimerLocked() {
	s.playGen++
	if s.advance != nil {
		s.advance.Stop()
		s.advance = nil
	}
}

// onTrackEnd handles a natural track end from the advance timer.
func (s *Session) onTrackEnd(gen int) {
	s.mu.Lock()
	if s.destroyed || gen != s.playGen || s.current == nil {
		s.mu.Unlock()
		return
	}
	log.Printf("[INFO] [%s] Track ended: %s", s.GuildID, s.current.Title)
	s.advanceLocked()
}
