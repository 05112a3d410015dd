package player

import (
	"math/rand"
	"sync"
)

// Queue is the ordered list of upcoming tracks for one session.
// All methods are safe for concurrent use.
type Queue struct {
	mu     sync.Mutex
	tracks []Track
}

// Add appends a track to the end of the queue.
func (q *Queue) Add(t Track) {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = append(q.tracks, t)
}

// Remove deletes the track at index i (0-based) and returns it.
func (q *Queue) Remove(i int) (Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if i < 0 || i >= len(q.tracks) {
		return Track{}, false
	}
	t := q.tracks[i]
	q.tracks = append(q.tracks[:i], q.tracks[i+1:]...)
	return t, true
}

// Shuffle randomizes the queue order in place.
func (q *Queue) Shuffle() {
	q.mu.Lock()
	defer q.mu.Unlock()
	rand.Shuffle(len(q.tracks), func(i, j int) {
		q.tracks[i], q.tracks[j] = q.tracks[j], q.tracks[i]
	})
}

// Clear drops all queued tracks.
func (q *Queue) Clear() {
	q.mu.Lock()
	defer q.mu.Unlock()
	q.tracks = nil
}

// Len returns the number of queued tracks.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tracks)
}

// Tracks returns a copy of the queued tracks in order.
func (q *Queue) Tracks() []Track {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := make([]Track, len(q.tracks))
	copy(out, q.tracks)
	return out
}

// pop removes and returns the head of the queue.
func (q *Queue) pop() (Track, bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if len(q.tracks) == 0 {
		return Track{}, false
	}
	t := q.tracks[0]
	q.tracks = q.tracks[1:]
	return t, true
}
