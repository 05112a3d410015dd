// Package comments keeps per-track listener comments in memory, keyed by
// track URI. Nothing is persisted; the store lives and dies with the
// process.
package comments

import "sync"

// MaxPerTrack bounds how many comments one track keeps. The oldest
// entries are dropped past the cap so a popular track cannot grow
// without limit over a long-lived process.
const MaxPerTrack = 500

// Comment is one listener remark on a track.
type Comment struct {
	Username string
	Message  string
}

// Store maps track URIs to their ordered comment lists.
type Store struct {
	mu    sync.RWMutex
	byURI map[string][]Comment
}

func NewStore() *Store {
	return &Store{byURI: make(map[string][]Comment)}
}

// Add appends a comment to the track's list, creating the list for an
// unseen URI.
func (s *Store) Add(uri string, c Comment) {
	s.mu.Lock()
	defer s.mu.Unlock()
	list := append(s.byURI[uri], c)
	if len(list) > MaxPerTrack {
		list = list[len(list)-MaxPerTrack:]
	}
	s.byURI[uri] = list
}

// For returns a copy of the track's comments in arrival order. Unseen
// URIs yield an empty slice, never nil.
func (s *Store) For(uri string) []Comment {
	s.mu.RLock()
	defer s.mu.RUnlock()
	list := s.byURI[uri]
	out := make([]Comment, len(list))
	copy(out, list)
	return out
}
