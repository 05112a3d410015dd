package player

import "context"

// LoadType classifies what a query resolved to.
type LoadType string

const (
	LoadTypeTrack    LoadType = "track"
	LoadTypeSearch   LoadType = "search"
	LoadTypePlaylist LoadType = "playlist"
	LoadTypeNoMatch  LoadType = "nomatch"
)

// Track is a playable item. URI is its stable identity: two queue entries
// with the same URI are the same song added twice and share annotations.
type Track struct {
	URI           string
	Title         string
	Author        string
	Duration      int64 // milliseconds; 0 for live streams
	IsStream      bool
	Thumbnail     string
	SourceName    string
	RequesterID   string
	RequesterName string
}

// PlaylistInfo describes a resolved playlist as a whole.
type PlaylistInfo struct {
	Name      string
	Thumbnail string
}

// Resolution is the outcome of resolving a query.
type Resolution struct {
	LoadType LoadType
	Tracks   []Track
	Playlist *PlaylistInfo
}

// Resolver turns a raw query into tracks. Implementations may hit the
// network; callers should expect arbitrary latency.
type Resolver interface {
	Resolve(ctx context.Context, query string) (*Resolution, error)
}
