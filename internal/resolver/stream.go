// Package resolver turns play queries into tracks. Only direct stream
// URLs and playlist files (.m3u/.m3u8/.pls) are supported; anything else
// resolves to no-match.
package resolver

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"tunebard/internal/player"
	"tunebard/pkg/retrylimit"
)

const sourceStream = "stream"

var allowedContentTypes = []string{
	"audio/",
	"video/",
	"application/vnd.apple.mpegurl",
	"application/x-mpegurl",
	"application/ogg",
	"application/x-scpls",
	"application/xspf+xml",
	"application/octet-stream", // risky but common for streams
}

// StreamResolver validates stream links by probing headers, and expands
// playlist files into multi-track resolutions.
type StreamResolver struct {
	client  *http.Client
	limiter *retrylimit.AdaptiveLimiter
}

func New() *StreamResolver {
	return &StreamResolver{
		client: &http.Client{
			Timeout: 5 * time.Second,
			CheckRedirect: func(req *http.Request, via []*http.Request) error {
				if len(via) >= 5 {
					return fmt.Errorf("too many redirects")
				}
				return nil
			},
		},
		limiter: retrylimit.NewAdaptiveLimiter(5, 1, 20, 1, 0.5),
	}
}

// Resolve implements player.Resolver.
func (r *StreamResolver) Resolve(ctx context.Context, query string) (*player.Resolution, error) {
	u, err := url.Parse(strings.TrimSpace(query))
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") {
		// Free-text search has no backend here.
		return &player.Resolution{LoadType: player.LoadTypeNoMatch}, nil
	}

	var contentType, finalURL string
	err = retrylimit.WithRetryMax(ctx, func() error {
		var probeErr error
		contentType, finalURL, probeErr = r.probe(ctx, u.String())
		return probeErr
	}, r.limiter, 3)
	if err != nil {
		return nil, fmt.Errorf("probe stream %s: %w", u, err)
	}

	if isPlaylistURL(finalURL) {
		return r.resolvePlaylist(ctx, finalURL)
	}
	if !isAllowedType(contentType) {
		return &player.Resolution{LoadType: player.LoadTypeNoMatch}, nil
	}

	return &player.Resolution{
		LoadType: player.LoadTypeTrack,
		Tracks:   []player.Track{streamTrack(finalURL)},
	}, nil
}

// probe issues a HEAD request, falling back to GET for servers that
// reject HEAD, and reports the content type plus the post-redirect URL.
func (r *StreamResolver) probe(ctx context.Context, rawURL string) (string, string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodHead, rawURL, nil)
	if err != nil {
		return "", "", fmt.Errorf("request creation failed: %w", err)
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")

	resp, err := r.client.Do(req)
	if err != nil || resp.StatusCode >= 400 {
		if resp != nil {
			resp.Body.Close()
		}
		getReq, gerr := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if gerr != nil {
			return "", "", fmt.Errorf("request creation failed: %w", gerr)
		}
		getReq.Header.Set("User-Agent", "Mozilla/5.0")
		resp, err = r.client.Do(getReq)
		if err != nil {
			return "", "", fmt.Errorf("GET fallback failed: %w", err)
		}
	}
	defer resp.Body.Close()
	_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 1<<14))

	if resp.StatusCode >= 400 {
		return "", "", fmt.Errorf("unexpected status %d", resp.StatusCode)
	}
	return resp.Header.Get("Content-Type"), resp.Request.URL.String(), nil
}

// resolvePlaylist downloads an .m3u/.pls file and resolves each entry
// as a stream track.
func (r *StreamResolver) resolvePlaylist(ctx context.Context, rawURL string) (*player.Resolution, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "Mozilla/5.0")
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("fetch playlist: %w", err)
	}
	defer resp.Body.Close()

	entries := ParsePlaylist(io.LimitReader(resp.Body, 1<<20))
	if len(entries) == 0 {
		return &player.Resolution{LoadType: player.LoadTypeNoMatch}, nil
	}

	tracks := make([]player.Track, 0, len(entries))
	for _, e := range entries {
		tracks = append(tracks, streamTrack(e))
	}
	return &player.Resolution{
		LoadType: player.LoadTypePlaylist,
		Tracks:   tracks,
		Playlist: &player.PlaylistInfo{Name: titleFromURL(rawURL)},
	}, nil
}

// ParsePlaylist extracts entry URLs from m3u or pls content. Comment
// lines and non-URL metadata are skipped.
func ParsePlaylist(body io.Reader) []string {
	var out []string
	sc := bufio.NewScanner(body)
	for sc.Scan() {
		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") || strings.HasPrefix(line, "[") {
			continue
		}
		// pls entries look like File1=http://...
		if i := strings.Index(line, "="); i != -1 && strings.HasPrefix(strings.ToLower(line), "file") {
			line = line[i+1:]
		}
		if strings.HasPrefix(line, "http://") || strings.HasPrefix(line, "https://") {
			out = append(out, line)
		}
	}
	return out
}

func streamTrack(rawURL string) player.Track {
	host := ""
	if u, err := url.Parse(rawURL); err == nil {
		host = u.Host
	}
	return player.Track{
		URI:        rawURL,
		Title:      titleFromURL(rawURL),
		Author:     host,
		Duration:   0,
		IsStream:   true,
		SourceName: sourceStream,
	}
}

// titleFromURL derives a display title from the URL path, falling back
// to the host.
func titleFromURL(rawURL string) string {
	u, err := url.Parse(rawURL)
	if err != nil {
		return rawURL
	}
	base := path.Base(u.Path)
	if ext := path.Ext(base); ext != "" {
		base = strings.TrimSuffix(base, ext)
	}
	if base == "" || base == "/" || base == "." {
		return u.Host
	}
	return base
}

func isAllowedType(contentType string) bool {
	if i := strings.Index(contentType, ";"); i != -1 {
		contentType = strings.TrimSpace(contentType[:i])
	}
	for _, allowed := range allowedContentTypes {
		if strings.HasPrefix(contentType, allowed) {
			return true
		}
	}
	return false
}

func isPlaylistURL(rawURL string) bool {
	u, err := url.Parse(rawURL)
	if err != nil {
		return false
	}
	switch strings.ToLower(path.Ext(u.Path)) {
	case ".m3u", ".m3u8", ".pls", ".xspf", ".asx":
		return true
	}
	return false
}

var _ player.Resolver = (*StreamResolver)(nil)
