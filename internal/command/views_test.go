package command

import (
	"fmt"
	"strings"
	"testing"

	"tunebard/internal/comments"
	"tunebard/internal/player"

	"github.com/bwmarrin/discordgo"
)

func makeTracks(n int) []player.Track {
	tracks := make([]player.Track, n)
	for i := range tracks {
		tracks[i] = player.Track{
			URI:      fmt.Sprintf("https://radio.example/%d", i+1),
			Title:    fmt.Sprintf("Track %d", i+1),
			Duration: 60000,
		}
	}
	return tracks
}

func makeComments(n int) []comments.Comment {
	list := make([]comments.Comment, n)
	for i := range list {
		list[i] = comments.Comment{Username: "user", Message: fmt.Sprintf("comment %d", i+1)}
	}
	return list
}

func queueButtons(t *testing.T, v *View) (prev, next discordgo.Button) {
	t.Helper()
	if len(v.Components) != 1 {
		t.Fatalf("expected 1 component row, got %d", len(v.Components))
	}
	row, ok := v.Components[0].(discordgo.ActionsRow)
	if !ok {
		t.Fatalf("expected ActionsRow, got %T", v.Components[0])
	}
	return row.Components[0].(discordgo.Button), row.Components[1].(discordgo.Button)
}

func TestQueueViewPaging(t *testing.T) {
	tracks := makeTracks(12) // 3 pages of 5

	tests := []struct {
		name         string
		page         int
		wantPage     int
		prevDisabled bool
		nextDisabled bool
	}{
		{"first page", 1, 1, true, false},
		{"middle page", 2, 2, false, false},
		{"last page", 3, 3, false, true},
		{"below range clamps to first", 0, 1, true, false},
		{"above range clamps to last", 99, 3, false, true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			v := QueueView(nil, tracks, tc.page)
			prev, next := queueButtons(t, v)
			if prev.Disabled != tc.prevDisabled {
				t.Errorf("prev disabled = %v, want %v", prev.Disabled, tc.prevDisabled)
			}
			if next.Disabled != tc.nextDisabled {
				t.Errorf("next disabled = %v, want %v", next.Disabled, tc.nextDisabled)
			}
			wantPrev := fmt.Sprintf("%s%d", ComponentQueuePrev, tc.wantPage-1)
			if prev.CustomID != wantPrev {
				t.Errorf("prev customID = %q, want %q", prev.CustomID, wantPrev)
			}
			wantFooter := fmt.Sprintf("Page %d/3", tc.wantPage)
			if !strings.Contains(v.Embed.Footer.Text, wantFooter) {
				t.Errorf("footer %q missing %q", v.Embed.Footer.Text, wantFooter)
			}
		})
	}
}

func TestQueueViewEmptyStillRenders(t *testing.T) {
	current := makeTracks(1)[0]
	v := QueueView(&current, nil, 1)
	if v.Embed == nil {
		t.Fatal("expected embed for empty queue")
	}
	if !strings.Contains(v.Embed.Footer.Text, "Page 1/1") {
		t.Errorf("footer = %q, want single page", v.Embed.Footer.Text)
	}
	prev, next := queueButtons(t, v)
	if !prev.Disabled || !next.Disabled {
		t.Error("both buttons should be disabled on a single page")
	}
}

func TestQueueViewListsCorrectSlice(t *testing.T) {
	tracks := makeTracks(12)
	v := QueueView(nil, tracks, 3)
	if !strings.Contains(v.Embed.Description, "Track 11") {
		t.Errorf("page 3 should list Track 11: %q", v.Embed.Description)
	}
	if strings.Contains(v.Embed.Description, "Track 5") {
		t.Errorf("page 3 should not list Track 5: %q", v.Embed.Description)
	}
}

func TestCommentsPageCount(t *testing.T) {
	tests := []struct {
		total int
		want  int
	}{
		{0, 1},
		{1, 1},
		{10, 1},
		{11, 2},
		{25, 3},
	}
	for _, tc := range tests {
		if got := CommentsPageCount(tc.total); got != tc.want {
			t.Errorf("CommentsPageCount(%d) = %d, want %d", tc.total, got, tc.want)
		}
	}
}

func TestCommentsViewNewestFirst(t *testing.T) {
	snapshot := makeComments(25)

	// Page 0 holds the 10 most recent, newest first.
	v := CommentsView("Song", snapshot, 0)
	lines := strings.Split(v.Embed.Description, "\n\n")
	if len(lines) != 10 {
		t.Fatalf("page 0 has %d lines, want 10", len(lines))
	}
	if !strings.Contains(lines[0], "comment 25") {
		t.Errorf("first line = %q, want newest comment", lines[0])
	}
	if !strings.Contains(lines[9], "comment 16") {
		t.Errorf("last line = %q, want comment 16", lines[9])
	}

	// Last page holds the oldest remainder.
	v = CommentsView("Song", snapshot, 2)
	lines = strings.Split(v.Embed.Description, "\n\n")
	if len(lines) != 5 {
		t.Fatalf("page 2 has %d lines, want 5", len(lines))
	}
	if !strings.Contains(lines[len(lines)-1], "comment 1") {
		t.Errorf("oldest comment missing from final page: %q", lines[len(lines)-1])
	}
}

func TestCommentsViewEmpty(t *testing.T) {
	v := CommentsView("Song", nil, 0)
	if v.Embed.Description != "No comments for this track." {
		t.Errorf("description = %q", v.Embed.Description)
	}
	if !strings.Contains(v.Embed.Footer.Text, "Page 1 of 1") {
		t.Errorf("footer = %q, want Page 1 of 1", v.Embed.Footer.Text)
	}
}

func TestCommentsViewClampsPage(t *testing.T) {
	snapshot := makeComments(5)
	v := CommentsView("Song", snapshot, 42)
	if !strings.Contains(v.Embed.Footer.Text, "Page 1 of 1") {
		t.Errorf("out-of-range page not clamped: %q", v.Embed.Footer.Text)
	}
}

func TestCommentsButtonsExpired(t *testing.T) {
	row := CommentsButtons(0, 3, true).(discordgo.ActionsRow)
	for _, c := range row.Components {
		if !c.(discordgo.Button).Disabled {
			t.Error("expired pager buttons must be disabled")
		}
	}
}

func TestNowPlayingViewShowsRecentComments(t *testing.T) {
	track := player.Track{URI: "https://radio.example/a", Title: "Song", Author: "Artist", Duration: 60000, RequesterName: "dj"}
	v := NowPlayingView(track, makeComments(12))

	var commentField *discordgo.MessageEmbedField
	for _, f := range v.Embed.Fields {
		if strings.Contains(f.Name, "Comments") {
			commentField = f
		}
	}
	if commentField == nil {
		t.Fatal("comments field missing")
	}
	if !strings.Contains(commentField.Value, "comment 12") {
		t.Errorf("latest comment missing: %q", commentField.Value)
	}
	if strings.Contains(commentField.Value, "comment 2\n") || strings.HasSuffix(commentField.Value, "comment 2") {
		t.Errorf("field should only hold the last 10 comments: %q", commentField.Value)
	}
}

func TestHelpViewListsAllCommands(t *testing.T) {
	v := HelpView("!", All())
	for _, name := range []string{"play", "goto", "setchannel", "comments"} {
		if !strings.Contains(v.Embed.Description, "`"+name+"`") {
			t.Errorf("help missing %q", name)
		}
	}
	if !strings.Contains(v.Embed.Footer.Text, "Prefix: !") {
		t.Errorf("footer = %q", v.Embed.Footer.Text)
	}
}
