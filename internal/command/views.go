package command

import (
	"fmt"
	"strings"

	"tunebard/internal/comments"
	"tunebard/internal/player"

	"github.com/bwmarrin/discordgo"
)

const EmbedColor = 0x1e66b0

// Page sizes for the two listing flavors.
const (
	QueuePageSize    = 5
	CommentsPageSize = 10
)

// Component identifiers. Queue navigation encodes the target page in the
// identifier itself; comment navigation is resolved against the pager's
// per-message state.
const (
	ComponentQueuePrev    = "queue_prev_"
	ComponentQueueNext    = "queue_next_"
	ComponentMusicPause   = "music_pause"
	ComponentMusicResume  = "music_resume"
	ComponentMusicSkip    = "music_skip"
	ComponentMusicStop    = "music_stop"
	ComponentCommentsPrev = "comments_prev"
	ComponentCommentsNext = "comments_next"
)

// ErrorView renders a one-line error reply.
func ErrorView(msg string) *View {
	return &View{Content: "❌ | " + msg}
}

// SuccessView renders a one-line confirmation reply.
func SuccessView(msg string) *View {
	return &View{Content: "✅ | " + msg}
}

// NowPlayingView renders the current track with its latest comments and
// the playback control buttons.
func NowPlayingView(t player.Track, trackComments []comments.Comment) *View {
	embed := &discordgo.MessageEmbed{
		Color:       EmbedColor,
		Title:       "🎵 Now Playing",
		Description: fmt.Sprintf("[%s](%s)", t.Title, t.URI),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Artist", Value: t.Author, Inline: true},
			{Name: "Duration", Value: TrackDuration(t), Inline: true},
			{Name: "Requested By", Value: t.RequesterName, Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "Use help to see all commands"},
	}
	if t.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.Thumbnail}
	}

	recent := lastN(trackComments, CommentsPageSize)
	if len(recent) > 0 {
		lines := make([]string, 0, len(recent))
		for i := len(recent) - 1; i >= 0; i-- {
			lines = append(lines, fmt.Sprintf("**%s**: %s", recent[i].Username, recent[i].Message))
		}
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "💬 Comments – add yours with the comment command!",
			Value: strings.Join(lines, "\n"),
		})
	} else {
		embed.Fields = append(embed.Fields, &discordgo.MessageEmbedField{
			Name:  "💬 Comments",
			Value: "Nobody has commented on this track yet. Be the first! 🎶",
		})
	}

	row := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{CustomID: ComponentMusicPause, Label: "⏸️ Pause", Style: discordgo.SecondaryButton},
		discordgo.Button{CustomID: ComponentMusicResume, Label: "▶️ Resume", Style: discordgo.SecondaryButton},
		discordgo.Button{CustomID: ComponentMusicSkip, Label: "⏭️ Skip", Style: discordgo.PrimaryButton},
		discordgo.Button{CustomID: ComponentMusicStop, Label: "⏹️ Stop", Style: discordgo.DangerButton},
	}}
	return &View{Embed: embed, Components: []discordgo.MessageComponent{row}}
}

// AddedToQueueView confirms a single enqueued track.
func AddedToQueueView(t player.Track, position int) *View {
	embed := &discordgo.MessageEmbed{
		Color:       EmbedColor,
		Description: fmt.Sprintf("✅ Added to queue: [%s](%s)", t.Title, t.URI),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Artist", Value: t.Author, Inline: true},
			{Name: "Duration", Value: TrackDuration(t), Inline: true},
			{Name: "Position", Value: fmt.Sprintf("#%d", position), Inline: true},
		},
	}
	if t.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.Thumbnail}
	}
	return &View{Embed: embed}
}

// AddedPlaylistView confirms an enqueued playlist.
func AddedPlaylistView(info player.PlaylistInfo, tracks []player.Track) *View {
	var totalMs int64
	streams := 0
	for _, t := range tracks {
		totalMs += t.Duration
		if t.IsStream {
			streams++
		}
	}
	embed := &discordgo.MessageEmbed{
		Color:       EmbedColor,
		Title:       "✅ Added Playlist",
		Description: fmt.Sprintf("**%s**", info.Name),
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Total Tracks", Value: fmt.Sprintf("%d tracks", len(tracks)), Inline: true},
			{Name: "Total Duration", Value: FormatDuration(totalMs), Inline: true},
			{Name: "Stream Count", Value: fmt.Sprintf("%d streams", streams), Inline: true},
		},
		Footer: &discordgo.MessageEmbedFooter{Text: "The playlist will start playing soon"},
	}
	if info.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: info.Thumbnail}
	}
	return &View{Embed: embed}
}

// QueueEndedView announces queue exhaustion and session teardown.
func QueueEndedView() *View {
	return &View{Content: "ℹ️ | Queue has ended. Leaving voice channel."}
}

// QueueView renders one page of the queue with stateless navigation
// buttons. Pages are 1-based; the requested page is clamped on every
// render so an identifier forged or gone stale never escapes range.
func QueueView(current *player.Track, tracks []player.Track, page int) *View {
	totalPages := pageCount(len(tracks), QueuePageSize)
	if page < 1 {
		page = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * QueuePageSize
	end := start + QueuePageSize
	if end > len(tracks) {
		end = len(tracks)
	}

	var b strings.Builder
	if current != nil {
		fmt.Fprintf(&b, "**Now Playing:**\n▶️ [%s](%s) - %s\n\n**Up Next:**\n",
			current.Title, current.URI, TrackDuration(*current))
	} else {
		b.WriteString("**Queue:**\n")
	}
	for i, t := range tracks[start:end] {
		fmt.Fprintf(&b, "`%02d` 🎵 [%s](%s) - %s\n", start+i+1, t.Title, t.URI, TrackDuration(t))
	}

	embed := &discordgo.MessageEmbed{
		Color:       EmbedColor,
		Title:       "🎶 Queue List",
		Description: b.String(),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Total Tracks: %d • Page %d/%d", len(tracks), page, totalPages),
		},
	}
	if current != nil && current.Thumbnail != "" {
		embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: current.Thumbnail}
	}

	row := discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			CustomID: fmt.Sprintf("%s%d", ComponentQueuePrev, page-1),
			Label:    "« Prev",
			Style:    discordgo.SecondaryButton,
			Disabled: page == 1,
		},
		discordgo.Button{
			CustomID: fmt.Sprintf("%s%d", ComponentQueueNext, page+1),
			Label:    "Next »",
			Style:    discordgo.SecondaryButton,
			Disabled: page == totalPages,
		},
	}}
	return &View{Embed: embed, Components: []discordgo.MessageComponent{row}}
}

// CommentsPageCount returns how many pages a comment snapshot spans.
func CommentsPageCount(total int) int {
	return pageCount(total, CommentsPageSize)
}

// CommentsView renders one page of a comment snapshot, most recent
// first, with the pager's navigation buttons. Page is 0-based and
// clamped.
func CommentsView(trackTitle string, snapshot []comments.Comment, page int) *View {
	totalPages := CommentsPageCount(len(snapshot))
	if page < 0 {
		page = 0
	}
	if page > totalPages-1 {
		page = totalPages - 1
	}

	embed := &discordgo.MessageEmbed{
		Color: EmbedColor,
		Title: fmt.Sprintf("💬 Comments for %q", trackTitle),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Page %d of %d", page+1, totalPages),
		},
	}

	if len(snapshot) == 0 {
		embed.Description = "No comments for this track."
	} else {
		// Page 0 holds the newest comments; slice from the end.
		start := len(snapshot) - (page+1)*CommentsPageSize
		if start < 0 {
			start = 0
		}
		end := start + CommentsPageSize
		if end > len(snapshot) {
			end = len(snapshot)
		}
		pageComments := snapshot[start:end]
		lines := make([]string, 0, len(pageComments))
		for i := len(pageComments) - 1; i >= 0; i-- {
			lines = append(lines, fmt.Sprintf("**%s**: %s", pageComments[i].Username, pageComments[i].Message))
		}
		embed.Description = strings.Join(lines, "\n\n")
	}

	return &View{Embed: embed, Components: []discordgo.MessageComponent{CommentsButtons(page, totalPages, false)}}
}

// CommentsButtons builds the pager's navigation row. When expired is
// true both buttons render disabled.
func CommentsButtons(page, totalPages int, expired bool) discordgo.MessageComponent {
	return discordgo.ActionsRow{Components: []discordgo.MessageComponent{
		discordgo.Button{
			CustomID: ComponentCommentsPrev,
			Label:    "« Prev",
			Style:    discordgo.SecondaryButton,
			Disabled: expired || page == 0,
		},
		discordgo.Button{
			CustomID: ComponentCommentsNext,
			Label:    "Next »",
			Style:    discordgo.SecondaryButton,
			Disabled: expired || page >= totalPages-1,
		},
	}}
}

// StatusView renders the player status embed.
func StatusView(s *player.Session) *View {
	state := "⏸ Paused"
	if s.Playing() {
		state = "▶️ Playing"
	}
	loop := "Disabled"
	if s.Loop() == player.LoopQueue {
		loop = "Queue"
	}
	embed := &discordgo.MessageEmbed{
		Color: EmbedColor,
		Title: "ℹ️ Player Status",
		Fields: []*discordgo.MessageEmbedField{
			{Name: "Status", Value: state, Inline: true},
			{Name: "Volume", Value: fmt.Sprintf("🔊 %d%%", s.Volume()), Inline: true},
			{Name: "Loop Mode", Value: "🔁 " + loop, Inline: true},
		},
	}
	if t, ok := s.Current(); ok {
		embed.Description = fmt.Sprintf("**Currently Playing:**\n🎵 [%s](%s)\n⏱ Duration: %s",
			t.Title, t.URI, TrackDuration(t))
		if t.Thumbnail != "" {
			embed.Thumbnail = &discordgo.MessageEmbedThumbnail{URL: t.Thumbnail}
		}
	}
	return &View{Embed: embed}
}

// HelpView lists the command vocabulary.
func HelpView(prefix string, cmds []*Command) *View {
	lines := make([]string, 0, len(cmds))
	for _, c := range cmds {
		lines = append(lines, fmt.Sprintf("🎵 `%s` - %s", c.Name, c.Description))
	}
	return &View{Embed: &discordgo.MessageEmbed{
		Color:       EmbedColor,
		Title:       "ℹ️ Available Commands",
		Description: strings.Join(lines, "\n"),
		Footer: &discordgo.MessageEmbedFooter{
			Text: fmt.Sprintf("Prefix: %s • Example: %splay <song name>", prefix, prefix),
		},
	}}
}

// pageCount never returns less than one page, so empty collections still
// render.
func pageCount(items, pageSize int) int {
	pages := (items + pageSize - 1) / pageSize
	if pages < 1 {
		pages = 1
	}
	return pages
}

func lastN(list []comments.Comment, n int) []comments.Comment {
	if len(list) <= n {
		return list
	}
	return list[len(list)-n:]
}
