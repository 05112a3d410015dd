package command

import "github.com/bwmarrin/discordgo"

// The full command vocabulary, in the order help lists it. Both surfaces
// expose exactly these verbs.
func init() {
	for _, c := range []*Command{
		{
			Name:        "play",
			Description: "Play a song or playlist",
			NeedsVoice:  true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "query",
					Description: "Song name or URL",
					Required:    true,
				},
			},
			Run: runPlay,
		},
		{Name: "pause", Description: "Pause the current track", NeedsVoice: true, Run: runPause},
		{Name: "resume", Description: "Resume the current track", NeedsVoice: true, Run: runResume},
		{Name: "skip", Description: "Skip the current track", NeedsVoice: true, Run: runSkip},
		{Name: "stop", Description: "Stop playback and clear queue", NeedsVoice: true, Run: runStop},
		{Name: "queue", Description: "Show the current queue", NeedsVoice: true, Run: runQueue},
		{Name: "nowplaying", Description: "Show current track info", NeedsVoice: true, Run: runNowPlaying},
		{
			Name:        "volume",
			Description: "Adjust player volume",
			NeedsVoice:  true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "level",
					Description: "0-100",
					Required:    true,
				},
			},
			Run: runVolume,
		},
		{Name: "shuffle", Description: "Shuffle the current queue", NeedsVoice: true, Run: runShuffle},
		{Name: "loop", Description: "Toggle queue loop mode", NeedsVoice: true, Run: runLoop},
		{
			Name:        "remove",
			Description: "Remove a track from queue",
			NeedsVoice:  true,
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "position",
					Description: "Track position in queue",
					Required:    true,
				},
			},
			Run: runRemove,
		},
		{Name: "clear", Description: "Clear the current queue", NeedsVoice: true, Run: runClear},
		{Name: "status", Description: "Show player status", Run: runStatus},
		{Name: "help", Description: "Show this help message", Run: runHelp},
		{
			Name:        "comment",
			Description: "Add a comment to the current track",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionString,
					Name:        "text",
					Description: "Comment for the track",
					Required:    true,
					MaxLength:   maxCommentLength,
				},
			},
			Run: runComment,
		},
		{Name: "comments", Description: "Show comments for the current track", Run: runComments},
		{Name: "setchannel", Description: "Set the current channel as the allowed command channel", AdminOnly: true, Run: runSetChannel},
		{Name: "clearchannel", Description: "Remove command channel restriction", AdminOnly: true, Run: runClearChannel},
		{
			Name:        "goto",
			Description: "Go to a specific time in the current track",
			Options: []*discordgo.ApplicationCommandOption{
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "seconds",
					Description: "Second to jump to",
					Required:    true,
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "minutes",
					Description: "Minute (optional)",
				},
				{
					Type:        discordgo.ApplicationCommandOptionInteger,
					Name:        "hours",
					Description: "Hour (optional)",
				},
			},
			Run: runGoto,
		},
	} {
		Register(c)
	}
}
