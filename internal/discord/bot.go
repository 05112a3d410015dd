package discord

import (
	"context"
	"fmt"
	"log"
	"time"

	"tunebard/internal/command"
	"tunebard/internal/comments"
	"tunebard/internal/config"
	"tunebard/internal/player"
	"tunebard/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// presenceRotation is cycled through the bot's activity status.
var presenceRotation = []string{
	"music 🎵",
	"your requests 📻",
	"the queue 🎶",
}

const presenceInterval = 10 * time.Minute

// Bot ties the gateway to the command core: it normalizes inbound
// events, hands them to the per-guild dispatcher, and renders playback
// engine events back into channels.
type Bot struct {
	dg       *discordgo.Session
	cfg      *config.Config
	store    *storage.Storage
	engine   *player.Engine
	comments *comments.Store

	norm     *command.Normalizer
	dispatch *command.Dispatcher
	pager    *commentPager
}

// StartBot runs the Discord bot until ctx is cancelled.
func StartBot(ctx context.Context, cfg *config.Config, store *storage.Storage, engine *player.Engine, commentStore *comments.Store) error {
	dg, err := discordgo.New("Bot " + cfg.DiscordToken)
	if err != nil {
		return fmt.Errorf("create session: %w", err)
	}

	b := &Bot{
		dg:       dg,
		cfg:      cfg,
		store:    store,
		engine:   engine,
		comments: commentStore,
	}
	b.pager = newCommentPager(dg)
	b.norm = &command.Normalizer{
		Prefix:     cfg.CommandPrefix,
		VoiceState: b.voiceState,
		IsAdmin:    b.isAdmin,
	}
	b.dispatch = command.NewDispatcher(&command.Deps{
		Engine:   engine,
		Comments: commentStore,
		Store:    store,
		Pager:    b.pager,
		Prefix:   cfg.CommandPrefix,
	})

	// Engine events go through the same per-guild dispatch queues as
	// commands, so a track-start render can never interleave with a
	// half-executed stop.
	engine.OnTrackStart(b.onTrackStart)
	engine.OnQueueEnd(b.onQueueEnd)

	dg.Identify.Intents = discordgo.IntentsGuilds |
		discordgo.IntentsGuildMessages |
		discordgo.IntentsGuildVoiceStates |
		discordgo.IntentsMessageContent

	dg.AddHandler(b.onReady)
	dg.AddHandler(b.onGuildCreate)
	dg.AddHandler(b.onMessageCreate)
	dg.AddHandler(b.onInteractionCreate)

	if err := dg.Open(); err != nil {
		return fmt.Errorf("open gateway: %w", err)
	}
	defer dg.Close()

	go b.rotatePresence(ctx)

	<-ctx.Done()
	log.Println("[INFO] ❎ Shutdown signal received. Cleaning up...")
	return nil
}

func (b *Bot) onReady(s *discordgo.Session, r *discordgo.Ready) {
	if b.cfg.InitSlashCommands {
		for _, g := range r.Guilds {
			if err := b.registerCommands(g.ID); err != nil {
				log.Printf("[ERR] [%s] Failed to register slash commands: %v", g.ID, err)
			}
		}
	} else {
		log.Println("[INFO] Registering slash commands skipped")
	}
	log.Printf("[INFO] ✅ Discord bot %v is running.", s.State.User.Username)
}

func (b *Bot) onGuildCreate(s *discordgo.Session, g *discordgo.GuildCreate) {
	log.Printf("[INFO] Bot added to guild: %s (%s)", g.Guild.ID, g.Guild.Name)
	if b.cfg.InitSlashCommands {
		if err := b.registerCommands(g.Guild.ID); err != nil {
			log.Printf("[ERR] [%s] Failed to register slash commands: %v", g.Guild.ID, err)
		}
	}
}

func (b *Bot) onMessageCreate(s *discordgo.Session, m *discordgo.MessageCreate) {
	if m.Author != nil && m.Author.ID == s.State.User.ID {
		return
	}
	in, ok := b.norm.FromMessage(m)
	if !ok {
		return
	}
	b.dispatch.Execute(in, newMessageResponder(s, m.ChannelID))
}

func (b *Bot) onInteractionCreate(s *discordgo.Session, i *discordgo.InteractionCreate) {
	switch i.Type {
	case discordgo.InteractionApplicationCommand:
		if i.Member == nil {
			// DM-origin interaction; every verb is guild-scoped.
			_ = s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
				Type: discordgo.InteractionResponseChannelMessageWithSource,
				Data: &discordgo.InteractionResponseData{
					Content: "❌ | Commands only work inside a server.",
					Flags:   discordgo.MessageFlagsEphemeral,
				},
			})
			return
		}
		in, ok := b.norm.FromInteraction(i)
		if !ok {
			return
		}
		b.dispatch.Execute(in, newInteractionResponder(s, i.Interaction))

	case discordgo.InteractionMessageComponent:
		b.handleComponent(s, i)
	}
}

// onTrackStart announces the track in the session's text channel.
func (b *Bot) onTrackStart(sess *player.Session, t player.Track) {
	b.dispatch.Enqueue(sess.GuildID, func() {
		v := command.NowPlayingView(t, b.comments.For(t.URI))
		if _, err := b.dg.ChannelMessageSendComplex(sess.TextChannelID, &discordgo.MessageSend{
			Embeds:     viewEmbeds(v),
			Components: v.Components,
		}); err != nil {
			log.Printf("[ERR] [%s] Failed to announce track: %v", sess.GuildID, err)
		}
	})
}

// onQueueEnd tears the session down and tells the channel.
func (b *Bot) onQueueEnd(sess *player.Session) {
	b.dispatch.Enqueue(sess.GuildID, func() {
		// A play that was already queued behind this task may have
		// restarted playback; only an idle session gets torn down.
		if !sess.DestroyIfIdle() {
			return
		}
		v := command.QueueEndedView()
		if _, err := b.dg.ChannelMessageSendComplex(sess.TextChannelID, &discordgo.MessageSend{
			Content: v.Content,
		}); err != nil {
			log.Printf("[WARN] [%s] Failed to announce queue end: %v", sess.GuildID, err)
		}
	})
}

// voiceState reports the voice channel the user occupies and the guild
// owning it. The user's home guild is checked first, then the rest of
// the state, so a user parked in another server's voice channel is
// still found.
func (b *Bot) voiceState(guildID, userID string) (string, string, bool) {
	if ch, ok := b.guildVoiceChannel(guildID, userID); ok {
		return ch, guildID, true
	}
	b.dg.State.RLock()
	guilds := make([]string, 0, len(b.dg.State.Guilds))
	for _, g := range b.dg.State.Guilds {
		guilds = append(guilds, g.ID)
	}
	b.dg.State.RUnlock()
	for _, gid := range guilds {
		if gid == guildID {
			continue
		}
		if ch, ok := b.guildVoiceChannel(gid, userID); ok {
			return ch, gid, true
		}
	}
	return "", "", false
}

func (b *Bot) guildVoiceChannel(guildID, userID string) (string, bool) {
	vs, err := b.dg.State.VoiceState(guildID, userID)
	if err != nil || vs == nil {
		return "", false
	}
	return vs.ChannelID, true
}

// isAdmin reports whether the user holds the administrator permission in
// the channel. Used for the text surface; interactions carry resolved
// permissions already.
func (b *Bot) isAdmin(guildID, channelID, userID string) bool {
	perms, err := b.dg.State.UserChannelPermissions(userID, channelID)
	if err != nil {
		perms, err = b.dg.UserChannelPermissions(userID, channelID)
		if err != nil {
			return false
		}
	}
	return perms&discordgo.PermissionAdministrator != 0
}

func (b *Bot) rotatePresence(ctx context.Context) {
	idx := 0
	ticker := time.NewTicker(presenceInterval)
	defer ticker.Stop()
	for {
		if err := b.dg.UpdateGameStatus(0, presenceRotation[idx]); err != nil {
			log.Printf("[WARN] Failed to update presence: %v", err)
		}
		idx = (idx + 1) % len(presenceRotation)
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
		}
	}
}
