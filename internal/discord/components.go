package discord

import (
	"log"
	"strconv"
	"strings"

	"tunebard/internal/command"
	"tunebard/internal/player"

	"github.com/bwmarrin/discordgo"
)

// handleComponent routes message component presses. Queue navigation is
// stateless: the target page rides in the identifier and the listing is
// re-rendered from the live queue. Control buttons are translated into
// the matching verbs and run through normal dispatch. Comment navigation
// belongs to the pager.
func (b *Bot) handleComponent(s *discordgo.Session, i *discordgo.InteractionCreate) {
	customID := i.MessageComponentData().CustomID

	switch {
	case strings.HasPrefix(customID, command.ComponentQueuePrev):
		b.handleQueuePage(s, i, strings.TrimPrefix(customID, command.ComponentQueuePrev))
	case strings.HasPrefix(customID, command.ComponentQueueNext):
		b.handleQueuePage(s, i, strings.TrimPrefix(customID, command.ComponentQueueNext))
	case customID == command.ComponentCommentsPrev, customID == command.ComponentCommentsNext:
		b.pager.Handle(i, customID)
	case customID == command.ComponentMusicPause:
		b.runButtonVerb(s, i, "pause")
	case customID == command.ComponentMusicResume:
		b.runButtonVerb(s, i, "resume")
	case customID == command.ComponentMusicSkip:
		b.runButtonVerb(s, i, "skip")
	case customID == command.ComponentMusicStop:
		b.runButtonVerb(s, i, "stop")
	default:
		log.Printf("[WARN] Unhandled component: %s", customID)
	}
}

// handleQueuePage replaces a queue listing: the old message is deleted
// and a fresh page is rendered from the queue as it is now, so a stale
// or forged page number can at worst land on a clamped page.
func (b *Bot) handleQueuePage(s *discordgo.Session, i *discordgo.InteractionCreate, pageToken string) {
	page, err := strconv.Atoi(pageToken)
	if err != nil {
		page = 1
	}

	if err := s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredMessageUpdate,
	}); err != nil {
		log.Printf("[WARN] Failed to ack queue page flip: %v", err)
	}

	channelID := i.ChannelID
	messageID := i.Message.ID
	b.dispatch.Enqueue(i.GuildID, func() {
		if err := s.ChannelMessageDelete(channelID, messageID); err != nil {
			log.Printf("[WARN] Failed to delete stale queue page: %v", err)
		}

		sess, ok := b.engine.Session(i.GuildID)
		if !ok {
			_, _ = s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
				Content: "❌ | Nothing is playing in this server.",
			})
			return
		}
		var current *player.Track
		if t, ok := sess.Current(); ok {
			current = &t
		}
		v := command.QueueView(current, sess.Queue().Tracks(), page)
		if _, err := s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
			Embeds:     viewEmbeds(v),
			Components: v.Components,
		}); err != nil {
			log.Printf("[ERR] Failed to render queue page: %v", err)
		}
	})
}

// runButtonVerb turns a playback control button into the named verb.
func (b *Bot) runButtonVerb(s *discordgo.Session, i *discordgo.InteractionCreate, name string) {
	in, ok := b.norm.FromComponent(i, name)
	if !ok {
		return
	}
	b.dispatch.Execute(in, newInteractionResponder(s, i.Interaction))
}
