package discord

import (
	"log"
	"sync"
	"time"

	"tunebard/internal/command"
	"tunebard/internal/comments"

	"github.com/bwmarrin/discordgo"
)

// pagerLifetime is how long a comment listing stays navigable before its
// buttons are disabled in place.
const pagerLifetime = 60 * time.Second

// commentPager owns the button-navigable comment listings. Each Show
// posts one message backed by an immutable snapshot; navigation edits
// that message in place and never re-reads the live store.
type commentPager struct {
	s *discordgo.Session

	mu    sync.Mutex
	pages map[string]*pagerEntry // keyed by message ID
}

type pagerEntry struct {
	channelID  string
	trackTitle string
	snapshot   []comments.Comment
	page       int
	expire     *time.Timer
}

func newCommentPager(s *discordgo.Session) *commentPager {
	return &commentPager{s: s, pages: make(map[string]*pagerEntry)}
}

var _ command.Pager = (*commentPager)(nil)

// Show posts the first page and arms the expiry timer.
func (p *commentPager) Show(channelID, trackTitle string, snapshot []comments.Comment) error {
	v := command.CommentsView(trackTitle, snapshot, 0)
	msg, err := p.s.ChannelMessageSendComplex(channelID, &discordgo.MessageSend{
		Embeds:     viewEmbeds(v),
		Components: v.Components,
	})
	if err != nil {
		return err
	}

	entry := &pagerEntry{
		channelID:  channelID,
		trackTitle: trackTitle,
		snapshot:   snapshot,
	}
	p.mu.Lock()
	p.pages[msg.ID] = entry
	entry.expire = time.AfterFunc(pagerLifetime, func() { p.expire(msg.ID) })
	p.mu.Unlock()
	return nil
}

// Handle processes a comments navigation button press. Presses on an
// expired or unknown listing are acknowledged and dropped.
func (p *commentPager) Handle(i *discordgo.InteractionCreate, customID string) {
	p.mu.Lock()
	entry, ok := p.pages[i.Message.ID]
	if !ok {
		p.mu.Unlock()
		_ = p.s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseDeferredMessageUpdate,
		})
		return
	}

	totalPages := command.CommentsPageCount(len(entry.snapshot))
	switch customID {
	case command.ComponentCommentsPrev:
		if entry.page > 0 {
			entry.page--
		}
	case command.ComponentCommentsNext:
		if entry.page < totalPages-1 {
			entry.page++
		}
	}
	v := command.CommentsView(entry.trackTitle, entry.snapshot, entry.page)
	p.mu.Unlock()

	err := p.s.InteractionRespond(i.Interaction, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseUpdateMessage,
		Data: &discordgo.InteractionResponseData{
			Embeds:     viewEmbeds(v),
			Components: v.Components,
		},
	})
	if err != nil {
		log.Printf("[ERR] Failed to update comments page: %v", err)
	}
}

// expire disables the listing's buttons and forgets it.
func (p *commentPager) expire(messageID string) {
	p.mu.Lock()
	entry, ok := p.pages[messageID]
	if ok {
		delete(p.pages, messageID)
	}
	p.mu.Unlock()
	if !ok {
		return
	}

	totalPages := command.CommentsPageCount(len(entry.snapshot))
	disabled := []discordgo.MessageComponent{command.CommentsButtons(entry.page, totalPages, true)}
	_, err := p.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         messageID,
		Channel:    entry.channelID,
		Components: &disabled,
	})
	if err != nil {
		log.Printf("[WARN] Failed to disable expired comments pager: %v", err)
	}
}
