package discord

import (
	"sync"

	"tunebard/internal/command"

	"github.com/bwmarrin/discordgo"
)

// The responders own one reply slot each. Whatever path an intent takes
// through guards, executors and error handling, at most one terminal
// response reaches the transport; later calls become edits or follow-ups.

func viewEmbeds(v *command.View) []*discordgo.MessageEmbed {
	if v.Embed == nil {
		return nil
	}
	return []*discordgo.MessageEmbed{v.Embed}
}

// messageResponder replies to prefix commands with plain channel
// messages. The text surface has no acknowledgement slot and no
// ephemeral delivery, so Defer and Ack are no-ops and Ephemeral falls
// back to a public message.
type messageResponder struct {
	s         *discordgo.Session
	channelID string

	mu     sync.Mutex
	lastID string
}

func newMessageResponder(s *discordgo.Session, channelID string) *messageResponder {
	return &messageResponder{s: s, channelID: channelID}
}

func (r *messageResponder) send(v *command.View) error {
	msg, err := r.s.ChannelMessageSendComplex(r.channelID, &discordgo.MessageSend{
		Content:    v.Content,
		Embeds:     viewEmbeds(v),
		Components: v.Components,
	})
	if err != nil {
		return err
	}
	r.mu.Lock()
	r.lastID = msg.ID
	r.mu.Unlock()
	return nil
}

func (r *messageResponder) Public(v *command.View) error    { return r.send(v) }
func (r *messageResponder) Ephemeral(v *command.View) error { return r.send(v) }
func (r *messageResponder) Defer() error                    { return nil }
func (r *messageResponder) Ack(string) error                { return nil }

func (r *messageResponder) EditLast(v *command.View) error {
	r.mu.Lock()
	lastID := r.lastID
	r.mu.Unlock()
	if lastID == "" {
		return r.send(v)
	}
	content := v.Content
	_, err := r.s.ChannelMessageEditComplex(&discordgo.MessageEdit{
		ID:         lastID,
		Channel:    r.channelID,
		Content:    &content,
		Embeds:     embedsPtr(v),
		Components: &v.Components,
	})
	return err
}

func (r *messageResponder) FollowUp(v *command.View, _ bool) error { return r.send(v) }

// interactionResponder replies through the interaction lifecycle. The
// first terminal call consumes the response slot; after a deferral the
// next terminal call edits the deferred reply; everything after that is
// a follow-up message.
type interactionResponder struct {
	s *discordgo.Session
	i *discordgo.Interaction

	mu       sync.Mutex
	deferred bool
	replied  bool
}

func newInteractionResponder(s *discordgo.Session, i *discordgo.Interaction) *interactionResponder {
	return &interactionResponder{s: s, i: i}
}

func (r *interactionResponder) respond(v *command.View, ephemeral bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	switch {
	case !r.replied && !r.deferred:
		data := &discordgo.InteractionResponseData{
			Content:    v.Content,
			Embeds:     viewEmbeds(v),
			Components: v.Components,
		}
		if ephemeral {
			data.Flags = discordgo.MessageFlagsEphemeral
		}
		err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
			Type: discordgo.InteractionResponseChannelMessageWithSource,
			Data: data,
		})
		if err != nil {
			return err
		}
		r.replied = true
		return nil

	case r.deferred && !r.replied:
		return r.editLocked(v)

	default:
		return r.followUpLocked(v, ephemeral)
	}
}

func (r *interactionResponder) editLocked(v *command.View) error {
	content := v.Content
	_, err := r.s.InteractionResponseEdit(r.i, &discordgo.WebhookEdit{
		Content:    &content,
		Embeds:     embedsPtr(v),
		Components: &v.Components,
	})
	if err != nil {
		return err
	}
	r.replied = true
	return nil
}

func (r *interactionResponder) followUpLocked(v *command.View, ephemeral bool) error {
	params := &discordgo.WebhookParams{
		Content:    v.Content,
		Embeds:     viewEmbeds(v),
		Components: v.Components,
	}
	if ephemeral {
		params.Flags = discordgo.MessageFlagsEphemeral
	}
	_, err := r.s.FollowupMessageCreate(r.i, true, params)
	return err
}

func (r *interactionResponder) Public(v *command.View) error    { return r.respond(v, false) }
func (r *interactionResponder) Ephemeral(v *command.View) error { return r.respond(v, true) }

func (r *interactionResponder) Defer() error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.deferred || r.replied {
		return nil
	}
	err := r.s.InteractionRespond(r.i, &discordgo.InteractionResponse{
		Type: discordgo.InteractionResponseDeferredChannelMessageWithSource,
	})
	if err != nil {
		return err
	}
	r.deferred = true
	return nil
}

func (r *interactionResponder) EditLast(v *command.View) error {
	r.mu.Lock()
	if r.deferred || r.replied {
		defer r.mu.Unlock()
		return r.editLocked(v)
	}
	r.mu.Unlock()
	// Nothing to edit yet; fall through to a primary reply.
	return r.respond(v, false)
}

func (r *interactionResponder) FollowUp(v *command.View, ephemeral bool) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.followUpLocked(v, ephemeral)
}

// Ack consumes the interaction slot with a short ephemeral notice so
// commands whose real output lives in another message never leave the
// interaction hanging.
func (r *interactionResponder) Ack(content string) error {
	return r.respond(&command.View{Content: content}, true)
}

func embedsPtr(v *command.View) *[]*discordgo.MessageEmbed {
	e := viewEmbeds(v)
	return &e
}

var (
	_ command.Responder = (*messageResponder)(nil)
	_ command.Responder = (*interactionResponder)(nil)
)
