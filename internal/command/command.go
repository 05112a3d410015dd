// Package command is the surface-agnostic core of the bot: it normalizes
// prefixed messages and slash interactions into one Intent model, guards
// them, and executes them against the playback engine and stores. Nothing
// past the normalizer knows which surface an intent came from.
package command

import (
	"context"

	"tunebard/internal/comments"
	"tunebard/internal/player"
	"tunebard/internal/storage"

	"github.com/bwmarrin/discordgo"
)

// Intent is the normalized form of a user command. Built once per
// inbound event, never mutated.
type Intent struct {
	Name      string
	Args      []string
	GuildID   string
	ChannelID string

	ActorID             string
	ActorName           string
	ActorVoiceChannelID string // empty when the actor is not in voice
	ActorVoiceGuildID   string // guild owning the actor's voice channel
	ActorIsAdmin        bool
}

// View is renderable reply data: plain content or an embed, optionally
// with button rows. The transport layer turns it into a message.
type View struct {
	Content    string
	Embed      *discordgo.MessageEmbed
	Components []discordgo.MessageComponent
}

// Responder delivers replies for exactly one Intent. Implementations own
// the underlying transport slot: after the primary reply (or a deferral)
// is consumed, further terminal calls are routed to follow-ups, so a
// double reply can never reach the transport.
type Responder interface {
	// Public posts a reply visible to the whole channel.
	Public(v *View) error
	// Ephemeral posts a reply visible only to the actor, where the
	// surface supports it; otherwise it falls back to a public reply.
	Ephemeral(v *View) error
	// Defer acknowledges the intent so a slow operation can reply later.
	// A no-op on surfaces without an acknowledgement slot.
	Defer() error
	// EditLast rewrites the previous reply in place.
	EditLast(v *View) error
	// FollowUp posts a secondary message after the primary reply.
	FollowUp(v *View, ephemeral bool) error
	// Ack closes a pending acknowledgement with a short notice, on
	// surfaces that require the reply slot to be consumed. No-op
	// elsewhere.
	Ack(content string) error
}

// Pager displays a time-bounded, button-navigable comment listing.
// Implemented by the transport layer.
type Pager interface {
	Show(channelID, trackTitle string, snapshot []comments.Comment) error
}

// Deps are the collaborators handed to every executor.
type Deps struct {
	Engine   *player.Engine
	Comments *comments.Store
	Store    *storage.Storage
	Pager    Pager
	Prefix   string
}

// Context carries one intent through its execution.
type Context struct {
	Ctx    context.Context
	Intent *Intent
	Responder
	Deps *Deps
}

// Command describes one of the bot's verbs.
type Command struct {
	Name        string
	Description string
	// NeedsVoice marks the music subset: the voice-presence and
	// same-guild guards apply.
	NeedsVoice bool
	// AdminOnly is checked inside the executor, not by the guard chain.
	AdminOnly bool
	Options   []*discordgo.ApplicationCommandOption
	Run       func(*Context) error
}
