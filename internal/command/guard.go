package command

import (
	"fmt"

	"tunebard/internal/storage"
)

// GuardChain applies the fixed-order precondition checks to a normalized
// intent before its executor runs. The first failure short-circuits.
type GuardChain struct {
	Store *storage.Storage
}

// Check returns nil when every applicable guard passes, or a
// *PreconditionError describing the first failure.
func (g *GuardChain) Check(cmd *Command, in *Intent) error {
	// 1. Channel restriction.
	if g.Store != nil {
		if allowed, ok := g.Store.CommandChannel(in.GuildID); ok && allowed != in.ChannelID {
			return preconditionErrf("Commands are only allowed in %s.", channelMention(allowed))
		}
	}

	if !cmd.NeedsVoice {
		return nil
	}

	// 2. Voice presence.
	if in.ActorVoiceChannelID == "" {
		return preconditionErrf("You must be in a voice channel to use this command.")
	}

	// 3. Same-guild voice.
	if in.ActorVoiceGuildID != "" && in.ActorVoiceGuildID != in.GuildID {
		return preconditionErrf("You are connected to a voice channel in another server. Use the command there.")
	}

	return nil
}

func channelMention(channelID string) string {
	return fmt.Sprintf("<#%s>", channelID)
}
