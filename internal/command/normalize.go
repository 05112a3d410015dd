package command

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/bwmarrin/discordgo"
)

// VoiceStateFunc reports the voice channel an actor currently occupies
// and the guild that channel belongs to.
type VoiceStateFunc func(guildID, userID string) (channelID, voiceGuildID string, ok bool)

// AdminFunc reports whether an actor holds the administrator permission
// in the given channel.
type AdminFunc func(guildID, channelID, userID string) bool

// Normalizer collapses both input surfaces into Intents. The lookups are
// injected so the normalizer can be exercised without a live session.
type Normalizer struct {
	Prefix     string
	VoiceState VoiceStateFunc
	IsAdmin    AdminFunc
}

// FromMessage builds an Intent from a prefixed text message. Non-command
// messages, bot-authored messages and DMs yield ok=false and are
// silently ignored.
func (n *Normalizer) FromMessage(m *discordgo.MessageCreate) (*Intent, bool) {
	if m.Author == nil || m.Author.Bot {
		return nil, false
	}
	if m.GuildID == "" {
		return nil, false
	}
	if !strings.HasPrefix(m.Content, n.Prefix) {
		return nil, false
	}
	fields := strings.Fields(strings.TrimPrefix(m.Content, n.Prefix))
	if len(fields) == 0 {
		return nil, false
	}

	in := &Intent{
		Name:      strings.ToLower(fields[0]),
		Args:      fields[1:],
		GuildID:   m.GuildID,
		ChannelID: m.ChannelID,
		ActorID:   m.Author.ID,
		ActorName: m.Author.Username,
	}
	n.fillActorState(in)
	return in, true
}

// FromInteraction builds an Intent from an application command
// interaction. The caller has already rejected DM-origin interactions.
func (n *Normalizer) FromInteraction(i *discordgo.InteractionCreate) (*Intent, bool) {
	if i.Type != discordgo.InteractionApplicationCommand || i.Member == nil {
		return nil, false
	}
	data := i.ApplicationCommandData()

	in := &Intent{
		Name:      data.Name,
		Args:      optionArgs(data.Name, data.Options),
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		ActorID:   i.Member.User.ID,
		ActorName: i.Member.User.Username,
	}
	n.fillActorState(in)
	// Interactions carry resolved member permissions; prefer them over
	// the lookup.
	in.ActorIsAdmin = i.Member.Permissions&discordgo.PermissionAdministrator != 0
	return in, true
}

// FromComponent builds an Intent for the named verb from a message
// component interaction, so control buttons run through the same guard
// and dispatch path as typed commands.
func (n *Normalizer) FromComponent(i *discordgo.InteractionCreate, name string) (*Intent, bool) {
	if i.Member == nil || i.Member.User == nil {
		return nil, false
	}
	in := &Intent{
		Name:      name,
		GuildID:   i.GuildID,
		ChannelID: i.ChannelID,
		ActorID:   i.Member.User.ID,
		ActorName: i.Member.User.Username,
	}
	n.fillActorState(in)
	in.ActorIsAdmin = i.Member.Permissions&discordgo.PermissionAdministrator != 0
	return in, true
}

func (n *Normalizer) fillActorState(in *Intent) {
	if n.VoiceState != nil {
		in.ActorVoiceChannelID, in.ActorVoiceGuildID, _ = n.VoiceState(in.GuildID, in.ActorID)
	}
	if n.IsAdmin != nil {
		in.ActorIsAdmin = n.IsAdmin(in.GuildID, in.ChannelID, in.ActorID)
	}
}

// optionArgs flattens structured option values into the positional arg
// convention the text surface produces, so executors treat both surfaces
// identically.
func optionArgs(name string, opts []*discordgo.ApplicationCommandInteractionDataOption) []string {
	if name == "goto" {
		return gotoArgs(opts)
	}
	args := make([]string, 0, len(opts))
	for _, opt := range opts {
		args = append(args, optionString(opt))
	}
	return args
}

// gotoArgs folds the seconds/minutes/hours options into the text
// surface's positional shape: [ss], [mm ss] or [hh mm ss]. The
// structured surface takes each option as a raw total (seconds:90 is
// fine), so the values are summed and re-split into in-range tokens.
func gotoArgs(opts []*discordgo.ApplicationCommandInteractionDataOption) []string {
	var seconds, minutes, hours int64
	haveSeconds := false
	for _, opt := range opts {
		switch opt.Name {
		case "seconds":
			seconds = opt.IntValue()
			haveSeconds = true
		case "minutes":
			minutes = opt.IntValue()
		case "hours":
			hours = opt.IntValue()
		}
	}
	if !haveSeconds {
		return nil
	}
	if seconds < 0 || minutes < 0 || hours < 0 {
		// Pass negatives through untouched so they fail validation.
		return []string{
			strconv.FormatInt(hours, 10),
			strconv.FormatInt(minutes, 10),
			strconv.FormatInt(seconds, 10),
		}
	}
	total := hours*3600 + minutes*60 + seconds
	h, m, ss := total/3600, (total%3600)/60, total%60
	switch {
	case h > 0:
		return []string{
			strconv.FormatInt(h, 10),
			strconv.FormatInt(m, 10),
			strconv.FormatInt(ss, 10),
		}
	case m > 0:
		return []string{strconv.FormatInt(m, 10), strconv.FormatInt(ss, 10)}
	default:
		return []string{strconv.FormatInt(ss, 10)}
	}
}

func optionString(opt *discordgo.ApplicationCommandInteractionDataOption) string {
	switch opt.Type {
	case discordgo.ApplicationCommandOptionInteger:
		return strconv.FormatInt(opt.IntValue(), 10)
	case discordgo.ApplicationCommandOptionString:
		return opt.StringValue()
	default:
		return fmt.Sprint(opt.Value)
	}
}
