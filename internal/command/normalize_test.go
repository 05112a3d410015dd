package command

import (
	"reflect"
	"testing"

	"github.com/bwmarrin/discordgo"
)

func testNormalizer() *Normalizer {
	return &Normalizer{
		Prefix: "!",
		VoiceState: func(guildID, userID string) (string, string, bool) {
			if userID == "voiceuser" {
				return "vc-1", guildID, true
			}
			return "", "", false
		},
	}
}

func message(content string) *discordgo.MessageCreate {
	return &discordgo.MessageCreate{Message: &discordgo.Message{
		Content:   content,
		GuildID:   "g1",
		ChannelID: "c1",
		Author:    &discordgo.User{ID: "u1", Username: "alice"},
	}}
}

func TestFromMessage(t *testing.T) {
	n := testNormalizer()

	tests := []struct {
		name     string
		content  string
		wantOK   bool
		wantName string
		wantArgs []string
	}{
		{"simple command", "!pause", true, "pause", []string{}},
		{"command with args", "!play lofi beats", true, "play", []string{"lofi", "beats"}},
		{"case folded verb", "!PLAY radio", true, "play", []string{"radio"}},
		{"collapsed whitespace", "!goto  1   30", true, "goto", []string{"1", "30"}},
		{"no prefix", "play song", false, "", nil},
		{"bare prefix", "!", false, "", nil},
		{"prefix and spaces", "!   ", false, "", nil},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			in, ok := n.FromMessage(message(tc.content))
			if ok != tc.wantOK {
				t.Fatalf("ok = %v, want %v", ok, tc.wantOK)
			}
			if !ok {
				return
			}
			if in.Name != tc.wantName {
				t.Errorf("name = %q, want %q", in.Name, tc.wantName)
			}
			if len(in.Args) != len(tc.wantArgs) || (len(in.Args) > 0 && !reflect.DeepEqual(in.Args, tc.wantArgs)) {
				t.Errorf("args = %v, want %v", in.Args, tc.wantArgs)
			}
		})
	}
}

func TestFromMessageIgnoresBots(t *testing.T) {
	n := testNormalizer()
	m := message("!play x")
	m.Author.Bot = true
	if _, ok := n.FromMessage(m); ok {
		t.Error("bot-authored messages must be ignored")
	}
}

func TestFromMessageIgnoresDMs(t *testing.T) {
	n := testNormalizer()
	m := message("!play x")
	m.GuildID = ""
	if _, ok := n.FromMessage(m); ok {
		t.Error("DM messages must be ignored")
	}
}

func TestFromMessageFillsVoiceState(t *testing.T) {
	n := testNormalizer()
	m := message("!play x")
	m.Author.ID = "voiceuser"
	in, ok := n.FromMessage(m)
	if !ok {
		t.Fatal("expected intent")
	}
	if in.ActorVoiceChannelID != "vc-1" || in.ActorVoiceGuildID != "g1" {
		t.Errorf("voice state = %q/%q, want vc-1/g1", in.ActorVoiceChannelID, in.ActorVoiceGuildID)
	}
}

func intOpt(name string, v int64) *discordgo.ApplicationCommandInteractionDataOption {
	return &discordgo.ApplicationCommandInteractionDataOption{
		Name:  name,
		Type:  discordgo.ApplicationCommandOptionInteger,
		Value: float64(v),
	}
}

func TestGotoArgsReorder(t *testing.T) {
	tests := []struct {
		name string
		opts []*discordgo.ApplicationCommandInteractionDataOption
		want []string
	}{
		{
			"seconds only",
			[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("seconds", 30)},
			[]string{"30"},
		},
		{
			"minutes and seconds",
			[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("seconds", 30), intOpt("minutes", 1)},
			[]string{"1", "30"},
		},
		{
			"full triple ordered hh mm ss",
			[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("seconds", 0), intOpt("minutes", 30), intOpt("hours", 1)},
			[]string{"1", "30", "0"},
		},
		{
			"hours without minutes backfills zero",
			[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("seconds", 15), intOpt("hours", 2)},
			[]string{"2", "0", "15"},
		},
		{
			"raw seconds total is re-split",
			[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("seconds", 90)},
			[]string{"1", "30"},
		},
		{
			"raw minutes total carries into hours",
			[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("seconds", 0), intOpt("minutes", 90)},
			[]string{"1", "30", "0"},
		},
		{
			"negative values pass through for validation",
			[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("seconds", -5)},
			[]string{"0", "0", "-5"},
		},
		{
			"no seconds yields nothing",
			[]*discordgo.ApplicationCommandInteractionDataOption{intOpt("minutes", 1)},
			nil,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := gotoArgs(tc.opts)
			if !reflect.DeepEqual(got, tc.want) {
				t.Errorf("gotoArgs = %v, want %v", got, tc.want)
			}
		})
	}
}
