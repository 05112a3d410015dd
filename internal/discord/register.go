package discord

import (
	"context"
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"

	"tunebard/internal/command"

	"github.com/bwmarrin/discordgo"
	"golang.org/x/time/rate"
)

// registerCommands syncs the guild's slash commands with Discord:
// obsolete commands are deleted, commands whose definition hash differs
// from the cached value are re-registered.
func (b *Bot) registerCommands(guildID string) error {
	appID, err := b.appID()
	if err != nil {
		return err
	}

	local := buildCommandDefinitions()
	cached := loadCommandHashes(guildID)

	remote, err := b.dg.ApplicationCommands(appID, guildID)
	if err != nil {
		// Without the remote listing there is no way to tell what is
		// obsolete; deleting on a guess could drop live commands.
		log.Printf("[WARN] [%s] Failed to list remote commands, skipping cleanup: %v", guildID, err)
	} else {
		b.deleteObsoleteCommands(appID, guildID, remote, local, cached)
	}
	b.upsertChangedCommands(appID, guildID, local, cached)

	saveCommandHashes(guildID, cached)
	return nil
}

// buildCommandDefinitions maps the command vocabulary to slash
// definitions.
func buildCommandDefinitions() []*discordgo.ApplicationCommand {
	all := command.All()
	defs := make([]*discordgo.ApplicationCommand, 0, len(all))
	for _, c := range all {
		defs = append(defs, &discordgo.ApplicationCommand{
			Name:        c.Name,
			Description: c.Description,
			Type:        discordgo.ChatApplicationCommand,
			Options:     c.Options,
		})
	}
	return defs
}

// obsoleteCommands returns the remote commands with no local definition.
func obsoleteCommands(remote, local []*discordgo.ApplicationCommand) []*discordgo.ApplicationCommand {
	localNames := make(map[string]struct{}, len(local))
	for _, d := range local {
		localNames[d.Name] = struct{}{}
	}
	var out []*discordgo.ApplicationCommand
	for _, rc := range remote {
		if _, exists := localNames[rc.Name]; !exists {
			out = append(out, rc)
		}
	}
	return out
}

func (b *Bot) deleteObsoleteCommands(appID, guildID string, remote, local []*discordgo.ApplicationCommand, hashes map[string]string) {
	for _, rc := range obsoleteCommands(remote, local) {
		log.Printf("[INFO] [%s] Deleting obsolete command: %s", guildID, rc.Name)
		if err := b.dg.ApplicationCommandDelete(appID, guildID, rc.ID); err != nil {
			log.Printf("[ERR] [%s] Failed to delete %s: %v", guildID, rc.Name, err)
		} else {
			delete(hashes, rc.Name)
		}
	}
}

func (b *Bot) upsertChangedCommands(appID, guildID string, defs []*discordgo.ApplicationCommand, hashes map[string]string) {
	var changed []*discordgo.ApplicationCommand
	for _, d := range defs {
		if hashes[d.Name] != hashCommand(d) {
			changed = append(changed, d)
		}
	}
	if len(changed) == 0 {
		return
	}

	log.Printf("[INFO] [%s] Registering %d changed command(s)...", guildID, len(changed))
	// Discord allows 200 application command writes per day per guild;
	// pace well under the short-window limit too.
	limiter := rate.NewLimiter(rate.Limit(20), 1)
	for _, d := range changed {
		if err := limiter.Wait(context.Background()); err != nil {
			return
		}
		if _, err := b.dg.ApplicationCommandCreate(appID, guildID, d); err != nil {
			log.Printf("[ERR] [%s] Failed to register %s: %v", guildID, d.Name, err)
		} else {
			log.Printf("[DONE] [%s] Registered: %s", guildID, d.Name)
			hashes[d.Name] = hashCommand(d)
		}
	}
}

// appID returns the bot's application ID, fetching it when the session
// state has not been populated yet.
func (b *Bot) appID() (string, error) {
	if id := b.dg.State.User.ID; id != "" {
		return id, nil
	}
	u, err := b.dg.User("@me")
	if err != nil {
		return "", fmt.Errorf("fetch bot user: %w", err)
	}
	return u.ID, nil
}

// --- Command hash cache ---

func commandHashPath(guildID string) string {
	return filepath.Join("data", "commands", guildID+".json")
}

func loadCommandHashes(guildID string) map[string]string {
	out := make(map[string]string)
	if data, err := os.ReadFile(commandHashPath(guildID)); err == nil {
		_ = json.Unmarshal(data, &out)
	}
	return out
}

func saveCommandHashes(guildID string, hashes map[string]string) {
	path := commandHashPath(guildID)
	_ = os.MkdirAll(filepath.Dir(path), 0755)
	if data, err := json.MarshalIndent(hashes, "", "  "); err == nil {
		_ = os.WriteFile(path, data, 0644)
	}
}

// hashCommand returns a deterministic SHA-1 of a command's stable
// fields, used to skip re-registration when nothing changed.
func hashCommand(c *discordgo.ApplicationCommand) string {
	stable := map[string]interface{}{
		"name":        c.Name,
		"description": c.Description,
		"type":        c.Type,
	}
	if len(c.Options) > 0 {
		stable["options"] = normalizeOptions(c.Options)
	}
	data, _ := json.Marshal(stable)
	sum := sha1.Sum(data)
	return fmt.Sprintf("%x", sum)
}

func normalizeOptions(opts []*discordgo.ApplicationCommandOption) []map[string]interface{} {
	out := make([]map[string]interface{}, len(opts))
	for i, o := range opts {
		entry := map[string]interface{}{
			"name":        o.Name,
			"description": o.Description,
			"type":        o.Type,
			"required":    o.Required,
		}
		if len(o.Choices) > 0 {
			choices := make([]map[string]interface{}, len(o.Choices))
			for j, ch := range o.Choices {
				choices[j] = map[string]interface{}{"name": ch.Name, "value": ch.Value}
			}
			entry["choices"] = choices
		}
		if len(o.Options) > 0 {
			entry["options"] = normalizeOptions(o.Options)
		}
		out[i] = entry
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i]["name"].(string) < out[j]["name"].(string)
	})
	return out
}
